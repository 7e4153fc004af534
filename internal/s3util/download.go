package s3util

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog/log"
)

// Client is the subset of *s3.Client used here.
type Client interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// DownloadToTempFile downloads an S3 object to a new temporary file, keeping
// the key's extension so the media type can still be derived from the name.
// The returned cleanup function removes the file.
func DownloadToTempFile(ctx context.Context, client Client, loc Location) (string, func(), error) {
	log.Debug().Str("bucket", loc.Bucket).Str("key", loc.Key).Msg("Downloading from S3")

	result, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: &loc.Bucket,
		Key:    &loc.Key,
	})
	if err != nil {
		return "", nil, fmt.Errorf("S3 GetObject: %w", err)
	}
	defer result.Body.Close()

	tmpFile, err := os.CreateTemp("", "photo-edit-*"+filepath.Ext(loc.Key))
	if err != nil {
		return "", nil, fmt.Errorf("create temp file: %w", err)
	}
	cleanup := func() { os.Remove(tmpFile.Name()) }

	if _, err := io.Copy(tmpFile, result.Body); err != nil {
		tmpFile.Close()
		cleanup()
		return "", nil, fmt.Errorf("download %s: %w", loc, err)
	}
	if err := tmpFile.Close(); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("close temp file: %w", err)
	}

	return tmpFile.Name(), cleanup, nil
}
