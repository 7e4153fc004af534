package s3util

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog/log"
)

// UploadResult writes an edited image to S3, tagged for cost allocation.
func UploadResult(ctx context.Context, client Client, loc Location, data []byte, contentType string) error {
	log.Debug().
		Str("bucket", loc.Bucket).
		Str("key", loc.Key).
		Int("size_bytes", len(data)).
		Msg("Uploading edited image to S3")

	_, err := client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &loc.Bucket,
		Key:         &loc.Key,
		Body:        bytes.NewReader(data),
		ContentType: &contentType,
		Tagging:     ProjectTagging(),
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", loc, err)
	}

	log.Info().Str("location", loc.String()).Msg("Edited image uploaded to S3")
	return nil
}

// GeneratePresignedURL creates a pre-signed GET URL for an S3 object.
func GeneratePresignedURL(ctx context.Context, presignClient *s3.PresignClient, loc Location, expiry time.Duration) (string, error) {
	result, err := presignClient.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: &loc.Bucket, Key: &loc.Key,
	}, func(opts *s3.PresignOptions) {
		opts.Expires = expiry
	})
	if err != nil {
		return "", fmt.Errorf("presign GetObject: %w", err)
	}
	return result.URL, nil
}
