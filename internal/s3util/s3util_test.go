package s3util

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
)

func TestParseURI(t *testing.T) {
	tests := []struct {
		in      string
		want    Location
		wantErr bool
	}{
		{"s3://photos/edits/out.png", Location{"photos", "edits/out.png"}, false},
		{"S3://photos/a.jpg", Location{"photos", "a.jpg"}, false},
		{"s3://photos", Location{}, true},
		{"s3://photos/", Location{}, true},
		{"s3:///key.png", Location{}, true},
		{"s3://photos/dir/", Location{}, true},
		{"/local/path.png", Location{}, true},
		{"https://photos.s3.amazonaws.com/a.png", Location{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseURI(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidURI) {
					t.Errorf("ParseURI(%q) error = %v, want ErrInvalidURI", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseURI(%q) error = %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseURI(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestLocationString(t *testing.T) {
	if got := (Location{Bucket: "b", Key: "k/x.png"}).String(); got != "s3://b/k/x.png" {
		t.Errorf("String() = %q", got)
	}
}

type fakeClient struct {
	put     *s3.PutObjectInput
	putBody []byte
	putErr  error

	getBody string
	getErr  error
}

func (f *fakeClient) GetObject(ctx context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(f.getBody))}, nil
}

func (f *fakeClient) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.put = in
	if in.Body != nil {
		f.putBody, _ = io.ReadAll(in.Body)
	}
	return &s3.PutObjectOutput{}, f.putErr
}

func TestUploadResult(t *testing.T) {
	client := &fakeClient{}
	loc := Location{Bucket: "photos", Key: "edits/out.png"}

	if err := UploadResult(context.Background(), client, loc, []byte("png-bytes"), "image/png"); err != nil {
		t.Fatalf("UploadResult() error = %v", err)
	}
	if *client.put.Bucket != "photos" || *client.put.Key != "edits/out.png" {
		t.Errorf("uploaded to %s/%s", *client.put.Bucket, *client.put.Key)
	}
	if *client.put.ContentType != "image/png" {
		t.Errorf("ContentType = %q", *client.put.ContentType)
	}
	if *client.put.Tagging != projectTag {
		t.Errorf("Tagging = %q, want %q", *client.put.Tagging, projectTag)
	}
	if !bytes.Equal(client.putBody, []byte("png-bytes")) {
		t.Errorf("body = %q", client.putBody)
	}
}

func TestUploadResultError(t *testing.T) {
	client := &fakeClient{putErr: errors.New("access denied")}
	err := UploadResult(context.Background(), client, Location{"b", "k.png"}, []byte("x"), "image/png")
	if err == nil || !strings.Contains(err.Error(), "access denied") {
		t.Errorf("UploadResult() error = %v, want wrapped access denied", err)
	}
}

func TestDownloadToTempFile(t *testing.T) {
	client := &fakeClient{getBody: "jpeg-bytes"}

	path, cleanup, err := DownloadToTempFile(context.Background(), client, Location{"photos", "in/beach.JPG"})
	if err != nil {
		t.Fatalf("DownloadToTempFile() error = %v", err)
	}
	if filepath.Ext(path) != ".JPG" {
		t.Errorf("temp file %q lost the key's extension", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "jpeg-bytes" {
		t.Errorf("content = %q", data)
	}

	cleanup()
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("temp file still present after cleanup: %v", err)
	}
}

func TestDownloadToTempFileError(t *testing.T) {
	client := &fakeClient{getErr: errors.New("no such key")}
	if _, _, err := DownloadToTempFile(context.Background(), client, Location{"b", "k.png"}); err == nil {
		t.Error("DownloadToTempFile() error = nil, want failure")
	}
}
