package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fpang/gemini-photo-edit/internal/chat"
	"github.com/fpang/gemini-photo-edit/internal/filehandler"
	"github.com/fpang/gemini-photo-edit/internal/s3util"
	"github.com/ncruces/zenity"
	"github.com/rs/zerolog/log"
)

// ErrPickCanceled is returned by PickImage when the dialog is dismissed.
var ErrPickCanceled = errors.New("file selection canceled")

// presignExpiry is how long the share link printed after an S3 upload stays valid.
const presignExpiry = time.Hour

// LoadSource reads a source photo from a local path or an s3:// URI.
func LoadSource(ctx context.Context, path string, store *S3) (*filehandler.ImageFile, error) {
	if !s3util.IsURI(path) {
		return filehandler.LoadImageFile(path)
	}

	loc, err := s3util.ParseURI(path)
	if err != nil {
		return nil, err
	}
	client, err := store.Client(ctx)
	if err != nil {
		return nil, err
	}
	tmpPath, cleanup, err := s3util.DownloadToTempFile(ctx, client, loc)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	file, err := filehandler.LoadImageFile(tmpPath)
	if err != nil {
		return nil, err
	}
	file.Path = loc.Key
	return file, nil
}

// SaveResult writes an edited image to target, which may be a local path or
// an s3:// URI. An empty target picks DefaultOutputPath in outputDir. It
// returns where the image went and, for S3 uploads, a share link when one
// could be signed.
func SaveResult(ctx context.Context, img *chat.Image, target, outputDir, sourceName string, store *S3) (dest, shareURL string, err error) {
	if img == nil || len(img.Data) == 0 {
		return "", "", errors.New("no edited image to save")
	}
	if target == "" {
		target = DefaultOutputPath(outputDir, sourceName, img.MIMEType)
	}

	if !s3util.IsURI(target) {
		if dir := filepath.Dir(target); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return "", "", fmt.Errorf("failed to create output directory: %w", err)
			}
		}
		if err := os.WriteFile(target, img.Data, 0o644); err != nil {
			return "", "", fmt.Errorf("failed to write %s: %w", target, err)
		}
		log.Info().Str("path", target).Int("size_bytes", len(img.Data)).Msg("Edited image saved")
		return target, "", nil
	}

	loc, err := s3util.ParseURI(target)
	if err != nil {
		return "", "", err
	}
	client, err := store.Client(ctx)
	if err != nil {
		return "", "", err
	}
	if err := s3util.UploadResult(ctx, client, loc, img.Data, img.MIMEType); err != nil {
		return "", "", err
	}

	shareURL, err = store.ShareURL(ctx, loc)
	if err != nil {
		log.Warn().Err(err).Str("location", loc.String()).Msg("Could not create share link")
		shareURL = ""
	}
	return loc.String(), shareURL, nil
}

// DefaultOutputPath names an edited image after its source, e.g.
// "beach.jpg" becomes "<outputDir>/beach-edited.png".
func DefaultOutputPath(outputDir, sourceName, mimeType string) string {
	stem := strings.TrimSuffix(filepath.Base(sourceName), filepath.Ext(sourceName))
	if stem == "" || stem == "." || stem == string(filepath.Separator) {
		stem = "edit-" + time.Now().Format("20060102-150405")
	}
	return filepath.Join(outputDir, stem+"-edited"+filehandler.ExtensionFor(mimeType))
}

// PickImage opens the native file dialog filtered to supported images.
func PickImage() (string, error) {
	patterns := make([]string, 0, len(filehandler.SupportedImageExtensions))
	for ext := range filehandler.SupportedImageExtensions {
		patterns = append(patterns, "*"+ext)
	}
	sort.Strings(patterns)

	path, err := zenity.SelectFile(
		zenity.Title("Select a photo to edit"),
		zenity.FileFilters{
			{Name: "Images", Patterns: patterns},
		},
	)
	if err != nil {
		if errors.Is(err, zenity.ErrCanceled) {
			return "", ErrPickCanceled
		}
		return "", fmt.Errorf("file picker failed: %w", err)
	}
	return path, nil
}
