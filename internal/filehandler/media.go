// Package filehandler reads source photos from disk and describes them:
// media type from the extension, pixel dimensions from the image header and
// an EXIF summary via evanoberholster/imagemeta.
package filehandler

import (
	"bytes"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
)

// MaxImageBytes caps how large a source photo may be. Gemini rejects inline
// request bodies above 20MB and the payload grows by a third once base64 encoded.
const MaxImageBytes = 15 << 20

// SupportedImageExtensions maps file extensions to the media types Gemini accepts.
var SupportedImageExtensions = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
	".heic": "image/heic",
	".heif": "image/heif",
}

// ImageFile is a source photo loaded into memory.
type ImageFile struct {
	Path     string
	MIMEType string
	Data     []byte
	Width    int
	Height   int
	Metadata *ImageMetadata
}

// Name returns the file's base name.
func (f *ImageFile) Name() string {
	return filepath.Base(f.Path)
}

// Dimensions returns "WxH", or "unknown size" when the header could not be decoded.
func (f *ImageFile) Dimensions() string {
	if f.Width == 0 || f.Height == 0 {
		return "unknown size"
	}
	return fmt.Sprintf("%dx%d", f.Width, f.Height)
}

// LoadImageFile reads an image from disk. The media type comes from the file
// extension; files with other extensions are loaded with the type sniffed from
// their content so the caller can decide whether to accept them.
// Dimension and EXIF extraction are best-effort.
func LoadImageFile(filePath string) (*ImageFile, error) {
	log.Debug().Str("path", filePath).Msg("Loading image file")

	info, err := os.Stat(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("file not found: %s", filePath)
		}
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("path is a directory, not a file: %s", filePath)
	}
	if info.Size() > MaxImageBytes {
		return nil, fmt.Errorf("file is %d bytes, limit is %d", info.Size(), MaxImageBytes)
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	mimeType, err := GetMIMEType(filepath.Ext(filePath))
	if err != nil {
		mimeType = DetectMIMEType(data)
	}

	file := &ImageFile{
		Path:     filePath,
		MIMEType: mimeType,
		Data:     data,
	}

	if IsImageMIME(mimeType) {
		if w, h, err := DecodeDimensions(data); err == nil {
			file.Width, file.Height = w, h
		} else {
			log.Debug().Err(err).Str("path", filePath).Msg("Could not decode image dimensions")
		}

		if meta, err := ExtractImageMetadata(bytes.NewReader(data)); err == nil {
			file.Metadata = meta
		} else {
			log.Debug().Err(err).Str("path", filePath).Msg("No EXIF metadata, continuing without it")
		}
	}

	log.Info().
		Str("path", filePath).
		Str("mime_type", mimeType).
		Int("size_bytes", len(data)).
		Str("dimensions", file.Dimensions()).
		Msg("Image file loaded")

	return file, nil
}

// GetMIMEType returns the MIME type for a given file extension.
func GetMIMEType(ext string) (string, error) {
	if mimeType, ok := SupportedImageExtensions[strings.ToLower(ext)]; ok {
		return mimeType, nil
	}
	return "", fmt.Errorf("unsupported file extension: %s", ext)
}

// DetectMIMEType sniffs the media type of data, without parameters.
func DetectMIMEType(data []byte) string {
	mediaType, _, err := mime.ParseMediaType(http.DetectContentType(data))
	if err != nil {
		return "application/octet-stream"
	}
	return mediaType
}

// IsImage returns true if the file extension corresponds to a supported image.
func IsImage(ext string) bool {
	_, ok := SupportedImageExtensions[strings.ToLower(ext)]
	return ok
}

// IsImageMIME reports whether a declared media type names an image
// (any "image/*" type, parameters allowed).
func IsImageMIME(mediaType string) bool {
	parsed, _, err := mime.ParseMediaType(mediaType)
	if err != nil {
		return false
	}
	return strings.HasPrefix(parsed, "image/")
}

// IsSupportedImageMIME reports whether mediaType is one Gemini accepts as inline image data.
func IsSupportedImageMIME(mediaType string) bool {
	mediaType = strings.ToLower(mediaType)
	for _, t := range SupportedImageExtensions {
		if t == mediaType {
			return true
		}
	}
	return false
}

// ExtensionFor returns the preferred file extension for a media type, or ".bin".
func ExtensionFor(mediaType string) string {
	switch strings.ToLower(mediaType) {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	case "image/heic":
		return ".heic"
	case "image/heif":
		return ".heif"
	default:
		return ".bin"
	}
}

// CoordinatesToDMS converts decimal degrees to degrees, minutes, seconds format.
func CoordinatesToDMS(lat, lon float64) string {
	latDir := "N"
	if lat < 0 {
		latDir = "S"
		lat = -lat
	}

	lonDir := "E"
	if lon < 0 {
		lonDir = "W"
		lon = -lon
	}

	latDeg := int(lat)
	latMin := int((lat - float64(latDeg)) * 60)
	latSec := ((lat-float64(latDeg))*60 - float64(latMin)) * 60

	lonDeg := int(lon)
	lonMin := int((lon - float64(lonDeg)) * 60)
	lonSec := ((lon-float64(lonDeg))*60 - float64(lonMin)) * 60

	return fmt.Sprintf("%d°%d'%.2f\"%s, %d°%d'%.2f\"%s",
		latDeg, latMin, latSec, latDir,
		lonDeg, lonMin, lonSec, lonDir)
}
