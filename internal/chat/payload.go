package chat

import (
	"encoding/base64"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/fpang/gemini-photo-edit/internal/filehandler"
)

// ErrInvalidPayload is returned when an image payload cannot be prepared for upload.
var ErrInvalidPayload = errors.New("invalid image payload")

// dataURLHeader matches "data:image/png;base64," style prefixes.
var dataURLHeader = regexp.MustCompile(`^data:(image/[\w.+-]+);base64,`)

// NormalizePayload strips an embedded data URL header from payload and returns
// the raw base64 text together with the media type to send. A payload without
// a header passes through unchanged. declaredType wins over the header's type
// when both are present.
func NormalizePayload(payload, declaredType string) (string, string, error) {
	mimeType := strings.ToLower(strings.TrimSpace(declaredType))

	if !strings.HasPrefix(payload, "data:") {
		return payload, mimeType, nil
	}

	m := dataURLHeader.FindStringSubmatch(payload)
	if m == nil {
		return "", "", fmt.Errorf("%w: malformed data URL header", ErrInvalidPayload)
	}
	headerType := strings.ToLower(m[1])
	if !filehandler.IsSupportedImageMIME(headerType) {
		return "", "", fmt.Errorf("%w: unsupported image type %s", ErrInvalidPayload, headerType)
	}
	if mimeType == "" {
		mimeType = headerType
	}

	return payload[len(m[0]):], mimeType, nil
}

// decodePayload turns normalized base64 text into the bytes handed to the SDK.
// Decoding is strict so the SDK re-encodes exactly the text it was given.
func decodePayload(encoded string) ([]byte, error) {
	data, err := base64.StdEncoding.Strict().DecodeString(strings.TrimSpace(encoded))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty image data", ErrInvalidPayload)
	}
	return data, nil
}
