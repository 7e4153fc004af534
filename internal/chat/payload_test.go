package chat

import (
	"errors"
	"testing"
)

func TestNormalizePayload(t *testing.T) {
	tests := []struct {
		name         string
		payload      string
		declared     string
		wantEncoded  string
		wantMIMEType string
		wantErr      bool
	}{
		{"raw base64", "AAAA", "image/jpeg", "AAAA", "image/jpeg", false},
		{"header stripped", "data:image/png;base64,AAAA", "image/png", "AAAA", "image/png", false},
		{"declared wins over header", "data:image/png;base64,AAAA", "image/jpeg", "AAAA", "image/jpeg", false},
		{"header fills missing type", "data:image/webp;base64,AAAA", "", "AAAA", "image/webp", false},
		{"declared type lowercased", "AAAA", " Image/PNG ", "AAAA", "image/png", false},
		{"missing base64 marker", "data:image/png,AAAA", "image/png", "", "", true},
		{"non-image header", "data:text/plain;base64,AAAA", "", "", "", true},
		{"unsupported image header", "data:image/tiff;base64,AAAA", "", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			encoded, mimeType, err := NormalizePayload(tt.payload, tt.declared)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidPayload) {
					t.Errorf("NormalizePayload() error = %v, want ErrInvalidPayload", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("NormalizePayload() error = %v", err)
			}
			if encoded != tt.wantEncoded {
				t.Errorf("encoded = %q, want %q", encoded, tt.wantEncoded)
			}
			if mimeType != tt.wantMIMEType {
				t.Errorf("mimeType = %q, want %q", mimeType, tt.wantMIMEType)
			}
		})
	}
}

func TestDecodePayload(t *testing.T) {
	data, err := decodePayload("aGVsbG8=")
	if err != nil {
		t.Fatalf("decodePayload() error = %v", err)
	}
	if string(data) != "hello" {
		t.Errorf("decodePayload() = %q, want hello", data)
	}

	// "AAB=" sets padding bits that a canonical encoder leaves zero.
	for _, bad := range []string{"", "not base64!", "   ", "AAB=", "aGVsbG9="} {
		if _, err := decodePayload(bad); !errors.Is(err, ErrInvalidPayload) {
			t.Errorf("decodePayload(%q) error = %v, want ErrInvalidPayload", bad, err)
		}
	}
}

func TestImageDataURLRoundTrip(t *testing.T) {
	img := &Image{Data: []byte{0xff, 0xd8, 0xff}, MIMEType: "image/jpeg"}
	url := img.DataURL()
	if url != "data:image/jpeg;base64,/9j/" {
		t.Fatalf("DataURL() = %q", url)
	}

	encoded, mimeType, err := NormalizePayload(url, "")
	if err != nil {
		t.Fatal(err)
	}
	data, err := decodePayload(encoded)
	if err != nil {
		t.Fatal(err)
	}
	if mimeType != "image/jpeg" || string(data) != string(img.Data) {
		t.Errorf("round trip = %q %v, want image/jpeg %v", mimeType, data, img.Data)
	}
}

func TestFailureKindString(t *testing.T) {
	tests := map[FailureKind]string{
		FailureService:        "service_failure",
		FailureServiceRefusal: "service_refusal",
		FailureInvalidInput:   "invalid_input",
	}
	for kind, want := range tests {
		if got := kind.String(); got != want {
			t.Errorf("FailureKind(%d).String() = %q, want %q", kind, got, want)
		}
	}
}

func TestIsImageModel(t *testing.T) {
	if !IsImageModel(DefaultImageModel) {
		t.Errorf("IsImageModel(%q) = false", DefaultImageModel)
	}
	if IsImageModel("gemini-2.5-flash") {
		t.Error("IsImageModel(gemini-2.5-flash) = true for a text model")
	}
}
