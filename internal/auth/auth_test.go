package auth

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"google.golang.org/genai"
)

func TestGetAPIKeyFromEnv(t *testing.T) {
	const testKey = "test-api-key-12345"

	t.Setenv("GEMINI_API_KEY", testKey)

	key, err := GetAPIKey()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if key != testKey {
		t.Errorf("expected key %q, got %q", testKey, key)
	}
}

func TestGetAPIKeyTrimsWhitespace(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "  padded-key \n")

	key, err := GetAPIKey()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if key != "padded-key" {
		t.Errorf("expected trimmed key, got %q", key)
	}
}

func TestGetAPIKeyNoSource(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("HOME", t.TempDir())

	_, err := GetAPIKey()
	if err == nil {
		t.Fatal("expected error when no API key source available")
	}
	if !errors.Is(err, ErrNoAPIKey) {
		t.Errorf("expected ErrNoAPIKey, got %v", err)
	}
}

func TestGetCredentialPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path, err := getCredentialPath()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := filepath.Join(home, ".gemini-photo-edit", "credentials.gpg")
	if path != expected {
		t.Errorf("expected path %q, got %q", expected, path)
	}
}

func TestGetFromGPGFileNotFound(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	_, err := getFromGPG()
	if err == nil {
		t.Error("expected error when credentials file does not exist")
	}
}

func TestGetPassphrasePathRejectsOpenPermissions(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	dir := filepath.Join(home, ".gemini-photo-edit")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, ".gpg-passphrase")
	if err := os.WriteFile(path, []byte("secret"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Chmod(path, 0o644); err != nil {
		t.Fatal(err)
	}

	if _, ok := getPassphrasePath(); ok {
		t.Error("expected world-readable passphrase file to be skipped")
	}

	if err := os.Chmod(path, 0o600); err != nil {
		t.Fatal(err)
	}
	got, ok := getPassphrasePath()
	if !ok || got != path {
		t.Errorf("getPassphrasePath() = (%q, %v), want (%q, true)", got, ok, path)
	}
}

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ValidationErrorType
	}{
		{"missing key", fmt.Errorf("%w: GEMINI_API_KEY is not set", ErrNoAPIKey), ErrTypeNoKey},
		{"api 401", genai.APIError{Code: 401, Message: "API key not valid"}, ErrTypeInvalidKey},
		{"api 400", genai.APIError{Code: 400, Message: "bad"}, ErrTypeInvalidKey},
		{"api 429", genai.APIError{Code: 429, Message: "slow down"}, ErrTypeQuotaExceeded},
		{"api 503", genai.APIError{Code: 503, Message: "unavailable"}, ErrTypeNetworkError},
		{"api other", genai.APIError{Code: 418, Message: "teapot"}, ErrTypeUnknown},
		{"wrapped api", fmt.Errorf("generate: %w", genai.APIError{Code: 403}), ErrTypeInvalidKey},
		{"message invalid key", errors.New("API key not valid. Please pass a valid API key."), ErrTypeInvalidKey},
		{"message quota", errors.New("RESOURCE EXHAUSTED: quota"), ErrTypeQuotaExceeded},
		{"dial failure", errors.New("dial tcp: lookup example: no such host"), ErrTypeNetworkError},
		{"deadline", fmt.Errorf("request: %w", context.DeadlineExceeded), ErrTypeNetworkError},
		{"unknown", errors.New("something odd"), ErrTypeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyError(tt.err)
			if got == nil {
				t.Fatal("ClassifyError() returned nil")
			}
			if got.Type != tt.want {
				t.Errorf("ClassifyError() type = %v, want %v", got.Type, tt.want)
			}
			if got.Err == nil {
				t.Errorf("ClassifyError() should keep the underlying error")
			}
		})
	}
}

func TestClassifyErrorNil(t *testing.T) {
	if got := ClassifyError(nil); got != nil {
		t.Errorf("ClassifyError(nil) = %v, want nil", got)
	}
}

func TestClassifyErrorPassesThroughValidationError(t *testing.T) {
	in := &ValidationError{Type: ErrTypeQuotaExceeded, Message: "already classified"}
	if got := ClassifyError(fmt.Errorf("wrap: %w", in)); got != in {
		t.Errorf("ClassifyError() = %v, want the original ValidationError", got)
	}
}

func TestValidationErrorMessage(t *testing.T) {
	err := &ValidationError{Message: "outer", Err: errors.New("inner")}
	if err.Error() != "outer: inner" {
		t.Errorf("Error() = %q", err.Error())
	}
	if (&ValidationError{Message: "solo"}).Error() != "solo" {
		t.Error("Error() without wrapped error should be the message")
	}
}
