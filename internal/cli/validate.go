package cli

import (
	"errors"

	"github.com/fpang/gemini-photo-edit/internal/auth"
)

// DescribeValidationError turns an API key check failure into a user-facing hint.
func DescribeValidationError(err error) string {
	var validationErr *auth.ValidationError
	if !errors.As(err, &validationErr) {
		return "Unexpected error during API key validation: " + err.Error()
	}
	switch validationErr.Type {
	case auth.ErrTypeNoKey:
		return "No API key configured. Set GEMINI_API_KEY or add it to .env"
	case auth.ErrTypeInvalidKey:
		return "Invalid API key. Please check your API key and try again"
	case auth.ErrTypeNetworkError:
		return "Network error. Please check your internet connection"
	case auth.ErrTypeQuotaExceeded:
		return "API quota exceeded. Please try again later or check your usage limits"
	default:
		return "API key validation failed: " + validationErr.Error()
	}
}
