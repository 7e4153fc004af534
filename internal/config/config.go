// Package config resolves runtime settings from the environment. Values in
// .env and .env.local are loaded first and never override variables already
// set in the process environment.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/fpang/gemini-photo-edit/internal/chat"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Environment variables read by Load.
const (
	EnvModel          = "GEMINI_IMAGE_MODEL"
	EnvBaseURL        = "GEMINI_BASE_URL"
	EnvTimeoutSeconds = "PHOTO_EDIT_TIMEOUT_SECONDS"
	EnvOutputDir      = "PHOTO_EDIT_OUTPUT_DIR"
	EnvMetrics        = "PHOTO_EDIT_METRICS"
	EnvLogLevel       = "GEMINI_LOG_LEVEL"
)

// Config holds the settings for one process.
type Config struct {
	Model          string
	BaseURL        string
	RequestTimeout time.Duration
	OutputDir      string
	MetricsEnabled bool
	LogLevel       string
}

// Load reads .env files from the working directory, then the environment.
// Missing files are not an error.
func Load() Config {
	_ = godotenv.Load(".env", ".env.local")

	c := Config{
		Model:          getenv(EnvModel, chat.DefaultImageModel),
		BaseURL:        strings.TrimRight(getenv(EnvBaseURL, ""), "/"),
		RequestTimeout: time.Duration(getEnvInt(EnvTimeoutSeconds, int(chat.DefaultTimeout/time.Second))) * time.Second,
		OutputDir:      getenv(EnvOutputDir, "."),
		MetricsEnabled: getEnvBool(EnvMetrics),
		LogLevel:       getenv(EnvLogLevel, "warn"),
	}

	log.Debug().
		Str("model", c.Model).
		Dur("timeout", c.RequestTimeout).
		Str("output_dir", c.OutputDir).
		Msg("Config loaded")
	return c
}

func getenv(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}

// getEnvInt returns a positive integer from k, or def when unset or invalid.
func getEnvInt(k string, def int) int {
	v := getenv(k, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		log.Warn().Str("key", k).Str("value", v).Int("default", def).Msg("Invalid integer in environment, using default")
		return def
	}
	return n
}

func getEnvBool(k string) bool {
	b, err := strconv.ParseBool(getenv(k, "false"))
	return err == nil && b
}

// CheckModel reports whether Model is a known image model and logs a warning
// when it is not. Call it once the model is final, after any flag override.
func (c Config) CheckModel() bool {
	if chat.IsImageModel(c.Model) {
		return true
	}
	log.Warn().Str("model", c.Model).Msg("Model is not a known image model, edits may return text only")
	return false
}
