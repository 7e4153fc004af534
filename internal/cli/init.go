package cli

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/fpang/gemini-photo-edit/internal/auth"
	"github.com/fpang/gemini-photo-edit/internal/chat"
	"github.com/fpang/gemini-photo-edit/internal/config"
	"github.com/fpang/gemini-photo-edit/internal/s3util"
	"github.com/rs/zerolog/log"
)

// NewEditor builds the Gemini image client from cfg. A missing API key is
// logged but not fatal: every edit then fails with a message naming the key.
func NewEditor(ctx context.Context, cfg config.Config) *chat.GeminiImageClient {
	apiKey, err := auth.GetAPIKey()
	if err != nil {
		log.Warn().Err(err).Msg("No API key available, edits will fail until one is configured")
	}

	editor := chat.NewGeminiImageClient(ctx, chat.GeminiImageConfig{
		APIKey:  apiKey,
		Model:   cfg.Model,
		BaseURL: cfg.BaseURL,
		Timeout: cfg.RequestTimeout,
	})

	log.Info().Str("model", editor.Model()).Msg("Gemini image client initialized")
	return editor
}

// S3 lazily creates one S3 client from the default AWS credential chain.
// Local-only sessions never touch AWS configuration.
type S3 struct {
	client  s3util.Client
	presign *s3.PresignClient
}

// NewS3WithClient returns an S3 that always uses client. Share links are
// only available when client is an *s3.Client.
func NewS3WithClient(client s3util.Client) *S3 {
	s := &S3{client: client}
	if c, ok := client.(*s3.Client); ok {
		s.presign = s3.NewPresignClient(c)
	}
	return s
}

// Client returns the shared S3 client, creating it on first use.
func (s *S3) Client(ctx context.Context) (s3util.Client, error) {
	if s.client != nil {
		return s.client, nil
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	c := s3.NewFromConfig(awsCfg)
	s.client = c
	s.presign = s3.NewPresignClient(c)
	log.Debug().Str("region", awsCfg.Region).Msg("S3 client initialized")
	return s.client, nil
}

// ShareURL returns a time-limited GET link for loc, or "" when the client
// cannot presign.
func (s *S3) ShareURL(ctx context.Context, loc s3util.Location) (string, error) {
	if s.presign == nil {
		return "", nil
	}
	return s3util.GeneratePresignedURL(ctx, s.presign, loc, presignExpiry)
}
