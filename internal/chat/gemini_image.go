package chat

// gemini_image.go is the single boundary between an edit session and the
// Gemini API. Every fault on the way out or back is folded into a *Failure.

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/fpang/gemini-photo-edit/internal/auth"
	"github.com/fpang/gemini-photo-edit/internal/metrics"
	"github.com/rs/zerolog/log"
	"google.golang.org/genai"
)

// Failure reasons used when the service gives nothing better.
const (
	ReasonNoContent    = "No content returned from the model."
	ReasonNoImage      = "No valid image data found in the response."
	ReasonGeneric      = "Failed to generate the edited image."
	refusalReasonStart = "Model returned text instead of image: "
)

// DefaultTimeout bounds a single edit request. Image generation can take 10-30s.
const DefaultTimeout = 120 * time.Second

// metricsNamespace groups the EMF metrics emitted by the gateway.
const metricsNamespace = "PhotoEdit"

// EditRequest is one image + instruction pair to send to the model.
type EditRequest struct {
	// Payload is base64 text, optionally prefixed with a data URL header.
	Payload string
	// MIMEType is the declared media type of the source image.
	MIMEType string
	// Instruction is the natural language edit description.
	Instruction string
}

// GeminiImageConfig configures a GeminiImageClient.
type GeminiImageConfig struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

// GeminiImageClient sends image edits to a Gemini image model through the genai SDK.
// It holds no per-session state; the SDK client is built once and reused.
type GeminiImageClient struct {
	client  *genai.Client
	model   string
	initErr error
}

// NewGeminiImageClient builds a client from cfg. A missing API key or SDK
// construction error does not fail here; it is reported as a *Failure by
// every EditImage call instead.
func NewGeminiImageClient(ctx context.Context, cfg GeminiImageConfig) *GeminiImageClient {
	c := &GeminiImageClient{model: cfg.Model}
	if c.model == "" {
		c.model = DefaultImageModel
	}

	if strings.TrimSpace(cfg.APIKey) == "" {
		c.initErr = fmt.Errorf("%w: GEMINI_API_KEY is not set", auth.ErrNoAPIKey)
		return c
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	clientCfg := &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: &http.Client{Timeout: timeout},
	}
	if cfg.BaseURL != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		c.initErr = fmt.Errorf("failed to create Gemini client: %w", err)
		return c
	}
	c.client = client
	return c
}

// Model returns the model ID edits are sent to.
func (c *GeminiImageClient) Model() string {
	return c.model
}

// Ready returns the error that will fail every edit, or nil if requests can be sent.
func (c *GeminiImageClient) Ready() error {
	return c.initErr
}

// ValidateKey checks the API key with one minimal request to the configured
// model. It returns nil or an *auth.ValidationError.
func (c *GeminiImageClient) ValidateKey(ctx context.Context) error {
	if c.initErr != nil {
		return auth.ClassifyError(c.initErr)
	}
	return auth.ValidateAPIKey(ctx, c.client, c.model)
}

// EditImage sends one edit request and returns an *Image or a *Failure.
// It never returns nil.
func (c *GeminiImageClient) EditImage(ctx context.Context, req EditRequest) Outcome {
	startTime := time.Now()

	if c.initErr != nil {
		return c.fail(c.initErr, startTime)
	}

	encoded, mimeType, err := NormalizePayload(req.Payload, req.MIMEType)
	if err != nil {
		return c.invalid(err, startTime)
	}
	if !strings.HasPrefix(mimeType, "image/") {
		return c.invalid(fmt.Errorf("%w: media type %q is not an image", ErrInvalidPayload, mimeType), startTime)
	}
	data, err := decodePayload(encoded)
	if err != nil {
		return c.invalid(err, startTime)
	}

	log.Info().
		Str("model", c.model).
		Int("image_bytes", len(data)).
		Str("image_mime", mimeType).
		Int("instruction_len", len(req.Instruction)).
		Msg("Sending image to Gemini for editing")

	contents := []*genai.Content{{
		Role: "user",
		Parts: []*genai.Part{
			{InlineData: &genai.Blob{MIMEType: mimeType, Data: data}},
			{Text: req.Instruction},
		},
	}}
	config := &genai.GenerateContentConfig{
		ResponseModalities: []string{"IMAGE", "TEXT"},
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.model, contents, config)
	if err != nil {
		return c.fail(err, startTime)
	}

	out := extractOutcome(resp)
	switch o := out.(type) {
	case *Image:
		log.Info().
			Int("output_bytes", len(o.Data)).
			Dur("duration", time.Since(startTime)).
			Msg("Gemini image editing complete")
		c.record("success", startTime)
	case *Failure:
		log.Warn().
			Str("kind", o.Kind.String()).
			Str("reason", truncateString(o.Reason, 200)).
			Msg("Gemini returned no image")
		c.record(o.Kind.String(), startTime)
	}
	return out
}

// extractOutcome reads the first candidate's parts: the first inline image
// wins, otherwise the first text part becomes a refusal.
func extractOutcome(resp *genai.GenerateContentResponse) Outcome {
	var parts []*genai.Part
	if resp != nil && len(resp.Candidates) > 0 && resp.Candidates[0] != nil && resp.Candidates[0].Content != nil {
		parts = resp.Candidates[0].Content.Parts
	}
	if len(parts) == 0 {
		return &Failure{Reason: ReasonNoContent, Kind: FailureService}
	}

	for _, part := range parts {
		if part != nil && part.InlineData != nil && len(part.InlineData.Data) > 0 {
			return &Image{Data: part.InlineData.Data, MIMEType: OutputMIMEType}
		}
	}

	for _, part := range parts {
		if part != nil && part.Text != "" {
			return &Failure{Reason: refusalReasonStart + part.Text, Kind: FailureServiceRefusal}
		}
	}

	return &Failure{Reason: ReasonNoImage, Kind: FailureService}
}

func (c *GeminiImageClient) invalid(err error, startTime time.Time) Outcome {
	log.Error().Err(err).Msg("Rejected image payload before sending")
	c.record(FailureInvalidInput.String(), startTime)
	return &Failure{Reason: err.Error(), Kind: FailureInvalidInput}
}

func (c *GeminiImageClient) fail(err error, startTime time.Time) Outcome {
	category := auth.ClassifyError(err)
	log.Error().
		Err(err).
		Str("category", category.Type.String()).
		Str("model", c.model).
		Msg("Gemini image editing failed")
	c.record(category.Type.String(), startTime)

	reason := err.Error()
	if strings.TrimSpace(reason) == "" {
		reason = ReasonGeneric
	}
	return &Failure{Reason: reason, Kind: FailureService}
}

func (c *GeminiImageClient) record(result string, startTime time.Time) {
	metrics.New(metricsNamespace).
		Dimension("Operation", "EditImage").
		Dimension("Result", result).
		Metric("EditImageMs", float64(time.Since(startTime).Milliseconds()), metrics.UnitMilliseconds).
		Count("EditImageResult").
		Property("model", c.model).
		Flush()
}

// truncateString cuts s to at most maxLen bytes on a rune boundary,
// appending "..." if truncated.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	cut := maxLen
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
