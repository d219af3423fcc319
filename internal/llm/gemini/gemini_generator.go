package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"google.golang.org/genai"

	"cvscreen/internal/config"
	"cvscreen/internal/llm"
	"cvscreen/internal/port"
)

// Generator implements port.TextGenerator using the Gemini API through the genai SDK.
type Generator struct {
	client  *genai.Client
	model   string
	timeout time.Duration
}

// NewGenerator creates a Gemini-based generator from a provider config.
func NewGenerator(cfg *config.LLMProviderConfig) (*Generator, error) {
	return newGenerator(cfg, "")
}

// NewGeneratorWithEndpoint creates a generator pointing at a custom base URL (for testing).
func NewGeneratorWithEndpoint(cfg *config.LLMProviderConfig, baseURL string) (*Generator, error) {
	return newGenerator(cfg, baseURL)
}

func newGenerator(cfg *config.LLMProviderConfig, baseURL string) (*Generator, error) {
	model := cfg.DefaultModel
	if model == "" {
		model = "gemini-2.5-flash"
	}
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout == 0 {
		timeout = 120 * time.Second
	}

	clientCfg := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if baseURL != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}

	client, err := genai.NewClient(context.Background(), clientCfg)
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}

	return &Generator{
		client:  client,
		model:   model,
		timeout: timeout,
	}, nil
}

func (g *Generator) Generate(ctx context.Context, input port.GenerateInput) (*port.GenerateOutput, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	parts := make([]*genai.Part, 0, len(input.Attachments)+1)
	for _, att := range input.Attachments {
		parts = append(parts, genai.NewPartFromBytes(att.Data, att.MIMEType))
	}
	parts = append(parts, genai.NewPartFromText(input.Prompt))

	genCfg := &genai.GenerateContentConfig{
		MaxOutputTokens: 8192,
	}
	if input.JSONOutput {
		genCfg.ResponseMIMEType = "application/json"
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model,
		[]*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}, genCfg)
	if err != nil {
		return nil, wrapError(err)
	}
	if resp == nil {
		return nil, fmt.Errorf("empty response from API")
	}

	text := resp.Text()
	if text == "" {
		return nil, fmt.Errorf("no text content in response")
	}

	return &port.GenerateOutput{
		Text:      text,
		ModelUsed: g.model,
	}, nil
}

func wrapError(err error) error {
	baseErr := fmt.Errorf("gemini API error: %w", err)

	var apiErr genai.APIError
	if errors.As(err, &apiErr) && apiErr.Code == http.StatusTooManyRequests {
		return llm.NewRateLimitError("gemini", baseErr, 0)
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr.Code == http.StatusTooManyRequests {
		return llm.NewRateLimitError("gemini", baseErr, 0)
	}
	return baseErr
}
