package claude

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"cvscreen/internal/config"
	"cvscreen/internal/llm"
	"cvscreen/internal/port"
)

const (
	apiURL     = "https://api.anthropic.com/v1/messages"
	apiVersion = "2023-06-01"
)

// Generator implements port.TextGenerator using the Anthropic Messages API.
type Generator struct {
	apiKey   string
	model    string
	endpoint string
	client   *http.Client
}

// NewGenerator creates a Claude-based generator from a provider config.
func NewGenerator(cfg *config.LLMProviderConfig) *Generator {
	return newGenerator(cfg, apiURL)
}

// NewGeneratorWithEndpoint creates a generator pointing at a custom API endpoint (for testing).
func NewGeneratorWithEndpoint(cfg *config.LLMProviderConfig, endpoint string) *Generator {
	return newGenerator(cfg, endpoint)
}

func newGenerator(cfg *config.LLMProviderConfig, endpoint string) *Generator {
	model := cfg.DefaultModel
	if model == "" {
		model = "claude-sonnet-4-20250514"
	}
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout == 0 {
		timeout = 120 * time.Second
	}
	return &Generator{
		apiKey:   cfg.APIKey,
		model:    model,
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

func (g *Generator) Generate(ctx context.Context, input port.GenerateInput) (*port.GenerateOutput, error) {
	contentBlocks, err := buildContentBlocks(input)
	if err != nil {
		return nil, fmt.Errorf("building content blocks: %w", err)
	}

	reqBody := map[string]interface{}{
		"model":      g.model,
		"max_tokens": 8192,
		"messages": []map[string]interface{}{
			{
				"role":    "user",
				"content": contentBlocks,
			},
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", g.apiKey)
	req.Header.Set("anthropic-version", apiVersion)

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling anthropic API: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		baseErr := fmt.Errorf("anthropic API error (status %d): %s", resp.StatusCode, llm.Truncate(string(respBody), 500))
		if resp.StatusCode == http.StatusTooManyRequests {
			retryAfter := llm.ParseRetryAfterHeader(resp.Header.Get("Retry-After"))
			return nil, llm.NewRateLimitError("claude", baseErr, retryAfter)
		}
		return nil, baseErr
	}

	return parseResponse(respBody, g.model)
}

func buildContentBlocks(input port.GenerateInput) ([]map[string]interface{}, error) {
	var blocks []map[string]interface{}

	for _, att := range input.Attachments {
		encoded := base64.StdEncoding.EncodeToString(att.Data)
		switch {
		case att.MIMEType == "application/pdf":
			blocks = append(blocks, map[string]interface{}{
				"type": "document",
				"source": map[string]interface{}{
					"type":       "base64",
					"media_type": att.MIMEType,
					"data":       encoded,
				},
			})
		case strings.HasPrefix(att.MIMEType, "image/"):
			blocks = append(blocks, map[string]interface{}{
				"type": "image",
				"source": map[string]interface{}{
					"type":       "base64",
					"media_type": att.MIMEType,
					"data":       encoded,
				},
			})
		default:
			return nil, fmt.Errorf("unsupported attachment type: %s", att.MIMEType)
		}
	}

	blocks = append(blocks, map[string]interface{}{
		"type": "text",
		"text": input.Prompt,
	})

	return blocks, nil
}

// apiResponse models the Anthropic Messages API response.
type apiResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
}

func parseResponse(body []byte, model string) (*port.GenerateOutput, error) {
	var resp apiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("unmarshaling response: %w", err)
	}

	var sb strings.Builder
	for _, c := range resp.Content {
		if c.Type == "text" {
			sb.WriteString(c.Text)
		}
	}
	if sb.Len() == 0 {
		return nil, fmt.Errorf("empty response from API")
	}

	if resp.StopReason == "max_tokens" {
		return nil, fmt.Errorf("output truncated (stop_reason: max_tokens): response exceeded output token limit")
	}

	return &port.GenerateOutput{
		Text:      sb.String(),
		ModelUsed: model,
	}, nil
}
