package openai

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
	apiURL = "https://api.openai.com/v1/chat/completions"
)

// Generator implements port.TextGenerator using the OpenAI Chat Completions API.
type Generator struct {
	apiKey   string
	model    string
	endpoint string
	client   *http.Client
}

// NewGenerator creates an OpenAI-based generator from a provider config.
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
		model = "gpt-4o"
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
		"model":                 g.model,
		"max_completion_tokens": 8192,
		"messages": []map[string]interface{}{
			{
				"role":    "user",
				"content": contentBlocks,
			},
		},
	}
	if input.JSONOutput {
		reqBody["response_format"] = map[string]interface{}{"type": "json_object"}
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
	req.Header.Set("Authorization", "Bearer "+g.apiKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling openai API: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		baseErr := fmt.Errorf("openai API error (status %d): %s", resp.StatusCode, llm.Truncate(string(respBody), 500))
		if resp.StatusCode == http.StatusTooManyRequests {
			retryAfter := llm.ParseRetryAfterHeader(resp.Header.Get("Retry-After"))
			return nil, llm.NewRateLimitError("openai", baseErr, retryAfter)
		}
		return nil, baseErr
	}

	return parseResponse(respBody, g.model)
}

func buildContentBlocks(input port.GenerateInput) ([]map[string]interface{}, error) {
	var blocks []map[string]interface{}

	for _, att := range input.Attachments {
		dataURI := fmt.Sprintf("data:%s;base64,%s", att.MIMEType, base64.StdEncoding.EncodeToString(att.Data))
		switch {
		case att.MIMEType == "application/pdf":
			blocks = append(blocks, map[string]interface{}{
				"type": "file",
				"file": map[string]interface{}{
					"filename":  "document.pdf",
					"file_data": dataURI,
				},
			})
		case strings.HasPrefix(att.MIMEType, "image/"):
			blocks = append(blocks, map[string]interface{}{
				"type": "image_url",
				"image_url": map[string]interface{}{
					"url": dataURI,
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

// apiResponse models the OpenAI Chat Completions API response.
type apiResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}

func parseResponse(body []byte, model string) (*port.GenerateOutput, error) {
	var resp apiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("unmarshaling response: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("empty response from API: no choices")
	}

	if resp.Choices[0].FinishReason == "length" {
		return nil, fmt.Errorf("output truncated (finish_reason: length): response exceeded output token limit")
	}

	return &port.GenerateOutput{
		Text:      resp.Choices[0].Message.Content,
		ModelUsed: model,
	}, nil
}
