package openai_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cvscreen/internal/config"
	"cvscreen/internal/llm"
	"cvscreen/internal/llm/openai"
	"cvscreen/internal/port"
)

var testCfg = &config.LLMProviderConfig{Provider: "openai", APIKey: "sk-test", DefaultModel: "gpt-test"}

func TestGenerate_JSONMode(t *testing.T) {
	var captured map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &captured)
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"{\"ATS\":\"70%\"}"},"finish_reason":"stop"}]}`))
	}))
	defer srv.Close()

	out, err := openai.NewGeneratorWithEndpoint(testCfg, srv.URL).Generate(context.Background(), port.GenerateInput{
		Prompt:     "score",
		JSONOutput: true,
	})

	require.NoError(t, err)
	assert.Equal(t, `{"ATS":"70%"}`, out.Text)
	assert.Equal(t, "gpt-test", out.ModelUsed)
	require.NotNil(t, captured)
	assert.Equal(t, map[string]interface{}{"type": "json_object"}, captured["response_format"])
}

func TestGenerate_TextModeOmitsResponseFormat(t *testing.T) {
	var captured map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &captured)
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"plain text"},"finish_reason":"stop"}]}`))
	}))
	defer srv.Close()

	out, err := openai.NewGeneratorWithEndpoint(testCfg, srv.URL).Generate(context.Background(), port.GenerateInput{
		Prompt:      "ocr",
		Attachments: []port.Attachment{{MIMEType: "image/jpeg", Data: []byte("jpg")}},
	})

	require.NoError(t, err)
	assert.Equal(t, "plain text", out.Text)
	_, hasFormat := captured["response_format"]
	assert.False(t, hasFormat)
}

func TestGenerate_RateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := openai.NewGeneratorWithEndpoint(testCfg, srv.URL).Generate(context.Background(), port.GenerateInput{Prompt: "x"})

	var rlErr *llm.RateLimitError
	require.True(t, errors.As(err, &rlErr))
	assert.Equal(t, "openai", rlErr.Provider)
	assert.Equal(t, float64(60), rlErr.RetryAfter.Seconds())
}

func TestGenerate_NoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	_, err := openai.NewGeneratorWithEndpoint(testCfg, srv.URL).Generate(context.Background(), port.GenerateInput{Prompt: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no choices")
}

func TestGenerate_LengthFinish(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"{"},"finish_reason":"length"}]}`))
	}))
	defer srv.Close()

	_, err := openai.NewGeneratorWithEndpoint(testCfg, srv.URL).Generate(context.Background(), port.GenerateInput{Prompt: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "truncated")
}
