package llm_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cvscreen/internal/config"
	"cvscreen/internal/llm"
	"cvscreen/internal/port"
)

type namedGenerator struct{ name string }

func (g namedGenerator) Generate(_ context.Context, _ port.GenerateInput) (*port.GenerateOutput, error) {
	return &port.GenerateOutput{Text: "{}", ModelUsed: g.name}, nil
}

func registerTestProviders() {
	for _, name := range []string{"test-a", "test-b"} {
		name := name
		llm.RegisterProvider(name, func(cfg *config.LLMProviderConfig) (port.TextGenerator, error) {
			return namedGenerator{name: name + ":" + cfg.DefaultModel}, nil
		})
	}
	llm.RegisterProvider("test-broken", func(_ *config.LLMProviderConfig) (port.TextGenerator, error) {
		return nil, errors.New("no key")
	})
}

func TestNewGenerator_UnknownProvider(t *testing.T) {
	_, err := llm.NewGenerator(&config.LLMProviderConfig{Provider: "nope"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown llm provider")
}

func TestNewFromConfig_SingleProvider(t *testing.T) {
	registerTestProviders()

	gen, err := llm.NewFromConfig(&config.LLMConfig{Provider: "test-a", DefaultModel: "m1"})
	require.NoError(t, err)

	_, isFallback := gen.(*llm.FallbackGenerator)
	assert.False(t, isFallback)

	out, err := gen.Generate(context.Background(), port.GenerateInput{})
	require.NoError(t, err)
	assert.Equal(t, "test-a:m1", out.ModelUsed)
}

func TestNewFromConfig_Chain(t *testing.T) {
	registerTestProviders()

	gen, err := llm.NewFromConfig(&config.LLMConfig{
		Primary:   config.LLMProviderConfig{Provider: "test-a", DefaultModel: "m1"},
		Secondary: config.LLMProviderConfig{Provider: "test-b", DefaultModel: "m2"},
	})
	require.NoError(t, err)

	_, isFallback := gen.(*llm.FallbackGenerator)
	assert.True(t, isFallback)

	out, err := gen.Generate(context.Background(), port.GenerateInput{})
	require.NoError(t, err)
	assert.Equal(t, "test-a:m1", out.ModelUsed)
}

func TestNewFromConfig_FactoryError(t *testing.T) {
	registerTestProviders()

	_, err := llm.NewFromConfig(&config.LLMConfig{Provider: "test-broken"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "test-broken")
}

func TestRegisteredProviders(t *testing.T) {
	registerTestProviders()
	assert.Subset(t, llm.RegisteredProviders(), []string{"test-a", "test-b", "test-broken"})
}

func TestParseRetryAfterHeader(t *testing.T) {
	assert.Equal(t, 0, llm.ParseRetryAfterHeader(""))
	assert.Equal(t, 30, llm.ParseRetryAfterHeader("30"))
	assert.Equal(t, 0, llm.ParseRetryAfterHeader("Wed, 21 Oct 2015 07:28:00 GMT"))
}

func TestNewRateLimitError_DefaultsTo60s(t *testing.T) {
	err := llm.NewRateLimitError("claude", errors.New("429"), 0)
	assert.Equal(t, float64(60), err.RetryAfter.Seconds())
	assert.Contains(t, err.Error(), "claude rate limited")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", llm.Truncate("abc", 5))
	assert.Equal(t, "ab...", llm.Truncate("abcdef", 2))
}
