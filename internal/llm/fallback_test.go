package llm_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"cvscreen/internal/llm"
	"cvscreen/internal/port"
	"cvscreen/mocks"
)

var testInput = port.GenerateInput{Prompt: "score this", JSONOutput: true}

func TestFallbackGenerator_FirstSucceeds(t *testing.T) {
	g1 := new(mocks.MockTextGenerator)
	g2 := new(mocks.MockTextGenerator)
	g1.On("Generate", mock.Anything, testInput).Return(&port.GenerateOutput{Text: "{}", ModelUsed: "gemini"}, nil)

	fg := llm.NewFallbackGenerator([]port.TextGenerator{g1, g2}, []string{"gemini", "claude"})
	out, err := fg.Generate(context.Background(), testInput)

	require.NoError(t, err)
	assert.Equal(t, "gemini", out.ModelUsed)
	g2.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything)
}

func TestFallbackGenerator_FirstFailsSecondSucceeds(t *testing.T) {
	g1 := new(mocks.MockTextGenerator)
	g2 := new(mocks.MockTextGenerator)
	g1.On("Generate", mock.Anything, testInput).Return(nil, errors.New("boom"))
	g2.On("Generate", mock.Anything, testInput).Return(&port.GenerateOutput{Text: "{}", ModelUsed: "claude"}, nil)

	fg := llm.NewFallbackGenerator([]port.TextGenerator{g1, g2}, []string{"gemini", "claude"})
	out, err := fg.Generate(context.Background(), testInput)

	require.NoError(t, err)
	assert.Equal(t, "claude", out.ModelUsed)
	g1.AssertNumberOfCalls(t, "Generate", 1)
}

func TestFallbackGenerator_AllFail(t *testing.T) {
	g1 := new(mocks.MockTextGenerator)
	g2 := new(mocks.MockTextGenerator)
	g1.On("Generate", mock.Anything, testInput).Return(nil, errors.New("boom"))
	g2.On("Generate", mock.Anything, testInput).Return(nil, errors.New("bang"))

	fg := llm.NewFallbackGenerator([]port.TextGenerator{g1, g2}, []string{"gemini", "claude"})
	_, err := fg.Generate(context.Background(), testInput)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "all providers failed")
	assert.Contains(t, err.Error(), "bang")

	var rlErr *llm.RateLimitError
	assert.False(t, errors.As(err, &rlErr))
}

func TestFallbackGenerator_RateLimitOpensCircuit(t *testing.T) {
	g1 := new(mocks.MockTextGenerator)
	g2 := new(mocks.MockTextGenerator)
	g1.On("Generate", mock.Anything, testInput).
		Return(nil, llm.NewRateLimitError("gemini", errors.New("429"), 120)).Once()
	g2.On("Generate", mock.Anything, testInput).Return(&port.GenerateOutput{Text: "{}", ModelUsed: "claude"}, nil)

	fg := llm.NewFallbackGenerator([]port.TextGenerator{g1, g2}, []string{"gemini", "claude"})

	out, err := fg.Generate(context.Background(), testInput)
	require.NoError(t, err)
	assert.Equal(t, "claude", out.ModelUsed)

	// The open circuit skips the first provider entirely on the next call.
	out, err = fg.Generate(context.Background(), testInput)
	require.NoError(t, err)
	assert.Equal(t, "claude", out.ModelUsed)

	g1.AssertNumberOfCalls(t, "Generate", 1)
	g2.AssertNumberOfCalls(t, "Generate", 2)
}

func TestFallbackGenerator_AllRateLimited(t *testing.T) {
	g1 := new(mocks.MockTextGenerator)
	g2 := new(mocks.MockTextGenerator)
	g1.On("Generate", mock.Anything, testInput).Return(nil, llm.NewRateLimitError("gemini", errors.New("429"), 30))
	g2.On("Generate", mock.Anything, testInput).Return(nil, llm.NewRateLimitError("claude", errors.New("429"), 90))

	fg := llm.NewFallbackGenerator([]port.TextGenerator{g1, g2}, []string{"gemini", "claude"})
	_, err := fg.Generate(context.Background(), testInput)

	var rlErr *llm.RateLimitError
	require.True(t, errors.As(err, &rlErr))
	assert.Equal(t, "all", rlErr.Provider)
	assert.LessOrEqual(t, rlErr.RetryAfter.Seconds(), float64(30))

	// Both circuits are open, so nothing is called again.
	_, err = fg.Generate(context.Background(), testInput)
	require.True(t, errors.As(err, &rlErr))
	g1.AssertNumberOfCalls(t, "Generate", 1)
	g2.AssertNumberOfCalls(t, "Generate", 1)
}
