package analyzer_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"cvscreen/internal/analyzer"
	"cvscreen/internal/port"
	"cvscreen/mocks"
)

const validJSON = `{"ATS":"85%","Name":"Jane","Phone":"","Mail":"jane@example.com","Edu":["MIT"],"SKILLS":[["Go","5 years"]],"EXPERIENCE":["Acme"]}`

func TestStripCodeFences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", validJSON, validJSON},
		{"json fence", "```json\n" + validJSON + "\n```", validJSON},
		{"bare fence", "```\n" + validJSON + "\n```", validJSON},
		{"inline fence", "```" + validJSON + "```", validJSON},
		{"whitespace", "  \n" + validJSON + "\n  ", validJSON},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, analyzer.StripCodeFences(tt.in))
		})
	}
}

func TestParseAnalysis_Fenced(t *testing.T) {
	a, err := analyzer.ParseAnalysis("```json\n" + validJSON + "\n```")
	require.NoError(t, err)
	assert.Equal(t, "85%", a.ATS)
	assert.Equal(t, "Jane", a.Name)
	assert.Len(t, a.Skills, 1)
}

func TestParseAnalysis_NotAnObject(t *testing.T) {
	_, err := analyzer.ParseAnalysis("Sorry, I cannot help with that.")
	assert.ErrorIs(t, err, analyzer.ErrNotJSONObject)

	_, err = analyzer.ParseAnalysis(`["a","b"]`)
	assert.ErrorIs(t, err, analyzer.ErrNotJSONObject)
}

func TestParseAnalysis_Truncated(t *testing.T) {
	_, err := analyzer.ParseAnalysis(`{"ATS": "85%", "Name": "Ja`)
	assert.Error(t, err)
}

func TestAnalyze_Success(t *testing.T) {
	gen := new(mocks.MockTextGenerator)
	gen.On("Generate", mock.Anything, mock.MatchedBy(func(in port.GenerateInput) bool {
		return in.JSONOutput &&
			strings.Contains(in.Prompt, "Job keywords: Go, SQL") &&
			strings.HasSuffix(in.Prompt, "resume body") &&
			len(in.Attachments) == 0
	})).Return(&port.GenerateOutput{Text: validJSON}, nil)

	a, ok := analyzer.NewAnalyzer(gen, 0).Analyze(context.Background(), "resume body", "Go, SQL")

	require.True(t, ok)
	assert.Equal(t, 85, a.Score())
	gen.AssertExpectations(t)
}

func TestAnalyze_TruncatesLongText(t *testing.T) {
	gen := new(mocks.MockTextGenerator)
	gen.On("Generate", mock.Anything, mock.MatchedBy(func(in port.GenerateInput) bool {
		return strings.HasSuffix(in.Prompt, "\nabcde")
	})).Return(&port.GenerateOutput{Text: validJSON}, nil)

	_, ok := analyzer.NewAnalyzer(gen, 5).Analyze(context.Background(), "abcdefghij", "Go")

	assert.True(t, ok)
	gen.AssertExpectations(t)
}

func TestAnalyze_GenerationFailureIsAbsent(t *testing.T) {
	gen := new(mocks.MockTextGenerator)
	gen.On("Generate", mock.Anything, mock.Anything).Return(nil, errors.New("upstream down"))

	a, ok := analyzer.NewAnalyzer(gen, 0).Analyze(context.Background(), "text", "Go")

	assert.False(t, ok)
	assert.Nil(t, a)
}

func TestAnalyze_MalformedOutputIsAbsent(t *testing.T) {
	gen := new(mocks.MockTextGenerator)
	gen.On("Generate", mock.Anything, mock.Anything).Return(&port.GenerateOutput{Text: "I think this candidate is great!"}, nil)

	a, ok := analyzer.NewAnalyzer(gen, 0).Analyze(context.Background(), "text", "Go")

	assert.False(t, ok)
	assert.Nil(t, a)
}

func TestBuildCVPrompt(t *testing.T) {
	p := analyzer.BuildCVPrompt("Go, Kafka", "CV TEXT")
	assert.Contains(t, p, "Job keywords: Go, Kafka")
	assert.Contains(t, p, `"SKILLS"`)
	assert.True(t, strings.HasSuffix(p, "CV TEXT"))
}
