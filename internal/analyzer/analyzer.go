package analyzer

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/rs/zerolog/log"

	"cvscreen/internal/domain"
	"cvscreen/internal/llm"
	"cvscreen/internal/port"
)

// ErrNotJSONObject is returned when the model output does not start with a JSON object.
var ErrNotJSONObject = errors.New("model output is not a JSON object")

// Analyzer scores extracted CV text against job keywords. The second return value is false
// when the model call fails or its output is not a JSON object.
type Analyzer interface {
	Analyze(ctx context.Context, text, keywords string) (*domain.Analysis, bool)
}

type analyzer struct {
	gen          port.TextGenerator
	maxTextChars int
}

// NewAnalyzer creates an Analyzer. Text longer than maxTextChars is cut before prompting;
// zero disables the limit.
func NewAnalyzer(gen port.TextGenerator, maxTextChars int) Analyzer {
	return &analyzer{gen: gen, maxTextChars: maxTextChars}
}

func (a *analyzer) Analyze(ctx context.Context, text, keywords string) (*domain.Analysis, bool) {
	if a.maxTextChars > 0 && len(text) > a.maxTextChars {
		// Cutting bytes may split a rune at the end.
		text = strings.ToValidUTF8(text[:a.maxTextChars], "")
	}

	out, err := a.gen.Generate(ctx, port.GenerateInput{
		Prompt:     BuildCVPrompt(keywords, text),
		JSONOutput: true,
	})
	if err != nil {
		log.Warn().Err(err).Msg("analyzer: generation failed")
		return nil, false
	}

	analysis, err := ParseAnalysis(out.Text)
	if err != nil {
		log.Warn().Err(err).Str("raw", llm.Truncate(out.Text, 300)).Msg("analyzer: unparseable model output")
		return nil, false
	}
	return analysis, true
}

// ParseAnalysis decodes raw model output after removing Markdown code fences.
func ParseAnalysis(raw string) (*domain.Analysis, error) {
	cleaned := StripCodeFences(raw)
	if !strings.HasPrefix(cleaned, "{") {
		return nil, ErrNotJSONObject
	}
	var analysis domain.Analysis
	if err := json.Unmarshal([]byte(cleaned), &analysis); err != nil {
		return nil, err
	}
	return &analysis, nil
}

// StripCodeFences removes ```json / ``` markers and surrounding whitespace.
func StripCodeFences(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		if nl := strings.IndexByte(s, '\n'); nl >= 0 && !strings.ContainsAny(s[:nl], "{[") {
			s = s[nl+1:]
		} else {
			s = strings.TrimPrefix(strings.TrimPrefix(s, "json"), "JSON")
		}
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
