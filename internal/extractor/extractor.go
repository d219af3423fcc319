package extractor

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	"cvscreen/internal/domain"
	"cvscreen/internal/port"
)

// OCRPrompt is the instruction sent with image uploads.
const OCRPrompt = "Extract all text from this document. Return only the text content, preserving the reading order. Do not add commentary."

// PDFTextReader turns PDF bytes into plain text.
type PDFTextReader interface {
	ReadText(data []byte) (string, error)
}

// Extractor converts an uploaded file into plain text. The second return value is false when
// no text could be produced; failures are never returned to the caller.
type Extractor interface {
	Extract(ctx context.Context, data []byte, mediaType string) (string, bool)
}

type extractor struct {
	ocr port.TextGenerator
	pdf PDFTextReader
}

// NewExtractor creates an Extractor that sends images to ocr and PDFs to pdf.
func NewExtractor(ocr port.TextGenerator, pdf PDFTextReader) Extractor {
	return &extractor{ocr: ocr, pdf: pdf}
}

func (e *extractor) Extract(ctx context.Context, data []byte, mediaType string) (string, bool) {
	var (
		text string
		err  error
	)

	switch {
	case domain.IsImage(mediaType):
		text, err = e.extractImage(ctx, data, mediaType)
	case mediaType == domain.MediaTypePDF:
		text, err = e.pdf.ReadText(data)
	default:
		log.Info().Str("media_type", mediaType).Msg("extractor: unsupported media type, skipping")
		return "", false
	}

	if err != nil {
		log.Warn().Err(err).Str("media_type", mediaType).Msg("extractor: extraction failed")
		return "", false
	}
	text = strings.TrimSpace(text)
	if text == "" {
		log.Warn().Str("media_type", mediaType).Msg("extractor: no text found")
		return "", false
	}
	return text, true
}

func (e *extractor) extractImage(ctx context.Context, data []byte, mediaType string) (string, error) {
	out, err := e.ocr.Generate(ctx, port.GenerateInput{
		Prompt:      OCRPrompt,
		Attachments: []port.Attachment{{MIMEType: mediaType, Data: data}},
	})
	if err != nil {
		return "", err
	}
	return out.Text, nil
}
