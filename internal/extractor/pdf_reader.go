package extractor

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// LedongthucReader reads PDF text with github.com/ledongthuc/pdf.
type LedongthucReader struct{}

// NewPDFReader returns the default PDFTextReader.
func NewPDFReader() *LedongthucReader {
	return &LedongthucReader{}
}

// ReadText concatenates the plain text of every page. Pages that fail to decode are skipped.
func (LedongthucReader) ReadText(data []byte) (text string, err error) {
	// The parser panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("pdf: malformed document: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("pdf: opening document: %w", err)
	}

	var sb strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		sb.WriteString(pageText)
		sb.WriteString("\n\n")
	}

	if strings.TrimSpace(sb.String()) == "" {
		return "", fmt.Errorf("pdf: no text content found")
	}
	return sb.String(), nil
}
