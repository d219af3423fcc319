package port

import "context"

// Attachment is binary content sent alongside a prompt, such as a scanned CV page.
type Attachment struct {
	MIMEType string
	Data     []byte
}

// GenerateInput carries a single prompt to a language model.
type GenerateInput struct {
	Prompt      string
	Attachments []Attachment
	// JSONOutput asks the provider for a JSON-only response where it supports that.
	JSONOutput bool
}

// GenerateOutput is the raw text produced by a language model.
type GenerateOutput struct {
	Text      string
	ModelUsed string
}

// TextGenerator abstracts a text-in/text-out language model call.
type TextGenerator interface {
	Generate(ctx context.Context, input GenerateInput) (*GenerateOutput, error)
}
