package port

import (
	"context"

	"github.com/google/uuid"
)

// EmailSender defines the contract for sending emails.
type EmailSender interface {
	SendBatchCompleteEmail(ctx context.Context, toEmail, toName string, submissionID uuid.UUID, totalCVs int) error
}
