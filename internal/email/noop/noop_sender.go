package noop

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"cvscreen/internal/port"
)

type noopSender struct {
	frontendURL string
}

// NewNoopSender creates a no-op EmailSender that logs notifications instead of sending them.
func NewNoopSender(frontendURL string) port.EmailSender {
	return &noopSender{frontendURL: frontendURL}
}

func (s *noopSender) SendBatchCompleteEmail(_ context.Context, toEmail, toName string, submissionID uuid.UUID, totalCVs int) error {
	resultsURL := fmt.Sprintf("%s/results/%s", s.frontendURL, submissionID)
	log.Info().
		Str("to", toEmail).
		Str("name", toName).
		Int("total_cvs", totalCVs).
		Str("url", resultsURL).
		Msg("[NOOP EMAIL] batch complete")
	return nil
}
