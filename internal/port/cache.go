package port

import (
	"context"
	"time"

	"github.com/google/uuid"

	"cvscreen/internal/domain"
)

// ResultsCache stores assembled results of completed submissions.
// Get returns (nil, nil) on a miss.
type ResultsCache interface {
	Get(ctx context.Context, submissionID uuid.UUID) (*domain.SubmissionResults, error)
	Set(ctx context.Context, results *domain.SubmissionResults, ttl time.Duration) error
}
