package noop

import (
	"context"
	"time"

	"github.com/google/uuid"

	"cvscreen/internal/domain"
	"cvscreen/internal/port"
)

// Cache is a port.ResultsCache that stores nothing.
type Cache struct{}

// NewCache creates a no-op results cache.
func NewCache() port.ResultsCache {
	return &Cache{}
}

func (c *Cache) Get(_ context.Context, _ uuid.UUID) (*domain.SubmissionResults, error) {
	return nil, nil
}

func (c *Cache) Set(_ context.Context, _ *domain.SubmissionResults, _ time.Duration) error {
	return nil
}
