package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"cvscreen/internal/domain"
)

// MockResultsCache is a mock implementation of port.ResultsCache.
type MockResultsCache struct {
	mock.Mock
}

func (m *MockResultsCache) Get(ctx context.Context, submissionID uuid.UUID) (*domain.SubmissionResults, error) {
	args := m.Called(ctx, submissionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SubmissionResults), args.Error(1)
}

func (m *MockResultsCache) Set(ctx context.Context, results *domain.SubmissionResults, ttl time.Duration) error {
	args := m.Called(ctx, results, ttl)
	return args.Error(0)
}
