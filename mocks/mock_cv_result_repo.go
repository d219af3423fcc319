package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"cvscreen/internal/domain"
)

// MockCvResultRepo is a mock implementation of port.CvResultRepository.
type MockCvResultRepo struct {
	mock.Mock
}

func (m *MockCvResultRepo) Create(ctx context.Context, result *domain.CvResult) error {
	args := m.Called(ctx, result)
	return args.Error(0)
}

func (m *MockCvResultRepo) GetByID(ctx context.Context, submissionID, resultID uuid.UUID) (*domain.CvResult, error) {
	args := m.Called(ctx, submissionID, resultID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CvResult), args.Error(1)
}

func (m *MockCvResultRepo) ListBySubmission(ctx context.Context, submissionID uuid.UUID) ([]domain.CvResult, error) {
	args := m.Called(ctx, submissionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CvResult), args.Error(1)
}
