package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"cvscreen/internal/domain"
)

// MockCvDetailRepo is a mock implementation of port.CvDetailRepository.
type MockCvDetailRepo struct {
	mock.Mock
}

func (m *MockCvDetailRepo) CreateEducation(ctx context.Context, rows []domain.EducationDetail) error {
	args := m.Called(ctx, rows)
	return args.Error(0)
}

func (m *MockCvDetailRepo) CreateExperience(ctx context.Context, rows []domain.ExperienceDetail) error {
	args := m.Called(ctx, rows)
	return args.Error(0)
}

func (m *MockCvDetailRepo) CreateSkills(ctx context.Context, rows []domain.SkillDetail) error {
	args := m.Called(ctx, rows)
	return args.Error(0)
}

func (m *MockCvDetailRepo) ListByResults(ctx context.Context, resultIDs []uuid.UUID) (map[uuid.UUID]*domain.CvDetails, error) {
	args := m.Called(ctx, resultIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uuid.UUID]*domain.CvDetails), args.Error(1)
}
