package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"cvscreen/internal/domain"
)

// MockKeywordListRepo is a mock implementation of port.KeywordListRepository.
type MockKeywordListRepo struct {
	mock.Mock
}

func (m *MockKeywordListRepo) Create(ctx context.Context, list *domain.KeywordList) error {
	args := m.Called(ctx, list)
	return args.Error(0)
}

func (m *MockKeywordListRepo) GetByID(ctx context.Context, listID uuid.UUID) (*domain.KeywordList, error) {
	args := m.Called(ctx, listID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.KeywordList), args.Error(1)
}

func (m *MockKeywordListRepo) ListByUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]domain.KeywordList, int, error) {
	args := m.Called(ctx, userID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.KeywordList), args.Int(1), args.Error(2)
}

func (m *MockKeywordListRepo) Delete(ctx context.Context, userID, listID uuid.UUID) error {
	args := m.Called(ctx, userID, listID)
	return args.Error(0)
}
