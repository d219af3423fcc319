package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"cvscreen/internal/domain"
	"cvscreen/internal/service"
)

// MockKeywordListService is a mock implementation of service.KeywordListService.
type MockKeywordListService struct {
	mock.Mock
}

func (m *MockKeywordListService) Create(ctx context.Context, userID uuid.UUID, input service.CreateKeywordListInput) (*domain.KeywordList, error) {
	args := m.Called(ctx, userID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.KeywordList), args.Error(1)
}

func (m *MockKeywordListService) Get(ctx context.Context, userID, listID uuid.UUID) (*domain.KeywordList, error) {
	args := m.Called(ctx, userID, listID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.KeywordList), args.Error(1)
}

func (m *MockKeywordListService) List(ctx context.Context, userID uuid.UUID, offset, limit int) ([]domain.KeywordList, int, error) {
	args := m.Called(ctx, userID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.KeywordList), args.Int(1), args.Error(2)
}

func (m *MockKeywordListService) Delete(ctx context.Context, userID, listID uuid.UUID) error {
	args := m.Called(ctx, userID, listID)
	return args.Error(0)
}
