package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"cvscreen/internal/domain"
	"cvscreen/internal/port"
)

// MockJobQueue is a mock implementation of port.JobQueue.
type MockJobQueue struct {
	mock.Mock
}

func (m *MockJobQueue) Publish(ctx context.Context, job domain.FileJob) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}

func (m *MockJobQueue) Consume(ctx context.Context) (<-chan port.Delivery, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(<-chan port.Delivery), args.Error(1)
}

func (m *MockJobQueue) Close() error {
	args := m.Called()
	return args.Error(0)
}
