package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockEmailSender is a mock implementation of port.EmailSender.
type MockEmailSender struct {
	mock.Mock
}

func (m *MockEmailSender) SendBatchCompleteEmail(ctx context.Context, toEmail, toName string, submissionID uuid.UUID, totalCVs int) error {
	args := m.Called(ctx, toEmail, toName, submissionID, totalCVs)
	return args.Error(0)
}
