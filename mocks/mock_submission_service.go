package mocks

import (
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"cvscreen/internal/domain"
	"cvscreen/internal/service"
)

// MockSubmissionService is a mock implementation of service.SubmissionService.
type MockSubmissionService struct {
	mock.Mock
}

func (m *MockSubmissionService) Submit(ctx context.Context, input service.SubmitInput) (*domain.Submission, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Submission), args.Error(1)
}

func (m *MockSubmissionService) GetResults(ctx context.Context, submissionID uuid.UUID, callerID *uuid.UUID, includeDetails bool) (*domain.SubmissionResults, error) {
	args := m.Called(ctx, submissionID, callerID, includeDetails)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SubmissionResults), args.Error(1)
}

func (m *MockSubmissionService) GetCvResult(ctx context.Context, submissionID, resultID uuid.UUID, callerID *uuid.UUID) (*domain.CvResultWithDetails, error) {
	args := m.Called(ctx, submissionID, resultID, callerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CvResultWithDetails), args.Error(1)
}

func (m *MockSubmissionService) ListSubmissions(ctx context.Context, userID uuid.UUID, offset, limit int) ([]domain.Submission, int, error) {
	args := m.Called(ctx, userID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Submission), args.Int(1), args.Error(2)
}

// Export writes the string given as the first Return value to w, if any.
func (m *MockSubmissionService) Export(ctx context.Context, submissionID uuid.UUID, callerID *uuid.UUID, format domain.ExportFormat, w io.Writer) error {
	args := m.Called(ctx, submissionID, callerID, format, w)
	if body, ok := args.Get(0).(string); ok {
		_, _ = io.WriteString(w, body)
	}
	return args.Error(1)
}

func (m *MockSubmissionService) Wait() {
	m.Called()
}
