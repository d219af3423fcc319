package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"cvscreen/internal/domain"
)

// MockExtractor is a mock implementation of extractor.Extractor.
type MockExtractor struct {
	mock.Mock
}

func (m *MockExtractor) Extract(ctx context.Context, data []byte, mediaType string) (string, bool) {
	args := m.Called(ctx, data, mediaType)
	return args.String(0), args.Bool(1)
}

// MockPDFTextReader is a mock implementation of extractor.PDFTextReader.
type MockPDFTextReader struct {
	mock.Mock
}

func (m *MockPDFTextReader) ReadText(data []byte) (string, error) {
	args := m.Called(data)
	return args.String(0), args.Error(1)
}

// MockAnalyzer is a mock implementation of analyzer.Analyzer.
type MockAnalyzer struct {
	mock.Mock
}

func (m *MockAnalyzer) Analyze(ctx context.Context, text, keywords string) (*domain.Analysis, bool) {
	args := m.Called(ctx, text, keywords)
	if args.Get(0) == nil {
		return nil, args.Bool(1)
	}
	return args.Get(0).(*domain.Analysis), args.Bool(1)
}

// MockResultPersister is a mock implementation of service.ResultPersister.
type MockResultPersister struct {
	mock.Mock
}

func (m *MockResultPersister) Persist(ctx context.Context, submissionID uuid.UUID, fileName string, analysis *domain.Analysis, text string) (uuid.UUID, bool) {
	args := m.Called(ctx, submissionID, fileName, analysis, text)
	return args.Get(0).(uuid.UUID), args.Bool(1)
}
