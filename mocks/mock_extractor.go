package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"pagelens/internal/domain"
	"pagelens/internal/port"
)

// MockExtractor is a testify mock for port.Extractor.
type MockExtractor struct {
	mock.Mock
}

func (m *MockExtractor) Extract(ctx context.Context, req port.ExtractRequest) *domain.ExtractionResult {
	args := m.Called(ctx, req)
	return args.Get(0).(*domain.ExtractionResult)
}

func (m *MockExtractor) ModelName() string {
	args := m.Called()
	return args.String(0)
}
