package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"pagelens/internal/domain"
)

// MockArtifactStore is a testify mock for port.ArtifactStore.
type MockArtifactStore struct {
	mock.Mock
}

func (m *MockArtifactStore) SavePage(ctx context.Context, docDir string, pageNumber int, result *domain.ExtractionResult) ([]string, error) {
	args := m.Called(ctx, docDir, pageNumber, result)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockArtifactStore) SaveCombined(ctx context.Context, docDir string, result *domain.DocumentResult) ([]string, error) {
	args := m.Called(ctx, docDir, result)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}
