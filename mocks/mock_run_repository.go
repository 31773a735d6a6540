package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"pagelens/internal/domain"
)

// MockRunRepository is a testify mock for port.RunRepository.
type MockRunRepository struct {
	mock.Mock
}

func (m *MockRunRepository) Record(ctx context.Context, summary *domain.DocumentSummary) error {
	args := m.Called(ctx, summary)
	return args.Error(0)
}

func (m *MockRunRepository) ListRecent(ctx context.Context, limit int) ([]domain.DocumentSummary, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DocumentSummary), args.Error(1)
}
