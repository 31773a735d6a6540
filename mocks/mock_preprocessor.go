package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockPreprocessor is a testify mock for port.Preprocessor.
type MockPreprocessor struct {
	mock.Mock
}

func (m *MockPreprocessor) Prepare(ctx context.Context, imagePath, destDir string) (string, error) {
	args := m.Called(ctx, imagePath, destDir)
	return args.String(0), args.Error(1)
}
