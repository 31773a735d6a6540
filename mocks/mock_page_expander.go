package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockPageExpander is a testify mock for port.PageExpander.
type MockPageExpander struct {
	mock.Mock
}

func (m *MockPageExpander) Expand(ctx context.Context, inputPath, workDir string) ([]string, error) {
	args := m.Called(ctx, inputPath, workDir)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}
