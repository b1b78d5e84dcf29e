package warehouse

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockProvider is a mock implementation of the Provider interface for testing.
type MockProvider struct {
	mock.Mock
}

// EnsureDataset is the mock implementation of the EnsureDataset method.
func (m *MockProvider) EnsureDataset(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0) //nolint:wrapcheck
}

// ProdTableExists is the mock implementation of the ProdTableExists method.
func (m *MockProvider) ProdTableExists(ctx context.Context) (bool, error) {
	args := m.Called(ctx)
	return args.Bool(0), args.Error(1) //nolint:wrapcheck
}

// Load is the mock implementation of the Load method.
func (m *MockProvider) Load(ctx context.Context, table string, ndjson []byte, mode WriteMode) error {
	args := m.Called(ctx, table, ndjson, mode)
	return args.Error(0) //nolint:wrapcheck
}

// Merge is the mock implementation of the Merge method.
func (m *MockProvider) Merge(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1) //nolint:wrapcheck
}

// Close is the mock implementation of the Close method.
func (m *MockProvider) Close() error {
	args := m.Called()
	return args.Error(0) //nolint:wrapcheck
}
