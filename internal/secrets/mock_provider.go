package secrets

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockProvider is a mock implementation of the Provider interface for testing.
type MockProvider struct {
	mock.Mock
}

// AccessLatest is the mock implementation of the AccessLatest method.
func (m *MockProvider) AccessLatest(ctx context.Context, projectID, secretID string) (string, error) {
	args := m.Called(ctx, projectID, secretID)
	return args.String(0), args.Error(1) //nolint:wrapcheck
}
