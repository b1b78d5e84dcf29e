// Package archive defines the interface for persisting each run's raw
// NDJSON batch before it is loaded into the warehouse. The archive is
// the audit trail for replaying or inspecting a run; it is optional and
// a no-op by default.
package archive

import (
	"context"
)

// Provider defines the common interface for a run-archive backend.
type Provider interface {
	// Save persists data under the given object name.
	Save(ctx context.Context, objectName string, data []byte) error
}

// NoOpProvider discards archive writes. Used when no archive bucket is
// configured.
type NoOpProvider struct{}

// Save for NoOpProvider does nothing and always returns nil.
func (n *NoOpProvider) Save(_ context.Context, _ string, _ []byte) error {
	return nil
}
