// Package secrets defines the interface for resolving API credentials
// from a secret store. The abstraction keeps the LeadDocket client and
// the application wiring independent of Google Secret Manager.
package secrets

import (
	"context"
)

// Provider resolves secret material by project and secret identifier.
type Provider interface {
	// AccessLatest returns the payload of the latest enabled version
	// of the named secret.
	AccessLatest(ctx context.Context, projectID, secretID string) (string, error)
}
