package secrets

import (
	"context"
	"fmt"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
)

// GCPProvider implements Provider on top of Google Secret Manager.
// Authentication is handled via Application Default Credentials.
type GCPProvider struct {
	Client *secretmanager.Client
}

// NewGCPProvider creates a Secret Manager client.
func NewGCPProvider(ctx context.Context) (*GCPProvider, error) {
	client, err := secretmanager.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("create secret manager client: %w", err)
	}
	return &GCPProvider{Client: client}, nil
}

// AccessLatest fetches projects/{p}/secrets/{s}/versions/latest.
func (p *GCPProvider) AccessLatest(ctx context.Context, projectID, secretID string) (string, error) {
	name := fmt.Sprintf("projects/%s/secrets/%s/versions/latest", projectID, secretID)
	resp, err := p.Client.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{
		Name: name,
	})
	if err != nil {
		return "", fmt.Errorf("access secret version %s: %w", name, err)
	}
	return string(resp.GetPayload().GetData()), nil
}

// Close releases the underlying gRPC connection.
func (p *GCPProvider) Close() error {
	if err := p.Client.Close(); err != nil {
		return fmt.Errorf("close secret manager client: %w", err)
	}
	return nil
}
