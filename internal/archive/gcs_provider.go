package archive

import (
	"context"
	"fmt"

	"cloud.google.com/go/storage"
	"go.uber.org/zap"

	"github.com/firmmetrics/leadsync/internal/logging"
)

// GCSProvider implements the archive.Provider interface for Google
// Cloud Storage.
type GCSProvider struct {
	Client     *storage.Client
	BucketName string
}

// NewGCSProvider initializes a new GCS client and verifies the bucket
// is reachable, failing fast on startup if configuration is wrong.
// Authentication is handled via Application Default Credentials.
func NewGCSProvider(ctx context.Context, bucketName string) (*GCSProvider, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS client: %w", err)
	}

	bkt := client.Bucket(bucketName)
	if _, err := bkt.Attrs(ctx); err != nil {
		if closeErr := client.Close(); closeErr != nil {
			logging.L.Warn("Failed to close GCS client after bucket check failure", zap.Error(closeErr))
		}
		return nil, fmt.Errorf("failed to get GCS bucket '%s' attributes: %w", bucketName, err)
	}

	return &GCSProvider{
		Client:     client,
		BucketName: bucketName,
	}, nil
}

// Save uploads the given data to a specific object in the GCS bucket.
func (g *GCSProvider) Save(ctx context.Context, objectName string, data []byte) error {
	wc := g.Client.Bucket(g.BucketName).Object(objectName).NewWriter(ctx)
	wc.ContentType = "application/x-ndjson"

	if _, err := wc.Write(data); err != nil {
		// Still close the writer to clean up; the write failure is the
		// error worth reporting.
		closeErr := wc.Close()
		logging.L.Warn("Failed to close GCS writer after write failure", zap.Error(err), zap.Error(closeErr))
		return fmt.Errorf("failed to write data to GCS object %s: %w", objectName, err)
	}

	// Close finalizes the upload and flushes buffered data.
	if err := wc.Close(); err != nil {
		return fmt.Errorf("failed to close GCS writer for object %s: %w", objectName, err)
	}

	return nil
}
