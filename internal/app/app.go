// Package app initializes and holds long-lived application services, acting as a dependency injection container.
package app

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/firmmetrics/leadsync/internal/archive"
	"github.com/firmmetrics/leadsync/internal/clock/system"
	"github.com/firmmetrics/leadsync/internal/config"
	"github.com/firmmetrics/leadsync/internal/id/uuid"
	"github.com/firmmetrics/leadsync/internal/leaddocket"
	"github.com/firmmetrics/leadsync/internal/logging"
	"github.com/firmmetrics/leadsync/internal/metrics"
	"github.com/firmmetrics/leadsync/internal/pipeline"
	"github.com/firmmetrics/leadsync/internal/secrets"
	"github.com/firmmetrics/leadsync/internal/warehouse"
)

// SecretsFactory builds the secret store client. It is a variable so
// tests can substitute a mock provider and avoid real GCP calls.
var SecretsFactory = func(ctx context.Context) (secrets.Provider, error) {
	return secrets.NewGCPProvider(ctx)
}

// App holds all the shared, long-lived services for the application.
// It is initialized once at startup and passed to the commands that
// need it.
type App struct {
	Logger    *zap.Logger
	Config    config.Config
	Warehouse warehouse.Provider
	Archive   archive.Provider
	Pipeline  *pipeline.Pipeline
}

// GetLogger returns the shared zap logger instance.
func (a *App) GetLogger() *zap.Logger {
	return a.Logger
}

// GetConfig returns the validated service configuration.
func (a *App) GetConfig() config.Config {
	return a.Config
}

// GetPipeline returns the sync pipeline built at startup.
func (a *App) GetPipeline() *pipeline.Pipeline {
	return a.Pipeline
}

// NewApp creates and initializes a new App struct based on the application's configuration.
// It is the central point for service initialization: it loads and
// validates configuration, resolves the LeadDocket API key from the
// secret store, and instantiates the configured warehouse and archive
// providers. It is designed to fail fast if any critical service
// cannot be initialized.
func NewApp(ctx context.Context) (*App, error) {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	// Re-initialize the logger now that the config is loaded; the
	// pre-config logger runs in production mode.
	logging.InitLogger(cfg.Logging.Development)
	l := logging.L
	l.Info("Initializing application services...")

	metrics.Init()

	// 1. Resolve the LeadDocket API key. The secret store client is
	// only needed at startup, so it is closed as soon as the key is in
	// hand.
	secretStore, err := SecretsFactory(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize secret store: %w", err)
	}
	apiKey, err := secretStore.AccessLatest(ctx, cfg.GCP.ProjectID, cfg.GCP.SecretID)
	if closer, ok := secretStore.(io.Closer); ok {
		if closeErr := closer.Close(); closeErr != nil {
			l.Warn("Error closing secret store client", zap.Error(closeErr))
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve API key: %w", err)
	}

	// 2. Initialize the LeadDocket client.
	timeout := time.Duration(cfg.API.TimeoutSeconds) * time.Second
	leads, err := leaddocket.NewClient(cfg.API.BaseURL, apiKey, timeout, l)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize lead client: %w", err)
	}

	// 3. Initialize the warehouse provider.
	var wh warehouse.Provider
	switch cfg.Warehouse.Provider {
	case "bigquery":
		l.Info("Using BigQuery warehouse provider",
			zap.String("dataset", cfg.Warehouse.Dataset),
			zap.String("prod_table", cfg.Warehouse.ProdTable),
		)
		wh, err = warehouse.NewBigQueryProvider(
			ctx,
			cfg.GCP.ProjectID,
			cfg.Warehouse.Dataset,
			cfg.Warehouse.ProdTable,
			cfg.Warehouse.StagingTable,
			cfg.Warehouse.Location,
			l,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize warehouse: %w", err)
		}
	case "noop":
		l.Info("Using No-Op warehouse provider. Rows will be discarded.")
		wh = warehouse.NoOpProvider{}
	default:
		return nil, fmt.Errorf("unknown warehouse provider: %s", cfg.Warehouse.Provider)
	}

	// 4. Initialize the archive provider.
	var arch archive.Provider
	switch cfg.Archive.Provider {
	case "gcs":
		l.Info("Using GCS archive provider", zap.String("bucket", cfg.Archive.Bucket))
		arch, err = archive.NewGCSProvider(ctx, cfg.Archive.Bucket)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize archive: %w", err)
		}
	case "noop":
		l.Info("Using No-Op archive provider. Run batches will not be archived.")
		arch = &archive.NoOpProvider{}
	default:
		return nil, fmt.Errorf("unknown archive provider: %s", cfg.Archive.Provider)
	}

	p := pipeline.New(
		leads,
		wh,
		arch,
		system.New(),
		uuid.NewUUIDGenerator(),
		pipeline.Config{
			ProdTable:     cfg.Warehouse.ProdTable,
			StagingTable:  cfg.Warehouse.StagingTable,
			ArchivePrefix: cfg.Archive.Prefix,
		},
		l,
	)

	l.Info("Application services initialized successfully.")

	return &App{
		Logger:    l,
		Config:    cfg,
		Warehouse: wh,
		Archive:   arch,
		Pipeline:  p,
	}, nil
}

// Close gracefully shuts down all services in the App container.
// It is called by a Cobra hook after the command finishes execution.
func (a *App) Close() {
	a.GetLogger().Info("Shutting down application services...")
	if a.Warehouse != nil {
		if err := a.Warehouse.Close(); err != nil {
			a.GetLogger().Warn("Error closing warehouse client", zap.Error(err))
		}
	}
	// Note: the GCS archive client does not require an explicit close
	// operation.

	// Flushing the logger buffer is important to ensure all logs are written before the application exits.
	if err := a.GetLogger().Sync(); err != nil {
		// Best effort; logging itself might be failing.
		a.GetLogger().Warn("Error syncing logger on shutdown", zap.Error(err))
	}
}
