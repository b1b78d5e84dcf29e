// Package cmd defines and implements the CLI commands for the leadsync executable.
package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/firmmetrics/leadsync/internal/app"
	"github.com/firmmetrics/leadsync/internal/config"
	"github.com/firmmetrics/leadsync/internal/logging"
	"github.com/firmmetrics/leadsync/internal/pipeline"
)

var cfgFile string

// appKeyType is the key for storing the App in the context.
type appKeyType string

const appKey appKeyType = "app"

// App defines the application interface that commands use. This allows
// injecting a mock app during tests.
type App interface {
	Close()
	GetLogger() *zap.Logger
	GetConfig() config.Config
	GetPipeline() *pipeline.Pipeline
}

// newApp is the application factory. It is a variable so tests can
// replace it with a mock factory.
var newApp func(ctx context.Context) (App, error) = func(ctx context.Context) (App, error) {
	return app.NewApp(ctx)
}

// newRootCmd creates and configures the root command.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "leadsync",
		Short: "Incremental LeadDocket-to-BigQuery synchronizer.",
		Long: `leadsync keeps a BigQuery warehouse in step with a LeadDocket tenant.
Each run fetches the leads whose status changed inside a lookback
window, expands them to full detail records, flattens them into the
warehouse schema, and reconciles them into the production table with
a key-matched merge.`,

		// Runs after config is loaded but before the subcommand's RunE:
		// the place to build and inject the application services.
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			appInstance, err := newApp(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to initialize application services: %w", err)
			}

			ctx := context.WithValue(cmd.Context(), appKey, appInstance)
			cmd.SetContext(ctx)
			return nil
		},

		// Shuts services down gracefully once the subcommand returns.
		PersistentPostRun: func(cmd *cobra.Command, _ []string) {
			if appInstance, ok := cmd.Context().Value(appKey).(App); ok && appInstance != nil {
				appInstance.Close()
			}
		},
	}

	cobra.OnInitialize(func() { config.InitConfig(cfgFile) })

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default searches ., /etc/leadsync, $HOME/.leadsync)")

	cmd.AddCommand(newSyncCmd())
	cmd.AddCommand(newServeCmd())

	return cmd
}

func resolveApp(ctx context.Context) (App, error) {
	appInstance, ok := ctx.Value(appKey).(App)
	if !ok || appInstance == nil {
		return nil, errors.New("application services not initialized")
	}
	return appInstance, nil
}

// Execute is the main entry point.
func Execute() {
	// Config has not been read yet, so start with the production
	// logger; NewApp re-initializes it once logging.development is
	// known.
	logging.InitLogger(false)

	if err := newRootCmd().Execute(); err != nil {
		logging.L.Fatal("Command execution failed", zap.Error(err))
	}
}
