package cmd

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"cloud.google.com/go/pubsub"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/firmmetrics/leadsync/internal/api"
)

const shutdownTimeout = 15 * time.Second

// newServeCmd creates the 'serve' subcommand: a long-running process
// that executes one sync pass per Pub/Sub trigger message and exposes
// health and metrics endpoints over HTTP.
func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Runs sync passes on Pub/Sub triggers",
		Long: `Subscribes to the configured Pub/Sub subscription and executes one
synchronization pass per message. The message body may carry the
lookback window in minutes, either as plain text or base64-encoded;
anything else falls back to the configured default. Health and
Prometheus metrics are served over HTTP while the subscriber runs.`,

		RunE: runServeCommand,
	}
	return cmd
}

func runServeCommand(cmd *cobra.Command, _ []string) error {
	appInstance, err := resolveApp(cmd.Context())
	if err != nil {
		return err
	}
	cfg := appInstance.GetConfig()
	logger := appInstance.GetLogger()

	if cfg.Trigger.SubscriptionID == "" {
		return errors.New("trigger.subscription_id must be set for serve mode")
	}

	signalCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	// A health-server failure cancels this context so the subscriber
	// never keeps consuming without its health and metrics surface.
	ctx, cancel := context.WithCancel(signalCtx)
	defer cancel()

	client, err := pubsub.NewClient(ctx, cfg.GCP.ProjectID)
	if err != nil {
		return fmt.Errorf("create pubsub client: %w", err)
	}
	defer func() {
		if cerr := client.Close(); cerr != nil {
			logger.Warn("Failed to close pubsub client", zap.Error(cerr))
		}
	}()

	sub := client.Subscription(cfg.Trigger.SubscriptionID)
	// One run at a time: overlapping passes would race on the shared
	// staging table.
	sub.ReceiveSettings.MaxOutstandingMessages = 1

	server := api.NewServer(cfg.Server.Port, logger)
	serverErr := startHealthServer(server, cancel, logger)

	logger.Info("Listening for sync triggers",
		zap.String("subscription", cfg.Trigger.SubscriptionID),
		zap.Int("default_lookback_minutes", cfg.Trigger.DefaultLookback),
	)

	receiveErr := sub.Receive(ctx, func(msgCtx context.Context, msg *pubsub.Message) {
		lookback := parseLookback(msg.Data, cfg.Trigger.DefaultLookback)
		logger.Info("Trigger message received",
			zap.String("message_id", msg.ID),
			zap.Int("lookback_minutes", lookback),
		)

		if _, err := appInstance.GetPipeline().Run(msgCtx, lookback); err != nil {
			logger.Error("Sync run failed, message will be redelivered", zap.Error(err))
			msg.Nack()
			return
		}
		msg.Ack()
	})

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn("HTTP server shutdown failed", zap.Error(err))
	}
	httpErr := <-serverErr

	if receiveErr != nil && !errors.Is(receiveErr, context.Canceled) {
		return fmt.Errorf("receive trigger messages: %w", receiveErr)
	}
	if httpErr != nil {
		return fmt.Errorf("health server: %w", httpErr)
	}

	logger.Info("Serve command finished.")
	return nil
}

// startHealthServer runs the HTTP server in the background. On failure
// it cancels the given context, which unwinds the Pub/Sub subscriber;
// the server's exit error is delivered on the returned channel.
func startHealthServer(server *api.Server, cancel context.CancelFunc, logger *zap.Logger) <-chan error {
	errCh := make(chan error, 1)
	go func() {
		err := server.Start()
		if err != nil {
			logger.Error("HTTP server failed, stopping subscriber", zap.Error(err))
			cancel()
		}
		errCh <- err
	}()
	return errCh
}

// parseLookback extracts the lookback window from a trigger message
// body. Cloud Scheduler jobs are usually configured with a plain
// integer body, but some publishers base64-encode it; both forms are
// accepted. Empty or malformed bodies fall back to the default.
func parseLookback(data []byte, defaultMinutes int) int {
	text := strings.TrimSpace(string(data))
	if text == "" {
		return defaultMinutes
	}

	if minutes, err := strconv.Atoi(text); err == nil && minutes > 0 {
		return minutes
	}

	if decoded, err := base64.StdEncoding.DecodeString(text); err == nil {
		inner := strings.TrimSpace(string(decoded))
		if minutes, err := strconv.Atoi(inner); err == nil && minutes > 0 {
			return minutes
		}
	}

	return defaultMinutes
}
