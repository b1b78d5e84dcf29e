package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// newSyncCmd creates the 'sync' subcommand: one synchronization pass
// over the given lookback window, then exit.
func newSyncCmd() *cobra.Command {
	var minutes int

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Runs one synchronization pass and exits",
		Long: `Fetches every lead whose status changed in the last N minutes,
normalizes the records, and reconciles them into the warehouse. The
process exits non-zero if the run aborts for any reason.`,

		RunE: func(cmd *cobra.Command, _ []string) error {
			appInstance, err := resolveApp(cmd.Context())
			if err != nil {
				return err
			}

			lookback := minutes
			if lookback <= 0 {
				lookback = appInstance.GetConfig().Trigger.DefaultLookback
			}

			result, err := appInstance.GetPipeline().Run(cmd.Context(), lookback)
			if err != nil {
				return fmt.Errorf("sync run: %w", err)
			}

			appInstance.GetLogger().Info("Sync command finished.",
				zap.String("run_id", result.RunID),
				zap.Int("leads", result.LeadCount),
				zap.Int64("rows_inserted", result.RowsInserted),
			)
			return nil
		},
	}

	cmd.Flags().IntVar(&minutes, "minutes", 0, "lookback window in minutes (default from trigger.default_lookback_minutes)")

	return cmd
}
