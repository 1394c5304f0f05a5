package cli

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/SscSPs/site_workflow_app/internal/core/services"
	"github.com/SscSPs/site_workflow_app/internal/notify"
	"github.com/SscSPs/site_workflow_app/internal/utils/pagination"
)

func init() {
	rootCmd.AddCommand(reconcileCmd)
	reconcileCmd.Flags().Int("limit", pagination.DefaultLimit, "Maximum number of tasks to settle in this pass")
}

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Settle approved tasks that have no ledger entries",
	Long: `Find DONE tasks whose approval committed without settlement, append
their ledger entries idempotently and refresh project progress. Safe to run
repeatedly, e.g. from a scheduler.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, logger, err := bootstrap()
		if err != nil {
			return err
		}
		limit, _ := cmd.Flags().GetInt("limit")
		if limit < 1 {
			return fmt.Errorf("--limit must be positive")
		}

		ctx := cmd.Context()
		repos, closeStore, err := openStore(ctx, cfg, logger, false)
		if err != nil {
			return err
		}
		defer closeStore()

		dispatcher := notify.NewDispatcher(logger, cfg.NotificationBuffer, notify.LogNotifier{})
		defer func() {
			if err := dispatcher.Close(ctx); err != nil {
				logger.Warn("Notification queue not fully drained", slog.String("error", err.Error()))
			}
		}()

		container := services.NewServiceContainer(repos, dispatcher)
		summary, err := container.Task.ReconcileSettlements(ctx, limit)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(summary); err != nil {
			return err
		}
		if len(summary.Failed) > 0 {
			return fmt.Errorf("%d task(s) could not be settled", len(summary.Failed))
		}
		return nil
	},
}
