package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	portsrepo "github.com/SscSPs/site_workflow_app/internal/core/ports/repositories"
	"github.com/SscSPs/site_workflow_app/internal/platform/config"
	"github.com/SscSPs/site_workflow_app/internal/seed"
)

func init() {
	rootCmd.AddCommand(seedCmd)
	seedCmd.Flags().StringP("file", "f", "", "Path to the JSON fixture")
	_ = seedCmd.MarkFlagRequired("file")
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load a JSON fixture into the database",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, logger, err := bootstrap()
		if err != nil {
			return err
		}
		if cfg.StoreDriver == config.StoreDriverMemory {
			return fmt.Errorf("seeding the in-memory store only lasts for this process; use 'serve --seed' instead")
		}
		path, _ := cmd.Flags().GetString("file")

		ctx := cmd.Context()
		repos, closeStore, err := openStore(ctx, cfg, logger, true)
		if err != nil {
			return err
		}
		defer closeStore()

		return seedFromFile(ctx, repos, path, logger)
	},
}

func seedFromFile(ctx context.Context, repos portsrepo.RepositoryProvider, path string, logger *slog.Logger) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open fixture: %w", err)
	}
	defer file.Close()

	fixture, err := seed.Decode(file)
	if err != nil {
		return fmt.Errorf("fixture %s: %w", path, err)
	}
	summary, err := seed.Apply(ctx, repos, fixture, time.Now().UTC())
	if err != nil {
		return err
	}
	logger.Info("Fixture loaded", slog.String("path", path), slog.Int("written", summary.Written), slog.Int("skipped", summary.Skipped))
	return nil
}
