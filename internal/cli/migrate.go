package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/SscSPs/site_workflow_app/internal/platform/config"
	"github.com/SscSPs/site_workflow_app/pkg/database"
)

func init() {
	rootCmd.AddCommand(migrateCmd)
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	Long:  `Apply every pending "up" migration from MIGRATIONS_PATH to the database at PGSQL_URL.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, logger, err := bootstrap()
		if err != nil {
			return err
		}
		if cfg.StoreDriver != config.StoreDriverPostgres {
			return fmt.Errorf("migrate requires STORE_DRIVER=%s, got %q", config.StoreDriverPostgres, cfg.StoreDriver)
		}
		applied, err := database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, logger)
		if err != nil {
			return err
		}
		if applied {
			fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
		} else {
			fmt.Fprintln(cmd.OutOrStdout(), "schema up to date")
		}
		return nil
	},
}
