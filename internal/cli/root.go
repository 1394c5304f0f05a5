// Package cli holds the site workflow backend's command tree.
package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "swa_backend",
	Short: "Construction project workflow backend",
	Long: `Backend for construction project workflow: task lifecycle with
proof-of-work review, payout settlement into an append-only ledger, and
relationship-based access control.

Configuration is read from the environment and an optional .env file.`,
	SilenceUsage: true,
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
