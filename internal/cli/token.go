package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/SscSPs/site_workflow_app/internal/utils"
)

func init() {
	rootCmd.AddCommand(tokenCmd)
	tokenCmd.Flags().Duration("ttl", time.Hour, "Token lifetime")
}

var tokenCmd = &cobra.Command{
	Use:   "token USER_ID",
	Short: "Sign a bearer token for a user",
	Long: `Sign a bearer token for USER_ID with JWT_SECRET and JWT_ISSUER. Meant for
local development and smoke tests; production tokens come from the identity
service.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := bootstrap()
		if err != nil {
			return err
		}
		if cfg.IsProduction {
			return fmt.Errorf("refusing to sign tokens in production")
		}
		ttl, _ := cmd.Flags().GetDuration("ttl")
		token, err := utils.GenerateJWT(args[0], cfg.JWTSecret, ttl, cfg.JWTIssuer)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}
