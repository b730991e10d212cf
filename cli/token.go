package cli

import (
	"clementus360/doit/supabase"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var (
	tokenUser string
	tokenTTL  time.Duration
)

var tokenCmd = &cobra.Command{
	Use:    "token",
	Short:  "Mint a user access token for local development",
	Hidden: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if settings.JWTSecret == "" {
			return fmt.Errorf("SUPABASE_JWT_SECRET is not set")
		}
		if tokenUser == "" {
			return fmt.Errorf("--user is required")
		}
		token, err := supabase.GenerateTestJWT(tokenUser, settings.JWTSecret, tokenTTL)
		if err != nil {
			return fmt.Errorf("sign token: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	tokenCmd.Flags().StringVar(&tokenUser, "user", "", "user id for the sub claim")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", time.Hour, "token lifetime")
}
