package cli

import (
	"fmt"
	"time"

	"github.com/Masood0319/Startups-platform/utils"

	"github.com/spf13/cobra"
)

var (
	revokeJTI string
	revokeTTL time.Duration
)

var revokeCmd = &cobra.Command{
	Use:   "revoke",
	Short: "Revoke an access token by its jti",
	Long: `Adds a token id to the revocation store. Redis is used when
REDIS_ADDR is configured, otherwise the revoked_tokens table.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if revokeJTI == "" {
			return fmt.Errorf("--jti is required")
		}
		a, err := bootstrap()
		if err != nil {
			return err
		}
		defer a.close()
		if err := utils.RevokeJTI(cmd.Context(), revokeJTI, revokeTTL); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "revoked %s\n", revokeJTI)
		return nil
	},
}

func init() {
	revokeCmd.Flags().StringVar(&revokeJTI, "jti", "", "token id to revoke")
	revokeCmd.Flags().DurationVar(&revokeTTL, "ttl", 7*24*time.Hour, "how long Redis keeps the entry")
}
