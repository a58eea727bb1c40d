// Package cli holds the travest command tree.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "travest",
	Short: "Travest Shariah-compliant investment service",
	Long: `Travest connects founders, investors and fund managers under
Shariah-compliant terms. This binary runs the investment API and the
maintenance tasks around it.

Configuration is read from the environment and an optional .env file.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd, previewCmd, reconcileCmd, revokeCmd)
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
