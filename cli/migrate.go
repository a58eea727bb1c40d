package cli

import (
	"github.com/Masood0319/Startups-platform/database"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the database schema",
	Long: `Auto-migrates the investments, contracts, startups and revoked_tokens
tables. When DB_BACKUP_PATH is set a mysqldump is written there first.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap()
		if err != nil {
			return err
		}
		defer a.close()
		return database.RunMigrationsWithBackup(a.db, a.log)
	},
}
