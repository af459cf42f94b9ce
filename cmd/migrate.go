package cmd

import (
	"github.com/spf13/cobra"

	"github.com/jjenkins/countries/internal/store"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations",
	Long:  `Apply all pending schema migrations to the database in DATABASE_URL.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, logger := mustLoad()

		logger.Info("Applying migrations...")
		if err := store.Migrate(cfg.DatabaseURL); err != nil {
			logger.Fatalf("Migration failed: %v", err)
		}
		logger.Info("Database schema is up to date")
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
