package main

import (
	"fmt"

	"alcyxob/workout-tracker/internal/repository/sqlstore"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var migrateRollback bool

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending schema migrations",
	Long: `Apply every pending schema migration to the configured database.

With --rollback the most recent migration is undone instead.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		conn, err := sqlstore.Open(cfg.Database)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		db = conn

		if migrateRollback {
			if err := sqlstore.RollbackLast(db); err != nil {
				return fmt.Errorf("rollback: %w", err)
			}
			color.Yellow("Rolled back the last migration")
			return nil
		}
		if err := sqlstore.Migrate(db); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		color.Green("✓ Schema is up to date (%s)", cfg.Database.Driver)
		return nil
	},
}

func init() {
	migrateCmd.Flags().BoolVar(&migrateRollback, "rollback", false, "undo the most recent migration")
	rootCmd.AddCommand(migrateCmd)
}
