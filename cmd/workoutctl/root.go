package main

import (
	"fmt"
	"log/slog"

	"alcyxob/workout-tracker/internal/config"
	"alcyxob/workout-tracker/internal/logging"
	"alcyxob/workout-tracker/internal/repository/sqlstore"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var (
	configDir string
	cfg       config.Config
	db        *gorm.DB
)

var rootCmd = &cobra.Command{
	Use:   "workoutctl",
	Short: "Maintenance tool for the workout tracker database",
	Long: `workoutctl runs the one-off jobs that sit next to the API server:
schema migrations, CSV imports, historical backfills and file conversions.

IMPORTS:

  $ workoutctl import export.csv                # add new sessions, skip known dates
  $ workoutctl import --s3-key exports/jan.csv  # same, reading from the S3 bucket
  $ workoutctl restore export.csv               # seed catalog and load every day

BACKFILLS:

  $ workoutctl backfill sled
  $ workoutctl backfill routines
  $ workoutctl backfill sets --entry 12=4 --entry 13=3
  $ workoutctl muscles populate --replace
  $ workoutctl routine import configs/routines/upper_lower.yaml

FILES:

  $ workoutctl convert export.csv workouts.json
  $ workoutctl consolidate data/ workouts.json

Configuration is read from config.yaml and .env in --config, then from the
environment (DATABASE_DRIVER, DATABASE_DSN, S3_BUCKET_NAME, ...).`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.LoadConfig(configDir)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		logging.Setup(cfg.Log)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config", ".", "directory holding config.yaml and .env")
}

// execute runs the selected command and closes the database afterwards,
// whether or not the command failed.
func execute() error {
	defer closeStore()
	return rootCmd.Execute()
}

func closeStore() {
	if db == nil {
		return
	}
	if err := sqlstore.Close(db); err != nil {
		slog.Error("failed to close database", "error", err)
	}
	db = nil
}

// openStore connects to the configured database and brings the schema up to
// date. The connection is closed by execute once the command returns.
func openStore() (*sqlstore.Store, error) {
	if db == nil {
		conn, err := sqlstore.Open(cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
		db = conn
		if err := sqlstore.Migrate(db); err != nil {
			return nil, fmt.Errorf("migrate database: %w", err)
		}
	}
	return sqlstore.NewStore(db), nil
}
