package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"alcyxob/workout-tracker/internal/importer"
	"alcyxob/workout-tracker/internal/service"
	"alcyxob/workout-tracker/internal/storage"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	importS3Key    string
	importUserID   int64
	restoreCatalog string
)

var importCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Import a workout-log CSV export",
	Long: `Import a workout-log CSV export into the database.

Rows sharing a start time, end time and title become one workout. Dates that
already have a workout for the user are skipped, so the same export can be
imported again after new sessions were added to it.

The file is read from disk, or from the configured S3 bucket with --s3-key.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		r, err := openImportSource(ctx, args)
		if err != nil {
			return err
		}
		defer r.Close()

		store, err := openStore()
		if err != nil {
			return err
		}
		imports := service.NewImportService(store.Repositories(), nil)
		report, err := imports.Upload(ctx, r, userOrDefault(importUserID))
		printReport(report)
		return err
	},
}

var restoreCmd = &cobra.Command{
	Use:   "restore <file>",
	Short: "Rebuild history from a CSV export",
	Long: `Seed the exercise catalog and muscles, then load every day of a CSV
export as one workout.

Unlike import, restore does not check for existing workouts: running it twice
loads the history twice. Use it against an empty database.

--catalog points at a YAML mapping of exercise name to muscle list; the
built-in catalog is used when it is omitted.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		catalog := importer.DefaultCatalog()
		if restoreCatalog != "" {
			f, err := os.Open(restoreCatalog)
			if err != nil {
				return fmt.Errorf("open catalog: %w", err)
			}
			defer f.Close()
			if catalog, err = importer.LoadCatalog(f); err != nil {
				return err
			}
		}

		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("open export: %w", err)
		}
		defer f.Close()

		store, err := openStore()
		if err != nil {
			return err
		}
		imports := service.NewImportService(store.Repositories(), nil)
		report, err := imports.Restore(cmd.Context(), f, catalog, userOrDefault(importUserID))
		printReport(report)
		return err
	},
}

func init() {
	importCmd.Flags().StringVar(&importS3Key, "s3-key", "", "read the export from this key of the configured bucket")
	importCmd.Flags().Int64Var(&importUserID, "user", 0, "owner of the imported workouts (default import.default_user_id)")
	restoreCmd.Flags().StringVar(&restoreCatalog, "catalog", "", "YAML exercise catalog")
	restoreCmd.Flags().Int64Var(&importUserID, "user", 0, "owner of the restored workouts (default import.default_user_id)")
	rootCmd.AddCommand(importCmd, restoreCmd)
}

func userOrDefault(id int64) int64 {
	if id != 0 {
		return id
	}
	return cfg.Import.DefaultUserID
}

func openImportSource(ctx context.Context, args []string) (io.ReadCloser, error) {
	switch {
	case importS3Key != "" && len(args) > 0:
		return nil, fmt.Errorf("give either a file or --s3-key, not both")
	case importS3Key != "":
		src, err := storage.NewS3Source(ctx, cfg.S3)
		if err != nil {
			return nil, err
		}
		return src.Open(ctx, importS3Key)
	case len(args) == 1:
		return storage.FileSource{}.Open(ctx, args[0])
	}
	return nil, fmt.Errorf("a file or --s3-key is required")
}

func printReport(report *importer.Report) {
	if report == nil {
		return
	}
	if report.Status == importer.RunSuccess {
		color.Green("✓ %s", report.Summary())
	} else {
		color.Red("✗ %s", report.Summary())
	}
	for _, line := range report.SkippedDetails {
		fmt.Printf("  %s\n", line)
	}
	for _, res := range report.Results {
		if res.Status != importer.StatusFailed {
			continue
		}
		color.Yellow("  %s (line %d): %s", res.Key, res.Line, res.Reason)
	}
}
