package main

import (
	"fmt"
	"os"

	"alcyxob/workout-tracker/internal/importer"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var convertCatalog string

var convertCmd = &cobra.Command{
	Use:   "convert <export.csv> <out.json>",
	Short: "Convert a CSV export to JSON workouts",
	Long: `Convert a CSV export into a JSON array with one workout per day.
Weights are written in kilograms and distances in meters; exercises that
share a superset id are grouped. No database is needed.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		catalog := importer.DefaultCatalog()
		if convertCatalog != "" {
			f, err := os.Open(convertCatalog)
			if err != nil {
				return fmt.Errorf("open catalog: %w", err)
			}
			defer f.Close()
			if catalog, err = importer.LoadCatalog(f); err != nil {
				return err
			}
		}

		in, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("open export: %w", err)
		}
		defer in.Close()
		rows, err := importer.ReadRows(in)
		if err != nil {
			return err
		}
		workouts, err := importer.Convert(rows, catalog)
		if err != nil {
			return err
		}
		if err := writeJSONFile(args[1], workouts); err != nil {
			return err
		}
		color.Green("✓ Wrote %d workouts to %s", len(workouts), args[1])
		return nil
	},
}

var consolidateCmd = &cobra.Command{
	Use:   "consolidate <dir> <out.json>",
	Short: "Merge JSON workout files into one",
	Long: `Merge every JSON workout array in a directory into one file, newest
date first. Files are read in name order and a later file wins when two
contain the same date. The output file may live inside the directory.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := importer.Consolidate(args[0])
		if err != nil {
			return err
		}
		if err := writeJSONFile(args[1], result.Workouts); err != nil {
			return err
		}
		color.Green("✓ Merged %d files into %d workouts in %s", result.Files, len(result.Workouts), args[1])
		for _, name := range result.SkippedFiles {
			color.Yellow("  skipped %s: not a JSON workout array", name)
		}
		return nil
	},
}

func init() {
	convertCmd.Flags().StringVar(&convertCatalog, "catalog", "", "YAML exercise catalog for muscle groups")
	rootCmd.AddCommand(convertCmd, consolidateCmd)
}

func writeJSONFile(path string, v any) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := importer.WriteJSON(out, v); err != nil {
		out.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return out.Close()
}
