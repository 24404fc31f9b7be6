package main

import (
	"fmt"
	"os"
	"strconv"

	"alcyxob/workout-tracker/internal/backfill"
	"alcyxob/workout-tracker/internal/domain"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	sledCutoff     string
	setEntries     map[string]int
	musclesReplace bool
	routineUserID  int64
)

var backfillCmd = &cobra.Command{
	Use:   "backfill",
	Short: "Repair historical workouts",
}

var backfillSledCmd = &cobra.Command{
	Use:   "sled",
	Short: "Put sled push and pull first in older workouts",
	Long: `Make the sled push and sled pull the first two exercises of every
workout before the cutoff date, inserting them with one default set when
missing. Weight, distance and reps come from the backfill section of the
config. Running it again changes nothing.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		raw := sledCutoff
		if raw == "" {
			raw = cfg.Backfill.CutoffDate
		}
		cutoff, err := domain.ParseDate(raw)
		if err != nil {
			return fmt.Errorf("invalid cutoff %q (use YYYY-MM-DD): %w", raw, err)
		}
		svc, err := backfillService()
		if err != nil {
			return err
		}
		res, err := svc.Sled(cmd.Context(), cutoff)
		if err != nil {
			return err
		}
		printResult("sled backfill", res)
		return nil
	},
}

var backfillRoutinesCmd = &cobra.Command{
	Use:   "routines",
	Short: "Put sled push and pull first on every routine day",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := backfillService()
		if err != nil {
			return err
		}
		res, err := svc.Routines(cmd.Context())
		if err != nil {
			return err
		}
		printResult("routine backfill", res)
		return nil
	},
}

var backfillSetsCmd = &cobra.Command{
	Use:   "sets",
	Short: "Add missing empty sets to workout exercises",
	Long: `Give each listed workout exercise sets numbered 1..n, adding empty
uncompleted sets for the missing numbers.

  $ workoutctl backfill sets --entry 12=4 --entry 13=3`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		want, err := parseEntries(setEntries)
		if err != nil {
			return err
		}
		if len(want) == 0 {
			return fmt.Errorf("at least one --entry is required")
		}
		svc, err := backfillService()
		if err != nil {
			return err
		}
		res, err := svc.Sets(cmd.Context(), want)
		if err != nil {
			return err
		}
		printResult("set backfill", res)
		return nil
	},
}

var musclesCmd = &cobra.Command{
	Use:   "muscles",
	Short: "Manage exercise muscle links",
}

var musclesPopulateCmd = &cobra.Command{
	Use:   "populate",
	Short: "Link exercises to the muscles their names suggest",
	Long: `Guess the muscles worked by every exercise from keywords in its name
and link them, creating muscles as needed. Links are only added unless
--replace is given, in which case each guessed exercise is relinked from
scratch.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := backfillService()
		if err != nil {
			return err
		}
		res, err := svc.PopulateMuscles(cmd.Context(), musclesReplace)
		if err != nil {
			return err
		}
		printResult("muscle population", res)
		return nil
	},
}

var routineCmd = &cobra.Command{
	Use:   "routine",
	Short: "Manage routines",
}

var routineImportCmd = &cobra.Command{
	Use:   "import <file.yaml>",
	Short: "Create a routine from a YAML document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("open routine: %w", err)
		}
		defer f.Close()
		doc, err := backfill.LoadRoutineDocument(f)
		if err != nil {
			return err
		}
		if routineUserID != 0 {
			doc.UserID = routineUserID
		}

		svc, err := backfillService()
		if err != nil {
			return err
		}
		routine, err := svc.ImportRoutine(cmd.Context(), doc, cfg.Workout.DefaultUserID)
		if err != nil {
			return err
		}
		color.Green("✓ Created routine %q (ID %d) with %d days", routine.Name, routine.ID, len(routine.Days))
		return nil
	},
}

func init() {
	backfillSledCmd.Flags().StringVar(&sledCutoff, "cutoff", "", "only workouts before this date (default backfill.cutoff_date)")
	backfillSetsCmd.Flags().StringToIntVar(&setEntries, "entry", nil, "workout_exercise_id=sets, repeatable")
	musclesPopulateCmd.Flags().BoolVar(&musclesReplace, "replace", false, "drop existing links of guessed exercises first")
	routineImportCmd.Flags().Int64Var(&routineUserID, "user", 0, "owner of the routine (default: the document's user_id, then workout.default_user_id)")

	backfillCmd.AddCommand(backfillSledCmd, backfillRoutinesCmd, backfillSetsCmd)
	musclesCmd.AddCommand(musclesPopulateCmd)
	routineCmd.AddCommand(routineImportCmd)
	rootCmd.AddCommand(backfillCmd, musclesCmd, routineCmd)
}

func backfillService() (*backfill.Service, error) {
	store, err := openStore()
	if err != nil {
		return nil, err
	}
	return backfill.NewService(store.Repositories(), cfg.Backfill), nil
}

// parseEntries turns --entry id=n flags into set targets per workout exercise.
func parseEntries(entries map[string]int) (map[int64]int, error) {
	want := make(map[int64]int, len(entries))
	for key, n := range entries {
		id, err := strconv.ParseInt(key, 10, 64)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("invalid workout exercise id %q", key)
		}
		if n < 1 {
			return nil, fmt.Errorf("entry %d: set count must be positive, got %d", id, n)
		}
		want[id] = n
	}
	return want, nil
}

func printResult(name string, res *backfill.Result) {
	color.Green("✓ %s complete", name)
	fmt.Printf("  scanned:   %d\n", res.Scanned)
	fmt.Printf("  updated:   %d\n", res.Updated)
	fmt.Printf("  inserted:  %d\n", res.Inserted)
	if res.Reordered > 0 {
		fmt.Printf("  reordered: %d\n", res.Reordered)
	}
}
