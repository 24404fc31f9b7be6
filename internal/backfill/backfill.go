package backfill

import (
	"context"
	"fmt"
	"log/slog"

	"alcyxob/workout-tracker/internal/config"
	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/repository"
)

// Result counts what a backfill touched.
type Result struct {
	Scanned   int `json:"scanned"`
	Updated   int `json:"updated"`
	Inserted  int `json:"inserted"`
	Reordered int `json:"reordered"`
}

// Service runs the backfills against one repository bundle. Every run is a
// single transaction.
type Service struct {
	repos repository.Repositories
	cfg   config.BackfillConfig
}

// NewService creates a backfill service.
func NewService(repos repository.Repositories, cfg config.BackfillConfig) *Service {
	return &Service{repos: repos, cfg: cfg}
}

func (s *Service) sledExercises(ctx context.Context, repos repository.Repositories) ([]int64, error) {
	strength := domain.ExerciseTypeStrength
	var ids []int64
	for _, name := range []string{s.cfg.SledPushName, s.cfg.SledPullName} {
		ex, created, err := repos.Exercises.EnsureByName(ctx, &domain.Exercise{Name: name, Type: &strength})
		if err != nil {
			return nil, fmt.Errorf("ensure %s: %w", name, err)
		}
		if created {
			slog.Info("created sled exercise", "name", name, "id", ex.ID)
		}
		ids = append(ids, ex.ID)
	}
	return ids, nil
}

// Sled puts the sled push and pull first in every workout dated before
// cutoff. Missing ones are inserted with one set of the configured weight,
// distance and reps; the remaining entries keep their order after them.
// Running it twice changes nothing the second time.
func (s *Service) Sled(ctx context.Context, cutoff domain.Date) (*Result, error) {
	res := &Result{}
	err := s.repos.Tx.WithinTx(ctx, func(repos repository.Repositories) error {
		pinned, err := s.sledExercises(ctx, repos)
		if err != nil {
			return err
		}
		workouts, err := repos.Workouts.ListBefore(ctx, cutoff)
		if err != nil {
			return err
		}
		for _, w := range workouts {
			res.Scanned++
			current, err := repos.WorkoutExercises.List(ctx, &w.ID)
			if err != nil {
				return err
			}
			entries := make([]Entry, len(current))
			for i, we := range current {
				entries[i] = Entry{ID: we.ID, ExerciseID: we.ExerciseID, Sequence: we.Sequence}
			}
			plan := PrependPinned(entries, pinned)
			if plan.Empty() {
				continue
			}
			if err := s.applyWorkoutPlan(ctx, repos, w.ID, plan, res); err != nil {
				return fmt.Errorf("workout %d: %w", w.ID, err)
			}
			res.Updated++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	slog.Info("sled backfill complete", "cutoff", cutoff.String(), "scanned", res.Scanned, "updated", res.Updated, "inserted", res.Inserted)
	return res, nil
}

func (s *Service) applyWorkoutPlan(ctx context.Context, repos repository.Repositories, workoutID int64, plan Plan, res *Result) error {
	for _, mv := range plan.Moves {
		if _, err := repos.WorkoutExercises.SetSequence(ctx, workoutID, mv.ID, mv.Sequence); err != nil {
			return err
		}
		res.Reordered++
	}
	for _, ins := range plan.Inserts {
		we := &domain.WorkoutExercise{WorkoutID: workoutID, ExerciseID: ins.ExerciseID, Sequence: ins.Sequence}
		if err := repos.WorkoutExercises.Create(ctx, we); err != nil {
			return err
		}
		weight, distance, reps := s.cfg.SledWeightKg, s.cfg.SledDistanceM, s.cfg.SledReps
		set := &domain.WorkoutSet{
			WorkoutExerciseID: we.ID,
			SetNumber:         1,
			WeightKg:          &weight,
			DistanceM:         &distance,
			Reps:              &reps,
		}
		if err := repos.WorkoutSets.Create(ctx, set); err != nil {
			return err
		}
		res.Inserted++
	}
	return nil
}

// Routines puts the sled push and pull first on every routine day, inserting
// missing ones with the configured suggested sets and reps.
func (s *Service) Routines(ctx context.Context) (*Result, error) {
	res := &Result{}
	err := s.repos.Tx.WithinTx(ctx, func(repos repository.Repositories) error {
		pinned, err := s.sledExercises(ctx, repos)
		if err != nil {
			return err
		}
		days, err := repos.RoutineDays.List(ctx, nil)
		if err != nil {
			return err
		}
		for _, day := range days {
			res.Scanned++
			current, err := repos.RoutineExercises.List(ctx, &day.ID)
			if err != nil {
				return err
			}
			entries := make([]Entry, len(current))
			for i, re := range current {
				entries[i] = Entry{ID: re.ID, ExerciseID: re.ExerciseID, Sequence: re.Sequence}
			}
			plan := PrependPinned(entries, pinned)
			if plan.Empty() {
				continue
			}
			for _, mv := range plan.Moves {
				if _, err := repos.RoutineExercises.SetSequence(ctx, day.ID, mv.ID, mv.Sequence); err != nil {
					return err
				}
				res.Reordered++
			}
			for _, ins := range plan.Inserts {
				sets, reps := s.cfg.RoutineSuggestedSets, s.cfg.RoutineSuggestedReps
				re := &domain.RoutineExercise{
					RoutineDayID:  day.ID,
					ExerciseID:    ins.ExerciseID,
					Sequence:      ins.Sequence,
					SuggestedSets: &sets,
					SuggestedReps: &reps,
				}
				if err := repos.RoutineExercises.Create(ctx, re); err != nil {
					return fmt.Errorf("routine day %d: %w", day.ID, err)
				}
				res.Inserted++
			}
			res.Updated++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	slog.Info("routine backfill complete", "scanned", res.Scanned, "updated", res.Updated, "inserted", res.Inserted)
	return res, nil
}

// Sets makes sure each workout exercise in want has sets numbered 1..n,
// adding empty uncompleted sets for the missing numbers. Existing sets are
// left alone.
func (s *Service) Sets(ctx context.Context, want map[int64]int) (*Result, error) {
	res := &Result{}
	err := s.repos.Tx.WithinTx(ctx, func(repos repository.Repositories) error {
		for weID, n := range want {
			res.Scanned++
			if _, err := repos.WorkoutExercises.GetByID(ctx, weID); err != nil {
				return fmt.Errorf("workout exercise %d: %w", weID, err)
			}
			numbers, err := repos.WorkoutSets.SetNumbers(ctx, weID)
			if err != nil {
				return err
			}
			have := make(map[int]bool, len(numbers))
			for _, num := range numbers {
				have[num] = true
			}
			added := 0
			for num := 1; num <= n; num++ {
				if have[num] {
					continue
				}
				if err := repos.WorkoutSets.Create(ctx, &domain.WorkoutSet{WorkoutExerciseID: weID, SetNumber: num}); err != nil {
					return err
				}
				added++
			}
			if added > 0 {
				res.Inserted += added
				res.Updated++
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}
