package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/metrics"
	"alcyxob/workout-tracker/internal/repository"
)

var ErrExerciseInUse = fmt.Errorf("%w: exercise is referenced by workouts or routines", ErrConflict)

// DeleteStrategy selects what happens to the references of an exercise being deleted.
type DeleteStrategy string

const (
	StrategyDeleteAll         DeleteStrategy = "delete_all"
	StrategyMigrateToExisting DeleteStrategy = "migrate_to_existing"
	StrategyMigrateToNew      DeleteStrategy = "migrate_to_new"
)

// DeleteRequest describes an exercise deletion with reference handling.
type DeleteRequest struct {
	Strategy         DeleteStrategy `json:"strategy"`
	TargetExerciseID *int64         `json:"target_exercise_id"`
	NewExerciseName  *string        `json:"new_exercise_name"`
}

// DeleteResult reports where references went.
type DeleteResult struct {
	Status     string `json:"status"`
	MigratedTo *int64 `json:"migrated_to"`
}

// Usage counts the workout and routine entries referencing an exercise.
type Usage struct {
	WorkoutCount int64 `json:"workout_count"`
	RoutineCount int64 `json:"routine_count"`
}

// LastSet is the load and reps of the most recent matching set.
type LastSet struct {
	WeightKg *float64 `json:"weight_kg"`
	Reps     *int     `json:"reps"`
}

// --- Service Interface ---
type ExerciseService interface {
	// Create stores the exercise and links it to the muscles named in MuscleGroups.
	Create(ctx context.Context, exercise *domain.Exercise) (*domain.Exercise, error)
	Get(ctx context.Context, id int64) (*domain.Exercise, error)
	List(ctx context.Context) ([]domain.Exercise, error)
	// Update replaces the exercise's fields and its muscle links.
	Update(ctx context.Context, exercise *domain.Exercise) (*domain.Exercise, error)
	// Delete removes an unreferenced exercise.
	Delete(ctx context.Context, id int64) error
	Usage(ctx context.Context, id int64) (*Usage, error)
	DeleteWithMigration(ctx context.Context, id int64, req DeleteRequest) (*DeleteResult, error)
	// LastSet returns nil when the exercise has no set with that number outside
	// the current workout.
	LastSet(ctx context.Context, exerciseID int64, setNumber int, currentWorkoutID *int64) (*LastSet, error)
}

// --- Service Implementation ---

// exerciseService implements the ExerciseService interface.
type exerciseService struct {
	repos repository.Repositories
}

// NewExerciseService creates a new instance of exerciseService.
func NewExerciseService(repos repository.Repositories) ExerciseService {
	return &exerciseService{repos: repos}
}

func validateExercise(ex *domain.Exercise) error {
	ex.Name = strings.TrimSpace(ex.Name)
	if ex.Name == "" {
		return validationf("exercise name is required")
	}
	if ex.Type != nil && !ex.Type.Valid() {
		return validationf("unknown exercise type %q", *ex.Type)
	}
	if strings.TrimSpace(ex.TrackedMetrics) == "" {
		ex.TrackedMetrics = domain.DefaultTrackedMetrics
	}
	return nil
}

// linkMuscles replaces the exercise's muscle links with the named muscles,
// creating muscles that do not exist yet.
func linkMuscles(ctx context.Context, repos repository.Repositories, exerciseID int64, names []string) error {
	if _, err := repos.ExerciseMuscles.DeleteByExercise(ctx, exerciseID); err != nil {
		return err
	}
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		muscle, err := repos.Muscles.EnsureByName(ctx, name)
		if err != nil {
			return err
		}
		link := &domain.ExerciseMuscle{ExerciseID: exerciseID, MuscleID: muscle.ID, IsPrimary: true}
		if err := repos.ExerciseMuscles.Ensure(ctx, link); err != nil {
			return err
		}
	}
	return nil
}

// Create handles the creation of a new exercise.
func (s *exerciseService) Create(ctx context.Context, exercise *domain.Exercise) (*domain.Exercise, error) {
	if err := validateExercise(exercise); err != nil {
		return nil, err
	}
	exercise.ID = 0
	var created *domain.Exercise
	err := s.repos.Tx.WithinTx(ctx, func(repos repository.Repositories) error {
		if err := repos.Exercises.Create(ctx, exercise); err != nil {
			return conflict(err, fmt.Sprintf("exercise with name '%s' already exists", exercise.Name))
		}
		if err := linkMuscles(ctx, repos, exercise.ID, exercise.MuscleGroups); err != nil {
			return err
		}
		var err error
		created, err = repos.Exercises.GetByID(ctx, exercise.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *exerciseService) Get(ctx context.Context, id int64) (*domain.Exercise, error) {
	exercise, err := s.repos.Exercises.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrExerciseNotFound)
	}
	return exercise, nil
}

func (s *exerciseService) List(ctx context.Context) ([]domain.Exercise, error) {
	return s.repos.Exercises.List(ctx)
}

func (s *exerciseService) Update(ctx context.Context, exercise *domain.Exercise) (*domain.Exercise, error) {
	if err := validateExercise(exercise); err != nil {
		return nil, err
	}
	var updated *domain.Exercise
	err := s.repos.Tx.WithinTx(ctx, func(repos repository.Repositories) error {
		existing, err := repos.Exercises.GetByID(ctx, exercise.ID)
		if err != nil {
			return notFound(err, ErrExerciseNotFound)
		}
		exercise.CreatedAt = existing.CreatedAt
		if err := repos.Exercises.Update(ctx, exercise); err != nil {
			return conflict(notFound(err, ErrExerciseNotFound), fmt.Sprintf("exercise with name '%s' already exists", exercise.Name))
		}
		if err := linkMuscles(ctx, repos, exercise.ID, exercise.MuscleGroups); err != nil {
			return err
		}
		updated, err = repos.Exercises.GetByID(ctx, exercise.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *exerciseService) usage(ctx context.Context, repos repository.Repositories, id int64) (*Usage, error) {
	workouts, err := repos.WorkoutExercises.CountByExercise(ctx, id)
	if err != nil {
		return nil, err
	}
	routines, err := repos.RoutineExercises.CountByExercise(ctx, id)
	if err != nil {
		return nil, err
	}
	return &Usage{WorkoutCount: workouts, RoutineCount: routines}, nil
}

func (s *exerciseService) Delete(ctx context.Context, id int64) error {
	return s.repos.Tx.WithinTx(ctx, func(repos repository.Repositories) error {
		if _, err := repos.Exercises.GetByID(ctx, id); err != nil {
			return notFound(err, ErrExerciseNotFound)
		}
		usage, err := s.usage(ctx, repos, id)
		if err != nil {
			return err
		}
		if usage.WorkoutCount > 0 || usage.RoutineCount > 0 {
			return fmt.Errorf("%w (%d workout and %d routine entries)", ErrExerciseInUse, usage.WorkoutCount, usage.RoutineCount)
		}
		if _, err := repos.ExerciseMuscles.DeleteByExercise(ctx, id); err != nil {
			return err
		}
		return notFound(repos.Exercises.Delete(ctx, id), ErrExerciseNotFound)
	})
}

// Usage is a plain read; the counts may be stale by the time a deletion runs.
func (s *exerciseService) Usage(ctx context.Context, id int64) (*Usage, error) {
	if _, err := s.repos.Exercises.GetByID(ctx, id); err != nil {
		return nil, notFound(err, ErrExerciseNotFound)
	}
	return s.usage(ctx, s.repos, id)
}

// DeleteWithMigration deletes an exercise after moving or dropping every
// reference to it. All of it happens in one transaction.
func (s *exerciseService) DeleteWithMigration(ctx context.Context, id int64, req DeleteRequest) (*DeleteResult, error) {
	switch req.Strategy {
	case StrategyDeleteAll:
	case StrategyMigrateToExisting:
		if req.TargetExerciseID == nil {
			return nil, validationf("target_exercise_id is required for %s", req.Strategy)
		}
		if *req.TargetExerciseID == id {
			return nil, validationf("cannot migrate an exercise to itself")
		}
	case StrategyMigrateToNew:
		if req.NewExerciseName == nil || strings.TrimSpace(*req.NewExerciseName) == "" {
			return nil, validationf("new_exercise_name is required for %s", req.Strategy)
		}
	default:
		return nil, validationf("unknown strategy %q", req.Strategy)
	}

	var migratedTo *int64
	err := s.repos.Tx.WithinTx(ctx, func(repos repository.Repositories) error {
		switch req.Strategy {
		case StrategyMigrateToExisting:
			if _, err := repos.Exercises.GetByID(ctx, *req.TargetExerciseID); err != nil {
				return notFound(err, ErrTargetExerciseNotFound)
			}
			migratedTo = req.TargetExerciseID
		case StrategyMigrateToNew:
			target, err := s.copyExercise(ctx, repos, id, strings.TrimSpace(*req.NewExerciseName))
			if err != nil {
				return err
			}
			migratedTo = &target.ID
		case StrategyDeleteAll:
			if err := s.dropReferences(ctx, repos, id); err != nil {
				return err
			}
		}

		if migratedTo != nil {
			if _, err := repos.WorkoutExercises.ReassignExercise(ctx, id, *migratedTo); err != nil {
				return err
			}
			if _, err := repos.RoutineExercises.ReassignExercise(ctx, id, *migratedTo); err != nil {
				return err
			}
		}

		if _, err := repos.ExerciseMuscles.DeleteByExercise(ctx, id); err != nil {
			return err
		}
		return notFound(repos.Exercises.Delete(ctx, id), ErrExerciseNotFound)
	})
	if err != nil {
		return nil, err
	}

	metrics.ObserveExerciseDeletion(string(req.Strategy))
	slog.Info("exercise deleted", "id", id, "strategy", req.Strategy, "migrated_to", migratedTo)
	return &DeleteResult{Status: "success", MigratedTo: migratedTo}, nil
}

// copyExercise creates a new exercise carrying the source's prescription and
// muscle links.
func (s *exerciseService) copyExercise(ctx context.Context, repos repository.Repositories, sourceID int64, name string) (*domain.Exercise, error) {
	source, err := repos.Exercises.GetByID(ctx, sourceID)
	if err != nil {
		return nil, notFound(err, ErrExerciseNotFound)
	}
	target := source.CopyPrescription(name)
	if err := repos.Exercises.Create(ctx, target); err != nil {
		return nil, conflict(err, fmt.Sprintf("exercise with name '%s' already exists", name))
	}
	for _, link := range source.Muscles {
		copied := &domain.ExerciseMuscle{ExerciseID: target.ID, MuscleID: link.MuscleID, IsPrimary: link.IsPrimary}
		if err := repos.ExerciseMuscles.Create(ctx, copied); err != nil {
			return nil, err
		}
	}
	return target, nil
}

// dropReferences deletes every workout entry (with its sets) and routine entry
// using the exercise, then closes the sequence gaps left behind.
func (s *exerciseService) dropReferences(ctx context.Context, repos repository.Repositories, id int64) error {
	workoutIDs, err := repos.WorkoutExercises.WorkoutIDsByExercise(ctx, id)
	if err != nil {
		return err
	}
	dayIDs, err := repos.RoutineExercises.DayIDsByExercise(ctx, id)
	if err != nil {
		return err
	}

	entryIDs, err := repos.WorkoutExercises.IDsByExercise(ctx, id)
	if err != nil {
		return err
	}
	if _, err := repos.WorkoutSets.DeleteByWorkoutExercises(ctx, entryIDs); err != nil {
		return err
	}
	if _, err := repos.WorkoutExercises.DeleteByExercise(ctx, id); err != nil {
		return err
	}
	if _, err := repos.RoutineExercises.DeleteByExercise(ctx, id); err != nil {
		return err
	}

	for _, workoutID := range workoutIDs {
		if err := compactWorkout(ctx, repos, workoutID); err != nil {
			return err
		}
	}
	for _, dayID := range dayIDs {
		if err := compactRoutineDay(ctx, repos, dayID); err != nil {
			return err
		}
	}
	return nil
}

func (s *exerciseService) LastSet(ctx context.Context, exerciseID int64, setNumber int, currentWorkoutID *int64) (*LastSet, error) {
	if setNumber < 1 {
		return nil, validationf("set_number must be at least 1")
	}
	set, err := s.repos.WorkoutSets.LatestForExercise(ctx, exerciseID, setNumber, currentWorkoutID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &LastSet{WeightKg: set.WeightKg, Reps: set.Reps}, nil
}
