package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"alcyxob/workout-tracker/internal/config"
	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/repository"
	"alcyxob/workout-tracker/internal/sequence"
)

// --- Service Interface ---
type WorkoutService interface {
	Create(ctx context.Context, workout *domain.Workout) (*domain.Workout, error)
	// Get returns the workout with its exercises, muscles and sets.
	Get(ctx context.Context, id int64) (*WorkoutView, error)
	List(ctx context.Context, userID *int64) ([]WorkoutView, error)
	Update(ctx context.Context, workout *domain.Workout) (*domain.Workout, error)
	// Delete removes the workout with its exercises and their sets.
	Delete(ctx context.Context, id int64) error

	// Active returns the user's open workout with its exercises and sets, or
	// nil. An open workout that started more than the configured stale window
	// ago is closed first.
	Active(ctx context.Context, userID int64) (*domain.Workout, error)
	Finish(ctx context.Context, id int64) (*domain.Workout, error)
	Reopen(ctx context.Context, id int64) (*domain.Workout, error)
	// Suggested returns today's routine day for the user, or nil.
	Suggested(ctx context.Context, userID int64) (*SuggestedWorkout, error)

	// AddExercise appends an exercise to the end of the workout.
	AddExercise(ctx context.Context, workoutID, exerciseID int64, groupName *string) (*domain.WorkoutExercise, error)
	// Reorder sets sequence = position+1 for the ids that belong to the workout
	// and ignores the rest.
	Reorder(ctx context.Context, workoutID int64, ids []int64) (int, error)

	CreateEntry(ctx context.Context, we *domain.WorkoutExercise) (*domain.WorkoutExercise, error)
	GetEntry(ctx context.Context, id int64) (*domain.WorkoutExercise, error)
	ListEntries(ctx context.Context, workoutID *int64) ([]domain.WorkoutExercise, error)
	UpdateEntry(ctx context.Context, we *domain.WorkoutExercise) (*domain.WorkoutExercise, error)
	DeleteEntry(ctx context.Context, id int64) error

	CreateSet(ctx context.Context, set *domain.WorkoutSet) (*domain.WorkoutSet, error)
	GetSet(ctx context.Context, id int64) (*domain.WorkoutSet, error)
	ListSets(ctx context.Context, workoutExerciseID *int64) ([]domain.WorkoutSet, error)
	UpdateSet(ctx context.Context, set *domain.WorkoutSet) (*domain.WorkoutSet, error)
	DeleteSet(ctx context.Context, id int64) error
}

// --- Service Implementation ---

type workoutService struct {
	repos repository.Repositories
	cfg   config.WorkoutConfig
	now   func() time.Time
}

// NewWorkoutService creates a workout service. now is the clock used for
// finishing and stale checks; nil means time.Now.
func NewWorkoutService(repos repository.Repositories, cfg config.WorkoutConfig, now func() time.Time) WorkoutService {
	if now == nil {
		now = time.Now
	}
	return &workoutService{repos: repos, cfg: cfg, now: now}
}

func (s *workoutService) checkWorkout(ctx context.Context, w *domain.Workout) error {
	if w.Date.IsZero() {
		return validationf("date is required")
	}
	if w.StartTime != nil && w.EndTime != nil && w.EndTime.Before(*w.StartTime) {
		return validationf("end_time is before start_time")
	}
	_, err := s.repos.Users.GetByID(ctx, w.UserID)
	return mustExist(err, "user", w.UserID)
}

func (s *workoutService) Create(ctx context.Context, workout *domain.Workout) (*domain.Workout, error) {
	if err := s.checkWorkout(ctx, workout); err != nil {
		return nil, err
	}
	workout.ID = 0
	workout.Exercises = nil
	if err := s.repos.Workouts.Create(ctx, workout); err != nil {
		return nil, err
	}
	return workout, nil
}

func (s *workoutService) Get(ctx context.Context, id int64) (*WorkoutView, error) {
	w, err := s.repos.Workouts.GetDetailed(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrWorkoutNotFound)
	}
	view := newWorkoutView(*w)
	return &view, nil
}

func (s *workoutService) List(ctx context.Context, userID *int64) ([]WorkoutView, error) {
	workouts, err := s.repos.Workouts.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	views := make([]WorkoutView, len(workouts))
	for i, w := range workouts {
		views[i] = newWorkoutView(w)
	}
	return views, nil
}

func (s *workoutService) Update(ctx context.Context, workout *domain.Workout) (*domain.Workout, error) {
	if err := s.checkWorkout(ctx, workout); err != nil {
		return nil, err
	}
	workout.Exercises = nil
	if err := s.repos.Workouts.Update(ctx, workout); err != nil {
		return nil, notFound(err, ErrWorkoutNotFound)
	}
	return workout, nil
}

func (s *workoutService) Delete(ctx context.Context, id int64) error {
	return s.repos.Tx.WithinTx(ctx, func(repos repository.Repositories) error {
		return deleteWorkout(ctx, repos, id)
	})
}

func (s *workoutService) Active(ctx context.Context, userID int64) (*domain.Workout, error) {
	w, err := s.repos.Workouts.LatestActive(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	now := s.now()
	if w.IsStale(now, s.cfg.StaleAfter) {
		if err := s.repos.Workouts.SetEndTime(ctx, w.ID, &now); err != nil {
			return nil, err
		}
		slog.Info("closed stale workout", "id", w.ID, "user_id", userID, "started_at", w.StartedAt())
		return nil, nil
	}
	detailed, err := s.repos.Workouts.GetDetailed(ctx, w.ID)
	if err != nil {
		return nil, notFound(err, ErrWorkoutNotFound)
	}
	return detailed, nil
}

func (s *workoutService) setEnd(ctx context.Context, id int64, end *time.Time) (*domain.Workout, error) {
	if err := s.repos.Workouts.SetEndTime(ctx, id, end); err != nil {
		return nil, notFound(err, ErrWorkoutNotFound)
	}
	w, err := s.repos.Workouts.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrWorkoutNotFound)
	}
	return w, nil
}

func (s *workoutService) Finish(ctx context.Context, id int64) (*domain.Workout, error) {
	now := s.now()
	return s.setEnd(ctx, id, &now)
}

func (s *workoutService) Reopen(ctx context.Context, id int64) (*domain.Workout, error) {
	return s.setEnd(ctx, id, nil)
}

func (s *workoutService) Suggested(ctx context.Context, userID int64) (*SuggestedWorkout, error) {
	day, err := s.repos.RoutineDays.FindForWeekday(ctx, userID, domain.MondayIndex(s.now()))
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	routine, err := s.repos.Routines.GetByID(ctx, day.RoutineID)
	if err != nil {
		return nil, err
	}
	entries, err := s.repos.RoutineExercises.List(ctx, &day.ID)
	if err != nil {
		return nil, err
	}

	suggested := &SuggestedWorkout{
		RoutineName: routine.Name,
		DayName:     day.Name,
		Exercises:   make([]ExerciseView, len(entries)),
	}
	for i, re := range entries {
		suggested.Exercises[i] = routineEntryView(re)
	}
	return suggested, nil
}

func (s *workoutService) AddExercise(ctx context.Context, workoutID, exerciseID int64, groupName *string) (*domain.WorkoutExercise, error) {
	return s.CreateEntry(ctx, &domain.WorkoutExercise{WorkoutID: workoutID, ExerciseID: exerciseID, GroupName: groupName})
}

func (s *workoutService) Reorder(ctx context.Context, workoutID int64, ids []int64) (int, error) {
	var moved int
	err := s.repos.Tx.WithinTx(ctx, func(repos repository.Repositories) error {
		if _, err := repos.Workouts.GetByID(ctx, workoutID); err != nil {
			return notFound(err, ErrWorkoutNotFound)
		}
		var err error
		moved, err = reorderWorkout(ctx, repos, workoutID, ids)
		return err
	})
	return moved, err
}

// --- Workout exercises ---

func normalizeGroup(name *string) *string {
	if sequence.GroupName(name) == "" {
		return nil
	}
	return name
}

// CreateEntry adds an exercise to a workout. A zero sequence appends it.
func (s *workoutService) CreateEntry(ctx context.Context, we *domain.WorkoutExercise) (*domain.WorkoutExercise, error) {
	if we.Sequence < 0 {
		return nil, validationf("sequence must not be negative")
	}
	we.ID = 0
	we.GroupName = normalizeGroup(we.GroupName)
	we.Exercise, we.Sets = nil, nil

	err := s.repos.Tx.WithinTx(ctx, func(repos repository.Repositories) error {
		if _, err := repos.Workouts.GetByID(ctx, we.WorkoutID); err != nil {
			return mustExist(err, "workout", we.WorkoutID)
		}
		if _, err := checkExercise(ctx, repos, we.ExerciseID); err != nil {
			return err
		}
		if we.Sequence == 0 {
			max, err := repos.WorkoutExercises.MaxSequence(ctx, we.WorkoutID)
			if err != nil {
				return err
			}
			we.Sequence = sequence.Next(max)
		}
		return repos.WorkoutExercises.Create(ctx, we)
	})
	if err != nil {
		return nil, err
	}
	return s.GetEntry(ctx, we.ID)
}

func (s *workoutService) GetEntry(ctx context.Context, id int64) (*domain.WorkoutExercise, error) {
	we, err := s.repos.WorkoutExercises.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrWorkoutExerciseNotFound)
	}
	return we, nil
}

func (s *workoutService) ListEntries(ctx context.Context, workoutID *int64) ([]domain.WorkoutExercise, error) {
	return s.repos.WorkoutExercises.List(ctx, workoutID)
}

func (s *workoutService) UpdateEntry(ctx context.Context, we *domain.WorkoutExercise) (*domain.WorkoutExercise, error) {
	if we.Sequence < 1 {
		return nil, validationf("sequence must be at least 1")
	}
	we.GroupName = normalizeGroup(we.GroupName)
	we.Exercise, we.Sets = nil, nil

	err := s.repos.Tx.WithinTx(ctx, func(repos repository.Repositories) error {
		if _, err := repos.WorkoutExercises.GetByID(ctx, we.ID); err != nil {
			return notFound(err, ErrWorkoutExerciseNotFound)
		}
		if _, err := repos.Workouts.GetByID(ctx, we.WorkoutID); err != nil {
			return mustExist(err, "workout", we.WorkoutID)
		}
		if _, err := checkExercise(ctx, repos, we.ExerciseID); err != nil {
			return err
		}
		return notFound(repos.WorkoutExercises.Update(ctx, we), ErrWorkoutExerciseNotFound)
	})
	if err != nil {
		return nil, err
	}
	return s.GetEntry(ctx, we.ID)
}

// DeleteEntry removes the entry and its sets and closes the gap it leaves.
func (s *workoutService) DeleteEntry(ctx context.Context, id int64) error {
	return s.repos.Tx.WithinTx(ctx, func(repos repository.Repositories) error {
		we, err := repos.WorkoutExercises.GetByID(ctx, id)
		if err != nil {
			return notFound(err, ErrWorkoutExerciseNotFound)
		}
		if _, err := repos.WorkoutSets.DeleteByWorkoutExercises(ctx, []int64{id}); err != nil {
			return err
		}
		if err := repos.WorkoutExercises.Delete(ctx, id); err != nil {
			return notFound(err, ErrWorkoutExerciseNotFound)
		}
		return compactWorkout(ctx, repos, we.WorkoutID)
	})
}

// --- Workout sets ---

func validateSet(set *domain.WorkoutSet) error {
	if set.SetNumber < 0 {
		return validationf("set_number must not be negative")
	}
	if set.Reps != nil && *set.Reps < 0 {
		return validationf("reps must not be negative")
	}
	if set.WeightKg != nil && *set.WeightKg < 0 {
		return validationf("weight_kg must not be negative")
	}
	if set.DistanceM != nil && (*set.DistanceM < 0 || *set.DistanceM > domain.MaxDistanceMeters) {
		return validationf("distance_m must be between 0 and %.2f", domain.MaxDistanceMeters)
	}
	return nil
}

// CreateSet adds a set. A zero set number takes the next free number.
func (s *workoutService) CreateSet(ctx context.Context, set *domain.WorkoutSet) (*domain.WorkoutSet, error) {
	if err := validateSet(set); err != nil {
		return nil, err
	}
	set.ID = 0
	err := s.repos.Tx.WithinTx(ctx, func(repos repository.Repositories) error {
		if _, err := repos.WorkoutExercises.GetByID(ctx, set.WorkoutExerciseID); err != nil {
			return mustExist(err, "workout exercise", set.WorkoutExerciseID)
		}
		if set.SetNumber == 0 {
			numbers, err := repos.WorkoutSets.SetNumbers(ctx, set.WorkoutExerciseID)
			if err != nil {
				return err
			}
			max := 0
			for _, n := range numbers {
				if n > max {
					max = n
				}
			}
			set.SetNumber = sequence.Next(max)
		}
		return repos.WorkoutSets.Create(ctx, set)
	})
	if err != nil {
		return nil, err
	}
	return set, nil
}

func (s *workoutService) GetSet(ctx context.Context, id int64) (*domain.WorkoutSet, error) {
	set, err := s.repos.WorkoutSets.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrWorkoutSetNotFound)
	}
	return set, nil
}

func (s *workoutService) ListSets(ctx context.Context, workoutExerciseID *int64) ([]domain.WorkoutSet, error) {
	return s.repos.WorkoutSets.List(ctx, workoutExerciseID)
}

func (s *workoutService) UpdateSet(ctx context.Context, set *domain.WorkoutSet) (*domain.WorkoutSet, error) {
	if err := validateSet(set); err != nil {
		return nil, err
	}
	if set.SetNumber == 0 {
		return nil, validationf("set_number must be at least 1")
	}
	err := s.repos.Tx.WithinTx(ctx, func(repos repository.Repositories) error {
		if _, err := repos.WorkoutSets.GetByID(ctx, set.ID); err != nil {
			return notFound(err, ErrWorkoutSetNotFound)
		}
		if _, err := repos.WorkoutExercises.GetByID(ctx, set.WorkoutExerciseID); err != nil {
			return mustExist(err, "workout exercise", set.WorkoutExerciseID)
		}
		return notFound(repos.WorkoutSets.Update(ctx, set), ErrWorkoutSetNotFound)
	})
	if err != nil {
		return nil, err
	}
	return set, nil
}

func (s *workoutService) DeleteSet(ctx context.Context, id int64) error {
	return notFound(s.repos.WorkoutSets.Delete(ctx, id), ErrWorkoutSetNotFound)
}
