package service

import (
	"context"
	"errors"
	"strings"

	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/repository"
	"alcyxob/workout-tracker/internal/sequence"
)

// RoutineView is a routine with its days and each day's entries.
type RoutineView struct {
	domain.Routine
	Days []RoutineDayView `json:"days"`
}

// --- Service Interface ---
type RoutineService interface {
	// Create stores a routine. An active routine deactivates the user's others.
	Create(ctx context.Context, routine *domain.Routine) (*domain.Routine, error)
	Get(ctx context.Context, id int64) (*RoutineView, error)
	List(ctx context.Context, userID *int64) ([]domain.Routine, error)
	Update(ctx context.Context, routine *domain.Routine) (*domain.Routine, error)
	// Delete removes the routine with its days and their entries.
	Delete(ctx context.Context, id int64) error
	// Activate makes the routine the only active one of its user.
	Activate(ctx context.Context, id int64) (*domain.Routine, error)
	// Schedule lists the days of the user's active routine, or nothing when no
	// routine is active.
	Schedule(ctx context.Context, userID int64) ([]RoutineDayView, error)

	CreateDay(ctx context.Context, day *domain.RoutineDay) (*domain.RoutineDay, error)
	GetDay(ctx context.Context, id int64) (*domain.RoutineDay, error)
	ListDays(ctx context.Context, routineID *int64) ([]domain.RoutineDay, error)
	UpdateDay(ctx context.Context, day *domain.RoutineDay) (*domain.RoutineDay, error)
	DeleteDay(ctx context.Context, id int64) error

	AddExercise(ctx context.Context, dayID int64, entry *domain.RoutineExercise) (*domain.RoutineExercise, error)
	Reorder(ctx context.Context, dayID int64, ids []int64) (int, error)

	CreateEntry(ctx context.Context, re *domain.RoutineExercise) (*domain.RoutineExercise, error)
	GetEntry(ctx context.Context, id int64) (*domain.RoutineExercise, error)
	ListEntries(ctx context.Context, dayID *int64) ([]domain.RoutineExercise, error)
	UpdateEntry(ctx context.Context, re *domain.RoutineExercise) (*domain.RoutineExercise, error)
	DeleteEntry(ctx context.Context, id int64) error
}

// --- Service Implementation ---

type routineService struct {
	repos repository.Repositories
}

func NewRoutineService(repos repository.Repositories) RoutineService {
	return &routineService{repos: repos}
}

func validateRoutine(ctx context.Context, repos repository.Repositories, r *domain.Routine) error {
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return validationf("routine name is required")
	}
	_, err := repos.Users.GetByID(ctx, r.UserID)
	return mustExist(err, "user", r.UserID)
}

func (s *routineService) Create(ctx context.Context, routine *domain.Routine) (*domain.Routine, error) {
	routine.ID = 0
	routine.Days = nil
	err := s.repos.Tx.WithinTx(ctx, func(repos repository.Repositories) error {
		if err := validateRoutine(ctx, repos, routine); err != nil {
			return err
		}
		if err := repos.Routines.Create(ctx, routine); err != nil {
			return err
		}
		if routine.IsActive {
			return repos.Routines.DeactivateOthers(ctx, routine.UserID, routine.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return routine, nil
}

func (s *routineService) Get(ctx context.Context, id int64) (*RoutineView, error) {
	routine, err := s.repos.Routines.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrRoutineNotFound)
	}
	days, err := s.dayViews(ctx, routine.ID)
	if err != nil {
		return nil, err
	}
	return &RoutineView{Routine: *routine, Days: days}, nil
}

func (s *routineService) dayViews(ctx context.Context, routineID int64) ([]RoutineDayView, error) {
	days, err := s.repos.RoutineDays.List(ctx, &routineID)
	if err != nil {
		return nil, err
	}
	views := make([]RoutineDayView, 0, len(days))
	for _, day := range days {
		entries, err := s.repos.RoutineExercises.List(ctx, &day.ID)
		if err != nil {
			return nil, err
		}
		views = append(views, newRoutineDayView(day, entries))
	}
	return views, nil
}

func (s *routineService) List(ctx context.Context, userID *int64) ([]domain.Routine, error) {
	return s.repos.Routines.List(ctx, userID)
}

func (s *routineService) Update(ctx context.Context, routine *domain.Routine) (*domain.Routine, error) {
	routine.Days = nil
	err := s.repos.Tx.WithinTx(ctx, func(repos repository.Repositories) error {
		if err := validateRoutine(ctx, repos, routine); err != nil {
			return err
		}
		existing, err := repos.Routines.GetByID(ctx, routine.ID)
		if err != nil {
			return notFound(err, ErrRoutineNotFound)
		}
		routine.CreatedAt = existing.CreatedAt
		if err := repos.Routines.Update(ctx, routine); err != nil {
			return notFound(err, ErrRoutineNotFound)
		}
		if routine.IsActive {
			return repos.Routines.DeactivateOthers(ctx, routine.UserID, routine.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return routine, nil
}

func (s *routineService) Delete(ctx context.Context, id int64) error {
	return s.repos.Tx.WithinTx(ctx, func(repos repository.Repositories) error {
		return deleteRoutine(ctx, repos, id)
	})
}

func (s *routineService) Activate(ctx context.Context, id int64) (*domain.Routine, error) {
	var routine *domain.Routine
	err := s.repos.Tx.WithinTx(ctx, func(repos repository.Repositories) error {
		var err error
		if routine, err = repos.Routines.GetByID(ctx, id); err != nil {
			return notFound(err, ErrRoutineNotFound)
		}
		if err := repos.Routines.DeactivateOthers(ctx, routine.UserID, id); err != nil {
			return err
		}
		routine.IsActive = true
		return repos.Routines.SetActive(ctx, id, true)
	})
	if err != nil {
		return nil, err
	}
	return routine, nil
}

func (s *routineService) Schedule(ctx context.Context, userID int64) ([]RoutineDayView, error) {
	routine, err := s.repos.Routines.GetActive(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return []RoutineDayView{}, nil
	}
	if err != nil {
		return nil, err
	}
	return s.dayViews(ctx, routine.ID)
}

// --- Routine days ---

func validateDay(day *domain.RoutineDay) error {
	day.Name = strings.TrimSpace(day.Name)
	if day.Name == "" {
		return validationf("routine day name is required")
	}
	if !domain.ValidDayOfWeek(day.DayOfWeek) {
		return validationf("day_of_week must be between 0 (Monday) and 6 (Sunday)")
	}
	return nil
}

func (s *routineService) CreateDay(ctx context.Context, day *domain.RoutineDay) (*domain.RoutineDay, error) {
	if err := validateDay(day); err != nil {
		return nil, err
	}
	if _, err := s.repos.Routines.GetByID(ctx, day.RoutineID); err != nil {
		return nil, mustExist(err, "routine", day.RoutineID)
	}
	day.ID = 0
	day.Exercises = nil
	if err := s.repos.RoutineDays.Create(ctx, day); err != nil {
		return nil, err
	}
	return day, nil
}

func (s *routineService) GetDay(ctx context.Context, id int64) (*domain.RoutineDay, error) {
	day, err := s.repos.RoutineDays.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrRoutineDayNotFound)
	}
	return day, nil
}

func (s *routineService) ListDays(ctx context.Context, routineID *int64) ([]domain.RoutineDay, error) {
	return s.repos.RoutineDays.List(ctx, routineID)
}

func (s *routineService) UpdateDay(ctx context.Context, day *domain.RoutineDay) (*domain.RoutineDay, error) {
	if err := validateDay(day); err != nil {
		return nil, err
	}
	if _, err := s.repos.Routines.GetByID(ctx, day.RoutineID); err != nil {
		return nil, mustExist(err, "routine", day.RoutineID)
	}
	day.Exercises = nil
	if err := s.repos.RoutineDays.Update(ctx, day); err != nil {
		return nil, notFound(err, ErrRoutineDayNotFound)
	}
	return day, nil
}

func (s *routineService) DeleteDay(ctx context.Context, id int64) error {
	return s.repos.Tx.WithinTx(ctx, func(repos repository.Repositories) error {
		if err := repos.RoutineExercises.DeleteByDays(ctx, []int64{id}); err != nil {
			return err
		}
		return notFound(repos.RoutineDays.Delete(ctx, id), ErrRoutineDayNotFound)
	})
}

// --- Routine exercises ---

func validateRoutineEntry(re *domain.RoutineExercise) error {
	if re.Sequence < 0 {
		return validationf("sequence must not be negative")
	}
	if re.SuggestedSets != nil && *re.SuggestedSets < 0 {
		return validationf("suggested_sets must not be negative")
	}
	re.GroupName = normalizeGroup(re.GroupName)
	re.Exercise = nil
	return nil
}

func (s *routineService) AddExercise(ctx context.Context, dayID int64, entry *domain.RoutineExercise) (*domain.RoutineExercise, error) {
	entry.RoutineDayID = dayID
	entry.Sequence = 0
	return s.CreateEntry(ctx, entry)
}

func (s *routineService) Reorder(ctx context.Context, dayID int64, ids []int64) (int, error) {
	var moved int
	err := s.repos.Tx.WithinTx(ctx, func(repos repository.Repositories) error {
		if _, err := repos.RoutineDays.GetByID(ctx, dayID); err != nil {
			return notFound(err, ErrRoutineDayNotFound)
		}
		var err error
		moved, err = reorderRoutineDay(ctx, repos, dayID, ids)
		return err
	})
	return moved, err
}

// CreateEntry adds an exercise to a routine day. A zero sequence appends it.
func (s *routineService) CreateEntry(ctx context.Context, re *domain.RoutineExercise) (*domain.RoutineExercise, error) {
	if err := validateRoutineEntry(re); err != nil {
		return nil, err
	}
	re.ID = 0
	err := s.repos.Tx.WithinTx(ctx, func(repos repository.Repositories) error {
		if _, err := repos.RoutineDays.GetByID(ctx, re.RoutineDayID); err != nil {
			return mustExist(err, "routine day", re.RoutineDayID)
		}
		if _, err := checkExercise(ctx, repos, re.ExerciseID); err != nil {
			return err
		}
		if re.Sequence == 0 {
			max, err := repos.RoutineExercises.MaxSequence(ctx, re.RoutineDayID)
			if err != nil {
				return err
			}
			re.Sequence = sequence.Next(max)
		}
		return repos.RoutineExercises.Create(ctx, re)
	})
	if err != nil {
		return nil, err
	}
	return s.GetEntry(ctx, re.ID)
}

func (s *routineService) GetEntry(ctx context.Context, id int64) (*domain.RoutineExercise, error) {
	re, err := s.repos.RoutineExercises.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrRoutineExerciseNotFound)
	}
	return re, nil
}

func (s *routineService) ListEntries(ctx context.Context, dayID *int64) ([]domain.RoutineExercise, error) {
	return s.repos.RoutineExercises.List(ctx, dayID)
}

func (s *routineService) UpdateEntry(ctx context.Context, re *domain.RoutineExercise) (*domain.RoutineExercise, error) {
	if err := validateRoutineEntry(re); err != nil {
		return nil, err
	}
	if re.Sequence == 0 {
		return nil, validationf("sequence must be at least 1")
	}
	err := s.repos.Tx.WithinTx(ctx, func(repos repository.Repositories) error {
		if _, err := repos.RoutineExercises.GetByID(ctx, re.ID); err != nil {
			return notFound(err, ErrRoutineExerciseNotFound)
		}
		if _, err := repos.RoutineDays.GetByID(ctx, re.RoutineDayID); err != nil {
			return mustExist(err, "routine day", re.RoutineDayID)
		}
		if _, err := checkExercise(ctx, repos, re.ExerciseID); err != nil {
			return err
		}
		return notFound(repos.RoutineExercises.Update(ctx, re), ErrRoutineExerciseNotFound)
	})
	if err != nil {
		return nil, err
	}
	return s.GetEntry(ctx, re.ID)
}

// DeleteEntry removes the entry and closes the gap it leaves.
func (s *routineService) DeleteEntry(ctx context.Context, id int64) error {
	return s.repos.Tx.WithinTx(ctx, func(repos repository.Repositories) error {
		re, err := repos.RoutineExercises.GetByID(ctx, id)
		if err != nil {
			return notFound(err, ErrRoutineExerciseNotFound)
		}
		if err := repos.RoutineExercises.Delete(ctx, id); err != nil {
			return notFound(err, ErrRoutineExerciseNotFound)
		}
		return compactRoutineDay(ctx, repos, re.RoutineDayID)
	})
}
