package repository

import (
	"alcyxob/workout-tracker/internal/domain" // Import our defined domain models
	"context"
	"time"
)

// Error constants for repository layer
var (
	ErrNotFound  = RepositoryError("not found")
	ErrDuplicate = RepositoryError("duplicate key")
	// ErrTxAborted means the enclosing transaction can no longer be used and
	// every write made through it will be rolled back.
	ErrTxAborted = RepositoryError("transaction aborted")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UnitOfWork scopes a group of repository calls to one transaction.
type UnitOfWork interface {
	// WithinTx runs fn in a transaction. Calling it on a unit of work that is
	// already transactional joins the existing transaction.
	WithinTx(ctx context.Context, fn func(repos Repositories) error) error
	// Savepoint runs fn so that its writes can be rolled back on error without
	// discarding the rest of the enclosing transaction. If the savepoint itself
	// cannot be created or rolled back the returned error wraps ErrTxAborted.
	Savepoint(ctx context.Context, fn func(repos Repositories) error) error
}

// Repositories bundles every repository sharing one connection or transaction.
type Repositories struct {
	Users            UserRepository
	Measurements     BodyMeasurementRepository
	Muscles          MuscleRepository
	ExerciseMuscles  ExerciseMuscleRepository
	Exercises        ExerciseRepository
	Workouts         WorkoutRepository
	WorkoutExercises WorkoutExerciseRepository
	WorkoutSets      WorkoutSetRepository
	Routines         RoutineRepository
	RoutineDays      RoutineDayRepository
	RoutineExercises RoutineExerciseRepository

	Tx UnitOfWork
}

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id int64) error
}

// BodyMeasurementRepository defines the interface for body measurement data.
type BodyMeasurementRepository interface {
	Create(ctx context.Context, m *domain.BodyMeasurement) error
	GetByID(ctx context.Context, id int64) (*domain.BodyMeasurement, error)
	List(ctx context.Context, userID *int64) ([]domain.BodyMeasurement, error) // newest first
	Update(ctx context.Context, m *domain.BodyMeasurement) error
	Delete(ctx context.Context, id int64) error
}

// MuscleRepository defines the interface for muscle reference data.
type MuscleRepository interface {
	Create(ctx context.Context, muscle *domain.Muscle) error
	GetByID(ctx context.Context, id int64) (*domain.Muscle, error)
	GetByName(ctx context.Context, name string) (*domain.Muscle, error)
	List(ctx context.Context) ([]domain.Muscle, error)
	Update(ctx context.Context, muscle *domain.Muscle) error
	Delete(ctx context.Context, id int64) error
	// EnsureByName inserts the muscle if no muscle with that name exists and
	// returns the stored row either way.
	EnsureByName(ctx context.Context, name string) (*domain.Muscle, error)
}

// ExerciseMuscleRepository defines the interface for exercise-muscle links.
type ExerciseMuscleRepository interface {
	Create(ctx context.Context, link *domain.ExerciseMuscle) error
	// Ensure inserts the link unless it already exists.
	Ensure(ctx context.Context, link *domain.ExerciseMuscle) error
	Get(ctx context.Context, exerciseID, muscleID int64) (*domain.ExerciseMuscle, error)
	SetPrimary(ctx context.Context, exerciseID, muscleID int64, primary bool) error
	List(ctx context.Context, exerciseID *int64) ([]domain.ExerciseMuscle, error)
	Delete(ctx context.Context, exerciseID, muscleID int64) error
	DeleteByExercise(ctx context.Context, exerciseID int64) (int64, error)
}

// ExerciseRepository defines the interface for interacting with exercise data.
// Reads populate Muscles and MuscleGroups.
type ExerciseRepository interface {
	Create(ctx context.Context, exercise *domain.Exercise) error
	GetByID(ctx context.Context, id int64) (*domain.Exercise, error)
	GetByName(ctx context.Context, name string) (*domain.Exercise, error)
	List(ctx context.Context) ([]domain.Exercise, error) // ordered by name
	Update(ctx context.Context, exercise *domain.Exercise) error
	// Delete removes the exercise row and returns ErrNotFound when no row was deleted.
	Delete(ctx context.Context, id int64) error
	// EnsureByName inserts exercise unless one with the same name exists. It
	// returns the stored row and whether it was created.
	EnsureByName(ctx context.Context, exercise *domain.Exercise) (*domain.Exercise, bool, error)
}

// WorkoutRepository defines the interface for interacting with workout data.
type WorkoutRepository interface {
	Create(ctx context.Context, workout *domain.Workout) error
	GetByID(ctx context.Context, id int64) (*domain.Workout, error)
	// GetDetailed loads the workout with its exercises (ordered by sequence),
	// each exercise's definition and muscles, and its sets (ordered by set number).
	GetDetailed(ctx context.Context, id int64) (*domain.Workout, error)
	// List returns workouts newest first with exercises (definitions and
	// muscles included) and sets loaded.
	List(ctx context.Context, userID *int64) ([]domain.Workout, error)
	Update(ctx context.Context, workout *domain.Workout) error
	Delete(ctx context.Context, id int64) error
	FindByDate(ctx context.Context, userID int64, date domain.Date) (*domain.Workout, error)
	// LatestActive returns the user's most recent workout without an end time.
	LatestActive(ctx context.Context, userID int64) (*domain.Workout, error)
	SetEndTime(ctx context.Context, id int64, end *time.Time) error
	ListBefore(ctx context.Context, cutoff domain.Date) ([]domain.Workout, error)
}

// WorkoutExerciseRepository defines the interface for exercises within workouts.
type WorkoutExerciseRepository interface {
	Create(ctx context.Context, we *domain.WorkoutExercise) error
	GetByID(ctx context.Context, id int64) (*domain.WorkoutExercise, error)
	// List returns entries ordered by workout then sequence, with exercise definitions loaded.
	List(ctx context.Context, workoutID *int64) ([]domain.WorkoutExercise, error)
	Update(ctx context.Context, we *domain.WorkoutExercise) error
	Delete(ctx context.Context, id int64) error
	DeleteByWorkout(ctx context.Context, workoutID int64) error
	MaxSequence(ctx context.Context, workoutID int64) (int, error)
	// SetSequence updates the sequence of id only if it belongs to workoutID.
	SetSequence(ctx context.Context, workoutID, id int64, sequence int) (bool, error)
	IDsByWorkout(ctx context.Context, workoutID int64) ([]int64, error)
	IDsByExercise(ctx context.Context, exerciseID int64) ([]int64, error)
	// WorkoutIDsByExercise returns the distinct workouts that use the exercise.
	WorkoutIDsByExercise(ctx context.Context, exerciseID int64) ([]int64, error)
	CountByExercise(ctx context.Context, exerciseID int64) (int64, error)
	ReassignExercise(ctx context.Context, fromID, toID int64) (int64, error)
	DeleteByExercise(ctx context.Context, exerciseID int64) (int64, error)
}

// WorkoutSetRepository defines the interface for sets within workout exercises.
type WorkoutSetRepository interface {
	Create(ctx context.Context, set *domain.WorkoutSet) error
	GetByID(ctx context.Context, id int64) (*domain.WorkoutSet, error)
	List(ctx context.Context, workoutExerciseID *int64) ([]domain.WorkoutSet, error)
	Update(ctx context.Context, set *domain.WorkoutSet) error
	Delete(ctx context.Context, id int64) error
	DeleteByWorkoutExercises(ctx context.Context, workoutExerciseIDs []int64) (int64, error)
	SetNumbers(ctx context.Context, workoutExerciseID int64) ([]int, error)
	// LatestForExercise returns the most recent set with the given number for an
	// exercise, newest workout date first, then newest start time.
	LatestForExercise(ctx context.Context, exerciseID int64, setNumber int, excludeWorkoutID *int64) (*domain.WorkoutSet, error)
}

// RoutineRepository defines the interface for routine templates.
type RoutineRepository interface {
	Create(ctx context.Context, routine *domain.Routine) error
	GetByID(ctx context.Context, id int64) (*domain.Routine, error)
	List(ctx context.Context, userID *int64) ([]domain.Routine, error)
	Update(ctx context.Context, routine *domain.Routine) error
	Delete(ctx context.Context, id int64) error
	GetActive(ctx context.Context, userID int64) (*domain.Routine, error)
	// DeactivateOthers clears is_active on every routine of userID except keepID.
	DeactivateOthers(ctx context.Context, userID, keepID int64) error
	SetActive(ctx context.Context, id int64, active bool) error
}

// RoutineDayRepository defines the interface for days within routines.
type RoutineDayRepository interface {
	Create(ctx context.Context, day *domain.RoutineDay) error
	GetByID(ctx context.Context, id int64) (*domain.RoutineDay, error)
	List(ctx context.Context, routineID *int64) ([]domain.RoutineDay, error) // by day of week
	Update(ctx context.Context, day *domain.RoutineDay) error
	Delete(ctx context.Context, id int64) error
	IDsByRoutine(ctx context.Context, routineID int64) ([]int64, error)
	DeleteByRoutine(ctx context.Context, routineID int64) error
	// FindForWeekday returns the user's routine day scheduled on dayOfWeek,
	// preferring the newest routine.
	FindForWeekday(ctx context.Context, userID int64, dayOfWeek int) (*domain.RoutineDay, error)
}

// RoutineExerciseRepository defines the interface for exercises within routine days.
type RoutineExerciseRepository interface {
	Create(ctx context.Context, re *domain.RoutineExercise) error
	GetByID(ctx context.Context, id int64) (*domain.RoutineExercise, error)
	// List returns entries ordered by day then sequence, with exercise definitions and muscles loaded.
	List(ctx context.Context, routineDayID *int64) ([]domain.RoutineExercise, error)
	Update(ctx context.Context, re *domain.RoutineExercise) error
	Delete(ctx context.Context, id int64) error
	DeleteByDays(ctx context.Context, dayIDs []int64) error
	MaxSequence(ctx context.Context, routineDayID int64) (int, error)
	SetSequence(ctx context.Context, routineDayID, id int64, sequence int) (bool, error)
	DayIDsByExercise(ctx context.Context, exerciseID int64) ([]int64, error)
	CountByExercise(ctx context.Context, exerciseID int64) (int64, error)
	ReassignExercise(ctx context.Context, fromID, toID int64) (int64, error)
	DeleteByExercise(ctx context.Context, exerciseID int64) (int64, error)
}
