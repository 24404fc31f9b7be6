package service

import (
	"errors"
	"fmt"

	"alcyxob/workout-tracker/internal/repository"
)

// --- Error Definitions ---
var (
	ErrValidation = errors.New("validation failed")
	ErrConflict   = errors.New("conflict")
	ErrNotFound   = errors.New("not found")

	ErrUserNotFound            = fmt.Errorf("user %w", ErrNotFound)
	ErrUserAlreadyExists       = fmt.Errorf("%w: user with this email already exists", ErrConflict)
	ErrMeasurementNotFound     = fmt.Errorf("body measurement %w", ErrNotFound)
	ErrMuscleNotFound          = fmt.Errorf("muscle %w", ErrNotFound)
	ErrExerciseNotFound        = fmt.Errorf("exercise %w", ErrNotFound)
	ErrExerciseMuscleNotFound  = fmt.Errorf("exercise muscle link %w", ErrNotFound)
	ErrTargetExerciseNotFound  = fmt.Errorf("target exercise %w", ErrNotFound)
	ErrWorkoutNotFound         = fmt.Errorf("workout %w", ErrNotFound)
	ErrWorkoutExerciseNotFound = fmt.Errorf("workout exercise %w", ErrNotFound)
	ErrWorkoutSetNotFound      = fmt.Errorf("workout set %w", ErrNotFound)
	ErrRoutineNotFound         = fmt.Errorf("routine %w", ErrNotFound)
	ErrRoutineDayNotFound      = fmt.Errorf("routine day %w", ErrNotFound)
	ErrRoutineExerciseNotFound = fmt.Errorf("routine exercise %w", ErrNotFound)
)

// notFound maps a repository miss onto the aggregate's not-found error and
// passes every other error through.
func notFound(err error, target error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return target
	}
	return err
}

// conflict maps a unique-key collision onto ErrConflict.
func conflict(err error, what string) error {
	if errors.Is(err, repository.ErrDuplicate) {
		return fmt.Errorf("%w: %s", ErrConflict, what)
	}
	return err
}

func validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// mustExist turns a missing row referenced from a request body into a
// validation error rather than a not-found.
func mustExist(err error, what string, id int64) error {
	if errors.Is(err, repository.ErrNotFound) {
		return validationf("%s %d does not exist", what, id)
	}
	return err
}
