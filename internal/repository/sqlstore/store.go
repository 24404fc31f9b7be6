package sqlstore

import (
	"context"
	"fmt"
	"strings"

	"alcyxob/workout-tracker/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Store hands out gorm-backed repositories bound to either the root
// connection pool or a single transaction.
type Store struct {
	db   *gorm.DB
	inTx bool
}

// NewStore wraps an open gorm connection.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// DB exposes the underlying connection for migrations and tests.
func (s *Store) DB() *gorm.DB {
	return s.db
}

// Repositories returns the repository bundle bound to this store.
func (s *Store) Repositories() repository.Repositories {
	return repository.Repositories{
		Users:            &userRepo{db: s.db},
		Measurements:     &measurementRepo{db: s.db},
		Muscles:          &muscleRepo{db: s.db},
		ExerciseMuscles:  &exerciseMuscleRepo{db: s.db},
		Exercises:        &exerciseRepo{db: s.db},
		Workouts:         &workoutRepo{db: s.db},
		WorkoutExercises: &workoutExerciseRepo{db: s.db},
		WorkoutSets:      &workoutSetRepo{db: s.db},
		Routines:         &routineRepo{db: s.db},
		RoutineDays:      &routineDayRepo{db: s.db},
		RoutineExercises: &routineExerciseRepo{db: s.db},
		Tx:               s,
	}
}

// WithinTx implements repository.UnitOfWork.
func (s *Store) WithinTx(ctx context.Context, fn func(repos repository.Repositories) error) error {
	if s.inTx {
		return fn(s.Repositories())
	}
	return s.db.WithContext(ctx).Transaction(func(txn *gorm.DB) error {
		return fn((&Store{db: txn, inTx: true}).Repositories())
	})
}

// Savepoint implements repository.UnitOfWork.
func (s *Store) Savepoint(ctx context.Context, fn func(repos repository.Repositories) error) error {
	if !s.inTx {
		return s.WithinTx(ctx, func(repos repository.Repositories) error {
			return repos.Tx.Savepoint(ctx, fn)
		})
	}

	name := "sp_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	if err := s.db.WithContext(ctx).SavePoint(name).Error; err != nil {
		return fmt.Errorf("%w: create savepoint: %v", repository.ErrTxAborted, err)
	}
	if err := fn(s.Repositories()); err != nil {
		if rbErr := s.db.WithContext(ctx).RollbackTo(name).Error; rbErr != nil {
			return fmt.Errorf("%w: rollback to savepoint after %v: %v", repository.ErrTxAborted, err, rbErr)
		}
		return err
	}
	return nil
}
