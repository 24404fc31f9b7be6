package service

import (
	"context"
	"testing"
	"time"

	"alcyxob/workout-tracker/internal/config"
	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/repository"
	"alcyxob/workout-tracker/internal/repository/sqlstore/sqlstoretest"

	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

// monday is a fixed clock: Monday 15 January 2024, noon UTC.
var monday = time.Date(2024, time.January, 15, 12, 0, 0, 0, time.UTC)

type fixture struct {
	ctx       context.Context
	repos     repository.Repositories
	user      *domain.User
	exercises ExerciseService
	workouts  WorkoutService
	routines  RoutineService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	repos := sqlstoretest.NewStore(t).Repositories()
	user := &domain.User{Username: "lifter", Email: "lifter@example.com"}
	require.NoError(t, repos.Users.Create(ctx, user))
	return &fixture{
		ctx:       ctx,
		repos:     repos,
		user:      user,
		exercises: NewExerciseService(repos),
		workouts:  NewWorkoutService(repos, config.WorkoutConfig{DefaultUserID: user.ID, StaleAfter: 24 * time.Hour}, func() time.Time { return monday }),
		routines:  NewRoutineService(repos),
	}
}

func mustDate(t *testing.T, s string) domain.Date {
	t.Helper()
	d, err := domain.ParseDate(s)
	require.NoError(t, err)
	return d
}

func (f *fixture) exercise(t *testing.T, name string, muscles ...string) *domain.Exercise {
	t.Helper()
	ex, err := f.exercises.Create(f.ctx, &domain.Exercise{Name: name, MuscleGroups: muscles})
	require.NoError(t, err)
	return ex
}

func (f *fixture) workout(t *testing.T, date string) *domain.Workout {
	t.Helper()
	w, err := f.workouts.Create(f.ctx, &domain.Workout{UserID: f.user.ID, Date: mustDate(t, date)})
	require.NoError(t, err)
	return w
}

func (f *fixture) entry(t *testing.T, workoutID, exerciseID int64, group *string) *domain.WorkoutExercise {
	t.Helper()
	we, err := f.workouts.AddExercise(f.ctx, workoutID, exerciseID, group)
	require.NoError(t, err)
	return we
}

func (f *fixture) set(t *testing.T, entryID int64, kg float64, reps int) *domain.WorkoutSet {
	t.Helper()
	s, err := f.workouts.CreateSet(f.ctx, &domain.WorkoutSet{WorkoutExerciseID: entryID, WeightKg: &kg, Reps: &reps})
	require.NoError(t, err)
	return s
}

func (f *fixture) routineDay(t *testing.T, routineID int64, name string, dayOfWeek int) *domain.RoutineDay {
	t.Helper()
	day, err := f.routines.CreateDay(f.ctx, &domain.RoutineDay{RoutineID: routineID, Name: name, DayOfWeek: &dayOfWeek})
	require.NoError(t, err)
	return day
}

func (f *fixture) routineEntry(t *testing.T, dayID, exerciseID int64, group *string) *domain.RoutineExercise {
	t.Helper()
	re, err := f.routines.AddExercise(f.ctx, dayID, &domain.RoutineExercise{ExerciseID: exerciseID, GroupName: group})
	require.NoError(t, err)
	return re
}

// workoutOrder returns the workout's entries as exercise id -> sequence.
func (f *fixture) workoutOrder(t *testing.T, workoutID int64) map[int64]int {
	t.Helper()
	entries, err := f.repos.WorkoutExercises.List(f.ctx, &workoutID)
	require.NoError(t, err)
	out := make(map[int64]int, len(entries))
	for _, e := range entries {
		out[e.ID] = e.Sequence
	}
	return out
}
