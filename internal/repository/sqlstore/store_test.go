package sqlstore_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/repository"
	"alcyxob/workout-tracker/internal/repository/sqlstore/sqlstoretest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func mustDate(t *testing.T, s string) domain.Date {
	t.Helper()
	d, err := domain.ParseDate(s)
	require.NoError(t, err)
	return d
}

func seedUser(t *testing.T, repos repository.Repositories) *domain.User {
	t.Helper()
	u := &domain.User{Username: "lifter", Email: "lifter@example.com"}
	require.NoError(t, repos.Users.Create(context.Background(), u))
	return u
}

func TestExerciseNameIsUnique(t *testing.T) {
	ctx := context.Background()
	repos := sqlstoretest.NewStore(t).Repositories()

	require.NoError(t, repos.Exercises.Create(ctx, &domain.Exercise{Name: "Squat"}))
	err := repos.Exercises.Create(ctx, &domain.Exercise{Name: "Squat"})
	assert.ErrorIs(t, err, repository.ErrDuplicate)

	ex, err := repos.Exercises.GetByName(ctx, "Squat")
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultTrackedMetrics, ex.TrackedMetrics)
	assert.Empty(t, ex.MuscleGroups)
}

func TestEnsureByNameIsIdempotent(t *testing.T) {
	ctx := context.Background()
	repos := sqlstoretest.NewStore(t).Repositories()

	first, created, err := repos.Exercises.EnsureByName(ctx, &domain.Exercise{Name: "Deadlift"})
	require.NoError(t, err)
	assert.True(t, created)

	second, created, err := repos.Exercises.EnsureByName(ctx, &domain.Exercise{Name: "Deadlift"})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)

	m1, err := repos.Muscles.EnsureByName(ctx, "Glutes")
	require.NoError(t, err)
	m2, err := repos.Muscles.EnsureByName(ctx, "Glutes")
	require.NoError(t, err)
	assert.Equal(t, m1.ID, m2.ID)

	link := &domain.ExerciseMuscle{ExerciseID: first.ID, MuscleID: m1.ID, IsPrimary: true}
	require.NoError(t, repos.ExerciseMuscles.Ensure(ctx, link))
	require.NoError(t, repos.ExerciseMuscles.Ensure(ctx, &domain.ExerciseMuscle{ExerciseID: first.ID, MuscleID: m1.ID, IsPrimary: true}))

	links, err := repos.ExerciseMuscles.List(ctx, &first.ID)
	require.NoError(t, err)
	assert.Len(t, links, 1)

	loaded, err := repos.Exercises.GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Glutes"}, loaded.MuscleGroups)
}

func TestWithinTxRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	store := sqlstoretest.NewStore(t)
	repos := store.Repositories()

	boom := errors.New("boom")
	err := repos.Tx.WithinTx(ctx, func(r repository.Repositories) error {
		require.NoError(t, r.Exercises.Create(ctx, &domain.Exercise{Name: "Bench Press"}))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = repos.Exercises.GetByName(ctx, "Bench Press")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestSavepointKeepsOuterWrites(t *testing.T) {
	ctx := context.Background()
	repos := sqlstoretest.NewStore(t).Repositories()

	err := repos.Tx.WithinTx(ctx, func(r repository.Repositories) error {
		if err := r.Exercises.Create(ctx, &domain.Exercise{Name: "Row"}); err != nil {
			return err
		}
		inner := r.Tx.Savepoint(ctx, func(sp repository.Repositories) error {
			if err := sp.Exercises.Create(ctx, &domain.Exercise{Name: "Curl"}); err != nil {
				return err
			}
			// Colliding insert fails and unwinds only this savepoint.
			return sp.Exercises.Create(ctx, &domain.Exercise{Name: "Row"})
		})
		assert.ErrorIs(t, inner, repository.ErrDuplicate)
		assert.NotErrorIs(t, inner, repository.ErrTxAborted)
		return nil
	})
	require.NoError(t, err)

	_, err = repos.Exercises.GetByName(ctx, "Row")
	assert.NoError(t, err)
	_, err = repos.Exercises.GetByName(ctx, "Curl")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestWorkoutDateLookupsAndActive(t *testing.T) {
	ctx := context.Background()
	repos := sqlstoretest.NewStore(t).Repositories()
	user := seedUser(t, repos)

	start := time.Date(2025, 3, 4, 18, 0, 0, 0, time.UTC)
	closed := &domain.Workout{UserID: user.ID, Date: mustDate(t, "2025-03-03"), StartTime: ptr(start.Add(-24 * time.Hour)), EndTime: ptr(start.Add(-23 * time.Hour))}
	open := &domain.Workout{UserID: user.ID, Date: mustDate(t, "2025-03-04"), StartTime: &start}
	require.NoError(t, repos.Workouts.Create(ctx, closed))
	require.NoError(t, repos.Workouts.Create(ctx, open))

	found, err := repos.Workouts.FindByDate(ctx, user.ID, mustDate(t, "2025-03-03"))
	require.NoError(t, err)
	assert.Equal(t, closed.ID, found.ID)
	assert.Equal(t, "2025-03-03", found.Date.String())

	_, err = repos.Workouts.FindByDate(ctx, user.ID, mustDate(t, "2025-03-05"))
	assert.ErrorIs(t, err, repository.ErrNotFound)

	active, err := repos.Workouts.LatestActive(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, open.ID, active.ID)

	require.NoError(t, repos.Workouts.SetEndTime(ctx, open.ID, ptr(start.Add(time.Hour))))
	_, err = repos.Workouts.LatestActive(ctx, user.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	assert.ErrorIs(t, repos.Workouts.SetEndTime(ctx, 9999, nil), repository.ErrNotFound)

	before, err := repos.Workouts.ListBefore(ctx, mustDate(t, "2025-03-04"))
	require.NoError(t, err)
	require.Len(t, before, 1)
	assert.Equal(t, closed.ID, before[0].ID)
}

func TestLatestForExercise(t *testing.T) {
	ctx := context.Background()
	repos := sqlstoretest.NewStore(t).Repositories()
	user := seedUser(t, repos)
	squat := &domain.Exercise{Name: "Squat"}
	require.NoError(t, repos.Exercises.Create(ctx, squat))

	addWorkout := func(date string, weight float64) int64 {
		w := &domain.Workout{UserID: user.ID, Date: mustDate(t, date)}
		require.NoError(t, repos.Workouts.Create(ctx, w))
		we := &domain.WorkoutExercise{WorkoutID: w.ID, ExerciseID: squat.ID, Sequence: 1}
		require.NoError(t, repos.WorkoutExercises.Create(ctx, we))
		require.NoError(t, repos.WorkoutSets.Create(ctx, &domain.WorkoutSet{WorkoutExerciseID: we.ID, SetNumber: 1, WeightKg: ptr(weight), Reps: ptr(5)}))
		return w.ID
	}
	addWorkout("2025-01-01", 100)
	latest := addWorkout("2025-02-01", 110)

	set, err := repos.WorkoutSets.LatestForExercise(ctx, squat.ID, 1, nil)
	require.NoError(t, err)
	assert.InDelta(t, 110, *set.WeightKg, 1e-9)

	set, err = repos.WorkoutSets.LatestForExercise(ctx, squat.ID, 1, &latest)
	require.NoError(t, err)
	assert.InDelta(t, 100, *set.WeightKg, 1e-9)

	_, err = repos.WorkoutSets.LatestForExercise(ctx, squat.ID, 2, nil)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUpdateWritesNullsAndDetectsMissingRows(t *testing.T) {
	ctx := context.Background()
	repos := sqlstoretest.NewStore(t).Repositories()

	ex := &domain.Exercise{Name: "Plank", Description: ptr("hold"), DefaultTimeSeconds: ptr(60)}
	require.NoError(t, repos.Exercises.Create(ctx, ex))

	ex.Description = nil
	ex.DefaultTimeSeconds = nil
	require.NoError(t, repos.Exercises.Update(ctx, ex))

	loaded, err := repos.Exercises.GetByID(ctx, ex.ID)
	require.NoError(t, err)
	assert.Nil(t, loaded.Description)
	assert.Nil(t, loaded.DefaultTimeSeconds)

	missing := &domain.Exercise{ID: 4242, Name: "Ghost"}
	assert.ErrorIs(t, repos.Exercises.Update(ctx, missing), repository.ErrNotFound)
	assert.ErrorIs(t, repos.Exercises.Delete(ctx, 4242), repository.ErrNotFound)
}

func TestFindForWeekdayPrefersNewestRoutine(t *testing.T) {
	ctx := context.Background()
	repos := sqlstoretest.NewStore(t).Repositories()
	user := seedUser(t, repos)

	older := &domain.Routine{UserID: user.ID, Name: "Old"}
	newer := &domain.Routine{UserID: user.ID, Name: "New"}
	require.NoError(t, repos.Routines.Create(ctx, older))
	require.NoError(t, repos.Routines.Create(ctx, newer))
	require.NoError(t, repos.RoutineDays.Create(ctx, &domain.RoutineDay{RoutineID: older.ID, Name: "Old Monday", DayOfWeek: ptr(0)}))
	want := &domain.RoutineDay{RoutineID: newer.ID, Name: "New Monday", DayOfWeek: ptr(0)}
	require.NoError(t, repos.RoutineDays.Create(ctx, want))

	day, err := repos.RoutineDays.FindForWeekday(ctx, user.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, want.ID, day.ID)

	_, err = repos.RoutineDays.FindForWeekday(ctx, user.ID, 3)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
