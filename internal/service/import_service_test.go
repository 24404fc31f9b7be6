package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/importer"
	"alcyxob/workout-tracker/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const exportCSV = `title,start_time,end_time,description,exercise_title,superset_id,exercise_notes,set_index,set_type,weight_lbs,reps,distance_miles,duration_seconds,rpe
Push,"5 Jan 2024, 07:00","5 Jan 2024, 08:00",,Bench Press (Dumbbell),,,0,normal,50,10,,,
Push,"5 Jan 2024, 07:00","5 Jan 2024, 08:00",,Bench Press (Dumbbell),,,1,normal,50,8,,,
Push,"5 Jan 2024, 07:00","5 Jan 2024, 08:00",,Sled Push,,,0,normal,,1,295,,
Legs,"6 Jan 2024, 09:00","6 Jan 2024, 10:00",hard,Squat,,,0,normal,100,5,,,
`

// savepointFailure refuses every savepoint, the way a poisoned transaction does.
type savepointFailure struct {
	repository.UnitOfWork
}

func (u savepointFailure) WithinTx(ctx context.Context, fn func(repository.Repositories) error) error {
	return u.UnitOfWork.WithinTx(ctx, func(repos repository.Repositories) error {
		repos.Tx = savepointFailure{repos.Tx}
		return fn(repos)
	})
}

func (savepointFailure) Savepoint(context.Context, func(repository.Repositories) error) error {
	return fmt.Errorf("%w: savepoint refused", repository.ErrTxAborted)
}

// rejectingTx hands out repositories whose set inserts fail for one set number.
type rejectingTx struct {
	repository.UnitOfWork
	setNumber int
}

type rejectingSets struct {
	repository.WorkoutSetRepository
	setNumber int
}

func (r rejectingSets) Create(ctx context.Context, set *domain.WorkoutSet) error {
	if set.SetNumber == r.setNumber {
		return errors.New("check constraint failed")
	}
	return r.WorkoutSetRepository.Create(ctx, set)
}

func (u rejectingTx) wrap(repos repository.Repositories) repository.Repositories {
	repos.WorkoutSets = rejectingSets{repos.WorkoutSets, u.setNumber}
	repos.Tx = rejectingTx{repos.Tx, u.setNumber}
	return repos
}

func (u rejectingTx) WithinTx(ctx context.Context, fn func(repository.Repositories) error) error {
	return u.UnitOfWork.WithinTx(ctx, func(repos repository.Repositories) error {
		return fn(u.wrap(repos))
	})
}

func (u rejectingTx) Savepoint(ctx context.Context, fn func(repository.Repositories) error) error {
	return u.UnitOfWork.Savepoint(ctx, func(repos repository.Repositories) error {
		return fn(u.wrap(repos))
	})
}

// findExercise returns the named exercise entry of the user's workouts.
func (f *fixture) findExercise(t *testing.T, name string) ExerciseView {
	t.Helper()
	views, err := f.workouts.List(f.ctx, &f.user.ID)
	require.NoError(t, err)
	for _, w := range views {
		for _, block := range w.Exercises {
			for _, ex := range block.Members {
				if ex.Name == name {
					return ex
				}
			}
		}
	}
	t.Fatalf("exercise %q not found in any workout", name)
	return ExerciseView{}
}

func TestUploadImportsSessions(t *testing.T) {
	f := newFixture(t)
	imports := NewImportService(f.repos, nil)

	report, err := imports.Upload(f.ctx, strings.NewReader(exportCSV), f.user.ID)
	require.NoError(t, err)
	assert.Equal(t, importer.RunSuccess, report.Status)
	assert.Equal(t, 2, report.Imported)
	assert.Equal(t, 4, report.SetsInserted)
	assert.Zero(t, report.SetsFailed)

	bench := f.findExercise(t, "Bench Press (Dumbbell)")
	require.Len(t, bench.Sets, 2)
	assert.Equal(t, 2, bench.Sets[1].SetNumber)
	assert.InDelta(t, 22.68, *bench.Sets[0].WeightKg, 1e-9)

	sled := f.findExercise(t, "Sled Push")
	require.Len(t, sled.Sets, 1)
	require.NotNil(t, sled.Sets[0].WeightKg)
	assert.InDelta(t, 133.81, *sled.Sets[0].WeightKg, 1e-9)
	assert.Nil(t, sled.Sets[0].DistanceM)

	t.Run("second upload skips known dates", func(t *testing.T) {
		again, err := imports.Upload(f.ctx, strings.NewReader(exportCSV), f.user.ID)
		require.NoError(t, err)
		assert.Zero(t, again.Imported)
		assert.Equal(t, 2, again.Skipped)

		existing, err := f.repos.Workouts.FindByDate(f.ctx, f.user.ID, mustDate(t, "2024-01-05"))
		require.NoError(t, err)
		assert.Contains(t, again.SkippedDetails, fmt.Sprintf("Skipped 2024-01-05, ID: %d", existing.ID))

		views, err := f.workouts.List(f.ctx, &f.user.ID)
		require.NoError(t, err)
		assert.Len(t, views, 2)
	})
}

func TestUploadRejectsBadInput(t *testing.T) {
	f := newFixture(t)
	imports := NewImportService(f.repos, nil)

	_, err := imports.Upload(f.ctx, strings.NewReader("title,reps\nPush,5\n"), f.user.ID)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = imports.Upload(f.ctx, strings.NewReader(exportCSV), f.user.ID+100)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestUploadAbortsWhenSavepointFails(t *testing.T) {
	f := newFixture(t)
	repos := f.repos
	repos.Tx = savepointFailure{f.repos.Tx}

	report, err := NewImportService(repos, nil).Upload(f.ctx, strings.NewReader(exportCSV), f.user.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, repository.ErrTxAborted)
	require.NotNil(t, report)
	assert.Equal(t, importer.RunFailed, report.Status)
	assert.Zero(t, report.Imported)
	assert.Zero(t, report.SetsInserted)

	views, err := f.workouts.List(f.ctx, &f.user.ID)
	require.NoError(t, err)
	assert.Empty(t, views, "nothing from an aborted run is committed")
}

func TestUploadSkipsRejectedSets(t *testing.T) {
	f := newFixture(t)
	repos := f.repos
	repos.Tx = rejectingTx{f.repos.Tx, 2}

	report, err := NewImportService(repos, nil).Upload(f.ctx, strings.NewReader(exportCSV), f.user.ID)
	require.NoError(t, err)
	assert.Equal(t, importer.RunSuccess, report.Status)
	assert.Equal(t, 2, report.Imported)
	assert.Equal(t, 3, report.SetsInserted)
	assert.Equal(t, 1, report.SetsFailed)

	bench := f.findExercise(t, "Bench Press (Dumbbell)")
	require.Len(t, bench.Sets, 1)
	assert.Equal(t, 1, bench.Sets[0].SetNumber)
}

func TestRestoreSeedsCatalogAndDuplicates(t *testing.T) {
	f := newFixture(t)
	imports := NewImportService(f.repos, nil)
	catalog := importer.Catalog{"Bench Press (Dumbbell)": {"Chest", "Triceps"}}

	report, err := imports.Restore(f.ctx, strings.NewReader(exportCSV), catalog, f.user.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Imported)

	bench, err := f.repos.Exercises.GetByName(f.ctx, "Bench Press (Dumbbell)")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Chest", "Triceps"}, bench.MuscleGroups)

	_, err = imports.Restore(f.ctx, strings.NewReader(exportCSV), catalog, f.user.ID)
	require.NoError(t, err)
	views, err := f.workouts.List(f.ctx, &f.user.ID)
	require.NoError(t, err)
	assert.Len(t, views, 4, "restore does not look for existing workouts")
}
