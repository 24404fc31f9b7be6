package service

import (
	"encoding/json"
	"testing"
	"time"

	"alcyxob/workout-tracker/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReorderWorkout(t *testing.T) {
	f := newFixture(t)
	ex := f.exercise(t, "Row")
	w := f.workout(t, "2024-01-05")
	other := f.workout(t, "2024-01-06")
	e1 := f.entry(t, w.ID, ex.ID, nil)
	e2 := f.entry(t, w.ID, ex.ID, nil)
	e3 := f.entry(t, w.ID, ex.ID, nil)
	foreign := f.entry(t, other.ID, ex.ID, nil)

	t.Run("positions become sequences", func(t *testing.T) {
		moved, err := f.workouts.Reorder(f.ctx, w.ID, []int64{e3.ID, e1.ID, e2.ID})
		require.NoError(t, err)
		assert.Equal(t, 3, moved)
		assert.Equal(t, map[int64]int{e3.ID: 1, e1.ID: 2, e2.ID: 3}, f.workoutOrder(t, w.ID))
	})

	t.Run("foreign ids are ignored", func(t *testing.T) {
		moved, err := f.workouts.Reorder(f.ctx, w.ID, []int64{e1.ID, foreign.ID, e2.ID, e3.ID})
		require.NoError(t, err)
		assert.Equal(t, 3, moved)
		assert.Equal(t, map[int64]int{e1.ID: 1, e2.ID: 3, e3.ID: 4}, f.workoutOrder(t, w.ID))
		assert.Equal(t, map[int64]int{foreign.ID: 1}, f.workoutOrder(t, other.ID))
	})

	t.Run("unknown workout", func(t *testing.T) {
		_, err := f.workouts.Reorder(f.ctx, other.ID+100, []int64{e1.ID})
		assert.ErrorIs(t, err, ErrWorkoutNotFound)
	})
}

func TestWorkoutEntriesAppendAndCompact(t *testing.T) {
	f := newFixture(t)
	ex := f.exercise(t, "Press")
	w := f.workout(t, "2024-01-05")

	first := f.entry(t, w.ID, ex.ID, nil)
	second := f.entry(t, w.ID, ex.ID, nil)
	third := f.entry(t, w.ID, ex.ID, nil)
	assert.Equal(t, []int{1, 2, 3}, []int{first.Sequence, second.Sequence, third.Sequence})
	f.set(t, second.ID, 50, 5)

	require.NoError(t, f.workouts.DeleteEntry(f.ctx, second.ID))
	assert.Equal(t, map[int64]int{first.ID: 1, third.ID: 2}, f.workoutOrder(t, w.ID))
	sets, err := f.workouts.ListSets(f.ctx, &second.ID)
	require.NoError(t, err)
	assert.Empty(t, sets)

	_, err = f.workouts.CreateEntry(f.ctx, &domain.WorkoutExercise{WorkoutID: w.ID, ExerciseID: ex.ID + 100})
	assert.ErrorIs(t, err, ErrValidation)
	_, err = f.workouts.CreateEntry(f.ctx, &domain.WorkoutExercise{WorkoutID: w.ID + 100, ExerciseID: ex.ID})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestWorkoutSets(t *testing.T) {
	f := newFixture(t)
	ex := f.exercise(t, "Row")
	w := f.workout(t, "2024-01-05")
	we := f.entry(t, w.ID, ex.ID, nil)

	first := f.set(t, we.ID, 60, 10)
	second := f.set(t, we.ID, 62.5, 8)
	assert.Equal(t, 1, first.SetNumber)
	assert.Equal(t, 2, second.SetNumber)

	tooFar := domain.MaxDistanceMeters + 1
	_, err := f.workouts.CreateSet(f.ctx, &domain.WorkoutSet{WorkoutExerciseID: we.ID, DistanceM: &tooFar})
	assert.ErrorIs(t, err, ErrValidation)

	second.Completed = true
	second.Reps = nil
	updated, err := f.workouts.UpdateSet(f.ctx, second)
	require.NoError(t, err)
	assert.True(t, updated.Completed)

	stored, err := f.workouts.GetSet(f.ctx, second.ID)
	require.NoError(t, err)
	assert.True(t, stored.Completed)
	assert.Nil(t, stored.Reps)

	require.NoError(t, f.workouts.DeleteSet(f.ctx, first.ID))
	assert.ErrorIs(t, f.workouts.DeleteSet(f.ctx, first.ID), ErrWorkoutSetNotFound)
}

func TestListGroupsSupersets(t *testing.T) {
	f := newFixture(t)
	curl := f.exercise(t, "Curl", "Biceps")
	pushdown := f.exercise(t, "Pushdown", "Triceps")
	plank := f.exercise(t, "Plank")
	w := f.workout(t, "2024-01-05")
	group := ptr("superset-1")
	f.entry(t, w.ID, curl.ID, group)
	pd := f.entry(t, w.ID, pushdown.ID, group)
	f.entry(t, w.ID, plank.ID, nil)
	f.set(t, pd.ID, 20, 12)

	views, err := f.workouts.List(f.ctx, &f.user.ID)
	require.NoError(t, err)
	require.Len(t, views, 1)
	blocks := views[0].Exercises
	require.Len(t, blocks, 2)
	assert.Equal(t, "superset-1", blocks[0].GroupName)
	require.Len(t, blocks[0].Members, 2)
	assert.Equal(t, "Pushdown", blocks[0].Members[1].Name)
	assert.Equal(t, []string{"Triceps"}, blocks[0].Members[1].MuscleGroup)
	assert.Len(t, blocks[0].Members[1].Sets, 1)
	assert.False(t, blocks[1].IsSuperset())

	raw, err := json.Marshal(views[0])
	require.NoError(t, err)
	var decoded struct {
		ID        int64            `json:"id"`
		Exercises []map[string]any `json:"exercises"`
	}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, w.ID, decoded.ID)
	require.Len(t, decoded.Exercises, 2)
	assert.Equal(t, "superset-1", decoded.Exercises[0]["group_name"])
	assert.Len(t, decoded.Exercises[0]["superset"], 2)
	assert.Equal(t, "Plank", decoded.Exercises[1]["name"])
}

func TestActiveClosesStaleWorkouts(t *testing.T) {
	f := newFixture(t)

	none, err := f.workouts.Active(f.ctx, f.user.ID)
	require.NoError(t, err)
	assert.Nil(t, none)

	started := monday.Add(-25 * time.Hour)
	stale, err := f.workouts.Create(f.ctx, &domain.Workout{UserID: f.user.ID, Date: domain.NewDate(started), StartTime: &started})
	require.NoError(t, err)

	active, err := f.workouts.Active(f.ctx, f.user.ID)
	require.NoError(t, err)
	assert.Nil(t, active, "a workout open for more than a day is closed")
	closed, err := f.repos.Workouts.GetByID(f.ctx, stale.ID)
	require.NoError(t, err)
	require.NotNil(t, closed.EndTime)
	assert.True(t, closed.EndTime.Equal(monday))

	recent := monday.Add(-time.Hour)
	fresh, err := f.workouts.Create(f.ctx, &domain.Workout{UserID: f.user.ID, Date: domain.NewDate(recent), StartTime: &recent})
	require.NoError(t, err)
	active, err = f.workouts.Active(f.ctx, f.user.ID)
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.Equal(t, fresh.ID, active.ID)
}

func TestActiveCarriesExercisesAndSets(t *testing.T) {
	f := newFixture(t)
	squat := f.exercise(t, "Squat", "Quads")
	lunge := f.exercise(t, "Lunge")

	recent := monday.Add(-time.Hour)
	w, err := f.workouts.Create(f.ctx, &domain.Workout{UserID: f.user.ID, Date: domain.NewDate(recent), StartTime: &recent})
	require.NoError(t, err)
	first := f.entry(t, w.ID, squat.ID, nil)
	second := f.entry(t, w.ID, lunge.ID, nil)
	f.set(t, first.ID, 100, 5)
	f.set(t, first.ID, 105, 3)
	_, err = f.workouts.Reorder(f.ctx, w.ID, []int64{second.ID, first.ID})
	require.NoError(t, err)

	active, err := f.workouts.Active(f.ctx, f.user.ID)
	require.NoError(t, err)
	require.NotNil(t, active)
	require.Len(t, active.Exercises, 2)

	assert.Equal(t, second.ID, active.Exercises[0].ID)
	assert.Equal(t, 1, active.Exercises[0].Sequence)
	assert.Empty(t, active.Exercises[0].Sets)

	got := active.Exercises[1]
	assert.Equal(t, 2, got.Sequence)
	require.NotNil(t, got.Exercise)
	assert.Equal(t, "Squat", got.Exercise.Name)
	assert.Equal(t, []string{"Quads"}, got.Exercise.MuscleGroups)
	require.Len(t, got.Sets, 2)
	assert.Equal(t, []int{1, 2}, []int{got.Sets[0].SetNumber, got.Sets[1].SetNumber})
}

func TestFinishAndReopen(t *testing.T) {
	f := newFixture(t)
	w := f.workout(t, "2024-01-15")

	finished, err := f.workouts.Finish(f.ctx, w.ID)
	require.NoError(t, err)
	require.NotNil(t, finished.EndTime)
	assert.False(t, finished.IsActive())

	reopened, err := f.workouts.Reopen(f.ctx, w.ID)
	require.NoError(t, err)
	assert.True(t, reopened.IsActive())

	_, err = f.workouts.Finish(f.ctx, w.ID+100)
	assert.ErrorIs(t, err, ErrWorkoutNotFound)
}

func TestSuggestedUsesTodaysRoutineDay(t *testing.T) {
	f := newFixture(t)
	squat := f.exercise(t, "Squat", "Quadriceps")

	none, err := f.workouts.Suggested(f.ctx, f.user.ID)
	require.NoError(t, err)
	assert.Nil(t, none)

	routine, err := f.routines.Create(f.ctx, &domain.Routine{UserID: f.user.ID, Name: "Strength"})
	require.NoError(t, err)
	f.routineDay(t, routine.ID, "Tuesday Workout", 1)
	mondayDay := f.routineDay(t, routine.ID, "Monday Workout", 0)
	f.routineEntry(t, mondayDay.ID, squat.ID, nil)

	suggested, err := f.workouts.Suggested(f.ctx, f.user.ID)
	require.NoError(t, err)
	require.NotNil(t, suggested)
	assert.Equal(t, "Strength", suggested.RoutineName)
	assert.Equal(t, "Monday Workout", suggested.DayName)
	require.Len(t, suggested.Exercises, 1)
	assert.Equal(t, squat.ID, suggested.Exercises[0].ID)
	assert.Equal(t, []string{"Quadriceps"}, suggested.Exercises[0].MuscleGroup)
}

func TestDeleteWorkoutCascades(t *testing.T) {
	f := newFixture(t)
	ex := f.exercise(t, "Dip")
	w := f.workout(t, "2024-01-05")
	we := f.entry(t, w.ID, ex.ID, nil)
	f.set(t, we.ID, 0, 12)

	require.NoError(t, f.workouts.Delete(f.ctx, w.ID))

	_, err := f.workouts.Get(f.ctx, w.ID)
	assert.ErrorIs(t, err, ErrWorkoutNotFound)
	sets, err := f.workouts.ListSets(f.ctx, &we.ID)
	require.NoError(t, err)
	assert.Empty(t, sets)
	assert.ErrorIs(t, f.workouts.Delete(f.ctx, w.ID), ErrWorkoutNotFound)
}
