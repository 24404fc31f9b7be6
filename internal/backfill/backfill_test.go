package backfill

import (
	"context"
	"strings"
	"testing"

	"alcyxob/workout-tracker/internal/config"
	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/repository"
	"alcyxob/workout-tracker/internal/repository/sqlstore/sqlstoretest"
	"alcyxob/workout-tracker/internal/sequence"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testConfig = config.BackfillConfig{
	CutoffDate:           "2025-12-01",
	SledPushName:         "Sled Push",
	SledPullName:         "Sled Pull",
	SledWeightKg:         133.81,
	SledDistanceM:        27.43,
	SledReps:             1,
	RoutineSuggestedSets: 1,
	RoutineSuggestedReps: "30 yards",
}

func TestPrependPinned(t *testing.T) {
	tests := []struct {
		name    string
		entries []Entry
		want    Plan
	}{
		{
			name:    "empty workout gets both inserts",
			entries: nil,
			want:    Plan{Inserts: []Insert{{ExerciseID: 8, Sequence: 1}, {ExerciseID: 9, Sequence: 2}}},
		},
		{
			name:    "others shift behind the pinned pair",
			entries: []Entry{{ID: 1, ExerciseID: 20, Sequence: 1}, {ID: 2, ExerciseID: 21, Sequence: 2}},
			want: Plan{
				Moves:   []sequence.Assignment{{ID: 1, Sequence: 3}, {ID: 2, Sequence: 4}},
				Inserts: []Insert{{ExerciseID: 8, Sequence: 1}, {ExerciseID: 9, Sequence: 2}},
			},
		},
		{
			name: "existing pinned entries move to the front",
			entries: []Entry{
				{ID: 1, ExerciseID: 20, Sequence: 1},
				{ID: 2, ExerciseID: 9, Sequence: 2},
				{ID: 3, ExerciseID: 21, Sequence: 3},
			},
			want: Plan{
				Moves:   []sequence.Assignment{{ID: 1, Sequence: 3}, {ID: 3, Sequence: 4}},
				Inserts: []Insert{{ExerciseID: 8, Sequence: 1}},
			},
		},
		{
			name: "already in place is empty",
			entries: []Entry{
				{ID: 4, ExerciseID: 8, Sequence: 1},
				{ID: 5, ExerciseID: 9, Sequence: 2},
				{ID: 6, ExerciseID: 20, Sequence: 3},
			},
			want: Plan{},
		},
		{
			name: "duplicate pinned exercise stays an ordinary entry",
			entries: []Entry{
				{ID: 4, ExerciseID: 8, Sequence: 1},
				{ID: 5, ExerciseID: 9, Sequence: 2},
				{ID: 6, ExerciseID: 8, Sequence: 3},
			},
			want: Plan{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PrependPinned(tt.entries, []int64{8, 9})
			assert.Equal(t, tt.want, got)
		})
	}
}

type fixture struct {
	repos repository.Repositories
	svc   *Service
	user  *domain.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	repos := sqlstoretest.NewStore(t).Repositories()
	user := &domain.User{Username: "lifter", Email: "lifter@example.com"}
	require.NoError(t, repos.Users.Create(context.Background(), user))
	return &fixture{repos: repos, svc: NewService(repos, testConfig), user: user}
}

func (f *fixture) exercise(t *testing.T, name string) *domain.Exercise {
	t.Helper()
	ex := &domain.Exercise{Name: name}
	require.NoError(t, f.repos.Exercises.Create(context.Background(), ex))
	return ex
}

func (f *fixture) workout(t *testing.T, date string, exercises ...*domain.Exercise) *domain.Workout {
	t.Helper()
	ctx := context.Background()
	d, err := domain.ParseDate(date)
	require.NoError(t, err)
	w := &domain.Workout{UserID: f.user.ID, Date: d}
	require.NoError(t, f.repos.Workouts.Create(ctx, w))
	for i, ex := range exercises {
		require.NoError(t, f.repos.WorkoutExercises.Create(ctx, &domain.WorkoutExercise{WorkoutID: w.ID, ExerciseID: ex.ID, Sequence: i + 1}))
	}
	return w
}

func names(t *testing.T, entries []domain.WorkoutExercise) []string {
	t.Helper()
	out := make([]string, len(entries))
	for i, e := range entries {
		require.NotNil(t, e.Exercise)
		out[i] = e.Exercise.Name
	}
	return out
}

func TestSledBackfill(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	squat := f.exercise(t, "Squat")
	pull := f.exercise(t, "Sled Pull")
	row := f.exercise(t, "Row")

	old := f.workout(t, "2025-11-03", squat, pull, row)
	recent := f.workout(t, "2025-12-02", squat)

	cutoff, err := domain.ParseDate(testConfig.CutoffDate)
	require.NoError(t, err)
	res, err := f.svc.Sled(ctx, cutoff)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Scanned)
	assert.Equal(t, 1, res.Updated)
	assert.Equal(t, 1, res.Inserted)

	entries, err := f.repos.WorkoutExercises.List(ctx, &old.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Sled Push", "Sled Pull", "Squat", "Row"}, names(t, entries))
	for i, e := range entries {
		assert.Equal(t, i+1, e.Sequence)
	}

	sets, err := f.repos.WorkoutSets.List(ctx, &entries[0].ID)
	require.NoError(t, err)
	require.Len(t, sets, 1)
	assert.Equal(t, 133.81, *sets[0].WeightKg)
	assert.Equal(t, 27.43, *sets[0].DistanceM)
	assert.Equal(t, 1, *sets[0].Reps)

	untouched, err := f.repos.WorkoutExercises.List(ctx, &recent.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Squat"}, names(t, untouched))

	again, err := f.svc.Sled(ctx, cutoff)
	require.NoError(t, err)
	assert.Zero(t, again.Updated, "a second run changes nothing")
	assert.Zero(t, again.Inserted)
}

func TestRoutineBackfill(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	squat := f.exercise(t, "Squat")

	routine := &domain.Routine{UserID: f.user.ID, Name: "Split"}
	require.NoError(t, f.repos.Routines.Create(ctx, routine))
	day := &domain.RoutineDay{RoutineID: routine.ID, Name: "Legs"}
	require.NoError(t, f.repos.RoutineDays.Create(ctx, day))
	require.NoError(t, f.repos.RoutineExercises.Create(ctx, &domain.RoutineExercise{RoutineDayID: day.ID, ExerciseID: squat.ID, Sequence: 1}))

	res, err := f.svc.Routines(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Inserted)

	entries, err := f.repos.RoutineExercises.List(ctx, &day.ID)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "Sled Push", entries[0].Exercise.Name)
	assert.Equal(t, 1, *entries[0].SuggestedSets)
	assert.Equal(t, "30 yards", *entries[0].SuggestedReps)
	assert.Equal(t, squat.ID, entries[2].ExerciseID)
	assert.Equal(t, 3, entries[2].Sequence)

	again, err := f.svc.Routines(ctx)
	require.NoError(t, err)
	assert.Zero(t, again.Inserted)
}

func TestSetsBackfillFillsOnlyMissingNumbers(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	w := f.workout(t, "2025-01-06", f.exercise(t, "Squat"))
	ids, err := f.repos.WorkoutExercises.IDsByWorkout(ctx, w.ID)
	require.NoError(t, err)
	weID := ids[0]

	reps := 5
	require.NoError(t, f.repos.WorkoutSets.Create(ctx, &domain.WorkoutSet{WorkoutExerciseID: weID, SetNumber: 2, Reps: &reps}))

	res, err := f.svc.Sets(ctx, map[int64]int{weID: 3})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Inserted)

	sets, err := f.repos.WorkoutSets.List(ctx, &weID)
	require.NoError(t, err)
	require.Len(t, sets, 3)
	assert.Nil(t, sets[0].Reps)
	assert.Equal(t, 5, *sets[1].Reps, "existing set kept")
	assert.False(t, sets[2].Completed)

	again, err := f.svc.Sets(ctx, map[int64]int{weID: 3})
	require.NoError(t, err)
	assert.Zero(t, again.Inserted)

	_, err = f.svc.Sets(ctx, map[int64]int{9999: 1})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestGuessMuscles(t *testing.T) {
	assert.Equal(t, []string{"Quadriceps", "Glutes", "Hamstrings"}, GuessMuscles("Bulgarian Split Squat"))
	assert.Equal(t, []string{"Chest", "Triceps", "Shoulders"}, GuessMuscles("Bench Press (Dumbbell)"))
	assert.Equal(t, []string{"Quadriceps", "Hamstrings", "Cardio"}, GuessMuscles("Box Jump"))
	assert.Equal(t, []string{"Full Body"}, GuessMuscles("Couch Stretch"))
	assert.Empty(t, GuessMuscles("Sled Push"))
}

func TestPopulateMuscles(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	curl := f.exercise(t, "Hammer Curl")
	f.exercise(t, "Sled Push")

	res, err := f.svc.PopulateMuscles(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Scanned)
	assert.Equal(t, 1, res.Updated)

	_, err = f.svc.PopulateMuscles(ctx, false)
	require.NoError(t, err)

	loaded, err := f.repos.Exercises.GetByID(ctx, curl.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Biceps"}, loaded.MuscleGroups)
}

const routineYAML = `
name: Weekly Split
description: imported
rows:
  - {day: Monday, exercise: Sled Push & Pull, type: Warm-up, sets: 3, reps: 35 yards}
  - {day: Monday, exercise: Couch Stretch, type: Mobility, sets: 1, reps: 60 sec (per side)}
  - {day: Tuesday, exercise: Bike, type: Warm-up, sets: 1, reps: 5-10 min, notes: Easy pace}
  - {day: Tuesday, exercise: squat, type: Main Lift, sets: 3, reps: "5", tempo: "5s down, 1s hold"}
  - {day: Someday, exercise: Nap, type: Rest}
`

func TestImportRoutine(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	squat := f.exercise(t, "Squat")

	doc, err := LoadRoutineDocument(strings.NewReader(routineYAML))
	require.NoError(t, err)

	routine, err := f.svc.ImportRoutine(ctx, doc, f.user.ID)
	require.NoError(t, err)
	assert.Equal(t, f.user.ID, routine.UserID)
	require.Len(t, routine.Days, 2)
	assert.Equal(t, "Monday Workout", routine.Days[0].Name)
	assert.Equal(t, 1, *routine.Days[1].DayOfWeek)

	monday, err := f.repos.RoutineExercises.List(ctx, &routine.Days[0].ID)
	require.NoError(t, err)
	require.Len(t, monday, 2)
	assert.Equal(t, 1, monday[0].Sequence)
	assert.Equal(t, "Warm-up", *monday[0].GroupName)
	assert.Nil(t, monday[0].SuggestedTimeSeconds)
	assert.Equal(t, 60, *monday[1].SuggestedTimeSeconds)

	tuesday, err := f.repos.RoutineExercises.List(ctx, &routine.Days[1].ID)
	require.NoError(t, err)
	require.Len(t, tuesday, 2)
	assert.Equal(t, "5-10 min [Easy pace]", *tuesday[0].SuggestedReps)
	assert.Equal(t, 600, *tuesday[0].SuggestedTimeSeconds)
	assert.Equal(t, squat.ID, tuesday[1].ExerciseID, "names match regardless of case")
	assert.Equal(t, "5s down, 1s hold", *tuesday[1].Tempo)

	_, err = f.repos.Exercises.GetByName(ctx, "Nap")
	assert.ErrorIs(t, err, repository.ErrNotFound, "rows with unknown days are skipped")
}

func TestParseHoldSeconds(t *testing.T) {
	assert.Equal(t, 30, ParseHoldSeconds("30 sec"))
	assert.Equal(t, 120, ParseHoldSeconds("2 MIN"))
	assert.Equal(t, 0, ParseHoldSeconds("10 (per side)"))
	assert.Equal(t, 0, ParseHoldSeconds("99999999999999999999 sec"))
	assert.Equal(t, 0, ParseHoldSeconds("100000 min"))
	assert.Equal(t, MaxHoldSeconds, ParseHoldSeconds("1440 min"))
}
