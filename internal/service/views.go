package service

import (
	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/sequence"
)

// ExerciseView is one exercise as it appears inside a workout, a suggested
// workout or a routine schedule. ID is the exercise's id; EntryID is the id of
// the workout or routine entry that placed it there.
type ExerciseView struct {
	ID             int64               `json:"id"`
	EntryID        int64               `json:"entry_id"`
	Name           string              `json:"name"`
	MuscleGroup    []string            `json:"muscle_group"`
	Sets           []domain.WorkoutSet `json:"sets"`
	GroupName      *string             `json:"group_name"`
	TrackedMetrics string              `json:"tracked_metrics,omitempty"`

	// Routine prescriptions, only set for routine entries.
	SuggestedSets          *int     `json:"suggested_sets,omitempty"`
	SuggestedReps          *string  `json:"suggested_reps,omitempty"`
	SuggestedWeightPercent *float64 `json:"suggested_weight_percent,omitempty"`
	SuggestedTimeSeconds   *int     `json:"suggested_time_seconds,omitempty"`
	RestPeriodSeconds      *int     `json:"rest_period_seconds,omitempty"`
	Tempo                  *string  `json:"tempo,omitempty"`
}

// WorkoutView is a workout with its entries folded into superset blocks.
type WorkoutView struct {
	domain.Workout
	Exercises []sequence.Block[ExerciseView] `json:"exercises"`
}

// RoutineDayView is one day of a routine schedule.
type RoutineDayView struct {
	ID        int64                          `json:"id"`
	Name      string                         `json:"name"`
	DayOfWeek *int                           `json:"day_of_week"`
	Exercises []sequence.Block[ExerciseView] `json:"exercises"`
}

// SuggestedWorkout is today's routine day for a user.
type SuggestedWorkout struct {
	RoutineName string         `json:"routine_name"`
	DayName     string         `json:"day_name"`
	Exercises   []ExerciseView `json:"exercises"`
}

func exerciseFields(v *ExerciseView, ex *domain.Exercise) {
	v.MuscleGroup = []string{}
	if ex == nil {
		return
	}
	v.Name = ex.Name
	v.TrackedMetrics = ex.TrackedMetrics
	if ex.MuscleGroups != nil {
		v.MuscleGroup = ex.MuscleGroups
	}
}

func workoutEntryView(we domain.WorkoutExercise) ExerciseView {
	v := ExerciseView{ID: we.ExerciseID, EntryID: we.ID, GroupName: we.GroupName, Sets: we.Sets}
	if v.Sets == nil {
		v.Sets = []domain.WorkoutSet{}
	}
	exerciseFields(&v, we.Exercise)
	return v
}

func routineEntryView(re domain.RoutineExercise) ExerciseView {
	v := ExerciseView{
		ID:                     re.ExerciseID,
		EntryID:                re.ID,
		GroupName:              re.GroupName,
		Sets:                   []domain.WorkoutSet{},
		SuggestedSets:          re.SuggestedSets,
		SuggestedReps:          re.SuggestedReps,
		SuggestedWeightPercent: re.SuggestedWeightPercent,
		SuggestedTimeSeconds:   re.SuggestedTimeSeconds,
		RestPeriodSeconds:      re.RestPeriodSeconds,
		Tempo:                  re.Tempo,
	}
	exerciseFields(&v, re.Exercise)
	return v
}

func groupOf(v ExerciseView) string {
	return sequence.GroupName(v.GroupName)
}

func newWorkoutView(w domain.Workout) WorkoutView {
	entries := make([]ExerciseView, len(w.Exercises))
	for i, we := range w.Exercises {
		entries[i] = workoutEntryView(we)
	}
	w.Exercises = nil
	return WorkoutView{Workout: w, Exercises: sequence.Group(entries, groupOf)}
}

func newRoutineDayView(day domain.RoutineDay, entries []domain.RoutineExercise) RoutineDayView {
	views := make([]ExerciseView, len(entries))
	for i, re := range entries {
		views[i] = routineEntryView(re)
	}
	return RoutineDayView{
		ID:        day.ID,
		Name:      day.Name,
		DayOfWeek: day.DayOfWeek,
		Exercises: sequence.Group(views, groupOf),
	}
}
