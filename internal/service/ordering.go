package service

import (
	"context"

	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/repository"
	"alcyxob/workout-tracker/internal/sequence"
)

// --- Sequence maintenance shared by workouts, routine days and exercise deletion ---

func compactWorkout(ctx context.Context, repos repository.Repositories, workoutID int64) error {
	entries, err := repos.WorkoutExercises.List(ctx, &workoutID)
	if err != nil {
		return err
	}
	ids := make([]int64, len(entries))
	current := make(map[int64]int, len(entries))
	for i, we := range entries {
		ids[i] = we.ID
		current[we.ID] = we.Sequence
	}
	for _, a := range sequence.Compact(ids, func(id int64) int { return current[id] }) {
		if _, err := repos.WorkoutExercises.SetSequence(ctx, workoutID, a.ID, a.Sequence); err != nil {
			return err
		}
	}
	return nil
}

func compactRoutineDay(ctx context.Context, repos repository.Repositories, dayID int64) error {
	entries, err := repos.RoutineExercises.List(ctx, &dayID)
	if err != nil {
		return err
	}
	ids := make([]int64, len(entries))
	current := make(map[int64]int, len(entries))
	for i, re := range entries {
		ids[i] = re.ID
		current[re.ID] = re.Sequence
	}
	for _, a := range sequence.Compact(ids, func(id int64) int { return current[id] }) {
		if _, err := repos.RoutineExercises.SetSequence(ctx, dayID, a.ID, a.Sequence); err != nil {
			return err
		}
	}
	return nil
}

// reorderWorkout applies sequence = position+1 to the ids that belong to the
// workout. It returns how many entries were moved.
func reorderWorkout(ctx context.Context, repos repository.Repositories, workoutID int64, ids []int64) (int, error) {
	owned, err := repos.WorkoutExercises.IDsByWorkout(ctx, workoutID)
	if err != nil {
		return 0, err
	}
	return applyReorder(ids, owned, func(a sequence.Assignment) (bool, error) {
		return repos.WorkoutExercises.SetSequence(ctx, workoutID, a.ID, a.Sequence)
	})
}

func reorderRoutineDay(ctx context.Context, repos repository.Repositories, dayID int64, ids []int64) (int, error) {
	entries, err := repos.RoutineExercises.List(ctx, &dayID)
	if err != nil {
		return 0, err
	}
	owned := make([]int64, len(entries))
	for i, re := range entries {
		owned[i] = re.ID
	}
	return applyReorder(ids, owned, func(a sequence.Assignment) (bool, error) {
		return repos.RoutineExercises.SetSequence(ctx, dayID, a.ID, a.Sequence)
	})
}

func applyReorder(ids, owned []int64, set func(sequence.Assignment) (bool, error)) (int, error) {
	belongs := make(map[int64]bool, len(owned))
	for _, id := range owned {
		belongs[id] = true
	}
	moved := 0
	for _, a := range sequence.Reorder(ids, func(id int64) bool { return belongs[id] }) {
		ok, err := set(a)
		if err != nil {
			return moved, err
		}
		if ok {
			moved++
		}
	}
	return moved, nil
}

// --- Cascades ---

func deleteWorkout(ctx context.Context, repos repository.Repositories, workoutID int64) error {
	entryIDs, err := repos.WorkoutExercises.IDsByWorkout(ctx, workoutID)
	if err != nil {
		return err
	}
	if _, err := repos.WorkoutSets.DeleteByWorkoutExercises(ctx, entryIDs); err != nil {
		return err
	}
	if err := repos.WorkoutExercises.DeleteByWorkout(ctx, workoutID); err != nil {
		return err
	}
	return notFound(repos.Workouts.Delete(ctx, workoutID), ErrWorkoutNotFound)
}

func deleteRoutine(ctx context.Context, repos repository.Repositories, routineID int64) error {
	dayIDs, err := repos.RoutineDays.IDsByRoutine(ctx, routineID)
	if err != nil {
		return err
	}
	if err := repos.RoutineExercises.DeleteByDays(ctx, dayIDs); err != nil {
		return err
	}
	if err := repos.RoutineDays.DeleteByRoutine(ctx, routineID); err != nil {
		return err
	}
	return notFound(repos.Routines.Delete(ctx, routineID), ErrRoutineNotFound)
}

// checkExercise verifies that an exercise referenced from a request body exists.
func checkExercise(ctx context.Context, repos repository.Repositories, id int64) (*domain.Exercise, error) {
	ex, err := repos.Exercises.GetByID(ctx, id)
	if err != nil {
		return nil, mustExist(err, "exercise", id)
	}
	return ex, nil
}
