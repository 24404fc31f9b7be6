package sqlstore

import (
	"context"
	"time"

	"alcyxob/workout-tracker/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type workoutRepo struct {
	db *gorm.DB
}

func bySequence(db *gorm.DB) *gorm.DB {
	return db.Order("sequence").Order("id")
}

func bySetNumber(db *gorm.DB) *gorm.DB {
	return db.Order("set_number").Order("id")
}

func fillWorkoutMuscles(w *domain.Workout) {
	for i := range w.Exercises {
		if w.Exercises[i].Exercise != nil {
			w.Exercises[i].Exercise.FillMuscleGroups()
		}
	}
}

func (r *workoutRepo) Create(ctx context.Context, workout *domain.Workout) error {
	return dbError("create workout", r.db.WithContext(ctx).Omit(clause.Associations).Create(workout).Error, "user_id", workout.UserID)
}

func (r *workoutRepo) GetByID(ctx context.Context, id int64) (*domain.Workout, error) {
	var w domain.Workout
	if err := r.db.WithContext(ctx).First(&w, id).Error; err != nil {
		return nil, dbError("get workout", err, "id", id)
	}
	return &w, nil
}

func (r *workoutRepo) GetDetailed(ctx context.Context, id int64) (*domain.Workout, error) {
	var w domain.Workout
	q := r.db.WithContext(ctx).
		Preload("Exercises", bySequence).
		Preload("Exercises.Exercise").
		Preload("Exercises.Sets", bySetNumber)
	if err := withMuscles(q, "Exercises.Exercise.").First(&w, id).Error; err != nil {
		return nil, dbError("get workout detail", err, "id", id)
	}
	fillWorkoutMuscles(&w)
	return &w, nil
}

func (r *workoutRepo) List(ctx context.Context, userID *int64) ([]domain.Workout, error) {
	var workouts []domain.Workout
	q := r.db.WithContext(ctx).
		Preload("Exercises", bySequence).
		Preload("Exercises.Exercise").
		Preload("Exercises.Sets", bySetNumber)
	q = withMuscles(q, "Exercises.Exercise.").
		Order("date DESC").Order("start_time DESC").Order("id DESC")
	if userID != nil {
		q = q.Where("user_id = ?", *userID)
	}
	if err := q.Find(&workouts).Error; err != nil {
		return nil, dbError("list workouts", err)
	}
	for i := range workouts {
		fillWorkoutMuscles(&workouts[i])
	}
	return workouts, nil
}

func (r *workoutRepo) Update(ctx context.Context, workout *domain.Workout) error {
	return updateAll(ctx, r.db, "update workout", workout, workout.ID)
}

func (r *workoutRepo) Delete(ctx context.Context, id int64) error {
	return affected("delete workout", r.db.WithContext(ctx).Delete(&domain.Workout{}, id), "id", id)
}

func (r *workoutRepo) FindByDate(ctx context.Context, userID int64, date domain.Date) (*domain.Workout, error) {
	var w domain.Workout
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND date = ?", userID, date).
		Order("id").
		Take(&w).Error
	if err != nil {
		return nil, dbError("find workout by date", err, "user_id", userID, "date", date.String())
	}
	return &w, nil
}

func (r *workoutRepo) LatestActive(ctx context.Context, userID int64) (*domain.Workout, error) {
	var w domain.Workout
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND end_time IS NULL", userID).
		Order("date DESC").Order("start_time DESC").Order("id DESC").
		Take(&w).Error
	if err != nil {
		return nil, dbError("get active workout", err, "user_id", userID)
	}
	return &w, nil
}

func (r *workoutRepo) SetEndTime(ctx context.Context, id int64, end *time.Time) error {
	result := r.db.WithContext(ctx).Model(&domain.Workout{}).Where("id = ?", id).Update("end_time", end)
	return affected("set workout end time", result, "id", id)
}

func (r *workoutRepo) ListBefore(ctx context.Context, cutoff domain.Date) ([]domain.Workout, error) {
	var workouts []domain.Workout
	if err := r.db.WithContext(ctx).Where("date < ?", cutoff).Order("date").Order("id").Find(&workouts).Error; err != nil {
		return nil, dbError("list workouts before", err, "cutoff", cutoff.String())
	}
	return workouts, nil
}

type workoutExerciseRepo struct {
	db *gorm.DB
}

func (r *workoutExerciseRepo) Create(ctx context.Context, we *domain.WorkoutExercise) error {
	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(we).Error
	return dbError("create workout exercise", err, "workout_id", we.WorkoutID, "exercise_id", we.ExerciseID)
}

func (r *workoutExerciseRepo) GetByID(ctx context.Context, id int64) (*domain.WorkoutExercise, error) {
	var we domain.WorkoutExercise
	if err := r.db.WithContext(ctx).Preload("Exercise").First(&we, id).Error; err != nil {
		return nil, dbError("get workout exercise", err, "id", id)
	}
	return &we, nil
}

func (r *workoutExerciseRepo) List(ctx context.Context, workoutID *int64) ([]domain.WorkoutExercise, error) {
	var entries []domain.WorkoutExercise
	q := r.db.WithContext(ctx).Preload("Exercise").Order("workout_id").Order("sequence").Order("id")
	if workoutID != nil {
		q = q.Where("workout_id = ?", *workoutID)
	}
	if err := q.Find(&entries).Error; err != nil {
		return nil, dbError("list workout exercises", err)
	}
	return entries, nil
}

func (r *workoutExerciseRepo) Update(ctx context.Context, we *domain.WorkoutExercise) error {
	return updateAll(ctx, r.db, "update workout exercise", we, we.ID)
}

func (r *workoutExerciseRepo) Delete(ctx context.Context, id int64) error {
	return affected("delete workout exercise", r.db.WithContext(ctx).Delete(&domain.WorkoutExercise{}, id), "id", id)
}

func (r *workoutExerciseRepo) DeleteByWorkout(ctx context.Context, workoutID int64) error {
	err := r.db.WithContext(ctx).Where("workout_id = ?", workoutID).Delete(&domain.WorkoutExercise{}).Error
	return dbError("delete workout exercises", err, "workout_id", workoutID)
}

func (r *workoutExerciseRepo) MaxSequence(ctx context.Context, workoutID int64) (int, error) {
	var max int
	err := r.db.WithContext(ctx).Model(&domain.WorkoutExercise{}).
		Select("COALESCE(MAX(sequence), 0)").
		Where("workout_id = ?", workoutID).
		Scan(&max).Error
	return max, dbError("max workout sequence", err, "workout_id", workoutID)
}

func (r *workoutExerciseRepo) SetSequence(ctx context.Context, workoutID, id int64, sequence int) (bool, error) {
	result := r.db.WithContext(ctx).Model(&domain.WorkoutExercise{}).
		Where("id = ? AND workout_id = ?", id, workoutID).
		Update("sequence", sequence)
	if result.Error != nil {
		return false, dbError("set workout sequence", result.Error, "id", id)
	}
	return result.RowsAffected > 0, nil
}

func (r *workoutExerciseRepo) IDsByWorkout(ctx context.Context, workoutID int64) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).Model(&domain.WorkoutExercise{}).
		Where("workout_id = ?", workoutID).
		Order("sequence").Order("id").
		Pluck("id", &ids).Error
	return ids, dbError("list workout exercise ids", err, "workout_id", workoutID)
}

func (r *workoutExerciseRepo) IDsByExercise(ctx context.Context, exerciseID int64) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).Model(&domain.WorkoutExercise{}).
		Where("exercise_id = ?", exerciseID).
		Pluck("id", &ids).Error
	return ids, dbError("list workout exercise ids by exercise", err, "exercise_id", exerciseID)
}

func (r *workoutExerciseRepo) WorkoutIDsByExercise(ctx context.Context, exerciseID int64) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).Model(&domain.WorkoutExercise{}).
		Where("exercise_id = ?", exerciseID).
		Distinct().Order("workout_id").
		Pluck("workout_id", &ids).Error
	return ids, dbError("list workouts by exercise", err, "exercise_id", exerciseID)
}

func (r *workoutExerciseRepo) CountByExercise(ctx context.Context, exerciseID int64) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.WorkoutExercise{}).Where("exercise_id = ?", exerciseID).Count(&n).Error
	return n, dbError("count workout references", err, "exercise_id", exerciseID)
}

func (r *workoutExerciseRepo) ReassignExercise(ctx context.Context, fromID, toID int64) (int64, error) {
	result := r.db.WithContext(ctx).Model(&domain.WorkoutExercise{}).
		Where("exercise_id = ?", fromID).
		Update("exercise_id", toID)
	return result.RowsAffected, dbError("reassign workout exercises", result.Error, "from", fromID, "to", toID)
}

func (r *workoutExerciseRepo) DeleteByExercise(ctx context.Context, exerciseID int64) (int64, error) {
	result := r.db.WithContext(ctx).Where("exercise_id = ?", exerciseID).Delete(&domain.WorkoutExercise{})
	return result.RowsAffected, dbError("delete workout exercises by exercise", result.Error, "exercise_id", exerciseID)
}

type workoutSetRepo struct {
	db *gorm.DB
}

func (r *workoutSetRepo) Create(ctx context.Context, set *domain.WorkoutSet) error {
	err := r.db.WithContext(ctx).Create(set).Error
	return dbError("create workout set", err, "workout_exercise_id", set.WorkoutExerciseID, "set_number", set.SetNumber)
}

func (r *workoutSetRepo) GetByID(ctx context.Context, id int64) (*domain.WorkoutSet, error) {
	var set domain.WorkoutSet
	if err := r.db.WithContext(ctx).First(&set, id).Error; err != nil {
		return nil, dbError("get workout set", err, "id", id)
	}
	return &set, nil
}

func (r *workoutSetRepo) List(ctx context.Context, workoutExerciseID *int64) ([]domain.WorkoutSet, error) {
	var sets []domain.WorkoutSet
	q := r.db.WithContext(ctx).Order("workout_exercise_id").Order("set_number").Order("id")
	if workoutExerciseID != nil {
		q = q.Where("workout_exercise_id = ?", *workoutExerciseID)
	}
	if err := q.Find(&sets).Error; err != nil {
		return nil, dbError("list workout sets", err)
	}
	return sets, nil
}

func (r *workoutSetRepo) Update(ctx context.Context, set *domain.WorkoutSet) error {
	return updateAll(ctx, r.db, "update workout set", set, set.ID)
}

func (r *workoutSetRepo) Delete(ctx context.Context, id int64) error {
	return affected("delete workout set", r.db.WithContext(ctx).Delete(&domain.WorkoutSet{}, id), "id", id)
}

func (r *workoutSetRepo) DeleteByWorkoutExercises(ctx context.Context, workoutExerciseIDs []int64) (int64, error) {
	if len(workoutExerciseIDs) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).Where("workout_exercise_id IN ?", workoutExerciseIDs).Delete(&domain.WorkoutSet{})
	return result.RowsAffected, dbError("delete workout sets", result.Error, "workout_exercises", len(workoutExerciseIDs))
}

func (r *workoutSetRepo) SetNumbers(ctx context.Context, workoutExerciseID int64) ([]int, error) {
	var numbers []int
	err := r.db.WithContext(ctx).Model(&domain.WorkoutSet{}).
		Where("workout_exercise_id = ?", workoutExerciseID).
		Order("set_number").
		Pluck("set_number", &numbers).Error
	return numbers, dbError("list set numbers", err, "workout_exercise_id", workoutExerciseID)
}

func (r *workoutSetRepo) LatestForExercise(ctx context.Context, exerciseID int64, setNumber int, excludeWorkoutID *int64) (*domain.WorkoutSet, error) {
	var set domain.WorkoutSet
	q := r.db.WithContext(ctx).Model(&domain.WorkoutSet{}).
		Select("workout_sets.*").
		Joins("JOIN workout_exercises ON workout_exercises.id = workout_sets.workout_exercise_id").
		Joins("JOIN workouts ON workouts.id = workout_exercises.workout_id").
		Where("workout_exercises.exercise_id = ? AND workout_sets.set_number = ?", exerciseID, setNumber)
	if excludeWorkoutID != nil {
		q = q.Where("workouts.id <> ?", *excludeWorkoutID)
	}
	err := q.Order("workouts.date DESC").
		Order("workouts.start_time DESC").
		Order("workout_sets.id DESC").
		Take(&set).Error
	if err != nil {
		return nil, dbError("latest set", err, "exercise_id", exerciseID, "set_number", setNumber)
	}
	return &set, nil
}
