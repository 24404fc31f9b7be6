package sqlstore

import (
	"context"

	"alcyxob/workout-tracker/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type routineRepo struct {
	db *gorm.DB
}

func (r *routineRepo) Create(ctx context.Context, routine *domain.Routine) error {
	return dbError("create routine", r.db.WithContext(ctx).Omit(clause.Associations).Create(routine).Error, "user_id", routine.UserID)
}

func (r *routineRepo) GetByID(ctx context.Context, id int64) (*domain.Routine, error) {
	var routine domain.Routine
	if err := r.db.WithContext(ctx).First(&routine, id).Error; err != nil {
		return nil, dbError("get routine", err, "id", id)
	}
	return &routine, nil
}

func (r *routineRepo) List(ctx context.Context, userID *int64) ([]domain.Routine, error) {
	var routines []domain.Routine
	q := r.db.WithContext(ctx).Order("id DESC")
	if userID != nil {
		q = q.Where("user_id = ?", *userID)
	}
	if err := q.Find(&routines).Error; err != nil {
		return nil, dbError("list routines", err)
	}
	return routines, nil
}

func (r *routineRepo) Update(ctx context.Context, routine *domain.Routine) error {
	return updateAll(ctx, r.db, "update routine", routine, routine.ID)
}

func (r *routineRepo) Delete(ctx context.Context, id int64) error {
	return affected("delete routine", r.db.WithContext(ctx).Delete(&domain.Routine{}, id), "id", id)
}

func (r *routineRepo) GetActive(ctx context.Context, userID int64) (*domain.Routine, error) {
	var routine domain.Routine
	err := r.db.WithContext(ctx).Where("user_id = ? AND is_active = ?", userID, true).Order("id DESC").Take(&routine).Error
	if err != nil {
		return nil, dbError("get active routine", err, "user_id", userID)
	}
	return &routine, nil
}

func (r *routineRepo) DeactivateOthers(ctx context.Context, userID, keepID int64) error {
	err := r.db.WithContext(ctx).Model(&domain.Routine{}).
		Where("user_id = ? AND id <> ? AND is_active = ?", userID, keepID, true).
		Update("is_active", false).Error
	return dbError("deactivate routines", err, "user_id", userID)
}

func (r *routineRepo) SetActive(ctx context.Context, id int64, active bool) error {
	result := r.db.WithContext(ctx).Model(&domain.Routine{}).Where("id = ?", id).Update("is_active", active)
	return affected("set routine active", result, "id", id)
}

type routineDayRepo struct {
	db *gorm.DB
}

func (r *routineDayRepo) Create(ctx context.Context, day *domain.RoutineDay) error {
	return dbError("create routine day", r.db.WithContext(ctx).Omit(clause.Associations).Create(day).Error, "routine_id", day.RoutineID)
}

func (r *routineDayRepo) GetByID(ctx context.Context, id int64) (*domain.RoutineDay, error) {
	var day domain.RoutineDay
	if err := r.db.WithContext(ctx).First(&day, id).Error; err != nil {
		return nil, dbError("get routine day", err, "id", id)
	}
	return &day, nil
}

func (r *routineDayRepo) List(ctx context.Context, routineID *int64) ([]domain.RoutineDay, error) {
	var days []domain.RoutineDay
	q := r.db.WithContext(ctx).Order("routine_id").Order("day_of_week").Order("id")
	if routineID != nil {
		q = q.Where("routine_id = ?", *routineID)
	}
	if err := q.Find(&days).Error; err != nil {
		return nil, dbError("list routine days", err)
	}
	return days, nil
}

func (r *routineDayRepo) Update(ctx context.Context, day *domain.RoutineDay) error {
	return updateAll(ctx, r.db, "update routine day", day, day.ID)
}

func (r *routineDayRepo) Delete(ctx context.Context, id int64) error {
	return affected("delete routine day", r.db.WithContext(ctx).Delete(&domain.RoutineDay{}, id), "id", id)
}

func (r *routineDayRepo) IDsByRoutine(ctx context.Context, routineID int64) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).Model(&domain.RoutineDay{}).Where("routine_id = ?", routineID).Pluck("id", &ids).Error
	return ids, dbError("list routine day ids", err, "routine_id", routineID)
}

func (r *routineDayRepo) DeleteByRoutine(ctx context.Context, routineID int64) error {
	err := r.db.WithContext(ctx).Where("routine_id = ?", routineID).Delete(&domain.RoutineDay{}).Error
	return dbError("delete routine days", err, "routine_id", routineID)
}

func (r *routineDayRepo) FindForWeekday(ctx context.Context, userID int64, dayOfWeek int) (*domain.RoutineDay, error) {
	var day domain.RoutineDay
	err := r.db.WithContext(ctx).Model(&domain.RoutineDay{}).
		Select("routine_days.*").
		Joins("JOIN routines ON routines.id = routine_days.routine_id").
		Where("routines.user_id = ? AND routine_days.day_of_week = ?", userID, dayOfWeek).
		Order("routines.id DESC").Order("routine_days.id").
		Take(&day).Error
	if err != nil {
		return nil, dbError("find routine day for weekday", err, "user_id", userID, "day_of_week", dayOfWeek)
	}
	return &day, nil
}

type routineExerciseRepo struct {
	db *gorm.DB
}

func (r *routineExerciseRepo) Create(ctx context.Context, re *domain.RoutineExercise) error {
	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(re).Error
	return dbError("create routine exercise", err, "routine_day_id", re.RoutineDayID, "exercise_id", re.ExerciseID)
}

func (r *routineExerciseRepo) GetByID(ctx context.Context, id int64) (*domain.RoutineExercise, error) {
	var re domain.RoutineExercise
	if err := r.db.WithContext(ctx).Preload("Exercise").First(&re, id).Error; err != nil {
		return nil, dbError("get routine exercise", err, "id", id)
	}
	return &re, nil
}

func (r *routineExerciseRepo) List(ctx context.Context, routineDayID *int64) ([]domain.RoutineExercise, error) {
	var entries []domain.RoutineExercise
	q := withMuscles(r.db.WithContext(ctx).Preload("Exercise"), "Exercise.").
		Order("routine_day_id").Order("sequence").Order("id")
	if routineDayID != nil {
		q = q.Where("routine_day_id = ?", *routineDayID)
	}
	if err := q.Find(&entries).Error; err != nil {
		return nil, dbError("list routine exercises", err)
	}
	for i := range entries {
		if entries[i].Exercise != nil {
			entries[i].Exercise.FillMuscleGroups()
		}
	}
	return entries, nil
}

func (r *routineExerciseRepo) Update(ctx context.Context, re *domain.RoutineExercise) error {
	return updateAll(ctx, r.db, "update routine exercise", re, re.ID)
}

func (r *routineExerciseRepo) Delete(ctx context.Context, id int64) error {
	return affected("delete routine exercise", r.db.WithContext(ctx).Delete(&domain.RoutineExercise{}, id), "id", id)
}

func (r *routineExerciseRepo) DeleteByDays(ctx context.Context, dayIDs []int64) error {
	if len(dayIDs) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).Where("routine_day_id IN ?", dayIDs).Delete(&domain.RoutineExercise{}).Error
	return dbError("delete routine exercises", err, "days", len(dayIDs))
}

func (r *routineExerciseRepo) MaxSequence(ctx context.Context, routineDayID int64) (int, error) {
	var max int
	err := r.db.WithContext(ctx).Model(&domain.RoutineExercise{}).
		Select("COALESCE(MAX(sequence), 0)").
		Where("routine_day_id = ?", routineDayID).
		Scan(&max).Error
	return max, dbError("max routine sequence", err, "routine_day_id", routineDayID)
}

func (r *routineExerciseRepo) SetSequence(ctx context.Context, routineDayID, id int64, sequence int) (bool, error) {
	result := r.db.WithContext(ctx).Model(&domain.RoutineExercise{}).
		Where("id = ? AND routine_day_id = ?", id, routineDayID).
		Update("sequence", sequence)
	if result.Error != nil {
		return false, dbError("set routine sequence", result.Error, "id", id)
	}
	return result.RowsAffected > 0, nil
}

func (r *routineExerciseRepo) DayIDsByExercise(ctx context.Context, exerciseID int64) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).Model(&domain.RoutineExercise{}).
		Where("exercise_id = ?", exerciseID).
		Distinct().Order("routine_day_id").
		Pluck("routine_day_id", &ids).Error
	return ids, dbError("list routine days by exercise", err, "exercise_id", exerciseID)
}

func (r *routineExerciseRepo) CountByExercise(ctx context.Context, exerciseID int64) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.RoutineExercise{}).Where("exercise_id = ?", exerciseID).Count(&n).Error
	return n, dbError("count routine references", err, "exercise_id", exerciseID)
}

func (r *routineExerciseRepo) ReassignExercise(ctx context.Context, fromID, toID int64) (int64, error) {
	result := r.db.WithContext(ctx).Model(&domain.RoutineExercise{}).
		Where("exercise_id = ?", fromID).
		Update("exercise_id", toID)
	return result.RowsAffected, dbError("reassign routine exercises", result.Error, "from", fromID, "to", toID)
}

func (r *routineExerciseRepo) DeleteByExercise(ctx context.Context, exerciseID int64) (int64, error) {
	result := r.db.WithContext(ctx).Where("exercise_id = ?", exerciseID).Delete(&domain.RoutineExercise{})
	return result.RowsAffected, dbError("delete routine exercises by exercise", result.Error, "exercise_id", exerciseID)
}
