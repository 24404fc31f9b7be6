package sqlstore

import (
	"context"

	"alcyxob/workout-tracker/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type exerciseRepo struct {
	db *gorm.DB
}

// withMuscles preloads muscle links, primary muscles first.
func withMuscles(db *gorm.DB, prefix string) *gorm.DB {
	return db.
		Preload(prefix+"Muscles", func(db *gorm.DB) *gorm.DB {
			return db.Order("is_primary DESC").Order("muscle_id")
		}).
		Preload(prefix + "Muscles.Muscle")
}

func (r *exerciseRepo) Create(ctx context.Context, exercise *domain.Exercise) error {
	if exercise.TrackedMetrics == "" {
		exercise.TrackedMetrics = domain.DefaultTrackedMetrics
	}
	return dbError("create exercise", r.db.WithContext(ctx).Omit(clause.Associations).Create(exercise).Error, "name", exercise.Name)
}

func (r *exerciseRepo) GetByID(ctx context.Context, id int64) (*domain.Exercise, error) {
	var ex domain.Exercise
	if err := withMuscles(r.db.WithContext(ctx), "").First(&ex, id).Error; err != nil {
		return nil, dbError("get exercise", err, "id", id)
	}
	ex.FillMuscleGroups()
	return &ex, nil
}

func (r *exerciseRepo) GetByName(ctx context.Context, name string) (*domain.Exercise, error) {
	var ex domain.Exercise
	if err := withMuscles(r.db.WithContext(ctx), "").Where("name = ?", name).First(&ex).Error; err != nil {
		return nil, dbError("get exercise by name", err, "name", name)
	}
	ex.FillMuscleGroups()
	return &ex, nil
}

func (r *exerciseRepo) List(ctx context.Context) ([]domain.Exercise, error) {
	var exercises []domain.Exercise
	if err := withMuscles(r.db.WithContext(ctx), "").Order("name").Find(&exercises).Error; err != nil {
		return nil, dbError("list exercises", err)
	}
	for i := range exercises {
		exercises[i].FillMuscleGroups()
	}
	return exercises, nil
}

func (r *exerciseRepo) Update(ctx context.Context, exercise *domain.Exercise) error {
	if exercise.TrackedMetrics == "" {
		exercise.TrackedMetrics = domain.DefaultTrackedMetrics
	}
	return updateAll(ctx, r.db, "update exercise", exercise, exercise.ID)
}

func (r *exerciseRepo) Delete(ctx context.Context, id int64) error {
	return affected("delete exercise", r.db.WithContext(ctx).Delete(&domain.Exercise{}, id), "id", id)
}

func (r *exerciseRepo) EnsureByName(ctx context.Context, exercise *domain.Exercise) (*domain.Exercise, bool, error) {
	if exercise.TrackedMetrics == "" {
		exercise.TrackedMetrics = domain.DefaultTrackedMetrics
	}
	result := r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "name"}}, DoNothing: true}).
		Create(exercise)
	if result.Error != nil {
		return nil, false, dbError("ensure exercise", result.Error, "name", exercise.Name)
	}
	stored, err := r.GetByName(ctx, exercise.Name)
	if err != nil {
		return nil, false, err
	}
	return stored, result.RowsAffected > 0, nil
}

type muscleRepo struct {
	db *gorm.DB
}

func (r *muscleRepo) Create(ctx context.Context, muscle *domain.Muscle) error {
	return dbError("create muscle", r.db.WithContext(ctx).Create(muscle).Error, "name", muscle.Name)
}

func (r *muscleRepo) GetByID(ctx context.Context, id int64) (*domain.Muscle, error) {
	var m domain.Muscle
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, dbError("get muscle", err, "id", id)
	}
	return &m, nil
}

func (r *muscleRepo) GetByName(ctx context.Context, name string) (*domain.Muscle, error) {
	var m domain.Muscle
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&m).Error; err != nil {
		return nil, dbError("get muscle by name", err, "name", name)
	}
	return &m, nil
}

func (r *muscleRepo) List(ctx context.Context) ([]domain.Muscle, error) {
	var muscles []domain.Muscle
	if err := r.db.WithContext(ctx).Order("name").Find(&muscles).Error; err != nil {
		return nil, dbError("list muscles", err)
	}
	return muscles, nil
}

func (r *muscleRepo) Update(ctx context.Context, muscle *domain.Muscle) error {
	return updateAll(ctx, r.db, "update muscle", muscle, muscle.ID)
}

func (r *muscleRepo) Delete(ctx context.Context, id int64) error {
	return affected("delete muscle", r.db.WithContext(ctx).Delete(&domain.Muscle{}, id), "id", id)
}

func (r *muscleRepo) EnsureByName(ctx context.Context, name string) (*domain.Muscle, error) {
	muscle := &domain.Muscle{Name: name}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "name"}}, DoNothing: true}).
		Create(muscle).Error
	if err != nil {
		return nil, dbError("ensure muscle", err, "name", name)
	}
	return r.GetByName(ctx, name)
}

type exerciseMuscleRepo struct {
	db *gorm.DB
}

func (r *exerciseMuscleRepo) Create(ctx context.Context, link *domain.ExerciseMuscle) error {
	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(link).Error
	if err != nil {
		return dbError("create exercise muscle", err, "exercise_id", link.ExerciseID, "muscle_id", link.MuscleID)
	}
	// gorm skips zero values of columns with a default, so false needs its own write.
	if !link.IsPrimary {
		return r.SetPrimary(ctx, link.ExerciseID, link.MuscleID, false)
	}
	return nil
}

func (r *exerciseMuscleRepo) SetPrimary(ctx context.Context, exerciseID, muscleID int64, primary bool) error {
	result := r.db.WithContext(ctx).Model(&domain.ExerciseMuscle{}).
		Where("exercise_id = ? AND muscle_id = ?", exerciseID, muscleID).
		Update("is_primary", primary)
	return affected("set exercise muscle primary", result, "exercise_id", exerciseID, "muscle_id", muscleID)
}

func (r *exerciseMuscleRepo) Ensure(ctx context.Context, link *domain.ExerciseMuscle) error {
	err := r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(link).Error
	return dbError("ensure exercise muscle", err, "exercise_id", link.ExerciseID, "muscle_id", link.MuscleID)
}

func (r *exerciseMuscleRepo) Get(ctx context.Context, exerciseID, muscleID int64) (*domain.ExerciseMuscle, error) {
	var link domain.ExerciseMuscle
	err := r.db.WithContext(ctx).Preload("Muscle").
		Where("exercise_id = ? AND muscle_id = ?", exerciseID, muscleID).
		First(&link).Error
	if err != nil {
		return nil, dbError("get exercise muscle", err, "exercise_id", exerciseID, "muscle_id", muscleID)
	}
	return &link, nil
}

func (r *exerciseMuscleRepo) List(ctx context.Context, exerciseID *int64) ([]domain.ExerciseMuscle, error) {
	var links []domain.ExerciseMuscle
	q := r.db.WithContext(ctx).Preload("Muscle").Order("exercise_id").Order("is_primary DESC").Order("muscle_id")
	if exerciseID != nil {
		q = q.Where("exercise_id = ?", *exerciseID)
	}
	if err := q.Find(&links).Error; err != nil {
		return nil, dbError("list exercise muscles", err)
	}
	return links, nil
}

func (r *exerciseMuscleRepo) Delete(ctx context.Context, exerciseID, muscleID int64) error {
	result := r.db.WithContext(ctx).
		Where("exercise_id = ? AND muscle_id = ?", exerciseID, muscleID).
		Delete(&domain.ExerciseMuscle{})
	return affected("delete exercise muscle", result, "exercise_id", exerciseID, "muscle_id", muscleID)
}

func (r *exerciseMuscleRepo) DeleteByExercise(ctx context.Context, exerciseID int64) (int64, error) {
	result := r.db.WithContext(ctx).Where("exercise_id = ?", exerciseID).Delete(&domain.ExerciseMuscle{})
	return result.RowsAffected, dbError("delete exercise muscles", result.Error, "exercise_id", exerciseID)
}
