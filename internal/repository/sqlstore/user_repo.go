package sqlstore

import (
	"context"

	"alcyxob/workout-tracker/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// updateAll writes every column of model, including zero values, and reports
// ErrNotFound when no row matched.
func updateAll(ctx context.Context, db *gorm.DB, op string, model interface{}, id int64) error {
	result := db.WithContext(ctx).Model(model).Select("*").Omit("id", "created_at", clause.Associations).Updates(model)
	return affected(op, result, "id", id)
}

type userRepo struct {
	db *gorm.DB
}

func (r *userRepo) Create(ctx context.Context, user *domain.User) error {
	return dbError("create user", r.db.WithContext(ctx).Omit(clause.Associations).Create(user).Error, "email", user.Email)
}

func (r *userRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	var user domain.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, dbError("get user", err, "id", id)
	}
	return &user, nil
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, dbError("get user by email", err, "email", email)
	}
	return &user, nil
}

func (r *userRepo) List(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	if err := r.db.WithContext(ctx).Order("id").Find(&users).Error; err != nil {
		return nil, dbError("list users", err)
	}
	return users, nil
}

func (r *userRepo) Update(ctx context.Context, user *domain.User) error {
	return updateAll(ctx, r.db, "update user", user, user.ID)
}

func (r *userRepo) Delete(ctx context.Context, id int64) error {
	return affected("delete user", r.db.WithContext(ctx).Delete(&domain.User{}, id), "id", id)
}

type measurementRepo struct {
	db *gorm.DB
}

func (r *measurementRepo) Create(ctx context.Context, m *domain.BodyMeasurement) error {
	return dbError("create measurement", r.db.WithContext(ctx).Omit(clause.Associations).Create(m).Error, "user_id", m.UserID)
}

func (r *measurementRepo) GetByID(ctx context.Context, id int64) (*domain.BodyMeasurement, error) {
	var m domain.BodyMeasurement
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, dbError("get measurement", err, "id", id)
	}
	return &m, nil
}

func (r *measurementRepo) List(ctx context.Context, userID *int64) ([]domain.BodyMeasurement, error) {
	var ms []domain.BodyMeasurement
	q := r.db.WithContext(ctx).Order("date DESC").Order("id DESC")
	if userID != nil {
		q = q.Where("user_id = ?", *userID)
	}
	if err := q.Find(&ms).Error; err != nil {
		return nil, dbError("list measurements", err)
	}
	return ms, nil
}

func (r *measurementRepo) Update(ctx context.Context, m *domain.BodyMeasurement) error {
	return updateAll(ctx, r.db, "update measurement", m, m.ID)
}

func (r *measurementRepo) Delete(ctx context.Context, id int64) error {
	return affected("delete measurement", r.db.WithContext(ctx).Delete(&domain.BodyMeasurement{}, id), "id", id)
}
