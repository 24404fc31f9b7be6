package sqlstore

import (
	"log/slog"

	"alcyxob/workout-tracker/internal/domain"

	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"
)

// models lists every table in dependency order.
func models() []interface{} {
	return []interface{}{
		&domain.User{},
		&domain.BodyMeasurement{},
		&domain.Muscle{},
		&domain.Exercise{},
		&domain.ExerciseMuscle{},
		&domain.Workout{},
		&domain.WorkoutExercise{},
		&domain.WorkoutSet{},
		&domain.Routine{},
		&domain.RoutineDay{},
		&domain.RoutineExercise{},
	}
}

func migrations() []*gormigrate.Migration {
	return []*gormigrate.Migration{
		{
			ID: "0001_initial_schema",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(models()...)
			},
			Rollback: func(tx *gorm.DB) error {
				all := models()
				for i := len(all) - 1; i >= 0; i-- {
					if err := tx.Migrator().DropTable(all[i]); err != nil {
						return err
					}
				}
				return nil
			},
		},
		{
			// Lookups by (user, date) back both the import dedupe and the workout list.
			ID: "0002_workout_user_date_index",
			Migrate: func(tx *gorm.DB) error {
				return tx.Exec("CREATE INDEX IF NOT EXISTS idx_workouts_user_date ON workouts (user_id, date)").Error
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Exec("DROP INDEX IF EXISTS idx_workouts_user_date").Error
			},
		},
	}
}

// Migrate brings the schema up to date. A clean database is initialised
// directly from the models.
func Migrate(db *gorm.DB) error {
	m := gormigrate.New(db, gormigrate.DefaultOptions, migrations())
	m.InitSchema(func(tx *gorm.DB) error {
		slog.Info("clean database detected, running full schema initialization")
		if err := tx.AutoMigrate(models()...); err != nil {
			return err
		}
		return tx.Exec("CREATE INDEX IF NOT EXISTS idx_workouts_user_date ON workouts (user_id, date)").Error
	})
	return m.Migrate()
}

// RollbackLast reverts the most recent migration.
func RollbackLast(db *gorm.DB) error {
	return gormigrate.New(db, gormigrate.DefaultOptions, migrations()).RollbackLast()
}
