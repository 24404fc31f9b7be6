package sqlstore

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"alcyxob/workout-tracker/internal/config"
	"alcyxob/workout-tracker/internal/repository"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects to the configured database. Postgres is the production
// store; sqlite serves local runs and tests.
func Open(cfg config.DatabaseConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "postgres":
		dialector = postgres.Open(cfg.DSNString())
	case "sqlite":
		dialector = sqlite.Open(cfg.DSNString())
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         newGormLogger(cfg.LogLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", cfg.Driver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	return db, nil
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func newGormLogger(level string) logger.Interface {
	var lvl logger.LogLevel
	switch strings.ToLower(level) {
	case "silent":
		lvl = logger.Silent
	case "error":
		lvl = logger.Error
	case "info":
		lvl = logger.Info
	default:
		lvl = logger.Warn
	}
	return logger.New(
		slog.NewLogLogger(slog.Default().Handler(), slog.LevelWarn),
		logger.Config{
			SlowThreshold:             500 * time.Millisecond,
			LogLevel:                  lvl,
			IgnoreRecordNotFoundError: true,
		},
	)
}

// dbError maps gorm errors onto repository errors, logging anything that is
// not an expected lookup miss or key collision.
func dbError(op string, err error, args ...any) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return repository.ErrNotFound
	case isDuplicate(err):
		return fmt.Errorf("%w: %s: %v", repository.ErrDuplicate, op, err)
	}
	slog.Error("sql error "+op, append(args, "error", err)...)
	return fmt.Errorf("%s: %w", op, err)
}

func isDuplicate(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	// Drivers without error translation still report the constraint by name.
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "duplicate key value")
}

// affected turns a zero-row write into ErrNotFound.
func affected(op string, result *gorm.DB, args ...any) error {
	if result.Error != nil {
		return dbError(op, result.Error, args...)
	}
	if result.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}
