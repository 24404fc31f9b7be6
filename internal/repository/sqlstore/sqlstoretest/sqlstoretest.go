// Package sqlstoretest opens throwaway sqlite stores for tests.
package sqlstoretest

import (
	"path/filepath"
	"testing"

	"alcyxob/workout-tracker/internal/config"
	"alcyxob/workout-tracker/internal/repository/sqlstore"
)

// NewStore returns a migrated store backed by a sqlite file in t's temp dir.
func NewStore(t *testing.T) *sqlstore.Store {
	t.Helper()

	db, err := sqlstore.Open(config.DatabaseConfig{
		Driver:   "sqlite",
		DSN:      filepath.Join(t.TempDir(), "test.db"),
		LogLevel: "silent",
	})
	if err != nil {
		t.Fatalf("error opening database: %v", err)
	}
	if err := sqlstore.Migrate(db); err != nil {
		t.Fatalf("error migrating database: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlstore.Close(db)
	})
	return sqlstore.NewStore(db)
}
