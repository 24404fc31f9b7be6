package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, 24*time.Hour, cfg.Workout.StaleAfter)
	assert.Equal(t, int64(1), cfg.Workout.DefaultUserID)
	assert.Equal(t, "2025-12-01", cfg.Backfill.CutoffDate)
	assert.Equal(t, "30 yards", cfg.Backfill.RoutineSuggestedReps)
	assert.InDelta(t, 133.81, cfg.Backfill.SledWeightKg, 1e-9)
	assert.False(t, cfg.S3.Enabled())
}

func TestLoadConfigFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "config.yaml", `
server:
  address: ":9090"
database:
  driver: sqlite
  name: tracker.db
workout:
  stale_after: 12h
s3:
  bucket_name: exports
`)
	writeFile(t, dir, ".env", "LOG_LEVEL=debug\n")
	t.Setenv("SERVER_ADDRESS", ":7070")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, ":7070", cfg.Server.Address, "environment overrides the file")
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "tracker.db", cfg.Database.DSNString())
	assert.Equal(t, 12*time.Hour, cfg.Workout.StaleAfter)
	assert.Equal(t, "debug", cfg.Log.Level, ".env values reach viper")
	assert.True(t, cfg.S3.Enabled())
}

func TestLoadConfigRejectsUnknownDriver(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "config.yaml", "database:\n  driver: oracle\n")

	_, err := LoadConfig(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "oracle")
}

func TestDSNString(t *testing.T) {
	tests := []struct {
		name string
		cfg  DatabaseConfig
		want string
	}{
		{
			name: "explicit dsn wins",
			cfg:  DatabaseConfig{Driver: "postgres", DSN: "postgres://u@h/db", Host: "ignored"},
			want: "postgres://u@h/db",
		},
		{
			name: "postgres from parts",
			cfg:  DatabaseConfig{Driver: "postgres", Host: "db", Port: 5432, User: "u", Password: "p", Name: "w", SSLMode: "disable"},
			want: "host=db port=5432 user=u password=p dbname=w sslmode=disable",
		},
		{
			name: "sqlite uses name as path",
			cfg:  DatabaseConfig{Driver: "sqlite", Name: "local.db"},
			want: "local.db",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cfg.DSNString())
		})
	}
}
