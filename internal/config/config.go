package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// The values are read by Viper from a config file or environment variables.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	S3       S3Config       `mapstructure:"s3"`
	Workout  WorkoutConfig  `mapstructure:"workout"`
	Import   ImportConfig   `mapstructure:"import"`
	Backfill BackfillConfig `mapstructure:"backfill"`
	Log      LogConfig      `mapstructure:"log"`
}

type ServerConfig struct {
	Address         string        `mapstructure:"address"`
	Mode            string        `mapstructure:"mode"` // gin mode: debug, release or test
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Driver       string `mapstructure:"driver"` // "postgres" or "sqlite"
	DSN          string `mapstructure:"dsn"`    // used verbatim when set
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	User         string `mapstructure:"user"`
	Password     string `mapstructure:"password"`
	Name         string `mapstructure:"name"`
	SSLMode      string `mapstructure:"sslmode"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
	LogLevel     string `mapstructure:"log_level"` // gorm logger: silent, error, warn, info
}

// DSNString returns the connection string for the configured driver.
func (c DatabaseConfig) DSNString() string {
	if c.DSN != "" {
		return c.DSN
	}
	if c.Driver == "sqlite" {
		return c.Name
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}

type S3Config struct {
	Endpoint        string `mapstructure:"endpoint"`
	Region          string `mapstructure:"region"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	BucketName      string `mapstructure:"bucket_name"` // empty disables the S3 import source
	UseSSL          bool   `mapstructure:"use_ssl"`
}

// Enabled reports whether an S3 bucket has been configured.
func (c S3Config) Enabled() bool {
	return c.BucketName != ""
}

// WorkoutConfig controls derived workout behavior.
type WorkoutConfig struct {
	DefaultUserID int64 `mapstructure:"default_user_id"`
	// StaleAfter is how long a workout may stay open before the active-workout
	// lookup closes it.
	StaleAfter time.Duration `mapstructure:"stale_after"`
}

type ImportConfig struct {
	DefaultUserID  int64 `mapstructure:"default_user_id"`
	MaxUploadBytes int64 `mapstructure:"max_upload_bytes"`
}

// BackfillConfig holds the parameters of the sled and routine backfills.
type BackfillConfig struct {
	CutoffDate           string  `mapstructure:"cutoff_date"` // YYYY-MM-DD, exclusive
	SledPushName         string  `mapstructure:"sled_push_name"`
	SledPullName         string  `mapstructure:"sled_pull_name"`
	SledWeightKg         float64 `mapstructure:"sled_weight_kg"`
	SledDistanceM        float64 `mapstructure:"sled_distance_m"`
	SledReps             int     `mapstructure:"sled_reps"`
	RoutineSuggestedSets int     `mapstructure:"routine_suggested_sets"`
	RoutineSuggestedReps string  `mapstructure:"routine_suggested_reps"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // text or json
}

// LoadConfig reads configuration from file or environment variables.
// A .env file next to the config file is loaded into the environment first.
func LoadConfig(path string) (config Config, err error) {
	if err = godotenv.Load(filepath.Join(path, ".env")); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return config, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// server.address -> SERVER_ADDRESS
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(`.`, `_`))

	setDefaults(v)

	err = v.ReadInConfig()
	if _, ok := err.(viper.ConfigFileNotFoundError); ok {
		err = nil // env vars and defaults are enough
	} else if err != nil {
		return
	}

	if err = v.Unmarshal(&config); err != nil {
		return
	}
	return config, config.Validate()
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.read_timeout", "10s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("server.shutdown_timeout", "5s")

	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.dsn", "")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "")
	v.SetDefault("database.name", "workout_tracker")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.log_level", "warn")

	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.access_key_id", "")
	v.SetDefault("s3.secret_access_key", "")
	v.SetDefault("s3.bucket_name", "")
	v.SetDefault("s3.use_ssl", true)

	v.SetDefault("workout.default_user_id", 1)
	v.SetDefault("workout.stale_after", "24h")

	v.SetDefault("import.default_user_id", 1)
	v.SetDefault("import.max_upload_bytes", 10<<20)

	v.SetDefault("backfill.cutoff_date", "2025-12-01")
	v.SetDefault("backfill.sled_push_name", "Sled Push")
	v.SetDefault("backfill.sled_pull_name", "Sled Pull")
	v.SetDefault("backfill.sled_weight_kg", 133.81)
	v.SetDefault("backfill.sled_distance_m", 27.43)
	v.SetDefault("backfill.sled_reps", 1)
	v.SetDefault("backfill.routine_suggested_sets", 1)
	v.SetDefault("backfill.routine_suggested_reps", "30 yards")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// Validate checks the values that cannot be defaulted sensibly.
func (c Config) Validate() error {
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	if c.Workout.StaleAfter <= 0 {
		return fmt.Errorf("workout.stale_after must be positive, got %s", c.Workout.StaleAfter)
	}
	if _, err := time.Parse("2006-01-02", c.Backfill.CutoffDate); err != nil {
		return fmt.Errorf("backfill.cutoff_date: %w", err)
	}
	return nil
}
