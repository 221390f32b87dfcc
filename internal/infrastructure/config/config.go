package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// ErrDatabaseNotConfigured is returned by RequireDatabase when DB_PASSWORD is unset
var ErrDatabaseNotConfigured = errors.New("DB_PASSWORD is required (set via environment variable or .env file)")

// Config represents the application configuration
type Config struct {
	Database DatabaseConfig
	Log      LogConfig
	Export   ExportConfig
	Cache    CacheConfig
	Metrics  MetricsConfig
}

// MetricsConfig represents metrics output configuration
type MetricsConfig struct {
	Textfile string // Path of the Prometheus textfile written after each run; empty disables it
}

// LogConfig represents logging configuration
type LogConfig struct {
	Level  string // trace, debug, info, warn, error
	Format string // console or json
}

// ExportConfig represents schema export defaults
type ExportConfig struct {
	Format string // json, yaml or outline
}

// CacheConfig represents revision cache configuration
type CacheConfig struct {
	MaxEntries int // Maximum number of cached revisions
	TTLMinutes int // Time-to-live for cache entries in minutes
}

// TTL returns the cache time-to-live as a duration
func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLMinutes) * time.Minute
}

// DatabaseConfig represents database configuration
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

// findProjectRoot finds the project root directory by looking for go.mod
func findProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	// Walk up the directory tree until we find go.mod
	for {
		goModPath := filepath.Join(dir, "go.mod")
		if _, err := os.Stat(goModPath); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("go.mod not found in any parent directory")
		}
		dir = parent
	}
}

// ProjectRoot returns the directory holding go.mod, searching upwards from the working directory
func ProjectRoot() (string, error) {
	return findProjectRoot()
}

// InitConfig initializes viper configuration
// env: environment name (dev, test, prod)
func InitConfig(env string) error {
	if env == "" {
		env = "dev"
	}

	viper.SetConfigName(fmt.Sprintf(".env.%s", env))
	viper.SetConfigType("env")

	// The binary may run outside the source tree; the .env file is optional there
	if projectRoot, err := findProjectRoot(); err == nil {
		viper.AddConfigPath(projectRoot)
	}
	viper.AddConfigPath(".")

	// Read config file (optional, ignore error if not found)
	_ = viper.ReadInConfig()

	// Environment variables take precedence over config file
	viper.AutomaticEnv()

	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", 15432)
	viper.SetDefault("DB_USER", "troschema")
	viper.SetDefault("DB_NAME", "troschema_dev")
	viper.SetDefault("DB_SSLMODE", "disable")

	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_FORMAT", "console")

	viper.SetDefault("EXPORT_FORMAT", "json")

	viper.SetDefault("CACHE_MAX_ENTRIES", 128)
	viper.SetDefault("CACHE_TTL_MINUTES", 5)

	viper.SetDefault("METRICS_TEXTFILE", "")

	return nil
}

// Load loads configuration from viper
func Load() (*Config, error) {
	config := &Config{
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetInt("DB_PORT"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			Database: viper.GetString("DB_NAME"),
			SSLMode:  viper.GetString("DB_SSLMODE"),
		},
		Log: LogConfig{
			Level:  viper.GetString("LOG_LEVEL"),
			Format: viper.GetString("LOG_FORMAT"),
		},
		Export: ExportConfig{
			Format: viper.GetString("EXPORT_FORMAT"),
		},
		Cache: CacheConfig{
			MaxEntries: viper.GetInt("CACHE_MAX_ENTRIES"),
			TTLMinutes: viper.GetInt("CACHE_TTL_MINUTES"),
		},
		Metrics: MetricsConfig{
			Textfile: viper.GetString("METRICS_TEXTFILE"),
		},
	}

	if config.Cache.MaxEntries <= 0 {
		return nil, fmt.Errorf("CACHE_MAX_ENTRIES must be positive, got %d", config.Cache.MaxEntries)
	}

	return config, nil
}

// RequireDatabase reports whether the registry database is configured.
// Export and preview commands work without it.
func (c *Config) RequireDatabase() error {
	if c.Database.Password == "" {
		return ErrDatabaseNotConfigured
	}
	return nil
}

// ConnectionString returns PostgreSQL connection string
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host,
		c.Port,
		c.User,
		c.Password,
		c.Database,
		c.SSLMode,
	)
}
