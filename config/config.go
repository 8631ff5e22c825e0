// Package config loads application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Environment represents the application environment.
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvProduction  Environment = "production"
)

// StorageDriver selects the persistence backend.
type StorageDriver string

const (
	DriverMemory   StorageDriver = "memory"
	DriverSQLite   StorageDriver = "sqlite"
	DriverRedis    StorageDriver = "redis"
	DriverPostgres StorageDriver = "postgres"
)

// Config holds all application configuration.
type Config struct {
	// Application
	App AppConfig

	// Backend API
	Backend BackendConfig

	// Storage
	Storage StorageConfig

	// Schedule grid dimensions
	Schedule ScheduleConfig

	// Observability
	Observability ObservabilityConfig
}

// AppConfig holds general application settings.
type AppConfig struct {
	Name        string
	Environment Environment
	Debug       bool
	Version     string
}

// BackendConfig holds UTEQ schedule backend settings.
type BackendConfig struct {
	// BaseURL selects the backend host; the only backend setting the
	// engine recognizes.
	BaseURL string

	// RequestTimeout is the HTTP transport timeout.
	RequestTimeout time.Duration
}

// StorageConfig holds persistence settings.
type StorageConfig struct {
	// Driver selects the backend: memory, sqlite, redis, postgres.
	Driver StorageDriver

	// SQLitePath is the database file location for the sqlite driver.
	SQLitePath string

	// Redis settings (redis driver).
	RedisHost     string
	RedisPort     int
	RedisPassword string
	RedisDB       int

	// Postgres settings (postgres driver).
	PostgresHost     string
	PostgresPort     int
	PostgresDatabase string
	PostgresUser     string
	PostgresPassword string
	PostgresSSLMode  string
}

// ScheduleConfig holds the valid day/hour sets for the slot codec.
type ScheduleConfig struct {
	// Days are the recognized 3-letter day abbreviations, in
	// presentation order.
	Days []string

	// Hours are the recognized class hours, in presentation order.
	Hours []int
}

// ObservabilityConfig holds logging settings.
type ObservabilityConfig struct {
	LogLevel string
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	env := Environment(getEnv("APP_ENV", string(EnvDevelopment)))

	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "uteq-schedule-hub"),
			Environment: env,
			Debug:       env == EnvDevelopment || getEnvBool("APP_DEBUG", false),
			Version:     getEnv("APP_VERSION", "0.1.0"),
		},
		Backend: BackendConfig{
			BaseURL:        getEnv("BACKEND_BASE_URL", "http://localhost:3000"),
			RequestTimeout: getEnvDuration("BACKEND_TIMEOUT", 30*time.Second),
		},
		Storage: StorageConfig{
			Driver:           StorageDriver(getEnv("STORAGE_DRIVER", string(DriverSQLite))),
			SQLitePath:       getEnv("SQLITE_PATH", "horarios.db"),
			RedisHost:        getEnv("REDIS_HOST", "localhost"),
			RedisPort:        getEnvInt("REDIS_PORT", 6379),
			RedisPassword:    getEnv("REDIS_PASSWORD", ""),
			RedisDB:          getEnvInt("REDIS_DB", 0),
			PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
			PostgresPort:     getEnvInt("POSTGRES_PORT", 5432),
			PostgresDatabase: getEnv("POSTGRES_DB", "uteq_hub"),
			PostgresUser:     getEnv("POSTGRES_USER", "postgres"),
			PostgresPassword: getEnv("POSTGRES_PASSWORD", ""),
			PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
		},
		Schedule: ScheduleConfig{
			Days:  getEnvStringSlice("SCHEDULE_DAYS", []string{"Lun", "Mar", "Mie", "Jue", "Vie"}),
			Hours: getEnvIntSlice("SCHEDULE_HOURS", []int{17, 18, 19, 20, 21}),
		},
		Observability: ObservabilityConfig{
			LogLevel: getEnv("LOG_LEVEL", "info"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	var errs []string

	if c.Backend.BaseURL == "" {
		errs = append(errs, "BACKEND_BASE_URL is required")
	}

	switch c.Storage.Driver {
	case DriverMemory, DriverSQLite, DriverRedis, DriverPostgres:
	default:
		errs = append(errs, fmt.Sprintf("STORAGE_DRIVER %q is not one of memory, sqlite, redis, postgres", c.Storage.Driver))
	}
	if c.Storage.Driver == DriverSQLite && c.Storage.SQLitePath == "" {
		errs = append(errs, "SQLITE_PATH is required for the sqlite driver")
	}

	if len(c.Schedule.Days) == 0 {
		errs = append(errs, "SCHEDULE_DAYS must not be empty")
	}
	for _, d := range c.Schedule.Days {
		if len(d) != 3 {
			errs = append(errs, fmt.Sprintf("SCHEDULE_DAYS entry %q must be a 3-letter abbreviation", d))
		}
	}
	if len(c.Schedule.Hours) == 0 {
		errs = append(errs, "SCHEDULE_HOURS must not be empty")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == EnvDevelopment
}

// --- Helper functions for environment variable parsing ---

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return defaultVal
	}
	return b
}

func getEnvInt(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return defaultVal
	}
	return d
}

func getEnvStringSlice(key string, defaultVal []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	parts := strings.Split(val, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			result = append(result, p)
		}
	}
	if len(result) == 0 {
		return defaultVal
	}
	return result
}

func getEnvIntSlice(key string, defaultVal []int) []int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	parts := strings.Split(val, ",")
	result := make([]int, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		i, err := strconv.Atoi(p)
		if err != nil {
			continue
		}
		result = append(result, i)
	}
	if len(result) == 0 {
		return defaultVal
	}
	return result
}
