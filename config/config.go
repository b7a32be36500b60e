// Package config loads application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/vidya-hub/student-risk-hub/internal/domain/risk"
)

// Environment represents the application environment.
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvStaging     Environment = "staging"
	EnvProduction  Environment = "production"
)

// StoreBackend selects which record store implementation to use.
type StoreBackend string

const (
	// BackendMemory keeps records in process memory (lost on exit).
	BackendMemory StoreBackend = "memory"
	// BackendFile persists records in a JSON document on disk.
	BackendFile StoreBackend = "file"
	// BackendRedis persists records under Redis keys.
	BackendRedis StoreBackend = "redis"
	// BackendPostgres persists records in a PostgreSQL document table.
	BackendPostgres StoreBackend = "postgres"
)

// IsValid reports whether the backend is one of the known values.
func (b StoreBackend) IsValid() bool {
	switch b {
	case BackendMemory, BackendFile, BackendRedis, BackendPostgres:
		return true
	default:
		return false
	}
}

// Config holds all application configuration.
type Config struct {
	// Application
	App AppConfig

	// Record store
	Store StoreConfig

	// Risk model overrides
	Risk RiskConfig

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

// StoreConfig selects and configures the record store backend.
type StoreConfig struct {
	// Backend is one of memory, file, redis, postgres.
	Backend StoreBackend

	// FilePath is the JSON document location for the file backend.
	FilePath string

	// RedisURL is the redis:// connection URL for the redis backend.
	RedisURL string

	// RedisHost/RedisPort/RedisPassword/RedisDB are the individual redis
	// settings, used when RedisURL is empty.
	RedisHost     string
	RedisPort     int
	RedisPassword string
	RedisDB       int

	// PostgresURL is the postgres:// connection URL for the postgres backend.
	PostgresURL string

	// ConnectTimeout bounds backend connection attempts.
	ConnectTimeout time.Duration
}

// RiskConfig holds optional overrides for the scoring model defaults.
// When SaveDefaults is set, the loaded model is written to the store on
// startup so later invocations and exports carry it.
type RiskConfig struct {
	AttendanceWeight float64
	MarksWeight      float64
	FeesWeight       float64
	HighThreshold    float64
	MediumThreshold  float64
	SaveDefaults     bool
}

// Model returns the risk configuration assembled from defaults + overrides.
func (r RiskConfig) Model() risk.Config {
	return risk.Config{
		AttendanceWeight: r.AttendanceWeight,
		MarksWeight:      r.MarksWeight,
		FeesWeight:       r.FeesWeight,
		HighThreshold:    r.HighThreshold,
		MediumThreshold:  r.MediumThreshold,
	}
}

// ObservabilityConfig holds logging settings.
type ObservabilityConfig struct {
	// LogLevel is one of debug, info, warn, error.
	LogLevel string

	// LogCaller enables file:line caller annotations.
	LogCaller bool
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	env := Environment(getEnv("APP_ENV", "development"))
	defaults := risk.DefaultConfig()

	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "student-risk-hub"),
			Environment: env,
			Debug:       env == EnvDevelopment || getEnvBool("APP_DEBUG", false),
			Version:     getEnv("APP_VERSION", "0.1.0"),
		},
		Store: StoreConfig{
			Backend:        StoreBackend(strings.ToLower(getEnv("STORE_BACKEND", string(BackendFile)))),
			FilePath:       getEnv("STORE_FILE_PATH", "data/students.json"),
			RedisURL:       getEnv("REDIS_URL", ""),
			RedisHost:      getEnv("REDIS_HOST", "localhost"),
			RedisPort:      getEnvInt("REDIS_PORT", 6379),
			RedisPassword:  getEnv("REDIS_PASSWORD", ""),
			RedisDB:        getEnvInt("REDIS_DB", 0),
			PostgresURL:    getEnv("DATABASE_URL", ""),
			ConnectTimeout: getEnvDuration("STORE_CONNECT_TIMEOUT", 10*time.Second),
		},
		Risk: RiskConfig{
			AttendanceWeight: getEnvFloat("RISK_ATTENDANCE_WEIGHT", defaults.AttendanceWeight),
			MarksWeight:      getEnvFloat("RISK_MARKS_WEIGHT", defaults.MarksWeight),
			FeesWeight:       getEnvFloat("RISK_FEES_WEIGHT", defaults.FeesWeight),
			HighThreshold:    getEnvFloat("RISK_HIGH_THRESHOLD", defaults.HighThreshold),
			MediumThreshold:  getEnvFloat("RISK_MEDIUM_THRESHOLD", defaults.MediumThreshold),
			SaveDefaults:     getEnvBool("RISK_SAVE_DEFAULTS", false),
		},
		Observability: ObservabilityConfig{
			LogLevel:  getEnv("LOG_LEVEL", "info"),
			LogCaller: getEnvBool("LOG_CALLER", true),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

// Validate checks if the configuration is valid. Risk model warnings are not
// errors here; they surface through risk.Config.Validate at use sites.
func (c *Config) Validate() error {
	var errs []string

	if !c.Store.Backend.IsValid() {
		errs = append(errs, fmt.Sprintf("STORE_BACKEND must be one of memory, file, redis, postgres (got %q)", c.Store.Backend))
	}
	if c.Store.Backend == BackendFile && c.Store.FilePath == "" {
		errs = append(errs, "STORE_FILE_PATH is required for the file backend")
	}
	if c.Store.Backend == BackendPostgres && c.Store.PostgresURL == "" {
		errs = append(errs, "DATABASE_URL is required for the postgres backend")
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

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.App.Environment == EnvProduction
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

func getEnvFloat(key string, defaultVal float64) float64 {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return defaultVal
	}
	return f
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
