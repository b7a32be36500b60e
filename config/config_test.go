package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vidya-hub/student-risk-hub/internal/domain/risk"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "student-risk-hub", cfg.App.Name)
	assert.Equal(t, EnvDevelopment, cfg.App.Environment)
	assert.True(t, cfg.App.Debug)

	assert.Equal(t, BackendFile, cfg.Store.Backend)
	assert.Equal(t, "data/students.json", cfg.Store.FilePath)
	assert.Equal(t, 10*time.Second, cfg.Store.ConnectTimeout)

	assert.Equal(t, risk.DefaultConfig(), cfg.Risk.Model())
	assert.False(t, cfg.Risk.SaveDefaults)

	assert.Equal(t, "info", cfg.Observability.LogLevel)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("STORE_BACKEND", "MEMORY")
	t.Setenv("RISK_HIGH_THRESHOLD", "75")
	t.Setenv("RISK_MEDIUM_THRESHOLD", "40")
	t.Setenv("STORE_CONNECT_TIMEOUT", "3s")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, BackendMemory, cfg.Store.Backend, "backend is case-insensitive")
	assert.Equal(t, 75.0, cfg.Risk.Model().HighThreshold)
	assert.Equal(t, 40.0, cfg.Risk.Model().MediumThreshold)
	assert.Equal(t, 3*time.Second, cfg.Store.ConnectTimeout)
	assert.Equal(t, "debug", cfg.Observability.LogLevel)
}

func TestLoad_UnparsableOverridesFallBack(t *testing.T) {
	t.Setenv("RISK_FEES_WEIGHT", "not-a-number")
	t.Setenv("STORE_CONNECT_TIMEOUT", "soon")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, risk.DefaultConfig().FeesWeight, cfg.Risk.Model().FeesWeight)
	assert.Equal(t, 10*time.Second, cfg.Store.ConnectTimeout)
}

func TestLoad_InvalidBackend(t *testing.T) {
	t.Setenv("STORE_BACKEND", "sqlite")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "STORE_BACKEND")
}

func TestLoad_PostgresRequiresURL(t *testing.T) {
	t.Setenv("STORE_BACKEND", "postgres")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")

	t.Setenv("DATABASE_URL", "postgres://localhost:5432/riskhub")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, BackendPostgres, cfg.Store.Backend)
}
