package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "pmrs", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Environment)
	assert.Equal(t, "127.0.0.1:8080", cfg.Server.Address())
	assert.Equal(t, "patients.db", cfg.Database.Path)
	assert.Equal(t, 1, cfg.Database.MaxOpenConns)
	assert.Equal(t, 15*time.Minute, cfg.JWT.AccessTokenTTL)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.False(t, cfg.Tracing.Enabled)
	assert.Equal(t, 512, cfg.Report.ChartSizePx)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("DB_PATH", "records.db")
	t.Setenv("DB_BUSY_TIMEOUT", "2s")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("TRACING_ENABLED", "true")
	t.Setenv("RATE_LIMIT_RPS", "5.5")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "records.db", cfg.Database.Path)
	assert.Equal(t, 2*time.Second, cfg.Database.BusyTimeout)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.True(t, cfg.Tracing.Enabled)
	assert.Equal(t, 5.5, cfg.RateLimit.RequestsPerSecond)
}

func TestLoad_MalformedValuesFallBack(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("SERVER_PORT", "not-a-port")
	t.Setenv("DB_BUSY_TIMEOUT", "soon")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Database.BusyTimeout)
}

func TestLoad_RequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestLoad_ShortSecretRejectedInProduction(t *testing.T) {
	t.Setenv("JWT_SECRET", "short")
	t.Setenv("APP_ENV", "production")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "32 characters")
}

func TestLoad_RejectsBadChartSize(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("REPORT_CHART_SIZE_PX", "16")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "REPORT_CHART_SIZE_PX")
}

func TestDatabaseDSN(t *testing.T) {
	d := DatabaseConfig{Path: "patients.db", BusyTimeout: 5 * time.Second}
	assert.Equal(t,
		"file:patients.db?_busy_timeout=5000&_journal_mode=WAL&_foreign_keys=on",
		d.DSN(),
	)

	mem := DatabaseConfig{Path: ":memory:"}
	assert.Equal(t, "file::memory:?cache=shared", mem.DSN())
}
