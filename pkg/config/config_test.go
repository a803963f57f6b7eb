package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_ValoresPorDefecto(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "scims-analytics", cfg.App.Name)
	assert.Equal(t, "UTC", cfg.Reports.Timezone)
	assert.Equal(t, 10, cfg.Reports.DefaultTopN)
	assert.Equal(t, 100, cfg.Reports.MaxTopN)
	assert.False(t, cfg.Reports.AllowPartial)
	assert.Equal(t, time.Minute, cfg.Reports.CacheTTL)
	assert.False(t, cfg.Redis.Enabled())
}

func TestLoad_VariablesDeEntorno(t *testing.T) {
	t.Setenv("REPORTS_TIMEZONE", "America/Bogota")
	t.Setenv("REPORTS_DEFAULT_TOP_N", "5")
	t.Setenv("REPORTS_ALLOW_PARTIAL", "true")
	t.Setenv("REPORTS_CACHE_TTL_SECONDS", "0")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("HTTP_PORT", "9090")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "America/Bogota", cfg.Reports.Timezone)
	assert.Equal(t, 5, cfg.Reports.DefaultTopN)
	assert.True(t, cfg.Reports.AllowPartial)
	assert.Zero(t, cfg.Reports.CacheTTL)
	assert.True(t, cfg.Redis.Enabled())
	assert.Equal(t, "0.0.0.0:9090", cfg.HTTP.Addr())
}

func TestLoad_ValoresInvalidos(t *testing.T) {
	t.Setenv("REPORTS_TIMEZONE", "Marte/Olympus")
	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_MaxTopNMenorQueDefault(t *testing.T) {
	t.Setenv("REPORTS_DEFAULT_TOP_N", "20")
	t.Setenv("REPORTS_MAX_TOP_N", "5")
	_, err := Load()
	assert.Error(t, err)
}

func TestDBConfig_DSN(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss:word", DBName: "scims", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%3Aword@db:5432/scims?sslmode=disable", c.DSN())

	c.DatabaseURL = "postgres://x"
	assert.Equal(t, "postgres://x", c.ConnectionString())
}
