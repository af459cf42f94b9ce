package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func unsetEnv(t *testing.T, key string) {
	t.Helper()
	if old, ok := os.LookupEnv(key); ok {
		t.Cleanup(func() { os.Setenv(key, old) })
	}
	os.Unsetenv(key)
}

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "DATABASE_URL", "COUNTRIES_API_URL", "RATES_API_URL", "UPSTREAM_TIMEOUT",
		"CACHE_DIR", "REFRESH_SCHEDULE", "AUTO_MIGRATE", "LOG_LEVEL", "LOG_FORMAT",
	} {
		unsetEnv(t, key)
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "7000", cfg.Port)
	assert.Equal(t, DefaultCountriesAPIURL, cfg.CountriesAPIURL)
	assert.Equal(t, DefaultRatesAPIURL, cfg.RatesAPIURL)
	assert.Equal(t, 10*time.Second, cfg.UpstreamTimeout)
	assert.Equal(t, "cache", cfg.CacheDir)
	assert.Empty(t, cfg.RefreshSchedule)
	assert.True(t, cfg.AutoMigrate)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("RATES_API_URL", "http://localhost:1234/rates")
	t.Setenv("UPSTREAM_TIMEOUT", "3s")
	t.Setenv("REFRESH_SCHEDULE", "@every 1h")
	t.Setenv("AUTO_MIGRATE", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "http://localhost:1234/rates", cfg.RatesAPIURL)
	assert.Equal(t, 3*time.Second, cfg.UpstreamTimeout)
	assert.Equal(t, "@every 1h", cfg.RefreshSchedule)
	assert.False(t, cfg.AutoMigrate)
}

func TestLoad_InvalidTimeout(t *testing.T) {
	t.Setenv("UPSTREAM_TIMEOUT", "not-a-duration")

	_, err := Load()
	assert.Error(t, err)
}
