package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Host)
	assert.Equal(t, 3010, cfg.Port)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "router-api", cfg.ServiceName)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, DefaultOdosAPIURL, cfg.OdosAPIURL)
	assert.Equal(t, 30*time.Second, cfg.ProviderTimeout)
	assert.Equal(t, 10*time.Second, cfg.CacheTTL)
	assert.False(t, cfg.CacheEnabled())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("APP_ENV", "production")
	t.Setenv("PROVIDER_TIMEOUT", "5s")
	t.Setenv("ODOS_API_URL", "http://localhost:9999/odos")
	t.Setenv("REDIS_HOST", "localhost")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, 5*time.Second, cfg.ProviderTimeout)
	assert.Equal(t, "http://localhost:9999/odos", cfg.OdosAPIURL)
	assert.True(t, cfg.CacheEnabled())
}

func TestLoadRejectsInvalidPort(t *testing.T) {
	t.Setenv("PORT", "70000")
	_, err := Load()
	assert.Error(t, err)
}

func TestLoadMalformedNumbersFallBack(t *testing.T) {
	t.Setenv("PORT", "not-a-port")
	t.Setenv("PROVIDER_TIMEOUT", "soon")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 3010, cfg.Port)
	assert.Equal(t, 30*time.Second, cfg.ProviderTimeout)
}
