package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLoad_Defaults verifies that default values are used when env vars are missing.
func TestLoad_Defaults(t *testing.T) {
	os.Unsetenv("APP_ENV")
	os.Unsetenv("LOG_LEVEL")
	os.Unsetenv("SERVER_PORT")
	os.Unsetenv("REDIS_URL")
	os.Unsetenv("DEFAULT_CURRENCY")
	t.Setenv("CHANNEL_API_URL", "https://channels.test")

	cfg, err := Load(".")
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, "redis://localhost:6379/0", cfg.Cache.RedisURL)
	assert.Equal(t, 5*time.Minute, cfg.Cache.ChannelCacheTTL())
	assert.Equal(t, 10*time.Second, cfg.ChannelAPI.RequestTimeout())
	assert.Equal(t, "CNY", cfg.Rating.DefaultCurrency)
	assert.Equal(t, 6000.0, cfg.Rating.DefaultVolRatio)
	assert.Equal(t, 64, cfg.Rating.MaxExpressionDepth)
	assert.Equal(t, 8, cfg.Rating.Workers)
}

// TestLoad_EnvVars verifies that environment variables override defaults.
func TestLoad_EnvVars(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("CHANNEL_API_URL", "https://example.com")
	t.Setenv("CHANNEL_API_TOKEN", "secret")
	t.Setenv("DEFAULT_CURRENCY", "USD")
	t.Setenv("DEFAULT_VOL_RATIO", "5000")
	t.Setenv("RATING_WORKERS", "2")

	cfg, err := Load(".")
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 9090, cfg.ServerPort)
	assert.Equal(t, "https://example.com", cfg.ChannelAPI.URL)
	assert.Equal(t, "secret", cfg.ChannelAPI.Token)
	assert.Equal(t, "USD", cfg.Rating.DefaultCurrency)
	assert.Equal(t, 5000.0, cfg.Rating.DefaultVolRatio)
	assert.Equal(t, 2, cfg.Rating.Workers)
}

// TestLoad_File verifies that values are loaded from a .env file.
func TestLoad_File(t *testing.T) {
	content := []byte(`
APP_ENV=staging
LOG_LEVEL=warn
SERVER_PORT=7070
CHANNEL_API_URL=https://staging.example.com
CHANNEL_CACHE_TTL=0
`)
	err := os.WriteFile(".env", content, 0644)
	require.NoError(t, err)
	defer os.Remove(".env")

	cfg, err := Load(".")
	require.NoError(t, err)

	assert.Equal(t, "staging", cfg.Environment)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, 7070, cfg.ServerPort)
	assert.Equal(t, "https://staging.example.com", cfg.ChannelAPI.URL)
	assert.Equal(t, time.Duration(0), cfg.Cache.ChannelCacheTTL())
}

// TestLoad_ValidationFailure verifies that missing required fields return an error.
func TestLoad_ValidationFailure(t *testing.T) {
	os.Unsetenv("CHANNEL_API_URL")

	cfg, err := Load(".")
	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "missing required configuration: CHANNEL_API_URL")
}
