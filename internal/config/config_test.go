package config

import (
	"flag"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadWithArgs(t *testing.T, args ...string) (*Config, error) {
	t.Helper()
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	// Point at a nonexistent .env so the real one is never picked up.
	args = append(args, "-env-file", "/nonexistent/.env")
	return LoadConfigFlagSet(fs, args)
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := loadWithArgs(t)
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Environment)
	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, 10*time.Second, cfg.API.Timeout)
	assert.Equal(t, time.Hour, cfg.Catalog.CacheMaxAge)
	assert.NotEmpty(t, cfg.Storage.DataDir)
}

func TestLoadConfig_FlagsTakePrecedenceOverEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "error")

	cfg, err := loadWithArgs(t, "-log-level", "debug")
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logger.Level)
}

func TestLoadConfig_EnvVars(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("API_BASE_URL", "https://example.com/api")
	t.Setenv("API_TIMEOUT", "30s")

	cfg, err := loadWithArgs(t)
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.App.Environment)
	assert.Equal(t, "https://example.com/api", cfg.API.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.API.Timeout)
}

func TestLoadConfig_InvalidEnvironment(t *testing.T) {
	_, err := loadWithArgs(t, "-env", "space")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid environment")
}

func TestLoadConfig_InvalidLogLevel(t *testing.T) {
	_, err := loadWithArgs(t, "-log-level", "loud")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level")
}

func TestLoadConfig_InvalidTimeout(t *testing.T) {
	_, err := loadWithArgs(t, "-api-timeout", "fast")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid api timeout")
}

func TestLoadConfig_InvalidBaseURL(t *testing.T) {
	_, err := loadWithArgs(t, "-api-base-url", "not a url")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid API base URL")
}

func TestLoadConfig_DataDirExpansion(t *testing.T) {
	tmp := t.TempDir()
	cfg, err := loadWithArgs(t, "-data-dir", tmp)
	require.NoError(t, err)
	assert.Equal(t, tmp, cfg.Storage.DataDir)
}
