package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnv(t *testing.T) {
	t.Setenv(EnvAPIBaseURL, "http://env:8000")
	t.Setenv(EnvSessionCheckInterval, "30")
	t.Setenv(EnvRequestTimeout, "1500ms")
	t.Setenv(EnvRefreshOnExpiry, "true")

	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg, filepath.Join(t.TempDir(), "absent.env"))

	assert.Equal(t, "http://env:8000", cfg.APIBaseURL)
	assert.Equal(t, 30*time.Second, cfg.SessionCheckInterval)
	assert.Equal(t, 1500*time.Millisecond, cfg.RequestTimeout)
	assert.True(t, cfg.RefreshOnExpiry)
	assert.Equal(t, "isoko.db", cfg.DBPath)
}

func TestParseEnv_DotenvDoesNotOverrideEnvironment(t *testing.T) {
	t.Setenv(EnvLogLevel, "error")
	// Registered with t.Setenv so the value loaded from the file is undone
	// afterwards.
	t.Setenv(EnvDownloadDir, "")
	require.NoError(t, os.Unsetenv(EnvDownloadDir))

	path := writeTempFile(t, ".env", "ISOKO_LOG_LEVEL=debug\nISOKO_DOWNLOAD_DIR=from-dotenv\n")

	cfg := &Config{}
	parseEnv(cfg, path)

	assert.Equal(t, "error", cfg.LogLevel)
	assert.Equal(t, "from-dotenv", cfg.DownloadDir)
}

func TestParseEnv_Malformed(t *testing.T) {
	t.Setenv(EnvRefreshOnExpiry, "sometimes")

	require.Panics(t, func() { parseEnv(&Config{}, "") })
}
