package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "http://127.0.0.1:8000", c.APIBaseURL)
	assert.Equal(t, "isoko.db", c.DBPath)
	assert.Equal(t, 60*time.Second, c.SessionCheckInterval)
	assert.Zero(t, c.RequestTimeout)
	assert.False(t, c.RefreshOnExpiry)
	assert.False(t, c.Ephemeral)
	assert.Equal(t, "download", c.DownloadDir)
	assert.Equal(t, "warn", c.LogLevel)
}

func TestLoadConfig_UsesDefaultsBeforeParsing(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"testbin"}

	cfg := LoadConfig()

	require.NotNil(t, cfg, "LoadConfig must not return nil")
	assert.Equal(t, "http://127.0.0.1:8000", cfg.APIBaseURL)
	assert.Equal(t, 60*time.Second, cfg.SessionCheckInterval)
}

func TestLoadConfig_Precedence(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	t.Setenv(EnvAPIBaseURL, "http://env:8000")
	t.Setenv(EnvDBPath, "env.db")
	t.Setenv(EnvLogLevel, "info")

	path := writeTempFile(t, "cfg.json", `{"db_path":"file.db","log_level":"debug"}`)
	os.Args = []string{"testbin", "-c", path, "-l", "error"}

	cfg := LoadConfig()

	assert.Equal(t, "http://env:8000", cfg.APIBaseURL)
	assert.Equal(t, "file.db", cfg.DBPath)
	assert.Equal(t, "error", cfg.LogLevel)
}
