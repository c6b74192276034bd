package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Environment variables read by parseEnv.
const (
	EnvAPIBaseURL           = "ISOKO_API_BASE_URL"
	EnvDBPath               = "ISOKO_DB_PATH"
	EnvSessionCheckInterval = "ISOKO_SESSION_CHECK_INTERVAL"
	EnvRequestTimeout       = "ISOKO_REQUEST_TIMEOUT"
	EnvRefreshOnExpiry      = "ISOKO_REFRESH_ON_EXPIRY"
	EnvEphemeral            = "ISOKO_EPHEMERAL"
	EnvDownloadDir          = "ISOKO_DOWNLOAD_DIR"
	EnvLogLevel             = "ISOKO_LOG_LEVEL"
)

// parseEnv overlays Config with ISOKO_* environment variables. When dotenv
// names an existing file it is loaded first; variables already present in
// the environment win over the file. Malformed values panic, like the other
// config stages.
func parseEnv(cfg *Config, dotenv string) {
	if dotenv != "" {
		if err := godotenv.Load(dotenv); err != nil && !errors.Is(err, fs.ErrNotExist) {
			panic(err)
		}
	}

	if v, ok := os.LookupEnv(EnvAPIBaseURL); ok && v != "" {
		cfg.APIBaseURL = v
	}
	if v, ok := os.LookupEnv(EnvDBPath); ok && v != "" {
		cfg.DBPath = v
	}
	if v, ok := os.LookupEnv(EnvSessionCheckInterval); ok && v != "" {
		cfg.SessionCheckInterval = mustDuration(EnvSessionCheckInterval, v)
	}
	if v, ok := os.LookupEnv(EnvRequestTimeout); ok && v != "" {
		cfg.RequestTimeout = mustDuration(EnvRequestTimeout, v)
	}
	if v, ok := os.LookupEnv(EnvRefreshOnExpiry); ok && v != "" {
		cfg.RefreshOnExpiry = mustBool(EnvRefreshOnExpiry, v)
	}
	if v, ok := os.LookupEnv(EnvEphemeral); ok && v != "" {
		cfg.Ephemeral = mustBool(EnvEphemeral, v)
	}
	if v, ok := os.LookupEnv(EnvDownloadDir); ok && v != "" {
		cfg.DownloadDir = v
	}
	if v, ok := os.LookupEnv(EnvLogLevel); ok && v != "" {
		cfg.LogLevel = v
	}
}

// mustDuration accepts a Go duration ("45s") or a plain number of seconds.
func mustDuration(name, v string) time.Duration {
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		panic(name + ": " + err.Error())
	}
	return d
}

func mustBool(name, v string) bool {
	b, err := strconv.ParseBool(v)
	if err != nil {
		panic(name + ": " + err.Error())
	}
	return b
}
