package config

import "time"

// Config holds runtime settings for the isoko CLI.
//
// Units: SessionCheckInterval and RequestTimeout are time.Duration values;
// zero disables the watcher and the per-request timeout respectively.
type Config struct {
	APIBaseURL           string
	DBPath               string
	SessionCheckInterval time.Duration
	RequestTimeout       time.Duration
	RefreshOnExpiry      bool
	Ephemeral            bool
	DownloadDir          string
	LogLevel             string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://127.0.0.1:8000"
	c.DBPath = "isoko.db"
	c.SessionCheckInterval = 60 * time.Second
	c.RequestTimeout = 0
	c.RefreshOnExpiry = false
	c.Ephemeral = false
	c.DownloadDir = "download"
	c.LogLevel = "warn"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// the environment (and a .env file), a config file and command-line flags.
// Later sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg, ".env")
	parseFile(cfg)
	parseFlags(cfg)
	return cfg
}
