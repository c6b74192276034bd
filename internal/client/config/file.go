package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/isokodocs/isoko/internal/flagx"
	"github.com/isokodocs/isoko/internal/timex"
)

// FileConfig is a DTO used exclusively for config file unmarshalling. Absent
// keys keep their zero value and leave the corresponding Config field alone.
type FileConfig struct {
	APIBaseURL           string          `json:"api_base_url" yaml:"api_base_url"`
	DBPath               string          `json:"db_path" yaml:"db_path"`
	SessionCheckInterval *timex.Duration `json:"session_check_interval" yaml:"session_check_interval"`
	RequestTimeout       *timex.Duration `json:"request_timeout" yaml:"request_timeout"`
	RefreshOnExpiry      *bool           `json:"refresh_on_expiry" yaml:"refresh_on_expiry"`
	Ephemeral            *bool           `json:"ephemeral" yaml:"ephemeral"`
	DownloadDir          string          `json:"download_dir" yaml:"download_dir"`
	LogLevel             string          `json:"log_level" yaml:"log_level"`
}

// parseFile overlays Config with values loaded from the file named by -c or
// -config. It panics on read or decode errors.
func parseFile(cfg *Config) {
	path := flagx.ConfigFileFlag()
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var fc FileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fc)
	default:
		err = json.Unmarshal(data, &fc)
	}
	if err != nil {
		panic(err)
	}

	fc.apply(cfg)
}

func (fc FileConfig) apply(cfg *Config) {
	if fc.APIBaseURL != "" {
		cfg.APIBaseURL = fc.APIBaseURL
	}
	if fc.DBPath != "" {
		cfg.DBPath = fc.DBPath
	}
	if fc.SessionCheckInterval != nil {
		cfg.SessionCheckInterval = fc.SessionCheckInterval.Duration
	}
	if fc.RequestTimeout != nil {
		cfg.RequestTimeout = fc.RequestTimeout.Duration
	}
	if fc.RefreshOnExpiry != nil {
		cfg.RefreshOnExpiry = *fc.RefreshOnExpiry
	}
	if fc.Ephemeral != nil {
		cfg.Ephemeral = *fc.Ephemeral
	}
	if fc.DownloadDir != "" {
		cfg.DownloadDir = fc.DownloadDir
	}
	if fc.LogLevel != "" {
		cfg.LogLevel = fc.LogLevel
	}
}
