// Package config loads runtime configuration for the isoko CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Environment variables prefixed ISOKO_, optionally seeded from a .env
//     file in the working directory (see parseEnv).
//  3. Optional config file selected via -c or -config (see parseFile). Files
//     ending in .yaml or .yml are read as YAML, anything else as JSON.
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the REST API
//	-d string   path of the SQLite session database
//	-i int      session check interval (seconds, 0 disables)
//	-t int      request timeout (seconds, 0 means none)
//	-r          renew an expired access token once using the refresh token
//	-o string   directory downloads are written to
//	-l string   log level (debug, info, warn, error)
//	-ephemeral  keep the session in memory only
//
// # File schema
//
// Intervals use timex.Duration, so values can be strings like "30s" or
// integer nanoseconds:
//
//	{
//	  "api_base_url": "https://docs.example.org",
//	  "db_path": "isoko.db",
//	  "session_check_interval": "1m",
//	  "request_timeout": "15s",
//	  "refresh_on_expiry": true,
//	  "download_dir": "download",
//	  "log_level": "info"
//	}
package config
