package config

import (
	"flag"
	"os"
	"time"

	"github.com/isokodocs/isoko/internal/flagx"
)

// ownFlags lists the flags parseFlags understands; the bool maps to
// "takes a value".
var ownFlags = flagx.Allowed{
	"-a":         true,
	"-d":         true,
	"-i":         true,
	"-t":         true,
	"-r":         false,
	"-o":         true,
	"-l":         true,
	"-ephemeral": false,
}

// parseFlags populates Config fields from command-line flags.
//
// Note: the function filters os.Args to only include the flags it knows
// about, using flagx.FilterArgs, so -c/-config and anything else on the
// command line does not interfere.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], ownFlags)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.APIBaseURL, "a", cfg.APIBaseURL, "base URL of the REST API")
	fs.StringVar(&cfg.DBPath, "d", cfg.DBPath, "path of the session database")
	checkInterval := fs.Int("i", int(cfg.SessionCheckInterval.Seconds()), "session check interval (in seconds, 0 disables)")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds, 0 means none)")
	fs.BoolVar(&cfg.RefreshOnExpiry, "r", cfg.RefreshOnExpiry, "renew an expired access token with the refresh token")
	fs.StringVar(&cfg.DownloadDir, "o", cfg.DownloadDir, "download directory")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level (debug, info, warn, error)")
	fs.BoolVar(&cfg.Ephemeral, "ephemeral", cfg.Ephemeral, "keep the session in memory only")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	// Only explicit flags replace intervals, so sub-second values from a
	// config file survive.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "i":
			cfg.SessionCheckInterval = time.Duration(*checkInterval) * time.Second
		case "t":
			cfg.RequestTimeout = time.Duration(*timeout) * time.Second
		}
	})
}
