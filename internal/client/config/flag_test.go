package config

import (
	"flag"
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	tests := []struct {
		expected    *Config
		name        string
		args        []string
		expectPanic bool
	}{
		{name: "all flags", args: []string{"cmd", "-a", "http://api:9000", "-d", "x.db", "-i", "10", "-t", "5", "-r", "-o", "out", "-l", "debug", "-ephemeral"},
			expected: &Config{APIBaseURL: "http://api:9000", DBPath: "x.db", SessionCheckInterval: 10 * time.Second, RequestTimeout: 5 * time.Second,
				RefreshOnExpiry: true, Ephemeral: true, DownloadDir: "out", LogLevel: "debug"}},
		{name: "unknown flags are ignored", args: []string{"cmd", "-c", "cfg.json", "-zzz", "-a", "http://api:9000"},
			expected: &Config{APIBaseURL: "http://api:9000"}},
		{name: "zero disables watcher", args: []string{"cmd", "-i", "0"}, expected: &Config{}},
		{name: "incorrect check interval", args: []string{"cmd", "-i", "abc"}, expectPanic: true},
		{name: "incorrect timeout", args: []string{"cmd", "-t", "1m"}, expectPanic: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.PanicOnError)

			os.Args = tt.args

			config := &Config{}

			if !tt.expectPanic {
				require.NotPanics(t, func() { parseFlags(config) })
				assert.Empty(t, cmp.Diff(config, tt.expected))
			} else {
				require.Panics(t, func() { parseFlags(config) })
			}
		})
	}
}

func TestParseFlags_KeepsUnsetIntervals(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"cmd", "-l", "info"}

	cfg := &Config{SessionCheckInterval: 1500 * time.Millisecond}
	parseFlags(cfg)

	assert.Equal(t, 1500*time.Millisecond, cfg.SessionCheckInterval)
	assert.Equal(t, "info", cfg.LogLevel)
}
