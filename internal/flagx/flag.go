// Package flagx lets independent components parse only the command-line
// flags they own, ignoring everything else on the command line.
package flagx

import (
	"flag"
	"io"
	"os"
	"strings"
)

// Allowed maps a flag name (with its dashes, e.g. "-a" or "--config") to
// whether the flag takes a separate value argument. Boolean flags map to
// false so the token after them is never swallowed as a value.
type Allowed map[string]bool

// FilterArgs returns the subset of args made of allowed flags and their
// values, in the original order. Both "-f value" and "-f=value" forms are
// recognised. A token starting with "-" is never consumed as a value.
func FilterArgs(args []string, allowed Allowed) []string {
	filtered := make([]string, 0, len(args))

	for i := 0; i < len(args); i++ {
		arg := args[i]

		if name, _, ok := strings.Cut(arg, "="); ok && strings.HasPrefix(arg, "-") {
			if _, known := allowed[name]; known {
				filtered = append(filtered, arg)
			}
			continue
		}

		takesValue, known := allowed[arg]
		if !known {
			continue
		}
		filtered = append(filtered, arg)
		if takesValue && i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			filtered = append(filtered, args[i+1])
			i++
		}
	}

	return filtered
}

// ConfigFileFlag returns the config file path given with -c or -config, or
// "" when neither is present. When repeated, the last one wins.
func ConfigFileFlag() string {
	var path string

	args := FilterArgs(os.Args[1:], Allowed{"-c": true, "-config": true})

	fs := flag.NewFlagSet("config-file", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&path, "config", "", "path to config file")
	fs.StringVar(&path, "c", "", "path to config file (short)")
	_ = fs.Parse(args)

	return path
}
