// Package flagx lets a program peek at a few of its command-line flags
// before the full flag set is parsed.
package flagx

import (
	"flag"
	"io"
	"strings"
)

// FilterArgs keeps only the allowedFlags (and their values) from args.
//
// Both "-c conf.yaml" and "-config=conf.yaml" forms are recognised. A value
// is taken from the next argument only when it does not start with '-'.
func FilterArgs(args []string, allowedFlags []string) []string {
	allowed := make(map[string]struct{}, len(allowedFlags))
	for _, f := range allowedFlags {
		allowed[f] = struct{}{}
	}

	filtered := make([]string, 0, len(args))

	for i := 0; i < len(args); i++ {
		arg := args[i]

		if strings.HasPrefix(arg, "-") && strings.Contains(arg, "=") {
			name, _, _ := strings.Cut(arg, "=")
			if _, ok := allowed[name]; ok {
				filtered = append(filtered, arg)
			}
			continue
		}

		if _, ok := allowed[arg]; ok {
			filtered = append(filtered, arg)
			if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
				filtered = append(filtered, args[i+1])
				i++
			}
		}
	}

	return filtered
}

// ConfigFileFlag returns the path given with -c / -config in args (usually
// os.Args[1:]), or "" when neither is present. Other flags are ignored, so
// this can run before the program defines its own flag set.
func ConfigFileFlag(args []string) string {
	var path string

	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&path, "config", "", "Path to YAML config file")
	fs.StringVar(&path, "c", "", "Path to YAML config file (short)")
	_ = fs.Parse(FilterArgs(args, []string{"-c", "-config", "--c", "--config"}))

	return path
}
