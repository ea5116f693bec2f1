// Package flagx parses the small set of bootstrap flags (config file paths)
// that must be read before the main flag set, without tripping over flags
// that belong to someone else.
package flagx

import (
	"flag"
	"os"
	"strings"
)

// FilterArgs returns the subset of args made of allowedFlags and their values.
//
// Supported formats:
//
//	-c conf.json      flag and value as separate arguments
//	--config=conf.json flag and value joined by '='
//
// A value is taken from the next argument only when it does not start with '-'.
func FilterArgs(args []string, allowedFlags []string) []string {
	allowed := make(map[string]struct{}, len(allowedFlags))
	for _, f := range allowedFlags {
		allowed[f] = struct{}{}
	}

	filtered := make([]string, 0, len(args))

	for i := 0; i < len(args); i++ {
		arg := args[i]

		if strings.HasPrefix(arg, "-") && strings.Contains(arg, "=") {
			name := strings.SplitN(arg, "=", 2)[0]
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

// lookup returns the last value given for any of the aliases in os.Args.
// Aliases are flag names without dashes, e.g. "c", "config".
func lookup(usage string, aliases ...string) string {
	var value string

	allowed := make([]string, 0, len(aliases))
	for _, a := range aliases {
		allowed = append(allowed, "-"+a)
	}
	args := FilterArgs(os.Args[1:], allowed)

	fs := flag.NewFlagSet("bootstrap", flag.ContinueOnError)
	fs.SetOutput(discard{})
	for _, a := range aliases {
		fs.StringVar(&value, a, "", usage)
	}
	_ = fs.Parse(args)

	return value
}

// JsonConfigFlags returns the JSON config file path given via -c or -config,
// or an empty string.
func JsonConfigFlags() string {
	return lookup("Path to JSON config file", "c", "config")
}

// EnvFileFlag returns the dotenv file path given via -env, or an empty string.
func EnvFileFlag() string {
	return lookup("Path to .env file", "env")
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }
