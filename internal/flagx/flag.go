// Package flagx lets several components parse their own subset of os.Args
// without tripping over each other's flags.
package flagx

import (
	"flag"
	"os"
	"strings"
)

// FilterArgs keeps only the flags listed in allowedFlags (and their values)
// from args. Both "-f value" and "-f=value" forms are recognised; a token
// starting with "-" is never taken as a value.
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

// lookupString parses only the given aliases of one string flag from os.Args.
// The last occurrence wins.
func lookupString(aliases ...string) string {
	var value string

	allowed := make([]string, 0, len(aliases))
	fs := flag.NewFlagSet("lookup", flag.ContinueOnError)
	fs.SetOutput(discard{})
	for _, a := range aliases {
		allowed = append(allowed, "-"+a)
		fs.StringVar(&value, a, "", "")
	}
	_ = fs.Parse(FilterArgs(os.Args[1:], allowed))

	return value
}

// JsonConfigFlags returns the JSON config path given via -c or -config,
// or "" when neither is present.
func JsonConfigFlags() string {
	return lookupString("c", "config")
}

// EnvFileFlags returns the dotenv path given via -env, or "" when absent.
func EnvFileFlags() string {
	return lookupString("env")
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }
