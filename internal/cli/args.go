package cli

import (
	"strings"

	"github.com/agentx-labs/metrolink/internal/config"
	"github.com/spf13/cobra"
)

// normalizeArgs supplies "true" for a --dev flag given without a value, so
// that a bare --dev enables development mode instead of failing to parse or
// swallowing the subcommand name. Arguments after "--" belong to the bundler
// and are left alone.
func normalizeArgs(args []string) []string {
	commands := commandNames(rootCmd)
	out := make([]string, 0, len(args)+1)
	for i, arg := range args {
		if arg == "--" {
			return append(out, args[i:]...)
		}
		out = append(out, arg)
		if arg != config.DevFlag {
			continue
		}
		if i+1 >= len(args) || strings.HasPrefix(args[i+1], "-") || commands[args[i+1]] {
			out = append(out, "true")
		}
	}
	return out
}

// commandNames collects the names and aliases of every command below cmd.
// "help" is added by cobra only at execution time.
func commandNames(cmd *cobra.Command) map[string]bool {
	names := map[string]bool{"help": true}
	var walk func(*cobra.Command)
	walk = func(c *cobra.Command) {
		for _, sub := range c.Commands() {
			names[sub.Name()] = true
			for _, alias := range sub.Aliases {
				names[alias] = true
			}
			walk(sub)
		}
	}
	walk(cmd)
	return names
}
