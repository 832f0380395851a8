package cli

import (
	"github.com/agentx-labs/metrolink/internal/bundler"
	"github.com/agentx-labs/metrolink/internal/config"
	"github.com/agentx-labs/metrolink/internal/logging"
	"github.com/spf13/cobra"
)

func init() {
	generateCmd.Flags().StringP("format", "f", "json", "Output format: json, yaml, toml or js")
	rootCmd.AddCommand(generateCmd)
}

var generateCmd = &cobra.Command{
	Use:   "generate [-- bundler-args...]",
	Short: "Print the bundler configuration for linked libraries",
	Long: `Print the project roots and extraNodeModules alias table for the project.

Arguments after "--" are the bundler's own command line. When --dev is not
given explicitly, a "--dev <value>" among them selects the mode the same way
the bundler does: "false" disables resolution and prints an empty
configuration.

Example:
  metrolink generate --format js > metro.linked.js
  metrolink generate -- bundle --dev false --platform ios`,
	Args: cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := bundler.ParseFormat(settings.Format)
		if err != nil {
			return err
		}

		cfg, err := generateConfig(cmd, args)
		if err != nil {
			return err
		}
		return bundler.Encode(cmd.OutOrStdout(), cfg, format)
	},
}

// selectMode picks the mode: an explicit --dev flag wins, then a --dev
// in the bundler arguments after "--", then settings.
func selectMode(cmd *cobra.Command, args []string) config.Mode {
	if cmd.Flags().Changed("dev") {
		return settings.Mode()
	}
	if dash := cmd.ArgsLenAtDash(); dash >= 0 {
		if mode, found := config.LookupMode(args[dash:]); found {
			return mode
		}
	}
	return settings.Mode()
}

func generateConfig(cmd *cobra.Command, args []string) (*bundler.Config, error) {
	opts := bundler.OptionsFromSettings(settings, logging.GetLogger("bundler"))
	opts.Mode = selectMode(cmd, args)

	done := logging.LogOperationStart(opts.Logger, "generate")
	defer done()

	cfg, _, err := bundler.Generate(fsys, opts)
	return cfg, err
}
