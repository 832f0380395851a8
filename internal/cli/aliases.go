package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(aliasesCmd)
}

var aliasesCmd = &cobra.Command{
	Use:   "aliases [-- bundler-args...]",
	Short: "Print the module alias table as name<TAB>path",
	Args:  cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := generateConfig(cmd, args)
		if err != nil {
			return err
		}
		for _, name := range cfg.AliasNames() {
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", name, cfg.ExtraNodeModules[name])
		}
		return nil
	},
}
