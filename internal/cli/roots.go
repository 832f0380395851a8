package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(rootsCmd)
}

var rootsCmd = &cobra.Command{
	Use:   "roots [-- bundler-args...]",
	Short: "Print the bundler project roots, one per line",
	Long: `Print the project root followed by the real path of every linked library.
Prints nothing when development mode is off.`,
	Args: cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := generateConfig(cmd, args)
		if err != nil {
			return err
		}
		for _, root := range cfg.ProjectRoots() {
			fmt.Fprintln(cmd.OutOrStdout(), root)
		}
		return nil
	},
}
