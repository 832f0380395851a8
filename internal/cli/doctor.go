package cli

import (
	"fmt"

	"github.com/agentx-labs/metrolink/internal/branding"
	"github.com/agentx-labs/metrolink/internal/bundler"
	"github.com/agentx-labs/metrolink/internal/doctor"
	"github.com/agentx-labs/metrolink/internal/logging"
	"github.com/spf13/cobra"
)

var checks doctor.Checks

func init() {
	doctorCmd.Flags().BoolVar(&checks.Manifests, "check-manifests", false, "Validate the project and linked library manifests")
	doctorCmd.Flags().BoolVar(&checks.Constraints, "check-constraints", false, "Classify version constraints declared by linked libraries")
	doctorCmd.Flags().BoolVar(&checks.Aliases, "check-aliases", false, "Verify alias targets are installed in the project")
	doctorCmd.Flags().BoolVar(&checks.Links, "check-links", false, "Report dangling symlinks")
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Health check for linked libraries",
	Long: `Run diagnostic checks on the project's linked libraries. With no flags,
every check runs.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		selected := checks
		// If no specific flag, run all checks.
		if !selected.Any() {
			selected = doctor.AllChecks()
		}

		opts := bundler.OptionsFromSettings(settings, logging.GetLogger("doctor"))
		w := cmd.OutOrStdout()
		p := newPalette(isTerminal(w))
		report := doctor.Run(w, fsys, opts, selected, doctor.WithTagStyle(p.tag))
		if !report.OK() {
			return fmt.Errorf("%s doctor: %d check(s) failed", branding.CLIName(), report.Failures)
		}
		return nil
	},
}
