package cli

import (
	"fmt"
	"strings"

	"github.com/agentx-labs/metrolink/internal/bundler"
	"github.com/agentx-labs/metrolink/internal/linker"
	"github.com/agentx-labs/metrolink/internal/logging"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(statusCmd)
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show how each direct dependency is installed",
	Long: `Classify every direct dependency as linked, regular or missing, and list
the dependents collected from linked libraries together with the libraries
that declared them. Resolution runs even when development mode is off.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := bundler.OptionsFromSettings(settings, logging.GetLogger("linker"))
		res, err := bundler.Resolve(fsys, opts)
		if err != nil {
			return err
		}
		printStatus(cmd, res)
		return nil
	},
}

func printStatus(cmd *cobra.Command, res *linker.Result) {
	w := cmd.OutOrStdout()
	p := newPalette(isTerminal(w))

	fmt.Fprintf(w, "Project: %s\n", settings.ProjectRoot)
	fmt.Fprintf(w, "Mode:    %s\n\n", settings.Mode())

	deps := &table{headers: []string{"DEPENDENCY", "KIND", "TARGET"}}
	for _, e := range res.Entries {
		switch e.Kind {
		case linker.KindLinked:
			target := e.RealPath
			if e.Target != e.RealPath {
				target = e.Target + " -> " + e.RealPath
			}
			deps.add(p.linked, e.Name, e.Kind.String(), target)
		case linker.KindMissing:
			deps.add(p.missing, e.Name, e.Kind.String(), "")
		default:
			deps.add(p.regular, e.Name, e.Kind.String(), "")
		}
	}
	deps.render(w, p.header)

	if len(res.Libs) == 0 {
		fmt.Fprintln(w, p.dim.Render("\nNo linked libraries."))
		return
	}

	fmt.Fprintln(w)
	dependents := &table{headers: []string{"DEPENDENT", "DECLARED BY"}}
	for _, name := range res.Dependents {
		dependents.add(p.regular, name, strings.Join(res.Contributors[name], ", "))
	}
	dependents.render(w, p.header)
}
