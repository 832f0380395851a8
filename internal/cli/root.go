package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/agentx-labs/metrolink/internal/branding"
	"github.com/agentx-labs/metrolink/internal/config"
	"github.com/agentx-labs/metrolink/internal/logging"
	"github.com/agentx-labs/metrolink/internal/platform"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string
)

var (
	projectDir string
	verbosity  int

	// settings is resolved once per invocation in PersistentPreRunE.
	settings *config.Settings
	fsys     platform.FS = platform.NewOSFS()
)

// flagKeys maps persistent flag names to the setting they override.
var flagKeys = map[string]string{
	"install-dir":           config.KeyInstallDir,
	"manifest":              config.KeyManifest,
	"dev":                   config.KeyDev,
	"format":                config.KeyFormat,
	"scan-dev-dependencies": config.KeyScanDevDependencies,
	"verbose":               config.KeyVerbosity,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&projectDir, "project", "C", "", "Project root (default: current directory)")
	pf.CountVarP(&verbosity, "verbose", "v", "Increase log verbosity (-v info, -vv debug, -vvv trace)")
	pf.String("install-dir", "node_modules", "Dependency install directory, relative to the project root")
	pf.String("manifest", "package.json", "Project manifest, relative to the project root")
	pf.String("dev", "true", `Development mode; "false" disables linked library resolution`)
	pf.Bool("scan-dev-dependencies", false, "Also classify devDependencies")
}

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: branding.DisplayName() + ` configures a module bundler for libraries that are symlinked into a
project with npm link. It adds each linked working copy as a project root and
aliases the linked libraries' own dependencies to the project's installed
copies, so a linked library never loads a second instance of a shared package.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" {
			return nil
		}

		root, err := resolveProjectRoot()
		if err != nil {
			return err
		}

		v, err := config.New(root)
		if err != nil {
			return err
		}
		if err := bindFlags(v, cmd); err != nil {
			return err
		}

		settings, err = config.Decode(v, root)
		if err != nil {
			return err
		}

		logging.Setup(settings.Verbosity, cmd.ErrOrStderr(), isTerminal(cmd.ErrOrStderr()))
		logger := logging.GetLogger("cli")
		logger.Debug().
			Str("project", settings.ProjectRoot).
			Str("mode", settings.Mode().String()).
			Msg("Settings resolved")
		return nil
	},
}

func resolveProjectRoot() (string, error) {
	dir := projectDir
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("getting current directory: %w", err)
		}
		dir = cwd
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving project root %s: %w", dir, err)
	}
	return abs, nil
}

// bindFlags lets explicitly set flags override every other settings layer.
func bindFlags(v *viper.Viper, cmd *cobra.Command) error {
	for name, key := range flagKeys {
		f := cmd.Flags().Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("binding --%s: %w", name, err)
		}
	}
	return nil
}

// Execute runs the root command with build info injected via ldflags.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date
	rootCmd.SetArgs(normalizeArgs(os.Args[1:]))
	return rootCmd.Execute()
}
