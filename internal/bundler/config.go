package bundler

import (
	"fmt"
	"path/filepath"
	"slices"

	"github.com/agentx-labs/metrolink/internal/config"
	"github.com/agentx-labs/metrolink/internal/linker"
	"github.com/agentx-labs/metrolink/internal/manifest"
	"github.com/agentx-labs/metrolink/internal/platform"
	"github.com/rs/zerolog"
)

// Config is the bundler configuration object. The zero value is the empty
// configuration used outside development mode.
type Config struct {
	// ProjectRoot is the host project directory. Empty for the empty config.
	ProjectRoot string
	// ExtraRoots are the real paths of linked libraries in discovery order.
	ExtraRoots []string
	// ExtraNodeModules forces each dependent name to the host's install path.
	ExtraNodeModules map[string]string
}

// IsEmpty reports whether c is the pass-through configuration.
func (c *Config) IsEmpty() bool {
	return c == nil || (c.ProjectRoot == "" && len(c.ExtraRoots) == 0 && len(c.ExtraNodeModules) == 0)
}

// ProjectRoots returns the project root followed by each linked library path,
// keeping the first occurrence of any repeated path.
func (c *Config) ProjectRoots() []string {
	if c.IsEmpty() {
		return nil
	}
	roots := make([]string, 0, len(c.ExtraRoots)+1)
	if c.ProjectRoot != "" {
		roots = append(roots, c.ProjectRoot)
	}
	for _, r := range c.ExtraRoots {
		if !slices.Contains(roots, r) {
			roots = append(roots, r)
		}
	}
	return roots
}

// AliasNames returns the alias table keys, sorted.
func (c *Config) AliasNames() []string {
	if c == nil {
		return nil
	}
	names := make([]string, 0, len(c.ExtraNodeModules))
	for name := range c.ExtraNodeModules {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Options describes where a project lives and how to scan it.
type Options struct {
	// ProjectRoot must be absolute.
	ProjectRoot string
	// InstallDir is the dependency install directory, absolute or relative
	// to ProjectRoot.
	InstallDir string
	// Manifest is the project descriptor, absolute or relative to
	// ProjectRoot.
	Manifest            string
	ScanDevDependencies bool
	Mode                config.Mode
	Logger              zerolog.Logger
}

// OptionsFromSettings copies the relevant fields out of s.
func OptionsFromSettings(s *config.Settings, logger zerolog.Logger) Options {
	return Options{
		ProjectRoot:         s.ProjectRoot,
		InstallDir:          s.InstallPath(),
		Manifest:            s.ManifestPath(),
		ScanDevDependencies: s.ScanDevDependencies,
		Mode:                s.Mode(),
		Logger:              logger,
	}
}

// InstallPath returns the absolute dependency install directory.
func (o Options) InstallPath() string {
	if filepath.IsAbs(o.InstallDir) {
		return filepath.Clean(o.InstallDir)
	}
	return filepath.Join(o.ProjectRoot, o.InstallDir)
}

// ManifestPath returns the absolute project manifest path.
func (o Options) ManifestPath() string {
	if filepath.IsAbs(o.Manifest) {
		return filepath.Clean(o.Manifest)
	}
	return filepath.Join(o.ProjectRoot, o.Manifest)
}

// Resolve reads the project manifest and runs the linker over its direct
// dependencies. It ignores Mode.
func Resolve(fsys platform.FS, opts Options) (*linker.Result, error) {
	host, err := manifest.Load(fsys, opts.ManifestPath())
	if err != nil {
		return nil, fmt.Errorf("reading project manifest: %w", err)
	}

	names := linker.DirectNames(host, opts.ScanDevDependencies)
	opts.Logger.Debug().Int("dependencies", len(names)).Str("manifest", opts.ManifestPath()).Msg("Loaded project manifest")

	r := linker.New(fsys, opts.InstallPath(), linker.WithLogger(opts.Logger))
	return r.Resolve(names)
}

// Generate builds the bundler configuration. Outside development mode it
// touches nothing and returns the empty Config with a nil Result.
func Generate(fsys platform.FS, opts Options) (*Config, *linker.Result, error) {
	if opts.Mode != config.ModeDevelopment {
		opts.Logger.Info().Str("mode", opts.Mode.String()).Msg("Linked library resolution disabled")
		return &Config{}, nil, nil
	}

	res, err := Resolve(fsys, opts)
	if err != nil {
		return nil, nil, err
	}
	return FromResult(opts.ProjectRoot, opts.InstallPath(), res), res, nil
}

// FromResult derives the configuration from a resolution.
func FromResult(projectRoot, installPath string, res *linker.Result) *Config {
	aliases := make(map[string]string, len(res.Dependents))
	for _, name := range res.Dependents {
		aliases[name] = filepath.Join(installPath, filepath.FromSlash(name))
	}
	return &Config{
		ProjectRoot:      projectRoot,
		ExtraRoots:       res.Roots(),
		ExtraNodeModules: aliases,
	}
}
