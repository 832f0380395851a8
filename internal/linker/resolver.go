package linker

import (
	"fmt"
	"path/filepath"

	"github.com/agentx-labs/metrolink/internal/manifest"
	"github.com/agentx-labs/metrolink/internal/platform"
	"github.com/rs/zerolog"
)

// Resolver classifies the entries of one dependency install directory.
// It keeps no state between calls to Resolve.
type Resolver struct {
	fs         platform.FS
	installDir string
	log        zerolog.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger sets the logger used for classification events.
func WithLogger(l zerolog.Logger) Option {
	return func(r *Resolver) { r.log = l }
}

// New returns a Resolver reading installDir through fsys.
func New(fsys platform.FS, installDir string, opts ...Option) *Resolver {
	r := &Resolver{
		fs:         fsys,
		installDir: installDir,
		log:        zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// InstallPath returns where name is expected inside the install directory.
func (r *Resolver) InstallPath(name string) string {
	return filepath.Join(r.installDir, filepath.FromSlash(name))
}

// Resolve makes a single forward pass over names. Each name that is a symlink
// in the install directory becomes a linked library; the names in its own
// dependencies and peerDependencies are collected as dependents unless they
// are already dependents or already linked. A dependent that later turns out
// to be linked itself is removed again.
//
// Names with no entry are skipped. Any other filesystem failure, or a linked
// library without a readable package.json, fails the whole pass.
func (r *Resolver) Resolve(names []string) (*Result, error) {
	res := newResult()
	seen := make(map[string]bool, len(names))

	for _, name := range names {
		if seen[name] {
			continue
		}
		seen[name] = true

		entry, err := r.classify(name)
		if err != nil {
			return nil, err
		}
		res.Entries = append(res.Entries, entry)

		switch entry.Kind {
		case KindMissing:
			r.log.Info().Str("dependency", name).Str("path", entry.Path).Msg("Not installed, skipping")
			continue
		case KindRegular:
			r.log.Debug().Str("dependency", name).Msg("Regular dependency")
			continue
		}

		r.log.Debug().
			Str("dependency", name).
			Str("target", entry.Target).
			Str("realpath", entry.RealPath).
			Msg("Linked library")

		res.addLib(name, entry.RealPath)
		if res.removeDependent(name) {
			r.log.Info().Str("dependency", name).Msg("Promoted from dependent to linked library")
		}

		m, err := manifest.LoadDir(r.fs, entry.RealPath)
		if err != nil {
			return nil, &ManifestError{
				Library: name,
				Path:    filepath.Join(entry.RealPath, manifest.FileName),
				Err:     err,
			}
		}

		for _, candidate := range candidates(m) {
			if res.IsLinked(candidate) {
				continue
			}
			res.addDependent(candidate, name)
		}
	}

	r.log.Debug().
		Int("libs", len(res.Libs)).
		Int("dependents", len(res.Dependents)).
		Msg("Resolution complete")

	return res, nil
}

func (r *Resolver) classify(name string) (Entry, error) {
	entry := Entry{Name: name, Path: r.InstallPath(name)}

	info, err := r.fs.Lstat(entry.Path)
	if err != nil {
		if platform.IsNotExist(err) {
			entry.Kind = KindMissing
			return entry, nil
		}
		return entry, fmt.Errorf("inspecting %s: %w", entry.Path, err)
	}

	if !platform.IsSymlink(info) {
		entry.Kind = KindRegular
		return entry, nil
	}

	entry.Kind = KindLinked
	if entry.Target, err = r.fs.Readlink(entry.Path); err != nil {
		return entry, fmt.Errorf("reading link %s: %w", entry.Path, err)
	}
	if entry.RealPath, err = r.fs.Realpath(entry.Path); err != nil {
		return entry, fmt.Errorf("resolving linked library %q: %w", name, err)
	}
	return entry, nil
}

// candidates returns dependencies then peerDependencies, first occurrence
// winning.
func candidates(m *manifest.Manifest) []string {
	seen := make(map[string]bool)
	var names []string
	for _, deps := range []manifest.Dependencies{m.Dependencies, m.PeerDependencies} {
		for _, name := range deps.Names() {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	return names
}

// DirectNames returns the names of the host project's direct dependencies in
// file order, followed by devDependencies not already listed when includeDev
// is set.
func DirectNames(m *manifest.Manifest, includeDev bool) []string {
	names := m.Dependencies.Names()
	if !includeDev {
		return names
	}
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		seen[n] = true
	}
	for _, n := range m.DevDependencies.Names() {
		if !seen[n] {
			seen[n] = true
			names = append(names, n)
		}
	}
	return names
}
