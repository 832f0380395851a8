// Package doctor runs diagnostic checks over a project's linked libraries
// and prints one status line per finding.
package doctor

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/agentx-labs/metrolink/internal/branding"
	"github.com/agentx-labs/metrolink/internal/bundler"
	"github.com/agentx-labs/metrolink/internal/linker"
	"github.com/agentx-labs/metrolink/internal/manifest"
	"github.com/agentx-labs/metrolink/internal/platform"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Status tags, matching the width used throughout the CLI output.
const (
	TagOK   = "[ OK ]"
	TagWarn = "[WARN]"
	TagFail = "[FAIL]"
	TagMiss = "[MISS]"
	TagInfo = "[INFO]"
)

var printer = message.NewPrinter(language.English)

// Checks selects which diagnostics run.
type Checks struct {
	Manifests   bool
	Constraints bool
	Aliases     bool
	Links       bool
}

// AllChecks enables every check.
func AllChecks() Checks {
	return Checks{Manifests: true, Constraints: true, Aliases: true, Links: true}
}

// Any reports whether at least one check is enabled.
func (c Checks) Any() bool {
	return c.Manifests || c.Constraints || c.Aliases || c.Links
}

// Report counts findings across all checks.
type Report struct {
	Failures int
	Warnings int
}

// OK reports whether no check failed.
func (r *Report) OK() bool { return r.Failures == 0 }

// Option configures a doctor run.
type Option func(*doctor)

// WithTagStyle renders every status tag through style before it is written.
func WithTagStyle(style func(tag string) string) Option {
	return func(d *doctor) { d.style = style }
}

type doctor struct {
	w      io.Writer
	fs     platform.FS
	opts   bundler.Options
	style  func(tag string) string
	report Report
}

// Run executes the selected checks and writes results to w. Checks that need
// a resolution are reported as failed when resolution itself fails.
func Run(w io.Writer, fsys platform.FS, opts bundler.Options, checks Checks, options ...Option) *Report {
	d := &doctor{w: w, fs: fsys, opts: opts, style: func(tag string) string { return tag }}
	for _, opt := range options {
		opt(d)
	}

	if checks.Links {
		d.checkLinks()
	}

	if !checks.Manifests && !checks.Constraints && !checks.Aliases {
		return &d.report
	}

	res, err := bundler.Resolve(fsys, opts)
	if err != nil {
		fmt.Fprintln(w, "Resolution:")
		d.fail("%v", err)
		return &d.report
	}

	if checks.Manifests {
		d.checkManifests(res)
	}
	if checks.Constraints {
		d.checkConstraints(res)
	}
	if checks.Aliases {
		d.checkAliases(res)
	}
	return &d.report
}

func (d *doctor) line(tag, format string, args ...any) {
	fmt.Fprintf(d.w, "  %s %s\n", d.style(tag), fmt.Sprintf(format, args...))
}

func (d *doctor) fail(format string, args ...any) {
	d.report.Failures++
	d.line(TagFail, format, args...)
}

func (d *doctor) warn(format string, args ...any) {
	d.report.Warnings++
	d.line(TagWarn, format, args...)
}

// checkLinks reports dangling symlinks among the direct dependencies. It
// classifies entries itself so that one broken link does not hide the rest.
func (d *doctor) checkLinks() {
	fmt.Fprintln(d.w, "Link check:")

	host, err := manifest.Load(d.fs, d.opts.ManifestPath())
	if err != nil {
		d.fail("%v", err)
		return
	}

	linked, broken := 0, 0
	for _, name := range linker.DirectNames(host, d.opts.ScanDevDependencies) {
		path := filepath.Join(d.opts.InstallPath(), filepath.FromSlash(name))
		info, err := d.fs.Lstat(path)
		if err != nil {
			if !platform.IsNotExist(err) {
				d.fail("%s: %v", name, err)
			}
			continue
		}
		if !platform.IsSymlink(info) {
			continue
		}
		linked++

		target, err := d.fs.Readlink(path)
		if err != nil {
			broken++
			d.fail("%s: %v", name, err)
			continue
		}
		real, err := d.fs.Realpath(path)
		if err != nil {
			broken++
			d.fail("%s -> %s (broken)", name, target)
			continue
		}
		d.line(TagOK, "%s -> %s", name, real)
	}

	switch {
	case linked == 0:
		d.line(TagInfo, "No linked libraries (run 'npm link <lib>' in the project)")
	case broken > 0:
		fmt.Fprintf(d.w, "         Re-run 'npm link' in the library working copy, or reinstall it\n")
	}
}

func (d *doctor) checkManifests(res *linker.Result) {
	fmt.Fprintln(d.w, "Manifest check:")

	d.validate("project", d.opts.ManifestPath())
	for _, name := range res.LibraryNames() {
		d.validate(name, filepath.Join(res.Libs[name], manifest.FileName))
	}
}

func (d *doctor) validate(label, path string) {
	result, err := manifest.ValidateFile(d.fs, path)
	if err != nil {
		d.fail("%s: %v", label, err)
		return
	}
	if result.Valid {
		d.line(TagOK, "%s: %s", label, path)
		return
	}
	d.fail("%s: %d validation issue(s) in %s", label, len(result.Issues), path)
	for _, issue := range result.Issues {
		fmt.Fprintf(d.w, "    - %s\n", issue)
	}
}

func (d *doctor) checkConstraints(res *linker.Result) {
	fmt.Fprintln(d.w, "Constraint check:")

	names := res.LibraryNames()
	if len(names) == 0 {
		d.line(TagInfo, "No linked libraries")
		return
	}

	for _, name := range names {
		m, err := manifest.LoadDir(d.fs, res.Libs[name])
		if err != nil {
			d.fail("%s: %v", name, err)
			continue
		}

		counts := make(map[manifest.ConstraintKind]int)
		bad := 0
		for _, deps := range []manifest.Dependencies{m.Dependencies, m.PeerDependencies} {
			for _, dep := range deps {
				kind, err := manifest.ClassifyConstraint(dep.Constraint)
				if err != nil {
					bad++
					d.fail("%s: %s: %v", name, dep.Name, err)
					continue
				}
				counts[kind]++
			}
		}
		if bad > 0 {
			continue
		}
		d.line(TagOK, "%s", printer.Sprintf("%s: %d range(s), %d tag(s), %d protocol specifier(s)",
			name, counts[manifest.ConstraintRange], counts[manifest.ConstraintTag], counts[manifest.ConstraintProtocol]))
	}
}

// checkAliases warns about alias targets missing from the host install
// directory. The bundler would fail to resolve those imports.
func (d *doctor) checkAliases(res *linker.Result) {
	fmt.Fprintln(d.w, "Alias check:")

	cfg := bundler.FromResult(d.opts.ProjectRoot, d.opts.InstallPath(), res)
	if len(cfg.ExtraNodeModules) == 0 {
		d.line(TagInfo, "No aliases")
		return
	}

	installed := 0
	for _, name := range cfg.AliasNames() {
		path := cfg.ExtraNodeModules[name]
		if _, err := d.fs.Lstat(path); err != nil {
			if platform.IsNotExist(err) {
				d.warn("%s not installed in the project (needed by %s)", name, strings.Join(res.Contributors[name], ", "))
				continue
			}
			d.fail("%s: %v", name, err)
			continue
		}
		installed++
	}

	d.line(TagOK, "%s", printer.Sprintf("%d of %d aliases resolve to project installs", installed, len(cfg.ExtraNodeModules)))
	if installed < len(cfg.ExtraNodeModules) {
		fmt.Fprintf(d.w, "         Run 'npm install' in the project, then '%s generate' again\n", branding.CLIName())
	}
}
