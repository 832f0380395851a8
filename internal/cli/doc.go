// Package cli defines the Cobra command tree for the metrolink CLI. Each file
// in this package registers one top-level command with the root command.
// Commands delegate to internal packages for resolution and only handle flag
// parsing, settings and output formatting. Generated configuration goes to
// stdout; logs and diagnostics go to stderr.
package cli
