package config

import (
	"strings"
)

// DevFlag is the bundler argument carrying the development-mode value.
const DevFlag = "--dev"

// Mode is the build mode resolution runs under.
type Mode int

const (
	// ModeDevelopment resolves linked libraries.
	ModeDevelopment Mode = iota
	// ModeProduction yields an empty configuration.
	ModeProduction
)

// String returns a human-readable name for the mode.
func (m Mode) String() string {
	switch m {
	case ModeDevelopment:
		return "development"
	case ModeProduction:
		return "production"
	default:
		return "unknown"
	}
}

// ParseMode maps a --dev value to a Mode. Only "false", in any case,
// selects production.
func ParseMode(value string) Mode {
	if strings.EqualFold(strings.TrimSpace(value), "false") {
		return ModeProduction
	}
	return ModeDevelopment
}

// ModeFromArgs finds --dev in a bundler argv and applies ParseMode to the
// value after it. A missing flag, or one with nothing after it, means
// development.
func ModeFromArgs(args []string) Mode {
	mode, _ := LookupMode(args)
	return mode
}

// LookupMode is ModeFromArgs that also reports whether --dev was present.
// Both "--dev value" and "--dev=value" are accepted; the first occurrence
// wins.
func LookupMode(args []string) (Mode, bool) {
	for i, arg := range args {
		if value, ok := strings.CutPrefix(arg, DevFlag+"="); ok {
			return ParseMode(value), true
		}
		if arg != DevFlag {
			continue
		}
		if i+1 >= len(args) {
			return ModeDevelopment, true
		}
		return ParseMode(args[i+1]), true
	}
	return ModeDevelopment, false
}
