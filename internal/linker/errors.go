package linker

import (
	"errors"
	"fmt"
)

// ErrManifest matches any failure to read or parse a linked library's
// package.json. Resolution stops at the first one.
var ErrManifest = errors.New("linked library manifest unreadable")

// ManifestError records which linked library had the bad descriptor.
type ManifestError struct {
	Library string
	Path    string
	Err     error
}

func (e *ManifestError) Error() string {
	return fmt.Sprintf("linked library %q: reading %s: %v", e.Library, e.Path, e.Err)
}

func (e *ManifestError) Unwrap() []error {
	return []error{ErrManifest, e.Err}
}
