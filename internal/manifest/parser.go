package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
)

// ErrMalformed is wrapped by every error caused by descriptor content, as
// opposed to a failure to read the file.
var ErrMalformed = errors.New("malformed manifest")

// Reader is the file access Load needs. platform.FS satisfies it.
type Reader interface {
	ReadFile(name string) ([]byte, error)
}

// Parse decodes package.json content. path is only used in error messages.
func Parse(data []byte, path string) (*Manifest, error) {
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest %s: %w: %w", path, ErrMalformed, err)
	}
	return &m, nil
}

// Load reads and parses the descriptor at path.
func Load(fsys Reader, path string) (*Manifest, error) {
	data, err := fsys.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest %s: %w", path, err)
	}
	return Parse(data, path)
}

// LoadDir reads the package.json inside dir.
func LoadDir(fsys Reader, dir string) (*Manifest, error) {
	return Load(fsys, filepath.Join(dir, FileName))
}
