package platform

import (
	"errors"
	"io/fs"
	"path/filepath"

	"github.com/spf13/afero"
)

// FS is the narrow set of filesystem operations resolution needs.
type FS interface {
	// Lstat describes the named entry without following a final symlink.
	Lstat(name string) (fs.FileInfo, error)
	// Readlink returns the raw target of a symlink.
	Readlink(name string) (string, error)
	// Realpath returns the absolute path with every symlink resolved.
	Realpath(name string) (string, error)
	// ReadFile reads the named file, following symlinks.
	ReadFile(name string) ([]byte, error)
}

// IsSymlink reports whether info describes a symbolic link.
func IsSymlink(info fs.FileInfo) bool {
	return info.Mode()&fs.ModeSymlink != 0
}

// IsNotExist reports whether err means the entry is absent.
func IsNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}

// OSFS implements FS on the host filesystem.
type OSFS struct {
	fs afero.Fs
}

// NewOSFS returns an FS backed by afero's OS filesystem.
func NewOSFS() *OSFS {
	return &OSFS{fs: afero.NewOsFs()}
}

func (o *OSFS) Lstat(name string) (fs.FileInfo, error) {
	if l, ok := o.fs.(afero.Lstater); ok {
		info, _, err := l.LstatIfPossible(name)
		return info, err
	}
	return o.fs.Stat(name)
}

func (o *OSFS) Readlink(name string) (string, error) {
	if r, ok := o.fs.(afero.LinkReader); ok {
		return r.ReadlinkIfPossible(name)
	}
	return "", &fs.PathError{Op: "readlink", Path: name, Err: afero.ErrNoReadlink}
}

func (o *OSFS) Realpath(name string) (string, error) {
	resolved, err := filepath.EvalSymlinks(name)
	if err != nil {
		return "", err
	}
	return filepath.Abs(resolved)
}

func (o *OSFS) ReadFile(name string) ([]byte, error) {
	return afero.ReadFile(o.fs, name)
}
