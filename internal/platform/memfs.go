package platform

import (
	"errors"
	"io/fs"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/afero"
)

// maxLinkHops bounds symlink chains, matching the usual ELOOP limit.
const maxLinkHops = 40

// MemFS is an in-memory FS. File contents live in an afero.MemMapFs and
// symlinks are kept in a separate table, since MemMapFs cannot represent them.
// All paths are expected to be absolute.
type MemFS struct {
	fs    afero.Fs
	links map[string]string
}

// NewMemFS returns an empty in-memory filesystem.
func NewMemFS() *MemFS {
	return &MemFS{
		fs:    afero.NewMemMapFs(),
		links: make(map[string]string),
	}
}

// MkdirAll creates a directory and any missing parents.
func (m *MemFS) MkdirAll(path string) error {
	resolved, err := m.resolve(path)
	if err != nil {
		return err
	}
	return m.fs.MkdirAll(resolved, 0755)
}

// WriteFile writes data to path, creating parent directories.
func (m *MemFS) WriteFile(path string, data []byte) error {
	resolved, err := m.resolve(path)
	if err != nil {
		return err
	}
	if err := m.fs.MkdirAll(filepath.Dir(resolved), 0755); err != nil {
		return err
	}
	return afero.WriteFile(m.fs, resolved, data, 0644)
}

// Symlink records link as a symbolic link to target. A relative target is
// interpreted against the directory containing link. The target does not
// need to exist.
func (m *MemFS) Symlink(target, link string) error {
	link = filepath.Clean(link)
	if _, ok := m.links[link]; ok {
		return &fs.PathError{Op: "symlink", Path: link, Err: fs.ErrExist}
	}
	if err := m.MkdirAll(filepath.Dir(link)); err != nil {
		return err
	}
	m.links[link] = target
	return nil
}

func (m *MemFS) Lstat(name string) (fs.FileInfo, error) {
	name = filepath.Clean(name)
	parent, err := m.resolve(filepath.Dir(name))
	if err != nil {
		return nil, err
	}
	candidate := filepath.Join(parent, filepath.Base(name))
	if target, ok := m.links[candidate]; ok {
		return linkInfo{name: filepath.Base(name), target: target}, nil
	}
	return m.fs.Stat(candidate)
}

func (m *MemFS) Readlink(name string) (string, error) {
	name = filepath.Clean(name)
	parent, err := m.resolve(filepath.Dir(name))
	if err != nil {
		return "", err
	}
	if target, ok := m.links[filepath.Join(parent, filepath.Base(name))]; ok {
		return target, nil
	}
	if _, err := m.fs.Stat(filepath.Join(parent, filepath.Base(name))); err != nil {
		return "", err
	}
	return "", &fs.PathError{Op: "readlink", Path: name, Err: syscall.EINVAL}
}

func (m *MemFS) Realpath(name string) (string, error) {
	resolved, err := m.resolve(name)
	if err != nil {
		return "", err
	}
	if _, err := m.fs.Stat(resolved); err != nil {
		return "", &fs.PathError{Op: "realpath", Path: name, Err: fs.ErrNotExist}
	}
	return resolved, nil
}

func (m *MemFS) ReadFile(name string) ([]byte, error) {
	resolved, err := m.resolve(name)
	if err != nil {
		return nil, err
	}
	return afero.ReadFile(m.fs, resolved)
}

// resolve rewrites name until none of its components is a recorded link.
func (m *MemFS) resolve(name string) (string, error) {
	name = filepath.Clean(name)
	sep := string(filepath.Separator)

	for hops := 0; ; {
		parts := strings.Split(name, sep)
		cur := ""
		rewritten := false

		for i, p := range parts {
			if i == 0 && p == "" {
				cur = sep
				continue
			}
			cur = filepath.Join(cur, p)

			target, ok := m.links[cur]
			if !ok {
				continue
			}
			hops++
			if hops > maxLinkHops {
				return "", &fs.PathError{Op: "resolve", Path: name, Err: errTooManyLinks}
			}
			if !filepath.IsAbs(target) {
				target = filepath.Join(filepath.Dir(cur), target)
			}
			name = filepath.Join(append([]string{target}, parts[i+1:]...)...)
			rewritten = true
			break
		}

		if !rewritten {
			return name, nil
		}
	}
}

var errTooManyLinks = errors.New("too many levels of symbolic links")

// linkInfo is the fs.FileInfo returned by MemFS.Lstat for a symlink.
type linkInfo struct {
	name   string
	target string
}

func (l linkInfo) Name() string       { return l.name }
func (l linkInfo) Size() int64        { return int64(len(l.target)) }
func (l linkInfo) Mode() fs.FileMode  { return fs.ModeSymlink | 0777 }
func (l linkInfo) ModTime() time.Time { return time.Time{} }
func (l linkInfo) IsDir() bool        { return false }
func (l linkInfo) Sys() any           { return nil }
