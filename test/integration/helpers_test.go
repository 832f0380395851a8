//go:build integration

package integration_test

import (
	"os"
	"path/filepath"
	"testing"
)

// testEnv is a host project and a directory of library working copies, both
// under one temp dir with every symlink already evaluated.
type testEnv struct {
	ProjectDir string
	WorkDir    string
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	base, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatalf("evaluating temp dir: %v", err)
	}
	env := &testEnv{
		ProjectDir: filepath.Join(base, "app"),
		WorkDir:    filepath.Join(base, "work"),
	}
	for _, dir := range []string{env.ProjectDir, env.WorkDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatalf("creating %s: %v", dir, err)
		}
	}
	return env
}

func (e *testEnv) modules() string {
	return filepath.Join(e.ProjectDir, "node_modules")
}

// installRegular writes a regular package into node_modules.
func (e *testEnv) installRegular(t *testing.T, name string) {
	t.Helper()
	writeFile(t, filepath.Join(e.modules(), name, "package.json"), `{"name":"`+name+`"}`)
}

// linkLibrary creates a working copy with the given package.json and links it
// into node_modules the way npm link does. Returns the working copy path.
func (e *testEnv) linkLibrary(t *testing.T, name, manifest string) string {
	t.Helper()
	work := filepath.Join(e.WorkDir, name)
	writeFile(t, filepath.Join(work, "package.json"), manifest)

	link := filepath.Join(e.modules(), name)
	if err := os.MkdirAll(filepath.Dir(link), 0755); err != nil {
		t.Fatalf("creating dir %s: %v", filepath.Dir(link), err)
	}
	if err := os.Symlink(work, link); err != nil {
		t.Fatalf("linking %s: %v", name, err)
	}
	return work
}

// writeFile creates a file at the given path with the given content.
func writeFile(t *testing.T, path, content string) {
	t.Helper()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("creating dir %s: %v", dir, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}
