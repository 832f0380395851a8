package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/adrg/xdg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points the user config dir at a temp directory and clears the
// METROLINK_* variables the tests touch.
func isolate(t *testing.T) (userDir, projectRoot string) {
	t.Helper()

	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", home)
	xdg.Reload()
	t.Cleanup(xdg.Reload)

	for _, k := range Keys() {
		unsetEnv(t, "METROLINK_"+strings.ToUpper(k))
	}

	userDir = filepath.Join(home, "metrolink")
	require.NoError(t, os.MkdirAll(userDir, 0755))
	return userDir, t.TempDir()
}

// unsetEnv removes key for the duration of the test. t.Setenv registers the
// restore.
func unsetEnv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	require.NoError(t, os.Unsetenv(key))
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestLoadDefaults(t *testing.T) {
	_, root := isolate(t)

	s, err := Load(root)
	require.NoError(t, err)

	assert.Equal(t, root, s.ProjectRoot)
	assert.Equal(t, "node_modules", s.InstallDir)
	assert.Equal(t, "package.json", s.Manifest)
	assert.Equal(t, "json", s.Format)
	assert.False(t, s.ScanDevDependencies)
	assert.Equal(t, 0, s.Verbosity)
	assert.Equal(t, ModeDevelopment, s.Mode())
	assert.Equal(t, filepath.Join(root, "node_modules"), s.InstallPath())
	assert.Equal(t, filepath.Join(root, "package.json"), s.ManifestPath())
}

func TestLoadLayering(t *testing.T) {
	userDir, root := isolate(t)

	writeFile(t, filepath.Join(userDir, "config.yaml"), "format: yaml\ninstall_dir: user_modules\nverbosity: 2\n")
	writeFile(t, filepath.Join(root, ".metrolink.yaml"), "install_dir: vendor/node_modules\nscan_dev_dependencies: true\n")

	s, err := Load(root)
	require.NoError(t, err)

	assert.Equal(t, "yaml", s.Format, "user file applies")
	assert.Equal(t, "vendor/node_modules", s.InstallDir, "project file overrides user file")
	assert.True(t, s.ScanDevDependencies)
	assert.Equal(t, 2, s.Verbosity)

	t.Setenv("METROLINK_INSTALL_DIR", "/abs/modules")
	s, err = Load(root)
	require.NoError(t, err)
	assert.Equal(t, "/abs/modules", s.InstallDir, "environment overrides files")
	assert.Equal(t, "/abs/modules", s.InstallPath())
}

func TestLoadDotEnv(t *testing.T) {
	_, root := isolate(t)
	writeFile(t, filepath.Join(root, ".env"), "METROLINK_DEV=False\nMETROLINK_FORMAT=toml\n")
	t.Setenv("METROLINK_FORMAT", "js")

	s, err := Load(root)
	require.NoError(t, err)

	assert.Equal(t, ModeProduction, s.Mode())
	assert.Equal(t, "js", s.Format, "existing environment wins over .env")
}

func TestLoadBadProjectFile(t *testing.T) {
	_, root := isolate(t)
	writeFile(t, filepath.Join(root, ".metrolink.yaml"), "install_dir: [unterminated\n")

	_, err := Load(root)
	assert.Error(t, err)
}

func TestSetAndGet(t *testing.T) {
	_, root := isolate(t)

	require.NoError(t, Set(root, KeyInstallDir, "deps"))
	require.NoError(t, Set(root, KeyFormat, "yaml"))

	got, err := Get(root, KeyInstallDir)
	require.NoError(t, err)
	assert.Equal(t, "deps", got)

	data, err := os.ReadFile(ProjectFilePath(root))
	require.NoError(t, err)
	assert.Contains(t, string(data), "install_dir: deps")
	assert.Contains(t, string(data), "format: yaml")
	assert.NotContains(t, string(data), "manifest", "defaults are not written")

	s, err := Load(root)
	require.NoError(t, err)
	assert.Equal(t, "deps", s.InstallDir)
}

func TestUnknownKey(t *testing.T) {
	_, root := isolate(t)

	assert.ErrorIs(t, Set(root, "colour", "blue"), ErrUnknownKey)
	_, err := Get(root, "colour")
	assert.ErrorIs(t, err, ErrUnknownKey)
}

func TestKeysSorted(t *testing.T) {
	assert.Equal(t, []string{
		"dev", "format", "install_dir", "manifest", "scan_dev_dependencies", "verbosity",
	}, Keys())
}
