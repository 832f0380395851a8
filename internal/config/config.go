package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/adrg/xdg"
	"github.com/agentx-labs/metrolink/internal/branding"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	fileName = "config"
	fileType = "yaml"
	envFile  = ".env"
)

// Setting keys.
const (
	KeyInstallDir          = "install_dir"
	KeyManifest            = "manifest"
	KeyDev                 = "dev"
	KeyFormat              = "format"
	KeyScanDevDependencies = "scan_dev_dependencies"
	KeyVerbosity           = "verbosity"
)

var defaults = map[string]any{
	KeyInstallDir:          "node_modules",
	KeyManifest:            "package.json",
	KeyDev:                 "true",
	KeyFormat:              "json",
	KeyScanDevDependencies: false,
	KeyVerbosity:           0,
}

// ErrUnknownKey is returned by Get and Set for keys outside Keys().
var ErrUnknownKey = errors.New("unknown setting")

// Settings is the resolved configuration for one project.
type Settings struct {
	ProjectRoot         string `mapstructure:"-"`
	InstallDir          string `mapstructure:"install_dir"`
	Manifest            string `mapstructure:"manifest"`
	Dev                 string `mapstructure:"dev"`
	Format              string `mapstructure:"format"`
	ScanDevDependencies bool   `mapstructure:"scan_dev_dependencies"`
	Verbosity           int    `mapstructure:"verbosity"`
}

// Mode returns the build mode selected by the dev setting.
func (s *Settings) Mode() Mode {
	return ParseMode(s.Dev)
}

// InstallPath returns the absolute dependency install directory.
func (s *Settings) InstallPath() string {
	if filepath.IsAbs(s.InstallDir) {
		return filepath.Clean(s.InstallDir)
	}
	return filepath.Join(s.ProjectRoot, s.InstallDir)
}

// ManifestPath returns the absolute path of the project manifest.
func (s *Settings) ManifestPath() string {
	if filepath.IsAbs(s.Manifest) {
		return filepath.Clean(s.Manifest)
	}
	return filepath.Join(s.ProjectRoot, s.Manifest)
}

// Keys returns the known setting keys, sorted.
func Keys() []string {
	keys := make([]string, 0, len(defaults))
	for k := range defaults {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Dir returns the user config directory ($XDG_CONFIG_HOME/metrolink).
func Dir() string {
	return filepath.Join(xdg.ConfigHome, branding.HomeDir())
}

// UserFilePath returns the user config file path.
func UserFilePath() string {
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// ProjectFilePath returns the per-project settings file path.
func ProjectFilePath(projectRoot string) string {
	return filepath.Join(projectRoot, branding.ProjectFile())
}

// New builds the layered viper instance for projectRoot. Callers bind CLI
// flags on the returned instance; bound flags win only when set.
func New(projectRoot string) (*viper.Viper, error) {
	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.SetConfigType(fileType)

	for _, path := range []string{UserFilePath(), ProjectFilePath(projectRoot)} {
		if err := mergeFile(v, path); err != nil {
			return nil, err
		}
	}

	// Variables already in the environment take precedence over .env.
	dotenv := filepath.Join(projectRoot, envFile)
	if err := godotenv.Load(dotenv); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("loading %s: %w", dotenv, err)
	}

	v.SetEnvPrefix(branding.EnvPrefix())
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	return v, nil
}

func mergeFile(v *viper.Viper, path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("checking config file %s: %w", path, err)
	}
	v.SetConfigFile(path)
	if err := v.MergeInConfig(); err != nil {
		return fmt.Errorf("reading config file %s: %w", path, err)
	}
	return nil
}

// Decode turns a viper instance into Settings for projectRoot.
func Decode(v *viper.Viper, projectRoot string) (*Settings, error) {
	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("decoding settings: %w", err)
	}
	s.ProjectRoot = projectRoot
	return &s, nil
}

// Load resolves Settings for projectRoot without any flag overrides.
func Load(projectRoot string) (*Settings, error) {
	v, err := New(projectRoot)
	if err != nil {
		return nil, err
	}
	return Decode(v, projectRoot)
}

// Get returns the effective value of key for projectRoot.
func Get(projectRoot, key string) (string, error) {
	if _, ok := defaults[key]; !ok {
		return "", fmt.Errorf("%w %q (known: %s)", ErrUnknownKey, key, strings.Join(Keys(), ", "))
	}
	v, err := New(projectRoot)
	if err != nil {
		return "", err
	}
	return v.GetString(key), nil
}

// Set writes key to the project settings file, creating it if needed. Only
// that file is read and rewritten, so user-level and environment values are
// not copied into it.
func Set(projectRoot, key, value string) error {
	if _, ok := defaults[key]; !ok {
		return fmt.Errorf("%w %q (known: %s)", ErrUnknownKey, key, strings.Join(Keys(), ", "))
	}

	path := ProjectFilePath(projectRoot)
	v := viper.New()
	v.SetConfigType(fileType)
	if err := mergeFile(v, path); err != nil {
		return err
	}

	v.Set(key, value)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config file %s: %w", path, err)
	}
	return nil
}
