package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	// AppName names the config directory under the user config dir.
	AppName = "devboot"

	// ConfigFileName is the config file name inside the config directory.
	ConfigFileName = "config.yaml"

	// EnvPrefix is the prefix for environment variable overrides.
	EnvPrefix = "DEVBOOT"
)

// DefaultConfigPath returns $XDG_CONFIG_HOME/devboot/config.yaml (or the
// platform equivalent).
func DefaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join("."+AppName, ConfigFileName)
	}
	return filepath.Join(dir, AppName, ConfigFileName)
}

// Loader handles loading configuration from files, environment and flags.
type Loader struct {
	v     *viper.Viper
	flags map[string]*pflag.Flag
}

// NewLoader creates a new configuration loader.
func NewLoader() *Loader {
	v := viper.New()

	v.SetConfigType("yaml")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return &Loader{v: v, flags: map[string]*pflag.Flag{}}
}

// BindFlags maps config keys to command-line flags. Only flags the user
// actually set override file and environment values.
func (l *Loader) BindFlags(flags *pflag.FlagSet, bindings map[string]string) error {
	for key, name := range bindings {
		flag := flags.Lookup(name)
		if flag == nil {
			return fmt.Errorf("unknown flag %q for key %q", name, key)
		}
		if _, ok := flagSetters[key]; !ok {
			return fmt.Errorf("key %q cannot be set from a flag", key)
		}
		l.flags[key] = flag
	}
	return nil
}

// LoadConfig loads configuration from path, applies defaults, merges
// environment variables and bound flags, and validates the result.
//
// An empty path means DefaultConfigPath. A missing default file is not an
// error; a missing explicit file is.
func (l *Loader) LoadConfig(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultConfigPath()
	}

	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) || explicit {
			return nil, &LoadError{
				Path:    path,
				Message: "config file not found",
				Err:     err,
			}
		}
	} else {
		l.v.SetConfigFile(path)
		if err := l.v.ReadInConfig(); err != nil {
			return nil, &LoadError{
				Path:    path,
				Message: "failed to read config file",
				Err:     err,
			}
		}
	}

	// Start with defaults so keys absent from the file keep them
	cfg := NewConfig()

	if err := l.v.Unmarshal(cfg, viperDecodeHook); err != nil {
		return nil, &LoadError{
			Path:    path,
			Message: "failed to parse config file",
			Err:     err,
		}
	}

	l.applyEnvOverrides(cfg)

	// Flags win over the environment
	l.applyFlagOverrides(cfg)

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, &LoadError{
			Path:    path,
			Message: "configuration validation failed",
			Err:     err,
		}
	}

	return cfg, nil
}

// ConfigFileUsed returns the file viper read, or "" when none was found.
func (l *Loader) ConfigFileUsed() string {
	return l.v.ConfigFileUsed()
}

// applyEnvOverrides applies environment variable overrides to the config.
// AutomaticEnv only reaches keys viper already knows about, so the common
// ones are read explicitly.
func (l *Loader) applyEnvOverrides(cfg *Config) {
	if v := os.Getenv(EnvPrefix + "_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}

	// Catalog settings
	if v := os.Getenv(EnvPrefix + "_CATALOG_REMOTE_BASE"); v != "" {
		cfg.Catalog.RemoteBase = v
	}
	if v := os.Getenv(EnvPrefix + "_CATALOG_APPS_FILE"); v != "" {
		cfg.Catalog.AppsFile = v
	}
	if v := os.Getenv(EnvPrefix + "_CATALOG_SHELLS_FILE"); v != "" {
		cfg.Catalog.ShellsFile = v
	}
	if v := os.Getenv(EnvPrefix + "_CATALOG_ONLINE"); v != "" {
		cfg.Catalog.Online = parseBool(v)
	}
	if v := os.Getenv(EnvPrefix + "_CATALOG_FORCE_LOCAL"); v != "" {
		cfg.Catalog.ForceLocal = parseBool(v)
	}
	if v := os.Getenv(EnvPrefix + "_CATALOG_FETCH_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Catalog.FetchTimeout = d
		}
	}

	// Package manager settings
	if v := os.Getenv(EnvPrefix + "_PACKAGE_MANAGER_COMMAND"); v != "" {
		cfg.PackageManager.Command = v
	}

	// Profile settings
	if v := os.Getenv(EnvPrefix + "_PROFILES_DOTFILE_ROOT"); v != "" {
		cfg.Profiles.DotfileRoot = v
	}
	if v := os.Getenv(EnvPrefix + "_PROFILES_SOURCE_DIR"); v != "" {
		cfg.Profiles.SourceDir = v
	}
	if v := os.Getenv(EnvPrefix + "_PROFILES_RESET"); v != "" {
		cfg.Profiles.Reset = parseBool(v)
	}

	// Logging settings
	if v := os.Getenv(EnvPrefix + "_LOGGING_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}

	if v := os.Getenv(EnvPrefix + "_JOURNAL_ENABLED"); v != "" {
		cfg.Journal.Enabled = parseBool(v)
	}
}

// flagSetters lists the keys that BindFlags accepts.
var flagSetters = map[string]func(cfg *Config, value string){
	"catalog.online":      func(cfg *Config, v string) { cfg.Catalog.Online = parseBool(v) },
	"catalog.force_local": func(cfg *Config, v string) { cfg.Catalog.ForceLocal = parseBool(v) },
	"profiles.reset":      func(cfg *Config, v string) { cfg.Profiles.Reset = parseBool(v) },
	"logging.level":       func(cfg *Config, v string) { cfg.Logging.Level = v },
	"logging.console":     func(cfg *Config, v string) { cfg.Logging.Console = parseBool(v) },
}

// applyFlagOverrides copies the values of bound flags the user set.
func (l *Loader) applyFlagOverrides(cfg *Config) {
	for key, flag := range l.flags {
		if !flag.Changed {
			continue
		}
		flagSetters[key](cfg, flag.Value.String())
	}
}

// parseBool parses a string as a boolean value.
// Returns true for "true", "1", "yes" (case-insensitive).
// Returns false for anything else.
func parseBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "true" || s == "1" || s == "yes"
}

// viperDecodeHook decodes by yaml tag and parses durations such as "5s".
func viperDecodeHook(dc *mapstructure.DecoderConfig) {
	dc.TagName = "yaml"
	dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)
}

// LoadError represents an error that occurred while loading configuration.
type LoadError struct {
	Path    string
	Message string
	Err     error
}

func (e *LoadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Path, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Load is a convenience function that creates a new Loader and loads configuration.
// If path is empty, it uses DefaultConfigPath.
func Load(path string) (*Config, error) {
	return NewLoader().LoadConfig(path)
}

// WriteDefault writes the default configuration to path as YAML. It refuses
// to overwrite an existing file unless force is set.
func WriteDefault(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return &LoadError{Path: path, Message: "config file already exists"}
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return &LoadError{Path: path, Message: "failed to create config directory", Err: err}
	}

	data, err := Marshal(NewConfig())
	if err != nil {
		return &LoadError{Path: path, Message: "failed to encode config", Err: err}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return &LoadError{Path: path, Message: "failed to write config file", Err: err}
	}
	return nil
}

// Marshal renders cfg as YAML.
func Marshal(cfg *Config) ([]byte, error) {
	return yaml.Marshal(cfg)
}
