// Package config provides configuration data structures for devboot.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Config is the complete devboot configuration. It is built once at the
// entry point and passed explicitly to every component that needs it.
type Config struct {
	// DataDir holds logs and the install journal (default: ~/.devboot).
	DataDir        string               `yaml:"data_dir"        json:"data_dir"`
	Catalog        CatalogConfig        `yaml:"catalog"         json:"catalog"`
	PackageManager PackageManagerConfig `yaml:"package_manager" json:"package_manager"`
	Profiles       ProfilesConfig       `yaml:"profiles"        json:"profiles"`
	Network        NetworkConfig        `yaml:"network"         json:"network"`
	Logging        LoggingConfig        `yaml:"logging"         json:"logging"`
	Journal        JournalConfig        `yaml:"journal"         json:"journal"`
}

// CatalogConfig configures where the application and shell catalogs come from.
type CatalogConfig struct {
	// RemoteBase is the URL directory holding apps.json and shells.json.
	RemoteBase string `yaml:"remote_base" json:"remote_base"`
	// AppsFile is the local application catalog.
	AppsFile string `yaml:"apps_file" json:"apps_file"`
	// ShellsFile is the local shell catalog.
	ShellsFile string `yaml:"shells_file" json:"shells_file"`
	// Online prefers the remote catalogs over the local files.
	Online bool `yaml:"online" json:"online"`
	// ForceLocal never contacts the network, even when Online is set.
	ForceLocal bool `yaml:"force_local" json:"force_local"`
	// FetchTimeout bounds a single remote fetch (default: 5s).
	FetchTimeout time.Duration `yaml:"fetch_timeout" json:"fetch_timeout"`
}

// UseRemote reports whether a remote fetch should be attempted.
func (c CatalogConfig) UseRemote() bool {
	return c.Online && !c.ForceLocal
}

// AppsURL is the remote application catalog URL.
func (c CatalogConfig) AppsURL() string {
	return joinURL(c.RemoteBase, "apps.json")
}

// ShellsURL is the remote shell catalog URL.
func (c CatalogConfig) ShellsURL() string {
	return joinURL(c.RemoteBase, "shells.json")
}

// PackageManagerConfig configures the external package manager.
type PackageManagerConfig struct {
	// Command is the package manager binary (default: winget).
	Command string `yaml:"command" json:"command"`
	// InstallerURL is the static manual installer location.
	InstallerURL string `yaml:"installer_url" json:"installer_url"`
	// ReleaseRepo is the GitHub owner/repo queried for the latest installer.
	ReleaseRepo string `yaml:"release_repo" json:"release_repo"`
	// LookupTimeout bounds the latest-release lookup (default: 5s).
	LookupTimeout time.Duration `yaml:"lookup_timeout" json:"lookup_timeout"`
}

// ProfilesConfig configures the shell profile writer.
type ProfilesConfig struct {
	// DotfileRoot receives the managed main profiles of every shell.
	DotfileRoot string `yaml:"dotfile_root" json:"dotfile_root"`
	// SourceDir holds the bundled dotfiles (bash/main.sh, nu/main_profile.nu, ...).
	SourceDir string `yaml:"source_dir" json:"source_dir"`
	// RemoteBase is the URL directory mirroring SourceDir, used in online mode.
	RemoteBase string `yaml:"remote_base" json:"remote_base"`
	// Reset overwrites the shell's own config file before appending (default: true).
	Reset bool `yaml:"reset" json:"reset"`
	// Theme is the prompt theme loaded by nushell.
	Theme string `yaml:"theme" json:"theme"`
}

// NetworkConfig configures the reachability probe.
type NetworkConfig struct {
	// ProbeURL defaults to the remote application catalog.
	ProbeURL string `yaml:"probe_url" json:"probe_url"`
	// ProbeTimeout bounds the probe (default: 1s).
	ProbeTimeout time.Duration `yaml:"probe_timeout" json:"probe_timeout"`
}

// LoggingConfig configures the session log.
type LoggingConfig struct {
	Level    string        `yaml:"level"     json:"level"`
	Dir      string        `yaml:"dir"       json:"dir"`
	MaxFiles int           `yaml:"max_files" json:"max_files"`
	MaxAge   time.Duration `yaml:"max_age"   json:"max_age"`
	Console  bool          `yaml:"console"   json:"console"`
}

// JournalConfig configures the install journal.
type JournalConfig struct {
	Enabled bool   `yaml:"enabled" json:"enabled"`
	Path    string `yaml:"path"    json:"path"`
}

// Default values.
const (
	DefaultRemoteBase      = "https://raw.githubusercontent.com/Sampong-Starluck/Sampong_dotfile/master/json"
	DefaultDotfilesRemote  = "https://raw.githubusercontent.com/Sampong-Starluck/Sampong_dotfile/master/dotfiles"
	DefaultAppsFile        = "json/apps.json"
	DefaultShellsFile      = "json/shells.json"
	DefaultFetchTimeout    = 5 * time.Second
	DefaultCommand         = "winget"
	DefaultInstallerURL    = "https://github.com/microsoft/winget-cli/releases/latest/download/Microsoft.DesktopAppInstaller_8wekyb3d8bbwe.msixbundle"
	DefaultReleaseRepo     = "microsoft/winget-cli"
	DefaultLookupTimeout   = 5 * time.Second
	DefaultDotfileDirName  = "Sampong_dotfile"
	DefaultSourceDir       = "dotfiles"
	DefaultTheme           = "zash.omp.json"
	DefaultProbeTimeout    = 1 * time.Second
	DefaultLogLevel        = "info"
	DefaultLogMaxFiles     = 10
	DefaultLogMaxAge       = 7 * 24 * time.Hour
	DefaultJournalFileName = "journal.db"
	defaultDataDirName     = ".devboot"
)

// NewConfig returns a new Config with default values applied.
func NewConfig() *Config {
	return &Config{
		DataDir: defaultDataDir(),
		Catalog: CatalogConfig{
			RemoteBase:   DefaultRemoteBase,
			AppsFile:     DefaultAppsFile,
			ShellsFile:   DefaultShellsFile,
			FetchTimeout: DefaultFetchTimeout,
		},
		PackageManager: PackageManagerConfig{
			Command:       DefaultCommand,
			InstallerURL:  DefaultInstallerURL,
			ReleaseRepo:   DefaultReleaseRepo,
			LookupTimeout: DefaultLookupTimeout,
		},
		Profiles: ProfilesConfig{
			DotfileRoot: defaultDotfileRoot(),
			SourceDir:   DefaultSourceDir,
			RemoteBase:  DefaultDotfilesRemote,
			Reset:       true,
			Theme:       DefaultTheme,
		},
		Network: NetworkConfig{
			ProbeTimeout: DefaultProbeTimeout,
		},
		Logging: LoggingConfig{
			Level:    DefaultLogLevel,
			MaxFiles: DefaultLogMaxFiles,
			MaxAge:   DefaultLogMaxAge,
		},
		Journal: JournalConfig{
			Enabled: true,
		},
	}
}

// ApplyDefaults fills unset fields and derives paths that depend on DataDir.
// Booleans are left alone; the loader starts from NewConfig so their
// defaults are already in place.
func (c *Config) ApplyDefaults() {
	defaults := NewConfig()

	if c.DataDir == "" {
		c.DataDir = defaults.DataDir
	}

	if c.Catalog.RemoteBase == "" {
		c.Catalog.RemoteBase = defaults.Catalog.RemoteBase
	}
	if c.Catalog.AppsFile == "" {
		c.Catalog.AppsFile = defaults.Catalog.AppsFile
	}
	if c.Catalog.ShellsFile == "" {
		c.Catalog.ShellsFile = defaults.Catalog.ShellsFile
	}
	if c.Catalog.FetchTimeout == 0 {
		c.Catalog.FetchTimeout = defaults.Catalog.FetchTimeout
	}

	if c.PackageManager.Command == "" {
		c.PackageManager.Command = defaults.PackageManager.Command
	}
	if c.PackageManager.InstallerURL == "" {
		c.PackageManager.InstallerURL = defaults.PackageManager.InstallerURL
	}
	if c.PackageManager.ReleaseRepo == "" {
		c.PackageManager.ReleaseRepo = defaults.PackageManager.ReleaseRepo
	}
	if c.PackageManager.LookupTimeout == 0 {
		c.PackageManager.LookupTimeout = defaults.PackageManager.LookupTimeout
	}

	if c.Profiles.DotfileRoot == "" {
		c.Profiles.DotfileRoot = defaults.Profiles.DotfileRoot
	}
	if c.Profiles.SourceDir == "" {
		c.Profiles.SourceDir = defaults.Profiles.SourceDir
	}
	if c.Profiles.Theme == "" {
		c.Profiles.Theme = defaults.Profiles.Theme
	}

	if c.Network.ProbeURL == "" {
		c.Network.ProbeURL = c.Catalog.AppsURL()
	}
	if c.Network.ProbeTimeout == 0 {
		c.Network.ProbeTimeout = defaults.Network.ProbeTimeout
	}

	if c.Logging.Level == "" {
		c.Logging.Level = defaults.Logging.Level
	}
	if c.Logging.Dir == "" {
		c.Logging.Dir = filepath.Join(c.DataDir, "logs")
	}
	if c.Logging.MaxFiles == 0 {
		c.Logging.MaxFiles = defaults.Logging.MaxFiles
	}
	if c.Logging.MaxAge == 0 {
		c.Logging.MaxAge = defaults.Logging.MaxAge
	}

	if c.Journal.Path == "" {
		c.Journal.Path = filepath.Join(c.DataDir, DefaultJournalFileName)
	}
}

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []*ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}
	msg := "multiple validation errors:"
	for _, err := range e {
		msg += "\n  - " + err.Error()
	}
	return msg
}

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	var errs ValidationErrors

	if c.Catalog.FetchTimeout < 0 {
		errs = append(errs, &ValidationError{Field: "catalog.fetch_timeout", Message: "must be non-negative"})
	}
	if c.Network.ProbeTimeout < 0 {
		errs = append(errs, &ValidationError{Field: "network.probe_timeout", Message: "must be non-negative"})
	}
	if c.PackageManager.LookupTimeout < 0 {
		errs = append(errs, &ValidationError{Field: "package_manager.lookup_timeout", Message: "must be non-negative"})
	}
	if c.Logging.MaxFiles < 0 {
		errs = append(errs, &ValidationError{Field: "logging.max_files", Message: "must be non-negative"})
	}

	for field, raw := range map[string]string{
		"catalog.remote_base":           c.Catalog.RemoteBase,
		"profiles.remote_base":          c.Profiles.RemoteBase,
		"package_manager.installer_url": c.PackageManager.InstallerURL,
		"network.probe_url":             c.Network.ProbeURL,
	} {
		if raw == "" {
			continue
		}
		if err := validateURL(raw); err != nil {
			errs = append(errs, &ValidationError{Field: field, Message: err.Error()})
		}
	}

	if c.PackageManager.ReleaseRepo != "" && strings.Count(c.PackageManager.ReleaseRepo, "/") != 1 {
		errs = append(errs, &ValidationError{
			Field:   "package_manager.release_repo",
			Message: "must be in 'owner/repo' form",
		})
	}

	switch strings.ToLower(c.Logging.Level) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, &ValidationError{
			Field:   "logging.level",
			Message: "must be 'debug', 'info', 'warn', or 'error'",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func validateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid URL: %v", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("must be an http or https URL")
	}
	if u.Host == "" {
		return fmt.Errorf("missing host")
	}
	return nil
}

func joinURL(base, name string) string {
	return strings.TrimRight(base, "/") + "/" + name
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return defaultDataDirName
	}
	return filepath.Join(home, defaultDataDirName)
}

// defaultDotfileRoot is %APPDATA%\Sampong_dotfile on Windows and
// ~/.config/Sampong_dotfile elsewhere.
func defaultDotfileRoot() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return DefaultDotfileDirName
	}
	return filepath.Join(dir, DefaultDotfileDirName)
}
