package profile

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/wexinc/devboot/internal/config"
	devbooterrors "github.com/wexinc/devboot/internal/errors"
)

// Env locates the files the routines touch.
type Env struct {
	// DotfileRoot receives the managed main profiles.
	DotfileRoot string
	// Home is the user's home directory (~/.bashrc).
	Home string
	// NushellDir holds env.nu and config.nu.
	NushellDir string
	// PowerShellProfile is the PowerShell user profile script.
	PowerShellProfile string
	// Reset overwrites each shell's own config file before adding includes.
	Reset bool
	// Theme is the prompt theme nushell loads.
	Theme string
}

// NewEnv derives the platform locations from the user's directories. It
// fails when the home directory is unknown.
func NewEnv(cfg config.ProfilesConfig) (Env, error) {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return Env{}, devbooterrors.HomeDirUnavailable(err)
	}
	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir = filepath.Join(home, ".config")
	}

	ps := filepath.Join(home, ".config", "powershell", "Microsoft.PowerShell_profile.ps1")
	if runtime.GOOS == "windows" {
		ps = filepath.Join(home, "Documents", "PowerShell", "Microsoft.PowerShell_profile.ps1")
	}

	theme := cfg.Theme
	if theme == "" {
		theme = config.DefaultTheme
	}

	return Env{
		DotfileRoot:       cfg.DotfileRoot,
		Home:              home,
		NushellDir:        filepath.Join(configDir, "nushell"),
		PowerShellProfile: ps,
		Reset:             cfg.Reset,
		Theme:             theme,
	}, nil
}

// Routine configures one shell. Plan computes every file it would write
// without touching the filesystem.
type Routine struct {
	ID   string
	Name string
	Plan func(ctx context.Context, env Env, src Source) ([]Change, error)
}

var routines = map[string]Routine{
	"bash":       {ID: "bash", Name: "Bash", Plan: planBash},
	"nushell":    {ID: "nushell", Name: "NuShell", Plan: planNushell},
	"powershell": {ID: "powershell", Name: "PowerShell", Plan: planPowerShell},
}

// Lookup returns the routine for id, matched case-insensitively.
func Lookup(id string) (Routine, bool) {
	r, ok := routines[strings.ToLower(strings.TrimSpace(id))]
	return r, ok
}

// KnownIDs returns the ids that have a routine, sorted.
func KnownIDs() []string {
	ids := make([]string, 0, len(routines))
	for id := range routines {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// ownConfig builds the content of a shell's own config file: a fresh header
// when resetting, the current content otherwise, plus the include lines.
func ownConfig(path, header string, lines []string, reset bool) (Change, error) {
	base := header
	if !reset {
		current, err := readOptional(path)
		if err != nil {
			return Change{}, err
		}
		base = current
	}
	content, _ := MergeManaged(base, lines)
	return Change{Path: path, Content: content}, nil
}

func mainProfile(ctx context.Context, env Env, src Source, rel string) (Change, error) {
	content, err := src.ReadDotfile(ctx, rel)
	if err != nil {
		return Change{}, err
	}
	return Change{
		Path:    filepath.Join(env.DotfileRoot, filepath.FromSlash(rel)),
		Content: content,
	}, nil
}

func planBash(ctx context.Context, env Env, src Source) ([]Change, error) {
	main, err := mainProfile(ctx, env, src, "bash/main.sh")
	if err != nil {
		return nil, err
	}
	rc, err := ownConfig(filepath.Join(env.Home, ".bashrc"), "# Bash configuration\n", []string{
		"# Source Sampong bash customizations",
		`source "` + filepath.ToSlash(main.Path) + `"`,
	}, env.Reset)
	if err != nil {
		return nil, err
	}
	return []Change{main, rc}, nil
}

func planNushell(ctx context.Context, env Env, src Source) ([]Change, error) {
	main, err := mainProfile(ctx, env, src, "nu/main_profile.nu")
	if err != nil {
		return nil, err
	}
	use := "use " + filepath.ToSlash(main.Path)

	envNu, err := ownConfig(filepath.Join(env.NushellDir, "env.nu"), "# NuShell environment config\n", []string{
		"$env.config.show_banner = false",
		use,
		`load_theme "` + env.Theme + `"`,
	}, env.Reset)
	if err != nil {
		return nil, err
	}
	confNu, err := ownConfig(filepath.Join(env.NushellDir, "config.nu"), "# NuShell main config\n", []string{
		use,
		"main_profile startup",
	}, env.Reset)
	if err != nil {
		return nil, err
	}
	return []Change{main, envNu, confNu}, nil
}

func planPowerShell(ctx context.Context, env Env, src Source) ([]Change, error) {
	main, err := mainProfile(ctx, env, src, "PowerShell/posh_profile.ps1")
	if err != nil {
		return nil, err
	}
	prof, err := ownConfig(env.PowerShellProfile, "# PowerShell main configuration\n", []string{
		`Import-Module (Resolve-Path "` + main.Path + `")`,
		"Import-Module -Name Microsoft.WinGet.CommandNotFound",
		`Invoke-Expression "$(vfox activate pwsh)"`,
	}, env.Reset)
	if err != nil {
		return nil, err
	}
	return []Change{main, prof}, nil
}
