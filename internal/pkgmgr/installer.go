package pkgmgr

import (
	"context"
	"time"

	"github.com/wexinc/devboot/internal/config"
	"github.com/wexinc/devboot/internal/logging"
	"github.com/wexinc/devboot/internal/version"
)

// InstallerSuffix identifies the installer asset in a release.
const InstallerSuffix = ".msixbundle"

// ReleaseLookup fetches the latest release of the package manager.
type ReleaseLookup interface {
	GetLatestRelease(ctx context.Context) (*version.Release, error)
}

// Installer locates the manual installer for the package manager.
type Installer struct {
	Releases  ReleaseLookup
	StaticURL string
	Timeout   time.Duration
}

// NewInstaller creates an installer locator backed by the GitHub releases API.
func NewInstaller(cfg config.PackageManagerConfig) *Installer {
	static := cfg.InstallerURL
	if static == "" {
		static = config.DefaultInstallerURL
	}
	timeout := cfg.LookupTimeout
	if timeout <= 0 {
		timeout = config.DefaultLookupTimeout
	}
	repo := cfg.ReleaseRepo
	if repo == "" {
		repo = config.DefaultReleaseRepo
	}
	return &Installer{
		Releases:  version.NewChecker(repo, timeout),
		StaticURL: static,
		Timeout:   timeout,
	}
}

// LatestURL returns the installer asset of the latest release, or the static
// URL when the lookup fails or the release has no installer asset.
func (i *Installer) LatestURL(ctx context.Context) string {
	if i.Releases == nil {
		return i.StaticURL
	}
	if i.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, i.Timeout)
		defer cancel()
	}

	release, err := i.Releases.GetLatestRelease(ctx)
	if err != nil {
		logging.Warn("latest installer lookup failed, using static URL", "error", err)
		return i.StaticURL
	}
	asset, ok := release.FindAsset(InstallerSuffix)
	if !ok {
		logging.Warn("latest release has no installer asset", "tag", release.TagName)
		return i.StaticURL
	}
	logging.Debug("resolved installer", "tag", release.TagName, "asset", asset.Name)
	return asset.BrowserDownloadURL
}

// Latest returns the latest release, for update checks against an installed
// package manager.
func (i *Installer) Latest(ctx context.Context) (*version.Release, error) {
	if i.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, i.Timeout)
		defer cancel()
	}
	return i.Releases.GetLatestRelease(ctx)
}
