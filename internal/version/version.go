// Package version provides build information for devboot and GitHub release
// lookups used to locate the package manager installer.
package version

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"runtime"
	"strings"
	"time"
)

// DefaultAPIBase is the GitHub REST API root.
const DefaultAPIBase = "https://api.github.com"

// releasePath is the latest-release endpoint below the API root.
const releasePath = "/repos/%s/releases/latest"

// Info contains version information about devboot.
type Info struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
	GoVer   string `json:"go_version"`
	OS      string `json:"os"`
	Arch    string `json:"arch"`
}

// NewInfo creates a new Info from the build variables.
func NewInfo(version, commit, date string) *Info {
	return &Info{
		Version: version,
		Commit:  commit,
		Date:    date,
		GoVer:   runtime.Version(),
		OS:      runtime.GOOS,
		Arch:    runtime.GOARCH,
	}
}

// String returns a formatted version string.
func (i *Info) String() string {
	return fmt.Sprintf("devboot %s (commit: %s, built: %s)", i.Version, i.Commit, i.Date)
}

// FullString returns a detailed version string.
func (i *Info) FullString() string {
	return fmt.Sprintf(`devboot %s
  Commit:   %s
  Built:    %s
  Go:       %s
  OS/Arch:  %s/%s`, i.Version, i.Commit, i.Date, i.GoVer, i.OS, i.Arch)
}

// Asset is a downloadable file attached to a release.
type Asset struct {
	Name               string `json:"name"`
	BrowserDownloadURL string `json:"browser_download_url"`
	Size               int64  `json:"size"`
}

// Release represents a GitHub release.
type Release struct {
	TagName     string  `json:"tag_name"`
	Name        string  `json:"name"`
	PublishedAt string  `json:"published_at"`
	HTMLURL     string  `json:"html_url"`
	Assets      []Asset `json:"assets"`
}

// FindAsset returns the first asset whose name ends with suffix
// (case-insensitive).
func (r *Release) FindAsset(suffix string) (Asset, bool) {
	suffix = strings.ToLower(suffix)
	for _, a := range r.Assets {
		if strings.HasSuffix(strings.ToLower(a.Name), suffix) {
			return a, true
		}
	}
	return Asset{}, false
}

// Checker looks up releases of a GitHub repository.
type Checker struct {
	HTTPClient *http.Client
	// APIBase defaults to DefaultAPIBase; tests point it at an httptest server.
	APIBase string
	Repo    string
}

// NewChecker creates a checker for repo ("owner/name") with the given
// request timeout.
func NewChecker(repo string, timeout time.Duration) *Checker {
	return &Checker{
		HTTPClient: &http.Client{Timeout: timeout},
		APIBase:    DefaultAPIBase,
		Repo:       repo,
	}
}

// GetLatestRelease fetches the latest release from GitHub.
func (c *Checker) GetLatestRelease(ctx context.Context) (*Release, error) {
	base := c.APIBase
	if base == "" {
		base = DefaultAPIBase
	}
	url := strings.TrimRight(base, "/") + fmt.Sprintf(releasePath, c.Repo)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/vnd.github.v3+json")
	req.Header.Set("User-Agent", "devboot-release-checker")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch release: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("GitHub API returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var release Release
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return nil, fmt.Errorf("failed to decode release: %w", err)
	}

	return &release, nil
}

// CheckForUpdate compares currentVersion with the latest release.
// Returns the release if it is newer, nil if current.
func (c *Checker) CheckForUpdate(ctx context.Context, currentVersion string) (*Release, error) {
	release, err := c.GetLatestRelease(ctx)
	if err != nil {
		return nil, err
	}

	if CompareVersions(release.TagName, currentVersion) > 0 {
		return release, nil
	}

	return nil, nil
}

// CompareVersions compares two semantic version strings.
// Returns: 1 if a > b, -1 if a < b, 0 if equal.
func CompareVersions(a, b string) int {
	aParts := parseVersion(a)
	bParts := parseVersion(b)

	for i := 0; i < 3; i++ {
		if aParts[i] > bParts[i] {
			return 1
		}
		if aParts[i] < bParts[i] {
			return -1
		}
	}
	return 0
}

// parseVersion parses a version string into major, minor, patch integers.
func parseVersion(v string) [3]int {
	v = strings.TrimPrefix(strings.TrimSpace(v), "v")
	parts := strings.Split(v, ".")
	var result [3]int
	for i := 0; i < 3 && i < len(parts); i++ {
		// Drop any pre-release suffix ("-rc1", "-preview").
		part := strings.Split(parts[i], "-")[0]
		fmt.Sscanf(part, "%d", &result[i])
	}
	return result
}
