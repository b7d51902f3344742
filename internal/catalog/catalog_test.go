package catalog

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wexinc/devboot/internal/config"
	devbooterrors "github.com/wexinc/devboot/internal/errors"
)

const appsJSON = `[
  {"section": "Dev", "apps": [
    {"id": "Git.Git", "name": "Git"},
    {"id": "Microsoft.VisualStudioCode", "name": "VS Code"}
  ]},
  {"section": "Browsers", "apps": [
    {"id": "Mozilla.Firefox", "name": "Firefox"}
  ]}
]`

func TestParseApps_List(t *testing.T) {
	cat, err := ParseApps([]byte(appsJSON), "apps.json")
	require.NoError(t, err)

	require.Len(t, cat.Entries, 5)
	assert.Equal(t, GroupHeader("Dev"), cat.Entries[0])
	assert.Equal(t, "section-all-Dev", cat.Entries[0].ID)
	assert.Equal(t, "-- All in Dev --", cat.Entries[0].Name)
	assert.Equal(t, CatalogEntry{ID: "Git.Git", Name: "Git", Section: "Dev"}, cat.Entries[1])
	assert.True(t, cat.Entries[3].IsGroupHeader)
	assert.Equal(t, "Browsers", cat.Entries[4].Section)

	assert.Equal(t, []string{"Dev", "Browsers"}, cat.Sections())
	assert.Len(t, cat.Installable(), 3)
	assert.Empty(t, cat.Warnings)
}

func TestParseApps_Envelope(t *testing.T) {
	doc := `{"apps": [{"section": "Tools", "apps": [{"id": "7zip.7zip", "name": "7-Zip"}]}]}`

	cat, err := ParseApps([]byte(doc), "apps.json")
	require.NoError(t, err)
	require.Len(t, cat.Entries, 2)

	entry, ok := cat.Find("7zip.7zip")
	assert.True(t, ok)
	assert.Equal(t, "Tools", entry.Section)
}

func TestParseApps_YAML(t *testing.T) {
	doc := `
- section: Dev
  apps:
    - id: Git.Git
      name: Git
`
	cat, err := ParseApps([]byte(doc), "apps.yaml")
	require.NoError(t, err)
	assert.Len(t, cat.Installable(), 1)
}

func TestParseApps_InvalidDocument(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"empty", ""},
		{"scalar", `"oops"`},
		{"object without apps", `{"sections": []}`},
		{"unknown envelope field", `{"apps": [], "extra": 1}`},
		{"syntax error", `[{"section": "Dev",`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseApps([]byte(tt.doc), "apps.json")
			require.Error(t, err)
			assert.True(t, devbooterrors.Is(err, devbooterrors.ErrCatalog))
		})
	}
}

func TestParseApps_SkipsMalformedRecords(t *testing.T) {
	doc := `[
  {"section": "Dev", "apps": [
    {"id": "Git.Git", "name": "Git"},
    {"id": "NoName"},
    {"id": "Extra.Field", "name": "Extra", "version": "1.0"},
    {"id": "Git.Git", "name": "Git again"}
  ]},
  {"apps": []},
  "not a section"
]`

	cat, err := ParseApps([]byte(doc), "apps.json")
	require.NoError(t, err)

	assert.Len(t, cat.Installable(), 1)
	assert.Len(t, cat.Warnings, 5)
}

func TestParseShells_SortsByOrder(t *testing.T) {
	doc := `[
  {"id": "c", "name": "C", "function": "configure_c", "order": 3},
  {"id": "a", "name": "A", "function": "configure_a", "order": 1},
  {"id": "x", "name": "X", "function": "configure_x"},
  {"id": "b", "name": "B", "function": "configure_b", "order": 2}
]`

	cat, err := ParseShells([]byte(doc), "shells.json")
	require.NoError(t, err)

	var ids []string
	for _, s := range cat.Visible() {
		ids = append(ids, s.ID)
	}
	assert.Equal(t, []string{"a", "b", "c", "x"}, ids)
	assert.Equal(t, DefaultShellOrder, cat.Shells[3].Order)
}

func TestParseShells_StableForEqualOrder(t *testing.T) {
	doc := `[
  {"id": "first", "name": "1", "function": "f"},
  {"id": "second", "name": "2", "function": "f"},
  {"id": "third", "name": "3", "function": "f"}
]`

	cat, err := ParseShells([]byte(doc), "shells.json")
	require.NoError(t, err)
	assert.Equal(t, "first", cat.Shells[0].ID)
	assert.Equal(t, "third", cat.Shells[2].ID)
}

func TestParseShells_Envelope(t *testing.T) {
	doc := `{
  "version": "2.1",
  "shells": [
    {"id": "all", "name": "All shells", "function": "configure_all", "order": 0},
    {"id": "bash", "name": "Bash", "function": "configure_bash", "order": 2,
     "description": "GNU Bash", "requires": ["git"]},
    {"id": "fish", "name": "Fish", "function": "configure_fish", "hidden": true},
    {"id": "nushell", "name": "NuShell", "function": "configure_nushell", "order": 1}
  ]
}`

	cat, err := ParseShells([]byte(doc), "shells.json")
	require.NoError(t, err)

	assert.Equal(t, "2.1", cat.Version)
	assert.Len(t, cat.Shells, 4)
	assert.Len(t, cat.Visible(), 3)

	configurable := cat.Configurable()
	require.Len(t, configurable, 2)
	assert.Equal(t, "nushell", configurable[0].ID)
	assert.Equal(t, "bash", configurable[1].ID)
	assert.Equal(t, []string{"git"}, configurable[1].Requires)

	bash, ok := cat.Find("BASH")
	assert.True(t, ok)
	assert.Equal(t, "GNU Bash", bash.Description)
}

func TestParseShells_SkipsMalformedRecords(t *testing.T) {
	doc := `[
  {"id": "bash", "name": "Bash", "function": "configure_bash"},
  {"id": "nofn", "name": "No function"},
  {"id": "odd", "name": "Odd", "function": "f", "colour": "red"},
  {"id": "BASH", "name": "Dup", "function": "f"},
  42
]`

	cat, err := ParseShells([]byte(doc), "shells.json")
	require.NoError(t, err)

	require.Len(t, cat.Shells, 1)
	assert.Equal(t, "bash", cat.Shells[0].ID)
	assert.Len(t, cat.Warnings, 4)
	assert.Contains(t, cat.Warnings[0], "function")
}

func TestParseShells_MalformedOptionalFieldsUseDefaults(t *testing.T) {
	doc := `[
  {"id": "bash", "name": "Bash", "function": "configure_bash", "order": "first"},
  {"id": "nushell", "name": "Nu", "function": "configure_nushell", "order": "2"},
  {"id": "pwsh", "name": "PowerShell", "function": "configure_pwsh", "hidden": "maybe"},
  {"id": "zsh", "name": "Zsh", "function": "configure_zsh", "order": 1, "hidden": null}
]`

	cat, err := ParseShells([]byte(doc), "shells.json")
	require.NoError(t, err)

	require.Len(t, cat.Shells, 4)
	assert.Empty(t, cat.Warnings)
	assert.Equal(t, "zsh", cat.Shells[0].ID)
	assert.Equal(t, 1, cat.Shells[0].Order)

	for _, id := range []string{"bash", "nushell", "pwsh"} {
		sh, ok := cat.Find(id)
		require.True(t, ok, id)
		assert.Equal(t, DefaultShellOrder, sh.Order, id)
		assert.False(t, sh.Hidden, id)
	}
}

func TestParseShells_MissingShellsKey(t *testing.T) {
	_, err := ParseShells([]byte(`{"version": "1"}`), "shells.json")
	require.Error(t, err)
	assert.True(t, devbooterrors.Is(err, devbooterrors.ErrCatalog))
}

type fakeFetcher struct {
	data  map[string]string
	err   error
	calls []string
}

func (f *fakeFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	f.calls = append(f.calls, url)
	if f.err != nil {
		return nil, f.err
	}
	d, ok := f.data[url]
	if !ok {
		return nil, devbooterrors.FetchFailed(url, 404)
	}
	return []byte(d), nil
}

func writeCatalogs(t *testing.T) config.CatalogConfig {
	t.Helper()
	dir := t.TempDir()
	apps := filepath.Join(dir, "apps.json")
	shells := filepath.Join(dir, "shells.json")
	require.NoError(t, os.WriteFile(apps, []byte(appsJSON), 0o644))
	require.NoError(t, os.WriteFile(shells, []byte(`[{"id": "bash", "name": "Bash", "function": "configure_bash"}]`), 0o644))
	return config.CatalogConfig{
		RemoteBase: "https://example.com/json",
		AppsFile:   apps,
		ShellsFile: shells,
	}
}

func TestLoader_LocalByDefault(t *testing.T) {
	cfg := writeCatalogs(t)
	fetcher := &fakeFetcher{}

	l := NewLoader(cfg, fetcher)
	cat, err := l.LoadApps(context.Background())
	require.NoError(t, err)

	assert.Equal(t, cfg.AppsFile, cat.Source)
	assert.Empty(t, fetcher.calls, "offline mode must not touch the network")
}

func TestLoader_RemoteWhenOnline(t *testing.T) {
	cfg := writeCatalogs(t)
	cfg.Online = true
	fetcher := &fakeFetcher{data: map[string]string{
		"https://example.com/json/shells.json": `{"version": "9", "shells": [{"id": "nushell", "name": "Nu", "function": "f"}]}`,
	}}

	cat, err := NewLoader(cfg, fetcher).LoadShells(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "https://example.com/json/shells.json", cat.Source)
	assert.Equal(t, "9", cat.Version)
}

func TestLoader_RemoteFailureFallsBackToLocal(t *testing.T) {
	cfg := writeCatalogs(t)
	cfg.Online = true
	fetcher := &fakeFetcher{err: devbooterrors.NetworkUnavailable("example.com", errors.New("dial tcp: refused"))}

	var warnings []string
	l := NewLoader(cfg, fetcher)
	l.Warn = func(msg string) { warnings = append(warnings, msg) }

	cat, err := l.LoadShells(context.Background())
	require.NoError(t, err)

	assert.Equal(t, cfg.ShellsFile, cat.Source)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "falling back to local")
}

func TestLoader_UnparsableRemoteFallsBackToLocal(t *testing.T) {
	cfg := writeCatalogs(t)
	cfg.Online = true
	fetcher := &fakeFetcher{data: map[string]string{
		"https://example.com/json/shells.json": "<html><body>Sign in to the network</body></html>",
		"https://example.com/json/apps.json":   `[{"section": "Dev", "apps": [`,
	}}

	var warnings []string
	l := NewLoader(cfg, fetcher)
	l.Warn = func(msg string) { warnings = append(warnings, msg) }

	shells, err := l.LoadShells(context.Background())
	require.NoError(t, err)
	assert.Equal(t, cfg.ShellsFile, shells.Source)
	require.Len(t, shells.Shells, 1)
	assert.Equal(t, "bash", shells.Shells[0].ID)

	apps, err := l.LoadApps(context.Background())
	require.NoError(t, err)
	assert.Equal(t, cfg.AppsFile, apps.Source)
	assert.Len(t, apps.Installable(), 3)

	require.Len(t, warnings, 2)
	for _, w := range warnings {
		assert.Contains(t, w, "falling back to local")
	}
}

func TestLoader_UnparsableRemoteWithoutLocalIsFatal(t *testing.T) {
	cfg := config.CatalogConfig{
		RemoteBase: "https://example.com/json",
		ShellsFile: filepath.Join(t.TempDir(), "missing.json"),
		Online:     true,
	}
	fetcher := &fakeFetcher{data: map[string]string{
		"https://example.com/json/shells.json": "<html></html>",
	}}

	_, err := NewLoader(cfg, fetcher).LoadShells(context.Background())
	require.Error(t, err)
	assert.True(t, devbooterrors.Is(err, devbooterrors.ErrCatalog))
	assert.Contains(t, err.Error(), "not found")
}

func TestLoader_ForceLocalSkipsRemote(t *testing.T) {
	cfg := writeCatalogs(t)
	cfg.Online = true
	cfg.ForceLocal = true
	fetcher := &fakeFetcher{}

	_, err := NewLoader(cfg, fetcher).LoadApps(context.Background())
	require.NoError(t, err)
	assert.Empty(t, fetcher.calls)
}

func TestLoader_BothMissingIsFatal(t *testing.T) {
	cfg := config.CatalogConfig{
		RemoteBase: "https://example.com/json",
		AppsFile:   filepath.Join(t.TempDir(), "missing.json"),
		Online:     true,
	}
	fetcher := &fakeFetcher{err: devbooterrors.NetworkUnavailable("example.com", nil)}

	_, err := NewLoader(cfg, fetcher).LoadApps(context.Background())
	require.Error(t, err)
	assert.True(t, devbooterrors.Is(err, devbooterrors.ErrCatalog))
	assert.Contains(t, err.Error(), "not found")
}

func TestLoader_CancelledFetchDoesNotFallBack(t *testing.T) {
	cfg := writeCatalogs(t)
	cfg.Online = true
	fetcher := &fakeFetcher{err: devbooterrors.OperationCancelled("fetch")}

	_, err := NewLoader(cfg, fetcher).LoadApps(context.Background())
	require.Error(t, err)
	assert.True(t, devbooterrors.IsCancelled(err))
}
