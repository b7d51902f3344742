package app

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wexinc/devboot/internal/catalog"
	devbooterrors "github.com/wexinc/devboot/internal/errors"
	"github.com/wexinc/devboot/internal/journal"
	"github.com/wexinc/devboot/internal/pkgmgr"
)

type fakeManager struct {
	available bool
	fail      map[string]bool
	lines     []string
	cancel    context.CancelFunc // called on the first install when set

	installed []string
}

func (f *fakeManager) Available() bool { return f.available }

func (f *fakeManager) Install(ctx context.Context, id string, onLine func(pkgmgr.Line)) error {
	f.installed = append(f.installed, id)
	for _, text := range f.lines {
		l := pkgmgr.Line{Text: text}
		l.Progress, l.HasProgress = pkgmgr.ParseProgress(text)
		onLine(l)
	}
	if f.cancel != nil {
		f.cancel()
		return devbooterrors.OperationCancelled("install " + id)
	}
	if f.fail[id] {
		return devbooterrors.InstallFailed(id, 1, "")
	}
	return nil
}

type fakeInstaller struct{ url string }

func (f fakeInstaller) LatestURL(context.Context) string { return f.url }

type fakeShells struct {
	fail       map[string]error
	configured []string
}

func (f *fakeShells) Configure(_ context.Context, id string) ([]string, error) {
	if err, ok := f.fail[strings.ToLower(id)]; ok {
		return nil, err
	}
	switch strings.ToLower(id) {
	case "bash", "nushell", "powershell":
		f.configured = append(f.configured, id)
		return []string{"/tmp/" + id}, nil
	}
	return nil, devbooterrors.UnknownShell(id, []string{"bash", "nushell", "powershell"})
}

type fakeCatalogs struct {
	apps    *catalog.AppCatalog
	shells  *catalog.ShellCatalog
	appsErr error
}

func (f fakeCatalogs) LoadApps(context.Context) (*catalog.AppCatalog, error) {
	return f.apps, f.appsErr
}

func (f fakeCatalogs) LoadShells(context.Context) (*catalog.ShellCatalog, error) {
	return f.shells, nil
}

type memJournal struct {
	mu      sync.Mutex
	entries []journal.Entry
	err     error
}

func (m *memJournal) Record(_ context.Context, e journal.Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.entries = append(m.entries, e)
	return nil
}

func testApps() []catalog.CatalogEntry {
	return []catalog.CatalogEntry{
		catalog.GroupHeader("Dev"),
		{ID: "Git.Git", Name: "Git", Section: "Dev"},
		{ID: "Bad.App", Name: "Bad", Section: "Dev"},
		catalog.GroupHeader("Web"),
		{ID: "Mozilla.Firefox", Name: "Firefox", Section: "Web"},
	}
}

func testShells() []catalog.ShellEntry {
	return []catalog.ShellEntry{
		{ID: "all", Name: "All", Function: "all"},
		{ID: "Bash", Name: "Bash", Function: "configure_bash"},
		{ID: "fish", Name: "Fish", Function: "configure_fish"},
		{ID: "nushell", Name: "NuShell", Function: "configure_nushell"},
	}
}

type harness struct {
	d        *Dispatcher
	pm       *fakeManager
	shells   *fakeShells
	journal  *memJournal
	out      *bytes.Buffer
	progress []Progress
}

func newHarness() *harness {
	h := &harness{
		pm:      &fakeManager{available: true, fail: map[string]bool{"Bad.App": true}},
		shells:  &fakeShells{},
		journal: &memJournal{},
		out:     &bytes.Buffer{},
	}
	h.d = NewDispatcher("winget", h.pm, fakeInstaller{url: "https://example.com/installer.msixbundle"}, h.shells, fakeCatalogs{
		apps:   &catalog.AppCatalog{Entries: testApps()},
		shells: &catalog.ShellCatalog{Shells: testShells()},
	})
	h.d.Journal = h.journal
	h.d.Out = h.out
	h.d.OnProgress = func(p Progress) { h.progress = append(h.progress, p) }
	return h
}

func TestNewDispatcher(t *testing.T) {
	d := NewDispatcher("winget", nil, nil, nil, nil)
	assert.NotEmpty(t, d.RunID)
	assert.NotEqual(t, d.RunID, NewRunID())
	assert.NotNil(t, d.OnProgress)
}

func TestInstallPackageManager_Present(t *testing.T) {
	h := newHarness()

	assert.True(t, h.d.InstallPackageManager(context.Background()))
	assert.Contains(t, h.out.String(), "[OK] winget already installed.")
	require.Len(t, h.journal.entries, 1)
	assert.Equal(t, journal.KindPackageManager, h.journal.entries[0].Kind)
	assert.True(t, h.journal.entries[0].Success)
}

func TestInstallPackageManager_MissingPrintsInstaller(t *testing.T) {
	h := newHarness()
	h.pm.available = false

	assert.False(t, h.d.InstallPackageManager(context.Background()))
	assert.Contains(t, h.out.String(), "Please download and install manually: https://example.com/installer.msixbundle")
	assert.Empty(t, h.pm.installed, "never installs silently")
	require.Len(t, h.journal.entries, 1)
	assert.False(t, h.journal.entries[0].Success)
}

func TestInstallApplications(t *testing.T) {
	h := newHarness()

	report := h.d.InstallApplications(context.Background(), testApps())

	assert.Equal(t, []string{"Git.Git", "Bad.App", "Mozilla.Firefox"}, h.pm.installed, "headers are skipped, failures do not stop the batch")
	assert.Len(t, report.Outcomes, 3)
	assert.Len(t, report.Passed(), 2)
	require.Len(t, report.Failed(), 1)
	assert.Equal(t, "Bad.App", report.Failed()[0].ID)
	assert.Equal(t, "2 passed, 1 failed", report.Summary())

	out := h.out.String()
	assert.Contains(t, out, "[*] Installing 3 application(s)...")
	assert.Contains(t, out, "-> [Dev] Git (33%)")
	assert.Contains(t, out, "-> [Dev] Bad (66%)")
	assert.Contains(t, out, "-> [Web] Firefox (100%)")
	assert.Contains(t, out, "   [FAILED]")

	assert.Len(t, h.journal.entries, 3)
	for _, e := range h.journal.entries {
		assert.Equal(t, h.d.RunID, e.RunID)
		assert.Equal(t, journal.KindApp, e.Kind)
	}
}

func TestInstallApplications_ProgressEvents(t *testing.T) {
	h := newHarness()
	h.pm.lines = []string{"Found Git", "  ▓▓▓  40%"}

	h.d.InstallApplications(context.Background(), []catalog.CatalogEntry{{ID: "Git.Git", Name: "Git", Section: "Dev"}})

	require.Len(t, h.progress, 4)
	assert.Equal(t, "Installing Git", h.progress[0].Message)
	assert.Equal(t, "Found Git", h.progress[1].Line)
	assert.Equal(t, -1, h.progress[1].ItemPercent)
	assert.Equal(t, 40, h.progress[2].ItemPercent)
	last := h.progress[3]
	assert.True(t, last.Done)
	assert.True(t, last.Success)
	assert.Equal(t, 100, last.ItemPercent)
	assert.Equal(t, 1, last.Index)
	assert.Equal(t, 1, last.Total)
}

func TestInstallApplications_Empty(t *testing.T) {
	h := newHarness()

	report := h.d.InstallApplications(context.Background(), []catalog.CatalogEntry{catalog.GroupHeader("Dev")})
	assert.True(t, report.Empty())
	assert.Contains(t, h.out.String(), "No apps selected.")
	assert.Empty(t, h.pm.installed)
}

func TestInstallApplications_CancelStopsBatch(t *testing.T) {
	h := newHarness()
	ctx, cancel := context.WithCancel(context.Background())
	h.pm.cancel = cancel

	report := h.d.InstallApplications(ctx, testApps())
	assert.True(t, report.Cancelled)
	assert.Equal(t, []string{"Git.Git"}, h.pm.installed)
	assert.Len(t, h.journal.entries, 1, "journal writes survive cancellation")
}

func TestInstallApplications_JournalFailureIsNotFatal(t *testing.T) {
	h := newHarness()
	h.journal.err = errors.New("disk full")

	report := h.d.InstallApplications(context.Background(), testApps())
	assert.Len(t, report.Outcomes, 3)
}

func TestConfigureShells(t *testing.T) {
	h := newHarness()

	report := h.d.ConfigureShells(context.Background(), testShells())

	assert.Equal(t, []string{"Bash", "nushell"}, h.shells.configured)
	assert.Len(t, report.Passed(), 2)
	assert.Len(t, report.Skipped(), 2)
	assert.Empty(t, report.Failed())

	out := h.out.String()
	assert.Contains(t, out, "[SKIP] 'all' is a meta-entry, not a shell")
	assert.Contains(t, out, "[WARN] No configuration available for shell: fish")
	assert.Contains(t, out, "[OK] Successfully configured Bash")

	assert.Len(t, h.journal.entries, 2, "skipped shells are not journaled")
}

func TestConfigureShells_FailureContinues(t *testing.T) {
	h := newHarness()
	h.shells.fail = map[string]error{"bash": devbooterrors.ProfileWriteFailed("/home/.bashrc", errors.New("read-only"))}

	report := h.d.ConfigureShells(context.Background(), testShells())
	require.Len(t, report.Failed(), 1)
	assert.Equal(t, "Bash", report.Failed()[0].ID)
	assert.Equal(t, []string{"nushell"}, h.shells.configured)
	assert.Contains(t, h.out.String(), "[ERROR] Failed to configure Bash")
}

func TestConfigureShells_Empty(t *testing.T) {
	h := newHarness()

	report := h.d.ConfigureShells(context.Background(), nil)
	assert.True(t, report.Empty())
	assert.Contains(t, h.out.String(), "No shells selected.")
}

func TestRunAll(t *testing.T) {
	h := newHarness()

	sum, err := h.d.RunAll(context.Background())
	require.NoError(t, err)

	assert.True(t, sum.PackageManager)
	require.NotNil(t, sum.Apps)
	assert.Len(t, sum.Apps.Outcomes, 3)
	require.NotNil(t, sum.Shells)
	assert.Len(t, sum.Shells.Passed(), 2)

	out := h.out.String()
	assert.Contains(t, out, "[1/3] Installing winget...")
	assert.Contains(t, out, "[2/3] Installing applications...")
	assert.Contains(t, out, "[3/3] Configuring shells...")
}

func TestRunAll_NoPackageManagerSkipsApps(t *testing.T) {
	h := newHarness()
	h.pm.available = false

	sum, err := h.d.RunAll(context.Background())
	require.NoError(t, err)

	assert.False(t, sum.PackageManager)
	assert.Nil(t, sum.Apps)
	assert.Empty(t, h.pm.installed)
	require.NotNil(t, sum.Shells)
	assert.Len(t, sum.Shells.Passed(), 2)
}

func TestRunAll_CatalogErrorAborts(t *testing.T) {
	h := newHarness()
	h.d.Catalogs = fakeCatalogs{appsErr: devbooterrors.CatalogNotFound("json/apps.json")}

	_, err := h.d.RunAll(context.Background())
	assert.ErrorIs(t, err, devbooterrors.ErrCatalog)
	assert.Empty(t, h.shells.configured)
}
