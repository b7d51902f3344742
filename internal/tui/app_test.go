package tui

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/wexinc/devboot/internal/app"
	"github.com/wexinc/devboot/internal/catalog"
	devbooterrors "github.com/wexinc/devboot/internal/errors"
	"github.com/wexinc/devboot/internal/tui/components"
)

type fakeActions struct {
	mu      sync.Mutex
	release chan struct{}
	apps    []string
	shells  []string
	pm      int
	runAll  int
}

func (f *fakeActions) wait(ctx context.Context) {
	if f.release == nil {
		return
	}
	select {
	case <-f.release:
	case <-ctx.Done():
	}
}

func (f *fakeActions) InstallPackageManager(ctx context.Context) bool {
	f.mu.Lock()
	f.pm++
	f.mu.Unlock()
	return true
}

func (f *fakeActions) InstallApplications(ctx context.Context, entries []catalog.CatalogEntry) *app.Report {
	f.wait(ctx)
	f.mu.Lock()
	defer f.mu.Unlock()
	r := &app.Report{Kind: "app"}
	for _, e := range entries {
		f.apps = append(f.apps, e.ID)
		r.Outcomes = append(r.Outcomes, app.Outcome{ID: e.ID, Success: true})
	}
	r.Cancelled = ctx.Err() != nil
	return r
}

func (f *fakeActions) ConfigureShells(ctx context.Context, entries []catalog.ShellEntry) *app.Report {
	f.mu.Lock()
	defer f.mu.Unlock()
	r := &app.Report{Kind: "shell"}
	for _, s := range entries {
		f.shells = append(f.shells, s.ID)
		r.Outcomes = append(r.Outcomes, app.Outcome{ID: s.ID, Success: true})
	}
	return r
}

func (f *fakeActions) RunAll(ctx context.Context) (*app.RunSummary, error) {
	f.mu.Lock()
	f.runAll++
	f.mu.Unlock()
	return &app.RunSummary{PackageManager: true, Apps: &app.Report{}, Shells: &app.Report{}}, nil
}

type fakeCatalogs struct {
	err error
}

func (f fakeCatalogs) LoadApps(context.Context) (*catalog.AppCatalog, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &catalog.AppCatalog{Entries: []catalog.CatalogEntry{
		catalog.GroupHeader("Dev"),
		{ID: "Git.Git", Name: "Git", Section: "Dev"},
		{ID: "Go.Go", Name: "Go", Section: "Dev"},
	}}, nil
}

func (f fakeCatalogs) LoadShells(context.Context) (*catalog.ShellCatalog, error) {
	return &catalog.ShellCatalog{Shells: []catalog.ShellEntry{
		{ID: "all", Name: "All", Function: "all"},
		{ID: "bash", Name: "Bash", Function: "configure_bash", Order: 1},
		{ID: "secret", Name: "Secret", Function: "x", Hidden: true, Order: 2},
	}}, nil
}

func newTestModel(t *testing.T, actions *fakeActions) (*Model, *recordingSender, *Worker) {
	t.Helper()
	sender := &recordingSender{}
	w := NewWorker(context.Background())
	w.SetSender(sender)
	m := New(Options{Actions: actions, Catalogs: fakeCatalogs{}, Worker: w, PMName: "winget"})
	m.Update(tea.WindowSizeMsg{Width: 140, Height: 40})
	m.Update(m.loadCatalogs())
	return m, sender, w
}

func keyRune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestModel_LoadsCatalogsIntoPanels(t *testing.T) {
	m, _, _ := newTestModel(t, &fakeActions{})

	if m.apps.Len() != 2 {
		t.Errorf("apps panel has %d items, want 2", m.apps.Len())
	}
	if m.shells.Len() != 1 {
		t.Errorf("shells panel has %d items, want 1 (meta and hidden dropped)", m.shells.Len())
	}
	view := m.View()
	for _, want := range []string{"Applications (0/2)", "Shells (0/1)", "Bash", "Install selected apps", "Loaded 2 apps and 1 shells"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestModel_CatalogErrorShown(t *testing.T) {
	m := New(Options{Actions: &fakeActions{}, Catalogs: fakeCatalogs{err: devbooterrors.CatalogNotFound("json/apps.json")}})
	m.Update(m.loadCatalogs())

	if got := m.statusBar.Data(); got.MessageLevel != components.LevelError || !strings.Contains(got.Message, "not found") {
		t.Errorf("status = %#v", got)
	}
}

func TestModel_InstallRequiresSelection(t *testing.T) {
	actions := &fakeActions{}
	m, _, w := newTestModel(t, actions)

	m.Update(keyRune('i'))
	if w.Busy() {
		t.Fatal("nothing selected, no batch should start")
	}
	if !strings.Contains(m.statusBar.Data().Message, "select at least one app") {
		t.Errorf("status = %q", m.statusBar.Data().Message)
	}

	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m.Update(keyRune('c'))
	if !strings.Contains(m.statusBar.Data().Message, "select at least one shell") {
		t.Errorf("status = %q", m.statusBar.Data().Message)
	}
}

func TestModel_InstallSelectedApps(t *testing.T) {
	actions := &fakeActions{}
	m, sender, w := newTestModel(t, actions)

	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}) // Go
	_, cmd := m.Update(keyRune('i'))
	if cmd == nil {
		t.Error("starting a batch should start the spinner")
	}
	w.Wait()

	if len(actions.apps) != 1 || actions.apps[0] != "Go.Go" {
		t.Fatalf("installed %v, want [Go.Go]", actions.apps)
	}

	done, ok := sender.done()
	if !ok {
		t.Fatal("no BatchDoneMsg")
	}
	m.Update(done)
	status := m.statusBar.Data()
	if status.Busy || status.MessageLevel != components.LevelSuccess || !strings.Contains(status.Message, "1 passed, 0 failed") {
		t.Errorf("status after batch = %#v", status)
	}
	if m.actionBar.Disabled() {
		t.Error("actions should be enabled again")
	}
}

func TestModel_BusyGuardRejectsSecondBatch(t *testing.T) {
	actions := &fakeActions{release: make(chan struct{})}
	m, _, w := newTestModel(t, actions)

	m.Update(keyRune('a')) // select all apps
	m.Update(keyRune('i'))
	if !w.Busy() {
		t.Fatal("batch should be running")
	}
	if !m.actionBar.Disabled() {
		t.Error("action bar should be disabled while busy")
	}

	m.Update(keyRune('r'))
	if !strings.Contains(m.statusBar.Data().Message, "Busy: Installing apps is still running") {
		t.Errorf("status = %q", m.statusBar.Data().Message)
	}

	close(actions.release)
	w.Wait()

	if actions.runAll != 0 {
		t.Error("run all must not have started while busy")
	}
	if len(actions.apps) != 2 {
		t.Errorf("installed %v, want both apps", actions.apps)
	}
}

func TestModel_ConfigureSelectedShells(t *testing.T) {
	actions := &fakeActions{}
	m, _, w := newTestModel(t, actions)

	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	if m.Focused() != FocusShells {
		t.Fatalf("focus = %v, want shells", m.Focused())
	}
	m.Update(keyRune('x'))
	m.Update(keyRune('c'))
	w.Wait()

	if len(actions.shells) != 1 || actions.shells[0] != "bash" {
		t.Errorf("configured %v, want [bash]", actions.shells)
	}
}

func TestModel_ProgressAndOutput(t *testing.T) {
	m, _, _ := newTestModel(t, &fakeActions{})

	m.Update(ProgressMsg{Progress: app.Progress{Index: 2, Total: 4, ItemPercent: 50, Message: "Downloading 5.0 / 10.0 MB", Line: "Downloading https://example.test/go.msi"}})
	data := m.progress.Data()
	if data.Percent != 37 || data.Index != 2 || data.Total != 4 {
		t.Errorf("progress = %#v, want 37%% at 2/4", data)
	}
	if !strings.Contains(m.logView.Content(), "Downloading https://example.test/go.msi") {
		t.Error("package manager line should reach the log")
	}

	m.Update(ProgressMsg{Progress: app.Progress{Index: 2, Total: 4, Done: true, Success: true}})
	if m.progress.Data().Percent != 50 {
		t.Errorf("done item percent = %d, want 50", m.progress.Data().Percent)
	}

	m.Update(OutputMsg{Line: "   [OK]"})
	if !strings.HasSuffix(m.logView.Content(), "   [OK]") {
		t.Error("output line should be appended")
	}
}

func TestModel_BatchErrors(t *testing.T) {
	m, _, _ := newTestModel(t, &fakeActions{})

	m.Update(BatchDoneMsg{Activity: "Running all steps", Err: devbooterrors.OperationCancelled("run all")})
	if got := m.statusBar.Data(); got.MessageLevel != components.LevelWarning || !strings.Contains(got.Message, "cancelled") {
		t.Errorf("status = %#v", got)
	}

	m.Update(BatchDoneMsg{Activity: "Running all steps", Err: errors.New("boom\nmore detail")})
	if got := m.statusBar.Data(); got.MessageLevel != components.LevelError || got.Message != "❌ Error: boom" {
		t.Errorf("status = %#v", got)
	}
}

func TestModel_QuitWhileBusyAsks(t *testing.T) {
	actions := &fakeActions{release: make(chan struct{})}
	m, _, w := newTestModel(t, actions)

	m.Update(keyRune('a'))
	m.Update(keyRune('i'))

	_, cmd := m.Update(keyRune('q'))
	if cmd != nil || !m.confirm.IsVisible() {
		t.Fatal("quitting while busy should ask first")
	}

	_, cmd = m.Update(keyRune('y'))
	msg := cmd()
	_, cmd = m.Update(msg)
	if cmd == nil {
		t.Fatal("confirming should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.Quit")
	}
	w.Wait()
	if !strings.Contains(m.View(), "Goodbye") {
		t.Error("quitting view")
	}
}

func TestModel_QuitWhenIdle(t *testing.T) {
	m, _, _ := newTestModel(t, &fakeActions{})
	_, cmd := m.Update(keyRune('q'))
	if cmd == nil {
		t.Fatal("q should quit when idle")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.Quit")
	}
}

func TestModel_HelpOverlayCapturesKeys(t *testing.T) {
	actions := &fakeActions{}
	m, _, w := newTestModel(t, actions)

	m.Update(keyRune('?'))
	if !strings.Contains(m.View(), "Keyboard Shortcuts") {
		t.Fatal("help should be shown")
	}
	m.Update(keyRune('p'))
	w.Wait()
	if actions.pm != 0 {
		t.Error("keys go to the overlay while it is open")
	}
	if m.help.IsVisible() {
		t.Error("a key should close the overlay")
	}
}

func TestModel_FocusCycle(t *testing.T) {
	m, _, _ := newTestModel(t, &fakeActions{})

	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	if m.Focused() != FocusLog {
		t.Fatalf("focus = %v, want log", m.Focused())
	}
	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	if m.Focused() != FocusApps {
		t.Errorf("focus = %v, want apps", m.Focused())
	}
	m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	if m.Focused() != FocusLog {
		t.Errorf("shift+tab: focus = %v, want log", m.Focused())
	}
	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.Focused() != FocusApps {
		t.Errorf("esc from log: focus = %v, want apps", m.Focused())
	}
}
