// Package tui provides the full-screen dashboard: application and shell
// checklists, an action bar, batch progress and the transcript.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wexinc/devboot/internal/app"
	"github.com/wexinc/devboot/internal/catalog"
	devbooterrors "github.com/wexinc/devboot/internal/errors"
	"github.com/wexinc/devboot/internal/selector"
	"github.com/wexinc/devboot/internal/tui/components"
	"github.com/wexinc/devboot/internal/tui/styles"
)

// Actions are the batches the dashboard starts. *app.Dispatcher implements
// it.
type Actions interface {
	InstallPackageManager(ctx context.Context) bool
	InstallApplications(ctx context.Context, entries []catalog.CatalogEntry) *app.Report
	ConfigureShells(ctx context.Context, entries []catalog.ShellEntry) *app.Report
	RunAll(ctx context.Context) (*app.RunSummary, error)
}

// FocusedPane indicates which pane receives navigation keys.
type FocusedPane int

const (
	FocusApps FocusedPane = iota
	FocusShells
	FocusLog
)

// Options configure the dashboard.
type Options struct {
	Actions  Actions
	Catalogs app.CatalogSource
	Worker   *Worker
	Online   bool
	PMName   string
	RunID    string
}

// Model is the Bubble Tea model of the dashboard.
type Model struct {
	header    *components.Header
	apps      *components.Checklist
	shells    *components.Checklist
	actionBar *components.ActionBar
	progress  *components.Progress
	logView   *components.LogViewport
	statusBar *components.StatusBar
	help      *components.HelpOverlay
	confirm   *components.ConfirmDialog
	keys      components.KeyMap

	actions  Actions
	catalogs app.CatalogSource
	worker   *Worker
	pmName   string

	appCatalog   *catalog.AppCatalog
	shellCatalog *catalog.ShellCatalog

	focused   FocusedPane
	startTime time.Time
	width     int
	height    int
	quitting  bool
}

// New creates the dashboard model.
func New(opts Options) *Model {
	keys := components.DefaultKeyMap()
	pm := opts.PMName
	if pm == "" {
		pm = "winget"
	}
	worker := opts.Worker
	if worker == nil {
		worker = NewWorker(context.Background())
	}

	m := &Model{
		header:   components.NewHeader(),
		apps:     components.NewChecklist("Applications"),
		shells:   components.NewChecklist("Shells"),
		progress: components.NewProgress(),
		logView:  components.NewLogViewport(),
		actionBar: components.NewActionBar(
			components.Action{Key: "p", Label: "🔧 Install " + pm},
			components.Action{Key: "i", Label: "📥 Install selected apps", Style: components.ActionStylePrimary},
			components.Action{Key: "c", Label: "🐚 Configure selected shells", Style: components.ActionStylePrimary},
			components.Action{Key: "r", Label: "⚡ Run ALL", Style: components.ActionStyleAccent},
		),
		statusBar: components.NewStatusBar(),
		help:      components.NewHelpOverlay(keys.HelpGroups()),
		confirm:   components.NewConfirmDialog(),
		keys:      keys,
		actions:   opts.Actions,
		catalogs:  opts.Catalogs,
		worker:    worker,
		pmName:    pm,
		startTime: time.Now(),
	}
	m.header.SetData(components.HeaderData{Online: opts.Online, PackageManager: pm, RunID: opts.RunID})
	m.setFocus(FocusApps)
	m.statusBar.SetMessage(components.LevelInfo, "Loading catalogs...")
	return m
}

// Init loads the catalogs and starts the clock.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.loadCatalogs, tickCmd())
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return TickMsg{Time: t}
	})
}

func (m *Model) loadCatalogs() tea.Msg {
	ctx := context.Background()
	apps, err := m.catalogs.LoadApps(ctx)
	if err != nil {
		return CatalogsLoadedMsg{Err: err}
	}
	shells, err := m.catalogs.LoadShells(ctx)
	if err != nil {
		return CatalogsLoadedMsg{Apps: apps, Err: err}
	}
	return CatalogsLoadedMsg{Apps: apps, Shells: shells}
}

// Update handles messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.confirm.IsVisible() {
		if _, ok := msg.(tea.KeyMsg); ok {
			return m, m.confirm.Update(msg)
		}
	}
	if m.help.IsVisible() {
		if _, ok := msg.(tea.KeyMsg); ok {
			m.help.Update(msg)
			return m, nil
		}
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case TickMsg:
		m.statusBar.SetElapsedTime(msg.Time.Sub(m.startTime))
		return m, tickCmd()

	case CatalogsLoadedMsg:
		m.setCatalogs(msg)
		return m, nil

	case BatchStartedMsg:
		m.logView.AppendLine(fmt.Sprintf("=== %s ===", msg.Activity))
		return m, nil

	case ProgressMsg:
		m.applyProgress(msg.Progress)
		return m, nil

	case OutputMsg:
		m.logView.AppendLine(msg.Line)
		return m, nil

	case BatchDoneMsg:
		m.finishBatch(msg)
		return m, nil

	case components.ConfirmYesMsg:
		if msg.Action == components.ConfirmActionQuit {
			m.worker.Cancel()
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil

	case components.ConfirmNoMsg:
		return m, nil
	}

	if m.worker.Busy() {
		return m, m.statusBar.Spinner().Update(msg)
	}
	return m, nil
}

func (m *Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		if m.worker.Busy() && msg.String() != "ctrl+c" {
			m.confirm.ShowQuit(m.worker.Activity())
			return m, nil
		}
		m.worker.Cancel()
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.Toggle()
		return m, nil

	case key.Matches(msg, m.keys.NextPane):
		m.cycleFocus(msg.String() == "shift+tab")
		return m, nil

	case key.Matches(msg, m.keys.Logs):
		m.setFocus(FocusLog)
		return m, nil

	case key.Matches(msg, m.keys.Escape):
		if m.focused == FocusLog {
			m.setFocus(FocusApps)
		}
		return m, nil

	case key.Matches(msg, m.keys.InstallPM):
		return m, m.startInstallPM()

	case key.Matches(msg, m.keys.InstallApps):
		return m, m.startInstallApps()

	case key.Matches(msg, m.keys.ConfigureShell):
		return m, m.startConfigureShells()

	case key.Matches(msg, m.keys.RunAll):
		return m, m.startRunAll()
	}

	if m.focused == FocusLog {
		m.logView.Update(msg)
		return m, nil
	}

	list := m.focusedList()
	switch {
	case key.Matches(msg, m.keys.Up):
		list.MoveUp()
	case key.Matches(msg, m.keys.Down):
		list.MoveDown()
	case key.Matches(msg, m.keys.Top):
		list.GoToTop()
	case key.Matches(msg, m.keys.Bottom):
		list.GoToBottom()
	case key.Matches(msg, m.keys.Toggle):
		list.Toggle()
	case key.Matches(msg, m.keys.Collapse):
		list.ToggleCollapse()
	case key.Matches(msg, m.keys.SelectAll):
		list.SelectAll()
	case key.Matches(msg, m.keys.ClearAll):
		list.ClearAll()
	}
	return m, nil
}

func (m *Model) focusedList() *components.Checklist {
	if m.focused == FocusShells {
		return m.shells
	}
	return m.apps
}

func (m *Model) setFocus(p FocusedPane) {
	m.focused = p
	m.apps.SetFocused(p == FocusApps)
	m.shells.SetFocused(p == FocusShells)
	m.logView.SetFocused(p == FocusLog)
}

func (m *Model) cycleFocus(back bool) {
	step := 1
	if back {
		step = 2
	}
	m.setFocus(FocusedPane((int(m.focused) + step) % 3))
}

// Focused returns the pane that receives navigation keys.
func (m *Model) Focused() FocusedPane {
	return m.focused
}

func (m *Model) setCatalogs(msg CatalogsLoadedMsg) {
	if msg.Apps != nil {
		m.appCatalog = msg.Apps
		m.apps.SetItems(selector.FromApps(msg.Apps.Entries))
	}
	if msg.Shells != nil {
		m.shellCatalog = msg.Shells
		m.shells.SetItems(selector.FromShells(msg.Shells.Visible()))
	}
	if msg.Err != nil {
		m.statusBar.SetMessage(components.LevelError, "❌ "+firstLine(devbooterrors.FormatAny(msg.Err)))
		m.logView.AppendText(devbooterrors.FormatAny(msg.Err))
		return
	}
	m.statusBar.SetMessage(components.LevelInfo,
		fmt.Sprintf("Loaded %d apps and %d shells", m.apps.Len(), m.shells.Len()))
}

// start hands job to the worker, or reports that one is already running.
func (m *Model) start(activity string, job Job) tea.Cmd {
	if !m.worker.Start(activity, job) {
		m.statusBar.SetMessage(components.LevelWarning,
			fmt.Sprintf("⏳ Busy: %s is still running", m.worker.Activity()))
		return nil
	}
	m.progress.Reset()
	m.progress.SetStatusText(activity)
	m.actionBar.SetDisabled(true)
	m.statusBar.SetBusy(true, activity)
	m.statusBar.Spinner().Start()
	m.statusBar.SetMessage(components.LevelInfo, "⏳ "+activity+"...")
	return m.statusBar.Spinner().Tick
}

func (m *Model) startInstallPM() tea.Cmd {
	return m.start("Installing "+m.pmName, func(ctx context.Context) (string, error) {
		if m.actions.InstallPackageManager(ctx) {
			return m.pmName + " is installed", nil
		}
		return "", devbooterrors.PackageManagerMissing(m.pmName, "")
	})
}

func (m *Model) startInstallApps() tea.Cmd {
	entries := m.selectedApps()
	if len(entries) == 0 {
		m.statusBar.SetMessage(components.LevelWarning, "⚠ Please select at least one app!")
		return nil
	}
	return m.start("Installing apps", func(ctx context.Context) (string, error) {
		return reportResult(m.actions.InstallApplications(ctx, entries), "install applications")
	})
}

func (m *Model) startConfigureShells() tea.Cmd {
	entries := m.selectedShells()
	if len(entries) == 0 {
		m.statusBar.SetMessage(components.LevelWarning, "⚠ Please select at least one shell!")
		return nil
	}
	return m.start("Configuring shells", func(ctx context.Context) (string, error) {
		return reportResult(m.actions.ConfigureShells(ctx, entries), "configure shells")
	})
}

func (m *Model) startRunAll() tea.Cmd {
	return m.start("Running all steps", func(ctx context.Context) (string, error) {
		sum, err := m.actions.RunAll(ctx)
		if err != nil {
			return "", err
		}
		var parts []string
		if sum.Apps != nil {
			parts = append(parts, "apps: "+sum.Apps.Summary())
		}
		if sum.Shells != nil {
			parts = append(parts, "shells: "+sum.Shells.Summary())
		}
		return strings.Join(parts, "; "), nil
	})
}

func reportResult(r *app.Report, op string) (string, error) {
	if r.Cancelled {
		return r.Summary(), devbooterrors.OperationCancelled(op)
	}
	return r.Summary(), nil
}

func (m *Model) selectedApps() []catalog.CatalogEntry {
	if m.appCatalog == nil {
		return nil
	}
	var out []catalog.CatalogEntry
	for _, it := range m.apps.Selected() {
		if e, ok := m.appCatalog.Find(it.ID); ok {
			out = append(out, e)
		}
	}
	return out
}

func (m *Model) selectedShells() []catalog.ShellEntry {
	if m.shellCatalog == nil {
		return nil
	}
	var out []catalog.ShellEntry
	for _, it := range m.shells.Selected() {
		if s, ok := m.shellCatalog.Find(it.ID); ok {
			out = append(out, s)
		}
	}
	return out
}

func (m *Model) applyProgress(p app.Progress) {
	if p.Line != "" {
		m.logView.AppendLine(p.Line)
	}
	if p.Total <= 0 {
		return
	}
	overall := (p.Index - 1) * 100 / p.Total
	if p.ItemPercent > 0 {
		overall += p.ItemPercent / p.Total
	}
	if p.Done {
		overall = p.Index * 100 / p.Total
	}
	m.progress.SetData(components.ProgressData{
		Index:      p.Index,
		Total:      p.Total,
		Percent:    overall,
		StatusText: p.Message,
	})
}

func (m *Model) finishBatch(msg BatchDoneMsg) {
	m.actionBar.SetDisabled(false)
	m.statusBar.SetBusy(false, "")

	switch {
	case msg.Err == nil:
		m.progress.SetPercent(100)
		text := "✅ " + msg.Activity + " done"
		if msg.Summary != "" {
			text += " (" + msg.Summary + ")"
		}
		m.statusBar.SetMessage(components.LevelSuccess, text)
	case devbooterrors.IsCancelled(msg.Err):
		m.statusBar.SetMessage(components.LevelWarning, "⏹ "+msg.Activity+" cancelled")
	default:
		m.statusBar.SetMessage(components.LevelError, "❌ Error: "+firstLine(msg.Err.Error()))
	}
	m.logView.AppendLine("")
}

func (m *Model) resize(width, height int) {
	m.width, m.height = width, height
	m.header.SetWidth(width)
	m.actionBar.SetWidth(width)
	m.progress.SetWidth(width)
	m.statusBar.SetWidth(width)
	m.help.SetWidth(min(60, width))
	m.confirm.SetWidth(min(50, width))

	// header, action bar, progress and status lines plus panel borders
	const chrome = 8
	body := max(height-chrome, 6)
	panels := body * 3 / 5
	logHeight := body - panels

	half := width / 2
	m.apps.SetSize(half, panels-3)
	m.shells.SetSize(width-half, panels-3)
	m.logView.SetSize(width, logHeight)
}

// View renders the dashboard.
func (m *Model) View() string {
	if m.quitting {
		return "Goodbye! 👋\n"
	}

	var b strings.Builder
	b.WriteString(m.header.View() + "\n")
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, m.apps.View(), m.shells.View()) + "\n")
	b.WriteString(m.actionBar.View() + "\n")
	b.WriteString(m.progress.View() + "\n")
	b.WriteString(m.logView.View() + "\n")
	b.WriteString(m.statusBar.View())

	view := b.String()
	if m.help.IsVisible() {
		view = m.overlay(view, m.help.View())
	}
	if m.confirm.IsVisible() {
		view = m.overlay(view, m.confirm.View())
	}
	return view
}

func (m *Model) overlay(base, top string) string {
	if m.width == 0 || m.height == 0 {
		return base + "\n" + top
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, top,
		lipgloss.WithWhitespaceForeground(styles.BorderColor))
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
