// Package menu implements the numbered main menu and the selection flows
// shared with the single-action commands.
package menu

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/wexinc/devboot/internal/app"
	"github.com/wexinc/devboot/internal/catalog"
	devbooterrors "github.com/wexinc/devboot/internal/errors"
	"github.com/wexinc/devboot/internal/logging"
	"github.com/wexinc/devboot/internal/selector"
)

const ruleWidth = 70

// Actions are the operations the menu dispatches. *app.Dispatcher
// implements it.
type Actions interface {
	InstallPackageManager(ctx context.Context) bool
	InstallApplications(ctx context.Context, entries []catalog.CatalogEntry) *app.Report
	ConfigureShells(ctx context.Context, entries []catalog.ShellEntry) *app.Report
	RunAll(ctx context.Context) (*app.RunSummary, error)
}

// Menu is the main menu REPL.
type Menu struct {
	Actions  Actions
	Catalogs app.CatalogSource
	Selector selector.Selector
	In       *selector.LineReader
	Out      io.Writer
	Online   bool
	PMName   string
	// Interrupts delivers user interrupts. One cancels the running action
	// and returns to the menu; one at the prompt ends the session.
	Interrupts <-chan struct{}
}

// Mode returns "ONLINE" or "LOCAL".
func (m *Menu) Mode() string {
	if m.Online {
		return "ONLINE"
	}
	return "LOCAL"
}

// Run shows the menu until the user exits, input ends or ctx is done.
func (m *Menu) Run(ctx context.Context) error {
	m.banner("🚀 DEV ENVIRONMENT SETUP - CLI MODE")

	for {
		m.showMenu()

		promptCtx, cancel := m.interruptible(ctx)
		opt, err := m.In.Prompt(promptCtx, m.Out, "Select an option (0-4): ")
		cancel()
		if err != nil {
			return m.leave(ctx, err)
		}

		if opt == "0" {
			fmt.Fprintln(m.Out, "Goodbye! 👋")
			fmt.Fprintln(m.Out)
			return nil
		}

		m.dispatch(ctx, opt)

		promptCtx, cancel = m.interruptible(ctx)
		_, err = m.In.Prompt(promptCtx, m.Out, "\nPress Enter to continue...")
		cancel()
		if err != nil {
			return m.leave(ctx, err)
		}
	}
}

// leave ends the session after the prompt failed: interrupt or end of input
// exit cleanly, a done parent context returns its error.
func (m *Menu) leave(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if errors.Is(err, io.EOF) || errors.Is(err, context.Canceled) {
		fmt.Fprintln(m.Out, "\n[INFO] Program terminated by user")
		return nil
	}
	return err
}

func (m *Menu) dispatch(parent context.Context, opt string) {
	ctx, cancel := m.interruptible(parent)
	defer cancel()

	var err error
	switch opt {
	case "1":
		err = m.PackageManager(ctx)
	case "2":
		err = m.Apps(ctx, false)
	case "3":
		err = m.Shells(ctx, nil, false)
	case "4":
		err = m.RunAll(ctx)
	default:
		fmt.Fprintln(m.Out, "❌ Invalid choice. Try again!")
		return
	}

	switch {
	case err == nil:
	case devbooterrors.IsCancelled(err) || errors.Is(err, context.Canceled):
		fmt.Fprintln(m.Out, "\n\n[INFO] Operation cancelled by user")
		logging.Info("action cancelled", "option", opt)
	default:
		fmt.Fprintf(m.Out, "\n[ERROR] %s", devbooterrors.FormatAny(err))
		fmt.Fprintln(m.Out, "[INFO] Please try again")
		logging.Error("action failed", "option", opt, "error", err)
	}
}

// PackageManager runs the package manager check.
func (m *Menu) PackageManager(ctx context.Context) error {
	m.banner("🔧 Installing " + m.PMName)
	m.Actions.InstallPackageManager(ctx)
	return ctx.Err()
}

// Apps loads the application catalog, lets the user pick entries (or takes
// every installable one when all is set) and installs them.
func (m *Menu) Apps(ctx context.Context, all bool) error {
	m.banner(fmt.Sprintf("📦 Select Applications to Install (%s)", m.Mode()))

	cat, err := m.Catalogs.LoadApps(ctx)
	if err != nil {
		return err
	}

	entries := cat.Installable()
	if !all {
		items, err := m.Selector.Select(ctx, "Select applications to install", selector.FromApps(cat.Entries))
		if err != nil {
			return err
		}
		entries = pickApps(cat, items)
	}

	if len(entries) == 0 {
		fmt.Fprintln(m.Out, "\n[INFO] No apps selected.")
		return nil
	}

	m.banner("📥 Installing Applications")
	report := m.Actions.InstallApplications(ctx, entries)
	if report.Cancelled {
		return devbooterrors.OperationCancelled("install applications")
	}
	fmt.Fprintf(m.Out, "\n✅ Installation complete! (%s)\n", report.Summary())
	return nil
}

// Shells loads the shell catalog and configures the chosen shells: ids when
// given, every configurable shell when all is set, the user's selection
// otherwise.
func (m *Menu) Shells(ctx context.Context, ids []string, all bool) error {
	m.banner(fmt.Sprintf("🐚 Configure Shells (%s)", m.Mode()))

	cat, err := m.Catalogs.LoadShells(ctx)
	if err != nil {
		return err
	}

	var entries []catalog.ShellEntry
	switch {
	case len(ids) > 0:
		entries = pickShellIDs(cat, ids)
	case all:
		entries = cat.Configurable()
	default:
		items := selector.FromShells(cat.Visible())
		if len(items) == 0 {
			fmt.Fprintln(m.Out, "[ERROR] No shell configurations found!")
			return nil
		}
		picked, err := m.Selector.Select(ctx, "Select shells to configure", items)
		if err != nil {
			return err
		}
		entries = pickShells(cat, picked)
	}

	if len(entries) == 0 {
		fmt.Fprintln(m.Out, "\n[INFO] No shells selected.")
		return nil
	}

	m.banner("⚙️ Configuring Shells")
	report := m.Actions.ConfigureShells(ctx, entries)
	if report.Cancelled {
		return devbooterrors.OperationCancelled("configure shells")
	}
	fmt.Fprintf(m.Out, "\n✅ Shell configuration complete! (%s)\n", report.Summary())
	return nil
}

// RunAll runs every step.
func (m *Menu) RunAll(ctx context.Context) error {
	m.banner("⚡ Running All Setup Steps")
	if _, err := m.Actions.RunAll(ctx); err != nil {
		return err
	}
	m.banner("✅ All steps completed!")
	return nil
}

func (m *Menu) showMenu() {
	rule := strings.Repeat("=", ruleWidth)
	mode := "💾 LOCAL"
	if m.Online {
		mode = "🌐 ONLINE"
	}
	fmt.Fprintf(m.Out, "\n%s\n       DEV ENVIRONMENT SETUP MENU (%s)\n%s\n", rule, mode, rule)
	fmt.Fprintf(m.Out, "1) 🔧 Install %s (if missing)\n", m.PMName)
	fmt.Fprintln(m.Out, "2) 📥 Install applications")
	fmt.Fprintln(m.Out, "3) 🐚 Configure shells")
	fmt.Fprintln(m.Out, "4) ⚡ Run ALL steps")
	fmt.Fprintln(m.Out, "0) ❌ Exit")
	fmt.Fprintf(m.Out, "%s\n\n", rule)
}

func (m *Menu) banner(title string) {
	rule := strings.Repeat("=", ruleWidth)
	fmt.Fprintf(m.Out, "\n%s\n   %s\n%s\n\n", rule, title, rule)
}

// interruptible derives a context cancelled by the next interrupt.
func (m *Menu) interruptible(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	if m.Interrupts == nil {
		return ctx, cancel
	}
	done := make(chan struct{})
	go func() {
		select {
		case <-m.Interrupts:
			cancel()
		case <-done:
		}
	}()
	return ctx, func() {
		close(done)
		cancel()
	}
}

func pickApps(cat *catalog.AppCatalog, items []selector.Item) []catalog.CatalogEntry {
	var out []catalog.CatalogEntry
	for _, it := range selector.Selectable(items) {
		if e, ok := cat.Find(it.ID); ok && !e.IsGroupHeader {
			out = append(out, e)
		}
	}
	return out
}

func pickShells(cat *catalog.ShellCatalog, items []selector.Item) []catalog.ShellEntry {
	var out []catalog.ShellEntry
	for _, it := range items {
		if s, ok := cat.Find(it.ID); ok {
			out = append(out, s)
		}
	}
	return out
}

// pickShellIDs resolves ids against the catalog. Ids missing from it are
// passed through so the dispatcher reports them.
func pickShellIDs(cat *catalog.ShellCatalog, ids []string) []catalog.ShellEntry {
	out := make([]catalog.ShellEntry, 0, len(ids))
	for _, id := range ids {
		if s, ok := cat.Find(id); ok {
			out = append(out, s)
			continue
		}
		out = append(out, catalog.ShellEntry{ID: id, Name: id})
	}
	return out
}
