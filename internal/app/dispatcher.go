// Package app provides the actions every front-end drives: installing the
// package manager, installing applications and configuring shells.
package app

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/wexinc/devboot/internal/catalog"
	devbooterrors "github.com/wexinc/devboot/internal/errors"
	"github.com/wexinc/devboot/internal/journal"
	"github.com/wexinc/devboot/internal/logging"
	"github.com/wexinc/devboot/internal/pkgmgr"
)

// PackageManager installs packages by id. *pkgmgr.Manager implements it.
type PackageManager interface {
	Available() bool
	Install(ctx context.Context, id string, onLine func(pkgmgr.Line)) error
}

// InstallerLocator resolves the manual installer URL. *pkgmgr.Installer
// implements it.
type InstallerLocator interface {
	LatestURL(ctx context.Context) string
}

// ShellConfigurator runs a shell routine. *profile.Configurator implements it.
type ShellConfigurator interface {
	Configure(ctx context.Context, id string) ([]string, error)
}

// CatalogSource loads the catalogs. *catalog.Loader implements it.
type CatalogSource interface {
	LoadApps(ctx context.Context) (*catalog.AppCatalog, error)
	LoadShells(ctx context.Context) (*catalog.ShellCatalog, error)
}

// Recorder stores outcomes. *journal.Journal implements it.
type Recorder interface {
	Record(ctx context.Context, e journal.Entry) error
}

// Progress is one update from a running batch.
type Progress struct {
	Kind  journal.Kind
	Index int // 1-based position in the batch
	Total int
	ID    string
	Name  string
	// Percent is the batch completion when this item started.
	Percent int
	// ItemPercent is the item's own progress, -1 when unknown.
	ItemPercent int
	Message     string
	Line        string
	// Done is set on the final update for the item.
	Done    bool
	Success bool
}

// ProgressFunc receives progress updates.
type ProgressFunc func(Progress)

// Dispatcher runs the actions against its collaborators.
type Dispatcher struct {
	// PMName is the package manager command shown in messages.
	PMName    string
	Manager   PackageManager
	Installer InstallerLocator
	Shells    ShellConfigurator
	Catalogs  CatalogSource
	// Journal is optional.
	Journal Recorder
	// Out receives the user-facing transcript. Nil discards it.
	Out io.Writer
	// OnProgress is called with progress updates.
	OnProgress ProgressFunc
	// RunID tags journal entries and log lines of this session.
	RunID string
}

// NewDispatcher creates a dispatcher with a fresh run id.
func NewDispatcher(pmName string, pm PackageManager, inst InstallerLocator, shells ShellConfigurator, cats CatalogSource) *Dispatcher {
	return &Dispatcher{
		PMName:     pmName,
		Manager:    pm,
		Installer:  inst,
		Shells:     shells,
		Catalogs:   cats,
		OnProgress: func(Progress) {}, // noop by default
		RunID:      NewRunID(),
	}
}

// NewRunID returns a fresh run identifier.
func NewRunID() string {
	return uuid.New().String()
}

// InstallPackageManager reports whether the package manager is present. When
// it is missing, the manual installer URL is printed and false returned;
// nothing is installed silently.
func (d *Dispatcher) InstallPackageManager(ctx context.Context) bool {
	ctx = logging.WithAction(logging.WithRunID(ctx, d.RunID), "install_package_manager")
	log := logging.Global().WithContext(ctx)
	start := time.Now()

	if d.Manager.Available() {
		d.printf("[OK] %s already installed.\n", d.PMName)
		log.Info("package manager present", "command", d.PMName)
		d.record(ctx, Outcome{ID: d.PMName, Name: d.PMName, Kind: journal.KindPackageManager, Success: true, Duration: time.Since(start)})
		return true
	}

	d.printf("[*] Installing %s...\n", d.PMName)
	url := ""
	if d.Installer != nil {
		url = d.Installer.LatestURL(ctx)
	}
	err := devbooterrors.PackageManagerMissing(d.PMName, url)
	d.printf("Please download and install manually: %s\n", url)
	log.Warn("package manager missing", "command", d.PMName, "installer", url)
	d.record(ctx, Outcome{ID: d.PMName, Name: d.PMName, Kind: journal.KindPackageManager, Detail: err.Error(), Duration: time.Since(start)})
	return false
}

// InstallApplications installs every non-header entry in order, continuing
// past failures.
func (d *Dispatcher) InstallApplications(ctx context.Context, entries []catalog.CatalogEntry) *Report {
	ctx = logging.WithAction(logging.WithRunID(ctx, d.RunID), "install_apps")
	log := logging.Global().WithContext(ctx)
	report := newReport(journal.KindApp)

	var apps []catalog.CatalogEntry
	for _, e := range entries {
		if !e.IsGroupHeader {
			apps = append(apps, e)
		}
	}
	if len(apps) == 0 {
		d.printf("[INFO] No apps selected.\n")
		return report
	}

	total := len(apps)
	d.printf("[*] Installing %d application(s)...\n", total)
	log.Info("installing applications", "count", total)

	for i, e := range apps {
		if ctx.Err() != nil {
			report.Cancelled = true
			break
		}

		pct := (i + 1) * 100 / total
		d.printf("-> [%s] %s (%d%%)\n", e.Section, e.Name, pct)
		base := Progress{Kind: journal.KindApp, Index: i + 1, Total: total, ID: e.ID, Name: e.Name, Percent: pct, ItemPercent: -1}
		d.progress(base, func(p *Progress) { p.Message = "Installing " + e.Name })

		start := time.Now()
		err := d.Manager.Install(ctx, e.ID, func(l pkgmgr.Line) {
			d.progress(base, func(p *Progress) {
				p.Line = l.Text
				if l.HasProgress {
					p.Message = l.Progress.Message()
					if l.Progress.HasPercent {
						p.ItemPercent = l.Progress.Percent
					}
				}
			})
		})

		o := Outcome{ID: e.ID, Name: e.Name, Kind: journal.KindApp, Success: err == nil, Duration: time.Since(start)}
		if err != nil {
			o.Detail = err.Error()
			if devbooterrors.IsCancelled(err) {
				report.Cancelled = true
				d.printf("   [CANCELLED]\n")
			} else {
				d.printf("   [FAILED] %s\n", err.Error())
			}
		} else {
			d.printf("   [OK]\n")
		}
		report.add(o)
		d.record(ctx, o)
		d.progress(base, func(p *Progress) {
			p.Done, p.Success, p.Message = true, o.Success, finishMessage(e.Name, o)
			if o.Success {
				p.ItemPercent = 100
			}
		})

		if report.Cancelled {
			break
		}
	}

	log.Info("applications done", "summary", report.Summary())
	return report
}

// ConfigureShells runs the routine of every entry in order. The meta entry
// is skipped; ids without a routine are skipped with a warning.
func (d *Dispatcher) ConfigureShells(ctx context.Context, entries []catalog.ShellEntry) *Report {
	ctx = logging.WithAction(logging.WithRunID(ctx, d.RunID), "configure_shells")
	log := logging.Global().WithContext(ctx)
	report := newReport(journal.KindShell)

	if len(entries) == 0 {
		d.printf("[INFO] No shells selected.\n")
		return report
	}

	total := len(entries)
	for i, s := range entries {
		if ctx.Err() != nil {
			report.Cancelled = true
			break
		}

		base := Progress{Kind: journal.KindShell, Index: i + 1, Total: total, ID: s.ID, Name: s.Name, Percent: (i + 1) * 100 / total, ItemPercent: -1}

		if s.IsMeta() {
			d.printf("[SKIP] '%s' is a meta-entry, not a shell\n", s.ID)
			report.add(Outcome{ID: s.ID, Name: s.Name, Kind: journal.KindShell, Skipped: true, Detail: "meta entry"})
			continue
		}

		d.printf("Configuring %s...\n", s.Name)
		d.progress(base, func(p *Progress) { p.Message = "Configuring " + s.Name })

		start := time.Now()
		written, err := d.Shells.Configure(ctx, s.ID)
		o := Outcome{ID: s.ID, Name: s.Name, Kind: journal.KindShell, Success: err == nil, Duration: time.Since(start)}

		switch {
		case err == nil:
			o.Detail = fmt.Sprintf("%d file(s) written", len(written))
			d.printf("[OK] Successfully configured %s\n", s.ID)
		case devbooterrors.Is(err, devbooterrors.ErrNotFound):
			o.Skipped = true
			o.Detail = err.Error()
			d.printf("[WARN] No configuration available for shell: %s\n", s.ID)
			log.Warn("unknown shell skipped", "shell", s.ID)
		case devbooterrors.IsCancelled(err):
			o.Detail = err.Error()
			report.Cancelled = true
		default:
			o.Detail = err.Error()
			d.printf("[ERROR] Failed to configure %s: %s\n", s.ID, err.Error())
			log.Error("shell configuration failed", "shell", s.ID, "error", err)
		}

		report.add(o)
		if !o.Skipped {
			d.record(ctx, o)
		}
		d.progress(base, func(p *Progress) {
			p.Done, p.Success, p.Message = true, o.Success, finishMessage(s.Name, o)
		})

		if report.Cancelled {
			break
		}
	}

	log.Info("shells done", "summary", report.Summary())
	return report
}

// RunSummary is the result of RunAll.
type RunSummary struct {
	PackageManager bool
	Apps           *Report
	Shells         *Report
}

// RunAll installs the package manager, then every installable application
// when the package manager is present, then configures every visible shell.
// A catalog that cannot be loaded aborts the run.
func (d *Dispatcher) RunAll(ctx context.Context) (*RunSummary, error) {
	sum := &RunSummary{}

	d.printf("[1/3] Installing %s...\n", d.PMName)
	sum.PackageManager = d.InstallPackageManager(ctx)

	if sum.PackageManager {
		d.printf("\n[2/3] Installing applications...\n")
		apps, err := d.Catalogs.LoadApps(ctx)
		if err != nil {
			return sum, err
		}
		sum.Apps = d.InstallApplications(ctx, apps.Installable())
		if sum.Apps.Cancelled {
			return sum, devbooterrors.OperationCancelled("run all")
		}
	} else {
		d.printf("\n[2/3] Skipping applications: %s is not available\n", d.PMName)
	}

	d.printf("\n[3/3] Configuring shells...\n")
	shells, err := d.Catalogs.LoadShells(ctx)
	if err != nil {
		return sum, err
	}
	sum.Shells = d.ConfigureShells(ctx, shells.Configurable())
	if sum.Shells.Cancelled {
		return sum, devbooterrors.OperationCancelled("run all")
	}
	return sum, nil
}

func finishMessage(name string, o Outcome) string {
	switch {
	case o.Success:
		return "✅ " + name + " done"
	case o.Skipped:
		return "⏭ " + name + " skipped"
	default:
		return "❌ " + name + " failed"
	}
}

func (d *Dispatcher) progress(base Progress, set func(*Progress)) {
	if d.OnProgress == nil {
		return
	}
	p := base
	set(&p)
	d.OnProgress(p)
}

func (d *Dispatcher) record(ctx context.Context, o Outcome) {
	if d.Journal == nil {
		return
	}
	err := d.Journal.Record(context.WithoutCancel(ctx), journal.Entry{
		RunID:    d.RunID,
		Kind:     o.Kind,
		ItemID:   o.ID,
		Name:     o.Name,
		Success:  o.Success,
		Detail:   o.Detail,
		Duration: o.Duration,
	})
	if err != nil {
		logging.Warn("journal record failed", "item", o.ID, "error", err)
	}
}

func (d *Dispatcher) printf(format string, args ...any) {
	if d.Out != nil {
		fmt.Fprintf(d.Out, format, args...)
	}
}
