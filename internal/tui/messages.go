package tui

import (
	"time"

	"github.com/wexinc/devboot/internal/app"
	"github.com/wexinc/devboot/internal/catalog"
)

// Messages the worker and loaders send to the dashboard.

// CatalogsLoadedMsg carries the catalogs for the two panels.
type CatalogsLoadedMsg struct {
	Apps   *catalog.AppCatalog
	Shells *catalog.ShellCatalog
	Err    error
}

// BatchStartedMsg is sent when the worker picks up a batch.
type BatchStartedMsg struct {
	Activity string
}

// ProgressMsg forwards one dispatcher progress update.
type ProgressMsg struct {
	Progress app.Progress
}

// OutputMsg is one transcript line.
type OutputMsg struct {
	Line string
}

// BatchDoneMsg is sent when a batch ends. The worker is idle again by the
// time it arrives.
type BatchDoneMsg struct {
	Activity string
	Summary  string
	Err      error
}

// TickMsg drives the elapsed time display.
type TickMsg struct {
	Time time.Time
}
