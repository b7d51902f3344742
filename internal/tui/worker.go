package tui

import (
	"context"
	"sync"
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/wexinc/devboot/internal/logging"
)

// Sender delivers messages to the running program. *tea.Program implements
// it.
type Sender interface {
	Send(msg tea.Msg)
}

// Job is one batch. It returns a one-line summary for the status line.
type Job func(ctx context.Context) (string, error)

// Worker runs at most one batch at a time on a background goroutine and
// reports through a Sender.
type Worker struct {
	busy     atomic.Bool
	parent   context.Context
	sender   Sender
	mu       sync.Mutex
	cancel   context.CancelFunc
	activity string
	wg       sync.WaitGroup
}

// NewWorker creates an idle worker. Jobs run on contexts derived from
// parent.
func NewWorker(parent context.Context) *Worker {
	return &Worker{parent: parent}
}

// SetSender sets where results go. It must be called before Start.
func (w *Worker) SetSender(s Sender) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.sender = s
}

// Busy reports whether a batch is running.
func (w *Worker) Busy() bool {
	return w.busy.Load()
}

// Activity returns the running batch's name, "" when idle.
func (w *Worker) Activity() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.activity
}

// Start runs job unless a batch is already running, in which case it
// returns false and job is dropped.
func (w *Worker) Start(activity string, job Job) bool {
	if !w.busy.CompareAndSwap(false, true) {
		logging.Debug("batch rejected while busy", "activity", activity, "running", w.Activity())
		return false
	}

	ctx, cancel := context.WithCancel(w.parent)
	w.mu.Lock()
	w.cancel = cancel
	w.activity = activity
	sender := w.sender
	w.mu.Unlock()

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer cancel()

		send(sender, BatchStartedMsg{Activity: activity})
		summary, err := job(ctx)
		if err != nil {
			logging.Warn("batch failed", "activity", activity, "error", err)
		}

		w.mu.Lock()
		w.activity = ""
		w.cancel = nil
		w.mu.Unlock()
		w.busy.Store(false)

		send(sender, BatchDoneMsg{Activity: activity, Summary: summary, Err: err})
	}()
	return true
}

// Cancel cancels the running batch, if any.
func (w *Worker) Cancel() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.cancel != nil {
		w.cancel()
	}
}

// Wait blocks until the running batch returned.
func (w *Worker) Wait() {
	w.wg.Wait()
}

func send(s Sender, msg tea.Msg) {
	if s != nil {
		s.Send(msg)
	}
}
