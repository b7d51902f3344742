package tui

import (
	"bytes"
	"context"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/wexinc/devboot/internal/app"
	"github.com/wexinc/devboot/internal/logging"
)

// OutputWriter turns written text into OutputMsg lines. Partial lines are
// held until their newline arrives or Flush is called.
type OutputWriter struct {
	sender Sender
	mu     sync.Mutex
	buf    []byte
}

// NewOutputWriter creates a writer sending to s.
func NewOutputWriter(s Sender) *OutputWriter {
	return &OutputWriter{sender: s}
}

// Write implements io.Writer.
func (w *OutputWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.buf = append(w.buf, p...)
	for {
		idx := bytes.IndexByte(w.buf, '\n')
		if idx < 0 {
			break
		}
		line := string(bytes.TrimRight(w.buf[:idx], "\r"))
		w.buf = w.buf[idx+1:]
		send(w.sender, OutputMsg{Line: line})
	}
	return len(p), nil
}

// Flush sends any buffered partial line.
func (w *OutputWriter) Flush() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.buf) > 0 {
		send(w.sender, OutputMsg{Line: string(w.buf)})
		w.buf = w.buf[:0]
	}
}

// RunOptions configure Run.
type RunOptions struct {
	Online bool
	// ProgramOptions are passed to tea.NewProgram after the defaults.
	ProgramOptions []tea.ProgramOption
}

// Run shows the dashboard until the user quits. The dispatcher's transcript
// and progress are redirected into the dashboard for the duration.
func Run(ctx context.Context, d *app.Dispatcher, opts RunOptions) error {
	worker := NewWorker(ctx)
	model := New(Options{
		Actions:  d,
		Catalogs: d.Catalogs,
		Worker:   worker,
		Online:   opts.Online,
		PMName:   d.PMName,
		RunID:    d.RunID,
	})

	progOpts := append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, opts.ProgramOptions...)
	program := tea.NewProgram(model, progOpts...)
	worker.SetSender(program)

	out := NewOutputWriter(program)
	prevOut, prevProgress := d.Out, d.OnProgress
	d.Out = out
	d.OnProgress = func(p app.Progress) { program.Send(ProgressMsg{Progress: p}) }
	defer func() {
		d.Out, d.OnProgress = prevOut, prevProgress
	}()

	logging.Info("dashboard started", "online", opts.Online)
	_, err := program.Run()

	worker.Cancel()
	worker.Wait()
	out.Flush()
	logging.Info("dashboard closed")

	if err != nil && ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}
