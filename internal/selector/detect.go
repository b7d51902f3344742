package selector

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/wexinc/devboot/internal/logging"
)

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Detect picks the selector for this session: the interactive one when both
// in and out are terminals, the numbered one otherwise. lines must be the
// reader every other prompt on in uses.
func Detect(in, out *os.File, lines *LineReader) Selector {
	numbered := NewNumbered(lines, out)
	if IsTerminal(in) && IsTerminal(out) {
		logging.Debug("terminal detected, using interactive selector")
		return &Fallback{
			Primary:   NewInteractive(in, out),
			Secondary: numbered,
			Out:       out,
		}
	}
	fmt.Fprintln(out, "[WARN] No real console detected, using simple menu fallback")
	logging.Info("no terminal detected, using numbered selector")
	return numbered
}

// Fallback runs Primary and switches to Secondary when Primary fails for any
// reason other than cancellation.
type Fallback struct {
	Primary   Selector
	Secondary Selector
	Out       io.Writer
}

// Select implements Selector.
func (f *Fallback) Select(ctx context.Context, prompt string, items []Item) ([]Item, error) {
	res, err := f.Primary.Select(ctx, prompt, items)
	if err == nil || ctx.Err() != nil || errors.Is(err, context.Canceled) {
		return res, err
	}

	logging.Warn("interactive selector failed", "error", err)
	fmt.Fprintf(f.Out, "[WARN] Interactive menu failed (%v), using simple menu fallback\n", err)
	return f.Secondary.Select(ctx, prompt, items)
}
