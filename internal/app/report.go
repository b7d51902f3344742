package app

import (
	"fmt"
	"time"

	"github.com/wexinc/devboot/internal/journal"
)

// Outcome is the result of one item in a batch.
type Outcome struct {
	ID       string
	Name     string
	Kind     journal.Kind
	Success  bool
	Skipped  bool
	Detail   string
	Duration time.Duration
}

// Report collects the outcomes of one batch.
type Report struct {
	Kind     journal.Kind
	Outcomes []Outcome
	// Cancelled is set when the batch stopped early on interrupt.
	Cancelled bool
}

func newReport(kind journal.Kind) *Report {
	return &Report{Kind: kind}
}

func (r *Report) add(o Outcome) {
	r.Outcomes = append(r.Outcomes, o)
}

// Passed returns the successful outcomes.
func (r *Report) Passed() []Outcome {
	return r.filter(func(o Outcome) bool { return o.Success })
}

// Failed returns the outcomes that neither succeeded nor were skipped.
func (r *Report) Failed() []Outcome {
	return r.filter(func(o Outcome) bool { return !o.Success && !o.Skipped })
}

// Skipped returns the outcomes that were skipped.
func (r *Report) Skipped() []Outcome {
	return r.filter(func(o Outcome) bool { return o.Skipped })
}

// Empty reports whether the batch had nothing to do.
func (r *Report) Empty() bool {
	return len(r.Outcomes) == 0
}

// Summary renders "x passed, y failed" with skipped/cancelled suffixes.
func (r *Report) Summary() string {
	s := fmt.Sprintf("%d passed, %d failed", len(r.Passed()), len(r.Failed()))
	if n := len(r.Skipped()); n > 0 {
		s += fmt.Sprintf(", %d skipped", n)
	}
	if r.Cancelled {
		s += " (cancelled)"
	}
	return s
}

func (r *Report) filter(keep func(Outcome) bool) []Outcome {
	var out []Outcome
	for _, o := range r.Outcomes {
		if keep(o) {
			out = append(out, o)
		}
	}
	return out
}
