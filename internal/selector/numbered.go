package selector

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

const ruleWidth = 70

// Numbered is the plain-text fallback: every entry gets a number, and the
// user types numbers to toggle entries until DONE.
//
// The SELECT ALL and DONE numbers are fixed when the list is printed and do
// not move while the selection changes. Group headers are numbered as well
// and toggle their whole section.
type Numbered struct {
	In  *LineReader
	Out io.Writer
}

// NewNumbered creates a numbered selector.
func NewNumbered(in *LineReader, out io.Writer) *Numbered {
	return &Numbered{In: in, Out: out}
}

type numberedEntry struct {
	item  Item
	index int // index into State.Items, -1 for headers
}

// Select implements Selector. End of input is treated like a cancel and
// yields an empty result; context cancellation does the same and returns
// ctx.Err().
func (n *Numbered) Select(ctx context.Context, prompt string, items []Item) ([]Item, error) {
	state := NewState(items)
	if state.Len() == 0 {
		fmt.Fprintln(n.Out, "[WARN] No items to select")
		return nil, nil
	}

	entries := n.render(prompt, items)
	selectAll := len(entries) + 1
	done := len(entries) + 2

	for !state.Done() {
		line, err := n.In.Prompt(ctx, n.Out,
			fmt.Sprintf("\n[%d selected] Enter number (1-%d) or 'done': ", state.SelectedCount(), done))
		if err != nil {
			state.Cancel()
			fmt.Fprintln(n.Out, "\n[INFO] Cancelled by user")
			if errors.Is(err, io.EOF) {
				return nil, nil
			}
			return nil, err
		}

		choice := strings.ToLower(line)
		if choice == "done" || choice == "d" {
			state.Confirm()
			break
		}

		num, err := strconv.Atoi(choice)
		switch {
		case err != nil:
			fmt.Fprintln(n.Out, "❌ Please enter a valid number")
		case num == done:
			state.Confirm()
		case num == selectAll:
			state.SelectAll()
			fmt.Fprintf(n.Out, "✓ Selected all %d items!\n", state.Len())
		case num >= 1 && num <= len(entries):
			n.toggle(state, entries[num-1])
		default:
			fmt.Fprintln(n.Out, "❌ Invalid number!")
		}
	}

	return state.Result(), nil
}

func (n *Numbered) render(prompt string, items []Item) []numberedEntry {
	rule := strings.Repeat("=", ruleWidth)
	fmt.Fprintf(n.Out, "\n%s\n%s\n%s\n", rule, prompt, rule)

	entries := make([]numberedEntry, 0, len(items))
	section := ""
	next := 0
	for i, it := range items {
		if it.Section != "" && (i == 0 || it.Section != section) {
			fmt.Fprintf(n.Out, "\n▼ %s\n%s\n", it.Section, strings.Repeat("-", ruleWidth))
		}
		section = it.Section

		e := numberedEntry{item: it, index: -1}
		if !it.Header {
			e.index = next
			next++
		}
		entries = append(entries, e)

		fmt.Fprintf(n.Out, "%2d. %s\n", len(entries), it.Label)
		if it.Detail != "" {
			fmt.Fprintf(n.Out, "    %s\n", it.Detail)
		}
	}

	fmt.Fprintf(n.Out, "\n%2d. ** SELECT ALL **\n", len(entries)+1)
	fmt.Fprintf(n.Out, "%2d. ** DONE **\n", len(entries)+2)
	fmt.Fprintln(n.Out, rule)
	return entries
}

func (n *Numbered) toggle(state *State, e numberedEntry) {
	if e.index < 0 {
		count := state.ToggleSection(e.item.Section)
		fmt.Fprintf(n.Out, "✓ Toggled %d items in %s\n", count, e.item.Section)
		return
	}
	state.ToggleAt(e.index)
	if state.IsSelected(e.index) {
		fmt.Fprintf(n.Out, "✓ Added: %s\n", e.item.Label)
	} else {
		fmt.Fprintf(n.Out, "✗ Removed: %s\n", e.item.Label)
	}
}
