// Package selector collects a subset of catalog entries from the user.
//
// Every front-end satisfies the same contract: given an ordered list of
// items and a prompt, return the items the user marked, never a group
// header, or nothing at all when the user cancels.
package selector

import (
	"context"
	"strings"

	"github.com/wexinc/devboot/internal/catalog"
)

// Item is the projection of a catalog entry shown by a selector.
type Item struct {
	ID      string
	Label   string
	Section string
	// Header marks a synthetic "select all in section" entry.
	Header bool
	// Detail is an optional second line (shell description, requirements).
	Detail string
}

// Selector presents items and returns the subset the user marked.
type Selector interface {
	Select(ctx context.Context, prompt string, items []Item) ([]Item, error)
}

// FromApps projects application catalog entries, group headers included.
func FromApps(entries []catalog.CatalogEntry) []Item {
	items := make([]Item, len(entries))
	for i, e := range entries {
		items[i] = Item{
			ID:      e.ID,
			Label:   e.Name,
			Section: e.Section,
			Header:  e.IsGroupHeader,
		}
	}
	return items
}

// FromShells projects shell entries. The meta entry is dropped; it has no
// routine of its own.
func FromShells(shells []catalog.ShellEntry) []Item {
	items := make([]Item, 0, len(shells))
	for _, s := range shells {
		if s.IsMeta() {
			continue
		}
		items = append(items, Item{
			ID:     s.ID,
			Label:  s.Name,
			Detail: shellDetail(s),
		})
	}
	return items
}

func shellDetail(s catalog.ShellEntry) string {
	detail := s.Description
	if len(s.Requires) > 0 {
		if detail != "" {
			detail += " · "
		}
		detail += "requires: " + strings.Join(s.Requires, ", ")
	}
	return detail
}

// IDs returns the ids of items in order.
func IDs(items []Item) []string {
	ids := make([]string, len(items))
	for i, it := range items {
		ids[i] = it.ID
	}
	return ids
}

// Selectable returns items without group headers.
func Selectable(items []Item) []Item {
	out := make([]Item, 0, len(items))
	for _, it := range items {
		if !it.Header {
			out = append(out, it)
		}
	}
	return out
}
