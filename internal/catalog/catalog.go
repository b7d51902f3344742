// Package catalog loads the application and shell catalogs.
//
// Both documents are JSON (any YAML is accepted too) and are decoded against a
// strict schema once at load time. Downstream code only sees the typed result.
package catalog

import (
	"fmt"
	"sort"
	"strings"
)

// GroupHeaderPrefix prefixes the id of every synthetic section header.
const GroupHeaderPrefix = "section-all-"

// MetaShellID is the shell catalog entry that stands for "every shell".
const MetaShellID = "all"

// DefaultShellOrder is used when a shell entry has no order.
const DefaultShellOrder = 999

// CatalogEntry is one application, or the synthetic header of its section.
type CatalogEntry struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Section       string `json:"section"`
	IsGroupHeader bool   `json:"is_group_header,omitempty"`
}

// GroupHeader builds the synthetic "select all in section" entry.
func GroupHeader(section string) CatalogEntry {
	return CatalogEntry{
		ID:            GroupHeaderPrefix + section,
		Name:          fmt.Sprintf("-- All in %s --", section),
		Section:       section,
		IsGroupHeader: true,
	}
}

// AppCatalog is the loaded application catalog in document order. Every
// section starts with its group header.
type AppCatalog struct {
	Entries  []CatalogEntry
	Source   string
	Warnings []string
}

// Installable returns the entries that are not group headers.
func (c *AppCatalog) Installable() []CatalogEntry {
	out := make([]CatalogEntry, 0, len(c.Entries))
	for _, e := range c.Entries {
		if !e.IsGroupHeader {
			out = append(out, e)
		}
	}
	return out
}

// Sections returns the section names in first-seen order.
func (c *AppCatalog) Sections() []string {
	var out []string
	seen := map[string]bool{}
	for _, e := range c.Entries {
		if !seen[e.Section] {
			seen[e.Section] = true
			out = append(out, e.Section)
		}
	}
	return out
}

// Find returns the entry with the given id.
func (c *AppCatalog) Find(id string) (CatalogEntry, bool) {
	for _, e := range c.Entries {
		if e.ID == id {
			return e, true
		}
	}
	return CatalogEntry{}, false
}

// ShellEntry is one configurable shell.
type ShellEntry struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Function    string   `json:"function"`
	Order       int      `json:"order"`
	Hidden      bool     `json:"hidden,omitempty"`
	Description string   `json:"description,omitempty"`
	Requires    []string `json:"requires,omitempty"`
}

// IsMeta reports whether the entry is the "all" pseudo shell.
func (s ShellEntry) IsMeta() bool {
	return strings.EqualFold(s.ID, MetaShellID)
}

// ShellCatalog is the loaded shell catalog sorted by Order.
type ShellCatalog struct {
	Version  string
	Shells   []ShellEntry
	Source   string
	Warnings []string
}

// Visible returns the non-hidden shells.
func (c *ShellCatalog) Visible() []ShellEntry {
	out := make([]ShellEntry, 0, len(c.Shells))
	for _, s := range c.Shells {
		if !s.Hidden {
			out = append(out, s)
		}
	}
	return out
}

// Configurable returns the visible shells without the meta entry. This is
// the set "configure all" acts on.
func (c *ShellCatalog) Configurable() []ShellEntry {
	var out []ShellEntry
	for _, s := range c.Visible() {
		if !s.IsMeta() {
			out = append(out, s)
		}
	}
	return out
}

// Find returns the shell with the given id, compared case-insensitively.
func (c *ShellCatalog) Find(id string) (ShellEntry, bool) {
	for _, s := range c.Shells {
		if strings.EqualFold(s.ID, id) {
			return s, true
		}
	}
	return ShellEntry{}, false
}

// sortShells orders by Order ascending, keeping document order for ties.
func sortShells(shells []ShellEntry) {
	sort.SliceStable(shells, func(i, j int) bool {
		return shells[i].Order < shells[j].Order
	})
}
