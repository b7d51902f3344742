// Package components provides the widgets the dashboard is built from.
package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/wexinc/devboot/internal/tui/styles"
)

// ShortcutDef defines a single keyboard shortcut.
type ShortcutDef struct {
	Key  string
	Desc string
}

// ShortcutBar renders a row of key hints.
type ShortcutBar struct {
	shortcuts []ShortcutDef
}

// NewShortcutBar creates a bar with the given shortcuts.
func NewShortcutBar(shortcuts ...ShortcutDef) *ShortcutBar {
	return &ShortcutBar{shortcuts: shortcuts}
}

// View renders the bar as "key:desc │ key:desc".
func (s *ShortcutBar) View() string {
	if len(s.shortcuts) == 0 {
		return ""
	}
	parts := make([]string, 0, len(s.shortcuts))
	for _, sc := range s.shortcuts {
		parts = append(parts, styles.KeyStyle.Render(sc.Key)+styles.HelpStyle.Render(":"+sc.Desc))
	}
	return strings.Join(parts, lipgloss.NewStyle().Foreground(styles.Muted).Render(" │ "))
}

// Shortcut sets for the dashboard status line.
var (
	// DashboardShortcuts are shown while idle.
	DashboardShortcuts = []ShortcutDef{
		{"space", "toggle"},
		{"tab", "panel"},
		{"p/i/c/r", "actions"},
		{"q", "quit"},
		{"?", "help"},
	}

	// DashboardBusyShortcuts are shown while a batch runs.
	DashboardBusyShortcuts = []ShortcutDef{
		{"l", "log"},
		{"f", "follow"},
		{"q", "quit"},
		{"?", "help"},
	}
)
