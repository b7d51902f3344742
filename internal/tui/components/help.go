package components

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wexinc/devboot/internal/tui/styles"
)

// Shortcut is one line of the help overlay.
type Shortcut struct {
	Key  string
	Desc string
}

// ShortcutGroup is a titled block of shortcuts.
type ShortcutGroup struct {
	Title     string
	Shortcuts []Shortcut
}

// HelpOverlay lists the key bindings.
type HelpOverlay struct {
	visible bool
	width   int
	groups  []ShortcutGroup
}

// NewHelpOverlay creates a hidden overlay listing groups.
func NewHelpOverlay(groups []ShortcutGroup) *HelpOverlay {
	return &HelpOverlay{width: 60, groups: groups}
}

// SetWidth sets the overlay width.
func (h *HelpOverlay) SetWidth(width int) {
	h.width = width
}

// Show makes the overlay visible.
func (h *HelpOverlay) Show() { h.visible = true }

// Hide hides the overlay.
func (h *HelpOverlay) Hide() { h.visible = false }

// Toggle flips visibility.
func (h *HelpOverlay) Toggle() { h.visible = !h.visible }

// IsVisible reports whether the overlay is shown.
func (h *HelpOverlay) IsVisible() bool { return h.visible }

// Update closes the overlay on any key.
func (h *HelpOverlay) Update(msg tea.Msg) tea.Cmd {
	if !h.visible {
		return nil
	}
	if _, ok := msg.(tea.KeyMsg); ok {
		h.Hide()
	}
	return nil
}

// View renders the overlay, or "" when hidden.
func (h *HelpOverlay) View() string {
	if !h.visible {
		return ""
	}

	var b strings.Builder
	b.WriteString(styles.TitleStyle.Width(h.width - 4).Render("  Keyboard Shortcuts"))
	b.WriteString("\n\n")

	keyStyle := lipgloss.NewStyle().Foreground(styles.Foreground).Bold(true).Width(8)
	descStyle := lipgloss.NewStyle().Foreground(styles.MutedLight)
	groupStyle := lipgloss.NewStyle().Foreground(styles.Secondary).Bold(true)

	for i, g := range h.groups {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(groupStyle.Render(g.Title))
		b.WriteString("\n")
		for _, sc := range g.Shortcuts {
			b.WriteString("  " + keyStyle.Render(sc.Key) + " " + descStyle.Render(sc.Desc) + "\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(styles.HelpStyle.Italic(true).Render("Press any key to close"))

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(styles.Primary).
		Padding(1, 2).
		Render(b.String())
}
