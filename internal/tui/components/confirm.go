package components

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wexinc/devboot/internal/tui/styles"
)

// ConfirmAction identifies what is being confirmed.
type ConfirmAction string

// ConfirmActionQuit quits while a batch is running.
const ConfirmActionQuit ConfirmAction = "quit"

// ConfirmDialog asks a yes/no question.
type ConfirmDialog struct {
	visible bool
	action  ConfirmAction
	title   string
	message string
	width   int
}

// NewConfirmDialog creates a hidden dialog.
func NewConfirmDialog() *ConfirmDialog {
	return &ConfirmDialog{width: 50}
}

// Show displays the dialog.
func (c *ConfirmDialog) Show(action ConfirmAction, title, message string) {
	c.visible = true
	c.action = action
	c.title = title
	c.message = message
}

// ShowQuit asks whether to stop the running batch and quit.
func (c *ConfirmDialog) ShowQuit(activity string) {
	c.Show(ConfirmActionQuit, "Quit while busy?",
		activity+" is still running. Quitting cancels it; the current step is stopped.")
}

// Hide hides the dialog.
func (c *ConfirmDialog) Hide() { c.visible = false }

// IsVisible reports whether the dialog is shown.
func (c *ConfirmDialog) IsVisible() bool { return c.visible }

// Action returns the action being confirmed.
func (c *ConfirmDialog) Action() ConfirmAction { return c.action }

// SetWidth sets the dialog width.
func (c *ConfirmDialog) SetWidth(width int) { c.width = width }

// Update answers y/enter with ConfirmYesMsg and n/esc with ConfirmNoMsg.
func (c *ConfirmDialog) Update(msg tea.Msg) tea.Cmd {
	if !c.visible {
		return nil
	}
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	switch strings.ToLower(keyMsg.String()) {
	case "y", "enter":
		action := c.action
		c.Hide()
		return func() tea.Msg { return ConfirmYesMsg{Action: action} }
	case "n", "esc":
		c.Hide()
		return func() tea.Msg { return ConfirmNoMsg{} }
	}
	return nil
}

// View renders the dialog, or "" when hidden.
func (c *ConfirmDialog) View() string {
	if !c.visible {
		return ""
	}

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().
		Foreground(styles.Foreground).
		Background(styles.Warning).
		Bold(true).
		Padding(0, 1).
		Width(c.width - 4).
		Render("  " + c.title))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().Foreground(styles.Foreground).Width(c.width - 8).Render(c.message))
	b.WriteString("\n\n")
	b.WriteString(styles.ButtonPrimaryStyle.Render("[Y]es"))
	b.WriteString("  ")
	b.WriteString(styles.ButtonSecondaryStyle.Render("[N]o"))

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(styles.Warning).
		Padding(1, 2).
		Render(b.String())
}

// ConfirmYesMsg is sent when the user confirms.
type ConfirmYesMsg struct {
	Action ConfirmAction
}

// ConfirmNoMsg is sent when the user declines.
type ConfirmNoMsg struct{}
