package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/wexinc/devboot/internal/tui/styles"
)

// ActionStyle picks the look of an action button.
type ActionStyle int

const (
	ActionStyleSecondary ActionStyle = iota
	ActionStylePrimary
	ActionStyleAccent
)

// Action is one button of the action bar.
type Action struct {
	Key   string
	Label string
	Style ActionStyle
}

// ActionBar is the row of dashboard actions. Every button is shown disabled
// while a batch runs.
type ActionBar struct {
	actions  []Action
	disabled bool
	width    int
}

// NewActionBar creates a bar with the given actions.
func NewActionBar(actions ...Action) *ActionBar {
	return &ActionBar{actions: actions}
}

// Actions returns the buttons in order.
func (a *ActionBar) Actions() []Action {
	return a.actions
}

// SetDisabled greys every button out.
func (a *ActionBar) SetDisabled(disabled bool) {
	a.disabled = disabled
}

// Disabled reports whether the buttons are greyed out.
func (a *ActionBar) Disabled() bool {
	return a.disabled
}

// SetWidth sets the bar width.
func (a *ActionBar) SetWidth(width int) {
	a.width = width
}

// View renders the buttons.
func (a *ActionBar) View() string {
	buttons := make([]string, 0, len(a.actions))
	for _, act := range a.actions {
		buttons = append(buttons, a.style(act.Style).Render("["+act.Key+"] "+act.Label))
	}
	row := strings.Join(buttons, " ")

	style := lipgloss.NewStyle().Padding(0, 1)
	if a.width > 0 {
		style = style.Width(a.width)
	}
	return style.Render(row)
}

func (a *ActionBar) style(s ActionStyle) lipgloss.Style {
	if a.disabled {
		return styles.ButtonDisabledStyle
	}
	switch s {
	case ActionStylePrimary:
		return styles.ButtonPrimaryStyle
	case ActionStyleAccent:
		return styles.ButtonAccentStyle
	default:
		return styles.ButtonSecondaryStyle
	}
}
