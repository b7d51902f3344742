// Package styles holds the Lip Gloss palette and styles of the dashboard.
package styles

import (
	"github.com/charmbracelet/lipgloss"
)

// Color palette.
var (
	Primary     = lipgloss.Color("#7C3AED") // Purple
	Secondary   = lipgloss.Color("#06B6D4") // Cyan
	Success     = lipgloss.Color("#10B981") // Green
	Warning     = lipgloss.Color("#F59E0B") // Amber
	Error       = lipgloss.Color("#EF4444") // Red
	Accent      = lipgloss.Color("#FF6B35") // Orange, the "run all" action
	Muted       = lipgloss.Color("#6B7280")
	MutedLight  = lipgloss.Color("#9CA3AF")
	Background  = lipgloss.Color("#1F2937")
	Foreground  = lipgloss.Color("#F9FAFB")
	BorderColor = lipgloss.Color("#374151")
)

// Header styles.
var (
	HeaderLabelStyle = lipgloss.NewStyle().
				Foreground(MutedLight)

	HeaderValueStyle = lipgloss.NewStyle().
				Foreground(Foreground).
				Bold(true)

	TitleStyle = lipgloss.NewStyle().
			Foreground(Foreground).
			Background(Primary).
			Bold(true).
			Padding(0, 1)
)

// Panel styles.
var (
	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(BorderColor).
			Padding(0, 1)

	FocusedBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Primary).
			Padding(0, 1)

	PanelTitleStyle = lipgloss.NewStyle().
			Foreground(MutedLight).
			Bold(true)

	PanelTitleFocusedStyle = lipgloss.NewStyle().
				Foreground(Foreground).
				Background(Primary).
				Bold(true).
				Padding(0, 1)

	SectionStyle = lipgloss.NewStyle().
			Foreground(Secondary).
			Bold(true)

	CheckboxCheckedStyle = lipgloss.NewStyle().
				Foreground(Success)

	CheckboxUncheckedStyle = lipgloss.NewStyle().
				Foreground(Muted)

	ProgressCountStyle = lipgloss.NewStyle().
				Foreground(Secondary)
)

// Text styles.
var (
	MutedTextStyle = lipgloss.NewStyle().
			Foreground(Muted)

	ErrorTextStyle = lipgloss.NewStyle().
			Foreground(Error)

	SuccessTextStyle = lipgloss.NewStyle().
				Foreground(Success)

	WarningTextStyle = lipgloss.NewStyle().
				Foreground(Warning)
)

// Status bar and key hint styles.
var (
	KeyStyle = lipgloss.NewStyle().
			Foreground(Secondary).
			Bold(true)

	HelpStyle = lipgloss.NewStyle().
			Foreground(Muted)
)

// Action bar buttons.
var (
	ButtonPrimaryStyle = lipgloss.NewStyle().
				Foreground(Background).
				Background(Primary).
				Bold(true).
				Padding(0, 2)

	ButtonSecondaryStyle = lipgloss.NewStyle().
				Foreground(Foreground).
				Background(BorderColor).
				Padding(0, 2)

	ButtonAccentStyle = lipgloss.NewStyle().
				Foreground(Foreground).
				Background(Accent).
				Bold(true).
				Padding(0, 2)

	ButtonDisabledStyle = lipgloss.NewStyle().
				Foreground(Muted).
				Background(Background).
				Padding(0, 2)
)
