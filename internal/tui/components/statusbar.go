package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/wexinc/devboot/internal/tui/styles"
)

// Message levels for the status line.
const (
	LevelInfo    = "info"
	LevelSuccess = "success"
	LevelWarning = "warning"
	LevelError   = "error"
)

// StatusBarData contains the data to display in the status bar.
type StatusBarData struct {
	ElapsedTime  time.Duration
	Busy         bool
	Activity     string // what the running batch is doing
	Message      string
	MessageLevel string
	Shortcuts    []ShortcutDef // overrides the defaults
}

// StatusBar shows the worker state, the last status message and shortcuts.
type StatusBar struct {
	data    StatusBarData
	width   int
	spinner *Spinner
}

// NewStatusBar creates a new StatusBar component.
func NewStatusBar() *StatusBar {
	sp := NewSpinner()
	sp.SetShowTime(false)
	return &StatusBar{
		data:    StatusBarData{MessageLevel: LevelInfo},
		spinner: sp,
	}
}

// Spinner returns the spinner shown while busy.
func (s *StatusBar) Spinner() *Spinner {
	return s.spinner
}

// SetData updates the status bar data.
func (s *StatusBar) SetData(data StatusBarData) {
	s.data = data
}

// Data returns the current data.
func (s *StatusBar) Data() StatusBarData {
	return s.data
}

// SetElapsedTime sets the elapsed time.
func (s *StatusBar) SetElapsedTime(d time.Duration) {
	s.data.ElapsedTime = d
}

// SetBusy marks the worker busy with activity, or idle.
func (s *StatusBar) SetBusy(busy bool, activity string) {
	s.data.Busy = busy
	s.data.Activity = activity
	s.spinner.SetStatusText(activity)
}

// SetMessage sets the status message.
func (s *StatusBar) SetMessage(level, message string) {
	s.data.MessageLevel = level
	s.data.Message = message
}

// SetWidth sets the width of the status bar.
func (s *StatusBar) SetWidth(width int) {
	s.width = width
}

// View renders the status bar.
func (s *StatusBar) View() string {
	sep := lipgloss.NewStyle().
		Foreground(styles.Muted).
		Render(" │ ")

	left := lipgloss.NewStyle().Foreground(styles.MutedLight).Render("Time: ") +
		lipgloss.NewStyle().Foreground(styles.Foreground).Render(formatElapsed(s.data.ElapsedTime)) +
		sep

	if s.data.Busy {
		left += s.spinner.View()
	} else {
		left += lipgloss.NewStyle().Foreground(styles.Muted).Render("○ Idle")
	}

	if s.data.Message != "" {
		left += sep + s.messageStyle().Render(s.data.Message)
	}

	shortcuts := s.data.Shortcuts
	if len(shortcuts) == 0 {
		shortcuts = DashboardShortcuts
		if s.data.Busy {
			shortcuts = DashboardBusyShortcuts
		}
	}
	right := NewShortcutBar(shortcuts...).View()

	style := lipgloss.NewStyle().
		Background(styles.Background).
		Padding(0, 1)
	if s.width > 0 {
		style = style.Width(s.width)
		padding := s.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
		if padding > 0 {
			return style.Render(left + strings.Repeat(" ", padding) + right)
		}
	}
	return style.Render(left + "  " + right)
}

func (s *StatusBar) messageStyle() lipgloss.Style {
	switch s.data.MessageLevel {
	case LevelSuccess:
		return styles.SuccessTextStyle
	case LevelWarning:
		return styles.WarningTextStyle
	case LevelError:
		return styles.ErrorTextStyle
	default:
		return lipgloss.NewStyle().Foreground(styles.MutedLight).Italic(true)
	}
}

// formatElapsed formats a duration as HH:MM:SS or MM:SS.
func formatElapsed(d time.Duration) string {
	d = d.Round(time.Second)
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	sec := int(d.Seconds()) % 60

	if h > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", h, m, sec)
	}
	return fmt.Sprintf("%02d:%02d", m, sec)
}
