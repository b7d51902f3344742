package components

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wexinc/devboot/internal/tui/styles"
)

// Spinner is an animated activity indicator with status text.
type Spinner struct {
	spinner    spinner.Model
	statusText string
	startTime  time.Time
	showTime   bool
}

// NewSpinner creates a spinner that shows elapsed time once started.
func NewSpinner() *Spinner {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(styles.Secondary)
	return &Spinner{spinner: s, showTime: true}
}

// SetStatusText sets the text next to the spinner.
func (s *Spinner) SetStatusText(text string) {
	s.statusText = text
}

// SetShowTime controls whether elapsed time is shown.
func (s *Spinner) SetShowTime(show bool) {
	s.showTime = show
}

// Start marks the start time for elapsed time tracking.
func (s *Spinner) Start() {
	s.startTime = time.Now()
}

// Tick returns the command that animates the spinner.
func (s *Spinner) Tick() tea.Msg {
	return s.spinner.Tick()
}

// Update advances the animation on spinner ticks.
func (s *Spinner) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	s.spinner, cmd = s.spinner.Update(msg)
	return cmd
}

// View renders the spinner and its text.
func (s *Spinner) View() string {
	line := s.spinner.View() + " " + lipgloss.NewStyle().Foreground(styles.Foreground).Render(s.statusText)
	if s.showTime && !s.startTime.IsZero() {
		line += " " + lipgloss.NewStyle().
			Foreground(styles.MutedLight).
			Render(fmt.Sprintf("(%s)", formatSpinnerDuration(time.Since(s.startTime))))
	}
	return line
}

func formatSpinnerDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm%ds", int(d.Minutes()), int(d.Seconds())%60)
	}
	return fmt.Sprintf("%dh%dm", int(d.Hours()), int(d.Minutes())%60)
}
