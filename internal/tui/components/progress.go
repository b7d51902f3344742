package components

import (
	"fmt"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/wexinc/devboot/internal/tui/styles"
)

// ProgressData is what the batch progress line shows.
type ProgressData struct {
	Index int // 1-based item being worked on
	Total int
	// Percent is the batch completion, 0-100.
	Percent    int
	StatusText string
}

// Progress shows batch progress as a bar with an item counter.
type Progress struct {
	bar   progress.Model
	data  ProgressData
	width int
}

// NewProgress creates an empty progress line.
func NewProgress() *Progress {
	bar := progress.New(progress.WithScaledGradient(string(styles.Primary), string(styles.Secondary)))
	bar.Width = 30
	return &Progress{bar: bar}
}

// SetData replaces the progress data.
func (p *Progress) SetData(data ProgressData) {
	p.data = data
}

// Data returns the current progress data.
func (p *Progress) Data() ProgressData {
	return p.data
}

// SetPercent sets the batch completion, clamped to 0-100.
func (p *Progress) SetPercent(percent int) {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	p.data.Percent = percent
}

// SetStatusText sets the text after the counter.
func (p *Progress) SetStatusText(text string) {
	p.data.StatusText = text
}

// Reset clears the bar.
func (p *Progress) Reset() {
	p.data = ProgressData{}
}

// SetWidth sets the line width.
func (p *Progress) SetWidth(width int) {
	p.width = width
	switch {
	case width > 100:
		p.bar.Width = 40
	case width > 60:
		p.bar.Width = 30
	default:
		p.bar.Width = 20
	}
}

// PercentComplete returns the completion as a fraction.
func (p *Progress) PercentComplete() float64 {
	return float64(p.data.Percent) / 100
}

// IsComplete reports whether the batch reached 100%.
func (p *Progress) IsComplete() bool {
	return p.data.Percent >= 100
}

// View renders the progress line.
func (p *Progress) View() string {
	sep := lipgloss.NewStyle().Foreground(styles.Muted).Render(" │ ")

	content := "Progress: " + p.bar.ViewAs(p.PercentComplete())
	if p.data.Total > 0 {
		content += sep + styles.ProgressCountStyle.Render(fmt.Sprintf("%d/%d", p.data.Index, p.data.Total))
	}
	if p.data.StatusText != "" {
		status := lipgloss.NewStyle().
			Foreground(styles.MutedLight).
			Italic(true).
			Render(p.data.StatusText)
		content += sep + status
	}

	style := lipgloss.NewStyle().Padding(0, 1)
	if p.width > 0 {
		style = style.Width(p.width)
	}
	return style.Render(content)
}
