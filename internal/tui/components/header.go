package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/wexinc/devboot/internal/tui/styles"
)

// HeaderData is what the title bar shows.
type HeaderData struct {
	Online         bool
	PackageManager string
	RunID          string
}

// Header is the dashboard title bar.
type Header struct {
	data  HeaderData
	width int
}

// NewHeader creates a header.
func NewHeader() *Header {
	return &Header{data: HeaderData{PackageManager: "-"}}
}

// SetData replaces the header data.
func (h *Header) SetData(data HeaderData) {
	h.data = data
}

// SetWidth sets the header width.
func (h *Header) SetWidth(width int) {
	h.width = width
}

// View renders the header.
func (h *Header) View() string {
	sep := lipgloss.NewStyle().
		Foreground(styles.MutedLight).
		Render(" │ ")

	mode := "💾 LOCAL"
	if h.data.Online {
		mode = "🌐 ONLINE"
	}

	content := styles.TitleStyle.Render("DEV ENVIRONMENT SETUP") + sep +
		styles.HeaderLabelStyle.Render("Mode: ") + styles.HeaderValueStyle.Render(mode) + sep +
		styles.HeaderLabelStyle.Render("Package manager: ") + styles.HeaderValueStyle.Render(h.data.PackageManager)

	if h.data.RunID != "" {
		run := h.data.RunID
		if len(run) > 8 {
			run = run[:8]
		}
		content += sep + styles.HeaderLabelStyle.Render("Run: ") + styles.HeaderValueStyle.Render(run)
	}

	style := lipgloss.NewStyle().
		Background(styles.Primary).
		Foreground(styles.Foreground).
		Padding(0, 1)
	if h.width > 0 {
		style = style.Width(h.width)
	}
	return style.Render(content)
}
