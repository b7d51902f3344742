package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wexinc/devboot/internal/tui/styles"
)

// MaxLogLines bounds the transcript kept in memory.
const MaxLogLines = 5000

// LogViewport shows the batch transcript and follows new lines until the
// user scrolls up. At most MaxLogLines lines are kept.
type LogViewport struct {
	viewport   viewport.Model
	lines      []string
	autoFollow bool
	focused    bool
	title      string
	width      int
	height     int
	// dirty is set when lines changed since the viewport content was built.
	dirty bool
	// partial is set when the last line has not been terminated yet.
	partial bool
}

// NewLogViewport creates an empty log.
func NewLogViewport() *LogViewport {
	return &LogViewport{
		viewport:   viewport.New(80, 10),
		lines:      make([]string, 0, 256),
		autoFollow: true,
		title:      "Output",
		width:      80,
		height:     12,
	}
}

// SetTitle sets the title bar text.
func (l *LogViewport) SetTitle(title string) {
	l.title = title
}

// SetSize sets the outer dimensions, title and help line included.
func (l *LogViewport) SetSize(width, height int) {
	l.width = width
	l.height = height
	l.viewport.Width = max(width-2, 1)
	l.viewport.Height = max(height-4, 1)
}

// SetFocused sets whether the log has focus.
func (l *LogViewport) SetFocused(focused bool) {
	l.focused = focused
}

// Focused reports whether the log has focus.
func (l *LogViewport) Focused() bool {
	return l.focused
}

// AutoFollow reports whether new lines scroll the view.
func (l *LogViewport) AutoFollow() bool {
	return l.autoFollow
}

// ToggleAutoFollow flips auto-follow, jumping to the end when enabled.
func (l *LogViewport) ToggleAutoFollow() {
	l.autoFollow = !l.autoFollow
	if l.autoFollow {
		l.viewport.GotoBottom()
	}
}

// Clear drops every line.
func (l *LogViewport) Clear() {
	l.lines = l.lines[:0]
	l.partial = false
	l.dirty = false
	l.viewport.SetContent("")
}

// Write implements io.Writer.
func (l *LogViewport) Write(p []byte) (int, error) {
	l.AppendText(string(p))
	return len(p), nil
}

// AppendText appends raw text. Text without a trailing newline stays open
// and the next call continues it.
func (l *LogViewport) AppendText(text string) {
	if text == "" {
		return
	}
	parts := strings.Split(text, "\n")
	for i, part := range parts {
		if i == len(parts)-1 && part == "" {
			break
		}
		if i == 0 && l.partial && len(l.lines) > 0 {
			l.lines[len(l.lines)-1] += part
			continue
		}
		l.lines = append(l.lines, part)
	}
	l.partial = !strings.HasSuffix(text, "\n")
	l.trim()
	l.dirty = true
}

// AppendLine appends one complete line.
func (l *LogViewport) AppendLine(line string) {
	l.lines = append(l.lines, line)
	l.partial = false
	l.trim()
	l.dirty = true
}

func (l *LogViewport) trim() {
	if over := len(l.lines) - MaxLogLines; over > 0 {
		l.lines = append(l.lines[:0], l.lines[over:]...)
	}
}

// Content returns the transcript.
func (l *LogViewport) Content() string {
	return strings.Join(l.lines, "\n")
}

// LineCount returns the number of lines kept.
func (l *LogViewport) LineCount() int {
	return len(l.lines)
}

func (l *LogViewport) refresh() {
	if !l.dirty {
		return
	}
	l.viewport.SetContent(l.Content())
	l.dirty = false
	if l.autoFollow {
		l.viewport.GotoBottom()
	}
}

// GoToTop scrolls to the first line and stops following.
func (l *LogViewport) GoToTop() {
	l.refresh()
	l.viewport.GotoTop()
	l.autoFollow = false
}

// GoToBottom scrolls to the last line and resumes following.
func (l *LogViewport) GoToBottom() {
	l.refresh()
	l.viewport.GotoBottom()
	l.autoFollow = true
}

// ScrollUp scrolls up one line and stops following.
func (l *LogViewport) ScrollUp() {
	l.refresh()
	l.viewport.LineUp(1)
	l.autoFollow = false
}

// ScrollDown scrolls down one line, following again at the bottom.
func (l *LogViewport) ScrollDown() {
	l.refresh()
	l.viewport.LineDown(1)
	if l.viewport.AtBottom() {
		l.autoFollow = true
	}
}

// Update handles scrolling keys.
func (l *LogViewport) Update(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		l.viewport, cmd = l.viewport.Update(msg)
		return cmd
	}

	switch keyMsg.String() {
	case "up", "k":
		l.ScrollUp()
	case "down", "j":
		l.ScrollDown()
	case "pgup", "ctrl+u":
		l.refresh()
		l.viewport.HalfViewUp()
		l.autoFollow = false
	case "pgdown", "ctrl+d":
		l.refresh()
		l.viewport.HalfViewDown()
		if l.viewport.AtBottom() {
			l.autoFollow = true
		}
	case "home", "g":
		l.GoToTop()
	case "end", "G":
		l.GoToBottom()
	case "f":
		l.ToggleAutoFollow()
	}
	return nil
}

// View renders the title, the viewport and a help line.
func (l *LogViewport) View() string {
	l.refresh()

	title := l.title
	if l.autoFollow {
		title += " [follow]"
	}
	titleLine := styles.PanelTitleStyle.Render(title)
	if l.focused {
		titleLine = styles.PanelTitleFocusedStyle.Render(title)
	}
	titleLine += lipgloss.NewStyle().
		Foreground(styles.MutedLight).
		Render(fmt.Sprintf(" %.0f%%", l.viewport.ScrollPercent()*100))

	border := styles.BorderColor
	if l.focused {
		border = styles.Primary
	}
	body := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Render(l.viewport.View())

	help := lipgloss.NewStyle().
		Foreground(styles.Muted).
		Italic(true).
		Render("j/k: scroll  g/G: top/bottom  f: toggle follow")

	return titleLine + "\n" + body + "\n" + help
}
