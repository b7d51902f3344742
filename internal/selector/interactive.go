package selector

import (
	"context"
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wexinc/devboot/internal/tui/styles"
)

// Interactive is the arrow-key checkbox selector, run as a Bubble Tea
// program on the given terminal streams.
type Interactive struct {
	In  io.Reader
	Out io.Writer
}

// NewInteractive creates an interactive selector. A nil in means the
// program's default input (stdin).
func NewInteractive(in io.Reader, out io.Writer) *Interactive {
	return &Interactive{In: in, Out: out}
}

// Select implements Selector.
func (s *Interactive) Select(ctx context.Context, prompt string, items []Item) ([]Item, error) {
	state := NewState(items)
	if state.Len() == 0 {
		fmt.Fprintln(s.Out, "[WARN] No items to select")
		return nil, nil
	}

	opts := []tea.ProgramOption{tea.WithContext(ctx), tea.WithOutput(s.Out)}
	if s.In != nil {
		opts = append(opts, tea.WithInput(s.In))
	}

	final, err := tea.NewProgram(newChecklistModel(prompt, state), opts...).Run()
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, err
	}

	m, ok := final.(*checklistModel)
	if !ok {
		return nil, fmt.Errorf("unexpected model %T", final)
	}
	return m.state.Result(), nil
}

// chromeLines is the number of rows taken by title, help and footer.
const chromeLines = 7

// checklistModel drives a State from key presses.
type checklistModel struct {
	prompt      string
	state       *State
	height      int
	scrollStart int
}

func newChecklistModel(prompt string, state *State) *checklistModel {
	return &checklistModel{prompt: prompt, state: state}
}

// Init implements tea.Model.
func (m *checklistModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *checklistModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.height = msg.Height - chromeLines
		m.updateScroll()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			m.state.Up()
		case "down", "j":
			m.state.Down()
		case " ", "x":
			m.state.Toggle()
		case "a":
			m.state.ToggleAll()
		case "enter":
			m.state.Confirm()
			return m, tea.Quit
		case "q", "esc", "ctrl+c":
			m.state.Cancel()
			return m, tea.Quit
		}
		m.updateScroll()
	}
	return m, nil
}

// updateScroll keeps the cursor inside the visible window.
func (m *checklistModel) updateScroll() {
	if m.height <= 0 {
		m.scrollStart = 0
		return
	}
	cursor := m.state.Cursor()
	if cursor < m.scrollStart {
		m.scrollStart = cursor
	}
	if cursor >= m.scrollStart+m.height {
		m.scrollStart = cursor - m.height + 1
	}
	if m.scrollStart < 0 {
		m.scrollStart = 0
	}
}

// View implements tea.Model.
func (m *checklistModel) View() string {
	switch m.state.Phase() {
	case Confirmed:
		return styles.SuccessTextStyle.Render(fmt.Sprintf("✓ %d selected", m.state.SelectedCount())) + "\n"
	case Cancelled:
		return styles.MutedTextStyle.Render("Selection cancelled") + "\n"
	}

	var b strings.Builder
	b.WriteString(styles.TitleStyle.Render(m.prompt))
	b.WriteString("\n")
	b.WriteString(styles.HelpStyle.Render("↑/↓ navigate · space select · a all · enter confirm · q cancel"))
	b.WriteString("\n")

	items := m.state.Items()
	end := len(items)
	if m.height > 0 && m.scrollStart+m.height < end {
		end = m.scrollStart + m.height
	}

	if m.scrollStart > 0 {
		b.WriteString(styles.MutedTextStyle.Render("  ↑ more above"))
		b.WriteString("\n")
	}

	sectionStyle := lipgloss.NewStyle().Foreground(styles.Primary).Bold(true)
	cursorStyle := lipgloss.NewStyle().Foreground(styles.Secondary).Bold(true)

	for i := m.scrollStart; i < end; i++ {
		it := items[i]
		if it.Section != "" && (i == m.scrollStart || it.Section != items[i-1].Section) {
			b.WriteString("\n")
			b.WriteString(sectionStyle.Render("▼ " + it.Section))
			b.WriteString("\n")
		}

		pointer := "   "
		label := it.Label
		if i == m.state.Cursor() {
			pointer = cursorStyle.Render(" → ")
			label = cursorStyle.Render(label)
		}

		box := styles.CheckboxUncheckedStyle.Render("[ ]")
		if m.state.IsSelected(i) {
			box = styles.CheckboxCheckedStyle.Render("[✓]")
		}

		b.WriteString(pointer + box + " " + label + "\n")
		if it.Detail != "" && i == m.state.Cursor() {
			b.WriteString(styles.MutedTextStyle.Render("       "+it.Detail) + "\n")
		}
	}

	if end < len(items) {
		b.WriteString(styles.MutedTextStyle.Render("  ↓ more below"))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(styles.ProgressCountStyle.Render(
		fmt.Sprintf("Selected: %d/%d items", m.state.SelectedCount(), m.state.Len())))
	b.WriteString("\n")

	return b.String()
}
