package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/wexinc/devboot/internal/selector"
	"github.com/wexinc/devboot/internal/tui/styles"
)

// checklistRow is one visible line: a section header or an item.
type checklistRow struct {
	item  selector.Item
	state int // index into the selection state, -1 for headers
}

// Checklist is a scrollable checkbox panel. Items with a section are grouped
// under a collapsible header showing how many of the section are marked.
type Checklist struct {
	title       string
	items       []selector.Item
	stateIndex  []int
	state       *selector.State
	collapsed   map[string]bool
	rows        []checklistRow
	cursor      int
	scrollStart int
	height      int
	width       int
	focused     bool
}

// NewChecklist creates an empty checklist.
func NewChecklist(title string) *Checklist {
	return &Checklist{
		title:     title,
		state:     selector.NewState(nil),
		collapsed: map[string]bool{},
		height:    10,
	}
}

// SetItems replaces the items and clears the marks.
func (c *Checklist) SetItems(items []selector.Item) {
	c.items = items
	c.state = selector.NewState(items)
	c.collapsed = map[string]bool{}
	c.stateIndex = make([]int, len(items))
	next := 0
	for i, it := range items {
		if it.Header {
			c.stateIndex[i] = -1
			continue
		}
		c.stateIndex[i] = next
		next++
	}
	c.cursor = 0
	c.scrollStart = 0
	c.rebuild()
}

// rebuild recomputes the visible rows from the collapsed sections.
func (c *Checklist) rebuild() {
	c.rows = c.rows[:0]
	for i, it := range c.items {
		if !it.Header && c.collapsed[it.Section] {
			continue
		}
		c.rows = append(c.rows, checklistRow{item: it, state: c.stateIndex[i]})
	}
	if c.cursor >= len(c.rows) {
		c.cursor = len(c.rows) - 1
	}
	if c.cursor < 0 {
		c.cursor = 0
	}
	c.updateScroll()
}

// SetSize sets the panel dimensions. The height counts item lines only.
func (c *Checklist) SetSize(width, height int) {
	c.width = width
	if height < 1 {
		height = 1
	}
	c.height = height
	c.updateScroll()
}

// SetFocused sets whether the panel has focus.
func (c *Checklist) SetFocused(focused bool) {
	c.focused = focused
}

// Focused reports whether the panel has focus.
func (c *Checklist) Focused() bool {
	return c.focused
}

// Cursor returns the index of the highlighted row.
func (c *Checklist) Cursor() int {
	return c.cursor
}

// Current returns the highlighted item.
func (c *Checklist) Current() (selector.Item, bool) {
	if len(c.rows) == 0 {
		return selector.Item{}, false
	}
	return c.rows[c.cursor].item, true
}

// MoveUp moves the cursor up.
func (c *Checklist) MoveUp() {
	if c.cursor > 0 {
		c.cursor--
		c.updateScroll()
	}
}

// MoveDown moves the cursor down.
func (c *Checklist) MoveDown() {
	if c.cursor < len(c.rows)-1 {
		c.cursor++
		c.updateScroll()
	}
}

// GoToTop moves the cursor to the first row.
func (c *Checklist) GoToTop() {
	c.cursor = 0
	c.updateScroll()
}

// GoToBottom moves the cursor to the last row.
func (c *Checklist) GoToBottom() {
	if len(c.rows) > 0 {
		c.cursor = len(c.rows) - 1
		c.updateScroll()
	}
}

// Toggle flips the highlighted item. On a section header it marks the whole
// section, or clears it when every item is already marked.
func (c *Checklist) Toggle() {
	if len(c.rows) == 0 {
		return
	}
	row := c.rows[c.cursor]
	if row.state < 0 {
		c.state.ToggleSection(row.item.Section)
		return
	}
	c.state.ToggleAt(row.state)
}

// ToggleCollapse folds or unfolds the section under the cursor.
func (c *Checklist) ToggleCollapse() {
	if len(c.rows) == 0 {
		return
	}
	row := c.rows[c.cursor]
	if !row.item.Header {
		return
	}
	c.collapsed[row.item.Section] = !c.collapsed[row.item.Section]
	c.rebuild()
}

// IsCollapsed reports whether section is folded.
func (c *Checklist) IsCollapsed(section string) bool {
	return c.collapsed[section]
}

// SelectAll marks every item.
func (c *Checklist) SelectAll() {
	c.state.SelectAll()
}

// ClearAll unmarks every item.
func (c *Checklist) ClearAll() {
	c.state.ClearAll()
}

// Selected returns the marked items in document order.
func (c *Checklist) Selected() []selector.Item {
	return c.state.Marked()
}

// SelectedCount returns the number of marked items.
func (c *Checklist) SelectedCount() int {
	return c.state.SelectedCount()
}

// Len returns the number of selectable items.
func (c *Checklist) Len() int {
	return c.state.Len()
}

func (c *Checklist) updateScroll() {
	if c.cursor < c.scrollStart {
		c.scrollStart = c.cursor
	}
	if c.cursor >= c.scrollStart+c.height {
		c.scrollStart = c.cursor - c.height + 1
	}
	if c.scrollStart < 0 {
		c.scrollStart = 0
	}
}

// View renders the panel.
func (c *Checklist) View() string {
	titleStyle := styles.PanelTitleStyle
	if c.focused {
		titleStyle = styles.PanelTitleFocusedStyle
	}
	title := titleStyle.Render(fmt.Sprintf("%s (%d/%d)", c.title, c.state.SelectedCount(), c.state.Len()))

	if len(c.rows) == 0 {
		empty := lipgloss.NewStyle().
			Foreground(styles.Muted).
			Italic(true).
			Padding(0, 2).
			Render("Nothing to show")
		return c.box(title + "\n" + empty)
	}

	end := c.scrollStart + c.height
	if end > len(c.rows) {
		end = len(c.rows)
	}

	lines := make([]string, 0, end-c.scrollStart+2)
	if c.scrollStart > 0 {
		lines = append(lines, styles.MutedTextStyle.Render("  ↑ more above"))
	}
	for i := c.scrollStart; i < end; i++ {
		lines = append(lines, c.renderRow(c.rows[i], i == c.cursor))
	}
	if end < len(c.rows) {
		lines = append(lines, styles.MutedTextStyle.Render("  ↓ more below"))
	}

	return c.box(title + "\n" + strings.Join(lines, "\n"))
}

func (c *Checklist) box(content string) string {
	style := styles.BoxStyle
	if c.focused {
		style = styles.FocusedBoxStyle
	}
	if c.width > 2 {
		style = style.Width(c.width - 2)
	}
	return style.Render(content)
}

func (c *Checklist) renderRow(row checklistRow, highlighted bool) string {
	pointer := " "
	if highlighted && c.focused {
		pointer = lipgloss.NewStyle().Foreground(styles.Secondary).Bold(true).Render("›")
	}

	var line string
	if row.state < 0 {
		marked, total := c.state.SectionCount(row.item.Section)
		arrow := "▼"
		if c.collapsed[row.item.Section] {
			arrow = "▶"
		}
		counter := styles.ProgressCountStyle.Render(fmt.Sprintf("%d/%d", marked, total))
		line = fmt.Sprintf("%s %s %s %s", pointer, arrow, styles.SectionStyle.Render(row.item.Section), counter)
	} else {
		box := styles.CheckboxUncheckedStyle.Render("[ ]")
		if c.state.IsSelected(row.state) {
			box = styles.CheckboxCheckedStyle.Render("[✓]")
		}
		indent := ""
		if row.item.Section != "" {
			indent = "  "
		}
		line = fmt.Sprintf("%s %s%s %s", pointer, indent, box, row.item.Label)
		if row.item.Detail != "" {
			line += " " + styles.MutedTextStyle.Render(row.item.Detail)
		}
	}

	if highlighted && c.focused {
		line = lipgloss.NewStyle().Bold(true).Render(line)
	}
	return line
}
