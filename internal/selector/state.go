package selector

// Phase is the lifecycle of one selection.
type Phase int

const (
	// Browsing accepts cursor moves and toggles.
	Browsing Phase = iota
	// Confirmed yields the marked items.
	Confirmed
	// Cancelled yields nothing.
	Cancelled
)

func (p Phase) String() string {
	switch p {
	case Browsing:
		return "browsing"
	case Confirmed:
		return "confirmed"
	case Cancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// State is the selection state machine shared by every front-end. It holds
// only selectable items; group headers are dropped on construction so they
// can never appear in a result.
//
// Once Confirmed or Cancelled, every transition is ignored.
type State struct {
	items    []Item
	selected []bool
	cursor   int
	phase    Phase
}

// NewState creates a state over the non-header items.
func NewState(items []Item) *State {
	sel := Selectable(items)
	return &State{
		items:    sel,
		selected: make([]bool, len(sel)),
	}
}

// Len is the number of selectable items.
func (s *State) Len() int { return len(s.items) }

// Items returns the selectable items.
func (s *State) Items() []Item { return s.items }

// Cursor returns the cursor index.
func (s *State) Cursor() int { return s.cursor }

// Phase returns the current phase.
func (s *State) Phase() Phase { return s.phase }

// Done reports whether the selection reached a terminal phase.
func (s *State) Done() bool { return s.phase != Browsing }

// IsSelected reports whether item i is marked.
func (s *State) IsSelected(i int) bool {
	return i >= 0 && i < len(s.selected) && s.selected[i]
}

// SelectedCount returns how many items are marked.
func (s *State) SelectedCount() int {
	n := 0
	for _, v := range s.selected {
		if v {
			n++
		}
	}
	return n
}

// Up moves the cursor up, wrapping to the last item.
func (s *State) Up() {
	if s.Done() || len(s.items) == 0 {
		return
	}
	s.cursor = (s.cursor - 1 + len(s.items)) % len(s.items)
}

// Down moves the cursor down, wrapping to the first item.
func (s *State) Down() {
	if s.Done() || len(s.items) == 0 {
		return
	}
	s.cursor = (s.cursor + 1) % len(s.items)
}

// Toggle flips the item under the cursor.
func (s *State) Toggle() {
	s.ToggleAt(s.cursor)
}

// ToggleAt flips item i. Out-of-range indexes are ignored.
func (s *State) ToggleAt(i int) {
	if s.Done() || i < 0 || i >= len(s.items) {
		return
	}
	s.selected[i] = !s.selected[i]
}

// ToggleAll marks every item, or clears them all when all are marked.
func (s *State) ToggleAll() {
	if s.Done() {
		return
	}
	all := s.SelectedCount() == len(s.items)
	for i := range s.selected {
		s.selected[i] = !all
	}
}

// SelectAll marks every item.
func (s *State) SelectAll() {
	if s.Done() {
		return
	}
	for i := range s.selected {
		s.selected[i] = true
	}
}

// ClearAll unmarks every item.
func (s *State) ClearAll() {
	if s.Done() {
		return
	}
	for i := range s.selected {
		s.selected[i] = false
	}
}

// Marked returns the marked items in order regardless of phase.
func (s *State) Marked() []Item {
	var out []Item
	for i, it := range s.items {
		if s.selected[i] {
			out = append(out, it)
		}
	}
	return out
}

// SectionCount returns how many items of section are marked and how many
// it has.
func (s *State) SectionCount(section string) (marked, total int) {
	for i, it := range s.items {
		if it.Section == section {
			total++
			if s.selected[i] {
				marked++
			}
		}
	}
	return marked, total
}

// ToggleSection marks every item of section, or clears them when all of them
// are already marked. It returns the number of items affected.
func (s *State) ToggleSection(section string) int {
	if s.Done() {
		return 0
	}
	var idx []int
	all := true
	for i, it := range s.items {
		if it.Section == section {
			idx = append(idx, i)
			all = all && s.selected[i]
		}
	}
	for _, i := range idx {
		s.selected[i] = !all
	}
	return len(idx)
}

// Confirm ends the selection, keeping the marks.
func (s *State) Confirm() {
	if !s.Done() {
		s.phase = Confirmed
	}
}

// Cancel ends the selection, discarding the marks.
func (s *State) Cancel() {
	if !s.Done() {
		s.phase = Cancelled
	}
}

// Result returns the marked items in order when confirmed, nil otherwise.
func (s *State) Result() []Item {
	if s.phase != Confirmed {
		return nil
	}
	return s.Marked()
}
