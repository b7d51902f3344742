package components

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds the dashboard key bindings.
type KeyMap struct {
	Up             key.Binding
	Down           key.Binding
	Top            key.Binding
	Bottom         key.Binding
	Toggle         key.Binding
	Collapse       key.Binding
	SelectAll      key.Binding
	ClearAll       key.Binding
	NextPane       key.Binding
	InstallPM      key.Binding
	InstallApps    key.Binding
	ConfigureShell key.Binding
	RunAll         key.Binding
	Logs           key.Binding
	Follow         key.Binding
	Help           key.Binding
	Quit           key.Binding
	Escape         key.Binding
}

// DefaultKeyMap returns the default dashboard bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Top: key.NewBinding(
			key.WithKeys("home", "g"),
			key.WithHelp("g", "top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("end", "G"),
			key.WithHelp("G", "bottom"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" ", "x"),
			key.WithHelp("space", "toggle"),
		),
		Collapse: key.NewBinding(
			key.WithKeys("enter", "left", "right"),
			key.WithHelp("enter", "fold section"),
		),
		SelectAll: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "select all"),
		),
		ClearAll: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "select none"),
		),
		NextPane: key.NewBinding(
			key.WithKeys("tab", "shift+tab"),
			key.WithHelp("tab", "switch panel"),
		),
		InstallPM: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "install package manager"),
		),
		InstallApps: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "install selected apps"),
		),
		ConfigureShell: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "configure selected shells"),
		),
		RunAll: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "run all"),
		),
		Logs: key.NewBinding(
			key.WithKeys("l"),
			key.WithHelp("l", "focus log"),
		),
		Follow: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "follow log"),
		),
		Help: key.NewBinding(
			key.WithKeys("?", "h"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
	}
}

// HelpGroups lays the bindings out for the help overlay.
func (k KeyMap) HelpGroups() []ShortcutGroup {
	return []ShortcutGroup{
		{Title: "Actions", Shortcuts: shortcuts(k.InstallPM, k.InstallApps, k.ConfigureShell, k.RunAll)},
		{Title: "Selection", Shortcuts: shortcuts(k.Toggle, k.Collapse, k.SelectAll, k.ClearAll)},
		{Title: "Navigation", Shortcuts: shortcuts(k.Up, k.Down, k.Top, k.Bottom, k.NextPane, k.Logs, k.Follow)},
		{Title: "General", Shortcuts: shortcuts(k.Help, k.Escape, k.Quit)},
	}
}

func shortcuts(bindings ...key.Binding) []Shortcut {
	out := make([]Shortcut, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		out = append(out, Shortcut{Key: h.Key, Desc: h.Desc})
	}
	return out
}
