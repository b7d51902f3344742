package components

import (
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestLogViewport_Defaults(t *testing.T) {
	lv := NewLogViewport()
	if !lv.AutoFollow() {
		t.Error("auto-follow should be on by default")
	}
	if lv.LineCount() != 0 {
		t.Errorf("LineCount = %d, want 0", lv.LineCount())
	}
	if !strings.Contains(lv.View(), "Output") {
		t.Error("view should carry the title")
	}
}

func TestLogViewport_AppendTextJoinsPartialLines(t *testing.T) {
	lv := NewLogViewport()
	lv.AppendText("Found Git [Git.Git]\nDownl")
	lv.AppendText("oading 5 MB\n")
	lv.AppendText("done\n")

	want := "Found Git [Git.Git]\nDownloading 5 MB\ndone"
	if got := lv.Content(); got != want {
		t.Errorf("Content() = %q, want %q", got, want)
	}
}

func TestLogViewport_Write(t *testing.T) {
	lv := NewLogViewport()
	n, err := fmt.Fprintf(lv, "[OK] %s\n", "bash")
	if err != nil || n != len("[OK] bash\n") {
		t.Fatalf("Fprintf = %d, %v", n, err)
	}
	if lv.Content() != "[OK] bash" {
		t.Errorf("Content() = %q", lv.Content())
	}
}

func TestLogViewport_KeepsTail(t *testing.T) {
	lv := NewLogViewport()
	for i := 0; i < MaxLogLines+10; i++ {
		lv.AppendLine(fmt.Sprintf("line %d", i))
	}
	if lv.LineCount() != MaxLogLines {
		t.Fatalf("LineCount = %d, want %d", lv.LineCount(), MaxLogLines)
	}
	if !strings.HasPrefix(lv.Content(), "line 10\n") {
		t.Errorf("oldest lines should be dropped, content starts %q", lv.Content()[:20])
	}
}

func TestLogViewport_ScrollingStopsFollow(t *testing.T) {
	lv := NewLogViewport()
	lv.SetSize(40, 6)
	for i := 0; i < 20; i++ {
		lv.AppendLine(fmt.Sprintf("line %d", i))
	}
	lv.View()

	lv.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'k'}})
	if lv.AutoFollow() {
		t.Error("scrolling up should stop following")
	}

	lv.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'G'}})
	if !lv.AutoFollow() {
		t.Error("jumping to the bottom should follow again")
	}

	lv.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'f'}})
	if lv.AutoFollow() {
		t.Error("f should toggle follow off")
	}
}

func TestLogViewport_Clear(t *testing.T) {
	lv := NewLogViewport()
	lv.AppendText("partial")
	lv.Clear()
	lv.AppendText("fresh\n")
	if lv.Content() != "fresh" {
		t.Errorf("Content() = %q, want %q", lv.Content(), "fresh")
	}
}
