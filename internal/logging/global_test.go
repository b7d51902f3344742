package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// resetGlobal leaves the package with no session logger after the test.
func resetGlobal(t *testing.T) {
	t.Helper()
	_ = CloseGlobal()
	t.Cleanup(func() { _ = CloseGlobal() })
}

func readSessionLog(t *testing.T) string {
	t.Helper()
	path := SessionLogPath()
	if path == "" {
		t.Fatal("no session log path")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading session log: %v", err)
	}
	return string(data)
}

func TestGlobal_DiscardsWithoutSession(t *testing.T) {
	resetGlobal(t)

	if Global() == nil {
		t.Fatal("Global() returned nil")
	}
	if Global() != noop {
		t.Error("expected the discarding logger before InitGlobal")
	}
	if got := SessionLogPath(); got != "" {
		t.Errorf("SessionLogPath() = %q, want empty", got)
	}

	Info("dropped") // must not panic
}

func TestSetGlobal(t *testing.T) {
	resetGlobal(t)

	var sb strings.Builder
	l := NewWriter(&sb, LevelInfo)
	SetGlobal(l)
	if Global() != l {
		t.Fatal("Global() should return the logger set by SetGlobal()")
	}

	Info("installed", "shell", "bash")
	if !strings.Contains(sb.String(), "shell=bash") {
		t.Errorf("output = %q", sb.String())
	}

	SetGlobal(nil)
	if Global() != noop {
		t.Error("SetGlobal(nil) should restore the discarding logger")
	}
}

func TestInitGlobal_WritesSessionLog(t *testing.T) {
	resetGlobal(t)
	dir := t.TempDir()

	if err := InitGlobal(&Config{Level: LevelDebug, LogDir: dir}); err != nil {
		t.Fatalf("InitGlobal() error = %v", err)
	}

	Debug("debug message")
	Info("info message")
	Warn("warn message")
	Error("error message")
	With("run_id", "r-1").Info("tagged")

	path := SessionLogPath()
	if filepath.Dir(path) != dir {
		t.Errorf("log written to %q, want under %q", path, dir)
	}
	if !strings.HasPrefix(filepath.Base(path), FilePrefix) {
		t.Errorf("log name %q lacks prefix %q", filepath.Base(path), FilePrefix)
	}

	content := readSessionLog(t)
	for _, want := range []string{"debug message", "info message", "warn message", "error message", "run_id=r-1"} {
		if !strings.Contains(content, want) {
			t.Errorf("session log missing %q", want)
		}
	}
}

func TestInitGlobal_ReplacesPrevious(t *testing.T) {
	resetGlobal(t)

	if err := InitGlobal(&Config{Level: LevelInfo, LogDir: t.TempDir()}); err != nil {
		t.Fatal(err)
	}
	first := Global()

	if err := InitGlobal(&Config{Level: LevelInfo, LogDir: t.TempDir()}); err != nil {
		t.Fatal(err)
	}
	if Global() == first {
		t.Error("second InitGlobal should install a new logger")
	}
}

func TestInitGlobal_BadDir(t *testing.T) {
	resetGlobal(t)
	file := filepath.Join(t.TempDir(), "not-a-dir")
	if err := os.WriteFile(file, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	if err := InitGlobal(&Config{LogDir: file}); err == nil {
		t.Fatal("expected an error when the log dir is a file")
	}
	if Global() != noop {
		t.Error("a failed InitGlobal must leave the discarding logger")
	}
}

func TestCloseGlobal(t *testing.T) {
	resetGlobal(t)

	if err := CloseGlobal(); err != nil {
		t.Errorf("CloseGlobal() without a session = %v", err)
	}

	if err := InitGlobal(&Config{Level: LevelInfo, LogDir: t.TempDir()}); err != nil {
		t.Fatal(err)
	}
	if err := CloseGlobal(); err != nil {
		t.Fatalf("CloseGlobal() error = %v", err)
	}
	if Global() != noop {
		t.Error("CloseGlobal should restore the discarding logger")
	}
}
