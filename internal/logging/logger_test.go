package logging

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func newTestLogger(t *testing.T, level Level, json bool) *Logger {
	t.Helper()
	logger, err := New(&Config{
		Level:      level,
		LogDir:     t.TempDir(),
		JSONFormat: json,
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { _ = logger.Close() })
	return logger
}

func readLog(t *testing.T, logger *Logger) string {
	t.Helper()
	content, err := os.ReadFile(logger.LogPath())
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	return string(content)
}

func TestNew(t *testing.T) {
	logDir := filepath.Join(t.TempDir(), "logs")

	logger, err := New(&Config{
		Level:       LevelDebug,
		LogDir:      logDir,
		MaxLogFiles: 5,
		MaxLogAge:   24 * time.Hour,
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer logger.Close()

	if _, err := os.Stat(logDir); os.IsNotExist(err) {
		t.Error("Log directory was not created")
	}

	logPath := logger.LogPath()
	if !strings.HasPrefix(filepath.Base(logPath), FilePrefix) {
		t.Errorf("log file %q should start with %q", logPath, FilePrefix)
	}
	if _, err := os.Stat(logPath); os.IsNotExist(err) {
		t.Error("Log file was not created")
	}
}

func TestNewNoop(t *testing.T) {
	logger := NewNoop()

	// Should not panic
	logger.Debug("test")
	logger.Info("test")
	logger.Warn("test")
	logger.Error("test")

	if logger.LogPath() != "" {
		t.Error("noop logger should not have a log file")
	}
}

func TestNewWriter(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWriter(&buf, LevelInfo)

	logger.Debug("hidden")
	logger.Info("shown", "id", "Git.Git")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("debug message should be filtered")
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "Git.Git") {
		t.Errorf("expected info message with attribute, got %q", out)
	}
}

func TestLogLevels(t *testing.T) {
	logger := newTestLogger(t, LevelDebug, false)

	logger.Debug("debug message", "key", "value")
	logger.Info("info message", "key", "value")
	logger.Warn("warn message", "key", "value")
	logger.Error("error message", "key", "value")

	content := readLog(t, logger)
	for _, want := range []string{"debug message", "info message", "warn message", "error message"} {
		if !strings.Contains(content, want) {
			t.Errorf("Log file missing %q", want)
		}
	}
}

func TestLogLevelFiltering(t *testing.T) {
	logger := newTestLogger(t, LevelWarn, false)

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warn message")
	logger.Error("error message")

	content := readLog(t, logger)
	if strings.Contains(content, "debug message") {
		t.Error("Debug message should have been filtered")
	}
	if strings.Contains(content, "info message") {
		t.Error("Info message should have been filtered")
	}
	if !strings.Contains(content, "warn message") {
		t.Error("Warn message should be present")
	}
	if !strings.Contains(content, "error message") {
		t.Error("Error message should be present")
	}
}

func TestJSONFormat(t *testing.T) {
	logger := newTestLogger(t, LevelInfo, true)

	logger.Info("test message", "key", "value")

	content := readLog(t, logger)
	if !strings.Contains(content, `"msg"`) {
		t.Error("JSON format should contain 'msg' key")
	}
	if !strings.Contains(content, `"key"`) {
		t.Error("JSON format should contain 'key' key")
	}
}

func TestWith(t *testing.T) {
	logger := newTestLogger(t, LevelInfo, false)

	logger.With("app_id", "Git.Git").Info("installing")

	if !strings.Contains(readLog(t, logger), "Git.Git") {
		t.Error("Log should contain app_id attribute")
	}
}

func TestWithContext(t *testing.T) {
	logger := newTestLogger(t, LevelInfo, false)

	ctx := context.Background()
	ctx = WithRunID(ctx, "run-123")
	ctx = WithAction(ctx, "install_apps")

	logger.WithContext(ctx).Info("context message")

	content := readLog(t, logger)
	if !strings.Contains(content, "run-123") {
		t.Error("Log should contain run_id from context")
	}
	if !strings.Contains(content, "install_apps") {
		t.Error("Log should contain action from context")
	}
}

func TestWriter(t *testing.T) {
	logger := newTestLogger(t, LevelInfo, false)

	writer := logger.Writer(LevelInfo)
	_, _ = writer.Write([]byte("line one\r\nline two\n\n"))

	content := readLog(t, logger)
	if !strings.Contains(content, "line one") {
		t.Error("Log should contain 'line one'")
	}
	if !strings.Contains(content, "line two") {
		t.Error("Log should contain 'line two'")
	}
}

func TestWriterFlush(t *testing.T) {
	logger := newTestLogger(t, LevelInfo, false)

	writer := logger.Writer(LevelWarn)
	_, _ = writer.Write([]byte("partial line"))

	if strings.Contains(readLog(t, logger), "partial line") {
		t.Fatal("partial line should stay buffered until flushed")
	}

	writer.(*logWriter).Flush()

	if !strings.Contains(readLog(t, logger), "partial line") {
		t.Error("Log should contain flushed partial line")
	}
}

func TestCleanup(t *testing.T) {
	tmpDir := t.TempDir()

	for i := 0; i < 15; i++ {
		name := filepath.Join(tmpDir, fmt.Sprintf("%s20240101_0000%02d.log", FilePrefix, i))
		if err := os.WriteFile(name, []byte("test"), 0o644); err != nil {
			t.Fatalf("Failed to create test log file: %v", err)
		}
	}
	// Files without the prefix are left alone
	if err := os.WriteFile(filepath.Join(tmpDir, "other.log"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	logger, err := New(&Config{
		Level:       LevelInfo,
		LogDir:      tmpDir,
		MaxLogFiles: 5,
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer logger.Close()

	if err := logger.Cleanup(); err != nil {
		t.Fatalf("Cleanup() error = %v", err)
	}

	entries, err := os.ReadDir(tmpDir)
	if err != nil {
		t.Fatalf("Failed to read log dir: %v", err)
	}

	count := 0
	otherKept := false
	for _, e := range entries {
		if e.Name() == "other.log" {
			otherKept = true
			continue
		}
		if strings.HasPrefix(e.Name(), FilePrefix) {
			count++
		}
	}

	// At most MaxLogFiles + the current log
	if count > 6 {
		t.Errorf("Expected at most 6 log files, got %d", count)
	}
	if !otherKept {
		t.Error("Cleanup should not remove unrelated files")
	}
}

func TestRotate(t *testing.T) {
	logger := newTestLogger(t, LevelInfo, false)

	oldPath := logger.LogPath()
	logger.Info("before rotate")

	// Log names have second resolution
	time.Sleep(1100 * time.Millisecond)

	if err := logger.Rotate(); err != nil {
		t.Fatalf("Rotate() error = %v", err)
	}

	newPath := logger.LogPath()
	if oldPath == newPath {
		t.Skip("log paths are the same (clock resolution)")
	}

	logger.Info("after rotate")

	oldContent, err := os.ReadFile(oldPath)
	if err != nil {
		t.Fatalf("Failed to read old log file: %v", err)
	}
	if !strings.Contains(string(oldContent), "before rotate") {
		t.Error("Old log file should contain 'before rotate'")
	}
	if !strings.Contains(readLog(t, logger), "after rotate") {
		t.Error("New log file should contain 'after rotate'")
	}
}

func TestTail(t *testing.T) {
	logger := newTestLogger(t, LevelInfo, false)

	for i := 0; i < 5; i++ {
		logger.Info(fmt.Sprintf("message %d", i))
	}

	lines, err := logger.Tail(2)
	if err != nil {
		t.Fatalf("Tail() error = %v", err)
	}
	if len(lines) != 2 {
		t.Fatalf("Tail(2) returned %d lines", len(lines))
	}
	if !strings.Contains(lines[1], "message 4") {
		t.Errorf("last line = %q, want message 4", lines[1])
	}
}

func TestLevelString(t *testing.T) {
	tests := []struct {
		level    Level
		expected string
	}{
		{LevelDebug, "DEBUG"},
		{LevelInfo, "INFO"},
		{LevelWarn, "WARN"},
		{LevelError, "ERROR"},
		{Level(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		if got := tt.level.String(); got != tt.expected {
			t.Errorf("Level(%d).String() = %v, want %v", tt.level, got, tt.expected)
		}
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]Level{
		"debug":   LevelDebug,
		"INFO":    LevelInfo,
		"warning": LevelWarn,
		" error ": LevelError,
		"bogus":   LevelInfo,
		"":        LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.Level != LevelInfo {
		t.Errorf("DefaultConfig().Level = %v, want %v", config.Level, LevelInfo)
	}
	if config.MaxLogFiles != 10 {
		t.Errorf("DefaultConfig().MaxLogFiles = %v, want %v", config.MaxLogFiles, 10)
	}
	if config.MaxLogAge != 7*24*time.Hour {
		t.Errorf("DefaultConfig().MaxLogAge = %v, want %v", config.MaxLogAge, 7*24*time.Hour)
	}
}
