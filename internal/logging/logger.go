// Package logging provides structured logging for devboot.
// Each session writes a timestamped log file; old files are pruned by count and age.
package logging

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// FilePrefix is the name prefix of every session log file.
const FilePrefix = "devboot_"

// Level represents log severity levels.
type Level int

const (
	// LevelDebug is for detailed debugging information.
	LevelDebug Level = iota
	// LevelInfo is for informational messages.
	LevelInfo
	// LevelWarn is for warning messages.
	LevelWarn
	// LevelError is for error messages.
	LevelError
)

// String returns the string representation of the level.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel converts a config string ("debug", "info", "warn", "error") to a Level.
// Unknown values map to LevelInfo.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

func (l Level) toSlogLevel() slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Config configures the logger.
type Config struct {
	// Level is the minimum log level to output.
	Level Level
	// LogDir is the directory to write log files.
	LogDir string
	// MaxLogFiles is the maximum number of log files to keep.
	MaxLogFiles int
	// MaxLogAge is the maximum age of log files before cleanup.
	MaxLogAge time.Duration
	// Console mirrors log records to stderr.
	Console bool
	// JSONFormat uses JSON output format for structured logs.
	JSONFormat bool
}

// DefaultConfig returns default logging configuration.
func DefaultConfig() *Config {
	return &Config{
		Level:       LevelInfo,
		LogDir:      filepath.Join(".devboot", "logs"),
		MaxLogFiles: 10,
		MaxLogAge:   7 * 24 * time.Hour,
	}
}

// Logger is a structured logger backed by a session log file.
type Logger struct {
	slog    *slog.Logger
	config  *Config
	logFile *os.File
	logPath string
	mu      sync.Mutex
}

// New creates a new logger with the given configuration.
// It creates a log file in the configured log directory.
func New(config *Config) (*Logger, error) {
	if config == nil {
		config = DefaultConfig()
	}

	if err := os.MkdirAll(config.LogDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	logger := &Logger{config: config}
	if err := logger.open(); err != nil {
		return nil, err
	}

	go func() { _ = logger.Cleanup() }()

	return logger, nil
}

// NewNoop creates a no-op logger that discards all output.
func NewNoop() *Logger {
	return &Logger{
		slog:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		config: &Config{},
	}
}

// NewWriter creates a logger that writes to w without a backing file.
// Tests use it to capture output.
func NewWriter(w io.Writer, level Level) *Logger {
	return &Logger{
		slog:   slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level.toSlogLevel()})),
		config: &Config{Level: level},
	}
}

// open creates a fresh timestamped log file and points the handler at it.
// Callers hold l.mu or own l exclusively.
func (l *Logger) open() error {
	name := fmt.Sprintf("%s%s.log", FilePrefix, time.Now().Format("20060102_150405"))
	logPath := filepath.Join(l.config.LogDir, name)
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}

	writers := []io.Writer{logFile}
	if l.config.Console {
		writers = append(writers, os.Stderr)
	}

	l.logFile = logFile
	l.logPath = logPath
	l.slog = slog.New(newHandler(io.MultiWriter(writers...), l.config))
	return nil
}

func newHandler(w io.Writer, config *Config) slog.Handler {
	opts := &slog.HandlerOptions{Level: config.Level.toSlogLevel()}
	if config.JSONFormat {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}

// LogPath returns the path to the current log file.
func (l *Logger) LogPath() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.logPath
}

// Close closes the log file.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.logFile != nil {
		err := l.logFile.Close()
		l.logFile = nil
		return err
	}
	return nil
}

// Debug logs a debug message.
func (l *Logger) Debug(msg string, args ...any) {
	l.slog.Debug(msg, args...)
}

// Info logs an info message.
func (l *Logger) Info(msg string, args ...any) {
	l.slog.Info(msg, args...)
}

// Warn logs a warning message.
func (l *Logger) Warn(msg string, args ...any) {
	l.slog.Warn(msg, args...)
}

// Error logs an error message.
func (l *Logger) Error(msg string, args ...any) {
	l.slog.Error(msg, args...)
}

// With returns a new logger with the given attributes added.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{
		slog:    l.slog.With(args...),
		config:  l.config,
		logFile: l.logFile,
		logPath: l.logPath,
	}
}

// WithContext returns a logger carrying the run and action ids stored in ctx.
func (l *Logger) WithContext(ctx context.Context) *Logger {
	newLogger := l.slog

	if runID, ok := ctx.Value(ContextKeyRunID).(string); ok && runID != "" {
		newLogger = newLogger.With("run_id", runID)
	}
	if action, ok := ctx.Value(ContextKeyAction).(string); ok && action != "" {
		newLogger = newLogger.With("action", action)
	}

	return &Logger{
		slog:    newLogger,
		config:  l.config,
		logFile: l.logFile,
		logPath: l.logPath,
	}
}

type contextKey string

const (
	// ContextKeyRunID is the context key for the batch run id.
	ContextKeyRunID contextKey = "run_id"
	// ContextKeyAction is the context key for the dispatched action name.
	ContextKeyAction contextKey = "action"
)

// WithRunID adds a run id to the context.
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, ContextKeyRunID, runID)
}

// WithAction adds an action name to the context.
func WithAction(ctx context.Context, action string) context.Context {
	return context.WithValue(ctx, ContextKeyAction, action)
}

// Writer returns an io.Writer that logs each line at the given level.
// Used to capture output from the package manager.
func (l *Logger) Writer(level Level) io.Writer {
	return &logWriter{
		logger: l,
		level:  level,
	}
}

type logWriter struct {
	logger *Logger
	level  Level
	buf    []byte
}

// Write implements io.Writer, logging each complete line.
func (w *logWriter) Write(p []byte) (n int, err error) {
	w.buf = append(w.buf, p...)
	for {
		idx := bytes.IndexByte(w.buf, '\n')
		if idx < 0 {
			break
		}
		line := strings.TrimRight(string(w.buf[:idx]), "\r")
		w.buf = w.buf[idx+1:]
		w.emit(line)
	}
	return len(p), nil
}

// Flush writes any remaining buffered data.
func (w *logWriter) Flush() {
	if len(w.buf) > 0 {
		line := string(w.buf)
		w.buf = nil
		w.emit(line)
	}
}

func (w *logWriter) emit(line string) {
	if strings.TrimSpace(line) == "" {
		return
	}
	switch w.level {
	case LevelDebug:
		w.logger.Debug(line)
	case LevelWarn:
		w.logger.Warn(line)
	case LevelError:
		w.logger.Error(line)
	default:
		w.logger.Info(line)
	}
}

// Cleanup removes old log files based on MaxLogFiles and MaxLogAge.
func (l *Logger) Cleanup() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.config.LogDir == "" {
		return nil
	}

	entries, err := os.ReadDir(l.config.LogDir)
	if err != nil {
		return fmt.Errorf("failed to read log directory: %w", err)
	}

	type logFileInfo struct {
		path    string
		modTime time.Time
	}
	var logFiles []logFileInfo

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, FilePrefix) || !strings.HasSuffix(name, ".log") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		logFiles = append(logFiles, logFileInfo{
			path:    filepath.Join(l.config.LogDir, name),
			modTime: info.ModTime(),
		})
	}

	// Newest first
	sort.Slice(logFiles, func(i, j int) bool {
		return logFiles[i].modTime.After(logFiles[j].modTime)
	})

	now := time.Now()
	var removed int

	for i, lf := range logFiles {
		if lf.path == l.logPath {
			continue
		}

		expired := l.config.MaxLogAge > 0 && now.Sub(lf.modTime) > l.config.MaxLogAge
		overflow := l.config.MaxLogFiles > 0 && i >= l.config.MaxLogFiles
		if expired || overflow {
			if err := os.Remove(lf.path); err == nil {
				removed++
			}
		}
	}

	if removed > 0 {
		l.slog.Debug("cleaned up old log files", "count", removed)
	}

	return nil
}

// Rotate closes the current log file and creates a new one.
func (l *Logger) Rotate() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.logFile != nil {
		if err := l.logFile.Close(); err != nil {
			return fmt.Errorf("failed to close log file: %w", err)
		}
	}

	return l.open()
}

// Tail returns up to n trailing lines of the current log file.
func (l *Logger) Tail(n int) ([]string, error) {
	path := l.LogPath()
	if path == "" {
		return nil, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
		if n > 0 && len(lines) > n {
			lines = lines[1:]
		}
	}
	return lines, scanner.Err()
}
