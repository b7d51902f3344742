package logging

import "sync/atomic"

// noop backs Global until a session log is installed.
var noop = NewNoop()

var session atomic.Pointer[Logger]

// Global returns the session logger, or a logger that discards everything
// when no session log is open.
func Global() *Logger {
	if l := session.Load(); l != nil {
		return l
	}
	return noop
}

// SetGlobal installs l as the session logger. Nil restores the discarding
// logger.
func SetGlobal(l *Logger) {
	session.Store(l)
}

// Debug logs to the session logger.
func Debug(msg string, args ...any) { Global().Debug(msg, args...) }

// Info logs to the session logger.
func Info(msg string, args ...any) { Global().Info(msg, args...) }

// Warn logs to the session logger.
func Warn(msg string, args ...any) { Global().Warn(msg, args...) }

// Error logs to the session logger.
func Error(msg string, args ...any) { Global().Error(msg, args...) }

// With returns the session logger with attrs added.
func With(args ...any) *Logger {
	return Global().With(args...)
}

// InitGlobal opens a session log from config (DefaultConfig when nil) and
// installs it. A previously installed logger is closed.
func InitGlobal(config *Config) error {
	l, err := New(config)
	if err != nil {
		return err
	}
	if prev := session.Swap(l); prev != nil {
		_ = prev.Close()
	}
	return nil
}

// CloseGlobal closes the session log. Later calls log nowhere.
func CloseGlobal() error {
	l := session.Swap(nil)
	if l == nil {
		return nil
	}
	return l.Close()
}

// SessionLogPath is the file the session logger writes, "" when there is
// none.
func SessionLogPath() string {
	return Global().LogPath()
}
