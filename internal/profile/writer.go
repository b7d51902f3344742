// Package profile writes shell profile files: timestamped backups, managed
// include blocks, the per-shell routines and a diff preview for dry runs.
package profile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	devbooterrors "github.com/wexinc/devboot/internal/errors"
	"github.com/wexinc/devboot/internal/logging"
)

// BackupTimeFormat is the timestamp embedded in backup file names.
const BackupTimeFormat = "20060102_150405"

// Change is the full proposed content of one file.
type Change struct {
	Path    string
	Content string
}

// Writer applies changes to profile files.
type Writer struct {
	// Out receives the [BACKUP]/[RESET]/[OK] lines shown to the user. Nil discards them.
	Out io.Writer
	// Now is the clock used for backup names.
	Now func() time.Time
}

// NewWriter creates a writer reporting to out.
func NewWriter(out io.Writer) *Writer {
	return &Writer{Out: out, Now: time.Now}
}

// Backup copies path to <path>.<YYYYmmdd_HHMMSS>.bak when it exists and
// returns the backup path, or "" when there was nothing to back up. A name
// already taken within the same second gets a -N suffix.
func (w *Writer) Backup(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", devbooterrors.ProfileWriteFailed(path, err)
	}
	info, err := os.Stat(path)
	if err != nil {
		return "", devbooterrors.ProfileWriteFailed(path, err)
	}

	base := fmt.Sprintf("%s.%s", path, w.now().Format(BackupTimeFormat))
	backup := base + ".bak"
	for n := 1; fileExists(backup); n++ {
		backup = fmt.Sprintf("%s-%d.bak", base, n)
	}

	if err := os.WriteFile(backup, data, info.Mode().Perm()); err != nil {
		return "", devbooterrors.ProfileWriteFailed(backup, err)
	}
	w.printf("[BACKUP] %s → %s\n", path, backup)
	logging.Info("backed up profile", "path", path, "backup", backup)
	return backup, nil
}

// Apply writes c.Content to c.Path, creating parent directories and taking
// exactly one backup of the previous content. A file that already holds the
// content is left alone.
func (w *Writer) Apply(c Change) (bool, error) {
	current, err := os.ReadFile(c.Path)
	switch {
	case err == nil:
		if bytes.Equal(current, []byte(c.Content)) {
			logging.Debug("profile unchanged", "path", c.Path)
			w.printf("[SKIP] %s is up to date\n", c.Path)
			return false, nil
		}
	case !errors.Is(err, os.ErrNotExist):
		return false, devbooterrors.ProfileWriteFailed(c.Path, err)
	}

	if err := os.MkdirAll(filepath.Dir(c.Path), 0755); err != nil {
		return false, devbooterrors.ProfileWriteFailed(c.Path, err)
	}
	if _, err := w.Backup(c.Path); err != nil {
		return false, err
	}
	if err := os.WriteFile(c.Path, []byte(c.Content), 0644); err != nil {
		return false, devbooterrors.ProfileWriteFailed(c.Path, err)
	}
	logging.Info("wrote profile", "path", c.Path, "bytes", len(c.Content))
	return true, nil
}

// Reset replaces path with content.
func (w *Writer) Reset(path, content string) error {
	changed, err := w.Apply(Change{Path: path, Content: content})
	if err == nil && changed {
		w.printf("[RESET] Created new profile at %s\n", path)
	}
	return err
}

// AppendManaged adds lines to the managed block of path, skipping lines the
// file already contains. It returns how many lines were added.
func (w *Writer) AppendManaged(path string, lines []string) (int, error) {
	current, err := readOptional(path)
	if err != nil {
		return 0, err
	}
	merged, added := MergeManaged(current, lines)
	if added == 0 {
		return 0, nil
	}
	if _, err := w.Apply(Change{Path: path, Content: merged}); err != nil {
		return 0, err
	}
	w.printf("[OK] Added %d line(s) to %s\n", added, path)
	return added, nil
}

// Preview returns a line diff between the file at c.Path and c.Content,
// or "" when they are identical.
func (w *Writer) Preview(c Change) (string, error) {
	current, err := readOptional(c.Path)
	if err != nil {
		return "", err
	}
	return Diff(c.Path, current, c.Content), nil
}

func (w *Writer) now() time.Time {
	if w.Now == nil {
		return time.Now()
	}
	return w.Now()
}

func (w *Writer) printf(format string, args ...any) {
	if w.Out != nil {
		fmt.Fprintf(w.Out, format, args...)
	}
}

// readOptional returns the file content, or "" when it does not exist.
func readOptional(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", devbooterrors.ProfileWriteFailed(path, err)
	}
	return string(data), nil
}

func fileExists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}
