// Package pkgmgr drives the external package manager: detection, per-app
// installs with progress parsing, and the manual installer lookup.
package pkgmgr

import (
	"context"
	"io"
	"os/exec"
	"strings"

	"github.com/wexinc/devboot/internal/config"
	devbooterrors "github.com/wexinc/devboot/internal/errors"
	"github.com/wexinc/devboot/internal/logging"
)

// outputTailLines is how much output is kept for a failed install report.
const outputTailLines = 5

// Line is one line of install output with its parsed progress, if any.
type Line struct {
	Text        string
	Progress    Progress
	HasProgress bool
}

// Manager wraps the package manager binary.
type Manager struct {
	Command string
	Runner  Runner
	// LookPath resolves Command on PATH; tests replace it.
	LookPath func(string) (string, error)
}

// New creates a manager for cfg.Command using os/exec.
func New(cfg config.PackageManagerConfig) *Manager {
	command := cfg.Command
	if command == "" {
		command = config.DefaultCommand
	}
	return &Manager{
		Command:  command,
		Runner:   ExecRunner{},
		LookPath: exec.LookPath,
	}
}

// Available reports whether the package manager binary is on PATH.
func (m *Manager) Available() bool {
	_, err := m.lookPath()
	return err == nil
}

// Path returns the resolved binary path.
func (m *Manager) Path() (string, error) {
	return m.lookPath()
}

func (m *Manager) lookPath() (string, error) {
	lp := m.LookPath
	if lp == nil {
		lp = exec.LookPath
	}
	return lp(m.Command)
}

// InstallArgs returns the arguments for a silent, exact-id install.
func InstallArgs(id string) []string {
	return []string{
		"install", "-e", "--id", id,
		"--accept-source-agreements", "--accept-package-agreements",
	}
}

// Install installs the package with the given id, calling onLine for each
// output line. A non-zero exit status yields an InstallFailed error carrying
// the last lines of output.
func (m *Manager) Install(ctx context.Context, id string, onLine func(Line)) error {
	log := logging.With("app_id", id)
	log.Info("installing package", "command", m.Command)

	last := &tail{n: outputTailLines}
	split := &lineSplitter{emit: func(text string) {
		last.add(text)
		if onLine == nil {
			return
		}
		l := Line{Text: text}
		l.Progress, l.HasProgress = ParseProgress(text)
		onLine(l)
	}}
	logOut := log.Writer(logging.LevelDebug)

	code, err := m.Runner.Run(ctx, m.Command, InstallArgs(id), io.MultiWriter(split, logOut))
	split.Flush()
	if f, ok := logOut.(interface{ Flush() }); ok {
		f.Flush()
	}

	switch {
	case ctx.Err() != nil:
		log.Warn("install cancelled")
		return devbooterrors.OperationCancelled("install " + id)
	case err != nil:
		log.Error("install could not start", "error", err)
		return devbooterrors.Wrap(err, devbooterrors.ErrInstall, "failed to run "+m.Command)
	case code != 0:
		log.Error("install failed", "exit_code", code)
		return devbooterrors.InstallFailed(id, code, last.String())
	}

	log.Info("install succeeded")
	return nil
}

// Version returns the package manager's self-reported version, e.g. "v1.9.25200".
func (m *Manager) Version(ctx context.Context) (string, error) {
	var out strings.Builder
	code, err := m.Runner.Run(ctx, m.Command, []string{"--version"}, &out)
	if err != nil {
		return "", devbooterrors.Wrap(err, devbooterrors.ErrInstall, "failed to run "+m.Command)
	}
	if code != 0 {
		return "", devbooterrors.InstallFailed(m.Command, code, strings.TrimSpace(out.String()))
	}
	fields := strings.Fields(out.String())
	if len(fields) == 0 {
		return "", devbooterrors.New(devbooterrors.ErrInstall, m.Command+" reported no version")
	}
	return fields[len(fields)-1], nil
}
