package pkgmgr

import (
	"context"
	"errors"
	"io"
	"os/exec"
)

// Runner runs an external program to completion, streaming its combined
// output to stdout.
//
// A program that starts and exits non-zero is reported through exitCode
// with a nil error. err is reserved for programs that could not be started
// or were killed because ctx ended.
type Runner interface {
	Run(ctx context.Context, name string, args []string, stdout io.Writer) (exitCode int, err error)
}

// ExecRunner runs programs with os/exec.
type ExecRunner struct{}

// Run implements Runner.
func (ExecRunner) Run(ctx context.Context, name string, args []string, stdout io.Writer) (int, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = stdout
	cmd.Stderr = stdout

	err := cmd.Run()
	if err == nil {
		return 0, nil
	}
	if ctx.Err() != nil {
		return -1, ctx.Err()
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	return -1, err
}
