package profile

import (
	"context"
	"strings"

	devbooterrors "github.com/wexinc/devboot/internal/errors"
	"github.com/wexinc/devboot/internal/logging"
)

// Configurator runs shell routines against the filesystem.
type Configurator struct {
	Writer *Writer
	Source Source
	Env    Env
}

// NewConfigurator creates a configurator.
func NewConfigurator(w *Writer, src Source, env Env) *Configurator {
	return &Configurator{Writer: w, Source: src, Env: env}
}

// Plan returns the changes the routine for id would make. Unknown ids return
// an UnknownShell error.
func (c *Configurator) Plan(ctx context.Context, id string) ([]Change, error) {
	r, ok := Lookup(id)
	if !ok {
		return nil, devbooterrors.UnknownShell(id, KnownIDs())
	}
	return r.Plan(ctx, c.Env, c.Source)
}

// Configure runs the routine for id and returns the paths it wrote. Nothing
// is written unless the whole plan could be built.
func (c *Configurator) Configure(ctx context.Context, id string) ([]string, error) {
	changes, err := c.Plan(ctx, id)
	if err != nil {
		return nil, err
	}

	log := logging.With("shell", id)
	log.Info("configuring shell", "files", len(changes))
	c.Writer.printf("[*] Configuring %s...\n", id)

	var written []string
	for _, ch := range changes {
		if err := ctx.Err(); err != nil {
			return written, devbooterrors.OperationCancelled("configure " + id)
		}
		changed, err := c.Writer.Apply(ch)
		if err != nil {
			log.Error("profile write failed", "path", ch.Path, "error", err)
			return written, err
		}
		if changed {
			c.Writer.printf("[OK] Updated %s\n", ch.Path)
			written = append(written, ch.Path)
		}
	}
	return written, nil
}

// Preview renders the diff of every file the routine for id would change.
func (c *Configurator) Preview(ctx context.Context, id string) (string, error) {
	changes, err := c.Plan(ctx, id)
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	for _, ch := range changes {
		d, err := c.Writer.Preview(ch)
		if err != nil {
			return "", err
		}
		sb.WriteString(d)
	}
	return sb.String(), nil
}
