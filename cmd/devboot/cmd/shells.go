package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wexinc/devboot/internal/catalog"
	devbooterrors "github.com/wexinc/devboot/internal/errors"
	"github.com/wexinc/devboot/internal/logging"
	"github.com/wexinc/devboot/internal/selector"
)

func newShellsCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "shells [ids...]",
		Short: "Configure shell profiles",
		Long: `Write the managed shell profiles and add the include lines to each
shell's own config file. Every file is backed up before it is changed.

Examples:
  devboot shells                     # Pick from the shell catalog
  devboot shells bash nushell        # Configure the named shells
  devboot shells --all               # Configure every listed shell
  devboot shells --all --dry-run     # Show the changes without writing`,
		RunE: runShells,
	}
	c.Flags().Bool("all", false, "Configure every shell in the catalog")
	c.Flags().Bool("dry-run", false, "Print a diff of the changes instead of writing them")
	return c
}

func runShells(cmd *cobra.Command, args []string) error {
	all, _ := cmd.Flags().GetBool("all")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	if all && len(args) > 0 {
		return fmt.Errorf("--all cannot be combined with shell ids")
	}

	ctx, cancel := signalContext(cmd.Context())
	defer cancel()

	s, err := newSession(ctx, cmd)
	if err != nil {
		return err
	}
	defer s.close()

	if !dryRun {
		return finishAction(cmd, newMenu(cmd, s, nil).Shells(ctx, args, all))
	}

	ids, err := shellIDs(ctx, cmd, s, args, all)
	if err != nil {
		return finishAction(cmd, err)
	}
	return finishAction(cmd, previewShells(ctx, cmd, s, ids))
}

// shellIDs resolves the shells a dry run covers: the given ids, every
// configurable shell, or the user's pick.
func shellIDs(ctx context.Context, cmd *cobra.Command, s *session, args []string, all bool) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}

	cat, err := s.catalogs.LoadShells(ctx)
	if err != nil {
		return nil, err
	}
	if all {
		return shellEntryIDs(cat.Configurable()), nil
	}

	lines := selector.NewLineReader(cmd.InOrStdin())
	picked, err := newSelector(cmd, lines).Select(ctx, "Select shells to preview", selector.FromShells(cat.Visible()))
	if err != nil {
		return nil, err
	}
	return selector.IDs(picked), nil
}

func shellEntryIDs(entries []catalog.ShellEntry) []string {
	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.ID
	}
	return ids
}

// previewShells prints the diff of every routine. An unknown shell is a
// warning; the other previews still run.
func previewShells(ctx context.Context, cmd *cobra.Command, s *session, ids []string) error {
	out := cmd.OutOrStdout()
	if len(ids) == 0 {
		fmt.Fprintln(out, "[INFO] No shells selected.")
		return nil
	}

	for _, id := range ids {
		diff, err := s.shells.Preview(ctx, id)
		switch {
		case err == nil:
		case errors.Is(err, devbooterrors.ErrNotFound):
			fmt.Fprintf(out, "[WARN] %s\n", err)
			continue
		default:
			return err
		}

		fmt.Fprintf(out, "=== %s ===\n", id)
		if diff == "" {
			fmt.Fprintln(out, "(no changes)")
			continue
		}
		fmt.Fprint(out, diff)
		logging.Debug("previewed shell", "shell", id, "bytes", len(diff))
	}
	return nil
}
