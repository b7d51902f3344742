package cmd

import (
	"github.com/spf13/cobra"

	"github.com/wexinc/devboot/internal/logging"
	"github.com/wexinc/devboot/internal/tui"
)

func newUICmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ui",
		Short: "Open the full-screen dashboard",
		Long: `Open the dashboard: checkbox panels for applications and shells,
one-key actions, a progress bar and the live output of the running batch.

Only one batch runs at a time.`,
		Args: cobra.NoArgs,
		RunE: runUI,
	}
}

func runUI(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext(cmd.Context())
	defer cancel()

	s, err := newSession(ctx, cmd)
	if err != nil {
		return err
	}
	defer s.close()

	err = tui.Run(ctx, s.dispatcher, tui.RunOptions{Online: s.online()})
	// The alternate screen takes the dashboard log with it.
	if path := logging.SessionLogPath(); path != "" {
		cmd.Printf("Session log: %s\n", path)
	}
	return finishAction(cmd, err)
}
