package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wexinc/devboot/internal/menu"
	"github.com/wexinc/devboot/internal/selector"
)

// runMenu runs the numbered main menu until the user exits.
func runMenu(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	// SIGINT is handed to the menu, which cancels only the running action.
	// SIGTERM ends the session.
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	interrupts := make(chan struct{}, 1)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case sig := <-sigChan:
				if sig == syscall.SIGTERM {
					cancel()
					return
				}
				select {
				case interrupts <- struct{}{}:
				default:
				}
			}
		}
	}()

	s, err := newSession(ctx, cmd)
	if err != nil {
		return err
	}
	defer s.close()

	return finishAction(cmd, newMenu(cmd, s, interrupts).Run(ctx))
}

// newMenu builds the menu for a session. The single-action commands reuse
// its selection flows.
func newMenu(cmd *cobra.Command, s *session, interrupts <-chan struct{}) *menu.Menu {
	lines := selector.NewLineReader(cmd.InOrStdin())
	return &menu.Menu{
		Actions:    s.dispatcher,
		Catalogs:   s.catalogs,
		Selector:   newSelector(cmd, lines),
		In:         lines,
		Out:        cmd.OutOrStdout(),
		Online:     s.online(),
		PMName:     s.cfg.PackageManager.Command,
		Interrupts: interrupts,
	}
}
