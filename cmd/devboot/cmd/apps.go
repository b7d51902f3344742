package cmd

import (
	"github.com/spf13/cobra"
)

func newAppsCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "apps",
		Short: "Select and install applications",
		Long: `Load the application catalog, pick entries and install them with
the package manager. Failed installs are reported and the batch goes on.

Examples:
  devboot apps            # Pick from the catalog
  devboot apps --all      # Install every catalog entry
  devboot apps --online   # Use the remote catalog`,
		Args: cobra.NoArgs,
		RunE: runApps,
	}
	c.Flags().Bool("all", false, "Install every application in the catalog")
	c.Flags().Bool("select", false, "Pick applications from the catalog (default)")
	c.MarkFlagsMutuallyExclusive("all", "select")
	return c
}

func runApps(cmd *cobra.Command, args []string) error {
	all, _ := cmd.Flags().GetBool("all")

	ctx, cancel := signalContext(cmd.Context())
	defer cancel()

	s, err := newSession(ctx, cmd)
	if err != nil {
		return err
	}
	defer s.close()

	return finishAction(cmd, newMenu(cmd, s, nil).Apps(ctx, all))
}
