// Package cmd provides the CLI commands for devboot.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wexinc/devboot/internal/config"
	devbooterrors "github.com/wexinc/devboot/internal/errors"
)

// Version information, set by main.go from ldflags before Execute.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

var rootCmd = NewRootCmd()

// NewRootCmd builds the full command tree. Cobra commands keep flag state
// between runs, so tests build a fresh tree for every case.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "devboot",
		Short: "Bootstrap a development environment",
		Long: `devboot sets up a development machine: it checks for the package
manager, installs applications from a catalog and writes the shell
profiles for bash, nushell and powershell.

Without a subcommand it shows the numbered main menu.`,
		RunE:          runMenu,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	flags := root.PersistentFlags()
	flags.Bool("online", false, "Prefer the remote catalogs and dotfiles")
	flags.Bool("force-local", false, "Never contact the network, even with --online")
	flags.Bool("reset-profiles", true, "Overwrite each shell's own config file before adding includes")
	flags.String("config", "", "Config file (default: "+config.DefaultConfigPath()+")")
	flags.BoolP("verbose", "v", false, "Log debug output and mirror the log to stderr")

	root.AddCommand(
		newUICmd(),
		newAppsCmd(),
		newShellsCmd(),
		newPMCmd(),
		newHistoryCmd(),
		newVersionCmd(),
		newConfigCmd(),
	)
	return root
}

// Execute runs the root command. A fatal error is printed once and the
// process exits with status 1.
func Execute() {
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date)
	rootCmd.SetVersionTemplate("devboot {{.Version}}\n")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprint(os.Stderr, devbooterrors.FormatAny(err))
		os.Exit(1)
	}
}

// Root returns the root command for testing purposes.
func Root() *cobra.Command {
	return rootCmd
}
