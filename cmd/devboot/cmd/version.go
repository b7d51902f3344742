package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/wexinc/devboot/internal/version"
)

// ReleaseRepo is the repository devboot releases are published to.
const ReleaseRepo = "wexinc/devboot"

func newVersionCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long: `Show the devboot version, commit, build date and platform.

Examples:
  devboot version           # Show detailed version info
  devboot version --check   # Check for a newer release`,
		Args: cobra.NoArgs,
		RunE: runVersion,
	}
	c.Flags().BoolP("check", "c", false, "Check for available updates")
	return c
}

func runVersion(cmd *cobra.Command, args []string) error {
	info := version.NewInfo(Version, Commit, Date)
	cmd.Println(info.FullString())

	if check, _ := cmd.Flags().GetBool("check"); check {
		return checkForUpdate(cmd, version.NewChecker(ReleaseRepo, 10*time.Second))
	}
	return nil
}

// checkForUpdate reports whether checker knows a newer release.
func checkForUpdate(cmd *cobra.Command, checker *version.Checker) error {
	cmd.Println("")
	cmd.Println("Checking for updates...")

	ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
	defer cancel()

	release, err := checker.CheckForUpdate(ctx, Version)
	if err != nil {
		return fmt.Errorf("failed to check for updates: %w", err)
	}
	if release == nil {
		cmd.Println("✓ You are running the latest version.")
		return nil
	}

	cmd.Printf("📦 A new version is available: %s (current: %s)\n", release.TagName, Version)
	cmd.Printf("Release notes: %s\n", release.HTMLURL)
	return nil
}
