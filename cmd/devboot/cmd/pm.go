package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wexinc/devboot/internal/logging"
	"github.com/wexinc/devboot/internal/version"
)

func newPMCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "pm",
		Short: "Check for the package manager",
		Long: `Check that the package manager is installed. When it is present its
version is compared with the latest release; when it is missing the
installer of the latest release is printed, or saved with --download.`,
		Args: cobra.NoArgs,
		RunE: runPM,
	}
	c.Flags().String("download", "", "Save the installer into this directory when the package manager is missing")
	return c
}

func runPM(cmd *cobra.Command, args []string) error {
	dir, _ := cmd.Flags().GetString("download")

	ctx, cancel := signalContext(cmd.Context())
	defer cancel()

	s, err := newSession(ctx, cmd)
	if err != nil {
		return err
	}
	defer s.close()

	out := cmd.OutOrStdout()
	if s.dispatcher.InstallPackageManager(ctx) {
		current, err := s.manager.Version(ctx)
		if err != nil {
			logging.Warn("package manager version unavailable", "error", err)
			return nil
		}
		fmt.Fprintf(out, "Version: %s\n", current)

		release, err := s.installer.Latest(ctx)
		if err != nil {
			logging.Warn("latest release lookup failed", "error", err)
			return nil
		}
		if version.CompareVersions(release.TagName, current) > 0 {
			fmt.Fprintf(out, "📦 %s %s is available (installed: %s)\n", s.cfg.PackageManager.Command, release.TagName, current)
			fmt.Fprintf(out, "Release notes: %s\n", release.HTMLURL)
		}
		return nil
	}

	if dir == "" {
		return nil
	}
	url := s.installer.LatestURL(ctx)
	fmt.Fprintf(out, "[*] Downloading %s...\n", url)
	path, err := version.NewDownloader().Download(ctx, url, dir)
	if err != nil {
		return fmt.Errorf("failed to download installer: %w", err)
	}
	fmt.Fprintf(out, "[OK] Saved installer to %s\n", path)
	return nil
}
