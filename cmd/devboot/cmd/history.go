package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/wexinc/devboot/internal/journal"
)

func newHistoryCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "history",
		Short: "List recorded install and configure outcomes",
		Long: `List the outcomes stored in the install journal, newest first.

Examples:
  devboot history                 # Last 20 outcomes
  devboot history --failed        # Only failures
  devboot history --kind app      # Only application installs
  devboot history --clear         # Delete the journal entries`,
		Args: cobra.NoArgs,
		RunE: runHistory,
	}
	c.Flags().IntP("limit", "n", 20, "Maximum number of entries (0 for all)")
	c.Flags().Bool("clear", false, "Delete every entry")
	c.Flags().Bool("failed", false, "Only show failures")
	c.Flags().String("kind", "", "Only show one kind: package_manager, app or shell")
	return c
}

func runHistory(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	clearAll, _ := cmd.Flags().GetBool("clear")
	failed, _ := cmd.Flags().GetBool("failed")
	kind, _ := cmd.Flags().GetString("kind")

	filter := journal.Filter{Kind: journal.Kind(kind), FailedOnly: failed}
	switch filter.Kind {
	case "", journal.KindPackageManager, journal.KindApp, journal.KindShell:
	default:
		return fmt.Errorf("unknown kind %q (want package_manager, app or shell)", kind)
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if !cfg.Journal.Enabled {
		cmd.Println("The install journal is disabled (journal.enabled: false).")
		return nil
	}

	j, err := journal.Open(cfg.Journal.Path)
	if err != nil {
		return err
	}
	defer j.Close()

	ctx := cmd.Context()
	if clearAll {
		n, err := j.Clear(ctx)
		if err != nil {
			return err
		}
		cmd.Printf("Removed %d entries from %s\n", n, j.Path())
		return nil
	}

	entries, err := j.Recent(ctx, limit, filter)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		cmd.Println("No outcomes recorded yet.")
		return nil
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TIME\tKIND\tITEM\tRESULT\tDURATION\tDETAIL")
	for _, e := range entries {
		result := "ok"
		if !e.Success {
			result = "failed"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			e.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			e.Kind,
			e.ItemID,
			result,
			e.Duration.Round(time.Millisecond),
			firstLine(e.Detail),
		)
	}
	return tw.Flush()
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
