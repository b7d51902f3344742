package cmd

import (
	"github.com/spf13/cobra"

	"github.com/wexinc/devboot/internal/config"
)

func newConfigCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "config",
		Short: "Manage the devboot configuration",
	}

	initC := &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration file",
		Long: `Write the default configuration to the --config path, or to
` + config.DefaultConfigPath() + ` when none is given.`,
		Args: cobra.NoArgs,
		RunE: runConfigInit,
	}
	initC.Flags().BoolP("force", "f", false, "Overwrite an existing file")

	showC := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE:  runConfigShow,
	}

	c.AddCommand(initC, showC)
	return c
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	force, _ := cmd.Flags().GetBool("force")
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		path = config.DefaultConfigPath()
	}

	if err := config.WriteDefault(path, force); err != nil {
		return err
	}
	cmd.Printf("✓ Wrote %s\n", path)
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	data, err := config.Marshal(cfg)
	if err != nil {
		return err
	}
	cmd.Print(string(data))
	return nil
}
