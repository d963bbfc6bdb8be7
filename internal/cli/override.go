package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var overridePath string

func newOverrideCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "override",
		Short: "Pin a toolchain to a directory",
	}
	cmd.PersistentFlags().StringVar(&overridePath, "path", "", "Directory to apply the override to (defaults to the working directory)")

	cmd.AddCommand(&cobra.Command{
		Use:   "set <toolchain>",
		Short: "Use a toolchain for the directory and its subdirectories",
		Args:  cobra.ExactArgs(1),
		RunE:  withApp(runOverrideSet),
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "unset",
		Short: "Remove the directory's override",
		Args:  cobra.NoArgs,
		RunE:  withApp(runOverrideUnset),
	})
	return cmd
}

func overrideDir() (string, error) {
	if overridePath != "" {
		return overridePath, nil
	}
	return os.Getwd()
}

func runOverrideSet(cmd *cobra.Command, a *app, args []string) error {
	dir, err := overrideDir()
	if err != nil {
		return err
	}
	tc := a.toolchain(args[0])
	if err := a.ensureInstalled(cmd, tc); err != nil {
		return err
	}
	return tc.MakeOverride(dir)
}

func runOverrideUnset(cmd *cobra.Command, a *app, _ []string) error {
	dir, err := overrideDir()
	if err != nil {
		return err
	}
	removed, err := a.settings.RemoveOverride(dir)
	if err != nil {
		return err
	}
	if outputJSON {
		return printJSON(cmd, map[string]bool{"removed": removed})
	}
	if !removed {
		cmd.Println("no override set for", dir)
		return nil
	}
	cmd.Println("override removed for", dir)
	return nil
}
