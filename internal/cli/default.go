package cli

import (
	"github.com/spf13/cobra"

	"elan/internal/logx"
)

func newDefaultCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "default [toolchain]",
		Short: "Show or set the default toolchain",
		Args:  cobra.MaximumNArgs(1),
		RunE:  withApp(runDefault),
	}
}

func runDefault(cmd *cobra.Command, a *app, args []string) error {
	if len(args) == 0 {
		def, err := a.settings.Default()
		if err != nil {
			return err
		}
		if outputJSON {
			return printJSON(cmd, map[string]string{"default": def})
		}
		if def == "" {
			cmd.Println("no default toolchain configured")
			return nil
		}
		cmd.Println(def)
		return nil
	}

	tc := a.toolchain(args[0])
	if err := a.ensureInstalled(cmd, tc); err != nil {
		return err
	}
	if err := tc.MakeDefault(); err != nil {
		return err
	}
	if outputJSON {
		return printJSON(cmd, map[string]string{"default": tc.Name()})
	}
	cmd.Printf("default toolchain set to %s\n", logx.NameStyle.Render(tc.Name()))
	return nil
}
