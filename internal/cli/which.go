package cli

import (
	"os"

	"github.com/spf13/cobra"

	"elan/internal/paths"
	"elan/internal/toolchain"
)

var whichToolchain string

func newWhichCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "which <command>",
		Short: "Show the binary a command resolves to in the active toolchain",
		Args:  cobra.ExactArgs(1),
		RunE:  withApp(runWhich),
	}
	cmd.Flags().StringVar(&whichToolchain, "toolchain", "", "Toolchain to inspect instead of the active one")
	return cmd
}

func runWhich(cmd *cobra.Command, a *app, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return err
	}
	tc, source, err := a.resolveToolchain(whichToolchain, cwd)
	if err != nil {
		return err
	}
	if !tc.Exists() {
		return &toolchain.NotInstalledError{Name: tc.Name()}
	}

	bin := tc.BinaryFile(args[0])
	if !paths.IsFile(bin) {
		return &toolchain.BinaryNotFoundError{Toolchain: tc.Name(), Binary: args[0]}
	}
	if outputJSON {
		return printJSON(cmd, map[string]string{"toolchain": tc.Name(), "source": source, "path": bin})
	}
	cmd.Println(bin)
	return nil
}
