package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	docPathOnly  bool
	docToolchain string
)

func newDocCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doc [page]",
		Short: "Open the active toolchain's documentation",
		Args:  cobra.MaximumNArgs(1),
		RunE:  withApp(runDoc),
	}
	cmd.Flags().BoolVar(&docPathOnly, "path", false, "Print the documentation path instead of opening it")
	cmd.Flags().StringVar(&docToolchain, "toolchain", "", "Toolchain whose documentation to use")
	return cmd
}

func runDoc(cmd *cobra.Command, a *app, args []string) error {
	page := "index.html"
	if len(args) == 1 {
		page = args[0]
	}
	cwd, err := os.Getwd()
	if err != nil {
		return err
	}
	tc, _, err := a.resolveToolchain(docToolchain, cwd)
	if err != nil {
		return err
	}

	if docPathOnly {
		p, err := tc.DocPath(page)
		if err != nil {
			return err
		}
		cmd.Println(p)
		return nil
	}
	return tc.OpenDocs(page)
}
