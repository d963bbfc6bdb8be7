package cli

import (
	"errors"
	"os"
	"os/exec"

	"github.com/spf13/cobra"

	"elan/internal/paths"
	"elan/internal/toolchain"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <toolchain> <command> [args...]",
		Short: "Run a command from a toolchain",
		Args:  cobra.MinimumNArgs(2),
		RunE:  withApp(runRun),
	}
	cmd.Flags().SetInterspersed(false)
	return cmd
}

func runRun(cmd *cobra.Command, a *app, args []string) error {
	tc := a.toolchain(args[0])
	if err := a.ensureInstalled(cmd, tc); err != nil {
		return err
	}

	child, err := commandFor(cmd, a, tc, args[1])
	if err != nil {
		return err
	}
	child.Args = append(child.Args, args[2:]...)
	child.Stdin = os.Stdin
	child.Stdout = cmd.OutOrStdout()
	child.Stderr = cmd.ErrOrStderr()

	if err := child.Run(); err != nil {
		var ee *exec.ExitError
		if errors.As(err, &ee) {
			return &exitError{code: ee.ExitCode()}
		}
		return err
	}
	return nil
}

// commandFor builds the command for binary. Custom toolchains that ship
// without the package tool borrow it from the fallback toolchain.
func commandFor(cmd *cobra.Command, a *app, tc *toolchain.Toolchain, binary string) (*exec.Cmd, error) {
	suffix := a.cfg.Platform.ExeSuffix()
	isCompanion := binary == toolchain.CompanionBinary || binary == toolchain.CompanionBinary+suffix
	if isCompanion && tc.IsCustom() && !paths.IsFile(tc.BinaryFile(toolchain.CompanionBinary)) {
		fallback := a.toolchain(toolchain.FallbackToolchain)
		if err := a.ensureInstalled(cmd, fallback); err != nil {
			return nil, err
		}
		return fallback.CreateFallbackCommand(binary, tc)
	}
	return tc.CreateCommand(binary)
}
