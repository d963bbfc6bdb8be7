package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	homeDir    string
	outputJSON bool
	verbose    bool
	logToFile  bool
)

// getenv is replaced in tests.
var getenv = os.Getenv

// exitError carries a child process exit code through cobra.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

// Execute runs the root cobra command.
func Execute() {
	root := newRootCmd()
	root.SetOut(os.Stdout)
	if err := root.Execute(); err != nil {
		var ee *exitError
		if errors.As(err, &ee) {
			os.Exit(ee.code)
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "elan",
		Short:         "Lean toolchain manager",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&homeDir, "home", "", "Path to the elan home directory (defaults to $ELAN_HOME or ~/.elan)")
	cmd.PersistentFlags().BoolVar(&outputJSON, "json", false, "Output machine-readable JSON")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show verbose progress")
	cmd.PersistentFlags().BoolVar(&logToFile, "log-file", false, "Also write logs to a timestamped file in <home>/logs")

	cmd.AddCommand(newToolchainCmd())
	cmd.AddCommand(newDefaultCmd())
	cmd.AddCommand(newOverrideCmd())
	cmd.AddCommand(newRunCmd())
	cmd.AddCommand(newWhichCmd())
	cmd.AddCommand(newDocCmd())

	return cmd
}
