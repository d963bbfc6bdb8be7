package cli

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/gobwas/glob"
	"github.com/spf13/cobra"

	"elan/internal/logx"
	"elan/internal/paths"
	"elan/internal/toolchain"
)

var (
	installForce      bool
	installInstallers []string
	linkCopy          bool
)

type toolchainEntry struct {
	Name    string `json:"name"`
	Path    string `json:"path"`
	Default bool   `json:"default"`
	Linked  bool   `json:"linked"`
}

type installResult struct {
	Toolchain string `json:"toolchain"`
	Status    string `json:"status,omitempty"`
	Error     string `json:"error,omitempty"`
}

func newToolchainCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "toolchain",
		Short: "Install, update and remove toolchains",
	}

	cmd.AddCommand(newToolchainListCmd())
	cmd.AddCommand(newToolchainInstallCmd())
	cmd.AddCommand(newToolchainUpdateCmd())
	cmd.AddCommand(newToolchainUninstallCmd())
	cmd.AddCommand(newToolchainLinkCmd())
	cmd.AddCommand(newToolchainComponentsCmd())

	return cmd
}

func newToolchainListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list [pattern]",
		Short: "List installed toolchains, optionally filtered by a glob pattern",
		Args:  cobra.MaximumNArgs(1),
		RunE:  withApp(runToolchainList),
	}
}

func installedToolchains(a *app) ([]string, error) {
	entries, err := os.ReadDir(a.paths.ToolchainsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read toolchains dir: %w", err)
	}
	var names []string
	for _, e := range entries {
		if a.toolchain(e.Name()).Exists() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

func runToolchainList(cmd *cobra.Command, a *app, args []string) error {
	var matcher glob.Glob
	if len(args) == 1 {
		g, err := glob.Compile(args[0])
		if err != nil {
			return fmt.Errorf("invalid pattern %q: %w", args[0], err)
		}
		matcher = g
	}

	names, err := installedToolchains(a)
	if err != nil {
		return err
	}
	def, err := a.settings.Default()
	if err != nil {
		return err
	}

	rows := make([]toolchainEntry, 0, len(names))
	for _, name := range names {
		if matcher != nil && !matcher.Match(name) {
			continue
		}
		tc := a.toolchain(name)
		rows = append(rows, toolchainEntry{
			Name:    name,
			Path:    tc.Path(),
			Default: name == toolchain.SaneName(def),
			Linked:  paths.IsSymlink(tc.Path()),
		})
	}

	if outputJSON {
		return printJSON(cmd, rows)
	}
	if len(rows) == 0 {
		cmd.Println("no installed toolchains")
		return nil
	}
	for _, row := range rows {
		line := row.Name
		if row.Default {
			line += " (default)"
		}
		if row.Linked {
			line += " (linked)"
		}
		cmd.Println(line)
	}
	return nil
}

func newToolchainInstallCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "install <toolchain>...",
		Short: "Install distribution toolchains, or a custom toolchain from installer archives",
		Args:  cobra.MinimumNArgs(1),
		RunE:  withApp(runToolchainInstall),
	}

	cmd.Flags().BoolVar(&installForce, "force", false, "Reinstall even if the toolchain is up to date")
	cmd.Flags().StringArrayVar(&installInstallers, "installer", nil, "Installer archive (.tar.gz path or file/http/https URL) for a custom toolchain; repeatable")

	return cmd
}

func runToolchainInstall(cmd *cobra.Command, a *app, args []string) error {
	if len(installInstallers) > 0 {
		if len(args) != 1 {
			return errors.New("--installer requires exactly one toolchain name")
		}
		tc := a.toolchain(args[0])
		if err := tc.InstallFromInstallers(cmd.Context(), installInstallers); err != nil {
			return err
		}
		return reportInstall(cmd, []installResult{{Toolchain: tc.Name(), Status: toolchain.Installed.String()}}, nil)
	}
	return installFromDist(cmd, a, args, installForce)
}

func installFromDist(cmd *cobra.Command, a *app, names []string, force bool) error {
	var (
		results []installResult
		errs    []error
	)
	for _, name := range names {
		tc := a.toolchain(name)
		res := installResult{Toolchain: tc.Name()}
		if tc.IsCustom() {
			err := &toolchain.InvalidCustomOperationError{Name: name}
			res.Error = err.Error()
			errs = append(errs, err)
			results = append(results, res)
			continue
		}
		status, err := tc.InstallFromDist(cmd.Context(), force)
		if err != nil {
			res.Error = err.Error()
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		} else {
			res.Status = status.String()
		}
		results = append(results, res)
	}
	return reportInstall(cmd, results, errs)
}

func reportInstall(cmd *cobra.Command, results []installResult, errs []error) error {
	if outputJSON {
		if err := printJSON(cmd, results); err != nil {
			return err
		}
	} else {
		for _, res := range results {
			if res.Error != "" {
				continue
			}
			cmd.Printf("%s %s\n", logx.NameStyle.Render(res.Toolchain), logx.StatusStyle(res.Status).Render(res.Status))
		}
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

func newToolchainUpdateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "update [toolchain]...",
		Short: "Update distribution toolchains (all installed ones by default)",
		Long: `Update distribution toolchains. With no arguments every installed
toolchain whose directory name still parses as a distribution name is
updated. Toolchains installed with an explicit origin, such as
leanprover/lean4:stable, are stored under a sanitized name and must be
named explicitly.`,
		RunE:  withApp(runToolchainUpdate),
	}
}

func runToolchainUpdate(cmd *cobra.Command, a *app, args []string) error {
	names := args
	if len(names) == 0 {
		installed, err := installedToolchains(a)
		if err != nil {
			return err
		}
		for _, name := range installed {
			if !a.toolchain(name).IsCustom() {
				names = append(names, name)
			}
		}
	}
	if len(names) == 0 {
		cmd.Println("no distribution toolchains to update")
		return nil
	}
	return installFromDist(cmd, a, names, false)
}

func newToolchainUninstallCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "uninstall <toolchain>...",
		Aliases: []string{"remove"},
		Short:   "Remove installed toolchains",
		Args:    cobra.MinimumNArgs(1),
		RunE:    withApp(runToolchainUninstall),
	}
}

func runToolchainUninstall(cmd *cobra.Command, a *app, args []string) error {
	var errs []error
	for _, name := range args {
		if err := a.toolchain(name).Remove(cmd.Context()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func newToolchainLinkCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "link <toolchain> <dir>",
		Short: "Create a custom toolchain from a local build directory",
		Args:  cobra.ExactArgs(2),
		RunE:  withApp(runToolchainLink),
	}
	cmd.Flags().BoolVar(&linkCopy, "copy", false, "Copy the directory instead of symlinking it")
	return cmd
}

func runToolchainLink(cmd *cobra.Command, a *app, args []string) error {
	tc := a.toolchain(args[0])
	if err := tc.InstallFromDir(cmd.Context(), args[1], !linkCopy); err != nil {
		return err
	}
	if outputJSON {
		return printJSON(cmd, toolchainEntry{Name: tc.Name(), Path: tc.Path(), Linked: !linkCopy})
	}
	cmd.Printf("%s -> %s\n", logx.NameStyle.Render(tc.Name()), args[1])
	return nil
}

type componentRow struct {
	Name      string `json:"name"`
	Target    string `json:"target"`
	Required  bool   `json:"required"`
	Installed bool   `json:"installed"`
	Available bool   `json:"available"`
}

func newToolchainComponentsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "components <toolchain>",
		Short: "Show the components of an installed toolchain",
		Args:  cobra.ExactArgs(1),
		RunE:  withApp(runToolchainComponents),
	}
}

func runToolchainComponents(cmd *cobra.Command, a *app, args []string) error {
	comps, err := a.toolchain(args[0]).ListComponents()
	if err != nil {
		return err
	}

	rows := make([]componentRow, 0, len(comps))
	for _, c := range comps {
		rows = append(rows, componentRow{
			Name:      c.Component.Name,
			Target:    c.Component.Target,
			Required:  c.Required,
			Installed: c.Installed,
			Available: c.Available,
		})
	}
	if outputJSON {
		return printJSON(cmd, rows)
	}

	cmd.Printf("%-10s %-16s %s\n", "Component", "Target", "State")
	for _, r := range rows {
		state := "missing"
		switch {
		case r.Installed:
			state = "installed"
		case r.Available:
			state = "available"
		}
		if r.Required {
			state += " (required)"
		}
		cmd.Printf("%-10s %-16s %s\n", r.Name, r.Target, state)
	}
	return nil
}
