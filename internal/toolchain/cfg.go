package toolchain

import (
	"context"
	"fmt"
	"os"
	"os/exec"

	"elan/internal/dist"
	"elan/internal/install"
	"elan/internal/notify"
	"elan/internal/paths"
	"elan/internal/platform"
	"elan/internal/telemetry"
)

// Installer places and removes toolchain files.
type Installer interface {
	Run(ctx context.Context, m install.Method, dest string, h notify.Handler) (bool, error)
	Uninstall(ctx context.Context, dest string, h notify.Handler) error
}

// Downloader fetches installer archives named by URL.
type Downloader interface {
	Download(ctx context.Context, url, dest, checksum string, h notify.Handler) error
}

// TelemetryLogger records usage events.
type TelemetryLogger interface {
	LogTelemetry(ev telemetry.Event) error
}

// SettingsStore persists the default toolchain and directory overrides.
type SettingsStore interface {
	SetDefault(name string) error
	AddOverride(path, name string, h notify.Handler) error
}

// TempFactory hands out scratch files that the returned func removes.
type TempFactory interface {
	NewFileWithExt(prefix, ext string) (string, func(), error)
}

// Cfg is the shared context every Toolchain is resolved against.
type Cfg struct {
	Paths    paths.ElanPaths
	Platform platform.Capabilities
	Notify   notify.Handler

	Installer  Installer
	Downloader Downloader
	Settings   SettingsStore
	Temp       TempFactory

	Telemetry        TelemetryLogger
	TelemetryEnabled bool

	// RecursionDepth is the LEAN_RECURSION_COUNT inherited at startup.
	RecursionDepth int

	// Environ supplies the base environment for spawned commands.
	Environ func() []string
	// Browser opens a local file or URL. Nil uses the platform opener.
	Browser func(target string) error
}

// DownloadCfg returns the directories and sink used by distribution installs.
func (c *Cfg) DownloadCfg() dist.DownloadCfg {
	return dist.DownloadCfg{
		DownloadDir: c.Paths.DownloadsDir,
		TmpDir:      c.Paths.TmpDir,
		Notify:      c.Notify,
	}
}

func (c *Cfg) platform() platform.Capabilities {
	if c.Platform == nil {
		return platform.Current()
	}
	return c.Platform
}

func (c *Cfg) environ() []string {
	if c.Environ == nil {
		return os.Environ()
	}
	return c.Environ()
}

func (c *Cfg) openBrowser(target string) error {
	if c.Browser != nil {
		return c.Browser(target)
	}
	argv := c.platform().BrowserCommand(target)
	cmd := exec.Command(argv[0], argv[1:]...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("open %s: %w", target, err)
	}
	return cmd.Process.Release()
}

func (c *Cfg) notify(n notify.Notification) {
	c.Notify.Emit(n)
}
