package cli

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"elan/internal/config"
	"elan/internal/dist"
	"elan/internal/envvar"
	"elan/internal/install"
	"elan/internal/logx"
	"elan/internal/paths"
	"elan/internal/platform"
	"elan/internal/settings"
	"elan/internal/telemetry"
	"elan/internal/tempfile"
	"elan/internal/toolchain"
)

// app holds everything a command needs, built once per invocation.
type app struct {
	paths    paths.ElanPaths
	config   config.Config
	settings *settings.File
	cfg      *toolchain.Cfg
	logger   *log.Logger
	closers  []io.Closer
}

func newApp(cmd *cobra.Command) (*app, error) {
	p, err := paths.Resolve(homeDir)
	if err != nil {
		return nil, err
	}
	if err := p.EnsureDirs(); err != nil {
		return nil, err
	}

	conf, err := config.Load(p.ConfigFile)
	if err != nil {
		return nil, err
	}
	findings := conf.Validate()
	if err := config.Err(findings); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", p.ConfigFile, err)
	}

	a := &app{
		paths:    p,
		config:   conf,
		settings: settings.NewFile(p.SettingsFile),
	}

	stderr := cmd.ErrOrStderr()
	out := stderr
	if logToFile {
		f, err := logx.OpenFile(p.LogsDir)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, f)
		out = io.MultiWriter(stderr, f)
	}
	a.logger = logx.New(out, verbose)
	for _, f := range findings {
		if f.Level == "warning" {
			a.logger.Warn(f.Message)
		}
	}

	var bar *logx.DownloadBar
	if !outputJSON && logx.IsTerminal(stderr) {
		bar = logx.NewDownloadBar(stderr)
	}

	client := &http.Client{Timeout: conf.Download.Timeout}
	resolver := dist.NewResolver(conf.Dist.APIURL, conf.Dist.Origin,
		dist.NewReleaseCache(p.ReleaseCache, conf.Dist.ReleaseCacheTTL))
	resolver.Client = client
	resolver.UserAgent = conf.Download.UserAgent
	downloader := dist.NewHTTPDownloader(client, conf.Download.UserAgent)

	a.cfg = &toolchain.Cfg{
		Paths:            p,
		Platform:         platform.Current(),
		Notify:           logx.NotifyHandler(a.logger, bar),
		Installer:        install.NewRunner(&dist.Installer{Resolver: resolver, Downloader: downloader}, p.TmpDir),
		Downloader:       downloader,
		Settings:         a.settings,
		Temp:             tempfile.New(p.TmpDir),
		Telemetry:        telemetry.NewStore(p.TelemetryDir),
		TelemetryEnabled: conf.TelemetryEnabled(),
		RecursionDepth:   envvar.ReadRecursionCount(getenv),
	}
	return a, nil
}

func (a *app) Close() {
	for _, c := range a.closers {
		_ = c.Close()
	}
}

func (a *app) toolchain(name string) *toolchain.Toolchain {
	return toolchain.New(a.cfg, name)
}

var errNoToolchain = errors.New("no default toolchain configured; run 'elan default <toolchain>'")

// resolveToolchain picks the active toolchain: an explicit name, then
// ELAN_TOOLCHAIN, then a directory override, then the default.
func (a *app) resolveToolchain(explicit, dir string) (*toolchain.Toolchain, string, error) {
	if explicit != "" {
		return a.toolchain(explicit), "argument", nil
	}
	if name := getenv(envvar.Toolchain); name != "" {
		return a.toolchain(name), "environment", nil
	}
	name, at, err := a.settings.Override(dir)
	if err != nil {
		return nil, "", err
	}
	if name != "" {
		return a.toolchain(name), fmt.Sprintf("directory override for '%s'", at), nil
	}
	def, err := a.settings.Default()
	if err != nil {
		return nil, "", err
	}
	if def != "" {
		return a.toolchain(def), "default", nil
	}
	return nil, "", errNoToolchain
}

// ensureInstalled installs a missing distribution toolchain. Custom toolchains
// cannot be fetched and are reported as not installed.
func (a *app) ensureInstalled(cmd *cobra.Command, tc *toolchain.Toolchain) error {
	if tc.Exists() {
		return nil
	}
	if tc.IsCustom() {
		return &toolchain.NotInstalledError{Name: tc.Name()}
	}
	_, err := tc.InstallFromDistIfNotInstalled(cmd.Context())
	return err
}
