package toolchain

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"elan/internal/install"
	"elan/internal/notify"
	"elan/internal/paths"
	"elan/internal/platform"
	"elan/internal/telemetry"
)

// UpdateStatus is the outcome of an install.
type UpdateStatus int

const (
	Installed UpdateStatus = iota
	Updated
	Unchanged
)

func (s UpdateStatus) String() string {
	switch s {
	case Installed:
		return "installed"
	case Updated:
		return "updated"
	case Unchanged:
		return "unchanged"
	default:
		return fmt.Sprintf("UpdateStatus(%d)", int(s))
	}
}

func classify(existed, changed bool) UpdateStatus {
	switch {
	case changed && !existed:
		return Installed
	case changed:
		return Updated
	default:
		return Unchanged
	}
}

func (t *Toolchain) assertAllowed(m install.Method) {
	if !install.Allowed(m, t.IsCustom()) {
		panic(fmt.Sprintf("install method %T is not valid for toolchain '%s' (custom=%v)", m, t.rawName, t.IsCustom()))
	}
}

func (t *Toolchain) lock() (*platform.Lock, error) {
	l, err := platform.AcquireLock(t.cfg.Paths.LockFile(t.name))
	if err != nil {
		return nil, fmt.Errorf("lock toolchain '%s': %w", t.name, err)
	}
	return l, nil
}

func (t *Toolchain) install(ctx context.Context, m install.Method) (UpdateStatus, error) {
	t.assertAllowed(m)

	l, err := t.lock()
	if err != nil {
		return Unchanged, err
	}
	defer l.Release()

	existed := t.Exists()
	if existed {
		t.cfg.notify(notify.Notification{Kind: notify.UpdatingToolchain, Toolchain: t.name})
	} else {
		t.cfg.notify(notify.Notification{Kind: notify.InstallingToolchain, Toolchain: t.name})
	}
	t.cfg.notify(notify.Notification{Kind: notify.ToolchainDirectory, Path: t.path, Toolchain: t.name})

	changed, err := t.cfg.Installer.Run(ctx, m, t.path, t.cfg.Notify)
	if err != nil {
		return Unchanged, err
	}

	status := classify(existed, changed)
	if status == Unchanged {
		t.cfg.notify(notify.Notification{Kind: notify.UpdateHashMatches, Toolchain: t.name})
	} else {
		t.cfg.notify(notify.Notification{Kind: notify.InstalledToolchain, Toolchain: t.name})
	}
	return status, nil
}

func (t *Toolchain) installIfNotInstalled(ctx context.Context, m install.Method) (UpdateStatus, error) {
	t.assertAllowed(m)

	t.cfg.notify(notify.Notification{Kind: notify.LookingForToolchain, Toolchain: t.name})
	if t.Exists() {
		t.cfg.notify(notify.Notification{Kind: notify.UsingExistingToolchain, Toolchain: t.name})
		return Unchanged, nil
	}
	return t.install(ctx, m)
}

// updateHash returns the update-hash file for distribution toolchains and ""
// for custom ones.
func (t *Toolchain) updateHash() (string, error) {
	if t.IsCustom() {
		return "", nil
	}
	return t.cfg.Paths.HashFile(t.name, true)
}

func (t *Toolchain) distMethod(force bool) (install.Method, error) {
	desc, err := t.Desc()
	if err != nil {
		return nil, &InvalidCustomOperationError{Name: t.rawName}
	}
	hash, err := t.updateHash()
	if err != nil {
		return nil, err
	}
	return install.Dist{
		Desc:       desc,
		UpdateHash: hash,
		Download:   t.cfg.DownloadCfg(),
		Force:      force,
	}, nil
}

// InstallFromDist installs or updates a distribution toolchain. force
// reinstalls even when the update hash matches.
func (t *Toolchain) InstallFromDist(ctx context.Context, force bool) (UpdateStatus, error) {
	if t.cfg.TelemetryEnabled {
		return t.installFromDistWithTelemetry(ctx, force)
	}
	return t.installFromDistInner(ctx, force)
}

func (t *Toolchain) installFromDistInner(ctx context.Context, force bool) (UpdateStatus, error) {
	m, err := t.distMethod(force)
	if err != nil {
		return Unchanged, err
	}
	return t.install(ctx, m)
}

// installFromDistWithTelemetry records a toolchain update event around the
// install. The event is marked successful on both paths.
// TODO: report Success: false and the error text once consumers of the
// telemetry log can tell the two apart.
func (t *Toolchain) installFromDistWithTelemetry(ctx context.Context, force bool) (UpdateStatus, error) {
	status, err := t.installFromDistInner(ctx, force)

	ev := telemetry.Event{Type: telemetry.ToolchainUpdate, Toolchain: t.name, Success: true}
	if logErr := t.cfg.Telemetry.LogTelemetry(ev); logErr != nil {
		t.cfg.notify(notify.Notification{Kind: notify.TelemetryCleanupError, Toolchain: t.name, Err: logErr})
	}
	return status, err
}

// InstallFromDistIfNotInstalled installs a distribution toolchain unless it
// is already present.
func (t *Toolchain) InstallFromDistIfNotInstalled(ctx context.Context) (UpdateStatus, error) {
	m, err := t.distMethod(false)
	if err != nil {
		return Unchanged, err
	}
	return t.installIfNotInstalled(ctx, m)
}

// Remove uninstalls the toolchain. Removing a toolchain that is not installed
// succeeds without touching disk.
func (t *Toolchain) Remove(ctx context.Context) error {
	if !paths.IsDir(t.path) && !paths.IsSymlink(t.path) {
		t.cfg.notify(notify.Notification{Kind: notify.ToolchainNotInstalled, Toolchain: t.name})
		return nil
	}

	l, err := t.lock()
	if err != nil {
		return err
	}
	defer l.Release()

	t.cfg.notify(notify.Notification{Kind: notify.UninstallingToolchain, Toolchain: t.name})

	if hash, err := t.cfg.Paths.HashFile(t.name, false); err == nil {
		if err := os.Remove(hash); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("remove update hash for '%s': %w", t.name, err)
		}
	}

	err = t.cfg.Installer.Uninstall(ctx, t.path, t.cfg.Notify)

	if !paths.IsDir(t.path) && !paths.IsSymlink(t.path) {
		t.cfg.notify(notify.Notification{Kind: notify.UninstalledToolchain, Toolchain: t.name})
	}
	if err != nil {
		return fmt.Errorf("uninstall '%s': %w", t.name, err)
	}
	return nil
}

func (t *Toolchain) ensureCustom() error {
	if !t.IsCustom() {
		return &InvalidCustomOperationError{Name: t.rawName}
	}
	return nil
}

func installerExt(input string) string {
	base := input
	if u, err := url.Parse(input); err == nil && u.IsAbs() {
		base = u.Path
	}
	base = filepath.Base(filepath.FromSlash(base))
	i := strings.LastIndex(base, ".")
	if i < 0 {
		return ""
	}
	return base[i+1:]
}

func downloadableURL(input string) (*url.URL, bool) {
	u, err := url.Parse(input)
	if err != nil || !u.IsAbs() {
		return nil, false
	}
	switch u.Scheme {
	case "file", "http", "https":
		return u, true
	default:
		return nil, false
	}
}

// InstallFromInstallers replaces a custom toolchain with the contents of the
// given .gz installer archives, which may be local paths or file, http or
// https URLs. Every input is validated before the existing install is
// removed. Inputs are applied one at a time, so a failure part way through
// leaves the earlier archives installed.
func (t *Toolchain) InstallFromInstallers(ctx context.Context, inputs []string) error {
	if err := t.ensureCustom(); err != nil {
		return err
	}

	for _, input := range inputs {
		switch ext := installerExt(input); ext {
		case "gz":
		case "":
			return &BadInstallerTypeError{Ext: "(none)"}
		default:
			return &BadInstallerTypeError{Ext: ext}
		}
	}

	if err := t.Remove(ctx); err != nil {
		return err
	}

	for _, input := range inputs {
		if err := t.installOne(ctx, input); err != nil {
			return err
		}
	}
	return nil
}

func (t *Toolchain) installOne(ctx context.Context, input string) error {
	archive := input
	if u, ok := downloadableURL(input); ok {
		tmp, cleanup, err := t.cfg.Temp.NewFileWithExt("installer", ".tar.gz")
		if err != nil {
			return err
		}
		defer cleanup()
		if err := t.cfg.Downloader.Download(ctx, u.String(), tmp, "", t.cfg.Notify); err != nil {
			return fmt.Errorf("download installer %s: %w", input, err)
		}
		archive = tmp
	}
	_, err := t.install(ctx, install.Installer{Archive: archive})
	return err
}

// InstallFromDir installs a custom toolchain from a local build tree, either
// by copying it or by linking to it.
func (t *Toolchain) InstallFromDir(ctx context.Context, src string, link bool) error {
	if err := t.ensureCustom(); err != nil {
		return err
	}

	binDir := filepath.Join(src, "bin")
	if err := paths.AssertIsDirectory(binDir); err != nil {
		return err
	}
	if err := paths.AssertIsFile(filepath.Join(binDir, MainBinary+t.cfg.platform().ExeSuffix())); err != nil {
		return err
	}

	var m install.Method
	if link {
		abs, err := paths.ToAbsolute(src)
		if err != nil {
			return err
		}
		m = install.Link{Src: abs}
	} else {
		m = install.Copy{Src: src}
	}
	_, err := t.install(ctx, m)
	return err
}
