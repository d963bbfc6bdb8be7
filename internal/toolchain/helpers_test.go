package toolchain

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"elan/internal/install"
	"elan/internal/notify"
	"elan/internal/paths"
	"elan/internal/platform"
	"elan/internal/telemetry"
)

type fakeInstaller struct {
	changed      bool
	err          error
	uninstallErr error
	runs         []install.Method
	uninstalls   int
}

func (f *fakeInstaller) Run(_ context.Context, m install.Method, dest string, _ notify.Handler) (bool, error) {
	f.runs = append(f.runs, m)
	if f.err != nil {
		return false, f.err
	}
	if f.changed {
		if err := os.MkdirAll(filepath.Join(dest, "bin"), 0o755); err != nil {
			return false, err
		}
	}
	return f.changed, nil
}

func (f *fakeInstaller) Uninstall(_ context.Context, dest string, _ notify.Handler) error {
	f.uninstalls++
	if f.uninstallErr != nil {
		return f.uninstallErr
	}
	return os.RemoveAll(dest)
}

type fakeTelemetry struct {
	events []telemetry.Event
	err    error
}

func (f *fakeTelemetry) LogTelemetry(ev telemetry.Event) error {
	f.events = append(f.events, ev)
	return f.err
}

type fakeSettings struct {
	def       string
	overrides map[string]string
}

func (f *fakeSettings) SetDefault(name string) error {
	f.def = name
	return nil
}

func (f *fakeSettings) AddOverride(path, name string, h notify.Handler) error {
	if f.overrides == nil {
		f.overrides = map[string]string{}
	}
	f.overrides[path] = name
	h.Emit(notify.Notification{Kind: notify.SetOverrideToolchain, Path: path, Toolchain: name})
	return nil
}

// copyDownloader serves URLs from a map of local files.
type copyDownloader struct {
	files map[string]string
	urls  []string
}

func (d *copyDownloader) Download(_ context.Context, url, dest, _ string, _ notify.Handler) error {
	d.urls = append(d.urls, url)
	src, ok := d.files[url]
	if !ok {
		return errors.New("not found")
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

type harness struct {
	cfg    *Cfg
	inst   *fakeInstaller
	events []notify.Notification
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{inst: &fakeInstaller{}}
	home := filepath.Join(t.TempDir(), "elan")
	h.cfg = &Cfg{
		Paths:     paths.New(home),
		Platform:  platform.For("linux"),
		Installer: h.inst,
		Settings:  &fakeSettings{},
		Telemetry: &fakeTelemetry{},
		Notify:    func(n notify.Notification) { h.events = append(h.events, n) },
		Environ: func() []string {
			return []string{"PATH=/usr/bin", "LD_LIBRARY_PATH=/opt/lib", "HOME=/home/u"}
		},
	}
	return h
}

func (h *harness) kinds() []notify.Kind {
	out := make([]notify.Kind, 0, len(h.events))
	for _, n := range h.events {
		out = append(out, n.Kind)
	}
	return out
}

func (h *harness) reset() {
	h.events = nil
}

// writeTree creates a custom toolchain source tree with the given binaries.
func writeTree(t *testing.T, dir string, binaries ...string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "bin"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "lib"), 0o755))
	for _, b := range binaries {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "bin", b), []byte("#!/bin/sh\n"), 0o755))
	}
}
