package install

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"elan/internal/dist"
	"elan/internal/notify"
)

type fakeDist struct {
	req     dist.Request
	changed bool
	err     error
}

func (f *fakeDist) Install(_ context.Context, req dist.Request) (bool, error) {
	f.req = req
	return f.changed, f.err
}

func writeToolchain(t *testing.T, dir string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "bin"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bin", "lean"), []byte("#!/bin/sh\n"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "lib"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "lib", "libleanshared.so"), []byte("so"), 0o644))
}

func writeInstaller(t *testing.T, path string, files map[string]string) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	gz := gzip.NewWriter(f)
	tw := tar.NewWriter(gz)
	for name, body := range files {
		require.NoError(t, tw.WriteHeader(&tar.Header{Name: name, Mode: 0o755, Size: int64(len(body)), Typeflag: tar.TypeReg}))
		_, err := tw.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, tw.Close())
	require.NoError(t, gz.Close())
}

func TestRunCopy(t *testing.T) {
	src := t.TempDir()
	writeToolchain(t, src)
	home := t.TempDir()
	dest := filepath.Join(home, "toolchains", "custom")

	var kinds []notify.Kind
	r := NewRunner(nil, filepath.Join(home, "tmp"))
	changed, err := r.Run(context.Background(), Copy{Src: src}, dest, func(n notify.Notification) {
		kinds = append(kinds, n.Kind)
	})
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, []notify.Kind{notify.CopyingDirectory}, kinds)

	info, err := os.Stat(filepath.Join(dest, "bin", "lean"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o755), info.Mode().Perm())
	assert.FileExists(t, filepath.Join(dest, "lib", "libleanshared.so"))

	entries, err := os.ReadDir(filepath.Join(home, "tmp"))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRunCopyReplacesExisting(t *testing.T) {
	src := t.TempDir()
	writeToolchain(t, src)
	dest := filepath.Join(t.TempDir(), "custom")
	require.NoError(t, os.MkdirAll(dest, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dest, "stale"), []byte("x"), 0o644))

	r := NewRunner(nil, t.TempDir())
	_, err := r.Run(context.Background(), Copy{Src: src}, dest, notify.Discard)
	require.NoError(t, err)
	assert.NoFileExists(t, filepath.Join(dest, "stale"))
	assert.FileExists(t, filepath.Join(dest, "bin", "lean"))
}

func TestRunLink(t *testing.T) {
	src := t.TempDir()
	writeToolchain(t, src)
	dest := filepath.Join(t.TempDir(), "toolchains", "linked")

	r := NewRunner(nil, t.TempDir())
	changed, err := r.Run(context.Background(), Link{Src: src}, dest, notify.Discard)
	if err != nil && errors.Is(err, os.ErrPermission) {
		t.Skipf("symlinks unavailable: %v", err)
	}
	require.NoError(t, err)
	assert.True(t, changed)

	target, err := os.Readlink(dest)
	require.NoError(t, err)
	assert.Equal(t, src, target)
	assert.FileExists(t, filepath.Join(dest, "bin", "lean"))

	require.NoError(t, r.Uninstall(context.Background(), dest, notify.Discard))
	assert.NoFileExists(t, dest)
	assert.FileExists(t, filepath.Join(src, "bin", "lean"))
}

func TestRunInstallerLayersArchives(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "lean.tar.gz")
	second := filepath.Join(dir, "extra.gz")
	writeInstaller(t, first, map[string]string{"lean-4.0.0/bin/lean": "lean"})
	writeInstaller(t, second, map[string]string{"extra/bin/leanpkg": "leanpkg"})
	dest := filepath.Join(dir, "toolchains", "custom")

	r := NewRunner(nil, filepath.Join(dir, "tmp"))
	for _, archive := range []string{first, second} {
		changed, err := r.Run(context.Background(), Installer{Archive: archive}, dest, notify.Discard)
		require.NoError(t, err)
		assert.True(t, changed)
	}
	assert.FileExists(t, filepath.Join(dest, "bin", "lean"))
	assert.FileExists(t, filepath.Join(dest, "bin", "leanpkg"))
}

func TestRunInstallerRejectsNonGzip(t *testing.T) {
	r := NewRunner(nil, t.TempDir())
	_, err := r.Run(context.Background(), Installer{Archive: "lean.zip"}, t.TempDir(), notify.Discard)
	require.Error(t, err)
}

func TestRunDistDelegates(t *testing.T) {
	fd := &fakeDist{changed: true}
	r := NewRunner(fd, t.TempDir())
	desc := dist.Descriptor{Origin: "leanprover/lean4", Release: "stable"}
	m := Dist{Desc: desc, UpdateHash: "/h/stable", Force: true}

	changed, err := r.Run(context.Background(), m, "/tc/stable", notify.Discard)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, desc, fd.req.Desc)
	assert.Equal(t, "/h/stable", fd.req.UpdateHash)
	assert.Equal(t, "/tc/stable", fd.req.Dest)
	assert.True(t, fd.req.Force)

	fd.err = errors.New("boom")
	_, err = r.Run(context.Background(), m, "/tc/stable", notify.Discard)
	require.EqualError(t, err, "boom")
}

func TestUninstallMissingIsNoop(t *testing.T) {
	r := NewRunner(nil, t.TempDir())
	require.NoError(t, r.Uninstall(context.Background(), filepath.Join(t.TempDir(), "missing"), notify.Discard))
}
