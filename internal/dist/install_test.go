package dist

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestInstaller(t *testing.T) (*Installer, *fakeGitHub, DownloadCfg) {
	t.Helper()
	archive := filepath.Join(t.TempDir(), "lean.tar.gz")
	writeTarGz(t, archive, map[string]string{
		"lean-4.4.0-linux/bin/lean":    "lean",
		"lean-4.4.0-linux/bin/leanpkg": "leanpkg",
	})
	payload, err := os.ReadFile(archive)
	require.NoError(t, err)

	f := &fakeGitHub{tag: "v4.4.0", payload: payload, digest: "sha256:" + sha(string(payload))}
	r, srv := newTestResolver(t, f)

	home := t.TempDir()
	cfg := DownloadCfg{DownloadDir: filepath.Join(home, "downloads"), TmpDir: filepath.Join(home, "tmp")}
	return &Installer{Resolver: r, Downloader: NewHTTPDownloader(srv.Client(), "")}, f, cfg
}

func TestInstallThenUnchanged(t *testing.T) {
	inst, f, cfg := newTestInstaller(t)
	home := t.TempDir()
	dest := filepath.Join(home, "toolchains", "stable")
	hash := filepath.Join(home, "update-hashes", "stable")
	require.NoError(t, os.MkdirAll(filepath.Dir(hash), 0o755))
	req := Request{Desc: Descriptor{Release: ChannelStable}, UpdateHash: hash, Download: cfg, Dest: dest}
	ctx := context.Background()

	changed, err := inst.Install(ctx, req)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.FileExists(t, filepath.Join(dest, "bin", "lean"))

	recorded, err := os.ReadFile(hash)
	require.NoError(t, err)
	assert.Contains(t, string(recorded), "leanprover/lean4@v4.4.0/")

	changed, err = inst.Install(ctx, req)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.EqualValues(t, 1, f.downloads.Load())

	req.Force = true
	changed, err = inst.Install(ctx, req)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.EqualValues(t, 2, f.downloads.Load())
	assert.NoFileExists(t, filepath.Join(cfg.DownloadDir, "lean-v4.4.0-linux.tar.gz"))
}

func TestInstallReinstallsWhenDestMissing(t *testing.T) {
	inst, f, cfg := newTestInstaller(t)
	home := t.TempDir()
	dest := filepath.Join(home, "toolchains", "stable")
	hash := filepath.Join(home, "hash")
	req := Request{Desc: Descriptor{Release: ChannelStable}, UpdateHash: hash, Download: cfg, Dest: dest}

	_, err := inst.Install(context.Background(), req)
	require.NoError(t, err)
	require.NoError(t, os.RemoveAll(dest))

	changed, err := inst.Install(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.EqualValues(t, 2, f.downloads.Load())
}

func TestInstallBadChecksum(t *testing.T) {
	inst, f, cfg := newTestInstaller(t)
	f.digest = "sha256:deadbeef"
	dest := filepath.Join(t.TempDir(), "stable")

	changed, err := inst.Install(context.Background(), Request{Desc: Descriptor{Release: "4.3.0"}, Download: cfg, Dest: dest})
	require.ErrorContains(t, err, "checksum mismatch")
	assert.False(t, changed)
	assert.NoDirExists(t, dest)
}
