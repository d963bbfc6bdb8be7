package toolchain

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"elan/internal/envvar"
	"elan/internal/platform"
)

func envOf(cmd *exec.Cmd) *envvar.Env {
	return envvar.FromEnviron(cmd.Env)
}

func mustGet(t *testing.T, env *envvar.Env, key string) string {
	t.Helper()
	v, ok := env.Get(key)
	require.True(t, ok, key)
	return v
}

func TestCreateCommandNotInstalled(t *testing.T) {
	h := newHarness(t)
	_, err := New(h.cfg, "stable").CreateCommand("lean")
	var ni *NotInstalledError
	require.ErrorAs(t, err, &ni)
	assert.Equal(t, "stable", ni.Name)
}

func TestCreateCommandUsesToolchainBinary(t *testing.T) {
	h := newHarness(t)
	h.cfg.RecursionDepth = envvar.RecursionMax
	tc := New(h.cfg, "stable")
	writeTree(t, tc.Path(), "lean")

	cmd, err := tc.CreateCommand("lean")
	require.NoError(t, err)
	assert.Equal(t, tc.BinaryFile("lean"), cmd.Path)

	env := envOf(cmd)
	assert.Equal(t, "21", mustGet(t, env, envvar.RecursionCount))
	assert.Equal(t, "stable", mustGet(t, env, envvar.Toolchain))
	assert.Equal(t, h.cfg.Paths.Home, mustGet(t, env, envvar.Home))
	assert.Equal(t, "/home/u", mustGet(t, env, "HOME"))

	ld := filepath.SplitList(mustGet(t, env, "LD_LIBRARY_PATH"))
	assert.Equal(t, []string{filepath.Join(tc.Path(), "lib"), "/opt/lib"}, ld)

	path := filepath.SplitList(mustGet(t, env, envvar.Path))
	assert.Equal(t, []string{h.cfg.Paths.BinDir, "/usr/bin"}, path)
}

func TestCreateCommandFallsBackToSearchPath(t *testing.T) {
	h := newHarness(t)
	h.cfg.RecursionDepth = 3
	tc := New(h.cfg, "stable")
	writeTree(t, tc.Path(), "lean")

	cmd, err := tc.CreateCommand("lake")
	require.NoError(t, err)
	assert.Equal(t, "lake", cmd.Args[0])
	assert.Equal(t, "4", mustGet(t, envOf(cmd), envvar.RecursionCount))
}

func TestCreateCommandRecursionGuard(t *testing.T) {
	h := newHarness(t)
	h.cfg.RecursionDepth = envvar.RecursionMax
	tc := New(h.cfg, "stable")
	writeTree(t, tc.Path(), "lean")

	_, err := tc.CreateCommand("lake")
	var nf *BinaryNotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "stable", nf.Toolchain)
	assert.Equal(t, "lake", nf.Binary)
}

func TestCreateCommandWindowsFamily(t *testing.T) {
	h := newHarness(t)
	h.cfg.Platform = platform.For("windows")
	tc := New(h.cfg, "stable")
	writeTree(t, tc.Path(), "lean.exe")

	for _, name := range []string{"lean", "lean.exe", "LEAN.EXE"} {
		cmd, err := tc.CreateCommand(name)
		require.NoError(t, err, name)
		if name == "LEAN.EXE" {
			// Case-sensitive host filesystems will not find the upper-case name.
			assert.True(t, strings.EqualFold(filepath.Base(cmd.Args[0]), "lean.exe"))
			continue
		}
		assert.Equal(t, filepath.Join(tc.Path(), "bin", "lean.exe"), cmd.Path, name)

		path := filepath.SplitList(mustGet(t, envOf(cmd), envvar.Path))
		assert.Equal(t, []string{h.cfg.Paths.BinDir, filepath.Join(tc.Path(), "bin"), "/usr/bin"}, path)
	}
}

func TestCreateCommandDarwinLoaderPath(t *testing.T) {
	h := newHarness(t)
	h.cfg.Platform = platform.For("darwin")
	tc := New(h.cfg, "stable")
	writeTree(t, tc.Path(), "lean")

	cmd, err := tc.CreateCommand("lean")
	require.NoError(t, err)
	env := envOf(cmd)
	assert.Equal(t, filepath.Join(tc.Path(), "lib"), mustGet(t, env, "DYLD_LIBRARY_PATH"))
	assert.Equal(t, "/opt/lib", mustGet(t, env, "LD_LIBRARY_PATH"))
}

func TestSetLoaderPath(t *testing.T) {
	h := newHarness(t)
	tc := New(h.cfg, "stable")

	cmd := exec.Command("true")
	cmd.Env = []string{"LD_LIBRARY_PATH=/x"}
	tc.SetLoaderPath(cmd)

	env := envOf(cmd)
	assert.Equal(t, filepath.Join(tc.Path(), "lib")+string(os.PathListSeparator)+"/x", mustGet(t, env, "LD_LIBRARY_PATH"))
	_, ok := env.Get(envvar.Toolchain)
	assert.False(t, ok)
}
