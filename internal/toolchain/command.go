package toolchain

import (
	"os/exec"
	"path/filepath"
	"strings"

	"elan/internal/envvar"
	"elan/internal/paths"
)

// CreateCommand builds a command running binary from this toolchain. A binary
// missing from the toolchain is looked up on the inherited PATH until the
// recursion limit is reached.
func (t *Toolchain) CreateCommand(binary string) (*exec.Cmd, error) {
	if !t.Exists() {
		return nil, &NotInstalledError{Name: t.name}
	}

	if suffix := t.cfg.platform().ExeSuffix(); suffix != "" && !strings.HasSuffix(strings.ToLower(binary), suffix) {
		binary += suffix
	}

	bin := filepath.Join(t.path, "bin", binary)
	if !paths.IsFile(bin) {
		if t.cfg.RecursionDepth >= envvar.RecursionMax {
			return nil, &BinaryNotFoundError{Toolchain: t.name, Binary: binary}
		}
		bin = binary
	}

	cmd := exec.Command(bin)
	t.setEnv(cmd)
	return cmd, nil
}

// SetLoaderPath prepends the toolchain's lib directory to the shared-library
// search path of cmd.
func (t *Toolchain) SetLoaderPath(cmd *exec.Cmd) {
	env := t.baseEnv(cmd)
	t.setLoaderPath(env)
	cmd.Env = env.Environ()
}

func (t *Toolchain) baseEnv(cmd *exec.Cmd) *envvar.Env {
	if cmd.Env != nil {
		return envvar.FromEnviron(cmd.Env)
	}
	return envvar.FromEnviron(t.cfg.environ())
}

func (t *Toolchain) setLoaderPath(env *envvar.Env) {
	env.PrependPath(t.cfg.platform().LoaderPathVar(), filepath.Join(t.path, "lib"))
}

func (t *Toolchain) setEnv(cmd *exec.Cmd) {
	env := t.baseEnv(cmd)
	t.setLoaderPath(env)

	dirs := []string{t.cfg.Paths.BinDir}
	if t.cfg.platform().PrependToolchainBin() {
		dirs = append(dirs, filepath.Join(t.path, "bin"))
	}
	env.PrependPath(envvar.Path, dirs...)

	env.SetCount(envvar.RecursionCount, t.cfg.RecursionDepth+1)
	env.Set(envvar.Toolchain, t.name)
	env.Set(envvar.Home, t.cfg.Paths.Home)

	cmd.Env = env.Environ()
}
