package toolchain

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"elan/internal/envvar"
)

// CreateFallbackCommand runs CompanionBinary from this toolchain on behalf of
// primary: the spawned tool sees primary as the active toolchain. binary must
// name CompanionBinary.
func (t *Toolchain) CreateFallbackCommand(binary string, primary *Toolchain) (*exec.Cmd, error) {
	if binary != CompanionBinary && binary != CompanionBinary+".exe" {
		panic(fmt.Sprintf("fallback commands are only supported for %s, got %q", CompanionBinary, binary))
	}
	if !t.Exists() {
		return nil, &NotInstalledError{Name: t.name}
	}
	if !primary.Exists() {
		return nil, &NotInstalledError{Name: primary.name}
	}

	src := filepath.Join(t.path, "bin", CompanionBinary+t.cfg.platform().ExeSuffix())
	bin := src
	if t.cfg.platform().IsolateFallbackBinary() {
		isolated, err := t.isolate(src)
		if err != nil {
			return nil, err
		}
		bin = isolated
	}

	cmd := exec.Command(bin)
	t.setEnv(cmd)

	env := envvar.FromEnviron(cmd.Env)
	env.Set(envvar.Toolchain, primary.name)
	cmd.Env = env.Environ()
	return cmd, nil
}

// isolate hard-links src into the fallback directory so the spawned process
// cannot find this toolchain's main binary next to itself.
func (t *Toolchain) isolate(src string) (string, error) {
	dir := t.cfg.Paths.FallbackDir
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create fallback dir: %w", err)
	}
	dest := filepath.Join(dir, filepath.Base(src))
	if err := os.Remove(dest); err != nil && !errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("remove stale fallback binary: %w", err)
	}
	if err := os.Link(src, dest); err != nil {
		return "", fmt.Errorf("link fallback binary: %w", err)
	}
	return dest, nil
}
