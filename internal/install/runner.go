package install

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"elan/internal/dist"
	"elan/internal/notify"
)

// DistInstaller installs distribution releases.
type DistInstaller interface {
	Install(ctx context.Context, req dist.Request) (bool, error)
}

// Runner executes install methods against the filesystem.
type Runner struct {
	Dist   DistInstaller
	TmpDir string
}

// NewRunner returns a runner that stages work under tmpDir.
func NewRunner(d DistInstaller, tmpDir string) *Runner {
	return &Runner{Dist: d, TmpDir: tmpDir}
}

// Run places the toolchain described by m at dest and reports whether
// anything changed.
func (r *Runner) Run(ctx context.Context, m Method, dest string, h notify.Handler) (bool, error) {
	switch m := m.(type) {
	case Copy:
		h.Emit(notify.Notification{Kind: notify.CopyingDirectory, Path: m.Src})
		if err := r.copyDir(m.Src, dest); err != nil {
			return false, err
		}
		return true, nil
	case Link:
		h.Emit(notify.Notification{Kind: notify.LinkingDirectory, Path: m.Src})
		if err := linkDir(m.Src, dest); err != nil {
			return false, err
		}
		return true, nil
	case Installer:
		if err := r.unpack(m.Archive, dest, h); err != nil {
			return false, err
		}
		return true, nil
	case Dist:
		if r.Dist == nil {
			return false, fmt.Errorf("no distribution installer configured")
		}
		return r.Dist.Install(ctx, dist.Request{
			Desc:       m.Desc,
			UpdateHash: m.UpdateHash,
			Download:   m.Download,
			Force:      m.Force,
			Dest:       dest,
		})
	default:
		return false, fmt.Errorf("unknown install method %T", m)
	}
}

// Uninstall removes dest. A symlinked install loses only the link.
func (r *Runner) Uninstall(_ context.Context, dest string, h notify.Handler) error {
	h.Emit(notify.Notification{Kind: notify.RemovingDirectory, Path: dest})
	if err := os.RemoveAll(dest); err != nil {
		return fmt.Errorf("remove %s: %w", dest, err)
	}
	return nil
}

func (r *Runner) stagingDir(dest string) (string, error) {
	if err := os.MkdirAll(r.TmpDir, 0o755); err != nil {
		return "", fmt.Errorf("prepare temp dir: %w", err)
	}
	dir, err := os.MkdirTemp(r.TmpDir, filepath.Base(dest)+"-")
	if err != nil {
		return "", fmt.Errorf("create staging dir: %w", err)
	}
	return dir, nil
}

func (r *Runner) copyDir(src, dest string) error {
	staging, err := r.stagingDir(dest)
	if err != nil {
		return err
	}
	defer func() { _ = os.RemoveAll(staging) }()

	root, err := filepath.EvalSymlinks(src)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", src, err)
	}
	content := filepath.Join(staging, "toolchain")
	if err := copyTree(root, content); err != nil {
		return fmt.Errorf("copy %s: %w", src, err)
	}
	return dist.ReplaceDir(content, dest)
}

// unpack extracts an installer archive over dest. Several archives may be
// layered into the same toolchain, so existing files are kept.
func (r *Runner) unpack(archive, dest string, h notify.Handler) error {
	if !strings.HasSuffix(strings.ToLower(archive), ".gz") {
		return fmt.Errorf("installer %s is not a gzip archive", archive)
	}
	staging, err := r.stagingDir(dest)
	if err != nil {
		return err
	}
	defer func() { _ = os.RemoveAll(staging) }()

	h.Emit(notify.Notification{Kind: notify.ExtractingArchive, Path: archive})
	// Installers may be downloaded to names without the .tar infix.
	named := filepath.Join(staging, "installer.tar.gz")
	if err := linkOrCopyFile(archive, named); err != nil {
		return err
	}
	extracted := filepath.Join(staging, "extracted")
	if err := dist.Extract(named, extracted); err != nil {
		return err
	}
	root, err := dist.ContentRoot(extracted)
	if err != nil {
		return err
	}
	if err := copyTree(root, dest); err != nil {
		return fmt.Errorf("install %s: %w", archive, err)
	}
	return nil
}

func linkDir(src, dest string) error {
	abs, err := filepath.Abs(src)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", src, err)
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("prepare %s: %w", filepath.Dir(dest), err)
	}
	if err := os.RemoveAll(dest); err != nil {
		return fmt.Errorf("replace %s: %w", dest, err)
	}
	if err := os.Symlink(abs, dest); err != nil {
		return fmt.Errorf("link %s: %w", dest, err)
	}
	return nil
}

// copyTree copies src into dest, creating directories and preserving file
// modes and symlinks.
func copyTree(src, dest string) error {
	return filepath.WalkDir(src, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dest, rel)

		info, err := d.Info()
		if err != nil {
			return err
		}
		switch {
		case d.IsDir():
			return os.MkdirAll(target, 0o755)
		case info.Mode()&os.ModeSymlink != 0:
			link, err := os.Readlink(path)
			if err != nil {
				return err
			}
			_ = os.Remove(target)
			return os.Symlink(link, target)
		default:
			return copyFile(path, target, info.Mode().Perm())
		}
	})
}

func copyFile(src, dst string, mode os.FileMode) error {
	source, err := os.Open(src)
	if err != nil {
		return err
	}
	defer source.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}

	dest, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return err
	}
	if _, err := io.Copy(dest, source); err != nil {
		dest.Close()
		return err
	}
	return dest.Close()
}

func linkOrCopyFile(src, dst string) error {
	if err := os.Link(src, dst); err == nil {
		return nil
	}
	if err := copyFile(src, dst, 0o644); err != nil {
		return fmt.Errorf("stage %s: %w", src, err)
	}
	return nil
}
