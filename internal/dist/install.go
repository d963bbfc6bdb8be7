package dist

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"elan/internal/notify"
)

// Downloader fetches a URL into a local file.
type Downloader interface {
	Download(ctx context.Context, url, dest, checksum string, h notify.Handler) error
}

// Installer installs distribution toolchains.
type Installer struct {
	Resolver   *Resolver
	Downloader Downloader
}

// Request describes one distribution install.
type Request struct {
	Desc       Descriptor
	UpdateHash string
	Download   DownloadCfg
	Force      bool
	Dest       string
}

// Install resolves req.Desc and places the toolchain at req.Dest. It reports
// false without touching the network beyond release resolution when the
// update hash already records the resolved release.
func (i *Installer) Install(ctx context.Context, req Request) (bool, error) {
	h := req.Download.Notify

	rel, err := i.Resolver.Resolve(ctx, req.Desc, h)
	if err != nil {
		return false, fmt.Errorf("resolve %s: %w", req.Desc, err)
	}

	if !req.Force && req.UpdateHash != "" && dirExists(req.Dest) {
		if previous, err := os.ReadFile(req.UpdateHash); err == nil &&
			strings.TrimSpace(string(previous)) == rel.Identity() {
			return false, nil
		}
	}

	archive := filepath.Join(req.Download.DownloadDir, rel.Asset.Name)
	if err := i.Downloader.Download(ctx, rel.Asset.URL, archive, rel.Asset.Checksum, h); err != nil {
		return false, err
	}
	defer func() { _ = os.Remove(archive) }()

	if err := os.MkdirAll(req.Download.TmpDir, 0o755); err != nil {
		return false, fmt.Errorf("prepare temp dir: %w", err)
	}
	extractDir, err := os.MkdirTemp(req.Download.TmpDir, "extract-")
	if err != nil {
		return false, fmt.Errorf("create extract dir: %w", err)
	}
	defer func() { _ = os.RemoveAll(extractDir) }()

	h.Emit(notify.Notification{Kind: notify.ExtractingArchive, Path: archive})
	if err := Extract(archive, extractDir); err != nil {
		return false, err
	}
	root, err := ContentRoot(extractDir)
	if err != nil {
		return false, err
	}

	if err := ReplaceDir(root, req.Dest); err != nil {
		return false, err
	}

	if req.UpdateHash != "" {
		if err := os.WriteFile(req.UpdateHash, []byte(rel.Identity()+"\n"), 0o644); err != nil {
			return true, fmt.Errorf("write update hash: %w", err)
		}
	}
	return true, nil
}

// ReplaceDir moves src into place at dest, removing whatever dest held.
func ReplaceDir(src, dest string) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("prepare %s: %w", filepath.Dir(dest), err)
	}
	if err := os.RemoveAll(dest); err != nil {
		return fmt.Errorf("replace %s: %w", dest, err)
	}
	if err := os.Rename(src, dest); err != nil {
		return fmt.Errorf("commit %s: %w", dest, err)
	}
	return nil
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
