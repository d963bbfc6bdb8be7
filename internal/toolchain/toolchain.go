// Package toolchain resolves toolchain names to installations and drives
// their install, update and removal. It also builds the commands that run
// binaries from an installation with a correctly prepared environment.
package toolchain

import (
	"path/filepath"
	"strings"

	"elan/internal/dist"
	"elan/internal/paths"
)

const (
	// MainBinary must be present in every custom toolchain's bin directory.
	MainBinary = "lean"
	// CompanionBinary is the package tool that may be borrowed from another
	// toolchain through a fallback command.
	CompanionBinary = "leanpkg"
	// FallbackToolchain supplies CompanionBinary to custom toolchains that
	// lack it.
	FallbackToolchain = "stable"
)

// Toolchain is a named toolchain and its install location. It is immutable
// and never touches disk on construction.
type Toolchain struct {
	cfg     *Cfg
	name    string
	rawName string
	path    string
}

// SaneName maps raw onto a single path segment.
func SaneName(raw string) string {
	return strings.NewReplacer(":", "-", "/", "-").Replace(raw)
}

// New resolves raw against cfg.
func New(cfg *Cfg, raw string) *Toolchain {
	name := SaneName(raw)
	return &Toolchain{
		cfg:     cfg,
		name:    name,
		rawName: raw,
		path:    filepath.Join(cfg.Paths.ToolchainsDir, name),
	}
}

// Name is the sanitized name used on disk and in the environment.
func (t *Toolchain) Name() string { return t.name }

// RawName is the name as the user wrote it.
func (t *Toolchain) RawName() string { return t.rawName }

// Path is the install directory.
func (t *Toolchain) Path() string { return t.path }

// Desc parses the raw name as a distribution descriptor.
func (t *Toolchain) Desc() (dist.Descriptor, error) {
	return dist.ParseDescriptor(t.rawName)
}

// IsCustom reports whether the name is not a distribution descriptor.
func (t *Toolchain) IsCustom() bool {
	_, err := t.Desc()
	return err != nil
}

// IsTracking reports whether the toolchain follows a moving release channel.
func (t *Toolchain) IsTracking() bool {
	d, err := t.Desc()
	return err == nil && d.IsTracking()
}

// Exists reports whether the toolchain is installed. Linked custom
// toolchains are symlinks, which some platforms only see through Lstat.
func (t *Toolchain) Exists() bool {
	if paths.IsDir(t.path) {
		return true
	}
	return t.cfg.platform().SymlinkCountsAsInstalled() && paths.IsSymlink(t.path)
}

// Verify fails with *paths.NotADirectoryError unless the install path is a
// directory.
func (t *Toolchain) Verify() error {
	return paths.AssertIsDirectory(t.path)
}

// BinaryFile returns where binary would live inside the toolchain.
func (t *Toolchain) BinaryFile(binary string) string {
	return filepath.Join(t.path, "bin", binary+t.cfg.platform().ExeSuffix())
}

// DocPath locates relative inside the toolchain's HTML documentation.
func (t *Toolchain) DocPath(relative string) (string, error) {
	if err := t.Verify(); err != nil {
		return "", err
	}
	return filepath.Join(t.docsRoot(), filepath.FromSlash(relative)), nil
}

func (t *Toolchain) docsRoot() string {
	return filepath.Join(t.path, "share", "doc", "lean", "html")
}

// OpenDocs opens the documentation page in a browser.
func (t *Toolchain) OpenDocs(relative string) error {
	p, err := t.DocPath(relative)
	if err != nil {
		return err
	}
	return t.cfg.openBrowser(p)
}

// MakeDefault records the toolchain as the default.
func (t *Toolchain) MakeDefault() error {
	return t.cfg.Settings.SetDefault(t.name)
}

// MakeOverride records the toolchain as the override for dir.
func (t *Toolchain) MakeOverride(dir string) error {
	return t.cfg.Settings.AddOverride(dir, t.name, t.cfg.Notify)
}
