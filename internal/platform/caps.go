// Package platform isolates the per-OS behaviour of the toolchain core:
// executable naming, loader search paths, symlink detection quirks and the
// process-image search order that forces fallback binaries into their own
// directory.
package platform

import "runtime"

// Capabilities describes one target OS family.
type Capabilities interface {
	// ExeSuffix is appended to binary names (".exe" on Windows).
	ExeSuffix() string
	// LoaderPathVar names the shared-library search path variable.
	LoaderPathVar() string
	// SymlinkCountsAsInstalled reports whether a symlinked toolchain must be
	// detected explicitly because directory metadata does not follow it.
	SymlinkCountsAsInstalled() bool
	// PrependToolchainBin reports whether the toolchain's own bin directory
	// must also be put on PATH for spawned processes.
	PrependToolchainBin() bool
	// IsolateFallbackBinary reports whether a fallback binary has to be run
	// from a directory of its own, because the OS searches the executable's
	// directory before PATH.
	IsolateFallbackBinary() bool
	// BrowserCommand returns the argv used to open a local file or URL.
	BrowserCommand(target string) []string
}

type family struct {
	goos string
}

// For returns the capabilities of goos.
func For(goos string) Capabilities {
	return family{goos: goos}
}

// Current returns the capabilities of the running OS.
func Current() Capabilities {
	return For(runtime.GOOS)
}

func (f family) windows() bool { return f.goos == "windows" }

func (f family) ExeSuffix() string {
	if f.windows() {
		return ".exe"
	}
	return ""
}

func (f family) LoaderPathVar() string {
	if f.goos == "darwin" {
		return "DYLD_LIBRARY_PATH"
	}
	return "LD_LIBRARY_PATH"
}

func (f family) SymlinkCountsAsInstalled() bool { return f.windows() }

func (f family) PrependToolchainBin() bool { return f.windows() }

func (f family) IsolateFallbackBinary() bool { return f.windows() }

func (f family) BrowserCommand(target string) []string {
	switch f.goos {
	case "windows":
		return []string{"cmd", "/C", "start", "", target}
	case "darwin":
		return []string{"open", target}
	default:
		return []string{"xdg-open", target}
	}
}
