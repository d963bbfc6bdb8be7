// Package install places toolchain files on disk. Method is a closed set of
// strategies; Runner executes them.
package install

import "elan/internal/dist"

// Method is one of Copy, Link, Installer or Dist.
type Method interface {
	method()
	String() string
}

// Copy copies a local toolchain directory.
type Copy struct {
	Src string
}

// Link symlinks a local toolchain directory.
type Link struct {
	Src string
}

// Installer unpacks a local .tar.gz toolchain archive.
type Installer struct {
	Archive string
}

// Dist installs a release of a distribution toolchain. UpdateHash is empty
// when no hash should be consulted or recorded.
type Dist struct {
	Desc       dist.Descriptor
	UpdateHash string
	Download   dist.DownloadCfg
	Force      bool
}

func (Copy) method()      {}
func (Link) method()      {}
func (Installer) method() {}
func (Dist) method()      {}

func (m Copy) String() string      { return "copy " + m.Src }
func (m Link) String() string      { return "link " + m.Src }
func (m Installer) String() string { return "installer " + m.Archive }
func (m Dist) String() string      { return "dist " + m.Desc.String() }

// Allowed reports whether m may be used for a toolchain of the given kind:
// local methods are reserved for custom toolchains and Dist for the rest.
func Allowed(m Method, custom bool) bool {
	switch m.(type) {
	case Copy, Link, Installer:
		return custom
	case Dist:
		return !custom
	default:
		return false
	}
}
