// Package dist resolves, downloads and unpacks distribution toolchains
// published as GitHub releases.
package dist

import (
	"fmt"
	"regexp"
	"strings"
)

// DefaultOrigin is used when a descriptor does not name a repository.
const DefaultOrigin = "leanprover/lean4"

// Tracking channels.
const (
	ChannelStable  = "stable"
	ChannelBeta    = "beta"
	ChannelNightly = "nightly"
)

// Descriptor is a parsed distribution toolchain name of the form
// [owner/repo:]release.
type Descriptor struct {
	Origin  string
	Release string
}

// ParseError reports a name that is not a distribution descriptor.
type ParseError struct {
	Name string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid toolchain name: '%s'", e.Name)
}

var (
	descriptorRegex = regexp.MustCompile(`^(?:([a-zA-Z0-9_-]+/[a-zA-Z0-9_.-]+):)?([a-zA-Z0-9.-]+)$`)
	versionRegex    = regexp.MustCompile(`^v?[0-9]+\.[0-9]+\.[0-9]+(?:-[a-zA-Z0-9.]+)?$`)
	datedNightly    = regexp.MustCompile(`^nightly-[0-9]{4}-[0-9]{2}-[0-9]{2}$`)
)

// ParseDescriptor parses raw. Names that do not match the descriptor grammar
// or name an unknown release form return a *ParseError; such names denote
// custom toolchains.
func ParseDescriptor(raw string) (Descriptor, error) {
	m := descriptorRegex.FindStringSubmatch(raw)
	if m == nil {
		return Descriptor{}, &ParseError{Name: raw}
	}
	origin, release := m[1], m[2]
	switch {
	case release == ChannelStable, release == ChannelBeta, release == ChannelNightly:
	case datedNightly.MatchString(release):
	case versionRegex.MatchString(release):
	default:
		return Descriptor{}, &ParseError{Name: raw}
	}
	return Descriptor{Origin: origin, Release: release}, nil
}

// IsTracking reports whether d follows a moving channel rather than a pinned
// release.
func (d Descriptor) IsTracking() bool {
	switch d.Release {
	case ChannelStable, ChannelBeta, ChannelNightly:
		return true
	}
	return false
}

// IsNightly reports whether d resolves against the nightly repository.
func (d Descriptor) IsNightly() bool {
	return d.Release == ChannelNightly || datedNightly.MatchString(d.Release)
}

// OriginOr returns d's origin, or fallback when d names none.
func (d Descriptor) OriginOr(fallback string) string {
	if d.Origin != "" {
		return d.Origin
	}
	if fallback != "" {
		return fallback
	}
	return DefaultOrigin
}

// Tag returns the git tag a pinned release is published under.
func (d Descriptor) Tag() string {
	if versionRegex.MatchString(d.Release) && !strings.HasPrefix(d.Release, "v") {
		return "v" + d.Release
	}
	return d.Release
}

func (d Descriptor) String() string {
	if d.Origin == "" {
		return d.Release
	}
	return d.Origin + ":" + d.Release
}

// Component is an optional piece of a distribution toolchain.
type Component struct {
	Name   string `json:"name"`
	Target string `json:"target,omitempty"`
}
