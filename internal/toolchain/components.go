package toolchain

import (
	"runtime"

	"elan/internal/dist"
	"elan/internal/paths"
)

// ComponentStatus describes one component of a toolchain.
type ComponentStatus struct {
	Component dist.Component
	Required  bool
	Installed bool
	Available bool
}

var knownComponents = []struct {
	name     string
	required bool
	probe    func(t *Toolchain) string
}{
	{MainBinary, true, func(t *Toolchain) string { return t.BinaryFile(MainBinary) }},
	{CompanionBinary, false, func(t *Toolchain) string { return t.BinaryFile(CompanionBinary) }},
	{"lake", false, func(t *Toolchain) string { return t.BinaryFile("lake") }},
	{"docs", false, func(t *Toolchain) string { return t.docsRoot() }},
}

// ListComponents reports the known components and whether each is present.
// Components of distribution toolchains are always available for install.
func (t *Toolchain) ListComponents() ([]ComponentStatus, error) {
	if !t.Exists() {
		return nil, &NotInstalledError{Name: t.name}
	}
	target := runtime.GOOS + "-" + runtime.GOARCH
	fromDist := !t.IsCustom()

	out := make([]ComponentStatus, 0, len(knownComponents))
	for _, c := range knownComponents {
		p := c.probe(t)
		installed := paths.IsFile(p) || paths.IsDir(p)
		out = append(out, ComponentStatus{
			Component: dist.Component{Name: c.name, Target: target},
			Required:  c.required,
			Installed: installed,
			Available: installed || fromDist,
		})
	}
	return out, nil
}
