// Package envvar builds the environment handed to spawned toolchain
// processes.
package envvar

import (
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"strings"
)

// Well-known variables shared between elan and the processes it spawns.
const (
	Home           = "ELAN_HOME"
	Toolchain      = "ELAN_TOOLCHAIN"
	RecursionCount = "LEAN_RECURSION_COUNT"
	Path           = "PATH"
)

// RecursionMax bounds how often elan may re-enter itself through a bare-name
// binary lookup.
const RecursionMax = 20

// ReadRecursionCount parses the recursion counter from the inherited
// environment. Missing or malformed values count as zero.
func ReadRecursionCount(getenv func(string) string) int {
	n, err := strconv.Atoi(strings.TrimSpace(getenv(RecursionCount)))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// Env is an environment under construction. Keys keep their first-seen
// spelling so a Windows "Path" is not duplicated as "PATH".
type Env struct {
	vars  map[string]string
	names map[string]string
}

// FromEnviron parses KEY=VALUE pairs. Later duplicates win.
func FromEnviron(environ []string) *Env {
	e := &Env{vars: map[string]string{}, names: map[string]string{}}
	for _, kv := range environ {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || key == "" {
			continue
		}
		e.Set(key, value)
	}
	return e
}

func (e *Env) canonical(key string) string {
	if runtime.GOOS == "windows" {
		return strings.ToUpper(key)
	}
	return key
}

// Get returns the value for key.
func (e *Env) Get(key string) (string, bool) {
	v, ok := e.vars[e.canonical(key)]
	return v, ok
}

// Set assigns key.
func (e *Env) Set(key, value string) {
	c := e.canonical(key)
	if _, ok := e.names[c]; !ok {
		e.names[c] = key
	}
	e.vars[c] = value
}

// PrependPath puts dirs in front of the list-valued variable key, in order.
func (e *Env) PrependPath(key string, dirs ...string) {
	if len(dirs) == 0 {
		return
	}
	parts := append([]string{}, dirs...)
	if current, ok := e.Get(key); ok && current != "" {
		parts = append(parts, filepath.SplitList(current)...)
	}
	e.Set(key, strings.Join(parts, string(os.PathListSeparator)))
}

// SetCount stores an integer value.
func (e *Env) SetCount(key string, n int) {
	e.Set(key, strconv.Itoa(n))
}

// Environ renders the environment as sorted KEY=VALUE pairs.
func (e *Env) Environ() []string {
	out := make([]string, 0, len(e.vars))
	for c, v := range e.vars {
		out = append(out, e.names[c]+"="+v)
	}
	sort.Strings(out)
	return out
}
