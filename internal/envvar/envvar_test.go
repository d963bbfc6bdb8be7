package envvar

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadRecursionCount(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{"", 0},
		{"3", 3},
		{" 7 ", 7},
		{"abc", 0},
		{"-2", 0},
	}
	for _, tt := range tests {
		getenv := func(key string) string {
			if key == RecursionCount {
				return tt.raw
			}
			return ""
		}
		assert.Equal(t, tt.want, ReadRecursionCount(getenv), "raw %q", tt.raw)
	}
}

func TestPrependPath(t *testing.T) {
	sep := string(os.PathListSeparator)
	env := FromEnviron([]string{"PATH=" + strings.Join([]string{"/usr/bin", "/bin"}, sep), "HOME=/home/u"})

	env.PrependPath("PATH", "/a", "/b")
	got, ok := env.Get("PATH")
	require.True(t, ok)
	assert.Equal(t, strings.Join([]string{"/a", "/b", "/usr/bin", "/bin"}, sep), got)

	env.PrependPath("LD_LIBRARY_PATH", "/lib")
	got, _ = env.Get("LD_LIBRARY_PATH")
	assert.Equal(t, "/lib", got)

	env.PrependPath("PATH")
	got, _ = env.Get("PATH")
	assert.True(t, strings.HasPrefix(got, "/a"+sep))
}

func TestEnvironSortedAndOverridden(t *testing.T) {
	env := FromEnviron([]string{"B=1", "A=2", "B=3", "malformed"})
	env.SetCount(RecursionCount, 4)

	assert.Equal(t, []string{"A=2", "B=3", "LEAN_RECURSION_COUNT=4"}, env.Environ())
}
