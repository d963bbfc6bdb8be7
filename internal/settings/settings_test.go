package settings

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"elan/internal/notify"
)

func TestLoadMissing(t *testing.T) {
	f := NewFile(filepath.Join(t.TempDir(), "settings.toml"))
	s, err := f.Load()
	require.NoError(t, err)
	assert.Equal(t, currentVersion, s.Version)
	assert.Empty(t, s.DefaultToolchain)
	assert.NotNil(t, s.Overrides)
}

func TestSetDefault(t *testing.T) {
	f := NewFile(filepath.Join(t.TempDir(), "home", "settings.toml"))
	require.NoError(t, f.SetDefault("leanprover-lean4-stable"))

	name, err := f.Default()
	require.NoError(t, err)
	assert.Equal(t, "leanprover-lean4-stable", name)

	raw, err := os.ReadFile(f.Path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "default_toolchain")
}

func TestOverrideLookupWalksParents(t *testing.T) {
	f := NewFile(filepath.Join(t.TempDir(), "settings.toml"))
	project := t.TempDir()
	nested := filepath.Join(project, "src", "deep")

	var got []notify.Notification
	require.NoError(t, f.AddOverride(project, "my-custom", func(n notify.Notification) { got = append(got, n) }))
	require.Len(t, got, 1)
	assert.Equal(t, notify.SetOverrideToolchain, got[0].Kind)

	name, at, err := f.Override(nested)
	require.NoError(t, err)
	assert.Equal(t, "my-custom", name)
	assert.Equal(t, filepath.Clean(project), at)

	name, _, err = f.Override(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, name)
}

func TestRemoveOverride(t *testing.T) {
	f := NewFile(filepath.Join(t.TempDir(), "settings.toml"))
	dir := t.TempDir()
	require.NoError(t, f.AddOverride(dir, "x", nil))

	removed, err := f.RemoveOverride(dir)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = f.RemoveOverride(dir)
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestLoadCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.toml")
	require.NoError(t, os.WriteFile(path, []byte("version = ["), 0o644))
	_, err := NewFile(path).Load()
	require.Error(t, err)
}
