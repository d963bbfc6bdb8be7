// Package settings persists the default toolchain and per-directory
// overrides in settings.toml.
package settings

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"elan/internal/notify"
)

const currentVersion = "12"

// Settings is the on-disk document.
type Settings struct {
	Version          string            `toml:"version"`
	DefaultToolchain string            `toml:"default_toolchain,omitempty"`
	Overrides        map[string]string `toml:"overrides"`
}

// File reads and writes a settings.toml.
type File struct {
	Path string
}

// NewFile returns the store for path.
func NewFile(path string) *File {
	return &File{Path: path}
}

// Load reads the settings. A missing file yields empty settings.
func (f *File) Load() (Settings, error) {
	contents, err := os.ReadFile(f.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return empty(), nil
		}
		return Settings{}, fmt.Errorf("read settings: %w", err)
	}

	s := empty()
	if err := toml.Unmarshal(contents, &s); err != nil {
		return Settings{}, fmt.Errorf("parse settings %s: %w", f.Path, err)
	}
	if s.Overrides == nil {
		s.Overrides = map[string]string{}
	}
	return s, nil
}

// Save writes s atomically.
func (f *File) Save(s Settings) error {
	if err := os.MkdirAll(filepath.Dir(f.Path), 0o755); err != nil {
		return fmt.Errorf("prepare settings directory: %w", err)
	}

	buf, err := toml.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.Path), "settings-*.toml")
	if err != nil {
		return fmt.Errorf("create temp settings: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(buf); err != nil {
		tmp.Close()
		return fmt.Errorf("write settings temp: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close settings temp: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.Path); err != nil {
		return fmt.Errorf("replace settings: %w", err)
	}
	return nil
}

// WithMut loads the settings, applies fn and saves the result unless fn
// fails.
func (f *File) WithMut(fn func(*Settings) error) error {
	s, err := f.Load()
	if err != nil {
		return err
	}
	if err := fn(&s); err != nil {
		return err
	}
	return f.Save(s)
}

// SetDefault records name as the default toolchain.
func (f *File) SetDefault(name string) error {
	return f.WithMut(func(s *Settings) error {
		s.DefaultToolchain = name
		return nil
	})
}

// Default returns the default toolchain, or "" if none is set.
func (f *File) Default() (string, error) {
	s, err := f.Load()
	if err != nil {
		return "", err
	}
	return s.DefaultToolchain, nil
}

// AddOverride pins dir to the toolchain name.
func (f *File) AddOverride(dir, name string, h notify.Handler) error {
	key, err := overrideKey(dir)
	if err != nil {
		return err
	}
	err = f.WithMut(func(s *Settings) error {
		s.Overrides[key] = name
		return nil
	})
	if err != nil {
		return err
	}
	h.Emit(notify.Notification{Kind: notify.SetOverrideToolchain, Path: key, Toolchain: name})
	return nil
}

// RemoveOverride drops the override for dir. It reports whether one existed.
func (f *File) RemoveOverride(dir string) (bool, error) {
	key, err := overrideKey(dir)
	if err != nil {
		return false, err
	}
	removed := false
	err = f.WithMut(func(s *Settings) error {
		if _, ok := s.Overrides[key]; ok {
			delete(s.Overrides, key)
			removed = true
		}
		return nil
	})
	return removed, err
}

// Override returns the toolchain pinned for dir or its nearest ancestor,
// together with the directory the override was registered on.
func (f *File) Override(dir string) (name, at string, err error) {
	s, err := f.Load()
	if err != nil {
		return "", "", err
	}
	key, err := overrideKey(dir)
	if err != nil {
		return "", "", err
	}
	for {
		if name, ok := s.Overrides[key]; ok {
			return name, key, nil
		}
		parent := filepath.Dir(key)
		if parent == key {
			return "", "", nil
		}
		key = parent
	}
}

func overrideKey(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolve override path %s: %w", dir, err)
	}
	return filepath.Clean(abs), nil
}

func empty() Settings {
	return Settings{Version: currentVersion, Overrides: map[string]string{}}
}
