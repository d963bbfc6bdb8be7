package paths

import (
	"fmt"
	"os"
	"path/filepath"
)

// HomeEnvVar overrides the elan home directory.
const HomeEnvVar = "ELAN_HOME"

// ElanPaths captures canonical locations inside the elan home directory.
type ElanPaths struct {
	Home          string
	BinDir        string
	ToolchainsDir string
	UpdateHashDir string
	DownloadsDir  string
	TmpDir        string
	FallbackDir   string
	TelemetryDir  string
	LocksDir      string
	LogsDir       string
	ConfigFile    string
	SettingsFile  string
	ReleaseCache  string
}

// Resolve determines the elan home using the optional --home flag, then
// ELAN_HOME, then ~/.elan.
func Resolve(homeFlag string) (ElanPaths, error) {
	return resolveWith(homeFlag, os.Getenv, os.UserHomeDir)
}

func resolveWith(homeFlag string, getenv func(string) string, userHome func() (string, error)) (ElanPaths, error) {
	home := homeFlag
	if home == "" {
		home = getenv(HomeEnvVar)
	}
	if home == "" {
		dir, err := userHome()
		if err != nil {
			return ElanPaths{}, fmt.Errorf("detect user home: %w", err)
		}
		home = filepath.Join(dir, ".elan")
	}

	abs, err := filepath.Abs(home)
	if err != nil {
		return ElanPaths{}, fmt.Errorf("resolve %s: %w", HomeEnvVar, err)
	}
	return New(abs), nil
}

// New lays out the standard directories below home without touching disk.
func New(home string) ElanPaths {
	return ElanPaths{
		Home:          home,
		BinDir:        filepath.Join(home, "bin"),
		ToolchainsDir: filepath.Join(home, "toolchains"),
		UpdateHashDir: filepath.Join(home, "update-hashes"),
		DownloadsDir:  filepath.Join(home, "downloads"),
		TmpDir:        filepath.Join(home, "tmp"),
		FallbackDir:   filepath.Join(home, "fallback"),
		TelemetryDir:  filepath.Join(home, "telemetry"),
		LocksDir:      filepath.Join(home, "locks"),
		LogsDir:       filepath.Join(home, "logs"),
		ConfigFile:    filepath.Join(home, "config.yaml"),
		SettingsFile:  filepath.Join(home, "settings.toml"),
		ReleaseCache:  filepath.Join(home, "release_cache.json"),
	}
}

// HashFile returns the update-hash path for a toolchain. When create is set
// the parent directory is created.
func (p ElanPaths) HashFile(toolchain string, create bool) (string, error) {
	if create {
		if err := os.MkdirAll(p.UpdateHashDir, 0o755); err != nil {
			return "", fmt.Errorf("create update hash dir: %w", err)
		}
	}
	return filepath.Join(p.UpdateHashDir, toolchain), nil
}

// LockFile returns the lock file guarding a toolchain install directory.
func (p ElanPaths) LockFile(toolchain string) string {
	return filepath.Join(p.LocksDir, toolchain+".lock")
}

// EnsureDirs creates the directories every command expects to exist.
func (p ElanPaths) EnsureDirs() error {
	dirs := []string{p.Home, p.ToolchainsDir, p.UpdateHashDir, p.TmpDir, p.LocksDir}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}
