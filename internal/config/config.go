package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultOrigin is the repository toolchain descriptors resolve against when
// they do not name one.
const DefaultOrigin = "leanprover/lean4"

// Config captures user-level elan preferences stored in config.yaml.
type Config struct {
	Version   int            `yaml:"version"`
	Telemetry *bool          `yaml:"telemetry,omitempty"`
	Dist      DistConfig     `yaml:"dist"`
	Download  DownloadConfig `yaml:"download"`
}

// DistConfig controls where distribution toolchains are resolved from.
type DistConfig struct {
	APIURL          string        `yaml:"api_url"`
	Origin          string        `yaml:"origin"`
	ReleaseCacheTTL time.Duration `yaml:"release_cache_ttl"`
}

// DownloadConfig controls network transfers.
type DownloadConfig struct {
	Timeout   time.Duration `yaml:"timeout"`
	UserAgent string        `yaml:"user_agent"`
}

// Default returns the baseline configuration.
func Default() Config {
	return Config{
		Version: 1,
		Dist: DistConfig{
			APIURL:          "https://api.github.com",
			Origin:          DefaultOrigin,
			ReleaseCacheTTL: time.Hour,
		},
		Download: DownloadConfig{
			Timeout:   10 * time.Minute,
			UserAgent: "elan/1.0",
		},
	}
}

// Load reads the YAML configuration from disk if it exists, otherwise returns
// the default configuration.
func Load(path string) (Config, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.ApplyDefaults()
	return cfg, nil
}

// ApplyDefaults fills fields the YAML left empty.
func (c *Config) ApplyDefaults() {
	defaults := Default()

	if c.Version == 0 {
		c.Version = defaults.Version
	}
	if c.Dist.APIURL == "" {
		c.Dist.APIURL = defaults.Dist.APIURL
	}
	if c.Dist.Origin == "" {
		c.Dist.Origin = defaults.Dist.Origin
	}
	if c.Dist.ReleaseCacheTTL == 0 {
		c.Dist.ReleaseCacheTTL = defaults.Dist.ReleaseCacheTTL
	}
	if c.Download.Timeout == 0 {
		c.Download.Timeout = defaults.Download.Timeout
	}
	if c.Download.UserAgent == "" {
		c.Download.UserAgent = defaults.Download.UserAgent
	}
}

// TelemetryEnabled reports whether install telemetry should be recorded.
// Telemetry is opt-in.
func (c Config) TelemetryEnabled() bool {
	return c.Telemetry != nil && *c.Telemetry
}

// Marshal returns the YAML encoding of the configuration.
func (c Config) Marshal() ([]byte, error) {
	buf, err := yaml.Marshal(&c)
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}
	return buf, nil
}

// Save writes the configuration to path.
func (c Config) Save(path string) error {
	buf, err := c.Marshal()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func boolPtr(v bool) *bool {
	return &v
}
