// Package config loads the YAML-driven knobs shared across symten's
// public API: strict symmetry checking, numeric tolerance, kernel
// backend selection, and the Network contraction-tree cache size.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Kernel names a backend selectable via YAML.
type Kernel string

const (
	CPU    Kernel = "cpu"
	WebGPU Kernel = "webgpu"
)

// Config holds symten's process-wide defaults. The zero value is not
// valid configuration; use Default or Load.
type Config struct {
	StrictChecking   bool    `yaml:"strictChecking"`
	Tolerance        float64 `yaml:"tolerance"`
	KernelName       Kernel  `yaml:"kernel"`
	NetworkCacheSize int     `yaml:"networkCacheSize"`
}

// Default returns symten's built-in defaults, matching the values
// documented alongside the Config type: strict checking on, a
// tolerance tight enough to catch real symmetry violations without
// flagging floating-point noise, the CPU kernel, and a modest cache
// of recently-built contraction trees.
func Default() *Config {
	return &Config{
		StrictChecking:   true,
		Tolerance:        1e-12,
		KernelName:       CPU,
		NetworkCacheSize: 32,
	}
}

// rawConfig mirrors Config but leaves StrictChecking a pointer so a
// document that omits it can be told apart from one that sets it to
// false; Config.StrictChecking's zero value is false, which would
// otherwise silently disable the field's true-by-default behavior.
type rawConfig struct {
	StrictChecking   *bool   `yaml:"strictChecking"`
	Tolerance        float64 `yaml:"tolerance"`
	KernelName       Kernel  `yaml:"kernel"`
	NetworkCacheSize int     `yaml:"networkCacheSize"`
}

// Load reads and validates a Config from YAML bytes, filling any
// field left unset (or, for numeric/string fields, at its zero value)
// with Default's value.
func Load(data []byte) (*Config, error) {
	raw := &rawConfig{}
	if err := yaml.Unmarshal(data, raw); err != nil {
		return nil, fmt.Errorf("config: parsing yaml: %w", err)
	}
	cfg := &Config{
		Tolerance:        raw.Tolerance,
		KernelName:       raw.KernelName,
		NetworkCacheSize: raw.NetworkCacheSize,
	}
	if raw.StrictChecking != nil {
		cfg.StrictChecking = *raw.StrictChecking
	} else {
		cfg.StrictChecking = Default().StrictChecking
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile reads a Config from a YAML file on disk.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}
	return Load(data)
}

func (c *Config) applyDefaults() {
	def := Default()
	if c.Tolerance == 0 {
		c.Tolerance = def.Tolerance
	}
	if c.KernelName == "" {
		c.KernelName = def.KernelName
	}
	if c.NetworkCacheSize == 0 {
		c.NetworkCacheSize = def.NetworkCacheSize
	}
}

// Validate rejects configurations that would silently misbehave
// rather than producing a nonsensical tolerance or an unknown kernel.
func (c *Config) Validate() error {
	if c.Tolerance < 0 {
		return fmt.Errorf("config: tolerance must be non-negative, got %g", c.Tolerance)
	}
	if c.KernelName != CPU && c.KernelName != WebGPU {
		return fmt.Errorf("config: unknown kernel %q, want %q or %q", c.KernelName, CPU, WebGPU)
	}
	if c.NetworkCacheSize < 0 {
		return fmt.Errorf("config: networkCacheSize must be non-negative, got %d", c.NetworkCacheSize)
	}
	return nil
}

// OrDefault returns c if non-nil, else Default().
func OrDefault(c *Config) *Config {
	if c == nil {
		return Default()
	}
	return c
}
