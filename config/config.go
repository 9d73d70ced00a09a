// Package config is the public face of symten's YAML-driven runtime
// configuration: strict symmetry checking, numeric tolerance, kernel
// backend selection, and the Network contraction-tree cache size.
package config

import "github.com/latticeforge/symten/internal/config"

// Kernel names a backend selectable via YAML.
type Kernel = config.Kernel

const (
	CPU    Kernel = config.CPU
	WebGPU Kernel = config.WebGPU
)

// Config holds symten's process-wide defaults.
type Config = config.Config

// Default returns symten's built-in defaults.
func Default() *Config { return config.Default() }

// Load reads and validates a Config from YAML bytes.
func Load(data []byte) (*Config, error) { return config.Load(data) }

// LoadFile reads a Config from a YAML file on disk.
func LoadFile(path string) (*Config, error) { return config.LoadFile(path) }

// OrDefault returns c if non-nil, else Default().
func OrDefault(c *Config) *Config { return config.OrDefault(c) }
