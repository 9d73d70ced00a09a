package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	assert.NoError(t, Default().Validate())
}

func TestLoadAppliesDefaultsForZeroFields(t *testing.T) {
	cfg, err := Load([]byte("strictChecking: false\n"))
	require.NoError(t, err)
	assert.False(t, cfg.StrictChecking)
	assert.Equal(t, Default().Tolerance, cfg.Tolerance)
	assert.Equal(t, CPU, cfg.KernelName)
	assert.Equal(t, Default().NetworkCacheSize, cfg.NetworkCacheSize)
}

func TestLoadDefaultsStrictCheckingWhenOmitted(t *testing.T) {
	cfg, err := Load([]byte("tolerance: 1e-6\n"))
	require.NoError(t, err)
	assert.True(t, cfg.StrictChecking)
}

func TestLoadFullDocument(t *testing.T) {
	doc := []byte(`
strictChecking: true
tolerance: 1e-9
kernel: webgpu
networkCacheSize: 8
`)
	cfg, err := Load(doc)
	require.NoError(t, err)
	assert.True(t, cfg.StrictChecking)
	assert.Equal(t, 1e-9, cfg.Tolerance)
	assert.Equal(t, WebGPU, cfg.KernelName)
	assert.Equal(t, 8, cfg.NetworkCacheSize)
}

func TestLoadRejectsUnknownKernel(t *testing.T) {
	_, err := Load([]byte("kernel: tpu\n"))
	assert.Error(t, err)
}

func TestLoadRejectsNegativeTolerance(t *testing.T) {
	_, err := Load([]byte("tolerance: -1\n"))
	assert.Error(t, err)
}

func TestOrDefaultHandlesNil(t *testing.T) {
	assert.Equal(t, Default(), OrDefault(nil))
	custom := &Config{StrictChecking: false, Tolerance: 1, KernelName: CPU, NetworkCacheSize: 1}
	assert.Same(t, custom, OrDefault(custom))
}
