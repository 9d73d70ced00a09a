// Package webgpu is the public face of symten's GPU kernel: dense
// matmul offloaded to a WebGPU compute device via go-webgpu, with
// factorizations (SVD, QR) returning kernel.ErrUnsupportedOnGPU.
package webgpu

import "github.com/latticeforge/symten/internal/kernel/webgpu"

// Backend implements kernel.Kernel on a WebGPU compute device.
type Backend = webgpu.Backend

// New requests a high-performance GPU adapter and device.
func New() (*Backend, error) { return webgpu.New() }
