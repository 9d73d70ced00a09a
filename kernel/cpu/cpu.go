// Package cpu is the public face of symten's CPU kernel: dense
// matmul, SVD, and QR implemented directly against Go's math library,
// with no external BLAS/LAPACK dependency.
package cpu

import "github.com/latticeforge/symten/internal/kernel/cpu"

// Backend is the CPU-backed kernel.Kernel implementation.
type Backend = cpu.Backend

// New constructs a CPU Backend.
func New() *Backend { return cpu.New() }
