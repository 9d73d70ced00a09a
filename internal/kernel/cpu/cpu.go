// Package cpu implements the kernel.Kernel contract in pure Go. It is
// the default dense linear-algebra backend: a reference implementation
// (naive matmul, one-sided Jacobi SVD, Gram-Schmidt QR). Matmul is
// parallelized across output rows using internal/parallel, the way the
// born codebase's CPU tensor backend parallelizes its own naive
// kernels; SVD and QR run sequentially.
package cpu

import (
	"github.com/latticeforge/symten/internal/parallel"
)

// Backend is the reference kernel.Kernel implementation.
type Backend struct {
	par parallel.Config
}

// New returns a Backend using parallel.DefaultConfig for its internal
// work-splitting.
func New() *Backend {
	return &Backend{par: parallel.DefaultConfig()}
}

// Name identifies this kernel backend.
func (b *Backend) Name() string { return "cpu" }
