// Package kernel defines the dense linear-algebra contract that
// SymTensor and Block delegate to. This is the "BLAS/LAPACK wrapper"
// and "GPU offload wrapper" named as external collaborators: the core
// tensor engine never inlines a matmul or SVD loop itself, it calls a
// Kernel.
package kernel

import "errors"

// ErrUnsupportedOnGPU is returned by a GPU-backed Kernel for
// operations it does not implement (e.g. SVD/QR), signalling the
// caller to fall back to a CPU Kernel. Named explicitly rather than
// panicking because falling back is an expected, cheap control flow,
// not a caller bug.
var ErrUnsupportedOnGPU = errors.New("kernel: operation not supported on this backend")

// Kernel is the dense linear-algebra collaborator. All matrices are
// row-major and flat; shapes are passed alongside the data.
type Kernel interface {
	// MatMulReal computes C = A*B for row-major A (m x k) and B (k x n).
	MatMulReal(a, b []float64, m, k, n int) []float64
	// MatMulComplex is MatMulReal's complex128 counterpart.
	MatMulComplex(a, b []complex128, m, k, n int) []complex128

	// SVDReal factorizes row-major A (m x n) into U (m x r), S (r), Vt (r x n)
	// with r = min(m, n).
	SVDReal(a []float64, m, n int) (u, s, vt []float64, err error)
	// SVDComplex is SVDReal's complex128 counterpart; S remains real.
	SVDComplex(a []complex128, m, n int) (u []complex128, s []float64, vt []complex128, err error)

	// QRReal factorizes row-major A (m x n), m >= n, into Q (m x n) with
	// orthonormal columns and upper-triangular R (n x n).
	QRReal(a []float64, m, n int) (q, r []float64, err error)
	// QRComplex is QRReal's complex128 counterpart.
	QRComplex(a []complex128, m, n int) (q, r []complex128, err error)

	// FillUniformReal fills dst with values drawn uniformly from [0, 1).
	FillUniformReal(dst []float64, seed int64)
	// FillUniformComplex fills dst with values whose real and imaginary
	// parts are each drawn uniformly from [0, 1).
	FillUniformComplex(dst []complex128, seed int64)

	// FillOrthonormalReal fills dst (rows x cols, row-major) with random
	// orthonormal rows (if rows <= cols) or columns (if cols < rows).
	FillOrthonormalReal(dst []float64, rows, cols int, seed int64) error
	// FillOrthonormalComplex is FillOrthonormalReal's complex128 counterpart.
	FillOrthonormalComplex(dst []complex128, rows, cols int, seed int64) error

	// Name identifies the kernel backend, e.g. "cpu" or "webgpu".
	Name() string
}
