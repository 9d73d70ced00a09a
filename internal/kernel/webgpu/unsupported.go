package webgpu

import "github.com/latticeforge/symten/internal/kernel"

// SVDReal is not offloaded; one-sided Jacobi SVD is iterative and
// branchy in a way that does not map cleanly onto a compute shader.
func (bk *Backend) SVDReal(a []float64, m, n int) (u, s, vt []float64, err error) {
	return nil, nil, nil, kernel.ErrUnsupportedOnGPU
}

// SVDComplex is not offloaded; see SVDReal.
func (bk *Backend) SVDComplex(a []complex128, m, n int) (u []complex128, s []float64, vt []complex128, err error) {
	return nil, nil, nil, kernel.ErrUnsupportedOnGPU
}

// QRReal is not offloaded; Gram-Schmidt's column-by-column dependency
// chain serializes across workgroups, defeating GPU parallelism.
func (bk *Backend) QRReal(a []float64, m, n int) (q, r []float64, err error) {
	return nil, nil, kernel.ErrUnsupportedOnGPU
}

// QRComplex is not offloaded; see QRReal.
func (bk *Backend) QRComplex(a []complex128, m, n int) (q, r []complex128, err error) {
	return nil, nil, kernel.ErrUnsupportedOnGPU
}

// FillUniformReal delegates to the CPU kernel: random fill is
// memory-bound and not worth a GPU round trip.
func (bk *Backend) FillUniformReal(dst []float64, seed int64) {
	bk.fallback.FillUniformReal(dst, seed)
}

// FillUniformComplex delegates to the CPU kernel; see FillUniformReal.
func (bk *Backend) FillUniformComplex(dst []complex128, seed int64) {
	bk.fallback.FillUniformComplex(dst, seed)
}

// FillOrthonormalReal delegates to the CPU kernel, which implements it
// via QR — itself GPU-unsupported per QRReal.
func (bk *Backend) FillOrthonormalReal(dst []float64, rows, cols int, seed int64) error {
	return bk.fallback.FillOrthonormalReal(dst, rows, cols, seed)
}

// FillOrthonormalComplex delegates to the CPU kernel; see FillOrthonormalReal.
func (bk *Backend) FillOrthonormalComplex(dst []complex128, rows, cols int, seed int64) error {
	return bk.fallback.FillOrthonormalComplex(dst, rows, cols, seed)
}
