package cpu

import (
	"fmt"
	"math"
	"math/cmplx"
)

// QRReal factorizes row-major A (m x n), m >= n, via modified
// Gram-Schmidt into Q (m x n, orthonormal columns) and upper
// triangular R (n x n).
func (b *Backend) QRReal(a []float64, m, n int) (q, r []float64, err error) {
	if m < n {
		return nil, nil, fmt.Errorf("cpu: QRReal requires m >= n, got %dx%d", m, n)
	}
	// Work column-major internally for cache-friendly column updates.
	cols := make([][]float64, n)
	for j := 0; j < n; j++ {
		col := make([]float64, m)
		for i := 0; i < m; i++ {
			col[i] = a[i*n+j]
		}
		cols[j] = col
	}

	r = make([]float64, n*n)
	for j := 0; j < n; j++ {
		for k := 0; k < j; k++ {
			dot := 0.0
			for i := 0; i < m; i++ {
				dot += cols[k][i] * cols[j][i]
			}
			r[k*n+j] = dot
			for i := 0; i < m; i++ {
				cols[j][i] -= dot * cols[k][i]
			}
		}
		norm := 0.0
		for i := 0; i < m; i++ {
			norm += cols[j][i] * cols[j][i]
		}
		norm = math.Sqrt(norm)
		r[j*n+j] = norm
		if norm > 1e-300 {
			for i := 0; i < m; i++ {
				cols[j][i] /= norm
			}
		}
	}

	q = make([]float64, m*n)
	for j := 0; j < n; j++ {
		for i := 0; i < m; i++ {
			q[i*n+j] = cols[j][i]
		}
	}
	return q, r, nil
}

// QRComplex is QRReal's complex128 counterpart, using Hermitian inner
// products (conjugate on the left factor).
func (b *Backend) QRComplex(a []complex128, m, n int) (q, r []complex128, err error) {
	if m < n {
		return nil, nil, fmt.Errorf("cpu: QRComplex requires m >= n, got %dx%d", m, n)
	}
	cols := make([][]complex128, n)
	for j := 0; j < n; j++ {
		col := make([]complex128, m)
		for i := 0; i < m; i++ {
			col[i] = a[i*n+j]
		}
		cols[j] = col
	}

	r = make([]complex128, n*n)
	for j := 0; j < n; j++ {
		for k := 0; k < j; k++ {
			var dot complex128
			for i := 0; i < m; i++ {
				dot += cmplx.Conj(cols[k][i]) * cols[j][i]
			}
			r[k*n+j] = dot
			for i := 0; i < m; i++ {
				cols[j][i] -= dot * cols[k][i]
			}
		}
		norm := 0.0
		for i := 0; i < m; i++ {
			norm += real(cols[j][i])*real(cols[j][i]) + imag(cols[j][i])*imag(cols[j][i])
		}
		norm = math.Sqrt(norm)
		r[j*n+j] = complex(norm, 0)
		if norm > 1e-300 {
			for i := 0; i < m; i++ {
				cols[j][i] /= complex(norm, 0)
			}
		}
	}

	q = make([]complex128, m*n)
	for j := 0; j < n; j++ {
		for i := 0; i < m; i++ {
			q[i*n+j] = cols[j][i]
		}
	}
	return q, r, nil
}
