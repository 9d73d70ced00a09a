package cpu

import (
	"fmt"
	"math"
	"math/cmplx"
	"sort"
)

const (
	jacobiSweeps  = 60
	jacobiConvTol = 1e-14
)

// SVDReal factorizes row-major A (m x n) via one-sided Jacobi rotation
// into thin U (m x r), singular values S (r), and Vt (r x n), with
// r = min(m, n). Reference implementation: simple, robust, not tuned
// for large matrices — the same "naive first, BLAS/LAPACK later"
// posture born's own CPU matmul documents for itself.
func (b *Backend) SVDReal(a []float64, m, n int) (u, s, vt []float64, err error) {
	if m == 0 || n == 0 {
		return nil, nil, nil, fmt.Errorf("cpu: SVDReal on empty matrix %dx%d", m, n)
	}
	if m >= n {
		uu, ss, v := jacobiSVDTallReal(a, m, n)
		return uu, ss, transposeReal(v, n, n), nil
	}
	// a is m x n with m < n: factor a^T (n x m, tall) instead, then swap roles.
	at := transposeReal(a, m, n)
	uPrime, ss, vPrime := jacobiSVDTallReal(at, n, m) // uPrime: n x m, vPrime: m x m
	// a^T = uPrime * S * vPrime^T  =>  a = vPrime * S * uPrime^T
	return vPrime, ss, transposeReal(uPrime, n, m), nil
}

// jacobiSVDTallReal computes the thin SVD of a tall (rows >= cols)
// row-major matrix a (rows x cols) via one-sided Jacobi rotations on
// its columns. Returns U (rows x cols), S (cols, descending), and V
// (cols x cols, square orthogonal) such that a ~= U * diag(S) * V^T.
func jacobiSVDTallReal(a []float64, rows, cols int) (u, s, v []float64) {
	work := append([]float64(nil), a...)
	v = identityReal(cols)

	for sweep := 0; sweep < jacobiSweeps; sweep++ {
		offDiag := 0.0
		for p := 0; p < cols; p++ {
			for q := p + 1; q < cols; q++ {
				alpha, beta, gamma := colInnerProductsReal(work, rows, cols, p, q)
				offDiag += gamma * gamma
				if math.Abs(gamma) < jacobiConvTol*math.Sqrt(alpha*beta+1e-300) {
					continue
				}
				c, sn := jacobiRotationReal(alpha, beta, gamma)
				rotateColumnsReal(work, rows, cols, p, q, c, sn)
				rotateColumnsReal(v, cols, cols, p, q, c, sn)
			}
		}
		if offDiag < jacobiConvTol {
			break
		}
	}

	s = make([]float64, cols)
	u = make([]float64, rows*cols)
	for j := 0; j < cols; j++ {
		norm := 0.0
		for i := 0; i < rows; i++ {
			norm += work[i*cols+j] * work[i*cols+j]
		}
		norm = math.Sqrt(norm)
		s[j] = norm
		if norm > 1e-300 {
			for i := 0; i < rows; i++ {
				u[i*cols+j] = work[i*cols+j] / norm
			}
		}
	}

	order := sortedIndicesDescReal(s)
	return permuteColumnsReal(u, rows, cols, order), permuteReal(s, order), permuteColumnsReal(v, cols, cols, order)
}

func colInnerProductsReal(a []float64, rows, cols, p, q int) (alpha, beta, gamma float64) {
	for i := 0; i < rows; i++ {
		ap := a[i*cols+p]
		aq := a[i*cols+q]
		alpha += ap * ap
		beta += aq * aq
		gamma += ap * aq
	}
	return
}

// jacobiRotationReal returns the (c, s) of the 2x2 rotation that
// diagonalizes [[alpha, gamma], [gamma, beta]].
func jacobiRotationReal(alpha, beta, gamma float64) (c, s float64) {
	if gamma == 0 {
		return 1, 0
	}
	zeta := (beta - alpha) / (2 * gamma)
	var t float64
	if zeta >= 0 {
		t = 1 / (zeta + math.Sqrt(1+zeta*zeta))
	} else {
		t = -1 / (-zeta + math.Sqrt(1+zeta*zeta))
	}
	c = 1 / math.Sqrt(1+t*t)
	s = t * c
	return
}

func rotateColumnsReal(a []float64, rows, cols, p, q int, c, s float64) {
	for i := 0; i < rows; i++ {
		ap := a[i*cols+p]
		aq := a[i*cols+q]
		a[i*cols+p] = c*ap - s*aq
		a[i*cols+q] = s*ap + c*aq
	}
}

func identityReal(n int) []float64 {
	m := make([]float64, n*n)
	for i := 0; i < n; i++ {
		m[i*n+i] = 1
	}
	return m
}

func transposeReal(a []float64, rows, cols int) []float64 {
	t := make([]float64, rows*cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			t[j*rows+i] = a[i*cols+j]
		}
	}
	return t
}

func sortedIndicesDescReal(s []float64) []int {
	idx := make([]int, len(s))
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(i, j int) bool { return s[idx[i]] > s[idx[j]] })
	return idx
}

func permuteReal(s []float64, order []int) []float64 {
	out := make([]float64, len(s))
	for newJ, oldJ := range order {
		out[newJ] = s[oldJ]
	}
	return out
}

func permuteColumnsReal(a []float64, rows, cols int, order []int) []float64 {
	out := make([]float64, rows*cols)
	for newJ, oldJ := range order {
		for i := 0; i < rows; i++ {
			out[i*cols+newJ] = a[i*cols+oldJ]
		}
	}
	return out
}

// SVDComplex is SVDReal's complex128 counterpart: one-sided complex
// Jacobi rotation using Hermitian inner products. Singular values
// remain real.
func (b *Backend) SVDComplex(a []complex128, m, n int) (u []complex128, s []float64, vt []complex128, err error) {
	if m == 0 || n == 0 {
		return nil, nil, nil, fmt.Errorf("cpu: SVDComplex on empty matrix %dx%d", m, n)
	}
	if m >= n {
		uu, ss, v := jacobiSVDTallComplex(a, m, n)
		return uu, ss, conjTransposeComplex(v, n, n), nil
	}
	at := conjTransposeComplex(a, m, n)
	uPrime, ss, vPrime := jacobiSVDTallComplex(at, n, m)
	return vPrime, ss, conjTransposeComplex(uPrime, n, m), nil
}

func jacobiSVDTallComplex(a []complex128, rows, cols int) (u []complex128, s []float64, v []complex128) {
	work := append([]complex128(nil), a...)
	v = identityComplex(cols)

	for sweep := 0; sweep < jacobiSweeps; sweep++ {
		offDiag := 0.0
		for p := 0; p < cols; p++ {
			for q := p + 1; q < cols; q++ {
				alpha, beta, gamma := colInnerProductsComplex(work, rows, cols, p, q)
				mag := cmplx.Abs(gamma)
				offDiag += mag * mag
				if mag < jacobiConvTol*math.Sqrt(alpha*beta+1e-300) {
					continue
				}
				c, sReal, phase := jacobiRotationComplex(alpha, beta, gamma, mag)
				rotateColumnsComplex(work, rows, cols, p, q, c, sReal, phase)
				rotateColumnsComplex(v, cols, cols, p, q, c, sReal, phase)
			}
		}
		if offDiag < jacobiConvTol {
			break
		}
	}

	s = make([]float64, cols)
	u = make([]complex128, rows*cols)
	for j := 0; j < cols; j++ {
		norm := 0.0
		for i := 0; i < rows; i++ {
			v := work[i*cols+j]
			norm += real(v)*real(v) + imag(v)*imag(v)
		}
		norm = math.Sqrt(norm)
		s[j] = norm
		if norm > 1e-300 {
			for i := 0; i < rows; i++ {
				u[i*cols+j] = work[i*cols+j] / complex(norm, 0)
			}
		}
	}

	order := sortedIndicesDescReal(s)
	return permuteColumnsComplex(u, rows, cols, order), permuteReal(s, order), permuteColumnsComplex(v, cols, cols, order)
}

func colInnerProductsComplex(a []complex128, rows, cols, p, q int) (alpha, beta float64, gamma complex128) {
	for i := 0; i < rows; i++ {
		ap := a[i*cols+p]
		aq := a[i*cols+q]
		alpha += real(ap)*real(ap) + imag(ap)*imag(ap)
		beta += real(aq)*real(aq) + imag(aq)*imag(aq)
		gamma += cmplx.Conj(ap) * aq
	}
	return
}

// jacobiRotationComplex returns (c, s, phase) for the complex one-sided
// Jacobi rotation that drives off-diagonal gamma (|gamma| = mag) toward
// zero: columns are updated as
//
//	p' = c*p + conj(phase)*s*q
//	q' = -phase*s*p + c*q
func jacobiRotationComplex(alpha, beta float64, gamma complex128, mag float64) (c, s float64, phase complex128) {
	if mag == 0 {
		return 1, 0, 1
	}
	phase = gamma / complex(mag, 0)
	tau := (beta - alpha) / (2 * mag)
	var t float64
	if tau >= 0 {
		t = 1 / (tau + math.Sqrt(1+tau*tau))
	} else {
		t = -1 / (-tau + math.Sqrt(1+tau*tau))
	}
	c = 1 / math.Sqrt(1+t*t)
	s = t * c
	return
}

func rotateColumnsComplex(a []complex128, rows, cols, p, q int, c, s float64, phase complex128) {
	for i := 0; i < rows; i++ {
		ap := a[i*cols+p]
		aq := a[i*cols+q]
		a[i*cols+p] = complex(c, 0)*ap + cmplx.Conj(phase)*complex(s, 0)*aq
		a[i*cols+q] = -phase*complex(s, 0)*ap + complex(c, 0)*aq
	}
}

func identityComplex(n int) []complex128 {
	m := make([]complex128, n*n)
	for i := 0; i < n; i++ {
		m[i*n+i] = 1
	}
	return m
}

func conjTransposeComplex(a []complex128, rows, cols int) []complex128 {
	t := make([]complex128, rows*cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			t[j*rows+i] = cmplx.Conj(a[i*cols+j])
		}
	}
	return t
}

func permuteColumnsComplex(a []complex128, rows, cols int, order []int) []complex128 {
	out := make([]complex128, rows*cols)
	for newJ, oldJ := range order {
		for i := 0; i < rows; i++ {
			out[i*cols+newJ] = a[i*cols+oldJ]
		}
	}
	return out
}
