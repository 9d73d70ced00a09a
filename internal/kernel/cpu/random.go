package cpu

import (
	"fmt"
	"math"
	"math/rand"
)

// FillUniformReal fills dst with i.i.d. uniform [0, 1) values drawn from
// a seeded generator, for reproducible block initialization.
func (b *Backend) FillUniformReal(dst []float64, seed int64) {
	rng := rand.New(rand.NewSource(seed))
	for i := range dst {
		dst[i] = rng.Float64()
	}
}

// FillUniformComplex fills dst with i.i.d. uniform points in the unit
// square of the complex plane, real and imaginary parts each in [0, 1).
func (b *Backend) FillUniformComplex(dst []complex128, seed int64) {
	rng := rand.New(rand.NewSource(seed))
	for i := range dst {
		dst[i] = complex(rng.Float64(), rng.Float64())
	}
}

// FillOrthonormalReal fills dst (rows x cols, row-major) with an
// orthonormal basis: if rows <= cols, dst holds rows orthonormal row
// vectors of dimension cols; if rows > cols, dst holds cols orthonormal
// column vectors of dimension rows. Both cases are produced by QR of a
// random Gaussian-like matrix, matching the directional convention the
// caller (block fill-random-orthogonal) expects.
func (b *Backend) FillOrthonormalReal(dst []float64, rows, cols int, seed int64) error {
	rng := rand.New(rand.NewSource(seed))
	if rows <= cols {
		// Need `rows` orthonormal vectors of length cols: QR needs a tall
		// matrix, so build (cols x rows), take Q (cols x rows), transpose.
		raw := make([]float64, cols*rows)
		for i := range raw {
			raw[i] = rng.NormFloat64()
		}
		q, _, err := b.QRReal(raw, cols, rows)
		if err != nil {
			return fmt.Errorf("cpu: FillOrthonormalReal: %w", err)
		}
		// q is cols x rows; dst wants rows x cols = q^T.
		for i := 0; i < rows; i++ {
			for j := 0; j < cols; j++ {
				dst[i*cols+j] = q[j*rows+i]
			}
		}
		return nil
	}
	// rows > cols: need `cols` orthonormal column vectors of length rows.
	raw := make([]float64, rows*cols)
	for i := range raw {
		raw[i] = rng.NormFloat64()
	}
	q, _, err := b.QRReal(raw, rows, cols)
	if err != nil {
		return fmt.Errorf("cpu: FillOrthonormalReal: %w", err)
	}
	copy(dst, q)
	return nil
}

// FillOrthonormalComplex is FillOrthonormalReal's complex128 counterpart,
// using unitary Q from QRComplex and conjugate transpose where a
// transpose is needed.
func (b *Backend) FillOrthonormalComplex(dst []complex128, rows, cols int, seed int64) error {
	rng := rand.New(rand.NewSource(seed))
	gaussian := func() complex128 {
		return complex(rng.NormFloat64(), rng.NormFloat64()) / complex(math.Sqrt2, 0)
	}
	if rows <= cols {
		raw := make([]complex128, cols*rows)
		for i := range raw {
			raw[i] = gaussian()
		}
		q, _, err := b.QRComplex(raw, cols, rows)
		if err != nil {
			return fmt.Errorf("cpu: FillOrthonormalComplex: %w", err)
		}
		for i := 0; i < rows; i++ {
			for j := 0; j < cols; j++ {
				dst[i*cols+j] = q[j*rows+i]
			}
		}
		return nil
	}
	raw := make([]complex128, rows*cols)
	for i := range raw {
		raw[i] = gaussian()
	}
	q, _, err := b.QRComplex(raw, rows, cols)
	if err != nil {
		return fmt.Errorf("cpu: FillOrthonormalComplex: %w", err)
	}
	copy(dst, q)
	return nil
}
