// Package block implements the dense per-charge-sector storage that
// backs a SymTensor: a real or complex matrix, optionally diagonal,
// whose linear algebra is forwarded to a kernel.Kernel rather than
// implemented inline here (the same "Block holds a Kernel and forwards
// rows/cols/payload" split born draws between its tensor and backend
// packages).
package block

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/latticeforge/symten/internal/kernel"
)

// Kind distinguishes a Block's scalar payload type.
type Kind int

// Supported scalar kinds. A SymTensor's blocks all share one Kind.
const (
	Real Kind = iota
	Complex
)

// String renders the kind the way diagnostics and serialization headers do.
func (k Kind) String() string {
	switch k {
	case Real:
		return "real"
	case Complex:
		return "complex"
	default:
		return "unknown"
	}
}

// Block is a dense (rows x cols) matrix, row-major, real or complex,
// optionally flagged diagonal. Only one of dataR/dataC is populated,
// selected by Kind.
type Block struct {
	kern kernel.Kernel

	Rows, Cols int
	Kind       Kind
	Diag       bool

	dataR []float64
	dataC []complex128
}

// New allocates a zero-filled Block of the given shape and kind,
// backed by kern for any kernel-delegated operation.
func New(kern kernel.Kernel, rows, cols int, kind Kind, diag bool) *Block {
	b := &Block{kern: kern, Rows: rows, Cols: cols, Kind: kind, Diag: diag}
	switch kind {
	case Real:
		b.dataR = make([]float64, rows*cols)
	case Complex:
		b.dataC = make([]complex128, rows*cols)
	}
	return b
}

// DataReal returns the underlying real payload. Panics if Kind != Real.
func (b *Block) DataReal() []float64 {
	if b.Kind != Real {
		panic("block: DataReal called on a complex block")
	}
	return b.dataR
}

// DataComplex returns the underlying complex payload. Panics if Kind != Complex.
func (b *Block) DataComplex() []complex128 {
	if b.Kind != Complex {
		panic("block: DataComplex called on a real block")
	}
	return b.dataC
}

// Clone returns a deep copy sharing the same kernel.
func (b *Block) Clone() *Block {
	out := &Block{kern: b.kern, Rows: b.Rows, Cols: b.Cols, Kind: b.Kind, Diag: b.Diag}
	if b.Kind == Real {
		out.dataR = append([]float64(nil), b.dataR...)
	} else {
		out.dataC = append([]complex128(nil), b.dataC...)
	}
	return out
}

// FillZero zeroes the payload in place.
func (b *Block) FillZero() {
	if b.Kind == Real {
		for i := range b.dataR {
			b.dataR[i] = 0
		}
	} else {
		for i := range b.dataC {
			b.dataC[i] = 0
		}
	}
}

// FillRandomUniform fills the payload with i.i.d. uniform [0, 1)
// entries via the kernel, seeded for reproducibility.
func (b *Block) FillRandomUniform(seed int64) {
	if b.Kind == Real {
		b.kern.FillUniformReal(b.dataR, seed)
	} else {
		b.kern.FillUniformComplex(b.dataC, seed)
	}
}

// FillRandomOrthonormal fills the payload with an orthonormal basis
// per kernel.Kernel's FillOrthonormal* directional convention.
func (b *Block) FillRandomOrthonormal(seed int64) error {
	if b.Kind == Real {
		return b.kern.FillOrthonormalReal(b.dataR, b.Rows, b.Cols, seed)
	}
	return b.kern.FillOrthonormalComplex(b.dataC, b.Rows, b.Cols, seed)
}

// SetDiagonalToOne sets every diagonal entry to 1, leaving off-diagonal
// entries untouched (used to build identity / projector blocks).
func (b *Block) SetDiagonalToOne() {
	n := b.Rows
	if b.Cols < n {
		n = b.Cols
	}
	for i := 0; i < n; i++ {
		if b.Kind == Real {
			b.dataR[i*b.Cols+i] = 1
		} else {
			b.dataC[i*b.Cols+i] = 1
		}
	}
}

// ScalarMul multiplies every entry by a real scalar, in place.
func (b *Block) ScalarMul(s float64) {
	if b.Kind == Real {
		for i := range b.dataR {
			b.dataR[i] *= s
		}
	} else {
		cs := complex(s, 0)
		for i := range b.dataC {
			b.dataC[i] *= cs
		}
	}
}

// Add returns b + other, element-wise. Both must share shape and Kind.
// Per spec, diagonal x dense combinations densify; only diagonal x
// diagonal of matching shape stays diagonal.
func (b *Block) Add(other *Block) (*Block, error) {
	if b.Rows != other.Rows || b.Cols != other.Cols {
		return nil, fmt.Errorf("block: Add shape mismatch: %dx%d vs %dx%d", b.Rows, b.Cols, other.Rows, other.Cols)
	}
	if b.Kind != other.Kind {
		return nil, fmt.Errorf("block: Add kind mismatch: %s vs %s", b.Kind, other.Kind)
	}
	diag := b.Diag && other.Diag
	out := New(b.kern, b.Rows, b.Cols, b.Kind, diag)
	if diag {
		n := min(b.Rows, b.Cols)
		for i := 0; i < n; i++ {
			if b.Kind == Real {
				out.dataR[i] = b.dataR[i] + other.dataR[i]
			} else {
				out.dataC[i] = b.dataC[i] + other.dataC[i]
			}
		}
		return out, nil
	}
	if b.Kind == Real {
		ar, br := b.expandReal(), other.expandReal()
		for i := range out.dataR {
			out.dataR[i] = ar[i] + br[i]
		}
	} else {
		ac, bc := b.expandComplex(), other.expandComplex()
		for i := range out.dataC {
			out.dataC[i] = ac[i] + bc[i]
		}
	}
	return out, nil
}

// expandReal returns the block's payload as a dense row-major slice,
// materializing off-diagonal zeros when Diag is set.
func (b *Block) expandReal() []float64 {
	if !b.Diag {
		return b.dataR
	}
	out := make([]float64, b.Rows*b.Cols)
	n := min(b.Rows, b.Cols)
	for i := 0; i < n; i++ {
		out[i*b.Cols+i] = b.dataR[i]
	}
	return out
}

func (b *Block) expandComplex() []complex128 {
	if !b.Diag {
		return b.dataC
	}
	out := make([]complex128, b.Rows*b.Cols)
	n := min(b.Rows, b.Cols)
	for i := 0; i < n; i++ {
		out[i*b.Cols+i] = b.dataC[i]
	}
	return out
}

// MatMul computes b * other (optionally transposing either operand
// first), densifying diagonal operands as needed and delegating the
// dense product to the kernel.
func (b *Block) MatMul(other *Block, transposeSelf, transposeOther bool) (*Block, error) {
	if b.Kind != other.Kind {
		return nil, fmt.Errorf("block: MatMul kind mismatch: %s vs %s", b.Kind, other.Kind)
	}
	aRows, aCols := b.Rows, b.Cols
	if transposeSelf {
		aRows, aCols = aCols, aRows
	}
	oRows, oCols := other.Rows, other.Cols
	if transposeOther {
		oRows, oCols = oCols, oRows
	}
	if aCols != oRows {
		return nil, fmt.Errorf("block: MatMul dimension mismatch: %dx%d * %dx%d", aRows, aCols, oRows, oCols)
	}

	diag := b.Diag && other.Diag && !transposeSelf && !transposeOther
	out := New(b.kern, aRows, oCols, b.Kind, diag)

	if b.Kind == Real {
		a := maybeTransposeReal(b.expandReal(), b.Rows, b.Cols, transposeSelf)
		c := maybeTransposeReal(other.expandReal(), other.Rows, other.Cols, transposeOther)
		if diag {
			n := min(aRows, oCols)
			for i := 0; i < n; i++ {
				out.dataR[i] = a[i*aCols+i] * c[i*oCols+i]
			}
			return out, nil
		}
		out.dataR = b.kern.MatMulReal(a, c, aRows, aCols, oCols)
		return out, nil
	}

	a := maybeTransposeComplex(b.expandComplex(), b.Rows, b.Cols, transposeSelf)
	c := maybeTransposeComplex(other.expandComplex(), other.Rows, other.Cols, transposeOther)
	if diag {
		n := min(aRows, oCols)
		for i := 0; i < n; i++ {
			out.dataC[i] = a[i*aCols+i] * c[i*oCols+i]
		}
		return out, nil
	}
	out.dataC = b.kern.MatMulComplex(a, c, aRows, aCols, oCols)
	return out, nil
}

func maybeTransposeReal(a []float64, rows, cols int, transpose bool) []float64 {
	if !transpose {
		return a
	}
	t := make([]float64, rows*cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			t[j*rows+i] = a[i*cols+j]
		}
	}
	return t
}

func maybeTransposeComplex(a []complex128, rows, cols int, transpose bool) []complex128 {
	if !transpose {
		return a
	}
	t := make([]complex128, rows*cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			t[j*rows+i] = a[i*cols+j]
		}
	}
	return t
}

// SVD factors the block's dense form into (U, S, V†) via the kernel.
// S is always returned as a real diagonal Block.
func (b *Block) SVD() (u, s, vt *Block, err error) {
	if b.Kind == Real {
		uu, ss, vv, svdErr := b.kern.SVDReal(b.expandReal(), b.Rows, b.Cols)
		if svdErr != nil {
			return nil, nil, nil, fmt.Errorf("block: SVD: %w", svdErr)
		}
		r := len(ss)
		u = &Block{kern: b.kern, Rows: b.Rows, Cols: r, Kind: Real, dataR: uu}
		s = &Block{kern: b.kern, Rows: r, Cols: r, Kind: Real, Diag: true, dataR: ss}
		vt = &Block{kern: b.kern, Rows: r, Cols: b.Cols, Kind: Real, dataR: vv}
		return u, s, vt, nil
	}
	uu, ss, vv, svdErr := b.kern.SVDComplex(b.expandComplex(), b.Rows, b.Cols)
	if svdErr != nil {
		return nil, nil, nil, fmt.Errorf("block: SVD: %w", svdErr)
	}
	r := len(ss)
	u = &Block{kern: b.kern, Rows: b.Rows, Cols: r, Kind: Complex, dataC: uu}
	s = &Block{kern: b.kern, Rows: r, Cols: r, Kind: Real, Diag: true, dataR: ss}
	vt = &Block{kern: b.kern, Rows: r, Cols: b.Cols, Kind: Complex, dataC: vv}
	return u, s, vt, nil
}

// QR factors the block's dense form into (Q, R) via the kernel;
// requires Rows >= Cols.
func (b *Block) QR() (q, r *Block, err error) {
	if b.Kind == Real {
		qq, rr, qrErr := b.kern.QRReal(b.expandReal(), b.Rows, b.Cols)
		if qrErr != nil {
			return nil, nil, fmt.Errorf("block: QR: %w", qrErr)
		}
		q = &Block{kern: b.kern, Rows: b.Rows, Cols: b.Cols, Kind: Real, dataR: qq}
		r = &Block{kern: b.kern, Rows: b.Cols, Cols: b.Cols, Kind: Real, dataR: rr}
		return q, r, nil
	}
	qq, rr, qrErr := b.kern.QRComplex(b.expandComplex(), b.Rows, b.Cols)
	if qrErr != nil {
		return nil, nil, fmt.Errorf("block: QR: %w", qrErr)
	}
	q = &Block{kern: b.kern, Rows: b.Rows, Cols: b.Cols, Kind: Complex, dataC: qq}
	r = &Block{kern: b.kern, Rows: b.Cols, Cols: b.Cols, Kind: Complex, dataC: rr}
	return q, r, nil
}

// Trace sums the diagonal entries. Requires a square block.
func (b *Block) Trace() (complex128, error) {
	if b.Rows != b.Cols {
		return 0, fmt.Errorf("block: Trace requires square block, got %dx%d", b.Rows, b.Cols)
	}
	var sum complex128
	if b.Kind == Real {
		for i := 0; i < b.Rows; i++ {
			sum += complex(b.at(i, i), 0)
		}
	} else {
		for i := 0; i < b.Rows; i++ {
			sum += b.atC(i, i)
		}
	}
	return sum, nil
}

// At returns the real element at (row, col), transparently expanding
// a diagonal block's implicit zeros.
func (b *Block) At(i, j int) float64 { return b.at(i, j) }

// AtComplex returns the complex element at (row, col), transparently
// expanding a diagonal block's implicit zeros.
func (b *Block) AtComplex(i, j int) complex128 { return b.atC(i, j) }

func (b *Block) at(i, j int) float64 {
	if b.Diag {
		if i != j {
			return 0
		}
		return b.dataR[i]
	}
	return b.dataR[i*b.Cols+j]
}

func (b *Block) atC(i, j int) complex128 {
	if b.Diag {
		if i != j {
			return 0
		}
		return b.dataC[i]
	}
	return b.dataC[i*b.Cols+j]
}

// Norm returns the Frobenius norm of the block.
func (b *Block) Norm() float64 {
	sum := 0.0
	if b.Kind == Real {
		for _, v := range b.dataR {
			sum += v * v
		}
	} else {
		for _, v := range b.dataC {
			sum += real(v)*real(v) + imag(v)*imag(v)
		}
	}
	return math.Sqrt(sum)
}

// MaxNorm returns the maximum element magnitude (AbsMax).
func (b *Block) MaxNorm() float64 {
	max := 0.0
	if b.Kind == Real {
		for _, v := range b.dataR {
			if av := math.Abs(v); av > max {
				max = av
			}
		}
	} else {
		for _, v := range b.dataC {
			if av := cmplx.Abs(v); av > max {
				max = av
			}
		}
	}
	return max
}
