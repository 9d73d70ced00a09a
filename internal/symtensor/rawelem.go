package symtensor

import (
	"fmt"
	"math"

	"github.com/latticeforge/symten/internal/block"
)

// dims returns each bond's dimension, in bond order.
func (t *SymTensor) dims() []int {
	out := make([]int, len(t.bonds))
	for i, b := range t.bonds {
		out[i] = b.Dim()
	}
	return out
}

// totalElements returns the product of all bond dimensions: the size
// of the fully dense (unsymmetrized) tensor.
func (t *SymTensor) totalElements() int64 {
	n := int64(1)
	for _, d := range t.dims() {
		n *= int64(d)
	}
	return n
}

// forEachMultiIndex calls f once per lexicographic multi-index over
// dims (last dimension fastest-varying), passing the linear position
// in that order and the per-bond index slice (reused across calls —
// copy it if f retains it past the call).
func forEachMultiIndex(dims []int, f func(linear int64, idx []int)) {
	n := len(dims)
	idx := make([]int, n)
	total := int64(1)
	for _, d := range dims {
		total *= int64(d)
	}
	for linear := int64(0); linear < total; linear++ {
		f(linear, idx)
		for i := n - 1; i >= 0; i-- {
			idx[i]++
			if idx[i] < dims[i] {
				break
			}
			idx[i] = 0
		}
	}
}

const symmetryTolerance = 1e-12

// SetRawElem interprets denseBuffer as the full dense tensor in
// lexicographic multi-index order and scatters it into the per-charge
// blocks, dropping elements whose row/col charge disagree. When
// strictChecking is true, a dropped element whose magnitude exceeds
// the symmetry tolerance fails with ErrSymmetryViolation.
func (t *SymTensor) SetRawElem(denseBuffer []float64, strictChecking bool) error {
	if t.kind != block.Real {
		return fmt.Errorf("%w: SetRawElem(real) on a complex tensor", ErrScalarKindMismatch)
	}
	want := t.totalElements()
	if int64(len(denseBuffer)) != want {
		return fmt.Errorf("symtensor: SetRawElem: expected %d elements, got %d", want, len(denseBuffer))
	}

	var violation error
	forEachMultiIndex(t.dims(), func(linear int64, idx []int) {
		v := denseBuffer[linear]
		qRow, rowOff := t.rowPart.locate(idx[:t.rBondNum])
		qCol, colOff := t.colPart.locate(idx[t.rBondNum:])
		if !qRow.Equal(qCol) {
			if strictChecking && math.Abs(v) > symmetryTolerance && violation == nil {
				violation = fmt.Errorf("%w: non-zero element %v at charge-forbidden multi-index %v", ErrSymmetryViolation, v, append([]int(nil), idx...))
			}
			return
		}
		b := t.blocks[qRow]
		b.DataReal()[rowOff*b.Cols+colOff] = v
	})
	if violation != nil {
		return violation
	}
	t.status |= HaveElem
	return nil
}

// SetRawElemComplex is SetRawElem's complex128 counterpart.
func (t *SymTensor) SetRawElemComplex(denseBuffer []complex128, strictChecking bool) error {
	if t.kind != block.Complex {
		return fmt.Errorf("%w: SetRawElemComplex on a real tensor", ErrScalarKindMismatch)
	}
	want := t.totalElements()
	if int64(len(denseBuffer)) != want {
		return fmt.Errorf("symtensor: SetRawElemComplex: expected %d elements, got %d", want, len(denseBuffer))
	}

	var violation error
	forEachMultiIndex(t.dims(), func(linear int64, idx []int) {
		v := denseBuffer[linear]
		qRow, rowOff := t.rowPart.locate(idx[:t.rBondNum])
		qCol, colOff := t.colPart.locate(idx[t.rBondNum:])
		if !qRow.Equal(qCol) {
			if strictChecking && (real(v)*real(v)+imag(v)*imag(v)) > symmetryTolerance*symmetryTolerance && violation == nil {
				violation = fmt.Errorf("%w: non-zero element %v at charge-forbidden multi-index %v", ErrSymmetryViolation, v, append([]int(nil), idx...))
			}
			return
		}
		b := t.blocks[qRow]
		b.DataComplex()[rowOff*b.Cols+colOff] = v
	})
	if violation != nil {
		return violation
	}
	t.status |= HaveElem
	return nil
}

// RawElem reconstructs the full dense real tensor in lexicographic
// multi-index order, zero outside any charge-allowed position.
func (t *SymTensor) RawElem() []float64 {
	out := make([]float64, t.totalElements())
	forEachMultiIndex(t.dims(), func(linear int64, idx []int) {
		qRow, rowOff := t.rowPart.locate(idx[:t.rBondNum])
		qCol, colOff := t.colPart.locate(idx[t.rBondNum:])
		if !qRow.Equal(qCol) {
			return
		}
		b, ok := t.blocks[qRow]
		if !ok {
			return
		}
		out[linear] = b.At(rowOff, colOff)
	})
	return out
}

// RawElemComplex is RawElem's complex128 counterpart.
func (t *SymTensor) RawElemComplex() []complex128 {
	out := make([]complex128, t.totalElements())
	forEachMultiIndex(t.dims(), func(linear int64, idx []int) {
		qRow, rowOff := t.rowPart.locate(idx[:t.rBondNum])
		qCol, colOff := t.colPart.locate(idx[t.rBondNum:])
		if !qRow.Equal(qCol) {
			return
		}
		b, ok := t.blocks[qRow]
		if !ok {
			return
		}
		out[linear] = b.AtComplex(rowOff, colOff)
	})
	return out
}
