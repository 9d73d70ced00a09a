package symtensor

import (
	"fmt"

	"github.com/latticeforge/symten/internal/block"
	"github.com/latticeforge/symten/internal/bond"
)

// PartialTrace sums t over the matched sub-indices of labels la and lb,
// which must name compatible (opposite-direction, charge-equal-after-
// negation) bonds of t. The result carries every other bond of t, in
// its original relative order, with la and lb removed.
func (t *SymTensor) PartialTrace(la, lb int32) (*SymTensor, error) {
	ia, ib := t.LabelIndex(la), t.LabelIndex(lb)
	if ia < 0 || ib < 0 {
		return nil, fmt.Errorf("%w: partialTrace: label %d or %d not found", ErrLabelError, la, lb)
	}
	if !t.bonds[ia].CompatibleWith(t.bonds[ib]) {
		return nil, fmt.Errorf("%w: partialTrace: bonds for labels %d,%d are not compatible", ErrBondMismatch, la, lb)
	}

	var keep []int32
	keepIns := 0
	for _, l := range t.labels {
		if l == la || l == lb {
			continue
		}
		keep = append(keep, l)
		if t.bonds[t.LabelIndex(l)].Dir == bond.In {
			keepIns++
		}
	}

	// la and lb are opposite direction; put whichever is IN right after
	// the kept IN bonds, and whichever is OUT right after the kept OUT
	// bonds, so the permuted tensor's last row bond and last column
	// bond are exactly the traced pair.
	// keep follows t's IN-first bond order, so keep[:keepIns] are the
	// kept IN bonds and keep[keepIns:] the kept OUT bonds.
	first, second := la, lb
	if t.bonds[ia].Dir != bond.In {
		first, second = lb, la
	}
	newInCount := keepIns + 1
	newLabels := append(append(append(append([]int32(nil), keep[:keepIns]...), first), keep[keepIns:]...), second)

	perm, err := t.Permute(newLabels, newInCount)
	if err != nil {
		return nil, fmt.Errorf("partialTrace: %w", err)
	}

	last := len(perm.bonds) - 1
	resultBonds := append(append([]bond.Bond(nil), perm.bonds[:keepIns]...), perm.bonds[newInCount:last]...)
	resultLabels := append(append([]int32(nil), perm.labels[:keepIns]...), perm.labels[newInCount:last]...)
	resultInCount := keepIns

	result, err := New(perm.kern, resultBonds, resultInCount, perm.kind, resultLabels, perm.name)
	if err != nil {
		return nil, fmt.Errorf("partialTrace: allocating result: %w", err)
	}

	traceDim := perm.bonds[keepIns].Dim()
	if traceDim != perm.bonds[last].Dim() {
		return nil, fmt.Errorf("%w: partialTrace: traced bonds have mismatched dimension", ErrBondMismatch)
	}

	for q, b := range perm.blocks {
		for r := 0; r < b.Rows; r++ {
			rowRaw := perm.rowPart.unlocate(q, r)
			traceRowIdx := rowRaw[len(rowRaw)-1]
			for c := 0; c < b.Cols; c++ {
				colRaw := perm.colPart.unlocate(q, c)
				traceColIdx := colRaw[len(colRaw)-1]
				if traceRowIdx != traceColIdx {
					continue
				}
				kRowRaw := rowRaw[:len(rowRaw)-1]
				kColRaw := colRaw[:len(colRaw)-1]
				qR, rOff := result.rowPart.locate(kRowRaw)
				qC, cOff := result.colPart.locate(kColRaw)
				if !qR.Equal(qC) {
					continue
				}
				dst, ok := result.blocks[qR]
				if !ok {
					continue
				}
				if perm.kind == block.Real {
					dst.DataReal()[rOff*dst.Cols+cOff] += b.At(r, c)
				} else {
					dst.DataComplex()[rOff*dst.Cols+cOff] += b.AtComplex(r, c)
				}
			}
		}
	}
	result.status |= perm.status & HaveElem
	return result, nil
}
