package symtensor

import (
	"fmt"
	"sort"

	"github.com/latticeforge/symten/internal/block"
	"github.com/latticeforge/symten/internal/bond"
	"github.com/latticeforge/symten/internal/qnum"
)

// sharedLabels returns the labels common to a and b, ascending.
func sharedLabels(a, b *SymTensor) []int32 {
	var out []int32
	for _, l := range a.labels {
		if b.LabelIndex(l) >= 0 {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func uncontracted(t *SymTensor, shared []int32) []int32 {
	sharedSet := make(map[int32]bool, len(shared))
	for _, l := range shared {
		sharedSet[l] = true
	}
	var out []int32
	for _, l := range t.labels {
		if !sharedSet[l] {
			out = append(out, l)
		}
	}
	return out
}

// Contract eliminates the labels shared by a and b via block-wise
// matrix multiplication. When fast is false the result is permuted so
// each bond keeps its true original direction, with the IN bonds
// first and then the OUT bonds, each group in the order in which its
// labels first appeared in a then b; when fast is true the result is left in the internal
// "a's uncontracted bonds (IN) x b's uncontracted bonds (OUT)" layout
// the matmul naturally produces.
func Contract(a, b *SymTensor, fast bool) (*SymTensor, error) {
	if a.kind != b.kind {
		return nil, fmt.Errorf("%w: contract real/complex tensors", ErrScalarKindMismatch)
	}
	shared := sharedLabels(a, b)

	for _, l := range shared {
		ia, ib := a.LabelIndex(l), b.LabelIndex(l)
		if !a.bonds[ia].CompatibleWith(b.bonds[ib]) {
			return nil, fmt.Errorf("%w: bonds for shared label %d are not compatible", ErrBondMismatch, l)
		}
	}

	aUncontracted := uncontracted(a, shared)
	bUncontracted := uncontracted(b, shared)

	aNewLabels := append(append([]int32(nil), aUncontracted...), shared...)
	aPerm, err := a.Permute(aNewLabels, len(aUncontracted))
	if err != nil {
		return nil, fmt.Errorf("contract: permuting A: %w", err)
	}

	bNewLabels := append(append([]int32(nil), shared...), bUncontracted...)
	bPerm, err := b.Permute(bNewLabels, len(shared))
	if err != nil {
		return nil, fmt.Errorf("contract: permuting B: %w", err)
	}

	resultLabels := append(append([]int32(nil), aUncontracted...), bUncontracted...)
	resultBonds := append(append([]bond.Bond(nil), aPerm.bonds[:len(aUncontracted)]...), bPerm.bonds[len(shared):]...)

	r0, err := New(a.kern, resultBonds, len(aUncontracted), a.kind, resultLabels, "")
	if err != nil {
		return nil, fmt.Errorf("contract: allocating result: %w", err)
	}

	for qB := range bPerm.blocks {
		mappedQ := qB.Negate()
		aBlk, ok := aPerm.blocks[mappedQ]
		if !ok {
			continue
		}
		aligned := alignSharedRows(bPerm, aPerm, len(shared), qB)
		product, err := aBlk.MatMul(aligned, false, false)
		if err != nil {
			return nil, fmt.Errorf("contract: block matmul at charge %s: %w", mappedQ, err)
		}
		if _, ok := r0.blocks[mappedQ]; !ok {
			continue
		}
		if err := r0.PutBlock(mappedQ, product, false); err != nil {
			return nil, fmt.Errorf("contract: %w", err)
		}
	}

	if fast {
		return r0, nil
	}

	return finalizeContractOrder(r0, a, aUncontracted, b, bUncontracted)
}

// alignSharedRows returns a copy of bBlk with rows reordered so that
// row i lines up with column i of aPerm's block at mappedQ: bBlk's
// rows are indexed by bPerm's own shared-bond partition, which charges
// the negation of aPerm's, so each row's raw shared-bond index is
// remapped bond-by-bond before relocating it in aPerm's column
// partition.
func alignSharedRows(bPerm, aPerm *SymTensor, sharedCount int, qB qnum.Qnum) *block.Block {
	bBlk := bPerm.blocks[qB]
	aligned := block.New(aPerm.Kern(), bBlk.Rows, bBlk.Cols, bBlk.Kind, false)
	aOffset := len(aPerm.bonds) - sharedCount
	newRaw := make([]int, sharedCount)
	for r := 0; r < bBlk.Rows; r++ {
		raw := bPerm.rowPart.unlocate(qB, r)
		for i := 0; i < sharedCount; i++ {
			newRaw[i] = remapBondIndex(bPerm.bonds[i], aPerm.bonds[aOffset+i], raw[i], true)
		}
		_, offset := aPerm.colPart.locate(newRaw)
		copyRow(aligned, offset, bBlk, r)
	}
	return aligned
}

func copyRow(dst *block.Block, dstRow int, src *block.Block, srcRow int) {
	if dst.Kind == block.Real {
		for c := 0; c < src.Cols; c++ {
			dst.DataReal()[dstRow*dst.Cols+c] = src.At(srcRow, c)
		}
		return
	}
	for c := 0; c < src.Cols; c++ {
		dst.DataComplex()[dstRow*dst.Cols+c] = src.AtComplex(srcRow, c)
	}
}

// finalizeContractOrder regroups r0's bonds (currently "all A
// uncontracted IN, all B uncontracted OUT") so each bond's direction
// matches what it was in its home tensor, IN bonds first, preserving
// first-appearance order within each group.
func finalizeContractOrder(r0, a *SymTensor, aUncontracted []int32, b *SymTensor, bUncontracted []int32) (*SymTensor, error) {
	var ins, outs []int32
	for _, l := range aUncontracted {
		if a.bonds[a.LabelIndex(l)].Dir == bond.In {
			ins = append(ins, l)
		} else {
			outs = append(outs, l)
		}
	}
	for _, l := range bUncontracted {
		if b.bonds[b.LabelIndex(l)].Dir == bond.In {
			ins = append(ins, l)
		} else {
			outs = append(outs, l)
		}
	}
	finalLabels := append(append([]int32(nil), ins...), outs...)
	return r0.Permute(finalLabels, len(ins))
}
