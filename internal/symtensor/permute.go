package symtensor

import (
	"fmt"

	"github.com/latticeforge/symten/internal/block"
	"github.com/latticeforge/symten/internal/bond"
)

// remapBondIndex converts a raw index into oldBond's dimension to the
// corresponding raw index into newBond's dimension, where newBond is
// either oldBond itself (flip == false) or oldBond.Reverse() (flip ==
// true). A flip negates every state's charge, which can reorder
// States after canonicalization, so the mapping is found by matching
// charge value rather than assuming position is preserved.
func remapBondIndex(oldBond, newBond bond.Bond, idx int, flip bool) int {
	if !flip {
		return idx
	}
	si, sub := oldBond.Locate(idx)
	target := oldBond.States[si].Q.Negate()
	for ni, st := range newBond.States {
		if st.Q.Equal(target) {
			return newBond.GlobalIndex(ni, sub)
		}
	}
	panic("symtensor: permute: no matching state after bond flip (bug in Bond.Reverse)")
}

// Permute reorders and re-splits the tensor's bonds to match
// newLabels (a permutation of the tensor's current labels) and
// newInCount new IN bonds. Every element moves to the position its
// permuted multi-index maps to; a bond whose row/col group changes has
// its charges negated via Bond.Reverse so charge conservation still
// holds for the moved element.
func (t *SymTensor) Permute(newLabels []int32, newInCount int) (*SymTensor, error) {
	if len(newLabels) != len(t.bonds) {
		return nil, fmt.Errorf("%w: permute expects %d labels, got %d", ErrLabelError, len(t.bonds), len(newLabels))
	}
	if newInCount < 0 || newInCount > len(t.bonds) {
		return nil, fmt.Errorf("%w: newInCount %d out of range", ErrLabelError, newInCount)
	}
	if err := validateLabels(newLabels, len(t.bonds)); err != nil {
		return nil, err
	}

	mapping := make([]int, len(newLabels))
	for i, l := range newLabels {
		j := t.LabelIndex(l)
		if j < 0 {
			return nil, fmt.Errorf("%w: unknown label %d in permute", ErrLabelError, l)
		}
		mapping[i] = j
	}

	newBonds := make([]bond.Bond, len(newLabels))
	flip := make([]bool, len(newLabels))
	for i, j := range mapping {
		old := t.bonds[j]
		newDir := bond.In
		if i >= newInCount {
			newDir = bond.Out
		}
		if old.Dir != newDir {
			newBonds[i] = old.Reverse()
			flip[i] = true
		} else {
			newBonds[i] = old
		}
	}

	result, err := New(t.kern, newBonds, newInCount, t.kind, newLabels, t.name)
	if err != nil {
		return nil, err
	}

	rawIdx := make([]int, len(t.bonds))
	newIdx := make([]int, len(t.bonds))
	for q, b := range t.blocks {
		for r := 0; r < b.Rows; r++ {
			rowRaw := t.rowPart.unlocate(q, r)
			copy(rawIdx[:t.rBondNum], rowRaw)
			for c := 0; c < b.Cols; c++ {
				colRaw := t.colPart.unlocate(q, c)
				copy(rawIdx[t.rBondNum:], colRaw)

				for i, j := range mapping {
					newIdx[i] = remapBondIndex(t.bonds[j], newBonds[i], rawIdx[j], flip[i])
				}
				qNewRow, rOff := result.rowPart.locate(newIdx[:newInCount])
				qNewCol, cOff := result.colPart.locate(newIdx[newInCount:])
				if !qNewRow.Equal(qNewCol) {
					continue
				}
				dst := result.blocks[qNewRow]
				if t.kind == block.Real {
					dst.DataReal()[rOff*dst.Cols+cOff] = b.At(r, c)
				} else {
					dst.DataComplex()[rOff*dst.Cols+cOff] = b.AtComplex(r, c)
				}
			}
		}
	}
	result.status |= t.status & HaveElem
	return result, nil
}
