package symtensor

import (
	"fmt"

	"github.com/latticeforge/symten/internal/block"
	"github.com/latticeforge/symten/internal/bond"
	"github.com/latticeforge/symten/internal/qnum"
)

// CombineBond replaces the bonds named by labels, in the listed order,
// with a single bond formed by their direct product (Bond.Combine),
// carrying the first listed bond's direction. The named labels need
// not be contiguous or already adjacent: an implicit Permute brings
// them together first. The combined bond keeps the first label as its
// own label; the other named labels are removed.
func (t *SymTensor) CombineBond(labels []int32) (*SymTensor, error) {
	if len(labels) < 2 {
		return nil, fmt.Errorf("%w: combineBond requires at least 2 labels, got %d", ErrLabelError, len(labels))
	}
	for _, l := range labels {
		if t.LabelIndex(l) < 0 {
			return nil, fmt.Errorf("%w: combineBond: unknown label %d", ErrLabelError, l)
		}
	}

	groupSet := make(map[int32]bool, len(labels))
	for _, l := range labels {
		groupSet[l] = true
	}
	insertAt := len(t.labels)
	for i, l := range t.labels {
		if groupSet[l] {
			insertAt = i
			break
		}
	}

	var newLabels []int32
	inserted := false
	for i, l := range t.labels {
		if groupSet[l] {
			if i == insertAt {
				newLabels = append(newLabels, labels...)
				inserted = true
			}
			continue
		}
		newLabels = append(newLabels, l)
	}
	if !inserted {
		newLabels = append(newLabels, labels...)
	}

	newInCount := 0
	for _, l := range newLabels {
		if l == labels[0] {
			break
		}
		if t.bonds[t.LabelIndex(l)].Dir == bond.In {
			newInCount++
		}
	}
	firstDir := t.bonds[t.LabelIndex(labels[0])].Dir
	if firstDir == bond.In {
		newInCount += len(labels)
	}

	// Permute forces every position in [0, newInCount) to IN and the
	// rest to OUT, so after this call every bond in the group shares
	// firstDir regardless of its original direction.
	perm, err := t.Permute(newLabels, newInCount)
	if err != nil {
		return nil, fmt.Errorf("combineBond: %w", err)
	}

	groupStart := perm.LabelIndex(labels[0])
	groupBonds := append([]bond.Bond(nil), perm.bonds[groupStart:groupStart+len(labels)]...)
	combined := groupBonds[0]
	for i := 1; i < len(groupBonds); i++ {
		combined = combined.Combine(groupBonds[i])
	}

	resultBonds := append(append(append([]bond.Bond(nil), perm.bonds[:groupStart]...), combined), perm.bonds[groupStart+len(labels):]...)
	resultLabels := append(append(append([]int32(nil), perm.labels[:groupStart]...), labels[0]), perm.labels[groupStart+len(labels):]...)
	resultInCount := perm.rBondNum
	if firstDir == bond.In {
		resultInCount -= len(labels) - 1
	}

	result, err := New(perm.kern, resultBonds, resultInCount, perm.kind, resultLabels, perm.name)
	if err != nil {
		return nil, fmt.Errorf("combineBond: allocating result: %w", err)
	}

	for q, b := range perm.blocks {
		for r := 0; r < b.Rows; r++ {
			rowRaw := perm.rowPart.unlocate(q, r)
			for c := 0; c < b.Cols; c++ {
				colRaw := perm.colPart.unlocate(q, c)
				full := append(append([]int(nil), rowRaw...), colRaw...)
				groupRaw := full[groupStart : groupStart+len(labels)]
				combinedIdx := combineRawIndex(groupBonds, groupRaw)

				newFull := append(append(append([]int(nil), full[:groupStart]...), combinedIdx), full[groupStart+len(labels):]...)

				qR, rOff := result.rowPart.locate(newFull[:resultInCount])
				qC, cOff := result.colPart.locate(newFull[resultInCount:])
				if !qR.Equal(qC) {
					continue
				}
				dst, ok := result.blocks[qR]
				if !ok {
					continue
				}
				if perm.kind == block.Real {
					dst.DataReal()[rOff*dst.Cols+cOff] = b.At(r, c)
				} else {
					dst.DataComplex()[rOff*dst.Cols+cOff] = b.AtComplex(r, c)
				}
			}
		}
	}
	result.status |= perm.status & HaveElem
	return result, nil
}

// combineRawIndex walks the same pairwise Combine chain CombineBond
// builds (left fold, same-direction group so charges always add
// without negation) and returns the final combined bond's global
// index for the given per-bond raw index tuple. At each step the pair
// (running combined bond so far, next bond) is re-partitioned with
// buildPartition, which enumerates states in the same first-operand-
// outer, second-operand-inner nested order Bond.Combine itself uses,
// so the (charge, offset) it reports for any two-bond step matches
// what that step of Combine assigns.
func combineRawIndex(bonds []bond.Bond, raw []int) int {
	prevBond := bonds[0]
	prevIdx := raw[0]
	for i := 1; i < len(bonds); i++ {
		pair := buildPartition([]bond.Bond{prevBond, bonds[i]})
		q, off := pair.locate([]int{prevIdx, raw[i]})
		next := prevBond.Combine(bonds[i])
		prevIdx = stateGlobalIndex(next, q, off)
		prevBond = next
	}
	return prevIdx
}

func stateGlobalIndex(b bond.Bond, q qnum.Qnum, offsetInCharge int) int {
	for si, st := range b.States {
		if st.Q.Equal(q) {
			return b.GlobalIndex(si, offsetInCharge)
		}
	}
	panic("symtensor: combineBond: no matching state after Combine (bug in Bond.Combine)")
}
