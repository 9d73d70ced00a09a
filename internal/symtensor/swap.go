package symtensor

import (
	"fmt"

	"github.com/latticeforge/symten/internal/block"
	"github.com/latticeforge/symten/internal/bond"
	"github.com/latticeforge/symten/internal/qnum"
)

// ExSwap resolves the Open Question of exactly when a fermionic swap
// gate fires: given a tensor's label order before and after some
// reordering (e.g. the newLabels passed to Permute), it returns every
// label pair whose relative order inverted between the two — an
// index-line crossing in the string diagram sense — with each pair
// listed in its oldLabels order, in the order the pairs are found
// walking newLabels. This matches the
// standard 1D fermionic MPS convention that a transposition of two
// legs picks up a sign only where both legs carry odd (fermionic)
// parity, and only for pairs that actually cross, not merely coexist.
func ExSwap(oldLabels, newLabels []int32) [][2]int32 {
	pos := make(map[int32]int, len(oldLabels))
	for i, l := range oldLabels {
		pos[l] = i
	}
	var crossings [][2]int32
	for i := 0; i < len(newLabels); i++ {
		for j := i + 1; j < len(newLabels); j++ {
			a, b := newLabels[i], newLabels[j]
			if pos[a] > pos[b] {
				crossings = append(crossings, [2]int32{b, a})
			}
		}
	}
	return crossings
}

// AddGate applies a sequence of swap gates to t: for each labeled pair
// (la, lb), every element whose la-th and lb-th bond raw index both
// land on a fermionic (odd-parity) state has its sign flipped.
// Composition is implicitly XOR — applying the same pair twice is the
// identity, since flipping a sign twice restores it.
func (t *SymTensor) AddGate(swaps [][2]int32) (*SymTensor, error) {
	out := t.Clone()
	for _, sw := range swaps {
		la, lb := sw[0], sw[1]
		ia, ib := out.LabelIndex(la), out.LabelIndex(lb)
		if ia < 0 || ib < 0 {
			return nil, fmt.Errorf("%w: addGate: label %d or %d not found", ErrLabelError, la, lb)
		}
		if err := out.applyGate(ia, ib); err != nil {
			return nil, fmt.Errorf("addGate: %w", err)
		}
	}
	return out, nil
}

// Clone returns a deep copy of t (blocks copied, not shared), so
// callers like AddGate and Network.ReplaceWith can mutate the copy
// without affecting the original.
func (t *SymTensor) Clone() *SymTensor {
	out := &SymTensor{
		kern:     t.kern,
		bonds:    append([]bond.Bond(nil), t.bonds...),
		labels:   append([]int32(nil), t.labels...),
		rBondNum: t.rBondNum,
		kind:     t.kind,
		name:     t.name,
		status:   t.status,
		rowPart:  t.rowPart,
		colPart:  t.colPart,
	}
	out.blocks = make(map[qnum.Qnum]*block.Block, len(t.blocks))
	for q, b := range t.blocks {
		out.blocks[q] = b.Clone()
	}
	return out
}

// applyGate flips the sign of every element of t whose ia-th and
// ib-th bond raw index both land on a fermionic state.
func (t *SymTensor) applyGate(ia, ib int) error {
	for q, b := range t.blocks {
		if b.Diag {
			return fmt.Errorf("symtensor: addGate does not support diagonal blocks")
		}
		for r := 0; r < b.Rows; r++ {
			rowRaw := t.rowPart.unlocate(q, r)
			for c := 0; c < b.Cols; c++ {
				colRaw := t.colPart.unlocate(q, c)
				full := append(append([]int(nil), rowRaw...), colRaw...)
				if !isFermionicIndex(t.bonds[ia], full[ia]) {
					continue
				}
				if !isFermionicIndex(t.bonds[ib], full[ib]) {
					continue
				}
				if t.kind == block.Real {
					b.DataReal()[r*b.Cols+c] *= -1
				} else {
					b.DataComplex()[r*b.Cols+c] *= -1
				}
			}
		}
	}
	return nil
}

func isFermionicIndex(b bond.Bond, raw int) bool {
	si, _ := b.Locate(raw)
	return b.States[si].Q.IsFermionic()
}
