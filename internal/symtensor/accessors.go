package symtensor

import (
	"fmt"

	"github.com/latticeforge/symten/internal/block"
	"github.com/latticeforge/symten/internal/qnum"
)

// GetBlock returns the block stored for charge q, or nil if q is not
// a valid block charge for this tensor's current bond layout.
func (t *SymTensor) GetBlock(q qnum.Qnum) *block.Block {
	return t.blocks[q]
}

// PutBlock replaces the block for charge q. Unless force is set, mat
// must match the existing block's shape exactly.
func (t *SymTensor) PutBlock(q qnum.Qnum, mat *block.Block, force bool) error {
	existing, ok := t.blocks[q]
	if !ok {
		return fmt.Errorf("%w: charge %s is not a valid block charge for this tensor", ErrShapeMismatch, q)
	}
	if !force && (mat.Rows != existing.Rows || mat.Cols != existing.Cols) {
		return fmt.Errorf("%w: putBlock charge %s: existing %dx%d, got %dx%d",
			ErrShapeMismatch, q, existing.Rows, existing.Cols, mat.Rows, mat.Cols)
	}
	t.blocks[q] = mat
	t.status |= HaveElem
	return nil
}

// SetLabel assigns new labels; requires len(newLabels) == bondNum and
// all distinct. Pure metadata change, no data movement.
func (t *SymTensor) SetLabel(newLabels []int32) error {
	if err := validateLabels(newLabels, len(t.bonds)); err != nil {
		return err
	}
	t.labels = append([]int32(nil), newLabels...)
	return nil
}

// LabelIndex returns the bond index carrying the given label, or -1.
func (t *SymTensor) LabelIndex(label int32) int {
	for i, l := range t.labels {
		if l == label {
			return i
		}
	}
	return -1
}
