package symtensor

import (
	"fmt"

	"github.com/latticeforge/symten/internal/block"
	"github.com/latticeforge/symten/internal/bond"
	"github.com/latticeforge/symten/internal/diagnostics"
	"github.com/latticeforge/symten/internal/kernel"
	"github.com/latticeforge/symten/internal/qnum"
)

// New allocates a SymTensor from a bond list: the first rBondNum
// bonds are IN, the rest OUT. Labels default to 0..len(bonds)-1 when
// nil. The tensor starts HaveBond with every eligible block allocated
// and zero-filled (status transitions to HaveElem once an element is
// written, via SetRawElem or PutBlock).
func New(kern kernel.Kernel, bonds []bond.Bond, rBondNum int, kind block.Kind, labels []int32, name string) (*SymTensor, error) {
	if rBondNum < 0 || rBondNum > len(bonds) {
		return nil, fmt.Errorf("%w: rBondNum %d out of range for %d bonds", ErrLabelError, rBondNum, len(bonds))
	}
	for i, b := range bonds[:rBondNum] {
		if b.Dir != bond.In {
			return nil, fmt.Errorf("%w: bond %d must be IN (rBondNum=%d)", ErrLabelError, i, rBondNum)
		}
	}
	for i, b := range bonds[rBondNum:] {
		if b.Dir != bond.Out {
			return nil, fmt.Errorf("%w: bond %d must be OUT (rBondNum=%d)", ErrLabelError, rBondNum+i, rBondNum)
		}
	}

	if labels == nil {
		labels = make([]int32, len(bonds))
		for i := range labels {
			labels[i] = int32(i)
		}
	}
	if err := validateLabels(labels, len(bonds)); err != nil {
		return nil, err
	}

	t := &SymTensor{
		kern:     kern,
		bonds:    append([]bond.Bond(nil), bonds...),
		labels:   append([]int32(nil), labels...),
		rBondNum: rBondNum,
		kind:     kind,
		name:     name,
		status:   HaveBond,
	}
	t.recomputePartitions()
	t.allocateBlocks()

	diagnostics.TensorCreated(t.NumElements())
	return t, nil
}

func validateLabels(labels []int32, n int) error {
	if len(labels) != n {
		return fmt.Errorf("%w: expected %d labels, got %d", ErrLabelError, n, len(labels))
	}
	seen := make(map[int32]bool, n)
	for _, l := range labels {
		if seen[l] {
			return fmt.Errorf("%w: duplicate label %d", ErrLabelError, l)
		}
		seen[l] = true
	}
	return nil
}

func (t *SymTensor) recomputePartitions() {
	t.rowPart = buildPartition(t.bonds[:t.rBondNum])
	t.colPart = buildPartition(t.bonds[t.rBondNum:])
}

// allocateBlocks (re)allocates t.blocks for every charge present in
// both the row and column partitions, zero-filled, preserving any
// existing block payload whose charge and shape are unchanged.
func (t *SymTensor) allocateBlocks() {
	old := t.blocks
	blocks := make(map[qnum.Qnum]*block.Block)
	for _, q := range t.rowPart.charges() {
		colDim, ok := t.colPart.dimByCharge[q]
		if !ok {
			continue
		}
		rowDim := t.rowPart.dim(q)
		if existing, ok := old[q]; ok && existing.Rows == rowDim && existing.Cols == colDim && existing.Kind == t.kind {
			blocks[q] = existing
			continue
		}
		blocks[q] = block.New(t.kern, rowDim, colDim, t.kind, false)
	}
	t.blocks = blocks
}
