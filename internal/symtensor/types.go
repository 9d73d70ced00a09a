// Package symtensor implements the symmetric tensor engine: the
// block-diagonal data model that maps a dense multi-index tensor onto
// per-charge dense Blocks, and the index-manipulation algorithms
// (permute, contract, partialTrace, combineBond, transpose, hosvd)
// that preserve that layout while moving elements.
package symtensor

import (
	"github.com/latticeforge/symten/internal/block"
	"github.com/latticeforge/symten/internal/bond"
	"github.com/latticeforge/symten/internal/diagnostics"
	"github.com/latticeforge/symten/internal/kernel"
	"github.com/latticeforge/symten/internal/qnum"
)

// Status is the HAVEBOND/HAVEELEM lifecycle bitfield.
type Status uint8

// Lifecycle bits, set as a SymTensor moves from bond-list to having
// assigned elements.
const (
	HaveBond Status = 1 << iota
	HaveElem
)

// SymTensor is a tensor whose elements decompose into a direct sum of
// dense Blocks indexed by conserved charge. The first RBondNum bonds
// are IN (row side); the rest are OUT (column side).
type SymTensor struct {
	kern kernel.Kernel

	bonds    []bond.Bond
	labels   []int32
	rBondNum int
	kind     block.Kind
	name     string
	status   Status

	blocks map[qnum.Qnum]*block.Block

	rowPart *partition
	colPart *partition

	instanceID string
}

// Kern returns the tensor's kernel collaborator, for packages (hosvd,
// network) that need to allocate further blocks with the same backend.
func (t *SymTensor) Kern() kernel.Kernel { return t.kern }

// Bonds returns the tensor's bond list, IN bonds first.
func (t *SymTensor) Bonds() []bond.Bond { return t.bonds }

// Labels returns the tensor's per-bond labels.
func (t *SymTensor) Labels() []int32 { return t.labels }

// RBondNum returns the number of IN (row-side) bonds.
func (t *SymTensor) RBondNum() int { return t.rBondNum }

// Kind returns the tensor's scalar kind (real or complex).
func (t *SymTensor) Kind() block.Kind { return t.kind }

// Status returns the lifecycle bitfield.
func (t *SymTensor) Status() Status { return t.status }

// Name returns the tensor's diagnostic name.
func (t *SymTensor) Name() string { return t.name }

// SetName sets the tensor's diagnostic name.
func (t *SymTensor) SetName(name string) { t.name = name }

// NumElements returns the total number of stored scalars across all blocks.
func (t *SymTensor) NumElements() int64 {
	var n int64
	for _, b := range t.blocks {
		if b.Diag {
			m := b.Rows
			if b.Cols < m {
				m = b.Cols
			}
			n += int64(m)
		} else {
			n += int64(b.Rows) * int64(b.Cols)
		}
	}
	return n
}

// Destroy releases the tensor's blocks and removes it from the
// process-wide diagnostic accounting. Per the ownership model a
// SymTensor exclusively owns its Block buffers, so nothing else need
// be released.
func (t *SymTensor) Destroy() {
	if t.blocks == nil {
		return
	}
	diagnostics.TensorDestroyed(t.NumElements())
	t.blocks = nil
}

// Charges returns the tensor's block charges in ascending order.
func (t *SymTensor) Charges() []qnum.Qnum {
	out := make([]qnum.Qnum, 0, len(t.blocks))
	for q := range t.blocks {
		out = append(out, q)
	}
	sortQnums(out)
	return out
}
