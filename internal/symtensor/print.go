package symtensor

import (
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"

	"github.com/latticeforge/symten/internal/block"
	"github.com/latticeforge/symten/internal/diagnostics"
)

// InstanceID returns t's process-unique diagnostic tag, generating
// one on first use. Distinct SymTensor values sharing a name (e.g.
// after Permute, which copies t.name into its result) are still
// distinguishable in profile/diagram output via this id.
func (t *SymTensor) InstanceID() string {
	if t.instanceID == "" {
		t.instanceID = uuid.NewString()
	}
	return t.instanceID
}

// PrintDiagram renders a plain-text summary: a name and instance id
// line, a kind and status line, then one line per bond with its label
// and its direction, states and dimension. Format stability is not
// guaranteed.
func (t *SymTensor) PrintDiagram() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s [%s]\n", t.name, t.InstanceID())
	fmt.Fprintf(&b, "kind=%s status=%#x\n", t.kind, t.status)
	for i, bd := range t.bonds {
		fmt.Fprintf(&b, "  label %d: %s\n", t.labels[i], bd)
	}
	return b.String()
}

// PrintRawElem renders the tensor's dense reconstruction (RawElem /
// RawElemComplex) as one line per row for a rank-2 tensor, or a flat
// listing otherwise. Format stability is not guaranteed.
func (t *SymTensor) PrintRawElem() string {
	var b strings.Builder
	if t.kind == block.Real {
		vals := t.RawElem()
		writeRawElemLines(&b, t.dims(), func(i int) string { return fmt.Sprintf("%g", vals[i]) })
	} else {
		vals := t.RawElemComplex()
		writeRawElemLines(&b, t.dims(), func(i int) string { return fmt.Sprintf("%g", vals[i]) })
	}
	return b.String()
}

func writeRawElemLines(b *strings.Builder, dims []int, at func(int) string) {
	if len(dims) != 2 {
		total := 1
		for _, d := range dims {
			total *= d
		}
		for i := 0; i < total; i++ {
			fmt.Fprintf(b, "%s ", at(i))
		}
		fmt.Fprintln(b)
		return
	}
	rows, cols := dims[0], dims[1]
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			fmt.Fprintf(b, "%s ", at(r*cols+c))
		}
		fmt.Fprintln(b)
	}
}

// Profile forwards to the process-wide diagnostics summary.
func Profile() string { return diagnostics.Profile() }

// At returns the real element at the given full multi-index (one
// entry per bond, row bonds first), via the same charge-bijection
// RawElem uses, without materializing the whole dense tensor.
func (t *SymTensor) At(idx ...int) (float64, error) {
	if len(idx) != len(t.bonds) {
		return 0, fmt.Errorf("%w: At: expected %d indices, got %d", ErrLabelError, len(t.bonds), len(idx))
	}
	qRow, rOff := t.rowPart.locate(idx[:t.rBondNum])
	qCol, cOff := t.colPart.locate(idx[t.rBondNum:])
	if !qRow.Equal(qCol) {
		return 0, nil
	}
	b, ok := t.blocks[qRow]
	if !ok {
		return 0, nil
	}
	return b.At(rOff, cOff), nil
}

// Similar reports whether t and other share the same bond signature
// (direction and charge/multiplicity sequence, in order) ignoring
// labels and names — the equality Network.ReplaceWith uses unless
// force is set.
func (t *SymTensor) Similar(other *SymTensor) bool {
	if len(t.bonds) != len(other.bonds) || t.rBondNum != other.rBondNum {
		return false
	}
	for i := range t.bonds {
		if !t.bonds[i].Equal(other.bonds[i]) {
			return false
		}
	}
	return true
}

// Norm returns the tensor's Frobenius norm across all blocks.
func (t *SymTensor) Norm() float64 {
	sum := 0.0
	for _, b := range t.blocks {
		n := b.Norm()
		sum += n * n
	}
	return math.Sqrt(sum)
}

// MaxNorm returns the maximum element magnitude across all blocks
// (alias for AbsMax, matching the spec's supplement wording).
func (t *SymTensor) MaxNorm() float64 { return t.AbsMax() }

// AbsMax returns the maximum element magnitude across all blocks.
func (t *SymTensor) AbsMax() float64 {
	max := 0.0
	for _, b := range t.blocks {
		if n := b.MaxNorm(); n > max {
			max = n
		}
	}
	return max
}
