package symtensor

import (
	"sort"

	"github.com/latticeforge/symten/internal/bond"
	"github.com/latticeforge/symten/internal/qnum"
)

func sortQnums(qs []qnum.Qnum) {
	sort.Slice(qs, func(i, j int) bool { return qs[i].Less(qs[j]) })
}

// classEntry describes one contiguous run of rows (or columns) within
// a block: the state index chosen from each bond in the group, the
// run's dimension (product of those states' multiplicities), and its
// starting offset within the charge's block.
type classEntry struct {
	states []int
	dim    int
	offset int
}

// partition groups the row (or column) multi-index space of a bond
// group by block charge. Combinations are enumerated with the first
// bond varying slowest and each bond's own (canonicalized) state order
// preserved, giving a deterministic bijection between (charge, offset)
// and a row/column multi-index.
type partition struct {
	bonds       []bond.Bond
	byCharge    map[qnum.Qnum][]classEntry
	dimByCharge map[qnum.Qnum]int
}

func buildPartition(bonds []bond.Bond) *partition {
	p := &partition{bonds: bonds, byCharge: map[qnum.Qnum][]classEntry{}, dimByCharge: map[qnum.Qnum]int{}}

	if len(bonds) == 0 {
		p.byCharge[qnum.Zero] = []classEntry{{dim: 1, offset: 0}}
		p.dimByCharge[qnum.Zero] = 1
		return p
	}

	var states []int
	var rec func(bi int, q qnum.Qnum, dim int)
	rec = func(bi int, q qnum.Qnum, dim int) {
		if bi == len(bonds) {
			entry := classEntry{states: append([]int(nil), states...), dim: dim}
			entry.offset = p.dimByCharge[q]
			p.dimByCharge[q] += dim
			p.byCharge[q] = append(p.byCharge[q], entry)
			return
		}
		for si, st := range bonds[bi].States {
			states = append(states, si)
			rec(bi+1, q.Add(st.Q), dim*st.Mult)
			states = states[:len(states)-1]
		}
	}
	rec(0, qnum.Zero, 1)

	return p
}

// dim returns the total row/column dimension for charge q (0 if absent).
func (p *partition) dim(q qnum.Qnum) int { return p.dimByCharge[q] }

// charges returns the partition's charges in ascending order.
func (p *partition) charges() []qnum.Qnum {
	out := make([]qnum.Qnum, 0, len(p.dimByCharge))
	for q := range p.dimByCharge {
		out = append(out, q)
	}
	sortQnums(out)
	return out
}

// locate converts a per-bond raw index array (one index per bond in
// the group, each in [0, bond.Dim())) into (charge, offset) within
// that charge's block.
func (p *partition) locate(raw []int) (qnum.Qnum, int) {
	q := qnum.Zero
	states := make([]int, len(p.bonds))
	subs := make([]int, len(p.bonds))
	for i, b := range p.bonds {
		si, sub := b.Locate(raw[i])
		states[i] = si
		subs[i] = sub
		q = q.Add(b.States[si].Q)
	}
	for _, entry := range p.byCharge[q] {
		if intsEqual(entry.states, states) {
			offset := entry.offset
			stride := 1
			for i := len(p.bonds) - 1; i >= 0; i-- {
				mult := p.bonds[i].States[states[i]].Mult
				offset += subs[i] * stride
				stride *= mult
			}
			return q, offset
		}
	}
	panic("symtensor: locate: no matching class (bug in partition construction)")
}

// unlocate is locate's inverse: given a charge and an offset within
// that charge's block, recovers the per-bond raw index array.
func (p *partition) unlocate(q qnum.Qnum, offset int) []int {
	for _, entry := range p.byCharge[q] {
		if offset >= entry.offset && offset < entry.offset+entry.dim {
			local := offset - entry.offset
			raw := make([]int, len(p.bonds))
			// Unravel local in mixed radix, least-significant bond last.
			muls := make([]int, len(p.bonds))
			for i, b := range p.bonds {
				muls[i] = b.States[entry.states[i]].Mult
			}
			for i := len(p.bonds) - 1; i >= 0; i-- {
				sub := local % muls[i]
				local /= muls[i]
				raw[i] = p.bonds[i].GlobalIndex(entry.states[i], sub)
			}
			return raw
		}
	}
	panic("symtensor: unlocate: offset out of range for charge")
}

func intsEqual(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
