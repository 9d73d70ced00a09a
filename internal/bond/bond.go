// Package bond implements the Bond type: an ordered list of (charge,
// multiplicity) states plus a direction, and the canonicalization and
// combination rules the symmetric tensor engine relies on.
package bond

import (
	"fmt"
	"sort"

	"github.com/latticeforge/symten/internal/qnum"
)

// Direction is the IN/OUT role a bond plays in a SymTensor's index list.
type Direction int8

const (
	// In marks an incoming bond (row side of the block layout).
	In Direction = iota
	// Out marks an outgoing bond (column side of the block layout).
	Out
)

// String renders a Direction as uni10 does: "IN" or "OUT".
func (d Direction) String() string {
	if d == In {
		return "IN"
	}
	return "OUT"
}

// State is one (charge, multiplicity) entry of a Bond.
type State struct {
	Q    qnum.Qnum
	Mult int
}

// Bond is an ordered, canonicalized list of (charge, multiplicity)
// states plus a direction.
type Bond struct {
	Dir    Direction
	States []State
}

// New constructs a Bond, canonicalizing the given states.
func New(dir Direction, states []State) Bond {
	return Bond{Dir: dir, States: canonicalize(states)}
}

// canonicalize groups entries with identical Qnum (summing
// multiplicities) and sorts groups by Qnum's total order. Every Bond
// constructor and Combine funnels through this: without it the
// block-charge bookkeeping in SymTensor is not well defined.
func canonicalize(states []State) []State {
	byCharge := make(map[qnum.Qnum]int, len(states))
	order := make([]qnum.Qnum, 0, len(states))
	for _, s := range states {
		if _, seen := byCharge[s.Q]; !seen {
			order = append(order, s.Q)
		}
		byCharge[s.Q] += s.Mult
	}
	sort.Slice(order, func(i, j int) bool { return order[i].Less(order[j]) })
	out := make([]State, len(order))
	for i, q := range order {
		out[i] = State{Q: q, Mult: byCharge[q]}
	}
	return out
}

// Dim returns the bond's dimension: the sum of its state multiplicities.
func (b Bond) Dim() int {
	n := 0
	for _, s := range b.States {
		n += s.Mult
	}
	return n
}

// Reverse returns a copy of b with direction flipped and every charge
// negated; multiplicities are untouched.
func (b Bond) Reverse() Bond {
	states := make([]State, len(b.States))
	for i, s := range b.States {
		states[i] = State{Q: s.Q.Negate(), Mult: s.Mult}
	}
	dir := In
	if b.Dir == In {
		dir = Out
	}
	// Negating every charge can change sort order (e.g. under a non-Z-like
	// order it wouldn't, but canonicalize is cheap and keeps the invariant
	// airtight regardless of the concrete Qnum's Less implementation).
	return New(dir, states)
}

// Equal reports whether two bonds have the same direction and, after
// canonicalization, the same state sequence.
func (b Bond) Equal(other Bond) bool {
	if b.Dir != other.Dir || len(b.States) != len(other.States) {
		return false
	}
	for i := range b.States {
		if !b.States[i].Q.Equal(other.States[i].Q) || b.States[i].Mult != other.States[i].Mult {
			return false
		}
	}
	return true
}

// CompatibleWith reports whether b and other can be contracted:
// opposite direction, and equal state sequences once one side's
// charges are negated.
func (b Bond) CompatibleWith(other Bond) bool {
	if b.Dir == other.Dir {
		return false
	}
	return b.Equal(other.Reverse())
}

// Combine forms the direct product of b and other: charges add
// pairwise, multiplicities multiply, and the result is canonicalized.
// The result's direction is b's direction (the "first listed bond" per
// combineBond's contract).
func (b Bond) Combine(other Bond) Bond {
	states := make([]State, 0, len(b.States)*len(other.States))
	for _, sa := range b.States {
		for _, sb := range other.States {
			q := sa.Q
			if other.Dir != b.Dir {
				// other's charges are expressed in its own direction; to
				// compose additively with b's charges they must be seen
				// from the same direction as b.
				q = q.Add(sb.Q.Negate())
			} else {
				q = q.Add(sb.Q)
			}
			states = append(states, State{Q: q, Mult: sa.Mult * sb.Mult})
		}
	}
	return New(b.Dir, states)
}

// Locate maps a global index in [0, Dim()) to the (stateIndex, subIndex)
// pair it belongs to: States[stateIndex] is the state covering idx, and
// subIndex in [0, States[stateIndex].Mult) is the offset within it.
func (b Bond) Locate(idx int) (stateIndex, subIndex int) {
	for i, s := range b.States {
		if idx < s.Mult {
			return i, idx
		}
		idx -= s.Mult
	}
	panic("bond: Locate index out of range")
}

// GlobalIndex is Locate's inverse: given a state index and an offset
// within that state, returns the corresponding global bond index.
func (b Bond) GlobalIndex(stateIndex, subIndex int) int {
	idx := 0
	for i := 0; i < stateIndex; i++ {
		idx += b.States[i].Mult
	}
	return idx + subIndex
}

// String renders a Bond the way uni10 does, e.g.
// "IN : (U1 = 0, P = 0)|2, (U1 = 1, P = 0)|1, Dim = 3".
func (b Bond) String() string {
	s := b.Dir.String() + " :"
	for i, st := range b.States {
		if i > 0 {
			s += ","
		}
		s += fmt.Sprintf(" %s|%d", st.Q, st.Mult)
	}
	return fmt.Sprintf("%s, Dim = %d", s, b.Dim())
}
