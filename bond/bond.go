// Package bond is the public face of symten's Bond type: an ordered,
// canonicalized list of (charge, multiplicity) states plus an IN/OUT
// direction, the unit SymTensor indices are built from.
package bond

import (
	"github.com/latticeforge/symten/internal/bond"
)

// Direction is the IN/OUT role a bond plays in a SymTensor's index list.
type Direction = bond.Direction

const (
	In  Direction = bond.In
	Out Direction = bond.Out
)

// State is one (charge, multiplicity) entry of a Bond.
type State = bond.State

// Bond is an ordered, canonicalized list of (charge, multiplicity)
// states plus a direction.
type Bond = bond.Bond

// New constructs a Bond, canonicalizing the given states.
func New(dir Direction, states []State) Bond { return bond.New(dir, states) }
