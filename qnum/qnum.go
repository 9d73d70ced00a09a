// Package qnum is the public face of symten's abelian charge type: a
// U(1) quantum number with an optional Z2 fermionic parity, used to
// label SymTensor bonds and drive block-sparsity and fermionic sign
// tracking.
package qnum

import "github.com/latticeforge/symten/internal/qnum"

// Qnum is an abelian charge: a U(1) component plus a Z2 fermionic parity.
type Qnum = qnum.Qnum

// Zero is the additive identity, the charge of an unentangled vacuum bond.
var Zero = qnum.Zero

// New builds a bosonic (non-fermionic) charge with the given U(1) value.
func New(u1 int64) Qnum { return qnum.New(u1) }

// NewFermionic builds a charge with an explicit fermionic parity,
// normalized to 0 or 1.
func NewFermionic(u1 int64, parity int8) Qnum { return qnum.NewFermionic(u1, parity) }
