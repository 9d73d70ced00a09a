package symtensor

import (
	"math"
	"testing"

	"github.com/latticeforge/symten/internal/block"
	"github.com/latticeforge/symten/internal/bond"
	"github.com/latticeforge/symten/internal/kernel/cpu"
	"github.com/latticeforge/symten/internal/qnum"
)

func fermionicBond(dir bond.Direction, parities []int8) bond.Bond {
	states := make([]bond.State, len(parities))
	for i, p := range parities {
		states[i] = bond.State{Q: qnum.NewFermionic(0, p), Mult: 1}
	}
	return bond.New(dir, states)
}

func TestExSwapDetectsInversions(t *testing.T) {
	old := []int32{0, 1, 2, 3}
	swaps := ExSwap(old, []int32{1, 0, 3, 2})
	want := map[[2]int32]bool{{0, 1}: true, {2, 3}: true}
	if len(swaps) != len(want) {
		t.Fatalf("ExSwap = %v, want %d crossings", swaps, len(want))
	}
	for _, s := range swaps {
		if !want[s] {
			t.Fatalf("unexpected crossing %v", s)
		}
	}
}

func TestExSwapIsEmptyForIdenticalOrder(t *testing.T) {
	old := []int32{0, 1, 2}
	if got := ExSwap(old, []int32{0, 1, 2}); len(got) != 0 {
		t.Fatalf("ExSwap = %v, want no crossings", got)
	}
}

// TestAddGateAppliedTwiceIsIdentity covers invariant 10: applying the
// same fermionic swap gate twice restores the original tensor.
func TestAddGateAppliedTwiceIsIdentity(t *testing.T) {
	k := cpu.New()
	bonds := []bond.Bond{fermionicBond(bond.In, []int8{0, 1}), fermionicBond(bond.Out, []int8{0, 1})}
	ten, err := New(k, bonds, 1, block.Real, []int32{0, 1}, "t")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	// Only the two diagonal entries (matching row/col parity) conserve
	// charge; off-diagonal entries must be zero under strict checking.
	dense := []float64{1, 0, 0, 4}
	if err := ten.SetRawElem(dense, true); err != nil {
		t.Fatalf("SetRawElem: %v", err)
	}

	once, err := ten.AddGate([][2]int32{{0, 1}})
	if err != nil {
		t.Fatalf("AddGate: %v", err)
	}
	twice, err := once.AddGate([][2]int32{{0, 1}})
	if err != nil {
		t.Fatalf("AddGate: %v", err)
	}

	orig, restored := ten.RawElem(), twice.RawElem()
	for i := range orig {
		if math.Abs(orig[i]-restored[i]) > 1e-12 {
			t.Fatalf("element %d: got %v after double swap, want %v", i, restored[i], orig[i])
		}
	}
}

// TestAddGateFlipsOnlyFermionicPairs checks that the sign only flips
// where both indexed states are fermionic (Parity=1).
func TestAddGateFlipsOnlyFermionicPairs(t *testing.T) {
	k := cpu.New()
	bonds := []bond.Bond{fermionicBond(bond.In, []int8{0, 1}), fermionicBond(bond.Out, []int8{0, 1})}
	ten, err := New(k, bonds, 1, block.Real, []int32{0, 1}, "t")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	dense := []float64{1, 0, 0, 4} // row-major 2x2 diagonal: [0,0]=1 (parity 0) [1,1]=4 (parity 1)
	if err := ten.SetRawElem(dense, true); err != nil {
		t.Fatalf("SetRawElem: %v", err)
	}

	gated, err := ten.AddGate([][2]int32{{0, 1}})
	if err != nil {
		t.Fatalf("AddGate: %v", err)
	}
	got := gated.RawElem()
	// Only (row=1,col=1) has both indices fermionic (parity 1).
	want := []float64{1, 0, 0, -4}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-12 {
			t.Fatalf("element %d = %v, want %v", i, got[i], want[i])
		}
	}
}
