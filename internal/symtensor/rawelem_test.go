package symtensor

import (
	"testing"

	"github.com/latticeforge/symten/internal/block"
	"github.com/latticeforge/symten/internal/bond"
	"github.com/latticeforge/symten/internal/kernel/cpu"
)

func TestSetRawElemRoundTrip(t *testing.T) {
	k := cpu.New()
	bonds := []bond.Bond{trivialBond(bond.In, 2), trivialBond(bond.In, 3), trivialBond(bond.Out, 4)}
	ten, err := New(k, bonds, 2, block.Real, nil, "t")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	dense := make([]float64, 2*3*4)
	for i := range dense {
		dense[i] = float64(i)
	}
	if err := ten.SetRawElem(dense, true); err != nil {
		t.Fatalf("SetRawElem: %v", err)
	}
	got := ten.RawElem()
	for i := range dense {
		if got[i] != dense[i] {
			t.Fatalf("RawElem()[%d] = %v, want %v", i, got[i], dense[i])
		}
	}
}

func TestSetRawElemStrictRejectsForbiddenNonzero(t *testing.T) {
	k := cpu.New()
	bonds := []bond.Bond{u1Bond(bond.In, []int64{0}), u1Bond(bond.Out, []int64{1})}
	ten, err := New(k, bonds, 1, block.Real, nil, "t")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	dense := []float64{5}
	if err := ten.SetRawElem(dense, true); err == nil {
		t.Fatal("expected ErrSymmetryViolation for a nonzero element at a charge-forbidden index")
	}
	if err := ten.SetRawElem(dense, false); err != nil {
		t.Fatalf("non-strict SetRawElem should silently drop the element: %v", err)
	}
}
