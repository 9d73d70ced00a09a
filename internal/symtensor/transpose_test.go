package symtensor

import (
	"testing"

	"github.com/latticeforge/symten/internal/block"
	"github.com/latticeforge/symten/internal/bond"
	"github.com/latticeforge/symten/internal/kernel/cpu"
)

func TestTransposeTwiceIsIdentity(t *testing.T) {
	k := cpu.New()
	bonds := []bond.Bond{trivialBond(bond.In, 2), trivialBond(bond.In, 3), trivialBond(bond.Out, 4), trivialBond(bond.Out, 5)}
	ten, err := New(k, bonds, 2, block.Real, []int32{10, 11, 12, 13}, "t")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	dense := make([]float64, 2*3*4*5)
	for i := range dense {
		dense[i] = float64(i) * 0.5
	}
	if err := ten.SetRawElem(dense, true); err != nil {
		t.Fatalf("SetRawElem: %v", err)
	}

	once, err := ten.Transpose()
	if err != nil {
		t.Fatalf("Transpose: %v", err)
	}
	wantOnceLabels := []int32{12, 13, 10, 11}
	if !int32SliceEqual(once.Labels(), wantOnceLabels) {
		t.Fatalf("Transpose() labels = %v, want %v", once.Labels(), wantOnceLabels)
	}
	if once.RBondNum() != 2 {
		t.Fatalf("Transpose() rBondNum = %d, want 2", once.RBondNum())
	}

	twice, err := once.Transpose()
	if err != nil {
		t.Fatalf("Transpose (second): %v", err)
	}
	if !int32SliceEqual(twice.Labels(), ten.Labels()) {
		t.Fatalf("Transpose∘Transpose labels = %v, want %v", twice.Labels(), ten.Labels())
	}
	if twice.RBondNum() != ten.RBondNum() {
		t.Fatalf("Transpose∘Transpose rBondNum = %d, want %d", twice.RBondNum(), ten.RBondNum())
	}
	got := twice.RawElem()
	for i := range dense {
		if got[i] != dense[i] {
			t.Fatalf("Transpose∘Transpose RawElem()[%d] = %v, want %v", i, got[i], dense[i])
		}
	}
}

func int32SliceEqual(a, b []int32) bool {
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
