package symtensor

import (
	"testing"

	"github.com/latticeforge/symten/internal/block"
	"github.com/latticeforge/symten/internal/bond"
	"github.com/latticeforge/symten/internal/kernel/cpu"
)

// TestCombineBondPreservesElementCount checks that combining two
// trivial-charge OUT bonds into one keeps the total RawElem element
// count and leaves two labels.
func TestCombineBondPreservesElementCount(t *testing.T) {
	k := cpu.New()
	bonds := []bond.Bond{trivialBond(bond.In, 2), trivialBond(bond.Out, 3), trivialBond(bond.Out, 2)}
	ten, err := New(k, bonds, 1, block.Real, []int32{0, 1, 2}, "t")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	dense := make([]float64, 2*3*2)
	for i := range dense {
		dense[i] = float64(i)
	}
	if err := ten.SetRawElem(dense, true); err != nil {
		t.Fatalf("SetRawElem: %v", err)
	}

	combined, err := ten.CombineBond([]int32{1, 2})
	if err != nil {
		t.Fatalf("CombineBond: %v", err)
	}
	if got, want := len(combined.RawElem()), len(dense); got != want {
		t.Fatalf("element count = %d, want %d", got, want)
	}
	if got, want := len(combined.Labels()), 2; got != want {
		t.Fatalf("label count = %d, want %d", got, want)
	}
}

// TestCombineBondOfThreeBondsMatchesPairwiseFold exercises the
// three-or-more-bond case, where a naive flat partition over the whole
// group would disagree with Bond.Combine's own pairwise fold.
func TestCombineBondOfThreeBondsMatchesPairwiseFold(t *testing.T) {
	k := cpu.New()
	bonds := []bond.Bond{
		trivialBond(bond.In, 2),
		trivialBond(bond.Out, 2),
		trivialBond(bond.Out, 3),
		trivialBond(bond.Out, 2),
	}
	ten, err := New(k, bonds, 1, block.Real, []int32{0, 1, 2, 3}, "t")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	dense := make([]float64, 2*2*3*2)
	for i := range dense {
		dense[i] = float64(i + 1)
	}
	if err := ten.SetRawElem(dense, true); err != nil {
		t.Fatalf("SetRawElem: %v", err)
	}

	combined, err := ten.CombineBond([]int32{1, 2, 3})
	if err != nil {
		t.Fatalf("CombineBond: %v", err)
	}
	wantDim := 2 * 3 * 2
	if got := combined.Bonds()[1].Dim(); got != wantDim {
		t.Fatalf("combined bond dim = %d, want %d", got, wantDim)
	}
	if got, want := len(combined.RawElem()), len(dense); got != want {
		t.Fatalf("element count = %d, want %d", got, want)
	}
	// Every original value must still be present exactly once.
	seen := make(map[float64]int, len(dense))
	for _, v := range combined.RawElem() {
		seen[v]++
	}
	for _, v := range dense {
		if seen[v] != 1 {
			t.Fatalf("value %v appears %d times after CombineBond, want 1", v, seen[v])
		}
	}
}

func TestCombineBondRejectsFewerThanTwoLabels(t *testing.T) {
	k := cpu.New()
	m := buildMatrix(t, k, 2, 2, []int32{0, 1}, func(i, j int) float64 { return 0 })
	if _, err := m.CombineBond([]int32{0}); err == nil {
		t.Fatal("expected an error for a single-label group")
	}
}
