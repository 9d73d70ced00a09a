package symtensor

import (
	"math"
	"testing"

	"github.com/latticeforge/symten/internal/block"
	"github.com/latticeforge/symten/internal/bond"
	"github.com/latticeforge/symten/internal/kernel/cpu"
)

// TestPartialTraceMatchesMatrixTrace traces a rank-2 tensor down to a
// scalar and checks it against the sum of the matrix diagonal.
func TestPartialTraceMatchesMatrixTrace(t *testing.T) {
	k := cpu.New()
	dim := 4
	m := buildMatrix(t, k, dim, dim, []int32{0, 1}, func(i, j int) float64 { return float64(i*dim + j + 1) })

	traced, err := m.PartialTrace(0, 1)
	if err != nil {
		t.Fatalf("PartialTrace: %v", err)
	}
	if len(traced.Labels()) != 0 {
		t.Fatalf("expected a scalar result, got labels %v", traced.Labels())
	}
	want := 0.0
	for i := 0; i < dim; i++ {
		want += m.RawElem()[i*dim+i]
	}
	got := traced.RawElem()[0]
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("PartialTrace = %v, want %v", got, want)
	}
}

// TestPartialTraceOnRank4LeavesUncontractedBonds traces one pair of
// bonds on a rank-4 tensor and checks the surviving rank and labels.
func TestPartialTraceOnRank4LeavesUncontractedBonds(t *testing.T) {
	k := cpu.New()
	bonds := []bond.Bond{
		trivialBond(bond.In, 2), trivialBond(bond.In, 3),
		trivialBond(bond.Out, 2), trivialBond(bond.Out, 4),
	}
	ten, err := New(k, bonds, 2, block.Real, []int32{0, 1, 2, 3}, "t")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	dense := make([]float64, 2*3*2*4)
	for i := range dense {
		dense[i] = float64(i)
	}
	if err := ten.SetRawElem(dense, true); err != nil {
		t.Fatalf("SetRawElem: %v", err)
	}

	traced, err := ten.PartialTrace(0, 2)
	if err != nil {
		t.Fatalf("PartialTrace: %v", err)
	}
	if got, want := traced.Labels(), []int32{1, 3}; len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("labels = %v, want %v", got, want)
	}
	if got, want := len(traced.RawElem()), 3*4; got != want {
		t.Fatalf("element count = %d, want %d", got, want)
	}
}

func TestPartialTraceRejectsUnknownLabel(t *testing.T) {
	k := cpu.New()
	m := buildMatrix(t, k, 2, 2, []int32{0, 1}, func(i, j int) float64 { return 0 })
	if _, err := m.PartialTrace(0, 99); err == nil {
		t.Fatal("expected an error for an unknown label")
	}
}
