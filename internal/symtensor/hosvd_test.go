package symtensor

import (
	"math"
	"math/rand"
	"testing"

	"github.com/latticeforge/symten/internal/block"
	"github.com/latticeforge/symten/internal/bond"
	"github.com/latticeforge/symten/internal/kernel/cpu"
)

// TestHOSVDOfRank3TensorProducesOrthonormalFactors covers scenario S5:
// a 4x4x4 real random tensor with mode_count=3, fixed_count=0 (so each
// mode's k=1) decomposes into a 4x4x4 core and three 4x4 factors whose
// columns are orthonormal.
func TestHOSVDOfRank3TensorProducesOrthonormalFactors(t *testing.T) {
	k := cpu.New()
	dim := 4
	bonds := []bond.Bond{trivialBond(bond.In, dim), trivialBond(bond.In, dim), trivialBond(bond.Out, dim)}
	ten, err := New(k, bonds, 2, block.Real, []int32{0, 1, 2}, "t")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	rng := rand.New(rand.NewSource(7))
	dense := make([]float64, dim*dim*dim)
	for i := range dense {
		dense[i] = rng.Float64()*2 - 1
	}
	if err := ten.SetRawElem(dense, true); err != nil {
		t.Fatalf("SetRawElem: %v", err)
	}

	result, err := ten.HOSVD(3, 1, 0, false)
	if err != nil {
		t.Fatalf("HOSVD: %v", err)
	}
	if got, want := len(result.Factors), 3; got != want {
		t.Fatalf("factor count = %d, want %d", got, want)
	}
	if got, want := len(result.Core.Labels()), 3; got != want {
		t.Fatalf("core rank = %d, want %d", got, want)
	}

	for fi, factor := range result.Factors {
		bonds := factor.Bonds()
		if len(bonds) != 2 {
			t.Fatalf("factor %d has %d bonds, want 2", fi, len(bonds))
		}
		rows, cols := bonds[0].Dim(), bonds[1].Dim()
		if rows != dim {
			t.Fatalf("factor %d row dim = %d, want %d", fi, rows, dim)
		}
		flat := factor.RawElem()
		for c1 := 0; c1 < cols; c1++ {
			for c2 := 0; c2 < cols; c2++ {
				dot := 0.0
				for r := 0; r < rows; r++ {
					dot += flat[r*cols+c1] * flat[r*cols+c2]
				}
				want := 0.0
				if c1 == c2 {
					want = 1.0
				}
				if math.Abs(dot-want) > 1e-9 {
					t.Fatalf("factor %d columns %d,%d dot = %v, want %v", fi, c1, c2, dot, want)
				}
			}
		}
	}
}

func TestHOSVDRejectsMismatchedBondCount(t *testing.T) {
	k := cpu.New()
	m := buildMatrix(t, k, 4, 4, []int32{0, 1}, func(i, j int) float64 { return 0 })
	if _, err := m.HOSVD(3, 1, 0, false); err == nil {
		t.Fatal("expected an error when modeCount*k+fixedCount does not match bond count")
	}
}
