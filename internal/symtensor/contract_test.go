package symtensor

import (
	"testing"

	"github.com/latticeforge/symten/internal/block"
	"github.com/latticeforge/symten/internal/bond"
	"github.com/latticeforge/symten/internal/kernel/cpu"
)

// buildMatrix constructs a rank-2 trivial-charge tensor representing a
// dense (rows x cols) matrix: bond 0 IN (rows), bond 1 OUT (cols).
func buildMatrix(t *testing.T, k *cpu.Backend, rows, cols int, labels []int32, vals func(i, j int) float64) *SymTensor {
	t.Helper()
	bonds := []bond.Bond{trivialBond(bond.In, rows), trivialBond(bond.Out, cols)}
	ten, err := New(k, bonds, 1, block.Real, labels, "m")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	dense := make([]float64, rows*cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			dense[i*cols+j] = vals(i, j)
		}
	}
	if err := ten.SetRawElem(dense, true); err != nil {
		t.Fatalf("SetRawElem: %v", err)
	}
	return ten
}

func TestContractMatchesMatrixMultiply(t *testing.T) {
	k := cpu.New()
	a := buildMatrix(t, k, 3, 4, []int32{100, 101}, func(i, j int) float64 { return float64(i*4 + j + 1) })
	b := buildMatrix(t, k, 4, 5, []int32{101, 102}, func(i, j int) float64 { return float64(i*5 + j + 1) })

	want := make([][]float64, 3)
	for i := 0; i < 3; i++ {
		want[i] = make([]float64, 5)
		for j := 0; j < 5; j++ {
			var sum float64
			for m := 0; m < 4; m++ {
				sum += a.RawElem()[i*4+m] * b.RawElem()[m*5+j]
			}
			want[i][j] = sum
		}
	}

	for _, fast := range []bool{true, false} {
		c, err := Contract(a, b, fast)
		if err != nil {
			t.Fatalf("Contract(fast=%v): %v", fast, err)
		}
		if c.RBondNum() != 1 || len(c.Labels()) != 2 {
			t.Fatalf("Contract(fast=%v) shape = rBondNum %d, labels %v", fast, c.RBondNum(), c.Labels())
		}
		got := c.RawElem()
		for i := 0; i < 3; i++ {
			for j := 0; j < 5; j++ {
				if got[i*5+j] != want[i][j] {
					t.Errorf("Contract(fast=%v)[%d,%d] = %v, want %v", fast, i, j, got[i*5+j], want[i][j])
				}
			}
		}
	}
}

func TestContractRejectsIncompatibleBonds(t *testing.T) {
	k := cpu.New()
	a := buildMatrix(t, k, 2, 3, []int32{0, 1}, func(i, j int) float64 { return 0 })
	bonds := []bond.Bond{trivialBond(bond.In, 4), trivialBond(bond.Out, 2)}
	bTen, err := New(k, bonds, 1, block.Real, []int32{1, 2}, "b")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := Contract(a, bTen, true); err == nil {
		t.Fatal("expected ErrBondMismatch for shared bonds of different dimension")
	}
}

func TestContractU1ChargeConservation(t *testing.T) {
	k := cpu.New()
	aBonds := []bond.Bond{u1Bond(bond.In, []int64{0, 1}), u1Bond(bond.Out, []int64{0, 1})}
	a, err := New(k, aBonds, 1, block.Real, []int32{0, 1}, "a")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	for _, q := range a.Charges() {
		blk := a.GetBlock(q)
		for i := 0; i < blk.Rows; i++ {
			for j := 0; j < blk.Cols; j++ {
				blk.DataReal()[i*blk.Cols+j] = 1
			}
		}
	}

	bBonds := []bond.Bond{aBonds[1].Reverse(), u1Bond(bond.Out, []int64{0, 1})}
	b, err := New(k, bBonds, 1, block.Real, []int32{1, 2}, "b")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	for _, q := range b.Charges() {
		blk := b.GetBlock(q)
		for i := 0; i < blk.Rows; i++ {
			for j := 0; j < blk.Cols; j++ {
				blk.DataReal()[i*blk.Cols+j] = 1
			}
		}
	}

	c, err := Contract(a, b, true)
	if err != nil {
		t.Fatalf("Contract: %v", err)
	}
	for _, q := range c.Charges() {
		blk := c.GetBlock(q)
		if blk.Rows == 0 || blk.Cols == 0 {
			t.Errorf("charge %s has a degenerate block %dx%d", q, blk.Rows, blk.Cols)
		}
	}
}
