package cpu

import (
	"math"
	"testing"
)

func TestMatMulRealIdentity(t *testing.T) {
	b := New()
	a := []float64{1, 2, 3, 4, 5, 6} // 2x3
	id := []float64{1, 0, 0, 0, 1, 0, 0, 0, 1}
	c := b.MatMulReal(a, id, 2, 3, 3)
	for i, v := range a {
		if math.Abs(c[i]-v) > 1e-12 {
			t.Fatalf("MatMulReal identity mismatch at %d: got %v want %v", i, c[i], v)
		}
	}
}

func TestMatMulRealKnown(t *testing.T) {
	b := New()
	a := []float64{1, 2, 3, 4} // 2x2
	bm := []float64{5, 6, 7, 8}
	got := b.MatMulReal(a, bm, 2, 2, 2)
	want := []float64{19, 22, 43, 50}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-9 {
			t.Fatalf("MatMulReal = %v, want %v", got, want)
		}
	}
}

func TestMatMulComplexKnown(t *testing.T) {
	b := New()
	a := []complex128{1 + 1i, 0, 0, 1 - 1i} // 2x2 diag
	bm := []complex128{2, 0, 0, 3}
	got := b.MatMulComplex(a, bm, 2, 2, 2)
	want := []complex128{2 + 2i, 0, 0, 3 - 3i}
	for i := range want {
		if d := got[i] - want[i]; real(d)*real(d)+imag(d)*imag(d) > 1e-18 {
			t.Fatalf("MatMulComplex = %v, want %v", got, want)
		}
	}
}
