package webgpu

import (
	"math"
	"testing"

	"github.com/latticeforge/symten/internal/kernel"
)

func newOrSkip(t *testing.T) *Backend {
	t.Helper()
	b, err := New()
	if err != nil {
		t.Skipf("webgpu not available on this system: %v", err)
	}
	return b
}

func TestNameNonEmpty(t *testing.T) {
	b := newOrSkip(t)
	defer b.Release()
	if b.Name() == "" {
		t.Error("Name() returned empty string")
	}
}

func TestMatMulRealKnown(t *testing.T) {
	b := newOrSkip(t)
	defer b.Release()

	a := []float64{1, 2, 3, 4}
	bm := []float64{5, 6, 7, 8}
	got := b.MatMulReal(a, bm, 2, 2, 2)
	want := []float64{19, 22, 43, 50}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-3 {
			t.Fatalf("MatMulReal = %v, want %v", got, want)
		}
	}
}

func TestMatMulComplexKnown(t *testing.T) {
	b := newOrSkip(t)
	defer b.Release()

	a := []complex128{1 + 1i, 0, 0, 1 - 1i}
	bm := []complex128{2, 0, 0, 3}
	got := b.MatMulComplex(a, bm, 2, 2, 2)
	want := []complex128{2 + 2i, 0, 0, 3 - 3i}
	for i := range want {
		d := got[i] - want[i]
		if real(d)*real(d)+imag(d)*imag(d) > 1e-3 {
			t.Fatalf("MatMulComplex = %v, want %v", got, want)
		}
	}
}

func TestFactorizationsUnsupported(t *testing.T) {
	b := newOrSkip(t)
	defer b.Release()

	if _, _, _, err := b.SVDReal([]float64{1}, 1, 1); err != kernel.ErrUnsupportedOnGPU {
		t.Errorf("SVDReal error = %v, want ErrUnsupportedOnGPU", err)
	}
	if _, _, err := b.QRReal([]float64{1}, 1, 1); err != kernel.ErrUnsupportedOnGPU {
		t.Errorf("QRReal error = %v, want ErrUnsupportedOnGPU", err)
	}
}

func TestFillOrthonormalDelegatesToCPU(t *testing.T) {
	b := newOrSkip(t)
	defer b.Release()

	dst := make([]float64, 4)
	if err := b.FillOrthonormalReal(dst, 2, 2, 1); err != nil {
		t.Fatalf("FillOrthonormalReal: %v", err)
	}
	dot := dst[0]*dst[2] + dst[1]*dst[3]
	if math.Abs(dot) > 1e-7 {
		t.Errorf("rows not orthogonal: dot = %v", dot)
	}
}
