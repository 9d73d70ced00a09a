package cpu

import (
	"math"
	"math/cmplx"
	"testing"
)

func TestSVDRealReconstructsTall(t *testing.T) {
	be := New()
	a := []float64{1, 2, 3, 4, 5, 6} // 3x2
	u, s, vt, err := be.SVDReal(a, 3, 2)
	if err != nil {
		t.Fatalf("SVDReal error: %v", err)
	}
	if len(s) != 2 {
		t.Fatalf("expected 2 singular values, got %d", len(s))
	}
	if s[0] < s[1] {
		t.Fatalf("singular values not descending: %v", s)
	}
	// Reconstruct A = U * diag(S) * Vt.
	got := make([]float64, 6)
	for i := 0; i < 3; i++ {
		for j := 0; j < 2; j++ {
			var sum float64
			for k := 0; k < 2; k++ {
				sum += u[i*2+k] * s[k] * vt[k*2+j]
			}
			got[i*2+j] = sum
		}
	}
	for i := range a {
		if math.Abs(got[i]-a[i]) > 1e-7 {
			t.Fatalf("SVD reconstruction mismatch at %d: got %v want %v (full %v)", i, got[i], a[i], got)
		}
	}
}

func TestSVDRealWideMatrix(t *testing.T) {
	be := New()
	a := []float64{1, 2, 3, 4, 5, 6} // 2x3
	u, s, vt, err := be.SVDReal(a, 2, 3)
	if err != nil {
		t.Fatalf("SVDReal error: %v", err)
	}
	if len(s) != 2 {
		t.Fatalf("expected min(m,n)=2 singular values, got %d", len(s))
	}
	got := make([]float64, 6)
	for i := 0; i < 2; i++ {
		for j := 0; j < 3; j++ {
			var sum float64
			for k := 0; k < 2; k++ {
				sum += u[i*2+k] * s[k] * vt[k*3+j]
			}
			got[i*3+j] = sum
		}
	}
	for i := range a {
		if math.Abs(got[i]-a[i]) > 1e-7 {
			t.Fatalf("SVD wide reconstruction mismatch at %d: got %v want %v", i, got[i], a[i])
		}
	}
}

func TestSVDComplexReconstructs(t *testing.T) {
	be := New()
	a := []complex128{1 + 1i, 0, 2, 3 - 1i, 1, 1 + 2i} // 3x2
	u, s, vt, err := be.SVDComplex(a, 3, 2)
	if err != nil {
		t.Fatalf("SVDComplex error: %v", err)
	}
	got := make([]complex128, 6)
	for i := 0; i < 3; i++ {
		for j := 0; j < 2; j++ {
			var sum complex128
			for k := 0; k < 2; k++ {
				sum += u[i*2+k] * complex(s[k], 0) * vt[k*2+j]
			}
			got[i*2+j] = sum
		}
	}
	for i := range a {
		if cmplx.Abs(got[i]-a[i]) > 1e-6 {
			t.Fatalf("SVDComplex reconstruction mismatch at %d: got %v want %v", i, got[i], a[i])
		}
	}
}

func TestSVDRealEmptyErrors(t *testing.T) {
	be := New()
	if _, _, _, err := be.SVDReal(nil, 0, 0); err == nil {
		t.Fatal("expected error for empty matrix")
	}
}
