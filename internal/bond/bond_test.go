package bond

import (
	"testing"

	"github.com/latticeforge/symten/internal/qnum"
)

func TestCanonicalizeMergesAndSorts(t *testing.T) {
	b := New(In, []State{
		{Q: qnum.New(1), Mult: 2},
		{Q: qnum.New(-1), Mult: 3},
		{Q: qnum.New(1), Mult: 1},
	})
	if len(b.States) != 2 {
		t.Fatalf("expected 2 merged states, got %d", len(b.States))
	}
	if b.States[0].Q.U1 != -1 || b.States[1].Q.U1 != 1 {
		t.Fatalf("states not sorted ascending: %v", b.States)
	}
	if b.States[1].Mult != 3 {
		t.Fatalf("multiplicities not merged: %v", b.States[1])
	}
	if b.Dim() != 6 {
		t.Fatalf("Dim() = %d, want 6", b.Dim())
	}
}

func TestReverseNegatesCharges(t *testing.T) {
	b := New(In, []State{{Q: qnum.New(2), Mult: 1}, {Q: qnum.New(-2), Mult: 1}})
	r := b.Reverse()
	if r.Dir != Out {
		t.Fatalf("Reverse should flip direction")
	}
	found := map[int64]bool{}
	for _, s := range r.States {
		found[s.Q.U1] = true
	}
	if !found[2] || !found[-2] {
		t.Fatalf("Reverse should negate charges, got %v", r.States)
	}
}

func TestCompatibleWith(t *testing.T) {
	in := New(In, []State{{Q: qnum.New(1), Mult: 2}, {Q: qnum.New(-1), Mult: 2}})
	out := in.Reverse()
	if !in.CompatibleWith(out) {
		t.Fatalf("bond should be compatible with its own reversal")
	}
	if in.CompatibleWith(in) {
		t.Fatalf("bond with same direction should not be compatible")
	}
}

func TestLocateAndGlobalIndexRoundTrip(t *testing.T) {
	b := New(In, []State{{Q: qnum.New(-1), Mult: 2}, {Q: qnum.New(1), Mult: 3}})
	for idx := 0; idx < b.Dim(); idx++ {
		si, sub := b.Locate(idx)
		if got := b.GlobalIndex(si, sub); got != idx {
			t.Fatalf("GlobalIndex(Locate(%d)) = %d, want %d", idx, got, idx)
		}
	}
	si, sub := b.Locate(2)
	if si != 1 || sub != 0 {
		t.Fatalf("Locate(2) = (%d, %d), want (1, 0)", si, sub)
	}
}

func TestCombineMultipliesAndAdds(t *testing.T) {
	a := New(In, []State{{Q: qnum.New(1), Mult: 1}})
	b := New(In, []State{{Q: qnum.New(2), Mult: 3}})
	c := a.Combine(b)
	if c.Dir != In {
		t.Fatalf("combine should keep first bond's direction")
	}
	if len(c.States) != 1 || c.States[0].Q.U1 != 3 || c.States[0].Mult != 3 {
		t.Fatalf("unexpected combine result: %v", c.States)
	}
}
