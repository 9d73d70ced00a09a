package cpu

import "testing"

func TestName(t *testing.T) {
	b := New()
	if b.Name() != "cpu" {
		t.Errorf("Name() = %q, want %q", b.Name(), "cpu")
	}
}
