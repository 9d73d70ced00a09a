// Package diagnostics tracks process-wide SymTensor accounting —
// outstanding instance count, live element count, and their peaks —
// and renders the five-line profile() summary the core spec calls
// for. Counters are updated atomically per spec §5's instruction to
// make shared mutable state safe under concurrent use even though the
// core API itself is single-threaded per instance.
package diagnostics

import (
	"fmt"
	"sync/atomic"
)

var (
	counter      atomic.Int64 // outstanding SymTensor instances
	elemNum      atomic.Int64 // live elements across all instances
	maxElemNum   atomic.Int64 // peak live elements across all instances
	maxElemTen   atomic.Int64 // peak elements held by a single instance
)

// TensorCreated records a new SymTensor with numElem elements.
func TensorCreated(numElem int64) {
	counter.Add(1)
	total := elemNum.Add(numElem)
	bumpMax(&maxElemNum, total)
	bumpMax(&maxElemTen, numElem)
}

// TensorDestroyed records a SymTensor's destruction, releasing its
// elements from the live count.
func TensorDestroyed(numElem int64) {
	counter.Add(-1)
	elemNum.Add(-numElem)
}

// TensorResized adjusts the live element count for an existing
// instance whose element count changed (e.g. after permute or
// combineBond), bumping peak-per-tensor if applicable.
func TensorResized(delta int64, newTotal int64) {
	elemNum.Add(delta)
	bumpMax(&maxElemNum, elemNum.Load())
	bumpMax(&maxElemTen, newTotal)
}

func bumpMax(slot *atomic.Int64, v int64) {
	for {
		cur := slot.Load()
		if v <= cur {
			return
		}
		if slot.CompareAndSwap(cur, v) {
			return
		}
	}
}

// Snapshot is a point-in-time read of the process-wide counters.
type Snapshot struct {
	Counter    int64
	ElemNum    int64
	MaxElemNum int64
	MaxElemTen int64
}

// Read returns the current counter values.
func Read() Snapshot {
	return Snapshot{
		Counter:    counter.Load(),
		ElemNum:    elemNum.Load(),
		MaxElemNum: maxElemNum.Load(),
		MaxElemTen: maxElemTen.Load(),
	}
}

// Profile renders the standard five-line diagnostic summary.
func Profile() string {
	s := Read()
	return fmt.Sprintf(
		"SUMMARY\n"+
			"Existing Tensors: %d\n"+
			"Total Elements:   %d\n"+
			"Peak Total Elements: %d\n"+
			"Peak Elements of One Tensor: %d\n",
		s.Counter, s.ElemNum, s.MaxElemNum, s.MaxElemTen,
	)
}

// reset is test-only: it zeroes every counter so tests don't leak
// state into one another via the shared process-wide globals.
func reset() {
	counter.Store(0)
	elemNum.Store(0)
	maxElemNum.Store(0)
	maxElemTen.Store(0)
}
