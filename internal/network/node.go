package network

import (
	"github.com/latticeforge/symten/internal/bond"
	"github.com/latticeforge/symten/internal/symtensor"
)

// node is one vertex of a contraction tree: a leaf bound to (or
// awaiting) a real tensor, or an internal node representing the
// pending contraction of its two children.
type node struct {
	leafIndex int // -1 for internal nodes; position among Network's original tensor list otherwise

	tensor *symtensor.SymTensor // bound leaf payload, nil until replaceWith/bind
	name   string
	labels []int32
	bonds  []bond.Bond // known once the leaf is bound; always nil for an internal node

	left, right *node
	point       float64 // metric() score of the merge that produced this node

	swaps [][2]int32 // recSwap-computed gate list, applied to a copy of the leaf's tensor each time it is contracted
	swapped bool
}

func newLeaf(idx int, name string, labels []int32) *node {
	return &node{leafIndex: idx, name: name, labels: append([]int32(nil), labels...)}
}

func (n *node) isLeaf() bool { return n.left == nil && n.right == nil }

// elemNum estimates the node's storage size: a bound leaf reports its
// tensor's stored element count (NumElements), a node with bonds but
// no tensor the product of its bond dimensions, and any other node 1 —
// the neutral element for the metric's product-based estimate, so an
// unbound network still produces a deterministic merge order. Internal
// nodes carry no bonds, so they always report 1, whether or not their
// children are bound.
func (n *node) elemNum() int64 {
	if n.tensor != nil {
		return n.tensor.NumElements()
	}
	if len(n.bonds) == 0 {
		return 1
	}
	total := int64(1)
	for _, b := range n.bonds {
		total *= int64(b.Dim())
	}
	return total
}

// labelSet returns n's label set as a lookup map.
func (n *node) labelSet() map[int32]bool {
	set := make(map[int32]bool, len(n.labels))
	for _, l := range n.labels {
		set[l] = true
	}
	return set
}

// sharedLabels returns the labels common to n and other.
func sharedLabels(n, other *node) []int32 {
	os := other.labelSet()
	var out []int32
	for _, l := range n.labels {
		if os[l] {
			out = append(out, l)
		}
	}
	return out
}

// metric scores merging n with other: the extra intermediate storage
// the merge would cost, elemNum(merged) - max(elemNum(n), elemNum(other)).
// Lower is better; a merge that doesn't grow storage beyond the
// larger operand scores 0 or negative.
func (n *node) metric(other *node) float64 {
	merged := symmetricDifference(n.labels, other.labels)
	mergedElem := estimateElemNum(n, other, merged)
	selfElem, otherElem := n.elemNum(), other.elemNum()
	maxElem := selfElem
	if otherElem > maxElem {
		maxElem = otherElem
	}
	return float64(mergedElem - maxElem)
}

// symmetricDifference returns the labels appearing in exactly one of
// a, b — the merged node's external label list — preserving a's
// order first, then b's.
func symmetricDifference(a, b []int32) []int32 {
	bs := make(map[int32]bool, len(b))
	for _, l := range b {
		bs[l] = true
	}
	as := make(map[int32]bool, len(a))
	for _, l := range a {
		as[l] = true
	}
	var out []int32
	for _, l := range a {
		if !bs[l] {
			out = append(out, l)
		}
	}
	for _, l := range b {
		if !as[l] {
			out = append(out, l)
		}
	}
	return out
}

// estimateElemNum estimates the size of the merged node's result from
// whichever operand carries a known bond for each surviving label,
// falling back to 1 per unknown label (see node.elemNum).
func estimateElemNum(a, b *node, merged []int32) int64 {
	dims := make(map[int32]int, len(merged))
	fill := func(n *node) {
		for i, l := range n.labels {
			if i < len(n.bonds) {
				dims[l] = n.bonds[i].Dim()
			}
		}
	}
	fill(a)
	fill(b)
	total := int64(1)
	for _, l := range merged {
		if d, ok := dims[l]; ok {
			total *= int64(d)
		}
	}
	return total
}

// contract produces the internal node representing n and other's
// pending contraction: its label list is the symmetric difference of
// the two label sets, and its point is n.metric(other).
func (n *node) contract(other *node) *node {
	merged := symmetricDifference(n.labels, other.labels)
	return &node{
		leafIndex: -1,
		labels:    merged,
		left:      n,
		right:     other,
		point:     n.metric(other),
	}
}
