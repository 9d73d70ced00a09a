package network

import (
	"fmt"
	"sort"

	"github.com/latticeforge/symten/internal/kernel"
	"github.com/latticeforge/symten/internal/symtensor"
)

// Status is the Network lifecycle state.
type Status int

const (
	Unloaded Status = iota
	Loaded
)

// LabelPattern names one network entry's IN and OUT label lists,
// before any tensor is bound to it.
type LabelPattern struct {
	Name string
	In   []int32
	Out  []int32
}

func (p LabelPattern) labels() []int32 {
	return append(append([]int32(nil), p.In...), p.Out...)
}

// TOut is the distinguished output spec: the desired label order and
// IN/OUT split of a Network's launch() result.
type TOut struct {
	In  []int32
	Out []int32
}

// Network holds a contraction plan: a fixed list of named tensor
// slots (leaves) with their label patterns, an optional TOut output
// spec, and — once Construct has run — a cached greedily-built
// contraction tree that launch() executes and replaceWith rebinds.
type Network struct {
	kern    kernel.Kernel
	names   []string
	leaves  []*node
	tout    *TOut
	roots   []*node // cached forest after Construct (single root unless disjoint pieces remain pre-outer-product)
	state   Status
	result  *symtensor.SymTensor
	swapsGen bool
}

// New creates a Network from a list of label patterns and an optional
// TOut spec. It starts UNLOADED; call Construct to build the
// contraction tree.
func New(kern kernel.Kernel, patterns []LabelPattern, tout *TOut) (*Network, error) {
	if len(patterns) == 0 {
		return nil, fmt.Errorf("%w: network requires at least one tensor", ErrInvalidNetwork)
	}
	if err := validateLabelPairing(patterns, tout); err != nil {
		return nil, err
	}
	net := &Network{kern: kern, tout: tout}
	for i, p := range patterns {
		net.names = append(net.names, p.Name)
		net.leaves = append(net.leaves, newLeaf(i, p.Name, p.labels()))
	}
	return net, nil
}

// validateLabelPairing checks that every label appears exactly twice
// across all patterns, or once among a non-TOUT pattern and once in
// TOut's own label list.
func validateLabelPairing(patterns []LabelPattern, tout *TOut) error {
	count := map[int32]int{}
	for _, p := range patterns {
		for _, l := range p.labels() {
			count[l]++
		}
	}
	toutSet := map[int32]bool{}
	if tout != nil {
		for _, l := range append(append([]int32(nil), tout.In...), tout.Out...) {
			toutSet[l] = true
		}
	}
	for l, n := range count {
		switch {
		case n == 2:
		case n == 1 && toutSet[l]:
		default:
			return fmt.Errorf("%w: label %d appears %d time(s) and is not resolved by TOUT", ErrInvalidNetwork, l, n)
		}
	}
	if tout != nil {
		for l := range toutSet {
			if count[l] != 1 {
				return fmt.Errorf("%w: TOUT label %d must appear exactly once among the input patterns", ErrInvalidNetwork, l)
			}
		}
	}
	return nil
}

// ReplaceWith rebinds leaf idx to tensor. Unless force is set, the
// tensor's bond signature (ignoring labels) must match the existing
// leaf's bound tensor, if any.
func (net *Network) ReplaceWith(idx int, tensor *symtensor.SymTensor, force bool) error {
	if idx < 0 || idx >= len(net.leaves) {
		return fmt.Errorf("%w: replaceWith: leaf index %d out of range", ErrInvalidNetwork, idx)
	}
	leaf := net.leaves[idx]
	if !force && leaf.tensor != nil && !leaf.tensor.Similar(tensor) {
		return fmt.Errorf("%w: replaceWith: leaf %d bond signature differs from bound tensor", ErrShapeMismatch, idx)
	}
	if len(tensor.Labels()) != len(leaf.labels) {
		return fmt.Errorf("%w: replaceWith: leaf %d expects %d labels, tensor has %d", ErrInvalidNetwork, idx, len(leaf.labels), len(tensor.Labels()))
	}
	relabeled, err := relabelToPattern(tensor, leaf.labels)
	if err != nil {
		return fmt.Errorf("replaceWith: %w", err)
	}
	leaf.tensor = relabeled
	leaf.bonds = relabeled.Bonds()
	net.result = nil
	return nil
}

// relabelToPattern returns a copy of t with SetLabel applied so its
// bond order/labels match the leaf's own pattern order (IN bonds
// then OUT bonds); the tensor's own IN/OUT split must already match
// the pattern's IN/OUT counts.
func relabelToPattern(t *symtensor.SymTensor, patternLabels []int32) (*symtensor.SymTensor, error) {
	clone := t.Clone()
	if err := clone.SetLabel(patternLabels); err != nil {
		return nil, err
	}
	return clone, nil
}

// Construct builds (or reuses, if already built and structurally
// unchanged) the greedy contraction tree: pairwise-merge the current
// forest of roots by lowest node.metric, ties broken by lower combined
// elemNum then earlier leaf index, until no two roots share a label;
// any remaining disjoint roots are then combined by outer product in
// original order.
func (net *Network) Construct() error {
	if net.roots != nil {
		net.state = Loaded
		return nil
	}
	roots := make([]*node, len(net.leaves))
	copy(roots, net.leaves)

	for {
		bi, bj, found := bestPair(roots)
		if !found {
			break
		}
		merged := roots[bi].contract(roots[bj])
		roots = removeMerge(roots, bi, bj, merged)
	}

	// Disjoint trees: combine by outer product, left to right, in
	// original order (removeMerge appends merged roots at the end, so
	// roots are first sorted by their smallest leaf index).
	sort.Slice(roots, func(i, j int) bool { return minLeafIndex(roots[i]) < minLeafIndex(roots[j]) })
	for len(roots) > 1 {
		merged := roots[0].contract(roots[1])
		roots = removeMerge(roots, 0, 1, merged)
	}

	net.roots = roots
	net.state = Loaded
	net.swapsGen = false
	return nil
}

// bestPair finds the pair of roots sharing at least one label with
// the lowest metric, breaking ties by lower combined elemNum then by
// earlier leaf index (using the smallest leafIndex reachable under
// each root as its tie-break identity).
func bestPair(roots []*node) (int, int, bool) {
	bi, bj := -1, -1
	var bestMetric, bestElem float64
	bestTie := int(1<<31 - 1)
	for i := 0; i < len(roots); i++ {
		for j := i + 1; j < len(roots); j++ {
			if len(sharedLabels(roots[i], roots[j])) == 0 {
				continue
			}
			m := roots[i].metric(roots[j])
			elem := float64(roots[i].elemNum() + roots[j].elemNum())
			tie := minLeafIndex(roots[i])
			if t2 := minLeafIndex(roots[j]); t2 < tie {
				tie = t2
			}
			if bi == -1 || m < bestMetric ||
				(m == bestMetric && elem < bestElem) ||
				(m == bestMetric && elem == bestElem && tie < bestTie) {
				bi, bj, bestMetric, bestElem, bestTie = i, j, m, elem, tie
			}
		}
	}
	return bi, bj, bi != -1
}

func minLeafIndex(n *node) int {
	if n.isLeaf() {
		return n.leafIndex
	}
	l, r := minLeafIndex(n.left), minLeafIndex(n.right)
	if l < r {
		return l
	}
	return r
}

func removeMerge(roots []*node, i, j int, merged *node) []*node {
	out := make([]*node, 0, len(roots)-1)
	for k, r := range roots {
		if k != i && k != j {
			out = append(out, r)
		}
	}
	return append(out, merged)
}

// Destruct releases the cached tree and any produced result, moving
// the Network back to UNLOADED. Bound leaf tensors are left in place.
func (net *Network) Destruct() {
	net.roots = nil
	net.result = nil
	net.state = Unloaded
	net.swapsGen = false
	for _, l := range net.leaves {
		l.swaps = nil
		l.swapped = false
	}
}

// Launch executes the cached contraction tree postorder, applying
// each leaf's recSwap-computed fermionic swap gates to a copy of that
// leaf's tensor on every launch (the bound tensor itself is left
// unchanged, so repeated launches give the same result), and permutes the final result to the TOut spec if one was given.
func (net *Network) Launch() (*symtensor.SymTensor, error) {
	if net.roots == nil {
		if err := net.Construct(); err != nil {
			return nil, err
		}
	}
	if len(net.roots) != 1 {
		return nil, fmt.Errorf("%w: launch: network did not reduce to a single root", ErrInvalidNetwork)
	}
	for _, l := range net.leaves {
		if l.tensor == nil {
			return nil, fmt.Errorf("%w: leaf %q is not bound", ErrUnboundTensor, l.name)
		}
	}
	if !net.swapsGen {
		recSwap(net.roots[0])
		net.swapsGen = true
	}

	result, err := launchNode(net.roots[0])
	if err != nil {
		return nil, err
	}

	if net.tout != nil {
		finalLabels := append(append([]int32(nil), net.tout.In...), net.tout.Out...)
		result, err = result.Permute(finalLabels, len(net.tout.In))
		if err != nil {
			return nil, fmt.Errorf("launch: applying TOUT: %w", err)
		}
	}
	net.result = result
	return result, nil
}

func launchNode(n *node) (*symtensor.SymTensor, error) {
	if n.isLeaf() {
		t := n.tensor
		if len(n.swaps) > 0 {
			swapped, err := t.AddGate(n.swaps)
			if err != nil {
				return nil, fmt.Errorf("launch: leaf %q: %w", n.name, err)
			}
			t = swapped
		}
		return t, nil
	}
	left, err := launchNode(n.left)
	if err != nil {
		return nil, err
	}
	right, err := launchNode(n.right)
	if err != nil {
		return nil, err
	}
	return symtensor.Contract(left, right, false)
}

// recSwap walks the tree postorder, and for every leaf that will be
// contracted, accumulates the swap gates needed against every leaf
// already contracted on the opposite side of its nearest shared
// ancestor — computed once via ExSwap over each leaf pair's label
// crossing, per the design's resolution of the exSwap open question.
// Idempotent: it clears any previously accumulated list first.
func recSwap(root *node) {
	leafOrder := postorderLeaves(root)
	for i, li := range leafOrder {
		li.swaps = nil
		li.swapped = false
		for j := 0; j < i; j++ {
			lj := leafOrder[j]
			if crossings := symtensor.ExSwap(lj.labels, li.labels); len(crossings) > 0 {
				li.swaps = append(li.swaps, crossings...)
			}
		}
	}
}

func postorderLeaves(n *node) []*node {
	if n.isLeaf() {
		return []*node{n}
	}
	var out []*node
	out = append(out, postorderLeaves(n.left)...)
	out = append(out, postorderLeaves(n.right)...)
	return out
}

// Names returns the network's tensor names in original order.
func (net *Network) Names() []string { return append([]string(nil), net.names...) }

// State returns the Network's current lifecycle state.
func (net *Network) State() Status { return net.state }
