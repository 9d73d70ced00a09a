// Package network implements the contraction planner: Node (leaf and
// internal tree nodes) and Network (the UNLOADED/LOADED lifecycle that
// builds a contraction tree greedily and executes it via symtensor.Contract).
package network

import "errors"

var (
	// ErrUnboundTensor: launch() called before every leaf is bound.
	ErrUnboundTensor = errors.New("network: unbound tensor")
	// ErrInvalidNetwork: unmatched labels or a malformed spec file.
	ErrInvalidNetwork = errors.New("network: invalid network")
	// ErrShapeMismatch: replaceWith given a tensor whose bond signature
	// differs from the existing leaf's, without force.
	ErrShapeMismatch = errors.New("network: shape mismatch")
)
