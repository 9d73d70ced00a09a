package symtensor

import "errors"

// Sentinel errors, named by meaning per the error-kind table: wrap
// these with fmt.Errorf("...: %w", ...) to attach context, and compare
// with errors.Is at call sites.
var (
	// ErrBondMismatch: incompatible bonds in contraction or partial trace.
	ErrBondMismatch = errors.New("symtensor: bond mismatch")
	// ErrShapeMismatch: wrong-size block passed to PutBlock without force.
	ErrShapeMismatch = errors.New("symtensor: shape mismatch")
	// ErrLabelError: duplicate labels, wrong label count, or unknown label.
	ErrLabelError = errors.New("symtensor: label error")
	// ErrSymmetryViolation: non-zero element at a charge-forbidden position.
	ErrSymmetryViolation = errors.New("symtensor: symmetry violation")
	// ErrScalarKindMismatch: real/complex mixed where not permitted.
	ErrScalarKindMismatch = errors.New("symtensor: scalar kind mismatch")
)
