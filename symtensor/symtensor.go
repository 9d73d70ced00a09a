// Package symtensor is the public face of symten's symmetric tensor
// engine: SymTensor, the block-diagonal data model that maps a dense
// multi-index tensor onto per-charge dense blocks, and the
// index-manipulation algorithms (Permute, Contract, PartialTrace,
// CombineBond, Transpose, HOSVD, AddGate) that preserve that layout.
package symtensor

import (
	"io"

	"github.com/latticeforge/symten/internal/block"
	"github.com/latticeforge/symten/internal/bond"
	"github.com/latticeforge/symten/internal/config"
	"github.com/latticeforge/symten/internal/kernel"
	"github.com/latticeforge/symten/internal/kernel/cpu"
	"github.com/latticeforge/symten/internal/kernel/webgpu"
	internal "github.com/latticeforge/symten/internal/symtensor"
)

// SymTensor is a tensor whose elements decompose into a direct sum of
// dense blocks indexed by conserved charge.
type SymTensor = internal.SymTensor

// Kind is the tensor's scalar kind.
type Kind = block.Kind

const (
	Real    Kind = block.Real
	Complex Kind = block.Complex
)

// Status is the HAVEBOND/HAVEELEM lifecycle bitfield.
type Status = internal.Status

const (
	HaveBond Status = internal.HaveBond
	HaveElem Status = internal.HaveElem
)

// HOSVDResult is the output of HOSVD: the reduced core plus one
// factor (and, optionally, singular value spectrum) per contracted mode.
type HOSVDResult = internal.HOSVDResult

// Sentinel errors, by meaning per the error-kind table.
var (
	ErrBondMismatch       = internal.ErrBondMismatch
	ErrShapeMismatch      = internal.ErrShapeMismatch
	ErrLabelError         = internal.ErrLabelError
	ErrSymmetryViolation  = internal.ErrSymmetryViolation
	ErrScalarKindMismatch = internal.ErrScalarKindMismatch
)

// resolveKernel picks the kernel.Kernel backend named by cfg,
// defaulting to the CPU kernel whenever WebGPU device negotiation
// fails, so callers who did not explicitly ask for GPU acceleration
// never see a hardware-availability error from a plain New call.
func resolveKernel(cfg *config.Config) kernel.Kernel {
	if cfg.KernelName == config.WebGPU {
		if gpu, err := webgpu.New(); err == nil {
			return gpu
		}
	}
	return cpu.New()
}

// New allocates a SymTensor from a bond list: the first rBondNum
// bonds are IN, the rest OUT. cfg selects the compute kernel; nil
// selects config.Default().
func New(bonds []bond.Bond, rBondNum int, kind Kind, labels []int32, name string, cfg *config.Config) (*SymTensor, error) {
	cfg = config.OrDefault(cfg)
	return internal.New(resolveKernel(cfg), bonds, rBondNum, kind, labels, name)
}

// NewWithKernel allocates a SymTensor against an explicit kernel,
// bypassing config-driven backend selection (e.g. for tests that want
// a specific kernel regardless of the ambient configuration).
func NewWithKernel(kern kernel.Kernel, bonds []bond.Bond, rBondNum int, kind Kind, labels []int32, name string) (*SymTensor, error) {
	return internal.New(kern, bonds, rBondNum, kind, labels, name)
}

// Contract eliminates the labels shared by a and b via block-wise
// matrix multiplication.
func Contract(a, b *SymTensor, fast bool) (*SymTensor, error) { return internal.Contract(a, b, fast) }

// ExSwap returns every label pair whose relative order inverted
// between oldLabels and newLabels, the fermionic swap-gate trigger set.
func ExSwap(oldLabels, newLabels []int32) [][2]int32 { return internal.ExSwap(oldLabels, newLabels) }

// Load reads a SymTensor previously written by (*SymTensor).Save.
// cfg selects the compute kernel for the reconstructed tensor; nil
// selects config.Default().
func Load(r io.Reader, cfg *config.Config) (*SymTensor, error) {
	cfg = config.OrDefault(cfg)
	return internal.Load(r, resolveKernel(cfg))
}

// Profile forwards to the process-wide diagnostics summary.
func Profile() string { return internal.Profile() }
