// Package network is the public face of symten's contraction planner:
// build a Network from named tensor slots and their label patterns
// (or parse one from the text network-file format), bind real
// SymTensor values to its leaves, and Launch it to execute the
// greedily-planned contraction tree.
package network

import (
	"io"

	"github.com/latticeforge/symten/internal/config"
	"github.com/latticeforge/symten/internal/kernel"
	"github.com/latticeforge/symten/internal/kernel/cpu"
	"github.com/latticeforge/symten/internal/kernel/webgpu"
	internal "github.com/latticeforge/symten/internal/network"
	"github.com/latticeforge/symten/internal/symtensor"
)

// Network holds a contraction plan: a fixed list of named tensor
// slots with their label patterns, an optional TOut output spec, and
// the cached greedily-built contraction tree Launch executes.
type Network = internal.Network

// LabelPattern names one network entry's IN and OUT label lists,
// before any tensor is bound to it.
type LabelPattern = internal.LabelPattern

// TOut is the distinguished output spec: the desired label order and
// IN/OUT split of a Network's Launch result.
type TOut = internal.TOut

// Status is the Network lifecycle state.
type Status = internal.Status

const (
	Unloaded Status = internal.Unloaded
	Loaded   Status = internal.Loaded
)

// Sentinel errors, by meaning per the error-kind table.
var (
	ErrUnboundTensor  = internal.ErrUnboundTensor
	ErrInvalidNetwork = internal.ErrInvalidNetwork
	ErrShapeMismatch  = internal.ErrShapeMismatch
)

func resolveKernel(cfg *config.Config) kernel.Kernel {
	if cfg.KernelName == config.WebGPU {
		if gpu, err := webgpu.New(); err == nil {
			return gpu
		}
	}
	return cpu.New()
}

// New creates a Network from a list of label patterns and an optional
// TOut spec. cfg selects the compute kernel used by any of its own
// arithmetic (contraction itself runs on each bound tensor's own
// kernel); nil selects config.Default().
func New(patterns []LabelPattern, tout *TOut, cfg *config.Config) (*Network, error) {
	cfg = config.OrDefault(cfg)
	return internal.New(resolveKernel(cfg), patterns, tout)
}

// Parse reads the text network-file format (spec §6) and constructs a
// Network directly from it.
func Parse(r io.Reader, cfg *config.Config) (*Network, error) {
	patterns, tout, err := internal.Parse(r)
	if err != nil {
		return nil, err
	}
	return New(patterns, tout, cfg)
}

// Bind is a convenience wrapper over Network.ReplaceWith for the
// initial binding of every leaf, in leaf order.
func Bind(net *Network, tensors []*symtensor.SymTensor) error {
	for i, t := range tensors {
		if err := net.ReplaceWith(i, t, true); err != nil {
			return err
		}
	}
	return nil
}
