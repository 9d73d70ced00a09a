package network

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/latticeforge/symten/internal/block"
	"github.com/latticeforge/symten/internal/bond"
	"github.com/latticeforge/symten/internal/kernel/cpu"
	"github.com/latticeforge/symten/internal/qnum"
	"github.com/latticeforge/symten/internal/symtensor"
)

func trivialBond(dir bond.Direction, dim int) bond.Bond {
	return bond.New(dir, []bond.State{{Q: qnum.New(0), Mult: dim}})
}

// chainTensor builds a rank-2 tensor labeled (in, out) filled with a
// constant, all charges trivial (U(1)=0), so contraction results are
// easy to hand-verify.
func chainTensor(t *testing.T, kern *cpu.Backend, in, out int32, dim int, fill float64) *symtensor.SymTensor {
	t.Helper()
	bonds := []bond.Bond{trivialBond(bond.In, dim), trivialBond(bond.Out, dim)}
	st, err := symtensor.New(kern, bonds, 1, block.Real, []int32{in, out}, "t")
	require.NoError(t, err)
	dense := make([]float64, dim*dim)
	for i := range dense {
		dense[i] = fill
	}
	require.NoError(t, st.SetRawElem(dense, true))
	return st
}

func TestValidateLabelPairingRejectsUnmatchedLabel(t *testing.T) {
	patterns := []LabelPattern{
		{Name: "A", In: []int32{1}, Out: []int32{2}},
		{Name: "B", In: []int32{3}, Out: []int32{4}},
	}
	err := validateLabelPairing(patterns, nil)
	assert.ErrorIs(t, err, ErrInvalidNetwork)
}

func TestValidateLabelPairingAcceptsTOUT(t *testing.T) {
	patterns := []LabelPattern{
		{Name: "A", In: []int32{1}, Out: []int32{2}},
	}
	tout := &TOut{In: []int32{1}, Out: []int32{2}}
	assert.NoError(t, validateLabelPairing(patterns, tout))
}

// TestRingContractionOfFourTensors covers scenario S4: a ring
// contraction of four rank-2 tensors closes to a scalar.
func TestRingContractionOfFourTensors(t *testing.T) {
	kern := cpu.New()

	// Ring: A(0,1) B(1,2) C(2,3) D(3,0), all dim-2 with every entry 1.
	net, err := New(kern, []LabelPattern{
		{Name: "A", In: []int32{0}, Out: []int32{1}},
		{Name: "B", In: []int32{1}, Out: []int32{2}},
		{Name: "C", In: []int32{2}, Out: []int32{3}},
		{Name: "D", In: []int32{3}, Out: []int32{0}},
	}, nil)
	require.NoError(t, err)

	for i, pair := range []struct{ in, out int32 }{{0, 1}, {1, 2}, {2, 3}, {3, 0}} {
		require.NoError(t, net.ReplaceWith(i, chainTensor(t, kern, pair.in, pair.out, 2, 1), true))
	}

	require.NoError(t, net.Construct())
	result, err := net.Launch()
	require.NoError(t, err)
	assert.Empty(t, result.Labels(), "fully contracted ring should be a scalar")
}

// TestLaunchTwiceIsIdempotent covers invariant 9: repeated launch()
// calls on an unchanged network produce identical output.
func TestLaunchTwiceIsIdempotent(t *testing.T) {
	kern := cpu.New()
	net, err := New(kern, []LabelPattern{
		{Name: "A", In: []int32{0}, Out: []int32{1}},
		{Name: "B", In: []int32{1}, Out: []int32{2}},
	}, &TOut{In: []int32{0}, Out: []int32{2}})
	require.NoError(t, err)
	require.NoError(t, net.ReplaceWith(0, chainTensor(t, kern, 0, 1, 2, 2), true))
	require.NoError(t, net.ReplaceWith(1, chainTensor(t, kern, 1, 2, 2, 3), true))

	require.NoError(t, net.Construct())
	first, err := net.Launch()
	require.NoError(t, err)
	second, err := net.Launch()
	require.NoError(t, err)

	assert.Equal(t, first.RawElem(), second.RawElem())
}

func TestLaunchWithoutBindingReturnsUnboundTensor(t *testing.T) {
	kern := cpu.New()
	net, err := New(kern, []LabelPattern{
		{Name: "A", In: []int32{0}, Out: []int32{1}},
		{Name: "B", In: []int32{1}, Out: []int32{0}},
	}, nil)
	require.NoError(t, err)

	_, err = net.Launch()
	assert.ErrorIs(t, err, ErrUnboundTensor)
}

func TestReplaceWithRejectsShapeMismatchWithoutForce(t *testing.T) {
	kern := cpu.New()
	net, err := New(kern, []LabelPattern{
		{Name: "A", In: []int32{0}, Out: []int32{1}},
		{Name: "B", In: []int32{1}, Out: []int32{0}},
	}, nil)
	require.NoError(t, err)

	require.NoError(t, net.ReplaceWith(0, chainTensor(t, kern, 0, 1, 2, 1), true))
	err = net.ReplaceWith(0, chainTensor(t, kern, 0, 1, 4, 1), false)
	assert.ErrorIs(t, err, ErrShapeMismatch)
}
