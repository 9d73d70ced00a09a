package symtensor

import (
	"fmt"

	"github.com/latticeforge/symten/internal/block"
	"github.com/latticeforge/symten/internal/bond"
	"github.com/latticeforge/symten/internal/qnum"
)

// HOSVDResult holds the higher-order SVD factorization of a SymTensor:
// a core tensor of the same rank as the input, one orthogonal factor
// per mode, and (optionally, when requested) that mode's singular
// values as a real diagonal Block map keyed by block charge; the
// factor's new bond lists those charges in ascending Qnum order, per
// the design's resolution of the "returnL" open question.
type HOSVDResult struct {
	Core     *SymTensor
	Factors  []*SymTensor
	Singular []map[qnum.Qnum]*block.Block
}

// HOSVD partitions t's first modeCount*k bonds into modeCount groups
// of k bonds (the remaining fixedCount bonds are left untouched), and
// for each group unfolds t into a matrix (that mode's legs as rows,
// every other bond as columns), SVDs it, and keeps the left singular
// vectors as that mode's orthogonal factor. The core tensor is formed
// by contracting each factor's conjugate-transpose into t, mode by
// mode. When returnSingular is true, each mode's singular values are
// also returned, keyed by block charge.
func (t *SymTensor) HOSVD(modeCount, k, fixedCount int, returnSingular bool) (*HOSVDResult, error) {
	if modeCount*k+fixedCount != len(t.bonds) {
		return nil, fmt.Errorf("%w: hosvd: modeCount*k+fixedCount = %d does not cover %d bonds", ErrLabelError, modeCount*k+fixedCount, len(t.bonds))
	}

	factors := make([]*SymTensor, modeCount)
	singular := make([]map[qnum.Qnum]*block.Block, modeCount)
	core := t

	for m := 0; m < modeCount; m++ {
		modeLabels := append([]int32(nil), core.labels[m*k:m*k+k]...)
		factor, sv, err := unfoldAndFactor(core, modeLabels)
		if err != nil {
			return nil, fmt.Errorf("hosvd: mode %d: %w", m, err)
		}
		factors[m] = factor
		if returnSingular {
			singular[m] = sv
		}

		// buildDagger gives the dagger the reverse of each of core's mode
		// bonds as an OUT bond, so core's mode bonds move to its IN side
		// first; core's other bonds keep their directions.
		inFirst := append([]int32(nil), modeLabels...)
		inCount := k
		for i, l := range core.labels {
			if i < m*k || i >= m*k+k {
				inFirst = append(inFirst, l)
				if i < core.rBondNum {
					inCount++
				}
			}
		}
		if core, err = core.Permute(inFirst, inCount); err != nil {
			return nil, fmt.Errorf("hosvd: mode %d: %w", m, err)
		}

		freshLabel := factor.labels[len(factor.labels)-1]
		dagger, err := buildDagger(core, modeLabels, factor, freshLabel)
		if err != nil {
			return nil, fmt.Errorf("hosvd: mode %d: dagger: %w", m, err)
		}

		contracted, err := Contract(dagger, core, false)
		if err != nil {
			return nil, fmt.Errorf("hosvd: mode %d: core contraction: %w", m, err)
		}
		core = contracted
	}

	return &HOSVDResult{Core: core, Factors: factors, Singular: singular}, nil
}

// unfoldAndFactor unfolds t so modeLabels become the row group and
// every other bond the column group, SVDs the unfolded matrix, and
// returns an IN-modeLabels/OUT-new-bond factor tensor (U) plus U's
// singular values keyed by charge.
func unfoldAndFactor(t *SymTensor, modeLabels []int32) (*SymTensor, map[qnum.Qnum]*block.Block, error) {
	modeSet := make(map[int32]bool, len(modeLabels))
	for _, l := range modeLabels {
		modeSet[l] = true
	}
	var rest []int32
	for _, l := range t.labels {
		if !modeSet[l] {
			rest = append(rest, l)
		}
	}
	newLabels := append(append([]int32(nil), modeLabels...), rest...)
	unfolded, err := t.Permute(newLabels, len(modeLabels))
	if err != nil {
		return nil, nil, err
	}

	uBonds := append([]bond.Bond(nil), unfolded.bonds[:len(modeLabels)]...)
	sv := make(map[qnum.Qnum]*block.Block, len(unfolded.blocks))
	uBlocks := make(map[qnum.Qnum]*block.Block, len(unfolded.blocks))
	rank := make(map[qnum.Qnum]int, len(unfolded.blocks))

	for q, blk := range unfolded.blocks {
		u, s, _, err := blk.SVD()
		if err != nil {
			return nil, nil, fmt.Errorf("svd at charge %s: %w", q, err)
		}
		uBlocks[q] = u
		sv[q] = s
		rank[q] = u.Cols
	}

	newBondStates := make([]bond.State, 0, len(rank))
	for _, q := range sortedQnums(rank) {
		newBondStates = append(newBondStates, bond.State{Q: q, Mult: rank[q]})
	}
	newBond := bond.New(bond.Out, newBondStates)

	factorBonds := append(uBonds, newBond)
	factorLabels := append(append([]int32(nil), modeLabels...), freshLabel(t))

	factor, err := New(t.kern, factorBonds, len(modeLabels), t.kind, factorLabels, "")
	if err != nil {
		return nil, nil, err
	}
	for q, u := range uBlocks {
		if err := factor.PutBlock(q, u, true); err != nil {
			return nil, nil, err
		}
	}
	return factor, sv, nil
}

// buildDagger builds the conjugate-transpose contractor used to fold
// factor back into core: a tensor with freshLabel as its sole IN bond
// and, for each mode label, an OUT bond that is core's own bond for
// that label reversed — guaranteed CompatibleWith core's bond by
// construction. core's mode bonds must be IN (HOSVD permutes them to
// the IN side first), since New requires the reversed bonds to be OUT.
// Each entry is copied from factor via the two-step raw-index
// correspondence factor-bond -> core-bond -> dagger-bond, composed
// with remapBondIndex exactly as Permute itself would.
func buildDagger(core *SymTensor, modeLabels []int32, factor *SymTensor, freshLabel int32) (*SymTensor, error) {
	k := len(modeLabels)
	coreBonds := make([]bond.Bond, k)
	factorBonds := make([]bond.Bond, k)
	daggerColBonds := make([]bond.Bond, k)
	for i, l := range modeLabels {
		coreBonds[i] = core.bonds[core.LabelIndex(l)]
		factorBonds[i] = factor.bonds[i]
		daggerColBonds[i] = coreBonds[i].Reverse()
	}

	freshIdx := factor.LabelIndex(freshLabel)
	freshBond := factor.bonds[freshIdx]
	rowBond := bond.New(bond.In, append([]bond.State(nil), freshBond.States...))

	bonds := append([]bond.Bond{rowBond}, daggerColBonds...)
	labels := append([]int32{freshLabel}, modeLabels...)
	dagger, err := New(factor.kern, bonds, 1, factor.kind, labels, "")
	if err != nil {
		return nil, err
	}

	for q, u := range factor.blocks {
		for r := 0; r < u.Rows; r++ {
			modeRawFactor := factor.rowPart.unlocate(q, r)
			daggerRaw := make([]int, k)
			for i := 0; i < k; i++ {
				flip := factorBonds[i].Dir != coreBonds[i].Dir
				coreRaw := remapBondIndex(factorBonds[i], coreBonds[i], modeRawFactor[i], flip)
				daggerRaw[i] = remapBondIndex(coreBonds[i], daggerColBonds[i], coreRaw, true)
			}
			qCol, cOffDagger := dagger.colPart.locate(daggerRaw)
			for c := 0; c < u.Cols; c++ {
				freshRaw := factor.colPart.unlocate(q, c)
				qRow, rOffDagger := dagger.rowPart.locate(freshRaw)
				if !qRow.Equal(qCol) {
					continue
				}
				dst, ok := dagger.blocks[qRow]
				if !ok {
					continue
				}
				if factor.kind == block.Real {
					dst.DataReal()[rOffDagger*dst.Cols+cOffDagger] = u.At(r, c)
				} else {
					dst.DataComplex()[rOffDagger*dst.Cols+cOffDagger] = complexConj(u.AtComplex(r, c))
				}
			}
		}
	}
	return dagger, nil
}

func complexConj(v complex128) complex128 { return complex(real(v), -imag(v)) }

// sortedQnums returns the keys of m in ascending Qnum order.
func sortedQnums(m map[qnum.Qnum]int) []qnum.Qnum {
	out := make([]qnum.Qnum, 0, len(m))
	for q := range m {
		out = append(out, q)
	}
	sortQnums(out)
	return out
}

// freshLabel returns a label not already used by t, for the new bond
// HOSVD's factor introduces.
func freshLabel(t *SymTensor) int32 {
	max := int32(-1)
	for _, l := range t.labels {
		if l > max {
			max = l
		}
	}
	return max + 1
}
