package poseidongl

import (
	"github.com/vocdoni/poseidongl/field"
	"github.com/vocdoni/poseidongl/internal/params"
)

// State is the width-12 permutation state.
type State [params.StateSize]field.Element

// permutation implements the Poseidon permutation over Goldilocks (plonky2 parameters).
type permutation struct {
	params *params.Parameters
}

var defaultPermutation = &permutation{params: params.Default}

// Permute applies the Poseidon permutation to state and returns the result.
func Permute(state State) State {
	defaultPermutation.permute(&state)
	return state
}

// PermutePlain computes the same permutation as Permute, round by round with
// the dense matrix. It is several times slower.
func PermutePlain(state State) State {
	defaultPermutation.permutePlain(&state)
	return state
}

// permute mutates the state in place using the sparse partial-round schedule.
func (p *permutation) permute(state *State) {
	t := p.params.StateSize
	rF := p.params.FullRounds / 2
	arc := p.params.OptimizedArc

	addArcRow(state, arc, 0)

	// First half of full rounds. The constants of the next round are folded
	// in before the mix; the last one enters the partial rounds through M_i.
	for r := 0; r < rF; r++ {
		fullSBox(state)
		addArcRow(state, arc, (r+1)*t)
		if r == rF-1 {
			p.mixLayerDense(state, p.params.OptimizedMDS.MI)
		} else {
			p.mixLayerMDS(state)
		}
	}
	offset := (rF + 1) * t

	// Partial rounds.
	for r := 0; r < p.params.PartialRounds; r++ {
		partialSBox(state)
		state[0] = field.Add(state[0], arc[offset+r])
		p.sparseMatMul(state, r)
	}
	offset += p.params.PartialRounds

	// Second half of full rounds.
	for r := 0; r < rF; r++ {
		fullSBox(state)
		if r < rF-1 {
			addArcRow(state, arc, offset+r*t)
		}
		p.mixLayerMDS(state)
	}
}

// permutePlain mutates the state in place following the textbook round
// structure: constants, S-box, mix.
func (p *permutation) permutePlain(state *State) {
	t := p.params.StateSize
	rF := p.params.FullRounds / 2
	for r := 0; r < p.params.Rounds(); r++ {
		addArcRow(state, p.params.Arc, r*t)
		if r < rF || r >= rF+p.params.PartialRounds {
			fullSBox(state)
		} else {
			partialSBox(state)
		}
		p.mixLayerDense(state, p.params.MDS)
	}
}

// mixLayerMDS multiplies by the MDS matrix using its circulant form. Products
// by the small coefficients are summed unreduced.
func (p *permutation) mixLayerMDS(state *State) {
	t := p.params.StateSize
	circ := p.params.MDSCirculant
	var newState State
	for i := 0; i < t; i++ {
		var acc field.Accumulator
		for j := 0; j < t; j++ {
			acc.MulAdd(state[j], circ[(j-i+t)%t])
		}
		acc.MulAdd(state[i], p.params.MDSDiagonal[i])
		newState[i] = acc.Reduce()
	}
	*state = newState
}

func (p *permutation) mixLayerDense(state *State, matrix []field.Element) {
	t := p.params.StateSize
	var newState State
	for i := 0; i < t; i++ {
		var sum field.Element
		rowOffset := i * t
		for j := 0; j < t; j++ {
			sum = field.Add(sum, field.Mul(matrix[rowOffset+j], state[j]))
		}
		newState[i] = sum
	}
	*state = newState
}

func (p *permutation) sparseMatMul(state *State, round int) {
	t := p.params.StateSize
	subSize := t - 1
	v := p.params.OptimizedMDS.VCollection[round*subSize : (round+1)*subSize]
	wHat := p.params.OptimizedMDS.WHatCollection[round*subSize : (round+1)*subSize]

	newZero := field.Mul(p.params.OptimizedMDS.M00, state[0])
	var newState State
	for i := 0; i < subSize; i++ {
		newState[i+1] = field.Add(field.Mul(v[i], state[0]), state[i+1])
		newZero = field.Add(newZero, field.Mul(wHat[i], state[i+1]))
	}
	newState[0] = newZero
	*state = newState
}

func addArcRow(state *State, arc []field.Element, offset int) {
	for i := range state {
		state[i] = field.Add(state[i], arc[offset+i])
	}
}

// The S-boxes raise to params.Alpha with the x^7 chain.
func partialSBox(state *State) {
	state[0] = field.Exp7(state[0])
}

func fullSBox(state *State) {
	for i := range state {
		state[i] = field.Exp7(state[i])
	}
}
