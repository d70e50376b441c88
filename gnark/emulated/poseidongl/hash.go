// Package poseidongl computes the Goldilocks Poseidon hash over emulated
// Goldilocks elements, for circuits defined on a SNARK-friendly curve.
package poseidongl

import (
	"math/big"

	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/std/math/emulated"

	"github.com/vocdoni/poseidongl/internal/params"
)

const (
	Width      = params.StateSize
	Rate       = params.Rate
	Capacity   = params.Capacity
	DigestSize = params.DigestSize
)

// Permute applies the Poseidon permutation to state. Outputs are strictly
// reduced and range checked against p.
func Permute(api frontend.API, state [Width]Element) ([Width]Element, error) {
	field, err := emulated.NewField[FieldParams](api)
	if err != nil {
		return [Width]Element{}, err
	}
	ptrState := newState(field, state[:])
	ptrState = permute(field, params.Default, ptrState)

	var out [Width]Element
	for i := range out {
		out[i] = *canonical(api, field, ptrState[i])
	}
	return out, nil
}

// Hash computes the sponge hash of inputs: chunks of Rate elements overwrite
// the first lanes, the empty input permutes the zero state once.
func Hash(api frontend.API, inputs ...Element) ([DigestSize]Element, error) {
	var digest [DigestSize]Element
	field, err := emulated.NewField[FieldParams](api)
	if err != nil {
		return digest, err
	}
	p := params.Default

	state := make([]*Element, p.StateSize)
	for i := range state {
		state[i] = field.Zero()
	}
	if len(inputs) == 0 {
		state = permute(field, p, state)
	}
	for i := 0; i < len(inputs); i += Rate {
		end := min(i+Rate, len(inputs))
		for j := i; j < end; j++ {
			state[j-i] = field.NewElement(inputs[j])
		}
		state = permute(field, p, state)
	}
	for i := range digest {
		digest[i] = *canonical(api, field, state[i])
	}
	return digest, nil
}

// HashWithCapacity permutes in‖capacity once and returns the first lanes.
func HashWithCapacity(api frontend.API, in [Rate]Element, capacity [Capacity]Element) ([DigestSize]Element, error) {
	var digest [DigestSize]Element
	field, err := emulated.NewField[FieldParams](api)
	if err != nil {
		return digest, err
	}
	full := make([]Element, 0, Width)
	full = append(full, in[:]...)
	full = append(full, capacity[:]...)
	state := permute(field, params.Default, newState(field, full))
	for i := range digest {
		digest[i] = *canonical(api, field, state[i])
	}
	return digest, nil
}

// canonical reduces x strictly and asserts x < p. Constant elements are
// reduced when built and have no variable to check.
func canonical(api frontend.API, field *emulated.Field[FieldParams], x *Element) *Element {
	for _, l := range x.Limbs {
		if _, ok := api.Compiler().ConstantValue(l); !ok {
			return field.ReduceStrict(x)
		}
	}
	return x
}

func newState(field *emulated.Field[FieldParams], in []Element) []*Element {
	out := make([]*Element, len(in))
	for i := range in {
		out[i] = field.NewElement(in[i])
	}
	return out
}

// permute runs the sparse schedule on the state and returns the new state.
func permute(field *emulated.Field[FieldParams], p *params.Parameters, state []*Element) []*Element {
	t := p.StateSize
	rF := p.FullRounds / 2
	arc := p.OptimizedArc

	addArcRow(field, state, p, 0)

	// First half of full rounds.
	for r := range rF {
		fullSBox(field, state)
		addArcRow(field, state, p, (r+1)*t)
		if r == rF-1 {
			state = mixLayerMI(field, p, state)
		} else {
			state = mixLayerMDS(field, p, state)
		}
	}
	offset := (rF + 1) * t

	// Partial rounds.
	for r := 0; r < p.PartialRounds; r++ {
		state[0] = exp7(field, state[0])
		state[0] = field.Add(state[0], constElement(field, arc[offset+r]))
		state = sparseMatMul(field, p, state, r)
	}
	offset += p.PartialRounds

	// Second half of full rounds.
	for r := range rF {
		fullSBox(field, state)
		if r < rF-1 {
			addArcRow(field, state, p, offset+r*t)
		}
		state = mixLayerMDS(field, p, state)
	}
	return state
}

func addArcRow(field *emulated.Field[FieldParams], state []*Element, p *params.Parameters, offset int) {
	for i := range state {
		state[i] = field.Add(state[i], constElement(field, p.OptimizedArc[offset+i]))
	}
}

// mixLayerMDS uses MulConst since the MDS coefficients are a few bits wide.
func mixLayerMDS(field *emulated.Field[FieldParams], p *params.Parameters, state []*Element) []*Element {
	t := p.StateSize
	newState := make([]*Element, t)
	for i := range t {
		sum := field.Zero()
		rowOffset := i * t
		for j := range t {
			coeff := new(big.Int).SetUint64(p.MDS[rowOffset+j].Uint64())
			sum = field.Add(sum, field.MulConst(state[j], coeff))
		}
		newState[i] = sum
	}
	return newState
}

func mixLayerMI(field *emulated.Field[FieldParams], p *params.Parameters, state []*Element) []*Element {
	t := p.StateSize
	newState := make([]*Element, t)
	for i := range t {
		sum := field.Zero()
		rowOffset := i * t
		for j := range t {
			c := constElement(field, p.OptimizedMDS.MI[rowOffset+j])
			sum = field.Add(sum, field.Mul(c, state[j]))
		}
		newState[i] = sum
	}
	return newState
}

func sparseMatMul(field *emulated.Field[FieldParams], p *params.Parameters, state []*Element, round int) []*Element {
	t := p.StateSize
	subSize := t - 1
	v := p.OptimizedMDS.VCollection[round*subSize : (round+1)*subSize]
	wHat := p.OptimizedMDS.WHatCollection[round*subSize : (round+1)*subSize]

	m00 := new(big.Int).SetUint64(p.OptimizedMDS.M00.Uint64())
	newZero := field.MulConst(state[0], m00)
	newState := make([]*Element, t)

	for i := range subSize {
		term := field.Mul(constElement(field, v[i]), state[0])
		newState[i+1] = field.Add(term, state[i+1])

		contrib := field.Mul(constElement(field, wHat[i]), state[i+1])
		newZero = field.Add(newZero, contrib)
	}
	newState[0] = newZero
	return newState
}

func fullSBox(field *emulated.Field[FieldParams], state []*Element) {
	for i := range state {
		state[i] = exp7(field, state[i])
	}
}

func exp7(field *emulated.Field[FieldParams], x *Element) *Element {
	x2 := field.Mul(x, x)
	x3 := field.Mul(x2, x)
	x4 := field.Mul(x2, x2)
	return field.Mul(x4, x3)
}
