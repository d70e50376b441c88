// Package poseidongl is a gnark gadget for the Goldilocks Poseidon hash in
// circuits whose native field is Goldilocks.
package poseidongl

import (
	"fmt"

	"github.com/consensys/gnark-crypto/field/goldilocks"
	"github.com/consensys/gnark/frontend"

	"github.com/vocdoni/poseidongl/field"
	"github.com/vocdoni/poseidongl/internal/params"
)

const (
	Width      = params.StateSize
	Rate       = params.Rate
	Capacity   = params.Capacity
	DigestSize = params.DigestSize
)

// circuitPermutation mirrors the native permutation but emits gnark constraints.
type circuitPermutation struct {
	params *params.Parameters
}

func newCircuitPermutation(api frontend.API) (*circuitPermutation, error) {
	if f := api.Compiler().Field(); f.Cmp(goldilocks.Modulus()) != 0 {
		return nil, fmt.Errorf("poseidongl: native gadget needs the Goldilocks field, got %s", f)
	}
	return &circuitPermutation{params: params.Default}, nil
}

// Permute applies the Poseidon permutation to state.
func Permute(api frontend.API, state [Width]frontend.Variable) ([Width]frontend.Variable, error) {
	gadget, err := newCircuitPermutation(api)
	if err != nil {
		return [Width]frontend.Variable{}, err
	}
	return gadget.permute(api, state), nil
}

// Hash computes the sponge hash of inputs inside a gnark circuit: chunks of
// Rate elements overwrite the first lanes, the empty input permutes once.
func Hash(api frontend.API, inputs ...frontend.Variable) ([DigestSize]frontend.Variable, error) {
	var digest [DigestSize]frontend.Variable
	gadget, err := newCircuitPermutation(api)
	if err != nil {
		return digest, err
	}

	var state [Width]frontend.Variable
	for i := range state {
		state[i] = 0
	}
	if len(inputs) == 0 {
		state = gadget.permute(api, state)
	}
	for i := 0; i < len(inputs); i += Rate {
		end := min(i+Rate, len(inputs))
		copy(state[:], inputs[i:end])
		state = gadget.permute(api, state)
	}
	copy(digest[:], state[:DigestSize])
	return digest, nil
}

// HashWithCapacity permutes in‖capacity once and returns the first lanes.
func HashWithCapacity(api frontend.API, in [Rate]frontend.Variable, capacity [Capacity]frontend.Variable) ([DigestSize]frontend.Variable, error) {
	var digest [DigestSize]frontend.Variable
	gadget, err := newCircuitPermutation(api)
	if err != nil {
		return digest, err
	}
	var state [Width]frontend.Variable
	copy(state[:Rate], in[:])
	copy(state[Rate:], capacity[:])
	state = gadget.permute(api, state)
	copy(digest[:], state[:DigestSize])
	return digest, nil
}

func (p *circuitPermutation) permute(api frontend.API, state [Width]frontend.Variable) [Width]frontend.Variable {
	t := p.params.StateSize
	rF := p.params.FullRounds / 2
	arc := p.params.OptimizedArc

	circuitAddArcRow(api, &state, arc, 0)
	for r := 0; r < rF; r++ {
		circuitFullSBox(api, &state)
		circuitAddArcRow(api, &state, arc, (r+1)*t)
		if r == rF-1 {
			state = circuitMix(api, state, p.params.OptimizedMDS.MI)
		} else {
			state = circuitMix(api, state, p.params.MDS)
		}
	}
	offset := (rF + 1) * t

	for r := 0; r < p.params.PartialRounds; r++ {
		state[0] = circuitExp7(api, state[0])
		state[0] = api.Add(state[0], arc[offset+r].Uint64())
		state = circuitSparse(api, state, p.params, r)
	}
	offset += p.params.PartialRounds

	for r := 0; r < rF; r++ {
		circuitFullSBox(api, &state)
		if r < rF-1 {
			circuitAddArcRow(api, &state, arc, offset+r*t)
		}
		state = circuitMix(api, state, p.params.MDS)
	}
	return state
}

func circuitAddArcRow(api frontend.API, state *[Width]frontend.Variable, arc []field.Element, offset int) {
	for i := range state {
		state[i] = api.Add(state[i], arc[offset+i].Uint64())
	}
}

func circuitMix(api frontend.API, state [Width]frontend.Variable, matrix []field.Element) [Width]frontend.Variable {
	var out [Width]frontend.Variable
	for i := 0; i < Width; i++ {
		offset := i * Width
		sum := api.Mul(state[0], matrix[offset].Uint64())
		for j := 1; j < Width; j++ {
			sum = api.Add(sum, api.Mul(state[j], matrix[offset+j].Uint64()))
		}
		out[i] = sum
	}
	return out
}

func circuitSparse(api frontend.API, state [Width]frontend.Variable, p *params.Parameters, round int) [Width]frontend.Variable {
	subSize := Width - 1
	v := p.OptimizedMDS.VCollection[round*subSize : (round+1)*subSize]
	wHat := p.OptimizedMDS.WHatCollection[round*subSize : (round+1)*subSize]

	var out [Width]frontend.Variable
	newZero := api.Mul(state[0], p.OptimizedMDS.M00.Uint64())
	for i := 0; i < subSize; i++ {
		out[i+1] = api.Add(api.Mul(state[0], v[i].Uint64()), state[i+1])
		newZero = api.Add(newZero, api.Mul(state[i+1], wHat[i].Uint64()))
	}
	out[0] = newZero
	return out
}

func circuitFullSBox(api frontend.API, state *[Width]frontend.Variable) {
	for i := range state {
		state[i] = circuitExp7(api, state[i])
	}
}

func circuitExp7(api frontend.API, v frontend.Variable) frontend.Variable {
	v2 := api.Mul(v, v)
	v3 := api.Mul(v2, v)
	v4 := api.Mul(v2, v2)
	return api.Mul(v4, v3)
}
