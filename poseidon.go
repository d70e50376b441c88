// Package poseidongl implements the Poseidon hash over the Goldilocks field
// with the width-12 parameters used by plonky2 and the Polygon zkEVM: rate 8,
// capacity 4, S-box x^7, 8 full and 22 partial rounds, 4-element digests.
package poseidongl

import (
	"fmt"
	"strings"

	"github.com/vocdoni/poseidongl/field"
	"github.com/vocdoni/poseidongl/internal/params"
)

const (
	Width      = params.StateSize
	Rate       = params.Rate
	Capacity   = params.Capacity
	DigestSize = params.DigestSize
)

// Digest is the hash output: the first DigestSize lanes of the final state.
type Digest [DigestSize]field.Element

// Uint64s returns the canonical integers of the digest.
func (d Digest) Uint64s() [DigestSize]uint64 {
	var out [DigestSize]uint64
	for i, e := range d {
		out[i] = e.Uint64()
	}
	return out
}

// Equal reports whether both digests are identical.
func (d Digest) Equal(o Digest) bool {
	return d == o
}

func (d Digest) String() string {
	parts := make([]string, len(d))
	for i, e := range d {
		parts[i] = fmt.Sprintf("0x%016x", e.Uint64())
	}
	return "[" + strings.Join(parts, " ") + "]"
}

// Hash absorbs inputs Rate elements at a time, starting from the zero state,
// and returns the first DigestSize lanes. The empty input permutes the zero
// state once.
func Hash(inputs ...field.Element) Digest {
	return NewSponge().Absorb(inputs...).Sum()
}

// HashWithCapacity permutes the state in‖capacity once and returns the first
// DigestSize lanes. This is the node hash of the zkEVM sparse Merkle tree.
func HashWithCapacity(in [Rate]field.Element, capacity [Capacity]field.Element) Digest {
	var state State
	copy(state[:Rate], in[:])
	copy(state[Rate:], capacity[:])
	defaultPermutation.permute(&state)

	var d Digest
	copy(d[:], state[:DigestSize])
	return d
}
