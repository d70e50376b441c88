// Package ffi marshals raw 64-bit integers in and out of the hash for callers
// on the other side of a foreign-function boundary. Buffers stay ordinary Go
// slices here; pointer conversion happens only in cmd/libposeidongl.
package ffi

import (
	"github.com/vocdoni/poseidongl"
	"github.com/vocdoni/poseidongl/field"
)

// Buffer is an owned array of raw 64-bit integers.
type Buffer []uint64

// HashRaw reduces every raw integer modulo p, hashes them and returns the
// DigestSize canonical digest words in a fresh buffer.
func HashRaw(raw Buffer) Buffer {
	digest := poseidongl.Hash(field.FromRawSlice(raw)...)
	out := make(Buffer, poseidongl.DigestSize)
	for i, e := range digest {
		out[i] = e.Uint64()
	}
	return out
}

// HashWithCapacityRaw hashes exactly Width raw integers, the first Rate as
// input and the last Capacity as capacity, in a single permutation. It
// returns nil when raw does not hold Width words.
func HashWithCapacityRaw(raw Buffer) Buffer {
	if len(raw) != poseidongl.Width {
		return nil
	}
	var in [poseidongl.Rate]uint64
	var capacity [poseidongl.Capacity]uint64
	copy(in[:], raw[:poseidongl.Rate])
	copy(capacity[:], raw[poseidongl.Rate:])
	digest := poseidongl.HashWithCapacityUint64(in, capacity)
	out := make(Buffer, len(digest))
	copy(out, digest[:])
	return out
}
