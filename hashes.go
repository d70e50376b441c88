package poseidongl

import "github.com/vocdoni/poseidongl/field"

// HashUint64 reduces every raw integer modulo p, hashes them and returns the
// canonical digest.
func HashUint64(raw []uint64) [DigestSize]uint64 {
	return Hash(field.FromRawSlice(raw)...).Uint64s()
}

// HashWithCapacityUint64 is HashWithCapacity over raw integers.
func HashWithCapacityUint64(in [Rate]uint64, capacity [Capacity]uint64) [DigestSize]uint64 {
	var fin [Rate]field.Element
	for i, v := range in {
		fin[i] = field.FromRaw(v)
	}
	var fcap [Capacity]field.Element
	for i, v := range capacity {
		fcap[i] = field.FromRaw(v)
	}
	return HashWithCapacity(fin, fcap).Uint64s()
}

// TwoToOne compresses two digests into one with a zero capacity.
func TwoToOne(left, right Digest) Digest {
	var in [Rate]field.Element
	copy(in[:DigestSize], left[:])
	copy(in[DigestSize:], right[:])
	return HashWithCapacity(in, [Capacity]field.Element{})
}
