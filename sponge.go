package poseidongl

import (
	"github.com/vocdoni/poseidongl/field"
	"github.com/vocdoni/poseidongl/internal/params"
)

// Sponge absorbs field elements Rate at a time into the permutation state.
// Each chunk overwrites the first lanes of the state; the capacity lanes are
// never written by input. The zero value is an empty sponge ready to use.
type Sponge struct {
	state   State
	pending [params.Rate]field.Element
	n       int
	perms   int
}

// NewSponge returns an empty sponge.
func NewSponge() *Sponge {
	return &Sponge{}
}

// Absorb feeds inputs into the sponge, permuting every time Rate elements
// have been buffered.
func (s *Sponge) Absorb(inputs ...field.Element) *Sponge {
	for _, in := range inputs {
		s.pending[s.n] = in
		s.n++
		if s.n == params.Rate {
			s.flush()
		}
	}
	return s
}

// Sum squeezes the digest without modifying the sponge. A pending short chunk
// overwrites only its own lanes before the last permutation, and an empty
// sponge permutes the zero state once.
func (s *Sponge) Sum() Digest {
	final := *s
	if final.n > 0 || final.perms == 0 {
		final.flush()
	}
	var d Digest
	copy(d[:], final.state[:params.DigestSize])
	return d
}

// Permutations returns the number of permutations run so far.
func (s *Sponge) Permutations() int {
	return s.perms
}

// Reset empties the sponge.
func (s *Sponge) Reset() {
	*s = Sponge{}
}

func (s *Sponge) flush() {
	copy(s.state[:s.n], s.pending[:s.n])
	defaultPermutation.permute(&s.state)
	s.n = 0
	s.perms++
}
