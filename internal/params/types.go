package params

import "github.com/vocdoni/poseidongl/field"

// Parameters bundles all constants needed by the permutation.
type Parameters struct {
	StateSize     int
	Rate          int
	Capacity      int
	DigestSize    int
	FullRounds    int
	PartialRounds int

	// Arc holds StateSize constants per round, for the plain schedule.
	Arc []field.Element
	// MDS is the row-major StateSize x StateSize mixing matrix.
	MDS []field.Element
	// MDSCirculant and MDSDiagonal define MDS: circ[(j-i) mod t] plus diag[i] on the diagonal.
	MDSCirculant []uint64
	MDSDiagonal  []uint64

	OptimizedArc []field.Element
	OptimizedMDS OptimizedMDS
}

// OptimizedMDS encodes the matrices of the sparse partial-round schedule.
type OptimizedMDS struct {
	// MI is the dense matrix applied once before the partial rounds.
	MI []field.Element
	// M00 is the top-left entry shared by every sparse matrix.
	M00 field.Element

	VCollection    []field.Element
	WHatCollection []field.Element
}

// Rounds returns the total number of rounds.
func (p *Parameters) Rounds() int {
	return p.FullRounds + p.PartialRounds
}

func elements(in []uint64) []field.Element {
	out := make([]field.Element, len(in))
	for i, v := range in {
		out[i] = field.FromRaw(v)
	}
	return out
}
