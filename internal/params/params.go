package params

import "github.com/vocdoni/poseidongl/field"

const (
	// Alpha is the S-box exponent. gcd(Alpha, p-1) = 1, so x^Alpha permutes
	// the field; every S-box in the module is the x^7 addition chain.
	Alpha = 7

	StateSize     = 12
	Rate          = 8
	Capacity      = StateSize - Rate
	DigestSize    = 4
	FullRounds    = 8
	PartialRounds = 22
)

// Default is the width-12 Goldilocks parameter set. It is built once and never
// modified afterwards.
var Default = newDefault()

func newDefault() *Parameters {
	p := &Parameters{
		StateSize:     StateSize,
		Rate:          Rate,
		Capacity:      Capacity,
		DigestSize:    DigestSize,
		FullRounds:    FullRounds,
		PartialRounds: PartialRounds,

		Arc:          elements(roundConstants[:]),
		MDSCirculant: mdsCirculant[:],
		MDSDiagonal:  mdsDiagonal[:],

		OptimizedArc: elements(optimizedArc[:]),
		OptimizedMDS: OptimizedMDS{
			MI:             elements(optimizedMI[:]),
			VCollection:    elements(optimizedV[:]),
			WHatCollection: elements(optimizedWHat[:]),
		},
	}

	p.MDS = make([]field.Element, StateSize*StateSize)
	for i := 0; i < StateSize; i++ {
		for j := 0; j < StateSize; j++ {
			c := mdsCirculant[(j-i+StateSize)%StateSize]
			if i == j {
				c += mdsDiagonal[i]
			}
			p.MDS[i*StateSize+j] = field.FromRaw(c)
		}
	}
	p.OptimizedMDS.M00 = p.MDS[0]

	if err := Validate(p); err != nil {
		panic(err)
	}
	return p
}
