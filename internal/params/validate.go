package params

import (
	"fmt"

	"github.com/vocdoni/poseidongl/field"
)

// Validate checks basic shape and sizes of the parameter set.
func Validate(p *Parameters) error {
	if p.FullRounds%2 != 0 {
		return fmt.Errorf("poseidongl: full rounds must be even, got %d", p.FullRounds)
	}
	width := p.StateSize
	if p.Rate+p.Capacity != width {
		return fmt.Errorf("poseidongl: rate %d + capacity %d != state size %d", p.Rate, p.Capacity, width)
	}
	if p.DigestSize < 1 || p.DigestSize > p.Rate {
		return fmt.Errorf("poseidongl: digest size %d outside [1, %d]", p.DigestSize, p.Rate)
	}
	if len(p.Arc) != p.Rounds()*width {
		return fmt.Errorf("poseidongl: arc length mismatch")
	}
	if len(p.MDS) != width*width {
		return fmt.Errorf("poseidongl: mds length mismatch")
	}
	if len(p.MDSCirculant) != width || len(p.MDSDiagonal) != width {
		return fmt.Errorf("poseidongl: circulant/diagonal length mismatch")
	}
	for i := 0; i < width; i++ {
		for j := 0; j < width; j++ {
			want := p.MDSCirculant[(j-i+width)%width]
			if i == j {
				want += p.MDSDiagonal[i]
			}
			if p.MDS[i*width+j] != field.FromRaw(want) {
				return fmt.Errorf("poseidongl: mds entry (%d,%d) does not match its circulant form", i, j)
			}
		}
	}
	// The sparse MDS accumulation relies on small coefficients.
	for _, c := range p.MDSCirculant {
		if c >= 1<<16 {
			return fmt.Errorf("poseidongl: circulant coefficient %d too large", c)
		}
	}
	rF := p.FullRounds / 2
	if len(p.OptimizedArc) != (rF+1)*width+p.PartialRounds+(rF-1)*width {
		return fmt.Errorf("poseidongl: optimized arc length mismatch")
	}
	if len(p.OptimizedMDS.MI) != width*width {
		return fmt.Errorf("poseidongl: M_i length mismatch")
	}
	if p.OptimizedMDS.M00 != p.MDS[0] {
		return fmt.Errorf("poseidongl: M_00 does not match mds")
	}
	expectedSparse := p.PartialRounds * (width - 1)
	if len(p.OptimizedMDS.VCollection) != expectedSparse || len(p.OptimizedMDS.WHatCollection) != expectedSparse {
		return fmt.Errorf("poseidongl: sparse collection length mismatch")
	}
	return nil
}
