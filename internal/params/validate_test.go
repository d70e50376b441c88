package params

import (
	"strings"
	"testing"

	"github.com/vocdoni/poseidongl/field"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Validate(Default); err != nil {
		t.Fatalf("default parameters: %v", err)
	}
	if Default.Rounds() != 30 {
		t.Fatalf("expected 30 rounds, got %d", Default.Rounds())
	}
	// first row of the circulant matrix with the diagonal on top
	want := []uint64{25, 15, 41, 16, 2, 28, 13, 13, 39, 18, 34, 20}
	for j, w := range want {
		if got := Default.MDS[j].Uint64(); got != w {
			t.Fatalf("mds[0][%d]: expected %d, got %d", j, w, got)
		}
	}
	if Default.MDS[StateSize+0].Uint64() != 20 || Default.MDS[StateSize+1].Uint64() != 17 {
		t.Fatalf("second mds row is not a rotation of the first")
	}
}

func TestConstantsAreCanonical(t *testing.T) {
	tables := map[string][]uint64{
		"arc":       roundConstants[:],
		"optimized": optimizedArc[:],
		"mi":        optimizedMI[:],
		"v":         optimizedV[:],
		"what":      optimizedWHat[:],
	}
	for name, table := range tables {
		for i, c := range table {
			if c >= field.Modulus {
				t.Fatalf("%s[%d] = %#x is not canonical", name, i, c)
			}
		}
	}
}

func TestPartialRoundsOnlyTouchFirstLane(t *testing.T) {
	rF := FullRounds / 2
	for r := rF; r < rF+PartialRounds; r++ {
		for i := 1; i < StateSize; i++ {
			if !Default.Arc[r*StateSize+i].IsZero() {
				t.Fatalf("partial round %d carries a constant in lane %d", r, i)
			}
		}
	}
}

func TestValidateRejectsBrokenShapes(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(p *Parameters)
		want   string
	}{
		{"odd full rounds", func(p *Parameters) { p.FullRounds = 7 }, "must be even"},
		{"rate", func(p *Parameters) { p.Rate = 7 }, "rate"},
		{"digest", func(p *Parameters) { p.DigestSize = 9 }, "digest size"},
		{"arc", func(p *Parameters) { p.Arc = p.Arc[:len(p.Arc)-1] }, "arc length"},
		{"mds entry", func(p *Parameters) {
			p.MDS = append([]field.Element(nil), p.MDS...)
			p.MDS[5] = field.Add(p.MDS[5], field.One())
		}, "circulant form"},
		{"optimized arc", func(p *Parameters) { p.OptimizedArc = nil }, "optimized arc"},
		{"mi", func(p *Parameters) { p.OptimizedMDS.MI = p.OptimizedMDS.MI[1:] }, "M_i"},
		{"m00", func(p *Parameters) { p.OptimizedMDS.M00 = field.One() }, "M_00"},
		{"sparse", func(p *Parameters) { p.OptimizedMDS.VCollection = nil }, "sparse"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := *Default
			tc.mutate(&p)
			err := Validate(&p)
			if err == nil {
				t.Fatalf("expected an error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error containing %q, got %v", tc.want, err)
			}
		})
	}
}
