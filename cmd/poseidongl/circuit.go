package main

import (
	"fmt"
	"slices"
	"time"

	"github.com/consensys/gnark"
	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/constraint"
	"github.com/consensys/gnark/constraint/solver"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/frontend/cs/r1cs"
	"github.com/consensys/gnark/frontend/cs/scs"
	"github.com/consensys/gnark/std/math/emulated"

	"github.com/vocdoni/poseidongl"
	"github.com/vocdoni/poseidongl/field"
	emposeidon "github.com/vocdoni/poseidongl/gnark/emulated/poseidongl"
)

// spongeCircuit proves knowledge of len(Inputs) elements hashing to Digest.
type spongeCircuit struct {
	Inputs []emposeidon.Element
	Digest [poseidongl.DigestSize]emposeidon.Element `gnark:",public"`
}

func (c *spongeCircuit) Define(api frontend.API) error {
	f, err := emulated.NewField[emposeidon.FieldParams](api)
	if err != nil {
		return err
	}
	out, err := emposeidon.Hash(api, c.Inputs...)
	if err != nil {
		return err
	}
	for i := range out {
		f.AssertIsEqual(&out[i], &c.Digest[i])
	}
	return nil
}

// nodeCircuit proves a single hash-with-capacity evaluation.
type nodeCircuit struct {
	In       [poseidongl.Rate]emposeidon.Element
	Capacity [poseidongl.Capacity]emposeidon.Element
	Digest   [poseidongl.DigestSize]emposeidon.Element `gnark:",public"`
}

func (c *nodeCircuit) Define(api frontend.API) error {
	f, err := emulated.NewField[emposeidon.FieldParams](api)
	if err != nil {
		return err
	}
	out, err := emposeidon.HashWithCapacity(api, c.In, c.Capacity)
	if err != nil {
		return err
	}
	for i := range out {
		f.AssertIsEqual(&out[i], &c.Digest[i])
	}
	return nil
}

// circuitPair returns an empty circuit for compilation and a matching
// assignment built from the native hash of 1..n.
func circuitPair(n int, node bool) (frontend.Circuit, frontend.Circuit) {
	if node {
		var in [poseidongl.Rate]field.Element
		assignment := &nodeCircuit{}
		for i := range in {
			in[i] = field.FromRaw(uint64(i + 1))
			assignment.In[i] = emposeidon.ValueOf(in[i])
		}
		for i := range assignment.Capacity {
			assignment.Capacity[i] = emposeidon.ValueOf(field.Zero())
		}
		digest := poseidongl.HashWithCapacity(in, [poseidongl.Capacity]field.Element{})
		for i := range digest {
			assignment.Digest[i] = emposeidon.ValueOf(digest[i])
		}
		return &nodeCircuit{}, assignment
	}

	inputs := make([]field.Element, n)
	assignment := &spongeCircuit{Inputs: make([]emposeidon.Element, n)}
	for i := range inputs {
		inputs[i] = field.FromRaw(uint64(i + 1))
		assignment.Inputs[i] = emposeidon.ValueOf(inputs[i])
	}
	digest := poseidongl.Hash(inputs...)
	for i := range digest {
		assignment.Digest[i] = emposeidon.ValueOf(digest[i])
	}
	return &spongeCircuit{Inputs: make([]emposeidon.Element, n)}, assignment
}

// circuitStats summarises a compiled constraint system.
type circuitStats struct {
	Curve       ecc.ID
	Builder     string
	Constraints int
	Public      int
	Secret      int
	Internal    int
}

func (s circuitStats) String() string {
	return fmt.Sprintf("curve=%s builder=%s constraints=%d public=%d secret=%d internal=%d",
		s.Curve, s.Builder, s.Constraints, s.Public, s.Secret, s.Internal)
}

// compileCircuit compiles circuit over the scalar field of curve, and solves
// it against assignment when one is given.
func (c *cmd) compileCircuit(curve ecc.ID, plonk bool, circuit, assignment frontend.Circuit) (circuitStats, error) {
	stats := circuitStats{Curve: curve, Builder: "r1cs"}
	if !slices.Contains(gnark.Curves(), curve) {
		return stats, fmt.Errorf("curve %s is not supported by the circuit compiler", curve)
	}

	start := time.Now()
	var (
		ccs constraint.ConstraintSystem
		err error
	)
	if plonk {
		stats.Builder = "scs"
		ccs, err = frontend.Compile(curve.ScalarField(), scs.NewBuilder, circuit)
	} else {
		ccs, err = frontend.Compile(curve.ScalarField(), r1cs.NewBuilder, circuit)
	}
	if err != nil {
		return stats, fmt.Errorf("compile: %w", err)
	}
	stats.Constraints = ccs.GetNbConstraints()
	stats.Public = ccs.GetNbPublicVariables()
	stats.Secret = ccs.GetNbSecretVariables()
	stats.Internal = ccs.GetNbInternalVariables()
	c.log.Info().
		Stringer("curve", curve).
		Str("builder", stats.Builder).
		Int("constraints", stats.Constraints).
		Dur("took", time.Since(start)).
		Msg("circuit compiled")

	if assignment == nil {
		return stats, nil
	}
	w, err := frontend.NewWitness(assignment, curve.ScalarField())
	if err != nil {
		return stats, fmt.Errorf("witness: %w", err)
	}
	start = time.Now()
	if _, err := ccs.Solve(w, solver.WithLogger(c.log)); err != nil {
		return stats, fmt.Errorf("solve: %w", err)
	}
	c.log.Info().Dur("took", time.Since(start)).Msg("circuit solved")
	return stats, nil
}
