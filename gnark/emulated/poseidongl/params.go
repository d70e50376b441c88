package poseidongl

import (
	"math/big"

	"github.com/consensys/gnark/std/math/emulated"
	"github.com/consensys/gnark/std/math/emulated/emparams"

	"github.com/vocdoni/poseidongl/field"
)

// FieldParams defines the emulated parameters for the Goldilocks field.
type FieldParams = emparams.Goldilocks

// Element is an emulated Goldilocks element.
type Element = emulated.Element[FieldParams]

// ValueOf returns the witness assignment of a native Goldilocks element.
func ValueOf(e field.Element) Element {
	return emulated.ValueOf[FieldParams](e.BigInt(new(big.Int)))
}

func constElement(f *emulated.Field[FieldParams], fe field.Element) *Element {
	return f.NewElement(fe.BigInt(new(big.Int)))
}
