// Package field wraps the gnark-crypto Goldilocks field, p = 2^64 - 2^32 + 1,
// with the value-style helpers the permutation is written against.
//
// Elements are kept in Montgomery form as goldilocks.Element does; FromRaw and
// Uint64 convert at the boundary. Every representation is fully reduced, so
// two elements are equal exactly when == says they are.
package field

import (
	"fmt"
	"math/big"
	"math/bits"
	"strconv"
	"strings"

	"github.com/consensys/gnark-crypto/field/goldilocks"
)

const (
	// Modulus is the Goldilocks prime 2^64 - 2^32 + 1.
	Modulus uint64 = 0xffffffff00000001

	// epsilon is 2^64 mod p.
	epsilon uint64 = 0xffffffff
)

// Element is a Goldilocks field element.
type Element goldilocks.Element

func (e *Element) fe() *goldilocks.Element {
	return (*goldilocks.Element)(e)
}

// Zero returns the additive identity.
func Zero() Element {
	return Element{}
}

// One returns the multiplicative identity.
func One() Element {
	return Element(goldilocks.One())
}

// FromRaw maps any 64-bit integer to its residue modulo p.
func FromRaw(v uint64) Element {
	return Element(goldilocks.NewElement(v))
}

// Uint64 returns the canonical representative of e in [0, p).
func (e Element) Uint64() uint64 {
	return e.fe().Uint64()
}

// IsZero reports whether e is the zero element.
func (e Element) IsZero() bool {
	return e.fe().IsZero()
}

// Equal reports whether e and o are the same field element.
func (e Element) Equal(o Element) bool {
	return e.fe().Equal(o.fe())
}

// String renders the canonical representative of e in decimal.
func (e Element) String() string {
	return strconv.FormatUint(e.Uint64(), 10)
}

// BigInt writes the canonical representative of e into res and returns it.
func (e Element) BigInt(res *big.Int) *big.Int {
	return e.fe().BigInt(res)
}

// Add returns a + b mod p.
func Add(a, b Element) Element {
	var z goldilocks.Element
	z.Add(a.fe(), b.fe())
	return Element(z)
}

// Sub returns a - b mod p.
func Sub(a, b Element) Element {
	var z goldilocks.Element
	z.Sub(a.fe(), b.fe())
	return Element(z)
}

// Neg returns -a mod p.
func Neg(a Element) Element {
	var z goldilocks.Element
	z.Neg(a.fe())
	return Element(z)
}

// Mul returns a * b mod p.
func Mul(a, b Element) Element {
	var z goldilocks.Element
	z.Mul(a.fe(), b.fe())
	return Element(z)
}

// Square returns a^2 mod p.
func Square(a Element) Element {
	var z goldilocks.Element
	z.Square(a.fe())
	return Element(z)
}

// Exp7 returns a^7, the Poseidon S-box. gcd(7, p-1) = 1 so the map is a
// permutation of the field.
func Exp7(a Element) Element {
	x := a.fe()
	var x2, x3, x4 goldilocks.Element
	x2.Square(x)
	x3.Mul(&x2, x)
	x4.Square(&x2)
	x4.Mul(&x4, &x3)
	return Element(x4)
}

// Exp returns a^k.
func Exp(a Element, k uint64) Element {
	var z goldilocks.Element
	z.Exp(goldilocks.Element(a), new(big.Int).SetUint64(k))
	return Element(z)
}

// Inverse returns a^-1, or zero when a is zero.
func Inverse(a Element) Element {
	var z goldilocks.Element
	z.Inverse(a.fe())
	return Element(z)
}

// FromRawSlice reduces every raw integer of in.
func FromRawSlice(in []uint64) []Element {
	out := make([]Element, len(in))
	for i, v := range in {
		out[i] = FromRaw(v)
	}
	return out
}

// ToUint64s returns the canonical representatives of in.
func ToUint64s(in []Element) []uint64 {
	out := make([]uint64, len(in))
	for i, e := range in {
		out[i] = e.Uint64()
	}
	return out
}

// ParseElement parses a decimal or 0x-prefixed hexadecimal integer and reduces
// it modulo p. Values wider than 64 bits are rejected.
func ParseElement(s string) (Element, error) {
	digits := strings.TrimSpace(s)
	base := 10
	if strings.HasPrefix(digits, "0x") || strings.HasPrefix(digits, "0X") {
		digits, base = digits[2:], 16
	}
	v, err := strconv.ParseUint(digits, base, 64)
	if err != nil {
		return Element{}, fmt.Errorf("field: invalid element %q: %w", s, err)
	}
	return FromRaw(v), nil
}

// Accumulator sums products of elements by small coefficients in 128 bits and
// reduces once. The caller keeps the total below 2^128, which holds for a
// handful of terms with coefficients far below 2^64.
//
// The Montgomery map x -> xR mod p is linear, so the stored words are summed
// directly and the reduced total is already the Montgomery form of the result.
type Accumulator struct {
	hi, lo uint64
}

// MulAdd adds x*c to the accumulator.
func (a *Accumulator) MulAdd(x Element, c uint64) {
	hi, lo := bits.Mul64(x[0], c)
	var carry uint64
	a.lo, carry = bits.Add64(a.lo, lo, 0)
	a.hi += hi + carry
}

// Reduce returns the accumulated value modulo p.
func (a *Accumulator) Reduce() Element {
	return Element{reduce128(a.hi, a.lo)}
}

// reduce128 reduces hi*2^64 + lo modulo p, using 2^64 = 2^32 - 1 and
// 2^96 = -1 (mod p).
func reduce128(hi, lo uint64) uint64 {
	hiHi := hi >> 32
	hiLo := hi & epsilon

	t0, borrow := bits.Sub64(lo, hiHi, 0)
	if borrow != 0 {
		t0 -= epsilon
	}
	// hiLo * 2^64 = hiLo * epsilon, which fits in 64 bits.
	t1 := hiLo * epsilon

	t2, carry := bits.Add64(t0, t1, 0)
	if carry != 0 {
		t2 += epsilon
	}
	if t2 >= Modulus {
		t2 -= Modulus
	}
	return t2
}
