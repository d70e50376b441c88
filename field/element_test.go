package field

import (
	"math"
	"math/big"
	"math/rand/v2"
	"testing"

	"github.com/consensys/gnark-crypto/field/goldilocks"
	"github.com/stretchr/testify/require"
)

// inverse of 7 modulo p-1
const exp7Inverse uint64 = 10540996611094048183

func TestModulus(t *testing.T) {
	require.Equal(t, goldilocks.Modulus().Uint64(), Modulus)
}

func TestFromRawCanonical(t *testing.T) {
	cases := []struct {
		name string
		in   uint64
		want uint64
	}{
		{"zero", 0, 0},
		{"one", 1, 1},
		{"p-1", Modulus - 1, Modulus - 1},
		{"p", Modulus, 0},
		{"p+1", Modulus + 1, 1},
		{"max", math.MaxUint64, math.MaxUint64 - Modulus},
		{"mid", 12345, 12345},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := FromRaw(tc.in)
			got := e.Uint64()
			require.Equal(t, tc.want, got)
			require.Less(t, got, Modulus)
			require.Equal(t, new(big.Int).Mod(new(big.Int).SetUint64(tc.in), modulusBig()).Uint64(), got)

			lib := goldilocks.NewElement(tc.in)
			require.Equal(t, lib.Uint64(), got)
			require.Equal(t, Element(lib), e)
		})
	}
}

func TestStringIsCanonical(t *testing.T) {
	// the library renders small negatives with a minus sign
	require.Equal(t, "18446744069414584320", FromRaw(Modulus-1).String())
	require.Equal(t, "18446744069414584316", FromRaw(Modulus-5).String())
	require.Equal(t, "0", Zero().String())
	require.Equal(t, "1", One().String())
}

func TestArithmeticEdges(t *testing.T) {
	pm1 := FromRaw(Modulus - 1)
	require.Equal(t, Zero(), Add(pm1, One()))
	require.Equal(t, pm1, Sub(Zero(), One()))
	require.Equal(t, One(), Mul(pm1, pm1))
	require.Equal(t, FromRaw(Modulus-2), Add(pm1, pm1))
	require.Equal(t, Zero(), Neg(Zero()))
	require.Equal(t, pm1, Neg(One()))
	require.Equal(t, Zero(), Inverse(Zero()))
	require.Equal(t, One(), Mul(Inverse(pm1), pm1))
	require.True(t, Zero().IsZero())
	require.False(t, One().IsZero())
	require.True(t, pm1.Equal(Neg(One())))
}

func TestReduce128(t *testing.T) {
	// 2^64 reduces to epsilon
	require.Equal(t, epsilon, reduce128(1, 0))
	// 2^96 reduces to -1
	require.Equal(t, Modulus-1, reduce128(1<<32, 0))

	rng := rand.New(rand.NewPCG(3, 4))
	mod := modulusBig()
	for i := 0; i < 2000; i++ {
		hi, lo := rng.Uint64(), rng.Uint64()
		if i == 0 {
			hi, lo = math.MaxUint64, math.MaxUint64
		}
		x := new(big.Int).Lsh(new(big.Int).SetUint64(hi), 64)
		x.Or(x, new(big.Int).SetUint64(lo))
		require.Equal(t, x.Mod(x, mod).Uint64(), reduce128(hi, lo))
	}
}

func TestMatchesBigInt(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	mod := modulusBig()
	for i := 0; i < 2000; i++ {
		a, b := randomElement(rng), randomElement(rng)
		ba, bb := a.BigInt(new(big.Int)), b.BigInt(new(big.Int))

		require.Equal(t, new(big.Int).Mod(new(big.Int).Add(ba, bb), mod).Uint64(), Add(a, b).Uint64(), "add %s %s", a, b)
		require.Equal(t, new(big.Int).Mod(new(big.Int).Sub(ba, bb), mod).Uint64(), Sub(a, b).Uint64(), "sub %s %s", a, b)
		require.Equal(t, new(big.Int).Mod(new(big.Int).Mul(ba, bb), mod).Uint64(), Mul(a, b).Uint64(), "mul %s %s", a, b)
		require.Equal(t, new(big.Int).Mod(new(big.Int).Neg(ba), mod).Uint64(), Neg(a).Uint64(), "neg %s", a)
		require.Equal(t, Mul(a, a), Square(a))
		require.Equal(t, new(big.Int).Exp(ba, big.NewInt(7), mod).Uint64(), Exp7(a).Uint64(), "exp7 %s", a)

		k := rng.Uint64()
		require.Equal(t, new(big.Int).Exp(ba, new(big.Int).SetUint64(k), mod).Uint64(), Exp(a, k).Uint64())

		if !a.IsZero() {
			inv := new(big.Int).ModInverse(ba, mod)
			require.Equal(t, inv.Uint64(), Inverse(a).Uint64(), "inverse %s", a)
		}
	}
}

func TestExp7IsInvertible(t *testing.T) {
	rng := rand.New(rand.NewPCG(5, 6))
	for i := 0; i < 200; i++ {
		a := randomElement(rng)
		require.Equal(t, a, Exp(Exp7(a), exp7Inverse))
	}
}

func TestAccumulator(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 8))
	for i := 0; i < 500; i++ {
		var acc Accumulator
		want := Zero()
		for j := 0; j < 13; j++ {
			x := randomElement(rng)
			c := rng.Uint64N(64)
			acc.MulAdd(x, c)
			want = Add(want, Mul(x, FromRaw(c)))
		}
		require.Equal(t, want, acc.Reduce())
	}
}

func TestParseElement(t *testing.T) {
	cases := []struct {
		in      string
		want    uint64
		wantErr bool
	}{
		{in: "0", want: 0},
		{in: " 42 ", want: 42},
		{in: "0x10", want: 16},
		{in: "0XFFFFFFFF00000001", want: 0},
		{in: "18446744073709551615", want: math.MaxUint64 - Modulus},
		{in: "18446744073709551616", wantErr: true},
		{in: "-1", wantErr: true},
		{in: "0xzz", wantErr: true},
	}
	for _, tc := range cases {
		got, err := ParseElement(tc.in)
		if tc.wantErr {
			require.Error(t, err, tc.in)
			continue
		}
		require.NoError(t, err, tc.in)
		require.Equal(t, tc.want, got.Uint64(), tc.in)
	}
}

func TestParseElementQuotesInput(t *testing.T) {
	_, err := ParseElement("0xzz")
	require.ErrorContains(t, err, `"0xzz"`)

	_, err = ParseElement(" 12a ")
	require.ErrorContains(t, err, `" 12a "`)
}

func TestSliceConversions(t *testing.T) {
	raw := []uint64{0, Modulus - 1, Modulus, math.MaxUint64}
	got := ToUint64s(FromRawSlice(raw))
	require.Equal(t, []uint64{0, Modulus - 1, 0, math.MaxUint64 - Modulus}, got)
	require.Empty(t, FromRawSlice(nil))
}

func BenchmarkMul(b *testing.B) {
	x, y := FromRaw(0x123456789abcdef0), FromRaw(0x0fedcba987654321)
	for i := 0; i < b.N; i++ {
		x = Mul(x, y)
	}
	_ = x
}

func BenchmarkExp7(b *testing.B) {
	x := FromRaw(0x123456789abcdef0)
	for i := 0; i < b.N; i++ {
		x = Exp7(x)
	}
	_ = x
}

func randomElement(rng *rand.Rand) Element {
	// bias towards the edges of the range now and then
	switch rng.IntN(16) {
	case 0:
		return FromRaw(Modulus - 1 - rng.Uint64N(4))
	case 1:
		return FromRaw(rng.Uint64N(4))
	default:
		return FromRaw(rng.Uint64())
	}
}

func modulusBig() *big.Int {
	return new(big.Int).SetUint64(Modulus)
}
