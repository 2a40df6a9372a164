package field

import (
	"math/big"
)

// Rationals is the field Q with *big.Rat elements.
// Results are always freshly allocated, so elements can be shared freely.
type Rationals struct{}

// Q is the shared rational field instance.
var Q = Rationals{}

func (Rationals) Zero() *big.Rat { return new(big.Rat) }
func (Rationals) One() *big.Rat  { return big.NewRat(1, 1) }

func (Rationals) FromInt64(v int64) *big.Rat { return big.NewRat(v, 1) }

func (Rationals) IsZero(a *big.Rat) bool { return a.Sign() == 0 }

func (Rationals) Equal(a, b *big.Rat) bool { return a.Cmp(b) == 0 }

func (Rationals) Add(a, b *big.Rat) *big.Rat { return new(big.Rat).Add(a, b) }
func (Rationals) Sub(a, b *big.Rat) *big.Rat { return new(big.Rat).Sub(a, b) }
func (Rationals) Mul(a, b *big.Rat) *big.Rat { return new(big.Rat).Mul(a, b) }
func (Rationals) Neg(a *big.Rat) *big.Rat    { return new(big.Rat).Neg(a) }

func (Rationals) Inverse(a *big.Rat) *big.Rat {
	if a.Sign() == 0 {
		panic("zero has no inverse")
	}

	return new(big.Rat).Inv(a)
}

func (Rationals) Characteristic() uint64 { return 0 }

func (Rationals) Format(a *big.Rat) string { return a.RatString() }

// ToPrime maps a/b to a * b^-1 mod p. It fails when p divides b.
func (Rationals) ToPrime(pf *PrimeField, a *big.Rat) (uint64, bool) {
	p := new(big.Int).SetUint64(pf.Modulus())

	den := new(big.Int).Mod(a.Denom(), p)
	if den.Sign() == 0 {
		return 0, false
	}

	num := new(big.Int).Mod(a.Num(), p)

	return pf.Mul(num.Uint64(), pf.Inverse(den.Uint64())), true
}

// DenominatorLCM returns the lcm of the denominators of xs.
func DenominatorLCM(xs []*big.Rat) *big.Int {
	l := big.NewInt(1)
	g := new(big.Int)

	for _, x := range xs {
		d := x.Denom()
		g.GCD(nil, nil, l, d)
		l.Mul(l, new(big.Int).Quo(d, g))
	}

	return l
}
