package field

import (
	"fmt"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const largePrime = 9191248642791733759

func newTestRing(t testing.TB, p uint64) (*PrimeField, *DensePolyRing[uint64]) {
	f, err := NewPrimeField(p)
	require.NoError(t, err)

	return f, NewDensePolyRing[uint64](f)
}

func TestPolyString(t *testing.T) {
	f, err := NewPrimeField(157)
	require.NoError(t, err)

	p := NewPolynomial[uint64](f, []uint64{1, 2, 0, 3})
	assert.Equal(t, "(3)*T^3 + (2)*T + (1)", p.String())
	assert.Equal(t, "0", NewPolynomial[uint64](f, []uint64{0, 0}).String())
}

func TestPolyAdd(t *testing.T) {
	a := assert.New(t)

	f, pr := newTestRing(t, 157)

	t.Run("sameSize", func(t *testing.T) {
		slice := []uint64{1, 2, 0, 3}

		p1 := NewPolynomial[uint64](f, slice)
		p2 := NewPolynomial[uint64](f, slice)

		sum := &Polynomial[uint64]{}
		pr.AddPoly(p1, p2, sum)

		a.Equal([]uint64{2, 4, 0, 6}, sum.ToSlice())
	})

	t.Run("differentSizes", func(t *testing.T) {
		p1 := NewPolynomial[uint64](f, []uint64{1, 2, 0, 3})
		p2 := NewPolynomial[uint64](f, []uint64{1, 2, 0})

		sum, sum2 := &Polynomial[uint64]{}, &Polynomial[uint64]{}
		pr.AddPoly(p1, p2, sum)
		pr.AddPoly(p2, p1, sum2)
		a.Equal([]uint64{2, 4, 0, 3}, sum.ToSlice())
		a.Equal([]uint64{2, 4, 0, 3}, sum2.ToSlice())
	})

	t.Run("WrapAroundElems", func(t *testing.T) {
		q := f.Modulus() - 1

		p1 := NewPolynomial[uint64](f, []uint64{q, q, q, q})
		p2 := NewPolynomial[uint64](f, []uint64{1, 1, 1, 1})

		sum := &Polynomial[uint64]{}
		pr.AddPoly(p1, p2, sum)
		a.True(sum.IsZero())
	})
}

func TestPolySub(t *testing.T) {
	a := assert.New(t)

	f, pr := newTestRing(t, 157)

	p1 := NewPolynomial[uint64](f, []uint64{1, 2, 0, 3})
	p2 := NewPolynomial[uint64](f, []uint64{1, 2, 0})

	diff := &Polynomial[uint64]{}
	pr.SubPoly(p1, p1, diff)
	a.True(diff.IsZero())

	pr.SubPoly(p1, p2, diff)
	a.Equal([]uint64{0, 0, 0, 3}, diff.ToSlice())

	pr.SubPoly(p2, p1, diff)
	a.Equal([]uint64{0, 0, 0, 154}, diff.ToSlice())
}

func TestPolyMul(t *testing.T) {
	a := assert.New(t)

	f, pr := newTestRing(t, 5)

	t.Run("sameSize", func(t *testing.T) {
		p1 := NewPolynomial[uint64](f, []uint64{1, 2, 3})

		prod := &Polynomial[uint64]{}
		pr.MulPoly(p1, p1, prod)

		a.Equal([]uint64{1, 4, 0, 2, 4}, prod.ToSlice())
	})

	t.Run("differentSizes", func(t *testing.T) {
		p1 := NewPolynomial[uint64](f, []uint64{1, 2, 0, 3})
		p2 := NewPolynomial[uint64](f, []uint64{1, 2, 0})

		prod, prod2 := &Polynomial[uint64]{}, &Polynomial[uint64]{}
		pr.MulPoly(p1, p2, prod)
		pr.MulPoly(p2, p1, prod2)
		a.Equal([]uint64{1, 4, 4, 3, 1}, prod.ToSlice())
		a.True(prod.Equals(prod2))
	})
}

func TestPolyMulNTTMatchesSchoolbook(t *testing.T) {
	ps, err := Primes(1)
	require.NoError(t, err)

	f, pr := newTestRing(t, ps[0])

	p1 := randomPolynomial(f, 12345, 100)
	p2 := randomPolynomial(f, 999, 70)

	fast := &Polynomial[uint64]{}
	pr.MulPoly(p1, p2, fast)

	// a ring over the same prime that never takes the NTT path.
	slow := schoolbook(f, p1, p2)

	assert.True(t, fast.Equals(slow))
}

func schoolbook(f *PrimeField, a, b *Polynomial[uint64]) *Polynomial[uint64] {
	out := make([]uint64, len(a.inner)+len(b.inner)-1)
	for i := range a.inner {
		for j := range b.inner {
			out[i+j] = f.Add(out[i+j], f.Mul(a.inner[i], b.inner[j]))
		}
	}

	return NewPolynomial[uint64](f, out)
}

func TestPolyLongDiv(t *testing.T) {
	a := assert.New(t)

	f, pr := newTestRing(t, 5)

	t.Run("simple", func(t *testing.T) {
		p1 := NewPolynomial[uint64](f, []uint64{1, 2, 3})

		quotient, remainder := pr.LongDiv(p1, p1)
		a.Equal([]uint64{1}, quotient.ToSlice())
		a.True(remainder.IsZero())
	})

	t.Run("differentSizes", func(t *testing.T) {
		p1 := NewPolynomial[uint64](f, []uint64{1, 2, 3})
		p2 := NewPolynomial[uint64](f, []uint64{1, 2})

		quotient, remainder := pr.LongDiv(p1, p2)
		a.Equal([]uint64{4, 4}, quotient.ToSlice())
		a.Equal([]uint64{2}, remainder.ToSlice())

		q, r := pr.LongDiv(p2, p1)
		a.True(p2.Equals(r))
		a.True(q.IsZero())

		p1 = NewPolynomial[uint64](f, []uint64{1, 2, 0, 0, 3})

		quotient, remainder = pr.LongDiv(p1, p2)
		a.Equal([]uint64{3, 1, 3, 4}, quotient.ToSlice())
		a.Equal([]uint64{3}, remainder.ToSlice())
	})

	t.Run("complex", func(t *testing.T) {
		p1 := NewPolynomial[uint64](f, []uint64{1, 0, 0, 0, 2, 3})
		p2 := NewPolynomial[uint64](f, []uint64{1, 0, 1, 0, 2})

		quotient, remainder := pr.LongDiv(p1, p2)
		a.Equal([]uint64{1, 4}, quotient.ToSlice())
		a.Equal([]uint64{0, 1, 4, 1}, remainder.ToSlice())
	})
}

func TestPolyEvaluation(t *testing.T) {
	a := assert.New(t)

	f, pr := newTestRing(t, 5)

	p := NewPolynomial[uint64](f, []uint64{1, 2, 3})

	// pairs of {x,p(x)}
	test := [][2]uint64{{1, 1}, {2, 2}, {3, 4}, {4, 2}}
	for _, tt := range test {
		a.Equal(tt[1], pr.Evaluate(p, tt[0]))
	}

	zero := NewPolynomial[uint64](f, []uint64{0, 0, 0})
	a.Equal(uint64(0), pr.Evaluate(zero, 3))
}

func rat(n, d int64) *big.Rat { return big.NewRat(n, d) }

func ratPoly(cs ...int64) *Polynomial[*big.Rat] {
	inner := make([]*big.Rat, len(cs))
	for i, c := range cs {
		inner[i] = rat(c, 1)
	}

	return NewPolynomial[*big.Rat](Q, inner)
}

func TestRationalGCDAndSquareFree(t *testing.T) {
	a := assert.New(t)
	pr := NewDensePolyRing[*big.Rat](Q)

	// (T-1)^2 (T+2) = T^3 - 3T + 2
	p := ratPoly(2, -3, 0, 1)

	g := pr.GCD(p, pr.Derivative(p))
	a.True(g.Equals(ratPoly(-1, 1)), g.String())

	sf := pr.SquareFree(p)
	// (T-1)(T+2) = T^2 + T - 2
	a.True(sf.Equals(ratPoly(-2, 1, 1)), sf.String())

	a.True(pr.GCD(ratPoly(), p).Equals(pr.Monic(p)))
}

func TestInverseMod(t *testing.T) {
	a := assert.New(t)
	pr := NewDensePolyRing[*big.Rat](Q)

	m := ratPoly(-2, 0, 1) // T^2 - 2
	x := ratPoly(1, 1)     // T + 1

	inv, err := pr.InverseMod(x, m)
	a.NoError(err)

	one := pr.MulMod(x, inv, m)
	a.True(one.Equals(ratPoly(1)), one.String())

	_, err = pr.InverseMod(ratPoly(0, 1, 1), ratPoly(0, 1)) // T^2+T mod T
	a.ErrorIs(err, ErrNotInvertible)
}

func TestPolyProductMonicNegRoots(t *testing.T) {
	pr := NewDensePolyRing[*big.Rat](Q)
	p := PolyProductMonicNegRoots[*big.Rat](Q, []*big.Rat{rat(1, 1), rat(2, 1), rat(3, 1)})

	assert.True(t, p.Equals(ratPoly(-6, 11, -6, 1)), p.String())
	assert.Equal(t, 0, pr.Evaluate(p, rat(2, 1)).Sign())
}

// Testing the correctness of the partial Extended Euclidean Algorithm
func FuzzPEEA(f *testing.F) {
	testcases := []uint64{1, 5, 1 << 62, (1 << 63) - 1}
	for _, tc := range testcases {
		f.Add(tc) // Use f.Add to provide a seed corpus
	}

	fld, err := NewPrimeField(largePrime)
	if err != nil {
		f.FailNow()
	}
	pr := NewDensePolyRing[uint64](fld)

	f.Fuzz(func(t *testing.T, randomSeed uint64) {
		maxDegree := 10
		randomPolynomialDegree := randomSeed % (uint64(maxDegree) - 1)

		a := randomPolynomial(fld, randomSeed, maxDegree)
		b := randomPolynomial(fld, randomSeed, int(randomPolynomialDegree))

		for i := 1; i < maxDegree-1; i++ {
			gcd, x, y := pr.PartialExtendedEuclidean(a, b, i)

			ax, by, sum := &Polynomial[uint64]{}, &Polynomial[uint64]{}, &Polynomial[uint64]{}
			pr.MulPoly(a, x, ax)
			pr.MulPoly(b, y, by)
			pr.AddPoly(ax, by, sum)

			if !sum.Equals(gcd) {
				t.Fatalf("expected %v, got %v", sum, gcd)
			}
		}
	})
}

func randomPolynomial(f *PrimeField, seed uint64, maxDegree int) *Polynomial[uint64] {
	coefficients := make([]uint64, maxDegree)
	for i := 0; i < maxDegree; i++ {
		coefficients[i] = f.Reduce(seed*2654435761 + uint64(i)*40503 + 1)
	}

	return NewPolynomial[uint64](f, coefficients)
}

func BenchmarkPolyDiv(b *testing.B) {
	f, pr := newTestRing(b, largePrime)

	p1 := randomPolynomial(f, largePrime/4, 8192)
	p2 := randomPolynomial(f, largePrime/4, 8192/2)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		pr.LongDiv(p1, p2)
	}
}

func BenchmarkPolyMul(b *testing.B) {
	ps, err := Primes(1)
	if err != nil {
		b.Fatal(err)
	}

	f, pr := newTestRing(b, ps[0])

	for _, n := range []int{32, 256, 2048} {
		p1 := randomPolynomial(f, 7, n)
		p2 := randomPolynomial(f, 11, n)

		b.Run(fmt.Sprintf("n=%d", n), func(b *testing.B) {
			out := &Polynomial[uint64]{}
			for i := 0; i < b.N; i++ {
				pr.MulPoly(p1, p2, out)
			}
		})
	}
}
