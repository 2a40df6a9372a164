package gbasis

import (
	"context"
	"math/big"
	"testing"

	"github.com/jonathanmweiss/go-gbasis/field"
	"github.com/jonathanmweiss/go-gbasis/poly"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModularGuidedMatchesExact(t *testing.T) {
	ctx := context.Background()

	for name, texts := range systems {
		t.Run(name, func(t *testing.T) {
			a := assert.New(t)

			r := newRing(t, poly.GradedRevLex, "x", "y", "z")
			gens := parse(t, r, texts...)

			exact, err := ComputeBasisInternal(ctx, gens, poly.GradedRevLex, false, false, quiet())
			require.NoError(t, err)

			guided, err := ComputeBasisInternal(ctx, gens, poly.GradedRevLex, true, false, quiet())
			require.NoError(t, err)

			a.Equal(strs(exact.Basis), strs(guided.Basis))
			a.NotZero(guided.Stats.Prime)
			a.False(guided.Stats.ModularFallback)
			a.LessOrEqual(guided.Stats.Reductions, exact.Stats.Reductions)
			a.Equal(exact.Stats.ZeroReductions, guided.Stats.SkippedByTrace)
		})
	}
}

func TestModularPrimeIsDeterministic(t *testing.T) {
	a := assert.New(t)
	ctx := context.Background()

	r := newRing(t, poly.GradedRevLex, "x", "y")
	gens := parse(t, r, "x^2 - y/3", "5*x*y - 1")

	first, err := ComputeBasisInternal(ctx, gens, poly.GradedRevLex, true, false, quiet())
	a.NoError(err)

	second, err := ComputeBasisInternal(ctx, gens, poly.GradedRevLex, true, false, quiet())
	a.NoError(err)

	a.Equal(first.Stats.Prime, second.Stats.Prime)

	primes, err := field.Primes(modularCandidates)
	a.NoError(err)
	a.Contains(primes, first.Stats.Prime)
}

func TestUnluckyPrimeFallsBack(t *testing.T) {
	a := assert.New(t)
	ctx := context.Background()

	// modulo 7 the S-polynomial -7*y^2 vanishes, so the trace skips a pair
	// whose exact S-polynomial survives.
	r := newRing(t, poly.GradedRevLex, "x", "y")
	gens := parse(t, r, "x^2 - 7*y", "x*y")

	res, err := ComputeBasisInternal(ctx, gens, poly.GradedRevLex, true, false, quiet(), WithPrime(7))
	a.NoError(err)

	a.Equal([]string{"y^2", "x*y", "x^2 - 7*y"}, strs(res.Basis))
	a.True(res.Stats.ModularFallback)
	a.Equal(uint64(7), res.Stats.Prime)
	a.Zero(res.Stats.SkippedByTrace)
}

func TestForcedPrimeDividingLeadingCoefficient(t *testing.T) {
	a := assert.New(t)
	ctx := context.Background()

	r := newRing(t, poly.GradedRevLex, "x", "y")
	gens := parse(t, r, "7*x^2 - y", "x*y - 1")

	// the modular run is refused and the exact path answers
	res, err := ComputeBasisInternal(ctx, gens, poly.GradedRevLex, true, false, quiet(), WithPrime(7))
	a.NoError(err)
	a.Zero(res.Stats.Prime)
	a.Equal(3, len(res.Basis))
}

func TestReduceModP(t *testing.T) {
	a := assert.New(t)

	pf, err := field.NewPrimeField(5)
	require.NoError(t, err)

	r := newRing(t, poly.GradedRevLex, "x", "y")

	imgs, ok := reduceModP[*big.Rat](field.Q, pf, parse(t, r, "x^2 + 6*y", "x*y/2 - 1"))
	a.True(ok)
	a.Equal([]string{"x^2 + y", "3*x*y + 4"}, strs(imgs))

	_, ok = reduceModP[*big.Rat](field.Q, pf, parse(t, r, "x^2/5 + y"))
	a.False(ok)

	_, ok = reduceModP[*big.Rat](field.Q, pf, parse(t, r, "5*x^2 + y"))
	a.False(ok)
}

func TestCertifyRejectsSurvivingPair(t *testing.T) {
	r := newRing(t, poly.GradedRevLex, "x", "y")
	gs := parse(t, r, "x^2 - y", "x*y - 1")

	s, err := SPolynomial(gs[0], gs[1])
	require.NoError(t, err)

	skipped := []*job[*big.Rat]{{key: pairKey{0, 1}, spoly: s}}

	assert.ErrorIs(t, certify(skipped, gs), ErrModularMismatch)
	assert.NoError(t, certify(skipped, append(gs, parse(t, r, "y^2 - x")...)))
}
