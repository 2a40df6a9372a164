package gbasis

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math/big"
	"testing"

	"github.com/jonathanmweiss/go-gbasis/field"
	"github.com/jonathanmweiss/go-gbasis/poly"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quiet() Option {
	return WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func newRing(t testing.TB, o poly.Order, vars ...string) *poly.Ring[*big.Rat] {
	r, err := poly.NewRing[*big.Rat](field.Q, o, vars...)
	require.NoError(t, err)

	return r
}

func parse(t testing.TB, r *poly.Ring[*big.Rat], texts ...string) []*poly.Polynomial[*big.Rat] {
	ps, err := poly.ParseAll(r, texts...)
	require.NoError(t, err)

	return ps
}

func strs[E any](ps []*poly.Polynomial[E]) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.String()
	}

	return out
}

var systems = map[string][]string{
	"twisted cubic": {"x^2 - y", "x*y - 1"},
	"cyclic3":       {"x + y + z", "x*y + y*z + z*x", "x*y*z - 1"},
	"katsura3":      {"x + 2*y + 2*z - 1", "x^2 + 2*y^2 + 2*z^2 - x", "2*x*y + 2*y*z - y"},
	"circle-line":   {"x^2 + y^2 + z^2 - 1", "x - y", "y - z^2"},
}

func TestGoldenBasis(t *testing.T) {
	a := assert.New(t)
	ctx := context.Background()

	r := newRing(t, poly.GradedRevLex, "x", "y")
	gens := parse(t, r, "x^2 - y", "x*y - 1")

	basis, err := ComputeGroebnerBasis(ctx, gens, poly.GradedRevLex, quiet())
	a.NoError(err)
	a.Equal([]string{"y^2 - x", "x*y - 1", "x^2 - y"}, strs(basis))

	lex, err := ComputeGroebnerBasis(ctx, gens, poly.Lex, quiet())
	a.NoError(err)
	a.Equal([]string{"y^3 - 1", "x - y^2"}, strs(lex))

	f5, err := ComputeGroebnerBasisF5(ctx, gens, poly.GradedRevLex, quiet())
	a.NoError(err)
	a.Equal(strs(basis), strs(f5))
}

func TestBasisProperties(t *testing.T) {
	ctx := context.Background()

	for name, texts := range systems {
		for _, order := range []poly.Order{poly.GradedRevLex, poly.GradedLex, poly.Lex} {
			t.Run(name+"/"+order.String(), func(t *testing.T) {
				a := assert.New(t)

				r := newRing(t, order, "x", "y", "z")
				gens := parse(t, r, texts...)

				basis, err := ComputeGroebnerBasis(ctx, gens, order, quiet())
				require.NoError(t, err)

				ok, err := IsGroebner(basis)
				a.NoError(err)
				a.True(ok)

				// every generator lies in the ideal of the basis
				for _, g := range gens {
					div, err := Reduce(g, basis)
					a.NoError(err)
					a.True(div.Remainder.IsZero(), "generator %s", g)
				}

				// reduced: monic and no term divisible by another leading monomial
				for i, g := range basis {
					a.True(g.Monic().Equal(g))

					for k, h := range basis {
						if k == i {
							continue
						}

						for j := range g.Len() {
							a.False(h.LM().Divides(g.Term(j).Mono), "%s reducible by %s", g, h)
						}
					}
				}

				again, err := ComputeGroebnerBasis(ctx, basis, order, quiet())
				a.NoError(err)
				a.Equal(strs(basis), strs(again))

				f5, err := ComputeGroebnerBasisF5(ctx, gens, order, quiet())
				a.NoError(err)
				a.Equal(strs(basis), strs(f5))

				par, err := ComputeGroebnerBasis(ctx, gens, order, quiet(), WithWorkers(4))
				a.NoError(err)
				a.Equal(strs(basis), strs(par))
			})
		}
	}
}

func TestCoprimeLeadingMonomials(t *testing.T) {
	a := assert.New(t)

	r := newRing(t, poly.GradedRevLex, "x", "y")
	gens := parse(t, r, "x^2 - 1", "y^3 - 2")

	res, err := ComputeBasisInternal(context.Background(), gens, poly.GradedRevLex, false, false, quiet())
	a.NoError(err)

	a.Equal([]string{"x^2 - 1", "y^3 - 2"}, strs(res.Basis))
	a.Equal(1, res.Stats.PairsCreated)
	a.Equal(1, res.Stats.CoprimePairs)
	a.Equal(0, res.Stats.Reductions)
	a.Equal(0, res.Stats.ZeroReductions)
	a.NotEmpty(res.Stats.ID)
}

func TestEmptyAndTrivialInput(t *testing.T) {
	a := assert.New(t)
	ctx := context.Background()

	basis, err := ComputeGroebnerBasis[*big.Rat](ctx, nil, poly.Lex, quiet())
	a.NoError(err)
	a.Empty(basis)

	r := newRing(t, poly.Lex, "x")
	basis, err = ComputeGroebnerBasis(ctx, parse(t, r, "0", "x - 1", "x - 2"), poly.Lex, quiet())
	a.NoError(err)
	a.Equal([]string{"1"}, strs(basis))
}

func TestIdealMembership(t *testing.T) {
	a := assert.New(t)

	r := newRing(t, poly.GradedRevLex, "x", "y")
	gens := parse(t, r, "x^2 - y", "x*y - 1")
	queries := parse(t, r, "y^2 - x", "x^3 - 1", "x + y", "0", "(x*y - 1)*(x + 7)")

	in, err := IdealMembership(context.Background(), gens, queries, poly.Lex, quiet())
	a.NoError(err)
	a.Equal([]bool{true, true, false, true, true}, in)

	basis, err := ComputeGroebnerBasis(context.Background(), gens, poly.GradedRevLex, quiet())
	a.NoError(err)

	targets := parse(t, r, "x^3 + y^3 + x", "y^2")

	// against the generators as given, y^2 and y^3 are left alone
	raw, err := ReduceAgainst(context.Background(), targets, gens, poly.GradedRevLex, quiet())
	a.NoError(err)
	a.Equal([]string{"y^3 + x + 1", "y^2"}, strs(raw))

	div, err := Reduce(targets[1], gens)
	a.NoError(err)
	a.True(div.Remainder.Equal(raw[1]))

	full, err := ReduceAgainst(context.Background(), targets, basis, poly.GradedRevLex, quiet())
	a.NoError(err)
	a.Equal([]string{"x + 2", "x"}, strs(full))
}

func TestReduceAgainstSkipsZeroGenerators(t *testing.T) {
	a := assert.New(t)

	r := newRing(t, poly.Lex, "x", "y")
	nfs, err := ReduceAgainst(context.Background(), parse(t, r, "x^2 + y", "y"), parse(t, r, "0", "x - 1"), poly.Lex, quiet())
	a.NoError(err)
	a.Equal([]string{"y + 1", "y"}, strs(nfs))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = ReduceAgainst(ctx, parse(t, r, "x"), parse(t, r, "x - 1"), poly.Lex, quiet())
	a.ErrorIs(err, ErrAborted)
}

func TestBadEliminationOrder(t *testing.T) {
	a := assert.New(t)
	ctx := context.Background()

	r := newRing(t, poly.GradedRevLex, "x", "y")
	gens := parse(t, r, "x^2 - y", "x*y - 1")

	_, err := ComputeGroebnerBasis(ctx, gens, poly.Elimination(5), quiet())
	a.ErrorIs(err, poly.ErrBadOrder)

	_, err = ComputeGroebnerBasisF5(ctx, gens, poly.Elimination(2), quiet())
	a.ErrorIs(err, poly.ErrBadOrder)

	_, err = ReduceAgainst(ctx, gens, gens, poly.Elimination(2), quiet())
	a.ErrorIs(err, poly.ErrBadOrder)

	_, err = IdealMembership(ctx, gens, gens, poly.Elimination(3), quiet())
	a.ErrorIs(err, poly.ErrBadOrder)

	basis, err := ComputeGroebnerBasis(ctx, gens, poly.Elimination(1), quiet())
	a.NoError(err)
	a.NotEmpty(basis)
}

func TestVariableMismatch(t *testing.T) {
	a := assert.New(t)

	gx := parse(t, newRing(t, poly.Lex, "x", "y"), "x - y")
	gz := parse(t, newRing(t, poly.Lex, "x", "z"), "x - z")

	_, err := ComputeGroebnerBasis(context.Background(), append(gx, gz...), poly.Lex, quiet())
	a.ErrorIs(err, ErrVariableMismatch)

	_, err = IdealMembership(context.Background(), gx, gz, poly.Lex, quiet())
	a.ErrorIs(err, ErrVariableMismatch)
}

func TestDegreeOverflow(t *testing.T) {
	a := assert.New(t)

	r := newRing(t, poly.Lex, "x", "y", "z")
	gens := parse(t, r, "x*z - y^20000", "x*y^20000 - 1")

	_, err := ComputeGroebnerBasis(context.Background(), gens, poly.Lex, quiet())
	a.ErrorIs(err, ErrDegreeOverflow)

	_, err = ComputeGroebnerBasisF5(context.Background(), gens, poly.Lex, quiet())
	a.ErrorIs(err, ErrDegreeOverflow)
}

func TestAbort(t *testing.T) {
	a := assert.New(t)

	r := newRing(t, poly.GradedRevLex, "x", "y", "z")
	gens := parse(t, r, systems["cyclic3"]...)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ComputeGroebnerBasis(ctx, gens, poly.GradedRevLex, quiet())
	a.ErrorIs(err, ErrAborted)
	a.ErrorIs(err, context.Canceled)

	_, err = ComputeGroebnerBasisF5(ctx, gens, poly.GradedRevLex, quiet())
	a.ErrorIs(err, ErrAborted)

	_, err = ComputeBasisInternal(ctx, gens, poly.GradedRevLex, true, true, quiet())
	a.ErrorIs(err, ErrAborted)
}

func TestAbortMidway(t *testing.T) {
	a := assert.New(t)

	r := newRing(t, poly.GradedRevLex, "x", "y", "z")
	gens := parse(t, r, systems["katsura3"]...)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	steps := 0
	_, err := ComputeGroebnerBasis(ctx, gens, poly.GradedRevLex, quiet(), WithObserver(func(Step) {
		steps++
		if steps == 2 {
			cancel()
		}
	}))

	a.ErrorIs(err, ErrAborted)
	a.Equal(2, steps)
}

func TestObserverAndStats(t *testing.T) {
	a := assert.New(t)

	r := newRing(t, poly.GradedRevLex, "x", "y", "z")
	gens := parse(t, r, systems["cyclic3"]...)

	var steps []Step
	res, err := ComputeBasisInternal(context.Background(), gens, poly.GradedRevLex, false, false, quiet(),
		WithObserver(func(s Step) { steps = append(steps, s) }))
	a.NoError(err)

	a.Len(steps, res.Stats.Steps)
	a.Equal(res.Stats.Reductions, res.Stats.Admitted+res.Stats.ZeroReductions)
	a.Equal(len(res.Basis), res.Stats.BasisSize)
	a.Equal("buchberger", res.Stats.Strategy)

	for i, s := range steps {
		a.Equal(i+1, s.Index)
	}
}

func TestOptions(t *testing.T) {
	a := assert.New(t)

	_, err := newConfig(WithWorkers(0))
	a.Error(err)

	_, err = newConfig(WithPrime(15))
	a.Error(err)

	cfg, err := newConfig(WithWorkers(3), WithPrime(7), WithSeed(42))
	a.NoError(err)
	a.Equal(3, cfg.workers)
	a.Equal(uint64(7), cfg.prime)
	a.NotNil(cfg.seed)
	a.NotNil(cfg.logger)
	a.NotNil(cfg.tracer)
}

func TestErrorsAreDistinct(t *testing.T) {
	errs := []error{ErrDegreeOverflow, ErrEmptyPolynomial, ErrNotZeroDimensional, ErrAborted,
		ErrVariableMismatch, ErrNoSeparatingForm, ErrCharacteristic, ErrModularMismatch}

	for i, e := range errs {
		for j, f := range errs {
			assert.Equal(t, i == j, errors.Is(e, f))
		}
	}
}
