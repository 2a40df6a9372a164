// Package gbasis computes Groebner bases of polynomial ideals.
//
// Two completion strategies are offered: Buchberger's algorithm with the
// normal selection strategy and the Gebauer–Möller criteria, and a
// signature-based algorithm of the F5 family. Over the rationals the classic
// strategy can be guided by a run modulo a prime. Zero-dimensional ideals can
// be solved through a rational univariate representation.
//
// Every result is the reduced Groebner basis: monic, interreduced and sorted
// ascending by leading monomial.
package gbasis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jonathanmweiss/go-gbasis/field"
	"github.com/jonathanmweiss/go-gbasis/poly"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Result bundles a basis computation with its optional extras.
type Result[E any] struct {
	Basis []*poly.Polynomial[E]
	// RUR is set when requested and the ideal is zero-dimensional.
	RUR   *RUR[E]
	Stats Stats
}

// ComputeGroebnerBasis returns the reduced Groebner basis of the ideal
// generated by gens, under order, using Buchberger's algorithm.
func ComputeGroebnerBasis[E any](ctx context.Context, gens []*poly.Polynomial[E], order poly.Order, opts ...Option) ([]*poly.Polynomial[E], error) {
	res, err := ComputeBasisInternal(ctx, gens, order, false, false, opts...)
	if err != nil {
		return nil, err
	}

	return res.Basis, nil
}

// ComputeGroebnerBasisF5 is ComputeGroebnerBasis with the signature-based strategy.
func ComputeGroebnerBasisF5[E any](ctx context.Context, gens []*poly.Polynomial[E], order poly.Order, opts ...Option) ([]*poly.Polynomial[E], error) {
	res, err := ComputeBasisF5(ctx, gens, order, opts...)
	if err != nil {
		return nil, err
	}

	return res.Basis, nil
}

// ComputeBasisF5 runs the signature-based strategy and reports its statistics,
// including the pairs the syzygy and rewrite criteria discarded.
func ComputeBasisF5[E any](ctx context.Context, gens []*poly.Polynomial[E], order poly.Order, opts ...Option) (*Result[E], error) {
	cfg, err := newConfig(opts...)
	if err != nil {
		return nil, err
	}

	r, in, err := prepare(gens, order)
	if err != nil {
		return nil, err
	}

	return compute(ctx, cfg, r, in, "f5", func(ctx context.Context, log *slog.Logger, st *Stats) ([]*poly.Polynomial[E], error) {
		d := newDriver[E](cfg, newF5[E](order), log)
		d.observe = cfg.observer

		b, err := d.run(ctx, in)
		*st = d.stats

		return b, err
	})
}

// ComputeBasisInternal runs the classic strategy. With modularCheck set and a
// coefficient field that maps into prime fields, a modular run guides the
// exact one; a disagreement silently falls back to the plain exact run.
// With wantRUR set the rational univariate representation is computed too,
// failing with ErrNotZeroDimensional for ideals with infinitely many solutions.
func ComputeBasisInternal[E any](ctx context.Context, gens []*poly.Polynomial[E], order poly.Order, modularCheck, wantRUR bool, opts ...Option) (*Result[E], error) {
	cfg, err := newConfig(opts...)
	if err != nil {
		return nil, err
	}

	r, in, err := prepare(gens, order)
	if err != nil {
		return nil, err
	}

	res, err := compute(ctx, cfg, r, in, "buchberger", func(ctx context.Context, log *slog.Logger, st *Stats) ([]*poly.Polynomial[E], error) {
		return completeClassic(ctx, cfg, log, in, modularCheck, st)
	})
	if err != nil {
		return nil, err
	}

	if wantRUR {
		if r == nil {
			return nil, fmt.Errorf("%w: no generators", ErrNotZeroDimensional)
		}

		if res.RUR, err = computeRUR(r, res.Basis); err != nil {
			return nil, err
		}
	}

	return res, nil
}

// IdealMembership reports, for every query, whether it lies in the ideal
// generated by gens. The generators are completed first, so the answer does
// not depend on them being a Groebner basis.
func IdealMembership[E any](ctx context.Context, gens, queries []*poly.Polynomial[E], order poly.Order, opts ...Option) ([]bool, error) {
	qs, err := sameRing(queries, gens, order)
	if err != nil {
		return nil, err
	}

	basis, err := ComputeGroebnerBasis(ctx, gens, order, opts...)
	if err != nil {
		return nil, err
	}

	lms := leadingMonomials(basis)

	out := make([]bool, len(qs))
	for i, q := range qs {
		nf, err := normalForm(q, basis, lms, true)
		if err != nil {
			return nil, err
		}

		out[i] = nf.IsZero()
	}

	return out, nil
}

// ReduceAgainst returns the normal forms of targets against gens as given,
// in the ring ordered by order. The divisor is always the first generator
// whose leading monomial divides the current term. Remainders are unique
// only when gens is a Groebner basis for order.
func ReduceAgainst[E any](ctx context.Context, targets, gens []*poly.Polynomial[E], order poly.Order, opts ...Option) ([]*poly.Polynomial[E], error) {
	if _, err := newConfig(opts...); err != nil {
		return nil, err
	}

	ts, err := sameRing(targets, gens, order)
	if err != nil {
		return nil, err
	}

	_, divs, err := prepare(gens, order)
	if err != nil {
		return nil, err
	}

	lms := leadingMonomials(divs)

	out := make([]*poly.Polynomial[E], len(ts))
	for i, t := range ts {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrAborted, err)
		}

		if out[i], err = normalForm(t, divs, lms, true); err != nil {
			return nil, err
		}
	}

	return out, nil
}

// sameRing checks targets and gens together and returns the targets moved to order.
func sameRing[E any](targets, gens []*poly.Polynomial[E], order poly.Order) ([]*poly.Polynomial[E], error) {
	all := append(append([]*poly.Polynomial[E](nil), gens...), targets...)

	_, out, err := prepare(all, order)
	if err != nil {
		return nil, err
	}

	return out[len(gens):], nil
}

// prepare checks that all polynomials share one variable list and moves them
// to the requested order. The ring is nil when there are no polynomials.
func prepare[E any](gens []*poly.Polynomial[E], order poly.Order) (*poly.Ring[E], []*poly.Polynomial[E], error) {
	if len(gens) == 0 {
		return nil, nil, nil
	}

	src := gens[0].Ring()
	for i, g := range gens[1:] {
		if !src.SameVariables(g.Ring()) {
			return nil, nil, fmt.Errorf("%w: generator %d uses %v, generator 0 uses %v", ErrVariableMismatch, i+1, g.Ring().Vars(), src.Vars())
		}
	}

	if err := order.Check(src.NVars()); err != nil {
		return nil, nil, err
	}

	r := src.WithOrder(order)

	out := make([]*poly.Polynomial[E], len(gens))
	for i, g := range gens {
		out[i] = g.Convert(r)
	}

	return r, out, nil
}

type completion[E any] func(ctx context.Context, log *slog.Logger, st *Stats) ([]*poly.Polynomial[E], error)

// compute wraps a completion with its span, logging, and final interreduction.
func compute[E any](ctx context.Context, cfg *config, r *poly.Ring[E], gens []*poly.Polynomial[E], name string, run completion[E]) (*Result[E], error) {
	id := uuid.New().String()
	log := cfg.logger.With(slog.String("computation_id", id), slog.String("strategy", name))

	attrs := []attribute.KeyValue{
		attribute.String("computation_id", id),
		attribute.String("strategy", name),
		attribute.Int("generators", len(gens)),
		attribute.Int("workers", cfg.workers),
	}
	if r != nil {
		attrs = append(attrs,
			attribute.String("order", r.Order().String()),
			attribute.Int("variables", r.NVars()),
		)
	}

	ctx, span := cfg.tracer.Start(ctx, "gbasis.Compute", trace.WithAttributes(attrs...))
	defer span.End()

	var st Stats

	basis, err := run(ctx, log, &st)
	if err == nil {
		basis, err = Interreduce(basis)
	}

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "basis computation failed")
		log.Debug("basis computation failed", slog.String("error", err.Error()))

		return nil, err
	}

	st.ID = id
	st.Strategy = name
	st.BasisSize = len(basis)

	span.SetAttributes(
		attribute.Int("basis_size", st.BasisSize),
		attribute.Int("steps", st.Steps),
		attribute.Int("zero_reductions", st.ZeroReductions),
	)

	log.Info("basis complete",
		slog.Int("basis", st.BasisSize),
		slog.Int("steps", st.Steps),
		slog.Int("pairs", st.PairsCreated),
		slog.Int("zero_reductions", st.ZeroReductions),
		slog.Duration("elapsed", st.Elapsed),
	)

	return &Result[E]{Basis: basis, Stats: st}, nil
}

// completeClassic runs Buchberger's algorithm, first under the guidance of a
// modular trace when asked for and possible.
func completeClassic[E any](ctx context.Context, cfg *config, log *slog.Logger, gens []*poly.Polynomial[E], modularCheck bool, st *Stats) ([]*poly.Polynomial[E], error) {
	exact := func() ([]*poly.Polynomial[E], error) {
		d := newDriver[E](cfg, newClassic[E](), log)
		d.observe = cfg.observer

		b, err := d.run(ctx, gens)
		prime, fallback := st.Prime, st.ModularFallback
		*st = d.stats
		st.Prime, st.ModularFallback = prime, fallback

		return b, err
	}

	if !modularCheck || len(gens) == 0 {
		return exact()
	}

	red, ok := gens[0].Ring().Field().(field.PrimeReducer[E])
	if !ok {
		log.Debug("field has no prime images, skipping the modular run")
		return exact()
	}

	tr, err := runModular(ctx, cfg, red, gens)
	switch {
	case errors.Is(err, ErrAborted):
		return nil, err
	case err != nil:
		log.Warn("modular run failed, computing exactly", slog.String("error", err.Error()))
		return exact()
	}

	d := newDriver[E](cfg, newClassic[E](), log.With(slog.Uint64("prime", tr.prime)))
	d.guide = tr
	d.observe = cfg.observer

	basis, err := d.run(ctx, gens)
	if err == nil {
		err = certify(d.skipped, basis)
	}

	if err == nil {
		*st = d.stats
		st.Prime = tr.prime

		return basis, nil
	}

	if !errors.Is(err, ErrModularMismatch) {
		return nil, err
	}

	log.Warn("modular trace rejected, computing exactly",
		slog.Uint64("prime", tr.prime),
		slog.String("error", err.Error()),
	)

	st.Prime = tr.prime
	st.ModularFallback = true

	return exact()
}
