package poly

import (
	"errors"
	"fmt"
	"slices"

	"github.com/jonathanmweiss/go-gbasis/field"
)

var (
	// ErrDegreeOverflow reports an exponent >= MaxDegree or more than MaxVars variables.
	ErrDegreeOverflow = errors.New("degree overflow")
	// ErrEmptyPolynomial reports access to the leading term of the zero polynomial.
	ErrEmptyPolynomial = errors.New("empty polynomial")
	// ErrRingMismatch reports polynomials from incompatible rings.
	ErrRingMismatch = errors.New("polynomials belong to different rings")
	ErrParse        = errors.New("parse error")
	ErrBadOrder     = errors.New("invalid monomial order")
)

// Ring is a polynomial ring over a field, with named variables and a monomial order.
type Ring[E any] struct {
	field field.Field[E]
	order Order
	vars  []string
}

func NewRing[E any](f field.Field[E], order Order, vars ...string) (*Ring[E], error) {
	if len(vars) > MaxVars {
		return nil, fmt.Errorf("%w: %d variables, at most %d supported", ErrDegreeOverflow, len(vars), MaxVars)
	}

	if err := order.Check(len(vars)); err != nil {
		return nil, err
	}

	return &Ring[E]{
		field: f,
		order: order,
		vars:  slices.Clone(vars),
	}, nil
}

func (r *Ring[E]) Field() field.Field[E] { return r.field }
func (r *Ring[E]) Order() Order          { return r.order }
func (r *Ring[E]) NVars() int            { return len(r.vars) }
func (r *Ring[E]) Vars() []string        { return slices.Clone(r.vars) }

// WithOrder returns the same ring under another monomial order.
func (r *Ring[E]) WithOrder(o Order) *Ring[E] {
	if o == r.order {
		return r
	}

	return &Ring[E]{field: r.field, order: o, vars: r.vars}
}

// SameVariables reports whether both rings use the same variables.
func (r *Ring[E]) SameVariables(o *Ring[E]) bool {
	return slices.Equal(r.vars, o.vars)
}

func (r *Ring[E]) Zero() *Polynomial[E] {
	return &Polynomial[E]{ring: r}
}

func (r *Ring[E]) One() *Polynomial[E] {
	return r.Constant(r.field.One())
}

func (r *Ring[E]) Constant(c E) *Polynomial[E] {
	if r.field.IsZero(c) {
		return r.Zero()
	}

	return &Polynomial[E]{ring: r, terms: []Term[E]{{Coeff: c}}}
}

// Variable returns the polynomial x_i.
func (r *Ring[E]) Variable(i int) *Polynomial[E] {
	var m Monomial
	m.exps[i] = 1
	m.deg = 1

	return &Polynomial[E]{ring: r, terms: []Term[E]{{Coeff: r.field.One(), Mono: m}}}
}

// NewPolynomial sorts the terms, merges equal monomials and drops zero coefficients.
func (r *Ring[E]) NewPolynomial(terms []Term[E]) *Polynomial[E] {
	ts := slices.Clone(terms)
	slices.SortStableFunc(ts, func(a, b Term[E]) int {
		return r.order.Compare(b.Mono, a.Mono)
	})

	out := ts[:0]
	for _, t := range ts {
		if n := len(out); n > 0 && out[n-1].Mono == t.Mono {
			out[n-1].Coeff = r.field.Add(out[n-1].Coeff, t.Coeff)
			continue
		}

		out = append(out, t)
	}

	kept := out[:0]
	for _, t := range out {
		if !r.field.IsZero(t.Coeff) {
			kept = append(kept, t)
		}
	}

	return &Polynomial[E]{ring: r, terms: kept}
}

// Term is a coefficient times a monomial.
type Term[E any] struct {
	Coeff E
	Mono  Monomial
}
