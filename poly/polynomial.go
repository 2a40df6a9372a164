package poly

import (
	"slices"
	"strings"
)

// Polynomial is a sparse multivariate polynomial: its terms are sorted strictly
// decreasing in the ring's order, no monomial repeats and no coefficient is zero.
// Polynomials are immutable; every operation returns a new value.
type Polynomial[E any] struct {
	ring  *Ring[E]
	terms []Term[E]
}

func (p *Polynomial[E]) Ring() *Ring[E] { return p.ring }

func (p *Polynomial[E]) IsZero() bool { return len(p.terms) == 0 }

// Len returns the number of terms.
func (p *Polynomial[E]) Len() int { return len(p.terms) }

// Term returns the i-th term, counting from the leading one.
func (p *Polynomial[E]) Term(i int) Term[E] { return p.terms[i] }

func (p *Polynomial[E]) Terms() []Term[E] { return slices.Clone(p.terms) }

func (p *Polynomial[E]) LeadingTerm() (Term[E], error) {
	if len(p.terms) == 0 {
		return Term[E]{}, ErrEmptyPolynomial
	}

	return p.terms[0], nil
}

func (p *Polynomial[E]) LeadingMonomial() (Monomial, error) {
	if len(p.terms) == 0 {
		return Monomial{}, ErrEmptyPolynomial
	}

	return p.terms[0].Mono, nil
}

func (p *Polynomial[E]) LeadingCoeff() (E, error) {
	if len(p.terms) == 0 {
		var zero E
		return zero, ErrEmptyPolynomial
	}

	return p.terms[0].Coeff, nil
}

// LM is LeadingMonomial for callers that already know p is nonzero.
func (p *Polynomial[E]) LM() Monomial {
	if len(p.terms) == 0 {
		panic(ErrEmptyPolynomial)
	}

	return p.terms[0].Mono
}

// LC is LeadingCoeff for callers that already know p is nonzero.
func (p *Polynomial[E]) LC() E {
	if len(p.terms) == 0 {
		panic(ErrEmptyPolynomial)
	}

	return p.terms[0].Coeff
}

// Tail returns p without its leading term. The zero polynomial is its own tail.
func (p *Polynomial[E]) Tail() *Polynomial[E] {
	if len(p.terms) == 0 {
		return p
	}

	return &Polynomial[E]{ring: p.ring, terms: p.terms[1:]}
}

// WithHead returns head followed by the terms of p. head must be strictly
// decreasing, free of zero coefficients and lie above the leading monomial of p;
// WithHead panics otherwise.
func (p *Polynomial[E]) WithHead(head []Term[E]) *Polynomial[E] {
	if len(head) == 0 {
		return p
	}

	ord := p.ring.order
	for i, t := range head {
		if p.ring.field.IsZero(t.Coeff) {
			panic("poly: zero coefficient in head")
		}

		if i > 0 && ord.Compare(head[i-1].Mono, t.Mono) <= 0 {
			panic("poly: head terms out of order")
		}
	}

	if len(p.terms) > 0 && ord.Compare(head[len(head)-1].Mono, p.terms[0].Mono) <= 0 {
		panic("poly: head does not lie above the tail")
	}

	terms := make([]Term[E], 0, len(head)+len(p.terms))
	terms = append(terms, head...)
	terms = append(terms, p.terms...)

	return &Polynomial[E]{ring: p.ring, terms: terms}
}

// TotalDegree returns the largest total degree of a term, -1 for zero.
func (p *Polynomial[E]) TotalDegree() int {
	d := -1
	for _, t := range p.terms {
		d = max(d, t.Mono.Degree())
	}

	return d
}

func (p *Polynomial[E]) Equal(q *Polynomial[E]) bool {
	if len(p.terms) != len(q.terms) {
		return false
	}

	f := p.ring.field
	for i := range p.terms {
		if p.terms[i].Mono != q.terms[i].Mono || !f.Equal(p.terms[i].Coeff, q.terms[i].Coeff) {
			return false
		}
	}

	return true
}

func (p *Polynomial[E]) Add(q *Polynomial[E]) *Polynomial[E] {
	return p.merge(q, false)
}

func (p *Polynomial[E]) Sub(q *Polynomial[E]) *Polynomial[E] {
	return p.merge(q, true)
}

// merge walks both sorted term sequences once, combining equal monomials.
func (p *Polynomial[E]) merge(q *Polynomial[E], negate bool) *Polynomial[E] {
	f := p.ring.field
	ord := p.ring.order

	out := make([]Term[E], 0, len(p.terms)+len(q.terms))
	i, j := 0, 0

	for i < len(p.terms) && j < len(q.terms) {
		a, b := p.terms[i], q.terms[j]

		switch ord.Compare(a.Mono, b.Mono) {
		case 1:
			out = append(out, a)
			i++
		case -1:
			if negate {
				b.Coeff = f.Neg(b.Coeff)
			}
			out = append(out, b)
			j++
		default:
			var c E
			if negate {
				c = f.Sub(a.Coeff, b.Coeff)
			} else {
				c = f.Add(a.Coeff, b.Coeff)
			}

			if !f.IsZero(c) {
				out = append(out, Term[E]{Coeff: c, Mono: a.Mono})
			}
			i++
			j++
		}
	}

	out = append(out, p.terms[i:]...)
	for ; j < len(q.terms); j++ {
		b := q.terms[j]
		if negate {
			b.Coeff = f.Neg(b.Coeff)
		}
		out = append(out, b)
	}

	return &Polynomial[E]{ring: p.ring, terms: out}
}

func (p *Polynomial[E]) Neg() *Polynomial[E] {
	f := p.ring.field
	out := make([]Term[E], len(p.terms))

	for i, t := range p.terms {
		out[i] = Term[E]{Coeff: f.Neg(t.Coeff), Mono: t.Mono}
	}

	return &Polynomial[E]{ring: p.ring, terms: out}
}

func (p *Polynomial[E]) MulScalar(c E) *Polynomial[E] {
	f := p.ring.field
	if f.IsZero(c) {
		return p.ring.Zero()
	}

	out := make([]Term[E], len(p.terms))
	for i, t := range p.terms {
		out[i] = Term[E]{Coeff: f.Mul(c, t.Coeff), Mono: t.Mono}
	}

	return &Polynomial[E]{ring: p.ring, terms: out}
}

// MulTerm returns c*m*p. Multiplying by a monomial keeps the term order.
func (p *Polynomial[E]) MulTerm(c E, m Monomial) (*Polynomial[E], error) {
	f := p.ring.field
	if f.IsZero(c) {
		return p.ring.Zero(), nil
	}

	out := make([]Term[E], len(p.terms))
	for i, t := range p.terms {
		mono, err := t.Mono.Mul(m)
		if err != nil {
			return nil, err
		}

		out[i] = Term[E]{Coeff: f.Mul(c, t.Coeff), Mono: mono}
	}

	return &Polynomial[E]{ring: p.ring, terms: out}, nil
}

// SubMulTerm returns p - c*m*q in a single merge.
func (p *Polynomial[E]) SubMulTerm(c E, m Monomial, q *Polynomial[E]) (*Polynomial[E], error) {
	shifted, err := q.MulTerm(c, m)
	if err != nil {
		return nil, err
	}

	return p.merge(shifted, true), nil
}

func (p *Polynomial[E]) Mul(q *Polynomial[E]) (*Polynomial[E], error) {
	res := p.ring.Zero()

	for _, t := range p.terms {
		part, err := q.MulTerm(t.Coeff, t.Mono)
		if err != nil {
			return nil, err
		}

		res = res.Add(part)
	}

	return res, nil
}

// Pow returns p^n.
func (p *Polynomial[E]) Pow(n int) (*Polynomial[E], error) {
	res := p.ring.One()
	base := p

	for n > 0 {
		var err error
		if n%2 == 1 {
			if res, err = res.Mul(base); err != nil {
				return nil, err
			}
		}

		n /= 2
		if n > 0 {
			if base, err = base.Mul(base); err != nil {
				return nil, err
			}
		}
	}

	return res, nil
}

// Monic scales p to leading coefficient one. The zero polynomial stays zero.
func (p *Polynomial[E]) Monic() *Polynomial[E] {
	if len(p.terms) == 0 {
		return p
	}

	f := p.ring.field
	if f.Equal(p.terms[0].Coeff, f.One()) {
		return p
	}

	return p.MulScalar(f.Inverse(p.terms[0].Coeff))
}

// Convert re-targets p to a ring with the same variables (typically another
// order), re-sorting its terms.
func (p *Polynomial[E]) Convert(r *Ring[E]) *Polynomial[E] {
	if r == p.ring {
		return p
	}

	if r.order == p.ring.order {
		return &Polynomial[E]{ring: r, terms: p.terms}
	}

	return r.NewPolynomial(p.terms)
}

// MapCoefficients moves p into a ring over another field. Terms whose image is
// zero vanish; ok is false when some coefficient has no image.
func MapCoefficients[E, F any](p *Polynomial[E], r *Ring[F], fn func(E) (F, bool)) (*Polynomial[F], bool) {
	out := make([]Term[F], 0, len(p.terms))

	for _, t := range p.terms {
		c, ok := fn(t.Coeff)
		if !ok {
			return nil, false
		}

		if !r.field.IsZero(c) {
			out = append(out, Term[F]{Coeff: c, Mono: t.Mono})
		}
	}

	if r.order == p.ring.order {
		return &Polynomial[F]{ring: r, terms: out}, true
	}

	return r.NewPolynomial(out), true
}

// Evaluate substitutes point[i] for variable i.
func (p *Polynomial[E]) Evaluate(point []E) E {
	f := p.ring.field
	sum := f.Zero()

	for _, t := range p.terms {
		v := t.Coeff
		for i, x := range point {
			for e := t.Mono.Exponent(i); e > 0; e-- {
				v = f.Mul(v, x)
			}
		}

		sum = f.Add(sum, v)
	}

	return sum
}

func (p *Polynomial[E]) String() string {
	if len(p.terms) == 0 {
		return "0"
	}

	f := p.ring.field

	var b strings.Builder
	for i, t := range p.terms {
		c := f.Format(t.Coeff)
		neg := strings.HasPrefix(c, "-")
		if neg {
			c = c[1:]
		}

		switch {
		case i == 0 && neg:
			b.WriteString("-")
		case neg:
			b.WriteString(" - ")
		case i > 0:
			b.WriteString(" + ")
		}

		switch {
		case t.Mono.IsOne():
			b.WriteString(c)
		case c == "1":
			b.WriteString(t.Mono.Format(p.ring.vars))
		default:
			b.WriteString(c + "*" + t.Mono.Format(p.ring.vars))
		}
	}

	return b.String()
}
