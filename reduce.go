package gbasis

import (
	"fmt"

	"github.com/jonathanmweiss/go-gbasis/poly"
)

// Division records p = Σ Quotients[i]*divisors[i] + Remainder, where no term of
// Remainder is divisible by the leading monomial of any nonzero divisor.
type Division[E any] struct {
	Quotients []*poly.Polynomial[E]
	Remainder *poly.Polynomial[E]
}

// Reduce divides p by the divisors. When several divisors apply to a term, the
// first one in slice order is used. Zero divisors are ignored and get a zero quotient.
func Reduce[E any](p *poly.Polynomial[E], divisors []*poly.Polynomial[E]) (*Division[E], error) {
	r := p.Ring()
	f := r.Field()

	quot := make([][]poly.Term[E], len(divisors))
	lms := leadingMonomials(divisors)

	var done []poly.Term[E]
	rem := p

	for !rem.IsZero() {
		lt := rem.Term(0)

		k := firstDivisor(lms, lt.Mono)
		if k < 0 {
			done = append(done, lt)
			rem = rem.Tail()

			continue
		}

		g := divisors[k]
		c := f.Mul(lt.Coeff, f.Inverse(g.LC()))
		u := lt.Mono.Div(g.LM())

		var err error
		if rem, err = rem.SubMulTerm(c, u, g); err != nil {
			return nil, fmt.Errorf("reducing by divisor %d: %w", k, err)
		}

		quot[k] = append(quot[k], poly.Term[E]{Coeff: c, Mono: u})
	}

	div := &Division[E]{
		Quotients: make([]*poly.Polynomial[E], len(divisors)),
		Remainder: r.Zero().WithHead(done),
	}

	for i, ts := range quot {
		div.Quotients[i] = r.NewPolynomial(ts)
	}

	return div, nil
}

// leadingMonomials returns the divisors' leading monomials; a zero divisor gets
// ok=false and never matches.
func leadingMonomials[E any](ps []*poly.Polynomial[E]) []divisorMono {
	out := make([]divisorMono, len(ps))
	for i, p := range ps {
		if !p.IsZero() {
			out[i] = divisorMono{mono: p.LM(), ok: true}
		}
	}

	return out
}

type divisorMono struct {
	mono poly.Monomial
	ok   bool
}

func firstDivisor(lms []divisorMono, m poly.Monomial) int {
	for i, d := range lms {
		if d.ok && d.mono.Divides(m) {
			return i
		}
	}

	return -1
}

// normalForm reduces p by basis without recording quotients. With full unset
// only the leading term is reduced, and the result's tail is left as is.
func normalForm[E any](p *poly.Polynomial[E], basis []*poly.Polynomial[E], lms []divisorMono, full bool) (*poly.Polynomial[E], error) {
	f := p.Ring().Field()

	var done []poly.Term[E]
	rem := p

	for !rem.IsZero() {
		lt := rem.Term(0)

		k := firstDivisor(lms, lt.Mono)
		if k < 0 {
			if !full {
				break
			}

			done = append(done, lt)
			rem = rem.Tail()

			continue
		}

		g := basis[k]
		c := f.Mul(lt.Coeff, f.Inverse(g.LC()))

		var err error
		if rem, err = rem.SubMulTerm(c, lt.Mono.Div(g.LM()), g); err != nil {
			return nil, err
		}
	}

	return rem.WithHead(done), nil
}

// SPolynomial returns lcm/LT(f)*f - lcm/LT(g)*g, with lcm the leading monomials' lcm.
func SPolynomial[E any](f, g *poly.Polynomial[E]) (*poly.Polynomial[E], error) {
	if f.IsZero() || g.IsZero() {
		return nil, ErrEmptyPolynomial
	}

	fld := f.Ring().Field()
	l := f.LM().LCM(g.LM())

	left, err := f.MulTerm(fld.Inverse(f.LC()), l.Div(f.LM()))
	if err != nil {
		return nil, err
	}

	return left.SubMulTerm(fld.Inverse(g.LC()), l.Div(g.LM()), g)
}
