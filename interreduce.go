package gbasis

import (
	"slices"

	"github.com/jonathanmweiss/go-gbasis/poly"
)

// Interreduce turns a Groebner basis into the reduced one: monic elements,
// no leading monomial dividing another, and no term of any element divisible
// by the leading monomial of another. Elements come back ascending by leading monomial.
func Interreduce[E any](basis []*poly.Polynomial[E]) ([]*poly.Polynomial[E], error) {
	if len(basis) == 0 {
		return nil, nil
	}

	order := basis[0].Ring().Order()

	work := make([]*poly.Polynomial[E], 0, len(basis))
	for _, g := range basis {
		if !g.IsZero() {
			work = append(work, g.Monic())
		}
	}

	slices.SortStableFunc(work, func(a, b *poly.Polynomial[E]) int {
		return order.Compare(a.LM(), b.LM())
	})

	// minimal: drop every element whose leading monomial is a multiple of a kept one.
	// Ascending order means candidate divisors are already kept.
	minimal := work[:0]
	for _, g := range work {
		dup := false
		for _, h := range minimal {
			if h.LM().Divides(g.LM()) {
				dup = true
				break
			}
		}

		if !dup {
			minimal = append(minimal, g)
		}
	}

	out := slices.Clone(minimal)
	for i, g := range out {
		others := make([]*poly.Polynomial[E], 0, len(out)-1)
		others = append(others, out[:i]...)
		others = append(others, out[i+1:]...)

		tail, err := normalForm(g.Tail(), others, leadingMonomials(others), true)
		if err != nil {
			return nil, err
		}

		out[i] = tail.WithHead([]poly.Term[E]{g.Term(0)})
	}

	return out, nil
}

// IsGroebner reports whether every S-polynomial of the basis reduces to zero,
// skipping pairs with coprime leading monomials.
func IsGroebner[E any](basis []*poly.Polynomial[E]) (bool, error) {
	gs := make([]*poly.Polynomial[E], 0, len(basis))
	for _, g := range basis {
		if !g.IsZero() {
			gs = append(gs, g)
		}
	}

	lms := leadingMonomials(gs)

	for j := range gs {
		for i := range j {
			if gs[i].LM().IsCoprime(gs[j].LM()) {
				continue
			}

			s, err := SPolynomial(gs[i], gs[j])
			if err != nil {
				return false, err
			}

			nf, err := normalForm(s, gs, lms, false)
			if err != nil {
				return false, err
			}

			if !nf.IsZero() {
				return false, nil
			}
		}
	}

	return true, nil
}
