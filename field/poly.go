package field

import (
	"strconv"
	"strings"
)

// Polynomial is a dense univariate polynomial over a Field.
type Polynomial[E any] struct {
	f     Field[E]
	inner []E
}

/*
NewPolynomial expects the coefficients to be in the same field
and ordered from lowest to highest degree. (e.g. [1, 2, 3] is 1 + 2T + 3T^2)

Trailing zero coefficients are dropped; the zero polynomial has no coefficients.
*/
func NewPolynomial[E any](f Field[E], inner []E) *Polynomial[E] {
	p := &Polynomial[E]{
		inner: inner,
		f:     f,
	}
	p.removeLeadingZeroes()

	return p
}

// Constant returns the degree zero polynomial u.
func Constant[E any](f Field[E], u E) *Polynomial[E] {
	return NewPolynomial(f, []E{u})
}

// Monomial returns c*T^deg.
func Monomial[E any](f Field[E], c E, deg int) *Polynomial[E] {
	inner := make([]E, deg+1)
	for i := range deg {
		inner[i] = f.Zero()
	}
	inner[deg] = c

	return NewPolynomial(f, inner)
}

func (p *Polynomial[E]) Field() Field[E] {
	return p.f
}

func (p *Polynomial[E]) IsZero() bool {
	return len(p.inner) == 0
}

func (p *Polynomial[E]) Equals(q *Polynomial[E]) bool {
	if len(p.inner) != len(q.inner) {
		return false
	}

	fld := p.f
	for i := range p.inner {
		if !fld.Equal(p.inner[i], q.inner[i]) {
			return false
		}
	}

	return true
}

// Degree returns -1 for the zero polynomial.
func (p *Polynomial[E]) Degree() int {
	return len(p.inner) - 1
}

func (p *Polynomial[E]) LeadCoeff() E {
	if len(p.inner) == 0 {
		return p.f.Zero()
	}

	return p.inner[len(p.inner)-1]
}

// Coeff returns the coefficient of T^i.
func (p *Polynomial[E]) Coeff(i int) E {
	if i < 0 || i >= len(p.inner) {
		return p.f.Zero()
	}

	return p.inner[i]
}

func (p *Polynomial[E]) removeLeadingZeroes() {
	i := len(p.inner) - 1
	for i >= 0 && p.f.IsZero(p.inner[i]) {
		i--
	}

	p.inner = p.inner[:i+1]
}

func (p *Polynomial[E]) Copy() *Polynomial[E] {
	innercopy := make([]E, len(p.inner))
	copy(innercopy, p.inner)

	return &Polynomial[E]{f: p.f, inner: innercopy}
}

func (p *Polynomial[E]) String() string {
	return p.Format("T")
}

// Format prints the polynomial from the highest degree down, using v as the variable name.
func (p *Polynomial[E]) Format(v string) string {
	if len(p.inner) == 0 {
		return "0"
	}

	bldr := strings.Builder{}
	first := true

	for i := len(p.inner) - 1; i >= 0; i-- {
		if p.f.IsZero(p.inner[i]) {
			continue
		}

		if !first {
			bldr.WriteString(" + ")
		}
		first = false

		bldr.WriteString("(")
		bldr.WriteString(p.f.Format(p.inner[i]))
		bldr.WriteString(")")

		switch i {
		case 0:
		case 1:
			bldr.WriteString("*" + v)
		default:
			bldr.WriteString("*" + v + "^" + strconv.Itoa(i))
		}
	}

	return bldr.String()
}

func (p *Polynomial[E]) ToSlice() []E {
	list := make([]E, len(p.inner))
	copy(list, p.inner)

	return list
}
