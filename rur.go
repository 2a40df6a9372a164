package gbasis

import (
	"fmt"
	"slices"
	"strings"

	"github.com/jonathanmweiss/go-gbasis/field"
	"github.com/jonathanmweiss/go-gbasis/poly"
)

// RUR is a rational univariate representation of a zero-dimensional ideal.
// With t = Σ Form()[k]*x_k a separating linear form and f its squarefree
// minimal polynomial, every solution is x_k = g_k(θ)/g_1(θ) for a root θ of f.
type RUR[E any] struct {
	ring *poly.Ring[E]
	pr   *field.DensePolyRing[E]

	dimension int
	form      []E

	f  *field.Polynomial[E]
	g1 *field.Polynomial[E]
	gx []*field.Polynomial[E]
}

// Dimension is the dimension of the quotient algebra: the number of
// solutions counted with multiplicity.
func (u *RUR[E]) Dimension() int { return u.dimension }

// Solutions is the number of distinct solutions, the degree of f.
func (u *RUR[E]) Solutions() int { return max(u.f.Degree(), 0) }

// Form returns the coefficients of the separating linear form, one per variable.
func (u *RUR[E]) Form() []E { return slices.Clone(u.form) }

// Minimal returns the squarefree monic polynomial f of the separating form.
func (u *RUR[E]) Minimal() *field.Polynomial[E] { return u.f.Copy() }

// Weight returns g_1, the common denominator of the parametrization.
func (u *RUR[E]) Weight() *field.Polynomial[E] { return u.g1.Copy() }

// Numerator returns g_k for variable k.
func (u *RUR[E]) Numerator(k int) *field.Polynomial[E] { return u.gx[k].Copy() }

// Parametrization returns x_k as a polynomial in T reduced modulo f,
// g_k * g_1^-1 mod f.
func (u *RUR[E]) Parametrization(k int) (*field.Polynomial[E], error) {
	if k < 0 || k >= len(u.gx) {
		return nil, fmt.Errorf("variable index %d out of range [0, %d)", k, len(u.gx))
	}

	if u.f.Degree() < 1 {
		return field.NewPolynomial[E](u.pr.Field, nil), nil
	}

	inv, err := u.pr.InverseMod(u.g1, u.f)
	if err != nil {
		return nil, err
	}

	return u.pr.MulMod(u.gx[k], inv, u.f), nil
}

// Substitute evaluates p at the parametrized solutions, modulo f. p lies in
// the ideal exactly when the result is zero.
func (u *RUR[E]) Substitute(p *poly.Polynomial[E]) (*field.Polynomial[E], error) {
	zero := field.NewPolynomial[E](u.pr.Field, nil)
	if u.f.Degree() < 1 {
		return zero, nil
	}

	params := make([]*field.Polynomial[E], u.ring.NVars())
	for k := range params {
		var err error
		if params[k], err = u.Parametrization(k); err != nil {
			return nil, err
		}
	}

	sum := zero
	for i := range p.Len() {
		t := p.Term(i)

		acc := field.Constant(u.pr.Field, t.Coeff)
		for k, x := range params {
			for e := t.Mono.Exponent(k); e > 0; e-- {
				acc = u.pr.MulMod(acc, x, u.f)
			}
		}

		next := &field.Polynomial[E]{}
		u.pr.AddPoly(sum, acc, next)
		sum = next
	}

	_, rem := u.pr.LongDiv(sum, u.f)

	return rem, nil
}

func (u *RUR[E]) String() string {
	var b strings.Builder

	vars := u.ring.Vars()
	fld := u.ring.Field()

	form := make([]string, 0, len(vars))
	for k, c := range u.form {
		if !fld.IsZero(c) {
			form = append(form, fmt.Sprintf("%s*%s", fld.Format(c), vars[k]))
		}
	}

	fmt.Fprintf(&b, "T = %s\n", strings.Join(form, " + "))
	fmt.Fprintf(&b, "f(T) = %s\n", u.f.Format("T"))

	for k, v := range vars {
		fmt.Fprintf(&b, "%s = (%s) / (%s)\n", v, u.gx[k].Format("T"), u.g1.Format("T"))
	}

	return b.String()
}

// quotient is the finite-dimensional algebra R/I described by a reduced
// Groebner basis: its standard monomials and multiplication by each variable.
type quotient[E any] struct {
	ring  *poly.Ring[E]
	basis []*poly.Polynomial[E]
	lms   []divisorMono

	std   []poly.Monomial
	index map[poly.Monomial]int
	nf    map[poly.Monomial][]E
}

// newQuotient checks zero-dimensionality (every variable has a pure power
// among the leading monomials) and enumerates the staircase.
func newQuotient[E any](r *poly.Ring[E], basis []*poly.Polynomial[E]) (*quotient[E], error) {
	q := &quotient[E]{
		ring:  r,
		basis: basis,
		lms:   leadingMonomials(basis),
		index: make(map[poly.Monomial]int),
		nf:    make(map[poly.Monomial][]E),
	}

	for _, g := range basis {
		if !g.IsZero() && g.LM().IsOne() {
			// the unit ideal: no solutions
			return q, nil
		}
	}

	for k := range r.NVars() {
		found := false
		for _, g := range basis {
			if !g.IsZero() && g.LM().IsPurePower(k) {
				found = true
				break
			}
		}

		if !found {
			return nil, fmt.Errorf("%w: no leading monomial is a power of %s", ErrNotZeroDimensional, r.Vars()[k])
		}
	}

	var one poly.Monomial
	q.std = append(q.std, one)
	seen := map[poly.Monomial]bool{one: true}

	for i := 0; i < len(q.std); i++ {
		for k := range r.NVars() {
			m, err := q.std[i].Mul(r.Variable(k).LM())
			if err != nil {
				return nil, err
			}

			if seen[m] || firstDivisor(q.lms, m) >= 0 {
				continue
			}

			seen[m] = true
			q.std = append(q.std, m)
		}
	}

	order := r.Order()
	slices.SortFunc(q.std, order.Compare)

	for i, m := range q.std {
		q.index[m] = i
	}

	return q, nil
}

func (q *quotient[E]) dim() int { return len(q.std) }

// coords returns the normal form of m in the standard monomial basis.
func (q *quotient[E]) coords(m poly.Monomial) ([]E, error) {
	if v, ok := q.nf[m]; ok {
		return v, nil
	}

	fld := q.ring.Field()

	p := q.ring.NewPolynomial([]poly.Term[E]{{Coeff: fld.One(), Mono: m}})

	r, err := normalForm(p, q.basis, q.lms, true)
	if err != nil {
		return nil, err
	}

	v := make([]E, q.dim())
	for i := range v {
		v[i] = fld.Zero()
	}

	for i := range r.Len() {
		t := r.Term(i)
		v[q.index[t.Mono]] = t.Coeff
	}

	q.nf[m] = v

	return v, nil
}

// mulMatrix returns the matrix of multiplication by m: column j holds the
// coordinates of m*b_j.
func (q *quotient[E]) mulMatrix(m poly.Monomial) (field.Matrix[E], error) {
	fld := q.ring.Field()
	d := q.dim()

	out := field.NewMatrix(fld, d, d)
	for j, b := range q.std {
		prod, err := m.Mul(b)
		if err != nil {
			return nil, err
		}

		v, err := q.coords(prod)
		if err != nil {
			return nil, err
		}

		for i := range d {
			out[i][j] = v[i]
		}
	}

	return out, nil
}

// hermiteRank is the rank of the trace form (a, b) -> Tr(M_ab) on the
// standard monomials, which counts the distinct solutions.
func (q *quotient[E]) hermiteRank() (int, error) {
	fld := q.ring.Field()
	d := q.dim()

	tr := make([]E, d)
	for l, m := range q.std {
		t := fld.Zero()
		for j, b := range q.std {
			prod, err := m.Mul(b)
			if err != nil {
				return 0, err
			}

			v, err := q.coords(prod)
			if err != nil {
				return 0, err
			}

			t = fld.Add(t, v[j])
		}

		tr[l] = t
	}

	h := field.NewMatrix(fld, d, d)
	for a := range d {
		for b := a; b < d; b++ {
			prod, err := q.std[a].Mul(q.std[b])
			if err != nil {
				return 0, err
			}

			v, err := q.coords(prod)
			if err != nil {
				return 0, err
			}

			s := fld.Zero()
			for l := range d {
				if !fld.IsZero(v[l]) {
					s = fld.Add(s, fld.Mul(v[l], tr[l]))
				}
			}

			h[a][b], h[b][a] = s, s
		}
	}

	return field.Rank(fld, h), nil
}

// computeRUR builds the rational univariate representation from a reduced
// Groebner basis of a zero-dimensional ideal.
func computeRUR[E any](r *poly.Ring[E], basis []*poly.Polynomial[E]) (*RUR[E], error) {
	fld := r.Field()
	n := r.NVars()
	pr := field.NewDensePolyRing(fld)

	q, err := newQuotient(r, basis)
	if err != nil {
		return nil, err
	}

	d := q.dim()
	if d == 0 {
		zeros := make([]*field.Polynomial[E], n)
		for k := range zeros {
			zeros[k] = field.NewPolynomial[E](fld, nil)
		}

		return &RUR[E]{
			ring: r, pr: pr,
			form: make([]E, n),
			f:    field.Constant(fld, fld.One()),
			g1:   field.NewPolynomial[E](fld, nil),
			gx:   zeros,
		}, nil
	}

	if c := fld.Characteristic(); c != 0 && c <= uint64(d) {
		return nil, fmt.Errorf("%w: characteristic %d, dimension %d", ErrCharacteristic, c, d)
	}

	mx := make([]field.Matrix[E], n)
	for k := range n {
		if mx[k], err = q.mulMatrix(r.Variable(k).LM()); err != nil {
			return nil, err
		}
	}

	distinct, err := q.hermiteRank()
	if err != nil {
		return nil, err
	}

	// A form fails to separate two distinct solutions for at most n-1 values
	// of c, so this many candidates always contain a separating one.
	tries := d*(d-1)/2*max(n-1, 1) + 1

	for c := 1; c <= tries; c++ {
		form := linearForm(fld, n, int64(c))

		mt := field.NewMatrix(fld, d, d)
		for k := range n {
			if !fld.IsZero(form[k]) {
				mt = field.AddScaled(fld, mt, form[k], mx[k])
			}
		}

		powers := make([]field.Matrix[E], d+1)
		powers[0] = field.Identity(fld, d)
		for i := 1; i <= d; i++ {
			powers[i] = field.MatMul(fld, mt, powers[i-1])
		}

		chi := charPoly(fld, powers)
		f := pr.SquareFree(chi)

		if f.Degree() != distinct {
			continue
		}

		u := &RUR[E]{ring: r, pr: pr, dimension: d, form: form, f: f}

		traces := make([]E, f.Degree())
		for i := range traces {
			traces[i] = field.Trace(fld, powers[i])
		}
		u.g1 = rouillier(fld, f, traces)

		u.gx = make([]*field.Polynomial[E], n)
		for k := range n {
			for i := range traces {
				traces[i] = field.TraceOfProduct(fld, mx[k], powers[i])
			}
			u.gx[k] = rouillier(fld, f, traces)
		}

		return u, nil
	}

	return nil, ErrNoSeparatingForm
}

// linearForm returns the coefficients of x_{n-1} + c*x_{n-2} + c^2*x_{n-3} + ...
func linearForm[E any](fld field.Field[E], n int, c int64) []E {
	form := make([]E, n)

	w := fld.One()
	cc := fld.FromInt64(c)
	for k := n - 1; k >= 0; k-- {
		form[k] = w
		w = fld.Mul(w, cc)
	}

	return form
}

// charPoly computes det(T*I - M) from the power sums p_k = Tr(M^k) with
// Newton's identities. Needs division by 1..d.
func charPoly[E any](fld field.Field[E], powers []field.Matrix[E]) *field.Polynomial[E] {
	d := len(powers) - 1

	p := make([]E, d+1)
	for k := 1; k <= d; k++ {
		p[k] = field.Trace(fld, powers[k])
	}

	// c[k] is the coefficient of T^(d-k).
	c := make([]E, d+1)
	c[0] = fld.One()
	for k := 1; k <= d; k++ {
		s := p[k]
		for i := 1; i < k; i++ {
			s = fld.Add(s, fld.Mul(c[i], p[k-i]))
		}

		c[k] = fld.Neg(fld.Mul(s, fld.Inverse(fld.FromInt64(int64(k)))))
	}

	coeffs := make([]E, d+1)
	for k := range c {
		coeffs[d-k] = c[k]
	}

	return field.NewPolynomial(fld, coeffs)
}

// rouillier returns Σ_i traces[i] * H_i(T) where f = Σ a_k T^k and
// H_i(T) = Σ_j a_{i+j+1} T^j.
func rouillier[E any](fld field.Field[E], f *field.Polynomial[E], traces []E) *field.Polynomial[E] {
	d := f.Degree()

	out := make([]E, d)
	for j := range out {
		out[j] = fld.Zero()
	}

	for i, t := range traces {
		if fld.IsZero(t) {
			continue
		}

		for j := 0; j+i+1 <= d; j++ {
			out[j] = fld.Add(out[j], fld.Mul(t, f.Coeff(i+j+1)))
		}
	}

	return field.NewPolynomial(fld, out)
}
