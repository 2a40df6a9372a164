package field

import "errors"

type PolyRing[E any] interface {
	GetField() Field[E]

	Evaluate(a *Polynomial[E], x E) E
	// compute c = a * scalar
	MulScalar(a *Polynomial[E], scalar E, c *Polynomial[E])

	// compute c = a * b
	MulPoly(a, b, c *Polynomial[E])
	// compute c = a + b
	AddPoly(a, b, c *Polynomial[E])
	// compute c = a - b
	SubPoly(a, b, c *Polynomial[E])

	// Creates quotient and remainder
	LongDiv(a, b *Polynomial[E]) (q *Polynomial[E], r *Polynomial[E])

	// Extended Euclidean algorithm.
	PartialExtendedEuclidean(a, b *Polynomial[E], stopDegree int) (gcd, x, y *Polynomial[E])
	GCD(a, b *Polynomial[E]) *Polynomial[E]

	Derivative(a *Polynomial[E]) *Polynomial[E]
	SquareFree(a *Polynomial[E]) *Polynomial[E]
	Monic(a *Polynomial[E]) *Polynomial[E]

	MulMod(a, b, m *Polynomial[E]) *Polynomial[E]
	InverseMod(a, m *Polynomial[E]) (*Polynomial[E], error)
}

// DensePolyRing implements PolyRing over any Field. Over an NTT-friendly
// PrimeField, large products go through the number theoretic transform.
type DensePolyRing[E any] struct {
	Field[E]
	ntt *nttTables
}

// NewDensePolyRing constructs a ring over the provided coefficient field.
func NewDensePolyRing[E any](f Field[E]) *DensePolyRing[E] {
	return &DensePolyRing[E]{Field: f, ntt: newNttTables()}
}

func (r *DensePolyRing[E]) GetField() Field[E] { return r.Field }

var ErrNotInvertible = errors.New("polynomial is not invertible modulo the given modulus")

// ---------- utilities ----------

func (r *DensePolyRing[E]) zeros(n int) []E {
	out := make([]E, n)
	for i := range out {
		out[i] = r.Zero()
	}

	return out
}

func (r *DensePolyRing[E]) write(c *Polynomial[E], out []E) {
	c.f = r.Field
	c.inner = out
	c.removeLeadingZeroes()
}

// ---------- Poly ops ----------

func (r *DensePolyRing[E]) Evaluate(a *Polynomial[E], x E) E {
	result := r.Zero()

	// horner's rule:
	for i := len(a.inner) - 1; i >= 0; i-- {
		result = r.Add(a.inner[i], r.Mul(x, result))
	}

	return result
}

func (r *DensePolyRing[E]) MulScalar(a *Polynomial[E], scalar E, c *Polynomial[E]) {
	out := make([]E, len(a.inner))
	for i := range a.inner {
		out[i] = r.Mul(a.inner[i], scalar)
	}

	r.write(c, out)
}

func (r *DensePolyRing[E]) AddPoly(a, b, c *Polynomial[E]) {
	alen := len(a.inner)
	blen := len(b.inner)
	n := max(alen, blen)
	out := make([]E, n)

	for i := 0; i < n; i++ {
		switch {
		case i < alen && i < blen:
			out[i] = r.Add(a.inner[i], b.inner[i])
		case i < alen:
			out[i] = a.inner[i]
		default:
			out[i] = b.inner[i]
		}
	}

	r.write(c, out)
}

func (r *DensePolyRing[E]) SubPoly(a, b, c *Polynomial[E]) {
	alen := len(a.inner)
	blen := len(b.inner)
	n := max(alen, blen)
	out := make([]E, n)

	for i := 0; i < n; i++ {
		switch {
		case i < alen && i < blen:
			out[i] = r.Sub(a.inner[i], b.inner[i])
		case i < alen:
			out[i] = a.inner[i]
		default:
			out[i] = r.Neg(b.inner[i])
		}
	}

	r.write(c, out)
}

func (r *DensePolyRing[E]) MulPoly(a, b, c *Polynomial[E]) {
	if a.IsZero() || b.IsZero() {
		r.write(c, nil)
		return
	}

	if out, ok := r.mulNTT(a, b); ok {
		r.write(c, out)
		return
	}

	newLen := len(a.inner) + len(b.inner) - 1
	out := r.zeros(newLen)

	// Perform schoolbook convolution: O(n*m).
	// out[i+j] += a[i] * b[j]
	for i := range a.inner {
		ai := a.inner[i]
		if r.IsZero(ai) {
			continue
		}

		for j := range b.inner {
			out[i+j] = r.Add(out[i+j], r.Mul(ai, b.inner[j]))
		}
	}

	// Safe even if c==a or c==b because we used `out`.
	r.write(c, out)
}

// mulNTT multiplies through the NTT when the field is a PrimeField with a
// root of unity of the needed order.
func (r *DensePolyRing[E]) mulNTT(a, b *Polynomial[E]) ([]E, bool) {
	pf, ok := any(r.Field).(*PrimeField)
	if !ok || len(a.inner)+len(b.inner) < nttThreshold {
		return nil, false
	}

	// E is uint64 whenever the field is a *PrimeField.
	ai := any(a.inner).([]uint64)
	bi := any(b.inner).([]uint64)

	out, err := r.ntt.multiply(pf, ai, bi)
	if err != nil {
		return nil, false
	}

	return any(out).([]E), true
}

func (r *DensePolyRing[E]) monomialMultPoly(ai E, deg int, p *Polynomial[E]) *Polynomial[E] {
	prod := r.zeros(len(p.inner) + deg)

	for i := range p.inner {
		prod[i+deg] = r.Mul(ai, p.inner[i])
	}

	return NewPolynomial(r.Field, prod)
}

// Following Algorithm 2.5 (Polynomial division with remainder) in
// `Modern Computer Algebra` by Joachim von zur Gathen and Jürgen Gerhard
//
// returns q, r such that a = q*b + r.
func (r *DensePolyRing[E]) LongDiv(a, b *Polynomial[E]) (q *Polynomial[E], rem *Polynomial[E]) {
	if b.IsZero() {
		panic("division by the zero polynomial")
	}

	n, m := a.Degree(), b.Degree()
	if n < m {
		return NewPolynomial(r.Field, nil), a.Copy()
	}

	u := r.Inverse(b.LeadCoeff())

	rem = a.Copy()
	qInner := r.zeros(n - m + 1)

	for i := n - m; i >= 0; i-- {
		if rem.Degree() == m+i {
			qInner[i] = r.Mul(rem.LeadCoeff(), u)
			r.SubPoly(rem, r.monomialMultPoly(qInner[i], i, b), rem)
		}
	}

	return NewPolynomial(r.Field, qInner), rem
}

// returns r= gcd(a,b), x, y such that ax + by = r.
// where r.Degree() < stopDegree.
func (r *DensePolyRing[E]) PartialExtendedEuclidean(a, b *Polynomial[E], stopDegree int) (gcd, x, y *Polynomial[E]) {
	A := a.Copy()
	B := b.Copy()

	// Invariants:
	//   A = x0*a_orig + y0*b_orig
	//   B = x1*a_orig + y1*b_orig
	x0 := Constant(r.Field, r.One())
	x1 := NewPolynomial(r.Field, nil)
	y0 := NewPolynomial(r.Field, nil)
	y1 := Constant(r.Field, r.One())

	tmp1 := &Polynomial[E]{f: r.Field}
	tmp2 := &Polynomial[E]{f: r.Field}

	for A.Degree() >= stopDegree {
		if B.IsZero() {
			break
		}

		// A = q*B + r
		q, rrem := r.LongDiv(A, B)
		A, B = B, rrem

		// following Bézout's identity:
		// x update: (x0, x1) = (x1, x0 - q*x1)
		r.MulPoly(q, x1, tmp1)
		r.SubPoly(x0, tmp1, tmp2)
		x0, x1, tmp2 = x1, tmp2, x0

		// y update: (y0, y1) = (y1, y0 - q*y1)
		r.MulPoly(q, y1, tmp1)
		r.SubPoly(y0, tmp1, tmp2)
		y0, y1, tmp2 = y1, tmp2, y0
	}

	return A, x0, y0
}

// GCD returns the monic greatest common divisor; gcd(0, 0) = 0.
func (r *DensePolyRing[E]) GCD(a, b *Polynomial[E]) *Polynomial[E] {
	if a.IsZero() {
		return r.Monic(b)
	}

	g, _, _ := r.PartialExtendedEuclidean(a, b, 0)

	return r.Monic(g)
}

func (r *DensePolyRing[E]) Monic(a *Polynomial[E]) *Polynomial[E] {
	if a.IsZero() {
		return a.Copy()
	}

	out := &Polynomial[E]{f: r.Field}
	r.MulScalar(a, r.Inverse(a.LeadCoeff()), out)

	return out
}

func (r *DensePolyRing[E]) Derivative(a *Polynomial[E]) *Polynomial[E] {
	if a.Degree() < 1 {
		return NewPolynomial(r.Field, nil)
	}

	out := make([]E, a.Degree())
	for i := 1; i < len(a.inner); i++ {
		out[i-1] = r.Mul(r.FromInt64(int64(i)), a.inner[i])
	}

	return NewPolynomial(r.Field, out)
}

// SquareFree returns the monic squarefree part a / gcd(a, a').
// Valid in characteristic zero, or when the characteristic exceeds deg(a).
func (r *DensePolyRing[E]) SquareFree(a *Polynomial[E]) *Polynomial[E] {
	if a.Degree() < 1 {
		return r.Monic(a)
	}

	g := r.GCD(a, r.Derivative(a))
	q, _ := r.LongDiv(a, g)

	return r.Monic(q)
}

func (r *DensePolyRing[E]) MulMod(a, b, m *Polynomial[E]) *Polynomial[E] {
	prod := &Polynomial[E]{f: r.Field}
	r.MulPoly(a, b, prod)
	_, rem := r.LongDiv(prod, m)

	return rem
}

// InverseMod returns x with a*x = 1 mod m.
func (r *DensePolyRing[E]) InverseMod(a, m *Polynomial[E]) (*Polynomial[E], error) {
	_, am := r.LongDiv(a, m)

	g, x, _ := r.PartialExtendedEuclidean(am, m, 1)
	if g.Degree() != 0 {
		return nil, ErrNotInvertible
	}

	out := &Polynomial[E]{f: r.Field}
	r.MulScalar(x, r.Inverse(g.LeadCoeff()), out)
	_, out = r.LongDiv(out, m)

	return out, nil
}

// PolyProductMonicNegRoots computes \prod (T - r_i).
func PolyProductMonicNegRoots[E any](f Field[E], roots []E) *Polynomial[E] {
	coeffs := make([]E, len(roots)+1)
	for i := range coeffs {
		coeffs[i] = f.Zero()
	}
	coeffs[0] = f.One()

	deg := 0
	for _, r := range roots {
		neg := f.Neg(r)
		for j := deg; j >= 0; j-- {
			// new[j+1] += old[j] * 1
			coeffs[j+1] = f.Add(coeffs[j+1], coeffs[j])
			// new[j]   += old[j] * (-r)
			coeffs[j] = f.Mul(coeffs[j], neg)
		}
		deg++
	}

	return NewPolynomial(f, coeffs)
}
