package field

import "fmt"

// Matrix is a dense row-major matrix over a Field.
type Matrix[E any] [][]E

// NewMatrix returns the rows x cols zero matrix.
func NewMatrix[E any](f Field[E], rows, cols int) Matrix[E] {
	m := make(Matrix[E], rows)
	for i := range m {
		m[i] = make([]E, cols)
		for j := range m[i] {
			m[i][j] = f.Zero()
		}
	}

	return m
}

// Identity returns the n x n identity matrix.
func Identity[E any](f Field[E], n int) Matrix[E] {
	m := NewMatrix(f, n, n)
	for i := range m {
		m[i][i] = f.One()
	}

	return m
}

// MatMul computes a x b. a is m x n and b is n x p.
func MatMul[E any](f Field[E], a, b Matrix[E]) Matrix[E] {
	if len(a) == 0 || len(b) == 0 {
		return nil
	}

	m, n, p := len(a), len(a[0]), len(b[0])
	if len(b) != n {
		panic(fmt.Sprintf("matrix dimensions mismatch: a is %dx%d, b is %dx%d", m, n, len(b), p))
	}

	c := NewMatrix(f, m, p)
	for i := range m {
		for k := range n {
			if f.IsZero(a[i][k]) {
				continue
			}

			for j := range p {
				c[i][j] = f.Add(c[i][j], f.Mul(a[i][k], b[k][j]))
			}
		}
	}

	return c
}

// AddScaled returns a + s*b.
func AddScaled[E any](f Field[E], a Matrix[E], s E, b Matrix[E]) Matrix[E] {
	c := make(Matrix[E], len(a))
	for i := range a {
		c[i] = make([]E, len(a[i]))
		for j := range a[i] {
			c[i][j] = f.Add(a[i][j], f.Mul(s, b[i][j]))
		}
	}

	return c
}

func Trace[E any](f Field[E], a Matrix[E]) E {
	t := f.Zero()
	for i := range a {
		t = f.Add(t, a[i][i])
	}

	return t
}

// TraceOfProduct returns Tr(a*b) without forming the product.
func TraceOfProduct[E any](f Field[E], a, b Matrix[E]) E {
	t := f.Zero()
	for i := range a {
		for k := range a[i] {
			if f.IsZero(a[i][k]) {
				continue
			}

			t = f.Add(t, f.Mul(a[i][k], b[k][i]))
		}
	}

	return t
}

// Rank computes the rank by Gaussian elimination on a copy of a.
func Rank[E any](f Field[E], a Matrix[E]) int {
	n := len(a)
	if n == 0 {
		return 0
	}
	m := len(a[0])

	w := make(Matrix[E], n)
	for i := range a {
		w[i] = append([]E(nil), a[i]...)
	}

	rank := 0
	for col := 0; col < m && rank < n; col++ {
		pivot := -1
		for i := rank; i < n; i++ {
			if !f.IsZero(w[i][col]) {
				pivot = i
				break
			}
		}

		if pivot == -1 {
			continue
		}

		w[rank], w[pivot] = w[pivot], w[rank]

		inv := f.Inverse(w[rank][col])
		for i := rank + 1; i < n; i++ {
			if f.IsZero(w[i][col]) {
				continue
			}

			factor := f.Mul(w[i][col], inv)
			for j := col; j < m; j++ {
				w[i][j] = f.Sub(w[i][j], f.Mul(factor, w[rank][j]))
			}
		}

		rank++
	}

	return rank
}
