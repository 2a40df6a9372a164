package field

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNTTForwardBackward(t *testing.T) {
	// Test the forward and backward NTT transforms.
	a := assert.New(t)
	f, err := NewPrimeField(65537)
	a.NoError(err)

	tables := newNttTables()
	for i := range 8 {
		cappingDegree := 1 << (i + 1)

		p1 := randomPolynomial(f, 12345+uint64(i), cappingDegree)
		xs := make([]uint64, cappingDegree)
		copy(xs, p1.inner)

		a.NoError(tables.forward(f, xs))
		a.NoError(tables.backward(f, xs))

		a.True(p1.Equals(NewPolynomial[uint64](f, xs)))
	}

	a.ErrorIs(tables.forward(f, make([]uint64, 3)), errNttLength)
}
