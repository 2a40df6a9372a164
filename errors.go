package gbasis

import (
	"errors"

	"github.com/jonathanmweiss/go-gbasis/poly"
)

var (
	// ErrDegreeOverflow reports an exponent or a variable count beyond the fixed bounds.
	ErrDegreeOverflow = poly.ErrDegreeOverflow
	// ErrEmptyPolynomial reports access to the leading term of the zero polynomial.
	ErrEmptyPolynomial = poly.ErrEmptyPolynomial

	ErrNotZeroDimensional = errors.New("ideal is not zero-dimensional")
	ErrAborted            = errors.New("computation aborted")
	ErrVariableMismatch   = errors.New("polynomials use different variables")
	ErrNoSeparatingForm   = errors.New("no separating linear form found")
	ErrCharacteristic     = errors.New("field characteristic too small for the quotient dimension")

	// ErrModularMismatch never reaches callers: it triggers the exact recomputation.
	ErrModularMismatch = errors.New("modular computation disagrees with the exact one")
)
