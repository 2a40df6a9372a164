package poly

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	// MaxVars is the largest number of variables a Ring supports.
	MaxVars = 15
	// MaxDegree bounds every exponent: each exponent is < MaxDegree.
	MaxDegree = 1 << 15
)

// Monomial is a fixed-width exponent vector with its cached total degree.
// Monomials are comparable values and can be used as map keys.
type Monomial struct {
	deg  uint32
	exps [MaxVars]uint16
}

// NewMonomial builds the monomial x_0^e_0 * x_1^e_1 * ...
func NewMonomial(exps ...int) (Monomial, error) {
	var m Monomial

	if len(exps) > MaxVars {
		return m, fmt.Errorf("%w: %d variables, at most %d supported", ErrDegreeOverflow, len(exps), MaxVars)
	}

	for i, e := range exps {
		if e < 0 || e >= MaxDegree {
			return Monomial{}, fmt.Errorf("%w: exponent %d of variable %d", ErrDegreeOverflow, e, i)
		}

		m.exps[i] = uint16(e)
		m.deg += uint32(e)
	}

	return m, nil
}

// MustMonomial is NewMonomial that panics on out of range exponents.
func MustMonomial(exps ...int) Monomial {
	m, err := NewMonomial(exps...)
	if err != nil {
		panic(err)
	}

	return m
}

// Degree returns the total degree.
func (m Monomial) Degree() int {
	return int(m.deg)
}

func (m Monomial) Exponent(i int) int {
	return int(m.exps[i])
}

// Exponents returns the first n exponents.
func (m Monomial) Exponents(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = int(m.exps[i])
	}

	return out
}

func (m Monomial) IsOne() bool {
	return m.deg == 0
}

// Mul returns m*o, or ErrDegreeOverflow when an exponent leaves the supported range.
func (m Monomial) Mul(o Monomial) (Monomial, error) {
	var res Monomial

	for i := range m.exps {
		e := uint32(m.exps[i]) + uint32(o.exps[i])
		if e >= MaxDegree {
			return Monomial{}, fmt.Errorf("%w: exponent %d of variable %d", ErrDegreeOverflow, e, i)
		}

		res.exps[i] = uint16(e)
	}
	res.deg = m.deg + o.deg

	return res, nil
}

// Div returns m/o. o must divide m.
func (m Monomial) Div(o Monomial) Monomial {
	var res Monomial

	for i := range m.exps {
		res.exps[i] = m.exps[i] - o.exps[i]
	}
	res.deg = m.deg - o.deg

	return res
}

// Divides reports whether m divides o.
func (m Monomial) Divides(o Monomial) bool {
	if m.deg > o.deg {
		return false
	}

	for i := range m.exps {
		if m.exps[i] > o.exps[i] {
			return false
		}
	}

	return true
}

func (m Monomial) LCM(o Monomial) Monomial {
	var res Monomial

	for i := range m.exps {
		res.exps[i] = max(m.exps[i], o.exps[i])
		res.deg += uint32(res.exps[i])
	}

	return res
}

// IsCoprime reports whether m and o share no variable.
func (m Monomial) IsCoprime(o Monomial) bool {
	for i := range m.exps {
		if m.exps[i] != 0 && o.exps[i] != 0 {
			return false
		}
	}

	return true
}

// IsPurePower reports whether m is a positive power of variable i alone.
func (m Monomial) IsPurePower(i int) bool {
	return m.deg > 0 && uint32(m.exps[i]) == m.deg
}

// Format prints the monomial with the given variable names; "1" for the unit.
func (m Monomial) Format(vars []string) string {
	if m.deg == 0 {
		return "1"
	}

	parts := make([]string, 0, len(vars))
	for i, e := range m.exps {
		if e == 0 {
			continue
		}

		name := "x" + strconv.Itoa(i)
		if i < len(vars) {
			name = vars[i]
		}

		if e == 1 {
			parts = append(parts, name)
		} else {
			parts = append(parts, name+"^"+strconv.Itoa(int(e)))
		}
	}

	return strings.Join(parts, "*")
}

func (m Monomial) String() string {
	return m.Format(nil)
}
