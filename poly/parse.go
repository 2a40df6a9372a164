package poly

import (
	"fmt"
	"strconv"
	"unicode"
)

// Parse reads a polynomial such as "x^2*y - 3/2*z + 1" over r.
// Supported syntax: integers, variables of r, + - * ^, parentheses, and
// division by a nonzero constant.
func Parse[E any](r *Ring[E], text string) (*Polynomial[E], error) {
	ps := &parser[E]{ring: r, src: []rune(text)}

	p, err := ps.expr()
	if err != nil {
		return nil, err
	}

	ps.skipSpace()
	if ps.pos != len(ps.src) {
		return nil, ps.errorf("unexpected %q", string(ps.src[ps.pos]))
	}

	return p, nil
}

// MustParse is Parse that panics on malformed input. Intended for tests and fixtures.
func MustParse[E any](r *Ring[E], text string) *Polynomial[E] {
	p, err := Parse(r, text)
	if err != nil {
		panic(err)
	}

	return p
}

// ParseAll parses every text in order.
func ParseAll[E any](r *Ring[E], texts ...string) ([]*Polynomial[E], error) {
	out := make([]*Polynomial[E], len(texts))

	for i, t := range texts {
		p, err := Parse(r, t)
		if err != nil {
			return nil, err
		}

		out[i] = p
	}

	return out, nil
}

type parser[E any] struct {
	ring *Ring[E]
	src  []rune
	pos  int
}

func (ps *parser[E]) errorf(format string, args ...any) error {
	return fmt.Errorf("%w at offset %d: %s", ErrParse, ps.pos, fmt.Sprintf(format, args...))
}

func (ps *parser[E]) skipSpace() {
	for ps.pos < len(ps.src) && unicode.IsSpace(ps.src[ps.pos]) {
		ps.pos++
	}
}

func (ps *parser[E]) peek() rune {
	ps.skipSpace()
	if ps.pos >= len(ps.src) {
		return 0
	}

	return ps.src[ps.pos]
}

// expr := ['+'|'-'] term { ('+'|'-') term }
func (ps *parser[E]) expr() (*Polynomial[E], error) {
	neg := false
	switch ps.peek() {
	case '-':
		neg = true
		ps.pos++
	case '+':
		ps.pos++
	}

	acc, err := ps.term()
	if err != nil {
		return nil, err
	}

	if neg {
		acc = acc.Neg()
	}

	for {
		op := ps.peek()
		if op != '+' && op != '-' {
			return acc, nil
		}
		ps.pos++

		t, err := ps.term()
		if err != nil {
			return nil, err
		}

		if op == '+' {
			acc = acc.Add(t)
		} else {
			acc = acc.Sub(t)
		}
	}
}

// term := factor { ('*'|'/') factor }
func (ps *parser[E]) term() (*Polynomial[E], error) {
	acc, err := ps.factor()
	if err != nil {
		return nil, err
	}

	for {
		op := ps.peek()
		if op != '*' && op != '/' {
			return acc, nil
		}
		ps.pos++

		f, err := ps.factor()
		if err != nil {
			return nil, err
		}

		if op == '*' {
			if acc, err = acc.Mul(f); err != nil {
				return nil, err
			}

			continue
		}

		if f.IsZero() || f.Len() != 1 || !f.terms[0].Mono.IsOne() {
			return nil, ps.errorf("division by a non-constant or zero")
		}

		acc = acc.MulScalar(ps.ring.field.Inverse(f.terms[0].Coeff))
	}
}

// factor := base ['^' integer]
func (ps *parser[E]) factor() (*Polynomial[E], error) {
	b, err := ps.base()
	if err != nil {
		return nil, err
	}

	if ps.peek() != '^' {
		return b, nil
	}
	ps.pos++
	ps.skipSpace()

	start := ps.pos
	for ps.pos < len(ps.src) && unicode.IsDigit(ps.src[ps.pos]) {
		ps.pos++
	}

	n, err := strconv.Atoi(string(ps.src[start:ps.pos]))
	if err != nil {
		return nil, ps.errorf("bad exponent")
	}

	if n >= MaxDegree {
		return nil, fmt.Errorf("%w: exponent %d", ErrDegreeOverflow, n)
	}

	return b.Pow(n)
}

// base := integer | variable | '(' expr ')'
func (ps *parser[E]) base() (*Polynomial[E], error) {
	c := ps.peek()

	switch {
	case c == '(':
		ps.pos++

		p, err := ps.expr()
		if err != nil {
			return nil, err
		}

		if ps.peek() != ')' {
			return nil, ps.errorf("missing )")
		}
		ps.pos++

		return p, nil
	case unicode.IsDigit(c):
		return ps.number(), nil
	case unicode.IsLetter(c) || c == '_':
		start := ps.pos
		for ps.pos < len(ps.src) && (unicode.IsLetter(ps.src[ps.pos]) || unicode.IsDigit(ps.src[ps.pos]) || ps.src[ps.pos] == '_') {
			ps.pos++
		}

		name := string(ps.src[start:ps.pos])
		for i, v := range ps.ring.vars {
			if v == name {
				return ps.ring.Variable(i), nil
			}
		}

		ps.pos = start
		return nil, ps.errorf("unknown variable %q", name)
	case c == 0:
		return nil, ps.errorf("unexpected end of input")
	}

	return nil, ps.errorf("unexpected %q", string(c))
}

// number folds the decimal digits into the field nine digits at a time.
func (ps *parser[E]) number() *Polynomial[E] {
	f := ps.ring.field
	acc := f.Zero()
	chunk := f.FromInt64(1_000_000_000)

	for ps.pos < len(ps.src) && unicode.IsDigit(ps.src[ps.pos]) {
		start := ps.pos
		for ps.pos < len(ps.src) && unicode.IsDigit(ps.src[ps.pos]) && ps.pos-start < 9 {
			ps.pos++
		}

		digits := string(ps.src[start:ps.pos])
		v, _ := strconv.ParseInt(digits, 10, 64)

		scale := chunk
		if len(digits) < 9 {
			scale = f.FromInt64(pow10(len(digits)))
		}

		acc = f.Add(f.Mul(acc, scale), f.FromInt64(v))
	}

	return ps.ring.Constant(acc)
}

func pow10(n int) int64 {
	v := int64(1)
	for range n {
		v *= 10
	}

	return v
}
