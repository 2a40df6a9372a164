package poly

import (
	"fmt"
	"strconv"
	"strings"
)

type orderKind uint8

const (
	lexKind orderKind = iota
	gradedLexKind
	gradedRevLexKind
	eliminationKind
)

// Order is a monomial order. The zero value is Lex.
type Order struct {
	kind  orderKind
	block int
}

var (
	Lex          = Order{kind: lexKind}
	GradedLex    = Order{kind: gradedLexKind}
	GradedRevLex = Order{kind: gradedRevLexKind}
)

// Elimination returns the block order that compares the first k variables by
// graded reverse lex, and breaks ties by graded reverse lex on the remaining ones.
// It eliminates the first k variables.
func Elimination(k int) Order {
	return Order{kind: eliminationKind, block: k}
}

// Check reports whether the order can be used on n variables.
func (o Order) Check(n int) error {
	if o.kind == eliminationKind && (o.block < 1 || o.block >= n) {
		return fmt.Errorf("%w: elimination block %d needs more than %d variables", ErrBadOrder, o.block, n)
	}

	return nil
}

// Compare returns -1, 0 or +1 as a is smaller, equal or larger than b.
func (o Order) Compare(a, b Monomial) int {
	switch o.kind {
	case gradedLexKind:
		if c := cmpUint(a.deg, b.deg); c != 0 {
			return c
		}

		return lexCompare(&a, &b, 0, MaxVars)
	case gradedRevLexKind:
		if c := cmpUint(a.deg, b.deg); c != 0 {
			return c
		}

		return revLexCompare(&a, &b, 0, MaxVars)
	case eliminationKind:
		if c := gradedRevLexBlock(&a, &b, 0, o.block); c != 0 {
			return c
		}

		return gradedRevLexBlock(&a, &b, o.block, MaxVars)
	default:
		return lexCompare(&a, &b, 0, MaxVars)
	}
}

// Less reports whether a < b.
func (o Order) Less(a, b Monomial) bool {
	return o.Compare(a, b) < 0
}

// IsGraded reports whether the order compares total degree first.
func (o Order) IsGraded() bool {
	return o.kind == gradedLexKind || o.kind == gradedRevLexKind
}

func (o Order) String() string {
	switch o.kind {
	case gradedLexKind:
		return "glex"
	case gradedRevLexKind:
		return "grevlex"
	case eliminationKind:
		return "elim:" + strconv.Itoa(o.block)
	default:
		return "lex"
	}
}

// ParseOrder reads the names produced by Order.String.
func ParseOrder(s string) (Order, error) {
	switch s {
	case "lex", "plex":
		return Lex, nil
	case "glex", "tdeg":
		return GradedLex, nil
	case "grevlex", "revlex":
		return GradedRevLex, nil
	}

	if k, ok := strings.CutPrefix(s, "elim:"); ok {
		n, err := strconv.Atoi(k)
		if err != nil || n < 1 || n >= MaxVars {
			return Order{}, fmt.Errorf("%w: elimination block %q", ErrParse, k)
		}

		return Elimination(n), nil
	}

	return Order{}, fmt.Errorf("%w: unknown monomial order %q", ErrParse, s)
}

func cmpUint[T uint16 | uint32](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}

	return 0
}

// lexCompare: the first differing exponent decides, larger exponent is larger.
func lexCompare(a, b *Monomial, from, to int) int {
	for i := from; i < to; i++ {
		if c := cmpUint(a.exps[i], b.exps[i]); c != 0 {
			return c
		}
	}

	return 0
}

// revLexCompare: the last differing exponent decides, smaller exponent is larger.
func revLexCompare(a, b *Monomial, from, to int) int {
	for i := to - 1; i >= from; i-- {
		if c := cmpUint(a.exps[i], b.exps[i]); c != 0 {
			return -c
		}
	}

	return 0
}

func gradedRevLexBlock(a, b *Monomial, from, to int) int {
	var da, db uint32
	for i := from; i < to; i++ {
		da += uint32(a.exps[i])
		db += uint32(b.exps[i])
	}

	if c := cmpUint(da, db); c != 0 {
		return c
	}

	return revLexCompare(a, b, from, to)
}
