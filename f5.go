package gbasis

import (
	"container/heap"

	"github.com/jonathanmweiss/go-gbasis/poly"
)

// signature is the module monomial mono*e_index. Signatures are compared
// position over term: the generator index first, then the monomial.
type signature struct {
	index int
	mono  poly.Monomial
}

func compareSig(o poly.Order, a, b signature) int {
	switch {
	case a.index < b.index:
		return -1
	case a.index > b.index:
		return 1
	}

	return o.Compare(a.mono, b.mono)
}

func (s signature) mul(m poly.Monomial) (signature, error) {
	mono, err := s.mono.Mul(m)
	if err != nil {
		return signature{}, err
	}

	return signature{index: s.index, mono: mono}, nil
}

type labeled[E any] struct {
	sig signature
	p   *poly.Polynomial[E]
	lm  poly.Monomial
}

// sigPair is a pending S-pair ua*elems[a] - ub*elems[b] with signature sig = ua*sig(a).
// b == -1 marks the input generator a.
type sigPair struct {
	sig    signature
	a, b   int
	ua, ub poly.Monomial
	degree int
	seq    int
}

type sigQueue struct {
	order poly.Order
	items []*sigPair
}

func (q *sigQueue) Len() int { return len(q.items) }

func (q *sigQueue) Less(a, b int) bool {
	x, y := q.items[a], q.items[b]
	if c := compareSig(q.order, x.sig, y.sig); c != 0 {
		return c < 0
	}

	return x.seq < y.seq
}

func (q *sigQueue) Swap(a, b int) { q.items[a], q.items[b] = q.items[b], q.items[a] }

func (q *sigQueue) Push(x any) { q.items = append(q.items, x.(*sigPair)) }

func (q *sigQueue) Pop() any {
	n := len(q.items)
	it := q.items[n-1]
	q.items[n-1] = nil
	q.items = q.items[:n-1]

	return it
}

// f5 is a signature-based completion in the F5 family: S-pairs are handled in
// increasing signature order, reductions are regular, and pairs are discarded
// by the syzygy criterion and the rewrite criterion.
type f5[E any] struct {
	order poly.Order
	gens  []*poly.Polynomial[E]
	elems []labeled[E]

	// syz[i] holds monomials m such that m*e_i is the signature of a known syzygy.
	syz  [][]poly.Monomial
	seen map[signature]bool

	queue sigQueue
	seq   int
	st    pairStats
}

func newF5[E any](order poly.Order) *f5[E] {
	return &f5[E]{
		order: order,
		seen:  make(map[signature]bool),
		queue: sigQueue{order: order},
	}
}

func (s *f5[E]) name() string { return "f5" }

func (s *f5[E]) init(gens []*poly.Polynomial[E]) error {
	for _, g := range gens {
		if g.IsZero() {
			continue
		}

		i := len(s.gens)
		s.gens = append(s.gens, g.Monic())
		s.push(&sigPair{sig: signature{index: i}, a: i, b: -1, degree: g.LM().Degree()})
	}

	s.syz = make([][]poly.Monomial, len(s.gens))

	return nil
}

func (s *f5[E]) push(p *sigPair) {
	p.seq = s.seq
	s.seq++
	heap.Push(&s.queue, p)
}

// covered is the syzygy criterion: sig is a multiple of a known syzygy signature.
func (s *f5[E]) covered(sig signature) bool {
	for _, m := range s.syz[sig.index] {
		if m.Divides(sig.mono) {
			return true
		}
	}

	return false
}

// rewritable is the rewrite criterion: an element admitted after a has a
// signature dividing sig, so it generates the same signature more recently.
func (s *f5[E]) rewritable(sig signature, a int) bool {
	for k := a + 1; k < len(s.elems); k++ {
		e := s.elems[k].sig
		if e.index == sig.index && e.mono.Divides(sig.mono) {
			return true
		}
	}

	return false
}

func (s *f5[E]) next(bool) ([]*job[E], error) {
	for len(s.queue.items) > 0 {
		p := heap.Pop(&s.queue).(*sigPair)

		if s.seen[p.sig] {
			s.st.rewrites++
			continue
		}

		if s.covered(p.sig) {
			s.st.syzygies++
			continue
		}

		if p.b >= 0 && s.rewritable(p.sig, p.a) {
			s.st.rewrites++
			continue
		}

		s.seen[p.sig] = true

		var (
			sp  *poly.Polynomial[E]
			err error
		)
		if p.b < 0 {
			sp = s.gens[p.a]
		} else {
			// elements are monic
			one := s.gens[0].Ring().Field().One()

			sp, err = s.elems[p.a].p.MulTerm(one, p.ua)
			if err != nil {
				return nil, err
			}

			sp, err = sp.SubMulTerm(one, p.ub, s.elems[p.b].p)
			if err != nil {
				return nil, err
			}
		}

		return []*job[E]{{
			key:    pairKey{i: p.a, j: p.b},
			degree: p.degree,
			sig:    p.sig,
			spoly:  sp,
		}}, nil
	}

	return nil, nil
}

// reducer finds the first element whose leading monomial divides m with a
// multiplied signature below sig. singular reports a divisor that hits sig exactly.
func (s *f5[E]) reducer(m poly.Monomial, sig signature) (int, bool, error) {
	singular := false

	for k, e := range s.elems {
		if !e.lm.Divides(m) {
			continue
		}

		us, err := e.sig.mul(m.Div(e.lm))
		if err != nil {
			return -1, false, err
		}

		switch compareSig(s.order, us, sig) {
		case -1:
			return k, singular, nil
		case 0:
			singular = true
		}
	}

	return -1, singular, nil
}

// reduce performs a full regular s-reduction of the job. A result whose
// leading term is only singularly reducible is flagged and dropped at admission.
func (s *f5[E]) reduce(j *job[E]) (*poly.Polynomial[E], error) {
	f := j.spoly.Ring().Field()

	var head []poly.Term[E]
	rem := j.spoly

	for !rem.IsZero() {
		lt := rem.Term(0)

		k, singular, err := s.reducer(lt.Mono, j.sig)
		if err != nil {
			return nil, err
		}

		if k < 0 {
			if len(head) == 0 && singular {
				j.singular = true
				return nil, nil
			}

			head = append(head, lt)
			rem = rem.Tail()

			continue
		}

		e := s.elems[k]
		c := f.Mul(lt.Coeff, f.Inverse(e.p.LC()))

		if rem, err = rem.SubMulTerm(c, lt.Mono.Div(e.lm), e.p); err != nil {
			return nil, err
		}
	}

	return rem.WithHead(head), nil
}

func (s *f5[E]) admit(j *job[E], nf *poly.Polynomial[E]) (*poly.Polynomial[E], error) {
	if j.singular {
		return nil, nil
	}

	if nf.IsZero() {
		s.syz[j.sig.index] = append(s.syz[j.sig.index], j.sig.mono)
		return nil, nil
	}

	p := nf.Monic()
	lm := p.LM()

	n := len(s.elems)
	s.elems = append(s.elems, labeled[E]{sig: j.sig, p: p, lm: lm})

	// Koszul syzygies: LM(p)*e_i for every later generator i.
	for i := j.sig.index + 1; i < len(s.gens); i++ {
		s.syz[i] = append(s.syz[i], lm)
	}

	for k := range n {
		if err := s.pairWith(n, k); err != nil {
			return nil, err
		}
	}

	return p, nil
}

// pairWith queues the S-pair of elements a (new) and b, unless it is singular
// or its signature is already a syzygy.
func (s *f5[E]) pairWith(a, b int) error {
	ea, eb := s.elems[a], s.elems[b]
	l := ea.lm.LCM(eb.lm)
	ua, ub := l.Div(ea.lm), l.Div(eb.lm)

	sa, err := ea.sig.mul(ua)
	if err != nil {
		return err
	}

	sb, err := eb.sig.mul(ub)
	if err != nil {
		return err
	}

	s.st.created++

	p := &sigPair{degree: l.Degree()}
	switch compareSig(s.order, sa, sb) {
	case 0:
		s.st.singular++
		return nil
	case 1:
		p.sig, p.a, p.b, p.ua, p.ub = sa, a, b, ua, ub
	default:
		p.sig, p.a, p.b, p.ua, p.ub = sb, b, a, ub, ua
	}

	if s.covered(p.sig) {
		s.st.syzygies++
		return nil
	}

	s.push(p)

	return nil
}

func (s *f5[E]) basis() []*poly.Polynomial[E] {
	out := make([]*poly.Polynomial[E], len(s.elems))
	for i, e := range s.elems {
		out[i] = e.p
	}

	return out
}

func (s *f5[E]) pending() int { return len(s.queue.items) }

func (s *f5[E]) counters() pairStats { return s.st }
