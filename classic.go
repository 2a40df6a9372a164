package gbasis

import (
	"github.com/jonathanmweiss/go-gbasis/poly"
)

// classic is Buchberger's algorithm with the normal selection strategy and
// the Gebauer–Möller criteria.
type classic[E any] struct {
	elems     []*poly.Polynomial[E]
	lms       []poly.Monomial
	divs      []divisorMono
	redundant []bool

	queue pairQueue
	st    pairStats
}

func newClassic[E any]() *classic[E] {
	return &classic[E]{}
}

func (c *classic[E]) name() string { return "buchberger" }

func (c *classic[E]) init(gens []*poly.Polynomial[E]) error {
	for _, g := range gens {
		if g.IsZero() {
			continue
		}

		c.add(g.Monic())
	}

	return nil
}

func (c *classic[E]) add(p *poly.Polynomial[E]) {
	c.elems = append(c.elems, p)
	c.lms = append(c.lms, p.LM())
	c.divs = append(c.divs, divisorMono{mono: p.LM(), ok: true})
	c.redundant = append(c.redundant, false)

	updatePairs(&c.queue, c.lms, c.redundant, len(c.elems)-1, &c.st)
}

func (c *classic[E]) next(batch bool) ([]*job[E], error) {
	deg, ok := c.queue.peekDegree()
	if !ok {
		return nil, nil
	}

	n := len(c.elems)

	var jobs []*job[E]
	for {
		p, ok := c.queue.pop()
		if !ok {
			break
		}

		s, err := SPolynomial(c.elems[p.key.i], c.elems[p.key.j])
		if err != nil {
			return nil, err
		}

		jobs = append(jobs, &job[E]{
			key:    p.key,
			degree: deg,
			spoly:  s,
			basis:  c.elems[:n:n],
			lms:    c.divs[:n:n],
		})

		if !batch {
			break
		}

		if d, ok := c.queue.peekDegree(); !ok || d != deg {
			break
		}
	}

	return jobs, nil
}

func (c *classic[E]) reduce(j *job[E]) (*poly.Polynomial[E], error) {
	return normalForm(j.spoly, j.basis, j.lms, true)
}

// admit finishes the reduction against elements admitted after the job's
// snapshot was taken, then installs the result.
func (c *classic[E]) admit(j *job[E], nf *poly.Polynomial[E]) (*poly.Polynomial[E], error) {
	if nf.IsZero() {
		return nil, nil
	}

	if len(c.elems) > len(j.basis) {
		var err error
		if nf, err = normalForm(nf, c.elems, c.divs, true); err != nil {
			return nil, err
		}

		if nf.IsZero() {
			return nil, nil
		}
	}

	nf = nf.Monic()
	c.add(nf)

	return nf, nil
}

func (c *classic[E]) basis() []*poly.Polynomial[E] { return c.elems }

func (c *classic[E]) pending() int { return c.queue.live }

func (c *classic[E]) counters() pairStats { return c.st }
