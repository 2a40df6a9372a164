package gbasis

import (
	"container/heap"

	"github.com/jonathanmweiss/go-gbasis/poly"
)

// pairKey names a critical pair by the indices of its two basis elements, i < j.
// For the signature strategy j == -1 marks an input generator.
type pairKey struct {
	i, j int
}

type pair struct {
	key  pairKey
	lcm  poly.Monomial
	dead bool
}

// pairQueue is a min-heap under the normal selection strategy: lowest lcm
// degree first, then the older pair (smaller j, then smaller i).
// Pairs removed by the chain criterion are marked dead and skipped on pop.
type pairQueue struct {
	items []*pair
	live  int
}

func (q *pairQueue) Len() int { return len(q.items) }

func (q *pairQueue) Less(a, b int) bool {
	x, y := q.items[a], q.items[b]
	if dx, dy := x.lcm.Degree(), y.lcm.Degree(); dx != dy {
		return dx < dy
	}

	if x.key.j != y.key.j {
		return x.key.j < y.key.j
	}

	return x.key.i < y.key.i
}

func (q *pairQueue) Swap(a, b int) { q.items[a], q.items[b] = q.items[b], q.items[a] }

func (q *pairQueue) Push(x any) { q.items = append(q.items, x.(*pair)) }

func (q *pairQueue) Pop() any {
	n := len(q.items)
	it := q.items[n-1]
	q.items[n-1] = nil
	q.items = q.items[:n-1]

	return it
}

func (q *pairQueue) add(p *pair) {
	heap.Push(q, p)
	q.live++
}

func (q *pairQueue) kill(p *pair) {
	if !p.dead {
		p.dead = true
		q.live--
	}
}

// peekDegree returns the lcm degree of the next live pair.
func (q *pairQueue) peekDegree() (int, bool) {
	q.dropDead()
	if len(q.items) == 0 {
		return 0, false
	}

	return q.items[0].lcm.Degree(), true
}

func (q *pairQueue) pop() (*pair, bool) {
	q.dropDead()
	if len(q.items) == 0 {
		return nil, false
	}

	p := heap.Pop(q).(*pair)
	q.live--

	return p, true
}

func (q *pairQueue) dropDead() {
	for len(q.items) > 0 && q.items[0].dead {
		heap.Pop(q)
	}
}

// pairStats counts the pairs a criterion removed.
type pairStats struct {
	created  int
	coprime  int
	chain    int
	rewrites int
	syzygies int
	singular int
}

// updatePairs admits basis element k to the pair set using the Gebauer–Möller
// installation: the B criterion prunes old pairs, M and F prune the new ones,
// and pairs with coprime leading monomials are dropped (Buchberger's first criterion).
// It returns the indices of older elements that became redundant.
func updatePairs(q *pairQueue, lms []poly.Monomial, redundant []bool, k int, st *pairStats) []int {
	h := lms[k]

	// B: an old pair (i,j) is superfluous when LM(h) divides its lcm and
	// both lcm(i,k) and lcm(j,k) differ from it.
	for _, p := range q.items {
		if p.dead || !h.Divides(p.lcm) {
			continue
		}

		if lms[p.key.i].LCM(h) != p.lcm && lms[p.key.j].LCM(h) != p.lcm {
			q.kill(p)
			st.chain++
		}
	}

	type cand struct {
		i       int
		lcm     poly.Monomial
		coprime bool
	}

	var cands []cand
	for i := range k {
		if redundant[i] {
			continue
		}

		cands = append(cands, cand{i: i, lcm: lms[i].LCM(h), coprime: lms[i].IsCoprime(h)})
	}
	st.created += len(cands)

	// M and F: keep a new pair only if no other new pair has an lcm dividing
	// its own; among equal lcms a coprime pair wins, otherwise the first.
	// Coprime pairs stay for this pass so they can shadow others, then are dropped.
	kept := make([]cand, 0, len(cands))
	for ci, c := range cands {
		shadowed := false
		if !c.coprime {
			for cj, d := range cands {
				if cj == ci || !d.lcm.Divides(c.lcm) {
					continue
				}

				if d.lcm != c.lcm || d.coprime || cj < ci {
					shadowed = true
					break
				}
			}
		}

		if shadowed {
			st.chain++
			continue
		}

		kept = append(kept, c)
	}

	for _, c := range kept {
		if c.coprime {
			st.coprime++
			continue
		}

		q.add(&pair{key: pairKey{i: c.i, j: k}, lcm: c.lcm})
	}

	var dropped []int
	for i := range k {
		if !redundant[i] && h.Divides(lms[i]) {
			redundant[i] = true
			dropped = append(dropped, i)
		}
	}

	return dropped
}
