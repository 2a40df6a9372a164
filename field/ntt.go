package field

import (
	"errors"
	"sync"
)

// products with fewer combined coefficients use schoolbook multiplication.
const nttThreshold = 64

type twiddleSet struct {
	// For each stage s (m = 2<<s), fwd[s] (and inv[s]) has length m/2
	// holding w^j where w = psi^(n/m) for forward, and w = psiInv^(n/m) for inverse.
	fwd  [][]uint64
	inv  [][]uint64
	nInv uint64 // inverse of n (for inverse NTT scaling)
}

type twiddleKey struct {
	prime uint64
	n     int
}

type nttTables struct {
	mu           sync.RWMutex
	twiddleCache map[twiddleKey]*twiddleSet
}

func newNttTables() *nttTables {
	return &nttTables{twiddleCache: make(map[twiddleKey]*twiddleSet)}
}

func (t *nttTables) getTwiddles(pf *PrimeField, n int) (*twiddleSet, error) {
	key := twiddleKey{prime: pf.Modulus(), n: n}

	t.mu.RLock()
	if ts, ok := t.twiddleCache[key]; ok {
		t.mu.RUnlock()
		return ts, nil
	}
	t.mu.RUnlock()

	// Build outside lock
	psi, err := pf.GetRootOfUnity(uint64(n))
	if err != nil {
		return nil, err
	}
	psiInv := pf.Inverse(psi)

	var fwd [][]uint64
	var inv [][]uint64

	// stages: m = 2,4,8,...,n  => stage index s = 0..(log2(n)-1)
	for m := 2; m <= n; m = m << 1 {
		half := m >> 1
		wmF := pf.Pow(psi, uint64(n/m))
		wmI := pf.Pow(psiInv, uint64(n/m))

		rowF := make([]uint64, half)
		rowI := make([]uint64, half)

		wF := uint64(1)
		wI := uint64(1)
		for j := 0; j < half; j++ {
			rowF[j] = wF
			rowI[j] = wI
			wF = pf.Mul(wF, wmF)
			wI = pf.Mul(wI, wmI)
		}

		fwd = append(fwd, rowF)
		inv = append(inv, rowI)
	}

	ts := &twiddleSet{
		fwd:  fwd,
		inv:  inv,
		nInv: pf.Inverse(uint64(n) % pf.Modulus()),
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	// Another goroutine may have won the race; keep the first one.
	if existing, ok := t.twiddleCache[key]; ok {
		return existing, nil
	}

	t.twiddleCache[key] = ts

	return ts, nil
}

var errNttLength = errors.New("ntt: length must be a power of two")

func (t *nttTables) forward(pf *PrimeField, xs []uint64) error {
	return t.transform(pf, xs, false)
}

func (t *nttTables) backward(pf *PrimeField, xs []uint64) error {
	return t.transform(pf, xs, true)
}

func (t *nttTables) transform(pf *PrimeField, xs []uint64, inverse bool) error {
	n := len(xs)
	if n <= 1 {
		return nil
	}

	if !IsPowerOfTwo(uint64(n)) {
		return errNttLength
	}

	ts, err := t.getTwiddles(pf, n)
	if err != nil {
		return err
	}

	bitReverseInPlace(xs)

	rows := ts.fwd
	if inverse {
		rows = ts.inv
	}

	for s, m := 0, 2; m <= n; s, m = s+1, m<<1 {
		half := m >> 1
		ws := rows[s]
		for k := 0; k < n; k += m {
			for j := 0; j < half; j++ {
				u := xs[k+j]
				v := pf.Mul(ws[j], xs[k+j+half])
				xs[k+j] = pf.Add(u, v)
				xs[k+j+half] = pf.Sub(u, v)
			}
		}
	}

	if inverse {
		for i := range xs {
			xs[i] = pf.Mul(xs[i], ts.nInv)
		}
	}

	return nil
}

// multiply computes the acyclic convolution of a and b through a cyclic
// transform of length at least len(a)+len(b)-1.
func (t *nttTables) multiply(pf *PrimeField, a, b []uint64) ([]uint64, error) {
	outLen := len(a) + len(b) - 1

	n := 1
	for n < outLen {
		n <<= 1
	}

	fa := make([]uint64, n)
	fb := make([]uint64, n)
	copy(fa, a)
	copy(fb, b)

	if err := t.forward(pf, fa); err != nil {
		return nil, err
	}

	if err := t.forward(pf, fb); err != nil {
		return nil, err
	}

	for i := range fa {
		fa[i] = pf.Mul(fa[i], fb[i])
	}

	if err := t.backward(pf, fa); err != nil {
		return nil, err
	}

	return fa[:outLen], nil
}

func bitReverseInPlace(xs []uint64) {
	n := len(xs)
	if n <= 1 {
		return
	}

	j := 0
	for i := 1; i < n-1; i++ {
		bit := n >> 1
		for j&bit != 0 {
			j &= ^bit
			bit >>= 1
		}
		j |= bit
		if i < j {
			xs[i], xs[j] = xs[j], xs[i]
		}
	}
}
