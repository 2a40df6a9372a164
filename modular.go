package gbasis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/jonathanmweiss/go-gbasis/field"
	"github.com/jonathanmweiss/go-gbasis/poly"
	"golang.org/x/crypto/sha3"
)

// modularCandidates is how many primes of the shared supply a run may pick from.
const modularCandidates = 16

var errNoLuckyPrime = errors.New("every candidate prime divides a leading coefficient or a denominator")

// outcome is what became of one critical pair: it vanished, or it added an
// element with leading monomial lm.
type outcome struct {
	zero bool
	lm   poly.Monomial
}

// modularTrace is the pair-by-pair history of a completion over a prime field.
// An exact run driven by it skips the pairs that vanished modulo the prime.
type modularTrace struct {
	prime    uint64
	outcomes map[pairKey]outcome
}

// traceSeed derives the pseudo-random prime choice from the input, so a given
// system always meets the same prime.
func traceSeed[E any](gens []*poly.Polynomial[E]) [32]byte {
	h := sha3.New256()
	for _, g := range gens {
		h.Write([]byte(g.String()))
		h.Write([]byte{0})
	}

	if len(gens) > 0 {
		h.Write([]byte(gens[0].Ring().Order().String()))
	}

	var seed [32]byte
	copy(seed[:], h.Sum(nil))

	return seed
}

// reduceModP maps the generators into F_p. It fails when p divides a
// denominator or annihilates a leading coefficient.
func reduceModP[E any](red field.PrimeReducer[E], pf *field.PrimeField, gens []*poly.Polynomial[E]) ([]*poly.Polynomial[uint64], bool) {
	if len(gens) == 0 {
		return nil, true
	}

	src := gens[0].Ring()

	r, err := poly.NewRing[uint64](pf, src.Order(), src.Vars()...)
	if err != nil {
		return nil, false
	}

	out := make([]*poly.Polynomial[uint64], 0, len(gens))
	for _, g := range gens {
		if g.IsZero() {
			continue
		}

		img, ok := poly.MapCoefficients(g, r, func(c E) (uint64, bool) { return red.ToPrime(pf, c) })
		if !ok || img.IsZero() || img.LM() != g.LM() {
			return nil, false
		}

		out = append(out, img)
	}

	return out, true
}

// pickPrime returns the forced prime, or the first candidate in a
// seed-determined permutation that keeps every generator's shape.
func pickPrime[E any](cfg *config, red field.PrimeReducer[E], gens []*poly.Polynomial[E]) (*field.PrimeField, []*poly.Polynomial[uint64], error) {
	try := func(p uint64) (*field.PrimeField, []*poly.Polynomial[uint64], bool, error) {
		pf, err := field.NewPrimeField(p)
		if err != nil {
			return nil, nil, false, err
		}

		imgs, ok := reduceModP(red, pf, gens)

		return pf, imgs, ok, nil
	}

	if cfg.prime != 0 {
		pf, imgs, ok, err := try(cfg.prime)
		if err != nil {
			return nil, nil, err
		}

		if !ok {
			return nil, nil, fmt.Errorf("%w: forced prime %d", errNoLuckyPrime, cfg.prime)
		}

		return pf, imgs, nil
	}

	primes, err := field.Primes(modularCandidates)
	if err != nil {
		return nil, nil, err
	}

	seed := traceSeed(gens)
	if cfg.seed != nil {
		seed = *cfg.seed
	}

	rng := rand.New(rand.NewChaCha8(seed))

	for _, i := range rng.Perm(len(primes)) {
		pf, imgs, ok, err := try(primes[i])
		if err != nil {
			return nil, nil, err
		}

		if ok {
			return pf, imgs, nil
		}
	}

	return nil, nil, errNoLuckyPrime
}

// runModular completes the image of the generators over a prime field and
// records every pair's outcome.
func runModular[E any](ctx context.Context, cfg *config, red field.PrimeReducer[E], gens []*poly.Polynomial[E]) (*modularTrace, error) {
	pf, imgs, err := pickPrime(cfg, red, gens)
	if err != nil {
		return nil, err
	}

	log := cfg.logger.With(slog.Uint64("prime", pf.Modulus()))

	d := newDriver[uint64](cfg, newClassic[uint64](), log)
	d.record = &modularTrace{prime: pf.Modulus(), outcomes: make(map[pairKey]outcome)}

	basis, err := d.run(ctx, imgs)
	if err != nil {
		return nil, err
	}

	log.Debug("modular trace recorded",
		slog.Int("pairs", len(d.record.outcomes)),
		slog.Int("basis", len(basis)),
	)

	return d.record, nil
}

// certify checks the pairs a guided run skipped: each S-polynomial must reduce
// to zero against the final basis, or the trace lied.
func certify[E any](skipped []*job[E], basis []*poly.Polynomial[E]) error {
	lms := leadingMonomials(basis)

	for _, j := range skipped {
		nf, err := normalForm(j.spoly, basis, lms, false)
		if err != nil {
			return err
		}

		if !nf.IsZero() {
			return fmt.Errorf("%w: skipped pair %v does not vanish", ErrModularMismatch, j.key)
		}
	}

	return nil
}
