package field

import (
	"sync"

	"github.com/tuneinsight/lattigo/v6/ring"
)

const (
	// ModularPrimeBits is the bit size of the primes handed out by Primes.
	ModularPrimeBits = 60
	// primes are congruent to 1 modulo 2^16, so products of up to 2^16
	// coefficients can use the NTT.
	modularNthRoot = 1 << 16
)

// PrimeSupply hands out NTT-friendly primes. It is safe for concurrent use.
type PrimeSupply struct {
	sync.Locker
	gen    ring.NTTFriendlyPrimesGenerator
	primes []uint64
}

func NewPrimeSupply() *PrimeSupply {
	return &PrimeSupply{
		Locker: &sync.Mutex{},
		gen:    ring.NewNTTFriendlyPrimesGenerator(ModularPrimeBits, modularNthRoot),
	}
}

// defaultSupply is shared by all modular computations of the process.
var defaultSupply = NewPrimeSupply()

// Primes returns the first n primes of the shared supply.
func Primes(n int) ([]uint64, error) {
	return defaultSupply.Primes(n)
}

// Primes returns the first n primes of the supply, generating more as needed.
func (s *PrimeSupply) Primes(n int) ([]uint64, error) {
	s.Lock()
	defer s.Unlock()

	if missing := n - len(s.primes); missing > 0 {
		more, err := s.gen.NextUpstreamPrimes(missing)
		if err != nil {
			return nil, err
		}

		s.primes = append(s.primes, more...)
	}

	out := make([]uint64, n)
	copy(out, s.primes[:n])

	return out, nil
}
