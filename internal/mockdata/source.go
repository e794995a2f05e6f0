// Package mockdata synthesizes the sales, supplier and payment figures that
// feed the dashboard. All randomness goes through a RandomDataSource so that
// tests (and demos) can pin a seed.
package mockdata

import (
	"math/rand/v2"
	"sync"
	"time"
)

// RandomDataSource is the only source of randomness used by the generators.
type RandomDataSource interface {
	// IntN returns a uniform integer in [lo, hi], both inclusive.
	IntN(lo, hi int) int
	// Float returns a uniform float in [lo, hi).
	Float(lo, hi float64) float64
	// Pick returns a uniform index in [0, n).
	Pick(n int) int
}

// Source is a RandomDataSource backed by a PCG generator. Safe for
// concurrent use.
type Source struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSource returns a Source seeded with seed. A zero seed derives one from
// the current time.
func NewSource(seed uint64) *Source {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &Source{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (s *Source) IntN(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return lo + s.rng.IntN(hi-lo+1)
}

func (s *Source) Float(lo, hi float64) float64 {
	if hi <= lo {
		return lo
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return lo + s.rng.Float64()*(hi-lo)
}

func (s *Source) Pick(n int) int {
	if n <= 1 {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.IntN(n)
}
