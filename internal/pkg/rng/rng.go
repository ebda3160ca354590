// Package rng provides the random source used to draw reel symbols.
package rng

import (
	"math/rand/v2"
	"sync"
)

// Source yields uniformly distributed integers in [0, n).
// Implementations must be safe for concurrent use.
type Source interface {
	IntN(n int) int
}

type globalSource struct{}

func (globalSource) IntN(n int) int {
	return rand.IntN(n)
}

// Default returns a source backed by the runtime-seeded global generator.
func Default() Source {
	return globalSource{}
}

// Seeded is a reproducible source, mainly for tests and payout simulations.
type Seeded struct {
	mu sync.Mutex
	r  *rand.Rand
}

// NewSeeded creates a deterministic PCG-backed source.
func NewSeeded(seed uint64) *Seeded {
	return &Seeded{r: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// IntN returns a pseudo-random int in [0, n). It panics if n <= 0.
func (s *Seeded) IntN(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.IntN(n)
}

// Fixed replays a fixed sequence of values, wrapping around at the end.
// Each value is reduced modulo n.
type Fixed struct {
	mu     sync.Mutex
	values []int
	pos    int
}

// NewFixed creates a Fixed source. values must not be empty.
func NewFixed(values ...int) *Fixed {
	return &Fixed{values: values}
}

// IntN returns the next scripted value modulo n.
func (f *Fixed) IntN(n int) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	v := f.values[f.pos%len(f.values)]
	f.pos++
	if v < 0 {
		v = -v
	}
	return v % n
}
