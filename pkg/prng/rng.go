// Package prng provides the per-LP deterministic random source used by the
// PHOLD workload: one primary stream per logical process, seeded from the LP
// id, from which the remote/local coin, destination, and delay draws are all
// taken in a fixed order.
package prng

import "math/rand/v2"

// seedOffset is a fixed additive offset: LP id 0 would otherwise produce a
// zero seed.
const seedOffset = 1

// Stream is the deterministic RNG owned by a single LP. Running the same
// configuration with the same LP count reproduces the same draw sequence per
// LP regardless of partition assignment, because the seed depends only on
// the LP id.
type Stream struct {
	r *rand.Rand
}

// New returns the stream for LP id, seeded deterministically from it.
func New(id int) *Stream {
	seed := uint64(seedOffset + id)
	return &Stream{r: rand.New(rand.NewPCG(seed, seed))}
}

// Coin draws a uniform float in [0, 1), used for the remote-or-not decision.
func (s *Stream) Coin() float64 {
	return s.r.Float64()
}

// UniformExcept draws a uniform integer in [0, n) that is not equal to
// exclude, rejecting and redrawing self-hits. n must be >= 2.
func (s *Stream) UniformExcept(n, exclude int) int {
	for {
		v := s.r.IntN(n)
		if v != exclude {
			return v
		}
	}
}

// Exponential draws a value from an exponential distribution with the given
// rate (draws are in the same time units as 1/rate).
func (s *Stream) Exponential(rate float64) float64 {
	return s.r.ExpFloat64() / rate
}
