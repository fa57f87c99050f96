// Package generate produces the randomized input sequences fed to candidate
// sorts.
package generate

import (
	"math"
	"math/rand/v2"
	"time"
)

// Sampler draws integers from closed ranges using one shared source.
//
// Ranges narrower than the full int domain are reduced with a modulo, so spans
// that do not divide 2^64 carry a small bias toward low offsets. That bias is
// kept on purpose to match the distribution of earlier benchmark logs.
type Sampler struct {
	src  rand.Source
	seed uint64
}

// NewSampler returns a sampler over a PCG source. A zero seed is replaced by
// the current Unix time.
func NewSampler(seed uint64) *Sampler {
	if seed == 0 {
		seed = uint64(time.Now().Unix())
	}
	return &Sampler{src: rand.NewPCG(seed, seed), seed: seed}
}

// NewSamplerFromSource wraps an existing source; Seed reports zero.
func NewSamplerFromSource(src rand.Source) *Sampler {
	return &Sampler{src: src}
}

// Seed returns the seed the sampler was created with.
func (s *Sampler) Seed() uint64 {
	return s.seed
}

// Sample returns a value in [start, end]. Callers guarantee start <= end.
func (s *Sampler) Sample(start, end int) int {
	raw := s.src.Uint64()
	if start == math.MinInt && end == math.MaxInt {
		return int(raw)
	}
	span := uint64(end) - uint64(start) + 1
	return int(uint64(start) + raw%span)
}
