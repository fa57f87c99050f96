package generate

import (
	"math"

	"sortbench/internal/spec"
)

// Generator builds trial inputs from a TestSpec.
type Generator struct {
	sampler *Sampler
}

// NewGenerator returns a Generator drawing from sampler.
func NewGenerator(sampler *Sampler) *Generator {
	return &Generator{sampler: sampler}
}

// Sampler exposes the underlying sampler.
func (g *Generator) Sampler() *Sampler {
	return g.sampler
}

// Generate returns s.Length samples over [s.Min, s.Max]. In critical mode
// math.MaxInt and then math.MinInt are appended regardless of the range.
func (g *Generator) Generate(s spec.TestSpec) []int {
	n := s.Length
	if s.Critical {
		n += 2
	}
	values := make([]int, s.Length, n)
	for i := range values {
		values[i] = g.sampler.Sample(s.Min, s.Max)
	}
	if s.Critical {
		values = append(values, math.MaxInt, math.MinInt)
	}
	return values
}
