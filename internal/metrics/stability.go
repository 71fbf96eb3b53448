package metrics

import "math"

// Stability is the fraction of ticks on which no node moved faster than
// threshold.
type Stability struct {
	name      string
	threshold float64
	calm      int
	samples   int
}

func NewStability(threshold float64) *Stability {
	return &Stability{
		name:      "stability",
		threshold: threshold,
	}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) Observe(sample Sample) {
	s.samples++
	for _, n := range sample.Nodes {
		if math.Hypot(n.VX, n.VY) > s.threshold {
			return
		}
	}
	s.calm++
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return float64(s.calm) / float64(s.samples)
}

func (s *Stability) Reset() {
	s.calm = 0
	s.samples = 0
}
