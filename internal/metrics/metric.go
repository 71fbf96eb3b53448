// Package metrics tracks scalar measures of a running layout, one sample
// per simulation tick.
package metrics

import "github.com/san-kum/forcegraph/internal/graph"

// Sample is the layout state observed after one tick.
type Sample struct {
	Tick  int
	Alpha float64
	Nodes []*graph.Node
	Links []*graph.Edge
}

type Metric interface {
	Name() string
	Observe(s Sample)
	Value() float64
	Reset()
}

// Set fans samples out to several metrics.
type Set []Metric

func (s Set) Observe(sample Sample) {
	for _, m := range s {
		m.Observe(sample)
	}
}

func (s Set) Reset() {
	for _, m := range s {
		m.Reset()
	}
}

// Values returns every metric value keyed by name.
func (s Set) Values() map[string]float64 {
	out := make(map[string]float64, len(s))
	for _, m := range s {
		out[m.Name()] = m.Value()
	}
	return out
}
