package metrics

import "math"

// EdgeStrain is the mean relative deviation of link lengths from the rest
// distance at the latest tick.
type EdgeStrain struct {
	name     string
	distance float64
	value    float64
}

func NewEdgeStrain(distance float64) *EdgeStrain {
	return &EdgeStrain{
		name:     "edge_strain",
		distance: distance,
	}
}

func (e *EdgeStrain) Name() string {
	return e.name
}

func (e *EdgeStrain) Observe(s Sample) {
	if e.distance <= 0 {
		return
	}
	sum, n := 0.0, 0
	for _, l := range s.Links {
		if l.Source == nil || l.Target == nil {
			continue
		}
		d := math.Hypot(l.Target.X-l.Source.X, l.Target.Y-l.Source.Y)
		sum += math.Abs(d-e.distance) / e.distance
		n++
	}
	if n == 0 {
		e.value = 0
		return
	}
	e.value = sum / float64(n)
}

func (e *EdgeStrain) Value() float64 {
	return e.value
}

func (e *EdgeStrain) Reset() {
	e.value = 0
}
