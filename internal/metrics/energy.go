package metrics

// KineticEnergy is the total v²/2 of all nodes at the latest tick. Every
// observed value is kept so it can be plotted.
type KineticEnergy struct {
	name    string
	history []float64
}

func NewKineticEnergy() *KineticEnergy {
	return &KineticEnergy{name: "kinetic_energy"}
}

func (e *KineticEnergy) Name() string { return e.name }

func (e *KineticEnergy) Observe(s Sample) {
	total := 0.0
	for _, n := range s.Nodes {
		total += 0.5 * (n.VX*n.VX + n.VY*n.VY)
	}
	e.history = append(e.history, total)
}

func (e *KineticEnergy) Value() float64 {
	if len(e.history) == 0 {
		return 0
	}
	return e.history[len(e.history)-1]
}

// History returns the observed values in tick order.
func (e *KineticEnergy) History() []float64 { return e.history }

func (e *KineticEnergy) Reset() { e.history = e.history[:0] }

// Alpha records the simulation temperature.
type Alpha struct {
	name    string
	history []float64
}

func NewAlpha() *Alpha {
	return &Alpha{name: "alpha"}
}

func (a *Alpha) Name() string { return a.name }

func (a *Alpha) Observe(s Sample) { a.history = append(a.history, s.Alpha) }

func (a *Alpha) Value() float64 {
	if len(a.history) == 0 {
		return 0
	}
	return a.history[len(a.history)-1]
}

func (a *Alpha) History() []float64 { return a.history }

func (a *Alpha) Reset() { a.history = a.history[:0] }
