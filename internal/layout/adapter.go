// Package layout couples a force simulation to a host frame loop. The host
// calls Tick once per frame; the adapter reports every step and the moment
// the layout settles.
package layout

import (
	"github.com/charmbracelet/log"
	"github.com/san-kum/forcegraph/internal/force"
	"github.com/san-kum/forcegraph/internal/graph"
)

const (
	ForceCharge = "charge"
	ForceLink   = "link"
	ForceCenter = "center"
)

// Params tunes the simulation. Zero fields keep the simulation defaults.
type Params struct {
	Charge        float64
	LinkDistance  float64
	CenterX       float64
	CenterY       float64
	AlphaMin      float64
	AlphaDecay    float64
	VelocityDecay float64
	Seed          int64
}

func DefaultParams() Params {
	return Params{Charge: -30, LinkDistance: 30, Seed: 1}
}

// Binding is the node and link set currently handed to the simulation.
// Generation increases by one on every Configure.
type Binding struct {
	Nodes      []*graph.Node
	Links      []*graph.Edge
	Generation int
}

type Adapter struct {
	sim    *force.Simulation
	charge *force.ManyBody
	link   *force.Link
	center *force.Center

	onStep    func()
	onSettled func()

	binding Binding
	settled bool
	stopped bool
	logger  *log.Logger
}

// New builds an adapter with charge, link and center forces installed.
// The simulation does not tick until the first Configure.
func New(p Params, logger *log.Logger) *Adapter {
	if logger == nil {
		logger = log.Default()
	}
	a := &Adapter{
		sim:    force.New(p.Seed),
		charge: force.NewManyBody(),
		link:   force.NewLink(),
		center: force.NewCenter(p.CenterX, p.CenterY),
		logger: logger,
	}
	if p.Charge != 0 {
		a.charge.Strength = p.Charge
	}
	if p.LinkDistance > 0 {
		a.link.Distance = p.LinkDistance
	}
	if p.AlphaMin > 0 {
		a.sim.SetAlphaMin(p.AlphaMin)
	}
	if p.AlphaDecay > 0 {
		a.sim.SetAlphaDecay(p.AlphaDecay)
	}
	if p.VelocityDecay > 0 {
		a.sim.SetVelocityDecay(p.VelocityDecay)
	}

	a.sim.SetForce(ForceCharge, a.charge).
		SetForce(ForceLink, a.link).
		SetForce(ForceCenter, a.center)

	a.sim.OnTick(func() {
		if a.onStep != nil {
			a.onStep()
		}
	})
	a.sim.OnEnd(a.settle)
	a.sim.Stop()
	a.settled = true
	return a
}

// Configure replaces the simulated node and link sets, reheats and restarts.
// Node positions are updated in place from then on.
func (a *Adapter) Configure(nodes []*graph.Node, links []*graph.Edge) {
	a.binding = Binding{
		Nodes:      append([]*graph.Node(nil), nodes...),
		Links:      append([]*graph.Edge(nil), links...),
		Generation: a.binding.Generation + 1,
	}
	a.sim.Nodes(a.binding.Nodes)
	a.link.Links(a.binding.Links)
	a.sim.SetAlpha(1)
	a.sim.Restart()
	a.settled = false
	a.stopped = false

	a.logger.Debug("layout configured",
		"nodes", len(nodes), "links", len(links), "generation", a.binding.Generation)
}

// OnStep registers fn to run after every simulation step.
func (a *Adapter) OnStep(fn func()) { a.onStep = fn }

// OnSettled registers fn to run once per configuration when the layout
// cools below its threshold or is stopped.
func (a *Adapter) OnSettled(fn func()) { a.onSettled = fn }

// Detach drops both callbacks.
func (a *Adapter) Detach() {
	a.onStep = nil
	a.onSettled = nil
}

// Tick advances the simulation by one step. It is a no-op once stopped or
// settled and reports whether another tick is wanted.
func (a *Adapter) Tick() bool {
	if a.stopped {
		return false
	}
	return a.sim.Tick()
}

// Stop halts the simulation and fires the settled callback if it has not
// fired for the current configuration.
func (a *Adapter) Stop() {
	if a.stopped {
		return
	}
	a.stopped = true
	a.sim.Stop()
	a.settle()
}

func (a *Adapter) settle() {
	if a.settled {
		return
	}
	a.settled = true
	a.logger.Debug("layout settled", "ticks", a.sim.Ticks(), "alpha", a.sim.Alpha())
	if a.onSettled != nil {
		a.onSettled()
	}
}

func (a *Adapter) Running() bool { return !a.stopped && a.sim.Running() }

func (a *Adapter) Alpha() float64 { return a.sim.Alpha() }

func (a *Adapter) Binding() Binding { return a.binding }

// Generation is the number of Configure calls so far.
func (a *Adapter) Generation() int { return a.binding.Generation }

func (a *Adapter) Simulation() *force.Simulation { return a.sim }

// Reheat raises alpha back to a and resumes ticking without changing the
// bound sets.
func (a *Adapter) Reheat(alpha float64) {
	if a.stopped {
		return
	}
	a.sim.SetAlpha(alpha)
	a.sim.Restart()
	a.settled = false
}
