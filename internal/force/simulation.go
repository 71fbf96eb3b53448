// Package force implements a velocity Verlet style force simulation for
// graph layout. A Simulation owns a node set and a list of named forces; every
// Tick cools alpha toward its target and moves nodes by their damped velocity.
package force

import (
	"math"

	opensimplex "github.com/ojrac/opensimplex-go"
	"github.com/san-kum/forcegraph/internal/graph"
)

const (
	initialRadius = 10.0
	jiggleScale   = 1e-6
)

var initialAngle = math.Pi * (3 - math.Sqrt(5))

// Force contributes velocity to the simulation's nodes.
type Force interface {
	Initialize(nodes []*graph.Node, jiggle func() float64)
	Apply(alpha float64)
}

type Simulation struct {
	nodes  []*graph.Node
	forces map[string]Force
	order  []string

	alpha         float64
	alphaMin      float64
	alphaDecay    float64
	alphaTarget   float64
	velocityDecay float64

	running bool
	ticks   int

	onTick func()
	onEnd  func()

	noise   opensimplex.Noise
	jiggles int
}

// New returns a running simulation with no nodes and no forces. seed feeds
// the noise source used to separate coincident nodes.
func New(seed int64) *Simulation {
	alphaMin := 0.001
	return &Simulation{
		forces:        make(map[string]Force),
		alpha:         1,
		alphaMin:      alphaMin,
		alphaDecay:    1 - math.Pow(alphaMin, 1.0/300),
		velocityDecay: 0.6,
		running:       true,
		noise:         opensimplex.New(seed),
	}
}

// Nodes replaces the node set. Each node gets its Index assigned, pinned
// nodes snap to their fixed position and nodes sitting at the origin are
// spread on a phyllotaxis spiral. Forces are re-initialized.
func (s *Simulation) Nodes(nodes []*graph.Node) *Simulation {
	s.nodes = nodes
	s.initializeNodes()
	for _, name := range s.order {
		s.forces[name].Initialize(s.nodes, s.jiggle)
	}
	return s
}

func (s *Simulation) NodeSet() []*graph.Node { return s.nodes }

// SetForce installs f under name, replacing any previous force with that
// name. A nil f removes the force.
func (s *Simulation) SetForce(name string, f Force) *Simulation {
	if f == nil {
		if _, ok := s.forces[name]; ok {
			delete(s.forces, name)
			for i, n := range s.order {
				if n == name {
					s.order = append(s.order[:i], s.order[i+1:]...)
					break
				}
			}
		}
		return s
	}
	if _, ok := s.forces[name]; !ok {
		s.order = append(s.order, name)
	}
	s.forces[name] = f
	f.Initialize(s.nodes, s.jiggle)
	return s
}

// Force returns the force registered under name, or nil.
func (s *Simulation) Force(name string) Force { return s.forces[name] }

func (s *Simulation) OnTick(fn func()) { s.onTick = fn }
func (s *Simulation) OnEnd(fn func())  { s.onEnd = fn }

func (s *Simulation) Alpha() float64           { return s.alpha }
func (s *Simulation) SetAlpha(a float64)       { s.alpha = a }
func (s *Simulation) AlphaMin() float64        { return s.alphaMin }
func (s *Simulation) SetAlphaMin(a float64)    { s.alphaMin = a }
func (s *Simulation) SetAlphaTarget(a float64) { s.alphaTarget = a }
func (s *Simulation) SetAlphaDecay(d float64)  { s.alphaDecay = d }

// SetVelocityDecay sets the fraction of velocity lost per tick.
func (s *Simulation) SetVelocityDecay(d float64) { s.velocityDecay = 1 - d }

func (s *Simulation) Running() bool { return s.running }
func (s *Simulation) Ticks() int    { return s.ticks }

// Restart resumes ticking without touching alpha.
func (s *Simulation) Restart() *Simulation {
	s.running = true
	return s
}

// Stop halts ticking. OnEnd is not fired.
func (s *Simulation) Stop() *Simulation {
	s.running = false
	return s
}

// Tick advances a running simulation by one step and fires OnTick. When
// alpha falls below alphaMin the simulation stops and fires OnEnd. It reports
// whether the simulation is still running afterwards.
func (s *Simulation) Tick() bool {
	if !s.running {
		return false
	}
	s.Step()
	if s.onTick != nil {
		s.onTick()
	}
	if s.alpha < s.alphaMin {
		s.running = false
		if s.onEnd != nil {
			s.onEnd()
		}
	}
	return s.running
}

// Step runs one integration step without firing events.
func (s *Simulation) Step() {
	s.alpha += (s.alphaTarget - s.alpha) * s.alphaDecay
	for _, name := range s.order {
		s.forces[name].Apply(s.alpha)
	}

	for _, n := range s.nodes {
		if n.FX == nil {
			n.VX *= s.velocityDecay
			n.X += n.VX
		} else {
			n.X = *n.FX
			n.VX = 0
		}
		if n.FY == nil {
			n.VY *= s.velocityDecay
			n.Y += n.VY
		} else {
			n.Y = *n.FY
			n.VY = 0
		}
	}
	s.ticks++
}

func (s *Simulation) initializeNodes() {
	for i, n := range s.nodes {
		n.Index = i
		if n.FX != nil {
			n.X = *n.FX
		}
		if n.FY != nil {
			n.Y = *n.FY
		}
		if n.X == 0 && n.Y == 0 && n.FX == nil && n.FY == nil {
			radius := initialRadius * math.Sqrt(0.5+float64(i))
			angle := float64(i) * initialAngle
			n.X = radius * math.Cos(angle)
			n.Y = radius * math.Sin(angle)
		}
		if math.IsNaN(n.VX) || math.IsNaN(n.VY) {
			n.VX, n.VY = 0, 0
		}
	}
}

func (s *Simulation) jiggle() float64 {
	s.jiggles++
	v := s.noise.Eval2(float64(s.jiggles)*0.37, float64(s.ticks)*0.11)
	if v == 0 {
		v = 0.5
	}
	return v * jiggleScale
}
