package sim

import (
	"fmt"

	"github.com/san-kum/forcegraph/internal/chart"
	"github.com/san-kum/forcegraph/internal/graph"
	"github.com/san-kum/forcegraph/internal/graphsync"
	"github.com/san-kum/forcegraph/internal/metrics"
)

// StillThreshold is the node speed under which a tick counts as calm.
const StillThreshold = 0.05

// Session binds one graph dataset to a chart drawing onto a canvas.
type Session struct {
	Chart      *chart.Chart
	Controller *graphsync.Controller
	Dataset    *graph.Dataset

	Energy  *metrics.KineticEnergy
	Alpha   *metrics.Alpha
	Metrics metrics.Set

	ticks int
	trace []TracePoint
}

// NewSession registers the graph type on a fresh registry, adds ds to a
// chart over area of canvas and runs the first update.
func NewSession(canvas chart.Canvas, area chart.Area, ds *graph.Dataset, opts graphsync.Options) (*Session, error) {
	reg := chart.NewRegistry()
	if err := graphsync.Register(reg, opts); err != nil {
		return nil, err
	}
	c := chart.New(canvas, area, reg, opts.Logger)
	dc, err := c.AddDataset(graphsync.Kind, ds)
	if err != nil {
		return nil, err
	}
	ctrl, ok := dc.(*graphsync.Controller)
	if !ok {
		return nil, fmt.Errorf("sim: unexpected controller %T", dc)
	}

	s := &Session{
		Chart:      c,
		Controller: ctrl,
		Dataset:    ds,
		Energy:     metrics.NewKineticEnergy(),
		Alpha:      metrics.NewAlpha(),
	}
	s.Metrics = metrics.Set{
		s.Energy,
		s.Alpha,
		metrics.NewStability(StillThreshold),
		metrics.NewEdgeStrain(opts.Layout.LinkDistance),
	}
	c.Update()
	return s, nil
}

// Step advances the layout by one tick and records metrics when the
// simulation actually stepped. It reports whether the layout is still
// running.
func (s *Session) Step() bool {
	sim := s.Controller.Adapter().Simulation()
	before := sim.Ticks()
	running := s.Controller.Tick()
	if sim.Ticks() == before {
		return running
	}

	s.ticks++
	b := s.Controller.Adapter().Binding()
	s.Metrics.Observe(metrics.Sample{
		Tick:  s.ticks,
		Alpha: sim.Alpha(),
		Nodes: b.Nodes,
		Links: b.Links,
	})
	s.trace = append(s.trace, TracePoint{Tick: s.ticks, Alpha: sim.Alpha(), Energy: s.Energy.Value()})
	return running
}

// Ticks is the number of simulation steps taken so far.
func (s *Session) Ticks() int { return s.ticks }

func (s *Session) Trace() []TracePoint { return s.trace }

// Running reports whether the layout still wants ticks.
func (s *Session) Running() bool { return s.Controller.Adapter().Running() }

// Reset clears the recorded metrics and reheats the layout.
func (s *Session) Reset() {
	s.Metrics.Reset()
	s.trace = s.trace[:0]
	s.ticks = 0
	s.Controller.ResyncSimulation()
	s.Chart.Reset()
}

func (s *Session) Close() {
	s.Chart.Destroy()
}
