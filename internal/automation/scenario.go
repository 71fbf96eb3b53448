// Package automation replays scripted mutation scenarios against a live
// graph dataset and sweeps layout parameters.
package automation

import (
	"context"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/forcegraph/internal/chart"
	"github.com/san-kum/forcegraph/internal/graph"
	"github.com/san-kum/forcegraph/internal/graphsync"
	"github.com/san-kum/forcegraph/internal/observe"
	"github.com/san-kum/forcegraph/internal/sim"
)

var ErrUnknownOp = errors.New("automation: unknown step op")

// Scenario is a scripted sequence of dataset mutations and layout ticks.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Graph       GraphSpec      `yaml:"graph"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// GraphSpec is the starting graph: a JSON file, or a random graph when File
// is empty.
type GraphSpec struct {
	File  string `yaml:"file"`
	Nodes int    `yaml:"nodes"`
	Edges int    `yaml:"edges"`
	Seed  int64  `yaml:"seed"`
}

// ScenarioStep is one mutation or tick batch. Ops:
//
//	push_node, unshift_node   add Count nodes (linked to Source when set)
//	pop_node, shift_node      remove the last or first node
//	remove_node               splice out node Index
//	push_edge                 link Source to Target
//	pop_edge, shift_edge      remove the last or first edge
//	splice_edges              remove Count edges at Index
//	swap_edges                replace the edge sequence with a copy, frozen
//	                          when Frozen is set
//	freeze_edges              stop edge notifications
//	tick                      run Count layout ticks
//	settle                    tick until the layout settles
type ScenarioStep struct {
	Op     string `yaml:"op"`
	Index  int    `yaml:"index"`
	Count  int    `yaml:"count"`
	Source *int   `yaml:"source"`
	Target int    `yaml:"target"`
	Label  string `yaml:"label"`
	Frozen bool   `yaml:"frozen"`
}

// StepReport is the dataset and element state after one step.
type StepReport struct {
	Op           string
	Nodes        int
	Edges        int
	NodeElements int
	EdgeElements int
	Resyncs      int
	Ticks        int
	Dangling     []int
}

// Aligned reports whether both element stores match their sequences.
func (r StepReport) Aligned() bool {
	return r.Nodes == r.NodeElements && r.Edges == r.EdgeElements
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &scenario, nil
}

func (s *Scenario) build() ([]*graph.Node, []*graph.Edge, error) {
	if s.Graph.File != "" {
		return graph.ReadFile(s.Graph.File)
	}
	nodes, edges := graph.Random(s.Graph.Nodes, s.Graph.Edges, s.Graph.Seed)
	return nodes, edges, nil
}

// RunScenario applies every step in order, reconciling the chart after each
// one, and reports the state after every step.
func RunScenario(ctx context.Context, scenario *Scenario, cfg sim.Config) ([]StepReport, error) {
	nodes, edges, err := scenario.build()
	if err != nil {
		return nil, err
	}
	s, err := sim.NewSession(chart.Discard{}, chart.Area{Right: 1, Bottom: 1}, graph.NewDataset(nodes, edges), cfg.Sync)
	if err != nil {
		return nil, err
	}
	defer s.Close()

	logger := cfg.Sync.Logger
	reports := make([]StepReport, 0, len(scenario.Steps))
	for i, step := range scenario.Steps {
		select {
		case <-ctx.Done():
			return reports, ctx.Err()
		default:
		}

		if err := apply(s, step, cfg.MaxTicks); err != nil {
			return reports, fmt.Errorf("step %d: %w", i+1, err)
		}
		s.Chart.Update()

		r := report(s, step.Op)
		if logger != nil {
			logger.Debug("scenario step", "step", i+1, "op", step.Op,
				"nodes", r.Nodes, "edges", r.Edges, "resyncs", r.Resyncs)
		}
		reports = append(reports, r)
	}
	return reports, nil
}

func report(s *sim.Session, op string) StepReport {
	ds := s.Dataset
	ctrl := s.Controller
	r := StepReport{
		Op:           op,
		Nodes:        ds.Nodes.Len(),
		Edges:        ds.Edges.Len(),
		NodeElements: len(ctrl.NodeElements()),
		EdgeElements: len(ctrl.EdgeElements()),
		Resyncs:      ctrl.Resyncs(),
		Ticks:        s.Ticks(),
	}
	var dangling *graphsync.DanglingEdgeError
	if errors.As(ctrl.Err(), &dangling) {
		r.Dangling = dangling.Indices
	}
	return r
}

func apply(s *sim.Session, step ScenarioStep, maxTicks int) error {
	ds := s.Dataset
	switch step.Op {
	case "push_node", "unshift_node":
		count := max(step.Count, 1)
		added := make([]*graph.Node, count)
		for i := range added {
			added[i] = &graph.Node{Label: step.Label}
		}
		if step.Op == "push_node" {
			ds.Nodes.Push(added...)
		} else {
			ds.Nodes.Unshift(added...)
		}
		if step.Source != nil && *step.Source >= 0 && *step.Source < ds.Nodes.Len() {
			peer := ds.Nodes.At(*step.Source)
			for _, n := range added {
				ds.Edges.Push(&graph.Edge{Source: peer, Target: n})
			}
		}
	case "pop_node":
		ds.Nodes.Pop()
	case "shift_node":
		ds.Nodes.Shift()
	case "remove_node":
		ds.Nodes.Splice(step.Index, 1)
	case "push_edge":
		if step.Source == nil {
			return errors.New("push_edge needs a source")
		}
		e, err := graph.Link(ds.Nodes.Items(), *step.Source, step.Target)
		if err != nil {
			return err
		}
		ds.Edges.Push(e)
	case "pop_edge":
		ds.Edges.Pop()
	case "shift_edge":
		ds.Edges.Shift()
	case "splice_edges":
		ds.Edges.Splice(step.Index, max(step.Count, 1))
	case "swap_edges":
		next := observe.New(ds.Edges.Items()...)
		if step.Frozen {
			next.Freeze()
		}
		ds.Edges = next
	case "freeze_edges":
		ds.Edges.Freeze()
	case "tick":
		for i := 0; i < max(step.Count, 1); i++ {
			s.Step()
		}
	case "settle":
		for i := 0; i < maxTicks; i++ {
			if !s.Step() {
				break
			}
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownOp, step.Op)
	}
	return nil
}
