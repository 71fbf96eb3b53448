package automation

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/san-kum/forcegraph/internal/graph"
	"github.com/san-kum/forcegraph/internal/graphsync"
	"github.com/san-kum/forcegraph/internal/sim"
)

func testConfig() sim.Config {
	opts := graphsync.DefaultOptions()
	opts.Logger = log.New(io.Discard)
	return sim.Config{MaxTicks: 500, Sync: opts}
}

func intp(v int) *int { return &v }

const churnYAML = `name: churn
description: grow, cut and swap
graph:
  nodes: 6
  edges: 0
  seed: 2
steps:
  - op: tick
    count: 5
  - op: push_node
    count: 2
    source: 0
    label: leaf
  - op: push_edge
    source: 1
    target: 2
  - op: remove_node
    index: 0
  - op: swap_edges
    frozen: true
  - op: push_edge
    source: 1
    target: 3
  - op: settle
`

func writeScenario(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadScenario(t *testing.T) {
	s, err := LoadScenario(writeScenario(t, churnYAML))
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if s.Name != "churn" || s.Graph.Nodes != 6 {
		t.Errorf("unexpected header: %+v", s)
	}
	if len(s.Steps) != 7 {
		t.Fatalf("expected 7 steps, got %d", len(s.Steps))
	}
	if s.Steps[1].Source == nil || *s.Steps[1].Source != 0 {
		t.Error("expected push_node source 0")
	}
	if !s.Steps[4].Frozen {
		t.Error("expected frozen swap")
	}
}

func TestLoadScenario_Missing(t *testing.T) {
	if _, err := LoadScenario(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestRunScenario_Churn(t *testing.T) {
	s, err := LoadScenario(writeScenario(t, churnYAML))
	if err != nil {
		t.Fatal(err)
	}

	reports, err := RunScenario(context.Background(), s, testConfig())
	if err != nil {
		t.Fatalf("scenario failed: %v", err)
	}
	if len(reports) != len(s.Steps) {
		t.Fatalf("expected %d reports, got %d", len(s.Steps), len(reports))
	}

	for i, r := range reports {
		if !r.Aligned() {
			t.Errorf("step %d (%s): elements out of line: %+v", i+1, r.Op, r)
		}
	}

	if reports[0].Ticks != 5 {
		t.Errorf("expected 5 ticks after first step, got %d", reports[0].Ticks)
	}

	nodes, edges := graph.Random(6, 0, 2)
	touching := 2
	for _, e := range edges {
		if e.Source == nodes[0] || e.Target == nodes[0] {
			touching++
		}
	}

	grow := reports[1]
	if grow.Nodes != 8 || grow.Edges != len(edges)+2 {
		t.Errorf("expected 8 nodes and %d edges, got %d and %d", len(edges)+2, grow.Nodes, grow.Edges)
	}
	if grow.Resyncs <= reports[0].Resyncs {
		t.Error("inserting nodes should resync the layout")
	}

	cut := reports[3]
	if cut.Nodes != 7 {
		t.Errorf("expected 7 nodes after removal, got %d", cut.Nodes)
	}
	if len(cut.Dangling) != touching {
		t.Errorf("expected %d dangling edges, got %v", touching, cut.Dangling)
	}
	if cut.Edges != len(edges)+3-touching {
		t.Errorf("expected dangling edges pruned, got %d edges", cut.Edges)
	}

	frozen := reports[5]
	if frozen.Edges != cut.Edges+1 || frozen.Dangling != nil {
		t.Errorf("frozen sequence should still be followed by length, got %+v", frozen)
	}

	last := reports[6]
	if last.Ticks <= reports[5].Ticks {
		t.Error("settle should take ticks")
	}
}

func TestRunScenario_UnknownOp(t *testing.T) {
	s := &Scenario{
		Graph: GraphSpec{Nodes: 3, Seed: 1},
		Steps: []ScenarioStep{{Op: "tick"}, {Op: "explode"}},
	}
	reports, err := RunScenario(context.Background(), s, testConfig())
	if !errors.Is(err, ErrUnknownOp) {
		t.Fatalf("expected ErrUnknownOp, got %v", err)
	}
	if len(reports) != 1 {
		t.Errorf("expected the first step to be reported, got %d", len(reports))
	}
}

func TestRunScenario_PushEdgeOutOfRange(t *testing.T) {
	s := &Scenario{
		Graph: GraphSpec{Nodes: 3, Seed: 1},
		Steps: []ScenarioStep{{Op: "push_edge", Source: intp(0), Target: 9}},
	}
	if _, err := RunScenario(context.Background(), s, testConfig()); err == nil {
		t.Error("expected error for out of range target")
	}
}

func TestRunScenario_KeepDangling(t *testing.T) {
	cfg := testConfig()
	cfg.Sync.PruneDangling = false
	s := &Scenario{
		Graph: GraphSpec{Nodes: 3, Seed: 1},
		Steps: []ScenarioStep{
			{Op: "push_edge", Source: intp(0), Target: 1},
			{Op: "pop_node"},
			{Op: "pop_node"},
		},
	}

	reports, err := RunScenario(context.Background(), s, cfg)
	if err != nil {
		t.Fatal(err)
	}
	last := reports[len(reports)-1]
	if last.Edges != 3 || len(last.Dangling) != 3 {
		t.Errorf("expected the edge kept and reported, got %+v", last)
	}
}

func TestRunScenario_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := &Scenario{Graph: GraphSpec{Nodes: 2}, Steps: []ScenarioStep{{Op: "tick"}}}
	if _, err := RunScenario(ctx, s, testConfig()); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
