package automation

import (
	"context"
	"errors"
	"testing"

	"github.com/san-kum/forcegraph/internal/graph"
)

func TestParameterSweep_Values(t *testing.T) {
	sw := &ParameterSweep{Param: "charge", Min: -100, Max: -20, Steps: 5}
	want := []float64{-100, -80, -60, -40, -20}
	got := sw.Values()
	if len(got) != len(want) {
		t.Fatalf("expected %d values, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("value %d: expected %f, got %f", i, want[i], got[i])
		}
	}

	single := (&ParameterSweep{Min: 7, Max: 9, Steps: 1}).Values()
	if len(single) != 1 || single[0] != 7 {
		t.Errorf("expected [7], got %v", single)
	}
}

func TestRunSweep_LinkDistance(t *testing.T) {
	nodes, edges := graph.Random(8, 2, 4)
	before := nodes[0].X

	sw := &ParameterSweep{Param: "link_distance", Min: 10, Max: 60, Steps: 3}
	results, err := RunSweep(context.Background(), sw, nodes, edges, testConfig())
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	for i, r := range results {
		if r.Ticks == 0 {
			t.Errorf("run %d took no ticks", i)
		}
	}
	if results[0].Value != 10 || results[2].Value != 60 {
		t.Errorf("unexpected sweep values: %v, %v", results[0].Value, results[2].Value)
	}
	if nodes[0].X != before {
		t.Error("sweep should not move the input graph")
	}
}

func TestRunSweep_UnknownParam(t *testing.T) {
	nodes, edges := graph.Random(3, 0, 1)
	sw := &ParameterSweep{Param: "gravity", Min: 0, Max: 1, Steps: 2}
	if _, err := RunSweep(context.Background(), sw, nodes, edges, testConfig()); !errors.Is(err, ErrUnknownParam) {
		t.Errorf("expected ErrUnknownParam, got %v", err)
	}
}
