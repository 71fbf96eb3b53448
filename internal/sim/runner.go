package sim

import (
	"context"
	"fmt"

	"github.com/san-kum/forcegraph/internal/chart"
	"github.com/san-kum/forcegraph/internal/graph"
)

// Run lays out nodes and edges headless until the layout settles or
// cfg.MaxTicks steps have run. The graph is laid out in place.
func Run(ctx context.Context, nodes []*graph.Node, edges []*graph.Edge, cfg Config) (*Result, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	ds := graph.NewDataset(nodes, edges)
	s, err := NewSession(chart.Discard{}, chart.Area{Right: 1, Bottom: 1}, ds, cfg.Sync)
	if err != nil {
		return nil, err
	}
	defer s.Close()

	result := &Result{Seed: cfg.Sync.Layout.Seed}
	for s.Ticks() < cfg.MaxTicks {
		select {
		case <-ctx.Done():
			result.fill(s)
			return result, ctx.Err()
		default:
		}

		if !s.Step() {
			result.Settled = true
			break
		}
	}

	result.fill(s)
	return result, nil
}

func (r *Result) fill(s *Session) {
	r.Nodes = s.Dataset.Nodes.Items()
	r.Edges = s.Dataset.Edges.Items()
	r.Ticks = s.Ticks()
	r.Trace = s.Trace()
	r.Metrics = s.Metrics.Values()
	r.Dangling = s.Controller.Err()
}

func validateConfig(cfg Config) error {
	if cfg.MaxTicks <= 0 {
		return fmt.Errorf("max ticks must be positive, got %d", cfg.MaxTicks)
	}
	return nil
}
