// Package sim runs a graph layout through the full chart pipeline: a
// Session owns the chart, the sync controller and the layout metrics, and
// Run drives it headless until the layout settles.
package sim

import (
	"github.com/san-kum/forcegraph/internal/graph"
	"github.com/san-kum/forcegraph/internal/graphsync"
)

type Config struct {
	MaxTicks int
	Sync     graphsync.Options
}

// TracePoint is the layout energy after one tick.
type TracePoint struct {
	Tick   int
	Alpha  float64
	Energy float64
}

type Result struct {
	Nodes   []*graph.Node
	Edges   []*graph.Edge
	Seed    int64
	Ticks   int
	Settled bool
	Trace   []TracePoint
	Metrics map[string]float64
	// Dangling is the last dangling edge report, if any.
	Dangling error
}
