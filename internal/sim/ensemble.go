package sim

import (
	"context"
	"math"
	"sync"

	"github.com/san-kum/forcegraph/internal/graph"
)

// Ensemble lays out the same graph under consecutive seeds in parallel.
// Every run works on its own copy of the graph.
type Ensemble struct {
	numRuns   int
	seedStart int64
}

func NewEnsemble(numRuns int, seedStart int64) *Ensemble {
	return &Ensemble{numRuns: numRuns, seedStart: seedStart}
}

func (e *Ensemble) Run(ctx context.Context, nodes []*graph.Node, edges []*graph.Edge, cfg Config) ([]*Result, error) {
	results := make([]*Result, e.numRuns)
	errs := make([]error, e.numRuns)

	var wg sync.WaitGroup
	for i := 0; i < e.numRuns; i++ {
		n, l := graph.Clone(nodes, edges)
		cfgCopy := cfg
		cfgCopy.Sync.Layout.Seed = e.seedStart + int64(i)

		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			results[idx], errs[idx] = Run(ctx, n, l, cfgCopy)
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}

// Best returns the result with the lowest edge strain, preferring settled
// runs.
func Best(results []*Result) *Result {
	var best *Result
	bestScore := math.Inf(1)
	for _, r := range results {
		if r == nil {
			continue
		}
		score := r.Metrics["edge_strain"]
		if !r.Settled {
			score += 1e6
		}
		if best == nil || score < bestScore {
			best, bestScore = r, score
		}
	}
	return best
}
