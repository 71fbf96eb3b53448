package automation

import (
	"context"
	"errors"
	"fmt"

	"github.com/san-kum/forcegraph/internal/graph"
	"github.com/san-kum/forcegraph/internal/layout"
	"github.com/san-kum/forcegraph/internal/sim"
)

var ErrUnknownParam = errors.New("automation: unknown layout parameter")

// ParameterSweep lays out the same graph once per value of one layout
// parameter, evenly spaced from Min to Max.
type ParameterSweep struct {
	Param string
	Min   float64
	Max   float64
	Steps int
}

type SweepResult struct {
	Value   float64
	Ticks   int
	Settled bool
	Strain  float64
	Energy  float64
}

// SweepParams lists the parameter names a sweep accepts.
func SweepParams() []string {
	return []string{"charge", "link_distance", "alpha_min", "alpha_decay", "velocity_decay"}
}

func setParam(p *layout.Params, name string, v float64) error {
	switch name {
	case "charge":
		p.Charge = v
	case "link_distance":
		p.LinkDistance = v
	case "alpha_min":
		p.AlphaMin = v
	case "alpha_decay":
		p.AlphaDecay = v
	case "velocity_decay":
		p.VelocityDecay = v
	default:
		return fmt.Errorf("%w: %q", ErrUnknownParam, name)
	}
	return nil
}

// Values returns the parameter values the sweep visits.
func (sw *ParameterSweep) Values() []float64 {
	if sw.Steps <= 1 {
		return []float64{sw.Min}
	}
	step := (sw.Max - sw.Min) / float64(sw.Steps-1)
	out := make([]float64, sw.Steps)
	for i := range out {
		out[i] = sw.Min + float64(i)*step
	}
	return out
}

// RunSweep runs one headless layout per sweep value on a fresh copy of the
// graph. The input graph is not modified.
func RunSweep(ctx context.Context, sweep *ParameterSweep, nodes []*graph.Node, edges []*graph.Edge, cfg sim.Config) ([]SweepResult, error) {
	probe := cfg.Sync.Layout
	if err := setParam(&probe, sweep.Param, 0); err != nil {
		return nil, err
	}

	values := sweep.Values()
	results := make([]SweepResult, 0, len(values))
	for i, v := range values {
		runCfg := cfg
		_ = setParam(&runCfg.Sync.Layout, sweep.Param, v)

		n, e := graph.Clone(nodes, edges)
		res, err := sim.Run(ctx, n, e, runCfg)
		if err != nil {
			return results, err
		}
		results = append(results, SweepResult{
			Value:   v,
			Ticks:   res.Ticks,
			Settled: res.Settled,
			Strain:  res.Metrics["edge_strain"],
			Energy:  res.Metrics["kinetic_energy"],
		})

		if cfg.Sync.Logger != nil {
			cfg.Sync.Logger.Info("sweep", "run", fmt.Sprintf("%d/%d", i+1, len(values)),
				sweep.Param, v, "ticks", res.Ticks, "strain", res.Metrics["edge_strain"])
		}
	}
	return results, nil
}
