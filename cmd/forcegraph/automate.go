package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/forcegraph/internal/automation"
	"github.com/san-kum/forcegraph/internal/logx"
	"github.com/san-kum/forcegraph/internal/sim"
)

func runScript(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	logger := logx.FromContext(ctx)

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	scenario, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	logger.Info("running scenario", "name", scenario.Name, "steps", len(scenario.Steps))
	prog := logx.NewProgress(logger)
	reports, err := automation.RunScenario(ctx, scenario, sim.Config{
		MaxTicks: cfg.Simulation.MaxTicks,
		Sync:     syncOptions(cfg, logger),
	})
	if err != nil {
		return err
	}
	prog.Done(fmt.Sprintf("replayed %d steps", len(reports)))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tOP\tNODES\tEDGES\tRESYNCS\tTICKS\tDANGLING\tALIGNED")
	for i, r := range reports {
		fmt.Fprintf(w, "%d\t%s\t%d\t%d\t%d\t%d\t%v\t%t\n",
			i+1, r.Op, r.Nodes, r.Edges, r.Resyncs, r.Ticks, r.Dangling, r.Aligned())
	}
	return w.Flush()
}

func runSweep(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	logger := logx.FromContext(ctx)

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	nodes, edges, _, err := loadGraph(args, cfg)
	if err != nil {
		return err
	}

	sweep := &automation.ParameterSweep{Param: sweepParam, Min: sweepMin, Max: sweepMax, Steps: sweepSteps}
	results, err := automation.RunSweep(ctx, sweep, nodes, edges, sim.Config{
		MaxTicks: cfg.Simulation.MaxTicks,
		Sync:     syncOptions(cfg, logger),
	})
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tTICKS\tSETTLED\tSTRAIN\tENERGY\n", sweepParam)
	strain := make([]float64, len(results))
	for i, r := range results {
		strain[i] = r.Strain
		fmt.Fprintf(w, "%.4g\t%d\t%t\t%.4f\t%.6f\n", r.Value, r.Ticks, r.Settled, r.Strain, r.Energy)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if len(strain) > 1 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(strain,
			asciigraph.Height(10),
			asciigraph.Caption("edge strain by "+sweepParam)))
	}
	return nil
}
