package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/forcegraph/internal/export"
	"github.com/san-kum/forcegraph/internal/graph"
	"github.com/san-kum/forcegraph/internal/graphsync"
	"github.com/san-kum/forcegraph/internal/logx"
	"github.com/san-kum/forcegraph/internal/sim"
	"github.com/san-kum/forcegraph/internal/storage"
	"github.com/san-kum/forcegraph/internal/viz"
)

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	nodes, edges, source, err := loadGraph(args, cfg)
	if err != nil {
		return err
	}
	logger, closer, err := liveLogger()
	if err != nil {
		return err
	}
	defer closer.Close()

	ds := graph.NewDataset(nodes, edges)
	if source != "" {
		ds.Label = strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	}
	m, err := viz.NewModel(ds, viz.Options{
		Width:      cfg.View.Width,
		Height:     cfg.View.Height,
		FPS:        cfg.View.FPS,
		Theme:      cfg.View.Theme,
		Easing:     cfg.Easing(),
		Frames:     cfg.Animation.Frames,
		ShowEnergy: cfg.View.ShowEnergy,
		Sync:       syncOptions(cfg, logger),
		Seed:       cfg.Graph.Seed,
	})
	if err != nil {
		return err
	}

	final, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	if fm, ok := final.(viz.Model); ok {
		fm.Session().Close()
	}
	return err
}

func runLayout(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	logger := logx.FromContext(ctx)

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	nodes, edges, source, err := loadGraph(args, cfg)
	if err != nil {
		return err
	}
	if numSeeds < 1 {
		return fmt.Errorf("seeds must be positive, got %d", numSeeds)
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	simCfg := sim.Config{MaxTicks: cfg.Simulation.MaxTicks, Sync: syncOptions(cfg, logger)}
	prog := logx.NewProgress(logger)

	var result *sim.Result
	if numSeeds == 1 {
		result, err = sim.Run(ctx, nodes, edges, simCfg)
	} else {
		var results []*sim.Result
		results, err = sim.NewEnsemble(numSeeds, cfg.Simulation.Seed).Run(ctx, nodes, edges, simCfg)
		result = sim.Best(results)
	}
	if err != nil {
		return err
	}
	prog.Done(fmt.Sprintf("laid out %d nodes and %d edges in %d ticks", len(result.Nodes), len(result.Edges), result.Ticks))

	var dangling *graphsync.DanglingEdgeError
	if errors.As(result.Dangling, &dangling) {
		logger.Warn("graph has dangling edges", "count", len(dangling.Indices), "pruned", dangling.Pruned)
	}
	if !result.Settled {
		logger.Warn("layout did not settle", "max_ticks", cfg.Simulation.MaxTicks)
	}

	params := simCfg.Sync.Layout
	params.Seed = result.Seed
	run := &storage.Run{
		Source:  source,
		Seed:    result.Seed,
		Params:  params,
		Ticks:   result.Ticks,
		Settled: result.Settled,
		Nodes:   result.Nodes,
		Edges:   result.Edges,
		Metrics: result.Metrics,
	}
	for _, p := range result.Trace {
		run.Energy = append(run.Energy, storage.EnergyPoint{Tick: p.Tick, Alpha: p.Alpha, Energy: p.Energy})
	}

	runID, err := st.Save(run)
	if err != nil {
		return err
	}

	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("seed: %d\n", result.Seed)
	fmt.Println("\nmetrics:")
	for name, val := range result.Metrics {
		fmt.Printf("  %s: %.6f\n", name, val)
	}
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSOURCE\tTIME\tNODES\tEDGES\tTICKS\tSETTLED")
	for _, run := range runs {
		source := run.Source
		if source == "" {
			source = "(random)"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\t%v\n",
			run.ID,
			source,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Nodes,
			run.Edges,
			run.Ticks,
			run.Settled,
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	points, err := st.LoadEnergy(runID)
	if err != nil {
		return err
	}
	if len(points) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("ticks: %d\n\n", len(points))

	energy := make([]float64, len(points))
	alpha := make([]float64, len(points))
	for i, p := range points {
		energy[i] = p.Energy
		alpha[i] = p.Alpha
	}
	for _, series := range []struct {
		caption string
		data    []float64
	}{
		{"kinetic energy", energy},
		{"alpha", alpha},
	} {
		plot := asciigraph.Plot(series.data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(series.caption),
		)
		fmt.Println(plot)
		fmt.Println()
	}
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	runID := args[0]
	t := viz.GetTheme(theme)

	st := storage.New(dataDir)
	var svg string
	switch exportWhat {
	case "graph":
		nodes, edges, err := st.LoadGraph(runID)
		if err != nil {
			return err
		}
		svg = export.GraphToSVG(nodes, edges, outWidth, outHeight, t)
	case "energy":
		points, err := st.LoadEnergy(runID)
		if err != nil {
			return err
		}
		values := make([]float64, len(points))
		for i, p := range points {
			values[i] = p.Energy
		}
		svg = export.SeriesToSVG(values, outWidth, outHeight, t)
	case "canvas":
		nodes, edges, err := st.LoadGraph(runID)
		if err != nil {
			return err
		}
		canvas, err := renderCanvas(nodes, edges)
		if err != nil {
			return err
		}
		svg = export.CanvasToSVG(canvas, 4, t)
	default:
		return fmt.Errorf("unknown export %q (graph, energy or canvas)", exportWhat)
	}

	if outPath == "" {
		fmt.Println(svg)
		return nil
	}
	return os.WriteFile(outPath, []byte(svg), 0644)
}

// renderCanvas draws a settled graph once onto a braille canvas through the
// chart pipeline, without running the layout.
func renderCanvas(nodes []*graph.Node, edges []*graph.Edge) (*viz.Canvas, error) {
	canvas := viz.NewCanvas(80, 24)
	opts := graphsync.DefaultOptions()
	opts.Logger = logx.New(os.Stderr, logx.Level(verbose))
	s, err := sim.NewSession(canvas, canvas.Area(), graph.NewDataset(nodes, edges), opts)
	if err != nil {
		return nil, err
	}
	defer s.Close()
	s.Controller.Adapter().Stop()
	s.Chart.Render(1)
	return canvas, nil
}

func genGraph(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	nodes, edges := graph.Random(numNodes, numEdges, cfg.Graph.Seed)
	if outPath == "" {
		return graph.Write(os.Stdout, nodes, edges)
	}
	return graph.WriteFile(outPath, nodes, edges)
}
