package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/san-kum/forcegraph/internal/automation"
	"github.com/san-kum/forcegraph/internal/config"
	"github.com/san-kum/forcegraph/internal/graph"
	"github.com/san-kum/forcegraph/internal/graphsync"
	"github.com/san-kum/forcegraph/internal/logx"
)

var (
	dataDir    string
	configFile string
	preset     string
	verbose    bool
	logFile    string
	seed       int64
	theme      string
	frameRate  int
	maxTicks   int
	numSeeds   int
	numNodes   int
	numEdges   int
	outPath    string
	outWidth   int
	outHeight  int
	exportWhat string
	noPrune    bool
	sweepParam string
	sweepMin   float64
	sweepMax   float64
	sweepSteps int
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "forcegraph",
		Short:         "force directed graph layout in the terminal",
		Args:          cobra.NoArgs,
		RunE:          runLive,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cmd.SetContext(logx.WithLogger(cmd.Context(), logx.New(os.Stderr, logx.Level(verbose))))
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".forcegraph", "data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "simulation preset")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().Int64Var(&seed, "seed", 0, "layout seed (0 keeps the config value)")
	rootCmd.PersistentFlags().BoolVar(&noPrune, "keep-dangling", false, "hide dangling edges instead of removing them")
	addLiveFlags(rootCmd)

	runCmd := &cobra.Command{
		Use:   "run [graph.json]",
		Short: "lay out a graph live",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	addLiveFlags(runCmd)

	layoutCmd := &cobra.Command{
		Use:   "layout [graph.json]",
		Short: "lay out a graph headless and store the run",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLayout,
	}
	layoutCmd.Flags().IntVar(&maxTicks, "max-ticks", 0, "tick limit (0 keeps the config value)")
	layoutCmd.Flags().IntVar(&numSeeds, "seeds", 1, "lay out under this many seeds and keep the best")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot the energy of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export a run as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")
	exportCmd.Flags().IntVar(&outWidth, "width", 800, "picture width")
	exportCmd.Flags().IntVar(&outHeight, "height", 600, "picture height")
	exportCmd.Flags().StringVar(&theme, "theme", "default", "color theme")
	exportCmd.Flags().StringVar(&exportWhat, "what", "graph", "graph, energy or canvas")

	genCmd := &cobra.Command{
		Use:   "gen",
		Short: "write a random graph as JSON",
		Args:  cobra.NoArgs,
		RunE:  genGraph,
	}
	genCmd.Flags().IntVar(&numNodes, "nodes", 24, "number of nodes")
	genCmd.Flags().IntVar(&numEdges, "edges", 8, "extra edges beyond the spanning tree")
	genCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list simulation presets",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range config.ListPresets() {
				p := config.Presets[name]
				fmt.Printf("  %-8s charge=%g link_distance=%g alpha_min=%g\n", name, p.Charge, p.LinkDistance, p.AlphaMin)
			}
		},
	}

	initCmd := &cobra.Command{
		Use:   "init-config [path]",
		Short: "write the effective config as yaml",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return config.Save(args[0], cfg)
		},
	}

	scriptCmd := &cobra.Command{
		Use:   "script [scenario.yaml]",
		Short: "replay a scripted mutation scenario headless",
		Args:  cobra.ExactArgs(1),
		RunE:  runScript,
	}
	scriptCmd.Flags().IntVar(&maxTicks, "max-ticks", 0, "tick limit for settle steps (0 keeps the config value)")

	sweepCmd := &cobra.Command{
		Use:   "sweep [graph.json]",
		Short: "lay out a graph across a range of one layout parameter",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSweep,
	}
	sweepCmd.Flags().StringVar(&sweepParam, "param", "charge", fmt.Sprintf("parameter to sweep %v", automation.SweepParams()))
	sweepCmd.Flags().Float64Var(&sweepMin, "min", -100, "first value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", -10, "last value")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 5, "number of values")
	sweepCmd.Flags().IntVar(&maxTicks, "max-ticks", 0, "tick limit per run (0 keeps the config value)")

	rootCmd.AddCommand(runCmd, layoutCmd, listCmd, plotCmd, exportCmd, genCmd, presetsCmd, initCmd, scriptCmd, sweepCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func addLiveFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&frameRate, "fps", 0, "frame rate (0 keeps the config value)")
	cmd.Flags().StringVar(&theme, "theme", "", "color theme")
	cmd.Flags().StringVar(&logFile, "log-file", "", "write logs here while the live view runs")
}

// loadConfig resolves the effective config: preset, then config file, then
// flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("seed") {
		cfg.Simulation.Seed = seed
		cfg.Graph.Seed = seed
	}
	if flags.Changed("theme") {
		cfg.View.Theme = theme
	}
	if flags.Changed("fps") {
		cfg.View.FPS = frameRate
	}
	if flags.Changed("max-ticks") {
		cfg.Simulation.MaxTicks = maxTicks
	}
	if flags.Changed("keep-dangling") {
		cfg.Sync.PruneDangling = !noPrune
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func syncOptions(cfg *config.Config, logger *log.Logger) graphsync.Options {
	return graphsync.Options{
		PruneDangling: cfg.Sync.PruneDangling,
		Layout:        cfg.LayoutParams(),
		Logger:        logger,
	}
}

// loadGraph reads the graph file in args, or builds a random graph sized by
// cfg. The returned source is empty for random graphs.
func loadGraph(args []string, cfg *config.Config) ([]*graph.Node, []*graph.Edge, string, error) {
	if len(args) == 0 {
		nodes, edges := graph.Random(cfg.Graph.Nodes, cfg.Graph.Edges, cfg.Graph.Seed)
		return nodes, edges, "", nil
	}
	nodes, edges, err := graph.ReadFile(args[0])
	if err != nil {
		return nil, nil, "", err
	}
	return nodes, edges, args[0], nil
}

// liveLogger keeps log output off the terminal while the live view owns it.
func liveLogger() (*log.Logger, io.Closer, error) {
	if logFile == "" {
		return logx.New(io.Discard, log.InfoLevel), io.NopCloser(nil), nil
	}
	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, err
	}
	return logx.New(f, logx.Level(verbose)), f, nil
}
