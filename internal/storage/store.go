// Package storage persists settled layout runs on disk. Each run is a
// directory holding metadata.json, positions.csv, energy.csv and the graph
// itself as graph.json.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/forcegraph/internal/graph"
	"github.com/san-kum/forcegraph/internal/layout"
)

var ErrRunNotFound = errors.New("storage: run not found")

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// EnergyPoint is one row of energy.csv.
type EnergyPoint struct {
	Tick   int
	Alpha  float64
	Energy float64
}

// Position is one row of positions.csv.
type Position struct {
	Index int
	Label string
	Group string
	X, Y  float64
}

// Run is everything recorded about one headless layout.
type Run struct {
	Source  string
	Seed    int64
	Params  layout.Params
	Ticks   int
	Settled bool
	Nodes   []*graph.Node
	Edges   []*graph.Edge
	Energy  []EnergyPoint
	Metrics map[string]float64
}

type RunMetadata struct {
	ID        string             `json:"id"`
	Source    string             `json:"source"`
	Timestamp time.Time          `json:"timestamp"`
	Nodes     int                `json:"nodes"`
	Edges     int                `json:"edges"`
	Ticks     int                `json:"ticks"`
	Settled   bool               `json:"settled"`
	Seed      int64              `json:"seed"`
	Params    layout.Params      `json:"params"`
	Metrics   map[string]float64 `json:"metrics"`
}

// Save writes run under a fresh id derived from its source name.
func (s *Store) Save(run *Run) (string, error) {
	runID := fmt.Sprintf("%s_%s", runName(run.Source), uuid.NewString()[:8])
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Source:    run.Source,
		Timestamp: time.Now(),
		Nodes:     len(run.Nodes),
		Edges:     len(run.Edges),
		Ticks:     run.Ticks,
		Settled:   run.Settled,
		Seed:      run.Seed,
		Params:    run.Params,
		Metrics:   run.Metrics,
	}
	if err := writeJSON(filepath.Join(runDir, "metadata.json"), meta); err != nil {
		return "", err
	}
	if err := writePositions(filepath.Join(runDir, "positions.csv"), run.Nodes); err != nil {
		return "", err
	}
	if err := writeEnergy(filepath.Join(runDir, "energy.csv"), run.Energy); err != nil {
		return "", err
	}
	if err := graph.WriteFile(filepath.Join(runDir, "graph.json"), run.Nodes, run.Edges); err != nil {
		return "", err
	}
	return runID, nil
}

func runName(source string) string {
	if source == "" {
		return "random"
	}
	name := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	name = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-':
			return r
		}
		return '_'
	}, name)
	if name == "" || name == "_" {
		return "graph"
	}
	return name
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writePositions(path string, nodes []*graph.Node) error {
	rows := [][]string{{"index", "label", "group", "x", "y"}}
	for i, n := range nodes {
		rows = append(rows, []string{
			strconv.Itoa(i),
			n.Label,
			n.Group,
			strconv.FormatFloat(n.X, 'f', 6, 64),
			strconv.FormatFloat(n.Y, 'f', 6, 64),
		})
	}
	return writeCSV(path, rows)
}

func writeEnergy(path string, points []EnergyPoint) error {
	rows := [][]string{{"tick", "alpha", "energy"}}
	for _, p := range points {
		rows = append(rows, []string{
			strconv.Itoa(p.Tick),
			strconv.FormatFloat(p.Alpha, 'f', 6, 64),
			strconv.FormatFloat(p.Energy, 'f', 6, 64),
		})
	}
	return writeCSV(path, rows)
}

func writeCSV(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		return err
	}
	return w.Error()
}

// List returns every readable run, newest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].Timestamp.After(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(s.path(runID, "metadata.json"))
	if err != nil {
		return nil, notFound(runID, err)
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("storage: %s metadata: %w", runID, err)
	}
	return &meta, nil
}

// LoadGraph reads back the graph of a run with its settled positions.
func (s *Store) LoadGraph(runID string) ([]*graph.Node, []*graph.Edge, error) {
	path := s.path(runID, "graph.json")
	if _, err := os.Stat(path); err != nil {
		return nil, nil, notFound(runID, err)
	}
	return graph.ReadFile(path)
}

func (s *Store) LoadPositions(runID string) ([]Position, error) {
	records, err := s.readCSV(runID, "positions.csv")
	if err != nil {
		return nil, err
	}

	out := make([]Position, 0, len(records))
	for _, r := range records {
		if len(r) < 5 {
			continue
		}
		idx, err := strconv.Atoi(r[0])
		if err != nil {
			continue
		}
		x, errX := strconv.ParseFloat(r[3], 64)
		y, errY := strconv.ParseFloat(r[4], 64)
		if errX != nil || errY != nil {
			continue
		}
		out = append(out, Position{Index: idx, Label: r[1], Group: r[2], X: x, Y: y})
	}
	return out, nil
}

func (s *Store) LoadEnergy(runID string) ([]EnergyPoint, error) {
	records, err := s.readCSV(runID, "energy.csv")
	if err != nil {
		return nil, err
	}

	out := make([]EnergyPoint, 0, len(records))
	for _, r := range records {
		if len(r) < 3 {
			continue
		}
		tick, err := strconv.Atoi(r[0])
		if err != nil {
			continue
		}
		alpha, errA := strconv.ParseFloat(r[1], 64)
		energy, errE := strconv.ParseFloat(r[2], 64)
		if errA != nil || errE != nil {
			continue
		}
		out = append(out, EnergyPoint{Tick: tick, Alpha: alpha, Energy: energy})
	}
	return out, nil
}

// readCSV returns the records of a run file without its header row.
func (s *Store) readCSV(runID, name string) ([][]string, error) {
	f, err := os.Open(s.path(runID, name))
	if err != nil {
		return nil, notFound(runID, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("storage: %s/%s: %w", runID, name, err)
	}
	if len(records) < 2 {
		return [][]string{}, nil
	}
	return records[1:], nil
}

func (s *Store) path(runID, name string) string {
	return filepath.Join(s.baseDir, runID, name)
}

func notFound(runID string, err error) error {
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	return err
}
