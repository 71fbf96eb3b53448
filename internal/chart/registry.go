package chart

import (
	"errors"
	"fmt"
	"sort"
)

var (
	ErrUnknownType   = errors.New("chart: unknown chart type")
	ErrDuplicateType = errors.New("chart: chart type already registered")
	ErrDatasetType   = errors.New("chart: dataset does not match chart type")
)

// ControllerFactory builds the controller for one dataset.
type ControllerFactory func(c *Chart, index int, data any) (DatasetController, error)

// Options are the per-type chart defaults.
type Options struct {
	ShowXAxis   bool
	ShowYAxis   bool
	Padding     float64
	PointRadius float64

	// TooltipLabel renders the tooltip text for a datum.
	TooltipLabel func(ctrl DatasetController, index int) string
}

// DefaultOptions are the defaults of a plain scatter chart.
func DefaultOptions() Options {
	return Options{ShowXAxis: true, ShowYAxis: true, Padding: 0.05}
}

type TypeConfig struct {
	New     ControllerFactory
	Options Options
}

// Registry maps chart type names to their controller and defaults. Types
// are registered once at setup.
type Registry struct {
	types map[string]TypeConfig
}

func NewRegistry() *Registry {
	return &Registry{types: make(map[string]TypeConfig)}
}

func (r *Registry) Register(kind string, cfg TypeConfig) error {
	if _, ok := r.types[kind]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateType, kind)
	}
	if cfg.New == nil {
		return fmt.Errorf("chart: type %s has no controller factory", kind)
	}
	r.types[kind] = cfg
	return nil
}

func (r *Registry) Lookup(kind string) (TypeConfig, bool) {
	cfg, ok := r.types[kind]
	return cfg, ok
}

func (r *Registry) Kinds() []string {
	kinds := make([]string, 0, len(r.types))
	for k := range r.types {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}
