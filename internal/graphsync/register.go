package graphsync

import (
	"github.com/san-kum/forcegraph/internal/chart"
	"github.com/san-kum/forcegraph/internal/graph"
)

// Kind is the chart type name of a force directed graph.
const Kind = "forceDirectedGraph"

// ChartOptions are scatter defaults with both axes hidden and node labels
// as tooltips.
func ChartOptions() chart.Options {
	o := chart.DefaultOptions()
	o.ShowXAxis = false
	o.ShowYAxis = false
	o.PointRadius = 1
	o.TooltipLabel = func(ctrl chart.DatasetController, index int) string {
		if gc, ok := ctrl.(*Controller); ok {
			return gc.Label(index)
		}
		return ""
	}
	return o
}

// Register installs the force directed graph type in reg. Datasets passed
// to Chart.AddDataset must be *graph.Dataset.
func Register(reg *chart.Registry, opts Options) error {
	return reg.Register(Kind, chart.TypeConfig{
		New: func(c *chart.Chart, index int, data any) (chart.DatasetController, error) {
			ds, ok := data.(*graph.Dataset)
			if !ok || ds == nil {
				return nil, chart.ErrDatasetType
			}
			return New(c, index, ds, opts), nil
		},
		Options: ChartOptions(),
	})
}
