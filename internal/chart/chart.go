// Package chart is a small retained-mode charting engine: scales, animated
// point and line elements, dataset controllers and a chart host that runs
// the update, transition and draw lifecycle onto a Canvas.
package chart

import (
	"fmt"
	"math"

	"github.com/charmbracelet/log"
)

type Chart struct {
	Area    Area
	XScale  *LinearScale
	YScale  *LinearScale
	Options Options

	canvas   Canvas
	registry *Registry
	datasets []DatasetController
	pending  bool
	updates  int
	logger   *log.Logger
}

// New creates an empty chart drawing into area of canvas.
func New(canvas Canvas, area Area, reg *Registry, logger *log.Logger) *Chart {
	if logger == nil {
		logger = log.Default()
	}
	return &Chart{
		Area:     area,
		XScale:   NewLinearScale(area.Left, area.Right),
		YScale:   NewLinearScale(area.Bottom, area.Top),
		Options:  DefaultOptions(),
		canvas:   canvas,
		registry: reg,
		logger:   logger,
	}
}

// AddDataset builds a controller for data through the registered type kind
// and initializes it. The chart adopts the type's options.
func (c *Chart) AddDataset(kind string, data any) (DatasetController, error) {
	cfg, ok := c.registry.Lookup(kind)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownType, kind)
	}
	ctrl, err := cfg.New(c, len(c.datasets), data)
	if err != nil {
		return nil, fmt.Errorf("build %s controller: %w", kind, err)
	}
	c.Options = cfg.Options
	ctrl.Initialize()
	c.datasets = append(c.datasets, ctrl)
	c.pending = true
	return ctrl, nil
}

func (c *Chart) Datasets() []DatasetController { return c.datasets }

func (c *Chart) Canvas() Canvas { return c.canvas }

func (c *Chart) Logger() *log.Logger { return c.logger }

// Updates counts completed update passes.
func (c *Chart) Updates() int { return c.updates }

// Resize changes the drawing area.
func (c *Chart) Resize(area Area) {
	c.Area = area
	c.XScale.Start, c.XScale.End = area.Left, area.Right
	c.YScale.Start, c.YScale.End = area.Bottom, area.Top
	c.pending = true
}

// RequestUpdate marks the chart dirty; the next Render runs an update pass.
func (c *Chart) RequestUpdate() { c.pending = true }

func (c *Chart) Pending() bool { return c.pending }

// Update runs one update pass: every controller reconciles its elements,
// scales are fitted to the data, then every controller recomputes models.
func (c *Chart) Update() { c.update(false) }

// Reset runs an update pass that places elements at their reset position.
func (c *Chart) Reset() { c.update(true) }

func (c *Chart) update(reset bool) {
	for _, d := range c.datasets {
		d.BuildOrUpdateElements()
	}
	c.fitScales()
	for _, d := range c.datasets {
		d.Update(reset)
	}
	c.pending = false
	c.updates++
}

func (c *Chart) fitScales() {
	var bounds Bounds
	found := false
	for _, d := range c.datasets {
		b, ok := d.DataLimits()
		if !ok {
			continue
		}
		if !found {
			bounds, found = b, true
			continue
		}
		bounds = bounds.Union(b)
	}
	if !found {
		return
	}
	c.XScale.Fit(bounds.MinX, bounds.MaxX, c.Options.Padding)
	c.YScale.Fit(bounds.MinY, bounds.MaxY, c.Options.Padding)
}

// Render runs a pending update, advances every element to ease and draws.
func (c *Chart) Render(ease float64) {
	if c.pending {
		c.Update()
	}
	for _, d := range c.datasets {
		d.Transition(ease)
	}
	c.Draw()
}

// Draw clears the canvas and draws axes and datasets in order.
func (c *Chart) Draw() {
	c.canvas.Clear()
	c.drawAxes()
	for _, d := range c.datasets {
		d.Draw()
	}
}

func (c *Chart) drawAxes() {
	a := c.Area
	if c.Options.ShowXAxis {
		y := int(math.Round(c.YScale.BasePixel()))
		c.canvas.DrawLine(int(a.Left), y, int(a.Right), y)
	}
	if c.Options.ShowYAxis {
		x := int(math.Round(c.XScale.BasePixel()))
		c.canvas.DrawLine(x, int(a.Top), x, int(a.Bottom))
	}
}

// Tooltip returns the tooltip text for item index of dataset, or "".
func (c *Chart) Tooltip(dataset, index int) string {
	if c.Options.TooltipLabel == nil || dataset < 0 || dataset >= len(c.datasets) {
		return ""
	}
	return c.Options.TooltipLabel(c.datasets[dataset], index)
}

// Destroy tears down every controller.
func (c *Chart) Destroy() {
	for _, d := range c.datasets {
		d.Destroy()
	}
	c.datasets = nil
}
