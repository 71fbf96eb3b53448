package chart

import "math"

// Area is a pixel rectangle.
type Area struct {
	Left, Top, Right, Bottom float64
}

func (a Area) Width() float64  { return a.Right - a.Left }
func (a Area) Height() float64 { return a.Bottom - a.Top }

// Canvas is the drawing surface a chart renders onto.
type Canvas interface {
	Clear()
	Set(x, y int)
	DrawLine(x0, y0, x1, y1 int)
	Clip(a Area)
	Unclip()
}

// Discard is a Canvas that draws nothing, for headless charts.
type Discard struct{}

func (Discard) Clear()                  {}
func (Discard) Set(int, int)            {}
func (Discard) DrawLine(_, _, _, _ int) {}
func (Discard) Clip(Area)               {}
func (Discard) Unclip()                 {}

// Element is a drawable with an animated model. Transition moves the view
// from the pivoted start toward the model; Pivot commits the current view as
// the start of the next transition.
type Element interface {
	Draw(c Canvas)
	Pivot()
	Transition(ease float64)
}

type PointModel struct {
	X, Y   float64
	Radius float64
	Skip   bool
}

func (m PointModel) lerp(to PointModel, t float64) PointModel {
	return PointModel{
		X:      m.X + (to.X-m.X)*t,
		Y:      m.Y + (to.Y-m.Y)*t,
		Radius: m.Radius + (to.Radius-m.Radius)*t,
		Skip:   to.Skip,
	}
}

// Point is the render state of one datum.
type Point struct {
	DatasetIndex int
	Index        int

	model, view, start PointModel
	hasView, hasStart  bool
}

func NewPoint(datasetIndex, index int) *Point {
	return &Point{DatasetIndex: datasetIndex, Index: index}
}

func (p *Point) SetModel(m PointModel) { p.model = m }
func (p *Point) Model() PointModel     { return p.model }

// View is the interpolated state last produced by Transition.
func (p *Point) View() PointModel {
	if !p.hasView {
		return p.model
	}
	return p.view
}

func (p *Point) Pivot() {
	if !p.hasView {
		p.view, p.hasView = p.model, true
	}
	p.start, p.hasStart = p.view, true
}

func (p *Point) Transition(ease float64) {
	if !p.hasView {
		p.view, p.hasView = p.model, true
	}
	if ease >= 1 {
		p.view = p.model
		p.hasStart = false
		return
	}
	if !p.hasStart {
		p.start, p.hasStart = p.view, true
	}
	p.view = p.start.lerp(p.model, ease)
}

func (p *Point) Draw(c Canvas) {
	v := p.View()
	if v.Skip || math.IsNaN(v.X) || math.IsNaN(v.Y) {
		return
	}
	x, y := round(v.X), round(v.Y)
	c.Set(x, y)
	r := int(v.Radius)
	for i := 1; i <= r; i++ {
		c.Set(x-i, y)
		c.Set(x+i, y)
		c.Set(x, y-i)
		c.Set(x, y+i)
	}
}

type LineModel struct {
	Hidden bool
}

// Line joins two points. It carries no position of its own and always draws
// between the current views of its endpoints.
type Line struct {
	DatasetIndex int
	Index        int
	From, To     *Point

	model, view LineModel
	pivots      int
}

func NewLine(datasetIndex, index int) *Line {
	return &Line{DatasetIndex: datasetIndex, Index: index}
}

func (l *Line) SetModel(m LineModel) { l.model = m }
func (l *Line) Model() LineModel     { return l.model }

// Pivots counts Pivot calls.
func (l *Line) Pivots() int { return l.pivots }

func (l *Line) Pivot() {
	l.view = l.model
	l.pivots++
}

// Transition ignores ease: a line draws between its endpoint views, so the
// endpoints carry the interpolation.
func (l *Line) Transition(float64) { l.view = l.model }

func (l *Line) Draw(c Canvas) {
	if l.From == nil || l.To == nil || l.view.Hidden {
		return
	}
	a, b := l.From.View(), l.To.View()
	if math.IsNaN(a.X+a.Y+b.X+b.Y) {
		return
	}
	c.DrawLine(round(a.X), round(a.Y), round(b.X), round(b.Y))
}

func round(v float64) int { return int(math.Round(v)) }
