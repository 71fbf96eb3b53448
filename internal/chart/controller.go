package chart

import (
	"math"

	"github.com/san-kum/forcegraph/internal/meta"
	"github.com/san-kum/forcegraph/internal/observe"
)

// DatasetController owns the render state of one dataset and takes part in
// the chart's update, animation and draw lifecycle.
type DatasetController interface {
	Initialize()
	BuildOrUpdateElements()
	ResyncElements()
	AddElements()
	Update(reset bool)
	Transition(ease float64)
	Draw()
	Destroy()
	DataLimits() (Bounds, bool)
}

// Datum is a data item with a position.
type Datum interface {
	XY() (float64, float64)
}

// PointController renders a sequence of data as points, one Point per item.
// It observes the sequence so edits are mirrored immediately, and falls back
// to length based repair for edits it was not told about.
type PointController[T Datum] struct {
	chart  *Chart
	index  int
	source func() *observe.Sequence[T]

	data     *observe.Sequence[T]
	points   *meta.Store[*Point]
	listener *pointListener[T]
	onResize func()
}

// NewPointController builds a controller for dataset index of c. source is
// consulted on every update so the caller may swap the sequence.
func NewPointController[T Datum](c *Chart, index int, source func() *observe.Sequence[T]) *PointController[T] {
	pc := &PointController[T]{chart: c, index: index, source: source}
	pc.points = meta.New(func(i int) *Point { return NewPoint(index, i) })
	pc.listener = &pointListener[T]{pc: pc}
	return pc
}

// ScatterType registers a plain point chart whose dataset is a
// *observe.Sequence[T].
func ScatterType[T Datum]() TypeConfig {
	return TypeConfig{
		New: func(c *Chart, index int, data any) (DatasetController, error) {
			seq, ok := data.(*observe.Sequence[T])
			if !ok {
				return nil, ErrDatasetType
			}
			return NewPointController(c, index, func() *observe.Sequence[T] { return seq }), nil
		},
		Options: DefaultOptions(),
	}
}

// OnResize registers fn to run after every structural change to the point
// store.
func (pc *PointController[T]) OnResize(fn func()) { pc.onResize = fn }

func (pc *PointController[T]) Points() *meta.Store[*Point] { return pc.points }

// Data is the sequence currently observed.
func (pc *PointController[T]) Data() *observe.Sequence[T] { return pc.data }

func (pc *PointController[T]) Chart() *Chart { return pc.chart }

func (pc *PointController[T]) Index() int { return pc.index }

func (pc *PointController[T]) Initialize() {
	pc.data = pc.source()
	pc.observe(pc.data)
	pc.AddElements()
}

// AddElements creates a point for every datum that has none.
func (pc *PointController[T]) AddElements() {
	if pc.data == nil {
		return
	}
	if n := pc.data.Len() - pc.points.Len(); n > 0 {
		pc.points.InsertAt(pc.points.Len(), n)
	}
}

// BuildOrUpdateElements re-subscribes when the data sequence was replaced,
// then repairs the point store by length.
func (pc *PointController[T]) BuildOrUpdateElements() {
	if next := pc.source(); next != pc.data {
		if pc.data != nil {
			pc.data.Unobserve(pc.listener)
		}
		pc.data = next
		pc.observe(next)
	}
	pc.ResyncElements()
}

func (pc *PointController[T]) observe(seq *observe.Sequence[T]) {
	if seq == nil {
		return
	}
	if err := seq.Observe(pc.listener); err != nil {
		pc.chart.logger.Debug("dataset not observable, using length repair",
			"dataset", pc.index, "err", err)
	}
}

// ResyncElements truncates or grows the point store to the data length.
func (pc *PointController[T]) ResyncElements() {
	n := 0
	if pc.data != nil {
		n = pc.data.Len()
	}
	have := pc.points.Len()
	switch {
	case n < have:
		pc.points.Truncate(n)
	case n > have:
		pc.InsertElements(have, n-have)
	default:
		return
	}
	pc.resized()
}

// InsertElements creates count fresh points at start and resets them.
func (pc *PointController[T]) InsertElements(start, count int) {
	for i, p := range pc.points.InsertAt(start, count) {
		pc.UpdateElement(p, start+i, true)
		p.Pivot()
	}
	pc.reindex()
}

func (pc *PointController[T]) RemoveElements(start, count int) {
	pc.points.RemoveRange(start, count)
	pc.reindex()
}

func (pc *PointController[T]) reindex() {
	for i, p := range pc.points.All() {
		p.Index = i
	}
}

func (pc *PointController[T]) resized() {
	if pc.onResize != nil {
		pc.onResize()
	}
}

// Update recomputes every point model from its datum and pivots it.
func (pc *PointController[T]) Update(reset bool) {
	for i, p := range pc.points.All() {
		pc.UpdateElement(p, i, reset)
	}
	for _, p := range pc.points.All() {
		p.Pivot()
	}
}

// UpdateElement maps datum index onto p. On reset the point starts at the
// base pixel of both scales so it animates in.
func (pc *PointController[T]) UpdateElement(p *Point, index int, reset bool) {
	m := PointModel{Radius: pc.chart.Options.PointRadius, Skip: true}
	if pc.data != nil && index < pc.data.Len() {
		x, y := pc.data.At(index).XY()
		m.X = pc.chart.XScale.Pixel(x)
		m.Y = pc.chart.YScale.Pixel(y)
		m.Skip = math.IsNaN(x) || math.IsNaN(y)
	}
	if reset {
		m.X = pc.chart.XScale.BasePixel()
		m.Y = pc.chart.YScale.BasePixel()
	}
	p.Index = index
	p.SetModel(m)
}

func (pc *PointController[T]) Transition(ease float64) {
	for _, p := range pc.points.All() {
		p.Transition(ease)
	}
}

func (pc *PointController[T]) Draw() {
	canvas := pc.chart.Canvas()
	for _, p := range pc.points.All() {
		p.Draw(canvas)
	}
}

func (pc *PointController[T]) Destroy() {
	if pc.data != nil {
		pc.data.Unobserve(pc.listener)
	}
}

func (pc *PointController[T]) DataLimits() (Bounds, bool) {
	if pc.data == nil || pc.data.Len() == 0 {
		return Bounds{}, false
	}
	b := Bounds{
		MinX: math.Inf(1), MaxX: math.Inf(-1),
		MinY: math.Inf(1), MaxY: math.Inf(-1),
	}
	found := false
	for _, d := range pc.data.Items() {
		x, y := d.XY()
		if math.IsNaN(x) || math.IsNaN(y) {
			continue
		}
		b.MinX, b.MaxX = math.Min(b.MinX, x), math.Max(b.MaxX, x)
		b.MinY, b.MaxY = math.Min(b.MinY, y), math.Max(b.MaxY, y)
		found = true
	}
	return b, found
}

type pointListener[T Datum] struct {
	pc *PointController[T]
}

func (l *pointListener[T]) OnPush(start, count int) {
	l.pc.InsertElements(start, count)
	l.pc.resized()
}

func (l *pointListener[T]) OnPop() {
	l.pc.RemoveElements(l.pc.points.Len()-1, 1)
	l.pc.resized()
}

func (l *pointListener[T]) OnShift() {
	l.pc.RemoveElements(0, 1)
	l.pc.resized()
}

func (l *pointListener[T]) OnSplice(start, removed, inserted int) {
	l.pc.RemoveElements(start, removed)
	l.pc.InsertElements(start, inserted)
	if removed > 0 || inserted > 0 {
		l.pc.resized()
	}
}

func (l *pointListener[T]) OnUnshift(count int) {
	l.pc.InsertElements(0, count)
	l.pc.resized()
}
