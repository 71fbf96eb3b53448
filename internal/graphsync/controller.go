package graphsync

import (
	"fmt"
	"slices"

	"github.com/charmbracelet/log"
	"github.com/san-kum/forcegraph/internal/chart"
	"github.com/san-kum/forcegraph/internal/graph"
	"github.com/san-kum/forcegraph/internal/layout"
	"github.com/san-kum/forcegraph/internal/meta"
	"github.com/san-kum/forcegraph/internal/observe"
)

type Options struct {
	// PruneDangling removes edges that still dangle after a reconcile pass
	// from the caller's edge sequence.
	PruneDangling bool
	Layout        layout.Params
	Logger        *log.Logger
	Diagnostics   Diagnostics
}

func DefaultOptions() Options {
	return Options{PruneDangling: true, Layout: layout.DefaultParams()}
}

// EdgeElement is the render state of one edge. Source and Target are the
// node indices it was last bound to, or -1 while dangling.
type EdgeElement struct {
	*chart.Line
	Source, Target int
}

func newEdgeElement(datasetIndex, index int) *EdgeElement {
	return &EdgeElement{Line: chart.NewLine(datasetIndex, index), Source: -1, Target: -1}
}

func (e *EdgeElement) Dangling() bool { return e.Source < 0 || e.Target < 0 }

// Controller keeps point and line elements aligned with a graph dataset and
// couples the dataset to a force layout. Node behaviour is delegated to a
// chart.PointController; the controller adds the edge store, the edge
// observer and the layout binding.
type Controller struct {
	chart   *chart.Chart
	index   int
	dataset *graph.Dataset

	nodes        *chart.PointController[*graph.Node]
	edges        *meta.Store[*EdgeElement]
	edgeSeq      *observe.Sequence[*graph.Edge]
	edgeListener *edgeListener

	adapter *layout.Adapter
	opts    Options
	logger  *log.Logger
	diag    Diagnostics

	resyncPending bool
	resyncs       int
	dangling      *DanglingEdgeError
	destroyed     bool
}

// New builds a controller for ds, the dataset at index of c. Nil sequences
// in ds are replaced by empty ones.
func New(c *chart.Chart, index int, ds *graph.Dataset, opts Options) *Controller {
	if ds.Nodes == nil {
		ds.Nodes = observe.New[*graph.Node]()
	}
	if ds.Edges == nil {
		ds.Edges = observe.New[*graph.Edge]()
	}
	logger := opts.Logger
	if logger == nil {
		logger = c.Logger()
	}
	diag := opts.Diagnostics
	if diag == nil {
		diag = NoopDiagnostics{}
	}

	ctrl := &Controller{
		chart:   c,
		index:   index,
		dataset: ds,
		opts:    opts,
		logger:  logger.WithPrefix("graphsync"),
		diag:    diag,
	}
	ctrl.nodes = chart.NewPointController(c, index, func() *observe.Sequence[*graph.Node] {
		return ds.Nodes
	})
	ctrl.nodes.OnResize(ctrl.nodesResized)
	ctrl.edges = meta.New(func(i int) *EdgeElement { return newEdgeElement(index, i) })
	ctrl.edgeListener = &edgeListener{c: ctrl}

	ctrl.adapter = layout.New(opts.Layout, ctrl.logger)
	ctrl.adapter.OnStep(c.RequestUpdate)
	ctrl.adapter.OnSettled(func() {
		c.RequestUpdate()
		ctrl.diag.OnSettled(ctrl.adapter.Generation())
	})
	return ctrl
}

func (c *Controller) Initialize() {
	c.nodes.Initialize()
	c.edgeSeq = c.dataset.Edges
	c.observeEdges(c.edgeSeq)
	c.AddElements()
}

// AddElements creates an element for every node and edge that has none and
// hands the full graph to the layout.
func (c *Controller) AddElements() {
	c.nodes.AddElements()
	if n := c.edgeSeq.Len() - c.edges.Len(); n > 0 {
		c.edges.InsertAt(c.edges.Len(), n)
	}
	c.rebindAll()
	c.ResyncSimulation()
}

func (c *Controller) observeEdges(seq *observe.Sequence[*graph.Edge]) {
	if err := seq.Observe(c.edgeListener); err != nil {
		c.logger.Debug("edge sequence not observable, using reconcile only", "err", err)
	}
}

// BuildOrUpdateElements follows the dataset when the caller replaced its
// node or edge sequence, then reconciles.
func (c *Controller) BuildOrUpdateElements() {
	if c.destroyed {
		return
	}
	if c.dataset.Nodes == nil {
		c.dataset.Nodes = observe.New[*graph.Node]()
	}
	before := c.nodes.Data()
	c.nodes.BuildOrUpdateElements()
	if c.nodes.Data() != before {
		c.logger.Debug("node sequence replaced")
		c.requestResync()
	}

	if next := c.dataset.Edges; next != c.edgeSeq {
		if next == nil {
			next = observe.New[*graph.Edge]()
			c.dataset.Edges = next
		}
		c.edgeSeq.Unobserve(c.edgeListener)
		c.edgeSeq = next
		c.observeEdges(next)
		c.edges.Clear()
		c.logger.Debug("edge sequence replaced")
		c.requestResync()
	}

	c.Reconcile()
}

// Reconcile is the repair pass. It aligns both element stores with their
// sequences by length, rebinds every edge, deals with edges that still
// dangle, requests a resync when the layout binding no longer matches the
// sequences and flushes at most one pending layout resync.
func (c *Controller) Reconcile() {
	if c.destroyed {
		return
	}
	c.repairLengths()
	graph.Reindex(c.nodes.Data().Items())
	c.rebindAll()
	c.checkDangling()
	if !c.resyncPending && c.bindingStale() {
		c.logger.Debug("layout binding out of date, resyncing", "dataset", c.index)
		c.requestResync()
	}
	c.flushResync()
}

// bindingStale reports whether the nodes or resolvable links handed to the
// layout differ, by identity, from the current sequences. It catches
// unreported edits such as Set or edits of a frozen sequence.
func (c *Controller) bindingStale() bool {
	nodes := c.nodes.Data().Items()
	b := c.adapter.Binding()
	return !slices.Equal(b.Nodes, nodes) || !slices.Equal(b.Links, resolvableLinks(c.edgeSeq.Items(), nodes))
}

func resolvableLinks(edges []*graph.Edge, nodes []*graph.Node) []*graph.Edge {
	links := make([]*graph.Edge, 0, len(edges))
	for _, e := range edges {
		if _, _, ok := e.Resolve(nodes); ok {
			links = append(links, e)
		}
	}
	return links
}

// ResyncElements aligns both element stores with their sequences by length.
func (c *Controller) ResyncElements() {
	if c.destroyed {
		return
	}
	c.repairLengths()
	c.flushResync()
}

func (c *Controller) repairLengths() {
	c.nodes.ResyncElements()

	n, have := c.edgeSeq.Len(), c.edges.Len()
	switch {
	case n < have:
		c.edges.Truncate(n)
		c.requestResync()
	case n > have:
		c.OnExternalInsert(have, n-have)
	}
}

// OnExternalInsert creates count edge elements at start, binds each of them
// and requests a layout resync.
func (c *Controller) OnExternalInsert(start, count int) {
	if c.insertEdgeElements(start, count) {
		c.requestResync()
	}
}

// OnExternalRemove deletes count edge elements at start and requests a
// layout resync if any were removed.
func (c *Controller) OnExternalRemove(start, count int) {
	if c.removeEdgeElements(start, count) {
		c.requestResync()
	}
}

func (c *Controller) insertEdgeElements(start, count int) bool {
	fresh := c.edges.InsertAt(start, count)
	if len(fresh) == 0 {
		return false
	}
	c.renumberEdges()
	nodes := c.nodes.Data().Items()
	for _, el := range fresh {
		c.bind(el, el.Index, nodes)
	}
	return true
}

func (c *Controller) removeEdgeElements(start, count int) bool {
	if len(c.edges.RemoveRange(start, count)) == 0 {
		return false
	}
	c.renumberEdges()
	return true
}

func (c *Controller) renumberEdges() {
	for i, el := range c.edges.All() {
		el.Index = i
	}
}

// BindElement points el at the node elements of edge index, looked up
// afresh from the current node store.
func (c *Controller) BindElement(el *EdgeElement, index int) {
	c.bind(el, index, c.nodes.Data().Items())
}

// bind leaves el hidden and unattached when the edge does not resolve.
func (c *Controller) bind(el *EdgeElement, index int, nodes []*graph.Node) {
	el.Index = index
	el.From, el.To = nil, nil
	el.Source, el.Target = -1, -1
	el.SetModel(chart.LineModel{Hidden: true})
	if index < 0 || index >= c.edgeSeq.Len() {
		return
	}

	s, t, ok := c.edgeSeq.At(index).Resolve(nodes)
	if !ok {
		return
	}
	from, okFrom := c.nodes.Points().Lookup(s)
	to, okTo := c.nodes.Points().Lookup(t)
	if !okFrom || !okTo {
		return
	}
	el.From, el.To = from, to
	el.Source, el.Target = s, t
	el.SetModel(chart.LineModel{})
}

func (c *Controller) rebindAll() {
	nodes := c.nodes.Data().Items()
	for i, el := range c.edges.All() {
		c.bind(el, i, nodes)
	}
}

func (c *Controller) checkDangling() {
	var indices []int
	for i, el := range c.edges.All() {
		if el.Dangling() {
			indices = append(indices, i)
		}
	}
	if len(indices) == 0 {
		c.dangling = nil
		return
	}

	err := &DanglingEdgeError{Indices: indices, Pruned: c.opts.PruneDangling}
	if !err.same(c.dangling) {
		c.logger.Warn("dangling edges after reconcile",
			"dataset", c.index, "count", len(indices), "indices", indices, "pruned", err.Pruned)
		c.diag.OnDangling(err)
	}
	c.dangling = err

	if !c.opts.PruneDangling {
		return
	}
	observed := c.edgeSeq.Observed(c.edgeListener)
	for i := len(indices) - 1; i >= 0; i-- {
		c.edgeSeq.Splice(indices[i], 1)
		if !observed {
			c.OnExternalRemove(indices[i], 1)
		}
	}
}

func (c *Controller) requestResync() {
	c.resyncPending = true
	c.chart.RequestUpdate()
}

func (c *Controller) flushResync() {
	if c.resyncPending {
		c.ResyncSimulation()
	}
}

// ResyncSimulation hands the full node sequence and every resolvable edge
// to the layout and restarts it.
func (c *Controller) ResyncSimulation() {
	if c.destroyed {
		return
	}
	nodes := c.nodes.Data().Items()
	graph.Reindex(nodes)

	c.adapter.Configure(nodes, resolvableLinks(c.edgeSeq.Items(), nodes))
	c.resyncPending = false
	c.resyncs++
	c.diag.OnResync(c.adapter.Binding())
}

func (c *Controller) nodesResized() {
	graph.Reindex(c.nodes.Data().Items())
	c.requestResync()
}

// Tick flushes a pending resync and advances the layout by one step.
func (c *Controller) Tick() bool {
	if c.destroyed {
		return false
	}
	c.flushResync()
	return c.adapter.Tick()
}

// Update recomputes node models, rebinds and pivots every edge element.
func (c *Controller) Update(reset bool) {
	if c.destroyed {
		return
	}
	c.nodes.Update(reset)
	c.rebindAll()
	for _, el := range c.edges.All() {
		el.Pivot()
	}
}

// Transition advances node and edge elements with the same ease value.
func (c *Controller) Transition(ease float64) {
	c.nodes.Transition(ease)
	for _, el := range c.edges.All() {
		el.Transition(ease)
	}
}

// Destroy detaches both observers and stops the layout. No callback reaches
// the controller afterwards. Calling Destroy again is a no-op.
func (c *Controller) Destroy() {
	if c.destroyed {
		return
	}
	c.destroyed = true
	c.nodes.Destroy()
	c.edgeSeq.Unobserve(c.edgeListener)
	c.adapter.Detach()
	c.adapter.Stop()
	c.logger.Debug("controller destroyed", "dataset", c.index)
}

func (c *Controller) DataLimits() (chart.Bounds, bool) { return c.nodes.DataLimits() }

// Label is the tooltip text of node index.
func (c *Controller) Label(index int) string {
	data := c.nodes.Data()
	if data == nil || index < 0 || index >= data.Len() {
		return ""
	}
	if n := data.At(index); n != nil && n.Label != "" {
		return n.Label
	}
	return fmt.Sprintf("node %d", index)
}

// Err reports ErrDestroyed after Destroy, the dangling edge report of the
// last reconcile pass, or nil.
func (c *Controller) Err() error {
	if c.destroyed {
		return ErrDestroyed
	}
	if c.dangling != nil {
		return c.dangling
	}
	return nil
}

func (c *Controller) Dataset() *graph.Dataset { return c.dataset }

func (c *Controller) Adapter() *layout.Adapter { return c.adapter }

// Resyncs counts layout resyncs.
func (c *Controller) Resyncs() int { return c.resyncs }

func (c *Controller) NodeElements() []*chart.Point { return c.nodes.Points().All() }

func (c *Controller) EdgeElements() []*EdgeElement { return c.edges.All() }

type edgeListener struct {
	c *Controller
}

func (l *edgeListener) OnPush(start, count int) { l.c.OnExternalInsert(start, count) }

func (l *edgeListener) OnPop() { l.c.OnExternalRemove(l.c.edges.Len()-1, 1) }

func (l *edgeListener) OnShift() { l.c.OnExternalRemove(0, 1) }

// OnSplice repairs the store in two steps but asks for a single resync.
func (l *edgeListener) OnSplice(start, removed, inserted int) {
	r := l.c.removeEdgeElements(start, removed)
	i := l.c.insertEdgeElements(start, inserted)
	if r || i {
		l.c.requestResync()
	}
}

func (l *edgeListener) OnUnshift(count int) { l.c.OnExternalInsert(0, count) }
