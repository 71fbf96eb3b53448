package graphsync_test

import (
	"fmt"
	"io"
	"math"
	"math/rand"

	"github.com/charmbracelet/log"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/forcegraph/internal/chart"
	"github.com/san-kum/forcegraph/internal/graph"
	"github.com/san-kum/forcegraph/internal/graphsync"
	"github.com/san-kum/forcegraph/internal/layout"
	"github.com/san-kum/forcegraph/internal/observe"
)

type countingCanvas struct {
	sets, lines, clips, unclips int
	segments                    [][4]int
}

func (c *countingCanvas) Clear()          { c.segments = c.segments[:0] }
func (c *countingCanvas) Set(int, int)    { c.sets++ }
func (c *countingCanvas) Clip(chart.Area) { c.clips++ }
func (c *countingCanvas) Unclip()         { c.unclips++ }

func (c *countingCanvas) DrawLine(x0, y0, x1, y1 int) {
	c.lines++
	c.segments = append(c.segments, [4]int{x0, y0, x1, y1})
}

type recorder struct {
	resyncs  []layout.Binding
	dangling []*graphsync.DanglingEdgeError
	settled  int
}

func (r *recorder) OnResync(b layout.Binding)                   { r.resyncs = append(r.resyncs, b) }
func (r *recorder) OnDangling(err *graphsync.DanglingEdgeError) { r.dangling = append(r.dangling, err) }
func (r *recorder) OnSettled(int)                               { r.settled++ }

type fixture struct {
	chart  *chart.Chart
	ctrl   *graphsync.Controller
	ds     *graph.Dataset
	canvas *countingCanvas
	diag   *recorder
}

func makeNodes(labels ...string) []*graph.Node {
	nodes := make([]*graph.Node, len(labels))
	for i, l := range labels {
		nodes[i] = &graph.Node{Index: i, Label: l}
	}
	return nodes
}

func link(nodes []*graph.Node, s, t int) *graph.Edge {
	e, err := graph.Link(nodes, s, t)
	Expect(err).NotTo(HaveOccurred())
	return e
}

func newFixture(nodes []*graph.Node, edges []*graph.Edge, configure func(*graphsync.Options)) *fixture {
	f := &fixture{canvas: &countingCanvas{}, diag: &recorder{}}
	opts := graphsync.DefaultOptions()
	opts.Diagnostics = f.diag
	if configure != nil {
		configure(&opts)
	}

	reg := chart.NewRegistry()
	Expect(graphsync.Register(reg, opts)).To(Succeed())

	f.chart = chart.New(f.canvas, chart.Area{Right: 200, Bottom: 100}, reg, log.New(io.Discard))
	f.ds = graph.NewDataset(nodes, edges)
	ctrl, err := f.chart.AddDataset(graphsync.Kind, f.ds)
	Expect(err).NotTo(HaveOccurred())
	f.ctrl = ctrl.(*graphsync.Controller)
	f.chart.Update()
	return f
}

func round(v float64) int { return int(math.Round(v)) }

// expectAligned checks store lengths and that every bound edge element
// points at the node elements its edge names.
func (f *fixture) expectAligned() {
	points := f.ctrl.NodeElements()
	edgeEls := f.ctrl.EdgeElements()
	Expect(points).To(HaveLen(f.ds.Nodes.Len()))
	Expect(edgeEls).To(HaveLen(f.ds.Edges.Len()))

	nodes := f.ds.Nodes.Items()
	for i, el := range edgeEls {
		s, t, ok := f.ds.Edges.At(i).Resolve(nodes)
		if !ok {
			Expect(el.Dangling()).To(BeTrue(), "edge %d should be dangling", i)
			continue
		}
		Expect(el.From).To(BeIdenticalTo(points[s]), "edge %d source", i)
		Expect(el.To).To(BeIdenticalTo(points[t]), "edge %d target", i)
	}
}

var _ = Describe("Controller", func() {
	Describe("appending a node and an edge", func() {
		It("mirrors both and resyncs once", func() {
			nodes := makeNodes("a", "b", "c")
			f := newFixture(nodes, []*graph.Edge{link(nodes, 0, 1), link(nodes, 1, 2)}, nil)
			before := f.ctrl.Resyncs()

			f.ds.Nodes.Push(&graph.Node{Label: "d"})
			f.ds.Edges.Push(link(f.ds.Nodes.Items(), 1, 3))
			f.chart.Update()

			Expect(f.ctrl.NodeElements()).To(HaveLen(4))
			Expect(f.ctrl.EdgeElements()).To(HaveLen(3))
			added := f.ctrl.EdgeElements()[2]
			Expect(added.From).To(BeIdenticalTo(f.ctrl.NodeElements()[1]))
			Expect(added.To).To(BeIdenticalTo(f.ctrl.NodeElements()[3]))
			Expect(f.ctrl.Resyncs()).To(Equal(before + 1))
			Expect(f.ctrl.Adapter().Binding().Links).To(HaveLen(3))
		})
	})

	Describe("removing a node both edges depend on", func() {
		It("prunes the dangling edges and reports them", func() {
			nodes := makeNodes("a", "b", "c")
			f := newFixture(nodes, []*graph.Edge{link(nodes, 0, 1), link(nodes, 1, 2)}, nil)

			f.ds.Nodes.Splice(1, 1)
			f.chart.Update()

			Expect(f.ctrl.EdgeElements()).To(BeEmpty())
			Expect(f.ds.Edges.Len()).To(Equal(0))
			Expect(f.ctrl.Err()).To(MatchError(graphsync.ErrDanglingEdge))
			Expect(f.diag.dangling).To(HaveLen(1))
			Expect(f.diag.dangling[0].Indices).To(Equal([]int{0, 1}))
			Expect(f.diag.dangling[0].Pruned).To(BeTrue())

			Expect(func() { f.chart.Render(1) }).NotTo(Panic())
			Expect(f.canvas.clips).To(Equal(0))
			f.expectAligned()
		})

		It("keeps them undrawn and unbound when pruning is off", func() {
			nodes := makeNodes("a", "b", "c")
			f := newFixture(nodes, []*graph.Edge{link(nodes, 0, 1), link(nodes, 1, 2)},
				func(o *graphsync.Options) { o.PruneDangling = false })

			f.ds.Nodes.Splice(1, 1)
			f.chart.Update()
			f.chart.Update()

			Expect(f.ctrl.EdgeElements()).To(HaveLen(2))
			for _, el := range f.ctrl.EdgeElements() {
				Expect(el.Dangling()).To(BeTrue())
			}
			Expect(f.ctrl.Adapter().Binding().Links).To(BeEmpty())
			Expect(f.diag.dangling).To(HaveLen(1), "unchanged report should not repeat")

			var derr *graphsync.DanglingEdgeError
			Expect(f.ctrl.Err()).To(BeAssignableToTypeOf(derr))

			f.chart.Render(1)
			Expect(f.canvas.clips).To(Equal(1))
			Expect(f.canvas.lines).To(Equal(0))
		})
	})

	Describe("replacing every edge with nothing", func() {
		It("empties the edge store and skips the clip", func() {
			nodes := makeNodes("a", "b", "c")
			f := newFixture(nodes, []*graph.Edge{link(nodes, 0, 1), link(nodes, 1, 2)}, nil)

			f.chart.Render(1)
			Expect(f.canvas.clips).To(Equal(1))
			Expect(f.canvas.unclips).To(Equal(1))
			Expect(f.canvas.lines).To(Equal(2))

			f.ds.Edges.Splice(0, f.ds.Edges.Len())
			Expect(f.ctrl.EdgeElements()).To(BeEmpty())

			f.chart.Render(1)
			Expect(f.canvas.clips).To(Equal(1))
			Expect(f.canvas.unclips).To(Equal(1))
		})
	})

	Describe("draw", func() {
		It("never clips a graph without edges", func() {
			f := newFixture(makeNodes("a", "b"), nil, nil)
			f.chart.Render(1)
			Expect(f.canvas.clips).To(Equal(0))
			Expect(f.canvas.unclips).To(Equal(0))
			Expect(f.canvas.sets).To(BeNumerically(">", 0))
		})
	})

	Describe("random mutation sequences", func() {
		It("keeps both stores index aligned", func() {
			rng := rand.New(rand.NewSource(11))
			nodes, edges := graph.Random(8, 4, 3)
			f := newFixture(nodes, edges, nil)

			for step := 0; step < 300; step++ {
				mutateNodes(rng, f.ds)
				mutateEdges(rng, f.ds)

				Expect(f.ctrl.NodeElements()).To(HaveLen(f.ds.Nodes.Len()))
				Expect(f.ctrl.EdgeElements()).To(HaveLen(f.ds.Edges.Len()))

				if rng.Intn(3) == 0 {
					f.chart.Update()
					f.expectAligned()
					for _, el := range f.ctrl.EdgeElements() {
						Expect(el.Dangling()).To(BeFalse())
					}
				}
			}
			f.chart.Update()
			f.expectAligned()
		})
	})

	Describe("resync", func() {
		var f *fixture

		BeforeEach(func() {
			nodes := makeNodes("a", "b", "c", "d")
			f = newFixture(nodes, []*graph.Edge{link(nodes, 0, 1), link(nodes, 2, 3)}, nil)
		})

		It("runs exactly once per edge set change", func() {
			r := f.ctrl.Resyncs()

			f.chart.Update()
			Expect(f.ctrl.Resyncs()).To(Equal(r))

			f.ds.Edges.Splice(0, 1, link(f.ds.Nodes.Items(), 1, 2))
			f.chart.Update()
			Expect(f.ctrl.Resyncs()).To(Equal(r + 1))

			f.ds.Edges.Push(link(f.ds.Nodes.Items(), 0, 3), link(f.ds.Nodes.Items(), 0, 2))
			f.ds.Edges.Pop()
			f.chart.Update()
			Expect(f.ctrl.Resyncs()).To(Equal(r + 2))
		})

		It("flushes a pending resync before the next tick", func() {
			r := f.ctrl.Resyncs()
			f.ds.Edges.Shift()
			Expect(f.ctrl.Resyncs()).To(Equal(r))

			f.ctrl.Tick()
			Expect(f.ctrl.Resyncs()).To(Equal(r + 1))
			Expect(f.ctrl.Adapter().Binding().Links).To(HaveLen(1))
		})

		It("is idempotent", func() {
			f.ctrl.ResyncSimulation()
			first := f.ctrl.Adapter().Binding()
			f.ctrl.ResyncSimulation()
			second := f.ctrl.Adapter().Binding()

			Expect(second.Nodes).To(Equal(first.Nodes))
			Expect(second.Links).To(Equal(first.Links))
			Expect(second.Generation).To(Equal(first.Generation + 1))
			Expect(f.diag.resyncs[len(f.diag.resyncs)-1].Links).To(HaveLen(2))
		})
	})

	Describe("sequence replacement", func() {
		It("follows a swapped edge sequence", func() {
			nodes := makeNodes("a", "b", "c")
			f := newFixture(nodes, []*graph.Edge{link(nodes, 0, 1)}, nil)
			old := f.ds.Edges
			r := f.ctrl.Resyncs()

			f.ds.Edges = observe.New(link(nodes, 0, 1), link(nodes, 1, 2), link(nodes, 0, 2))
			f.chart.Update()
			Expect(f.ctrl.EdgeElements()).To(HaveLen(3))
			Expect(f.ctrl.Resyncs()).To(Equal(r + 1))

			old.Push(link(nodes, 2, 0))
			Expect(f.ctrl.EdgeElements()).To(HaveLen(3))

			f.ds.Edges.Pop()
			Expect(f.ctrl.EdgeElements()).To(HaveLen(2))
			f.expectAligned()
		})

		It("follows a swapped node sequence of equal length", func() {
			f := newFixture(makeNodes("a", "b"), nil, nil)
			r := f.ctrl.Resyncs()

			fresh := makeNodes("x", "y")
			f.ds.Nodes = observe.New(fresh...)
			f.chart.Update()

			Expect(f.ctrl.Resyncs()).To(Equal(r + 1))
			Expect(f.ctrl.Adapter().Binding().Nodes).To(Equal(fresh))
			Expect(f.chart.Tooltip(0, 1)).To(Equal("y"))
		})

		It("gives a swapped edge sequence fresh elements", func() {
			nodes := makeNodes("a", "b", "c")
			f := newFixture(nodes, []*graph.Edge{link(nodes, 0, 1), link(nodes, 1, 2)}, nil)
			before := f.ctrl.EdgeElements()

			f.ds.Edges = observe.New(link(nodes, 0, 2), link(nodes, 2, 1))
			f.chart.Update()

			after := f.ctrl.EdgeElements()
			Expect(after).To(HaveLen(2))
			for i := range after {
				Expect(after[i]).NotTo(BeIdenticalTo(before[0]))
				Expect(after[i]).NotTo(BeIdenticalTo(before[1]))
			}
			f.expectAligned()
		})

		It("falls back to reconcile for a frozen sequence", func() {
			nodes := makeNodes("a", "b", "c")
			f := newFixture(nodes, nil, nil)

			frozen := observe.New(link(nodes, 0, 1))
			frozen.Freeze()
			f.ds.Edges = frozen
			f.chart.Update()
			Expect(f.ctrl.EdgeElements()).To(HaveLen(1))

			frozen.Push(link(nodes, 1, 2))
			Expect(f.ctrl.EdgeElements()).To(HaveLen(1))
			f.chart.Update()
			Expect(f.ctrl.EdgeElements()).To(HaveLen(2))
			f.expectAligned()
		})

		It("prunes dangling edges from a frozen sequence", func() {
			nodes := makeNodes("a", "b", "c")
			frozen := observe.New(link(nodes, 0, 1), link(nodes, 0, 2))
			frozen.Freeze()
			f := newFixture(nodes, nil, nil)
			f.ds.Edges = frozen
			f.chart.Update()

			f.ds.Nodes.Pop()
			f.chart.Update()

			Expect(frozen.Len()).To(Equal(1))
			Expect(f.ctrl.EdgeElements()).To(HaveLen(1))
			f.expectAligned()
		})
	})

	Describe("unreported edits", func() {
		It("resyncs when an edge is replaced in place", func() {
			nodes := makeNodes("a", "b", "c")
			f := newFixture(nodes, []*graph.Edge{link(nodes, 0, 1)}, nil)
			r := f.ctrl.Resyncs()

			repl := link(nodes, 1, 2)
			f.ds.Edges.Set(0, repl)
			f.chart.Update()

			Expect(f.ctrl.Resyncs()).To(Equal(r + 1))
			Expect(f.ctrl.Adapter().Binding().Links).To(HaveLen(1))
			Expect(f.ctrl.Adapter().Binding().Links[0]).To(BeIdenticalTo(repl))
			f.expectAligned()

			f.chart.Update()
			Expect(f.ctrl.Resyncs()).To(Equal(r + 1))
		})

		It("resyncs after pop and push on a frozen sequence", func() {
			nodes := makeNodes("a", "b", "c")
			frozen := observe.New(link(nodes, 0, 1))
			frozen.Freeze()
			f := newFixture(nodes, nil, nil)
			f.ds.Edges = frozen
			f.chart.Update()
			r := f.ctrl.Resyncs()

			repl := link(nodes, 1, 2)
			frozen.Pop()
			frozen.Push(repl)
			f.chart.Update()

			Expect(f.ctrl.Resyncs()).To(Equal(r + 1))
			Expect(f.ctrl.Adapter().Binding().Links[0]).To(BeIdenticalTo(repl))
			f.expectAligned()
		})

		It("resyncs when a node is replaced in place", func() {
			f := newFixture(makeNodes("a", "b"), nil, nil)
			r := f.ctrl.Resyncs()

			fresh := &graph.Node{Label: "x"}
			f.ds.Nodes.Set(1, fresh)
			f.chart.Update()

			Expect(f.ctrl.Resyncs()).To(Equal(r + 1))
			Expect(f.ctrl.Adapter().Binding().Nodes[1]).To(BeIdenticalTo(fresh))
			Expect(fresh.Index).To(Equal(1))
		})
	})

	Describe("transition", func() {
		It("moves edges in lockstep with their endpoints", func() {
			nodes := makeNodes("a", "b", "c")
			nodes[0].X, nodes[0].Y = 0, 0
			nodes[1].X, nodes[1].Y = 20, 20
			nodes[2].X, nodes[2].Y = 10, 10
			f := newFixture(nodes, []*graph.Edge{link(nodes, 0, 2), link(nodes, 2, 1)}, nil)
			f.chart.Render(1)

			points := f.ctrl.NodeElements()
			old := points[2].View()

			nodes[2].X, nodes[2].Y = 5, 15
			f.chart.Update()
			target := points[2].Model()
			Expect(target.X).NotTo(Equal(old.X))

			f.chart.Render(0.5)

			mid := points[2].View()
			Expect(mid.X).To(BeNumerically("~", (old.X+target.X)/2, 1e-9))
			Expect(mid.Y).To(BeNumerically("~", (old.Y+target.Y)/2, 1e-9))

			Expect(f.canvas.segments).To(HaveLen(2))
			for i, el := range f.ctrl.EdgeElements() {
				a, b := el.From.View(), el.To.View()
				want := [4]int{round(a.X), round(a.Y), round(b.X), round(b.Y)}
				Expect(f.canvas.segments[i]).To(Equal(want), "edge %d", i)
			}
			Expect(f.canvas.segments[0][2]).To(Equal(round(mid.X)))
			Expect(f.canvas.segments[1][0]).To(Equal(round(mid.X)))
		})
	})

	Describe("lifecycle", func() {
		It("updates, pivots and resets elements", func() {
			nodes := makeNodes("a", "b")
			nodes[0].X, nodes[0].Y = 10, 10
			nodes[1].X, nodes[1].Y = -10, -10
			f := newFixture(nodes, []*graph.Edge{link(nodes, 0, 1)}, nil)

			pivots := f.ctrl.EdgeElements()[0].Pivots()
			f.chart.Update()
			Expect(f.ctrl.EdgeElements()[0].Pivots()).To(Equal(pivots + 1))

			f.chart.Reset()
			for _, p := range f.ctrl.NodeElements() {
				Expect(p.Model().X).To(Equal(f.chart.XScale.BasePixel()))
			}
		})

		It("repaints on every layout step and reports settling", func() {
			f := newFixture(makeNodes("a", "b", "c"), nil, nil)
			start := f.ds.Nodes.At(0).X

			Expect(f.chart.Pending()).To(BeFalse())
			f.ctrl.Tick()
			Expect(f.chart.Pending()).To(BeTrue())
			Expect(f.ds.Nodes.At(0).X).NotTo(Equal(start))

			for i := 0; i < 1000 && f.ctrl.Tick(); i++ {
			}
			Expect(f.diag.settled).To(Equal(1))
		})

		It("labels nodes for tooltips", func() {
			f := newFixture([]*graph.Node{{Label: "alpha"}, {}}, nil, nil)
			Expect(f.chart.Tooltip(0, 0)).To(Equal("alpha"))
			Expect(f.chart.Tooltip(0, 1)).To(Equal("node 1"))
			Expect(f.ctrl.Label(5)).To(BeEmpty())
			Expect(f.chart.Options.ShowXAxis).To(BeFalse())
		})

		It("goes quiet after destroy", func() {
			nodes := makeNodes("a", "b")
			f := newFixture(nodes, []*graph.Edge{link(nodes, 0, 1)}, nil)

			f.ctrl.Destroy()
			Expect(func() { f.ctrl.Destroy() }).NotTo(Panic())
			Expect(f.ctrl.Err()).To(MatchError(graphsync.ErrDestroyed))
			Expect(f.diag.settled).To(Equal(0))

			f.ds.Nodes.Push(&graph.Node{})
			f.ds.Edges.Pop()
			Expect(f.ctrl.NodeElements()).To(HaveLen(2))
			Expect(f.ctrl.EdgeElements()).To(HaveLen(1))
			Expect(f.ctrl.Tick()).To(BeFalse())
			Expect(f.ctrl.Adapter().Running()).To(BeFalse())
		})
	})

	It("rejects datasets of the wrong type", func() {
		reg := chart.NewRegistry()
		Expect(graphsync.Register(reg, graphsync.DefaultOptions())).To(Succeed())
		Expect(graphsync.Register(reg, graphsync.DefaultOptions())).To(MatchError(chart.ErrDuplicateType))

		c := chart.New(&countingCanvas{}, chart.Area{Right: 10, Bottom: 10}, reg, log.New(io.Discard))
		_, err := c.AddDataset(graphsync.Kind, "not a graph")
		Expect(err).To(MatchError(chart.ErrDatasetType))
	})
})

func mutateNodes(rng *rand.Rand, ds *graph.Dataset) {
	n := ds.Nodes.Len()
	switch rng.Intn(6) {
	case 0:
		ds.Nodes.Push(&graph.Node{Label: fmt.Sprintf("p%d", n)})
	case 1:
		ds.Nodes.Pop()
	case 2:
		ds.Nodes.Shift()
	case 3:
		ds.Nodes.Unshift(&graph.Node{}, &graph.Node{})
	case 4:
		if n > 0 {
			ds.Nodes.Splice(rng.Intn(n), rng.Intn(2), &graph.Node{})
		}
	}
}

func mutateEdges(rng *rand.Rand, ds *graph.Dataset) {
	nodes := ds.Nodes.Items()
	graph.Reindex(nodes)
	newEdge := func() *graph.Edge {
		return &graph.Edge{Source: nodes[rng.Intn(len(nodes))], Target: nodes[rng.Intn(len(nodes))]}
	}

	m := ds.Edges.Len()
	switch rng.Intn(6) {
	case 0:
		if len(nodes) > 0 {
			ds.Edges.Push(newEdge())
		}
	case 1:
		ds.Edges.Pop()
	case 2:
		ds.Edges.Shift()
	case 3:
		if len(nodes) > 0 {
			ds.Edges.Unshift(newEdge())
		}
	case 4:
		if m > 0 && len(nodes) > 0 {
			ds.Edges.Splice(rng.Intn(m), 1, newEdge(), newEdge())
		}
	}
}
