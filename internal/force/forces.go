package force

import (
	"math"

	"github.com/san-kum/forcegraph/internal/graph"
)

// ManyBody applies a pairwise inverse-distance force between every pair of
// nodes. A negative strength repels.
type ManyBody struct {
	Strength    float64
	DistanceMin float64
	DistanceMax float64

	nodes  []*graph.Node
	jiggle func() float64
}

func NewManyBody() *ManyBody {
	return &ManyBody{Strength: -30, DistanceMin: 1, DistanceMax: math.Inf(1)}
}

func (m *ManyBody) Initialize(nodes []*graph.Node, jiggle func() float64) {
	m.nodes = nodes
	m.jiggle = jiggle
}

func (m *ManyBody) Apply(alpha float64) {
	min2 := m.DistanceMin * m.DistanceMin
	max2 := m.DistanceMax * m.DistanceMax

	for i, a := range m.nodes {
		for j, b := range m.nodes {
			if i == j {
				continue
			}
			x := b.X - a.X
			y := b.Y - a.Y
			l := x*x + y*y
			if l >= max2 {
				continue
			}
			if x == 0 {
				x = m.jiggle()
				l += x * x
			}
			if y == 0 {
				y = m.jiggle()
				l += y * y
			}
			if l < min2 {
				l = math.Sqrt(min2 * l)
			}
			w := m.Strength * alpha / l
			a.VX += x * w
			a.VY += y * w
		}
	}
}

// Link pulls the endpoints of each edge toward a rest distance. Edges whose
// endpoints are not in the node set are ignored.
type Link struct {
	Distance   float64
	Iterations int

	// Strength overrides the default per-edge strength of
	// 1/min(degree(source), degree(target)) when non-zero.
	Strength float64

	nodes     []*graph.Node
	links     []*graph.Edge
	strengths []float64
	bias      []float64
	jiggle    func() float64
}

func NewLink() *Link {
	return &Link{Distance: 30, Iterations: 1}
}

// Links replaces the edge set and recomputes per-edge strength and bias.
func (l *Link) Links(links []*graph.Edge) *Link {
	l.links = links
	l.initialize()
	return l
}

func (l *Link) LinkSet() []*graph.Edge { return l.links }

func (l *Link) Initialize(nodes []*graph.Node, jiggle func() float64) {
	l.nodes = nodes
	l.jiggle = jiggle
	l.initialize()
}

func (l *Link) initialize() {
	if l.nodes == nil {
		return
	}
	count := make([]int, len(l.nodes))
	for _, e := range l.links {
		s, t, ok := e.Resolve(l.nodes)
		if !ok {
			continue
		}
		count[s]++
		count[t]++
	}

	l.strengths = make([]float64, len(l.links))
	l.bias = make([]float64, len(l.links))
	for i, e := range l.links {
		s, t, ok := e.Resolve(l.nodes)
		if !ok {
			continue
		}
		l.bias[i] = float64(count[s]) / float64(count[s]+count[t])
		if l.Strength != 0 {
			l.strengths[i] = l.Strength
		} else {
			l.strengths[i] = 1 / float64(min(count[s], count[t]))
		}
	}
}

func (l *Link) Apply(alpha float64) {
	if l.nodes == nil || len(l.strengths) != len(l.links) {
		return
	}
	for k := 0; k < l.Iterations; k++ {
		for i, e := range l.links {
			if _, _, ok := e.Resolve(l.nodes); !ok {
				continue
			}
			src, tgt := e.Source, e.Target
			x := tgt.X + tgt.VX - src.X - src.VX
			y := tgt.Y + tgt.VY - src.Y - src.VY
			if x == 0 {
				x = l.jiggle()
			}
			if y == 0 {
				y = l.jiggle()
			}
			d := math.Sqrt(x*x + y*y)
			d = (d - l.Distance) / d * alpha * l.strengths[i]
			x *= d
			y *= d

			b := l.bias[i]
			tgt.VX -= x * b
			tgt.VY -= y * b
			src.VX += x * (1 - b)
			src.VY += y * (1 - b)
		}
	}
}

// Center translates all nodes so their mean position sits at (X, Y).
type Center struct {
	X, Y     float64
	Strength float64

	nodes []*graph.Node
}

func NewCenter(x, y float64) *Center {
	return &Center{X: x, Y: y, Strength: 1}
}

func (c *Center) Initialize(nodes []*graph.Node, _ func() float64) { c.nodes = nodes }

func (c *Center) Apply(float64) {
	if len(c.nodes) == 0 {
		return
	}
	var sx, sy float64
	for _, n := range c.nodes {
		sx += n.X
		sy += n.Y
	}
	n := float64(len(c.nodes))
	sx = (sx/n - c.X) * c.Strength
	sy = (sy/n - c.Y) * c.Strength
	for _, node := range c.nodes {
		node.X -= sx
		node.Y -= sy
	}
}
