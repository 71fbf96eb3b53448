// Package graph defines the node and edge records shared by the layout
// engine, the sync controller and the renderers.
package graph

import (
	"errors"

	"github.com/san-kum/forcegraph/internal/observe"
)

// ErrInvalidEndpoint indicates an edge endpoint index outside the node set.
var ErrInvalidEndpoint = errors.New("graph: edge endpoint out of range")

// Node is a vertex. X and Y are written by the layout engine and read by
// renderers. Index is the node's position in its sequence and is refreshed
// by whoever owns that sequence.
type Node struct {
	Index  int
	Label  string
	Group  string
	X, Y   float64
	VX, VY float64
	// FX and FY pin the node when set.
	FX, FY *float64
}

// Pin fixes the node at (x, y).
func (n *Node) Pin(x, y float64) {
	n.FX, n.FY = &x, &y
	n.X, n.Y = x, y
}

// Unpin releases a pinned node.
func (n *Node) Unpin() { n.FX, n.FY = nil, nil }

// XY implements chart.Datum.
func (n *Node) XY() (float64, float64) { return n.X, n.Y }

// Edge connects two nodes by reference.
type Edge struct {
	Source *Node
	Target *Node
}

// Link builds an edge between nodes[source] and nodes[target].
func Link(nodes []*Node, source, target int) (*Edge, error) {
	if source < 0 || source >= len(nodes) || target < 0 || target >= len(nodes) {
		return nil, ErrInvalidEndpoint
	}
	return &Edge{Source: nodes[source], Target: nodes[target]}, nil
}

// Resolve returns the indices of both endpoints within nodes. ok is false
// when either endpoint is nil or is no longer stored at its recorded index.
func (e *Edge) Resolve(nodes []*Node) (source, target int, ok bool) {
	if e == nil {
		return -1, -1, false
	}
	source, sok := resolve(e.Source, nodes)
	target, tok := resolve(e.Target, nodes)
	return source, target, sok && tok
}

func resolve(n *Node, nodes []*Node) (int, bool) {
	if n == nil || n.Index < 0 || n.Index >= len(nodes) || nodes[n.Index] != n {
		return -1, false
	}
	return n.Index, true
}

// Reindex sets Index on every node to its position.
func Reindex(nodes []*Node) {
	for i, n := range nodes {
		if n != nil {
			n.Index = i
		}
	}
}

// Dataset is the mutable graph handed to a chart. Both fields may be
// replaced by the caller at any time.
type Dataset struct {
	Label string
	Nodes *observe.Sequence[*Node]
	Edges *observe.Sequence[*Edge]
}

// NewDataset wraps nodes and edges in observable sequences.
func NewDataset(nodes []*Node, edges []*Edge) *Dataset {
	Reindex(nodes)
	return &Dataset{
		Nodes: observe.New(nodes...),
		Edges: observe.New(edges...),
	}
}

// Clone deep copies nodes and the edges that resolve against them. Pinned
// positions are copied, not shared.
func Clone(nodes []*Node, edges []*Edge) ([]*Node, []*Edge) {
	out := make([]*Node, len(nodes))
	for i, n := range nodes {
		c := *n
		c.Index = i
		if n.FX != nil && n.FY != nil {
			c.Pin(*n.FX, *n.FY)
		}
		out[i] = &c
	}
	links := make([]*Edge, 0, len(edges))
	for _, e := range edges {
		s, t, ok := e.Resolve(nodes)
		if !ok {
			continue
		}
		links = append(links, &Edge{Source: out[s], Target: out[t]})
	}
	return out, links
}
