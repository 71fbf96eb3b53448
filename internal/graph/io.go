package graph

import (
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"os"
)

// File is the on-disk JSON form of a graph. Links refer to nodes by index.
type File struct {
	Nodes []FileNode `json:"nodes"`
	Links []FileLink `json:"links"`
}

type FileNode struct {
	Label string   `json:"label,omitempty"`
	Group string   `json:"group,omitempty"`
	X     *float64 `json:"x,omitempty"`
	Y     *float64 `json:"y,omitempty"`
	Fixed bool     `json:"fixed,omitempty"`
}

type FileLink struct {
	Source int `json:"source"`
	Target int `json:"target"`
}

// Read decodes a graph from r.
func Read(r io.Reader) ([]*Node, []*Edge, error) {
	var f File
	if err := json.NewDecoder(r).Decode(&f); err != nil {
		return nil, nil, fmt.Errorf("decode: %w", err)
	}
	return f.Build()
}

// ReadFile decodes a graph from the JSON file at path.
func ReadFile(path string) ([]*Node, []*Edge, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Read(f)
}

// Build turns the file form into linked nodes and edges.
func (f File) Build() ([]*Node, []*Edge, error) {
	nodes := make([]*Node, len(f.Nodes))
	for i, fn := range f.Nodes {
		n := &Node{Index: i, Label: fn.Label, Group: fn.Group}
		if fn.X != nil {
			n.X = *fn.X
		}
		if fn.Y != nil {
			n.Y = *fn.Y
		}
		if fn.Fixed {
			n.Pin(n.X, n.Y)
		}
		nodes[i] = n
	}

	edges := make([]*Edge, 0, len(f.Links))
	for i, l := range f.Links {
		e, err := Link(nodes, l.Source, l.Target)
		if err != nil {
			return nil, nil, fmt.Errorf("link %d (%d -> %d): %w", i, l.Source, l.Target, err)
		}
		edges = append(edges, e)
	}
	return nodes, edges, nil
}

// Write encodes nodes and edges as indented JSON. Edges whose endpoints do
// not resolve against nodes are skipped.
func Write(w io.Writer, nodes []*Node, edges []*Edge) error {
	f := File{
		Nodes: make([]FileNode, len(nodes)),
		Links: make([]FileLink, 0, len(edges)),
	}
	for i, n := range nodes {
		x, y := n.X, n.Y
		f.Nodes[i] = FileNode{Label: n.Label, Group: n.Group, X: &x, Y: &y, Fixed: n.FX != nil}
	}
	for _, e := range edges {
		s, t, ok := e.Resolve(nodes)
		if !ok {
			continue
		}
		f.Links = append(f.Links, FileLink{Source: s, Target: t})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(f); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// WriteFile writes the graph to path with 0644 permissions.
func WriteFile(path string, nodes []*Node, edges []*Edge) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return Write(f, nodes, edges)
}

// Random builds a connected-ish graph with n nodes and m extra edges.
// Every node after the first is attached to a random earlier node.
func Random(n, m int, seed int64) ([]*Node, []*Edge) {
	rng := rand.New(rand.NewSource(seed))
	nodes := make([]*Node, n)
	for i := range nodes {
		nodes[i] = &Node{Index: i, Label: fmt.Sprintf("n%d", i), Group: fmt.Sprintf("g%d", i%4)}
	}

	edges := make([]*Edge, 0, n+m)
	for i := 1; i < n; i++ {
		edges = append(edges, &Edge{Source: nodes[rng.Intn(i)], Target: nodes[i]})
	}
	for i := 0; i < m && n > 1; i++ {
		s, t := rng.Intn(n), rng.Intn(n)
		if s == t {
			continue
		}
		edges = append(edges, &Edge{Source: nodes[s], Target: nodes[t]})
	}
	return nodes, edges
}
