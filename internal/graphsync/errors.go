package graphsync

import (
	"errors"
	"fmt"
	"slices"
)

var (
	ErrDanglingEdge = errors.New("graphsync: edge endpoint does not resolve to a node")
	ErrDestroyed    = errors.New("graphsync: controller destroyed")
)

// DanglingEdgeError lists edges that still had an unresolved endpoint after
// a reconcile pass. Indices refer to the edge sequence as it was before any
// pruning.
type DanglingEdgeError struct {
	Indices []int
	Pruned  bool
}

func (e *DanglingEdgeError) Error() string {
	action := "kept"
	if e.Pruned {
		action = "pruned"
	}
	return fmt.Sprintf("graphsync: %d dangling edge(s) at %v %s", len(e.Indices), e.Indices, action)
}

func (e *DanglingEdgeError) Unwrap() error { return ErrDanglingEdge }

func (e *DanglingEdgeError) same(o *DanglingEdgeError) bool {
	return o != nil && e.Pruned == o.Pruned && slices.Equal(e.Indices, o.Indices)
}
