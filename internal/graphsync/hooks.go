package graphsync

import "github.com/san-kum/forcegraph/internal/layout"

// Diagnostics receives structural events from a Controller.
type Diagnostics interface {
	// OnResync is called after the layout was handed a new binding.
	OnResync(b layout.Binding)

	// OnDangling is called when a reconcile pass finds edges whose
	// endpoints do not resolve.
	OnDangling(err *DanglingEdgeError)

	// OnSettled is called when the layout settles.
	OnSettled(generation int)
}

// NoopDiagnostics discards every event.
type NoopDiagnostics struct{}

func (NoopDiagnostics) OnResync(layout.Binding)       {}
func (NoopDiagnostics) OnDangling(*DanglingEdgeError) {}
func (NoopDiagnostics) OnSettled(int)                 {}
