package observe

import "errors"

// ErrNotObservable is returned when a listener is attached to a frozen sequence.
var ErrNotObservable = errors.New("observe: sequence is frozen and cannot be observed")

// Listener receives structural edits of a Sequence.
type Listener interface {
	OnPush(start, count int)
	OnPop()
	OnShift()
	OnSplice(start, removed, inserted int)
	OnUnshift(count int)
}

// Sequence is a slice that reports structural edits to its listeners.
type Sequence[T any] struct {
	items     []T
	listeners []Listener
	frozen    bool
}

// New returns a sequence holding a copy of items.
func New[T any](items ...T) *Sequence[T] {
	s := &Sequence[T]{items: make([]T, len(items))}
	copy(s.items, items)
	return s
}

func (s *Sequence[T]) Len() int { return len(s.items) }

func (s *Sequence[T]) At(i int) T { return s.items[i] }

// Set replaces the item at i. It is not a structural edit and is not reported.
func (s *Sequence[T]) Set(i int, v T) { s.items[i] = v }

// Items returns a copy of the current contents.
func (s *Sequence[T]) Items() []T {
	out := make([]T, len(s.items))
	copy(out, s.items)
	return out
}

// Freeze stops the sequence from accepting new listeners.
// Listeners attached before the call stay attached.
func (s *Sequence[T]) Freeze() { s.frozen = true }

func (s *Sequence[T]) Frozen() bool { return s.frozen }

// Observe attaches l. Attaching the same listener twice is a no-op.
func (s *Sequence[T]) Observe(l Listener) error {
	if s.frozen {
		return ErrNotObservable
	}
	for _, existing := range s.listeners {
		if existing == l {
			return nil
		}
	}
	s.listeners = append(s.listeners, l)
	return nil
}

// Unobserve detaches l. Detaching an unknown listener is a no-op.
func (s *Sequence[T]) Unobserve(l Listener) {
	for i, existing := range s.listeners {
		if existing == l {
			s.listeners = append(s.listeners[:i], s.listeners[i+1:]...)
			return
		}
	}
}

// Observed reports whether l is attached.
func (s *Sequence[T]) Observed(l Listener) bool {
	for _, existing := range s.listeners {
		if existing == l {
			return true
		}
	}
	return false
}

// Push appends items and returns the new length.
func (s *Sequence[T]) Push(items ...T) int {
	if len(items) == 0 {
		return len(s.items)
	}
	start := len(s.items)
	s.items = append(s.items, items...)
	for _, l := range s.snapshot() {
		l.OnPush(start, len(items))
	}
	return len(s.items)
}

// Pop removes and returns the last item. ok is false on an empty sequence,
// in which case nothing is reported.
func (s *Sequence[T]) Pop() (v T, ok bool) {
	n := len(s.items)
	if n == 0 {
		return v, false
	}
	v = s.items[n-1]
	var zero T
	s.items[n-1] = zero
	s.items = s.items[:n-1]
	for _, l := range s.snapshot() {
		l.OnPop()
	}
	return v, true
}

// Shift removes and returns the first item. ok is false on an empty sequence.
func (s *Sequence[T]) Shift() (v T, ok bool) {
	if len(s.items) == 0 {
		return v, false
	}
	v = s.items[0]
	s.items = append(s.items[:0:0], s.items[1:]...)
	for _, l := range s.snapshot() {
		l.OnShift()
	}
	return v, true
}

// Unshift prepends items and returns the new length.
func (s *Sequence[T]) Unshift(items ...T) int {
	if len(items) == 0 {
		return len(s.items)
	}
	next := make([]T, 0, len(items)+len(s.items))
	next = append(next, items...)
	s.items = append(next, s.items...)
	for _, l := range s.snapshot() {
		l.OnUnshift(len(items))
	}
	return len(s.items)
}

// Splice removes removeCount items at start and inserts items in their
// place. A negative start counts back from the end. start and removeCount
// are clamped to the sequence bounds. The removed items are returned.
func (s *Sequence[T]) Splice(start, removeCount int, items ...T) []T {
	n := len(s.items)
	if start < 0 {
		start += n
		if start < 0 {
			start = 0
		}
	}
	if start > n {
		start = n
	}
	if removeCount < 0 {
		removeCount = 0
	}
	if removeCount > n-start {
		removeCount = n - start
	}

	removed := make([]T, removeCount)
	copy(removed, s.items[start:start+removeCount])

	next := make([]T, 0, n-removeCount+len(items))
	next = append(next, s.items[:start]...)
	next = append(next, items...)
	next = append(next, s.items[start+removeCount:]...)
	s.items = next

	for _, l := range s.snapshot() {
		l.OnSplice(start, removeCount, len(items))
	}
	return removed
}

// snapshot lets a listener detach itself while being notified.
func (s *Sequence[T]) snapshot() []Listener {
	if len(s.listeners) == 0 {
		return nil
	}
	out := make([]Listener, len(s.listeners))
	copy(out, s.listeners)
	return out
}
