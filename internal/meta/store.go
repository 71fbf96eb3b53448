// Package meta keeps render state records index aligned with a data sequence.
package meta

// Store is a sequence of elements built by a factory. Inserted elements are
// always fresh; a removed element is never handed out again.
type Store[E any] struct {
	elems   []E
	factory func(index int) E
}

// New returns an empty store that builds elements with factory.
func New[E any](factory func(index int) E) *Store[E] {
	return &Store[E]{factory: factory}
}

func (s *Store[E]) Len() int { return len(s.elems) }

func (s *Store[E]) Get(i int) E { return s.elems[i] }

// Lookup returns the element at i, or ok=false when i is out of range.
func (s *Store[E]) Lookup(i int) (e E, ok bool) {
	if i < 0 || i >= len(s.elems) {
		return e, false
	}
	return s.elems[i], true
}

// All returns a copy of the elements in index order.
func (s *Store[E]) All() []E {
	out := make([]E, len(s.elems))
	copy(out, s.elems)
	return out
}

// InsertAt creates count elements at index, shifting later elements up.
// index is clamped to [0, Len()]. The new elements are returned.
func (s *Store[E]) InsertAt(index, count int) []E {
	if count <= 0 {
		return nil
	}
	index = clamp(index, 0, len(s.elems))

	fresh := make([]E, count)
	for i := range fresh {
		fresh[i] = s.factory(index + i)
	}

	next := make([]E, 0, len(s.elems)+count)
	next = append(next, s.elems[:index]...)
	next = append(next, fresh...)
	next = append(next, s.elems[index:]...)
	s.elems = next
	return fresh
}

// RemoveRange deletes count elements starting at index, shifting later
// elements down. The range is clamped to the store. Removed elements are returned.
func (s *Store[E]) RemoveRange(index, count int) []E {
	index = clamp(index, 0, len(s.elems))
	count = clamp(count, 0, len(s.elems)-index)
	if count == 0 {
		return nil
	}

	removed := make([]E, count)
	copy(removed, s.elems[index:index+count])

	next := make([]E, 0, len(s.elems)-count)
	next = append(next, s.elems[:index]...)
	next = append(next, s.elems[index+count:]...)
	s.elems = next
	return removed
}

// Truncate drops every element at or after n.
func (s *Store[E]) Truncate(n int) []E {
	return s.RemoveRange(n, len(s.elems)-n)
}

// Clear drops every element.
func (s *Store[E]) Clear() []E {
	return s.RemoveRange(0, len(s.elems))
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
