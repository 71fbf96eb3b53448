package observe

import (
	"errors"
	"fmt"
	"reflect"
	"testing"
)

type recorder struct {
	events []string
}

func (r *recorder) OnPush(start, count int) { r.events = append(r.events, fmt.Sprintf("push %d %d", start, count)) }
func (r *recorder) OnPop()                  { r.events = append(r.events, "pop") }
func (r *recorder) OnShift()                { r.events = append(r.events, "shift") }
func (r *recorder) OnSplice(start, removed, inserted int) {
	r.events = append(r.events, fmt.Sprintf("splice %d %d %d", start, removed, inserted))
}
func (r *recorder) OnUnshift(count int) { r.events = append(r.events, fmt.Sprintf("unshift %d", count)) }

func TestSequence_Reports(t *testing.T) {
	s := New(1, 2, 3)
	rec := &recorder{}
	if err := s.Observe(rec); err != nil {
		t.Fatalf("observe failed: %v", err)
	}

	s.Push(4, 5)
	s.Pop()
	s.Shift()
	s.Splice(1, 1, 7, 8, 9)
	s.Unshift(0)

	want := []string{
		"push 3 2",
		"pop",
		"shift",
		"splice 1 1 3",
		"unshift 1",
	}
	if !reflect.DeepEqual(rec.events, want) {
		t.Errorf("expected events %v, got %v", want, rec.events)
	}

	if got := s.Items(); !reflect.DeepEqual(got, []int{0, 2, 7, 8, 9, 4}) {
		t.Errorf("unexpected contents: %v", got)
	}
}

func TestSequence_EmptyPopShift(t *testing.T) {
	s := New[int]()
	rec := &recorder{}
	_ = s.Observe(rec)

	if _, ok := s.Pop(); ok {
		t.Error("expected pop on empty sequence to fail")
	}
	if _, ok := s.Shift(); ok {
		t.Error("expected shift on empty sequence to fail")
	}
	if len(rec.events) != 0 {
		t.Errorf("expected no events, got %v", rec.events)
	}
}

func TestSequence_SpliceClamp(t *testing.T) {
	tests := []struct {
		name        string
		start, del  int
		insert      []int
		wantItems   []int
		wantRemoved []int
		wantEvent   string
	}{
		{"negative start", -1, 1, nil, []int{1, 2}, []int{3}, "splice 2 1 0"},
		{"start past end", 10, 1, []int{4}, []int{1, 2, 3, 4}, []int{}, "splice 3 0 1"},
		{"remove too many", 1, 10, nil, []int{1}, []int{2, 3}, "splice 1 2 0"},
		{"replace all", 0, 3, nil, []int{}, []int{1, 2, 3}, "splice 0 3 0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(1, 2, 3)
			rec := &recorder{}
			_ = s.Observe(rec)

			removed := s.Splice(tt.start, tt.del, tt.insert...)
			if !reflect.DeepEqual(removed, tt.wantRemoved) {
				t.Errorf("expected removed %v, got %v", tt.wantRemoved, removed)
			}
			if got := s.Items(); !reflect.DeepEqual(got, tt.wantItems) {
				t.Errorf("expected items %v, got %v", tt.wantItems, got)
			}
			if len(rec.events) != 1 || rec.events[0] != tt.wantEvent {
				t.Errorf("expected event %q, got %v", tt.wantEvent, rec.events)
			}
		})
	}
}

func TestSequence_Unobserve(t *testing.T) {
	s := New(1)
	rec := &recorder{}
	_ = s.Observe(rec)
	_ = s.Observe(rec)

	s.Push(2)
	if len(rec.events) != 1 {
		t.Fatalf("expected duplicate observe to be ignored, got %v", rec.events)
	}

	s.Unobserve(rec)
	s.Unobserve(rec)
	s.Push(3)
	if len(rec.events) != 1 {
		t.Errorf("expected no events after unobserve, got %v", rec.events)
	}
	if s.Observed(rec) {
		t.Error("listener still reported as observed")
	}
}

func TestSequence_Frozen(t *testing.T) {
	s := New(1)
	s.Freeze()

	err := s.Observe(&recorder{})
	if !errors.Is(err, ErrNotObservable) {
		t.Errorf("expected ErrNotObservable, got %v", err)
	}

	s.Push(2)
	if s.Len() != 2 {
		t.Errorf("frozen sequence should still accept edits, len %d", s.Len())
	}
}

type selfRemover struct {
	seq   *Sequence[int]
	calls int
}

func (r *selfRemover) OnPush(int, int)           { r.calls++; r.seq.Unobserve(r) }
func (r *selfRemover) OnPop()                    {}
func (r *selfRemover) OnShift()                  {}
func (r *selfRemover) OnSplice(int, int, int)    {}
func (r *selfRemover) OnUnshift(int)             {}

func TestSequence_ListenerDetachesDuringNotify(t *testing.T) {
	s := New[int]()
	a := &selfRemover{seq: s}
	b := &recorder{}
	_ = s.Observe(a)
	_ = s.Observe(b)

	s.Push(1)
	s.Push(2)

	if a.calls != 1 {
		t.Errorf("expected 1 call, got %d", a.calls)
	}
	if len(b.events) != 2 {
		t.Errorf("expected second listener to see both pushes, got %v", b.events)
	}
}
