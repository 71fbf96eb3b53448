// Package observe provides an observable sequence that reports structural
// edits to registered listeners.
//
// A [Sequence] is a plain slice wrapper. Callers mutate it through five
// structural operations and every registered [Listener] is told about the
// edit synchronously, inside the same call:
//
//   - [Sequence.Push]: append, reported as OnPush(start, count)
//   - [Sequence.Pop]: remove last, reported as OnPop()
//   - [Sequence.Shift]: remove first, reported as OnShift()
//   - [Sequence.Splice]: remove and insert, reported as OnSplice(start, removed, inserted)
//   - [Sequence.Unshift]: prepend, reported as OnUnshift(count)
//
// The report carries enough information to replay the edit on a parallel
// structure, which is how render state is kept index aligned with data.
//
// # Frozen sequences
//
// A frozen sequence still accepts edits but refuses new listeners with
// [ErrNotObservable]. Consumers fall back to length based reconciliation.
//
// # Thread Safety
//
// Sequence is NOT thread-safe. Listeners must not mutate the sequence that
// is notifying them.
package observe
