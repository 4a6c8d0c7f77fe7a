package async

import (
	"github.com/trynova/nova-sub003/internal/heap"
	"github.com/trynova/nova-sub003/internal/value"
	"github.com/trynova/nova-sub003/internal/vm"
)

// FromSync wraps a synchronous iterator record so `for await` can drive it
// like any other async iterator, per spec.md §4.6's Async-from-Sync
// adapter. next/return/throw each report through a promise rather than
// returning an iterator result directly.
type FromSync struct {
	eng  *vm.Engine
	sync value.Value // the wrapped synchronous iterator
}

// NewFromSync adapts src (anything vm.Engine.GetIterator accepts) into an
// async iterator.
func NewFromSync(eng *vm.Engine, src value.Value) (*FromSync, error) {
	iter, err := eng.GetIterator(src)
	if err != nil {
		return nil, err
	}
	return &FromSync{eng: eng, sync: iter}, nil
}

// Next implements step 1-3 of the adapter for the `next` method: there is
// no user-overridable synchronous `next` to fail in our iterator model
// (see vm.getIterator's doc comment), so this always "calls the
// underlying synchronous method" successfully and resolves the result's
// value against %Promise%, i.e. wraps a non-thenable value in an
// already-fulfilled promise.
func (f *FromSync) Next() value.Value {
	v, done := f.eng.IteratorStep(f.sync)
	return f.wrapResult(v, done)
}

// Return implements the adapter's `return` path: since our synchronous
// iterators have no Symbol.iterator-level return() hook to call (no
// generator-backed iterator closes anything observable yet), this closes
// the iterator directly (marks it done, so a later Next reports done) and
// resolves with `{ value, done: true }`.
func (f *FromSync) Return(v value.Value) value.Value {
	f.eng.Heap.Iterators[heap.Index(f.sync.HeapIndexValue())].Done = true
	return f.wrapResult(v, true)
}

// Throw implements the adapter's `throw` path for an iterator with no
// throw() method of its own: per spec.md §4.6 step 1's "short-circuits
// when the method is absent", this rejects immediately with v rather than
// resuming the wrapped iterator.
func (f *FromSync) Throw(v value.Value) value.Value {
	h := f.eng.Heap
	p := h.NewPromise(value.Null())
	h.RejectPromise(p, v)
	return p
}

// wrapResult implements steps 2-3: settle a promise with a fresh
// `{ value, done }` object once the (already-synchronous, so
// synchronously known) result is available.
func (f *FromSync) wrapResult(v value.Value, done bool) value.Value {
	h := f.eng.Heap
	p := h.NewPromise(value.Null())
	result := h.NewOrdinaryObject(value.Null())
	h.SetProperty(result, heap.PropertyKey{Name: "value"}, v)
	h.SetProperty(result, heap.PropertyKey{Name: "done"}, value.Boolean(done))
	h.ResolvePromise(p, result)
	return p
}
