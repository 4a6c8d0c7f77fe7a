package vm

import (
	"github.com/trynova/nova-sub003/internal/heap"
	"github.com/trynova/nova-sub003/internal/value"
)

// getIterator implements GetIterator for the source shapes the compiler's
// for-in/for-of lowering (internal/bytecode/for_in_of.go) can produce:
// Arrays iterate their own elements, strings their code points, and any
// other object is treated as a for-in key snapshot (own enumerable string
// keys copied into a throwaway Array up front). Real Symbol.iterator
// dispatch needs internal/builtins's intrinsic methods wired through
// e.CallFunction, which does not exist yet.
// GetIterator is getIterator's exported form, for callers outside the
// bytecode interpreter loop (internal/async's Async-from-Sync adapter)
// that need to obtain an iterator without going through compiled
// OpGetIteratorSync/OpGetIteratorAsync instructions.
func (e *Engine) GetIterator(v value.Value) (value.Value, error) { return e.getIterator(v) }

// IteratorStep is iteratorStep's exported form, for the same reason.
func (e *Engine) IteratorStep(iter value.Value) (value.Value, bool) { return e.iteratorStep(iter) }

func (e *Engine) getIterator(v value.Value) (value.Value, error) {
	switch {
	case v.Tag() == value.TagArray:
		idx := e.Heap.NewIterator(heap.IterArray, v)
		return value.HeapIndex(value.TagArrayIterator, uint32(idx)), nil
	case v.IsString():
		idx := e.Heap.NewIterator(heap.IterString, v)
		return value.HeapIndex(value.TagStringIterator, uint32(idx)), nil
	case v.IsObject():
		keys := e.Heap.NewArray(value.Null())
		for _, k := range e.Heap.OwnEnumerableKeys(v) {
			e.Heap.AppendElement(keys, value.SmallString(k))
		}
		idx := e.Heap.NewIterator(heap.IterArray, keys)
		return value.HeapIndex(value.TagArrayIterator, uint32(idx)), nil
	default:
		return value.Undefined(), e.typeError("value is not iterable")
	}
}

// iteratorStep implements IteratorStepValue: advance iter by one and report
// whether the sequence is exhausted. Backed directly by heap.IteratorData's
// NextIndex/Done rather than a re-entrant next() call, since every iterator
// getIterator can produce today is a plain index walk.
func (e *Engine) iteratorStep(iter value.Value) (value.Value, bool) {
	id := e.Heap.Iterators[heap.Index(iter.HeapIndexValue())]
	if id.Done {
		return value.Undefined(), true
	}
	switch id.Kind {
	case heap.IterArray:
		length := e.Heap.GetProperty(id.Target, heap.PropertyKey{Name: "length"})
		n := uint32(length.AsSmallInt())
		if id.NextIndex >= n {
			id.Done = true
			return value.Undefined(), true
		}
		v := e.Heap.GetProperty(id.Target, heap.PropertyKey{Name: numberToString(int32(id.NextIndex))})
		id.NextIndex++
		return v, false
	case heap.IterString:
		s := stringOf(e.Heap, id.Target)
		runes := []rune(s)
		if int(id.NextIndex) >= len(runes) {
			id.Done = true
			return value.Undefined(), true
		}
		v := value.SmallString(string(runes[id.NextIndex]))
		id.NextIndex++
		return v, false
	default:
		id.Done = true
		return value.Undefined(), true
	}
}
