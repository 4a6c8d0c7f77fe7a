package heap

import "github.com/trynova/nova-sub003/internal/value"

// bucketCapacities are the power-of-two capacities the elements store
// bucketizes backing arrays into, per spec.md §3.2.
var bucketCapacities = [...]uint32{1 << 4, 1 << 6, 1 << 8, 1 << 10, 1 << 12, 1 << 16, 1 << 24, 1 << 32 - 1}

// ElementsVector is a (bucket, index-within-bucket, length) triple
// describing a backing store allocated in one bucket of the Elements
// store. The zero value is the empty vector (no allocation).
type ElementsVector struct {
	bucket    int // index into Elements.buckets; meaningful only when allocated
	slot      uint32
	Length    uint32
	allocated bool
}

func (ev ElementsVector) IsEmpty() bool { return !ev.allocated }

// Elements is the shared backing store for every object's indexed
// property array (OrdinaryObject "elements", Array's indices, arguments
// objects, ...), bucketed by capacity so that small and large objects
// never share a reallocation class.
type Elements struct {
	buckets [len(bucketCapacities)][][]value.Value
	free    [len(bucketCapacities)][]uint32
}

func newElements() Elements {
	var e Elements
	for i := range e.buckets {
		e.buckets[i] = nil
	}
	return e
}

func bucketFor(capacity uint32) int {
	for i, c := range bucketCapacities {
		if capacity <= c {
			return i
		}
	}
	return len(bucketCapacities) - 1
}

// Alloc reserves a fresh backing array able to hold at least capacity
// elements, all initialized to value.Empty() (the internal "hole" marker
// used by sparse arrays).
func (e *Elements) Alloc(capacity uint32) ElementsVector {
	b := bucketFor(capacity)
	cap := bucketCapacities[b]
	backing := make([]value.Value, cap)
	for i := range backing {
		backing[i] = value.Empty()
	}
	var slot uint32
	if n := len(e.free[b]); n > 0 {
		slot = e.free[b][n-1]
		e.free[b] = e.free[b][:n-1]
		e.buckets[b][slot] = backing
	} else {
		e.buckets[b] = append(e.buckets[b], backing)
		slot = uint32(len(e.buckets[b]) - 1)
	}
	return ElementsVector{bucket: b, slot: slot, Length: 0, allocated: true}
}

// Get returns the value stored at i within ev, or value.Empty() for a
// hole / out-of-range read.
func (e *Elements) Get(ev ElementsVector, i uint32) value.Value {
	if ev.IsEmpty() || i >= ev.Length {
		return value.Empty()
	}
	return e.buckets[ev.bucket][ev.slot][i]
}

// Set writes v at index i, growing (reallocating into the next bucket)
// when i is beyond the current backing array's capacity. The old slot is
// freed so the GC's compaction pass can reclaim it.
func (e *Elements) Set(ev *ElementsVector, i uint32, v value.Value) {
	if ev.IsEmpty() {
		*ev = e.Alloc(i + 1)
	}
	cap := bucketCapacities[ev.bucket]
	if i >= cap {
		old := *ev
		*ev = e.Alloc(i + 1)
		for j := uint32(0); j < old.Length; j++ {
			e.Set(ev, j, e.Get(old, j))
		}
		e.Free(old)
	}
	e.buckets[ev.bucket][ev.slot][i] = v
	if i+1 > ev.Length {
		ev.Length = i + 1
	}
}

// Free releases ev's backing array back to its bucket's free list. The
// GC is what actually calls this during sweep for elements no longer
// reachable; growth also calls it directly for the vector it replaces.
func (e *Elements) Free(ev ElementsVector) {
	if ev.IsEmpty() {
		return
	}
	e.buckets[ev.bucket][ev.slot] = nil
	e.free[ev.bucket] = append(e.free[ev.bucket], ev.slot)
}

// Each calls fn for every live, non-hole value in ev; used by mark and by
// iteration builtins alike.
func (e *Elements) Each(ev ElementsVector, fn func(i uint32, v value.Value)) {
	if ev.IsEmpty() {
		return
	}
	backing := e.buckets[ev.bucket][ev.slot]
	for i := uint32(0); i < ev.Length; i++ {
		if v := backing[i]; v.Tag() != value.TagEmpty {
			fn(i, v)
		}
	}
}

// Remap rewrites every element of ev in place through fn, used by the
// GC's sweep pass (internal/heap.RemapRefs) to fix up indices after
// compaction.
func (e *Elements) Remap(ev ElementsVector, fn func(value.Value) value.Value) {
	if ev.IsEmpty() {
		return
	}
	backing := e.buckets[ev.bucket][ev.slot]
	for i := uint32(0); i < ev.Length; i++ {
		if v := backing[i]; v.Tag() != value.TagEmpty {
			backing[i] = fn(v)
		}
	}
}
