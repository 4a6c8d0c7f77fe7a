package gc

import "github.com/trynova/nova-sub003/internal/value"

// Root is anything the collector must treat as reachable even if nothing
// else in the heap points to it: the execution-context stack, the
// reference register, the iterator stack, Global/Scoped handle arenas,
// and realm intrinsics tables, per spec.md §3.4.
type Root interface {
	// RootValues returns every Value this root currently holds.
	RootValues() []value.Value
	// Remap rewrites every Value this root holds through fn, called once
	// per collection cycle after compaction has computed new indices.
	Remap(fn func(value.Value) value.Value)
}

// HeapGraph is the subset of *heap.Heap the collector needs, expressed as
// an interface so this package never imports internal/heap directly and
// stays testable against a fake graph (see gc_test.go). The concrete
// *heap.Heap satisfies this by definition of OutgoingRefs/RemapRefs/VectorLength/CompactVector.
type HeapGraph interface {
	OutgoingRefs(v value.Value) []value.Value
	RemapRefs(remap func(value.Value) value.Value)
	VectorLength(tag value.Tag) int
	CompactVector(tag value.Tag, list CompactionList)
}

// Collector runs mark/compact/sweep cycles over a HeapGraph and a fixed
// set of Roots.
type Collector struct {
	Heap  HeapGraph
	Roots []Root
}

// Stats summarizes one collection cycle, useful for the diagnostic
// Listener hook (SPEC_FULL.md §4.9).
type Stats struct {
	MarkedPerTag map[value.Tag]int
}

// Cycle performs one full mark → compact → sweep pass. It is the only
// entry point; nothing else in this package is safe to call mid-cycle.
func (c *Collector) Cycle() Stats {
	marks := c.mark()
	lists := c.buildCompactionLists(marks)
	c.compact(lists)
	remap := c.remapFunc(lists)
	c.Heap.RemapRefs(remap)
	for _, r := range c.Roots {
		r.Remap(remap)
	}
	stats := Stats{MarkedPerTag: map[value.Tag]int{}}
	for k := range marks.marked {
		stats.MarkedPerTag[k.tag]++
	}
	return stats
}

func (c *Collector) mark() *workQueueSet {
	w := newWorkQueueSet()
	for _, r := range c.Roots {
		for _, v := range r.RootValues() {
			w.Enqueue(v)
		}
	}
	for {
		tag, idx, ok := w.Pop()
		if !ok {
			break
		}
		v := value.HeapIndex(tag, idx)
		for _, ref := range c.Heap.OutgoingRefs(v) {
			w.Enqueue(ref)
		}
	}
	return w
}

// AllTags returns every heap-backed tag that owns a vector, in iteration
// order, for callers (internal/vm's allocation watermark check) that need
// to sum live counts across the whole heap without duplicating this list.
func AllTags() []value.Tag {
	return tagsWithVectors
}

// tagsWithVectors lists every heap-backed tag in vector order; kept here
// (rather than in internal/heap) so the collector's iteration order is
// spelled out in one place for auditability.
var tagsWithVectors = []value.Tag{
	value.TagHeapNumber, value.TagHeapBigInt, value.TagHeapString, value.TagSymbol,
	value.TagOrdinaryObject, value.TagArray, value.TagError, value.TagPromise,
	value.TagMap, value.TagSet, value.TagArrayBuffer, value.TagDataView,
	value.TagArrayIterator, value.TagStringIterator, value.TagMapIterator,
	value.TagSetIterator, value.TagRegExpStringIterator, value.TagAsyncFromSyncIterator,
	value.TagAsyncGenerator, value.TagGeneratorIterator, value.TagModuleNamespaceIterator,
	value.TagBoundFunction, value.TagBuiltinFunction, value.TagBuiltinConstructorFunction,
	value.TagECMAScriptFunction, value.TagBuiltinPromiseResolvingFunction,
	value.TagBuiltinPromiseCollectorFunction, value.TagBuiltinProxyRevokerFunction,
	value.TagBuiltinGeneratorFunction,
}

// iteratorTags are the nine iterator Value tags that all index into the
// single shared internal/heap.Heap.Iterators vector (one IteratorData cell
// is exactly one kind, so at a given index only one of these nine tags is
// ever actually marked). Building one CompactionList per tag independently
// would treat a live TagSetIterator cell as dead when computing the
// TagArrayIterator list, so their liveness is OR-ed together first and the
// resulting single list is shared across all nine map entries.
var iteratorTags = []value.Tag{
	value.TagArrayIterator, value.TagStringIterator, value.TagMapIterator,
	value.TagSetIterator, value.TagRegExpStringIterator, value.TagAsyncFromSyncIterator,
	value.TagAsyncGenerator, value.TagGeneratorIterator, value.TagModuleNamespaceIterator,
}

func (c *Collector) buildCompactionLists(marks *workQueueSet) map[value.Tag]CompactionList {
	lists := make(map[value.Tag]CompactionList, len(tagsWithVectors))
	grouped := make(map[value.Tag]bool, len(iteratorTags))
	for _, tag := range iteratorTags {
		grouped[tag] = true
	}
	n := c.Heap.VectorLength(value.TagArrayIterator)
	live := make([]bool, n)
	for i := 0; i < n; i++ {
		for _, tag := range iteratorTags {
			if marks.IsMarked(tag, uint32(i)) {
				live[i] = true
				break
			}
		}
	}
	iterList := From(live)
	for _, tag := range iteratorTags {
		lists[tag] = iterList
	}

	for _, tag := range tagsWithVectors {
		if grouped[tag] {
			continue
		}
		n := c.Heap.VectorLength(tag)
		live := make([]bool, n)
		for i := 0; i < n; i++ {
			live[i] = marks.IsMarked(tag, uint32(i))
		}
		lists[tag] = From(live)
	}
	return lists
}

func (c *Collector) compact(lists map[value.Tag]CompactionList) {
	for tag, list := range lists {
		c.Heap.CompactVector(tag, list)
	}
}

func (c *Collector) remapFunc(lists map[value.Tag]CompactionList) func(value.Value) value.Value {
	return func(v value.Value) value.Value {
		if !isHeapBacked(v) {
			return v
		}
		list, ok := lists[v.Tag()]
		if !ok {
			return v
		}
		newIdx, ok := list.NewIndex(v.HeapIndexValue())
		if !ok {
			// Spec invariant: after sweep_values, no index in the heap
			// points to a cell that is None. A live Value reaching here
			// unmapped means something failed to register as a root or
			// was not enqueued during mark; surface it loudly rather than
			// silently corrupting the graph.
			panic("gc: live value referenced a non-marked heap slot")
		}
		return value.HeapIndex(v.Tag(), newIdx)
	}
}
