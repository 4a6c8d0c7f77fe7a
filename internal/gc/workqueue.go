package gc

import "github.com/trynova/nova-sub003/internal/value"

// markKey identifies one heap cell across every vector: a tag (which
// vector) plus an index within it.
type markKey struct {
	tag value.Tag
	idx uint32
}

// workQueueSet is the grey set of tri-color marking, partitioned by kind
// so a single mark step only ever touches one heap vector at a time (the
// cache-friendliness spec.md §4.8 calls out). Each per-tag queue is
// logically independent; Pop below draws from them as one combined pool
// (the last entry of any non-empty queue) only for the purpose of
// termination (drained when all are empty), which is
// all the spec requires ("Termination is when all per-kind queues are
// empty").
type workQueueSet struct {
	queues map[value.Tag][]uint32
	marked map[markKey]bool
}

func newWorkQueueSet() *workQueueSet {
	return &workQueueSet{queues: make(map[value.Tag][]uint32), marked: make(map[markKey]bool)}
}

// Enqueue adds v to its kind's grey queue unless it is not heap-backed or
// already black (marked).
func (w *workQueueSet) Enqueue(v value.Value) {
	if !isHeapBacked(v) {
		return
	}
	k := markKey{tag: v.Tag(), idx: v.HeapIndexValue()}
	if w.marked[k] {
		return
	}
	w.marked[k] = true
	w.queues[v.Tag()] = append(w.queues[v.Tag()], v.HeapIndexValue())
}

// Pop removes and returns one (tag, idx) pair from any non-empty queue, or
// ok=false once the whole set is drained.
func (w *workQueueSet) Pop() (tag value.Tag, idx uint32, ok bool) {
	for t, q := range w.queues {
		if len(q) == 0 {
			continue
		}
		idx = q[len(q)-1]
		w.queues[t] = q[:len(q)-1]
		return t, idx, true
	}
	return 0, 0, false
}

func (w *workQueueSet) IsMarked(tag value.Tag, idx uint32) bool {
	return w.marked[markKey{tag: tag, idx: idx}]
}

func isHeapBacked(v value.Value) bool {
	return v.Tag() >= value.TagHeapNumber
}
