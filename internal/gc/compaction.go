// Package gc implements the tracing, compacting garbage collector
// described in spec.md §4.8: a tri-color mark over per-kind work queues,
// a monotone compaction-list per heap vector, and a sweep pass that
// rewrites every outgoing typed index through the compaction tables.
package gc

// CompactionList is a monotone map from pre-GC to post-GC indices of a
// single heap vector, per spec.md §8 "Compaction determinism": given the
// same liveness bitset, From always returns the same
// mapping, and old_index -> new_index is monotonic and preserves the
// relative order of live entries.
type CompactionList struct {
	// Mapping[old] is the new index, or -1 if old was not marked live and
	// was therefore skipped by compaction.
	Mapping  []int32
	LiveCount uint32
}

// removedSentinel marks an old index that compaction reclaimed.
const removedSentinel int32 = -1

// From builds the CompactionList for a vector whose liveness is given by
// live[i] == true for every marked index i. The walk is a single linear
// pass, which is what makes the mapping monotonic by construction: live
// entries are assigned new indices in the order they appear.
func From(live []bool) CompactionList {
	mapping := make([]int32, len(live))
	var next uint32
	for i, l := range live {
		if l {
			mapping[i] = int32(next)
			next++
		} else {
			mapping[i] = removedSentinel
		}
	}
	return CompactionList{Mapping: mapping, LiveCount: next}
}

// NewIndex translates an old index through the list. ok is false if the
// old index was not live (the caller has a bug: nothing live should ever
// reference a reclaimed slot, per spec.md §4.8's invariant).
func (c CompactionList) NewIndex(old uint32) (newIdx uint32, ok bool) {
	if int(old) >= len(c.Mapping) {
		return 0, false
	}
	m := c.Mapping[old]
	if m == removedSentinel {
		return 0, false
	}
	return uint32(m), true
}
