package gc

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/trynova/nova-sub003/internal/value"
)

// fakeGraph is a minimal HeapGraph over a single vector of "objects", each
// holding a list of outgoing references, so this package's mark/compact/
// sweep logic can be exercised without importing internal/heap (which
// itself imports this package).
type fakeGraph struct {
	objects [][]value.Value
}

func (g *fakeGraph) OutgoingRefs(v value.Value) []value.Value {
	if v.Tag() != value.TagOrdinaryObject {
		return nil
	}
	return g.objects[v.HeapIndexValue()]
}

func (g *fakeGraph) RemapRefs(remap func(value.Value) value.Value) {
	for i, refs := range g.objects {
		for j, r := range refs {
			g.objects[i][j] = remap(r)
		}
	}
}

func (g *fakeGraph) VectorLength(tag value.Tag) int {
	if tag != value.TagOrdinaryObject {
		return 0
	}
	return len(g.objects)
}

func (g *fakeGraph) CompactVector(tag value.Tag, list CompactionList) {
	if tag != value.TagOrdinaryObject {
		return
	}
	compacted := make([][]value.Value, list.LiveCount)
	for old, refs := range g.objects {
		if idx, ok := list.NewIndex(uint32(old)); ok {
			compacted[idx] = refs
		}
	}
	g.objects = compacted
}

// fakeRoot pins a single Value, mirroring internal/rootable.Arena's
// RootValues/Remap contract at the smallest possible scale.
type fakeRoot struct {
	v value.Value
}

func (r *fakeRoot) RootValues() []value.Value { return []value.Value{r.v} }
func (r *fakeRoot) Remap(fn func(value.Value) value.Value) {
	r.v = fn(r.v)
}

func obj(i uint32) value.Value { return value.HeapIndex(value.TagOrdinaryObject, i) }

func TestCycleReclaimsUnreachableObjectAndRemapsRoot(t *testing.T) {
	// 0 -> 2, 1 is garbage, root holds 0.
	g := &fakeGraph{objects: [][]value.Value{
		{obj(2)},
		{},
		{},
	}}
	root := &fakeRoot{v: obj(0)}
	c := Collector{Heap: g, Roots: []Root{root}}

	stats := c.Cycle()

	require.Equal(t, 2, stats.MarkedPerTag[value.TagOrdinaryObject])
	require.Len(t, g.objects, 2)
	require.Equal(t, obj(0), root.v)
	require.Equal(t, obj(1), g.objects[0][0])
}

func TestCycleWithNoGarbageKeepsEveryIndexStable(t *testing.T) {
	g := &fakeGraph{objects: [][]value.Value{{}, {}}}
	root0 := &fakeRoot{v: obj(0)}
	root1 := &fakeRoot{v: obj(1)}
	c := Collector{Heap: g, Roots: []Root{root0, root1}}

	c.Cycle()

	require.Len(t, g.objects, 2)
	require.Equal(t, obj(0), root0.v)
	require.Equal(t, obj(1), root1.v)
}

func TestAllTagsIncludesOrdinaryObject(t *testing.T) {
	found := false
	for _, tag := range AllTags() {
		if tag == value.TagOrdinaryObject {
			found = true
		}
	}
	require.True(t, found)
}

func TestCompactionListFromIsMonotonic(t *testing.T) {
	list := From([]bool{true, false, true, true})
	require.Equal(t, uint32(3), list.LiveCount)

	i0, ok := list.NewIndex(0)
	require.True(t, ok)
	require.Equal(t, uint32(0), i0)

	_, ok = list.NewIndex(1)
	require.False(t, ok)

	i2, ok := list.NewIndex(2)
	require.True(t, ok)
	require.Equal(t, uint32(1), i2)

	i3, ok := list.NewIndex(3)
	require.True(t, ok)
	require.Equal(t, uint32(2), i3)
}
