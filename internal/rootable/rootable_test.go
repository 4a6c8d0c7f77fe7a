package rootable

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/trynova/nova-sub003/internal/value"
)

func TestGlobalPinsAndTakes(t *testing.T) {
	arena := NewArena()
	g := NewGlobal(arena, value.SmallInt(42))

	require.Equal(t, value.SmallInt(42), g.Take())
	require.Equal(t, []value.Value{value.SmallInt(42)}, arena.RootValues())

	g.Drop()
	require.Empty(t, arena.RootValues())
}

func TestArenaReusesFreedSlots(t *testing.T) {
	arena := NewArena()
	g1 := NewGlobal(arena, value.SmallInt(1))
	g1.Drop()
	g2 := NewGlobal(arena, value.SmallInt(2))

	require.Equal(t, value.SmallInt(2), g2.Take())
	require.Len(t, arena.RootValues(), 1)
}

func TestScopedHandlesReleaseTogetherOnClose(t *testing.T) {
	arena := NewArena()
	scope := NewGcScope(arena)

	a := NewScoped(scope, value.SmallInt(1))
	b := NewScoped(scope, value.SmallInt(2))
	require.Equal(t, value.SmallInt(1), a.Get())
	require.Equal(t, value.SmallInt(2), b.Get())
	require.Len(t, arena.RootValues(), 2)

	scope.Close()
	require.Empty(t, arena.RootValues())
}

func TestArenaRemapRewritesEveryPin(t *testing.T) {
	arena := NewArena()
	NewGlobal(arena, value.SmallInt(1))
	NewGlobal(arena, value.SmallInt(2))

	arena.Remap(func(v value.Value) value.Value {
		return value.SmallInt(v.AsSmallInt() + 10)
	})

	got := arena.RootValues()
	require.ElementsMatch(t, []value.Value{value.SmallInt(11), value.SmallInt(12)}, got)
}

func TestNoGcScopeIsZeroSized(t *testing.T) {
	s := NewNoGcScope()
	require.Equal(t, NoGcScope{}, s)
}
