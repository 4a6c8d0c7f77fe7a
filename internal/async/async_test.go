package async

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/trynova/nova-sub003/internal/bytecode"
	"github.com/trynova/nova-sub003/internal/config"
	"github.com/trynova/nova-sub003/internal/heap"
	"github.com/trynova/nova-sub003/internal/value"
	"github.com/trynova/nova-sub003/internal/vm"
)

func newTestEngine(t *testing.T) *vm.Engine {
	t.Helper()
	return vm.NewEngine(config.AgentOptions{})
}

func yieldOneExecutable() *bytecode.Executable {
	b := bytecode.NewBuilder("")
	idx := b.ConstantIndex(value.SmallInt(1))
	b.EmitIndex(bytecode.OpLoadConstant, idx)
	b.Emit0(bytecode.OpYield)
	b.Emit0(bytecode.OpPop)
	b.Emit0(bytecode.OpLoadUndefined)
	b.Emit0(bytecode.OpReturn)
	return b.Finish()
}

func TestGeneratorYieldThenReturn(t *testing.T) {
	eng := newTestEngine(t)
	realm := eng.NewRealm()
	env := eng.Heap.Realms[realm].GlobalEnv

	g := New(eng, yieldOneExecutable(), env, value.Undefined(), value.Null())
	p := g.Next(value.Undefined())
	require.Equal(t, SuspendedYield, g.State())

	pd := eng.Heap.Promises[heap.Index(p.HeapIndexValue())]
	require.Equal(t, heap.PromiseFulfilled, pd.State)
	require.Equal(t, value.SmallInt(1), eng.Heap.GetProperty(pd.Result, heap.PropertyKey{Name: "value"}))
	require.Equal(t, value.Boolean(false), eng.Heap.GetProperty(pd.Result, heap.PropertyKey{Name: "done"}))

	p2 := g.Next(value.Undefined())
	require.Equal(t, Completed, g.State())
	pd2 := eng.Heap.Promises[heap.Index(p2.HeapIndexValue())]
	require.Equal(t, heap.PromiseFulfilled, pd2.State)
	require.Equal(t, value.Boolean(true), eng.Heap.GetProperty(pd2.Result, heap.PropertyKey{Name: "done"}))
}

func TestGeneratorReturnBeforeStartSettlesImmediately(t *testing.T) {
	eng := newTestEngine(t)
	realm := eng.NewRealm()
	env := eng.Heap.Realms[realm].GlobalEnv

	g := New(eng, yieldOneExecutable(), env, value.Undefined(), value.Null())
	p := g.Return(value.SmallInt(99))

	pd := eng.Heap.Promises[heap.Index(p.HeapIndexValue())]
	require.Equal(t, heap.PromiseFulfilled, pd.State)
	require.Equal(t, value.SmallInt(99), eng.Heap.GetProperty(pd.Result, heap.PropertyKey{Name: "value"}))
}

func TestFromSyncWrapsArrayIteration(t *testing.T) {
	eng := newTestEngine(t)
	arr := eng.Heap.NewArray(value.Null())
	eng.Heap.AppendElement(arr, value.SmallInt(7))

	f, err := NewFromSync(eng, arr)
	require.NoError(t, err)

	p := f.Next()
	pd := eng.Heap.Promises[heap.Index(p.HeapIndexValue())]
	require.Equal(t, heap.PromiseFulfilled, pd.State)
	require.Equal(t, value.SmallInt(7), eng.Heap.GetProperty(pd.Result, heap.PropertyKey{Name: "value"}))
	require.Equal(t, value.Boolean(false), eng.Heap.GetProperty(pd.Result, heap.PropertyKey{Name: "done"}))

	p2 := f.Next()
	pd2 := eng.Heap.Promises[heap.Index(p2.HeapIndexValue())]
	require.Equal(t, value.Boolean(true), eng.Heap.GetProperty(pd2.Result, heap.PropertyKey{Name: "done"}))
}
