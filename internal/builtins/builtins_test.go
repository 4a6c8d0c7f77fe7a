package builtins

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/trynova/nova-sub003/internal/config"
	"github.com/trynova/nova-sub003/internal/heap"
	"github.com/trynova/nova-sub003/internal/value"
	"github.com/trynova/nova-sub003/internal/vm"
)

func newTestRealm(t *testing.T) (*vm.Engine, heap.Index) {
	t.Helper()
	e := vm.NewEngine(config.NewAgentOptions())
	realm := e.Heap.NewRealm()
	e.Heap.Realms[realm].GlobalObject = e.Heap.NewOrdinaryObject(value.Null())
	Install(e.Heap, realm)
	return e, realm
}

func callMethod(e *vm.Engine, owner value.Value, name string, args ...value.Value) (value.Value, error) {
	fn := e.Heap.GetProperty(owner, heap.PropertyKey{Name: name})
	return e.CallFunction(fn, owner, args)
}

func TestInstallFillsEveryIntrinsicName(t *testing.T) {
	e, realm := newTestRealm(t)
	r := e.Heap.Realms[realm]
	for _, name := range IntrinsicNames {
		_, ok := r.Intrinsics[name]
		require.True(t, ok, "missing intrinsic %s", name)
	}
}

func TestArrayPushPopAtJoin(t *testing.T) {
	e, realm := newTestRealm(t)
	arrayProto := e.Heap.Realms[realm].Intrinsics["%Array.prototype%"]
	arr := e.Heap.NewArray(arrayProto)

	n, err := callMethod(e, arr, "push", value.SmallInt(1), value.SmallInt(2))
	require.NoError(t, err)
	require.Equal(t, value.SmallInt(2), n)

	at0, err := callMethod(e, arr, "at", value.SmallInt(0))
	require.NoError(t, err)
	require.Equal(t, value.SmallInt(1), at0)

	atLast, err := callMethod(e, arr, "at", value.SmallInt(-1))
	require.NoError(t, err)
	require.Equal(t, value.SmallInt(2), atLast)

	joined, err := callMethod(e, arr, "join")
	require.NoError(t, err)
	require.Equal(t, "1,2", joined.String())

	popped, err := callMethod(e, arr, "pop")
	require.NoError(t, err)
	require.Equal(t, value.SmallInt(2), popped)
}

func TestArrayAtOutOfRangeReturnsUndefined(t *testing.T) {
	e, realm := newTestRealm(t)
	arrayProto := e.Heap.Realms[realm].Intrinsics["%Array.prototype%"]
	arr := e.Heap.NewArray(arrayProto)

	v, err := callMethod(e, arr, "at", value.SmallInt(5))
	require.NoError(t, err)
	require.True(t, v.IsUndefined())
}

func TestArrayJoinSkipsNullAndUndefinedElements(t *testing.T) {
	e, realm := newTestRealm(t)
	arrayProto := e.Heap.Realms[realm].Intrinsics["%Array.prototype%"]
	arr := e.Heap.NewArray(arrayProto)
	_, err := callMethod(e, arr, "push", value.SmallInt(1), value.Null(), value.Undefined(), value.SmallInt(2))
	require.NoError(t, err)

	joined, err := callMethod(e, arr, "join", value.SmallString(";"))
	require.NoError(t, err)
	require.Equal(t, "1;;;2", joined.String())
}

func TestArrayMethodOnNonArrayThrowsTypeError(t *testing.T) {
	e, _ := newTestRealm(t)
	obj := e.Heap.NewOrdinaryObject(value.Null())

	_, err := callMethod(e, obj, "push", value.SmallInt(1))
	require.Error(t, err)
	thrown, ok := err.(*vm.ThrownError)
	require.True(t, ok)
	require.Equal(t, "TypeError", thrown.Kind)
}

func TestObjectHasOwnProperty(t *testing.T) {
	e, realm := newTestRealm(t)
	objectProto := e.Heap.Realms[realm].Intrinsics["%Object.prototype%"]
	obj := e.Heap.NewOrdinaryObject(objectProto)
	e.Heap.SetProperty(obj, heap.PropertyKey{Name: "a"}, value.SmallInt(1))

	has, err := callMethod(e, obj, "hasOwnProperty", value.SmallString("a"))
	require.NoError(t, err)
	require.Equal(t, value.Boolean(true), has)

	hasNot, err := callMethod(e, obj, "hasOwnProperty", value.SmallString("b"))
	require.NoError(t, err)
	require.Equal(t, value.Boolean(false), hasNot)
}

func TestObjectHasOwnPropertyOnArrayCoversIndexAndLength(t *testing.T) {
	e, realm := newTestRealm(t)
	arrayProto := e.Heap.Realms[realm].Intrinsics["%Array.prototype%"]
	arr := e.Heap.NewArray(arrayProto)
	_, err := callMethod(e, arr, "push", value.SmallInt(9))
	require.NoError(t, err)

	has0, err := callMethod(e, arr, "hasOwnProperty", value.SmallString("0"))
	require.NoError(t, err)
	require.Equal(t, value.Boolean(true), has0)

	has1, err := callMethod(e, arr, "hasOwnProperty", value.SmallString("1"))
	require.NoError(t, err)
	require.Equal(t, value.Boolean(false), has1)

	hasLength, err := callMethod(e, arr, "hasOwnProperty", value.SmallString("length"))
	require.NoError(t, err)
	require.Equal(t, value.Boolean(true), hasLength)
}

func TestTodoStubIntrinsicThrowsNamedTypeError(t *testing.T) {
	e, realm := newTestRealm(t)
	mathFn := e.Heap.Realms[realm].Intrinsics["%Math%"]

	_, err := e.CallFunction(mathFn, value.Undefined(), nil)
	require.Error(t, err)
	thrown, ok := err.(*vm.ThrownError)
	require.True(t, ok)
	require.Equal(t, "TypeError", thrown.Kind)
	require.Contains(t, thrown.Message, "%Math%")
}
