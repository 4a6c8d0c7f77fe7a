package heap

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/trynova/nova-sub003/internal/value"
)

func TestInternNumberReusesCellForEqualValue(t *testing.T) {
	h := New()
	a := h.InternNumber(3.5)
	b := h.InternNumber(3.5)
	require.Equal(t, a, b)
	require.Equal(t, 3.5, h.Number(a))
}

func TestInternNumberDistinguishesPositiveAndNegativeZero(t *testing.T) {
	h := New()
	pos := h.InternNumber(0)
	neg := h.InternNumber(math.Copysign(0, -1))
	require.NotEqual(t, pos, neg)
	require.Equal(t, 0.0, h.Number(pos))
}

func TestNumberPanicsOnReclaimedCell(t *testing.T) {
	h := New()
	idx := h.InternNumber(1.0)
	h.Numbers[idx].Live = false
	require.Panics(t, func() { h.Number(idx) })
}

func TestNewOrdinaryObjectStartsWithNoOwnProperties(t *testing.T) {
	h := New()
	obj := h.NewOrdinaryObject(value.Null())
	require.Empty(t, h.OwnEnumerableKeys(obj))
}

func TestSetPropertyThenGetPropertyRoundTrips(t *testing.T) {
	h := New()
	obj := h.NewOrdinaryObject(value.Null())
	h.SetProperty(obj, PropertyKey{Name: "x"}, value.SmallInt(7))
	require.Equal(t, value.SmallInt(7), h.GetProperty(obj, PropertyKey{Name: "x"}))
}

func TestGetPropertyWalksPrototypeChain(t *testing.T) {
	h := New()
	proto := h.NewOrdinaryObject(value.Null())
	h.SetProperty(proto, PropertyKey{Name: "inherited"}, value.SmallInt(1))
	obj := h.NewOrdinaryObject(proto)
	require.Equal(t, value.SmallInt(1), h.GetProperty(obj, PropertyKey{Name: "inherited"}))
}

func TestGetPropertyOfUnknownKeyIsUndefined(t *testing.T) {
	h := New()
	obj := h.NewOrdinaryObject(value.Null())
	require.True(t, h.GetProperty(obj, PropertyKey{Name: "missing"}).IsUndefined())
}

func TestAppendElementGrowsArrayLengthAndContent(t *testing.T) {
	h := New()
	arr := h.NewArray(value.Null())
	h.AppendElement(arr, value.SmallInt(1))
	h.AppendElement(arr, value.SmallInt(2))

	require.Equal(t, value.SmallInt(2), h.GetProperty(arr, PropertyKey{Name: "length"}))
	require.Equal(t, value.SmallInt(1), h.GetProperty(arr, PropertyKey{Name: "0"}))
	require.Equal(t, value.SmallInt(2), h.GetProperty(arr, PropertyKey{Name: "1"}))
}

func TestSetPropertyOnArrayIndexExtendsLength(t *testing.T) {
	h := New()
	arr := h.NewArray(value.Null())
	h.SetProperty(arr, PropertyKey{Name: "2"}, value.SmallInt(9))
	require.Equal(t, value.SmallInt(3), h.GetProperty(arr, PropertyKey{Name: "length"}))
}

func TestOwnEnumerableKeysListsArrayIndicesThenProperties(t *testing.T) {
	h := New()
	arr := h.NewArray(value.Null())
	h.AppendElement(arr, value.SmallInt(1))
	h.SetProperty(arr, PropertyKey{Name: "extra"}, value.SmallInt(2))
	require.Equal(t, []string{"0", "extra"}, h.OwnEnumerableKeys(arr))
}

func TestCreateMutableBindingThenInitializeAndGet(t *testing.T) {
	h := New()
	env := h.NewDeclarativeEnvironment(NoEnv)
	h.CreateMutableBinding(env, "x")
	h.InitializeBinding(env, "x", value.SmallInt(5))

	v, ok, tdz := h.GetBindingValue(env, "x")
	require.True(t, ok)
	require.False(t, tdz)
	require.Equal(t, value.SmallInt(5), v)
}

func TestGetBindingValueReportsTDZBeforeInitialization(t *testing.T) {
	h := New()
	env := h.NewDeclarativeEnvironment(NoEnv)
	h.CreateImmutableBinding(env, "x", true)

	_, ok, tdz := h.GetBindingValue(env, "x")
	require.True(t, ok)
	require.True(t, tdz)
}

func TestGetBindingValueWalksOuterEnvironmentChain(t *testing.T) {
	h := New()
	outer := h.NewDeclarativeEnvironment(NoEnv)
	h.CreateMutableBinding(outer, "x")
	h.InitializeBinding(outer, "x", value.SmallInt(42))

	inner := h.NewDeclarativeEnvironment(outer)
	v, ok, _ := h.GetBindingValue(inner, "x")
	require.True(t, ok)
	require.Equal(t, value.SmallInt(42), v)
}

func TestSetMutableBindingFailsOnConstBinding(t *testing.T) {
	h := New()
	env := h.NewDeclarativeEnvironment(NoEnv)
	h.CreateImmutableBinding(env, "x", true)
	h.InitializeBinding(env, "x", value.SmallInt(1))

	ok, failIfConst := h.SetMutableBinding(env, "x", value.SmallInt(2))
	require.True(t, ok)
	require.True(t, failIfConst)
}

func TestSetMutableBindingReportsMissingBinding(t *testing.T) {
	h := New()
	env := h.NewDeclarativeEnvironment(NoEnv)
	ok, _ := h.SetMutableBinding(env, "missing", value.SmallInt(1))
	require.False(t, ok)
}

func TestResolveEnvForFindsDeclaringEnvironment(t *testing.T) {
	h := New()
	outer := h.NewDeclarativeEnvironment(NoEnv)
	h.CreateMutableBinding(outer, "x")
	inner := h.NewDeclarativeEnvironment(outer)

	found := h.ResolveEnvFor(inner, "x")
	require.Equal(t, outer, found)
}

func TestResolveEnvForReturnsNoEnvWhenUnbound(t *testing.T) {
	h := New()
	env := h.NewDeclarativeEnvironment(NoEnv)
	require.True(t, h.ResolveEnvFor(env, "nope").IsNone())
}
