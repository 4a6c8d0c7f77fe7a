package value

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestZeroValueIsUndefined(t *testing.T) {
	var v Value
	require.True(t, v.IsUndefined())
	require.Equal(t, TagUndefined, v.Tag())
}

func TestSmallIntRoundTrips(t *testing.T) {
	v := SmallInt(-42)
	require.Equal(t, TagSmallInt, v.Tag())
	require.Equal(t, int64(-42), v.AsSmallInt())
	require.True(t, v.IsNumber())
	require.True(t, v.IsNumeric())
}

func TestSmallIntPanicsOutsideInlineRange(t *testing.T) {
	require.Panics(t, func() { SmallInt(smallIntMax + 1) })
	require.Panics(t, func() { SmallInt(smallIntMin - 1) })
}

func TestSmallFloatRoundTrips(t *testing.T) {
	v := SmallFloat(1.5)
	require.Equal(t, TagSmallFloat, v.Tag())
	require.Equal(t, float32(1.5), v.AsSmallFloat())
}

func TestSmallStringRoundTripsUpToSevenBytes(t *testing.T) {
	v := SmallString("abcdefg")
	require.Equal(t, TagSmallString, v.Tag())
	require.Equal(t, "abcdefg", v.AsSmallString())
	require.True(t, v.IsString())
}

func TestSmallStringPanicsPastSevenBytes(t *testing.T) {
	require.Panics(t, func() { SmallString("abcdefgh") })
}

func TestHeapIndexRoundTripsAndRejectsInlineTags(t *testing.T) {
	v := HeapIndex(TagOrdinaryObject, 7)
	require.Equal(t, TagOrdinaryObject, v.Tag())
	require.Equal(t, uint32(7), v.HeapIndexValue())
	require.True(t, v.IsObject())

	require.Panics(t, func() { HeapIndex(TagSmallInt, 0) })
}

func TestBooleanPredicate(t *testing.T) {
	require.True(t, Boolean(true).AsBoolean())
	require.False(t, Boolean(false).AsBoolean())
	require.True(t, Boolean(true).IsBoolean())
}

func TestIsFunctionCoversFunctionKindsOnly(t *testing.T) {
	require.True(t, HeapIndex(TagBuiltinFunction, 0).IsFunction())
	require.True(t, HeapIndex(TagECMAScriptFunction, 0).IsFunction())
	require.False(t, HeapIndex(TagOrdinaryObject, 0).IsFunction())
	require.False(t, Undefined().IsFunction())
}

func TestIsNullOrUndefined(t *testing.T) {
	require.True(t, Undefined().IsNullOrUndefined())
	require.True(t, Null().IsNullOrUndefined())
	require.False(t, SmallInt(0).IsNullOrUndefined())
}

func TestDebugStringForPrimitives(t *testing.T) {
	require.Equal(t, "undefined", Undefined().String())
	require.Equal(t, "null", Null().String())
	require.Equal(t, "true", Boolean(true).String())
	require.Equal(t, "42", SmallInt(42).String())
	require.Equal(t, "hi", SmallString("hi").String())
}

func TestDebugStringForHeapBackedNamesItsTag(t *testing.T) {
	s := HeapIndex(TagArray, 3).String()
	require.Equal(t, "Array(#3)", s)
}

func TestBitsIsStableAcrossEqualValues(t *testing.T) {
	a := SmallInt(99)
	b := SmallInt(99)
	require.Equal(t, a.Bits(), b.Bits())
}
