package ops

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/trynova/nova-sub003/internal/heap"
	"github.com/trynova/nova-sub003/internal/value"
)

func noToPrimitive(v value.Value, _ PreferredType) (value.Value, error) { return v, nil }
func noStrToBigInt(string) ([]uint32, bool, bool)                       { return nil, false, false }

func TestSameValueDistinguishesPositiveAndNegativeZero(t *testing.T) {
	h := heap.New()
	require.True(t, SameValue(h, value.SmallInt(0), value.SmallInt(0)))
	require.False(t, SameValue(h, value.SmallFloat(0), value.SmallFloat(float32(math.Copysign(0, -1)))))
}

func TestSameValueTreatsNaNAsSameValueToItself(t *testing.T) {
	h := heap.New()
	nan := value.SmallFloat(float32(math.NaN()))
	require.True(t, SameValue(h, nan, nan))
}

func TestSameValueZeroTreatsSignedZerosAsEqual(t *testing.T) {
	h := heap.New()
	negZero := value.SmallFloat(float32(math.Copysign(0, -1)))
	require.True(t, SameValueZero(h, value.SmallInt(0), negZero))
}

func TestIsStrictlyEqualNeverMatchesNaN(t *testing.T) {
	h := heap.New()
	nan := value.SmallFloat(float32(math.NaN()))
	require.False(t, IsStrictlyEqual(h, nan, nan))
}

func TestIsStrictlyEqualComparesAcrossNumberTags(t *testing.T) {
	h := heap.New()
	require.True(t, IsStrictlyEqual(h, value.SmallInt(2), value.SmallFloat(2)))
}

func TestSameValueNonNumberComparesObjectsByIndex(t *testing.T) {
	h := heap.New()
	a := value.HeapIndex(value.TagOrdinaryObject, 1)
	b := value.HeapIndex(value.TagOrdinaryObject, 1)
	c := value.HeapIndex(value.TagOrdinaryObject, 2)
	require.True(t, SameValueNonNumber(h, a, b))
	require.False(t, SameValueNonNumber(h, a, c))
}

func TestIsLooselyEqualNullAndUndefinedMatchEachOther(t *testing.T) {
	h := heap.New()
	eq, err := IsLooselyEqual(h, value.Null(), value.Undefined(), noToPrimitive, noStrToBigInt)
	require.NoError(t, err)
	require.True(t, eq)
}

func TestIsLooselyEqualCoercesStringToNumber(t *testing.T) {
	h := heap.New()
	eq, err := IsLooselyEqual(h, value.SmallInt(1), value.SmallString("1"), noToPrimitive, noStrToBigInt)
	require.NoError(t, err)
	require.True(t, eq)
}

func TestIsLooselyEqualCoercesBooleanToNumber(t *testing.T) {
	h := heap.New()
	eq, err := IsLooselyEqual(h, value.Boolean(true), value.SmallInt(1), noToPrimitive, noStrToBigInt)
	require.NoError(t, err)
	require.True(t, eq)
}

func TestIsLessThanComparesStringsLexicographically(t *testing.T) {
	h := heap.New()
	result, err := IsLessThan(h, value.SmallString("a"), value.SmallString("b"), true, noToPrimitive, noStrToBigInt)
	require.NoError(t, err)
	require.Equal(t, value.Boolean(true), result)
}

func TestIsLessThanReturnsUndefinedForNaNComparison(t *testing.T) {
	h := heap.New()
	nan := value.SmallFloat(float32(math.NaN()))
	result, err := IsLessThan(h, nan, value.SmallInt(1), true, noToPrimitive, noStrToBigInt)
	require.NoError(t, err)
	require.True(t, result.IsUndefined())
}

func TestIsLessThanComparesNumbers(t *testing.T) {
	h := heap.New()
	result, err := IsLessThan(h, value.SmallInt(1), value.SmallInt(2), true, noToPrimitive, noStrToBigInt)
	require.NoError(t, err)
	require.Equal(t, value.Boolean(true), result)
}
