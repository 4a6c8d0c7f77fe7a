package ops

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/trynova/nova-sub003/internal/heap"
	"github.com/trynova/nova-sub003/internal/value"
)

func TestArithmeticOnSmallInts(t *testing.T) {
	h := heap.New()
	require.Equal(t, value.SmallInt(5), Add(h, value.SmallInt(2), value.SmallInt(3)))
	require.Equal(t, value.SmallInt(1), Subtract(h, value.SmallInt(3), value.SmallInt(2)))
	require.Equal(t, value.SmallInt(6), Multiply(h, value.SmallInt(2), value.SmallInt(3)))
	require.Equal(t, value.SmallInt(1), Remainder(h, value.SmallInt(7), value.SmallInt(2)))
}

func TestDivideByZeroProducesInfinity(t *testing.T) {
	h := heap.New()
	result := Divide(h, value.SmallInt(1), value.SmallInt(0))
	require.Equal(t, value.TagSmallFloat, result.Tag())
	require.True(t, math.IsInf(float64(result.AsSmallFloat()), 1))
}

func TestExponentiateZeroExponentIsOne(t *testing.T) {
	h := heap.New()
	require.Equal(t, value.SmallInt(1), Exponentiate(h, value.SmallInt(5), value.SmallInt(0)))
}

func TestExponentiateNaNExponentIsNaN(t *testing.T) {
	h := heap.New()
	result := Exponentiate(h, value.SmallInt(2), value.SmallFloat(float32(math.NaN())))
	require.True(t, math.IsNaN(numberOf(h, result)))
}

func TestExponentiateOfPositiveBase(t *testing.T) {
	h := heap.New()
	require.Equal(t, value.SmallInt(8), Exponentiate(h, value.SmallInt(2), value.SmallInt(3)))
}

func TestToInt32WrapsOutOfRangeFloats(t *testing.T) {
	h := heap.New()
	require.Equal(t, int32(0), ToInt32(h, value.SmallFloat(float32(math.NaN()))))
	require.Equal(t, int32(1), ToInt32(h, value.SmallInt(4294967297)))
}

func TestBitwiseOperators(t *testing.T) {
	h := heap.New()
	require.Equal(t, value.SmallInt(0b0110), BitwiseAnd(h, value.SmallInt(0b1110), value.SmallInt(0b0111)))
	require.Equal(t, value.SmallInt(0b1111), BitwiseOr(h, value.SmallInt(0b1010), value.SmallInt(0b0101)))
	require.Equal(t, value.SmallInt(0b1100), BitwiseXor(h, value.SmallInt(0b1010), value.SmallInt(0b0110)))
}

func TestShiftOperators(t *testing.T) {
	h := heap.New()
	require.Equal(t, value.SmallInt(4), ShiftLeft(h, value.SmallInt(1), value.SmallInt(2)))
	require.Equal(t, value.SmallInt(-2), ShiftRight(h, value.SmallInt(-4), value.SmallInt(1)))
	require.Equal(t, value.SmallInt(2147483646), UnsignedShiftRight(h, value.SmallInt(-4), value.SmallInt(1)))
}
