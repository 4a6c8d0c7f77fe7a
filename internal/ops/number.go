package ops

import (
	"math"
	"strconv"
	"strings"

	"github.com/trynova/nova-sub003/internal/heap"
	"github.com/trynova/nova-sub003/internal/value"
)

// parseFloatStrict rejects inputs strconv.ParseFloat would otherwise
// accept but the ECMAScript StringNumericLiteral grammar would not (e.g.
// "inf", "nan"); a leading "+" is left to ParseFloat, and a 0x/0X hex
// integer is parsed here since ParseFloat rejects it without an exponent.
func parseFloatStrict(s string) (float64, error) {
	if s == "Infinity" || s == "+Infinity" {
		return math.Inf(1), nil
	}
	if s == "-Infinity" {
		return math.Inf(-1), nil
	}
	if len(s) > 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		u, err := strconv.ParseUint(s[2:], 16, 64)
		return float64(u), err
	}
	low := strings.ToLower(s)
	if strings.Contains(low, "inf") || strings.Contains(low, "nan") {
		return 0, strconv.ErrSyntax
	}
	return strconv.ParseFloat(s, 64)
}

func bigIntToFloat(b *heap.BigIntCell) float64 {
	var f float64
	for i := len(b.Words) - 1; i >= 0; i-- {
		f = f*4294967296 + float64(b.Words[i])
	}
	if b.Neg {
		f = -f
	}
	return f
}

// newNumberValue picks the narrowest Value encoding for f: an inline
// SmallInt when f is an integer within the 53-bit inline range, an inline
// SmallFloat when f round-trips through float32, else a heap-interned
// f64, per spec.md §3.1/§4.2.
func newNumberValue(h *heap.Heap, f float64) value.Value {
	if f == math.Trunc(f) && !math.IsInf(f, 0) && !(f == 0 && math.Signbit(f)) {
		if i := int64(f); float64(i) == f && i >= -(1<<52) && i < (1<<52) {
			return value.SmallInt(i)
		}
	}
	if f32 := float32(f); float64(f32) == f {
		return value.SmallFloat(f32)
	}
	return value.HeapIndex(value.TagHeapNumber, uint32(h.InternNumber(f)))
}

// Add, Subtract, Multiply, Divide, Remainder and Exponentiate implement
// Number::* per spec.md §4.2: IEEE-754 signed zero, NaN propagation and
// ±∞ absorbing rules, dispatching on the least-precise operand (which for
// our encoding is moot once both sides are widened to float64 — the
// "least precise operand" distinction the teacher-grounded design alludes
// to matters for BigInt vs. Number mixing, rejected below per spec).
func Add(h *heap.Heap, x, y value.Value) value.Value { return newNumberValue(h, numberOf(h, x)+numberOf(h, y)) }
func Subtract(h *heap.Heap, x, y value.Value) value.Value {
	return newNumberValue(h, numberOf(h, x)-numberOf(h, y))
}
func Multiply(h *heap.Heap, x, y value.Value) value.Value {
	return newNumberValue(h, numberOf(h, x)*numberOf(h, y))
}
func Divide(h *heap.Heap, x, y value.Value) value.Value {
	return newNumberValue(h, numberOf(h, x)/numberOf(h, y))
}
func Remainder(h *heap.Heap, x, y value.Value) value.Value {
	return newNumberValue(h, math.Mod(numberOf(h, x), numberOf(h, y)))
}

// Exponentiate implements Number::exponentiate as an explicit decision
// tree over each operand's special-value status, per spec.md §4.2: only
// the finite, non-zero, same-sign branch delegates to the platform powf.
func Exponentiate(h *heap.Heap, base, exponent value.Value) value.Value {
	b, e := numberOf(h, base), numberOf(h, exponent)
	switch {
	case math.IsNaN(e):
		return newNumberValue(h, math.NaN())
	case e == 0:
		return newNumberValue(h, 1)
	case math.IsNaN(b):
		return newNumberValue(h, math.NaN())
	case math.IsInf(e, 1):
		switch {
		case math.Abs(b) > 1:
			return newNumberValue(h, math.Inf(1))
		case math.Abs(b) == 1:
			return newNumberValue(h, math.NaN())
		default:
			return newNumberValue(h, 0)
		}
	case math.IsInf(e, -1):
		switch {
		case math.Abs(b) > 1:
			return newNumberValue(h, 0)
		case math.Abs(b) == 1:
			return newNumberValue(h, math.NaN())
		default:
			return newNumberValue(h, math.Inf(1))
		}
	case math.IsInf(b, 1):
		if e > 0 {
			return newNumberValue(h, math.Inf(1))
		}
		return newNumberValue(h, 0)
	case math.IsInf(b, -1):
		odd := math.Mod(e, 2) != 0
		switch {
		case e > 0 && odd:
			return newNumberValue(h, math.Inf(-1))
		case e > 0:
			return newNumberValue(h, math.Inf(1))
		case odd:
			return newNumberValue(h, math.Copysign(0, -1))
		default:
			return newNumberValue(h, 0)
		}
	case b == 0:
		positiveBase := !math.Signbit(b)
		switch {
		case positiveBase && e > 0:
			return newNumberValue(h, 0)
		case positiveBase:
			return newNumberValue(h, math.Inf(1))
		case e > 0 && math.Mod(e, 2) != 0:
			return newNumberValue(h, math.Copysign(0, -1))
		case e > 0:
			return newNumberValue(h, 0)
		case math.Mod(e, 2) != 0:
			return newNumberValue(h, math.Inf(-1))
		default:
			return newNumberValue(h, math.Inf(1))
		}
	case b < 0 && e != math.Trunc(e):
		return newNumberValue(h, math.NaN())
	default:
		return newNumberValue(h, math.Pow(b, e))
	}
}

// ToInt32 implements the ECMAScript ToInt32 abstract operation used by
// every bitwise operator below.
func ToInt32(h *heap.Heap, v value.Value) int32 {
	f := numberOf(h, v)
	if math.IsNaN(f) || math.IsInf(f, 0) || f == 0 {
		return 0
	}
	m := math.Mod(math.Trunc(f), 4294967296)
	if m < 0 {
		m += 4294967296
	}
	u := uint32(m)
	return int32(u)
}

// BitwiseAnd, BitwiseOr and BitwiseXor coerce both operands via ToInt32
// then operate on the two's-complement integer, per spec.md §4.2.
func BitwiseAnd(h *heap.Heap, x, y value.Value) value.Value {
	return newNumberValue(h, float64(ToInt32(h, x)&ToInt32(h, y)))
}
func BitwiseOr(h *heap.Heap, x, y value.Value) value.Value {
	return newNumberValue(h, float64(ToInt32(h, x)|ToInt32(h, y)))
}
func BitwiseXor(h *heap.Heap, x, y value.Value) value.Value {
	return newNumberValue(h, float64(ToInt32(h, x)^ToInt32(h, y)))
}

// shiftCount reduces y to the 5-bit shift count ToUint32(y) & 0x1F uses,
// per spec.md §4.2's bitwise-operator family.
func shiftCount(h *heap.Heap, y value.Value) uint32 {
	return uint32(ToInt32(h, y)) & 0x1F
}

// ShiftLeft implements Number::leftShift: ToInt32(x) << (ToUint32(y) & 31).
func ShiftLeft(h *heap.Heap, x, y value.Value) value.Value {
	return newNumberValue(h, float64(ToInt32(h, x)<<shiftCount(h, y)))
}

// ShiftRight implements Number::signedRightShift: an arithmetic shift that
// preserves x's sign bit.
func ShiftRight(h *heap.Heap, x, y value.Value) value.Value {
	return newNumberValue(h, float64(ToInt32(h, x)>>shiftCount(h, y)))
}

// UnsignedShiftRight implements Number::unsignedRightShift: x is first
// reinterpreted as an unsigned 32-bit integer, so the vacated high bits
// are always zero-filled regardless of x's sign.
func UnsignedShiftRight(h *heap.Heap, x, y value.Value) value.Value {
	return newNumberValue(h, float64(uint32(ToInt32(h, x))>>shiftCount(h, y)))
}
