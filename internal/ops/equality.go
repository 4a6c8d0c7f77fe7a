package ops

import (
	"math"
	"strings"

	"github.com/trynova/nova-sub003/internal/heap"
	"github.com/trynova/nova-sub003/internal/value"
)

// PreferredType steers ToPrimitive's valueOf/toString ordering.
type PreferredType int

const (
	PreferredDefault PreferredType = iota
	PreferredNumber
	PreferredString
)

// ToPrimitiveFunc performs the ECMAScript ToPrimitive abstract operation.
// It may invoke user code ([Symbol.toPrimitive], valueOf, toString), so it
// is supplied by the VM (internal/vm) rather than implemented here —
// ops stays decoupled from the execution engine, the same separation
// spec.md draws between §4.1 (abstract operations) and §4.5 (the VM that
// drives them).
type ToPrimitiveFunc func(v value.Value, preferred PreferredType) (value.Value, error)

// StringToBigIntFunc parses s as the StringToBigInt grammar, returning
// ok=false for "undefined result" per spec.md §4.1.
type StringToBigIntFunc func(s string) (words []uint32, neg bool, ok bool)

// IsLooselyEqual implements ECMAScript `==`.
func IsLooselyEqual(h *heap.Heap, x, y value.Value, toPrimitive ToPrimitiveFunc, strToBigInt StringToBigIntFunc) (bool, error) {
	if x.Tag() == y.Tag() || (x.IsNumber() && y.IsNumber()) {
		return IsStrictlyEqual(h, x, y), nil
	}
	if x.IsNullOrUndefined() && y.IsNullOrUndefined() {
		return true, nil
	}
	if x.IsNullOrUndefined() || y.IsNullOrUndefined() {
		return false, nil
	}
	if x.IsNumber() && y.IsString() {
		yn, ok := stringToNumber(h, y, strToBigInt)
		if !ok {
			return false, nil
		}
		return numberOf(h, x) == yn, nil
	}
	if x.IsString() && y.IsNumber() {
		return IsLooselyEqual(h, y, x, toPrimitive, strToBigInt)
	}
	if x.IsBigInt() && y.IsString() {
		words, neg, ok := strToBigInt(stringOf(h, y))
		if !ok {
			return false, nil
		}
		bx := h.BigIntData(heap.Index(x.HeapIndexValue()))
		return bigIntWordsEqual(bx.Words, bx.Neg, words, neg), nil
	}
	if x.IsString() && y.IsBigInt() {
		return IsLooselyEqual(h, y, x, toPrimitive, strToBigInt)
	}
	if x.IsBoolean() {
		return IsLooselyEqual(h, numberFromBool(x), y, toPrimitive, strToBigInt)
	}
	if y.IsBoolean() {
		return IsLooselyEqual(h, x, numberFromBool(y), toPrimitive, strToBigInt)
	}
	if (x.IsNumber() || x.IsString() || x.IsBigInt() || x.IsSymbol()) && y.IsObject() {
		py, err := toPrimitive(y, PreferredDefault)
		if err != nil {
			return false, err
		}
		return IsLooselyEqual(h, x, py, toPrimitive, strToBigInt)
	}
	if x.IsObject() && (y.IsNumber() || y.IsString() || y.IsBigInt() || y.IsSymbol()) {
		return IsLooselyEqual(h, y, x, toPrimitive, strToBigInt)
	}
	if x.IsBigInt() && y.IsNumber() {
		return bigIntEqualsNumber(h, x, y), nil
	}
	if x.IsNumber() && y.IsBigInt() {
		return bigIntEqualsNumber(h, y, x), nil
	}
	return false, nil
}

func numberFromBool(v value.Value) value.Value {
	if v.AsBoolean() {
		return value.SmallInt(1)
	}
	return value.SmallInt(0)
}

func stringOf(h *heap.Heap, v value.Value) string {
	if v.Tag() == value.TagSmallString {
		return v.AsSmallString()
	}
	return h.String(heap.Index(v.HeapIndexValue()))
}

func stringToNumber(h *heap.Heap, v value.Value, _ StringToBigIntFunc) (float64, bool) {
	s := strings.TrimSpace(stringOf(h, v))
	if s == "" {
		return 0, true
	}
	f, err := parseFloatStrict(s)
	if err != nil {
		return 0, false
	}
	return f, true
}

func bigIntWordsEqual(aw []uint32, aneg bool, bw []uint32, bneg bool) bool {
	if aneg != bneg || len(aw) != len(bw) {
		return false
	}
	for i := range aw {
		if aw[i] != bw[i] {
			return false
		}
	}
	return true
}

func bigIntEqualsNumber(h *heap.Heap, bi, num value.Value) bool {
	n := numberOf(h, num)
	if math.IsNaN(n) || math.IsInf(n, 0) || n != math.Trunc(n) {
		return false
	}
	// The BigInt is converted with bigIntToFloat (number.go) and compared
	// as a float64; there is no arbitrary-precision path, so a BigInt
	// beyond 2^53 compares at float64 precision.
	b := h.BigIntData(heap.Index(bi.HeapIndexValue()))
	return bigIntToFloat(b) == n
}

// IsLessThan implements the ECMAScript IsLessThan abstract operation.
// leftFirst controls evaluation order of the ToPrimitive calls, matching
// spec.md §4.1's "parameterised by a left-first flag".
func IsLessThan(h *heap.Heap, x, y value.Value, leftFirst bool, toPrimitive ToPrimitiveFunc, strToBigInt StringToBigIntFunc) (result value.Value, err error) {
	var px, py value.Value
	if leftFirst {
		if px, err = toPrimitive(x, PreferredNumber); err != nil {
			return value.Value{}, err
		}
		if py, err = toPrimitive(y, PreferredNumber); err != nil {
			return value.Value{}, err
		}
	} else {
		if py, err = toPrimitive(y, PreferredNumber); err != nil {
			return value.Value{}, err
		}
		if px, err = toPrimitive(x, PreferredNumber); err != nil {
			return value.Value{}, err
		}
	}
	if px.IsString() && py.IsString() {
		return value.Boolean(stringOf(h, px) < stringOf(h, py)), nil
	}
	if px.IsBigInt() && py.IsString() {
		words, neg, ok := strToBigInt(stringOf(h, py))
		if !ok {
			return value.Undefined(), nil
		}
		bx := h.BigIntData(heap.Index(px.HeapIndexValue()))
		return value.Boolean(bigIntWordsLess(bx.Words, bx.Neg, words, neg)), nil
	}
	if px.IsString() && py.IsBigInt() {
		words, neg, ok := strToBigInt(stringOf(h, px))
		if !ok {
			return value.Undefined(), nil
		}
		by := h.BigIntData(heap.Index(py.HeapIndexValue()))
		return value.Boolean(bigIntWordsLess(words, neg, by.Words, by.Neg)), nil
	}
	// Numeric comparison: coerce both to Number/BigInt.
	nx, okx := toNumericFloat(h, px)
	ny, oky := toNumericFloat(h, py)
	if !okx || !oky {
		return value.Undefined(), nil
	}
	if math.IsNaN(nx) || math.IsNaN(ny) {
		return value.Undefined(), nil
	}
	return value.Boolean(nx < ny), nil
}

func toNumericFloat(h *heap.Heap, v value.Value) (float64, bool) {
	switch {
	case v.IsNumber():
		return numberOf(h, v), true
	case v.IsBigInt():
		return bigIntToFloat(h.BigIntData(heap.Index(v.HeapIndexValue()))), true
	case v.Tag() == value.TagBoolean:
		if v.AsBoolean() {
			return 1, true
		}
		return 0, true
	case v.IsString():
		f, err := parseFloatStrict(strings.TrimSpace(stringOf(h, v)))
		if err != nil {
			return math.NaN(), true
		}
		return f, true
	default:
		return 0, false
	}
}

func bigIntWordsLess(aw []uint32, aneg bool, bw []uint32, bneg bool) bool {
	if aneg != bneg {
		return aneg
	}
	magLess := magnitudeLess(aw, bw)
	if aneg {
		return !magLess && !bigIntWordsEqual(aw, aneg, bw, bneg)
	}
	return magLess
}

func magnitudeLess(aw, bw []uint32) bool {
	if len(aw) != len(bw) {
		return len(aw) < len(bw)
	}
	for i := len(aw) - 1; i >= 0; i-- {
		if aw[i] != bw[i] {
			return aw[i] < bw[i]
		}
	}
	return false
}
