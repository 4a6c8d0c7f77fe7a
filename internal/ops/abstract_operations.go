// Package ops implements the ECMAScript abstract operations named in
// spec.md §4.1/§1.5/§4.2 that glue Value, Heap and the VM together:
// SameValue, IsLooselyEqual, IsLessThan, Number arithmetic, BitwiseOp and
// Contains/ComputedPropertyContains.
//
// Grounded on spec.md §4.1/§4.2 verbatim, cross-checked against
// original_source/nova_vm/.../testing_and_comparison.rs and
// original_source/nova_vm/.../number.rs for the exact NaN/±0/±Infinity
// edge-case ordering per the instruction to resolve ambiguity from
// original_source when present.
package ops

import (
	"math"

	"github.com/trynova/nova-sub003/internal/heap"
	"github.com/trynova/nova-sub003/internal/value"
)

// numberOf returns the float64 view of any Number-tagged Value, reading
// through the heap for HeapNumber.
func numberOf(h *heap.Heap, v value.Value) float64 {
	switch v.Tag() {
	case value.TagSmallInt:
		return float64(v.AsSmallInt())
	case value.TagSmallFloat:
		return float64(v.AsSmallFloat())
	case value.TagHeapNumber:
		return h.Number(heap.Index(v.HeapIndexValue()))
	default:
		panic("ops: numberOf on non-Number value")
	}
}

// SameValueNonNumber implements the ECMAScript SameValueNonNumber
// operation: operands must not be Number-tagged.
func SameValueNonNumber(h *heap.Heap, x, y value.Value) bool {
	if x.Tag() != y.Tag() {
		return false
	}
	switch x.Tag() {
	case value.TagUndefined, value.TagNull:
		return true
	case value.TagBoolean:
		return x.AsBoolean() == y.AsBoolean()
	case value.TagSmallString:
		return x.AsSmallString() == y.AsSmallString()
	case value.TagHeapString:
		// Strings are interned at creation (spec.md §3.1): identical index
		// implies identical contents, but compare indices directly first
		// since that is the common case and avoids a heap read.
		if x.HeapIndexValue() == y.HeapIndexValue() {
			return true
		}
		return h.String(heap.Index(x.HeapIndexValue())) == h.String(heap.Index(y.HeapIndexValue()))
	case value.TagHeapBigInt:
		return x.HeapIndexValue() == y.HeapIndexValue() || bigIntEqual(h, x, y)
	default:
		// Every object/heap-identity variant: identity is pointer identity
		// on the typed index, per spec.md §3.1.
		return x.HeapIndexValue() == y.HeapIndexValue()
	}
}

// SameValue implements the ECMAScript SameValue operation, the `===`-like
// comparison used by Object.is: unlike IsStrictlyEqual, NaN is SameValue
// to itself and +0 is not SameValue to -0.
func SameValue(h *heap.Heap, x, y value.Value) bool {
	if x.IsNumber() && y.IsNumber() {
		a, b := numberOf(h, x), numberOf(h, y)
		if math.IsNaN(a) && math.IsNaN(b) {
			return true
		}
		if a != b {
			return false
		}
		// a == b and neither is NaN here; distinguish +0 from -0.
		return math.Signbit(a) == math.Signbit(b)
	}
	if x.IsNumber() != y.IsNumber() {
		return false
	}
	return SameValueNonNumber(h, x, y)
}

// SameValueZero is SameValue except +0 and -0 compare equal; used by Map,
// Set and Array.prototype.includes.
func SameValueZero(h *heap.Heap, x, y value.Value) bool {
	if x.IsNumber() && y.IsNumber() {
		a, b := numberOf(h, x), numberOf(h, y)
		if math.IsNaN(a) && math.IsNaN(b) {
			return true
		}
		return a == b
	}
	if x.IsNumber() != y.IsNumber() {
		return false
	}
	return SameValueNonNumber(h, x, y)
}

// IsStrictlyEqual implements `===`: like SameValue on non-numbers, but
// NaN is never strictly equal to anything (including itself) and +0 ===
// -0.
func IsStrictlyEqual(h *heap.Heap, x, y value.Value) bool {
	if x.Tag() != y.Tag() {
		if x.IsNumber() && y.IsNumber() {
			return numberOf(h, x) == numberOf(h, y)
		}
		return false
	}
	if x.IsNumber() {
		return numberOf(h, x) == numberOf(h, y)
	}
	return SameValueNonNumber(h, x, y)
}

func bigIntEqual(h *heap.Heap, x, y value.Value) bool {
	bx := h.BigIntData(heap.Index(x.HeapIndexValue()))
	by := h.BigIntData(heap.Index(y.HeapIndexValue()))
	if bx.Neg != by.Neg || len(bx.Words) != len(by.Words) {
		return false
	}
	for i := range bx.Words {
		if bx.Words[i] != by.Words[i] {
			return false
		}
	}
	return true
}
