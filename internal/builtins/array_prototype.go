package builtins

import (
	"strings"

	"github.com/trynova/nova-sub003/internal/heap"
	"github.com/trynova/nova-sub003/internal/value"
	"github.com/trynova/nova-sub003/internal/vm"
)

// installArrayPrototype wires Array.prototype.push/pop/at/join, the worked
// examples of the builtin-function bridge named in SPEC_FULL.md §4.11,
// grounded on original_source/nova_vm's array_prototype.rs (its `join`
// walks LengthOfArrayLike/Get/ToString exactly as arrayJoin does here,
// minus the to-object coercion this engine's Array values never need).
func installArrayPrototype(h *heap.Heap, arrayProto, functionProto value.Value) {
	method(h, arrayProto, functionProto, "push", 1, arrayPush(h))
	method(h, arrayProto, functionProto, "pop", 0, arrayPop(h))
	method(h, arrayProto, functionProto, "at", 1, arrayAt(h))
	method(h, arrayProto, functionProto, "join", 1, arrayJoin(h))
}

func arrayData(h *heap.Heap, this value.Value) *heap.ArrayData {
	if this.Tag() != value.TagArray {
		return nil
	}
	return h.Arrays[heap.Index(this.HeapIndexValue())]
}

func typeErrorNotArray(method string) error {
	return &vm.ThrownError{Kind: "TypeError", Message: method + " called on a non-array value"}
}

// arrayPush appends every argument in order and returns the new length,
// collapsing the spec's ArraySetLength + CreateDataProperty loop onto the
// direct Elements/Length primitives internal/heap.AppendElement exposes.
func arrayPush(h *heap.Heap) heap.GoFunc {
	return func(args []value.Value, this value.Value) (value.Value, error) {
		ad := arrayData(h, this)
		if ad == nil {
			return value.Undefined(), typeErrorNotArray("push")
		}
		for _, v := range args {
			h.Elements.Set(&ad.Elements, ad.Length, v)
			ad.Length++
		}
		return value.SmallInt(int64(ad.Length)), nil
	}
}

// arrayPop removes and returns the last element, or undefined for an
// already-empty array, per Array.prototype.pop's spec steps 3-6.
func arrayPop(h *heap.Heap) heap.GoFunc {
	return func(_ []value.Value, this value.Value) (value.Value, error) {
		ad := arrayData(h, this)
		if ad == nil {
			return value.Undefined(), typeErrorNotArray("pop")
		}
		if ad.Length == 0 {
			return value.Undefined(), nil
		}
		last := ad.Length - 1
		v := h.Elements.Get(ad.Elements, last)
		h.Elements.Set(&ad.Elements, last, value.Empty())
		ad.Length = last
		if v.Tag() == value.TagEmpty {
			return value.Undefined(), nil
		}
		return v, nil
	}
}

// arrayAt resolves a possibly-negative index relative to length, per
// Array.prototype.at's spec steps (RelativeIndex: negative counts back
// from the end).
func arrayAt(h *heap.Heap) heap.GoFunc {
	return func(args []value.Value, this value.Value) (value.Value, error) {
		ad := arrayData(h, this)
		if ad == nil {
			return value.Undefined(), typeErrorNotArray("at")
		}
		n := indexArgument(arg(args, 0))
		if n < 0 {
			n += int64(ad.Length)
		}
		if n < 0 || n >= int64(ad.Length) {
			return value.Undefined(), nil
		}
		v := h.Elements.Get(ad.Elements, uint32(n))
		if v.Tag() == value.TagEmpty {
			return value.Undefined(), nil
		}
		return v, nil
	}
}

// arrayJoin concatenates every element's display string with sep (","
// when the argument is undefined), skipping null/undefined elements to
// the empty string exactly as Array.prototype.join's spec steps do.
func arrayJoin(h *heap.Heap) heap.GoFunc {
	return func(args []value.Value, this value.Value) (value.Value, error) {
		ad := arrayData(h, this)
		if ad == nil {
			return value.Undefined(), typeErrorNotArray("join")
		}
		sep := ","
		if s := arg(args, 0); !s.IsUndefined() {
			sep = displayString(h, s)
		}
		var b strings.Builder
		for i := uint32(0); i < ad.Length; i++ {
			if i > 0 {
				b.WriteString(sep)
			}
			v := h.Elements.Get(ad.Elements, i)
			if v.Tag() == value.TagEmpty || v.IsNullOrUndefined() {
				continue
			}
			b.WriteString(displayString(h, v))
		}
		return stringValue(h, b.String()), nil
	}
}

// indexArgument truncates a numeric argument to an int64 index, treating
// anything non-numeric as 0 — callers only need this for the small-integer
// Array index range, so ops.ToNumber's full coercion is out of scope here.
func indexArgument(v value.Value) int64 {
	switch v.Tag() {
	case value.TagSmallInt:
		return v.AsSmallInt()
	case value.TagSmallFloat:
		return int64(v.AsSmallFloat())
	default:
		return 0
	}
}

// displayString renders v as Array.prototype.join/Object.prototype
// methods need it: a heap or inline string's own bytes verbatim, anything
// else through Value's debug String() (ops.ToString does not exist yet in
// this engine, so this is the narrowest correct stand-in for the two
// callers that need it).
func displayString(h *heap.Heap, v value.Value) string {
	switch v.Tag() {
	case value.TagSmallString:
		return v.AsSmallString()
	case value.TagHeapString:
		return h.String(heap.Index(v.HeapIndexValue()))
	default:
		return v.String()
	}
}

// stringValue interns s as a heap string, or returns it inline when it
// fits in 7 bytes, per value.SmallString's own documented limit.
func stringValue(h *heap.Heap, s string) value.Value {
	if len(s) <= 7 {
		return value.SmallString(s)
	}
	return value.HeapIndex(value.TagHeapString, uint32(h.InternString(s)))
}
