package builtins

import (
	"github.com/trynova/nova-sub003/internal/heap"
	"github.com/trynova/nova-sub003/internal/value"
)

// installObjectPrototype wires Object.prototype.hasOwnProperty, the other
// worked example named in SPEC_FULL.md §4.11, grounded on
// original_source/nova_vm's object_constructor.rs (HasOwnProperty calls
// ToPropertyKey then [[GetOwnProperty]]; this engine's own GetProperty/
// Properties-map split already separates array-index and named-key own
// properties the same way).
func installObjectPrototype(h *heap.Heap, objectProto, functionProto value.Value) {
	method(h, objectProto, functionProto, "hasOwnProperty", 1, objectHasOwnProperty(h))
}

func objectHasOwnProperty(h *heap.Heap) heap.GoFunc {
	return func(args []value.Value, this value.Value) (value.Value, error) {
		key := propertyKeyArgument(h, arg(args, 0))
		if this.Tag() == value.TagArray {
			ad := h.Arrays[heap.Index(this.HeapIndexValue())]
			if i, ok := arrayIndexName(key.Name); ok && !key.IsSymbol {
				return value.Boolean(i < ad.Length && h.Elements.Get(ad.Elements, i).Tag() != value.TagEmpty), nil
			}
			if key.Name == "length" && !key.IsSymbol {
				return value.Boolean(true), nil
			}
		}
		od := objectDataFor(h, this)
		if od == nil {
			return value.Boolean(false), nil
		}
		_, ok := od.Properties[key]
		return value.Boolean(ok), nil
	}
}

// objectDataFor mirrors internal/heap's own unexported objectDataOf dispatch
// (GetProperty/SetProperty's tag switch over Objects/Arrays/Errors/...);
// this package only needs the Properties-map read, not the full tag list,
// so it is limited to the kinds Install ever hands back as `this`.
func objectDataFor(h *heap.Heap, v value.Value) *heap.ObjectData {
	switch v.Tag() {
	case value.TagOrdinaryObject:
		return h.Objects[heap.Index(v.HeapIndexValue())]
	case value.TagArray:
		return &h.Arrays[heap.Index(v.HeapIndexValue())].ObjectData
	case value.TagError:
		return &h.Errors[heap.Index(v.HeapIndexValue())].ObjectData
	default:
		if v.IsFunction() {
			return &h.Functions[heap.Index(v.HeapIndexValue())].ObjectData
		}
		return nil
	}
}

// propertyKeyArgument converts a hasOwnProperty argument into the
// PropertyKey shape internal/heap's Properties map is keyed by, covering
// the string/small-int cases worth supporting for this worked example.
func propertyKeyArgument(h *heap.Heap, v value.Value) heap.PropertyKey {
	switch v.Tag() {
	case value.TagSymbol:
		return heap.PropertyKey{IsSymbol: true, Symbol: heap.Index(v.HeapIndexValue())}
	case value.TagSmallInt:
		return heap.PropertyKey{Name: smallIntDecimalString(v.AsSmallInt())}
	default:
		return heap.PropertyKey{Name: displayString(h, v)}
	}
}

func smallIntDecimalString(n int64) string {
	neg := n < 0
	if neg {
		n = -n
	}
	if n == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// arrayIndexName reports whether name is a canonical array index string,
// duplicating internal/heap's own unexported arrayIndex helper (it is not
// exported, and this package's only use of it is this one hasOwnProperty
// worked example).
func arrayIndexName(name string) (uint32, bool) {
	if name == "" {
		return 0, false
	}
	if name == "0" {
		return 0, true
	}
	if name[0] < '1' || name[0] > '9' {
		return 0, false
	}
	var n uint32
	for _, c := range name {
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + uint32(c-'0')
	}
	return n, true
}
