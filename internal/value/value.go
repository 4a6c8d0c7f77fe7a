// Package value defines the tagged Value encoding shared by every other
// package in this module. A Value is a small struct carrying a one-byte
// tag and a 64-bit payload; heap-backed variants store a typed index into
// the corresponding internal/heap vector in the payload, inline variants
// store the value itself.
//
// There is no ecosystem library in the retrieved corpus for tagged-pointer
// or NaN-boxing encodings (the teacher encodes its own WebAssembly
// ValueType/ExternType as plain byte constants, see api/wasm.go), so this
// package is standard-library only by necessity, not by omission.
package value

import "fmt"

// Tag identifies which Value variant a payload holds. The zero Tag is
// TagUndefined so a zero-valued Value is the ECMAScript undefined value.
type Tag byte

const (
	TagUndefined Tag = iota
	TagNull
	TagBoolean
	TagSmallInt    // 53-bit signed integer, inline
	TagSmallFloat  // float32 that round-trips through float64, inline
	TagSmallString // up to 7 bytes of UTF-8, inline
	TagEmpty       // internal "no value" sentinel distinct from undefined

	// Heap-backed primitives, interned at creation (see internal/heap).
	TagHeapNumber
	TagHeapBigInt
	TagHeapString
	TagSymbol

	// Heap-backed objects.
	TagOrdinaryObject
	TagArray
	TagError
	TagPromise
	TagMap
	TagSet
	TagRegExp
	TagDate
	TagArrayBuffer
	TagDataView
	TagTypedArrayInt8
	TagTypedArrayUint8
	TagTypedArrayUint8Clamped
	TagTypedArrayInt16
	TagTypedArrayUint16
	TagTypedArrayInt32
	TagTypedArrayUint32
	TagTypedArrayFloat32
	TagTypedArrayFloat64
	TagTypedArrayBigInt64
	TagTypedArrayBigUint64
	TagWeakMap
	TagWeakRef
	TagWeakSet
	TagModuleNamespace
	TagProxy
	TagFinalizationRegistry

	// Iterator kinds (one per well-known iterated collection).
	TagArrayIterator
	TagStringIterator
	TagMapIterator
	TagSetIterator
	TagRegExpStringIterator
	TagAsyncFromSyncIterator
	TagAsyncGenerator
	TagGeneratorIterator
	TagModuleNamespaceIterator

	// Function kinds.
	TagBoundFunction
	TagBuiltinFunction
	TagBuiltinConstructorFunction
	TagECMAScriptFunction
	TagBuiltinPromiseResolvingFunction
	TagBuiltinPromiseCollectorFunction
	TagBuiltinProxyRevokerFunction
	TagBuiltinGeneratorFunction

	tagCount
)

// smallIntBits is the width of an inline integer: narrower than IEEE-754's
// 64-bit mantissa so the tag byte fits alongside it per spec.md §3.1.
const smallIntBits = 53

const (
	smallIntMin = -(int64(1) << (smallIntBits - 1))
	smallIntMax = (int64(1) << (smallIntBits - 1)) - 1
)

// Value is the polymorphic ECMAScript value. It is always passed by value;
// the zero Value is undefined.
type Value struct {
	tag Tag
	// payload holds an inline small integer/float bit pattern, an inline
	// small string's byte count (its bytes live in smallStr), a boolean, or a heap.Index for any
	// heap-backed variant. See payload accessors below for decoding rules.
	payload uint64
	// smallStr holds up to 7 bytes of inline UTF-8 when tag == TagSmallString;
	// payload's low byte is then the byte length.
	smallStr [7]byte
}

// Tag reports which variant v holds.
func (v Value) Tag() Tag { return v.tag }

func Undefined() Value { return Value{tag: TagUndefined} }
func Null() Value       { return Value{tag: TagNull} }
func Empty() Value      { return Value{tag: TagEmpty} }

func Boolean(b bool) Value {
	var p uint64
	if b {
		p = 1
	}
	return Value{tag: TagBoolean, payload: p}
}

// SmallInt constructs an inline integer Value. It panics if n does not fit
// in the 53-bit inline range; callers (internal/ops number conversions) are
// expected to route out-of-range integers through HeapNumber instead.
func SmallInt(n int64) Value {
	if n < smallIntMin || n > smallIntMax {
		panic(fmt.Sprintf("value: %d does not fit in a small integer", n))
	}
	return Value{tag: TagSmallInt, payload: uint64(n)}
}

// SmallFloat constructs an inline float32 Value. Callers must have already
// checked that f round-trips through float64 losslessly (ToNumber never
// needs to distinguish the two at this width).
func SmallFloat(f float32) Value {
	return Value{tag: TagSmallFloat, payload: uint64(f32bits(f))}
}

// SmallString constructs an inline UTF-8 string Value of at most 7 bytes.
// Longer strings must be interned on the heap (see internal/heap.Strings).
func SmallString(s string) Value {
	if len(s) > 7 {
		panic("value: string too long for inline encoding")
	}
	var v Value
	v.tag = TagSmallString
	v.payload = uint64(len(s))
	copy(v.smallStr[:], s)
	return v
}

// HeapIndex constructs a heap-backed Value of the given tag carrying idx as
// its typed index into the corresponding internal/heap vector. tag must be
// one of the heap-backed variants (anything from TagHeapNumber onward).
func HeapIndex(tag Tag, idx uint32) Value {
	if tag < TagHeapNumber || tag >= tagCount {
		panic("value: HeapIndex requires a heap-backed tag")
	}
	return Value{tag: tag, payload: uint64(idx)}
}

// AsBoolean returns the inline boolean payload. Callers must check Tag()
// first; this is a total function only for TagBoolean values.
func (v Value) AsBoolean() bool { return v.payload != 0 }

// AsSmallInt returns the inline 53-bit integer payload sign-extended to
// int64.
func (v Value) AsSmallInt() int64 {
	// payload was stored from an int64 in [smallIntMin, smallIntMax]; sign
	// bit lives at bit smallIntBits-1 of that range's encoding, but since we
	// stored the literal int64 bit pattern, a straight cast recovers it.
	return int64(v.payload)
}

// AsSmallFloat returns the inline float32 payload.
func (v Value) AsSmallFloat() float32 { return f32frombits(uint32(v.payload)) }

// AsSmallString returns the inline string payload.
func (v Value) AsSmallString() string {
	n := int(v.payload & 0x7)
	return string(v.smallStr[:n])
}

// HeapIndexValue returns the typed heap index payload. Callers must check that
// Tag() is heap-backed first.
func (v Value) HeapIndexValue() uint32 { return uint32(v.payload) }

// Bits returns the raw 64-bit payload regardless of tag, for callers (Map/Set
// key hashing in internal/heap, internal/ops equality) that need a stable
// comparable projection rather than a typed accessor.
func (v Value) Bits() uint64 { return v.payload }

func (v Value) IsUndefined() bool { return v.tag == TagUndefined }
func (v Value) IsNull() bool      { return v.tag == TagNull }
func (v Value) IsNullOrUndefined() bool {
	return v.tag == TagUndefined || v.tag == TagNull
}
func (v Value) IsBoolean() bool { return v.tag == TagBoolean }
func (v Value) IsNumber() bool {
	return v.tag == TagSmallInt || v.tag == TagSmallFloat || v.tag == TagHeapNumber
}
func (v Value) IsBigInt() bool  { return v.tag == TagHeapBigInt }
func (v Value) IsNumeric() bool { return v.IsNumber() || v.IsBigInt() }
func (v Value) IsString() bool {
	return v.tag == TagSmallString || v.tag == TagHeapString
}
func (v Value) IsSymbol() bool { return v.tag == TagSymbol }
func (v Value) IsObject() bool { return v.tag >= TagOrdinaryObject }
func (v Value) IsFunction() bool {
	return v.tag >= TagBoundFunction && v.tag < tagCount
}
func (v Value) IsCallable() bool { return v.IsFunction() }

// String renders a debug form; it is not the ECMAScript ToString operation
// (see internal/ops.ToString for that).
func (v Value) String() string {
	switch v.tag {
	case TagUndefined:
		return "undefined"
	case TagNull:
		return "null"
	case TagEmpty:
		return "<empty>"
	case TagBoolean:
		return fmt.Sprintf("%t", v.AsBoolean())
	case TagSmallInt:
		return fmt.Sprintf("%d", v.AsSmallInt())
	case TagSmallFloat:
		return fmt.Sprintf("%g", v.AsSmallFloat())
	case TagSmallString:
		return v.AsSmallString()
	default:
		return fmt.Sprintf("%s(#%d)", tagName(v.tag), v.HeapIndexValue())
	}
}

func tagName(t Tag) string {
	if int(t) < len(tagNames) {
		return tagNames[t]
	}
	return fmt.Sprintf("Tag(%d)", t)
}

var tagNames = [...]string{
	TagUndefined: "Undefined", TagNull: "Null", TagBoolean: "Boolean",
	TagSmallInt: "SmallInt", TagSmallFloat: "SmallFloat", TagSmallString: "SmallString",
	TagEmpty: "Empty", TagHeapNumber: "HeapNumber", TagHeapBigInt: "HeapBigInt",
	TagHeapString: "HeapString", TagSymbol: "Symbol", TagOrdinaryObject: "OrdinaryObject",
	TagArray: "Array", TagError: "Error", TagPromise: "Promise", TagMap: "Map", TagSet: "Set",
	TagRegExp: "RegExp", TagDate: "Date", TagArrayBuffer: "ArrayBuffer", TagDataView: "DataView",
	TagModuleNamespace: "ModuleNamespace", TagProxy: "Proxy",
	TagFinalizationRegistry: "FinalizationRegistry", TagBoundFunction: "BoundFunction",
	TagBuiltinFunction: "BuiltinFunction", TagECMAScriptFunction: "ECMAScriptFunction",
}
