package heap

import "github.com/trynova/nova-sub003/internal/value"

// BigIntCell interns an arbitrary-precision integer. big.Int is avoided in
// the field type to keep this file import-light; internal/ops owns the
// math/big bridging for BigInt arithmetic.
type BigIntCell struct {
	Words []uint32 // little-endian magnitude
	Neg   bool
	Live  bool
}

func (h *Heap) BigIntData(idx Index) *BigIntCell {
	return h.BigInts[idx]
}

// StringCell interns a UTF-8 string longer than the 7-byte inline limit.
type StringCell struct {
	Data string
	Live bool
}

func (h *Heap) String(idx Index) string {
	return h.Strings[idx].Data
}

// InternString returns the index of an existing live cell holding s, or
// allocates a new one, matching NumberCell's interning discipline.
func (h *Heap) InternString(s string) Index {
	for i, c := range h.Strings {
		if c != nil && c.Live && c.Data == s {
			return Index(i)
		}
	}
	if n := len(h.freeStrings); n > 0 {
		idx := h.freeStrings[n-1]
		h.freeStrings = h.freeStrings[:n-1]
		h.Strings[idx] = &StringCell{Data: s, Live: true}
		return idx
	}
	h.Strings = append(h.Strings, &StringCell{Data: s, Live: true})
	return Index(len(h.Strings) - 1)
}

// SymbolCell is never interned: two Symbol() calls with the same
// description produce distinct heap cells, by ECMAScript definition.
type SymbolCell struct {
	Description string
	HasDesc     bool
	Live        bool
}

// PropertyKey is either a string, a symbol index, or an array index.
type PropertyKey struct {
	IsSymbol bool
	Symbol   Index
	Name     string
}

// PropertyDescriptor is a data or accessor property slot. Exactly one of
// (Value) or (Get, Set) is meaningful, discriminated by IsAccessor.
type PropertyDescriptor struct {
	IsAccessor           bool
	Value                value.Value
	Get, Set             value.Value
	Writable, Enumerable bool
	Configurable         bool
}

// ObjectData is the shared shape backing OrdinaryObject and every exotic
// object variant that doesn't need extra slots of its own (Map/Set/etc.
// embed this as their first field instead of duplicating it).
type ObjectData struct {
	Prototype  value.Value // Null or an Object-tagged Value
	Extensible bool
	Properties map[PropertyKey]*PropertyDescriptor
	Keys       []PropertyKey // insertion order, per OrdinaryOwnPropertyKeys
	Elements   ElementsVector
	Live       bool
}

func NewObjectData(proto value.Value) *ObjectData {
	return &ObjectData{
		Prototype:  proto,
		Extensible: true,
		Properties: make(map[PropertyKey]*PropertyDescriptor),
		Live:       true,
	}
}

// ArrayData is an ObjectData plus the magic "length" accounting; the
// array's indexed elements still live in the shared Elements store.
type ArrayData struct {
	ObjectData
	Length uint32
}

// ErrorData carries the message/stack slots on top of the ordinary object
// shape used by every Error subclass (TypeError, RangeError, ...).
type ErrorData struct {
	ObjectData
	Kind    string // "Error", "TypeError", "RangeError", "ReferenceError", "SyntaxError", "URIError"
	Message string
	Stack   []StackFrame
}

// StackFrame names one execution-context-stack entry captured at throw
// time, per spec.md §7 "a thrown exception with a stack trace built from
// the execution-context stack at throw time".
type StackFrame struct {
	FunctionName string
	IsScript     bool
}

// PromiseState is the three-state ECMAScript Promise state machine.
type PromiseState int

const (
	PromisePending PromiseState = iota
	PromiseFulfilled
	PromiseRejected
)

type PromiseReaction struct {
	Capability    int // index into an owning agent-level capability table; -1 if none
	OnFulfilled   value.Value
	OnRejected    value.Value
}

type PromiseData struct {
	ObjectData
	State             PromiseState
	Result            value.Value
	FulfillReactions  []PromiseReaction
	RejectReactions   []PromiseReaction
	AlreadyResolved   bool
	IsHandled         bool
}

type MapData struct {
	ObjectData
	KeyOrder []value.Value
	Entries  map[mapKey]value.Value
}

type SetData struct {
	ObjectData
	Order   []value.Value
	Members map[mapKey]struct{}
}

// mapKey is a comparable projection of value.Value suitable for Go map
// keys; SameValueZero equality is what ECMAScript Map/Set use, which for
// our tagged encoding coincides with struct equality except for the -0/+0
// case, normalized in internal/ops before insertion.
type mapKey struct {
	Tag   value.Tag
	Bits  uint64
	Small string
}
