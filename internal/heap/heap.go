// Package heap implements the struct-of-arrays object heap described in
// spec.md §3.2: one densely packed vector per object kind, indexed by a
// typed 32-bit index, with no pointer identity crossing kind boundaries.
//
// Grounded on tetratelabs-wazero's internal/wasm.Store shape (a store
// holding one map/slice per kind of thing — module instances, host
// function call contexts, types — looked up by an opaque handle rather
// than a pointer; see internal/wasm/store_test.go's NewStore/ModuleInstances).
package heap

import "fmt"

// Index is a typed 32-bit index into one of the heap's per-kind vectors.
// It carries no type information at the Go level (unlike value.Value's
// Tag byte) because each vector field below is already monomorphic.
type Index uint32

// Heap owns every per-kind vector. A slot holding nil/zero-value is a
// sweep-reclaimed entry that compaction may remove on the next GC cycle;
// see internal/gc for the mark/compact/sweep passes that operate on it.
type Heap struct {
	Numbers  []*NumberCell
	BigInts  []*BigIntCell
	Strings  []*StringCell
	Symbols  []*SymbolCell
	Objects  []*ObjectData
	Arrays   []*ArrayData
	Errors   []*ErrorData
	Promises []*PromiseData
	Maps     []*MapData
	Sets     []*SetData

	Functions []*FunctionData

	Iterators []*IteratorData

	ArrayBuffers []*ArrayBufferData
	DataViews    []*DataViewData

	Elements    Elements
	Environments Environments
	Realms      []*Realm
	Scripts     []*Script
	Modules     []*Module

	ModuleRequests *ModuleRequestTable

	// freeLists track reclaimed slots per vector so allocation can reuse a
	// hole before growing the backing slice; the GC compaction pass clears
	// these after it physically removes the holes.
	freeNumbers  []Index
	freeBigInts  []Index
	freeStrings  []Index
	freeObjects  []Index
	freeArrays   []Index
	freeErrors   []Index
	freeFunctions []Index
}

// New returns an empty heap with its module-request interning table ready.
func New() *Heap {
	return &Heap{
		ModuleRequests: newModuleRequestTable(),
		Elements:       newElements(),
	}
}

// NumberCell is the interned storage for a heap-allocated f64. Interning
// at creation (see InternNumber) is what lets SameValue treat identity as
// value-equality for heap numbers, per spec.md §3.1.
type NumberCell struct {
	Value float64
	Live  bool
}

func (h *Heap) Number(idx Index) float64 {
	c := h.Numbers[idx]
	if c == nil || !c.Live {
		panic(fmt.Sprintf("heap: dereferenced reclaimed HeapNumber #%d", idx))
	}
	return c.Value
}

// InternNumber returns the index of an existing cell holding f, or
// allocates a new one. NaN is never coalesced across call sites (NaN !=
// NaN structurally would make interning order-dependent and is not
// required by spec.md's SameValue rule, which special-cases NaN already).
func (h *Heap) InternNumber(f float64) Index {
	for i, c := range h.Numbers {
		if c != nil && c.Live && c.Value == f && !isNegZero(f) == !isNegZero(c.Value) {
			return Index(i)
		}
	}
	return h.pushNumber(&NumberCell{Value: f, Live: true})
}

func (h *Heap) pushNumber(c *NumberCell) Index {
	if n := len(h.freeNumbers); n > 0 {
		idx := h.freeNumbers[n-1]
		h.freeNumbers = h.freeNumbers[:n-1]
		h.Numbers[idx] = c
		return idx
	}
	h.Numbers = append(h.Numbers, c)
	return Index(len(h.Numbers) - 1)
}

func isNegZero(f float64) bool {
	return f == 0 && mathSignbit(f)
}
