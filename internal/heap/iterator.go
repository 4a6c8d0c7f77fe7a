package heap

import "github.com/trynova/nova-sub003/internal/value"

// IteratorKind discriminates the nine iterator kinds named in spec.md §3.1.
type IteratorKind byte

const (
	IterArray IteratorKind = iota
	IterString
	IterMap
	IterSet
	IterRegExpString
	IterAsyncFromSync
	IterAsyncGenerator
	IterGenerator
	IterModuleNamespace
)

// IteratorData is the shared record for every iterator heap kind: which
// underlying collection/index it is walking, plus (for generator kinds)
// the suspended VM state, attached separately in internal/vm and
// internal/async so this package stays VM-agnostic.
type IteratorData struct {
	Kind       IteratorKind
	Target     value.Value
	NextIndex  uint32
	Done       bool
	// VMState is an opaque handle (an index into internal/vm's suspended
	// coroutine table) for IterGenerator/IterAsyncGenerator; nil otherwise.
	VMState any
}

func (h *Heap) NewIterator(kind IteratorKind, target value.Value) Index {
	h.Iterators = append(h.Iterators, &IteratorData{Kind: kind, Target: target})
	return Index(len(h.Iterators) - 1)
}
