package heap

import (
	"github.com/trynova/nova-sub003/internal/gc"
	"github.com/trynova/nova-sub003/internal/value"
)

// VectorLength and CompactVector let internal/gc drive compaction without
// internal/gc importing this package (it must not import internal/heap's
// concrete types to stay testable in isolation — see gc.HeapGraph). VectorLength reports the current length of the vector
// backing tag; CompactVector physically compacts it according to list.

func (h *Heap) VectorLength(tag value.Tag) int {
	switch tag {
	case value.TagHeapNumber:
		return len(h.Numbers)
	case value.TagHeapBigInt:
		return len(h.BigInts)
	case value.TagHeapString:
		return len(h.Strings)
	case value.TagSymbol:
		return len(h.Symbols)
	case value.TagOrdinaryObject:
		return len(h.Objects)
	case value.TagArray:
		return len(h.Arrays)
	case value.TagError:
		return len(h.Errors)
	case value.TagPromise:
		return len(h.Promises)
	case value.TagMap:
		return len(h.Maps)
	case value.TagSet:
		return len(h.Sets)
	case value.TagArrayBuffer:
		return len(h.ArrayBuffers)
	case value.TagDataView:
		return len(h.DataViews)
	case value.TagBoundFunction, value.TagBuiltinFunction, value.TagBuiltinConstructorFunction,
		value.TagECMAScriptFunction, value.TagBuiltinPromiseResolvingFunction,
		value.TagBuiltinPromiseCollectorFunction, value.TagBuiltinProxyRevokerFunction,
		value.TagBuiltinGeneratorFunction:
		return len(h.Functions)
	case value.TagArrayIterator, value.TagStringIterator, value.TagMapIterator,
		value.TagSetIterator, value.TagRegExpStringIterator, value.TagAsyncFromSyncIterator,
		value.TagAsyncGenerator, value.TagGeneratorIterator, value.TagModuleNamespaceIterator:
		return len(h.Iterators)
	default:
		return 0
	}
}

func (h *Heap) CompactVector(tag value.Tag, list gc.CompactionList) {
	switch tag {
	case value.TagHeapNumber:
		h.Numbers = compact(list, h.Numbers)
		h.freeNumbers = nil
	case value.TagHeapBigInt:
		h.BigInts = compact(list, h.BigInts)
		h.freeBigInts = nil
	case value.TagHeapString:
		h.Strings = compact(list, h.Strings)
		h.freeStrings = nil
	case value.TagSymbol:
		h.Symbols = compact(list, h.Symbols)
	case value.TagOrdinaryObject:
		h.Objects = compact(list, h.Objects)
		h.freeObjects = nil
	case value.TagArray:
		h.Arrays = compact(list, h.Arrays)
		h.freeArrays = nil
	case value.TagError:
		h.Errors = compact(list, h.Errors)
		h.freeErrors = nil
	case value.TagPromise:
		h.Promises = compact(list, h.Promises)
	case value.TagMap:
		h.Maps = compact(list, h.Maps)
	case value.TagSet:
		h.Sets = compact(list, h.Sets)
	case value.TagArrayBuffer:
		h.ArrayBuffers = compact(list, h.ArrayBuffers)
	case value.TagDataView:
		h.DataViews = compact(list, h.DataViews)
	case value.TagBoundFunction, value.TagBuiltinFunction, value.TagBuiltinConstructorFunction,
		value.TagECMAScriptFunction, value.TagBuiltinPromiseResolvingFunction,
		value.TagBuiltinPromiseCollectorFunction, value.TagBuiltinProxyRevokerFunction,
		value.TagBuiltinGeneratorFunction:
		h.Functions = compact(list, h.Functions)
		h.freeFunctions = nil
	case value.TagArrayIterator:
		// The other eight iterator tags share this same vector and the
		// same CompactionList (see gc.iteratorTags); compacting once under
		// this designated primary tag and no-oping for the rest avoids
		// re-compacting an already-shrunk slice against stale indices.
		h.Iterators = compact(list, h.Iterators)
	case value.TagStringIterator, value.TagMapIterator, value.TagSetIterator,
		value.TagRegExpStringIterator, value.TagAsyncFromSyncIterator,
		value.TagAsyncGenerator, value.TagGeneratorIterator, value.TagModuleNamespaceIterator:
		// No-op: see the TagArrayIterator case above.
	}
}

func compact[T any](list gc.CompactionList, vec []*T) []*T {
	// Count live entries first so we allocate exactly once (mirrors
	// gc.CompactionList.LiveCount without reading that field here).
	n := 0
	for old := range vec {
		if _, ok := list.NewIndex(uint32(old)); ok {
			n++
		}
	}
	out := make([]*T, n)
	for old, cell := range vec {
		if newIdx, ok := list.NewIndex(uint32(old)); ok {
			out[newIdx] = cell
		}
	}
	return out
}

// RemapRefs rewrites every outgoing Value reference reachable through any
// live heap cell, plus environment bindings and realm/module/script
// slots, using remap. This is the sweep half of spec.md §4.8: "rewrite
// every outgoing typed index through the corresponding compaction table."
func (h *Heap) RemapRefs(remap func(value.Value) value.Value) {
	for _, o := range h.Objects {
		if o != nil {
			h.remapObjectData(o, remap)
		}
	}
	for _, a := range h.Arrays {
		if a != nil {
			h.remapObjectData(&a.ObjectData, remap)
		}
	}
	for _, e := range h.Errors {
		if e != nil {
			h.remapObjectData(&e.ObjectData, remap)
		}
	}
	for _, p := range h.Promises {
		if p == nil {
			continue
		}
		h.remapObjectData(&p.ObjectData, remap)
		p.Result = remap(p.Result)
		for i := range p.FulfillReactions {
			p.FulfillReactions[i].OnFulfilled = remap(p.FulfillReactions[i].OnFulfilled)
			p.FulfillReactions[i].OnRejected = remap(p.FulfillReactions[i].OnRejected)
		}
		for i := range p.RejectReactions {
			p.RejectReactions[i].OnFulfilled = remap(p.RejectReactions[i].OnFulfilled)
			p.RejectReactions[i].OnRejected = remap(p.RejectReactions[i].OnRejected)
		}
	}
	for _, m := range h.Maps {
		if m == nil {
			continue
		}
		h.remapObjectData(&m.ObjectData, remap)
		newEntries := make(map[mapKey]value.Value, len(m.Entries))
		for i, k := range m.KeyOrder {
			nk := remap(k)
			m.KeyOrder[i] = nk
			newEntries[keyOf(nk)] = remap(m.Entries[keyOf(k)])
		}
		m.Entries = newEntries
	}
	for _, s := range h.Sets {
		if s == nil {
			continue
		}
		h.remapObjectData(&s.ObjectData, remap)
		for i, v := range s.Order {
			s.Order[i] = remap(v)
		}
	}
	for _, f := range h.Functions {
		if f == nil {
			continue
		}
		h.remapObjectData(&f.ObjectData, remap)
		f.HomeObject = remap(f.HomeObject)
		f.BoundTarget = remap(f.BoundTarget)
		f.BoundThis = remap(f.BoundThis)
		for i := range f.BoundArguments {
			f.BoundArguments[i] = remap(f.BoundArguments[i])
		}
	}
	for _, b := range h.ArrayBuffers {
		if b != nil {
			h.remapObjectData(&b.ObjectData, remap)
		}
	}
	for _, d := range h.DataViews {
		if d != nil {
			h.remapObjectData(&d.ObjectData, remap)
		}
	}
	for _, it := range h.Iterators {
		if it != nil {
			it.Target = remap(it.Target)
		}
	}
	for _, env := range h.Environments.Declarative {
		if env != nil {
			remapBindings(env.Bindings, remap)
		}
	}
	for _, env := range h.Environments.Function {
		if env == nil {
			continue
		}
		remapBindings(env.Bindings, remap)
		env.ThisValue = remap(env.ThisValue)
		env.FunctionObject = remap(env.FunctionObject)
		env.NewTarget = remap(env.NewTarget)
	}
	for _, env := range h.Environments.Global {
		if env == nil {
			continue
		}
		remapBindings(env.Bindings, remap)
		env.GlobalObject = remap(env.GlobalObject)
	}
	for _, env := range h.Environments.Object {
		if env != nil {
			env.BindingObject = remap(env.BindingObject)
		}
	}
	for _, r := range h.Realms {
		if r == nil {
			continue
		}
		for k, v := range r.Intrinsics {
			r.Intrinsics[k] = remap(v)
		}
		r.GlobalObject = remap(r.GlobalObject)
	}
	for _, m := range h.Modules {
		if m != nil {
			m.Namespace = remap(m.Namespace)
			m.EvaluationError = remap(m.EvaluationError)
		}
	}
}

func remapBindings(bindings map[string]*Binding, remap func(value.Value) value.Value) {
	for _, b := range bindings {
		b.Value = remap(b.Value)
	}
}

func (h *Heap) remapObjectData(od *ObjectData, remap func(value.Value) value.Value) {
	od.Prototype = remap(od.Prototype)
	for _, k := range od.Keys {
		pd := od.Properties[k]
		if pd == nil {
			continue
		}
		if pd.IsAccessor {
			pd.Get = remap(pd.Get)
			pd.Set = remap(pd.Set)
		} else {
			pd.Value = remap(pd.Value)
		}
	}
	h.Elements.Remap(od.Elements, remap)
}
