package heap

import "github.com/trynova/nova-sub003/internal/value"

// OutgoingRefs enumerates every value.Value directly reachable from v,
// dispatching on v's tag. This plays the role spec.md §3.2 assigns to a
// per-kind `mark_values(queues)` trait method; Go has no ad hoc trait
// dispatch without reflection or an interface per concrete type, and a
// single tag-match is exactly the dispatch style spec.md §9 already
// prescribes for every other polymorphic Value operation, so the GC's
// mark phase (internal/gc) calls this one dispatcher instead of an
// interface method per kind.
func (h *Heap) OutgoingRefs(v value.Value) []value.Value {
	idx := v.HeapIndexValue()
	switch v.Tag() {
	case value.TagOrdinaryObject:
		return h.objectDataRefs(h.Objects[idx])
	case value.TagArray:
		a := h.Arrays[idx]
		return h.objectDataRefs(&a.ObjectData)
	case value.TagError:
		e := h.Errors[idx]
		return h.objectDataRefs(&e.ObjectData)
	case value.TagPromise:
		p := h.Promises[idx]
		refs := h.objectDataRefs(&p.ObjectData)
		refs = append(refs, p.Result)
		for _, r := range p.FulfillReactions {
			refs = append(refs, r.OnFulfilled, r.OnRejected)
		}
		for _, r := range p.RejectReactions {
			refs = append(refs, r.OnFulfilled, r.OnRejected)
		}
		return refs
	case value.TagMap:
		m := h.Maps[idx]
		refs := h.objectDataRefs(&m.ObjectData)
		for _, k := range m.KeyOrder {
			refs = append(refs, k, m.Entries[keyOf(k)])
		}
		return refs
	case value.TagSet:
		s := h.Sets[idx]
		refs := h.objectDataRefs(&s.ObjectData)
		refs = append(refs, s.Order...)
		return refs
	case value.TagBoundFunction, value.TagBuiltinFunction, value.TagBuiltinConstructorFunction,
		value.TagECMAScriptFunction, value.TagBuiltinPromiseResolvingFunction,
		value.TagBuiltinPromiseCollectorFunction, value.TagBuiltinProxyRevokerFunction,
		value.TagBuiltinGeneratorFunction:
		f := h.Functions[idx]
		refs := h.objectDataRefs(&f.ObjectData)
		refs = append(refs, f.HomeObject, f.BoundTarget, f.BoundThis)
		refs = append(refs, f.BoundArguments...)
		return refs
	case value.TagArrayBuffer:
		return h.objectDataRefs(&h.ArrayBuffers[idx].ObjectData)
	case value.TagDataView:
		return h.objectDataRefs(&h.DataViews[idx].ObjectData)
	case value.TagArrayIterator, value.TagStringIterator, value.TagMapIterator, value.TagSetIterator,
		value.TagRegExpStringIterator, value.TagAsyncFromSyncIterator, value.TagAsyncGenerator,
		value.TagGeneratorIterator, value.TagModuleNamespaceIterator:
		return []value.Value{h.Iterators[idx].Target}
	default:
		return nil
	}
}

func (h *Heap) objectDataRefs(od *ObjectData) []value.Value {
	refs := []value.Value{od.Prototype}
	for _, k := range od.Keys {
		pd := od.Properties[k]
		if pd == nil {
			continue
		}
		if pd.IsAccessor {
			refs = append(refs, pd.Get, pd.Set)
		} else {
			refs = append(refs, pd.Value)
		}
		if k.IsSymbol {
			refs = append(refs, value.HeapIndex(value.TagSymbol, uint32(k.Symbol)))
		}
	}
	h.Elements.Each(od.Elements, func(_ uint32, v value.Value) {
		refs = append(refs, v)
	})
	return refs
}

// keyOf projects a Map/Set member Value into a comparable Go map key using
// SameValueZero semantics (the -0/+0 and NaN folding internal/ops applies
// before insertion, so by the time a key reaches here Bits is already the
// canonical form).
func keyOf(v value.Value) mapKey {
	if v.Tag() == value.TagSmallString {
		return mapKey{Tag: v.Tag(), Small: v.AsSmallString()}
	}
	return mapKey{Tag: v.Tag(), Bits: v.Bits()}
}
