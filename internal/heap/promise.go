package heap

import "github.com/trynova/nova-sub003/internal/value"

// NewPromise allocates a pending Promise exotic object, per spec.md §4.1's
// NewPromiseCapability reduced to the object-allocation half: reaction
// scheduling is internal/async's job once it exists.
func (h *Heap) NewPromise(proto value.Value) value.Value {
	h.Promises = append(h.Promises, &PromiseData{ObjectData: *NewObjectData(proto), State: PromisePending})
	return value.HeapIndex(value.TagPromise, uint32(len(h.Promises)-1))
}

// ResolvePromise implements the non-thenable fast path of the Promise
// Resolve Function: a promise may only settle once, so a second call is a
// silent no-op (AlreadyResolved guards it), per spec.md §4.1/§4.6.
func (h *Heap) ResolvePromise(p value.Value, result value.Value) {
	pd := h.Promises[Index(p.HeapIndexValue())]
	if pd.AlreadyResolved {
		return
	}
	pd.AlreadyResolved = true
	pd.State = PromiseFulfilled
	pd.Result = result
}

// RejectPromise implements the Promise Reject Function.
func (h *Heap) RejectPromise(p value.Value, reason value.Value) {
	pd := h.Promises[Index(p.HeapIndexValue())]
	if pd.AlreadyResolved {
		return
	}
	pd.AlreadyResolved = true
	pd.State = PromiseRejected
	pd.Result = reason
}
