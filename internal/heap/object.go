package heap

import "github.com/trynova/nova-sub003/internal/value"

// NewOrdinaryObject allocates a plain object with prototype proto (Null for
// none), per spec.md §4.1's OrdinaryObjectCreate.
func (h *Heap) NewOrdinaryObject(proto value.Value) value.Value {
	h.Objects = append(h.Objects, NewObjectData(proto))
	return value.HeapIndex(value.TagOrdinaryObject, uint32(len(h.Objects)-1))
}

// NewArray allocates an empty Array exotic object, per spec.md §4.1's
// ArrayCreate.
func (h *Heap) NewArray(proto value.Value) value.Value {
	h.Arrays = append(h.Arrays, &ArrayData{ObjectData: *NewObjectData(proto)})
	return value.HeapIndex(value.TagArray, uint32(len(h.Arrays)-1))
}

// objectDataOf returns the shared ObjectData view for any object-tagged
// value, regardless of which exotic vector backs it, mirroring
// OutgoingRefs/objectDataRefs's own tag dispatch in mark.go.
func (h *Heap) objectDataOf(v value.Value) *ObjectData {
	idx := Index(v.HeapIndexValue())
	switch v.Tag() {
	case value.TagOrdinaryObject:
		return h.Objects[idx]
	case value.TagArray:
		return &h.Arrays[idx].ObjectData
	case value.TagError:
		return &h.Errors[idx].ObjectData
	case value.TagPromise:
		return &h.Promises[idx].ObjectData
	case value.TagMap:
		return &h.Maps[idx].ObjectData
	case value.TagSet:
		return &h.Sets[idx].ObjectData
	default:
		if v.IsFunction() {
			return &h.Functions[idx].ObjectData
		}
		return nil
	}
}

// AppendElement pushes v onto an Array's indexed storage and bumps Length,
// per spec.md §4.1's CreateArrayFromList/Array.prototype.push idiom.
func (h *Heap) AppendElement(arr value.Value, v value.Value) {
	if arr.Tag() != value.TagArray {
		panic("heap: AppendElement on a non-Array value")
	}
	ad := h.Arrays[Index(arr.HeapIndexValue())]
	h.Elements.Set(&ad.Elements, ad.Length, v)
	ad.Length++
}

// GetProperty implements OrdinaryGet for a string-keyed, non-accessor-aware
// read: own property, walking Prototype otherwise, per spec.md §4.1. Array
// index keys read through the Elements vector instead of the Properties map.
func (h *Heap) GetProperty(obj value.Value, key PropertyKey) value.Value {
	for {
		od := h.objectDataOf(obj)
		if od == nil {
			return value.Undefined()
		}
		if obj.Tag() == value.TagArray && !key.IsSymbol {
			if key.Name == "length" {
				return value.SmallInt(int64(h.Arrays[Index(obj.HeapIndexValue())].Length))
			}
			if i, ok := arrayIndex(key.Name); ok {
				v := h.Elements.Get(od.Elements, i)
				if v.Tag() == value.TagEmpty {
					if od.Prototype.IsNull() || od.Prototype.IsUndefined() {
						return value.Undefined()
					}
					obj = od.Prototype
					continue
				}
				return v
			}
		}
		if pd, ok := od.Properties[key]; ok {
			if pd.IsAccessor {
				return value.Undefined() // accessor invocation needs the VM's Call, not available here
			}
			return pd.Value
		}
		if od.Prototype.IsNull() || od.Prototype.IsUndefined() {
			return value.Undefined()
		}
		obj = od.Prototype
	}
}

// SetProperty implements OrdinarySet for the own-property, data-property
// case used by object literal construction and simple assignment; it does
// not walk the prototype chain for a setter (no accessor support yet, per
// the same gap GetProperty documents).
func (h *Heap) SetProperty(obj value.Value, key PropertyKey, v value.Value) {
	od := h.objectDataOf(obj)
	if od == nil {
		panic("heap: SetProperty on a non-object value")
	}
	if obj.Tag() == value.TagArray && !key.IsSymbol {
		if i, ok := arrayIndex(key.Name); ok {
			h.Elements.Set(&od.Elements, i, v)
			ad := h.Arrays[Index(obj.HeapIndexValue())]
			if i+1 > ad.Length {
				ad.Length = i + 1
			}
			return
		}
	}
	if pd, ok := od.Properties[key]; ok {
		pd.Value = v
		return
	}
	od.Keys = append(od.Keys, key)
	od.Properties[key] = &PropertyDescriptor{Value: v, Writable: true, Enumerable: true, Configurable: true}
}

// OwnEnumerableKeys returns obj's own enumerable string keys in insertion
// order (array index keys first, per OrdinaryOwnPropertyKeys), for
// internal/vm's for-in key snapshot. Symbol keys are never enumerable in
// for-in, per spec.md §4.4.2, and so are skipped here.
func (h *Heap) OwnEnumerableKeys(obj value.Value) []string {
	od := h.objectDataOf(obj)
	if od == nil {
		return nil
	}
	var keys []string
	if obj.Tag() == value.TagArray {
		n := h.Arrays[Index(obj.HeapIndexValue())].Length
		for i := uint32(0); i < n; i++ {
			keys = append(keys, numberToDecimalString(i))
		}
	}
	for _, k := range od.Keys {
		if k.IsSymbol {
			continue
		}
		if pd, ok := od.Properties[k]; ok && pd.Enumerable {
			keys = append(keys, k.Name)
		}
	}
	return keys
}

func numberToDecimalString(n uint32) string {
	if n == 0 {
		return "0"
	}
	var buf [10]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}

// arrayIndex reports whether name is a canonical array index string
// ("0", "1", ... never "01" or "-1"), per spec.md §4.1's CanonicalNumericIndexString.
func arrayIndex(name string) (uint32, bool) {
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
