package heap

import (
	"hash/fnv"
	"sort"
)

// Attribute is one `with { key: "value" }` import-attribute pair.
type Attribute struct {
	Key, Value string
}

// ModuleRequest is an interned (specifier, sorted-attributes) handle, per
// spec.md §3.2/§4.7. Attributes are sorted lexicographically by key at
// construction so ModuleRequestsEqual is a linear scan rather than a
// per-comparison sort.
type ModuleRequest struct {
	Specifier  string
	Attributes []Attribute
	hash       uint64
}

func hashRequest(specifier string, attrs []Attribute) uint64 {
	h := fnv.New64a()
	h.Write([]byte(specifier))
	for _, a := range attrs {
		h.Write([]byte{0})
		h.Write([]byte(a.Key))
		h.Write([]byte{0})
		h.Write([]byte(a.Value))
	}
	return h.Sum64()
}

// ModuleRequestsEqual implements the testable property from spec.md §8:
// equal requests always share a hash, and the hash is checked first.
func ModuleRequestsEqual(a, b *ModuleRequest) bool {
	if a == b {
		return true
	}
	if a.hash != b.hash || a.Specifier != b.Specifier || len(a.Attributes) != len(b.Attributes) {
		return false
	}
	for i := range a.Attributes {
		if a.Attributes[i] != b.Attributes[i] {
			return false
		}
	}
	return true
}

// ModuleRequestTable interns ModuleRequest values so that identical
// (specifier, attributes) pairs always resolve to the same handle.
type ModuleRequestTable struct {
	requests []*ModuleRequest
	byHash   map[uint64][]Index
}

func newModuleRequestTable() *ModuleRequestTable {
	return &ModuleRequestTable{byHash: make(map[uint64][]Index)}
}

// Intern returns the handle for (specifier, attrs), sorting attrs in place
// and reusing an existing entry when one matches.
func (t *ModuleRequestTable) Intern(specifier string, attrs []Attribute) Index {
	sorted := append([]Attribute(nil), attrs...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Key < sorted[j].Key })
	h := hashRequest(specifier, sorted)
	candidate := &ModuleRequest{Specifier: specifier, Attributes: sorted, hash: h}
	for _, idx := range t.byHash[h] {
		if ModuleRequestsEqual(t.requests[idx], candidate) {
			return idx
		}
	}
	t.requests = append(t.requests, candidate)
	idx := Index(len(t.requests) - 1)
	t.byHash[h] = append(t.byHash[h], idx)
	return idx
}

func (t *ModuleRequestTable) Get(idx Index) *ModuleRequest { return t.requests[idx] }
