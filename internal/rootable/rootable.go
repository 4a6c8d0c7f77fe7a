// Package rootable implements the embedder-facing handle types from
// spec.md §4.8/§6.1/GLOSSARY: Global[T] pins a value for the agent's
// lifetime, Scoped[T] pins it only for the enclosing GcScope, and
// NoGcScope is a static marker proving a region of code performs no
// allocation (so no GC can run, so direct value.Value handles are safe
// to hold across it without either wrapper).
//
// Grounded on spec.md §4.8 verbatim and original_source/nova_vm/src/engine/rootable.rs
// (per SPEC_FULL.md's instruction to resolve ambiguity from original_source);
// structurally mirrors the teacher's api.Closer / CloseWithExitCode idiom
// of tying a resource's lifetime to an explicit call rather than to Go's GC.
package rootable

import "github.com/trynova/nova-sub003/internal/value"

// Arena is a flat, append-only pin list shared by every Global or Scoped
// handle drawn from it. internal/gc.Collector treats an Arena as one Root:
// RootValues/Remap below satisfy that interface directly.
type Arena struct {
	slots []value.Value
	free  []int
}

func NewArena() *Arena { return &Arena{} }

// handle is an opaque slot index into an Arena. The first handle an Arena
// hands out is 0. A released slot goes on the free list and is reused by
// the next pin; there is no generation counter, so Drop callers are
// required not to use the handle again.
type handle int

// Global pins a Value for as long as the embedder holds the Global
// wrapper, across any number of GC cycles. Use Global.Take to read the
// pinned value and Global.Drop to release it back to the arena.
type Global struct {
	arena *Arena
	h     handle
}

// NewGlobal pins v in arena and returns a handle to it.
func NewGlobal(arena *Arena, v value.Value) Global {
	h := arena.alloc(v)
	return Global{arena: arena, h: h}
}

func (g Global) Take() value.Value { return g.arena.slots[g.h] }

// Drop releases the pin. The Global must not be used again afterward;
// nothing enforces this at compile time, matching the teacher's
// CloseWithExitCode contract ("regardless of error, this module instance
// will be removed") rather than introducing a type-state machine.
func (g Global) Drop() { g.arena.free1(g.h) }

// Scoped pins a Value only for the lifetime of the GcScope it was created
// in; GcScope.Close releases every Scoped handle made within it at once.
type Scoped struct {
	arena *Arena
	h     handle
}

func NewScoped(scope *GcScope, v value.Value) Scoped {
	h := scope.arena.alloc(v)
	scope.pins = append(scope.pins, h)
	return Scoped{arena: scope.arena, h: h}
}

func (s Scoped) Get() value.Value { return s.arena.slots[s.h] }

func (a *Arena) alloc(v value.Value) handle {
	if n := len(a.free); n > 0 {
		h := a.free[n-1]
		a.free = a.free[:n-1]
		a.slots[h] = v
		return handle(h)
	}
	a.slots = append(a.slots, v)
	return handle(len(a.slots) - 1)
}

func (a *Arena) free1(h handle) {
	a.slots[h] = value.Undefined()
	a.free = append(a.free, int(h))
}

// RootValues implements gc.Root.
func (a *Arena) RootValues() []value.Value {
	out := make([]value.Value, 0, len(a.slots))
	freed := make(map[int]bool, len(a.free))
	for _, f := range a.free {
		freed[f] = true
	}
	for i, v := range a.slots {
		if !freed[i] {
			out = append(out, v)
		}
	}
	return out
}

// Remap implements gc.Root.
func (a *Arena) Remap(fn func(value.Value) value.Value) {
	for i := range a.slots {
		a.slots[i] = fn(a.slots[i])
	}
}
