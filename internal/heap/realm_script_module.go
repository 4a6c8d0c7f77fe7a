package heap

import "github.com/trynova/nova-sub003/internal/value"

// Realm is one ECMAScript realm: an intrinsics table, a global object and
// global environment, keyed by typed index per spec.md §3.2.
// IntrinsicsRoot is a gc.Root over every realm's Intrinsics table and
// global object, so a builtin like Array.prototype survives a collection
// cycle even while no live call frame references it. RemapRefs already
// rewrites these maps unconditionally (every Realm is swept whether or
// not a GC cycle ever runs), so Remap here is a no-op: remapping them a
// second time would run an already-new index back through the same
// compaction table.
type IntrinsicsRoot struct{ Heap *Heap }

func (r IntrinsicsRoot) RootValues() []value.Value {
	var out []value.Value
	for _, realm := range r.Heap.Realms {
		if realm == nil {
			continue
		}
		for _, v := range realm.Intrinsics {
			out = append(out, v)
		}
		out = append(out, realm.GlobalObject)
	}
	return out
}

func (r IntrinsicsRoot) Remap(func(value.Value) value.Value) {}

type Realm struct {
	Intrinsics map[string]value.Value
	GlobalObject value.Value
	GlobalEnv    EnvIndex
	Live         bool
}

// Script owns the source text for the lifetime of everything derived from
// it (AST, bytecode): spec.md §3.4 "Scripts retain their source text as an
// owned byte buffer whose lifetime outlives the AST and bytecode derived
// from it."
type Script struct {
	Source     []byte
	Realm      Index
	HostDefined any
	Live       bool
}

// CyclicModuleStatus is the module-linking state machine from spec.md §4.7.
type CyclicModuleStatus int

const (
	ModuleNew CyclicModuleStatus = iota
	ModuleUnlinked
	ModuleLinking
	ModuleLinked
	ModuleEvaluating
	ModuleEvaluatingAsync
	ModuleEvaluated
)

// Module is one entry in the Modules vector: its cyclic-module status
// machine plus the lazily-populated namespace object.
type Module struct {
	Realm           Index
	Status          CyclicModuleStatus
	EvaluationError value.Value
	HasError        bool
	Namespace       value.Value // undefined until GetModuleNamespace populates it
	RequestedModules []Index   // ModuleRequest handles, in source order
	LoadedModules   map[Index]Index // ModuleRequest handle -> resolved Module index

	// Env is the module's environment record, populated once Link runs
	// InitializeEnvironment. ExportNames are the local bindings this
	// module makes visible to GetModuleNamespace; star/indirect
	// re-exports are flattened into this list at link time by
	// internal/module rather than re-walked per namespace access.
	Env         EnvIndex
	ExportNames []string

	// PendingRequests tracks static-import completions still outstanding
	// for FinishLoadingImportedModule's graph-loading continuation path
	// (spec.md §4.7); it is decremented, never the requests themselves.
	PendingRequests int
	Continuations   []func()

	Live bool
}

func (h *Heap) NewRealm() Index {
	h.Realms = append(h.Realms, &Realm{Intrinsics: make(map[string]value.Value), Live: true})
	return Index(len(h.Realms) - 1)
}

func (h *Heap) NewScript(source []byte, realm Index, hostDefined any) Index {
	h.Scripts = append(h.Scripts, &Script{Source: source, Realm: realm, HostDefined: hostDefined, Live: true})
	return Index(len(h.Scripts) - 1)
}

func (h *Heap) NewModule(realm Index) Index {
	h.Modules = append(h.Modules, &Module{
		Realm:         realm,
		Status:        ModuleNew,
		LoadedModules: make(map[Index]Index),
		Env:           NoEnv,
		Live:          true,
	})
	return Index(len(h.Modules) - 1)
}
