// Package api is the embedding surface named in spec.md §6.1: Agent::new,
// create_realm/set_realm_global_object, parse_script/script_evaluation,
// parse_module/module.link/module.evaluate, and the Global<T>/Scoped<T>
// handle constructors, all bundled behind one Agent value an embedder
// constructs once and drives thereafter. It wires together
// internal/vm.Engine (execution), internal/module.Loader (the module
// graph), internal/builtins.Install (intrinsics) and internal/rootable.Arena
// (embedder-held GC roots) — mirroring how the teacher's own wazero.Runtime
// is the single embedding entry point wrapping wasm.Store/moduleRegistry.
package api

import (
	"context"

	"github.com/trynova/nova-sub003/internal/builtins"
	"github.com/trynova/nova-sub003/internal/bytecode"
	"github.com/trynova/nova-sub003/internal/config"
	"github.com/trynova/nova-sub003/internal/gc"
	"github.com/trynova/nova-sub003/internal/heap"
	"github.com/trynova/nova-sub003/internal/module"
	"github.com/trynova/nova-sub003/internal/parser"
	"github.com/trynova/nova-sub003/internal/rootable"
	"github.com/trynova/nova-sub003/internal/value"
	"github.com/trynova/nova-sub003/internal/vm"
)

// Agent owns one engine, its module loader, and its Global/Scoped pin
// arena, per spec.md §6.1's Agent::new.
type Agent struct {
	Engine *vm.Engine
	Loader *module.Loader
	Arena  *rootable.Arena
}

// NewAgent builds an Agent around a fresh engine, per spec.md §6.1.
// resolver may be nil for an embedder that never evaluates import
// declarations (a script-only consumer, e.g. cmd/novavm).
func NewAgent(opts config.AgentOptions, resolver module.Resolver) *Agent {
	e := vm.NewEngine(opts)
	return &Agent{
		Engine: e,
		Loader: &module.Loader{Heap: e.Heap, Listener: opts.Listener, Resolver: resolver},
		Arena:  rootable.NewArena(),
	}
}

// CreateRealm allocates a realm with a fresh global object/environment
// and installs its intrinsics, per spec.md §6.1's create_realm.
// SetRealmGlobalObject can still replace the global afterward, matching
// the two named operations being distinct in spec.md §6.1.
func (a *Agent) CreateRealm() heap.Index {
	realm := a.Engine.NewRealm()
	builtins.Install(a.Engine.Heap, realm)
	return realm
}

// SetRealmGlobalObject replaces realm's global object, per spec.md §6.1.
// An undefined global allocates a fresh ordinary object in place of one,
// the same "zero value means default" idiom internal/config's
// AgentOptions uses for its own optional fields.
func (a *Agent) SetRealmGlobalObject(realm heap.Index, global value.Value) {
	r := a.Engine.Heap.Realms[realm]
	if global.IsUndefined() {
		global = a.Engine.Heap.NewOrdinaryObject(value.Null())
	}
	r.GlobalObject = global
	r.GlobalEnv = a.Engine.Heap.NewGlobalEnvironment(global)
}

// Script pairs a realm-scoped heap.Script record with the compiled
// top-level Executable derived from it, per spec.md §6.1's parse_script.
type Script struct {
	heapIndex heap.Index
	exec      *bytecode.Executable
	realm     heap.Index
}

// ParseScript parses source as a script body and compiles it, per
// spec.md §6.1's parse_script. hostDefined is stashed on the underlying
// heap.Script record verbatim, for a host's own bookkeeping (e.g. a file
// path), exactly as heap.NewScript already allows.
func (a *Agent) ParseScript(source string, realm heap.Index, hostDefined any) (*Script, error) {
	prog, err := parser.Parse(source)
	if err != nil {
		return nil, err
	}
	idx := a.Engine.Heap.NewScript([]byte(source), realm, hostDefined)
	exec := bytecode.NewCompiler(source).CompileProgram(prog)
	return &Script{heapIndex: idx, exec: exec, realm: realm}, nil
}

// ScriptEvaluation runs script's top-level code to completion, per
// spec.md §6.1's script_evaluation. A GC watermark check brackets the
// run so the heap this script grows is also the heap that gets collected
// back down, rather than only ever shrinking in response to some later
// script's allocations.
func (a *Agent) ScriptEvaluation(script *Script) (value.Value, error) {
	a.Engine.MaybeCollect(a.Roots())
	res, err := a.Engine.RunScript(script.exec, script.realm)
	a.Engine.MaybeCollect(a.Roots())
	return res, err
}

// Module pairs a realm-scoped heap.Module record (the status machine from
// spec.md §4.7) with its compiled top-level body.
type Module struct {
	heapIndex heap.Index
	exec      *bytecode.Executable
}

// ParseModule parses source as a module body and compiles it, per
// spec.md §6.1's parse_module, and registers the heap.Module shell
// Link/Evaluate operate on. The shell starts with no RequestedModules:
// neither this function nor internal/bytecode interns or records the
// module requests named by import/export declarations.
func (a *Agent) ParseModule(source string, realm heap.Index) (*Module, error) {
	prog, err := parser.ParseModule(source)
	if err != nil {
		return nil, err
	}
	idx := a.Engine.Heap.NewModule(realm)
	exec := bytecode.NewCompiler(source).CompileProgram(prog)
	return &Module{heapIndex: idx, exec: exec}, nil
}

// Link drives m through Unlinked/Linking/Linked, per spec.md §6.1's
// module.link.
func (a *Agent) Link(ctx context.Context, m *Module) error {
	return a.Loader.Link(ctx, m.heapIndex)
}

// Evaluate runs m's (and its already-linked dependencies') top-level
// body to completion, per spec.md §6.1's module.evaluate.
func (a *Agent) Evaluate(ctx context.Context, m *Module) (value.Value, error) {
	res, err := a.Loader.Evaluate(ctx, m.heapIndex, func(_ context.Context, env heap.EnvIndex) (value.Value, error) {
		return a.Engine.RunModuleBody(m.exec, env)
	}, false)
	a.Engine.MaybeCollect(a.Roots())
	return res, err
}

// GetModuleNamespace returns m's namespace object, populating it on first
// use, per spec.md §4.7.
func (a *Agent) GetModuleNamespace(m *Module) value.Value {
	return a.Loader.GetModuleNamespace(m.heapIndex)
}

// NewGlobal pins v for the Agent's lifetime, per spec.md §6.1's
// Global<T>::new.
func (a *Agent) NewGlobal(v value.Value) rootable.Global {
	return rootable.NewGlobal(a.Arena, v)
}

// NewScope opens a GcScope whose Scoped handles are drawn from the
// Agent's arena, per spec.md §6.1's Scoped<T>.
func (a *Agent) NewScope() *rootable.GcScope {
	return rootable.NewGcScope(a.Arena)
}

// Roots returns the Agent's full GC root set: its engine's realm
// intrinsics and any suspended Vm, plus its own embedder-held pin arena,
// ready to hand to internal/vm.Engine.MaybeCollect.
func (a *Agent) Roots() []gc.Root {
	return append(a.Engine.Roots(), a.Arena)
}
