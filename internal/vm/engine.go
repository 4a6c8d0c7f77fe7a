// Package vm implements the stack-machine execution engine named in
// spec.md §4.5: it drives internal/bytecode.Executable instruction streams
// against an internal/heap.Heap, resolving references through
// internal/heap's environment-record operations and dispatching arithmetic/
// comparison through internal/ops.
//
// Grounded on tetratelabs-wazero's execution-context-stack shape
// (internal/wasm/module_context_test.go / call_context_test.go: a call
// context carrying the current module instance and a moduleInstanceCount
// guard) generalized from "one Wasm module instance" to "one ECMAScript
// execution context" per spec.md §4.5.
package vm

import (
	"fmt"

	"github.com/trynova/nova-sub003/internal/bytecode"
	"github.com/trynova/nova-sub003/internal/config"
	"github.com/trynova/nova-sub003/internal/diag"
	"github.com/trynova/nova-sub003/internal/gc"
	"github.com/trynova/nova-sub003/internal/heap"
	"github.com/trynova/nova-sub003/internal/value"
)

// compiledFunction pairs a nested Executable with the descriptor fields
// FunctionDeclarationInstantiation needs, gathered at compile time by
// internal/bytecode so the VM never re-walks the AST.
type compiledFunction struct {
	Name          string
	ParamNames    []string
	ParamDefaults []*bytecode.Executable
	HasRestParam  bool
	Length        int
	Body          *bytecode.Executable
	IsStrict      bool
	IsGenerator   bool
	IsAsync       bool
	HasArguments  bool
}

// Engine owns one agent's heap plus the side table of compiled function
// bodies that heap.FunctionData.ExecutableIndex names. A *bytecode.Executable
// cannot live inside heap.FunctionData directly: internal/heap must not
// import internal/bytecode (bytecode already imports internal/ops, which
// imports internal/heap, and Go rejects the resulting cycle), so the
// indirection through Engine.functions is structural, not incidental.
type Engine struct {
	Heap     *heap.Heap
	Options  config.AgentOptions
	Listener diag.Listener

	functions []*compiledFunction

	// suspended tracks every Vm currently parked at a Yield/Await point,
	// so Roots can protect it from a GC cycle that runs while it is idle
	// (e.g. an async generator between .next() calls - see
	// internal/async.Generator's co field). Entries are added in settle
	// and removed once the Vm reaches ResultReturn/ResultThrow.
	suspended map[*Vm]struct{}
}

// NewEngine creates an Engine with a fresh heap, ready to run scripts.
func NewEngine(opts config.AgentOptions) *Engine {
	return &Engine{
		Heap:     heap.New(),
		Options:  opts,
		Listener: opts.Listener,
	}
}

// RunScript evaluates a top-level Executable (a Program compiled by
// bytecode.Compiler.CompileProgram) against the realm's existing global
// environment, with globalThis as `this`, per spec.md §4.5's
// script-evaluation entry point.
func (e *Engine) RunScript(exec *bytecode.Executable, realm heap.Index) (value.Value, error) {
	r := e.Heap.Realms[realm]
	res, err := e.run(exec, r.GlobalEnv, r.GlobalObject, value.Undefined())
	if err != nil {
		if e.Listener != nil {
			e.Listener.OnUncaughtThrow(nil, e.describeThrow(err))
		}
		return value.Undefined(), err
	}
	return res.value, nil
}

// RunModuleBody evaluates a compiled module body against env (the
// module's own declarative environment, built by internal/module.Loader's
// Link), per spec.md §4.7's Evaluator contract: module code has no
// this-binding of its own, unlike a script's globalThis.
func (e *Engine) RunModuleBody(exec *bytecode.Executable, env heap.EnvIndex) (value.Value, error) {
	res, err := e.run(exec, env, value.Undefined(), value.Undefined())
	if err != nil {
		return value.Undefined(), err
	}
	return res.value, nil
}

// NewRealm allocates a realm with a global object/environment pair, per
// spec.md §4.3's InitializeHostDefinedRealm (intrinsics installation is
// internal/builtins's job, invoked separately by the embedding api package).
func (e *Engine) NewRealm() heap.Index {
	idx := e.Heap.NewRealm()
	r := e.Heap.Realms[idx]
	r.GlobalObject = e.Heap.NewOrdinaryObject(value.Null())
	r.GlobalEnv = e.Heap.NewGlobalEnvironment(r.GlobalObject)
	return idx
}

// registerFunction interns an ECMAScript function body compiled from an
// ast.FunctionCommon-derived descriptor and returns the FunctionData
// created to wrap it, bound in closingEnv (its [[Environment]] slot).
func (e *Engine) registerFunction(name string, params []string, paramDefaults []*bytecode.Executable, hasRestParam bool, length int, body *bytecode.Executable, strict, generator, async, hasArguments bool, closingEnv heap.EnvIndex, realm heap.Index, proto value.Value) value.Value {
	idx := len(e.functions)
	e.functions = append(e.functions, &compiledFunction{
		Name: name, ParamNames: params, ParamDefaults: paramDefaults, HasRestParam: hasRestParam, Length: length, Body: body,
		IsStrict: strict, IsGenerator: generator, IsAsync: async, HasArguments: hasArguments,
	})
	fd := &heap.FunctionData{
		ObjectData:      *heap.NewObjectData(proto),
		Kind:            heap.FunctionECMAScript,
		Name:            name,
		Length:          length,
		ExecutableIndex: idx,
		Environment:     closingEnv,
		Realm:           realm,
		IsConstructor:   !generator && !async,
		IsStrict:        strict,
	}
	e.Heap.Functions = append(e.Heap.Functions, fd)
	return value.HeapIndex(value.TagECMAScriptFunction, uint32(len(e.Heap.Functions)-1))
}

func (e *Engine) settle(res ExecutionResult) {
	if res.Kind == ResultYield || res.Kind == ResultAwait {
		e.track(res.Vm)
	}
}

func (e *Engine) track(v *Vm) {
	if e.suspended == nil {
		e.suspended = make(map[*Vm]struct{})
	}
	e.suspended[v] = struct{}{}
}

func (e *Engine) untrack(v *Vm) {
	delete(e.suspended, v)
}

// Roots returns the engine-owned GC root set: every realm's Intrinsics
// table/global object, plus any Vm currently suspended at a yield/await
// point. An embedder appends its own Global/Scoped arena on top of this
// (see api.Agent.Roots) before calling MaybeCollect.
func (e *Engine) Roots() []gc.Root {
	roots := make([]gc.Root, 0, 1+len(e.suspended))
	roots = append(roots, heap.IntrinsicsRoot{Heap: e.Heap})
	for v := range e.suspended {
		roots = append(roots, v)
	}
	return roots
}

func (e *Engine) describeThrow(err error) string {
	if te, ok := err.(*ThrownError); ok {
		return fmt.Sprintf("%s: %s", te.Kind, te.Message)
	}
	return err.Error()
}

// MaybeCollect runs a GC cycle when the heap has grown past the configured
// watermark, per SPEC_FULL.md §4.8. internal/heap already satisfies
// gc.HeapGraph (see internal/heap/mark.go), so Engine needs no collector
// code of its own beyond this watermark check and reporting the cycle to
// its diag.Listener.
func (e *Engine) MaybeCollect(roots []gc.Root) {
	total := 0
	for _, tag := range gc.AllTags() {
		total += e.Heap.VectorLength(tag)
	}
	if total < e.Options.GCWatermark {
		return
	}
	c := gc.Collector{Heap: e.Heap, Roots: roots}
	stats := c.Cycle()
	if e.Listener != nil {
		marked := 0
		for _, n := range stats.MarkedPerTag {
			marked += n
		}
		e.Listener.OnGCCycle(nil, diag.GCStats{MarkedTotal: marked})
	}
}
