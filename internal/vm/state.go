package vm

import (
	"github.com/trynova/nova-sub003/internal/bytecode"
	"github.com/trynova/nova-sub003/internal/heap"
	"github.com/trynova/nova-sub003/internal/value"
)

// Vm is the suspended-or-running state of one stack-machine activation,
// per spec.md §4.5/§9: "the VM state at a yield/await point (PC, stacks,
// reference register) is captured by the Vm value handed back to the
// caller." Unlike the rest of this package's Engine-scoped helpers, a Vm
// outlives a single call to Run/Resume — internal/async holds onto one
// per suspended generator/async function.
type Vm struct {
	eng       *Engine
	exec      *bytecode.Executable
	r         *bytecode.Reader
	stack     []value.Value
	refStack  []reference
	cur       reference
	envStack  []heap.EnvIndex
	this      value.Value
	newTarget value.Value
}

// ResultKind discriminates the four-way completion spec.md §4.5 names:
// "Return(value), Throw(value), Yield{vm, yielded_value}, Await{vm,
// awaited_value}".
type ResultKind int

const (
	ResultReturn ResultKind = iota
	ResultThrow
	ResultYield
	ResultAwait
)

// ExecutionResult is what Run/Resume produce. Vm is non-nil exactly when
// Kind is ResultYield or ResultAwait, and is the handle a caller passes
// back to Resume/ThrowInto to continue execution past that suspension
// point.
type ExecutionResult struct {
	Kind  ResultKind
	Value value.Value
	Err   error
	Vm    *Vm
}

// RootValues implements gc.Root: a Vm's live value stack and this/
// new.target bindings must survive a collection cycle that runs while
// this Vm is parked mid-execution, e.g. internal/async.Generator's co
// field between .next() calls. refStack/cur hold no Values of their own
// (just an environment index and a binding name - see reference in
// reference.go), and environments are never swept (RemapRefs rewrites
// them unconditionally, and no environment tag has a vector in
// VectorLength/CompactVector), so they need no root coverage here.
func (v *Vm) RootValues() []value.Value {
	out := make([]value.Value, 0, len(v.stack)+2)
	out = append(out, v.stack...)
	out = append(out, v.this, v.newTarget)
	return out
}

func (v *Vm) Remap(fn func(value.Value) value.Value) {
	for i := range v.stack {
		v.stack[i] = fn(v.stack[i])
	}
	v.this = fn(v.this)
	v.newTarget = fn(v.newTarget)
}

func (e *Engine) newVm(exec *bytecode.Executable, env heap.EnvIndex, this value.Value, newTarget value.Value) *Vm {
	return &Vm{
		eng:       e,
		exec:      exec,
		r:         bytecode.NewReader(exec.Instructions),
		stack:     make([]value.Value, 0, 16),
		envStack:  []heap.EnvIndex{env},
		this:      this,
		newTarget: newTarget,
	}
}

// Run starts a fresh Vm over exec and drives it until it returns, throws,
// yields or awaits, per spec.md §4.5's "execute" entry point.
func (e *Engine) Run(exec *bytecode.Executable, env heap.EnvIndex, this value.Value, newTarget value.Value) ExecutionResult {
	res := e.newVm(exec, env, this, newTarget).step()
	e.settle(res)
	return res
}

// Resume continues a Vm previously suspended by OpYield/OpAwait, supplying
// resumeValue as that instruction's result, per spec.md §4.5's "the caller
// resumes by calling vm.resume(executable, resolution_value)".
func (v *Vm) Resume(resumeValue value.Value) ExecutionResult {
	v.stack = append(v.stack, resumeValue)
	res := v.step()
	if res.Kind != ResultYield && res.Kind != ResultAwait {
		v.eng.untrack(v)
	}
	v.eng.settle(res)
	return res
}

// ThrowInto resumes v by making the pending Yield/Await point throw
// instead of completing normally. The VM has no try/catch opcode yet (see
// bytecode.Compiler's TryStatement gap in compileStatement), so there is
// nothing inside the suspended body that could intercept this — it always
// propagates straight out as an uncaught throw, which also happens to be
// exactly AsyncGenerator.throw()'s observable behavior against a
// generator with no enclosing try block.
func (v *Vm) ThrowInto(thrown value.Value) ExecutionResult {
	v.eng.untrack(v)
	return ExecutionResult{
		Kind:  ResultThrow,
		Value: thrown,
		Err:   &ThrownError{Kind: "Error", Message: "generator received an unhandled throw completion", Value: thrown},
	}
}

// run is the backward-compatible entry point used by callECMAScriptFunction
// for ordinary (non-generator, non-async) function bodies: such a body is
// never expected to suspend, so a Yield/Await result here is a compiler/VM
// bug surfaced as an internal error rather than silently ignored.
func (e *Engine) run(exec *bytecode.Executable, env heap.EnvIndex, this value.Value, newTarget value.Value) (completion, error) {
	res := e.Run(exec, env, this, newTarget)
	switch res.Kind {
	case ResultReturn:
		return completion{value: res.Value}, nil
	case ResultThrow:
		return completion{}, res.Err
	default:
		return completion{}, e.typeError("function body suspended (yield/await) outside a generator or async function driver")
	}
}
