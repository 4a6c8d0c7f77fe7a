package vm

import (
	"github.com/trynova/nova-sub003/internal/heap"
	"github.com/trynova/nova-sub003/internal/value"
)

// CallFunction implements the ECMAScript Call abstract operation for the
// function kinds the VM currently knows how to invoke: builtin (a Go
// closure) and plain ECMAScript functions. Generator/async/bound functions
// are internal/async's and internal/builtins's job to layer on top of this
// once those packages exist; calling one here is a clear, named failure
// rather than a silent no-op.
func (e *Engine) CallFunction(callee value.Value, thisArg value.Value, args []value.Value) (value.Value, error) {
	if !callee.IsFunction() {
		return value.Undefined(), e.typeError("value is not a function")
	}
	fd := e.Heap.Functions[heap.Index(callee.HeapIndexValue())]
	switch fd.Kind {
	case heap.FunctionBuiltin, heap.FunctionBuiltinConstructor:
		return fd.Go(args, thisArg)
	case heap.FunctionECMAScript:
		return e.callECMAScriptFunction(fd, thisArg, args, value.Undefined())
	default:
		return value.Undefined(), e.typeError("calling %s functions is not yet supported", fd.Kind)
	}
}

// Construct implements the [[Construct]] internal method for ordinary
// functions: a fresh object is linked to callee's own "prototype" property
// (falling back to Null, per OrdinaryCreateFromConstructor) and used as
// `this`; an explicit object return from the body overrides it, per
// spec.md §4.1's OrdinaryCreateFromConstructor / Construct duo.
func (e *Engine) Construct(callee value.Value, args []value.Value) (value.Value, error) {
	if !callee.IsFunction() {
		return value.Undefined(), e.typeError("value is not a constructor")
	}
	fd := e.Heap.Functions[heap.Index(callee.HeapIndexValue())]
	if fd.Kind == heap.FunctionECMAScript && !fd.IsConstructor {
		return value.Undefined(), e.typeError("%s is not a constructor", fd.Name)
	}
	proto := e.Heap.GetProperty(callee, heap.PropertyKey{Name: "prototype"})
	if !proto.IsObject() {
		proto = value.Null()
	}
	obj := e.Heap.NewOrdinaryObject(proto)
	switch fd.Kind {
	case heap.FunctionBuiltinConstructor:
		return fd.Go(args, obj)
	case heap.FunctionECMAScript:
		res, err := e.callECMAScriptFunction(fd, obj, args, callee)
		if err != nil {
			return value.Undefined(), err
		}
		if res.IsObject() {
			return res, nil
		}
		return obj, nil
	default:
		return value.Undefined(), e.typeError("%s is not a constructor", fd.Name)
	}
}

// callECMAScriptFunction runs a simplified FunctionDeclarationInstantiation
// (spec.md §4.5's 36-step algorithm, reduced here to its common case: each
// positional parameter becomes a mutable binding, `this`/`arguments` are
// bound when the descriptor calls for them). Destructuring parameters are
// not modeled yet — compileParams degrades a non-identifier param slot to
// "", so this loop simply skips binding that slot; default values and a
// trailing rest parameter are bound per spec.md §4.4.1.
func (e *Engine) callECMAScriptFunction(fd *heap.FunctionData, thisArg value.Value, args []value.Value, newTarget value.Value) (value.Value, error) {
	fn := e.functions[fd.ExecutableIndex]
	env := e.Heap.NewFunctionEnvironment(fd.Environment, heap.ThisInitialized)
	fe := e.Heap.Environments.Function[env.Idx]
	fe.ThisValue = thisArg
	fe.FunctionObject = value.Undefined()
	fe.NewTarget = newTarget

	restIdx := -1
	if fn.HasRestParam {
		restIdx = len(fn.ParamNames) - 1
	}
	for i, name := range fn.ParamNames {
		if name == "" {
			continue
		}
		if i == restIdx {
			restArr := e.Heap.NewArray(value.Null())
			for _, a := range args[min(i, len(args)):] {
				e.Heap.AppendElement(restArr, a)
			}
			e.Heap.CreateMutableBinding(env, name)
			e.Heap.InitializeBinding(env, name, restArr)
			continue
		}
		var v value.Value
		if i < len(args) {
			v = args[i]
		} else {
			v = value.Undefined()
		}
		if v.IsUndefined() && i < len(fn.ParamDefaults) && fn.ParamDefaults[i] != nil {
			c, err := e.run(fn.ParamDefaults[i], env, thisArg, newTarget)
			if err != nil {
				return value.Undefined(), err
			}
			v = c.value
		}
		e.Heap.CreateMutableBinding(env, name)
		e.Heap.InitializeBinding(env, name, v)
	}
	if fn.HasArguments {
		argsObj := e.Heap.NewArray(value.Null())
		for _, a := range args {
			e.Heap.AppendElement(argsObj, a)
		}
		e.Heap.CreateMutableBinding(env, "arguments")
		e.Heap.InitializeBinding(env, "arguments", argsObj)
	}

	c, err := e.run(fn.Body, env, thisArg, newTarget)
	if err != nil {
		return value.Undefined(), err
	}
	return c.value, nil
}
