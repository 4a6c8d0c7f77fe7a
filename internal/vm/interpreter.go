package vm

import (
	"math"

	"github.com/trynova/nova-sub003/internal/bytecode"
	"github.com/trynova/nova-sub003/internal/heap"
	"github.com/trynova/nova-sub003/internal/ops"
	"github.com/trynova/nova-sub003/internal/value"
)

// completion is what run returns on a normal (non-thrown) path: the value
// of a Return, or the script's last-evaluated completion value.
type completion struct {
	value value.Value
}

// step interprets v's instruction stream from its current position, per
// spec.md §4.5, until it reaches a Return/Throw/Yield/Await point. A
// thrown value surfaces as a ResultThrow carrying a *ThrownError (see
// errors.go); OpYield/OpAwait suspend by returning v itself so the caller
// can later call v.Resume.
func (v *Vm) step() ExecutionResult {
	e := v.eng
	exec := v.exec
	r := v.r

	push := func(val value.Value) { v.stack = append(v.stack, val) }
	pop := func() value.Value {
		n := len(v.stack) - 1
		val := v.stack[n]
		v.stack = v.stack[:n]
		return val
	}
	peek := func() value.Value { return v.stack[len(v.stack)-1] }

	toPrimitive := func(val value.Value, _ ops.PreferredType) (value.Value, error) {
		if val.IsObject() {
			// No [Symbol.toPrimitive]/valueOf/toString dispatch yet (needs
			// a re-entrant Call through e.CallFunction, deferred until
			// property lookup can find those methods on an intrinsic
			// prototype chain that internal/builtins has not wired up).
			return value.SmallString("[object Object]"), nil
		}
		return val, nil
	}
	strToBigInt := func(s string) ([]uint32, bool, bool) { return nil, false, false }

	toPropertyKey := func(val value.Value) heap.PropertyKey {
		if val.IsString() {
			return heap.PropertyKey{Name: stringOf(e.Heap, val)}
		}
		if val.Tag() == value.TagSymbol {
			return heap.PropertyKey{IsSymbol: true, Symbol: heap.Index(val.HeapIndexValue())}
		}
		return heap.PropertyKey{Name: numberToString(ops.ToInt32(e.Heap, val))}
	}

	for !r.Done() {
		op, operand := r.Next()
		switch op {
		case bytecode.OpNop:

		case bytecode.OpLoadConstant:
			push(exec.Constants[operand])
		case bytecode.OpLoadUndefined:
			push(value.Undefined())
		case bytecode.OpLoadNull:
			push(value.Null())
		case bytecode.OpLoadBoolean:
			push(value.Boolean(operand != 0))
		case bytecode.OpPop:
			pop()
		case bytecode.OpDup:
			push(peek())

		case bytecode.OpResolveBinding:
			name := exec.Identifiers[operand]
			found := e.Heap.ResolveEnvFor(v.envStack[len(v.envStack)-1], name)
			v.cur = reference{env: found, name: name, resolved: !found.IsNone()}
		case bytecode.OpGetValue:
			if !v.cur.resolved {
				return v.throwResult(e.referenceError(v.cur.name))
			}
			val, ok, tdz := e.Heap.GetBindingValue(v.cur.env, v.cur.name)
			if !ok {
				return v.throwResult(e.referenceError(v.cur.name))
			}
			if tdz {
				return v.throwResult(e.throwError("ReferenceError", "cannot access %q before initialization", v.cur.name))
			}
			push(val)
		case bytecode.OpPutValue:
			val := pop()
			if !v.cur.resolved {
				// Sloppy-mode auto-global: an unresolved assignment target
				// creates a var-like binding on the global environment's
				// declarative record, per spec.md §4.5's PutValue fallback.
				global := v.envStack[0]
				e.Heap.CreateMutableBinding(global, v.cur.name)
				e.Heap.InitializeBinding(global, v.cur.name, val)
				break
			}
			ok, constFail := e.Heap.SetMutableBinding(v.cur.env, v.cur.name, val)
			if constFail {
				return v.throwResult(e.typeError("assignment to constant variable %q", v.cur.name))
			}
			if !ok {
				return v.throwResult(e.referenceError(v.cur.name))
			}
		case bytecode.OpInitializeReferencedBinding:
			val := pop()
			if _, ok, tdz := e.Heap.GetBindingValue(v.cur.env, v.cur.name); ok && !tdz {
				panic("vm: InitializeReferencedBinding on an already-initialized binding " + v.cur.name)
			}
			e.Heap.InitializeBinding(v.cur.env, v.cur.name, val)
		case bytecode.OpPushReference:
			v.refStack = append(v.refStack, v.cur)
		case bytecode.OpPopReference:
			v.cur = v.refStack[len(v.refStack)-1]
			v.refStack = v.refStack[:len(v.refStack)-1]

		case bytecode.OpAdd:
			y, x := pop(), pop()
			push(e.add(x, y))
		case bytecode.OpSubtract:
			y, x := pop(), pop()
			push(ops.Subtract(e.Heap, x, y))
		case bytecode.OpMultiply:
			y, x := pop(), pop()
			push(ops.Multiply(e.Heap, x, y))
		case bytecode.OpDivide:
			y, x := pop(), pop()
			push(ops.Divide(e.Heap, x, y))
		case bytecode.OpRemainder:
			y, x := pop(), pop()
			push(ops.Remainder(e.Heap, x, y))
		case bytecode.OpExponentiate:
			y, x := pop(), pop()
			push(ops.Exponentiate(e.Heap, x, y))
		case bytecode.OpBitwiseAnd:
			y, x := pop(), pop()
			push(ops.BitwiseAnd(e.Heap, x, y))
		case bytecode.OpBitwiseOr:
			y, x := pop(), pop()
			push(ops.BitwiseOr(e.Heap, x, y))
		case bytecode.OpBitwiseXor:
			y, x := pop(), pop()
			push(ops.BitwiseXor(e.Heap, x, y))
		case bytecode.OpShiftLeft:
			y, x := pop(), pop()
			push(ops.ShiftLeft(e.Heap, x, y))
		case bytecode.OpShiftRight:
			y, x := pop(), pop()
			push(ops.ShiftRight(e.Heap, x, y))
		case bytecode.OpUnsignedShiftRight:
			y, x := pop(), pop()
			push(ops.UnsignedShiftRight(e.Heap, x, y))
		case bytecode.OpLessThan:
			y, x := pop(), pop()
			res, err := ops.IsLessThan(e.Heap, x, y, true, toPrimitive, strToBigInt)
			if err != nil {
				return v.throwResult(err)
			}
			push(value.Boolean(!res.IsUndefined() && res.AsBoolean()))
		case bytecode.OpGreaterThan:
			y, x := pop(), pop()
			res, err := ops.IsLessThan(e.Heap, y, x, false, toPrimitive, strToBigInt)
			if err != nil {
				return v.throwResult(err)
			}
			push(value.Boolean(!res.IsUndefined() && res.AsBoolean()))
		case bytecode.OpLessOrEqual:
			// x <= y is !(y < x), undefined (NaN involved) counting as false.
			y, x := pop(), pop()
			res, err := ops.IsLessThan(e.Heap, y, x, false, toPrimitive, strToBigInt)
			if err != nil {
				return v.throwResult(err)
			}
			push(value.Boolean(!res.IsUndefined() && !res.AsBoolean()))
		case bytecode.OpGreaterOrEqual:
			// x >= y is !(x < y), undefined (NaN involved) counting as false.
			y, x := pop(), pop()
			res, err := ops.IsLessThan(e.Heap, x, y, true, toPrimitive, strToBigInt)
			if err != nil {
				return v.throwResult(err)
			}
			push(value.Boolean(!res.IsUndefined() && !res.AsBoolean()))
		case bytecode.OpStrictEquals:
			y, x := pop(), pop()
			push(value.Boolean(ops.IsStrictlyEqual(e.Heap, x, y)))
		case bytecode.OpStrictNotEquals:
			y, x := pop(), pop()
			push(value.Boolean(!ops.IsStrictlyEqual(e.Heap, x, y)))
		case bytecode.OpLooseEquals:
			y, x := pop(), pop()
			eq, err := ops.IsLooselyEqual(e.Heap, x, y, toPrimitive, strToBigInt)
			if err != nil {
				return v.throwResult(err)
			}
			push(value.Boolean(eq))
		case bytecode.OpLooseNotEquals:
			y, x := pop(), pop()
			eq, err := ops.IsLooselyEqual(e.Heap, x, y, toPrimitive, strToBigInt)
			if err != nil {
				return v.throwResult(err)
			}
			push(value.Boolean(!eq))
		case bytecode.OpLogicalNot:
			push(value.Boolean(!isTruthy(e.Heap, pop())))
		case bytecode.OpUnaryMinus:
			push(ops.Subtract(e.Heap, value.SmallInt(0), pop()))
		case bytecode.OpUnaryPlus:
			push(e.add(value.SmallInt(0), pop()))
		case bytecode.OpTypeof:
			push(value.SmallString(typeofName(pop())))
		case bytecode.OpVoid:
			pop()
			push(value.Undefined())
		case bytecode.OpIsNullish:
			push(value.Boolean(pop().IsNullOrUndefined()))

		case bytecode.OpJump:
			r.Seek(int(operand))
		case bytecode.OpJumpIfNot:
			if !isTruthy(e.Heap, pop()) {
				r.Seek(int(operand))
			}
		case bytecode.OpJumpIfTrue:
			if isTruthy(e.Heap, pop()) {
				r.Seek(int(operand))
			}

		case bytecode.OpYield:
			return ExecutionResult{Kind: ResultYield, Value: pop(), Vm: v}
		case bytecode.OpAwait:
			return ExecutionResult{Kind: ResultAwait, Value: pop(), Vm: v}

		case bytecode.OpEnterDeclarativeEnvironment:
			top := v.envStack[len(v.envStack)-1]
			v.envStack = append(v.envStack, e.Heap.NewDeclarativeEnvironment(top))
		case bytecode.OpExitDeclarativeEnvironment:
			v.envStack = v.envStack[:len(v.envStack)-1]
		case bytecode.OpCreateMutableBinding:
			e.Heap.CreateMutableBinding(v.envStack[len(v.envStack)-1], exec.Identifiers[operand])
		case bytecode.OpCreateImmutableBinding:
			e.Heap.CreateImmutableBinding(v.envStack[len(v.envStack)-1], exec.Identifiers[operand], true)

		case bytecode.OpInstantiateFunctionExpression:
			d := exec.FunctionExpressions[operand]
			fn := e.registerFunction(d.Name, d.ParamNames, d.ParamDefaults, d.HasRestParam, d.Length, d.Body, d.IsStrict, d.IsGenerator, d.IsAsync, d.HasArguments,
				v.envStack[len(v.envStack)-1], 0, value.Null())
			push(fn)
		case bytecode.OpInstantiateArrowFunctionExpression:
			d := exec.ArrowFunctions[operand]
			fn := e.registerFunction(d.Name, d.ParamNames, d.ParamDefaults, d.HasRestParam, d.Length, d.Body, d.IsStrict, false, d.IsAsync, false,
				v.envStack[len(v.envStack)-1], 0, value.Null())
			push(fn)

		case bytecode.OpCall:
			argc := int(operand)
			args := make([]value.Value, argc)
			for i := argc - 1; i >= 0; i-- {
				args[i] = pop()
			}
			callee := pop()
			res, err := e.CallFunction(callee, value.Undefined(), args)
			if err != nil {
				return v.throwResult(err)
			}
			push(res)
		case bytecode.OpNew:
			argc := int(operand)
			args := make([]value.Value, argc)
			for i := argc - 1; i >= 0; i-- {
				args[i] = pop()
			}
			callee := pop()
			res, err := e.Construct(callee, args)
			if err != nil {
				return v.throwResult(err)
			}
			push(res)
		case bytecode.OpReturn:
			return ExecutionResult{Kind: ResultReturn, Value: pop()}
		case bytecode.OpThrow:
			return v.throwResult(e.userThrow(pop()))

		case bytecode.OpNewObject:
			push(e.Heap.NewOrdinaryObject(value.Null()))
		case bytecode.OpNewArray:
			push(e.Heap.NewArray(value.Null()))
		case bytecode.OpGetProperty:
			key := pop()
			obj := pop()
			push(e.Heap.GetProperty(obj, toPropertyKey(key)))
		case bytecode.OpSetProperty:
			val := pop()
			key := pop()
			obj := peek()
			e.Heap.SetProperty(obj, toPropertyKey(key), val)
		case bytecode.OpGetMember:
			obj := pop()
			push(e.Heap.GetProperty(obj, heap.PropertyKey{Name: exec.Identifiers[operand]}))
		case bytecode.OpAppendElement:
			val := pop()
			arr := peek()
			e.Heap.AppendElement(arr, val)

		case bytecode.OpGetIteratorSync, bytecode.OpGetIteratorAsync:
			src := pop()
			iter, err := e.getIterator(src)
			if err != nil {
				return v.throwResult(err)
			}
			push(iter)
		case bytecode.OpIteratorStepValue:
			iter := pop()
			val, done := e.iteratorStep(iter)
			if done {
				r.Seek(int(operand))
			} else {
				push(val)
			}
		case bytecode.OpIteratorClose, bytecode.OpAsyncIteratorClose:
			// No Symbol.iterator/return() dispatch yet (every iterator
			// getIterator can produce today is a plain index walk with no
			// user-visible close hook); just drop the iterator reference.
			pop()
		case bytecode.OpIteratorPop:
			pop()

		default:
			panic("vm: unimplemented opcode " + op.String())
		}
	}
	if len(v.stack) > 0 {
		return ExecutionResult{Kind: ResultReturn, Value: v.stack[len(v.stack)-1]}
	}
	return ExecutionResult{Kind: ResultReturn, Value: value.Undefined()}
}

func (v *Vm) throwResult(err error) ExecutionResult {
	if te, ok := err.(*ThrownError); ok {
		return ExecutionResult{Kind: ResultThrow, Value: te.Value, Err: err}
	}
	return ExecutionResult{Kind: ResultThrow, Err: err}
}

func (e *Engine) add(x, y value.Value) value.Value {
	if x.IsString() || y.IsString() {
		return value.SmallString(stringOf(e.Heap, x) + stringOf(e.Heap, y))
	}
	return ops.Add(e.Heap, x, y)
}

func stringOf(h *heap.Heap, v value.Value) string {
	switch {
	case v.Tag() == value.TagSmallString:
		return v.AsSmallString()
	case v.IsString():
		return h.String(heap.Index(v.HeapIndexValue()))
	case v.IsUndefined():
		return "undefined"
	case v.IsNull():
		return "null"
	case v.Tag() == value.TagBoolean:
		if v.AsBoolean() {
			return "true"
		}
		return "false"
	case v.Tag() == value.TagSmallInt:
		return numberToString(int32(v.AsSmallInt()))
	default:
		return "" // heap numbers/objects: full ToString not yet wired through a reentrant Call
	}
}

func numberToString(n int32) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	u := uint32(n)
	if neg {
		u = uint32(-n)
	}
	var buf [12]byte
	i := len(buf)
	for u > 0 {
		i--
		buf[i] = byte('0' + u%10)
		u /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

func isTruthy(h *heap.Heap, v value.Value) bool {
	switch v.Tag() {
	case value.TagUndefined, value.TagNull:
		return false
	case value.TagBoolean:
		return v.AsBoolean()
	case value.TagSmallInt:
		return v.AsSmallInt() != 0
	case value.TagSmallFloat:
		f := float64(v.AsSmallFloat())
		return f != 0 && !math.IsNaN(f)
	case value.TagSmallString:
		return v.AsSmallString() != ""
	case value.TagHeapNumber:
		f := h.Number(heap.Index(v.HeapIndexValue()))
		return f != 0 && !math.IsNaN(f)
	case value.TagHeapString:
		return h.String(heap.Index(v.HeapIndexValue())) != ""
	default:
		return true // every object reference is truthy
	}
}

func typeofName(v value.Value) string {
	switch {
	case v.IsUndefined():
		return "undefined"
	case v.IsNull():
		return "object"
	case v.Tag() == value.TagBoolean:
		return "boolean"
	case v.IsNumber():
		return "number"
	case v.IsBigInt():
		return "bigint"
	case v.IsString():
		return "string"
	case v.IsSymbol():
		return "symbol"
	case v.IsFunction():
		return "function"
	default:
		return "object"
	}
}
