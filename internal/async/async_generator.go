// Package async implements the AsyncGenerator resumption protocol and the
// Async-from-Sync iterator adapter from spec.md §4.6, driving the
// suspendable internal/vm.Vm produced by Engine.Run/Vm.Resume.
//
// Neither type here pumps a job queue on its own: spec.md §5 puts that
// responsibility on the host ("the host pumps the job queue ... to make
// progress"), so a pending Await is left attached to its Promise and
// PumpAwait must be called again once the host has settled it. This
// mirrors the teacher's own stance on host-owned scheduling loops
// (examples/wasi's explicit poll loop rather than an implicit one).
package async

import (
	"github.com/trynova/nova-sub003/internal/bytecode"
	"github.com/trynova/nova-sub003/internal/heap"
	"github.com/trynova/nova-sub003/internal/value"
	"github.com/trynova/nova-sub003/internal/vm"
)

// State names the AsyncGenerator states from spec.md §4.6. AwaitingReturn
// is folded in alongside the five spec-named states as the state an
// Await suspension parks in until PumpAwait resumes it.
type State int

const (
	SuspendedStart State = iota
	SuspendedYield
	Executing
	DrainingQueue
	AwaitingReturn
	Completed
)

// CompletionKind discriminates the three ways a caller can resume a
// generator: next(), throw() and return().
type CompletionKind int

const (
	Ok CompletionKind = iota
	Err
	Return
)

// Completion is one AsyncGeneratorRequest's input completion.
type Completion struct {
	Kind  CompletionKind
	Value value.Value
}

type request struct {
	completion Completion
	promise    value.Value
}

// Generator drives one suspendable ECMAScript function body as an async
// generator, per spec.md §4.6's numbered resumption protocol.
type Generator struct {
	eng   *vm.Engine
	exec  *bytecode.Executable
	env   heap.EnvIndex
	this  value.Value
	proto value.Value

	state State
	queue []*request
	co    *vm.Vm

	// pendingAwait is the promise an AwaitingReturn state is parked on;
	// nil outside that state.
	pendingAwait value.Value
}

// New constructs a Generator over exec, ready to run from SuspendedStart.
func New(eng *vm.Engine, exec *bytecode.Executable, env heap.EnvIndex, this value.Value, proto value.Value) *Generator {
	return &Generator{eng: eng, exec: exec, env: env, this: this, proto: proto, state: SuspendedStart}
}

func (g *Generator) heap() *heap.Heap { return g.eng.Heap }

// Next, Throw and Return each enqueue an AsyncGeneratorRequest and return
// its promise capability, resuming the generator immediately if it was
// idle.
func (g *Generator) Next(v value.Value) value.Value    { return g.enqueue(Completion{Kind: Ok, Value: v}) }
func (g *Generator) Throw(v value.Value) value.Value   { return g.enqueue(Completion{Kind: Err, Value: v}) }
func (g *Generator) Return(v value.Value) value.Value  { return g.enqueue(Completion{Kind: Return, Value: v}) }

func (g *Generator) enqueue(c Completion) value.Value {
	p := g.heap().NewPromise(value.Null())
	g.queue = append(g.queue, &request{completion: c, promise: p})
	if g.state == SuspendedStart || g.state == SuspendedYield {
		g.resume()
	}
	return p
}

// resume implements steps 1-3 of spec.md §4.6's protocol: take the head
// request, transition to Executing, and drive the VM with it.
func (g *Generator) resume() {
	head := g.queue[0]

	if g.co == nil {
		if head.completion.Kind != Ok {
			// The body never ran, so there is nothing to unwind: a
			// throw()/return() against a fresh generator settles its
			// request immediately without entering user code. state
			// stays SuspendedStart so afterSettle can still try the
			// next queued request.
			g.finishHead(head.completion.Value, head.completion.Kind == Return, nil)
			g.afterSettle()
			return
		}
		g.state = Executing
		g.handle(g.eng.Run(g.exec, g.env, g.this, value.Undefined()))
		return
	}

	g.state = Executing
	switch head.completion.Kind {
	case Ok:
		g.handle(g.co.Resume(head.completion.Value))
	case Err:
		g.handle(g.co.ThrowInto(head.completion.Value))
	case Return:
		// No try/finally unwinding exists in the VM yet (see
		// bytecode.Compiler's TryStatement gap), so a forced return
		// can't re-enter the suspended body to run cleanup code; it
		// completes the generator directly with the given value.
		g.handle(vm.ExecutionResult{Kind: vm.ResultReturn, Value: head.completion.Value})
	}
}

// handle dispatches on the VM's completion kind per steps 4-7.
func (g *Generator) handle(res vm.ExecutionResult) {
	switch res.Kind {
	case vm.ResultReturn:
		g.state = DrainingQueue
		g.finishHead(res.Value, true, nil)
		g.drainQueue()
	case vm.ResultThrow:
		g.finishHead(value.Undefined(), false, res.Err)
		if len(g.queue) == 0 {
			g.state = Completed
		} else {
			g.drainQueue()
		}
	case vm.ResultYield:
		g.co = res.Vm
		g.state = SuspendedYield
		g.finishHead(res.Value, false, nil)
		g.afterSettle()
	case vm.ResultAwait:
		g.co = res.Vm
		g.state = AwaitingReturn
		g.pendingAwait = g.resolveAwaited(res.Value)
		g.tryPumpAwait()
	}
}

// resolveAwaited implements PromiseResolve's fast path: a non-thenable
// value becomes an already-fulfilled promise so PumpAwait has a uniform
// Promise to inspect regardless of what was awaited.
func (g *Generator) resolveAwaited(v value.Value) value.Value {
	if v.Tag() == value.TagPromise {
		return v
	}
	p := g.heap().NewPromise(value.Null())
	g.heap().ResolvePromise(p, v)
	return p
}

// PumpAwait re-checks a parked Await's promise and, if it has settled,
// resumes the generator with the fulfillment value or rejects into it
// with the rejection reason. It is a no-op when the generator is not
// currently AwaitingReturn or the promise is still pending — the host is
// expected to call it again after further settling its job queue.
func (g *Generator) PumpAwait() {
	g.tryPumpAwait()
}

func (g *Generator) tryPumpAwait() {
	if g.state != AwaitingReturn {
		return
	}
	pd := g.heap().Promises[heap.Index(g.pendingAwait.HeapIndexValue())]
	switch pd.State {
	case heap.PromiseFulfilled:
		g.pendingAwait = value.Value{}
		g.state = Executing
		g.handle(g.co.Resume(pd.Result))
	case heap.PromiseRejected:
		g.pendingAwait = value.Value{}
		g.state = Executing
		g.handle(g.co.ThrowInto(pd.Result))
	}
}

// drainQueue implements the tail of steps 4/5: once the body has finished,
// every request still queued is settled without resuming it. A Return
// resolves with `{ value, done: true }`, a Throw rejects with its value,
// and a next resolves with `{ undefined, done: true }`. The generator is
// then Completed.
func (g *Generator) drainQueue() {
	for len(g.queue) > 0 {
		head := g.queue[0]
		switch head.completion.Kind {
		case Return:
			g.finishHead(head.completion.Value, true, nil)
		case Err:
			g.finishHead(value.Undefined(), false, &vm.ThrownError{Value: head.completion.Value})
		default:
			g.finishHead(value.Undefined(), true, nil)
		}
	}
	g.state = Completed
}

// afterSettle is called once finishHead has popped the just-completed
// request off the queue; if another request is already waiting and the
// generator is idle (Suspended*), it immediately resumes for that request
// too, rather than waiting for another Next/Throw/Return call.
func (g *Generator) afterSettle() {
	if len(g.queue) > 0 && (g.state == SuspendedStart || g.state == SuspendedYield) {
		g.resume()
	}
}

// finishHead settles the queue's head request's promise with an iterator
// result `{ value, done }`, or rejects it with err's thrown value.
func (g *Generator) finishHead(v value.Value, done bool, err error) {
	head := g.queue[0]
	h := g.heap()
	if err != nil {
		var thrown value.Value
		if te, ok := err.(*vm.ThrownError); ok {
			thrown = te.Value
		}
		h.RejectPromise(head.promise, thrown)
	} else {
		result := h.NewOrdinaryObject(value.Null())
		h.SetProperty(result, heap.PropertyKey{Name: "value"}, v)
		h.SetProperty(result, heap.PropertyKey{Name: "done"}, value.Boolean(done))
		h.ResolvePromise(head.promise, result)
	}
	g.queue = g.queue[1:]
}

// State reports the generator's current spec.md §4.6 state, for tests and
// diagnostics.
func (g *Generator) State() State { return g.state }
