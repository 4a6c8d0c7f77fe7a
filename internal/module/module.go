// Package module implements the cyclic-module operations named in
// spec.md §4.7 on top of the heap's Module/ModuleRequest primitives:
// request interning, load-completion bookkeeping, namespace population
// and the Link/Evaluate status machine. Actual source resolution is left
// to a host-supplied Resolver, mirroring the teacher's pattern of taking
// a narrow host callback (api.ModuleConfig's FSConfig) rather than baking
// in a concrete filesystem/network strategy.
package module

import (
	"context"
	"fmt"

	"github.com/trynova/nova-sub003/internal/diag"
	"github.com/trynova/nova-sub003/internal/heap"
	"github.com/trynova/nova-sub003/internal/value"
)

// Resolver loads the module a (referrer, request) pair names. It is the
// host's job to turn a specifier into bytes, parse and compile them into
// a registered Module, and report the result back through
// FinishLoadingImportedModule — Resolver exists only so Link can drive
// that round-trip synchronously for the common case where the host
// resolves immediately rather than asynchronously.
type Resolver interface {
	ResolveModule(ctx context.Context, referrer heap.Index, req *heap.ModuleRequest) (heap.Index, error)
}

// Loader owns the module-graph operations for one heap. It holds no
// state of its own beyond what the heap already tracks, the same
// decoupling internal/vm.Engine draws between itself and internal/gc.
type Loader struct {
	Heap     *heap.Heap
	Listener diag.Listener
	Resolver Resolver
}

func (l *Loader) listener() diag.Listener {
	if l.Listener != nil {
		return l.Listener
	}
	return diag.NopListener{}
}

func (l *Loader) report(ctx context.Context, m *heap.Module, state diag.ModuleLinkState) {
	specifier := ""
	if len(m.RequestedModules) > 0 {
		specifier = l.Heap.ModuleRequests.Get(m.RequestedModules[0]).Specifier
	}
	l.listener().OnModuleLinkState(ctx, specifier, state)
}

// InternRequest wraps ModuleRequestTable.Intern so callers outside
// internal/heap never reach into the table directly.
func (l *Loader) InternRequest(specifier string, attrs []heap.Attribute) heap.Index {
	return l.Heap.ModuleRequests.Intern(specifier, attrs)
}

// GetImportedModule implements the read side of spec.md §4.7's
// referrer-owned LoadedModules table.
func (l *Loader) GetImportedModule(referrer heap.Index, request heap.Index) (heap.Index, bool) {
	m := l.Heap.Modules[referrer]
	idx, ok := m.LoadedModules[request]
	return idx, ok
}

// FinishLoadingImportedModule implements spec.md §4.7's completion
// callback: on success the resolved module is recorded in the referrer's
// LoadedModules (asserting any existing entry agrees), then either the
// static pending-count is decremented and its continuations run, or (no
// continuations registered, i.e. a dynamic import) the caller-supplied
// promise is settled.
func (l *Loader) FinishLoadingImportedModule(referrer heap.Index, request heap.Index, result heap.Index, loadErr error, dynamicPromise value.Value) error {
	m := l.Heap.Modules[referrer]
	if existing, ok := m.LoadedModules[request]; ok && loadErr == nil && existing != result {
		return fmt.Errorf("module: %s already resolved to a different module", l.Heap.ModuleRequests.Get(request).Specifier)
	}

	if !dynamicPromise.IsUndefined() {
		if loadErr != nil {
			l.Heap.RejectPromise(dynamicPromise, errorValue(l.Heap, loadErr))
			return nil
		}
		l.Heap.ResolvePromise(dynamicPromise, l.Heap.Modules[result].Namespace)
		return nil
	}

	if loadErr != nil {
		m.HasError = true
		m.EvaluationError = errorValue(l.Heap, loadErr)
		return loadErr
	}
	m.LoadedModules[request] = result
	m.PendingRequests--
	if m.PendingRequests <= 0 {
		cs := m.Continuations
		m.Continuations = nil
		for _, c := range cs {
			c()
		}
	}
	return nil
}

func errorValue(h *heap.Heap, err error) value.Value {
	ed := &heap.ErrorData{ObjectData: *heap.NewObjectData(value.Null()), Kind: "Error", Message: err.Error()}
	h.Errors = append(h.Errors, ed)
	return value.HeapIndex(value.TagError, uint32(len(h.Errors)-1))
}

// GetModuleNamespace lazily populates module's namespace object,
// resolving every exported name against the module's environment record
// and silently dropping any name two star-exports disagree on (spec.md
// §4.7: "ambiguous exports are filtered out silently").
func (l *Loader) GetModuleNamespace(module heap.Index) value.Value {
	m := l.Heap.Modules[module]
	if !m.Namespace.IsUndefined() {
		return m.Namespace
	}
	ns := l.Heap.NewOrdinaryObject(value.Null())
	seen := map[string]bool{}
	ambiguous := map[string]bool{}
	for _, name := range m.ExportNames {
		if seen[name] {
			ambiguous[name] = true
			continue
		}
		seen[name] = true
	}
	for _, name := range m.ExportNames {
		if ambiguous[name] {
			continue
		}
		val, ok, _ := l.Heap.GetBindingValue(m.Env, name)
		if !ok {
			continue
		}
		l.Heap.SetProperty(ns, heap.PropertyKey{Name: name}, val)
	}
	m.Namespace = ns
	return ns
}

// Link drives module through New/Unlinked/Linking/Linked, resolving each
// requested module transitively via Resolver and building its
// environment record. It stops at the first unresolved or already-erred
// dependency, per spec.md §4.7's "idempotent, spec-mandated transitions".
func (l *Loader) Link(ctx context.Context, module heap.Index) error {
	m := l.Heap.Modules[module]
	switch m.Status {
	case heap.ModuleLinking, heap.ModuleLinked,
		heap.ModuleEvaluating, heap.ModuleEvaluatingAsync, heap.ModuleEvaluated:
		return nil
	}
	if m.Status == heap.ModuleNew {
		m.Status = heap.ModuleUnlinked
	}
	m.Status = heap.ModuleLinking
	l.report(ctx, m, diag.ModuleLinking)

	if m.Env.IsNone() {
		realm := l.Heap.Realms[m.Realm]
		m.Env = l.Heap.NewDeclarativeEnvironment(realm.GlobalEnv)
	}

	for _, reqIdx := range m.RequestedModules {
		depIdx, ok := m.LoadedModules[reqIdx]
		if !ok {
			if l.Resolver == nil {
				m.Status = heap.ModuleUnlinked
				return fmt.Errorf("module: no resolver configured for %q", l.Heap.ModuleRequests.Get(reqIdx).Specifier)
			}
			req := l.Heap.ModuleRequests.Get(reqIdx)
			resolved, err := l.Resolver.ResolveModule(ctx, module, req)
			if err != nil {
				m.Status = heap.ModuleUnlinked
				return err
			}
			if err := l.FinishLoadingImportedModule(module, reqIdx, resolved, nil, value.Undefined()); err != nil {
				m.Status = heap.ModuleUnlinked
				return err
			}
			depIdx = resolved
		}
		if err := l.Link(ctx, depIdx); err != nil {
			m.Status = heap.ModuleUnlinked
			return err
		}
	}

	m.Status = heap.ModuleLinked
	l.report(ctx, m, diag.ModuleLinked)
	return nil
}

// linkStateOf maps heap.CyclicModuleStatus to diag.ModuleLinkState: the
// two enums are not numerically aligned (heap's carries an extra New
// state before Unlinked), so the conversion must go through this table
// rather than a bare numeric cast.
func linkStateOf(s heap.CyclicModuleStatus) diag.ModuleLinkState {
	switch s {
	case heap.ModuleLinking:
		return diag.ModuleLinking
	case heap.ModuleLinked:
		return diag.ModuleLinked
	case heap.ModuleEvaluating:
		return diag.ModuleEvaluating
	case heap.ModuleEvaluatingAsync:
		return diag.ModuleEvaluatingAsync
	case heap.ModuleEvaluated:
		return diag.ModuleEvaluated
	default:
		return diag.ModuleUnlinked
	}
}

// Evaluator runs a linked module's top-level body to completion,
// returning the module's own completion value (undefined for a
// synchronous module whose body never yields to the job queue).
// internal/vm supplies the implementation once it has a module-body
// executable to hand Evaluate; it is a function value here rather than
// an interface because its only caller (Evaluate below) needs exactly
// one operation.
type Evaluator func(ctx context.Context, env heap.EnvIndex) (value.Value, error)

// Evaluate drives module (and, transitively, every module it depends on
// that has not already evaluated) through Evaluating to Evaluated, per
// spec.md §4.7. async marks whether body's completion involves an Await,
// which maps the transient state to EvaluatingAsync instead of
// Evaluating for the duration of the call.
func (l *Loader) Evaluate(ctx context.Context, module heap.Index, body Evaluator, async bool) (value.Value, error) {
	m := l.Heap.Modules[module]
	if m.Status == heap.ModuleEvaluated {
		if m.HasError {
			return value.Undefined(), fmt.Errorf("module: %s", errMessage(l.Heap, m.EvaluationError))
		}
		return value.Undefined(), nil
	}
	for _, reqIdx := range m.RequestedModules {
		depIdx := m.LoadedModules[reqIdx]
		if _, err := l.Evaluate(ctx, depIdx, body, async); err != nil {
			return value.Undefined(), err
		}
	}

	if async {
		m.Status = heap.ModuleEvaluatingAsync
	} else {
		m.Status = heap.ModuleEvaluating
	}
	l.report(ctx, m, linkStateOf(m.Status))

	result, err := body(ctx, m.Env)
	m.Status = heap.ModuleEvaluated
	if err != nil {
		m.HasError = true
		m.EvaluationError = errorValue(l.Heap, err)
	}
	l.report(ctx, m, linkStateOf(m.Status))
	return result, err
}

func errMessage(h *heap.Heap, v value.Value) string {
	if v.Tag() != value.TagError {
		return "module evaluation failed"
	}
	return h.Errors[heap.Index(v.HeapIndexValue())].Message
}
