package heap

import "github.com/trynova/nova-sub003/internal/value"

// Binding is one declarative-record slot: mutable/immutable flag and
// whether it has been initialized yet (TDZ tracking for let/const/class).
type Binding struct {
	Value       value.Value
	Mutable     bool
	Initialized bool
	Strict      bool
}

// DeclarativeEnvironment is the base shape shared by every environment
// record kind, per spec.md §3.2 "Environments: four parallel vectors".
type DeclarativeEnvironment struct {
	Outer    EnvIndex // -1 for the outermost (global) environment
	Bindings map[string]*Binding
	Live     bool
}

func newDeclarativeEnvironment(outer EnvIndex) DeclarativeEnvironment {
	return DeclarativeEnvironment{Outer: outer, Bindings: make(map[string]*Binding), Live: true}
}

// FunctionEnvironment additionally carries the spec-mandated this-binding
// status and, for arrow functions, no this slot at all (ThisBindingStatus
// == Lexical means GetThisBinding defers to Outer).
type FunctionEnvironment struct {
	DeclarativeEnvironment
	ThisValue      value.Value
	ThisStatus     ThisBindingStatus
	FunctionObject value.Value
	NewTarget      value.Value
}

type ThisBindingStatus int

const (
	ThisUninitialized ThisBindingStatus = iota
	ThisInitialized
	ThisLexical
)

// GlobalEnvironment additionally carries the global object and a set of
// var-declared names tracked separately from the object's own properties
// for HasRestrictedGlobalProperty checks.
type GlobalEnvironment struct {
	DeclarativeEnvironment
	GlobalObject   value.Value
	VarNames       map[string]bool
}

// ObjectEnvironment binds names through an arbitrary object's properties
// (the `with` statement, module namespace imports).
type ObjectEnvironment struct {
	Outer          EnvIndex
	BindingObject  value.Value
	IsWithEnv      bool
	Live           bool
}

// EnvKind discriminates which parallel vector an EnvIndex points into.
type EnvKind byte

const (
	EnvDeclarative EnvKind = iota
	EnvFunction
	EnvGlobal
	EnvObject
)

// EnvIndex is a typed index tagged with which of the four parallel
// environment vectors it names.
type EnvIndex struct {
	Kind EnvKind
	Idx  Index
}

var NoEnv = EnvIndex{Idx: ^Index(0)}

func (e EnvIndex) IsNone() bool { return e.Idx == ^Index(0) }

// Environments bundles the four parallel vectors named in spec.md §3.2.
type Environments struct {
	Declarative []*DeclarativeEnvironment
	Function    []*FunctionEnvironment
	Global      []*GlobalEnvironment
	Object      []*ObjectEnvironment
}

func (h *Heap) NewDeclarativeEnvironment(outer EnvIndex) EnvIndex {
	env := newDeclarativeEnvironment(outer)
	h.Environments.Declarative = append(h.Environments.Declarative, &env)
	return EnvIndex{Kind: EnvDeclarative, Idx: Index(len(h.Environments.Declarative) - 1)}
}

func (h *Heap) NewFunctionEnvironment(outer EnvIndex, thisStatus ThisBindingStatus) EnvIndex {
	env := &FunctionEnvironment{
		DeclarativeEnvironment: newDeclarativeEnvironment(outer),
		ThisStatus:             thisStatus,
	}
	h.Environments.Function = append(h.Environments.Function, env)
	return EnvIndex{Kind: EnvFunction, Idx: Index(len(h.Environments.Function) - 1)}
}

func (h *Heap) NewGlobalEnvironment(globalObject value.Value) EnvIndex {
	env := &GlobalEnvironment{
		DeclarativeEnvironment: newDeclarativeEnvironment(NoEnv),
		GlobalObject:           globalObject,
		VarNames:               make(map[string]bool),
	}
	h.Environments.Global = append(h.Environments.Global, env)
	return EnvIndex{Kind: EnvGlobal, Idx: Index(len(h.Environments.Global) - 1)}
}

func (h *Heap) NewObjectEnvironment(outer EnvIndex, bindingObject value.Value, isWith bool) EnvIndex {
	env := &ObjectEnvironment{Outer: outer, BindingObject: bindingObject, IsWithEnv: isWith, Live: true}
	h.Environments.Object = append(h.Environments.Object, env)
	return EnvIndex{Kind: EnvObject, Idx: Index(len(h.Environments.Object) - 1)}
}

// Declarative returns the DeclarativeEnvironment view shared by every
// non-object environment kind, for the binding-lookup walk that does not
// care about the function/global extra slots.
func (h *Heap) Declarative(ei EnvIndex) *DeclarativeEnvironment {
	switch ei.Kind {
	case EnvDeclarative:
		return h.Environments.Declarative[ei.Idx]
	case EnvFunction:
		return &h.Environments.Function[ei.Idx].DeclarativeEnvironment
	case EnvGlobal:
		return &h.Environments.Global[ei.Idx].DeclarativeEnvironment
	default:
		return nil
	}
}

func (h *Heap) OuterOf(ei EnvIndex) EnvIndex {
	if ei.Kind == EnvObject {
		return h.Environments.Object[ei.Idx].Outer
	}
	if d := h.Declarative(ei); d != nil {
		return d.Outer
	}
	return NoEnv
}

// CreateMutableBinding adds an uninitialized mutable binding named name to
// env, per spec.md §4.5/§3.2's "four parallel vectors" environment model.
func (h *Heap) CreateMutableBinding(env EnvIndex, name string) {
	d := h.Declarative(env)
	if d == nil {
		panic("heap: CreateMutableBinding on a non-declarative environment")
	}
	d.Bindings[name] = &Binding{Mutable: true}
}

// CreateImmutableBinding adds an uninitialized immutable binding (let-kind
// strictness tracked separately by the compiler; const bindings reject a
// second write once initialized).
func (h *Heap) CreateImmutableBinding(env EnvIndex, name string, strict bool) {
	d := h.Declarative(env)
	if d == nil {
		panic("heap: CreateImmutableBinding on a non-declarative environment")
	}
	d.Bindings[name] = &Binding{Mutable: false, Strict: strict}
}

// InitializeBinding gives an uninitialized binding its first value, clearing
// the TDZ state a let/const binding starts in.
func (h *Heap) InitializeBinding(env EnvIndex, name string, v value.Value) {
	d := h.Declarative(env)
	b, ok := d.Bindings[name]
	if !ok {
		panic("heap: InitializeBinding of an unknown binding " + name)
	}
	b.Value = v
	b.Initialized = true
}

// HasBinding reports whether env (not its outer chain) declares name.
func (h *Heap) HasBinding(env EnvIndex, name string) bool {
	if env.Kind == EnvObject {
		return false // object environments defer to the bound object; no consumer yet needs this path
	}
	d := h.Declarative(env)
	_, ok := d.Bindings[name]
	return ok
}

// GetBindingValue walks env's outer chain looking for name, returning
// ReferenceError-worthy failure via ok=false when it is nowhere bound, and
// reporting a still-uninitialized (TDZ) binding via tdz=true (it does not
// panic); the caller turns either case into a thrown ReferenceError.
func (h *Heap) GetBindingValue(env EnvIndex, name string) (v value.Value, ok bool, tdz bool) {
	for e := env; !e.IsNone(); e = h.OuterOf(e) {
		d := h.Declarative(e)
		if d == nil {
			continue
		}
		if b, found := d.Bindings[name]; found {
			if !b.Initialized {
				return value.Undefined(), true, true
			}
			return b.Value, true, false
		}
	}
	return value.Undefined(), false, false
}

// SetMutableBinding walks env's outer chain and writes v into the nearest
// binding named name, returning ok=false if no such binding exists anywhere
// in the chain and failIfConst=true if it exists but is immutable.
func (h *Heap) SetMutableBinding(env EnvIndex, name string, v value.Value) (ok bool, failIfConst bool) {
	for e := env; !e.IsNone(); e = h.OuterOf(e) {
		d := h.Declarative(e)
		if d == nil {
			continue
		}
		if b, found := d.Bindings[name]; found {
			if !b.Mutable {
				return true, true
			}
			b.Value = v
			b.Initialized = true
			return true, false
		}
	}
	return false, false
}

// ResolveEnvFor finds which environment in the chain starting at env binds
// name, or NoEnv if none does; used by ResolveBinding to build a Reference.
func (h *Heap) ResolveEnvFor(env EnvIndex, name string) EnvIndex {
	for e := env; !e.IsNone(); e = h.OuterOf(e) {
		if h.HasBinding(e, name) {
			return e
		}
	}
	return NoEnv
}
