package heap

import "github.com/trynova/nova-sub003/internal/value"

// FunctionKind discriminates the eight function heap variants named in
// spec.md §3.1.
type FunctionKind byte

const (
	FunctionBound FunctionKind = iota
	FunctionBuiltin
	FunctionBuiltinConstructor
	FunctionECMAScript
	FunctionBuiltinPromiseResolving
	FunctionBuiltinPromiseCollector
	FunctionBuiltinProxyRevoker
	FunctionBuiltinGenerator
)

var functionKindNames = [...]string{
	"bound", "builtin", "builtin-constructor", "ECMAScript",
	"builtin-promise-resolving", "builtin-promise-collector",
	"builtin-proxy-revoker", "builtin-generator",
}

func (k FunctionKind) String() string {
	if int(k) < len(functionKindNames) {
		return functionKindNames[k]
	}
	return "unknown"
}

// GoFunc is a host-defined function body, structurally the same bridge as
// the teacher's api.GoFunction: a Go closure invoked with the call's
// arguments and returning a result-or-throw. Grounded on
// tetratelabs-wazero's FunctionDefinition.GoFunc() / host-function bridge
// (api/wasm.go) per SPEC_FULL.md §4.11.
type GoFunc func(args []value.Value, thisArg value.Value) (value.Value, error)

// FunctionData is the shared shape for every function heap kind. Only the
// fields relevant to Kind are populated; this mirrors the teacher's single
// FunctionInstance struct carrying both Wasm-defined and host-defined
// shapes (internal/wasm/store_test.go's FunctionInstance literal).
type FunctionData struct {
	ObjectData
	Kind FunctionKind

	Name   string
	Length int

	// ECMAScriptFunction slots.
	ExecutableIndex int // index into the owning Script/Realm's executable table
	Environment     EnvIndex
	PrivateEnv      int
	Realm           Index
	HomeObject      value.Value
	IsConstructor   bool
	IsStrict        bool
	ThisMode        ThisBindingStatus

	// BoundFunction slots.
	BoundTarget    value.Value
	BoundThis      value.Value
	BoundArguments []value.Value

	// BuiltinFunction / BuiltinConstructorFunction slots.
	Go GoFunc
}

func (h *Heap) NewBuiltinFunction(name string, length int, fn GoFunc, proto value.Value) Index {
	fd := &FunctionData{
		ObjectData: *NewObjectData(proto),
		Kind:       FunctionBuiltin,
		Name:       name,
		Length:     length,
		Go:         fn,
	}
	h.Functions = append(h.Functions, fd)
	return Index(len(h.Functions) - 1)
}
