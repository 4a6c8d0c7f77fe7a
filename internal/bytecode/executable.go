package bytecode

import "github.com/trynova/nova-sub003/internal/value"

// FunctionExpressionDescriptor names a nested function expression's own
// compiled body plus enough syntax-directed facts (gathered by
// internal/ops.Contains over its parameter list and body) to drive
// FunctionDeclarationInstantiation without re-walking the AST at call
// time.
type FunctionExpressionDescriptor struct {
	Name       string
	ParamNames []string
	// ParamDefaults runs parallel to ParamNames; a non-nil entry is a
	// default value Executable evaluated (in the parameter environment,
	// so it can see earlier parameters) when that positional argument is
	// missing or undefined.
	ParamDefaults []*Executable
	// HasRestParam marks the last ParamNames entry as binding every
	// trailing argument as an array, per spec.md §4.4.1's rest parameter.
	HasRestParam bool
	// Length is Function.prototype's own "length" value: the count of
	// parameters before the first default value or the rest parameter.
	Length       int
	Body         *Executable
	IsStrict     bool
	IsGenerator  bool
	IsAsync      bool
	HasArguments bool // ops.Contains(param, SymbolArguments) for any param, or for the body
}

// ArrowFunctionDescriptor is the arrow-function analogue: arrows never
// bind their own `this`/`arguments`/`super`/`new.target`, so unlike
// FunctionExpressionDescriptor there is no this-mode field.
type ArrowFunctionDescriptor struct {
	Name          string
	ParamNames    []string
	ParamDefaults []*Executable
	HasRestParam  bool
	Length        int
	Body          *Executable
	IsStrict      bool
	IsAsync       bool
}

// ClassInitializerDescriptor pairs a compiled computed-key/field
// initializer executable with whether the class it belongs to extends a
// superclass (spec.md §4.4.3: "evaluated with `this` bound to the newly
// created prototype/instance").
type ClassInitializerDescriptor struct {
	Body           *Executable
	HasSuperClass  bool
}

// Executable owns a compiled function or top-level script/module body:
// the boxed instruction stream, its constants pool, an identifier-name
// pool (for ResolveBinding/CreateMutableBinding operands), and the
// nested-function side tables, per spec.md §3.3.
type Executable struct {
	Instructions []byte
	Constants    []value.Value
	Identifiers  []string

	FunctionExpressions []*FunctionExpressionDescriptor
	ArrowFunctions      []*ArrowFunctionDescriptor
	ClassInitializers   []*ClassInitializerDescriptor

	// SourceText is retained for Function.prototype.toString and for
	// diagnostic listeners that want to report a snippet.
	SourceText string
}
