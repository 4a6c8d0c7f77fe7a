package vm

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/trynova/nova-sub003/internal/bytecode"
	"github.com/trynova/nova-sub003/internal/config"
	"github.com/trynova/nova-sub003/internal/gc"
	"github.com/trynova/nova-sub003/internal/heap"
	"github.com/trynova/nova-sub003/internal/parser"
	"github.com/trynova/nova-sub003/internal/value"
)

func runSource(t *testing.T, source string) (*Engine, heap.Index) {
	t.Helper()
	e := NewEngine(config.NewAgentOptions())
	realm := e.NewRealm()
	prog, err := parser.Parse(source)
	require.NoError(t, err)
	exec := bytecode.NewCompiler(source).CompileProgram(prog)
	_, err = e.RunScript(exec, realm)
	require.NoError(t, err)
	return e, realm
}

func TestRunScriptBindsGlobalLetAcrossStatements(t *testing.T) {
	e, realm := runSource(t, "let x = 2; let y = x + 3;")
	v, ok, _ := e.Heap.GetBindingValue(e.Heap.Realms[realm].GlobalEnv, "y")
	require.True(t, ok)
	require.Equal(t, value.SmallInt(5), v)
}

func TestRunScriptCallsFunctionExpression(t *testing.T) {
	e, realm := runSource(t, "let add = function(a, b) { return a + b; }; let result = add(2, 3);")
	v, ok, _ := e.Heap.GetBindingValue(e.Heap.Realms[realm].GlobalEnv, "result")
	require.True(t, ok)
	require.Equal(t, value.SmallInt(5), v)
}

func TestRunScriptCallsArrowFunction(t *testing.T) {
	e, realm := runSource(t, "let square = (n) => n * n; let result = square(4);")
	v, ok, _ := e.Heap.GetBindingValue(e.Heap.Realms[realm].GlobalEnv, "result")
	require.True(t, ok)
	require.Equal(t, value.SmallInt(16), v)
}

func TestRunScriptForLoopAccumulatesSum(t *testing.T) {
	e, realm := runSource(t, "let sum = 0; for (let i = 0; i < 5; i = i + 1) { sum = sum + i; }")
	v, ok, _ := e.Heap.GetBindingValue(e.Heap.Realms[realm].GlobalEnv, "sum")
	require.True(t, ok)
	require.Equal(t, value.SmallInt(10), v)
}

func TestRunScriptThrowReturnsThrownError(t *testing.T) {
	e := NewEngine(config.NewAgentOptions())
	realm := e.NewRealm()
	prog, err := parser.Parse(`throw "boom";`)
	require.NoError(t, err)
	exec := bytecode.NewCompiler(`throw "boom";`).CompileProgram(prog)

	_, err = e.RunScript(exec, realm)
	require.Error(t, err)
	thrown, ok := err.(*ThrownError)
	require.True(t, ok)
	require.Equal(t, "boom", thrown.Value.String())
}

func TestCallFunctionRejectsNonFunctionCallee(t *testing.T) {
	e := NewEngine(config.NewAgentOptions())
	_, err := e.CallFunction(value.SmallInt(1), value.Undefined(), nil)
	require.Error(t, err)
	thrown, ok := err.(*ThrownError)
	require.True(t, ok)
	require.Equal(t, "TypeError", thrown.Kind)
}

func TestConstructReturnsExplicitObjectFromConstructorBody(t *testing.T) {
	e, realm := runSource(t, `
		let Point = function(x) { return { x: x }; };
		let p = new Point(5);
	`)
	v, ok, _ := e.Heap.GetBindingValue(e.Heap.Realms[realm].GlobalEnv, "p")
	require.True(t, ok)
	require.True(t, v.IsObject())
	require.Equal(t, value.SmallInt(5), e.Heap.GetProperty(v, heap.PropertyKey{Name: "x"}))
}

func TestRunScriptBindsDefaultAndRestParameters(t *testing.T) {
	e, realm := runSource(t, `
		function f(a, b = 1, ...r) { return r.length + b + a; }
		let result = f(10, 2, 3, 4);
	`)
	v, ok, _ := e.Heap.GetBindingValue(e.Heap.Realms[realm].GlobalEnv, "result")
	require.True(t, ok)
	require.Equal(t, value.SmallInt(14), v)
}

func TestRunScriptAppliesDefaultParameterWhenArgumentOmitted(t *testing.T) {
	e, realm := runSource(t, `
		function f(a, b = a + 1) { return b; }
		let result = f(10);
	`)
	v, ok, _ := e.Heap.GetBindingValue(e.Heap.Realms[realm].GlobalEnv, "result")
	require.True(t, ok)
	require.Equal(t, value.SmallInt(11), v)
}

func TestRunScriptOptionalChainShortCircuitsWholeChain(t *testing.T) {
	e, realm := runSource(t, `
		let obj = void 0;
		let result = obj?.a.b.c;
	`)
	v, ok, _ := e.Heap.GetBindingValue(e.Heap.Realms[realm].GlobalEnv, "result")
	require.True(t, ok)
	require.True(t, v.IsUndefined())
}

func TestRunScriptOptionalChainEvaluatesNormallyWhenNotNullish(t *testing.T) {
	e, realm := runSource(t, `
		let obj = { a: { b: 5 } };
		let result = obj?.a.b;
	`)
	v, ok, _ := e.Heap.GetBindingValue(e.Heap.Realms[realm].GlobalEnv, "result")
	require.True(t, ok)
	require.Equal(t, value.SmallInt(5), v)
}

func TestRunScriptOptionalCallShortCircuitsOnMissingMethod(t *testing.T) {
	e, realm := runSource(t, `
		let obj = {};
		let result = obj.method?.(1, 2);
	`)
	v, ok, _ := e.Heap.GetBindingValue(e.Heap.Realms[realm].GlobalEnv, "result")
	require.True(t, ok)
	require.True(t, v.IsUndefined())
}

func TestMaybeCollectRunsCycleOnceWatermarkIsExceeded(t *testing.T) {
	opts := config.NewAgentOptions().WithGCWatermark(1)
	e := NewEngine(opts)
	e.Heap.NewOrdinaryObject(value.Null())

	var root noRootsRoot
	require.NotPanics(t, func() { e.MaybeCollect([]gc.Root{root}) })
}

type noRootsRoot struct{}

func (noRootsRoot) RootValues() []value.Value        { return nil }
func (noRootsRoot) Remap(func(value.Value) value.Value) {}
