package ops

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/trynova/nova-sub003/internal/ast"
	"github.com/trynova/nova-sub003/internal/parser"
)

func functionBody(t *testing.T, source string) *ast.FunctionDeclaration {
	t.Helper()
	prog, err := parser.Parse(source)
	require.NoError(t, err)
	fn, ok := prog.Body[0].(*ast.FunctionDeclaration)
	require.True(t, ok)
	return fn
}

func TestContainsFindsArgumentsInOwnBody(t *testing.T) {
	fn := functionBody(t, "function f() { return arguments[0]; }")
	require.True(t, Contains(fn.Body, SymbolArguments))
}

func TestContainsDoesNotCrossNestedFunctionBoundary(t *testing.T) {
	fn := functionBody(t, "function f() { function g() { return arguments[0]; } return 1; }")
	require.False(t, Contains(fn.Body, SymbolArguments))
}

func TestContainsFindsYieldExpression(t *testing.T) {
	fn := functionBody(t, "function* f() { yield 1; }")
	require.True(t, Contains(fn.Body, SymbolYieldExpression))
}

func TestContainsFindsAwaitExpression(t *testing.T) {
	fn := functionBody(t, "async function f() { return await g(); }")
	require.True(t, Contains(fn.Body, SymbolAwaitExpression))
}

func TestContainsReturnsFalseWhenAbsent(t *testing.T) {
	fn := functionBody(t, "function f() { return 1 + 2; }")
	require.False(t, Contains(fn.Body, SymbolAwaitExpression))
	require.False(t, Contains(fn.Body, SymbolYieldExpression))
}
