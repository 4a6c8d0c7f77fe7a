package bytecode

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/trynova/nova-sub003/internal/parser"
)

func compileSource(t *testing.T, source string) *Executable {
	t.Helper()
	prog, err := parser.Parse(source)
	require.NoError(t, err)
	return NewCompiler(source).CompileProgram(prog)
}

func TestCompileExpressionStatementEmitsPop(t *testing.T) {
	exec := compileSource(t, "1 + 2;")
	listing := Disassemble(exec)
	require.Contains(t, listing, "Add")
	require.Contains(t, listing, "Pop")
}

func TestCompileLetDeclarationEmitsMutableBindingAndIdentifier(t *testing.T) {
	exec := compileSource(t, "let x = 1;")
	require.Contains(t, exec.Identifiers, "x")
	listing := Disassemble(exec)
	require.Contains(t, listing, "CreateMutableBinding")
	require.Contains(t, listing, "InitializeReferencedBinding")
}

func TestCompileConstDeclarationEmitsImmutableBinding(t *testing.T) {
	exec := compileSource(t, "const y = 2;")
	listing := Disassemble(exec)
	require.Contains(t, listing, "CreateImmutableBinding")
}

func TestCompileIfStatementEmitsConditionalJump(t *testing.T) {
	exec := compileSource(t, "if (true) { 1; } else { 2; }")
	listing := Disassemble(exec)
	require.Contains(t, listing, "JumpIfNot")
	require.Contains(t, listing, "Jump ")
}

func TestCompileForLoopPatchesBreakAndContinueTargets(t *testing.T) {
	exec := compileSource(t, "for (let i = 0; i < 3; i = i + 1) { break; }")
	listing := Disassemble(exec)
	require.Contains(t, listing, "LessThan")
	// the loop's break jump must be patched to a real offset, not left at 0
	lines := strings.Split(listing, "\n")
	foundPatchedJump := false
	for _, l := range lines {
		if strings.Contains(l, "Jump ") && strings.Contains(l, "->") && !strings.Contains(l, "-> 0") {
			foundPatchedJump = true
		}
	}
	require.True(t, foundPatchedJump)
}

func TestCompileFunctionExpressionRegistersDescriptor(t *testing.T) {
	exec := compileSource(t, "let f = function(a) { return a; };")
	require.Len(t, exec.FunctionExpressions, 1)
	desc := exec.FunctionExpressions[0]
	require.Equal(t, []string{"a"}, desc.ParamNames)
}

func TestCompileArrowFunctionWithExpressionBody(t *testing.T) {
	exec := compileSource(t, "let f = (a) => a + 1;")
	require.Len(t, exec.ArrowFunctions, 1)
	desc := exec.ArrowFunctions[0]
	require.Equal(t, []string{"a"}, desc.ParamNames)
	require.Contains(t, Disassemble(desc.Body), "Return")
}

func TestCompileMemberExpressionNonComputedUsesGetMember(t *testing.T) {
	exec := compileSource(t, "a.b;")
	listing := Disassemble(exec)
	require.Contains(t, listing, "GetMember")
	require.Contains(t, exec.Identifiers, "b")
}

func TestCompileMemberExpressionComputedUsesGetProperty(t *testing.T) {
	exec := compileSource(t, "a[b];")
	listing := Disassemble(exec)
	require.Contains(t, listing, "GetProperty")
}

func TestCompileArrayLiteralWithElisionAppendsUndefined(t *testing.T) {
	exec := compileSource(t, "[1, , 3];")
	listing := Disassemble(exec)
	require.Equal(t, 3, strings.Count(listing, "AppendElement"))
}

func TestCompileBreakOutsideLoopPanics(t *testing.T) {
	require.Panics(t, func() {
		compileSource(t, "break;")
	})
}

func TestCompileBigIntLiteralDefersToMarkerConstant(t *testing.T) {
	exec := compileSource(t, "123n;")
	found := false
	for _, c := range exec.Constants {
		if c.IsString() && strings.HasPrefix(c.AsSmallString(), "n:") {
			found = true
		}
	}
	require.True(t, found)
}
