package ops

import "github.com/trynova/nova-sub003/internal/ast"

// Symbol names the syntax-directed ContainsSymbol scan, grounded on
// original_source/nova_vm/.../syntax_directed_operations/contains.rs per
// SPEC_FULL.md §4.12.
type Symbol int

const (
	SymbolArguments Symbol = iota
	SymbolSuperCall
	SymbolSuperProperty
	SymbolYieldExpression
	SymbolAwaitExpression
	SymbolNewTarget
)

// Contains implements the spec's syntax-directed Contains operation:
// does the subtree rooted at node contain a node that introduces sym,
// without crossing into a nested function boundary (which would rescope
// `arguments`/`new.target`/etc.).
func Contains(node ast.Node, sym Symbol) bool {
	found := false
	ast.Walk(node, func(n ast.Node) bool {
		if found {
			return false
		}
		switch sym {
		case SymbolArguments:
			if id, ok := n.(*ast.Identifier); ok && id.Name == "arguments" {
				found = true
			}
		case SymbolYieldExpression:
			if _, ok := n.(*ast.YieldExpression); ok {
				found = true
			}
		case SymbolAwaitExpression:
			if _, ok := n.(*ast.AwaitExpression); ok {
				found = true
			}
		case SymbolNewTarget:
			if nt, ok := n.(*ast.MetaProperty); ok && nt.Meta == "new" && nt.Property == "target" {
				found = true
			}
		}
		// Do not descend into a nested function's own scope: `arguments`,
		// `new.target`, bare `await`/`yield` all rebind there.
		if isFunctionBoundary(n) && n != node {
			return false
		}
		return true
	})
	return found
}

// ComputedPropertyContains is the entry point for a class's computed
// property key. It runs Contains unchanged and adds no check of its own
// (private-name references are not examined).
func ComputedPropertyContains(key ast.Node, sym Symbol) bool {
	return Contains(key, sym)
}

func isFunctionBoundary(n ast.Node) bool {
	switch n.(type) {
	case *ast.FunctionExpression, *ast.FunctionDeclaration, *ast.ArrowFunctionExpression:
		return true
	}
	return false
}
