package ast

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWalkVisitsProgramStatementsInOrder(t *testing.T) {
	prog := &Program{
		Body: []Statement{
			&ExpressionStatement{Expression: &Identifier{Name: "a"}},
			&ExpressionStatement{Expression: &Identifier{Name: "b"}},
		},
	}

	var names []string
	Walk(prog, func(n Node) bool {
		if id, ok := n.(*Identifier); ok {
			names = append(names, id.Name)
		}
		return true
	})

	require.Equal(t, []string{"a", "b"}, names)
}

func TestWalkStopsDescendingWhenVisitReturnsFalse(t *testing.T) {
	inner := &BlockStatement{Body: []Statement{
		&ExpressionStatement{Expression: &Identifier{Name: "inner"}},
	}}
	outer := &BlockStatement{Body: []Statement{
		inner,
		&ExpressionStatement{Expression: &Identifier{Name: "sibling"}},
	}}

	var names []string
	Walk(outer, func(n Node) bool {
		if id, ok := n.(*Identifier); ok {
			names = append(names, id.Name)
		}
		_, isBlock := n.(*BlockStatement)
		return !(isBlock && n != outer)
	})

	require.Equal(t, []string{"sibling"}, names)
}

func TestWalkDescendsThroughFunctionCommon(t *testing.T) {
	fn := &FunctionDeclaration{FunctionCommon: &FunctionCommon{
		ID: &Identifier{Name: "f"},
		Body: &BlockStatement{Body: []Statement{
			&ReturnStatement{Argument: &Identifier{Name: "x"}},
		}},
	}}

	var names []string
	Walk(fn, func(n Node) bool {
		if id, ok := n.(*Identifier); ok {
			names = append(names, id.Name)
		}
		return true
	})

	require.Equal(t, []string{"f", "x"}, names)
}

func TestWalkHandlesNilFunctionCommonWithoutPanicking(t *testing.T) {
	var fc *FunctionCommon
	require.NotPanics(t, func() {
		walkFunctionCommon(fc, func(Node) bool { return true })
	})
}

func TestWalkSkipsNilArrayPatternElements(t *testing.T) {
	pat := &ArrayPattern{Elements: []Pattern{nil, &Identifier{Name: "y"}}}

	var names []string
	Walk(pat, func(n Node) bool {
		if id, ok := n.(*Identifier); ok {
			names = append(names, id.Name)
		}
		return true
	})

	require.Equal(t, []string{"y"}, names)
}

func TestBaseSpanReportsStartAndEnd(t *testing.T) {
	id := &Identifier{base: base{Start: 3, End: 9}, Name: "foo"}
	start, end := id.Span()
	require.Equal(t, 3, start)
	require.Equal(t, 9, end)
}
