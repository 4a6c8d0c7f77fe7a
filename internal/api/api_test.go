package api

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/trynova/nova-sub003/internal/config"
	"github.com/trynova/nova-sub003/internal/heap"
	"github.com/trynova/nova-sub003/internal/rootable"
)

func newTestAgent(t *testing.T) *Agent {
	t.Helper()
	return NewAgent(config.NewAgentOptions(), nil)
}

func TestScriptEvaluationBindsGlobalLetDeclaration(t *testing.T) {
	a := newTestAgent(t)
	realm := a.CreateRealm()

	script, err := a.ParseScript("let x = 1 + 2;", realm, nil)
	require.NoError(t, err)

	_, err = a.ScriptEvaluation(script)
	require.NoError(t, err)

	v, ok, _ := a.Engine.Heap.GetBindingValue(a.Engine.Heap.Realms[realm].GlobalEnv, "x")
	require.True(t, ok)
	require.Equal(t, int64(3), v.AsSmallInt())
}

func TestScriptEvaluationSeesInstalledGlobals(t *testing.T) {
	a := newTestAgent(t)
	realm := a.CreateRealm()

	script, err := a.ParseScript("let arr = []; arr.push(1); arr.push(2); let result = arr.join();", realm, nil)
	require.NoError(t, err)

	_, err = a.ScriptEvaluation(script)
	require.NoError(t, err)

	v, ok, _ := a.Engine.Heap.GetBindingValue(a.Engine.Heap.Realms[realm].GlobalEnv, "result")
	require.True(t, ok)
	require.Equal(t, "1,2", v.String())
}

func TestSetRealmGlobalObjectReplacesGlobal(t *testing.T) {
	a := newTestAgent(t)
	realm := a.CreateRealm()
	before := a.Engine.Heap.Realms[realm].GlobalObject

	a.SetRealmGlobalObject(realm, a.Engine.Heap.NewOrdinaryObject(before))

	after := a.Engine.Heap.Realms[realm].GlobalObject
	require.NotEqual(t, before, after)
}

func TestModuleLinkAndEvaluateRunsTopLevelBody(t *testing.T) {
	a := newTestAgent(t)
	realm := a.CreateRealm()

	m, err := a.ParseModule("1;", realm)
	require.NoError(t, err)

	require.NoError(t, a.Link(context.Background(), m))
	require.NoError(t, err)

	_, err = a.Evaluate(context.Background(), m)
	require.NoError(t, err)
	require.Equal(t, heap.ModuleEvaluated, a.Engine.Heap.Modules[m.heapIndex].Status)
}

func TestNewGlobalPinsValueAcrossArena(t *testing.T) {
	a := newTestAgent(t)
	realm := a.CreateRealm()
	obj := a.Engine.Heap.NewOrdinaryObject(a.Engine.Heap.Realms[realm].GlobalObject)

	g := a.NewGlobal(obj)
	require.Equal(t, obj, g.Take())
	g.Drop()
}

func TestNewScopePinsAndReleasesScopedHandles(t *testing.T) {
	a := newTestAgent(t)
	realm := a.CreateRealm()
	obj := a.Engine.Heap.NewOrdinaryObject(a.Engine.Heap.Realms[realm].GlobalObject)

	scope := a.NewScope()
	scoped := rootable.NewScoped(scope, obj)
	require.Equal(t, obj, scoped.Get())
	scope.Close()
}

func TestRootsReturnsArenaAsRoot(t *testing.T) {
	a := newTestAgent(t)
	roots := a.Roots()
	require.Len(t, roots, 2)
	require.Equal(t, a.Arena, roots[1])
}
