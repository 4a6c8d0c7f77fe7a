package module

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/trynova/nova-sub003/internal/heap"
	"github.com/trynova/nova-sub003/internal/value"
)

func newTestLoader(t *testing.T) (*Loader, heap.Index) {
	t.Helper()
	h := heap.New()
	realm := h.NewRealm()
	h.Realms[realm].GlobalEnv = h.NewGlobalEnvironment(h.NewOrdinaryObject(value.Null()))
	return &Loader{Heap: h}, realm
}

func TestLinkLeafModuleReachesLinked(t *testing.T) {
	l, realm := newTestLoader(t)
	m := l.Heap.NewModule(realm)

	require.NoError(t, l.Link(context.Background(), m))
	require.Equal(t, heap.ModuleLinked, l.Heap.Modules[m].Status)
	require.False(t, l.Heap.Modules[m].Env.IsNone())
}

func TestLinkMissingResolverFailsForUnresolvedRequest(t *testing.T) {
	l, realm := newTestLoader(t)
	m := l.Heap.NewModule(realm)
	req := l.InternRequest("./dep.js", nil)
	l.Heap.Modules[m].RequestedModules = []heap.Index{req}

	err := l.Link(context.Background(), m)
	require.Error(t, err)
	require.Equal(t, heap.ModuleUnlinked, l.Heap.Modules[m].Status)
}

func TestFinishLoadingImportedModuleRunsContinuationsAtZeroPending(t *testing.T) {
	l, realm := newTestLoader(t)
	referrer := l.Heap.NewModule(realm)
	dep := l.Heap.NewModule(realm)
	req := l.InternRequest("./dep.js", nil)
	l.Heap.Modules[referrer].PendingRequests = 1

	ran := false
	l.Heap.Modules[referrer].Continuations = []func(){func() { ran = true }}

	require.NoError(t, l.FinishLoadingImportedModule(referrer, req, dep, nil, value.Undefined()))
	require.True(t, ran)
	got, ok := l.GetImportedModule(referrer, req)
	require.True(t, ok)
	require.Equal(t, dep, got)
}

func TestGetModuleNamespaceFiltersAmbiguousExports(t *testing.T) {
	l, realm := newTestLoader(t)
	m := l.Heap.NewModule(realm)
	env := l.Heap.NewDeclarativeEnvironment(l.Heap.Realms[realm].GlobalEnv)
	l.Heap.Modules[m].Env = env
	l.Heap.CreateMutableBinding(env, "x")
	l.Heap.InitializeBinding(env, "x", value.SmallInt(1))
	l.Heap.Modules[m].ExportNames = []string{"x", "x"}

	ns := l.GetModuleNamespace(m)
	require.Equal(t, value.Undefined(), l.Heap.GetProperty(ns, heap.PropertyKey{Name: "x"}))
}

func TestEvaluateMarksModuleEvaluatedAndCachesResult(t *testing.T) {
	l, realm := newTestLoader(t)
	m := l.Heap.NewModule(realm)
	require.NoError(t, l.Link(context.Background(), m))

	calls := 0
	body := func(ctx context.Context, env heap.EnvIndex) (value.Value, error) {
		calls++
		return value.SmallInt(42), nil
	}

	res, err := l.Evaluate(context.Background(), m, body, false)
	require.NoError(t, err)
	require.Equal(t, value.SmallInt(42), res)
	require.Equal(t, heap.ModuleEvaluated, l.Heap.Modules[m].Status)

	_, err = l.Evaluate(context.Background(), m, body, false)
	require.NoError(t, err)
	require.Equal(t, 1, calls)
}
