package diag

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNopListenerSatisfiesInterface(t *testing.T) {
	var l Listener = NopListener{}
	require.NotPanics(t, func() {
		l.OnGCCycle(context.Background(), GCStats{MarkedTotal: 3})
		l.OnModuleLinkState(context.Background(), "./a.js", ModuleLinked)
		l.OnUncaughtThrow(context.Background(), "boom")
	})
}

func TestFuncListenerDispatchesOnlySetFields(t *testing.T) {
	var gotMarked int
	l := FuncListener{
		GCCycle: func(ctx context.Context, stats GCStats) { gotMarked = stats.MarkedTotal },
	}
	l.OnGCCycle(context.Background(), GCStats{MarkedTotal: 7})
	require.Equal(t, 7, gotMarked)
	require.NotPanics(t, func() {
		l.OnModuleLinkState(context.Background(), "x", ModuleLinking)
		l.OnUncaughtThrow(context.Background(), "e")
	})
}
