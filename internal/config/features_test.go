package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFeatures_ZeroIsInvalid(t *testing.T) {
	f := Features(0)
	f = f.SetEnabled(0, true)
	require.False(t, f.IsEnabled(0))
}

func TestFeatures_SetEnabled(t *testing.T) {
	f := FeaturesNone
	require.False(t, f.IsEnabled(FeatureTopLevelAwait))
	f = f.SetEnabled(FeatureTopLevelAwait, true)
	require.True(t, f.IsEnabled(FeatureTopLevelAwait))
	f = f.SetEnabled(FeatureTopLevelAwait, false)
	require.False(t, f.IsEnabled(FeatureTopLevelAwait))
}

func TestFeatures_String(t *testing.T) {
	require.Equal(t, "", FeaturesNone.String())
	require.Equal(t, "top-level-await", FeatureTopLevelAwait.String())
	require.Equal(t, "top-level-await|using-declarations",
		(FeatureTopLevelAwait | FeatureUsingDeclarations).String())
}

func TestFeatures_RequireEnabled(t *testing.T) {
	require.Error(t, FeaturesNone.RequireEnabled(FeatureTopLevelAwait))
	require.NoError(t, FeatureTopLevelAwait.RequireEnabled(FeatureTopLevelAwait))
}

func TestNewAgentOptionsDefaults(t *testing.T) {
	o := NewAgentOptions()
	require.Equal(t, 10_000, o.GCWatermark)
	require.Equal(t, DefaultVectorCapacities, o.InitialCapacities)
	require.Equal(t, FeaturesNone, o.Features)
	require.NotNil(t, o.Listener)
}

func TestAgentOptionsWithers(t *testing.T) {
	o := NewAgentOptions().WithFeatures(FeatureTopLevelAwait).WithGCWatermark(5)
	require.Equal(t, FeatureTopLevelAwait, o.Features)
	require.Equal(t, 5, o.GCWatermark)
}
