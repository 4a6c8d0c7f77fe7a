package config

import "github.com/trynova/nova-sub003/internal/diag"

// VectorCapacities gives the initial per-kind heap vector capacity,
// mirroring the teacher's RuntimeConfig initial-table-size knobs: sizing
// these up front avoids repeated slice growth for programs whose rough
// object-count shape is known ahead of time.
type VectorCapacities struct {
	Numbers, Strings, Objects, Arrays, Functions int
}

// DefaultVectorCapacities matches the teacher's own modest RuntimeConfig
// defaults: small enough not to waste memory on short-lived scripts.
var DefaultVectorCapacities = VectorCapacities{
	Numbers: 64, Strings: 64, Objects: 128, Arrays: 32, Functions: 32,
}

// AgentOptions configures an Agent at construction, grounded on the
// teacher's RuntimeConfig split between config_supported.go (full
// feature set) and config_unsupported.go (conservative fallback). The
// zero value has no diagnostic listener and no proposal features, but it
// also has zero vector capacities and a GCWatermark of 0 (a GC cycle on
// every MaybeCollect); NewAgentOptions supplies the defaults.
type AgentOptions struct {
	// GCWatermark is the total number of heap cells, summed over every
	// heap vector, at or above which vm.Engine.MaybeCollect runs a GC
	// cycle.
	GCWatermark int
	// InitialCapacities records per-kind heap vector capacities. No code
	// reads it: vm.NewEngine builds its heap with heap.New() at default
	// sizes.
	InitialCapacities VectorCapacities
	// Features records which proposal-stage syntax is enabled. Neither the
	// parser nor the compiler consults it.
	Features Features
	// Listener receives diagnostic events; nil defaults to
	// diag.NopListener.
	Listener diag.Listener
}

// NewAgentOptions returns the engine's default options: a 10,000-cell
// GC watermark, DefaultVectorCapacities, no proposal features,
// and a no-op diagnostic listener.
func NewAgentOptions() AgentOptions {
	return AgentOptions{
		GCWatermark:       10_000,
		InitialCapacities: DefaultVectorCapacities,
		Features:          FeaturesNone,
		Listener:          diag.NopListener{},
	}
}

// WithFeatures returns a copy of o with Features replaced.
func (o AgentOptions) WithFeatures(f Features) AgentOptions {
	o.Features = f
	return o
}

// WithListener returns a copy of o with Listener replaced.
func (o AgentOptions) WithListener(l diag.Listener) AgentOptions {
	o.Listener = l
	return o
}

// WithGCWatermark returns a copy of o with GCWatermark replaced.
func (o AgentOptions) WithGCWatermark(n int) AgentOptions {
	o.GCWatermark = n
	return o
}
