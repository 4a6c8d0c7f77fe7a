// Package config carries the engine's ambient configuration: the
// proposal-stage-syntax feature bitset and AgentOptions, grounded on the
// teacher's api.CoreFeatures bitset and RuntimeConfig/config_supported.go
// split, per SPEC_FULL.md §4.10.
package config

import (
	"fmt"
	"sort"
	"strings"
)

// Features is a bitset gating proposal-stage ECMAScript syntax the same
// way the teacher's api.CoreFeatures gates post-MVP WebAssembly
// proposals: a Features value of zero enables nothing, and iota starts
// at 1 so the zero value stays meaningfully "nothing enabled".
type Features uint64

const (
	// FeatureTopLevelAwait enables `await` at a Module's top level.
	FeatureTopLevelAwait Features = 1 << iota
	// FeatureUsingDeclarations enables `using`/`await using` resource
	// management declarations.
	FeatureUsingDeclarations
	// FeatureImportAttributes enables `import ... with { ... }` attributes
	// on import/export declarations and dynamic import.
	FeatureImportAttributes
)

var featureNames = map[Features]string{
	FeatureTopLevelAwait:     "top-level-await",
	FeatureUsingDeclarations: "using-declarations",
	FeatureImportAttributes:  "import-attributes",
}

// FeaturesNone enables no proposal-stage syntax.
const FeaturesNone Features = 0

// FeaturesAll enables every proposal-stage syntax this engine recognizes.
var FeaturesAll = FeatureTopLevelAwait | FeatureUsingDeclarations | FeatureImportAttributes

// IsEnabled returns whether other is non-zero and every bit set in other
// is also set in f.
func (f Features) IsEnabled(other Features) bool { return other != 0 && f&other == other }

// SetEnabled returns f with other's bits set or cleared.
func (f Features) SetEnabled(other Features, enabled bool) Features {
	if enabled {
		return f | other
	}
	return f &^ other
}

// String lists enabled features, sorted by name and joined with "|", the
// same idiom the teacher's api.CoreFeatures.String uses.
func (f Features) String() string {
	var names []string
	for bit, name := range featureNames {
		if f.IsEnabled(bit) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return strings.Join(names, "|")
}

// RequireEnabled returns an error naming one bit in required that f does
// not have set (which one, when several are missing, is not defined).
func (f Features) RequireEnabled(required Features) error {
	for bit, name := range featureNames {
		if required.IsEnabled(bit) && !f.IsEnabled(bit) {
			return fmt.Errorf("feature %q is disabled", name)
		}
	}
	return nil
}
