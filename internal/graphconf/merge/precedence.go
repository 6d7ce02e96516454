package merge

import "github.com/Pyramorphix/ZAVLAB-sub001/internal/graphconf/shape"

// Precedence levels of the input forms. Higher values override lower values
// during resolution.
const (
	// PriorityDefault is the lowest priority for spec defaults.
	PriorityDefault = 0

	// PriorityUniform is for a single value applied to every entity.
	PriorityUniform = 100

	// PriorityPositional is for one value per entity by position.
	PriorityPositional = 200

	// PrioritySparse is the highest priority for indexed overrides.
	PrioritySparse = 300
)

// DefaultLayerName names the implicit default layer in a Source.
const DefaultLayerName = "default"

// FormPriority returns the precedence of a layer form.
func FormPriority(f shape.Form) int {
	switch f {
	case shape.FormUniform:
		return PriorityUniform
	case shape.FormPositional:
		return PriorityPositional
	case shape.FormSparse:
		return PrioritySparse
	default:
		return PriorityDefault
	}
}
