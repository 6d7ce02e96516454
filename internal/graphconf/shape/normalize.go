// Package shape classifies raw parameter values into one of the three
// accepted input forms and expands them into per-entity slots.
//
// A raw value is either a uniform value for every entity, a positional
// sequence with one element per entity, or a sparse list of
// [entity_index, value...] overrides.
package shape

import (
	"github.com/Pyramorphix/ZAVLAB-sub001/internal/graphconf/diag"
	"github.com/Pyramorphix/ZAVLAB-sub001/internal/graphconf/schema"
)

// Form is the input form of a raw value.
type Form uint8

const (
	// FormUniform applies one value to every entity.
	FormUniform Form = iota
	// FormPositional maps element i to entity i.
	FormPositional
	// FormSparse addresses a subset of entities by index.
	FormSparse
)

// String returns the form name.
func (f Form) String() string {
	switch f {
	case FormUniform:
		return "uniform"
	case FormPositional:
		return "positional"
	case FormSparse:
		return "sparse"
	default:
		return "unknown"
	}
}

// Entry is one raw sub-value and the entity it addresses.
type Entry struct {
	// Index is the addressed entity. Sparse indices are not bounds checked here.
	Index int

	// Value is the raw value for the entity.
	Value any

	// Uniform marks the single entry of a uniform value; Index is unused.
	Uniform bool
}

// Normalized is the classified form of a raw value.
type Normalized struct {
	Form    Form
	Entries []Entry
}

// Normalize classifies raw for spec given count entities. A non-nil
// diagnostic means the value has no recognizable form and must be skipped.
func Normalize(spec *schema.ParameterSpec, raw any, count int) (Normalized, *diag.Diagnostic) {
	if raw == nil {
		return Normalized{}, diag.New(spec.Name, diag.MalformedShape, raw, "value is missing")
	}

	seq, isSeq := schema.AsSequence(raw)
	if !isSeq {
		return uniform(raw), nil
	}
	if len(seq) == 0 {
		return Normalized{Form: FormSparse}, nil
	}

	var n Normalized
	var ok bool
	switch spec.Kind {
	case schema.KindPair:
		n, ok = classifyPair(seq, count)
	case schema.KindScaling:
		n, ok = classifyScaling(raw, seq, count)
	default:
		n, ok = classifyScalar(seq, count)
	}
	if !ok {
		return Normalized{}, diag.New(spec.Name, diag.MalformedShape, raw,
			"expected a single %s, a list of %d values, or a list of [index, value] overrides",
			spec.TypeName(), count)
	}

	if n.Form != FormUniform && !spec.PerEntity {
		return Normalized{}, diag.New(spec.Name, diag.MalformedShape, raw,
			"parameter does not accept per-entity values")
	}
	return n, nil
}

func uniform(v any) Normalized {
	return Normalized{
		Form:    FormUniform,
		Entries: []Entry{{Value: v, Uniform: true}},
	}
}

func classifyScalar(seq []any, count int) (Normalized, bool) {
	if len(seq) == count && allMatch(seq, func(v any) bool { return !schema.IsSequence(v) }) {
		return positional(seq), true
	}
	if entries, ok := sparse(seq); ok {
		return Normalized{Form: FormSparse, Entries: entries}, true
	}
	return Normalized{}, false
}

// classifyPair handles composite pairs. A flat sequence is a single pair
// (arity is checked by the validator). When a sequence of sequences could be
// either positional or sparse, sparse wins if every leading element is a
// valid entity index. Otherwise it is positional only when every element is
// shaped like a flat pair; an element carrying a nested value can only be an
// override, so the sparse reading stands and its index is reported.
func classifyPair(seq []any, count int) (Normalized, bool) {
	if allMatch(seq, func(v any) bool { return !schema.IsSequence(v) }) {
		return uniform(seq), true
	}

	positionalOK := len(seq) == count && allMatch(seq, schema.IsSequence)
	entries, sparseOK := sparse(seq)

	switch {
	case positionalOK && sparseOK:
		for _, e := range entries {
			if (e.Index < 0 || e.Index >= count) && allMatch(seq, isFlatPair) {
				return positional(seq), true
			}
		}
		return Normalized{Form: FormSparse, Entries: entries}, true
	case sparseOK:
		return Normalized{Form: FormSparse, Entries: entries}, true
	case positionalOK:
		return positional(seq), true
	}
	return Normalized{}, false
}

func classifyScaling(raw any, seq []any, count int) (Normalized, bool) {
	if isScalingRule(raw) {
		return uniform(raw), true
	}
	if len(seq) == count && allMatch(seq, isScalingRule) {
		return positional(seq), true
	}
	if entries, ok := sparse(seq); ok {
		return Normalized{Form: FormSparse, Entries: entries}, true
	}
	return Normalized{}, false
}

// isScalingRule reports whether v looks like a single scaling rule: a mode
// string, a {"mode": ..., "ranges": ...} map, or a mode followed by ranges.
func isScalingRule(v any) bool {
	if _, ok := v.(string); ok {
		return true
	}
	if _, ok := schema.AsMap(v); ok {
		return true
	}
	seq, ok := schema.AsSequence(v)
	if !ok || len(seq) == 0 {
		return false
	}
	if _, ok := seq[0].(string); !ok {
		return false
	}
	for _, r := range seq[1:] {
		if _, isStr := r.(string); isStr {
			return false
		}
		if _, isMap := schema.AsMap(r); isMap {
			return false
		}
		if inner, isSeq := schema.AsSequence(r); isSeq && len(inner) > 0 {
			if _, lead := inner[0].(string); lead {
				return false
			}
		}
	}
	return true
}

// isFlatPair reports whether v has two elements, neither a sequence.
func isFlatPair(v any) bool {
	seq, ok := schema.AsSequence(v)
	return ok && len(seq) == 2 && allMatch(seq, func(item any) bool { return !schema.IsSequence(item) })
}

func positional(seq []any) Normalized {
	entries := make([]Entry, len(seq))
	for i, v := range seq {
		entries[i] = Entry{Index: i, Value: v}
	}
	return Normalized{Form: FormPositional, Entries: entries}
}

// sparse parses seq as [index, value...] entries. A single remaining element
// is the value; several are packed back into a sequence.
func sparse(seq []any) ([]Entry, bool) {
	entries := make([]Entry, 0, len(seq))
	for _, item := range seq {
		parts, ok := schema.AsSequence(item)
		if !ok || len(parts) < 2 {
			return nil, false
		}
		index, ok := schema.AsInt(parts[0])
		if !ok {
			return nil, false
		}
		var value any
		if len(parts) == 2 {
			value = parts[1]
		} else {
			rest := make([]any, len(parts)-1)
			copy(rest, parts[1:])
			value = rest
		}
		entries = append(entries, Entry{Index: index, Value: value})
	}
	return entries, true
}

func allMatch(seq []any, pred func(any) bool) bool {
	for _, v := range seq {
		if !pred(v) {
			return false
		}
	}
	return true
}
