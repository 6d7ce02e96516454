package validate

import (
	"math"

	"github.com/Pyramorphix/ZAVLAB-sub001/internal/graphconf/diag"
	"github.com/Pyramorphix/ZAVLAB-sub001/internal/graphconf/schema"
)

// checkScaling validates an axis scaling rule. Accepted spellings:
//
//	"none"
//	["divide", [0, 10, 5], [10, 20, 2]]
//	["divide", [[0, 10, 5], [10, 20, 2]]]
//	{"mode": "divide", "ranges": [[0, 10, 5]]}
//
// The canonical form is always the map spelling with float64 bounds.
func checkScaling(spec *schema.ParameterSpec, name string, entity *int, v any) (any, *diag.Diagnostic) {
	modeVal, rawRanges, d := splitScaling(name, entity, v)
	if d != nil {
		return nil, d
	}

	mode, ok := modeVal.(string)
	if !ok {
		return nil, diag.NewTypeError(name, entity, "scaling mode string", v)
	}
	if !spec.HasMode(mode) {
		return nil, newDiag(name, entity, diag.FormatViolation, v,
			"unknown scaling mode %q, expected one of %v", mode, spec.Modes)
	}

	switch {
	case mode == schema.ScalingNone && len(rawRanges) > 0:
		return nil, newDiag(name, entity, diag.ArityMismatch, v,
			"scaling mode %q takes no ranges, got %d", mode, len(rawRanges))
	case mode != schema.ScalingNone && len(rawRanges) == 0:
		return nil, newDiag(name, entity, diag.ArityMismatch, v,
			"scaling mode %q needs at least one [start, stop, count] range", mode)
	}

	ranges := make([]any, 0, len(rawRanges))
	for i, r := range rawRanges {
		triplet, d := checkRange(name, entity, v, i, r)
		if d != nil {
			return nil, d
		}
		ranges = append(ranges, triplet)
	}

	return map[string]any{
		"mode":   mode,
		"ranges": ranges,
	}, nil
}

// splitScaling separates the mode from the list of ranges.
func splitScaling(name string, entity *int, v any) (any, []any, *diag.Diagnostic) {
	if s, ok := v.(string); ok {
		return s, nil, nil
	}

	if m, ok := schema.AsMap(v); ok {
		for k := range m {
			if k != "mode" && k != "ranges" {
				return nil, nil, newDiag(name, entity, diag.FormatViolation, v, "unknown scaling key %q", k)
			}
		}
		mode, ok := m["mode"]
		if !ok {
			return nil, nil, newDiag(name, entity, diag.FormatViolation, v, "scaling rule has no mode")
		}
		if m["ranges"] == nil {
			return mode, nil, nil
		}
		ranges, ok := schema.AsSequence(m["ranges"])
		if !ok {
			return nil, nil, diag.NewTypeError(name, entity, "list of ranges", m["ranges"])
		}
		return mode, ranges, nil
	}

	seq, ok := schema.AsSequence(v)
	if !ok || len(seq) == 0 {
		return nil, nil, diag.NewTypeError(name, entity, "scaling rule", v)
	}
	rest := seq[1:]
	if len(rest) == 1 {
		if inner, ok := schema.AsSequence(rest[0]); ok && len(inner) > 0 && allSequences(inner) {
			rest = inner
		}
	}
	return seq[0], rest, nil
}

func allSequences(seq []any) bool {
	for _, item := range seq {
		if !schema.IsSequence(item) {
			return false
		}
	}
	return true
}

func checkRange(name string, entity *int, whole any, i int, r any) ([]any, *diag.Diagnostic) {
	triplet, ok := schema.AsSequence(r)
	if !ok || len(triplet) != 3 {
		return nil, newDiag(name, entity, diag.ArityMismatch, whole,
			"range %d must be [start, stop, count]", i)
	}
	start, ok := schema.AsFloat(triplet[0])
	if !ok {
		return nil, newDiag(name, entity, diag.TypeMismatch, whole, "range %d: start must be a number, got %T", i, triplet[0])
	}
	stop, ok := schema.AsFloat(triplet[1])
	if !ok {
		return nil, newDiag(name, entity, diag.TypeMismatch, whole, "range %d: stop must be a number, got %T", i, triplet[1])
	}
	count, ok := schema.AsInt(triplet[2])
	if !ok {
		return nil, newDiag(name, entity, diag.TypeMismatch, whole, "range %d: count must be an integer, got %T", i, triplet[2])
	}
	if !isFinite(start) || !isFinite(stop) {
		return nil, newDiag(name, entity, diag.RangeViolation, whole, "range %d: bounds must be finite, got [%v, %v]", i, start, stop)
	}
	if count < 1 {
		return nil, newDiag(name, entity, diag.RangeViolation, whole, "range %d: count %d must be positive", i, count)
	}
	if start >= stop {
		return nil, newDiag(name, entity, diag.RangeViolation, whole, "range %d: start %v must be less than stop %v", i, start, stop)
	}
	return []any{start, stop, count}, nil
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
