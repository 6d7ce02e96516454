// Package validate checks single parameter entries against their spec.
//
// Check is pure: it never panics on bad input and reports at most one
// diagnostic per entry. On success it returns the value in canonical form
// (integers as int, numbers as float64, composites as []any or map[string]any)
// so resolved tables only ever hold primitive trees.
package validate

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Pyramorphix/ZAVLAB-sub001/internal/graphconf/diag"
	"github.com/Pyramorphix/ZAVLAB-sub001/internal/graphconf/schema"
	"github.com/Pyramorphix/ZAVLAB-sub001/internal/graphconf/shape"
)

// Check validates one normalized entry for spec given count entities.
// A sparse entry addressing an entity outside [0, count) is rejected before
// its value is looked at.
func Check(spec *schema.ParameterSpec, e shape.Entry, count int) (any, *diag.Diagnostic) {
	var entity *int
	if !e.Uniform {
		if e.Index < 0 || e.Index >= count {
			return nil, diag.NewIndexError(spec.Name, e.Index, count, e.Value)
		}
		entity = diag.At(e.Index)
	}
	return checkValue(spec, spec.Name, entity, e.Value)
}

// Value validates a single uniform value for spec.
func Value(spec *schema.ParameterSpec, v any) (any, *diag.Diagnostic) {
	return checkValue(spec, spec.Name, nil, v)
}

// checkValue dispatches on the spec kind.
func checkValue(spec *schema.ParameterSpec, name string, entity *int, v any) (any, *diag.Diagnostic) {
	switch spec.Kind {
	case schema.KindEnum:
		return checkEnum(spec, name, entity, v)
	case schema.KindHexColor:
		return checkHexColor(name, entity, v)
	case schema.KindBool:
		b, ok := v.(bool)
		if !ok {
			return nil, diag.NewTypeError(name, entity, "boolean", v)
		}
		return b, nil
	case schema.KindPositiveInt:
		return checkInt(name, entity, v, 1)
	case schema.KindNonNegativeInt:
		return checkInt(name, entity, v, 0)
	case schema.KindFormat:
		return checkFormat(spec, name, entity, v)
	case schema.KindText:
		s, ok := v.(string)
		if !ok {
			return nil, diag.NewTypeError(name, entity, "string", v)
		}
		return s, nil
	case schema.KindPair:
		return checkPair(spec, name, entity, v)
	case schema.KindScaling:
		return checkScaling(spec, name, entity, v)
	default:
		return nil, newDiag(name, entity, diag.TypeMismatch, v, "unsupported parameter kind %s", spec.Kind)
	}
}

func checkEnum(spec *schema.ParameterSpec, name string, entity *int, v any) (any, *diag.Diagnostic) {
	s, ok := v.(string)
	if !ok {
		return nil, diag.NewTypeError(name, entity, "string", v)
	}
	if !spec.HasEnumValue(s) {
		quoted := make([]string, len(spec.Enum))
		for i, e := range spec.Enum {
			quoted[i] = strconv.Quote(e)
		}
		return nil, newDiag(name, entity, diag.FormatViolation, v,
			"value %q is not one of: %s", s, strings.Join(quoted, ", "))
	}
	return s, nil
}

func checkHexColor(name string, entity *int, v any) (any, *diag.Diagnostic) {
	s, ok := v.(string)
	if !ok {
		return nil, diag.NewTypeError(name, entity, "hex color string", v)
	}
	if !strings.HasPrefix(s, "#") {
		return nil, newDiag(name, entity, diag.FormatViolation, v, "color %q must start with '#'", s)
	}
	if len(s) != 7 {
		return nil, newDiag(name, entity, diag.FormatViolation, v,
			"color %q must be '#' followed by 6 hex digits, got %d characters", s, len(s))
	}
	for _, r := range s[1:] {
		if !isHexDigit(r) {
			return nil, newDiag(name, entity, diag.FormatViolation, v, "color %q has invalid hex digit %q", s, r)
		}
	}
	return s, nil
}

func isHexDigit(r rune) bool {
	return (r >= '0' && r <= '9') || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

func checkInt(name string, entity *int, v any, min int) (any, *diag.Diagnostic) {
	n, ok := schema.AsInt(v)
	if !ok {
		return nil, diag.NewTypeError(name, entity, "integer", v)
	}
	if n < min {
		return nil, newDiag(name, entity, diag.RangeViolation, v, "value %d is less than minimum %d", n, min)
	}
	return n, nil
}

func checkFormat(spec *schema.ParameterSpec, name string, entity *int, v any) (any, *diag.Diagnostic) {
	s, ok := v.(string)
	if !ok {
		return nil, diag.NewTypeError(name, entity, "format string", v)
	}
	if !spec.Pattern.MatchString(s) {
		return nil, newDiag(name, entity, diag.FormatViolation, v,
			"format %q does not match %%0.<digits>f", s)
	}
	return s, nil
}

var axisNames = [2]string{"x", "y"}

// checkPair validates both halves of a composite pair. A scalar where a pair
// is required is an arity problem, not a type problem.
func checkPair(spec *schema.ParameterSpec, name string, entity *int, v any) (any, *diag.Diagnostic) {
	seq, ok := schema.AsSequence(v)
	if !ok {
		return nil, newDiag(name, entity, diag.ArityMismatch, v,
			"expected a pair of %s values (x, y), got a single %T", spec.Element.Kind, v)
	}
	if len(seq) != 2 {
		return nil, newDiag(name, entity, diag.ArityMismatch, v,
			"expected a pair of %s values (x, y), got %d values", spec.Element.Kind, len(seq))
	}

	out := make([]any, 2)
	for i, item := range seq {
		val, d := checkValue(spec.Element, name, entity, item)
		if d != nil {
			d.Value = v
			d.Message = fmt.Sprintf("%s-axis: %s", axisNames[i], d.Message)
			return nil, d
		}
		out[i] = val
	}
	return out, nil
}

func newDiag(name string, entity *int, code diag.Code, v any, format string, args ...any) *diag.Diagnostic {
	d := diag.New(name, code, v, format, args...)
	d.Entity = entity
	return d
}
