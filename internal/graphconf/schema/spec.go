// Package schema provides the catalogue of recognized graph parameters.
//
// Every parameter has a ParameterSpec describing its value kind, the entity
// kind it is resolved per (curve, axis, subplot or the whole figure), its
// domain and its default. Specs are immutable once a Registry is built.
package schema

import (
	"fmt"
	"regexp"
)

// Kind is the semantic type of a parameter value.
type Kind uint8

const (
	// KindEnum is a string from a fixed set.
	KindEnum Kind = iota
	// KindHexColor is a "#rrggbb" string.
	KindHexColor
	// KindBool is a boolean.
	KindBool
	// KindPositiveInt is an integer >= 1.
	KindPositiveInt
	// KindNonNegativeInt is an integer >= 0.
	KindNonNegativeInt
	// KindFormat is a numeric format string such as "%0.2f".
	KindFormat
	// KindText is any string.
	KindText
	// KindPair is a composite of exactly two values, one per axis.
	KindPair
	// KindScaling is an axis scaling rule: a mode plus range triplets.
	KindScaling
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindEnum:
		return "enumerated-string"
	case KindHexColor:
		return "hex-color"
	case KindBool:
		return "boolean"
	case KindPositiveInt:
		return "positive-integer"
	case KindNonNegativeInt:
		return "non-negative-integer"
	case KindFormat:
		return "numeric-format-string"
	case KindText:
		return "text"
	case KindPair:
		return "composite-pair"
	case KindScaling:
		return "scaling-rule"
	default:
		return "unknown"
	}
}

// Composite reports whether values of this kind are themselves sequences.
func (k Kind) Composite() bool {
	return k == KindPair || k == KindScaling
}

// EntityKind is the unit a per-entity override addresses.
type EntityKind uint8

const (
	// EntityCurve addresses one data curve.
	EntityCurve EntityKind = iota
	// EntityAxis addresses the axes of one subplot.
	EntityAxis
	// EntitySubplot addresses one subplot.
	EntitySubplot
	// EntityFigure addresses the whole figure; there is always exactly one.
	EntityFigure
)

// String returns the string representation of the entity kind.
func (e EntityKind) String() string {
	switch e {
	case EntityCurve:
		return "curve"
	case EntityAxis:
		return "axis"
	case EntitySubplot:
		return "subplot"
	case EntityFigure:
		return "figure"
	default:
		return "unknown"
	}
}

// ParseEntityKind parses an entity kind name.
func ParseEntityKind(s string) (EntityKind, error) {
	switch s {
	case "curve", "curves":
		return EntityCurve, nil
	case "axis", "axes":
		return EntityAxis, nil
	case "subplot", "subplots":
		return EntitySubplot, nil
	case "figure":
		return EntityFigure, nil
	default:
		return 0, fmt.Errorf("unknown entity kind %q", s)
	}
}

// ParameterSpec describes one recognized parameter.
type ParameterSpec struct {
	// Name is the parameter name as callers spell it (e.g., "axes_font_size").
	Name string

	// Kind is the value kind.
	Kind Kind

	// Entity is the entity kind the parameter is resolved per.
	Entity EntityKind

	// PerEntity permits positional and sparse override forms.
	PerEntity bool

	// Enum lists allowed values for KindEnum.
	Enum []string

	// Pattern constrains KindFormat values.
	Pattern *regexp.Regexp

	// Element describes both halves of a KindPair.
	Element *ParameterSpec

	// Modes lists allowed modes for KindScaling.
	Modes []string

	// Default is broadcast to every entity when nothing overrides it.
	Default any

	// Cycle, when set, replaces Default: entity i gets Cycle[i%len(Cycle)].
	Cycle []any

	// Description is human-readable documentation.
	Description string
}

// Arity returns the number of sub-values a single entity's value has.
func (s *ParameterSpec) Arity() int {
	if s.Kind == KindPair {
		return 2
	}
	return 1
}

// DefaultFor returns a private copy of the default value for entity index.
func (s *ParameterSpec) DefaultFor(index int) any {
	if len(s.Cycle) > 0 && index >= 0 {
		return Clone(s.Cycle[index%len(s.Cycle)])
	}
	return Clone(s.Default)
}

// ElementKind returns the kind of each sub-value for pairs, or the kind itself.
func (s *ParameterSpec) ElementKind() Kind {
	if s.Kind == KindPair && s.Element != nil {
		return s.Element.Kind
	}
	return s.Kind
}

// TypeName describes the expected value for messages and listings.
func (s *ParameterSpec) TypeName() string {
	if s.Kind == KindPair && s.Element != nil {
		return fmt.Sprintf("pair of %s", s.Element.Kind)
	}
	return s.Kind.String()
}

// HasEnumValue reports whether v is one of the allowed enum values.
func (s *ParameterSpec) HasEnumValue(v string) bool {
	for _, e := range s.Enum {
		if e == v {
			return true
		}
	}
	return false
}

// HasMode reports whether m is an allowed scaling mode.
func (s *ParameterSpec) HasMode(m string) bool {
	for _, mode := range s.Modes {
		if mode == m {
			return true
		}
	}
	return false
}

func (s *ParameterSpec) check() error {
	if s.Name == "" {
		return fmt.Errorf("parameter has no name")
	}
	switch s.Kind {
	case KindEnum:
		if len(s.Enum) == 0 {
			return fmt.Errorf("%s: enumerated parameter has no values", s.Name)
		}
	case KindFormat:
		if s.Pattern == nil {
			return fmt.Errorf("%s: format parameter has no pattern", s.Name)
		}
	case KindPair:
		if s.Element == nil {
			return fmt.Errorf("%s: pair parameter has no element spec", s.Name)
		}
		if s.Element.Kind.Composite() {
			return fmt.Errorf("%s: pair elements must be scalar, got %s", s.Name, s.Element.Kind)
		}
		el := *s.Element
		if el.Name == "" {
			el.Name = s.Name
		}
		if err := el.check(); err != nil {
			return err
		}
	case KindScaling:
		if len(s.Modes) == 0 {
			return fmt.Errorf("%s: scaling parameter has no modes", s.Name)
		}
	}
	return nil
}
