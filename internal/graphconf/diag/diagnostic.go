// Package diag defines validation diagnostics and the report that collects
// them during one validate-and-merge run.
//
// Diagnostics are data, not errors: a run that finds problems still returns
// a usable configuration alongside the report.
package diag

import (
	"fmt"
)

// Code classifies a diagnostic.
type Code string

const (
	// UnknownParameter is reported for a parameter name the registry does not know.
	UnknownParameter Code = "UnknownParameter"

	// MalformedShape is reported when a value is neither uniform, positional
	// nor a sparse override list. The whole parameter keeps its defaults.
	MalformedShape Code = "MalformedShape"

	// TypeMismatch is reported when a value has the wrong type.
	TypeMismatch Code = "TypeMismatch"

	// RangeViolation is reported when a numeric value is outside its domain.
	RangeViolation Code = "RangeViolation"

	// FormatViolation is reported when a string does not match its domain.
	FormatViolation Code = "FormatViolation"

	// ArityMismatch is reported when a composite value has the wrong number
	// of elements, including a scalar where a pair is required.
	ArityMismatch Code = "ArityMismatch"

	// EntityIndexOutOfRange is reported for an override addressing an
	// entity that does not exist.
	EntityIndexOutOfRange Code = "EntityIndexOutOfRange"
)

// Codes lists every diagnostic code.
var Codes = []Code{
	UnknownParameter,
	MalformedShape,
	TypeMismatch,
	RangeViolation,
	FormatViolation,
	ArityMismatch,
	EntityIndexOutOfRange,
}

// Diagnostic is a single non-fatal validation failure.
type Diagnostic struct {
	// Parameter is the parameter name the failure belongs to.
	Parameter string `json:"parameter" yaml:"parameter" toml:"parameter"`

	// Entity is the addressed entity index; nil for parameter-level failures.
	Entity *int `json:"entity,omitempty" yaml:"entity,omitempty" toml:"entity,omitempty"`

	// Value is the offending value as supplied.
	Value any `json:"value,omitempty" yaml:"value,omitempty" toml:"value,omitempty"`

	// Code classifies the failure.
	Code Code `json:"code" yaml:"code" toml:"code"`

	// Message describes the failure for humans.
	Message string `json:"message" yaml:"message" toml:"message"`
}

// Error implements the error interface.
func (d Diagnostic) Error() string {
	if d.Entity == nil {
		return fmt.Sprintf("%s: %s", d.Parameter, d.Message)
	}
	return fmt.Sprintf("%s[%d]: %s", d.Parameter, *d.Entity, d.Message)
}

// HasEntity reports whether the diagnostic addresses a single entity.
func (d Diagnostic) HasEntity() bool {
	return d.Entity != nil
}

// Index returns the entity index, or -1 for parameter-level diagnostics.
func (d Diagnostic) Index() int {
	if d.Entity == nil {
		return -1
	}
	return *d.Entity
}

// At returns a pointer to i for use as Diagnostic.Entity.
func At(i int) *int {
	return &i
}

// New creates a parameter-level diagnostic.
func New(parameter string, code Code, value any, format string, args ...any) *Diagnostic {
	return &Diagnostic{
		Parameter: parameter,
		Value:     value,
		Code:      code,
		Message:   fmt.Sprintf(format, args...),
	}
}

// NewAt creates a diagnostic addressed to entity index.
func NewAt(parameter string, index int, code Code, value any, format string, args ...any) *Diagnostic {
	d := New(parameter, code, value, format, args...)
	d.Entity = At(index)
	return d
}

// NewUnknownParameter creates a diagnostic for an unrecognized parameter.
func NewUnknownParameter(parameter string, value any) *Diagnostic {
	return New(parameter, UnknownParameter, value, "unknown parameter")
}

// NewTypeError creates a diagnostic for a value of the wrong type.
func NewTypeError(parameter string, entity *int, expected string, actual any) *Diagnostic {
	return &Diagnostic{
		Parameter: parameter,
		Entity:    entity,
		Value:     actual,
		Code:      TypeMismatch,
		Message:   fmt.Sprintf("expected %s, got %T", expected, actual),
	}
}

// NewIndexError creates a diagnostic for an out-of-range entity index.
func NewIndexError(parameter string, index, count int, value any) *Diagnostic {
	return &Diagnostic{
		Parameter: parameter,
		Entity:    At(index),
		Value:     value,
		Code:      EntityIndexOutOfRange,
		Message:   fmt.Sprintf("entity index %d is out of range [0, %d)", index, count),
	}
}
