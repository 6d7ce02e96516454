// Package merge builds the final per-entity table of one parameter from its
// default and the validated layers supplied for it.
//
// Layers apply lowest precedence first: the default broadcast to every
// entity, then uniform layers, then positional layers, then sparse layers.
// Layers of the same form apply in the order given, so a later layer wins.
package merge

import (
	"fmt"
	"slices"

	"github.com/Pyramorphix/ZAVLAB-sub001/internal/graphconf/schema"
	"github.com/Pyramorphix/ZAVLAB-sub001/internal/graphconf/shape"
)

// Layer is one validated contribution to a parameter. Slots hold canonical
// values; an unset slot (including one whose entry failed validation) falls
// through to the lower-precedence value.
type Layer struct {
	// Name identifies where the layer came from (e.g. "request", a file path).
	Name string

	// Form is the input form the layer was written in.
	Form shape.Form

	// Slots has one slot per entity.
	Slots []shape.Slot
}

// Priority returns the precedence of the layer.
func (l Layer) Priority() int {
	return FormPriority(l.Form)
}

// Source records which layer supplied a resolved value.
type Source struct {
	Layer   string     `json:"layer" yaml:"layer" toml:"layer"`
	Form    shape.Form `json:"-" yaml:"-" toml:"-"`
	Default bool       `json:"default,omitempty" yaml:"default,omitempty" toml:"default,omitempty"`
}

// String returns "default" or "layer (form)".
func (s Source) String() string {
	if s.Default {
		return DefaultLayerName
	}
	return fmt.Sprintf("%s (%s)", s.Layer, s.Form)
}

// Table is the resolved value of one parameter for every entity.
type Table struct {
	Parameter string
	Entity    schema.EntityKind
	Values    []any
	Sources   []Source
}

// Len returns the number of entities.
func (t *Table) Len() int {
	return len(t.Values)
}

// At returns the value of entity i, or nil when i is out of range.
func (t *Table) At(i int) any {
	if i < 0 || i >= len(t.Values) {
		return nil
	}
	return t.Values[i]
}

// Overridden reports whether entity i holds a supplied value rather than the default.
func (t *Table) Overridden(i int) bool {
	if i < 0 || i >= len(t.Sources) {
		return false
	}
	return !t.Sources[i].Default
}

// Clone returns a deep copy of the table.
func (t *Table) Clone() *Table {
	out := &Table{
		Parameter: t.Parameter,
		Entity:    t.Entity,
		Values:    make([]any, len(t.Values)),
		Sources:   slices.Clone(t.Sources),
	}
	for i, v := range t.Values {
		out.Values[i] = schema.Clone(v)
	}
	return out
}

// Resolve builds the table of spec for count entities. layers may be in any
// form order; they are stably sorted by precedence before being applied.
// Slots beyond count are ignored.
func Resolve(spec *schema.ParameterSpec, count int, layers []Layer) *Table {
	if count < 0 {
		count = 0
	}

	t := &Table{
		Parameter: spec.Name,
		Entity:    spec.Entity,
		Values:    make([]any, count),
		Sources:   make([]Source, count),
	}
	for i := range t.Values {
		t.Values[i] = spec.DefaultFor(i)
		t.Sources[i] = Source{Layer: DefaultLayerName, Default: true}
	}

	ordered := slices.Clone(layers)
	slices.SortStableFunc(ordered, func(a, b Layer) int {
		return a.Priority() - b.Priority()
	})

	for _, l := range ordered {
		for i, slot := range l.Slots {
			if i >= count {
				break
			}
			if !slot.Set {
				continue
			}
			t.Values[i] = schema.Clone(slot.Value)
			t.Sources[i] = Source{Layer: l.Name, Form: l.Form}
		}
	}

	return t
}
