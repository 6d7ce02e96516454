package schema

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrDuplicateParameter is returned when two specs share a name.
var ErrDuplicateParameter = errors.New("parameter already registered")

// Registry is a read-only catalogue of parameter specs.
// It is safe for concurrent use because it is never mutated after New.
type Registry struct {
	specs map[string]*ParameterSpec
	order []string
}

// New builds a registry from specs. Declaration order is kept for listings.
func New(specs ...ParameterSpec) (*Registry, error) {
	r := &Registry{
		specs: make(map[string]*ParameterSpec, len(specs)),
		order: make([]string, 0, len(specs)),
	}
	for _, spec := range specs {
		if err := spec.check(); err != nil {
			return nil, err
		}
		if _, exists := r.specs[spec.Name]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateParameter, spec.Name)
		}
		s := spec
		r.specs[s.Name] = &s
		r.order = append(r.order, s.Name)
	}
	return r, nil
}

// MustNew is like New but panics on error.
// Useful for building registries from literals at init time.
func MustNew(specs ...ParameterSpec) *Registry {
	r, err := New(specs...)
	if err != nil {
		panic(err)
	}
	return r
}

var builtin = sync.OnceValue(func() *Registry {
	return MustNew(BuiltinSpecs()...)
})

// Builtin returns the process-wide registry of built-in parameters.
func Builtin() *Registry {
	return builtin()
}

// Lookup returns the spec for name.
func (r *Registry) Lookup(name string) (*ParameterSpec, bool) {
	s, ok := r.specs[name]
	return s, ok
}

// Has checks if a parameter is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.specs[name]
	return ok
}

// Len returns the number of registered parameters.
func (r *Registry) Len() int {
	return len(r.order)
}

// Names returns parameter names in declaration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// All returns every spec in declaration order.
func (r *Registry) All() []*ParameterSpec {
	out := make([]*ParameterSpec, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.specs[name])
	}
	return out
}

// ForEntity returns the specs resolved per the given entity kind.
func (r *Registry) ForEntity(kind EntityKind) []*ParameterSpec {
	var out []*ParameterSpec
	for _, name := range r.order {
		if s := r.specs[name]; s.Entity == kind {
			out = append(out, s)
		}
	}
	return out
}

// Sorted returns every parameter name sorted lexically.
func (r *Registry) Sorted() []string {
	out := r.Names()
	sort.Strings(out)
	return out
}
