package diag

import (
	"fmt"
	"strings"
)

// Report collects diagnostics in the order they were produced.
// The zero value is ready to use.
type Report struct {
	items []Diagnostic
}

// Add appends a diagnostic. A nil diagnostic is ignored.
func (r *Report) Add(d *Diagnostic) {
	if d == nil {
		return
	}
	r.items = append(r.items, *d)
}

// Merge appends all diagnostics from another report.
func (r *Report) Merge(other *Report) {
	if other == nil {
		return
	}
	r.items = append(r.items, other.items...)
}

// Len returns the number of diagnostics.
func (r *Report) Len() int {
	return len(r.items)
}

// Empty reports whether no diagnostics were collected.
func (r *Report) Empty() bool {
	return len(r.items) == 0
}

// Items returns a copy of the collected diagnostics.
func (r *Report) Items() []Diagnostic {
	if len(r.items) == 0 {
		return []Diagnostic{}
	}
	out := make([]Diagnostic, len(r.items))
	copy(out, r.items)
	return out
}

// ForParameter returns the diagnostics for one parameter.
func (r *Report) ForParameter(name string) []Diagnostic {
	var out []Diagnostic
	for _, d := range r.items {
		if d.Parameter == name {
			out = append(out, d)
		}
	}
	return out
}

// ForEntity returns the diagnostics for one parameter and entity index.
func (r *Report) ForEntity(name string, index int) []Diagnostic {
	var out []Diagnostic
	for _, d := range r.items {
		if d.Parameter == name && d.Entity != nil && *d.Entity == index {
			out = append(out, d)
		}
	}
	return out
}

// ByCode returns the diagnostics with the given code.
func (r *Report) ByCode(code Code) []Diagnostic {
	var out []Diagnostic
	for _, d := range r.items {
		if d.Code == code {
			out = append(out, d)
		}
	}
	return out
}

// Counts returns the number of diagnostics per code.
func (r *Report) Counts() map[Code]int {
	counts := make(map[Code]int)
	for _, d := range r.items {
		counts[d.Code]++
	}
	return counts
}

// Error implements the error interface.
func (r *Report) Error() string {
	switch len(r.items) {
	case 0:
		return "no diagnostics"
	case 1:
		return r.items[0].Error()
	}

	msgs := make([]string, 0, len(r.items))
	for _, d := range r.items {
		msgs = append(msgs, d.Error())
	}
	return fmt.Sprintf("%d diagnostics:\n  - %s", len(r.items), strings.Join(msgs, "\n  - "))
}

// Err returns nil if the report is empty, otherwise the report itself.
func (r *Report) Err() error {
	if r.Empty() {
		return nil
	}
	return r
}
