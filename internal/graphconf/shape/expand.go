package shape

// Slot is the value one layer contributes to one entity.
// A zero Slot means "use the lower-precedence value".
type Slot struct {
	Value any
	Set   bool
}

// Expand lays entries out densely over count entities. Entities that no entry
// addresses keep the zero Slot. Out-of-range indices are ignored and later
// entries for the same entity replace earlier ones.
func Expand(entries []Entry, count int) []Slot {
	slots := make([]Slot, count)
	for _, e := range entries {
		if e.Uniform {
			for i := range slots {
				slots[i] = Slot{Value: e.Value, Set: true}
			}
			continue
		}
		if e.Index < 0 || e.Index >= count {
			continue
		}
		slots[e.Index] = Slot{Value: e.Value, Set: true}
	}
	return slots
}
