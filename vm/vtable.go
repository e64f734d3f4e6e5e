package vm

// VTable is a class's virtual function table: an index-addressed array of
// methods. A subclass table is its superclass table extended and
// overridden by index; slots are never reordered, so a slot number fixed
// at compile time is valid for every subclass.
type VTable []Method

// ExtendVTable builds a subclass table from super. Entries in overrides
// replace inherited slots; extra methods are appended after the inherited
// ones. Overrides beyond the inherited length are ignored.
func ExtendVTable(super VTable, overrides map[int]Method, extra ...Method) VTable {
	vt := make(VTable, len(super), len(super)+len(extra))
	copy(vt, super)
	for slot, m := range overrides {
		if slot >= 0 && slot < len(vt) {
			vt[slot] = m
		}
	}
	return append(vt, extra...)
}

// Lookup returns the method at slot, or nil if the slot is empty or out of
// range.
func (vt VTable) Lookup(slot int) Method {
	if slot < 0 || slot >= len(vt) {
		return nil
	}
	return vt[slot]
}
