package vm

import "math"

// ---------------------------------------------------------------------------
// Class descriptors
// ---------------------------------------------------------------------------

// VariableSize marks an array-like class whose body length is chosen at
// allocation time. The first body slot of such an object holds its element
// count as a raw integer.
const VariableSize int32 = -1

// NoPointers is a StartIndex meaning that no body slot holds a tagged value.
const NoPointers uint32 = math.MaxUint32

// PropertyTable describes the properties declared by one class.
type PropertyTable struct {
	Offset       uint16   // body index of the first property declared here
	Unboxed      uint16   // 1 + the maximum index of the unboxed properties
	Names        []uint16 // property ids, in body order
	UnboxedTypes string   // one type code ('i', 'f' or 'b') per unboxed index
}

// MethodEntry maps a logical method id to a virtual table slot.
type MethodEntry struct {
	ID        uint16
	Signature string
	Slot      int
}

// Class is an immutable class descriptor. Descriptors are produced by the
// code generator (as Go literals or a flash table image, see package
// flash); the runtime only reads them.
type Class struct {
	// Size is the number of body words of an instance, or VariableSize.
	Size int32
	// StartIndex is the first body slot that holds a tagged value. Slots
	// before it are raw data and are never scanned by the collector.
	StartIndex uint32
	Name       string
	Superclass *Class
	// ArrayType is the encoded element type of an array class, or "".
	ArrayType string
	Props     PropertyTable
	Methods   []MethodEntry
	VTable    VTable
}

// IsArray reports whether instances of c support indexing and .length.
func (c *Class) IsArray() bool { return c != nil && c.ArrayType != "" }

// hasPointers reports whether instances of c may hold tagged values.
func (c *Class) hasPointers() bool { return c.StartIndex != NoPointers }

// IsSubclassOf reports whether c is other or inherits from it.
func (c *Class) IsSubclassOf(other *Class) bool {
	for cur := c; cur != nil; cur = cur.Superclass {
		if cur == other {
			return true
		}
	}
	return false
}

// findProperty resolves a property id along the superclass chain. It
// returns the body index and the unboxed type code, or 0 for a boxed
// property.
func (c *Class) findProperty(id uint16) (int, byte, bool) {
	for cur := c; cur != nil; cur = cur.Superclass {
		for i, name := range cur.Props.Names {
			if name != id {
				continue
			}
			index := int(cur.Props.Offset) + i
			if index < int(cur.Props.Unboxed) && index < len(cur.Props.UnboxedTypes) {
				return index, cur.Props.UnboxedTypes[index], true
			}
			return index, 0, true
		}
	}
	return 0, 0, false
}

// findMethod resolves a logical method id to a virtual table slot.
func (c *Class) findMethod(id uint16) (MethodEntry, bool) {
	for cur := c; cur != nil; cur = cur.Superclass {
		for _, m := range cur.Methods {
			if m.ID == id {
				return m, true
			}
		}
	}
	return MethodEntry{}, false
}

// ---------------------------------------------------------------------------
// Class table
// ---------------------------------------------------------------------------

// classEntry is the runtime's view of a registered descriptor: its header
// id and the explicit ancestor chain used by instance-of checks.
type classEntry struct {
	class     *Class
	ancestors []*Class // ancestors[0] is the class itself
}

type classTable struct {
	entries []classEntry // index 0 is unused
	ids     map[*Class]uint32
	byName  map[string]*Class
}

func newClassTable() *classTable {
	return &classTable{
		entries: make([]classEntry, 1, 32),
		ids:     make(map[*Class]uint32),
		byName:  make(map[string]*Class),
	}
}

// register assigns a header id to c, registering its superclasses first.
func (t *classTable) register(c *Class) (uint32, error) {
	if id, ok := t.ids[c]; ok {
		return id, nil
	}
	if err := validateClass(c); err != nil {
		return 0, err
	}
	var ancestors []*Class
	if c.Superclass != nil {
		if _, err := t.register(c.Superclass); err != nil {
			return 0, err
		}
		ancestors = make([]*Class, 0, len(t.entries[t.ids[c.Superclass]].ancestors)+1)
		ancestors = append(ancestors, c)
		ancestors = append(ancestors, t.entries[t.ids[c.Superclass]].ancestors...)
	} else {
		ancestors = []*Class{c}
	}
	id := uint32(len(t.entries))
	if id >= 1<<30 {
		return 0, Raise("class table full")
	}
	t.entries = append(t.entries, classEntry{class: c, ancestors: ancestors})
	t.ids[c] = id
	if _, taken := t.byName[c.Name]; !taken {
		t.byName[c.Name] = c
	}
	return id, nil
}

func (t *classTable) byID(id uint32) *classEntry {
	if id == 0 || int(id) >= len(t.entries) {
		return nil
	}
	return &t.entries[id]
}

// ValidateClass checks a descriptor's layout and tables without
// registering it. Superclasses are not checked.
func ValidateClass(c *Class) error { return validateClass(c) }

func validateClass(c *Class) error {
	if c.Size < 0 && c.Size != VariableSize {
		return Raise("class " + c.Name + ": invalid instance size")
	}
	if c.Size >= 0 && c.StartIndex != NoPointers && c.StartIndex > uint32(c.Size) {
		return Raise("class " + c.Name + ": pointer start index beyond instance size")
	}
	if c.Size >= 0 && c.StartIndex != NoPointers && uint32(c.Props.Unboxed) > c.StartIndex {
		return Raise("class " + c.Name + ": unboxed property inside the scanned region")
	}
	if int(c.Props.Unboxed) > len(c.Props.UnboxedTypes) {
		return Raise("class " + c.Name + ": missing unboxed property types")
	}
	if c.Superclass != nil && len(c.VTable) < len(c.Superclass.VTable) {
		return Raise("class " + c.Name + ": virtual table shorter than superclass table")
	}
	for _, m := range c.Methods {
		if m.Slot < 0 || m.Slot >= len(c.VTable) {
			return Raise("class " + c.Name + ": method slot outside the virtual table")
		}
	}
	return nil
}
