package flash

import (
	"fmt"

	"github.com/chazu/mcurt/vm"
)

// Load decodes an image and registers its classes with rt. Superclasses
// are resolved by name, first among the image's own classes and then
// among the classes already registered with rt. Virtual table entries are
// resolved through natives. Every descriptor is validated before any is
// registered, so a rejected image leaves rt unchanged. The descriptors are
// returned in image order.
func Load(rt *vm.Runtime, data []byte, natives map[string]vm.Method) ([]*vm.Class, error) {
	img, err := Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return Install(rt, img, natives)
}

// Install registers the classes of a decoded image with rt.
func Install(rt *vm.Runtime, img *Image, natives map[string]vm.Method) ([]*vm.Class, error) {
	classes := make([]*vm.Class, len(img.Classes))
	byName := make(map[string]*vm.Class, len(img.Classes))
	for i, r := range img.Classes {
		if _, dup := byName[r.Name]; dup {
			return nil, fmt.Errorf("flash: duplicate class %s", r.Name)
		}
		c, err := build(r, natives)
		if err != nil {
			return nil, err
		}
		classes[i] = c
		byName[r.Name] = c
	}

	for i, r := range img.Classes {
		if r.Super == "" {
			continue
		}
		super := byName[r.Super]
		if super == nil {
			super = rt.LookupClass(r.Super)
		}
		if super == nil {
			return nil, fmt.Errorf("flash: %s: unknown superclass %s", r.Name, r.Super)
		}
		classes[i].Superclass = super
	}

	for _, c := range classes {
		if err := vm.ValidateClass(c); err != nil {
			return nil, fmt.Errorf("flash: invalid %s: %w", c.Name, err)
		}
	}

	for _, c := range classes {
		if err := rt.RegisterClass(c); err != nil {
			return nil, fmt.Errorf("flash: register %s: %w", c.Name, err)
		}
	}
	return classes, nil
}

func build(r ClassRecord, natives map[string]vm.Method) (*vm.Class, error) {
	c := &vm.Class{
		Name:       r.Name,
		Size:       r.Size,
		StartIndex: r.StartIndex,
		ArrayType:  r.ArrayType,
		Props: vm.PropertyTable{
			Offset:       r.Props.Offset,
			Unboxed:      r.Props.Unboxed,
			Names:        r.Props.Names,
			UnboxedTypes: r.Props.UnboxedTypes,
		},
	}
	for _, m := range r.Methods {
		c.Methods = append(c.Methods, vm.MethodEntry{ID: m.ID, Signature: m.Signature, Slot: m.Slot})
	}
	if len(r.VTable) > 0 {
		c.VTable = make(vm.VTable, len(r.VTable))
	}
	for slot, sym := range r.VTable {
		if sym == "" {
			continue
		}
		m, ok := natives[sym]
		if !ok {
			return nil, fmt.Errorf("flash: %s: unresolved native %s at slot %d", r.Name, sym, slot)
		}
		c.VTable[slot] = m
	}
	return c, nil
}
