// Package gpio provides the GPIO class: a digital output pin object whose
// on and off methods drive a Pins backend.
package gpio

import (
	"fmt"

	"github.com/chazu/mcurt/vm"
)

// Property and method ids of the GPIO class.
const (
	PinProperty uint16 = 1
	MethodOn    uint16 = 1
	MethodOff   uint16 = 2
)

// Virtual table slots.
const (
	SlotOn  = 0
	SlotOff = 1
)

// Pins is the hardware behind GPIO objects.
type Pins interface {
	// Output configures pin as a digital output.
	Output(pin int32) error
	// Set drives pin high (level 1) or low (level 0).
	Set(pin int32, level int) error
}

var backend Pins = NewSimulated()

// Use installs p as the backend for all GPIO objects and returns the
// previous backend.
func Use(p Pins) Pins {
	prev := backend
	backend = p
	return prev
}

var onMethod = vm.NewMethod("gpio.on", func(ctx *vm.Context, self vm.Value, _ []vm.Value) (vm.Value, error) {
	return vm.Null, drive(ctx, self, 1)
})

var offMethod = vm.NewMethod("gpio.off", func(ctx *vm.Context, self vm.Value, _ []vm.Value) (vm.Value, error) {
	return vm.Null, drive(ctx, self, 0)
})

// Class is the GPIO descriptor. The pin number is an unboxed int in body
// slot 0, so instances hold no pointers.
var Class = &vm.Class{
	Name:       "GPIO",
	Size:       1,
	StartIndex: 1,
	Superclass: vm.ObjectClass,
	Props: vm.PropertyTable{
		Unboxed:      1,
		Names:        []uint16{PinProperty},
		UnboxedTypes: "i",
	},
	Methods: []vm.MethodEntry{
		{ID: MethodOn, Signature: "()v", Slot: SlotOn},
		{ID: MethodOff, Signature: "()v", Slot: SlotOff},
	},
}

func init() {
	Class.VTable = vm.VTable{SlotOn: onMethod, SlotOff: offMethod}
}

// Natives maps the method names of the GPIO class to their bodies, for
// resolving class table images that subclass or embed it.
func Natives() map[string]vm.Method {
	return map[string]vm.Method{
		onMethod.Name():  onMethod,
		offMethod.Name(): offMethod,
	}
}

// New allocates a GPIO object for pin and configures the pin as an
// output. The class must already be registered with the runtime.
func New(ctx *vm.Context, pin int32) (vm.Value, error) {
	obj, err := ctx.NewObject(Class)
	if err != nil {
		return vm.Null, err
	}
	*ctx.Runtime().IntProperty(obj, 0) = pin
	if err := backend.Output(pin); err != nil {
		return vm.Null, fmt.Errorf("gpio: pin %d: %w", pin, err)
	}
	return obj, nil
}

// Pin returns the pin number of a GPIO object.
func Pin(rt *vm.Runtime, obj vm.Value) (int32, error) {
	if _, err := rt.SafeToValue(false, Class, obj); err != nil {
		return 0, err
	}
	return *rt.IntProperty(obj, 0), nil
}

func drive(ctx *vm.Context, self vm.Value, level int) error {
	pin, err := Pin(ctx.Runtime(), self)
	if err != nil {
		return err
	}
	return backend.Set(pin, level)
}
