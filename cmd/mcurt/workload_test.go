package main

import (
	"testing"

	"github.com/chazu/mcurt/lib/gpio"
	"github.com/chazu/mcurt/vm"
)

func newWorkloadRuntime(t *testing.T, heapBytes int) (*vm.Runtime, *gpio.Simulated) {
	t.Helper()
	pins := gpio.NewSimulated()
	prev := gpio.Use(pins)
	t.Cleanup(func() { gpio.Use(prev) })
	opts := vm.DefaultOptions()
	opts.HeapSize = heapBytes
	rt := vm.New(opts)
	if err := rt.RegisterClass(gpio.Class); err != nil {
		t.Fatal(err)
	}
	return rt, pins
}

func TestWorkload_Collects(t *testing.T) {
	rt, pins := newWorkloadRuntime(t, 8*1024)

	status, err := rt.TryAndCatch(func(ctx *vm.Context) error {
		return runWorkload(ctx, 500)
	})
	if status != 0 || err != nil {
		t.Fatalf("TryAndCatch = %d, %v", status, err)
	}

	s := rt.Stats()
	if s.Cycles == 0 {
		t.Error("expected at least one collection cycle")
	}
	if s.FreedObjects == 0 {
		t.Error("expected freed objects")
	}
	if pins.Writes != 50 {
		t.Errorf("gpio writes = %d, want 50", pins.Writes)
	}
	if rt.Main().Depth() != 0 {
		t.Errorf("main depth = %d after workload", rt.Main().Depth())
	}
}

func TestWorkload_OutOfMemory(t *testing.T) {
	rt, _ := newWorkloadRuntime(t, 256)

	status, err := rt.TryAndCatch(func(ctx *vm.Context) error {
		return runWorkload(ctx, 100)
	})
	if status == 0 {
		t.Fatal("workload succeeded in a 256 byte heap")
	}
	if vm.KindOf(err) != vm.OutOfMemory {
		t.Errorf("error kind = %v, want out of memory (%v)", vm.KindOf(err), err)
	}
}
