package main

import (
	"fmt"

	"github.com/chazu/mcurt/lib/gpio"
	"github.com/chazu/mcurt/vm"
)

// window is the number of strings the workload keeps alive at once.
const window = 32

// blinkEvery is the number of iterations between simulated timer
// interrupts.
const blinkEvery = 10

// runWorkload churns the heap: each iteration allocates a string, appends
// it to a sliding window held in a generic array, bumps a counter
// captured by a closure and sums the running total with the generic
// operators. A simulated timer interrupt toggles an LED every blinkEvery
// iterations.
func runWorkload(ctx *vm.Context, iterations int) error {
	rt := ctx.Runtime()
	// 0 window, 1 counter closure, 2 led, 3 total, 4 scratch
	f := ctx.PushFrame(5)
	defer ctx.PopFrame(f)

	var err error
	if f.Values[0], err = ctx.NewArray(vm.AnyArrayClass, 0, vm.Null); err != nil {
		return err
	}
	if f.Values[4], err = ctx.NewBox(vm.Zero); err != nil {
		return err
	}
	count := rt.RegisterCode("workload.count", countCode)
	if f.Values[1], err = ctx.NewFunction(count, "()i", f.Values[4]); err != nil {
		return err
	}
	if f.Values[2], err = gpio.New(ctx, 2); err != nil {
		return err
	}
	f.Values[3] = vm.Zero

	for i := 0; i < iterations; i++ {
		if f.Values[4], err = ctx.NewString(fmt.Sprintf("sample-%d", i)); err != nil {
			return err
		}
		n, err := ctx.Push(f.Values[0], f.Values[4])
		if err != nil {
			return err
		}
		if n > window {
			if _, err := rt.Shift(f.Values[0]); err != nil {
				return err
			}
		}

		c, err := ctx.CallFunction(f.Values[1], "()i")
		if err != nil {
			return err
		}
		if f.Values[3], err = ctx.Add(f.Values[3], c); err != nil {
			return err
		}

		if i%blinkEvery == blinkEvery-1 {
			led := f.Values[2]
			on := (i/blinkEvery)%2 == 0
			err := rt.Interrupt(func(ictx *vm.Context) error {
				if on {
					_, err := ictx.Send(led, gpio.MethodOn)
					return err
				}
				_, err := ictx.Send(led, gpio.MethodOff)
				return err
			})
			if err != nil {
				return err
			}
		}
	}

	log.Debugf("workload finished: total %s, window %d", rt.AnyToString(f.Values[3]), window)
	return nil
}

// countCode increments the integer held by the function's captured box
// and returns the new value.
func countCode(ctx *vm.Context, fn vm.Value, _ []vm.Value) (vm.Value, error) {
	rt := ctx.Runtime()
	box, err := rt.FunctionCaptured(fn, 0)
	if err != nil {
		return vm.Null, err
	}
	cur, err := rt.BoxGet(box)
	if err != nil {
		return vm.Null, err
	}
	next, err := ctx.Add(cur, vm.FromInt(1))
	if err != nil {
		return vm.Null, err
	}
	return rt.BoxSet(box, next)
}
