package vm

// Interrupt handlers are bracketed by InterruptStart and InterruptEnd.
// Inside the bracket no collector step runs, so a handler never observes
// (or races) a half-finished mark or sweep. Handlers may read and write
// tagged values and allocate; allocation inside the bracket only takes
// free space and fails with OutOfMemory rather than collecting.

// InterruptStart enters an interrupt handler and returns the interrupt
// context. Brackets may nest.
func (rt *Runtime) InterruptStart() *Context {
	rt.interruptDepth++
	return rt.isr
}

// InterruptEnd leaves the innermost interrupt handler.
func (rt *Runtime) InterruptEnd() {
	if rt.interruptDepth == 0 {
		panic("vm: InterruptEnd without InterruptStart")
	}
	rt.interruptDepth--
}

// InInterrupt reports whether an interrupt handler is active.
func (rt *Runtime) InInterrupt() bool { return rt.interruptDepth > 0 }

// Interrupt runs handler inside the interrupt bracket. Root frames the
// handler leaves linked are dropped when it returns.
func (rt *Runtime) Interrupt(handler func(ctx *Context) error) error {
	ctx := rt.InterruptStart()
	mark, depth := ctx.head, ctx.depth
	defer func() {
		ctx.unwindTo(mark, depth)
		rt.InterruptEnd()
	}()
	return handler(ctx)
}
