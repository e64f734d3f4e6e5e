package vm

import "fmt"

// TryAndCatch runs main on the main-line context under the single recovery
// boundary. It returns status 0 when main completes, and 1 together with
// the fault when main returns an error or panics. Root frames linked under
// the boundary are dropped and the interrupt bracket is reset on exit.
//
// Only one boundary may be installed; a nested call fails immediately with
// a GenericRuntimeError and leaves the outer boundary in place.
func (rt *Runtime) TryAndCatch(main func(ctx *Context) error) (status int32, err error) {
	if rt.boundary {
		return 1, Raise("try_and_catch is already installed")
	}
	rt.boundary = true
	ctx := rt.main
	mark, depth := ctx.head, ctx.depth
	isrMark, isrDepth := rt.isr.head, rt.isr.depth

	defer func() {
		if r := recover(); r != nil {
			status, err = 1, recovered(r)
		}
		ctx.unwindTo(mark, depth)
		rt.isr.unwindTo(isrMark, isrDepth)
		rt.interruptDepth = 0
		rt.boundary = false
		if err != nil {
			heapLog.Debugf("boundary caught: %s", err)
		}
	}()

	if err := main(ctx); err != nil {
		return 1, err
	}
	return 0, nil
}

func recovered(r any) error {
	switch x := r.(type) {
	case *Error:
		return x
	case error:
		return &Error{Kind: GenericRuntimeError, Msg: x.Error()}
	default:
		return &Error{Kind: GenericRuntimeError, Msg: fmt.Sprint(x)}
	}
}
