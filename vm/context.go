package vm

// RootFrame records the live tagged values of one activation. Frames are
// linked LIFO from their context's head; the collector treats every value
// in every linked frame as a root.
type RootFrame struct {
	next   *RootFrame
	Values []Value
}

func newRootFrame(n int) *RootFrame {
	f := &RootFrame{Values: make([]Value, n)}
	for i := range f.Values {
		f.Values[i] = Null
	}
	return f
}

// Context is an execution context: the main line, or interrupt code. Every
// operation that may allocate is a method on *Context so that the frames
// it must protect are explicit.
type Context struct {
	rt    *Runtime
	name  string
	head  *RootFrame
	depth int
}

// Runtime returns the runtime that owns ctx.
func (ctx *Context) Runtime() *Runtime { return ctx.rt }

// Name returns "main" or "interrupt".
func (ctx *Context) Name() string { return ctx.name }

// Depth returns the number of linked root frames.
func (ctx *Context) Depth() int { return ctx.depth }

// PushFrame links a new frame of n slots, all set to Null. Every exit path
// of the activation must unlink it with PopFrame, usually by defer.
func (ctx *Context) PushFrame(n int) *RootFrame {
	f := newRootFrame(n)
	f.next = ctx.head
	ctx.head = f
	ctx.depth++
	return f
}

// PopFrame unlinks f, which must be the most recently pushed frame.
func (ctx *Context) PopFrame(f *RootFrame) {
	if ctx.head != f {
		panic("vm: root frame popped out of order")
	}
	ctx.head = f.next
	f.next = nil
	ctx.depth--
}

// protect pushes a frame holding vals for the duration of an allocation.
func (ctx *Context) protect(vals ...Value) *RootFrame {
	f := ctx.PushFrame(len(vals))
	copy(f.Values, vals)
	return f
}

// unwindTo drops every frame above mark. Used by the recovery boundary.
func (ctx *Context) unwindTo(mark *RootFrame, depth int) {
	ctx.head = mark
	ctx.depth = depth
}

func (ctx *Context) forEachRoot(fn func(Value)) {
	for f := ctx.head; f != nil; f = f.next {
		for _, v := range f.Values {
			fn(v)
		}
	}
}
