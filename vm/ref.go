package vm

type refKind uint8

const (
	refNone refKind = iota
	refFrame
	refGlobal
	refField
)

// Ref is a reference to a storage location holding a tagged value: a root
// frame slot, a global slot or an object slot. Store runs the write
// barrier required by the location.
type Ref struct {
	rt    *Runtime
	kind  refKind
	frame *RootFrame
	obj   Value
	index int
}

// FrameRef refers to slot i of a root frame.
func FrameRef(f *RootFrame, i int) Ref {
	return Ref{kind: refFrame, frame: f, index: i}
}

// GlobalRef refers to global slot i.
func (rt *Runtime) GlobalRef(i int) Ref {
	return Ref{rt: rt, kind: refGlobal, index: i}
}

// FieldRef refers to tagged body slot i of obj.
func (rt *Runtime) FieldRef(obj Value, i int) Ref {
	return Ref{rt: rt, kind: refField, obj: obj, index: i}
}

// Valid reports whether r refers to a location.
func (r Ref) Valid() bool { return r.kind != refNone }

// Load reads the referenced value.
func (r Ref) Load() Value {
	switch r.kind {
	case refFrame:
		return r.frame.Values[r.index]
	case refGlobal:
		return r.rt.Global(r.index)
	case refField:
		return r.rt.GetProperty(r.obj, r.index)
	default:
		return Null
	}
}

// Store writes v to the referenced location.
func (r Ref) Store(v Value) Value {
	switch r.kind {
	case refFrame:
		r.frame.Values[r.index] = v
	case refGlobal:
		r.rt.SetGlobal(r.index, v)
	case refField:
		r.rt.SetProperty(r.obj, r.index, v)
	}
	return v
}

// ---------------------------------------------------------------------------
// Compound assignment
// ---------------------------------------------------------------------------

func (ctx *Context) assign(r Ref, op byte, b Value) (Value, error) {
	v, err := ctx.Binary(op, r.Load(), b)
	if err != nil {
		return Null, err
	}
	return r.Store(v), nil
}

// AddAssign performs *r += b.
func (ctx *Context) AddAssign(r Ref, b Value) (Value, error) { return ctx.assign(r, '+', b) }

// SubtractAssign performs *r -= b.
func (ctx *Context) SubtractAssign(r Ref, b Value) (Value, error) { return ctx.assign(r, '-', b) }

// MultiplyAssign performs *r *= b.
func (ctx *Context) MultiplyAssign(r Ref, b Value) (Value, error) { return ctx.assign(r, '*', b) }

// DivideAssign performs *r /= b.
func (ctx *Context) DivideAssign(r Ref, b Value) (Value, error) { return ctx.assign(r, '/', b) }

// ModuloAssign performs *r %= b.
func (ctx *Context) ModuloAssign(r Ref, b Value) (Value, error) { return ctx.assign(r, '%', b) }

// Increment performs ++*r and returns the new value.
func (ctx *Context) Increment(r Ref) (Value, error) { return ctx.assign(r, '+', FromInt(1)) }

// Decrement performs --*r and returns the new value.
func (ctx *Context) Decrement(r Ref) (Value, error) { return ctx.assign(r, '-', FromInt(1)) }

// PostIncrement performs (*r)++ and returns the old value.
func (ctx *Context) PostIncrement(r Ref) (Value, error) {
	old := r.Load()
	if _, err := ctx.assign(r, '+', FromInt(1)); err != nil {
		return Null, err
	}
	return old, nil
}

// PostDecrement performs (*r)-- and returns the old value.
func (ctx *Context) PostDecrement(r Ref) (Value, error) {
	old := r.Load()
	if _, err := ctx.assign(r, '-', FromInt(1)); err != nil {
		return Null, err
	}
	return old, nil
}

// AddMember performs obj.slot[index] += v.
func (ctx *Context) AddMember(obj Value, index int, v Value) (Value, error) {
	if _, err := ctx.rt.mustObject(obj, "+="); err != nil {
		return Null, err
	}
	return ctx.AddAssign(ctx.rt.FieldRef(obj, index), v)
}
