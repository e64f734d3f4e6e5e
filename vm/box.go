package vm

// NewBox allocates a box holding one tagged value.
func (ctx *Context) NewBox(v Value) (Value, error) {
	f := ctx.protect(v)
	defer ctx.PopFrame(f)
	w, err := ctx.allocate(BoxClass, 1)
	if err != nil {
		return Null, err
	}
	ctx.rt.store(w, 0, f.Values[0])
	return FromPointer(pointerOf(w)), nil
}

// NewIntBox allocates a box holding a raw int32.
func (ctx *Context) NewIntBox(n int32) (Value, error) {
	w, err := ctx.allocate(IntBoxClass, 1)
	if err != nil {
		return Null, err
	}
	ctx.rt.setRaw(w, 0, uint32(n))
	return FromPointer(pointerOf(w)), nil
}

// NewFloatBox allocates a box holding a raw float32.
func (ctx *Context) NewFloatBox(x float32) (Value, error) {
	w, err := ctx.allocate(FloatBoxClass, 1)
	if err != nil {
		return Null, err
	}
	*ctx.rt.FloatProperty(FromPointer(pointerOf(w)), 0) = x
	return FromPointer(pointerOf(w)), nil
}

// BoxGet returns the value held by box.
func (rt *Runtime) BoxGet(box Value) (Value, error) {
	if rt.ClassOf(box) != BoxClass {
		return Null, typeError("not a box: %s", box)
	}
	return rt.GetProperty(box, 0), nil
}

// BoxSet replaces the value held by box.
func (rt *Runtime) BoxSet(box, v Value) (Value, error) {
	if rt.ClassOf(box) != BoxClass {
		return Null, typeError("not a box: %s", box)
	}
	return rt.SetProperty(box, 0, v), nil
}
