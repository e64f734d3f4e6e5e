package vm

// Vectors are fixed-capacity arrays of tagged values: body[0] holds the
// element count, the elements follow and are all scanned.

func (ctx *Context) allocVector(n int32, init Value) (uint32, error) {
	if n < 0 {
		return 0, indexError(n, 0)
	}
	f := ctx.protect(init)
	defer ctx.PopFrame(f)
	w, err := ctx.allocate(VectorClass, 1+int(n))
	if err != nil {
		return 0, err
	}
	ctx.rt.setRaw(w, 0, uint32(n))
	for i := 0; i < int(n); i++ {
		ctx.rt.store(w, 1+i, f.Values[0])
	}
	return w, nil
}

// NewVector allocates a vector of n elements set to init.
func (ctx *Context) NewVector(n int32, init Value) (Value, error) {
	w, err := ctx.allocVector(n, init)
	if err != nil {
		return Null, err
	}
	return FromPointer(pointerOf(w)), nil
}

// MakeVector allocates a vector from a literal list.
func (ctx *Context) MakeVector(elems ...Value) (Value, error) {
	f := ctx.protect(elems...)
	defer ctx.PopFrame(f)
	w, err := ctx.allocVector(int32(len(elems)), Null)
	if err != nil {
		return Null, err
	}
	for i, e := range f.Values {
		ctx.rt.store(w, 1+i, e)
	}
	return FromPointer(pointerOf(w)), nil
}

func (rt *Runtime) vectorOf(v Value) (uint32, int32, error) {
	w, ok := rt.objectWord(v)
	if !ok || rt.classAt(w) != VectorClass {
		return 0, 0, typeError("vector: %s", v)
	}
	return w, int32(rt.body(w, 0)), nil
}

// VectorLength returns the length of vector v.
func (rt *Runtime) VectorLength(v Value) (int32, error) {
	_, n, err := rt.vectorOf(v)
	return n, err
}

// VectorGet returns element index of vector v.
func (rt *Runtime) VectorGet(v Value, index int32) (Value, error) {
	w, n, err := rt.vectorOf(v)
	if err != nil {
		return Null, err
	}
	if index < 0 || index >= n {
		return Null, indexError(index, n)
	}
	return Value(rt.body(w, 1+int(index))), nil
}

// VectorSet stores x at element index of vector v.
func (rt *Runtime) VectorSet(v Value, index int32, x Value) (Value, error) {
	w, n, err := rt.vectorOf(v)
	if err != nil {
		return Null, err
	}
	if index < 0 || index >= n {
		return Null, indexError(index, n)
	}
	rt.store(w, 1+int(index), x)
	return x, nil
}
