package vm

// Generic arrays have a fixed two-slot body: body[0] is the raw length and
// body[1] points to a backing Vector whose count is the capacity. Growth
// swaps in a larger vector; the array object itself never moves, so
// references held by callers stay valid.

const minArrayCapacity = 4

// NewArray allocates an array of class c (AnyArrayClass or a user array
// class with the same layout) with n elements set to init.
func (ctx *Context) NewArray(c *Class, n int32, init Value) (Value, error) {
	if !isGenericArrayClass(c) {
		return Null, typeError("%s is not an array class", c.Name)
	}
	f := ctx.protect(init, Null)
	defer ctx.PopFrame(f)
	vec, err := ctx.allocVector(n, init)
	if err != nil {
		return Null, err
	}
	f.Values[1] = FromPointer(pointerOf(vec))
	w, err := ctx.allocate(c, 2)
	if err != nil {
		return Null, err
	}
	ctx.rt.setRaw(w, 0, uint32(n))
	ctx.rt.store(w, 1, f.Values[1])
	return FromPointer(pointerOf(w)), nil
}

// MakeArray allocates an array of class c from a literal list.
func (ctx *Context) MakeArray(c *Class, elems ...Value) (Value, error) {
	if !isGenericArrayClass(c) {
		return Null, typeError("%s is not an array class", c.Name)
	}
	f := ctx.protect(elems...)
	defer ctx.PopFrame(f)
	arr, err := ctx.NewArray(c, int32(len(elems)), Null)
	if err != nil {
		return Null, err
	}
	vec := ctx.rt.body(wordOf(arr.Pointer()), 1)
	for i, e := range f.Values {
		ctx.rt.store(wordOf(Value(vec).Pointer()), 1+i, e)
	}
	return arr, nil
}

// genericArray checks that v is a generic array and returns its head,
// length and the head of its backing vector.
func (rt *Runtime) genericArray(v Value) (uint32, int32, uint32, error) {
	w, ok := rt.objectWord(v)
	if !ok || !isGenericArrayClass(rt.classAt(w)) {
		return 0, 0, 0, typeError("any[]: %s", v)
	}
	return w, int32(rt.body(w, 0)), wordOf(Value(rt.body(w, 1)).Pointer()), nil
}

// IsAnyArray reports whether v is a generic array (any[] or a user array
// class).
func (rt *Runtime) IsAnyArray(v Value) bool {
	c := rt.ClassOf(v)
	return c != nil && isGenericArrayClass(c)
}

// ArrayLength returns the length of generic array v.
func (rt *Runtime) ArrayLength(v Value) (int32, error) {
	_, n, _, err := rt.genericArray(v)
	return n, err
}

// ArrayGet returns a reference to element index. The reference is valid
// until the array next grows.
func (rt *Runtime) ArrayGet(v Value, index int32) (Ref, error) {
	_, n, vec, err := rt.genericArray(v)
	if err != nil {
		return Ref{}, err
	}
	if index < 0 || index >= n {
		return Ref{}, indexError(index, n)
	}
	return rt.FieldRef(FromPointer(pointerOf(vec)), 1+int(index)), nil
}

// ArraySet stores x at element index.
func (rt *Runtime) ArraySet(v Value, index int32, x Value) (Value, error) {
	_, n, vec, err := rt.genericArray(v)
	if err != nil {
		return Null, err
	}
	if index < 0 || index >= n {
		return Null, indexError(index, n)
	}
	rt.store(vec, 1+int(index), x)
	return x, nil
}

// reserve makes room for at least need elements, replacing the backing
// vector if it is too small. The new vector is installed in the array
// before the next collection point and the old one is truncated so the
// collector stops scanning it. arr and extra stay rooted meanwhile.
func (ctx *Context) reserve(arr Value, need int32, extra Value) error {
	rt := ctx.rt
	_, n, vec, err := rt.genericArray(arr)
	if err != nil {
		return err
	}
	capacity := int32(rt.body(vec, 0))
	if need <= capacity {
		return nil
	}
	newCap := max(capacity*2, need, minArrayCapacity)

	f := ctx.protect(arr, extra)
	defer ctx.PopFrame(f)
	nv, err := ctx.allocVector(newCap, Null)
	if err != nil {
		return err
	}
	// The allocation may have run a collection step; reload everything.
	w, _, vec, _ := rt.genericArray(f.Values[0])
	for i := 0; i < int(n); i++ {
		rt.store(nv, 1+i, Value(rt.body(vec, 1+i)))
	}
	rt.store(w, 1, FromPointer(pointerOf(nv)))
	rt.setRaw(vec, 0, 0)
	return nil
}

// Push appends x and returns the new length.
func (ctx *Context) Push(arr Value, x Value) (int32, error) {
	_, n, _, err := ctx.rt.genericArray(arr)
	if err != nil {
		return 0, err
	}
	if err := ctx.reserve(arr, n+1, x); err != nil {
		return 0, err
	}
	w, _, vec, _ := ctx.rt.genericArray(arr)
	ctx.rt.store(vec, 1+int(n), x)
	ctx.rt.setRaw(w, 0, uint32(n+1))
	return n + 1, nil
}

// Pop removes and returns the last element, or Null if arr is empty.
func (rt *Runtime) Pop(arr Value) (Value, error) {
	w, n, vec, err := rt.genericArray(arr)
	if err != nil {
		return Null, err
	}
	if n == 0 {
		return Null, nil
	}
	x := Value(rt.body(vec, int(n)))
	rt.setRaw(vec, int(n), uint32(Null))
	rt.setRaw(w, 0, uint32(n-1))
	return x, nil
}

// Unshift inserts x at the front and returns the new length.
func (ctx *Context) Unshift(arr Value, x Value) (int32, error) {
	_, n, _, err := ctx.rt.genericArray(arr)
	if err != nil {
		return 0, err
	}
	if err := ctx.reserve(arr, n+1, x); err != nil {
		return 0, err
	}
	rt := ctx.rt
	w, _, vec, _ := rt.genericArray(arr)
	for i := int(n); i > 0; i-- {
		rt.store(vec, 1+i, Value(rt.body(vec, i)))
	}
	rt.store(vec, 1, x)
	rt.setRaw(w, 0, uint32(n+1))
	return n + 1, nil
}

// Shift removes and returns the first element, or Null if arr is empty.
func (rt *Runtime) Shift(arr Value) (Value, error) {
	w, n, vec, err := rt.genericArray(arr)
	if err != nil {
		return Null, err
	}
	if n == 0 {
		return Null, nil
	}
	x := Value(rt.body(vec, 1))
	for i := 1; i < int(n); i++ {
		rt.store(vec, i, Value(rt.body(vec, 1+i)))
	}
	rt.setRaw(vec, int(n), uint32(Null))
	rt.setRaw(w, 0, uint32(n-1))
	return x, nil
}
