package vm

// Element access on a value statically typed any. The element kind is
// picked from the array class tag; raw elements are converted to and
// from tagged values.

// AnyLength returns the length of any array kind or of a string.
func (rt *Runtime) AnyLength(v Value) (int32, error) {
	c := rt.ClassOf(v)
	switch {
	case c == StringClass:
		return rt.StringLength(v)
	case c == VectorClass:
		return rt.VectorLength(v)
	case c.IsArray() && isGenericArrayClass(c):
		return rt.ArrayLength(v)
	case c.IsArray():
		return int32(rt.body(wordOf(v.Pointer()), 0)), nil
	}
	return 0, typeError("no length: %s", v)
}

// SafeArrayGet reads element index of any array.
func (rt *Runtime) SafeArrayGet(obj Value, index int32) (Value, error) {
	c := rt.ClassOf(obj)
	switch {
	case c == IntArrayClass:
		p, err := rt.IntArrayGet(obj, index)
		if err != nil {
			return Null, err
		}
		return FromInt(*p), nil
	case c == FloatArrayClass:
		p, err := rt.FloatArrayGet(obj, index)
		if err != nil {
			return Null, err
		}
		return FromFloat(*p), nil
	case c == ByteArrayClass:
		p, err := rt.ByteArrayGet(obj, index)
		if err != nil {
			return Null, err
		}
		return FromInt(int32(*p)), nil
	case c == BoolArrayClass:
		p, err := rt.ByteArrayGet(obj, index)
		if err != nil {
			return Null, err
		}
		return FromBool(*p != 0), nil
	case c == VectorClass:
		return rt.VectorGet(obj, index)
	case c != nil && isGenericArrayClass(c):
		r, err := rt.ArrayGet(obj, index)
		if err != nil {
			return Null, err
		}
		return r.Load(), nil
	}
	return Null, typeError("not an array: %s", obj)
}

// SafeArraySet stores v at element index of any array. v must convert to
// the element type of raw arrays.
func (rt *Runtime) SafeArraySet(obj Value, index int32, v Value) (Value, error) {
	c := rt.ClassOf(obj)
	switch {
	case c == IntArrayClass:
		p, err := rt.IntArrayGet(obj, index)
		if err != nil {
			return Null, err
		}
		n, err := rt.SafeToInt(v)
		if err != nil {
			return Null, err
		}
		*p = n
		return v, nil
	case c == FloatArrayClass:
		p, err := rt.FloatArrayGet(obj, index)
		if err != nil {
			return Null, err
		}
		x, err := rt.SafeToFloat(v)
		if err != nil {
			return Null, err
		}
		*p = x
		return v, nil
	case c == ByteArrayClass:
		p, err := rt.ByteArrayGet(obj, index)
		if err != nil {
			return Null, err
		}
		n, err := rt.SafeToInt(v)
		if err != nil {
			return Null, err
		}
		*p = uint8(n)
		return v, nil
	case c == BoolArrayClass:
		p, err := rt.ByteArrayGet(obj, index)
		if err != nil {
			return Null, err
		}
		if v.Truthy() {
			*p = 1
		} else {
			*p = 0
		}
		return v, nil
	case c == VectorClass:
		return rt.VectorSet(obj, index, v)
	case c != nil && isGenericArrayClass(c):
		return rt.ArraySet(obj, index, v)
	}
	return Null, typeError("not an array: %s", obj)
}

// SafeArrayAcc performs obj[index] op= v on any array and returns the
// stored value.
func (ctx *Context) SafeArrayAcc(obj Value, index int32, op byte, v Value) (Value, error) {
	rt := ctx.rt
	old, err := rt.SafeArrayGet(obj, index)
	if err != nil {
		return Null, err
	}
	f := ctx.protect(obj)
	defer ctx.PopFrame(f)
	x, err := ctx.Binary(op, old, v)
	if err != nil {
		return Null, err
	}
	return rt.SafeArraySet(f.Values[0], index, x)
}
