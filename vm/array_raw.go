package vm

import "unsafe"

// Raw arrays keep their element count in body[0] followed by unscanned
// elements: 32-bit ints, 32-bit floats, or packed bytes (byte and boolean
// arrays). Element accessors return direct references into the heap.

func (ctx *Context) newRawArray(c *Class, n int32, words int) (uint32, error) {
	if n < 0 {
		return 0, indexError(n, 0)
	}
	w, err := ctx.allocate(c, 1+words)
	if err != nil {
		return 0, err
	}
	ctx.rt.setRaw(w, 0, uint32(n))
	return w, nil
}

// rawArray checks that v is an array of class c and returns its head and
// length.
func (rt *Runtime) rawArray(v Value, c *Class) (uint32, int32, error) {
	w, ok := rt.objectWord(v)
	if !ok || rt.classAt(w) != c {
		return 0, 0, typeError("%s: %s", c.Name, v)
	}
	return w, int32(rt.body(w, 0)), nil
}

func (rt *Runtime) rawElement(v Value, c *Class, index int32) (uint32, error) {
	w, n, err := rt.rawArray(v, c)
	if err != nil {
		return 0, err
	}
	if index < 0 || index >= n {
		return 0, indexError(index, n)
	}
	return w, nil
}

// ---------------------------------------------------------------------------
// Int arrays
// ---------------------------------------------------------------------------

// NewIntArray allocates an int array of n elements set to init.
func (ctx *Context) NewIntArray(n int32, init int32) (Value, error) {
	w, err := ctx.newRawArray(IntArrayClass, n, int(max(n, 0)))
	if err != nil {
		return Null, err
	}
	for i := 0; i < int(n); i++ {
		ctx.rt.setRaw(w, 1+i, uint32(init))
	}
	return FromPointer(pointerOf(w)), nil
}

// MakeIntArray allocates an int array from a literal list.
func (ctx *Context) MakeIntArray(elems ...int32) (Value, error) {
	n := int32(len(elems))
	w, err := ctx.newRawArray(IntArrayClass, n, len(elems))
	if err != nil {
		return Null, err
	}
	for i, e := range elems {
		ctx.rt.setRaw(w, 1+i, uint32(e))
	}
	return FromPointer(pointerOf(w)), nil
}

// IsIntArray reports whether v is an int array.
func (rt *Runtime) IsIntArray(v Value) bool { return rt.ClassOf(v) == IntArrayClass }

// IntArrayLength returns the length of int array v.
func (rt *Runtime) IntArrayLength(v Value) (int32, error) {
	_, n, err := rt.rawArray(v, IntArrayClass)
	return n, err
}

// IntArrayGet returns a reference to element index of int array v.
func (rt *Runtime) IntArrayGet(v Value, index int32) (*int32, error) {
	w, err := rt.rawElement(v, IntArrayClass, index)
	if err != nil {
		return nil, err
	}
	return (*int32)(unsafe.Pointer(&rt.heap.words[slot(w, 1+int(index))])), nil
}

// ---------------------------------------------------------------------------
// Float arrays
// ---------------------------------------------------------------------------

// NewFloatArray allocates a float array of n elements set to init.
func (ctx *Context) NewFloatArray(n int32, init float32) (Value, error) {
	w, err := ctx.newRawArray(FloatArrayClass, n, int(max(n, 0)))
	if err != nil {
		return Null, err
	}
	v := FromPointer(pointerOf(w))
	for i := int32(0); i < n; i++ {
		p, _ := ctx.rt.FloatArrayGet(v, i)
		*p = init
	}
	return v, nil
}

// MakeFloatArray allocates a float array from a literal list.
func (ctx *Context) MakeFloatArray(elems ...float32) (Value, error) {
	w, err := ctx.newRawArray(FloatArrayClass, int32(len(elems)), len(elems))
	if err != nil {
		return Null, err
	}
	v := FromPointer(pointerOf(w))
	for i, e := range elems {
		p, _ := ctx.rt.FloatArrayGet(v, int32(i))
		*p = e
	}
	return v, nil
}

// IsFloatArray reports whether v is a float array.
func (rt *Runtime) IsFloatArray(v Value) bool { return rt.ClassOf(v) == FloatArrayClass }

// FloatArrayLength returns the length of float array v.
func (rt *Runtime) FloatArrayLength(v Value) (int32, error) {
	_, n, err := rt.rawArray(v, FloatArrayClass)
	return n, err
}

// FloatArrayGet returns a reference to element index of float array v.
func (rt *Runtime) FloatArrayGet(v Value, index int32) (*float32, error) {
	w, err := rt.rawElement(v, FloatArrayClass, index)
	if err != nil {
		return nil, err
	}
	return (*float32)(unsafe.Pointer(&rt.heap.words[slot(w, 1+int(index))])), nil
}

// ---------------------------------------------------------------------------
// Byte and boolean arrays
// ---------------------------------------------------------------------------

func byteArrayClass(isBoolean bool) *Class {
	if isBoolean {
		return BoolArrayClass
	}
	return ByteArrayClass
}

// NewByteArray allocates a byte array (or, with isBoolean, a boolean
// array) of n elements set to init.
func (ctx *Context) NewByteArray(isBoolean bool, n int32, init int32) (Value, error) {
	w, err := ctx.newRawArray(byteArrayClass(isBoolean), n, (int(max(n, 0))+3)/4)
	if err != nil {
		return Null, err
	}
	b := byte(init)
	if isBoolean && init != 0 {
		b = 1
	}
	elems := ctx.rt.byteElements(w, n)
	for i := range elems {
		elems[i] = b
	}
	return FromPointer(pointerOf(w)), nil
}

// MakeByteArray allocates a byte or boolean array from a literal list.
func (ctx *Context) MakeByteArray(isBoolean bool, elems ...int32) (Value, error) {
	n := int32(len(elems))
	w, err := ctx.newRawArray(byteArrayClass(isBoolean), n, (len(elems)+3)/4)
	if err != nil {
		return Null, err
	}
	dst := ctx.rt.byteElements(w, n)
	for i, e := range elems {
		if isBoolean && e != 0 {
			e = 1
		}
		dst[i] = byte(e)
	}
	return FromPointer(pointerOf(w)), nil
}

func (rt *Runtime) byteElements(w uint32, n int32) []byte {
	start := slot(w, 1) * 4
	return rt.heap.bytes[start : start+uint32(n)]
}

// byteArrayOf accepts both byte and boolean arrays.
func (rt *Runtime) byteArrayOf(v Value) (uint32, int32, error) {
	w, ok := rt.objectWord(v)
	if !ok {
		return 0, 0, typeError("Uint8Array: %s", v)
	}
	if c := rt.classAt(w); c != ByteArrayClass && c != BoolArrayClass {
		return 0, 0, typeError("Uint8Array: %s", v)
	}
	return w, int32(rt.body(w, 0)), nil
}

// IsByteArray reports whether v is a byte array.
func (rt *Runtime) IsByteArray(v Value) bool { return rt.ClassOf(v) == ByteArrayClass }

// IsBoolArray reports whether v is a boolean array.
func (rt *Runtime) IsBoolArray(v Value) bool { return rt.ClassOf(v) == BoolArrayClass }

// ByteArrayLength returns the length of a byte or boolean array.
func (rt *Runtime) ByteArrayLength(v Value) (int32, error) {
	_, n, err := rt.byteArrayOf(v)
	return n, err
}

// ByteArrayGet returns a reference to element index of a byte or boolean
// array.
func (rt *Runtime) ByteArrayGet(v Value, index int32) (*uint8, error) {
	w, n, err := rt.byteArrayOf(v)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= n {
		return nil, indexError(index, n)
	}
	return &rt.byteElements(w, n)[index], nil
}
