package vm

// Property access by property id, for values whose class is not known
// statically. Unboxed properties are converted according to their type
// code: 'i' int, 'f' float, 'b' boolean.

func (rt *Runtime) propertyOf(obj Value, id uint16) (int, byte, error) {
	c := rt.ClassOf(obj)
	if c == nil {
		return 0, 0, typeError("property access on %s", obj)
	}
	index, code, ok := c.findProperty(id)
	if !ok {
		return 0, 0, typeError("no such property %d in %s", id, c.Name)
	}
	return index, code, nil
}

// GetAnyProperty reads property id of obj. The pseudo property "length"
// is handled by AnyLength.
func (rt *Runtime) GetAnyProperty(obj Value, id uint16) (Value, error) {
	index, code, err := rt.propertyOf(obj, id)
	if err != nil {
		return Null, err
	}
	switch code {
	case 'i':
		return FromInt(*rt.IntProperty(obj, index)), nil
	case 'f':
		return FromFloat(*rt.FloatProperty(obj, index)), nil
	case 'b':
		return FromBool(*rt.IntProperty(obj, index) != 0), nil
	}
	return rt.GetProperty(obj, index), nil
}

// SetAnyProperty stores v in property id of obj.
func (rt *Runtime) SetAnyProperty(obj Value, id uint16, v Value) (Value, error) {
	index, code, err := rt.propertyOf(obj, id)
	if err != nil {
		return Null, err
	}
	switch code {
	case 'i':
		n, err := rt.SafeToInt(v)
		if err != nil {
			return Null, err
		}
		*rt.IntProperty(obj, index) = n
		return v, nil
	case 'f':
		x, err := rt.SafeToFloat(v)
		if err != nil {
			return Null, err
		}
		*rt.FloatProperty(obj, index) = x
		return v, nil
	case 'b':
		b := int32(0)
		if v.Truthy() {
			b = 1
		}
		*rt.IntProperty(obj, index) = b
		return v, nil
	}
	return rt.SetProperty(obj, index, v), nil
}

// AccAnyProperty performs obj.id op= v.
func (ctx *Context) AccAnyProperty(obj Value, op byte, id uint16, v Value) (Value, error) {
	old, err := ctx.rt.GetAnyProperty(obj, id)
	if err != nil {
		return Null, err
	}
	f := ctx.protect(obj)
	defer ctx.PopFrame(f)
	x, err := ctx.Binary(op, old, v)
	if err != nil {
		return Null, err
	}
	return ctx.rt.SetAnyProperty(f.Values[0], id, x)
}
