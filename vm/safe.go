package vm

// Checked conversions from a tagged value to a statically typed value.
// Generated code calls them where a value of type any flows into a typed
// variable; a mismatch is a TypeMismatch fault.

// SafeToInt converts an int or an int box.
func (rt *Runtime) SafeToInt(v Value) (int32, error) {
	if v.IsInt() {
		return v.Int(), nil
	}
	if rt.ClassOf(v) == IntBoxClass {
		return *rt.IntProperty(v, 0), nil
	}
	return 0, typeError("value_to_int: %s", v)
}

// SafeToFloat converts a float or a float box.
func (rt *Runtime) SafeToFloat(v Value) (float32, error) {
	if v.IsFloat() {
		return v.Float(), nil
	}
	if rt.ClassOf(v) == FloatBoxClass {
		return *rt.FloatProperty(v, 0), nil
	}
	return 0, typeError("value_to_float: %s", v)
}

// SafeToBool never fails: every value has a truth value.
func (rt *Runtime) SafeToBool(v Value) bool { return v.Truthy() }

// SafeToNull accepts only null.
func (rt *Runtime) SafeToNull(v Value) (Value, error) {
	if v != Null {
		return Null, typeError("value_to_null: %s", v)
	}
	return v, nil
}

// SafeToString accepts a string, or null when nullable.
func (rt *Runtime) SafeToString(nullable bool, v Value) (Value, error) {
	if rt.IsString(v) || nullable && v == Null {
		return v, nil
	}
	return Null, typeError("value_to_string: %s", v)
}

// SafeToObject accepts any heap object, or null when nullable.
func (rt *Runtime) SafeToObject(nullable bool, v Value) (Value, error) {
	if rt.ClassOf(v) != nil || nullable && v == Null {
		return v, nil
	}
	return Null, typeError("value_to_object: %s", v)
}

// SafeToValue accepts an instance of c or of a subclass, or null when
// nullable.
func (rt *Runtime) SafeToValue(nullable bool, c *Class, v Value) (Value, error) {
	if rt.IsInstanceOf(c, v) || nullable && v == Null {
		return v, nil
	}
	return Null, typeError("value_to_%s: %s", c.Name, v)
}

func (rt *Runtime) safeToClass(nullable bool, c *Class, v Value) (Value, error) {
	if rt.ClassOf(v) == c || nullable && v == Null {
		return v, nil
	}
	return Null, typeError("value_to_%s: %s", c.Name, v)
}

// SafeToIntArray accepts an int array, or null when nullable.
func (rt *Runtime) SafeToIntArray(nullable bool, v Value) (Value, error) {
	return rt.safeToClass(nullable, IntArrayClass, v)
}

// SafeToFloatArray accepts a float array, or null when nullable.
func (rt *Runtime) SafeToFloatArray(nullable bool, v Value) (Value, error) {
	return rt.safeToClass(nullable, FloatArrayClass, v)
}

// SafeToBoolArray accepts a boolean array, or null when nullable.
func (rt *Runtime) SafeToBoolArray(nullable bool, v Value) (Value, error) {
	return rt.safeToClass(nullable, BoolArrayClass, v)
}

// SafeToByteArray accepts a byte array, or null when nullable.
func (rt *Runtime) SafeToByteArray(nullable bool, v Value) (Value, error) {
	return rt.safeToClass(nullable, ByteArrayClass, v)
}

// SafeToVector accepts a vector, or null when nullable.
func (rt *Runtime) SafeToVector(nullable bool, v Value) (Value, error) {
	return rt.safeToClass(nullable, VectorClass, v)
}

// SafeToAnyArray accepts an any[] array, or null when nullable.
func (rt *Runtime) SafeToAnyArray(nullable bool, v Value) (Value, error) {
	return rt.safeToClass(nullable, AnyArrayClass, v)
}

// SafeToArrayOf accepts a generic array whose element type matches that
// of array class c, or null when nullable.
func (rt *Runtime) SafeToArrayOf(nullable bool, c *Class, v Value) (Value, error) {
	if nullable && v == Null {
		return v, nil
	}
	if vc := rt.ClassOf(v); vc == c || vc != nil && isGenericArrayClass(vc) && vc.ArrayType == c.ArrayType {
		return v, nil
	}
	return Null, typeError("value_to_%s: %s", c.Name, v)
}
