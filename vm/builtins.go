package vm

// Built-in class descriptors. Like generated descriptors they are
// immutable package-level values; every Runtime registers them at startup.

// ObjectClass is the universal base class.
var ObjectClass = &Class{Name: "Object", Size: 0, StartIndex: 0}

// StringClass: body[0] = byte length, followed by packed bytes.
var StringClass = &Class{
	Name:       "string",
	Size:       VariableSize,
	StartIndex: NoPointers,
	Superclass: ObjectClass,
}

// BoxClass holds one tagged value, e.g. a captured mutable variable.
var BoxClass = &Class{Name: "Box", Size: 1, StartIndex: 0, Superclass: ObjectClass}

// IntBoxClass holds one raw int32.
var IntBoxClass = &Class{Name: "integer", Size: 1, StartIndex: 1, Superclass: ObjectClass}

// FloatBoxClass holds one raw float32.
var FloatBoxClass = &Class{Name: "float", Size: 1, StartIndex: 1, Superclass: ObjectClass}

// Raw arrays: body[0] = element count, followed by raw elements.
var (
	IntArrayClass = &Class{
		Name:       "integer[]",
		Size:       VariableSize,
		StartIndex: NoPointers,
		Superclass: ObjectClass,
		ArrayType:  "i",
	}
	FloatArrayClass = &Class{
		Name:       "float[]",
		Size:       VariableSize,
		StartIndex: NoPointers,
		Superclass: ObjectClass,
		ArrayType:  "f",
	}
	ByteArrayClass = &Class{
		Name:       "Uint8Array",
		Size:       VariableSize,
		StartIndex: NoPointers,
		Superclass: ObjectClass,
		ArrayType:  "b",
	}
	BoolArrayClass = &Class{
		Name:       "boolean[]",
		Size:       VariableSize,
		StartIndex: NoPointers,
		Superclass: ObjectClass,
		ArrayType:  "z",
	}
)

// VectorClass is the growable backing store of generic arrays:
// body[0] = capacity, followed by tagged elements.
var VectorClass = &Class{
	Name:       "Vector",
	Size:       VariableSize,
	StartIndex: 1,
	Superclass: ObjectClass,
}

// AnyArrayClass is the generic array class: body[0] = raw length,
// body[1] = backing Vector. User array classes (string[], Foo[], ...)
// share this layout and differ in name and element tag.
var AnyArrayClass = &Class{
	Name:       "any[]",
	Size:       2,
	StartIndex: 1,
	Superclass: ObjectClass,
	ArrayType:  "a",
}

// FunctionClass: body[0] = number of captured values, body[1] = code
// reference, body[2] = signature id, followed by captured values.
var FunctionClass = &Class{
	Name:       "function",
	Size:       VariableSize,
	StartIndex: 3,
	Superclass: ObjectClass,
}

var builtinClasses = []*Class{
	ObjectClass,
	StringClass,
	BoxClass,
	IntBoxClass,
	FloatBoxClass,
	IntArrayClass,
	FloatArrayClass,
	ByteArrayClass,
	BoolArrayClass,
	VectorClass,
	AnyArrayClass,
	FunctionClass,
}

// BuiltinClass returns the built-in descriptor with the given name, or nil.
func BuiltinClass(name string) *Class {
	for _, c := range builtinClasses {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// isGenericArrayClass reports whether c has the generic array layout.
func isGenericArrayClass(c *Class) bool {
	return c.IsArray() && c.Size == 2 && c.StartIndex == 1
}
