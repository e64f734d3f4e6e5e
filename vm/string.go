package vm

import (
	"bytes"
	"fmt"
	"strconv"
)

// Strings are immutable objects of StringClass: body[0] holds the byte
// length and the bytes are packed into the following words. Every
// concatenation allocates a new string.

func stringWords(n int) int { return 1 + (n+3)/4 }

// stringBytes returns the bytes of the string at head w, aliasing the heap.
func (rt *Runtime) stringBytes(w uint32) []byte {
	n := rt.body(w, 0)
	start := slot(w, 1) * 4
	return rt.heap.bytes[start : start+n]
}

// NewString allocates a string holding a copy of s.
func (ctx *Context) NewString(s string) (Value, error) {
	w, err := ctx.allocate(StringClass, stringWords(len(s)))
	if err != nil {
		return Null, err
	}
	ctx.rt.setRaw(w, 0, uint32(len(s)))
	copy(ctx.rt.stringBytes(w), s)
	return FromPointer(pointerOf(w)), nil
}

// IsString reports whether v is a string object.
func (rt *Runtime) IsString(v Value) bool { return rt.ClassOf(v) == StringClass }

// StringValue returns a Go copy of the string v points to.
func (rt *Runtime) StringValue(v Value) (string, error) {
	if !rt.IsString(v) {
		return "", typeError("value_to_string: %s", v)
	}
	return string(rt.stringBytes(wordOf(v.Pointer()))), nil
}

// StringLength returns the byte length of string v.
func (rt *Runtime) StringLength(v Value) (int32, error) {
	if !rt.IsString(v) {
		return 0, typeError("value_to_string: %s", v)
	}
	return int32(rt.body(wordOf(v.Pointer()), 0)), nil
}

// Concat allocates a new string s1 + s2. Both must be strings.
func (ctx *Context) Concat(s1, s2 Value) (Value, error) {
	a, err := ctx.rt.StringValue(s1)
	if err != nil {
		return Null, err
	}
	b, err := ctx.rt.StringValue(s2)
	if err != nil {
		return Null, err
	}
	return ctx.NewString(a + b)
}

// compareStrings orders two string objects byte-wise.
func (rt *Runtime) compareStrings(a, b Value) int {
	return bytes.Compare(rt.stringBytes(wordOf(a.Pointer())), rt.stringBytes(wordOf(b.Pointer())))
}

// AnyToString renders any value the way print does: integers in decimal,
// floats with six decimals, null as "undefined".
func (rt *Runtime) AnyToString(v Value) string {
	switch {
	case v.IsInt():
		return strconv.Itoa(int(v.Int()))
	case v.IsFloat():
		return fmt.Sprintf("%f", v.Float())
	case v == True:
		return "true"
	case v == False:
		return "false"
	case v == Null:
		return "undefined"
	}
	c := rt.ClassOf(v)
	switch c {
	case nil:
		return "??"
	case StringClass:
		return string(rt.stringBytes(wordOf(v.Pointer())))
	case IntBoxClass:
		return strconv.Itoa(int(*rt.IntProperty(v, 0)))
	case FloatBoxClass:
		return fmt.Sprintf("%f", *rt.FloatProperty(v, 0))
	case FunctionClass:
		return "<function>"
	}
	if c.IsArray() {
		return "<" + c.Name + ">"
	}
	return "<class " + c.Name + ">"
}
