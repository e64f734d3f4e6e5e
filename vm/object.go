package vm

import "unsafe"

// Heap objects are laid out as one header word followed by body slots:
//
//	header:  class id (30 bits) | color (2 bits)
//	body[0 .. StartIndex)  raw words, never scanned
//	body[StartIndex ..)    tagged values, scanned by the collector
//
// Variable-size objects keep their element count in body[0].

// Color is the tri-color marking state kept in the header's low bits.
type Color uint32

const (
	White Color = 0 // unreached
	Gray  Color = 1 // reached, not yet scanned
	Black Color = 2 // reached and scanned
)

func (c Color) String() string {
	switch c {
	case White:
		return "white"
	case Gray:
		return "gray"
	case Black:
		return "black"
	default:
		return "!err"
	}
}

const colorMask uint32 = 3

func (rt *Runtime) header(w uint32) uint32 { return rt.heap.words[w] }

func (rt *Runtime) color(w uint32) Color { return Color(rt.heap.words[w] & colorMask) }

func (rt *Runtime) setColor(w uint32, c Color) {
	rt.heap.words[w] = rt.heap.words[w]&^colorMask | uint32(c)
}

func (rt *Runtime) classAt(w uint32) *Class {
	if e := rt.classes.byID(rt.heap.words[w] >> 2); e != nil {
		return e.class
	}
	return nil
}

// slot returns the word index of body slot i of the object at head w.
func slot(w uint32, i int) uint32 { return w + 1 + uint32(i) }

// body reads body slot i of the object at head w.
func (rt *Runtime) body(w uint32, i int) uint32 { return rt.heap.words[slot(w, i)] }

// setRaw writes a raw body word. No barrier: raw slots never hold pointers.
func (rt *Runtime) setRaw(w uint32, i int, x uint32) { rt.heap.words[slot(w, i)] = x }

// store writes a tagged value into body slot i, running the write barrier.
func (rt *Runtime) store(w uint32, i int, v Value) {
	rt.gc.writeBarrier(w, v)
	rt.heap.words[slot(w, i)] = uint32(v)
}

// objectWord checks that v points at a live object and returns its head.
func (rt *Runtime) objectWord(v Value) (uint32, bool) {
	if !v.IsPtr() {
		return 0, false
	}
	w := wordOf(v.Pointer())
	return w, w >= heapStart && rt.heap.isHead(w)
}

// mustObject is objectWord for callers whose precondition is a valid
// object reference; a violation is a TypeMismatch.
func (rt *Runtime) mustObject(v Value, what string) (uint32, error) {
	w, ok := rt.objectWord(v)
	if !ok {
		return 0, typeError("%s: not an object (%s)", what, v)
	}
	return w, nil
}

// ---------------------------------------------------------------------------
// Allocation
// ---------------------------------------------------------------------------

// allocate reserves an object of class c with bodyWords body slots. The
// body is zeroed, and the tagged region of fixed-size classes is set to
// Null. Callers must keep every pointer they still need in a root frame.
func (ctx *Context) allocate(c *Class, bodyWords int) (uint32, error) {
	rt := ctx.rt
	id, ok := rt.classes.ids[c]
	if !ok {
		return 0, Raise("class " + c.Name + " is not registered")
	}
	w, err := rt.gc.allocate(uint32(1 + bodyWords))
	if err != nil {
		return 0, err
	}
	rt.heap.words[w] = id<<2 | uint32(rt.gc.allocColor())
	if c.Size >= 0 && c.hasPointers() {
		for i := int(c.StartIndex); i < bodyWords; i++ {
			rt.setRaw(w, i, uint32(Null))
		}
	}
	return w, nil
}

// NewObject allocates an instance of a fixed-size class. Raw properties
// start at zero, tagged properties at Null.
func (ctx *Context) NewObject(c *Class) (Value, error) {
	if c.Size < 0 {
		return Null, typeError("%s: cannot instantiate an array class with NewObject", c.Name)
	}
	w, err := ctx.allocate(c, int(c.Size))
	if err != nil {
		return Null, err
	}
	return FromPointer(pointerOf(w)), nil
}

// ---------------------------------------------------------------------------
// Field access
// ---------------------------------------------------------------------------

// GetProperty reads tagged property slot i of obj.
func (rt *Runtime) GetProperty(obj Value, i int) Value {
	return Value(rt.body(wordOf(obj.Pointer()), i))
}

// SetProperty stores v in tagged property slot i of obj, running the write
// barrier.
func (rt *Runtime) SetProperty(obj Value, i int, v Value) Value {
	rt.store(wordOf(obj.Pointer()), i, v)
	return v
}

// IntProperty returns a direct reference to unboxed int property i. Stores
// through it bypass the write barrier; the slot never holds a pointer.
func (rt *Runtime) IntProperty(obj Value, i int) *int32 {
	return (*int32)(unsafe.Pointer(&rt.heap.words[slot(wordOf(obj.Pointer()), i)]))
}

// FloatProperty returns a direct reference to unboxed float property i.
func (rt *Runtime) FloatProperty(obj Value, i int) *float32 {
	return (*float32)(unsafe.Pointer(&rt.heap.words[slot(wordOf(obj.Pointer()), i)]))
}

// ---------------------------------------------------------------------------
// Type queries
// ---------------------------------------------------------------------------

// ClassOf returns the class of the object v points to, or nil for
// non-pointer values.
func (rt *Runtime) ClassOf(v Value) *Class {
	w, ok := rt.objectWord(v)
	if !ok {
		return nil
	}
	return rt.classAt(w)
}

// IsInstanceOf reports whether v is an instance of c or of a subclass of
// c. It is false for non-pointer values. The cost is proportional to the
// depth of v's class in the hierarchy.
func (rt *Runtime) IsInstanceOf(c *Class, v Value) bool {
	w, ok := rt.objectWord(v)
	if !ok {
		return false
	}
	e := rt.classes.byID(rt.header(w) >> 2)
	if e == nil {
		return false
	}
	for _, a := range e.ancestors {
		if a == c {
			return true
		}
	}
	return false
}

// IsInstanceOfArray reports whether v is an array of any kind.
func (rt *Runtime) IsInstanceOfArray(v Value) bool {
	return rt.ClassOf(v).IsArray()
}
