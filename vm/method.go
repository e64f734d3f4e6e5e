package vm

// Method is a compiled method body reachable from a virtual table.
//
// Arguments are passed as tagged values. The runtime does not check the
// argument list against the method's signature: supplying a matching list
// is the caller's contract (see Context.CallFunction for the checked
// variant used by function objects).
type Method interface {
	Invoke(ctx *Context, self Value, args []Value) (Value, error)
}

// MethodFunc adapts a Go function to Method.
type MethodFunc func(ctx *Context, self Value, args []Value) (Value, error)

func (f MethodFunc) Invoke(ctx *Context, self Value, args []Value) (Value, error) {
	return f(ctx, self, args)
}

// NamedMethod is a Method that carries its symbol name, so it can be
// written to and resolved from a class table image.
type NamedMethod struct {
	name string
	fn   MethodFunc
}

// NewMethod wraps fn as a named method.
func NewMethod(name string, fn MethodFunc) *NamedMethod {
	return &NamedMethod{name: name, fn: fn}
}

func (m *NamedMethod) Invoke(ctx *Context, self Value, args []Value) (Value, error) {
	return m.fn(ctx, self, args)
}

func (m *NamedMethod) Name() string { return m.name }
