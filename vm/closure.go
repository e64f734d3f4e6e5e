package vm

// Function objects pair a code reference with captured values:
//
//	body[0]  number of captured values
//	body[1]  code reference (index into the runtime code table)
//	body[2]  signature id
//	body[3 ..) captured values, scanned
//
// Function bodies are Go functions registered once per runtime.

// Code is the body of a function object. fn is the function object
// itself, through which the body reads its captured values.
type Code func(ctx *Context, fn Value, args []Value) (Value, error)

// CodeRef identifies a registered Code.
type CodeRef uint32

type codeEntry struct {
	name string
	fn   Code
}

const functionHeader = 3

// RegisterCode adds fn to the code table.
func (rt *Runtime) RegisterCode(name string, fn Code) CodeRef {
	rt.codes = append(rt.codes, codeEntry{name: name, fn: fn})
	return CodeRef(len(rt.codes) - 1)
}

// CodeName returns the registered name of ref.
func (rt *Runtime) CodeName(ref CodeRef) string {
	if int(ref) >= len(rt.codes) {
		return ""
	}
	return rt.codes[ref].name
}

// NewFunction allocates a function object of type sig running code with
// the given captured values.
func (ctx *Context) NewFunction(code CodeRef, sig string, captured ...Value) (Value, error) {
	rt := ctx.rt
	if int(code) >= len(rt.codes) {
		return Null, Raise("unknown code reference")
	}
	if _, err := ParseSignature(sig); err != nil {
		return Null, err
	}
	f := ctx.protect(captured...)
	defer ctx.PopFrame(f)
	w, err := ctx.allocate(FunctionClass, functionHeader+len(captured))
	if err != nil {
		return Null, err
	}
	rt.setRaw(w, 0, uint32(len(captured)))
	rt.setRaw(w, 1, uint32(code))
	rt.setRaw(w, 2, rt.internSignature(sig))
	for i, v := range f.Values {
		rt.store(w, functionHeader+i, v)
	}
	return FromPointer(pointerOf(w)), nil
}

func (rt *Runtime) functionOf(v Value) (uint32, bool) {
	w, ok := rt.objectWord(v)
	return w, ok && rt.classAt(w) == FunctionClass
}

// IsFunctionObject reports whether v is a function object of type sig.
func (rt *Runtime) IsFunctionObject(v Value, sig string) bool {
	w, ok := rt.functionOf(v)
	return ok && rt.signature(rt.body(w, 2)) == sig
}

// FunctionSignature returns the type of function object v.
func (rt *Runtime) FunctionSignature(v Value) (string, error) {
	w, ok := rt.functionOf(v)
	if !ok {
		return "", typeError("value_to_function: %s", v)
	}
	return rt.signature(rt.body(w, 2)), nil
}

func (rt *Runtime) capturedSlot(fn Value, i int) (uint32, error) {
	w, ok := rt.functionOf(fn)
	if !ok {
		return 0, typeError("value_to_function: %s", fn)
	}
	n := int32(rt.body(w, 0))
	if i < 0 || int32(i) >= n {
		return 0, indexError(int32(i), n)
	}
	return w, nil
}

// FunctionCaptured returns captured value i of fn.
func (rt *Runtime) FunctionCaptured(fn Value, i int) (Value, error) {
	w, err := rt.capturedSlot(fn, i)
	if err != nil {
		return Null, err
	}
	return Value(rt.body(w, functionHeader+i)), nil
}

// SetFunctionCaptured replaces captured value i of fn.
func (rt *Runtime) SetFunctionCaptured(fn Value, i int, v Value) (Value, error) {
	w, err := rt.capturedSlot(fn, i)
	if err != nil {
		return Null, err
	}
	rt.store(w, functionHeader+i, v)
	return v, nil
}

// SafeToFunc accepts a function object of type sig.
func (rt *Runtime) SafeToFunc(sig string, v Value) (Value, error) {
	have, err := rt.FunctionSignature(v)
	if err != nil {
		return Null, err
	}
	if have != sig {
		return Null, newError(SignatureMismatch, "expected %s, got %s", sig, have)
	}
	return v, nil
}

// CallFunction calls fn, which must be of type sig, with args.
func (ctx *Context) CallFunction(fn Value, sig string, args ...Value) (Value, error) {
	rt := ctx.rt
	if _, err := rt.SafeToFunc(sig, fn); err != nil {
		return Null, err
	}
	parsed, err := ParseSignature(sig)
	if err != nil {
		return Null, err
	}
	if len(parsed.Params) != len(args) {
		return Null, newError(SignatureMismatch, "%s called with %d arguments", sig, len(args))
	}
	code := rt.codes[rt.body(wordOf(fn.Pointer()), 1)]
	return code.fn(ctx, fn, args)
}
