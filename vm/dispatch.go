package vm

// MethodLookup returns the method at virtual table slot of obj's class.
// Inherited slots resolve through the subclass table, which extends its
// superclass table.
func (rt *Runtime) MethodLookup(obj Value, slot int) (Method, error) {
	c := rt.ClassOf(obj)
	if c == nil {
		return nil, typeError("method call on %s", obj)
	}
	m := c.VTable.Lookup(slot)
	if m == nil {
		return nil, newError(GenericRuntimeError, "no method at slot %d of %s", slot, c.Name)
	}
	return m, nil
}

// FindMethod resolves a logical method id to a virtual table slot of obj's
// class, searching the method tables up the superclass chain.
func (rt *Runtime) FindMethod(obj Value, id uint16) (int, error) {
	c := rt.ClassOf(obj)
	if c == nil {
		return 0, typeError("method lookup on %s", obj)
	}
	m, ok := c.findMethod(id)
	if !ok {
		return 0, typeError("no such method %d in %s", id, c.Name)
	}
	return m.Slot, nil
}

// CallMethod invokes the method at slot with args. The argument list must
// match the method's signature; this is not checked.
func (ctx *Context) CallMethod(obj Value, slot int, args ...Value) (Value, error) {
	m, err := ctx.rt.MethodLookup(obj, slot)
	if err != nil {
		return Null, err
	}
	return m.Invoke(ctx, obj, args)
}

// Send resolves method id on obj and invokes it.
func (ctx *Context) Send(obj Value, id uint16, args ...Value) (Value, error) {
	slot, err := ctx.rt.FindMethod(obj, id)
	if err != nil {
		return Null, err
	}
	return ctx.CallMethod(obj, slot, args...)
}
