package vm

// ObjectInfo describes one allocated object, as reported by Walk.
type ObjectInfo struct {
	Addr  Pointer
	Class *Class
	Color Color
	Words int // header included
	Refs  []Value
}

// Walk calls fn for every allocated object in address order, including
// objects that are unreachable but not yet swept. Refs lists the pointer
// values held in the object's tagged region. Walk stops early if fn
// returns false.
func (rt *Runtime) Walk(fn func(ObjectInfo) bool) {
	h := rt.heap
	for w := uint32(heapStart); int(w) < h.size(); {
		if h.state[w] != blockHead {
			w++
			continue
		}
		n := h.extent(w)
		info := ObjectInfo{
			Addr:  pointerOf(w),
			Class: rt.classAt(w),
			Color: rt.color(w),
			Words: int(n),
		}
		if c := info.Class; c != nil && c.hasPointers() {
			end := int(c.Size)
			if c.Size == VariableSize {
				end = int(c.StartIndex) + int(rt.body(w, 0))
			}
			end = min(end, int(n)-1)
			for i := int(c.StartIndex); i < end; i++ {
				if v := Value(rt.body(w, i)); v.IsObject() {
					info.Refs = append(info.Refs, v)
				}
			}
		}
		if !fn(info) {
			return
		}
		w += n
	}
}

// ForEachRoot calls fn with every value in the root set. kind is "main",
// "interrupt" or "global".
func (rt *Runtime) ForEachRoot(fn func(kind string, v Value)) {
	for _, ctx := range []*Context{rt.main, rt.isr} {
		ctx.forEachRoot(func(v Value) { fn(ctx.name, v) })
	}
	for _, v := range rt.globals.Values {
		fn("global", v)
	}
}
