package vm

import "fmt"

// Options configures a Runtime.
type Options struct {
	// HeapSize is the arena size in bytes (rounded down to whole words).
	HeapSize int
	// Watermark is the fraction of the arena in use above which an
	// allocation starts a collection cycle. Zero disables the watermark;
	// collection then only starts when the arena is exhausted.
	Watermark float64
	// StepBudget is the maximum number of gray objects scanned by one
	// incremental step.
	StepBudget int
	// Globals is the number of slots in the global root frame.
	Globals int
}

// DefaultOptions returns the settings used for a 32 KB microcontroller heap.
func DefaultOptions() Options {
	return Options{
		HeapSize:   32 * 1024,
		Watermark:  0.75,
		StepBudget: 16,
		Globals:    64,
	}
}

// Runtime owns the heap arena, the collector, the class and code tables,
// the global root frame and the two execution contexts (main line and
// interrupt).
//
// A Runtime is not safe for use by multiple goroutines. It models a single
// core: interrupt handlers run on the same goroutine, bracketed by
// InterruptStart and InterruptEnd.
type Runtime struct {
	opts    Options
	heap    *heap
	gc      *collector
	classes *classTable

	codes  []codeEntry
	sigs   []string
	sigIDs map[string]uint32

	globals *RootFrame
	main    *Context
	isr     *Context

	interruptDepth int
	boundary       bool
}

// New creates a runtime with the given options. Zero fields fall back to
// DefaultOptions.
func New(opts Options) *Runtime {
	def := DefaultOptions()
	if opts.HeapSize <= 0 {
		opts.HeapSize = def.HeapSize
	}
	if opts.Watermark < 0 || opts.Watermark > 1 {
		opts.Watermark = def.Watermark
	}
	if opts.StepBudget <= 0 {
		opts.StepBudget = def.StepBudget
	}
	if opts.Globals < 0 {
		opts.Globals = 0
	}

	rt := &Runtime{
		opts:    opts,
		heap:    newHeap(opts.HeapSize / 4),
		classes: newClassTable(),
		codes:   make([]codeEntry, 0, 16),
		sigIDs:  make(map[string]uint32),
		globals: newRootFrame(opts.Globals),
	}
	rt.gc = newCollector(rt)
	rt.main = &Context{rt: rt, name: "main"}
	rt.isr = &Context{rt: rt, name: "interrupt"}

	for _, c := range builtinClasses {
		if _, err := rt.classes.register(c); err != nil {
			panic(fmt.Sprintf("vm: builtin class %s: %v", c.Name, err))
		}
	}
	heapLog.Debugf("runtime created: heap %s, watermark %.2f, step budget %d",
		formatWords(rt.heap.capacity()), opts.Watermark, opts.StepBudget)
	return rt
}

// Options returns the effective options.
func (rt *Runtime) Options() Options { return rt.opts }

// Main returns the main-line execution context.
func (rt *Runtime) Main() *Context { return rt.main }

// RegisterClass makes a descriptor (and its superclasses) usable for
// allocation. Registering the same descriptor twice is a no-op.
func (rt *Runtime) RegisterClass(c *Class) error {
	_, err := rt.classes.register(c)
	return err
}

// LookupClass returns a registered class by name, or nil.
func (rt *Runtime) LookupClass(name string) *Class {
	return rt.classes.byName[name]
}

// Classes returns every registered class in registration order.
func (rt *Runtime) Classes() []*Class {
	out := make([]*Class, 0, len(rt.classes.entries)-1)
	for _, e := range rt.classes.entries[1:] {
		out = append(out, e.class)
	}
	return out
}

// ---------------------------------------------------------------------------
// Globals
// ---------------------------------------------------------------------------

// Global returns global slot i.
func (rt *Runtime) Global(i int) Value { return rt.globals.Values[i] }

// SetGlobal stores v in global slot i. The store runs the write barrier
// against the global root.
func (rt *Runtime) SetGlobal(i int, v Value) Value {
	rt.gc.writeBarrierGlobal(v)
	rt.globals.Values[i] = v
	return v
}

// NumGlobals returns the size of the global root frame.
func (rt *Runtime) NumGlobals() int { return len(rt.globals.Values) }

// ---------------------------------------------------------------------------
// Signatures
// ---------------------------------------------------------------------------

func (rt *Runtime) internSignature(sig string) uint32 {
	if id, ok := rt.sigIDs[sig]; ok {
		return id
	}
	id := uint32(len(rt.sigs))
	rt.sigs = append(rt.sigs, sig)
	rt.sigIDs[sig] = id
	return id
}

func (rt *Runtime) signature(id uint32) string {
	if int(id) >= len(rt.sigs) {
		return ""
	}
	return rt.sigs[id]
}
