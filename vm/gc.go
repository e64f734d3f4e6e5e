package vm

import (
	"math"
	"time"
)

// The collector is an incremental tri-color mark-and-sweep collector.
//
// A cycle starts by graying every value in the root frames of both
// execution contexts and the global frame. Each allocation while the
// cycle is active runs one step that scans a bounded number of gray
// objects. Objects allocated during marking are black. When the gray stack
// drains the roots are rescanned (root stores carry no barrier); if that
// finds nothing new, the whole heap is swept in one step so that reclaimed
// space is available to the very next allocation.
//
// The write barrier regrays a black object that receives a pointer, which
// keeps the invariant that a black object never holds the only reference
// to a white object.
//
// No step runs while an interrupt handler is active.

type phase uint8

const (
	phaseIdle phase = iota
	phaseMarking
)

// Stats holds collector counters.
type Stats struct {
	Cycles           uint64
	Steps            uint64
	Allocations      uint64
	FreedObjects     uint64
	LastFreedObjects int
	LastFreedBytes   int
	LastCycle        time.Duration
	HeapBytes        int
	UsedBytes        int
	LargestFreeBytes int
	Marking          bool
}

type collector struct {
	rt           *Runtime
	phase        phase
	gray         []uint32
	globalsDirty bool
	cycleStart   time.Time
	stats        Stats
}

func newCollector(rt *Runtime) *collector {
	return &collector{rt: rt, gray: make([]uint32, 0, 64)}
}

func (gc *collector) marking() bool { return gc.phase == phaseMarking }

func (gc *collector) allocColor() Color {
	if gc.marking() {
		return Black
	}
	return White
}

// allocate claims n words, collecting first if a cycle is due. If the arena
// is exhausted outside an interrupt, the current cycle is finished, one
// full cycle runs and the request is retried once.
func (gc *collector) allocate(n uint32) (uint32, error) {
	rt := gc.rt
	if !rt.InInterrupt() {
		if gc.marking() {
			gc.step(rt.opts.StepBudget)
		} else if gc.overWatermark(n) {
			gc.startCycle()
		}
	}
	w, ok := rt.heap.alloc(n)
	if !ok && !rt.InInterrupt() {
		gc.finishCycle()
		gc.runCycle()
		w, ok = rt.heap.alloc(n)
	}
	if !ok {
		heapLog.Errorf("out of memory: requested %s, largest free block %s",
			formatWords(int(n)), formatWords(int(rt.heap.largestFree())))
		return 0, newError(OutOfMemory, "cannot allocate %d words (largest free block %d words)",
			n, rt.heap.largestFree())
	}
	gc.stats.Allocations++
	return w, nil
}

func (gc *collector) overWatermark(n uint32) bool {
	wm := gc.rt.opts.Watermark
	if wm <= 0 {
		return false
	}
	return float64(gc.rt.heap.used+int(n)) > wm*float64(gc.rt.heap.capacity())
}

// ---------------------------------------------------------------------------
// Marking
// ---------------------------------------------------------------------------

func (gc *collector) startCycle() {
	if gc.marking() {
		return
	}
	gc.phase = phaseMarking
	gc.cycleStart = time.Now()
	gcLog.Debugf("cycle %d start: %s in use", gc.stats.Cycles+1, formatWords(gc.rt.heap.used))
	gc.markRoots()
}

func (gc *collector) markRoots() {
	gc.rt.main.forEachRoot(gc.shade)
	gc.rt.isr.forEachRoot(gc.shade)
	gc.markGlobals()
}

func (gc *collector) markGlobals() {
	for _, v := range gc.rt.globals.Values {
		gc.shade(v)
	}
	gc.globalsDirty = false
}

// shade grays a white object referenced by v.
func (gc *collector) shade(v Value) {
	w, ok := gc.rt.objectWord(v)
	if !ok || gc.rt.color(w) != White {
		return
	}
	gc.rt.setColor(w, Gray)
	gc.gray = append(gc.gray, w)
}

// scan grays the referents held in the tagged region of the object at w
// and blackens it. The raw prefix is skipped.
func (gc *collector) scan(w uint32) {
	rt := gc.rt
	if c := rt.classAt(w); c != nil && c.hasPointers() {
		start := int(c.StartIndex)
		end := int(c.Size)
		if c.Size == VariableSize {
			end = start + int(rt.body(w, 0))
		}
		end = min(end, int(rt.heap.extent(w))-1)
		for i := start; i < end; i++ {
			gc.shade(Value(rt.body(w, i)))
		}
	}
	rt.setColor(w, Black)
}

// step scans up to budget gray objects. It returns true while the cycle is
// still in progress.
func (gc *collector) step(budget int) bool {
	if !gc.marking() || gc.rt.InInterrupt() {
		return gc.marking()
	}
	gc.stats.Steps++
	if gc.globalsDirty {
		gc.markGlobals()
	}
	for ; budget > 0 && len(gc.gray) > 0; budget-- {
		w := gc.gray[len(gc.gray)-1]
		gc.gray = gc.gray[:len(gc.gray)-1]
		gc.scan(w)
	}
	if len(gc.gray) == 0 {
		gc.markRoots()
		if len(gc.gray) == 0 {
			gc.sweep()
		}
	}
	return gc.marking()
}

func (gc *collector) finishCycle() {
	if gc.rt.InInterrupt() {
		return
	}
	for gc.marking() {
		gc.step(math.MaxInt)
	}
}

func (gc *collector) runCycle() {
	gc.startCycle()
	gc.finishCycle()
}

// ---------------------------------------------------------------------------
// Barrier
// ---------------------------------------------------------------------------

// writeBarrier runs before v is stored into the object at w.
func (gc *collector) writeBarrier(w uint32, v Value) {
	if !gc.marking() || !v.IsPtr() {
		return
	}
	if gc.rt.color(w) == Black {
		gc.rt.setColor(w, Gray)
		gc.gray = append(gc.gray, w)
	}
}

// writeBarrierGlobal runs before v is stored into a global slot. The
// global frame is rescanned at the next step.
func (gc *collector) writeBarrierGlobal(v Value) {
	if gc.marking() && v.IsPtr() {
		gc.globalsDirty = true
	}
}

// ---------------------------------------------------------------------------
// Sweeping
// ---------------------------------------------------------------------------

func (gc *collector) sweep() {
	h := gc.rt.heap
	freedObjects, freedWords := 0, 0
	for w := uint32(heapStart); int(w) < h.size(); {
		if h.state[w] != blockHead {
			w++
			continue
		}
		if gc.rt.color(w) == White {
			n := h.release(w)
			freedObjects++
			freedWords += int(n)
			w += n
			continue
		}
		gc.rt.setColor(w, White)
		w += h.extent(w)
	}
	h.buildFreeRanges()

	gc.phase = phaseIdle
	gc.stats.Cycles++
	gc.stats.FreedObjects += uint64(freedObjects)
	gc.stats.LastFreedObjects = freedObjects
	gc.stats.LastFreedBytes = freedWords * 4
	gc.stats.LastCycle = time.Since(gc.cycleStart)
	gcLog.Debugf("cycle %d done: freed %d objects (%s), %s in use, took %s",
		gc.stats.Cycles, freedObjects, formatWords(freedWords), formatWords(h.used), gc.stats.LastCycle)
}

// ---------------------------------------------------------------------------
// Public entry points
// ---------------------------------------------------------------------------

// Collect finishes any cycle in progress and then runs one complete cycle,
// so every object unreachable at the time of the call is reclaimed. It
// does nothing inside an interrupt handler and then returns false.
func (rt *Runtime) Collect() bool {
	if rt.InInterrupt() {
		return false
	}
	rt.gc.finishCycle()
	rt.gc.runCycle()
	return true
}

// Step performs one incremental step, starting a cycle if none is active.
// It returns true while the cycle is still in progress.
func (rt *Runtime) Step() bool {
	if rt.InInterrupt() {
		return rt.gc.marking()
	}
	if !rt.gc.marking() {
		rt.gc.startCycle()
	}
	return rt.gc.step(rt.opts.StepBudget)
}

// Stats returns a snapshot of the collector counters.
func (rt *Runtime) Stats() Stats {
	s := rt.gc.stats
	s.HeapBytes = rt.heap.capacity() * 4
	s.UsedBytes = rt.heap.used * 4
	s.LargestFreeBytes = int(rt.heap.largestFree()) * 4
	s.Marking = rt.gc.marking()
	return s
}
