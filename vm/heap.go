package vm

import "unsafe"

// The heap is a fixed arena of 32-bit words, in the style of a MicroPython
// or TinyGo block allocator with one-word blocks. Every word has a state in
// a side table: an allocated object starts with a "head" word (its header)
// and continues with "tail" words (its body). Free words are tracked as a
// list of ranges that is rebuilt after every sweep.
//
// Word 0 is reserved so that no object ever lives at address 0.

type blockState uint8

const (
	blockFree blockState = iota
	blockHead
	blockTail
	blockReserved
)

func (s blockState) String() string {
	switch s {
	case blockFree:
		return "free"
	case blockHead:
		return "head"
	case blockTail:
		return "tail"
	case blockReserved:
		return "reserved"
	default:
		return "!err"
	}
}

// heapStart is the first allocatable word.
const heapStart = 1

type freeRange struct {
	start uint32
	n     uint32
}

type heap struct {
	words []uint32
	bytes []byte // byte view of words; indexed by heap address
	state []blockState
	free  []freeRange // sorted by start
	used  int         // allocated words, headers included
}

func newHeap(numWords int) *heap {
	if numWords < heapStart+2 {
		numWords = heapStart + 2
	}
	h := &heap{
		words: make([]uint32, numWords),
		state: make([]blockState, numWords),
	}
	h.bytes = unsafe.Slice((*byte)(unsafe.Pointer(&h.words[0])), numWords*4)
	for i := 0; i < heapStart; i++ {
		h.state[i] = blockReserved
	}
	h.buildFreeRanges()
	return h
}

// size returns the arena size in words, reserved words included.
func (h *heap) size() int { return len(h.words) }

// capacity returns the number of allocatable words.
func (h *heap) capacity() int { return len(h.words) - heapStart }

// alloc claims n contiguous words (first fit) and returns the index of the
// head word. The claimed words are zeroed.
func (h *heap) alloc(n uint32) (uint32, bool) {
	if n == 0 {
		return 0, false
	}
	for i := range h.free {
		r := &h.free[i]
		if r.n < n {
			continue
		}
		w := r.start
		r.start += n
		r.n -= n
		if r.n == 0 {
			h.free = append(h.free[:i], h.free[i+1:]...)
		}
		h.state[w] = blockHead
		for j := w + 1; j < w+n; j++ {
			h.state[j] = blockTail
		}
		clear(h.words[w : w+n])
		h.used += int(n)
		return w, true
	}
	return 0, false
}

// release returns the object headed at w to the free state. The free-range
// list is not updated; callers rebuild it once a sweep is done.
func (h *heap) release(w uint32) uint32 {
	n := h.extent(w)
	for j := w; j < w+n; j++ {
		h.state[j] = blockFree
	}
	clear(h.words[w : w+n])
	h.used -= int(n)
	return n
}

// extent returns the number of words of the object headed at w.
func (h *heap) extent(w uint32) uint32 {
	end := w + 1
	for int(end) < len(h.state) && h.state[end] == blockTail {
		end++
	}
	return end - w
}

// isHead reports whether w is the header word of a live allocation.
func (h *heap) isHead(w uint32) bool {
	return int(w) < len(h.state) && h.state[w] == blockHead
}

// buildFreeRanges rebuilds the free-range list and returns the number of
// free words.
func (h *heap) buildFreeRanges() int {
	h.free = h.free[:0]
	total := 0
	var start uint32
	inRun := false
	for i := heapStart; i < len(h.state); i++ {
		if h.state[i] == blockFree {
			if !inRun {
				start = uint32(i)
				inRun = true
			}
			continue
		}
		if inRun {
			h.free = append(h.free, freeRange{start: start, n: uint32(i) - start})
			total += i - int(start)
			inRun = false
		}
	}
	if inRun {
		h.free = append(h.free, freeRange{start: start, n: uint32(len(h.state)) - start})
		total += len(h.state) - int(start)
	}
	h.used = h.capacity() - total
	return total
}

// largestFree returns the size in words of the largest free range.
func (h *heap) largestFree() uint32 {
	var largest uint32
	for _, r := range h.free {
		largest = max(largest, r.n)
	}
	return largest
}

func wordOf(p Pointer) uint32    { return uint32(p) >> 2 }
func pointerOf(w uint32) Pointer { return Pointer(w << 2) }
