package vm

import "testing"

func TestHeap_AllocRelease(t *testing.T) {
	h := newHeap(16)
	if got := h.capacity(); got != 15 {
		t.Fatalf("capacity = %d, want 15", got)
	}

	w, ok := h.alloc(3)
	if !ok || w != heapStart {
		t.Fatalf("alloc(3) = %d, %v; want %d, true", w, ok, heapStart)
	}
	if h.state[w] != blockHead || h.state[w+1] != blockTail || h.state[w+2] != blockTail {
		t.Errorf("block states = %v %v %v", h.state[w], h.state[w+1], h.state[w+2])
	}
	if h.state[w+3] != blockFree {
		t.Errorf("word after the object should be free, got %v", h.state[w+3])
	}
	if h.extent(w) != 3 {
		t.Errorf("extent = %d, want 3", h.extent(w))
	}
	if h.used != 3 {
		t.Errorf("used = %d, want 3", h.used)
	}
	if _, ok := h.alloc(20); ok {
		t.Error("alloc beyond capacity should fail")
	}

	if n := h.release(w); n != 3 {
		t.Errorf("release = %d, want 3", n)
	}
	if free := h.buildFreeRanges(); free != 15 {
		t.Errorf("free words = %d, want 15", free)
	}
	if h.largestFree() != 15 {
		t.Errorf("largestFree = %d, want 15", h.largestFree())
	}
}

func TestHeap_FirstFit(t *testing.T) {
	h := newHeap(16)
	a, _ := h.alloc(2)
	b, _ := h.alloc(2)
	c, _ := h.alloc(2)
	if a != 1 || b != 3 || c != 5 {
		t.Fatalf("allocations at %d %d %d, want 1 3 5", a, b, c)
	}

	h.release(b)
	h.buildFreeRanges()
	if w, _ := h.alloc(2); w != b {
		t.Errorf("alloc(2) = %d, want the released hole at %d", w, b)
	}
	if w, _ := h.alloc(3); w != 7 {
		t.Errorf("alloc(3) = %d, want 7", w)
	}
}

func TestHeap_ZeroesClaimedWords(t *testing.T) {
	h := newHeap(8)
	w, _ := h.alloc(4)
	for i := w; i < w+4; i++ {
		h.words[i] = 0xdeadbeef
	}
	h.release(w)
	h.buildFreeRanges()
	w, _ = h.alloc(4)
	for i := w; i < w+4; i++ {
		if h.words[i] != 0 {
			t.Fatalf("word %d = %#x after reallocation, want 0", i, h.words[i])
		}
	}
}

func TestHeap_ReservedWordZero(t *testing.T) {
	h := newHeap(8)
	if h.state[0] != blockReserved {
		t.Errorf("word 0 state = %v, want reserved", h.state[0])
	}
	if h.isHead(0) {
		t.Error("word 0 must never be an object")
	}
}

func TestPointerWordMapping(t *testing.T) {
	for _, w := range []uint32{1, 2, 100, 8191} {
		if got := wordOf(pointerOf(w)); got != w {
			t.Errorf("wordOf(pointerOf(%d)) = %d", w, got)
		}
	}
	if pointerOf(5) != 20 {
		t.Errorf("pointerOf(5) = %d, want 20", pointerOf(5))
	}
}
