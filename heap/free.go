package heap

import "unsafe"

// refFromPayload recovers the block ref owning a payload slice previously
// returned by Allocate/Reallocate/ZeroAllocate, by reading the slice's data
// pointer directly (the same technique BuddyAllocator.Free and
// BitmapAllocator.Free use) and validating it falls on a word boundary
// inside the managed region. It panics on anything else, since a pointer
// that isn't one we vended is client misuse (spec §7: undefined behaviour,
// a debug build may assert).
func (h *Heap) refFromPayload(b []byte) ref {
	if cap(b) == 0 {
		return refNil
	}
	dataPtr := *(*uintptr)(unsafe.Pointer(&b))
	headerAddr := dataPtr - wordSize
	diff := int64(headerAddr) - int64(uintptr(h.low))
	if diff < 0 || diff%wordSize != 0 {
		panic("heap: pointer not owned by this heap")
	}
	r := ref(diff / wordSize)
	if r < 0 || r >= h.epilogue {
		panic("heap: pointer not owned by this heap")
	}
	return r
}

// Free releases a payload slice previously returned by Allocate,
// Reallocate, or ZeroAllocate. A nil slice is a no-op.
func (h *Heap) Free(b []byte) {
	r := h.refFromPayload(b)
	if r == refNil {
		return
	}
	if !h.isUsed(r) {
		panic("heap: double free")
	}

	prevFree := h.isPrevFree(r)
	h.btMake(r, h.blockWords(r), false, prevFree)

	n := h.nextRef(r)
	nextFree := n != refNil && !h.isUsed(n)
	if prevFree || nextFree {
		h.coalesce(r)
	} else {
		h.appendFree(r)
	}
}

// coalesce merges B with any free neighbours into a single free block,
// updates last if the merged block becomes (or remains) the trailing
// block, and re-inserts the result into its bucket. Returns the ref of the
// merged block.
func (h *Heap) coalesce(b ref) ref {
	var p, n ref = refNil, refNil
	if h.isPrevFree(b) {
		p = h.prevRef(b)
	}
	if nx := h.nextRef(b); nx != refNil && !h.isUsed(nx) {
		n = nx
	}

	updateLast := b == h.last || (n != refNil && n == h.last)

	words := h.blockWords(b)
	merged := b

	if n != refNil {
		h.removeFree(n)
		words += h.blockWords(n)
	}
	if p != refNil {
		h.removeFree(p)
		words += h.blockWords(p)
		merged = p
	}

	prevFree := h.isPrevFree(merged)
	h.btMake(merged, words, false, prevFree)
	h.appendFree(merged)

	if updateLast {
		h.last = merged
	}
	return merged
}
