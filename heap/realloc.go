package heap

// Reallocate resizes a previously allocated payload. n == 0 frees b and
// returns nil; a nil b behaves like Allocate(n). Otherwise a fresh block
// of n bytes is allocated, the overlap between the old and new blocks is
// copied, and the old block is freed.
//
// The amount copied is old block size minus one word vs. new block size
// minus one word (not min(oldRequestedN, n)): this matches the original
// source's accounting for the header word already occupying the block,
// and is load-bearing — copying only the requested lengths can leave
// bytes the client is entitled to see uninitialized after a grow.
func (h *Heap) Reallocate(b []byte, n int) []byte {
	if n == 0 {
		h.Free(b)
		return nil
	}
	if b == nil {
		return h.Allocate(n)
	}

	oldRef := h.refFromPayload(b)
	oldFull := h.blockPayload(oldRef)

	out := h.Allocate(n)
	if out == nil {
		return nil
	}
	newRef := h.refFromPayload(out)
	newFull := h.blockPayload(newRef)

	c := len(oldFull)
	if len(newFull) < c {
		c = len(newFull)
	}
	copy(newFull[:c], oldFull[:c])

	h.Free(b)
	return out
}

// ZeroAllocate allocates n*size bytes and zeroes them, or returns nil
// (without zeroing anything) if the multiplication overflows or the
// allocation itself fails. Detecting the overflow here, rather than
// leaving it to the caller, follows spec's hardened-implementation note.
func (h *Heap) ZeroAllocate(n, size int) []byte {
	if n < 0 || size < 0 {
		return nil
	}
	total := n * size
	if size != 0 && total/size != n {
		return nil
	}
	b := h.Allocate(total)
	if b == nil {
		return nil
	}
	clear(b)
	return b
}
