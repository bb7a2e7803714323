package heap

import "unsafe"

// roundBlockWords computes the block size, in words, needed to hold n
// payload bytes: round WSIZE+n up to ALIGNMENT, then convert to words.
func roundBlockWords(n int) int32 {
	total := wordSize + n
	total = (total + alignment - 1) &^ (alignment - 1)
	return int32(total / wordSize)
}

// findFit scans buckets starting at findBucket(words), head-to-tail within
// each bucket, returning the first block of size >= words. Returns refNil
// if every bucket is exhausted.
func (h *Heap) findFit(words int32) ref {
	for i := findBucket(words); i < nBuckets; i++ {
		for r := h.buckets[i]; r != refNil; r = h.next32(r) {
			if h.blockWords(r) >= words {
				return r
			}
		}
	}
	return refNil
}

// place carves a block of exactly w words out of B, splitting off a
// residual free block when the leftover is at least one minimum block,
// and returns the full-capacity payload slice for the w-word block (the
// caller reslices down to the bytes actually requested).
func (h *Heap) place(b ref, w int32) []byte {
	wasLast := b == h.last
	prevFree := h.isPrevFree(b)
	total := h.blockWords(b)

	h.removeFree(b)

	if total-w >= minBlockWords {
		h.btMake(b, w, true, prevFree)
		residual := b + ref(w)
		h.btMake(residual, total-w, false, false)
		h.appendFree(residual)
		if wasLast {
			h.last = residual
		}
	} else {
		h.btMake(b, total, true, prevFree)
	}

	return h.blockPayload(b)
}

// blockPayload returns the full-capacity payload slice for a block: one
// word past its header, sized to the block minus the header word.
func (h *Heap) blockPayload(r ref) []byte {
	payloadBytes := int(h.blockSize(r)) - wordSize
	ptr := unsafe.Add(h.addr(r), wordSize)
	return unsafe.Slice((*byte)(ptr), payloadBytes)
}

// Allocate returns a slice of n bytes, 16-byte aligned, or nil if n is
// zero or the heap cannot grow to satisfy the request.
func (h *Heap) Allocate(n int) []byte {
	if n <= 0 {
		return nil
	}
	w := roundBlockWords(n)

	if b := h.findFit(w); b != refNil {
		return h.place(b, w)[:n]
	}

	// h.last's word count, if it's free, is always < w here: find_fit
	// already scanned every bucket (including h.last's) for a block of
	// >= w words and found none, so the subtraction below can't underflow.
	needed := int(w) * wordSize
	if h.last != refNil && !h.isUsed(h.last) {
		needed -= int(h.blockSize(h.last))
	}
	b, err := h.growAndFuse(needed)
	if err != nil {
		return nil
	}
	return h.place(b, w)[:n]
}
