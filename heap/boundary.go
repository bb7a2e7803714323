package heap

import "unsafe"

// addr converts a word-offset reference into a raw pointer into the
// provider's backing region. It is the single place in the package that
// turns a ref into an unsafe.Pointer; every other primitive in this file
// builds on it instead of doing its own pointer arithmetic.
func (h *Heap) addr(r ref) unsafe.Pointer {
	return unsafe.Add(h.low, int(r)*wordSize)
}

func (h *Heap) readWord(r ref) uint32 {
	return *(*uint32)(h.addr(r))
}

func (h *Heap) writeWord(r ref, v uint32) {
	*(*uint32)(h.addr(r)) = v
}

// writeHeader writes a raw header (or footer — the encoding is identical)
// word, with no side effects on neighbours. btMake (below) is built on top
// of this; the readers blockSize, isUsed and isPrevFree use readWord.
func (h *Heap) writeHeader(r ref, sizeBytes int32, used, prevFree bool) {
	v := uint32(sizeBytes)
	if prevFree {
		v |= prevFreeBit
	}
	if used {
		v |= usedBit
	}
	h.writeWord(r, v)
}

func (h *Heap) blockSize(r ref) int32 {
	return int32(h.readWord(r) &^ flagMask)
}

func (h *Heap) blockWords(r ref) int32 {
	return h.blockSize(r) / wordSize
}

func (h *Heap) isUsed(r ref) bool {
	return h.readWord(r)&usedBit != 0
}

func (h *Heap) isPrevFree(r ref) bool {
	return h.readWord(r)&prevFreeBit != 0
}

func (h *Heap) setPrevFree(r ref, v bool) {
	w := h.readWord(r)
	if v {
		w |= prevFreeBit
	} else {
		w &^= prevFreeBit
	}
	h.writeWord(r, w)
}

// footerRef returns the ref of r's last word (its footer, if r is free).
func (h *Heap) footerRef(r ref) ref {
	return r + ref(h.blockWords(r)) - 1
}

// nextRef returns the ref of the block adjacent to r, or refNil if r is
// immediately followed by the epilogue.
func (h *Heap) nextRef(r ref) ref {
	n := h.footerRef(r) + 1
	if n == h.epilogue {
		return refNil
	}
	return n
}

// prevRef returns the ref of the block immediately before r. Only valid
// when isPrevFree(r) is true: it reads the previous block's footer at
// r-1 to recover that block's size, then steps back to its header.
func (h *Heap) prevRef(r ref) ref {
	prevWords := h.blockWords(r - 1)
	return r - ref(prevWords)
}

// btMake is the single write primitive for a block's boundary tag. It
// writes the header and, as side effects on the word right after the block
// (the next block's header, or the epilogue if there is no next block): if
// the block becomes used, clears that word's PREVFREE; if the block
// becomes free, it sets that word's PREVFREE and writes a matching
// footer (free blocks carry a footer, used blocks do not need one, since a
// used block is never walked backward across — PREVFREE=0 on its
// follower forbids it).
func (h *Heap) btMake(r ref, words int32, used, prevFree bool) {
	h.writeHeader(r, words*wordSize, used, prevFree)
	nextPos := r + ref(words)
	if used {
		h.setPrevFree(nextPos, false)
	} else {
		h.setPrevFree(nextPos, true)
		h.writeHeader(h.footerRef(r), words*wordSize, used, prevFree)
	}
}
