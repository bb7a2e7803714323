package heap

import "fmt"

// growAndFuse implements extend_heap: request sizeBytes more memory from
// the provider, install it as a new free block in place of the old
// epilogue, push the epilogue out past it, and coalesce the new block with
// the trailing block if the trailing block was free. Returns the
// (possibly fused) free block, still linked into its bucket.
func (h *Heap) growAndFuse(sizeBytes int) (ref, error) {
	if sizeBytes <= 0 || sizeBytes%wordSize != 0 {
		return refNil, fmt.Errorf("heap: extend size %d is not a positive multiple of %d", sizeBytes, wordSize)
	}

	if _, err := h.p.Extend(sizeBytes); err != nil {
		return refNil, err
	}

	b := h.epilogue
	words := int32(sizeBytes / wordSize)

	// The old epilogue's PREVFREE bit already records whether the current
	// trailing block (last) is free — that's exactly what bt_make set it
	// to the last time a block ending here changed free/used state. Read
	// it before the word is overwritten with B's header.
	prevFree := h.isPrevFree(b)

	newEpilogue := b + ref(words)
	h.writeHeader(newEpilogue, 0, true, false)
	h.epilogue = newEpilogue

	h.btMake(b, words, false, prevFree)
	h.last = b

	return h.coalesce(b), nil
}
