package heap

// findBucket maps a block size in words to its segregated-list index.
// Bucket 0 holds exactly the minimum block size; buckets 1..nBuckets-2
// each cover one power-of-two doubling; the last bucket is the overflow
// class for anything larger than the last bound in bucketBounds (4096 bytes).
var bucketBounds = [nBuckets - 2]int32{32, 64, 128, 256, 512, 1024, 2048, 4096}

func findBucket(words int32) int {
	sizeBytes := words * wordSize
	if sizeBytes <= alignment {
		return 0
	}
	for i, bound := range bucketBounds {
		if sizeBytes <= bound {
			return i + 1
		}
	}
	return nBuckets - 1
}

// Free-list links live inside a free block's body: word+1 is next, word+2
// is prev, both encoded as ref (word offset from heap_start, refNil = -1
// for "no link").

func (h *Heap) next32(r ref) ref {
	return ref(h.readWord(r + 1))
}

func (h *Heap) setNext32(r ref, v ref) {
	h.writeWord(r+1, uint32(v))
}

func (h *Heap) prev32(r ref) ref {
	return ref(h.readWord(r + 2))
}

func (h *Heap) setPrev32(r ref, v ref) {
	h.writeWord(r+2, uint32(v))
}

// appendFree pushes a free block onto the head of its bucket (LIFO).
func (h *Heap) appendFree(r ref) {
	i := findBucket(h.blockWords(r))
	head := h.buckets[i]
	h.setPrev32(r, refNil)
	h.setNext32(r, head)
	if head != refNil {
		h.setPrev32(head, r)
	}
	h.buckets[i] = r
}

// removeFree unlinks a free block from its bucket: sole element, head,
// middle, or tail.
func (h *Heap) removeFree(r ref) {
	i := findBucket(h.blockWords(r))
	p := h.prev32(r)
	n := h.next32(r)

	if p == refNil {
		// head (sole element if n is also refNil)
		h.buckets[i] = n
		if n != refNil {
			h.setPrev32(n, refNil)
		}
		return
	}
	if n == refNil {
		// tail, not sole
		h.setNext32(p, refNil)
		return
	}
	// middle
	h.setNext32(p, n)
	h.setPrev32(n, p)
}
