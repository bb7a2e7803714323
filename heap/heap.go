// Package heap implements a segregated-fit heap allocator over a single
// contiguous region that grows on demand through a Provider. It is the
// allocation/free/reallocate/zero-allocate backend a language runtime would
// wire its public malloc-family symbols to; this package only implements the
// on-heap data structure and the algorithms that manipulate it.
package heap

import (
	"fmt"
	"unsafe"

	"github.com/patryk-rybak/Malloc/provider"
)

const (
	wordSize  = 4  // bytes per word
	alignment = 16 // bytes; every payload address is congruent to 0 mod alignment
	nBuckets  = 10

	usedBit     = uint32(1)
	prevFreeBit = uint32(1 << 1)
	flagMask    = usedBit | prevFreeBit

	minBlockWords = alignment / wordSize // header + next + prev + footer
)

// ref is a signed word offset from heap_start. It is used uniformly for
// every block reference in this package: bucket heads, free-list next/prev
// links, last, and the epilogue. refNil is the "no block" sentinel, used
// both as a list terminator and as the empty-bucket marker.
type ref int32

const refNil ref = -1

// Provider is re-exported so callers don't need to import the provider
// package just to satisfy New's first argument.
type Provider = provider.Provider

// Option configures a Heap. The zero Option is the default configuration
// (the one DefaultOption returns).
type Option struct {
	// InitialExtend is how many bytes New asks the provider for up front,
	// beyond the alignment pad and the epilogue word. It must be a multiple
	// of alignment. Zero is legal: the heap simply extends lazily on the
	// first allocation.
	InitialExtend int
}

// DefaultOption returns the default configuration: no speculative initial
// growth, the heap extends itself lazily as allocations demand.
func DefaultOption() *Option {
	return &Option{InitialExtend: 0}
}

// Heap is a single segregated-fit managed heap. It owns heap_start,
// heap_epilogue, last, and the bucket index exclusively; none of its state
// is safe for concurrent use (single-threaded only).
type Heap struct {
	p Provider

	// low is the address of heap_start: ref 0 always denotes this word,
	// so every other ref is a word offset relative to low.
	low unsafe.Pointer

	epilogue ref
	last     ref

	buckets [nBuckets]ref
}

// New establishes a new managed heap on top of p. It is the equivalent of
// spec's init(): it reserves the alignment pad and the one-word epilogue,
// and leaves every bucket empty. Re-entrant use of New against the same
// Provider is unsupported, mirroring init()'s single-call contract.
func New(p Provider, opt *Option) (*Heap, error) {
	if p == nil {
		return nil, fmt.Errorf("heap: nil provider")
	}
	if opt == nil {
		opt = DefaultOption()
	}
	if opt.InitialExtend < 0 {
		return nil, fmt.Errorf("heap: negative InitialExtend %d", opt.InitialExtend)
	}
	if opt.InitialExtend%alignment != 0 {
		return nil, fmt.Errorf("heap: InitialExtend %d is not a multiple of %d", opt.InitialExtend, alignment)
	}

	// Probe the provider's current alignment with a throwaway word, then
	// pad up to however many more bytes are needed so the one-word
	// epilogue that follows lands at headerAddr % alignment == alignment -
	// wordSize: that's what makes the first real block's payload (one word
	// past its header, once the epilogue is pushed out by extend_heap)
	// land on a 16-byte boundary.
	probe, err := p.Extend(wordSize)
	if err != nil {
		return nil, fmt.Errorf("heap: probing provider alignment: %w", err)
	}
	want := uintptr(alignment - wordSize)
	got := uintptr(probe) % alignment
	pad := int((want - wordSize - got + alignment) % alignment)

	if pad > 0 {
		if _, err := p.Extend(pad); err != nil {
			return nil, fmt.Errorf("heap: reserving alignment pad: %w", err)
		}
	}
	epilogueAddr, err := p.Extend(wordSize)
	if err != nil {
		return nil, fmt.Errorf("heap: reserving epilogue word: %w", err)
	}

	h := &Heap{
		p:        p,
		low:      epilogueAddr,
		epilogue: 0,
		last:     refNil,
	}
	for i := range h.buckets {
		h.buckets[i] = refNil
	}
	h.writeHeader(0, 0, true, false) // epilogue: size 0, USED=1, PREVFREE=0

	if opt.InitialExtend > 0 {
		if _, err := h.growAndFuse(opt.InitialExtend); err != nil {
			return nil, fmt.Errorf("heap: initial extend: %w", err)
		}
	}
	return h, nil
}

// Available returns the total number of bytes tied up in free blocks
// across every bucket, header word included, so that freeing a block of
// size S always increases Available() by exactly S. Not part of spec's
// entry-point list; derivable from the free-list index and useful for
// the same debugging purposes spec grants heap_bounds().
func (h *Heap) Available() int {
	total := 0
	for i := 0; i < nBuckets; i++ {
		for r := h.buckets[i]; r != refNil; r = h.next32(r) {
			total += int(h.blockSize(r))
		}
	}
	return total
}
