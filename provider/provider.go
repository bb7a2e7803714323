// Package provider implements the brk-style memory provider that the heap
// package consumes to grow its managed region.
package provider

import (
	"fmt"
	"unsafe"

	"github.com/bytedance/gopkg/lang/dirtmake"
)

// Provider extends the end of a managed region by n bytes and reports
// the region's current bounds. It is the only external resource the heap
// package depends on.
type Provider interface {
	// Extend grows the region by n bytes and returns the address of the
	// first byte of the new region. It returns an error if the request
	// cannot be satisfied.
	Extend(n int) (unsafe.Pointer, error)

	// Bounds returns the current low (inclusive) and high (exclusive)
	// addresses of the region. Used only for debugging assertions.
	Bounds() (lo, hi unsafe.Pointer)
}

// Arena is a reference Provider backed by a single fixed-capacity buffer
// allocated once up front. The capacity is reserved with dirtmake so the
// bytes start out uninitialized rather than zeroed. The heap package does
// not promise zeroed payloads from Allocate; ZeroAllocate clears its result
// itself.
//
// The capacity is fixed because a Go slice's backing array can move when
// it is grown past its capacity; a moving backing array would invalidate
// every unsafe.Pointer the heap package has already derived from it. Real
// brk-backed memory never moves once the process break has advanced past
// it, and Arena preserves that guarantee by never reallocating.
type Arena struct {
	buf  []byte
	used int
}

// NewArena reserves a buffer of the given capacity and returns an empty
// Arena over it. capacity must be large enough to satisfy every Extend call the
// heap built on top of it will ever make.
func NewArena(capacity int) (*Arena, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("provider: capacity must be positive, got %d", capacity)
	}
	return &Arena{buf: dirtmake.Bytes(0, capacity)}, nil
}

// Extend implements Provider.
func (a *Arena) Extend(n int) (unsafe.Pointer, error) {
	if n < 0 {
		return nil, fmt.Errorf("provider: negative extend size %d", n)
	}
	if a.used+n > cap(a.buf) {
		return nil, fmt.Errorf("provider: arena exhausted: used=%d requested=%d capacity=%d",
			a.used, n, cap(a.buf))
	}
	start := a.used
	a.buf = a.buf[:a.used+n]
	a.used += n
	return unsafe.Pointer(&a.buf[start]), nil
}

// Bounds implements Provider.
func (a *Arena) Bounds() (lo, hi unsafe.Pointer) {
	if a.used == 0 {
		base := unsafe.Pointer(&a.buf[:1][0])
		return base, base
	}
	base := unsafe.Pointer(&a.buf[0])
	return base, unsafe.Add(base, a.used)
}

// Available returns how many more bytes Extend can satisfy before the
// arena is exhausted.
func (a *Arena) Available() int {
	return cap(a.buf) - a.used
}
