package heap

import (
	"fmt"

	"github.com/patryk-rybak/Malloc/provider"
)

func Example() {
	arena, _ := provider.NewArena(1 << 16)
	h, _ := New(arena, nil)

	a := h.Allocate(24)
	b := h.Allocate(1000)

	fmt.Printf("a: len=%d cap=%d\n", len(a), cap(a))
	fmt.Printf("b: len=%d cap=%d\n", len(b), cap(b))

	h.Free(a)
	h.Free(b)

	// Output:
	// a: len=24 cap=28
	// b: len=1000 cap=1004
}
