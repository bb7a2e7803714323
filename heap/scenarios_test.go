package heap

// The tests in this file follow concrete scenarios 1-5 from spec.md §8
// one-for-one; scenario 6 is TestRandomPermutationFreeCoalescesWholeHeap in
// free_test.go.

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScenario1_SingleByteAllocFree(t *testing.T) {
	h := newTestHeap(t, 1<<16)

	p := h.Allocate(1)
	require.NotNil(t, p)
	assertAligned(t, p)
	h.Free(p)
	assertInvariants(t, h)

	count := 0
	for i := 0; i < nBuckets; i++ {
		for r := h.buckets[i]; r != refNil; r = h.next32(r) {
			count++
			assert.Equal(t, int32(alignment), h.blockSize(r))
		}
	}
	assert.Equal(t, 1, count)
}

func TestScenario2_CoalesceOutOfOrderFrees(t *testing.T) {
	h := newTestHeap(t, 1<<16)

	a := h.Allocate(24)
	b := h.Allocate(24)
	c := h.Allocate(24)
	h.Free(a)
	h.Free(c)
	h.Free(b)
	assertInvariants(t, h)

	count := 0
	for i := 0; i < nBuckets; i++ {
		for r := h.buckets[i]; r != refNil; r = h.next32(r) {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestScenario3_ResidualSplitReuse(t *testing.T) {
	h := newTestHeap(t, 1<<16)

	a := h.Allocate(1000)
	h.Allocate(1000)
	h.Free(a)
	c := h.Allocate(500)
	require.NotNil(t, c)
	assert.Equal(t, addrOf(a), addrOf(c))
	assertInvariants(t, h)
}

func TestScenario4_ReallocatePreservesPrefix(t *testing.T) {
	h := newTestHeap(t, 1<<16)

	p := h.Allocate(32)
	require.NotNil(t, p)
	assertAligned(t, p)
	for i := range p {
		p[i] = 0xAB
	}
	q := h.Reallocate(p, 64)
	require.NotNil(t, q)
	for i := 0; i < 32; i++ {
		assert.Equal(t, byte(0xAB), q[i])
	}
}

func TestScenario5_ZeroAllocateClean(t *testing.T) {
	h := newTestHeap(t, 1<<16)
	p := h.ZeroAllocate(16, 8)
	require.NotNil(t, p)
	for _, c := range p {
		assert.Zero(t, c)
	}
}
