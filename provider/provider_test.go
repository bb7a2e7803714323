package provider

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewArenaRejectsNonPositiveCapacity(t *testing.T) {
	_, err := NewArena(0)
	assert.Error(t, err)
	_, err = NewArena(-1)
	assert.Error(t, err)
}

func TestArenaExtendGrowsContiguously(t *testing.T) {
	a, err := NewArena(64)
	require.NoError(t, err)

	p1, err := a.Extend(16)
	require.NoError(t, err)
	p2, err := a.Extend(16)
	require.NoError(t, err)

	assert.Equal(t, uintptr(16), uintptr(p2)-uintptr(p1), "Extend must hand back contiguous, non-moving memory")
	assert.Equal(t, 32, 64-a.Available())
}

func TestArenaExtendFailsWhenExhausted(t *testing.T) {
	a, err := NewArena(16)
	require.NoError(t, err)

	_, err = a.Extend(16)
	require.NoError(t, err)
	_, err = a.Extend(1)
	assert.Error(t, err)
}

func TestArenaExtendRejectsNegative(t *testing.T) {
	a, err := NewArena(16)
	require.NoError(t, err)
	_, err = a.Extend(-1)
	assert.Error(t, err)
}

func TestArenaBounds(t *testing.T) {
	a, err := NewArena(32)
	require.NoError(t, err)

	lo, hi := a.Bounds()
	assert.Equal(t, lo, hi, "an empty arena has equal low and high bounds")

	p, err := a.Extend(8)
	require.NoError(t, err)
	lo, hi = a.Bounds()
	assert.Equal(t, unsafe.Pointer(p), lo)
	assert.Equal(t, uintptr(8), uintptr(hi)-uintptr(lo))
}

func TestArenaPointerStaysStableAcrossExtend(t *testing.T) {
	// Regression check for the whole reason Arena pre-reserves its
	// capacity: once handed out, a pointer into the arena must never be
	// invalidated by a later Extend call.
	a, err := NewArena(128)
	require.NoError(t, err)

	p, err := a.Extend(8)
	require.NoError(t, err)
	*(*uint64)(p) = 0xDEADBEEF

	for i := 0; i < 10; i++ {
		_, err := a.Extend(8)
		require.NoError(t, err)
	}

	assert.Equal(t, uint64(0xDEADBEEF), *(*uint64)(p))
}
