package noise

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUniformSourceRange(t *testing.T) {
	s := newUniformSource(1024, 256, 1)
	for i := 0; i < 4096; i++ {
		v := s.next()
		assert.GreaterOrEqual(t, v, -1.0)
		assert.Less(t, v, 1.0)
	}
}

func TestUniformSourceSwap(t *testing.T) {
	const capacity = 64
	s := newUniformSource(capacity, 16, 42)

	// Remember what the inactive buffer holds at index 0 before any
	// consumption; after draining the active buffer exactly once, that
	// value must be the next one out.
	want := s.bufs[1][0]

	for i := 0; i < capacity; i++ {
		s.next()
	}
	require.Equal(t, 1, s.active, "roles must swap when the active buffer drains")
	require.Equal(t, 0, s.cursor)
	require.Equal(t, 0, s.fillPos, "drained buffer becomes the refill target")

	got := s.next()
	assert.Equal(t, want, got)
	assert.Equal(t, 1, s.cursor)
}

func TestUniformSourceRefillChunks(t *testing.T) {
	const capacity = 10
	s := newUniformSource(capacity, 4, 7)

	// Fresh source: inactive buffer is already full, refill is a no-op.
	s.refill()
	require.Equal(t, capacity, s.fillPos)

	for i := 0; i < capacity; i++ {
		s.next()
	}
	require.Equal(t, 0, s.fillPos)

	s.refill()
	assert.Equal(t, 4, s.fillPos)
	s.refill()
	assert.Equal(t, 8, s.fillPos)
	s.refill()
	assert.Equal(t, capacity, s.fillPos, "final chunk is clamped to capacity")
}

func TestUniformSourceReseedAppliesAtRefill(t *testing.T) {
	s := newUniformSource(32, 32, 1)
	old := s.rng

	s.reseed(99)
	assert.Same(t, old, s.rng, "reseed must not touch the RNG outside refill")

	for i := 0; i < 32; i++ {
		s.next()
	}
	s.refill()
	assert.NotSame(t, old, s.rng)
	assert.Nil(t, s.pendingSeed.Load(), "seed slot is drained once applied")
}
