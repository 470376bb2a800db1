package noise

import (
	"math/rand"
	"sync/atomic"
)

// uniformSource hands out uniform random values in [-1, 1) from a pair of
// preallocated buffers. The audio thread drains the active buffer one value
// per call while the inactive one is refilled in small chunks, so the bulk
// RNG cost never lands on a single callback. Both buffers, the role flags
// and the cursors are owned exclusively by the audio thread; the only
// cross-thread state is the pending reseed slot.
type uniformSource struct {
	rng  *rand.Rand
	bufs [2][]float64

	active  int
	cursor  int
	fillPos int // refill progress in the inactive buffer
	chunk   int

	pendingSeed atomic.Pointer[int64]
}

// newUniformSource allocates both buffers and fills them completely.
// This is the one synchronous bulk-generation cost, paid before playback
// starts, never on the audio thread's per-sample path.
func newUniformSource(capacity, chunk int, seed int64) *uniformSource {
	s := &uniformSource{
		rng:   rand.New(rand.NewSource(seed)),
		chunk: chunk,
	}
	for i := range s.bufs {
		s.bufs[i] = make([]float64, capacity)
		s.fill(s.bufs[i])
	}
	// Inactive buffer starts fully filled, so the refiller idles until
	// the first swap.
	s.fillPos = capacity
	return s
}

func (s *uniformSource) fill(buf []float64) {
	for i := range buf {
		buf[i] = s.rng.Float64()*2 - 1
	}
}

// next returns one uniform value and advances the cursor. Exhausting the
// active buffer swaps roles immediately: the drained buffer becomes the
// next refill target and the fully (or partially, if refills fell behind)
// refilled one takes over. A partially refilled buffer replays stale
// values in its tail, which is audible repetition at worst, never a stall.
func (s *uniformSource) next() float64 {
	v := s.bufs[s.active][s.cursor]
	s.cursor++
	if s.cursor == len(s.bufs[s.active]) {
		s.active ^= 1
		s.cursor = 0
		s.fillPos = 0
	}
	return v
}

// refill writes one chunk of fresh values into the inactive buffer. Called
// from the audio thread on a fixed block cadence; the chunk size bounds its
// worst-case cost. No-op once the buffer is fully refilled.
func (s *uniformSource) refill() {
	if seed := s.pendingSeed.Swap(nil); seed != nil {
		s.rng = rand.New(rand.NewSource(*seed))
	}
	buf := s.bufs[s.active^1]
	if s.fillPos >= len(buf) {
		return
	}
	end := s.fillPos + s.chunk
	if end > len(buf) {
		end = len(buf)
	}
	for i := s.fillPos; i < end; i++ {
		buf[i] = s.rng.Float64()*2 - 1
	}
	s.fillPos = end
}

// reseed schedules an RNG swap. Safe to call from any goroutine; the new
// seed takes effect at the next refill so the audio thread is the only
// one ever touching the RNG.
func (s *uniformSource) reseed(seed int64) {
	s.pendingSeed.Store(&seed)
}
