package noise

import (
	"math/bits"
	"sync/atomic"
)

const (
	pinkRows = 16

	brownLeak  = 0.02
	brownGain  = 3.5
	blueGain   = 0.7
	violetGain = 0.5
)

// Options tunes the prefetcher. Zero values pick the defaults; these are
// configuration knobs, not invariants.
type Options struct {
	SampleRate      int
	PrefetchSeconds int // capacity of each uniform buffer, in seconds
	RefillInterval  int // run one refill chunk every Nth block
	RefillChunk     int // samples written per refill
	Seed            int64
}

const (
	DefaultPrefetchSeconds = 30
	DefaultRefillInterval  = 10
	DefaultRefillChunk     = 4800
)

// Engine produces one mono noise sample per draw and fans it out to every
// output channel. All generator state lives on the audio thread; the only
// cross-thread inputs are the single-slot kind mailbox and the reseed slot.
type Engine struct {
	src *uniformSource

	// kind is audio-thread-private; Process is its only reader and
	// writer. Observers go through current instead.
	kind    Kind
	pending atomic.Pointer[Kind]
	current atomic.Pointer[Kind]

	pink      [pinkRows]float64
	pinkSum   float64
	pinkIndex uint16

	brown           float64
	bluePrev        float64
	violetPrevWhite float64
	violetPrevBlue  float64

	refillInterval int
	blocks         uint64
}

// NewEngine allocates and fully fills both uniform buffers before
// returning, so the first Process call never waits on the RNG.
func NewEngine(kind Kind, opts Options) *Engine {
	if opts.SampleRate <= 0 {
		opts.SampleRate = 48000
	}
	if opts.PrefetchSeconds <= 0 {
		opts.PrefetchSeconds = DefaultPrefetchSeconds
	}
	if opts.RefillInterval <= 0 {
		opts.RefillInterval = DefaultRefillInterval
	}
	if opts.RefillChunk <= 0 {
		opts.RefillChunk = DefaultRefillChunk
	}
	e := &Engine{
		src:            newUniformSource(opts.SampleRate*opts.PrefetchSeconds, opts.RefillChunk, opts.Seed),
		kind:           kind,
		refillInterval: opts.RefillInterval,
	}
	e.current.Store(&kind)
	return e
}

// SetKind schedules a kind change. Safe from any goroutine; the change is
// applied at the next block boundary, never mid-block. Rapid successive
// calls collapse to the most recent kind.
func (e *Engine) SetKind(k Kind) {
	e.pending.Store(&k)
	e.current.Store(&k)
}

// Kind reports the kind most recently handed to SetKind (or the
// constructor), i.e. the kind the next block will use. Safe from any
// goroutine; it never touches the audio thread's private state.
func (e *Engine) Kind() Kind {
	return *e.current.Load()
}

// Reseed schedules a replacement RNG seed, applied at the next refill.
func (e *Engine) Reseed(seed int64) {
	e.src.reseed(seed)
}

// Process fills one interleaved block: frames samples across channels
// slots each, every channel receiving the identical mono value. Applies
// at most one pending kind change before the first sample, then runs the
// periodic prefetch refill. Returns true always; the engine never signals
// completion, the host stops calling it to stop playback.
func (e *Engine) Process(dst []float64, frames, channels int) bool {
	if k := e.pending.Swap(nil); k != nil {
		e.kind = *k
	}
	for i := 0; i < frames; i++ {
		s := e.sample()
		base := i * channels
		for c := 0; c < channels; c++ {
			dst[base+c] = s
		}
	}
	e.blocks++
	if e.blocks%uint64(e.refillInterval) == 0 {
		e.src.refill()
	}
	return true
}

func (e *Engine) sample() float64 {
	switch e.kind {
	case Pink:
		return e.samplePink()
	case Brown:
		return e.sampleBrown()
	case Blue:
		return e.sampleBlue()
	case Violet:
		return e.sampleViolet()
	default:
		return e.src.next()
	}
}

// samplePink is the 16-row Voss-McCartney generator: each counter value
// selects the row matching its trailing-zero count, so row r updates every
// 2^(r+1) samples and the summed rows approximate a 1/f spectrum. The
// running sum is maintained incrementally; only one row changes per sample
// (none on the 2^16 wrap, where the trailing-zero count overflows the row
// array).
func (e *Engine) samplePink() float64 {
	e.pinkIndex++
	if n := bits.TrailingZeros16(e.pinkIndex); n < pinkRows {
		e.pinkSum -= e.pink[n]
		e.pink[n] = e.src.next()
		e.pinkSum += e.pink[n]
	}
	return (e.pinkSum + e.src.next()) / 17
}

// sampleBrown leaky-integrates white noise. The /(1+leak) term bleeds off
// accumulated DC, bounding the walk at 1/leak; the 3.5 gain restores
// audible level lost to integration.
func (e *Engine) sampleBrown() float64 {
	e.brown = (e.brown + brownLeak*e.src.next()) / (1 + brownLeak)
	return e.brown * brownGain
}

// sampleBlue is a first difference of white noise (+3 dB/octave).
func (e *Engine) sampleBlue() float64 {
	w := e.src.next()
	out := (w - e.bluePrev) * blueGain
	e.bluePrev = w
	return out
}

// sampleViolet chains two first differences (+6 dB/octave).
func (e *Engine) sampleViolet() float64 {
	w := e.src.next()
	blue := w - e.violetPrevWhite
	out := (blue - e.violetPrevBlue) * violetGain
	e.violetPrevBlue = blue
	e.violetPrevWhite = w
	return out
}
