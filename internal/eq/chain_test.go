package eq

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sineRMS pushes a sine at freq through the chain and measures output RMS
// after letting the filter settle.
func sineRMS(c *Chain, freq, sampleRate float64) float64 {
	const n = 8192
	buf := make([]float64, n)
	for i := range buf {
		buf[i] = math.Sin(2 * math.Pi * freq * float64(i) / sampleRate)
	}
	c.Process(buf)

	var sum float64
	for _, s := range buf[n/2:] {
		sum += s * s
	}
	return math.Sqrt(sum / float64(n/2))
}

func TestChainFlatAtZeroGain(t *testing.T) {
	c := NewChain(48000)
	for _, freq := range []float64{100, 1000, 8000} {
		rms := sineRMS(c, freq, 48000)
		assert.InDelta(t, 1/math.Sqrt2, rms, 0.02, "freq %v", freq)
	}
}

func TestLowShelfBoostsBass(t *testing.T) {
	boosted := NewChain(48000)
	boosted.SetLow(12)
	flat := NewChain(48000)

	low := sineRMS(boosted, 100, 48000) / sineRMS(flat, 100, 48000)
	high := sineRMS(boosted, 8000, 48000) / sineRMS(flat, 8000, 48000)

	assert.Greater(t, low, 2.0, "12 dB boost should roughly quadruple 100 Hz amplitude")
	assert.InDelta(t, 1.0, high, 0.1, "treble must stay untouched")
}

func TestHighShelfCutsTreble(t *testing.T) {
	cut := NewChain(48000)
	cut.SetHigh(-12)
	flat := NewChain(48000)

	high := sineRMS(cut, 10000, 48000) / sineRMS(flat, 10000, 48000)
	low := sineRMS(cut, 100, 48000) / sineRMS(flat, 100, 48000)

	assert.Less(t, high, 0.5)
	assert.InDelta(t, 1.0, low, 0.1)
}

func TestPeakActsAroundCenter(t *testing.T) {
	c := NewChain(48000)
	c.SetMid(12)
	flat := NewChain(48000)

	mid := sineRMS(c, 1000, 48000) / sineRMS(flat, 1000, 48000)
	require.Greater(t, mid, 2.0)
}

func TestClampGain(t *testing.T) {
	assert.Equal(t, 12.0, ClampGain(40))
	assert.Equal(t, -12.0, ClampGain(-40))
	assert.Equal(t, 3.0, ClampGain(3))
}
