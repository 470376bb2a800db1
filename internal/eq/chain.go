package eq

import "math"

// Fixed 3-band layout: low shelf, mid peak, high shelf.
const (
	LowFreq  = 320.0
	MidFreq  = 1000.0
	HighFreq = 3200.0

	MidQ = 0.5

	MaxGainDB = 12.0
)

// Chain cascades the three bands over one channel. Filter state is per
// channel, so stereo needs two chains.
type Chain struct {
	low  *Biquad
	mid  *Biquad
	high *Biquad
}

func NewChain(sampleRate float64) *Chain {
	return &Chain{
		low:  NewBiquad(LowShelf, LowFreq, 0, 0, sampleRate),
		mid:  NewBiquad(Peak, MidFreq, MidQ, 0, sampleRate),
		high: NewBiquad(HighShelf, HighFreq, 0, 0, sampleRate),
	}
}

// ClampGain limits a band gain to the supported +/-12 dB range.
func ClampGain(gainDB float64) float64 {
	return math.Max(-MaxGainDB, math.Min(MaxGainDB, gainDB))
}

func (c *Chain) SetLow(gainDB float64)  { c.low.UpdateGain(ClampGain(gainDB)) }
func (c *Chain) SetMid(gainDB float64)  { c.mid.UpdateGain(ClampGain(gainDB)) }
func (c *Chain) SetHigh(gainDB float64) { c.high.UpdateGain(ClampGain(gainDB)) }

func (c *Chain) Process(samples []float64) {
	c.low.Process(samples)
	c.mid.Process(samples)
	c.high.Process(samples)
}
