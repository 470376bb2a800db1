package mixer

import (
	"math"
	"sync"

	"github.com/agusx1211/noisebox/internal/eq"
	"github.com/agusx1211/noisebox/internal/noise"
)

const channels = 2

// Mixer runs the playback chain: noise engine -> per-channel EQ ->
// smoothed master volume -> clamp. The audio thread calls Mix; everything
// else goes through the setters.
type Mixer struct {
	mu sync.RWMutex

	engine     *noise.Engine
	sampleRate int

	power        bool
	masterVolume float64
	targetVolume float64
	lowGain      float64
	midGain      float64
	highGain     float64

	eqL *eq.Chain
	eqR *eq.Chain

	// Scratch buffers, sized once for the largest block seen. The audio
	// path mutates these in place and never reallocates at steady state.
	mono  []float64
	left  []float64
	right []float64
	out   []float64
}

func NewMixer(sampleRate int, engine *noise.Engine) *Mixer {
	return &Mixer{
		engine:       engine,
		sampleRate:   sampleRate,
		power:        true,
		masterVolume: 0.5,
		targetVolume: 0.5,
		eqL:          eq.NewChain(float64(sampleRate)),
		eqR:          eq.NewChain(float64(sampleRate)),
	}
}

func (m *Mixer) SetPower(on bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.power = on
}

func (m *Mixer) GetPower() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.power
}

func (m *Mixer) SetMasterVolume(volume float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.targetVolume = math.Max(0, math.Min(1, volume))
}

func (m *Mixer) GetMasterVolume() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.targetVolume
}

// SetKind forwards to the engine's mailbox; the change lands at the next
// block boundary.
func (m *Mixer) SetKind(k noise.Kind) {
	m.engine.SetKind(k)
}

func (m *Mixer) GetKind() noise.Kind {
	return m.engine.Kind()
}

func (m *Mixer) SetLow(gainDB float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lowGain = eq.ClampGain(gainDB)
	m.eqL.SetLow(m.lowGain)
	m.eqR.SetLow(m.lowGain)
}

func (m *Mixer) GetLow() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lowGain
}

func (m *Mixer) SetMid(gainDB float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.midGain = eq.ClampGain(gainDB)
	m.eqL.SetMid(m.midGain)
	m.eqR.SetMid(m.midGain)
}

func (m *Mixer) GetMid() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.midGain
}

func (m *Mixer) SetHigh(gainDB float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.highGain = eq.ClampGain(gainDB)
	m.eqL.SetHigh(m.highGain)
	m.eqR.SetHigh(m.highGain)
}

func (m *Mixer) GetHigh() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.highGain
}

func (m *Mixer) ReseedRNG(seed int64) {
	m.engine.Reseed(seed)
}

func (m *Mixer) ensureScratch(frames int) {
	if len(m.mono) >= frames {
		return
	}
	m.mono = make([]float64, frames)
	m.left = make([]float64, frames)
	m.right = make([]float64, frames)
	m.out = make([]float64, frames*channels)
}

// Mix produces one interleaved stereo block. The returned slice is reused
// across calls; the caller must consume it before the next Mix.
func (m *Mixer) Mix(frames int) []float64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ensureScratch(frames)
	out := m.out[:frames*channels]

	if !m.power {
		for i := range out {
			out[i] = 0
		}
		for i := 0; i < frames; i++ {
			m.masterVolume += (0 - m.masterVolume) * 0.001
		}
		return out
	}

	mono := m.mono[:frames]
	m.engine.Process(mono, frames, 1)

	left := m.left[:frames]
	right := m.right[:frames]
	copy(left, mono)
	copy(right, mono)

	m.eqL.Process(left)
	m.eqR.Process(right)

	for i := 0; i < frames; i++ {
		m.masterVolume += (m.targetVolume - m.masterVolume) * 0.001
		out[i*2] = math.Max(-1, math.Min(1, left[i]*m.masterVolume))
		out[i*2+1] = math.Max(-1, math.Min(1, right[i]*m.masterVolume))
	}

	return out
}
