package audio

import (
	"fmt"
	"math"
	"sync"
	"time"

	oto "github.com/ebitengine/oto/v3"
)

// BlockFunc fills one interleaved stereo block of the given frame count
// and reports whether the source is still live. A false return ends the
// stream.
type BlockFunc func(frames int) []float64

// Player pushes fixed-size blocks from a BlockFunc to the OS audio device.
type Player struct {
	context    *oto.Context
	player     *oto.Player
	sampleRate int
	blockSize  int
	stopChan   chan struct{}
	stopOnce   sync.Once
}

func NewPlayer(sampleRate, blockSize int) (*Player, error) {
	otoContext, readyChan, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 2,
		Format:       oto.FormatFloat32LE,
		BufferSize:   500 * time.Millisecond,
	})
	if err != nil {
		return nil, fmt.Errorf("opening audio context: %w", err)
	}

	<-readyChan

	return &Player{
		context:    otoContext,
		sampleRate: sampleRate,
		blockSize:  blockSize,
		stopChan:   make(chan struct{}),
	}, nil
}

func (p *Player) Start(block BlockFunc) {
	p.player = p.context.NewPlayer(&blockReader{
		block:     block,
		blockSize: p.blockSize,
		stopChan:  p.stopChan,
	})
	p.player.Play()
}

// Stop ends the stream. Safe to call more than once; Close calls it too.
func (p *Player) Stop() {
	p.stopOnce.Do(func() { close(p.stopChan) })
	if p.player != nil {
		p.player.Pause()
	}
}

func (p *Player) Close() {
	p.Stop()
	if p.player != nil {
		p.player.Close()
	}
}

// blockReader adapts the pull-based io.Reader oto expects into fixed-size
// block callbacks. Whatever byte count oto asks for, the source is always
// invoked with exactly blockSize frames.
type blockReader struct {
	block     BlockFunc
	blockSize int
	stopChan  <-chan struct{}
	buffer    []byte
	bufPos    int
}

func (r *blockReader) Read(buf []byte) (int, error) {
	totalRead := 0

	for totalRead < len(buf) {
		if r.bufPos >= len(r.buffer) {
			select {
			case <-r.stopChan:
				return totalRead, nil
			default:
			}

			samples := r.block(r.blockSize)
			r.buffer = appendFloat32LE(r.buffer[:0], samples)
			r.bufPos = 0
		}

		n := copy(buf[totalRead:], r.buffer[r.bufPos:])
		r.bufPos += n
		totalRead += n
	}

	return totalRead, nil
}

// appendFloat32LE converts clamped float64 samples to the float32 little
// endian wire format, reusing dst's backing array.
func appendFloat32LE(dst []byte, samples []float64) []byte {
	for _, sample := range samples {
		clamped := math.Max(-1, math.Min(1, sample))
		bits := math.Float32bits(float32(clamped))
		dst = append(dst, byte(bits), byte(bits>>8), byte(bits>>16), byte(bits>>24))
	}
	return dst
}
