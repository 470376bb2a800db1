package eq

import "math"

type FilterType int

const (
	LowShelf FilterType = iota
	Peak
	HighShelf
)

type Biquad struct {
	b0, b1, b2 float64
	a1, a2     float64

	x1, x2 float64
	y1, y2 float64

	filterType FilterType
	f0         float64
	q          float64
	sampleRate float64
}

func NewBiquad(filterType FilterType, f0, q, gainDB, sampleRate float64) *Biquad {
	b := &Biquad{
		filterType: filterType,
		f0:         f0,
		q:          q,
		sampleRate: sampleRate,
	}
	b.computeCoefficients(gainDB)
	return b
}

func (b *Biquad) UpdateGain(gainDB float64) {
	b.computeCoefficients(gainDB)
}

// computeCoefficients uses Robert Bristow-Johnson Audio EQ Cookbook formulas.
// Shelves use the S=1 slope; the peak uses the configured Q.
func (b *Biquad) computeCoefficients(gainDB float64) {
	A := math.Pow(10, gainDB/40.0)
	w0 := 2 * math.Pi * b.f0 / b.sampleRate
	cosw0 := math.Cos(w0)
	sinw0 := math.Sin(w0)

	var b0, b1, b2, a0, a1, a2 float64

	switch b.filterType {
	case LowShelf:
		alpha := sinw0 / 2 * math.Sqrt2
		twoSqrtAAlpha := 2 * math.Sqrt(A) * alpha
		b0 = A * ((A + 1) - (A-1)*cosw0 + twoSqrtAAlpha)
		b1 = 2 * A * ((A - 1) - (A+1)*cosw0)
		b2 = A * ((A + 1) - (A-1)*cosw0 - twoSqrtAAlpha)
		a0 = (A + 1) + (A-1)*cosw0 + twoSqrtAAlpha
		a1 = -2 * ((A - 1) + (A+1)*cosw0)
		a2 = (A + 1) + (A-1)*cosw0 - twoSqrtAAlpha
	case Peak:
		alpha := sinw0 / (2 * b.q)
		b0 = 1 + alpha*A
		b1 = -2 * cosw0
		b2 = 1 - alpha*A
		a0 = 1 + alpha/A
		a1 = -2 * cosw0
		a2 = 1 - alpha/A
	case HighShelf:
		alpha := sinw0 / 2 * math.Sqrt2
		twoSqrtAAlpha := 2 * math.Sqrt(A) * alpha
		b0 = A * ((A + 1) + (A-1)*cosw0 + twoSqrtAAlpha)
		b1 = -2 * A * ((A - 1) + (A+1)*cosw0)
		b2 = A * ((A + 1) + (A-1)*cosw0 - twoSqrtAAlpha)
		a0 = (A + 1) - (A-1)*cosw0 + twoSqrtAAlpha
		a1 = 2 * ((A - 1) - (A+1)*cosw0)
		a2 = (A + 1) - (A-1)*cosw0 - twoSqrtAAlpha
	}

	b.b0 = b0 / a0
	b.b1 = b1 / a0
	b.b2 = b2 / a0
	b.a1 = a1 / a0
	b.a2 = a2 / a0
}

func (b *Biquad) Process(samples []float64) {
	for i, x := range samples {
		y := b.b0*x + b.b1*b.x1 + b.b2*b.x2 - b.a1*b.y1 - b.a2*b.y2
		b.x2 = b.x1
		b.x1 = x
		b.y2 = b.y1
		b.y1 = y
		samples[i] = y
	}
}
