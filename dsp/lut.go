// Package dsp implements the stateless oscillator fillers and per-instance
// filter stages of the render pipeline (spec.md §4.5, §4.6).
package dsp

import "math"

// Lookup table sizes, carried over from the teacher's audio_lut.go at the
// same resolution (8192-entry sine, 4096-entry tanh).
const (
	sinLUTSize  = 8192
	sinLUTMask  = sinLUTSize - 1
	tanhLUTSize = 4096
	tanhLUTMin  = -4.0
	tanhLUTMax  = 4.0
)

const (
	sinLUTScale  = float64(sinLUTSize) / (2 * math.Pi)
	tanhLUTScale = float64(tanhLUTSize-1) / (tanhLUTMax - tanhLUTMin)
)

var sinLUT [sinLUTSize]float64
var tanhLUT [tanhLUTSize]float64

func init() {
	for i := 0; i < sinLUTSize; i++ {
		phase := float64(i) * 2 * math.Pi / float64(sinLUTSize)
		sinLUT[i] = math.Sin(phase)
	}
	for i := 0; i < tanhLUTSize; i++ {
		x := tanhLUTMin + float64(i)*(tanhLUTMax-tanhLUTMin)/float64(tanhLUTSize-1)
		tanhLUT[i] = math.Tanh(x)
	}
}

// FastSin returns sin(phase) via the lookup table with linear
// interpolation. phase is wrapped to [0, 2π) internally.
func FastSin(phase float64) float64 {
	twoPi := 2 * math.Pi
	if phase < 0 || phase >= twoPi {
		phase -= twoPi * math.Floor(phase/twoPi)
	}
	indexF := phase * sinLUTScale
	index := int(indexF)
	frac := indexF - float64(index)
	index &= sinLUTMask
	next := (index + 1) & sinLUTMask
	return sinLUT[index] + frac*(sinLUT[next]-sinLUT[index])
}

// FastTanh returns tanh(x) via the lookup table with linear interpolation,
// clamped to ±1 outside [-4, 4] (spec.md §4.8 "closing...limiting").
func FastTanh(x float64) float64 {
	if x <= tanhLUTMin {
		return -1
	}
	if x >= tanhLUTMax {
		return 1
	}
	indexF := (x - tanhLUTMin) * tanhLUTScale
	index := int(indexF)
	frac := indexF - float64(index)
	if index < 0 {
		return tanhLUT[0]
	}
	if index >= tanhLUTSize-1 {
		return tanhLUT[tanhLUTSize-1]
	}
	return tanhLUT[index] + frac*(tanhLUT[index+1]-tanhLUT[index])
}

// PolyBLEP applies polynomial band-limited step correction at a
// discontinuity, used by the anti-aliased saw/square oscillators. t is the
// normalized phase position [0,1); dt is the phase increment per sample.
func PolyBLEP(t, dt float64) float64 {
	if dt <= 0 {
		return 0
	}
	if t < dt {
		t /= dt
		return t + t - t*t - 1.0
	} else if t > 1.0-dt {
		t = (t - 1.0) / dt
		return t*t + t + t + 1.0
	}
	return 0.0
}
