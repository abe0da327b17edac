// Package orbit implements the per-orbit effect buses (spec.md §4.7):
// a stereo delay line followed by a Schroeder/Freeverb-style reverb,
// mixed into the orbit's contribution to the master stereo output.
package orbit

import "math"

// MinDelaySeconds is the delay line's minimum time, chosen low enough to
// permit flanger-range effects (spec.md §9 Open Question (c)).
const MinDelaySeconds = 0.0001

// MaxDelaySeconds bounds the circular buffer's allocated length.
const MaxDelaySeconds = 2.0

// DelayLine is a stereo circular buffer with fractional, linearly
// interpolated read and a feedback path hard-clipped to ±2.0 to bound
// runaway with feedback > 1 (spec.md §4.7(2)).
type DelayLine struct {
	bufL, bufR []float64
	writePos   int
	sampleRate int
}

// NewDelayLine allocates a delay line sized for sampleRate.
func NewDelayLine(sampleRate int) *DelayLine {
	n := int(MaxDelaySeconds * float64(sampleRate))
	if n < 2 {
		n = 2
	}
	return &DelayLine{bufL: make([]float64, n), bufR: make([]float64, n), sampleRate: sampleRate}
}

// Process reads the delayed signal into mixL/mixR (scaled by amount) and
// writes sendL/sendR plus feedback back into the line (spec.md §4.7(2)).
// delayTime is in seconds.
func (d *DelayLine) Process(sendL, sendR, mixL, mixR []float64, delayTime, feedback, amount float64) {
	n := len(d.bufL)
	if n == 0 || amount <= 0 {
		return
	}
	dt := delayTime
	if dt < MinDelaySeconds {
		dt = MinDelaySeconds
	}
	maxDt := float64(n-1) / float64(d.sampleRate)
	if dt > maxDt {
		dt = maxDt
	}
	delaySamples := dt * float64(d.sampleRate)

	for i := range sendL {
		readPos := float64(d.writePos) - delaySamples
		for readPos < 0 {
			readPos += float64(n)
		}
		idx0 := int(readPos) % n
		idx1 := idx0 - 1
		if idx1 < 0 {
			idx1 = n - 1
		}
		frac := readPos - math.Floor(readPos)

		delayedL := d.bufL[idx0]*(1-frac) + d.bufL[idx1]*frac
		delayedR := d.bufR[idx0]*(1-frac) + d.bufR[idx1]*frac

		mixL[i] += delayedL * amount
		mixR[i] += delayedR * amount

		fbL := clampAbs(sendL[i]+delayedL*feedback, 2.0)
		fbR := clampAbs(sendR[i]+delayedR*feedback, 2.0)
		d.bufL[d.writePos] = fbL
		d.bufR[d.writePos] = fbR

		d.writePos++
		if d.writePos >= n {
			d.writePos = 0
		}
	}
}

func clampAbs(x, bound float64) float64 {
	if x > bound {
		return bound
	}
	if x < -bound {
		return -bound
	}
	return x
}
