package orbit

import "math"

const (
	numCombs       = 8
	numAllpass     = 4
	rightDecorrelationSamples = 23
	allpassCoef    = 0.5
	preDelayMs     = 8
	reverbAttenuation = 0.25
)

// combBaseDelays are the teacher's four comb delays (audio_chip.go
// COMB_DELAY_1..4, tuned for 44100 Hz; all prime except 1687 = 7*241)
// extended to eight with four more primes in the same range, avoiding
// small-integer ratios that would cause metallic resonance.
var combBaseDelays = [numCombs]int{1687, 1601, 2053, 2251, 2081, 2269, 2311, 2399}
var combDecays = [numCombs]float64{0.97, 0.95, 0.93, 0.91, 0.96, 0.94, 0.92, 0.90}

// allpassBaseDelays are the teacher's two allpass delays
// (ALLPASS_DELAY_1/2) extended to four with two more short, mutually
// prime lengths for extra diffusion.
var allpassBaseDelays = [numAllpass]int{389, 307, 233, 179}

type combState struct {
	buf   []float64
	pos   int
	decay float64
}

func (c *combState) process(input float64) float64 {
	out := c.buf[c.pos]
	c.buf[c.pos] = input + out*c.decay
	c.pos++
	if c.pos >= len(c.buf) {
		c.pos = 0
	}
	return out
}

type allpassState struct {
	buf []float64
	pos int
}

func (a *allpassState) process(input float64) float64 {
	delayed := a.buf[a.pos]
	a.buf[a.pos] = input + delayed*allpassCoef
	out := delayed - input
	a.pos++
	if a.pos >= len(a.buf) {
		a.pos = 0
	}
	return out
}

// Reverb is a Schroeder/Freeverb-style reverberator: a shared pre-delay
// feeding numCombs parallel comb filters per channel (the right channel's
// lines decorrelated by rightDecorrelationSamples) into numAllpass series
// allpass stages per channel (spec.md §4.7(3)), generalized from the
// teacher's 4-comb/2-allpass mono applyReverb (audio_chip.go) run as two
// independent, decorrelated stereo channels.
type Reverb struct {
	combL    [numCombs]combState
	combR    [numCombs]combState
	allpassL [numAllpass]allpassState
	allpassR [numAllpass]allpassState

	preDelayL, preDelayR []float64
	preDelayPos          int

	dampState [2]float64

	sampleRate int
}

// NewReverb allocates a reverb sized for sampleRate, scaling the
// teacher's 44100 Hz-tuned delay lengths proportionally.
func NewReverb(sampleRate int) *Reverb {
	scale := float64(sampleRate) / 44100.0
	r := &Reverb{sampleRate: sampleRate}
	for i := 0; i < numCombs; i++ {
		ln := int(float64(combBaseDelays[i]) * scale)
		if ln < 1 {
			ln = 1
		}
		r.combL[i] = combState{buf: make([]float64, ln), decay: combDecays[i]}
		rln := ln + int(float64(rightDecorrelationSamples)*scale)
		r.combR[i] = combState{buf: make([]float64, rln), decay: combDecays[i]}
	}
	for i := 0; i < numAllpass; i++ {
		ln := int(float64(allpassBaseDelays[i]) * scale)
		if ln < 1 {
			ln = 1
		}
		r.allpassL[i] = allpassState{buf: make([]float64, ln)}
		r.allpassR[i] = allpassState{buf: make([]float64, ln)}
	}
	preLen := int(float64(sampleRate) * preDelayMs / 1000)
	if preLen < 1 {
		preLen = 1
	}
	r.preDelayL = make([]float64, preLen)
	r.preDelayR = make([]float64, preLen)
	return r
}

// Process runs the reverb over mixL/mixR in place. size in [0,1] sets
// comb feedback via feedback ≈ size·0.28+0.7 (spec.md §4.7(3)); room in
// [0,1] sets high-frequency damping applied before the comb bank.
func (r *Reverb) Process(mixL, mixR []float64, room, size float64) {
	feedback := clamp01(size)*0.28 + 0.7
	damp := clamp01(room)
	for i := range mixL {
		inL := r.dampOne(mixL[i], damp, 0)
		inR := r.dampOne(mixR[i], damp, 1)

		delayedL := r.preDelayL[r.preDelayPos]
		delayedR := r.preDelayR[r.preDelayPos]
		r.preDelayL[r.preDelayPos] = inL
		r.preDelayR[r.preDelayPos] = inR
		r.preDelayPos++
		if r.preDelayPos >= len(r.preDelayL) {
			r.preDelayPos = 0
		}

		var outL, outR float64
		for c := range r.combL {
			r.combL[c].decay = feedback
			r.combR[c].decay = feedback
			outL += r.combL[c].process(delayedL)
			outR += r.combR[c].process(delayedR)
		}
		for a := range r.allpassL {
			outL = r.allpassL[a].process(outL)
			outR = r.allpassR[a].process(outR)
		}

		mixL[i] = sanitizeReverb(outL * reverbAttenuation)
		mixR[i] = sanitizeReverb(outR * reverbAttenuation)
	}
}

// dampOne applies a light one-pole low-pass per channel ahead of the
// comb bank, the "damping derived from roomLp" spec.md §4.7(3) calls for.
func (r *Reverb) dampOne(x, amount float64, channel int) float64 {
	a := 1 - amount*0.5
	r.dampState[channel] = r.dampState[channel] + a*(x-r.dampState[channel])
	return r.dampState[channel]
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

func sanitizeReverb(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0
	}
	return x
}
