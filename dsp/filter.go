package dsp

import "math"

// OnePole is a single-pole low-pass or high-pass filter, the simplest
// stage in the voice filter chain (spec.md §4.6).
type OnePole struct {
	state float64
	high  bool
}

// NewOnePoleLP returns a one-pole low-pass filter.
func NewOnePoleLP() *OnePole { return &OnePole{} }

// NewOnePoleHP returns a one-pole high-pass filter (low-pass state
// subtracted from the input).
func NewOnePoleHP() *OnePole { return &OnePole{high: true} }

// Process filters buf in place. cutoff is in [0,1] of Nyquist.
func (f *OnePole) Process(buf []float64, cutoff float64) {
	a := clamp01(cutoff)
	for i, x := range buf {
		f.state = sanitize(f.state + a*(x-f.state))
		if f.high {
			buf[i] = x - f.state
		} else {
			buf[i] = f.state
		}
	}
}

// SVFilter is a Chamberlin state-variable filter producing low/high/
// band/notch outputs from shared low-pass/band-pass state, the same
// topology as the teacher's inline chip-wide filter in GenerateSample
// (audio_chip.go), generalized into a reusable per-voice instance.
type SVFilter struct {
	low  float64
	band float64
}

// NewSVFilter returns a zeroed state-variable filter.
func NewSVFilter() *SVFilter { return &SVFilter{} }

// SVFMode selects which combination the filter outputs.
type SVFMode int

const (
	SVFLowPass SVFMode = iota
	SVFHighPass
	SVFBandPass
	SVFNotch
)

// Process filters buf in place. cutoff and resonance are both in [0,1];
// cutoff maps to the Chamberlin "f" coefficient, resonance to damping.
func (f *SVFilter) Process(buf []float64, cutoff, resonance float64, mode SVFMode) {
	cut := 2 * math.Sin(math.Pi*clamp01(cutoff)/2)
	damp := 2 * (1 - clamp01(resonance))
	if damp < 0.02 {
		damp = 0.02
	}
	for i, x := range buf {
		low := f.low + cut*f.band
		high := x - low - damp*f.band
		band := cut*high + f.band
		f.low = sanitize(low)
		f.band = sanitize(band)

		switch mode {
		case SVFLowPass:
			buf[i] = f.low
		case SVFHighPass:
			buf[i] = high
		case SVFBandPass:
			buf[i] = f.band
		case SVFNotch:
			buf[i] = high + f.low
		}
	}
}

// Formant approximates a vowel-like resonance peak by running three
// band-pass SVF taps in parallel at fixed formant-frequency ratios
// around a shared center frequency, summed.
type Formant struct {
	taps [3]SVFilter
}

var formantRatios = [3]float64{1.0, 2.1, 3.3}

// NewFormant returns a zeroed formant filter.
func NewFormant() *Formant { return &Formant{} }

// Process filters buf in place; centerCutoff and resonance are both in
// [0,1] of Nyquist.
func (f *Formant) Process(buf []float64, centerCutoff, resonance float64) {
	out := make([]float64, len(buf))
	tmp := make([]float64, len(buf))
	for t := range f.taps {
		copy(tmp, buf)
		f.taps[t].Process(tmp, clamp01(centerCutoff*formantRatios[t]), resonance, SVFBandPass)
		for i := range out {
			out[i] += tmp[i] / 3
		}
	}
	copy(buf, out)
}

// Bitcrush quantizes each sample to a reduced bit depth (spec.md §4.6
// "crush").
func Bitcrush(buf []float64, bits float64) {
	if bits <= 0 || bits >= 24 {
		return
	}
	levels := math.Pow(2, bits)
	for i, x := range buf {
		buf[i] = math.Round(x*levels) / levels
	}
}

// SampleRateReducer holds the last output between sparsely-held samples
// (spec.md §4.6 "coarse").
type SampleRateReducer struct {
	held    float64
	counter int
}

// NewSampleRateReducer returns a zeroed reducer.
func NewSampleRateReducer() *SampleRateReducer { return &SampleRateReducer{} }

// Process holds every factor-th input sample for factor-1 subsequent
// samples. factor < 2 is a no-op.
func (r *SampleRateReducer) Process(buf []float64, factor float64) {
	step := int(factor)
	if step < 2 {
		return
	}
	for i, x := range buf {
		if r.counter == 0 {
			r.held = x
		}
		buf[i] = r.held
		r.counter = (r.counter + 1) % step
	}
}

// Tremolo amplitude-modulates buf by an LFO: 1 - depth*(1+sin(phase))/2.
type Tremolo struct {
	phase float64
}

// NewTremolo returns a zeroed tremolo LFO.
func NewTremolo() *Tremolo { return &Tremolo{} }

// Process applies tremolo in place. rate is in Hz, depth in [0,1].
func (tr *Tremolo) Process(buf []float64, rate, depth float64, sampleRate int) {
	if sampleRate <= 0 {
		return
	}
	inc := 2 * math.Pi * rate / float64(sampleRate)
	d := clamp01(depth)
	for i, x := range buf {
		gain := 1 - d*(1+FastSin(tr.phase))/2
		buf[i] = x * gain
		tr.phase += inc
		if tr.phase >= 2*math.Pi {
			tr.phase -= 2 * math.Pi
		}
	}
}

// Distort applies tanh soft-clipping distortion, reusing the teacher's
// FastTanh lookup table. amount in [0,1] scales pre-gain.
func Distort(buf []float64, amount float64) {
	if amount <= 0 {
		return
	}
	drive := 1 + amount*10
	for i, x := range buf {
		buf[i] = FastTanh(float64(x*drive)) / FastTanh(float64(drive))
	}
}

// Phaser cascades allpass stages with an LFO-modulated cutoff, grounded
// on the teacher's reverb allpass shape (ALLPASS_COEF) in audio_chip.go,
// generalized from a fixed diffusion stage into a swept modulation effect.
type Phaser struct {
	stages   [4]float64
	lfoPhase float64
}

// NewPhaser returns a zeroed 4-stage phaser.
func NewPhaser() *Phaser { return &Phaser{} }

// Process applies the phaser in place. rate is the LFO sweep rate in Hz,
// depth in [0,1] controls sweep width around a fixed center.
func (p *Phaser) Process(buf []float64, rate, depth float64, sampleRate int) {
	if sampleRate <= 0 {
		return
	}
	inc := 2 * math.Pi * rate / float64(sampleRate)
	for i, x := range buf {
		coef := 0.5 + 0.4*clamp01(depth)*FastSin(p.lfoPhase)
		sample := x
		for s := range p.stages {
			delayed := p.stages[s]
			p.stages[s] = sanitize(sample + delayed*coef)
			sample = delayed - coef*sample
		}
		buf[i] = sample
		p.lfoPhase += inc
		if p.lfoPhase >= 2*math.Pi {
			p.lfoPhase -= 2 * math.Pi
		}
	}
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

// sanitize flushes denormals and NaN/Inf from filter state so corrupted
// input can never poison subsequent samples (spec.md §7 "filters MUST
// either flush denormals or sanitize input on update").
func sanitize(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0
	}
	if x > -1e-30 && x < 1e-30 {
		return 0
	}
	return x
}
