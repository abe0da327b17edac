package dsp

import "math"

// Wave names the oscillator id chosen by a voice's "s|wave|sound" field
// (spec.md §4.2/§4.5).
type Wave int

const (
	WaveSine Wave = iota
	WaveSaw
	WaveSquare
	WaveTriangle
	WaveSupersaw
	WaveWhiteNoise
	WavePinkNoise
	WaveBrownNoise
	WaveDust
)

// supersawVoices is the number of detuned saw oscillators layered to make
// WaveSupersaw, a fixed unison count rather than a per-voice parameter.
const supersawVoices = 5

// supersawDetune holds the per-voice detune ratios, symmetric around the
// fundamental, in the classic "center plus two detuned pairs" shape.
var supersawDetune = [supersawVoices]float64{-0.11, -0.05, 0, 0.05, 0.11}

// NoiseState is the per-voice mutable state the noise-family oscillators
// need between samples (LFSR register, pink-noise pole bank, brown-noise
// integrator, dust hold counter). It is owned by the voice, not the
// Oscillator, keeping Oscillator itself a stateless value type matching
// spec.md §4.5's filler-function contract.
type NoiseState struct {
	lfsr       uint32
	pinkState  [7]float64
	brownLast  float64
	dustRemain int
}

// NewNoiseState returns a NoiseState seeded from seed, analogous to the
// teacher's fixed NOISE_LFSR_SEED but per-voice rather than global so
// concurrently rendered voices never share noise state.
func NewNoiseState(seed uint32) *NoiseState {
	if seed == 0 {
		seed = noiseLFSRSeed
	}
	return &NoiseState{lfsr: seed & noiseLFSRMask}
}

const (
	noiseLFSRSeed = 0x7FFFFF
	noiseLFSRMask = 0x7FFFFF
	noiseLFSRBits = 23
)

func (n *NoiseState) nextWhite() float64 {
	// 23-bit Fibonacci LFSR, same tap positions as the teacher's noise
	// generator (audio_chip.go), but owned per-voice instead of per-chip.
	bit := ((n.lfsr >> 22) ^ (n.lfsr >> 17)) & 1
	n.lfsr = ((n.lfsr << 1) | bit) & noiseLFSRMask
	// Map the low 16 bits to [-1, 1).
	return float64(int32(n.lfsr&0xFFFF)-0x8000) / 0x8000
}

// Oscillator is a stateless waveform generator: all mutable per-voice
// state (phase, vibrato phase, noise registers) is threaded in by the
// caller, matching spec.md §4.5.
type Oscillator struct {
	Kind Wave
}

// Fill writes len(buf) samples into buf, advancing *phase by
// phaseInc = 2π·freq/sampleRate per sample (spec.md §4.4 Source fill),
// optionally modulated by a vibrato LFO: 1 + sin(vibPhase)·vibDepth,
// advancing *vibPhase by 2π·vibRate/sampleRate. noise may be nil for
// non-noise waveforms; supersawPhases must have len == 5 for
// WaveSupersaw and is otherwise ignored.
func (o Oscillator) Fill(buf []float64, phase *float64, freq float64, sampleRate int, vibPhase *float64, vibRate, vibDepth float64, noise *NoiseState, supersawPhases []float64) {
	if sampleRate <= 0 {
		return
	}
	twoPi := 2 * math.Pi
	vibInc := twoPi * vibRate / float64(sampleRate)

	for i := range buf {
		mod := 1.0
		if vibDepth != 0 {
			mod = 1 + FastSin(*vibPhase)*vibDepth
			*vibPhase += vibInc
			if *vibPhase >= twoPi {
				*vibPhase -= twoPi
			}
		}
		freqMod := freq * mod
		phaseInc := twoPi * freqMod / float64(sampleRate)

		var sample float64
		switch o.Kind {
		case WaveSine:
			sample = FastSin(*phase)
		case WaveSaw:
			t := *phase / twoPi
			dt := phaseInc / twoPi
			sample = 2*t - 1 - PolyBLEP(t, dt)
		case WaveSquare:
			t := *phase / twoPi
			dt := phaseInc / twoPi
			sample = 1.0
			if t >= 0.5 {
				sample = -1.0
			}
			sample += PolyBLEP(t, dt)
			sample -= PolyBLEP(math.Mod(t+0.5, 1.0), dt)
		case WaveTriangle:
			t := *phase / twoPi
			sample = 4*math.Abs(t-0.5) - 1
		case WaveSupersaw:
			sample = o.fillSupersaw(supersawPhases, freqMod, phaseInc, sampleRate)
		case WaveWhiteNoise:
			if noise != nil {
				sample = noise.nextWhite()
			}
		case WavePinkNoise:
			if noise != nil {
				sample = noise.nextPink()
			}
		case WaveBrownNoise:
			if noise != nil {
				sample = noise.nextBrown()
			}
		case WaveDust:
			if noise != nil {
				sample = noise.nextDust(freqMod, sampleRate)
			}
		}
		buf[i] = sample

		*phase += phaseInc
		if *phase >= twoPi {
			*phase -= twoPi
		} else if *phase < 0 {
			*phase += twoPi
		}
	}
}

// fillSupersaw advances supersawPhases in place and returns the mixed,
// normalized sample for one frame. Grounded on the teacher's
// polyBLEP32-corrected saw (audio_lut.go), layered supersawVoices times
// at fixed detune ratios.
func (o Oscillator) fillSupersaw(phases []float64, baseFreq, baseInc float64, sampleRate int) float64 {
	if len(phases) < supersawVoices {
		return 0
	}
	twoPi := 2 * math.Pi
	var mix float64
	for v := 0; v < supersawVoices; v++ {
		inc := baseInc * math.Pow(2, supersawDetune[v]/12)
		t := phases[v] / twoPi
		dt := inc / twoPi
		mix += 2*t - 1 - PolyBLEP(t, dt)
		phases[v] += inc
		if phases[v] >= twoPi {
			phases[v] -= twoPi
		}
	}
	return mix / supersawVoices
}

// nextPink applies the Paul Kellet 7-pole approximation of pink noise
// (-3dB/octave), a standard filter bank driven by the same white-noise
// source as WaveWhiteNoise.
func (n *NoiseState) nextPink() float64 {
	white := n.nextWhite()
	n.pinkState[0] = 0.99886*n.pinkState[0] + white*0.0555179
	n.pinkState[1] = 0.99332*n.pinkState[1] + white*0.0750759
	n.pinkState[2] = 0.96900*n.pinkState[2] + white*0.1538520
	n.pinkState[3] = 0.86650*n.pinkState[3] + white*0.3104856
	n.pinkState[4] = 0.55000*n.pinkState[4] + white*0.5329522
	n.pinkState[5] = -0.7616*n.pinkState[5] - white*0.0168980
	sum := n.pinkState[0] + n.pinkState[1] + n.pinkState[2] + n.pinkState[3] +
		n.pinkState[4] + n.pinkState[5] + n.pinkState[6] + white*0.5362
	n.pinkState[6] = white * 0.115926
	return sum * 0.11
}

// nextBrown integrates white noise with a leak to keep the random walk
// bounded, the standard -6dB/octave brown (red) noise approximation.
func (n *NoiseState) nextBrown() float64 {
	white := n.nextWhite()
	n.brownLast = (n.brownLast + 0.02*white) / 1.02
	return n.brownLast * 3.5
}

// nextDust emits sparse unit impulses, zero otherwise — a Poisson-ish
// click generator. Each impulse is followed by a silent hold of a quarter
// of the mean gap, so the average rate is about 0.8*freq events per second.
func (n *NoiseState) nextDust(freq float64, sampleRate int) float64 {
	if n.dustRemain > 0 {
		n.dustRemain--
		return 0
	}
	density := freq / float64(sampleRate)
	if density <= 0 {
		return 0
	}
	if n.nextWhite()*0.5+0.5 < density {
		n.dustRemain = int(1/density) / 4
		return 1
	}
	return 0
}
