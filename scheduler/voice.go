package scheduler

import (
	"math"

	"github.com/strataforge/strata-engine/dsp"
	"github.com/strataforge/strata-engine/orbit"
	"github.com/strataforge/strata-engine/sample"
	"github.com/strataforge/strata-engine/voice"
)

// sourceKind distinguishes a synth voice from a sample voice, mirroring
// voice.Kind but kept private to this package since a Voice also carries
// its own mutable playback state (spec.md §3 "Voice.source").
type sourceKind int

const (
	sourceSynth sourceKind = iota
	sourceSample
)

var waveByName = map[string]dsp.Wave{
	"sine":       dsp.WaveSine,
	"saw":        dsp.WaveSaw,
	"square":     dsp.WaveSquare,
	"triangle":   dsp.WaveTriangle,
	"supersaw":   dsp.WaveSupersaw,
	"white":      dsp.WaveWhiteNoise,
	"whitenoise": dsp.WaveWhiteNoise,
	"pink":       dsp.WavePinkNoise,
	"pinknoise":  dsp.WavePinkNoise,
	"brown":      dsp.WaveBrownNoise,
	"brownnoise": dsp.WaveBrownNoise,
	"dust":       dsp.WaveDust,
	"crackle":    dsp.WaveDust,
}

// minPlayRate/maxPlayRate bound a sample voice's pitch ratio (spec.md
// §4.4 "rate... clamped to [1/8, 8]").
const (
	minPlayRate = 1.0 / 8
	maxPlayRate = 8.0
)

// envelopeThreshold is the "inaudible" floor (spec.md §4.4(5)): a voice
// stays alive while its level is above it or while its nominal endFrame
// hasn't arrived yet, and dies once both are false.
const envelopeThreshold = 1.0 / 32768.0

// Voice is the render-thread-owned, mutable playback state of one
// scheduled note (spec.md §3 "Voice"). It is constructed on promotion
// from Scheduler.pending to Scheduler.active and mutated only by render.
type Voice struct {
	PlaybackID string
	Orbit      int

	startFrame       int64
	gateEndFrame     int64
	endFrame         int64
	sampleRate       int
	maxReleaseFrames int64

	gain float64
	pan  float64

	env envelope

	cutoff, hcutoff, resonance float64
	lowpass                    *dsp.SVFilter
	highpass                   *dsp.SVFilter
	distort                    float64
	crush                      float64
	coarse                     float64
	reducer                    *dsp.SampleRateReducer

	delayAmount, delayTime, delayFeedback float64
	room, roomSize                        float64

	vibRate, vibDepth float64
	vibPhase          float64

	kind sourceKind

	wave           dsp.Wave
	freqHz         float64
	phase          float64
	noise          *dsp.NoiseState
	supersawPhases []float64

	pcm           []float32
	pcmSampleRate int
	playRate      float64
	playhead      float64
}

func newSynthVoice(sv ScheduledVoice, spec voice.Spec, sampleRate int, maxReleaseFrames int64) *Voice {
	v := newVoiceCommon(sv, spec, sampleRate, maxReleaseFrames)
	v.kind = sourceSynth
	v.freqHz = spec.FreqHz
	w, ok := waveByName[spec.Wave]
	if !ok {
		w = dsp.WaveSine
	}
	v.wave = w
	switch w {
	case dsp.WaveWhiteNoise, dsp.WavePinkNoise, dsp.WaveBrownNoise, dsp.WaveDust:
		v.noise = dsp.NewNoiseState(uint32(sv.StartFrame) ^ 0x9e3779b9)
	case dsp.WaveSupersaw:
		v.supersawPhases = make([]float64, 5)
	}
	return v
}

func newSampleVoice(sv ScheduledVoice, spec voice.Spec, loaded sample.LoadedSample, sampleRate int, maxReleaseFrames int64) *Voice {
	v := newVoiceCommon(sv, spec, sampleRate, maxReleaseFrames)
	v.kind = sourceSample
	v.pcm = loaded.PCM
	v.pcmSampleRate = loaded.SampleRate
	if v.pcmSampleRate <= 0 {
		v.pcmSampleRate = sampleRate
	}
	rate := (float64(v.pcmSampleRate) / float64(sampleRate)) * spec.Speed
	v.playRate = clampFloat(rate, minPlayRate, maxPlayRate)
	return v
}

func newVoiceCommon(sv ScheduledVoice, spec voice.Spec, sampleRate int, maxReleaseFrames int64) *Voice {
	release := int64(spec.ReleaseSeconds * float64(sampleRate))
	if release > maxReleaseFrames {
		release = maxReleaseFrames
	}
	return &Voice{
		PlaybackID:       sv.PlaybackID,
		Orbit:            spec.Orbit,
		startFrame:       sv.StartFrame,
		gateEndFrame:     sv.GateEndFrame,
		endFrame:         sv.EndFrame,
		sampleRate:       sampleRate,
		maxReleaseFrames: maxReleaseFrames,
		gain:             spec.Gain,
		pan:              spec.Pan,
		env: newEnvelope(
			int64(spec.AttackSeconds*float64(sampleRate)),
			int64(spec.DecaySeconds*float64(sampleRate)),
			release,
			spec.Sustain,
		),
		cutoff:        spec.Cutoff,
		hcutoff:       spec.HCutoff,
		resonance:     spec.Resonance,
		lowpass:       dsp.NewSVFilter(),
		highpass:      dsp.NewSVFilter(),
		distort:       spec.Distort,
		crush:         spec.Crush,
		coarse:        spec.Coarse,
		reducer:       dsp.NewSampleRateReducer(),
		delayAmount:   spec.DelayAmount,
		delayTime:     spec.DelayTime,
		delayFeedback: spec.DelayFeedback,
		room:          spec.Room,
		roomSize:      spec.RoomSize,
		vibRate:       spec.VibRate,
		vibDepth:      spec.VibAmount,
	}
}

// render advances the voice by one block (spec.md §4.4). blockStart is
// the absolute frame cursor at the start of this block; scratch is a
// shared scratchpad at least blockFrames long, owned by the caller and
// indexed block-locally (spec.md §4.4(1)-(2)).
func (v *Voice) render(blockStart int64, blockFrames int, scratch []float64, target *orbit.Orbit) bool {
	offset := v.startFrame - blockStart
	if offset < 0 {
		offset = 0
	}
	if offset >= int64(blockFrames) {
		return true // not yet started within this block
	}
	length := int64(blockFrames) - offset
	if remaining := v.endFrame - (blockStart + offset); remaining < length {
		length = remaining
	}
	if length <= 0 {
		return v.env.alive()
	}

	buf := scratch[offset : offset+length]
	v.fillSource(buf)
	v.applyFilters(buf)
	return v.mixToOrbit(buf, blockStart, offset, target)
}

func (v *Voice) fillSource(buf []float64) {
	switch v.kind {
	case sourceSynth:
		osc := dsp.Oscillator{Kind: v.wave}
		osc.Fill(buf, &v.phase, v.freqHz, v.sampleRate, &v.vibPhase, v.vibRate, v.vibDepth, v.noise, v.supersawPhases)
	case sourceSample:
		v.fillFromPCM(buf)
	}
}

// fillFromPCM resamples interleaved stereo PCM via linear interpolation
// at v.playRate, taking only the left channel (spec.md §4.4 "Sample:
// resample via rate-derived playhead with linear interpolation").
func (v *Voice) fillFromPCM(buf []float64) {
	frames := len(v.pcm) / 2
	for i := range buf {
		if frames == 0 || v.playhead >= float64(frames-1) {
			buf[i] = 0
			continue
		}
		idx0 := int(v.playhead)
		frac := v.playhead - float64(idx0)
		l0, l1 := v.pcm[idx0*2], v.pcm[(idx0+1)*2]
		buf[i] = float64(l0) + (float64(l1)-float64(l0))*frac
		v.playhead += v.playRate
	}
}

func (v *Voice) applyFilters(buf []float64) {
	if v.cutoff > 0 {
		v.lowpass.Process(buf, v.cutoff, v.resonance, dsp.SVFLowPass)
	}
	if v.hcutoff > 0 {
		v.highpass.Process(buf, v.hcutoff, v.resonance, dsp.SVFHighPass)
	}
	if v.distort > 0 {
		dsp.Distort(buf, v.distort)
	}
	if v.crush > 0 {
		dsp.Bitcrush(buf, v.crush)
	}
	if v.coarse > 1 {
		v.reducer.Process(buf, v.coarse)
	}
}

// mixToOrbit applies the per-sample envelope and equal-power pan, adding
// the wet signal into target's dry mix (and delay send, if enabled) at
// its block-local position offset+i (spec.md §4.4(4)).
func (v *Voice) mixToOrbit(buf []float64, blockStart int64, offset int64, target *orbit.Orbit) bool {
	angle := (v.pan + 1) * math.Pi / 4
	gl := math.Cos(angle) * v.gain
	gr := math.Sin(angle) * v.gain

	alive := false
	for i, x := range buf {
		frame := blockStart + offset + int64(i)
		level := v.env.next(frame < v.gateEndFrame)
		wet := x * level
		idx := int(offset) + i
		target.MixL[idx] += wet * gl
		target.MixR[idx] += wet * gr
		if v.delayAmount > 0 {
			target.SendL[idx] += wet * gl * v.delayAmount
			target.SendR[idx] += wet * gr * v.delayAmount
		}
		if level > envelopeThreshold || frame < v.endFrame {
			alive = true
		}
	}
	if v.room > 0 {
		target.Room = v.room
		target.RoomSize = v.roomSize
	}
	if v.delayAmount > 0 {
		target.DelayTime = v.delayTime
		target.DelayFeedback = v.delayFeedback
		target.DelayAmount = v.delayAmount
	}
	return alive
}

func clampFloat(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
