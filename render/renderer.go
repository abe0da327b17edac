// Package render implements the per-block render loop (spec.md §4.8),
// lifted from the teacher's per-sample-chip GenerateSample loop
// (clear → generate → filter → effects → limit) to per-block and from 4
// fixed channels to N orbits feeding one master stereo mix.
package render

import (
	"encoding/binary"

	"github.com/strataforge/strata-engine/dsp"
	"github.com/strataforge/strata-engine/orbit"
	"github.com/strataforge/strata-engine/scheduler"
)

// limiterScale is the fixed-point scale applied after the tanh limiter
// (spec.md §4.8(4): "y = tanh(x)·32767").
const limiterScale = 32767.0

// Renderer owns the master mix buffers and drives one block of audio
// through the scheduler and every orbit's effect chain.
type Renderer struct {
	scheduler *scheduler.Scheduler
	orbits    []*orbit.Orbit

	masterL, masterR []float64
	blockFrames      int
}

// New builds a Renderer. orbits must have length orbit.Count and be
// sized for blockFrames at the same sample rate the scheduler uses.
func New(sched *scheduler.Scheduler, orbits []*orbit.Orbit, blockFrames int) *Renderer {
	return &Renderer{
		scheduler:   sched,
		orbits:      orbits,
		masterL:     make([]float64, blockFrames),
		masterR:     make([]float64, blockFrames),
		blockFrames: blockFrames,
	}
}

// RenderBlock fills out (2*blockFrames int16 samples, little-endian
// interleaved L/R) for the block starting at cursorFrame (spec.md
// §4.8(1)-(5)). len(out) must be 4*blockFrames bytes.
func (r *Renderer) RenderBlock(cursorFrame int64, out []byte) {
	zero(r.masterL)
	zero(r.masterR)
	for _, o := range r.orbits {
		o.Clear()
	}

	r.scheduler.Process(cursorFrame, r.orbits)

	for _, o := range r.orbits {
		o.RunEffects()
		for i := 0; i < r.blockFrames; i++ {
			r.masterL[i] += o.MixL[i]
			r.masterR[i] += o.MixR[i]
		}
	}

	for i := 0; i < r.blockFrames; i++ {
		l := clampInt16(dsp.FastTanh(r.masterL[i]) * limiterScale)
		rr := clampInt16(dsp.FastTanh(r.masterR[i]) * limiterScale)
		binary.LittleEndian.PutUint16(out[4*i:], uint16(l))
		binary.LittleEndian.PutUint16(out[4*i+2:], uint16(rr))
	}
}

// BlockFrames reports the number of stereo frames RenderBlock produces.
func (r *Renderer) BlockFrames() int { return r.blockFrames }

func clampInt16(x float64) int16 {
	if x > 32767 {
		return 32767
	}
	if x < -32768 {
		return -32768
	}
	return int16(x)
}

func zero(buf []float64) {
	for i := range buf {
		buf[i] = 0
	}
}
