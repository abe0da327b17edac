package orbit

// Count is the fixed number of orbit cells (spec.md §3 "Orbit. Index
// 0..15").
const Count = 16

// Orbit holds one effect bus's per-block state: a dry mix buffer voices
// write into directly, a delay-send buffer voices write into when their
// delay amount is non-zero, and the delay line / reverb that consume
// both (spec.md §3 "Orbit", §4.7). Owned exclusively by the audio thread;
// cleared at block start before voice rendering (spec.md §4.8(1)).
type Orbit struct {
	MixL, MixR   []float64
	SendL, SendR []float64

	Delay  *DelayLine
	Reverb *Reverb

	DelayTime     float64
	DelayFeedback float64
	DelayAmount   float64
	Room          float64
	RoomSize      float64
}

// NewOrbit allocates one orbit cell sized for blockFrames at sampleRate.
func NewOrbit(blockFrames, sampleRate int) *Orbit {
	return &Orbit{
		MixL:   make([]float64, blockFrames),
		MixR:   make([]float64, blockFrames),
		SendL:  make([]float64, blockFrames),
		SendR:  make([]float64, blockFrames),
		Delay:  NewDelayLine(sampleRate),
		Reverb: NewReverb(sampleRate),
	}
}

// Clear zeroes the orbit's per-block buffers (spec.md §4.8(1)).
func (o *Orbit) Clear() {
	zero(o.MixL)
	zero(o.MixR)
	zero(o.SendL)
	zero(o.SendR)
}

func zero(buf []float64) {
	for i := range buf {
		buf[i] = 0
	}
}

// RunEffects applies this orbit's delay line and reverb to its mix
// buffers in place (spec.md §4.7 steps 2-3), the per-orbit stage of the
// renderer's per-block effect pass (spec.md §4.8(3)).
func (o *Orbit) RunEffects() {
	if o.DelayAmount > 0 {
		o.Delay.Process(o.SendL, o.SendR, o.MixL, o.MixR, o.DelayTime, o.DelayFeedback, o.DelayAmount)
	}
	if o.Room > 0 {
		o.Reverb.Process(o.MixL, o.MixR, o.Room, o.RoomSize)
	}
}
