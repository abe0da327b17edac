// Package voice decodes pattern events into the parameters a scheduled
// voice needs; the Voice type the scheduler renders lives in package
// scheduler (spec.md §3 "Voice", §4.2 "Event Decoder").
package voice

// Kind distinguishes a synth voice (oscillator-driven) from a sample
// voice (PCM playback), chosen by presence of "sound" vs. "note" in the
// event data (spec.md §4.2).
type Kind int

const (
	KindSynth Kind = iota
	KindSample
)

// Spec is the decoded, timing-independent description of one voice,
// produced by Decode from a pattern event's data. The control loop combines
// a Spec with the frame timing it derives from pattern query results to
// build a ScheduledVoice.
type Spec struct {
	Kind Kind

	// Synth fields.
	FreqHz float64
	Wave   string // s|wave|sound, oscillator name; default "sine"

	// Sample fields.
	SoundName string // s|wave|sound, sample name
	Bank      string
	Index     int // n
	Speed     float64

	Gain  float64
	Pan   float64
	Orbit int

	AttackSeconds  float64
	DecaySeconds   float64
	Sustain        float64
	ReleaseSeconds float64

	Cutoff    float64
	HCutoff   float64
	Resonance float64

	DelayAmount   float64
	DelayTime     float64
	DelayFeedback float64

	Room     float64
	RoomSize float64

	VibAmount float64 // vib
	VibRate   float64 // vibmod

	Distort float64 // distort|shape
	Crush   float64 // crush
	Coarse  float64 // coarse, sample-rate-reduce factor

	Unit string // unit ∈ {"c"}
}
