package ringlink

// ScheduledVoiceMsg is the wire shape of scheduler.ScheduledVoice carried
// over a Cmd.ScheduleVoice message (spec.md §6). It is intentionally its
// own type rather than an alias of the scheduler's internal struct: the
// ring is a transport boundary, and RawEvent is opaque on this side —
// the control side is the only thing that needs to interpret it.
type ScheduledVoiceMsg struct {
	PlaybackID   string
	StartFrame   int64
	GateEndFrame int64
	EndFrame     int64
	RawEvent     any
}

// SampleRequestMsg is the wire shape of sample.SampleRequest (spec.md §3
// "Sample identity"). Equality is by all four fields, same as the
// control-side SampleRequest it mirrors.
type SampleRequestMsg struct {
	Bank  string
	Sound string
	Index int
	Note  string
}

// CmdKind tags which variant a Cmd carries.
type CmdKind int

const (
	CmdScheduleVoice CmdKind = iota
	CmdSampleComplete
	CmdSampleChunk
	CmdSampleNotFound
)

// Cmd is a control→audio message (spec.md §6). Only the field(s) for
// Kind are populated; the rest are zero.
type Cmd struct {
	Kind       CmdKind
	PlaybackID string

	// CmdScheduleVoice
	Voice ScheduledVoiceMsg

	// CmdSampleComplete / CmdSampleChunk / CmdSampleNotFound
	Request    SampleRequestMsg
	Note       string
	HasNote    bool
	PitchHz    float64
	SampleRate int
	PCM        []float32

	// CmdSampleChunk only
	ChunkOffset int
	TotalSize   int
	IsLastChunk bool
}

// FeedbackKind tags which variant a Feedback carries.
type FeedbackKind int

const (
	FeedbackUpdateCursorFrame FeedbackKind = iota
	FeedbackRequestSample
)

// Feedback is an audio→control message (spec.md §6).
type Feedback struct {
	Kind       FeedbackKind
	PlaybackID string

	// FeedbackUpdateCursorFrame
	Frame int64

	// FeedbackRequestSample
	Request SampleRequestMsg
}
