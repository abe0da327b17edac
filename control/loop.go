// Package control implements the control-side timing loop (spec.md
// §4.10): pattern queries, voice decoding, RingLink Cmd production, and
// SampleStore-backed sample resolution, decoupled from the audio clock.
// Grounded on the teacher's AHXEngine.TickSample "advance by one tick,
// emit side effects" shape, generalized from a fixed 50Hz chiptune tick
// to a configurable interval driving rational-cycle pattern queries
// instead of register pokes.
package control

import (
	"context"
	"log/slog"
	"math"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/strataforge/strata-engine/pattern"
	"github.com/strataforge/strata-engine/rational"
	"github.com/strataforge/strata-engine/ringlink"
	"github.com/strataforge/strata-engine/sample"
	"github.com/strataforge/strata-engine/tones"
	"github.com/strataforge/strata-engine/voice"
)

// defaultTickInterval matches spec.md §4.10(5) "Sleep ~10 ms".
const defaultTickInterval = 10 * time.Millisecond

// sampleChunkFrames bounds a single Cmd.Sample.Chunk payload; PCM longer
// than this is split across multiple chunks (spec.md §4.9 "large PCM
// buffers may be chunked for transport").
const sampleChunkFrames = 16384

// Config parameterizes a Loop. CyclesPerSecond and Lookahead are rational
// so the cycle<->frame conversion at this boundary stays exact, matching
// spec.md §3's "conversion to audio frames happens only at the scheduler
// boundary" discipline extended one layer further out.
type Config struct {
	SampleRate      int
	CyclesPerSecond rational.Rational
	TickInterval    time.Duration
	Lookahead       rational.Rational
	RNGSeed         uint64
}

func (c Config) withDefaults() Config {
	if c.TickInterval <= 0 {
		c.TickInterval = defaultTickInterval
	}
	if c.CyclesPerSecond.IsNaN() {
		c.CyclesPerSecond = rational.FromInt(1)
	}
	if c.Lookahead.IsNaN() {
		c.Lookahead = rational.New(3, 2)
	}
	return c
}

// Loop is the control-side timing loop of spec.md §4.10.
type Loop struct {
	cfg      Config
	pat      pattern.Pattern
	resolver tones.Resolver
	samples  *sample.Store

	cmds     *ringlink.Ring[ringlink.Cmd]
	feedback *ringlink.Ring[ringlink.Feedback]

	cursorFrame   atomic.Int64
	scheduledUpTo rational.Rational
	started       bool
	pending       map[sample.SampleRequest]bool
}

// New builds a Loop. cmds is the control->audio channel this loop
// produces on; feedback is the audio->control channel it drains.
func New(cfg Config, pat pattern.Pattern, resolver tones.Resolver, samples *sample.Store, cmds *ringlink.Ring[ringlink.Cmd], feedback *ringlink.Ring[ringlink.Feedback]) *Loop {
	return &Loop{
		cfg:      cfg.withDefaults(),
		pat:      pat,
		resolver: resolver,
		samples:  samples,
		cmds:     cmds,
		feedback: feedback,
		pending:  make(map[sample.SampleRequest]bool),
	}
}

// Run drives Tick on cfg.TickInterval until ctx is cancelled (spec.md
// §4.10's five-step loop body, steps 1-5).
func (l *Loop) Run(ctx context.Context) {
	ticker := time.NewTicker(l.cfg.TickInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.Tick()
		}
	}
}

// Tick runs one iteration of the loop body: drain feedback, query the
// lookahead window, schedule new onsets, and surface any sample loads
// that completed since the last tick.
func (l *Loop) Tick() {
	l.drainFeedback()

	nowCyc := l.cycleForFrame(l.cursorFrame.Load())
	end := rational.Add(nowCyc, l.cfg.Lookahead)
	arc := pattern.Arc{Begin: nowCyc, End: end}

	events := l.pat.Query(arc, pattern.QueryCtx{SampleRate: l.cfg.SampleRate, RNGSeed: l.cfg.RNGSeed})
	for _, e := range events {
		if !e.HasOnset() {
			continue
		}
		if l.started && !rational.Less(l.scheduledUpTo, e.Part.Begin) {
			continue // already scheduled in an earlier tick's overlapping window
		}
		l.scheduleEvent(e)
	}
	l.scheduledUpTo = end
	l.started = true

	l.pollSampleCompletions()
}

func (l *Loop) scheduleEvent(e pattern.Event) {
	spec, ok := voice.Decode(e, l.resolver)
	if !ok {
		return
	}

	startFrame := l.frameForCycle(e.Part.Begin)
	duration := rational.Sub(e.Part.End, e.Part.Begin)
	gateFrames := l.cycleLenToFrames(duration)
	gateEndFrame := startFrame + gateFrames
	releaseFrames := int64(spec.ReleaseSeconds * float64(l.cfg.SampleRate))
	endFrame := gateEndFrame + releaseFrames

	playbackID := uuid.New().String()

	if spec.Kind == voice.KindSample {
		req := sample.SampleRequest{Bank: spec.Bank, Sound: spec.SoundName, Index: spec.Index}
		if !l.pending[req] {
			l.pending[req] = true
			l.samples.RequestAsync(req)
		}
	}

	l.cmds.Send(ringlink.Cmd{
		Kind:       ringlink.CmdScheduleVoice,
		PlaybackID: playbackID,
		Voice: ringlink.ScheduledVoiceMsg{
			PlaybackID:   playbackID,
			StartFrame:   startFrame,
			GateEndFrame: gateEndFrame,
			EndFrame:     endFrame,
			RawEvent:     spec,
		},
	})
}

func (l *Loop) drainFeedback() {
	for {
		fb, ok := l.feedback.Recv()
		if !ok {
			return
		}
		switch fb.Kind {
		case ringlink.FeedbackUpdateCursorFrame:
			l.cursorFrame.Store(fb.Frame)
		case ringlink.FeedbackRequestSample:
			req := sample.SampleRequest{Bank: fb.Request.Bank, Sound: fb.Request.Sound, Index: fb.Request.Index, Note: fb.Request.Note}
			if !l.pending[req] {
				l.pending[req] = true
				l.samples.RequestAsync(req)
			}
		}
	}
}

// pollSampleCompletions checks every in-flight request and, once
// SampleStore reaches a terminal state, emits the matching Cmd.Sample.*
// message (spec.md §4.9 "on decode success a Cmd.Sample.Complete...
// crosses RingLink; on failure a Cmd.Sample.NotFound does").
func (l *Loop) pollSampleCompletions() {
	for req := range l.pending {
		loaded, state := l.samples.TryGet(req)
		switch state {
		case sample.Sent:
			l.emitSampleComplete(req, loaded)
			delete(l.pending, req)
		case sample.NotFound:
			slog.Warn("sample not found", "bank", req.Bank, "sound", req.Sound, "index", req.Index)
			l.cmds.Send(ringlink.Cmd{
				Kind:    ringlink.CmdSampleNotFound,
				Request: sampleRequestMsg(req),
			})
			delete(l.pending, req)
		}
	}
}

func (l *Loop) emitSampleComplete(req sample.SampleRequest, loaded sample.LoadedSample) {
	if len(loaded.PCM) <= sampleChunkFrames*2 {
		l.cmds.Send(ringlink.Cmd{
			Kind:       ringlink.CmdSampleComplete,
			Request:    sampleRequestMsg(req),
			Note:       loaded.Note,
			HasNote:    loaded.HasNote,
			PitchHz:    loaded.PitchHz,
			SampleRate: loaded.SampleRate,
			PCM:        loaded.PCM,
		})
		return
	}

	total := len(loaded.PCM)
	for offset := 0; offset < total; offset += sampleChunkFrames * 2 {
		end := offset + sampleChunkFrames*2
		if end > total {
			end = total
		}
		l.cmds.Send(ringlink.Cmd{
			Kind:        ringlink.CmdSampleChunk,
			Request:     sampleRequestMsg(req),
			Note:        loaded.Note,
			HasNote:     loaded.HasNote,
			PitchHz:     loaded.PitchHz,
			SampleRate:  loaded.SampleRate,
			PCM:         loaded.PCM[offset:end],
			ChunkOffset: offset,
			TotalSize:   total,
			IsLastChunk: end >= total,
		})
	}
}

func sampleRequestMsg(req sample.SampleRequest) ringlink.SampleRequestMsg {
	return ringlink.SampleRequestMsg{Bank: req.Bank, Sound: req.Sound, Index: req.Index, Note: req.Note}
}

// cycleForFrame converts an absolute frame count to a rational cycle
// position: cyc = frame * cyclesPerSecond / sampleRate.
func (l *Loop) cycleForFrame(frame int64) rational.Rational {
	return rational.Div(
		rational.Mul(rational.FromInt(frame), l.cfg.CyclesPerSecond),
		rational.FromInt(int64(l.cfg.SampleRate)),
	)
}

// frameForCycle converts a rational cycle position to an absolute frame,
// rounding to the nearest frame at this one conversion boundary.
func (l *Loop) frameForCycle(cyc rational.Rational) int64 {
	f := rational.Div(
		rational.Mul(cyc, rational.FromInt(int64(l.cfg.SampleRate))),
		l.cfg.CyclesPerSecond,
	)
	return int64(math.Round(f.Float64()))
}

// cycleLenToFrames converts a rational cycle duration (not an absolute
// position) to a frame count.
func (l *Loop) cycleLenToFrames(d rational.Rational) int64 {
	return l.frameForCycle(d)
}
