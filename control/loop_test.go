package control

import (
	"context"
	"testing"

	"github.com/strataforge/strata-engine/pattern"
	"github.com/strataforge/strata-engine/rational"
	"github.com/strataforge/strata-engine/ringlink"
	"github.com/strataforge/strata-engine/sample"
	"github.com/strataforge/strata-engine/tones"
	"github.com/strataforge/strata-engine/voice"
)

type stubLoader struct {
	pcm []float32
}

func (s stubLoader) Load(ctx context.Context, req sample.SampleRequest) (sample.LoadedSample, error) {
	return sample.LoadedSample{PCM: s.pcm, SampleRate: 44100}, nil
}

func newTestLoop(pat pattern.Pattern) (*Loop, *ringlink.Ring[ringlink.Cmd], *ringlink.Ring[ringlink.Feedback], *sample.Store) {
	cmds := ringlink.New[ringlink.Cmd](64)
	feedback := ringlink.New[ringlink.Feedback](64)
	store := sample.NewStore(stubLoader{pcm: make([]float32, 8)})
	cfg := Config{SampleRate: 48000, CyclesPerSecond: rational.FromInt(1)}
	loop := New(cfg, pat, tones.EqualTemperament{}, store, cmds, feedback)
	return loop, cmds, feedback, store
}

func notePattern(note string) pattern.Pattern {
	return pattern.NewAtomic(pattern.Value{"note": note})
}

func TestTickSchedulesOnsetWithinLookahead(t *testing.T) {
	loop, cmds, _, _ := newTestLoop(notePattern("c4"))
	loop.Tick()

	cmd, ok := cmds.Recv()
	if !ok {
		t.Fatal("expected a Cmd after Tick")
	}
	if cmd.Kind != ringlink.CmdScheduleVoice {
		t.Fatalf("Kind = %v, want CmdScheduleVoice", cmd.Kind)
	}
	spec, ok := cmd.Voice.RawEvent.(voice.Spec)
	if !ok {
		t.Fatal("RawEvent is not a voice.Spec")
	}
	if spec.Kind != voice.KindSynth || spec.FreqHz <= 0 {
		t.Errorf("spec = %+v, want a decoded synth voice", spec)
	}
	if cmd.Voice.StartFrame != 0 {
		t.Errorf("StartFrame = %d, want 0", cmd.Voice.StartFrame)
	}
}

func TestTickDoesNotRescheduleAlreadyCoveredOnsets(t *testing.T) {
	loop, cmds, _, _ := newTestLoop(notePattern("c4"))
	loop.Tick()
	drain(cmds)

	loop.Tick() // same cursor, same lookahead window: nothing new
	if _, ok := cmds.Recv(); ok {
		t.Error("expected no new Cmd on a repeated Tick over the same window")
	}
}

func TestTickAdvancesWithCursorFeedback(t *testing.T) {
	loop, cmds, feedback, _ := newTestLoop(notePattern("c4"))
	loop.Tick()
	drain(cmds)

	// advance the cursor by two cycles' worth of frames
	feedback.Send(ringlink.Feedback{Kind: ringlink.FeedbackUpdateCursorFrame, Frame: 96000})
	loop.Tick()

	cmd, ok := cmds.Recv()
	if !ok {
		t.Fatal("expected a new onset to be scheduled after the cursor advanced two cycles")
	}
	if cmd.Voice.StartFrame < 96000 {
		t.Errorf("StartFrame = %d, want >= 96000", cmd.Voice.StartFrame)
	}
}

func TestTickEmitsSampleCompleteForScheduledSampleVoice(t *testing.T) {
	loop, cmds, _, store := newTestLoop(pattern.NewAtomic(pattern.Value{"s": "kick"}))
	req := sample.SampleRequest{Sound: "kick"}
	store.EnsureLoaded(context.Background(), req)
	loop.Tick()

	var sawSchedule, sawComplete bool
	for {
		cmd, ok := cmds.Recv()
		if !ok {
			break
		}
		switch cmd.Kind {
		case ringlink.CmdScheduleVoice:
			sawSchedule = true
		case ringlink.CmdSampleComplete:
			sawComplete = true
			if len(cmd.PCM) == 0 {
				t.Error("expected non-empty PCM on Cmd.Sample.Complete")
			}
		}
	}
	if !sawSchedule {
		t.Error("expected a CmdScheduleVoice")
	}
	if !sawComplete {
		t.Error("expected a CmdSampleComplete once the sample load resolved")
	}
}

func TestFeedbackRequestSampleTriggersLoad(t *testing.T) {
	loop, cmds, feedback, store := newTestLoop(pattern.Silence{})
	req := sample.SampleRequest{Sound: "snare"}
	store.EnsureLoaded(context.Background(), req)
	feedback.Send(ringlink.Feedback{Kind: ringlink.FeedbackRequestSample, Request: ringlink.SampleRequestMsg{Sound: "snare"}})
	loop.Tick()

	var sawComplete bool
	for {
		cmd, ok := cmds.Recv()
		if !ok {
			break
		}
		if cmd.Kind == ringlink.CmdSampleComplete && cmd.Request.Sound == "snare" {
			sawComplete = true
		}
	}
	if !sawComplete {
		t.Error("expected Feedback.RequestSample to trigger a load and Cmd.Sample.Complete")
	}
}

func drain(r *ringlink.Ring[ringlink.Cmd]) {
	for {
		if _, ok := r.Recv(); !ok {
			return
		}
	}
}
