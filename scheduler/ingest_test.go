package scheduler

import (
	"testing"

	"github.com/strataforge/strata-engine/ringlink"
	"github.com/strataforge/strata-engine/sample"
)

func TestDrainSchedulesVoiceFromCmd(t *testing.T) {
	cmds := ringlink.New[ringlink.Cmd](8)
	sched := New(testSampleRate, testBlockFrames, nil)

	cmds.Send(ringlink.Cmd{
		Kind: ringlink.CmdScheduleVoice,
		Voice: ringlink.ScheduledVoiceMsg{
			PlaybackID:   "x",
			StartFrame:   10,
			GateEndFrame: 100,
			EndFrame:     200,
			RawEvent:     synthSpec(),
		},
	})
	sched.Drain(cmds)

	if sched.Pending() != 1 {
		t.Fatalf("Pending() = %d, want 1", sched.Pending())
	}
}

func TestDrainForwardsSampleCmdsToIngestingSource(t *testing.T) {
	feedback := ringlink.New[ringlink.Feedback](8)
	cache := NewSampleCache(feedback)
	cmds := ringlink.New[ringlink.Cmd](8)
	sched := New(testSampleRate, testBlockFrames, cache)

	cmds.Send(ringlink.Cmd{
		Kind:       ringlink.CmdSampleComplete,
		Request:    ringlink.SampleRequestMsg{Sound: "kick"},
		PCM:        []float32{1, 2},
		SampleRate: 44100,
	})
	sched.Drain(cmds)

	_, state := cache.TryGet(sample.SampleRequest{Sound: "kick"})
	if state != sample.Sent {
		t.Errorf("state = %v, want Sent once Drain forwards the Cmd", state)
	}
}
