package render

import (
	"encoding/binary"
	"testing"

	"github.com/strataforge/strata-engine/orbit"
	"github.com/strataforge/strata-engine/scheduler"
	"github.com/strataforge/strata-engine/voice"
)

const testSampleRate = 48000
const testBlockFrames = 32

func newTestOrbits() []*orbit.Orbit {
	orbits := make([]*orbit.Orbit, orbit.Count)
	for i := range orbits {
		orbits[i] = orbit.NewOrbit(testBlockFrames, testSampleRate)
	}
	return orbits
}

func TestRenderBlockSilentWithNoVoices(t *testing.T) {
	sched := scheduler.New(testSampleRate, testBlockFrames, nil)
	r := New(sched, newTestOrbits(), testBlockFrames)

	out := make([]byte, testBlockFrames*4)
	r.RenderBlock(0, out)

	for i, b := range out {
		if b != 0 {
			t.Fatalf("byte %d = %d, want 0 for silence", i, b)
		}
	}
}

func TestRenderBlockProducesAudioForAScheduledVoice(t *testing.T) {
	sched := scheduler.New(testSampleRate, testBlockFrames, nil)
	sched.Schedule(scheduler.ScheduledVoice{
		PlaybackID:   "a",
		StartFrame:   0,
		GateEndFrame: 10000,
		EndFrame:     20000,
		RawEvent: voice.Spec{
			Kind:    voice.KindSynth,
			FreqHz:  440,
			Wave:    "sine",
			Gain:    1,
			Sustain: 1,
		},
	})
	r := New(sched, newTestOrbits(), testBlockFrames)

	out := make([]byte, testBlockFrames*4)
	r.RenderBlock(0, out)

	var anyNonZero bool
	for i := 0; i < testBlockFrames; i++ {
		l := int16(binary.LittleEndian.Uint16(out[4*i:]))
		if l != 0 {
			anyNonZero = true
		}
	}
	if !anyNonZero {
		t.Error("expected non-silent left channel output")
	}
}

func TestBlockFramesReportsConfiguredSize(t *testing.T) {
	sched := scheduler.New(testSampleRate, testBlockFrames, nil)
	r := New(sched, newTestOrbits(), testBlockFrames)
	if r.BlockFrames() != testBlockFrames {
		t.Errorf("BlockFrames() = %d, want %d", r.BlockFrames(), testBlockFrames)
	}
}
