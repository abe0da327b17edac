package scheduler

import (
	"testing"

	"github.com/strataforge/strata-engine/orbit"
	"github.com/strataforge/strata-engine/sample"
	"github.com/strataforge/strata-engine/voice"
)

const testSampleRate = 48000
const testBlockFrames = 64

type fakeSampleSource struct {
	requested []sample.SampleRequest
	loaded    map[sample.SampleRequest]sample.LoadedSample
}

func newFakeSampleSource() *fakeSampleSource {
	return &fakeSampleSource{loaded: make(map[sample.SampleRequest]sample.LoadedSample)}
}

func (f *fakeSampleSource) RequestAsync(req sample.SampleRequest) {
	f.requested = append(f.requested, req)
}

func (f *fakeSampleSource) TryGet(req sample.SampleRequest) (sample.LoadedSample, sample.State) {
	if loaded, ok := f.loaded[req]; ok {
		return loaded, sample.Sent
	}
	return sample.LoadedSample{}, sample.NotRequested
}

func newTestOrbits() []*orbit.Orbit {
	orbits := make([]*orbit.Orbit, orbit.Count)
	for i := range orbits {
		orbits[i] = orbit.NewOrbit(testBlockFrames, testSampleRate)
	}
	return orbits
}

func synthSpec() voice.Spec {
	return voice.Spec{
		Kind:           voice.KindSynth,
		FreqHz:         440,
		Wave:           "sine",
		Gain:           1,
		Sustain:        1,
		ReleaseSeconds: 0.01,
	}
}

func TestScheduleEmitsSamplePrefetchHint(t *testing.T) {
	samples := newFakeSampleSource()
	s := New(testSampleRate, testBlockFrames, samples)

	spec := voice.Spec{Kind: voice.KindSample, SoundName: "kick", Bank: "bd", Gain: 1}
	s.Schedule(ScheduledVoice{PlaybackID: "a", StartFrame: 0, GateEndFrame: 100, EndFrame: 200, RawEvent: spec})

	if len(samples.requested) != 1 {
		t.Fatalf("requested = %d, want 1", len(samples.requested))
	}
	if samples.requested[0].Sound != "kick" || samples.requested[0].Bank != "bd" {
		t.Errorf("requested = %+v, want sound=kick bank=bd", samples.requested[0])
	}
}

func TestPromoteDropsSampleVoiceWhenNotLoaded(t *testing.T) {
	samples := newFakeSampleSource()
	s := New(testSampleRate, testBlockFrames, samples)
	spec := voice.Spec{Kind: voice.KindSample, SoundName: "missing", Gain: 1}
	s.Schedule(ScheduledVoice{PlaybackID: "a", StartFrame: 0, GateEndFrame: 100, EndFrame: 200, RawEvent: spec})

	s.Process(0, newTestOrbits())

	if s.Active() != 0 {
		t.Errorf("Active() = %d, want 0 (sample not ready, best-effort drop)", s.Active())
	}
}

func TestPromoteBuildsSampleVoiceWhenLoaded(t *testing.T) {
	samples := newFakeSampleSource()
	req := sample.SampleRequest{Sound: "kick"}
	samples.loaded[req] = sample.LoadedSample{PCM: make([]float32, 4000), SampleRate: testSampleRate}
	s := New(testSampleRate, testBlockFrames, samples)
	spec := voice.Spec{Kind: voice.KindSample, SoundName: "kick", Gain: 1, Speed: 1, ReleaseSeconds: 0.01}
	s.Schedule(ScheduledVoice{PlaybackID: "a", StartFrame: 0, GateEndFrame: 1000, EndFrame: 2000, RawEvent: spec})

	s.Process(0, newTestOrbits())

	if s.Active() != 1 {
		t.Fatalf("Active() = %d, want 1", s.Active())
	}
}

func TestSynthVoiceRendersNonZeroIntoOrbitMix(t *testing.T) {
	s := New(testSampleRate, testBlockFrames, nil)
	s.Schedule(ScheduledVoice{PlaybackID: "a", StartFrame: 0, GateEndFrame: 1000, EndFrame: 2000, RawEvent: synthSpec()})

	orbits := newTestOrbits()
	s.Process(0, orbits)

	if s.Active() != 1 {
		t.Fatalf("Active() = %d, want 1", s.Active())
	}
	var sum float64
	for _, x := range orbits[0].MixL {
		if x < 0 {
			x = -x
		}
		sum += x
	}
	if sum == 0 {
		t.Error("expected non-zero mix output from a sine voice")
	}
}

func TestVoiceHonorsSampleAccurateStartOffset(t *testing.T) {
	s := New(testSampleRate, testBlockFrames, nil)
	startFrame := int64(10)
	s.Schedule(ScheduledVoice{PlaybackID: "a", StartFrame: startFrame, GateEndFrame: 1000, EndFrame: 2000, RawEvent: synthSpec()})

	orbits := newTestOrbits()
	s.Process(0, orbits)

	for i := int64(0); i < startFrame; i++ {
		if orbits[0].MixL[i] != 0 || orbits[0].MixR[i] != 0 {
			t.Fatalf("frame %d before startFrame is non-zero", i)
		}
	}
}

func TestVoiceDiesAfterReleaseCompletes(t *testing.T) {
	s := New(testSampleRate, testBlockFrames, nil)
	spec := synthSpec()
	spec.ReleaseSeconds = 0 // zero release: voice dies the block after the gate closes
	s.Schedule(ScheduledVoice{PlaybackID: "a", StartFrame: 0, GateEndFrame: 8, EndFrame: 16, RawEvent: spec})

	orbits := newTestOrbits()
	s.Process(0, orbits)
	if s.Active() != 1 {
		t.Fatalf("Active() after first block = %d, want 1", s.Active())
	}
	s.Process(int64(testBlockFrames), orbits)
	if s.Active() != 0 {
		t.Errorf("Active() after gate closed with zero release = %d, want 0", s.Active())
	}
}

func TestPendingReflectsUnpromotedVoices(t *testing.T) {
	s := New(testSampleRate, testBlockFrames, nil)
	far := int64(1_000_000)
	s.Schedule(ScheduledVoice{PlaybackID: "a", StartFrame: far, GateEndFrame: far + 100, EndFrame: far + 200, RawEvent: synthSpec()})

	if s.Pending() != 1 {
		t.Fatalf("Pending() = %d, want 1", s.Pending())
	}
	s.Process(0, newTestOrbits())
	if s.Pending() != 1 || s.Active() != 0 {
		t.Errorf("far-future voice should remain pending: Pending()=%d Active()=%d", s.Pending(), s.Active())
	}
}
