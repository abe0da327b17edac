// Package scheduler owns the min-heap of not-yet-active voices and the
// active-voice render loop (spec.md §3 "Scheduler"/"Voice", §4.3, §4.4),
// grounded on the teacher's register-driven gate/envelope state machine
// in audio_chip.go's updateEnvelope, generalized from 4 fixed hardware
// channels to an unbounded active-voice slice.
package scheduler

import (
	"container/heap"

	"github.com/strataforge/strata-engine/orbit"
	"github.com/strataforge/strata-engine/sample"
	"github.com/strataforge/strata-engine/voice"
)

// defaultMaxReleaseSeconds caps a voice's release tail so a pathological
// release time can't keep a dead voice's memory alive indefinitely
// (spec.md §4.4 "capped by the configured max release length to prevent
// leaks").
const defaultMaxReleaseSeconds = 2.0

// SampleSource is the subset of sample.Store the scheduler needs: a
// fire-and-forget prefetch hint when a sample voice is scheduled, and a
// non-blocking lookup at promotion time (spec.md §4.3(1), "if PCM not yet
// available, drop the voice... best-effort").
type SampleSource interface {
	RequestAsync(req sample.SampleRequest)
	TryGet(req sample.SampleRequest) (sample.LoadedSample, sample.State)
}

// Scheduler owns the not-yet-active heap and the active voice slice
// (spec.md §3).
type Scheduler struct {
	pending scheduledHeap
	active  []*Voice

	samples          SampleSource
	sampleRate       int
	blockFrames      int
	maxReleaseFrames int64

	scratch []float64
}

// New builds a Scheduler sized for blockFrames at sampleRate. samples may
// be nil if the caller never schedules sample voices.
func New(sampleRate, blockFrames int, samples SampleSource) *Scheduler {
	return &Scheduler{
		samples:          samples,
		sampleRate:       sampleRate,
		blockFrames:      blockFrames,
		maxReleaseFrames: int64(defaultMaxReleaseSeconds * float64(sampleRate)),
		scratch:          make([]float64, blockFrames),
	}
}

// Schedule enqueues sv, emitting a sample prefetch hint if RawEvent names
// a sample voice (spec.md §4.3(1)). RawEvent must be a voice.Spec; any
// other value is enqueued for timing purposes only and will be dropped
// silently at promotion.
func (s *Scheduler) Schedule(sv ScheduledVoice) {
	heap.Push(&s.pending, sv)
	spec, ok := sv.RawEvent.(voice.Spec)
	if ok && spec.Kind == voice.KindSample && s.samples != nil {
		s.samples.RequestAsync(sampleRequestFor(spec))
	}
}

func sampleRequestFor(spec voice.Spec) sample.SampleRequest {
	return sample.SampleRequest{Bank: spec.Bank, Sound: spec.SoundName, Index: spec.Index}
}

// Process advances the scheduler by one block starting at cursorFrame:
// promote due voices, render every active voice into its orbit, and
// compact out the ones that died this block (spec.md §4.3(2)-(3)).
// orbits must be indexable by every voice's Orbit field (0..15).
func (s *Scheduler) Process(cursorFrame int64, orbits []*orbit.Orbit) {
	s.promote(cursorFrame)

	write := 0
	for _, v := range s.active {
		target := orbits[v.Orbit]
		if v.render(cursorFrame, s.blockFrames, s.scratch, target) {
			s.active[write] = v
			write++
		}
	}
	s.active = s.active[:write]
}

func (s *Scheduler) promote(cursorFrame int64) {
	horizon := cursorFrame + int64(s.blockFrames)
	for s.pending.Len() > 0 && s.pending[0].StartFrame < horizon {
		sv := heap.Pop(&s.pending).(ScheduledVoice)
		if sv.EndFrame <= cursorFrame {
			continue
		}
		spec, ok := sv.RawEvent.(voice.Spec)
		if !ok {
			continue
		}
		v, ok := s.buildVoice(sv, spec)
		if !ok {
			continue
		}
		s.active = append(s.active, v)
	}
}

func (s *Scheduler) buildVoice(sv ScheduledVoice, spec voice.Spec) (*Voice, bool) {
	if spec.Kind == voice.KindSample {
		if s.samples == nil {
			return nil, false
		}
		loaded, state := s.samples.TryGet(sampleRequestFor(spec))
		if state != sample.Sent {
			return nil, false
		}
		return newSampleVoice(sv, spec, loaded, s.sampleRate, s.maxReleaseFrames), true
	}
	return newSynthVoice(sv, spec, s.sampleRate, s.maxReleaseFrames), true
}

// Active reports the number of currently active voices, for diagnostics.
func (s *Scheduler) Active() int { return len(s.active) }

// Pending reports the number of not-yet-promoted voices.
func (s *Scheduler) Pending() int { return s.pending.Len() }
