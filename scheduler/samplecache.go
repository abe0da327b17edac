package scheduler

import (
	"sync"

	"github.com/strataforge/strata-engine/ringlink"
	"github.com/strataforge/strata-engine/sample"
)

// chunkAssembly accumulates Cmd.Sample.Chunk payloads for one request
// until IsLastChunk arrives.
type chunkAssembly struct {
	pcm  []float32
	note string
	has  bool
	pitchHz float64
	sampleRate int
}

// SampleCache is the audio-side mirror of sample.Store (spec.md §5
// "cross-side communication is only through RingLink"). It never decodes
// anything itself: it only caches what arrives as Cmd.Sample.* messages
// and reports a miss by sending Feedback.RequestSample, rather than
// reaching back across the ring to the control side's sample.Store.
// Implements scheduler.SampleSource so it can be handed to a Scheduler in
// place of a direct *sample.Store wherever control and audio run as
// genuinely separate goroutines/processes.
type SampleCache struct {
	feedback *ringlink.Ring[ringlink.Feedback]

	mu       sync.Mutex
	states   map[sample.SampleRequest]sample.State
	loaded   map[sample.SampleRequest]sample.LoadedSample
	inFlight map[sample.SampleRequest]*chunkAssembly
	notified map[sample.SampleRequest]bool
}

// NewSampleCache builds a SampleCache that reports misses on feedback.
func NewSampleCache(feedback *ringlink.Ring[ringlink.Feedback]) *SampleCache {
	return &SampleCache{
		feedback: feedback,
		states:   make(map[sample.SampleRequest]sample.State),
		loaded:   make(map[sample.SampleRequest]sample.LoadedSample),
		inFlight: make(map[sample.SampleRequest]*chunkAssembly),
		notified: make(map[sample.SampleRequest]bool),
	}
}

// Ingest applies a Cmd.Sample.Complete/Chunk/NotFound message to the
// cache. Other Cmd kinds are ignored.
func (c *SampleCache) Ingest(cmd ringlink.Cmd) {
	req := sample.SampleRequest{Bank: cmd.Request.Bank, Sound: cmd.Request.Sound, Index: cmd.Request.Index, Note: cmd.Request.Note}

	c.mu.Lock()
	defer c.mu.Unlock()

	switch cmd.Kind {
	case ringlink.CmdSampleComplete:
		c.states[req] = sample.Sent
		c.loaded[req] = sample.LoadedSample{
			PCM:        cmd.PCM,
			SampleRate: cmd.SampleRate,
			Note:       cmd.Note,
			HasNote:    cmd.HasNote,
			PitchHz:    cmd.PitchHz,
		}
		delete(c.inFlight, req)

	case ringlink.CmdSampleChunk:
		asm := c.inFlight[req]
		if asm == nil {
			asm = &chunkAssembly{note: cmd.Note, has: cmd.HasNote, pitchHz: cmd.PitchHz, sampleRate: cmd.SampleRate}
			c.inFlight[req] = asm
		}
		if need := cmd.ChunkOffset + len(cmd.PCM); need > len(asm.pcm) {
			grown := make([]float32, need)
			copy(grown, asm.pcm)
			asm.pcm = grown
		}
		copy(asm.pcm[cmd.ChunkOffset:], cmd.PCM)
		if cmd.IsLastChunk {
			c.states[req] = sample.Sent
			c.loaded[req] = sample.LoadedSample{
				PCM:        asm.pcm,
				SampleRate: asm.sampleRate,
				Note:       asm.note,
				HasNote:    asm.has,
				PitchHz:    asm.pitchHz,
			}
			delete(c.inFlight, req)
		}

	case ringlink.CmdSampleNotFound:
		c.states[req] = sample.NotFound
		delete(c.inFlight, req)
	}
}

// RequestAsync reports a miss to the control side via Feedback.RequestSample
// the first time req is seen; repeats are coalesced the same way
// sample.Store coalesces duplicate in-flight loads.
func (c *SampleCache) RequestAsync(req sample.SampleRequest) {
	c.mu.Lock()
	st := c.states[req]
	if st == sample.Sent || st == sample.NotFound || c.notified[req] {
		c.mu.Unlock()
		return
	}
	c.notified[req] = true
	c.states[req] = sample.InFlight
	c.mu.Unlock()

	c.feedback.Send(ringlink.Feedback{
		Kind: ringlink.FeedbackRequestSample,
		Request: ringlink.SampleRequestMsg{
			Bank: req.Bank, Sound: req.Sound, Index: req.Index, Note: req.Note,
		},
	})
}

// TryGet returns req's cached sample and state without blocking.
func (c *SampleCache) TryGet(req sample.SampleRequest) (sample.LoadedSample, sample.State) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loaded[req], c.states[req]
}

var _ SampleSource = (*SampleCache)(nil)
