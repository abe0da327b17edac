// strataplay is a minimal demo player: wire a pattern, a scheduler, a
// renderer and an audio backend together and let it run. Grounded on the
// teacher's main.go shape (construct peripherals, check each error, map
// them together, start), minus the CPU/video/GUI wiring that shape also
// carried.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/strataforge/strata-engine/audiobackend"
	"github.com/strataforge/strata-engine/config"
	"github.com/strataforge/strata-engine/control"
	"github.com/strataforge/strata-engine/orbit"
	"github.com/strataforge/strata-engine/pattern"
	"github.com/strataforge/strata-engine/render"
	"github.com/strataforge/strata-engine/ringlink"
	"github.com/strataforge/strata-engine/sample"
	"github.com/strataforge/strata-engine/scheduler"
	"github.com/strataforge/strata-engine/tones"
)

// silentLoader resolves any sample request to silence; a real player
// wires in the asset-decoding collaborator spec.md §1 places out of
// scope for this module.
type silentLoader struct{}

func (silentLoader) Load(ctx context.Context, req sample.SampleRequest) (sample.LoadedSample, error) {
	return sample.LoadedSample{PCM: make([]float32, 0), SampleRate: 44100}, nil
}

// demoPattern plays a four-note arpeggio, all four notes in each cycle.
func demoPattern() pattern.Pattern {
	return pattern.NewSequence(
		pattern.NewAtomic(pattern.Value{"note": "c4", "gain": 0.6}),
		pattern.NewAtomic(pattern.Value{"note": "e4", "gain": 0.6}),
		pattern.NewAtomic(pattern.Value{"note": "g4", "gain": 0.6}),
		pattern.NewAtomic(pattern.Value{"note": "c5", "gain": 0.6}),
	)
}

func main() {
	cfg := config.Default()
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "err", err)
		os.Exit(1)
	}

	cmds := ringlink.New[ringlink.Cmd](ringlink.DefaultCapacity)
	feedback := ringlink.New[ringlink.Feedback](ringlink.DefaultCapacity)

	store := sample.NewStore(silentLoader{})
	loop := control.New(control.Config{
		SampleRate:      cfg.SampleRate,
		CyclesPerSecond: cfg.CyclesPerSecond,
		Lookahead:       cfg.Lookahead,
		TickInterval:    cfg.TickInterval,
		RNGSeed:         cfg.RNGSeed,
	}, demoPattern(), tones.EqualTemperament{}, store, cmds, feedback)

	sched := scheduler.New(cfg.SampleRate, cfg.BlockFrames, store)
	orbits := make([]*orbit.Orbit, cfg.OrbitCount)
	for i := range orbits {
		orbits[i] = orbit.NewOrbit(cfg.BlockFrames, cfg.SampleRate)
	}
	renderer := render.New(sched, orbits, cfg.BlockFrames)

	player, err := audiobackend.NewOtoPlayer(cfg.SampleRate)
	if err != nil {
		slog.Error("failed to initialize audio backend", "err", err)
		os.Exit(1)
	}
	player.SetupPlayer(&ringBoundSource{sched: sched, renderer: renderer, cmds: cmds, feedback: feedback})

	ctx, cancel := context.WithCancel(context.Background())
	go loop.Run(ctx)
	player.Start()

	slog.Info("strataplay running", "sampleRate", cfg.SampleRate, "blockFrames", cfg.BlockFrames, "orbits", cfg.OrbitCount)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig

	slog.Info("shutting down")
	player.Stop()
	player.Close()
	cancel()
	time.Sleep(50 * time.Millisecond)
}

// ringBoundSource adapts a Scheduler+Renderer pair into
// audiobackend.Source, draining the control loop's Cmd ring and
// reporting the audio cursor back on Feedback before every block
// (spec.md §5's RingLink round trip).
type ringBoundSource struct {
	sched    *scheduler.Scheduler
	renderer *render.Renderer
	cmds     *ringlink.Ring[ringlink.Cmd]
	feedback *ringlink.Ring[ringlink.Feedback]
}

func (r *ringBoundSource) RenderBlock(cursorFrame int64, out []byte) {
	r.sched.Drain(r.cmds)
	r.feedback.Send(ringlink.Feedback{Kind: ringlink.FeedbackUpdateCursorFrame, Frame: cursorFrame})
	r.renderer.RenderBlock(cursorFrame, out)
}

func (r *ringBoundSource) BlockFrames() int { return r.renderer.BlockFrames() }

var _ audiobackend.Source = (*ringBoundSource)(nil)
