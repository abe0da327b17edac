// Package config collects the engine-wide tunables that the teacher wired
// as compile-time register constants (SAMPLE_RATE, AUDIO_CTRL and friends
// in audio_chip.go) into a single runtime-configurable EngineConfig, per
// Design Note 9(b)'s decision that sample rate, block size, orbit count,
// lookahead and tick interval all become configuration inputs rather than
// constants.
package config

import (
	"fmt"
	"time"

	"github.com/strataforge/strata-engine/orbit"
	"github.com/strataforge/strata-engine/rational"
)

// Defaults matching the teacher's fixed operating point (44.1kHz) and
// spec.md §4.10's stated tick interval and lookahead.
const (
	DefaultSampleRate   = 44100
	DefaultBlockFrames  = 512
	DefaultTickInterval = 10 * time.Millisecond
)

// EngineConfig carries every tunable the control loop, scheduler and
// renderer need to be constructed. Zero value is invalid; use Default and
// override fields, then call Validate.
type EngineConfig struct {
	SampleRate      int
	BlockFrames     int
	OrbitCount      int
	CyclesPerSecond rational.Rational
	Lookahead       rational.Rational
	TickInterval    time.Duration
	RNGSeed         uint64
}

// Default returns the teacher's operating point: 44.1kHz, 512-frame
// blocks, orbit.Count orbits, 1 cycle/second, a 3/2-cycle lookahead and a
// 10ms control tick.
func Default() EngineConfig {
	return EngineConfig{
		SampleRate:      DefaultSampleRate,
		BlockFrames:     DefaultBlockFrames,
		OrbitCount:      orbit.Count,
		CyclesPerSecond: rational.FromInt(1),
		Lookahead:       rational.New(3, 2),
		TickInterval:    DefaultTickInterval,
	}
}

// Validate rejects configurations the rest of the engine can't operate on
// (spec.md §7's fail-fast-on-construction discipline, not a runtime
// recovery path).
func (c EngineConfig) Validate() error {
	if c.SampleRate <= 0 {
		return fmt.Errorf("config: SampleRate must be positive, got %d", c.SampleRate)
	}
	if c.BlockFrames <= 0 {
		return fmt.Errorf("config: BlockFrames must be positive, got %d", c.BlockFrames)
	}
	if c.OrbitCount <= 0 {
		return fmt.Errorf("config: OrbitCount must be positive, got %d", c.OrbitCount)
	}
	if c.CyclesPerSecond.IsNaN() || !rational.Less(rational.Zero, c.CyclesPerSecond) {
		return fmt.Errorf("config: CyclesPerSecond must be a positive rational, got %v", c.CyclesPerSecond)
	}
	if c.Lookahead.IsNaN() || !rational.Less(rational.Zero, c.Lookahead) {
		return fmt.Errorf("config: Lookahead must be a positive rational, got %v", c.Lookahead)
	}
	if c.TickInterval <= 0 {
		return fmt.Errorf("config: TickInterval must be positive, got %v", c.TickInterval)
	}
	return nil
}
