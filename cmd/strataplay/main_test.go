package main

import (
	"testing"

	"github.com/strataforge/strata-engine/pattern"
	"github.com/strataforge/strata-engine/rational"
	"github.com/strataforge/strata-engine/tones"
	"github.com/strataforge/strata-engine/voice"
)

func TestDemoPatternDecodesToFourDistinctSynthVoices(t *testing.T) {
	pat := demoPattern()
	arc := pattern.Arc{Begin: rational.Zero, End: rational.FromInt(1)}
	events := pat.Query(arc, pattern.QueryCtx{SampleRate: 44100})

	var freqs []float64
	for _, e := range events {
		if !e.HasOnset() {
			continue
		}
		spec, ok := voice.Decode(e, tones.EqualTemperament{})
		if !ok {
			t.Fatalf("event %+v failed to decode", e)
		}
		if spec.Kind != voice.KindSynth {
			t.Errorf("Kind = %v, want KindSynth", spec.Kind)
		}
		freqs = append(freqs, spec.FreqHz)
	}

	if len(freqs) != 4 {
		t.Fatalf("got %d onsets over one cycle, want 4", len(freqs))
	}
	for i := 1; i < len(freqs); i++ {
		if freqs[i] <= freqs[i-1] {
			t.Errorf("freqs[%d]=%v not ascending after freqs[%d]=%v", i, freqs[i], i-1, freqs[i-1])
		}
	}
}
