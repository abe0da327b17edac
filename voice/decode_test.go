package voice

import (
	"testing"

	"github.com/strataforge/strata-engine/pattern"
	"github.com/strataforge/strata-engine/tones"
)

func TestDecodeSynthFromNote(t *testing.T) {
	e := pattern.Event{Data: pattern.Value{"note": "c4", "gain": 0.5, "pan": 2.0}}
	spec, ok := Decode(e, tones.EqualTemperament{})
	if !ok {
		t.Fatal("expected note event to decode")
	}
	if spec.Kind != KindSynth {
		t.Errorf("kind = %v, want KindSynth", spec.Kind)
	}
	if diff := spec.FreqHz - 261.6255653005986; diff > 1e-6 || diff < -1e-6 {
		t.Errorf("freq = %v, want ~261.6256", spec.FreqHz)
	}
	if spec.Gain != 0.5 {
		t.Errorf("gain = %v, want 0.5", spec.Gain)
	}
	if spec.Pan != 1.0 {
		t.Errorf("pan = %v, want clamped 1.0", spec.Pan)
	}
}

func TestDecodeSampleFromSound(t *testing.T) {
	e := pattern.Event{Data: pattern.Value{"s": "bd", "bank": "RolandTR909", "n": 2.0, "orbit": 20.0}}
	spec, ok := Decode(e, tones.EqualTemperament{})
	if !ok {
		t.Fatal("expected sound event to decode")
	}
	if spec.Kind != KindSample {
		t.Errorf("kind = %v, want KindSample", spec.Kind)
	}
	if spec.SoundName != "bd" {
		t.Errorf("soundName = %q, want bd", spec.SoundName)
	}
	if spec.Bank != "RolandTR909" {
		t.Errorf("bank = %q, want RolandTR909", spec.Bank)
	}
	if spec.Index != 2 {
		t.Errorf("index = %d, want 2", spec.Index)
	}
	if spec.Orbit != 15 {
		t.Errorf("orbit = %d, want clamped 15", spec.Orbit)
	}
}

func TestDecodeDropsUnrecognizedEvent(t *testing.T) {
	e := pattern.Event{Data: pattern.Value{"gain": 1.0}}
	if _, ok := Decode(e, tones.EqualTemperament{}); ok {
		t.Error("expected event with neither sound nor note to be dropped")
	}
}

func TestDecodeDefaultsADSRNonNegative(t *testing.T) {
	e := pattern.Event{Data: pattern.Value{"note": "a4", "attack": -1.0, "release": -2.0}}
	spec, ok := Decode(e, tones.EqualTemperament{})
	if !ok {
		t.Fatal("expected decode to succeed")
	}
	if spec.AttackSeconds < 0 {
		t.Errorf("attack = %v, want non-negative", spec.AttackSeconds)
	}
	if spec.ReleaseSeconds < 0 {
		t.Errorf("release = %v, want non-negative", spec.ReleaseSeconds)
	}
}
