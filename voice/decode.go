package voice

import (
	"github.com/strataforge/strata-engine/pattern"
	"github.com/strataforge/strata-engine/tones"
)

// defaultADSR matches what the teacher's envelope state machine treats as
// "no voice": a near-instant attack/decay, full sustain, quick release,
// so a voice with no ADSR fields still produces an audible plucked note
// rather than silence or a click.
const (
	defaultAttack  = 0.005
	defaultDecay   = 0.05
	defaultSustain = 1.0
	defaultRelease = 0.05
	defaultGain    = 1.0
)

// Decode translates one pattern event's data into a Spec (spec.md §4.2).
// The second return is false when the event carries no recognizable
// voice (neither "sound" nor "note"); that is a drop, not an error.
func Decode(e pattern.Event, resolver tones.Resolver) (Spec, bool) {
	data := e.Data
	soundName, hasSound := data.String("s")
	if !hasSound {
		soundName, hasSound = data.String("wave")
	}
	if !hasSound {
		soundName, hasSound = data.String("sound")
	}
	note, hasNote := data.String("note")
	_, hasNumericNote := data.Number("note")

	if !hasSound && !hasNote && !hasNumericNote {
		return Spec{}, false
	}

	spec := Spec{
		Gain:           numberOr(data, defaultGain, "gain", "amp"),
		Pan:            clamp(numberOr(data, 0, "pan"), -1, 1),
		Orbit:          clampInt(intOr(data, 0, "orbit"), 0, 15),
		AttackSeconds:  nonNegative(numberOr(data, defaultAttack, "attack")),
		DecaySeconds:   nonNegative(numberOr(data, defaultDecay, "decay")),
		Sustain:        clamp(numberOr(data, defaultSustain, "sustain"), 0, 1),
		ReleaseSeconds: nonNegative(numberOr(data, defaultRelease, "release")),
		Cutoff:         numberOr(data, 0, "cutoff"),
		HCutoff:        numberOr(data, 0, "hcutoff"),
		Resonance:      numberOr(data, 0, "resonance"),
		DelayAmount:    numberOr(data, 0, "delay"),
		DelayTime:      numberOr(data, 0, "delaytime"),
		DelayFeedback:  numberOr(data, 0, "delayfeedback"),
		Room:           numberOr(data, 0, "room"),
		RoomSize:       numberOr(data, 0, "roomsize"),
		VibAmount:      numberOr(data, 0, "vib"),
		VibRate:        numberOr(data, 0, "vibmod"),
		Distort:        numberOr(data, 0, "distort", "shape"),
		Crush:          numberOr(data, 0, "crush"),
		Coarse:         numberOr(data, 0, "coarse"),
		Speed:          numberOr(data, 1, "speed"),
	}
	if u, ok := data.String("unit"); ok {
		spec.Unit = u
	}

	if hasNote || hasNumericNote {
		scale, _ := data.String("scale")
		hz, ok := resolver.Resolve(note, scale)
		if !ok {
			hz, ok = noteAsNumber(data)
		}
		if !ok {
			return Spec{}, false
		}
		spec.Kind = KindSynth
		spec.FreqHz = hz
		spec.Wave = "sine"
		if hasSound {
			spec.Wave = soundName
		}
		return spec, true
	}

	spec.Kind = KindSample
	spec.SoundName = soundName
	spec.Bank, _ = data.String("bank")
	spec.Index = intOr(data, 0, "n")
	return spec, true
}

// noteAsNumber falls back to treating "note" as a bare semitone-offset
// number (spec.md §6 allows numeric patterns to address pitch directly)
// when the string resolver can't parse it as a note name.
func noteAsNumber(data pattern.Value) (float64, bool) {
	n, ok := data.Number("note")
	if !ok {
		return 0, false
	}
	return tones.NumberToFrequency(n), true
}

func numberOr(v pattern.Value, def float64, keys ...string) float64 {
	for _, k := range keys {
		if n, ok := v.Number(k); ok {
			return n
		}
	}
	return def
}

func intOr(v pattern.Value, def int, keys ...string) int {
	return int(numberOr(v, float64(def), keys...))
}

func nonNegative(x float64) float64 {
	if x < 0 {
		return 0
	}
	return x
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

func clampInt(x, lo, hi int) int {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
