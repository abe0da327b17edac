// Package tones is the note/scale-to-frequency collaborator the pattern
// engine delegates to (spec.md §6 "tones library"); the music-theory
// library itself (full scale tables, tuning systems) is explicitly out of
// scope, so this package exposes the narrow Resolver interface the event
// decoder needs plus one default equal-tempered implementation.
package tones

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Resolver turns a note name and optional scale name into a frequency in
// Hz. Implementations may be swapped in for alternate tuning systems or a
// richer external music-theory library without touching voice.Decode.
type Resolver interface {
	Resolve(note, scale string) (hz float64, ok bool)
}

// referenceFreq is the standard concert pitch for A4, the same constant
// the teacher's oscillator stage uses to map register values to Hz.
const referenceFreq = 440.0

// middleCMIDI is the MIDI note number for C4 ("middle C").
const middleCMIDI = 60

var semitoneFromLetter = map[byte]int{
	'c': 0, 'd': 2, 'e': 4, 'f': 5, 'g': 7, 'a': 9, 'b': 11,
}

// EqualTemperament resolves note names against 12-tone equal temperament
// tuned to A4 = 440 Hz. scale is accepted but currently ignored: scale
// degree resolution belongs to the external music-theory library: this
// stub only understands absolute note names like "c4", "a#3", "ef5".
type EqualTemperament struct{}

// Resolve implements Resolver. Recognized note forms: a letter a-g
// (case-insensitive), an optional accidental (# or s for sharp, f or b
// for flat — a "b" after the letter is always read as flat, so "bb4" is
// B-flat 4), and a decimal octave number. "c4" resolves to the
// MIDI note 60 frequency, 261.6255... Hz.
func (EqualTemperament) Resolve(note, scale string) (float64, bool) {
	midi, ok := parseNoteToMIDI(note)
	if !ok {
		return 0, false
	}
	return referenceFreq * math.Pow(2, float64(midi-69)/12), true
}

func parseNoteToMIDI(note string) (int, bool) {
	s := strings.ToLower(strings.TrimSpace(note))
	if s == "" {
		return 0, false
	}
	letter := s[0]
	semi, ok := semitoneFromLetter[letter]
	if !ok {
		return 0, false
	}
	rest := s[1:]
	for len(rest) > 0 {
		switch rest[0] {
		case '#', 's':
			semi++
			rest = rest[1:]
			continue
		case 'f', 'b':
			semi--
			rest = rest[1:]
			continue
		}
		break
	}
	octave := 4
	if rest != "" {
		n, err := strconv.Atoi(rest)
		if err != nil {
			return 0, false
		}
		octave = n
	}
	midi := (octave+1)*12 + semi
	return midi, true
}

// NumberToFrequency resolves a bare scale-degree number directly to Hz
// using degree n as semitones above A4, for patterns that address pitch
// numerically rather than by note name (spec.md §6 allows "note" to carry
// either form; the decoder coerces numeric note fields through this path).
func NumberToFrequency(semitoneOffset float64) float64 {
	return referenceFreq * math.Pow(2, semitoneOffset/12)
}

func (EqualTemperament) String() string {
	return fmt.Sprintf("EqualTemperament(A4=%gHz)", referenceFreq)
}
