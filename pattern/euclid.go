package pattern

import "github.com/strataforge/strata-engine/rational"

// Euclidean places Pulses onsets as evenly as possible among Steps
// per-cycle slots, optionally rotated, each onset carrying Value
// (spec.md §4.1 "Euclidean(pulses, steps, rotation, value)"). Steps <= 0
// or Pulses <= 0 behaves as Silence; Pulses >= Steps fills every slot.
//
// Onset placement follows spec.md §4.1: onset at step i iff
// floor(i*pulses/steps) differs from floor((i-1)*pulses/steps), with
// step -1 wrapping to the previous cycle's last slot under true floor
// division. This is the same maximally-even distribution the recursive
// Bjorklund algorithm produces.
type Euclidean struct {
	Pulses   int
	Steps    int
	Rotation int
	Value    Value
}

// NewEuclidean builds a Euclidean pattern.
func NewEuclidean(pulses, steps, rotation int, value Value) *Euclidean {
	return &Euclidean{Pulses: pulses, Steps: steps, Rotation: rotation, Value: value}
}

// onsetMask returns a boolean slice of length Steps, true where an onset
// falls, rotated left by Rotation steps.
func (p *Euclidean) onsetMask() []bool {
	n := p.Steps
	k := p.Pulses
	if k < 0 {
		k = 0
	}
	if k > n {
		k = n
	}
	mask := make([]bool, n)
	prev := floorDiv(-k, n)
	for i := 0; i < n; i++ {
		cur := floorDiv(i*k, n)
		mask[i] = cur != prev
		prev = cur
	}
	if p.Rotation == 0 || n == 0 {
		return mask
	}
	r := ((p.Rotation % n) + n) % n
	out := make([]bool, n)
	for i := 0; i < n; i++ {
		out[i] = mask[(i+r)%n]
	}
	return out
}

// floorDiv is integer division rounding toward negative infinity, unlike
// Go's built-in truncating division; onsetMask needs this for the i=0
// backward-difference comparison against index -1.
func floorDiv(a, b int) int {
	q := a / b
	r := a % b
	if r != 0 && (r < 0) != (b < 0) {
		q--
	}
	return q
}

func (p *Euclidean) Query(a Arc, ctx QueryCtx) []Event {
	if !a.Valid() || p.Steps <= 0 || p.Pulses <= 0 {
		return nil
	}
	mask := p.onsetMask()
	n := int64(p.Steps)
	stepLen := rational.New(1, n)

	var out []Event
	insertion := 0
	for _, cyc := range CycleArcs(a) {
		cycleNum := rational.FloorInt(cyc.Begin)
		cycleBegin := rational.FromInt(cycleNum)
		for i := int64(0); i < n; i++ {
			if !mask[i] {
				continue
			}
			stepBegin := rational.Add(cycleBegin, rational.Mul(rational.FromInt(i), stepLen))
			stepEnd := rational.Add(stepBegin, stepLen)
			whole := Arc{Begin: stepBegin, End: stepEnd}
			part, ok := whole.Intersect(cyc)
			if !ok || part.Empty() {
				continue
			}
			out = append(out, Event{
				Whole: &whole,
				Part:  part,
				Data:  p.Value.Clone(),
			}.WithInsertion(insertion))
			insertion++
		}
	}
	SortEvents(out)
	return out
}

// Struct applies a boolean mask pattern's onsets to a value, replacing
// whatever data the mask events carried (spec.md §4.1 "Struct(mask,
// value)"). The mask pattern supplies timing only; BoolKey names the
// field within each mask event's Data treated as the gate (non-zero
// numeric or true), defaulting to truthy-if-present when BoolKey is "".
type Struct struct {
	Mask    Pattern
	Value   Value
	BoolKey string
}

// NewStruct builds a Struct pattern. An empty boolKey treats every mask
// event as an onset regardless of its Data.
func NewStruct(mask Pattern, value Value, boolKey string) *Struct {
	return &Struct{Mask: mask, Value: value, BoolKey: boolKey}
}

func (p *Struct) Query(a Arc, ctx QueryCtx) []Event {
	if !a.Valid() {
		return nil
	}
	maskEvents := p.Mask.Query(a, ctx)
	out := make([]Event, 0, len(maskEvents))
	for i, e := range maskEvents {
		if !e.HasOnset() {
			continue
		}
		if p.BoolKey != "" && !truthy(e.Data[p.BoolKey]) {
			continue
		}
		out = append(out, Event{
			Whole:           e.Whole,
			Part:            e.Part,
			Data:            p.Value.Clone(),
			SourceLocations: e.SourceLocations,
		}.WithInsertion(i))
	}
	SortEvents(out)
	return out
}

func truthy(v any) bool {
	switch x := v.(type) {
	case bool:
		return x
	case float64:
		return x != 0
	case int:
		return x != 0
	case nil:
		return false
	default:
		return true
	}
}
