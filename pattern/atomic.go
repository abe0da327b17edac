package pattern

import "github.com/strataforge/strata-engine/rational"

// Atomic emits one event per cycle carrying a fixed value, with Whole
// spanning the whole cycle and a source-location chain rooted at the
// token the value came from (spec.md §4.1 "Atomic(value)").
type Atomic struct {
	Value  Value
	Span   SourceSpan
	hasLoc bool
}

// NewAtomic builds an Atomic pattern with no source location.
func NewAtomic(v Value) *Atomic {
	return &Atomic{Value: v}
}

// NewAtomicAt builds an Atomic pattern whose events carry span as the
// outermost (and only) source-location chain link (spec.md §8 property 6).
func NewAtomicAt(v Value, span SourceSpan) *Atomic {
	return &Atomic{Value: v, Span: span, hasLoc: true}
}

func (p *Atomic) Query(a Arc, ctx QueryCtx) []Event {
	if !a.Valid() {
		return nil
	}
	var chain Chain
	if p.hasLoc {
		chain = Chain{p.Span}
	}
	var out []Event
	for i, cyc := range CycleArcs(a) {
		cycleNum := rational.FloorInt(cyc.Begin)
		whole := Arc{Begin: rational.FromInt(cycleNum), End: rational.FromInt(cycleNum + 1)}
		out = append(out, Event{
			Whole:           &whole,
			Part:            cyc,
			Data:            p.Value.Clone(),
			SourceLocations: chain,
		}.WithInsertion(i))
	}
	SortEvents(out)
	return out
}

// Silence emits no events for any arc (spec.md §4.1 "silence").
type Silence struct{}

func (Silence) Query(Arc, QueryCtx) []Event { return nil }
