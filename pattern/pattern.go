// Package pattern implements the time-indexed event query model of
// spec.md §4.1: pure Pattern.Query(arc) functions that compose into
// sequences, stacks, and time/value transforms over rational cycle time.
package pattern

import (
	"sort"

	"github.com/strataforge/strata-engine/rational"
)

// QueryCtx carries read-only query parameters. It holds no mutable state:
// random draws are derived from (ctx.RNGSeed, nodeID, cycle, drawIndex),
// never from anything stored on ctx itself (spec.md §4.1).
type QueryCtx struct {
	SampleRate int
	RNGSeed    uint64
}

// Pattern is a pure function from an Arc to a finite list of Events.
// Implementations must be deterministic for the same arc, the same
// QueryCtx.RNGSeed, and the same pattern tree (spec.md §3 "Invariants").
type Pattern interface {
	Query(a Arc, ctx QueryCtx) []Event
}

// NodeID stably identifies one pattern-tree node for the lifetime of the
// tree, used to key random draws (spec.md §9). Builder hands these out in
// construction order so the same script always produces the same IDs.
type NodeID uint64

// Builder assigns NodeIDs in construction order. Pattern constructors that
// need a stable identity (such as NewChoose) take a NodeID drawn from a
// Builder, so repeated construction of the same tree yields the same IDs,
// and therefore the same random draws.
type Builder struct {
	next NodeID
}

// NewBuilder returns a Builder starting IDs at zero.
func NewBuilder() *Builder { return &Builder{} }

// NextID returns the next unused NodeID and advances the counter.
func (b *Builder) NextID() NodeID {
	id := b.next
	b.next++
	return id
}

// SortEvents sorts events in place per spec.md §4.1's tie-breaking rule:
// part.begin ascending; then events with a Whole sort before continuations
// (Whole == nil); among events that both have a Whole, lower Whole.Begin
// first; remaining ties break on insertion order.
func SortEvents(events []Event) {
	sort.SliceStable(events, func(i, j int) bool {
		a, b := events[i], events[j]
		if c := rational.Cmp(a.Part.Begin, b.Part.Begin); c != 0 {
			return c < 0
		}
		aHas, bHas := a.Whole != nil, b.Whole != nil
		if aHas != bHas {
			return aHas // onsets (has Whole) sort before continuations
		}
		if aHas && bHas {
			if c := rational.Cmp(a.Whole.Begin, b.Whole.Begin); c != 0 {
				return c < 0
			}
		}
		return a.insertion < b.insertion
	})
}

// filterVisible discards empty-part events and clips Part to arc,
// discarding the event entirely if that leaves it empty (spec.md §3
// "Events with zero-length part are discarded").
func filterVisible(events []Event, arc Arc) []Event {
	out := events[:0]
	for _, e := range events {
		clipped, ok := e.Part.Intersect(arc)
		if !ok || clipped.Empty() {
			continue
		}
		e.Part = clipped
		out = append(out, e)
	}
	return out
}
