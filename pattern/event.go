package pattern

import "github.com/strataforge/strata-engine/rational"

// Value is the map-like payload carried by an Event. It stores the typed
// fields recognized by the event decoder (spec.md §6) plus any
// script-defined extras, without reflection.
type Value map[string]any

// Clone returns a shallow copy of v, so transformers can derive a new
// Value without mutating the one they were given (patterns are pure:
// no node may mutate data it did not just construct, spec.md §4.1).
func (v Value) Clone() Value {
	if v == nil {
		return nil
	}
	out := make(Value, len(v))
	for k, val := range v {
		out[k] = val
	}
	return out
}

// String returns the string field named key, and whether it was present
// and actually a string.
func (v Value) String(key string) (string, bool) {
	s, ok := v[key].(string)
	return s, ok
}

// Number returns the numeric field named key coerced to float64, and
// whether it was present and numeric (spec.md §4.2: "numeric fields
// coerce to f64").
func (v Value) Number(key string) (float64, bool) {
	switch n := v[key].(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

// SourceSpan is one span of original script source, used for UI
// highlighting. StartColumn/EndColumn are 0-based byte offsets on Line.
type SourceSpan struct {
	Line        int
	StartColumn int
	EndColumn   int
}

// Chain is an ordered list of source spans, outermost first, composed
// through every pattern transformer (spec.md §3: "preserved and composed
// through every pattern transformer, never lost, never fabricated").
//
// Quote-offsetting semantics (spec.md §9 Open Question (a)): offsetting is
// applied exactly once, at construction of the outermost (literal-token)
// span. Transformers that Prepend their own span never re-offset the
// spans already in the chain — they only add a new outermost link.
type Chain []SourceSpan

// Prepend returns a new Chain with span as the new outermost element,
// leaving the existing spans (and their columns) untouched.
func (c Chain) Prepend(span SourceSpan) Chain {
	out := make(Chain, 0, len(c)+1)
	out = append(out, span)
	out = append(out, c...)
	return out
}

// Outermost returns the first (outermost) span and whether the chain is
// non-empty.
func (c Chain) Outermost() (SourceSpan, bool) {
	if len(c) == 0 {
		return SourceSpan{}, false
	}
	return c[0], true
}

// Event is one item of a pattern query result (spec.md §3).
type Event struct {
	// Whole is the event's natural extent. Nil means the event is a
	// "continuation" — visible in this query but not starting here.
	Whole *Arc
	Part  Arc
	Data  Value
	// SourceLocations is preserved and composed through every transformer.
	SourceLocations Chain
	// insertion records construction order for tie-breaking ties in
	// SortEvents (spec.md §4.1 "earlier insertion index in parent").
	insertion int
}

// HasOnset reports whether this event starts within Part (Whole present
// and Whole.Begin == Part.Begin), as opposed to being a continuation.
func (e Event) HasOnset() bool {
	return e.Whole != nil && rational.Equal(e.Whole.Begin, e.Part.Begin)
}

// WithInsertion returns a copy of e stamped with the given insertion index.
func (e Event) WithInsertion(i int) Event {
	e.insertion = i
	return e
}
