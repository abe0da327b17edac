package pattern

// WithValue transforms every event's Data through Fn, leaving Whole, Part
// and SourceLocations untouched (spec.md §4.1 "WithValue(pattern, fn)").
// Fn must be pure and must not mutate its argument in place; it receives
// a cloned Value it owns.
type WithValue struct {
	Child Pattern
	Fn    func(Value) Value
}

// NewWithValue builds a WithValue transform.
func NewWithValue(child Pattern, fn func(Value) Value) *WithValue {
	return &WithValue{Child: child, Fn: fn}
}

func (p *WithValue) Query(a Arc, ctx QueryCtx) []Event {
	events := p.Child.Query(a, ctx)
	out := make([]Event, len(events))
	for i, e := range events {
		e.Data = p.Fn(e.Data.Clone())
		out[i] = e
	}
	return out
}
