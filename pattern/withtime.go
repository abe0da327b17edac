package pattern

// WithTime transforms the arc used to query the child through QueryFn,
// then transforms every resulting event's Whole/Part back through
// EventFn (spec.md §4.1 "WithTime(pattern, queryFn, eventFn)"). Fast,
// Slow and Rotate are special cases of this general shape; WithTime
// exists directly for transforms that don't fit a single scale/shift.
type WithTime struct {
	Child   Pattern
	QueryFn func(Arc) Arc
	EventFn func(Arc) Arc
}

// NewWithTime builds a WithTime transform.
func NewWithTime(child Pattern, queryFn, eventFn func(Arc) Arc) *WithTime {
	return &WithTime{Child: child, QueryFn: queryFn, EventFn: eventFn}
}

func (p *WithTime) Query(a Arc, ctx QueryCtx) []Event {
	if !a.Valid() {
		return nil
	}
	inner := p.QueryFn(a)
	events := p.Child.Query(inner, ctx)
	out := make([]Event, len(events))
	for i, e := range events {
		e.Part = p.EventFn(e.Part)
		if e.Whole != nil {
			w := p.EventFn(*e.Whole)
			e.Whole = &w
		}
		out[i] = e
	}
	return out
}
