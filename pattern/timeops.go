package pattern

import "github.com/strataforge/strata-engine/rational"

// Fast speeds a child pattern up by Factor cycles-per-cycle: Factor cycles
// of the child play out in one cycle of the result (spec.md §4.1
// "Fast(pattern, factor)"). Factor must be non-zero; Factor <= 0 behaves
// as Silence.
type Fast struct {
	Child  Pattern
	Factor rational.Rational
}

// NewFast builds a Fast transform. factor <= 0 yields a pattern equivalent
// to Silence.
func NewFast(child Pattern, factor rational.Rational) *Fast {
	return &Fast{Child: child, Factor: factor}
}

func (p *Fast) Query(a Arc, ctx QueryCtx) []Event {
	if !a.Valid() || p.Factor.IsNaN() || p.Factor.Sign() <= 0 {
		return nil
	}
	inner := a.Scale(p.Factor)
	events := p.Child.Query(inner, ctx)
	inv := rational.Inv(p.Factor)
	out := make([]Event, 0, len(events))
	for i, e := range events {
		e.Part = e.Part.Scale(inv)
		if e.Whole != nil {
			w := e.Whole.Scale(inv)
			e.Whole = &w
		}
		out = append(out, e.WithInsertion(i))
	}
	return out
}

// Slow stretches a child pattern out by Factor: one cycle of the child
// spans Factor cycles of the result (spec.md §4.1 "Slow(pattern,
// factor)"). Slow(p, n) is Fast(p, 1/n).
type Slow struct {
	Child  Pattern
	Factor rational.Rational
}

// NewSlow builds the slowed pattern as a Fast with factor 1/factor.
// factor <= 0 yields Silence.
func NewSlow(child Pattern, factor rational.Rational) *Fast {
	if factor.IsNaN() || factor.Sign() <= 0 {
		return &Fast{Child: child, Factor: rational.Zero}
	}
	return &Fast{Child: child, Factor: rational.Inv(factor)}
}

// Rotate shifts a child pattern later in time by Offset cycles: what
// played at time t now plays at t + Offset (spec.md §4.1 "Rotate(pattern,
// offset)"). A negative Offset shifts it earlier.
type Rotate struct {
	Child  Pattern
	Offset rational.Rational
}

// NewRotate builds a Rotate transform.
func NewRotate(child Pattern, offset rational.Rational) *Rotate {
	return &Rotate{Child: child, Offset: offset}
}

func (p *Rotate) Query(a Arc, ctx QueryCtx) []Event {
	if !a.Valid() {
		return nil
	}
	inner := a.Shift(rational.Neg(p.Offset))
	events := p.Child.Query(inner, ctx)
	out := make([]Event, 0, len(events))
	for i, e := range events {
		e.Part = e.Part.Shift(p.Offset)
		if e.Whole != nil {
			w := e.Whole.Shift(p.Offset)
			e.Whole = &w
		}
		out = append(out, e.WithInsertion(i))
	}
	return out
}
