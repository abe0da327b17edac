package pattern

import "github.com/strataforge/strata-engine/rational"

// Arc is a half-open interval [Begin, End) of rational cycles. The empty
// arc has Begin == End.
type Arc struct {
	Begin rational.Rational
	End   rational.Rational
}

// Len returns End - Begin.
func (a Arc) Len() rational.Rational {
	return rational.Sub(a.End, a.Begin)
}

// Empty reports whether the arc has zero or negative length.
func (a Arc) Empty() bool {
	return !rational.Less(a.Begin, a.End)
}

// Intersect returns the overlap of a and b. If the arcs are disjoint the
// result is an empty arc at the larger Begin, with ok false. Arcs that only
// touch (one ends where the other begins) give an empty arc with ok true.
func (a Arc) Intersect(b Arc) (Arc, bool) {
	begin := rational.Max(a.Begin, b.Begin)
	end := rational.Min(a.End, b.End)
	if rational.Less(end, begin) {
		return Arc{Begin: begin, End: begin}, false
	}
	return Arc{Begin: begin, End: end}, true
}

// Contains reports whether sub is wholly contained in a (sub ⊆ a).
func (a Arc) Contains(sub Arc) bool {
	return rational.LessEqual(a.Begin, sub.Begin) && rational.LessEqual(sub.End, a.End)
}

// Shift returns the arc translated by d.
func (a Arc) Shift(d rational.Rational) Arc {
	return Arc{Begin: rational.Add(a.Begin, d), End: rational.Add(a.End, d)}
}

// Scale returns the arc with both endpoints multiplied by k.
func (a Arc) Scale(k rational.Rational) Arc {
	return Arc{Begin: rational.Mul(a.Begin, k), End: rational.Mul(a.End, k)}
}

// Valid reports whether neither endpoint is NaN and Begin <= End.
func (a Arc) Valid() bool {
	if a.Begin.IsNaN() || a.End.IsNaN() {
		return false
	}
	return rational.LessEqual(a.Begin, a.End)
}

// CycleArcs splits arc into one sub-arc per integer cycle it intersects,
// in ascending order. Used by Atomic and any operator that must visit each
// cycle individually.
func CycleArcs(a Arc) []Arc {
	if !a.Valid() || a.Empty() {
		return nil
	}
	var out []Arc
	cycle := rational.FloorInt(a.Begin)
	for {
		cycleStart := rational.FromInt(cycle)
		cycleEnd := rational.FromInt(cycle + 1)
		sub, ok := a.Intersect(Arc{Begin: cycleStart, End: cycleEnd})
		if ok && !sub.Empty() {
			out = append(out, sub)
		}
		cycle++
		if !rational.Less(cycleEnd, a.End) {
			break
		}
	}
	return out
}
