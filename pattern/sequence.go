package pattern

import "github.com/strataforge/strata-engine/rational"

// SeqChild is one weighted child of a Sequence.
type SeqChild struct {
	Pattern Pattern
	Weight  rational.Rational
}

// Sequence partitions each cycle into sub-arcs proportional to the
// children's weights and queries each child in its own remapped local
// time domain (spec.md §4.1 "Sequence(children, weights)").
type Sequence struct {
	Children []SeqChild
}

// NewSequence builds a Sequence giving every child equal weight 1/n.
func NewSequence(children ...Pattern) *Sequence {
	if len(children) == 0 {
		return &Sequence{}
	}
	w := rational.New(1, int64(len(children)))
	sc := make([]SeqChild, len(children))
	for i, c := range children {
		sc[i] = SeqChild{Pattern: c, Weight: w}
	}
	return &Sequence{Children: sc}
}

// NewWeightedSequence builds a Sequence from explicit (pattern, weight)
// pairs. Weights need not already sum to 1; they are normalized.
func NewWeightedSequence(children []SeqChild) *Sequence {
	total := rational.Zero
	for _, c := range children {
		total = rational.Add(total, c.Weight)
	}
	if total.Num == 0 {
		return &Sequence{}
	}
	out := make([]SeqChild, len(children))
	for i, c := range children {
		out[i] = SeqChild{Pattern: c.Pattern, Weight: rational.Div(c.Weight, total)}
	}
	return &Sequence{Children: out}
}

func (p *Sequence) Query(a Arc, ctx QueryCtx) []Event {
	if !a.Valid() || len(p.Children) == 0 {
		return nil
	}
	var out []Event
	insertion := 0
	for _, cyc := range CycleArcs(a) {
		cycleNum := rational.FloorInt(cyc.Begin)
		cycleBegin := rational.FromInt(cycleNum)

		offset := rational.Zero
		for _, child := range p.Children {
			subLen := child.Weight // weight is already a fraction of 1 cycle
			subBegin := rational.Add(cycleBegin, offset)
			subEnd := rational.Add(subBegin, subLen)
			subArc := Arc{Begin: subBegin, End: subEnd}

			visible, ok := subArc.Intersect(cyc)
			offset = rational.Add(offset, subLen)
			if !ok || visible.Empty() || subLen.Num == 0 {
				continue
			}

			// Remap to the child's own [0,1) time domain.
			localArc := remapToLocal(visible, subBegin, subLen)
			childEvents := child.Pattern.Query(localArc, ctx)
			for _, e := range childEvents {
				e.Part = remapFromLocal(e.Part, subBegin, subLen)
				if e.Whole != nil {
					w := remapFromLocal(*e.Whole, subBegin, subLen)
					e.Whole = &w
				}
				// Boundary policy: clip Part to the sub-arc's visible
				// portion within the queried arc, keeping Whole intact
				// even when it extends past the sub-boundary.
				clipped, ok := e.Part.Intersect(visible)
				if !ok || clipped.Empty() {
					continue
				}
				e.Part = clipped
				out = append(out, e.WithInsertion(insertion))
				insertion++
			}
		}
	}
	SortEvents(out)
	return out
}

// remapToLocal maps a sub-cycle-relative arc into the child's own [0,1)
// cycle domain: local = (t - subBegin) / subLen.
func remapToLocal(a Arc, subBegin, subLen rational.Rational) Arc {
	return Arc{
		Begin: rational.Div(rational.Sub(a.Begin, subBegin), subLen),
		End:   rational.Div(rational.Sub(a.End, subBegin), subLen),
	}
}

// remapFromLocal is the inverse of remapToLocal: t = local*subLen + subBegin.
func remapFromLocal(a Arc, subBegin, subLen rational.Rational) Arc {
	return Arc{
		Begin: rational.Add(rational.Mul(a.Begin, subLen), subBegin),
		End:   rational.Add(rational.Mul(a.End, subLen), subBegin),
	}
}
