package pattern

import "github.com/strataforge/strata-engine/rational"

// Choose draws one child per integer cycle via rng(seed, nodeId, cycleInt)
// and queries it on the intersected arc (spec.md §4.1 "Choose(children,
// seed)"). The draw is keyed by QueryCtx.RNGSeed and Node, never by any
// state Choose itself owns, so repeated queries of the same cycle always
// pick the same child.
type Choose struct {
	Children []Pattern
	Node     NodeID
}

// NewChoose builds a Choose pattern. node should come from a shared
// Builder so the same script always assigns the same NodeID.
func NewChoose(node NodeID, children ...Pattern) *Choose {
	return &Choose{Children: children, Node: node}
}

func (p *Choose) Query(a Arc, ctx QueryCtx) []Event {
	if !a.Valid() || len(p.Children) == 0 {
		return nil
	}
	var out []Event
	insertion := 0
	for _, cyc := range CycleArcs(a) {
		cycleNum := rational.FloorInt(cyc.Begin)
		idx := rngChoice(ctx.RNGSeed, p.Node, cycleNum, 0, len(p.Children))
		for _, e := range p.Children[idx].Query(cyc, ctx) {
			out = append(out, e.WithInsertion(insertion))
			insertion++
		}
	}
	SortEvents(out)
	return out
}
