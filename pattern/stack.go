package pattern

// Stack queries every child on the same arc and concatenates the results,
// with no deduplication (spec.md §4.1 "Stack(children)"). All children
// share the same time domain, unlike Sequence's per-child remapping.
type Stack struct {
	Children []Pattern
}

// NewStack builds a Stack over the given children.
func NewStack(children ...Pattern) *Stack {
	return &Stack{Children: children}
}

func (p *Stack) Query(a Arc, ctx QueryCtx) []Event {
	if !a.Valid() || len(p.Children) == 0 {
		return nil
	}
	var out []Event
	insertion := 0
	for _, child := range p.Children {
		for _, e := range child.Query(a, ctx) {
			out = append(out, e.WithInsertion(insertion))
			insertion++
		}
	}
	SortEvents(out)
	return out
}
