package pattern

import (
	"reflect"
	"testing"

	"github.com/strataforge/strata-engine/rational"
)

func r(n, d int64) rational.Rational { return rational.New(n, d) }

func fullCycle() Arc { return Arc{Begin: rational.Zero, End: rational.One} }

// S1: sound("bd hh sd oh") over one cycle.
func TestSequenceFourWords(t *testing.T) {
	words := []string{"bd", "hh", "sd", "oh"}
	children := make([]Pattern, len(words))
	for i, w := range words {
		children[i] = NewAtomicAt(Value{"sound": w}, SourceSpan{Line: 1, StartColumn: i * 3})
	}
	seq := NewSequence(children...)
	events := seq.Query(fullCycle(), QueryCtx{})
	if len(events) != 4 {
		t.Fatalf("got %d events, want 4", len(events))
	}
	wantBegin := []rational.Rational{r(0, 1), r(1, 4), r(2, 4), r(3, 4)}
	wantEnd := []rational.Rational{r(1, 4), r(2, 4), r(3, 4), r(1, 1)}
	for i, e := range events {
		if !rational.Equal(e.Part.Begin, wantBegin[i]) {
			t.Errorf("event %d part.begin = %v, want %v", i, e.Part.Begin, wantBegin[i])
		}
		if !rational.Equal(e.Part.End, wantEnd[i]) {
			t.Errorf("event %d part.end = %v, want %v", i, e.Part.End, wantEnd[i])
		}
		if got, _ := e.Data.String("sound"); got != words[i] {
			t.Errorf("event %d sound = %q, want %q", i, got, words[i])
		}
		outer, ok := e.SourceLocations.Outermost()
		if !ok {
			t.Fatalf("event %d has no source location", i)
		}
		if outer.StartColumn != i*3 {
			t.Errorf("event %d outermost.StartColumn = %d, want %d", i, outer.StartColumn, i*3)
		}
	}
}

// S3: Euclidean [3,8] onsets at 0, 3/8, 6/8.
func TestEuclideanThreeEight(t *testing.T) {
	e := NewEuclidean(3, 8, 0, Value{"n": 1.0})
	events := e.Query(fullCycle(), QueryCtx{})
	if len(events) != 3 {
		t.Fatalf("got %d events, want 3", len(events))
	}
	want := []rational.Rational{r(0, 8), r(3, 8), r(6, 8)}
	for i, ev := range events {
		if !rational.Equal(ev.Part.Begin, want[i]) {
			t.Errorf("event %d part.begin = %v, want %v", i, ev.Part.Begin, want[i])
		}
	}
}

// S4: stack(silence, atom(1)) yields exactly one event.
func TestStackWithSilence(t *testing.T) {
	s := NewStack(Silence{}, NewAtomic(Value{"n": 1.0}))
	events := s.Query(fullCycle(), QueryCtx{})
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	if n, _ := events[0].Data.Number("n"); n != 1 {
		t.Errorf("value = %v, want 1", n)
	}
}

// Universal property 1: query purity.
func TestQueryPurity(t *testing.T) {
	p := buildSamplePattern()
	a := Arc{Begin: r(0, 1), End: r(3, 1)}
	ctx := QueryCtx{RNGSeed: 42}
	first := p.Query(a, ctx)
	second := p.Query(a, ctx)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("query not pure:\n%+v\nvs\n%+v", first, second)
	}
}

// Universal property 2: rational exactness of euclidean onset lengths.
// Five onsets of one 1/8 step each sum to exactly 5/8.
func TestEuclideanOnsetLengthsSumExactly(t *testing.T) {
	e := NewEuclidean(5, 8, 0, Value{"n": 1.0})
	events := e.Query(fullCycle(), QueryCtx{})
	total := rational.Zero
	for _, ev := range events {
		total = rational.Add(total, ev.Whole.Len())
	}
	want := rational.New(5, 8)
	if !rational.Equal(total, want) {
		t.Errorf("total onset length = %v, want %v", total, want)
	}
}

// Universal property 3: arc containment.
func TestArcContainment(t *testing.T) {
	p := buildSamplePattern()
	a := Arc{Begin: r(1, 4), End: r(5, 2)}
	for _, e := range p.Query(a, QueryCtx{RNGSeed: 7}) {
		if !a.Contains(e.Part) {
			t.Errorf("event part %v not contained in queried arc %v", e.Part, a)
		}
		if e.Whole != nil && !e.Whole.Contains(e.Part) {
			t.Errorf("event part %v not contained in whole %v", e.Part, *e.Whole)
		}
	}
}

// eventSummary compares the observable parts of an Event, ignoring the
// insertion bookkeeping field which transformers are free to renumber.
type eventSummary struct {
	Whole Arc
	HasWhole bool
	Part  Arc
	Data  Value
	Locs  Chain
}

func summarize(events []Event) []eventSummary {
	out := make([]eventSummary, len(events))
	for i, e := range events {
		s := eventSummary{Part: e.Part, Data: e.Data, Locs: e.SourceLocations}
		if e.Whole != nil {
			s.Whole = *e.Whole
			s.HasWhole = true
		}
		out[i] = s
	}
	return out
}

// Universal property 4: slow(k).fast(k) is the identity; a single-element
// stack is the identity.
func TestCompositionLaws(t *testing.T) {
	base := buildSamplePattern()
	k := r(3, 2)
	roundTrip := NewFast(NewSlow(base, k), k)
	a := Arc{Begin: r(0, 1), End: r(4, 1)}
	ctx := QueryCtx{RNGSeed: 99}
	got := roundTrip.Query(a, ctx)
	want := base.Query(a, ctx)
	if !reflect.DeepEqual(summarize(got), summarize(want)) {
		t.Fatalf("slow(k).fast(k) != identity:\n%+v\nvs\n%+v", got, want)
	}

	single := NewStack(base)
	gotStack := single.Query(a, ctx)
	wantStack := base.Query(a, ctx)
	if !reflect.DeepEqual(summarize(gotStack), summarize(wantStack)) {
		t.Fatalf("single-element stack != identity:\n%+v\nvs\n%+v", gotStack, wantStack)
	}
}

// Universal property 5: onset monotonicity.
func TestOnsetMonotonicity(t *testing.T) {
	p := buildSamplePattern()
	a := Arc{Begin: r(0, 1), End: r(5, 1)}
	events := p.Query(a, QueryCtx{RNGSeed: 3})
	for i := 1; i < len(events); i++ {
		if rational.Less(events[i].Part.Begin, events[i-1].Part.Begin) {
			t.Fatalf("events not sorted ascending by part.begin at index %d", i)
		}
	}
}

// Universal property 6: location preservation.
func TestLocationPreservation(t *testing.T) {
	span := SourceSpan{Line: 2, StartColumn: 5, EndColumn: 8}
	a := NewAtomicAt(Value{"sound": "bd"}, span)
	events := a.Query(fullCycle(), QueryCtx{})
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	outer, ok := events[0].SourceLocations.Outermost()
	if !ok {
		t.Fatal("expected non-empty source location chain")
	}
	if outer != span {
		t.Errorf("outermost span = %+v, want %+v", outer, span)
	}
}

func TestChooseDeterministicPerSeed(t *testing.T) {
	options := []Pattern{
		NewAtomic(Value{"n": 1.0}),
		NewAtomic(Value{"n": 2.0}),
		NewAtomic(Value{"n": 3.0}),
	}
	c := NewChoose(NodeID(1), options...)
	a := Arc{Begin: r(0, 1), End: r(8, 1)}
	ctx := QueryCtx{RNGSeed: 1234}
	first := c.Query(a, ctx)
	second := c.Query(a, ctx)
	if !reflect.DeepEqual(first, second) {
		t.Fatal("Choose is not deterministic for a fixed seed")
	}
}

func TestStructMasksOnsetsOnly(t *testing.T) {
	mask := NewEuclidean(3, 8, 0, Value{"gate": true})
	s := NewStruct(mask, Value{"sound": "bd"}, "gate")
	events := s.Query(fullCycle(), QueryCtx{})
	if len(events) != 3 {
		t.Fatalf("got %d events, want 3", len(events))
	}
	for _, e := range events {
		if got, _ := e.Data.String("sound"); got != "bd" {
			t.Errorf("sound = %q, want bd", got)
		}
	}
}

func TestRotateShiftsEvents(t *testing.T) {
	base := NewSequence(NewAtomic(Value{"n": 1.0}), NewAtomic(Value{"n": 2.0}))
	rot := NewRotate(base, r(1, 2))
	events := rot.Query(fullCycle(), QueryCtx{})
	if len(events) == 0 {
		t.Fatal("expected events after rotate")
	}
	for _, e := range events {
		if n, ok := e.Data.Number("n"); ok && n == 2 {
			if !rational.Equal(e.Part.Begin, rational.Zero) {
				t.Errorf("rotated second step part.begin = %v, want 0", e.Part.Begin)
			}
			return
		}
	}
	t.Fatal("expected to find rotated second step at cycle start")
}

func buildSamplePattern() Pattern {
	return NewSequence(
		NewAtomicAt(Value{"sound": "bd"}, SourceSpan{Line: 1, StartColumn: 0}),
		NewStack(
			NewAtomicAt(Value{"sound": "hh"}, SourceSpan{Line: 1, StartColumn: 3}),
			Silence{},
		),
		NewEuclidean(3, 8, 0, Value{"sound": "sd"}),
	)
}
