// Package sample implements SampleStore (spec.md §4.9): the control-side
// cache and at-most-one-load-in-flight guarantee for sample PCM, fronting
// the asset-decoding collaborator that spec.md §1 places out of scope.
package sample

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"
)

// SampleRequest identifies a sample by all four optional fields
// (spec.md §3 "Sample identity"); equality is by value, so it is usable
// directly as a map key.
type SampleRequest struct {
	Bank  string
	Sound string
	Index int
	Note  string
}

func (r SampleRequest) key() string {
	return fmt.Sprintf("%s\x00%s\x00%d\x00%s", r.Bank, r.Sound, r.Index, r.Note)
}

// LoadedSample is the decoded result of resolving a SampleRequest
// (spec.md §3).
type LoadedSample struct {
	PCM        []float32
	SampleRate int
	Note       string
	HasNote    bool
	PitchHz    float64
}

// State is a SampleRequest's position in the load state machine
// (spec.md §4.9).
type State int

const (
	NotRequested State = iota
	InFlight
	Sent
	NotFound
)

// Loader resolves a SampleRequest to PCM, the external asset-decoding
// collaborator spec.md §1 places out of scope for this module.
type Loader interface {
	Load(ctx context.Context, req SampleRequest) (LoadedSample, error)
}

// Store guarantees at most one concurrent load per request id; a second
// request for the same id joins the in-flight load rather than issuing
// a duplicate (spec.md §4.9), using singleflight.Group for that guarantee
// instead of a hand-rolled mutex-and-pending-channel map.
type Store struct {
	group  singleflight.Group
	loader Loader

	mu     sync.Mutex
	states map[SampleRequest]State
	loaded map[SampleRequest]LoadedSample
}

// NewStore builds a Store backed by loader.
func NewStore(loader Loader) *Store {
	return &Store{
		loader: loader,
		states: make(map[SampleRequest]State),
		loaded: make(map[SampleRequest]LoadedSample),
	}
}

// State returns req's current state, NotRequested if it has never been
// requested.
func (s *Store) State(req SampleRequest) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.states[req]
}

// EnsureLoaded blocks until req reaches Sent or NotFound, returning the
// loaded sample (zero value if NotFound). Sent and NotFound are both
// terminal: a request already in one of those states returns immediately
// without invoking the loader again (spec.md §4.9 "Sent is a terminal
// state until an explicit clear"; §7 "NotFound is final per request").
func (s *Store) EnsureLoaded(ctx context.Context, req SampleRequest) (LoadedSample, State) {
	if loaded, st, done := s.terminal(req); done {
		return loaded, st
	}

	s.mu.Lock()
	s.states[req] = InFlight
	s.mu.Unlock()

	v, _, _ := s.group.Do(req.key(), func() (any, error) {
		loaded, err := s.loader.Load(ctx, req)
		s.mu.Lock()
		defer s.mu.Unlock()
		if err != nil {
			s.states[req] = NotFound
			return LoadedSample{}, nil
		}
		s.states[req] = Sent
		s.loaded[req] = loaded
		return loaded, nil
	})

	loaded, _ := s.terminalLocked(req)
	return v.(LoadedSample), loaded
}

// TryGet returns req's loaded sample and state without blocking or
// starting a load. The sample is meaningful only when the state is Sent.
func (s *Store) TryGet(req SampleRequest) (LoadedSample, State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.states[req]
	return s.loaded[req], st
}

// RequestAsync starts loading req without waiting for completion
// (spec.md §4.9 "fire-and-forget variant returns immediately"). Safe to
// call repeatedly; duplicate in-flight loads are coalesced the same way
// EnsureLoaded coalesces them.
func (s *Store) RequestAsync(req SampleRequest) {
	if _, _, done := s.terminal(req); done {
		return
	}
	s.mu.Lock()
	if s.states[req] == NotRequested {
		s.states[req] = InFlight
	}
	s.mu.Unlock()
	go func() {
		s.group.Do(req.key(), func() (any, error) {
			loaded, err := s.loader.Load(context.Background(), req)
			s.mu.Lock()
			defer s.mu.Unlock()
			if err != nil {
				s.states[req] = NotFound
				return LoadedSample{}, nil
			}
			s.states[req] = Sent
			s.loaded[req] = loaded
			return loaded, nil
		})
	}()
}

func (s *Store) terminal(req SampleRequest) (LoadedSample, State, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.states[req]
	if st == Sent || st == NotFound {
		return s.loaded[req], st, true
	}
	return LoadedSample{}, st, false
}

func (s *Store) terminalLocked(req SampleRequest) (State, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.states[req]
	return st, st == Sent || st == NotFound
}
