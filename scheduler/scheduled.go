package scheduler

import "container/heap"

// ScheduledVoice is a voice that has been timed but not yet promoted to
// active (spec.md §3 "ScheduledVoice"). RawEvent carries the voice.Spec
// the control side already decoded; promotion type-asserts it back to a
// voice.Spec and does not decode again.
type ScheduledVoice struct {
	PlaybackID   string
	StartFrame   int64
	GateEndFrame int64
	EndFrame     int64
	RawEvent     any
}

// scheduledHeap is a container/heap min-heap of ScheduledVoice ordered by
// StartFrame (spec.md §3 "stored in a min-heap keyed on startFrame").
type scheduledHeap []ScheduledVoice

func (h scheduledHeap) Len() int            { return len(h) }
func (h scheduledHeap) Less(i, j int) bool  { return h[i].StartFrame < h[j].StartFrame }
func (h scheduledHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *scheduledHeap) Push(x any)         { *h = append(*h, x.(ScheduledVoice)) }
func (h *scheduledHeap) Pop() any {
	old := *h
	n := len(old)
	v := old[n-1]
	*h = old[:n-1]
	return v
}

var _ heap.Interface = (*scheduledHeap)(nil)
