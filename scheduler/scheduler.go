// Package scheduler implements the ordered future-event queue that
// drives GPU scanline progression, timer overflows, DMA activation and
// APU sampling by advancing virtual time rather than polling
// (spec.md §2, §4.1).
//
// The shape is grounded on the teacher's jeebie/events/events.go
// (EventScheduler/Schedule/ScheduleRelative/GetCurrentCycle naming),
// but the teacher's buffered channel is not deadline-ordered, which
// the spec's pop_ready ordering invariant (spec.md §8) requires. The
// queue here is a container/heap binary min-heap, the same structure
// original_source/core/src/sched.rs hand-rolls over Rust's BinaryHeap.
package scheduler

import "container/heap"

// Kind identifies the category of a scheduled event.
type Kind int

const (
	HDraw Kind = iota
	HBlank
	VBlankHDraw
	VBlankHBlank
	TimerOverflow0
	TimerOverflow1
	TimerOverflow2
	TimerOverflow3
	DmaActivate0
	DmaActivate1
	DmaActivate2
	DmaActivate3
	ApuSample
	ApuPsgK
	RunLimit
)

// TimerOverflowKind returns the Kind for timer channel i's overflow event.
func TimerOverflowKind(i int) Kind { return TimerOverflow0 + Kind(i) }

// DmaActivateKind returns the Kind for DMA channel i's activation event.
func DmaActivateKind(i int) Kind { return DmaActivate0 + Kind(i) }

// Event is a single (kind, deadline) pair sitting in the queue.
type Event struct {
	Kind     Kind
	Deadline uint64

	Seq int // insertion order, used only to break deadline ties FIFO
}

// eventHeap implements container/heap.Interface, ordered by deadline
// then by insertion sequence.
type eventHeap []Event

func (h eventHeap) Len() int { return len(h) }
func (h eventHeap) Less(i, j int) bool {
	if h[i].Deadline != h[j].Deadline {
		return h[i].Deadline < h[j].Deadline
	}
	return h[i].Seq < h[j].Seq
}
func (h eventHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *eventHeap) Push(x any)   { *h = append(*h, x.(Event)) }
func (h *eventHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// Scheduler owns the monotonic virtual clock and the pending event
// queue. Pending size is bounded to a few dozen entries in practice
// (one per timer/DMA channel plus a handful of GPU/APU events).
type Scheduler struct {
	now    uint64
	events eventHeap
	nextSeq int
}

// New returns an empty scheduler with the clock at zero.
func New() *Scheduler {
	s := &Scheduler{}
	heap.Init(&s.events)
	return s
}

// Now returns the current virtual cycle count.
func (s *Scheduler) Now() uint64 { return s.now }

// Schedule inserts (kind, now+delta).
func (s *Scheduler) Schedule(kind Kind, delta uint64) {
	s.ScheduleAt(kind, s.now+delta)
}

// ScheduleAt inserts an absolute-timed event, used for corrections
// when an event is serviced late.
func (s *Scheduler) ScheduleAt(kind Kind, when uint64) {
	heap.Push(&s.events, Event{Kind: kind, Deadline: when, Seq: s.nextSeq})
	s.nextSeq++
}

// Cancel removes all pending events with the matching kind. O(pending),
// but pending is bounded to a few dozen entries so this is cheap.
func (s *Scheduler) Cancel(kind Kind) {
	filtered := s.events[:0]
	for _, e := range s.events {
		if e.Kind != kind {
			filtered = append(filtered, e)
		}
	}
	s.events = filtered
	heap.Init(&s.events)
}

// PopReady returns one event with Deadline <= now and its lateness
// (now - Deadline), or ok=false if none is ready.
func (s *Scheduler) PopReady() (ev Event, lateness uint64, ok bool) {
	if len(s.events) == 0 {
		return Event{}, 0, false
	}
	head := s.events[0]
	if head.Deadline > s.now {
		return Event{}, 0, false
	}
	popped := heap.Pop(&s.events).(Event)
	return popped, s.now - popped.Deadline, true
}

// Advance adds dt to the virtual clock.
func (s *Scheduler) Advance(dt uint64) { s.now += dt }

// TimeToNext returns deadline-of-head minus now, or zero if empty.
func (s *Scheduler) TimeToNext() uint64 {
	if len(s.events) == 0 {
		return 0
	}
	if s.events[0].Deadline <= s.now {
		return 0
	}
	return s.events[0].Deadline - s.now
}

// FastForward advances now directly to the head event's deadline.
// Used when the CPU is halted (spec.md §4.7) so the scheduler doesn't
// need to be polled cycle-by-cycle.
func (s *Scheduler) FastForward() {
	if len(s.events) == 0 {
		return
	}
	if d := s.events[0].Deadline; d > s.now {
		s.now = d
	}
}

// Pending reports how many events are currently queued, for tests and
// debug introspection.
func (s *Scheduler) Pending() int { return len(s.events) }

// State is the exported queue image for save-state round-tripping:
// Now plus every pending event, in heap-internal order. Restoring via
// ImportState re-heapifies rather than relying on that order, so the
// round trip only needs Events' (Kind, Deadline, seq) triples to
// survive, not the array layout itself.
type State struct {
	Now    uint64
	Events []Event
}

// ExportState copies the current clock and pending queue.
func (s *Scheduler) ExportState() State {
	events := make([]Event, len(s.events))
	copy(events, s.events)
	return State{Now: s.now, Events: events}
}

// ImportState replaces the clock and queue, re-establishing the heap
// invariant and insertion-sequence counter from the restored events.
func (s *Scheduler) ImportState(st State) {
	s.now = st.Now
	s.events = make(eventHeap, len(st.Events))
	copy(s.events, st.Events)
	heap.Init(&s.events)
	s.nextSeq = 0
	for _, e := range st.Events {
		if e.Seq >= s.nextSeq {
			s.nextSeq = e.Seq + 1
		}
	}
}
