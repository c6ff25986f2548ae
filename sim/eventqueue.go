package sim

import "container/heap"

// Callback is a scheduled action. It receives the event's scheduled time,
// which becomes the current simulation time when the event fires.
type Callback func(t float64)

// queuedEvent pairs a callback with its scheduled time. seq is a
// monotonically increasing tie-breaker assigned at insertion so that
// equal-time events pop in FIFO order.
type queuedEvent struct {
	time float64
	seq  uint64
	fn   Callback
}

// eventHeap implements heap.Interface ordered by (time, seq).
// See canonical Golang example here: https://pkg.go.dev/container/heap#example-package-IntHeap
type eventHeap []*queuedEvent

func (h eventHeap) Len() int { return len(h) }
func (h eventHeap) Less(i, j int) bool {
	if h[i].time == h[j].time {
		return h[i].seq < h[j].seq
	}
	return h[i].time < h[j].time
}
func (h eventHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *eventHeap) Push(x any) {
	*h = append(*h, x.(*queuedEvent))
}

func (h *eventHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = nil // avoid memory leak
	*h = old[0 : n-1]
	return item
}

// EventQueue is a time-ordered queue of pending callbacks with a hard
// simulation horizon. Events scheduled at or beyond the horizon are silently
// dropped at push time. There is no cancel operation: engines invalidate
// stale events logically, by re-checking state when the event fires.
type EventQueue struct {
	events  eventHeap
	horizon float64
	seq     uint64
}

// NewEventQueue returns an empty queue with the given horizon. Use
// math.Inf(1) for an unbounded horizon.
func NewEventQueue(horizon float64) *EventQueue {
	return &EventQueue{horizon: horizon}
}

// Push schedules fn at time t. If t is not strictly before the horizon the
// event is dropped without being enqueued.
func (q *EventQueue) Push(t float64, fn Callback) {
	if t >= q.horizon {
		return
	}
	heap.Push(&q.events, &queuedEvent{time: t, seq: q.seq, fn: fn})
	q.seq++
}

// PopAndRun removes the earliest event (FIFO among equal times) and invokes
// its callback with the event's time. Popping an empty queue is a broken
// drain-loop invariant and panics.
func (q *EventQueue) PopAndRun() {
	if len(q.events) == 0 {
		panic("EventQueue.PopAndRun: empty queue")
	}
	ev := heap.Pop(&q.events).(*queuedEvent)
	ev.fn(ev.time)
}

// Len returns the number of pending events.
func (q *EventQueue) Len() int { return len(q.events) }

// Horizon returns the queue's cutoff time.
func (q *EventQueue) Horizon() float64 { return q.horizon }
