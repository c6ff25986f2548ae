// Package trace records per-node status changes during a simulation run and
// assembles them into per-node histories. It stores pure data types and has
// no dependency on the engine package.
package trace

import (
	"golang.org/x/exp/slices"

	"github.com/episim/episim/sim/graph"
)

// StatusChange is one entry of a node's history: the node held Status from
// Time until its next entry (or the end of the run).
type StatusChange struct {
	Time   float64
	Status string // "S", "I" or "R"
}

// Transition is a single recorded status change event.
type Transition struct {
	Node   graph.Node
	Time   float64
	Status string
}

// Recorder accumulates transitions in event order. A nil *Recorder discards
// records, so engines can call Record unconditionally.
type Recorder struct {
	start       float64
	transitions []Transition
}

// NewRecorder returns a Recorder for a run starting at the given time.
func NewRecorder(start float64) *Recorder {
	return &Recorder{start: start}
}

// Record appends one status change. No-op on a nil receiver.
func (r *Recorder) Record(n graph.Node, t float64, status string) {
	if r == nil {
		return
	}
	r.transitions = append(r.transitions, Transition{Node: n, Time: t, Status: status})
}

// Transitions returns all recorded transitions in event order.
func (r *Recorder) Transitions() []Transition {
	if r == nil {
		return nil
	}
	return r.transitions
}

// Histories groups the recorded transitions by node. Returns nil on a nil
// receiver.
func (r *Recorder) Histories() *History {
	if r == nil {
		return nil
	}
	h := &History{start: r.start, byNode: make(map[graph.Node][]StatusChange)}
	for _, tr := range r.transitions {
		h.byNode[tr.Node] = append(h.byNode[tr.Node], StatusChange{Time: tr.Time, Status: tr.Status})
	}
	return h
}

// History holds the ordered (time, status) sequence for every node that ever
// changed status.
type History struct {
	start  float64
	byNode map[graph.Node][]StatusChange
}

// Start returns the run's start time.
func (h *History) Start() float64 { return h.start }

// Nodes returns the nodes that changed status at least once, in ascending ID
// order.
func (h *History) Nodes() []graph.Node {
	nodes := make([]graph.Node, 0, len(h.byNode))
	for n := range h.byNode {
		nodes = append(nodes, n)
	}
	slices.Sort(nodes)
	return nodes
}

// Changed reports whether n ever changed status.
func (h *History) Changed(n graph.Node) bool {
	_, ok := h.byNode[n]
	return ok
}

// Node returns n's history. Nodes are seeded with a Susceptible entry at the
// start time unless their first change happened exactly at the start (an
// initial infected or recovered node was never observably susceptible).
// Nodes that never changed status report the single seed entry.
func (h *History) Node(n graph.Node) []StatusChange {
	changes := h.byNode[n]
	if len(changes) > 0 && changes[0].Time == h.start {
		return changes
	}
	out := make([]StatusChange, 0, len(changes)+1)
	out = append(out, StatusChange{Time: h.start, Status: "S"})
	return append(out, changes...)
}
