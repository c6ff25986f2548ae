package sim

import (
	"math"

	"github.com/episim/episim/sim/graph"
)

// posInf is the "never" sentinel used by the predicted-infection-time table.
var posInf = math.Inf(1)

// Status is a node's epidemic compartment.
type Status uint8

const (
	Susceptible Status = iota
	Infected
	Recovered
)

// String returns the conventional one-letter compartment label.
func (s Status) String() string {
	switch s {
	case Susceptible:
		return "S"
	case Infected:
		return "I"
	case Recovered:
		return "R"
	}
	return "?"
}

// statusTable maps nodes to statuses. Absent nodes are Susceptible: every
// node starts susceptible and only status changes are stored, so lookups of
// untouched nodes must see that default explicitly rather than relying on
// zero values scattered across call sites.
type statusTable struct {
	m map[graph.Node]Status
}

func newStatusTable() *statusTable {
	return &statusTable{m: make(map[graph.Node]Status)}
}

func (t *statusTable) get(n graph.Node) Status {
	return t.m[n] // zero value is Susceptible, the documented default
}

func (t *statusTable) set(n graph.Node, s Status) {
	t.m[n] = s
}

// timeTable maps nodes to times with an explicit default for absent keys.
// Used for recovery times (default "before the simulation started", so any
// comparison treats the node as never infectious) and predicted infection
// times (default +Inf, so any candidate transmission is an improvement).
type timeTable struct {
	m   map[graph.Node]float64
	def float64
}

func newTimeTable(def float64) *timeTable {
	return &timeTable{m: make(map[graph.Node]float64), def: def}
}

func (t *timeTable) get(n graph.Node) float64 {
	if v, ok := t.m[n]; ok {
		return v
	}
	return t.def
}

func (t *timeTable) set(n graph.Node, v float64) {
	t.m[n] = v
}
