package sim

import (
	"github.com/episim/episim/sim/trace"
)

// Result is the common output contract of every engine: a non-decreasing
// event time sequence with parallel per-status counts, each entry giving the
// population immediately after the corresponding event. R is nil for SIS
// runs. History is nil unless the run asked for full per-node histories.
type Result struct {
	Times []float64
	S     []int
	I     []int
	R     []int

	History *trace.History
}

// Len returns the number of recorded events.
func (r *Result) Len() int { return len(r.Times) }

// series accumulates the count trajectories during a run. Engines own one
// instance and thread it through their handlers, instead of rebuilding the
// same argument tuple at every call site.
type series struct {
	times []float64
	s     []int
	i     []int
	r     []int
	sir   bool
}

func newSeries(sir bool, tmin float64, s0, i0, r0 int) *series {
	se := &series{
		times: []float64{tmin},
		s:     []int{s0},
		i:     []int{i0},
		sir:   sir,
	}
	if sir {
		se.r = []int{r0}
	}
	return se
}

// record appends one event: the time and the per-status deltas relative to
// the previous entry.
func (se *series) record(t float64, ds, di, dr int) {
	last := len(se.times) - 1
	se.times = append(se.times, t)
	se.s = append(se.s, se.s[last]+ds)
	se.i = append(se.i, se.i[last]+di)
	if se.sir {
		se.r = append(se.r, se.r[last]+dr)
	}
}

func (se *series) len() int { return len(se.times) }

// stripSeed drops the first k entries. Seed infections are processed as
// ordinary events at the start time, so their entries (and the pre-seed
// head) are removed to make the series start at the fully-seeded state.
func (se *series) stripSeed(k int) {
	if k <= 0 || k > len(se.times) {
		return
	}
	se.times = se.times[k:]
	se.s = se.s[k:]
	se.i = se.i[k:]
	if se.sir {
		se.r = se.r[k:]
	}
}

func (se *series) result(rec *trace.Recorder) *Result {
	return &Result{
		Times:   se.times,
		S:       se.s,
		I:       se.i,
		R:       se.r,
		History: rec.Histories(),
	}
}
