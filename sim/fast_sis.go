package sim

import (
	"github.com/sirupsen/logrus"

	"github.com/episim/episim/sim/graph"
	"github.com/episim/episim/sim/trace"
)

// FastSIS runs the event-driven SIS engine with Markovian dynamics. Because
// exponential rates are memoryless, only the next candidate transmission per
// (source, target) pair is ever queued; firing it re-arms the next one.
// Weight functions in rates are honored per edge and per node.
func FastSIS(g graph.Graph, rates Rates, cfg RunConfig) (*Result, error) {
	if err := cfg.validateSIS(); err != nil {
		return nil, err
	}
	rng := NewPartitionedRNG(NewSimulationKey(cfg.Seed))

	st := &fastSISState{
		g:       g,
		queue:   NewEventQueue(cfg.horizon()),
		status:  newStatusTable(),
		recTime: newTimeTable(cfg.TMin - 1),
		rates:   rates,
		rng:     rng,
	}
	if cfg.FullHistory {
		st.rec = trace.NewRecorder(cfg.TMin)
	}
	st.series = newSeries(false, cfg.TMin, g.Order(), 0, 0)

	initial := cfg.resolveInitialInfecteds(g, rng.ForSubsystem(SubsystemInitial))
	for _, n := range initial {
		node := n
		st.queue.Push(cfg.TMin, func(t float64) { st.processSeed(t, node) })
	}

	logrus.Debugf("FastSIS: seeded %d infections on %d nodes, horizon=%v", len(initial), g.Order(), st.queue.Horizon())
	for st.queue.Len() > 0 {
		st.queue.PopAndRun()
	}

	st.series.stripSeed(len(initial))
	return st.series.result(st.rec), nil
}

// fastSISState is the mutable state of one Markovian SIS run.
type fastSISState struct {
	g     graph.Graph
	queue *EventQueue

	status *statusTable

	// recTime holds each node's latest scheduled recovery time, default
	// tmin-1 ("never infected"). Unlike SIR it stays meaningful across
	// repeated infections: a popped transmission is valid only while the
	// source's current infectious period covers it.
	recTime *timeTable

	rates Rates
	rng   *PartitionedRNG

	series *series
	rec    *trace.Recorder
}

// processSeed infects an initially-infected node at the start time.
func (st *fastSISState) processSeed(t float64, target graph.Node) {
	if st.status.get(target) == Susceptible {
		st.infect(t, target)
	}
}

// processTransmission fires when source's queued transmission to target
// comes up. The infection attempt itself may be stale (target already
// infected); either way, if the source is still inside the infectious period
// that generated this event, the next candidate for the pair is re-armed.
func (st *fastSISState) processTransmission(t float64, source, target graph.Node) {
	if st.status.get(target) == Susceptible {
		st.infect(t, target)
	}
	st.scheduleNextTransmission(t, source, target)
}

// infect flips target to Infected, draws its recovery, and arms the first
// candidate transmission toward every neighbor.
func (st *fastSISState) infect(t float64, target graph.Node) {
	st.status.set(target, Infected)
	st.series.record(t, -1, +1, 0)
	st.rec.Record(target, t, Infected.String())

	recoverAt := t + expDraw(st.rng.ForSubsystem(SubsystemDynamics), st.rates.recRate(target))
	st.recTime.set(target, recoverAt)
	st.queue.Push(recoverAt, func(t2 float64) { st.processRecovery(t2, target) })

	for _, v := range st.g.Neighbors(target) {
		st.scheduleNextTransmission(t, target, v)
	}
}

// scheduleNextTransmission queues the next candidate transmission from
// source to target, if one can land while the source is still infectious.
// Candidates that would arrive during the target's own current infectious
// period are pushed past its recovery, re-drawn from the same memoryless
// distribution.
func (st *fastSISState) scheduleNextTransmission(t float64, source, target graph.Node) {
	rate := st.rates.transRate(source, target)
	if rate <= 0 {
		return
	}
	sourceRec := st.recTime.get(source)
	targetRec := st.recTime.get(target)
	if targetRec >= sourceRec {
		// The target outlasts the source's infectious period; nothing the
		// source sends can matter.
		return
	}
	rng := st.rng.ForSubsystem(SubsystemDynamics)
	at := t + expDraw(rng, rate)
	if at < targetRec {
		at = targetRec + expDraw(rng, rate)
	}
	if at < sourceRec {
		st.queue.Push(at, func(t2 float64) { st.processTransmission(t2, source, target) })
	}
}

// processRecovery returns node to Susceptible; SIS has no terminal state.
func (st *fastSISState) processRecovery(t float64, node graph.Node) {
	st.status.set(node, Susceptible)
	st.series.record(t, +1, -1, 0)
	st.rec.Record(node, t, Susceptible.String())
}

// FastNonMarkovSIS runs the event-driven SIS engine with a caller-supplied
// timing rule: a joint SISTiming, or a split pair of an SISTransmissionTimer
// (returning all candidate delays within the recovery window) and a
// RecoveryTimer. Exactly one form must be supplied.
func FastNonMarkovSIS(g graph.Graph, tc SISTimingConfig, cfg RunConfig) (*Result, error) {
	timing, err := tc.resolve()
	if err != nil {
		return nil, err
	}
	if err := cfg.validateSIS(); err != nil {
		return nil, err
	}
	rng := NewPartitionedRNG(NewSimulationKey(cfg.Seed))

	st := &nonMarkovSISState{
		g:       g,
		queue:   NewEventQueue(cfg.horizon()),
		status:  newStatusTable(),
		recTime: newTimeTable(cfg.TMin - 1),
		timing:  timing,
	}
	if cfg.FullHistory {
		st.rec = trace.NewRecorder(cfg.TMin)
	}
	st.series = newSeries(false, cfg.TMin, g.Order(), 0, 0)

	initial := cfg.resolveInitialInfecteds(g, rng.ForSubsystem(SubsystemInitial))
	for _, n := range initial {
		node := n
		st.queue.Push(cfg.TMin, func(t float64) { st.processTransmission(t, node, nil) })
	}

	logrus.Debugf("FastNonMarkovSIS: seeded %d infections on %d nodes", len(initial), g.Order())
	for st.queue.Len() > 0 {
		st.queue.PopAndRun()
	}

	st.series.stripSeed(len(initial))
	return st.series.result(st.rec), nil
}

// nonMarkovSISState is the mutable state of one non-Markovian SIS run.
// Arbitrary delay distributions are not memoryless, so each transmission
// event carries the remaining candidate arrival times for its (source,
// target) pair; firing one re-queues the rest.
type nonMarkovSISState struct {
	g     graph.Graph
	queue *EventQueue

	status  *statusTable
	recTime *timeTable
	timing  SISTiming

	series *series
	rec    *trace.Recorder
}

// processTransmission handles a transmission arriving at target carrying the
// pair's future candidate arrival times. Seeds arrive with a nil future.
func (st *nonMarkovSISState) processTransmission(t float64, target graph.Node, future []float64) {
	if st.status.get(target) == Susceptible {
		st.status.set(target, Infected)
		st.series.record(t, -1, +1, 0)
		st.rec.Record(target, t, Infected.String())

		neighbors := st.g.Neighbors(target)
		transDelays, recDelay := st.timing.Delays(target, neighbors)

		recoverAt := t + recDelay
		st.recTime.set(target, recoverAt)
		st.queue.Push(recoverAt, func(t2 float64) { st.processRecovery(t2, target) })

		// target now plays the source role toward each neighbor.
		for _, v := range neighbors {
			delays := transDelays[v]
			if len(delays) == 0 {
				continue
			}
			arrivals := make([]float64, 0, len(delays))
			for _, d := range delays {
				arrivals = append(arrivals, t+d)
			}
			if st.status.get(v) == Infected {
				// Only attempts after v's current infectious period can
				// find it susceptible.
				arrivals = afterTime(arrivals, st.recTime.get(v))
			}
			if len(arrivals) > 0 {
				neighbor := v
				rest := arrivals[1:]
				st.queue.Push(arrivals[0], func(t2 float64) { st.processTransmission(t2, neighbor, rest) })
			}
		}
	}

	// target is infected now, whether or not this event did it. Re-queue
	// the pair's pending attempts that land after its current infectious
	// period.
	pending := afterTime(future, st.recTime.get(target))
	if len(pending) > 0 {
		st.queue.Push(pending[0], func(t2 float64) { st.processTransmission(t2, target, pending[1:]) })
	}
}

func (st *nonMarkovSISState) processRecovery(t float64, node graph.Node) {
	st.status.set(node, Susceptible)
	st.series.record(t, +1, -1, 0)
	st.rec.Record(node, t, Susceptible.String())
}

// afterTime returns the arrival times strictly after cutoff, preserving
// order.
func afterTime(times []float64, cutoff float64) []float64 {
	out := times[:0:0]
	for _, t := range times {
		if t > cutoff {
			out = append(out, t)
		}
	}
	return out
}
