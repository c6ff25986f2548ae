package sim

import (
	"github.com/sirupsen/logrus"

	"github.com/episim/episim/sim/graph"
	"github.com/episim/episim/sim/trace"
)

// fastSIRState is the mutable state of one event-driven SIR run. Handlers
// mutate it through the receiver instead of threading half a dozen
// aggregates through every call.
type fastSIRState struct {
	g      graph.Graph
	queue  *EventQueue
	timing SIRTiming

	status *statusTable

	// recTime records each infected node's scheduled recovery time.
	// Default is tmin-1: a node never infected is treated as not
	// infectious at any simulation time.
	recTime *timeTable

	// predInfTime records the earliest currently-scheduled time each node
	// would be infected, +Inf by default. It only ever decreases. A
	// candidate transmission that is not strictly earlier is pruned at
	// schedule time, which is what keeps the queue from filling with
	// doomed duplicates.
	predInfTime *timeTable

	series *series
	rec    *trace.Recorder
}

// FastSIR runs the event-driven SIR engine with Markovian dynamics:
// exponential transmission at rate Tau per edge and exponential recovery at
// rate Gamma per node, both optionally scaled by the weight functions in
// rates.
func FastSIR(g graph.Graph, rates Rates, cfg RunConfig) (*Result, error) {
	rng := NewPartitionedRNG(NewSimulationKey(cfg.Seed))
	dynamics := rng.ForSubsystem(SubsystemDynamics)

	var tc SIRTimingConfig
	if rates.weighted() {
		// Heterogeneous edge rates: one independent exponential per edge.
		tc.Transmission = &ExponentialTransmissionTimer{Rates: rates, Rng: dynamics}
		tc.Recovery = &ExponentialRecoveryTimer{Rates: rates, Rng: dynamics}
	} else {
		// Constant edge rate: the binomial shortcut draws all of a node's
		// outgoing transmissions at once.
		tc.Joint = &markovSIRTiming{tau: rates.Tau, recRate: rates.recRate, rng: dynamics}
	}
	return fastSIR(g, tc, cfg, rng)
}

// FastNonMarkovSIR runs the event-driven SIR engine with a caller-supplied
// timing rule: either a joint SIRTiming or a split transmission+recovery
// timer pair (exactly one form).
func FastNonMarkovSIR(g graph.Graph, tc SIRTimingConfig, cfg RunConfig) (*Result, error) {
	return fastSIR(g, tc, cfg, NewPartitionedRNG(NewSimulationKey(cfg.Seed)))
}

func fastSIR(g graph.Graph, tc SIRTimingConfig, cfg RunConfig, rng *PartitionedRNG) (*Result, error) {
	timing, err := tc.resolve()
	if err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	st := &fastSIRState{
		g:           g,
		queue:       NewEventQueue(cfg.horizon()),
		timing:      timing,
		status:      newStatusTable(),
		recTime:     newTimeTable(cfg.TMin - 1),
		predInfTime: newTimeTable(posInf),
	}

	initial := cfg.resolveInitialInfecteds(g, rng.ForSubsystem(SubsystemInitial))
	if cfg.FullHistory {
		st.rec = trace.NewRecorder(cfg.TMin)
	}
	for _, n := range cfg.InitialRecovereds {
		st.status.set(n, Recovered)
		st.rec.Record(n, cfg.TMin, Recovered.String())
	}
	st.series = newSeries(true, cfg.TMin, g.Order()-len(cfg.InitialRecovereds), 0, len(cfg.InitialRecovereds))

	// Seed infections are ordinary transmission events at tmin; FIFO
	// tie-breaking guarantees they all fire before anything they schedule.
	for _, n := range initial {
		st.predInfTime.set(n, cfg.TMin)
		node := n
		st.queue.Push(cfg.TMin, func(t float64) { st.processTransmission(t, node) })
	}

	logrus.Debugf("FastSIR: seeded %d infections on %d nodes, horizon=%v", len(initial), g.Order(), st.queue.Horizon())
	for st.queue.Len() > 0 {
		st.queue.PopAndRun()
	}

	st.series.stripSeed(len(initial))
	logrus.Debugf("FastSIR: done after %d events", st.series.len())
	return st.series.result(st.rec), nil
}

// processTransmission fires when a scheduled transmission reaches node. A
// non-susceptible node means the event went stale after scheduling (another
// neighbor won the race); that is the expected null path of speculative
// scheduling, not a fault.
func (st *fastSIRState) processTransmission(t float64, node graph.Node) {
	if st.status.get(node) != Susceptible {
		return
	}
	st.status.set(node, Infected)
	st.series.record(t, -1, +1, 0)
	st.rec.Record(node, t, Infected.String())

	var sus []graph.Node
	for _, v := range st.g.Neighbors(node) {
		if st.status.get(v) == Susceptible {
			sus = append(sus, v)
		}
	}

	transDelay, recDelay := st.timing.Delays(node, sus)

	recoverAt := t + recDelay
	st.recTime.set(node, recoverAt)
	st.queue.Push(recoverAt, func(t2 float64) { st.processRecovery(t2, node) })

	// Iterate the neighbor slice, not the map, so equal-time scheduling
	// order is stable for a fixed seed.
	for _, v := range sus {
		delay, ok := transDelay[v]
		if !ok {
			continue
		}
		infectAt := t + delay
		// Discard candidates the source cannot deliver (it recovers
		// first), candidates that are not strictly earlier than the
		// target's best pending infection, and candidates past the
		// horizon.
		if infectAt > recoverAt || infectAt >= st.predInfTime.get(v) || infectAt >= st.queue.Horizon() {
			continue
		}
		target := v
		st.queue.Push(infectAt, func(t2 float64) { st.processTransmission(t2, target) })
		st.predInfTime.set(v, infectAt)
	}
}

// processRecovery moves node to the terminal Recovered state.
func (st *fastSIRState) processRecovery(t float64, node graph.Node) {
	st.status.set(node, Recovered)
	st.series.record(t, 0, -1, +1)
	st.rec.Record(node, t, Recovered.String())
}
