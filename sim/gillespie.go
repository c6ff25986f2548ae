package sim

import (
	"golang.org/x/exp/rand"

	"github.com/sirupsen/logrus"

	"github.com/episim/episim/sim/graph"
	"github.com/episim/episim/sim/trace"
)

// GillespieSIR runs the exact stochastic simulation algorithm for SIR with
// homogeneous exponential rates: transmission at tau per edge, recovery at
// gamma per node.
//
// Heterogeneous per-edge or per-node rates are deliberately unsupported
// here: the risk-bucket sampling scheme relies on integer infected-neighbor
// counts, and generalizing it to weighted rates would reintroduce the
// O(population) rate bookkeeping it exists to avoid. Weighted runs go
// through FastSIR/FastSIS instead.
func GillespieSIR(g graph.Graph, tau, gamma float64, cfg RunConfig) (*Result, error) {
	return gillespie(g, tau, gamma, cfg, true)
}

// GillespieSIS is the SIS counterpart of GillespieSIR. Recovery returns a
// node to Susceptible, so absorption happens only when no infected nodes
// remain or no further event is possible (total rate zero).
func GillespieSIS(g graph.Graph, tau, gamma float64, cfg RunConfig) (*Result, error) {
	return gillespie(g, tau, gamma, cfg, false)
}

// gillespieState is the mutable state of one SSA run.
type gillespieState struct {
	g      graph.Graph
	rng    *rand.Rand
	status *statusTable

	// infected is a flat list for O(1) uniform recovery selection via
	// swap-and-pop.
	infected []graph.Node

	// atRisk buckets susceptible nodes by infected-neighbor count for
	// weighted infection-target sampling.
	atRisk *RiskBuckets

	sir    bool
	series *series
	rec    *trace.Recorder
}

func gillespie(g graph.Graph, tau, gamma float64, cfg RunConfig, sir bool) (*Result, error) {
	var err error
	if sir {
		err = cfg.validate()
	} else {
		err = cfg.validateSIS()
	}
	if err != nil {
		return nil, err
	}
	rng := NewPartitionedRNG(NewSimulationKey(cfg.Seed))
	initial := cfg.resolveInitialInfecteds(g, rng.ForSubsystem(SubsystemInitial))

	st := &gillespieState{
		g:      g,
		rng:    rng.ForSubsystem(SubsystemDynamics),
		status: newStatusTable(),
		atRisk: NewRiskBuckets(),
		sir:    sir,
	}
	if cfg.FullHistory {
		st.rec = trace.NewRecorder(cfg.TMin)
	}

	recovered := 0
	if sir {
		recovered = len(cfg.InitialRecovereds)
		for _, n := range cfg.InitialRecovereds {
			st.status.set(n, Recovered)
			st.rec.Record(n, cfg.TMin, Recovered.String())
		}
	}
	for _, n := range initial {
		st.status.set(n, Infected)
		st.rec.Record(n, cfg.TMin, Infected.String())
	}
	st.infected = append(st.infected, initial...)
	for _, n := range initial {
		for _, v := range st.g.Neighbors(n) {
			if st.status.get(v) == Susceptible {
				st.atRisk.Increment(v)
			}
		}
	}
	st.series = newSeries(sir, cfg.TMin, g.Order()-len(initial)-recovered, len(initial), recovered)

	horizon := cfg.horizon()
	totalTransRate := tau * float64(st.atRisk.TotalWeight())
	totalRecRate := gamma * float64(len(st.infected))
	totalRate := totalTransRate + totalRecRate
	logrus.Debugf("Gillespie: %d initially infected, initial total rate %v", len(initial), totalRate)

	if totalRate <= 0 {
		return st.series.result(st.rec), nil
	}
	next := cfg.TMin + st.rng.ExpFloat64()/totalRate

	for next < horizon && len(st.infected) > 0 {
		r := st.rng.Float64() * totalRate
		if r < totalRecRate {
			st.recover(next)
		} else {
			st.infect(next)
		}

		totalTransRate = tau * float64(st.atRisk.TotalWeight())
		totalRecRate = gamma * float64(len(st.infected))
		totalRate = totalTransRate + totalRecRate
		if totalRate <= 0 {
			// Absorbing configuration: no event can ever fire again, so
			// the remaining horizon is consumed without advancing.
			break
		}
		next += st.rng.ExpFloat64() / totalRate
	}

	return st.series.result(st.rec), nil
}

// infect samples the next infection target proportional to its risk level
// and flips it.
func (st *gillespieState) infect(t float64) {
	recipient := st.atRisk.SampleWeighted(st.rng)
	st.atRisk.Remove(recipient)
	st.infected = append(st.infected, recipient)
	st.status.set(recipient, Infected)
	st.series.record(t, -1, +1, 0)
	st.rec.Record(recipient, t, Infected.String())

	for _, v := range st.g.Neighbors(recipient) {
		if st.status.get(v) == Susceptible {
			st.atRisk.Increment(v)
		}
	}
}

// recover picks a uniformly random infected node via swap-and-pop and flips
// it to Recovered (SIR) or back to Susceptible (SIS), adjusting neighbor
// risk levels.
func (st *gillespieState) recover(t float64) {
	idx := st.rng.Intn(len(st.infected))
	last := len(st.infected) - 1
	st.infected[idx], st.infected[last] = st.infected[last], st.infected[idx]
	node := st.infected[last]
	st.infected = st.infected[:last]

	if st.sir {
		st.status.set(node, Recovered)
		st.series.record(t, 0, -1, +1)
		st.rec.Record(node, t, Recovered.String())
		for _, v := range st.g.Neighbors(node) {
			if st.status.get(v) == Susceptible {
				st.atRisk.Decrement(v)
			}
		}
		return
	}

	st.status.set(node, Susceptible)
	st.series.record(t, +1, -1, 0)
	st.rec.Record(node, t, Susceptible.String())

	// The node rejoins the susceptible pool at a risk level equal to its
	// current infected-neighbor count; its susceptible neighbors each lose
	// one unit of risk.
	risk := 0
	for _, v := range st.g.Neighbors(node) {
		if st.status.get(v) == Infected {
			risk++
		} else if st.status.get(v) == Susceptible {
			st.atRisk.Decrement(v)
		}
	}
	if risk > 0 {
		st.atRisk.Insert(node, risk)
	}
}
