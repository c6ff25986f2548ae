package sim

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/episim/episim/sim/graph"
)

// SIRTiming jointly draws, for a node infected now, the delay until each
// susceptible neighbor would receive a transmission and the delay until the
// node recovers. Neighbors absent from the returned map receive no
// transmission attempt. Delays need not be Markovian.
type SIRTiming interface {
	Delays(node graph.Node, susceptibleNeighbors []graph.Node) (trans map[graph.Node]float64, rec float64)
}

// SISTiming is the SIS counterpart. Because an SIS source can attempt the
// same neighbor repeatedly across one infectious period, the per-neighbor
// value is a list of candidate delays, all within the recovery window.
type SISTiming interface {
	Delays(node graph.Node, neighbors []graph.Node) (trans map[graph.Node][]float64, rec float64)
}

// TransmissionTimer draws a single transmission delay for one edge.
type TransmissionTimer interface {
	TransmissionDelay(source, target graph.Node) float64
}

// SISTransmissionTimer draws the candidate transmission delays for one edge
// given the source's recovery delay; all returned delays must be < recDelay.
type SISTransmissionTimer interface {
	TransmissionDelays(source, target graph.Node, recDelay float64) []float64
}

// RecoveryTimer draws the delay until a newly infected node recovers.
type RecoveryTimer interface {
	RecoveryDelay(node graph.Node) float64
}

// SIRTimingConfig selects the timing rule for a non-Markovian SIR run.
// Exactly one form must be supplied: Joint alone, or Transmission and
// Recovery together.
type SIRTimingConfig struct {
	Joint        SIRTiming
	Transmission TransmissionTimer
	Recovery     RecoveryTimer
}

func (c SIRTimingConfig) resolve() (SIRTiming, error) {
	if err := checkTimingForms(c.Joint != nil, c.Transmission != nil, c.Recovery != nil); err != nil {
		return nil, err
	}
	if c.Joint != nil {
		return c.Joint, nil
	}
	return &splitSIRTiming{trans: c.Transmission, rec: c.Recovery}, nil
}

// SISTimingConfig selects the timing rule for a non-Markovian SIS run, with
// the same exactly-one-form contract as SIRTimingConfig.
type SISTimingConfig struct {
	Joint        SISTiming
	Transmission SISTransmissionTimer
	Recovery     RecoveryTimer
}

func (c SISTimingConfig) resolve() (SISTiming, error) {
	if err := checkTimingForms(c.Joint != nil, c.Transmission != nil, c.Recovery != nil); err != nil {
		return nil, err
	}
	if c.Joint != nil {
		return c.Joint, nil
	}
	return &splitSISTiming{trans: c.Transmission, rec: c.Recovery}, nil
}

func checkTimingForms(joint, trans, rec bool) error {
	switch {
	case trans != rec:
		return fmt.Errorf("timing config: must set both Transmission and Recovery timers or neither")
	case joint && trans:
		return fmt.Errorf("timing config: cannot set Joint together with Transmission/Recovery timers")
	case !joint && !trans:
		return fmt.Errorf("timing config: must set either Joint or the Transmission/Recovery timer pair")
	}
	return nil
}

// splitSIRTiming composes independent per-edge and per-node timers into the
// joint form the engine consumes.
type splitSIRTiming struct {
	trans TransmissionTimer
	rec   RecoveryTimer
}

func (s *splitSIRTiming) Delays(node graph.Node, sus []graph.Node) (map[graph.Node]float64, float64) {
	recDelay := s.rec.RecoveryDelay(node)
	trans := make(map[graph.Node]float64, len(sus))
	for _, target := range sus {
		trans[target] = s.trans.TransmissionDelay(node, target)
	}
	return trans, recDelay
}

type splitSISTiming struct {
	trans SISTransmissionTimer
	rec   RecoveryTimer
}

func (s *splitSISTiming) Delays(node graph.Node, neighbors []graph.Node) (map[graph.Node][]float64, float64) {
	recDelay := s.rec.RecoveryDelay(node)
	trans := make(map[graph.Node][]float64, len(neighbors))
	for _, target := range neighbors {
		if delays := s.trans.TransmissionDelays(node, target, recDelay); len(delays) > 0 {
			trans[target] = delays
		}
	}
	return trans, recDelay
}

// Rates holds the Markovian rate parameters: per-edge transmission rate Tau
// and per-node recovery rate Gamma, optionally scaled by heterogeneous
// weights. A nil weight function means the rate is homogeneous.
type Rates struct {
	Tau   float64
	Gamma float64

	// TransmissionWeight scales Tau per edge. Only honored by the
	// event-driven engines; the Gillespie engines require homogeneous
	// rates (see GillespieSIR).
	TransmissionWeight func(u, v graph.Node) float64

	// RecoveryWeight scales Gamma per node.
	RecoveryWeight func(n graph.Node) float64
}

func (r Rates) transRate(u, v graph.Node) float64 {
	if r.TransmissionWeight == nil {
		return r.Tau
	}
	return r.Tau * r.TransmissionWeight(u, v)
}

func (r Rates) recRate(n graph.Node) float64 {
	if r.RecoveryWeight == nil {
		return r.Gamma
	}
	return r.Gamma * r.RecoveryWeight(n)
}

func (r Rates) weighted() bool { return r.TransmissionWeight != nil }

// markovSIRTiming is the built-in joint timing rule for constant per-edge
// rate Tau. Rather than drawing one exponential per neighbor, it draws the
// recovery window first, then the number of neighbors infected within that
// window from a binomial, then assigns each recipient an exponential delay
// conditioned on landing inside the window.
type markovSIRTiming struct {
	tau     float64
	recRate func(graph.Node) float64
	rng     *rand.Rand
}

func (m *markovSIRTiming) Delays(node graph.Node, sus []graph.Node) (map[graph.Node]float64, float64) {
	duration := expDraw(m.rng, m.recRate(node))
	trans := make(map[graph.Node]float64)
	if len(sus) == 0 || m.tau <= 0 {
		return trans, duration
	}

	// P(at least one transmission before recovery) for one edge observed
	// over the recovery window.
	transProb := 1 - math.Exp(-m.tau*duration)
	count := len(sus)
	if transProb < 1 {
		bin := distuv.Binomial{N: float64(len(sus)), P: transProb, Src: m.rng}
		count = int(bin.Rand())
	}

	for _, i := range m.rng.Perm(len(sus))[:count] {
		trans[sus[i]] = truncatedExponential(m.rng, m.tau, duration)
	}
	return trans, duration
}

// ExponentialTransmissionTimer draws a single exponential transmission delay
// per edge at rate Tau scaled by the optional per-edge weight. Used for
// weighted Markovian SIR runs.
type ExponentialTransmissionTimer struct {
	Rates Rates
	Rng   *rand.Rand
}

func (t *ExponentialTransmissionTimer) TransmissionDelay(source, target graph.Node) float64 {
	return expDraw(t.Rng, t.Rates.transRate(source, target))
}

// ExponentialRecoveryTimer draws an exponential recovery delay per node at
// rate Gamma scaled by the optional per-node weight.
type ExponentialRecoveryTimer struct {
	Rates Rates
	Rng   *rand.Rand
}

func (t *ExponentialRecoveryTimer) RecoveryDelay(node graph.Node) float64 {
	return expDraw(t.Rng, t.Rates.recRate(node))
}

// expDraw samples Exponential(rate). Rate 0 means the event never happens.
func expDraw(rng *rand.Rand, rate float64) float64 {
	if rate <= 0 {
		return math.Inf(1)
	}
	return distuv.Exponential{Rate: rate, Src: rng}.Rand()
}

// truncatedExponential samples Exponential(rate) conditioned on the outcome
// lying in [0, window): draw unconditionally and wrap by whole windows. The
// wrap is equivalent to rejection sampling because the exponential is
// memoryless.
func truncatedExponential(rng *rand.Rand, rate, window float64) float64 {
	t := distuv.Exponential{Rate: rate, Src: rng}.Rand()
	if math.IsInf(window, 1) {
		return t
	}
	wraps := math.Floor(t / window)
	return t - wraps*window
}
