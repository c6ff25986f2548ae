package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/episim/episim/sim/graph"
)

// sisFixedTiming transmits to every neighbor after a fixed delay and
// recovers after a fixed delay. A delay at or past recovery yields no
// attempt, honoring the within-window contract.
type sisFixedTiming struct {
	trans float64
	rec   float64
}

func (m sisFixedTiming) Delays(_ graph.Node, neighbors []graph.Node) (map[graph.Node][]float64, float64) {
	trans := make(map[graph.Node][]float64, len(neighbors))
	if m.trans < m.rec {
		for _, v := range neighbors {
			trans[v] = []float64{m.trans}
		}
	}
	return trans, m.rec
}

func TestFastSIS_ZeroTau_SeedRecoversToSusceptible(t *testing.T) {
	// GIVEN a complete graph with no transmission
	g := graph.Complete(3)
	rates := Rates{Tau: 0, Gamma: 1}

	// WHEN seeded at node 0
	res, err := FastSIS(g, rates, RunConfig{InitialInfecteds: []graph.Node{0}, Seed: 2})
	require.NoError(t, err)

	// THEN the seed returns to susceptible and the run ends with I=0
	checkTrajectory(t, res, 3, false)
	require.Equal(t, 2, res.Len())
	assert.Equal(t, []int{1, 0}, res.I)
	assert.Equal(t, []int{2, 3}, res.S)
}

func TestFastSIS_ZeroGamma_SaturatesAndStops(t *testing.T) {
	// GIVEN a complete graph where nobody recovers
	g := graph.Complete(4)
	rates := Rates{Tau: 1, Gamma: 0}

	// WHEN seeded at node 0
	res, err := FastSIS(g, rates, RunConfig{InitialInfecteds: []graph.Node{0}, Seed: 4})
	require.NoError(t, err)

	// THEN the epidemic saturates and the queue drains (no further
	// candidates once every pair's target outlasts its source)
	checkTrajectory(t, res, 4, false)
	last := res.Len() - 1
	assert.Equal(t, 4, res.I[last])
	assert.Equal(t, 0, res.S[last])
}

func TestFastSIS_Horizon_BoundsEndemicRun(t *testing.T) {
	// GIVEN endemic-capable dynamics under a hard horizon
	g := graph.Complete(10)
	rates := Rates{Tau: 2, Gamma: 1}
	cfg := RunConfig{InitialInfecteds: []graph.Node{0}, TMax: 5, Seed: 8}

	// WHEN the run finishes
	res, err := FastSIS(g, rates, cfg)
	require.NoError(t, err)

	// THEN every event lands inside the window and invariants hold
	checkTrajectory(t, res, 10, false)
	for _, tm := range res.Times {
		assert.Less(t, tm, 5.0)
	}
}

func TestFastSIS_SameSeed_SameTrajectory(t *testing.T) {
	g := graph.Grid(4, 4)
	rates := Rates{Tau: 1.5, Gamma: 1}
	cfg := RunConfig{InitialInfecteds: []graph.Node{5}, TMax: 10, Seed: 21}

	a, err := FastSIS(g, rates, cfg)
	require.NoError(t, err)
	b, err := FastSIS(g, rates, cfg)
	require.NoError(t, err)
	if !sameTrajectory(a, b) {
		t.Error("same seed produced different trajectories")
	}
}

func TestFastSIS_IsolatedPair_OneCycleInIsolation(t *testing.T) {
	// GIVEN two nodes with no edge between them
	g := graph.NewAdjacency()
	g.AddNode(0)
	g.AddNode(1)

	// WHEN node 0 is infected
	res, err := FastSIS(g, Rates{Tau: 100, Gamma: 1}, RunConfig{InitialInfecteds: []graph.Node{0}, Seed: 2})
	require.NoError(t, err)

	// THEN node 0 cycles I back to S in isolation; nothing can reinfect it
	checkTrajectory(t, res, 2, false)
	require.Equal(t, 2, res.Len())
	assert.Equal(t, []int{1, 0}, res.I)
	assert.Equal(t, []int{1, 2}, res.S)
}

func TestFastSIS_InitialRecovereds_Rejected(t *testing.T) {
	g := graph.Path(2)
	cfg := RunConfig{InitialInfecteds: []graph.Node{0}, InitialRecovereds: []graph.Node{1}}
	_, err := FastSIS(g, Rates{Tau: 1, Gamma: 1}, cfg)
	assert.Error(t, err)
}

func TestFastNonMarkovSIS_NoTransmission_SingleCycle(t *testing.T) {
	// GIVEN fixed timing that never transmits (delay past recovery)
	g := graph.Path(2)
	tc := SISTimingConfig{Joint: sisFixedTiming{trans: 2.0, rec: 1.0}}

	// WHEN seeded at node 0
	res, err := FastNonMarkovSIS(g, tc, RunConfig{InitialInfecteds: []graph.Node{0}, Seed: 1})
	require.NoError(t, err)

	// THEN exactly one infection-recovery cycle is recorded
	checkTrajectory(t, res, 2, false)
	require.Equal(t, 2, res.Len())
	assert.Equal(t, []float64{0, 1}, res.Times)
	assert.Equal(t, []int{1, 0}, res.I)
	assert.Equal(t, []int{1, 2}, res.S)
}

func TestFastNonMarkovSIS_PingPong_DeterministicUnderHorizon(t *testing.T) {
	// GIVEN two nodes passing the infection back and forth: transmission
	// after 0.6, recovery after 1.0, horizon at 2.0
	g := graph.Path(2)
	tc := SISTimingConfig{Joint: sisFixedTiming{trans: 0.6, rec: 1.0}}
	cfg := RunConfig{InitialInfecteds: []graph.Node{0}, TMax: 2.0, Seed: 1}

	// WHEN the run finishes
	res, err := FastNonMarkovSIS(g, tc, cfg)
	require.NoError(t, err)

	// THEN the alternating hand-off plays out exactly
	checkTrajectory(t, res, 2, false)
	require.Equal(t, 6, res.Len())
	wantTimes := []float64{0, 0.6, 1.0, 1.2, 1.6, 1.8}
	for k, want := range wantTimes {
		assert.InDelta(t, want, res.Times[k], 1e-9, "event %d", k)
	}
	assert.Equal(t, []int{1, 2, 1, 2, 1, 2}, res.I)
	assert.Equal(t, []int{1, 0, 1, 0, 1, 0}, res.S)
}

func TestFastNonMarkovSIS_SplitTimers(t *testing.T) {
	// GIVEN the split form: per-edge candidate delays plus a recovery timer
	g := graph.Path(2)
	tc := SISTimingConfig{
		Transmission: sisListTimer{delays: []float64{0.25, 0.5}},
		Recovery:     fixedRecovery{1.0},
	}

	// WHEN seeded at node 0 with a short horizon
	res, err := FastNonMarkovSIS(g, tc, RunConfig{InitialInfecteds: []graph.Node{0}, TMax: 0.9, Seed: 1})
	require.NoError(t, err)

	// THEN node 1 is infected by the first candidate; the second arrives
	// while it is still infected and is discarded
	checkTrajectory(t, res, 2, false)
	require.Equal(t, 2, res.Len())
	assert.InDelta(t, 0.25, res.Times[1], 1e-9)
	assert.Equal(t, []int{1, 2}, res.I)
}

// sisListTimer returns a fixed candidate-delay list for every edge,
// filtered to the recovery window.
type sisListTimer struct{ delays []float64 }

func (s sisListTimer) TransmissionDelays(_, _ graph.Node, recDelay float64) []float64 {
	out := make([]float64, 0, len(s.delays))
	for _, d := range s.delays {
		if d < recDelay {
			out = append(out, d)
		}
	}
	return out
}

func TestFastNonMarkovSIS_InvalidTimingConfig_ReturnsError(t *testing.T) {
	g := graph.Path(2)
	_, err := FastNonMarkovSIS(g, SISTimingConfig{}, RunConfig{})
	assert.Error(t, err)
}
