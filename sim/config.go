package sim

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"

	"github.com/episim/episim/sim/graph"
)

// RunConfig groups the per-run parameters shared by every engine.
//
// The initial condition is either explicit (InitialInfecteds, and for SIR
// optionally InitialRecovereds) or random (Rho, the fraction of nodes to
// infect, sampled uniformly without replacement). Supplying both forms is a
// configuration error. With neither, a single uniformly random node is
// infected.
type RunConfig struct {
	InitialInfecteds  []graph.Node
	InitialRecovereds []graph.Node // SIR engines only
	Rho               float64

	// TMin is the simulation start time. TMax is the hard horizon; zero
	// means unbounded. SIS dynamics with Gamma > 0 never go extinct on
	// their own, so unbounded SIS runs are the caller's responsibility.
	TMin float64
	TMax float64

	// Seed drives the run's PartitionedRNG.
	Seed int64

	// FullHistory additionally records every node's (time, status)
	// sequence, at the cost of one record per status change.
	FullHistory bool
}

// horizon returns the effective event horizon.
func (c RunConfig) horizon() float64 {
	if c.TMax == 0 {
		return math.Inf(1)
	}
	return c.TMax
}

// validate checks the initial-condition mutual-exclusion rules.
func (c RunConfig) validate() error {
	if c.Rho < 0 || c.Rho > 1 {
		return fmt.Errorf("run config: Rho must be in [0, 1], got %v", c.Rho)
	}
	if c.Rho > 0 && len(c.InitialInfecteds) > 0 {
		return fmt.Errorf("run config: cannot set both InitialInfecteds and Rho")
	}
	if c.Rho > 0 && len(c.InitialRecovereds) > 0 {
		return fmt.Errorf("run config: cannot set both InitialRecovereds and Rho")
	}
	if len(c.InitialRecovereds) > 0 {
		recovered := make(map[graph.Node]struct{}, len(c.InitialRecovereds))
		for _, n := range c.InitialRecovereds {
			recovered[n] = struct{}{}
		}
		for _, n := range c.InitialInfecteds {
			if _, ok := recovered[n]; ok {
				return fmt.Errorf("run config: node %d is both initially infected and initially recovered", n)
			}
		}
	}
	if c.TMax != 0 && c.TMax <= c.TMin {
		return fmt.Errorf("run config: TMax %v must exceed TMin %v", c.TMax, c.TMin)
	}
	return nil
}

// validateSIS adds the SIS-only rule: there is no Recovered compartment to
// seed.
func (c RunConfig) validateSIS() error {
	if err := c.validate(); err != nil {
		return err
	}
	if len(c.InitialRecovereds) > 0 {
		return fmt.Errorf("run config: InitialRecovereds is not meaningful for SIS dynamics")
	}
	return nil
}

// resolveInitialInfecteds returns the initial infected set, sampling it when
// the config asks for a random one.
func (c RunConfig) resolveInitialInfecteds(g graph.Graph, rng *rand.Rand) []graph.Node {
	if len(c.InitialInfecteds) > 0 {
		return append([]graph.Node(nil), c.InitialInfecteds...)
	}
	count := 1
	if c.Rho > 0 {
		count = int(math.Round(float64(g.Order()) * c.Rho))
	}
	nodes := g.Nodes()
	if count > len(nodes) {
		count = len(nodes)
	}
	picked := make([]graph.Node, 0, count)
	for _, i := range rng.Perm(len(nodes))[:count] {
		picked = append(picked, nodes[i])
	}
	return picked
}
