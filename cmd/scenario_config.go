package cmd

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	sim "github.com/episim/episim/sim"
	"github.com/episim/episim/sim/graph"
)

// GraphSpec describes where the contact network comes from: an edge-list
// file, or one of the synthetic generators.
type GraphSpec struct {
	File      string  `yaml:"file"`
	Generator string  `yaml:"generator"` // path, cycle, complete, grid, gnp
	Nodes     int     `yaml:"nodes"`
	P         float64 `yaml:"p"`
	Rows      int     `yaml:"rows"`
	Cols      int     `yaml:"cols"`
}

// Scenario is the YAML description of one simulation run.
type Scenario struct {
	Dynamics string `yaml:"dynamics"` // sir or sis
	Engine   string `yaml:"engine"`   // fast or gillespie

	Tau   float64 `yaml:"tau"`
	Gamma float64 `yaml:"gamma"`

	Rho              float64      `yaml:"rho"`
	InitialInfected  []graph.Node `yaml:"initial_infected"`
	InitialRecovered []graph.Node `yaml:"initial_recovered"`

	TMin        float64 `yaml:"tmin"`
	TMax        float64 `yaml:"tmax"`
	Seed        int64   `yaml:"seed"`
	FullHistory bool    `yaml:"full_history"`

	Graph GraphSpec `yaml:"graph"`
}

// LoadScenario reads and parses a YAML scenario file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse scenario %s: %w", path, err)
	}
	return &s, nil
}

// Validate checks the scenario's engine/dynamics selection and graph source.
// The run configuration itself (initial conditions, window) is validated by
// the engine.
func (s *Scenario) Validate() error {
	switch s.Dynamics {
	case "sir", "sis":
	default:
		return fmt.Errorf("scenario: dynamics must be sir or sis, got %q", s.Dynamics)
	}
	switch s.Engine {
	case "fast", "gillespie":
	default:
		return fmt.Errorf("scenario: engine must be fast or gillespie, got %q", s.Engine)
	}
	if s.Graph.File != "" && s.Graph.Generator != "" {
		return fmt.Errorf("scenario: set either graph.file or graph.generator, not both")
	}
	if s.Graph.File == "" && s.Graph.Generator == "" {
		return fmt.Errorf("scenario: a graph source is required (graph.file or graph.generator)")
	}
	return nil
}

// BuildGraph loads or generates the contact network. Synthetic generation
// draws from the run's graph RNG subsystem, so the same seed reproduces the
// same network.
func (s *Scenario) BuildGraph() (graph.Graph, error) {
	if s.Graph.File != "" {
		return graph.LoadEdgeListFile(s.Graph.File)
	}
	switch s.Graph.Generator {
	case "path":
		return graph.Path(s.Graph.Nodes), nil
	case "cycle":
		return graph.Cycle(s.Graph.Nodes), nil
	case "complete":
		return graph.Complete(s.Graph.Nodes), nil
	case "grid":
		return graph.Grid(s.Graph.Rows, s.Graph.Cols), nil
	case "gnp":
		rng := sim.NewPartitionedRNG(sim.NewSimulationKey(s.Seed)).ForSubsystem(sim.SubsystemGraph)
		return graph.GNP(s.Graph.Nodes, s.Graph.P, rng), nil
	default:
		return nil, fmt.Errorf("scenario: unknown graph generator %q", s.Graph.Generator)
	}
}

// RunConfig translates the scenario into the engine's run configuration.
func (s *Scenario) RunConfig() sim.RunConfig {
	return sim.RunConfig{
		InitialInfecteds:  s.InitialInfected,
		InitialRecovereds: s.InitialRecovered,
		Rho:               s.Rho,
		TMin:              s.TMin,
		TMax:              s.TMax,
		Seed:              s.Seed,
		FullHistory:       s.FullHistory,
	}
}

// Run dispatches to the selected engine and dynamics.
func (s *Scenario) Run(g graph.Graph) (*sim.Result, error) {
	cfg := s.RunConfig()
	rates := sim.Rates{Tau: s.Tau, Gamma: s.Gamma}
	switch {
	case s.Engine == "fast" && s.Dynamics == "sir":
		return sim.FastSIR(g, rates, cfg)
	case s.Engine == "fast" && s.Dynamics == "sis":
		return sim.FastSIS(g, rates, cfg)
	case s.Engine == "gillespie" && s.Dynamics == "sir":
		return sim.GillespieSIR(g, s.Tau, s.Gamma, cfg)
	case s.Engine == "gillespie" && s.Dynamics == "sis":
		return sim.GillespieSIS(g, s.Tau, s.Gamma, cfg)
	}
	return nil, fmt.Errorf("scenario: unsupported engine/dynamics %q/%q", s.Engine, s.Dynamics)
}
