package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	sim "github.com/episim/episim/sim"
	"github.com/episim/episim/sim/graph"
)

var (
	// CLI flags for the simulation run
	seed        int64   // Seed for all stochastic draws
	tmin        float64 // Simulation start time
	tmax        float64 // Simulation horizon (0 = unbounded)
	logLevel    string  // Log verbosity level
	dynamics    string  // Epidemic model: sir or sis
	engine      string  // Execution strategy: fast (event-driven) or gillespie
	tau         float64 // Per-edge transmission rate
	gamma       float64 // Per-node recovery rate
	rho         float64 // Initial infected fraction (alternative to --initial-infected)
	infecteds   []int64 // Explicit initially infected node IDs
	recovereds  []int64 // Explicit initially recovered node IDs (SIR only)
	fullHistory bool    // Record per-node status histories

	// CLI flags for the contact network
	graphFile string  // Edge-list file to load
	generator string  // Synthetic generator: path, cycle, complete, grid, gnp
	nodes     int     // Node count for synthetic generators
	edgeProb  float64 // Edge probability for gnp
	gridRows  int     // Rows for the grid generator
	gridCols  int     // Columns for the grid generator

	scenarioFile string // YAML scenario overriding the individual flags
	outputCSV    string // Optional CSV path for the time series
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "episim",
	Short: "Stochastic SIR/SIS epidemic simulation on contact networks",
}

// runCmd executes one simulation using parameters from CLI flags or a YAML
// scenario file.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one epidemic simulation",
	RunE: func(cmd *cobra.Command, args []string) error {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			return fmt.Errorf("invalid log level %q", logLevel)
		}
		logrus.SetLevel(level)

		scenario := scenarioFromFlags()
		if scenarioFile != "" {
			scenario, err = LoadScenario(scenarioFile)
			if err != nil {
				return err
			}
		}
		if err := scenario.Validate(); err != nil {
			return err
		}

		g, err := scenario.BuildGraph()
		if err != nil {
			return err
		}
		logrus.Infof("Starting %s/%s simulation on %d nodes (tau=%v, gamma=%v, seed=%d)",
			scenario.Engine, scenario.Dynamics, g.Order(), scenario.Tau, scenario.Gamma, scenario.Seed)

		startTime := time.Now()
		res, err := scenario.Run(g)
		if err != nil {
			return err
		}
		logrus.Infof("Simulation complete in %v.", time.Since(startTime))

		sim.Summarize(res, g.Order()).Print()

		if outputCSV != "" {
			if err := WriteSeriesCSVFile(outputCSV, res); err != nil {
				return err
			}
			logrus.Infof("Wrote time series to %s", outputCSV)
		}
		return nil
	},
}

// scenarioFromFlags assembles a Scenario equivalent to the individual CLI
// flags, so flag-driven and file-driven runs share one code path.
func scenarioFromFlags() *Scenario {
	s := &Scenario{
		Dynamics:    dynamics,
		Engine:      engine,
		Tau:         tau,
		Gamma:       gamma,
		Rho:         rho,
		TMin:        tmin,
		TMax:        tmax,
		Seed:        seed,
		FullHistory: fullHistory,
		Graph: GraphSpec{
			File:      graphFile,
			Generator: generator,
			Nodes:     nodes,
			P:         edgeProb,
			Rows:      gridRows,
			Cols:      gridCols,
		},
	}
	for _, id := range infecteds {
		s.InitialInfected = append(s.InitialInfected, graph.Node(id))
	}
	for _, id := range recovereds {
		s.InitialRecovered = append(s.InitialRecovered, graph.Node(id))
	}
	return s
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	runCmd.Flags().Int64Var(&seed, "seed", 42, "Seed for all stochastic draws")
	runCmd.Flags().Float64Var(&tmin, "tmin", 0, "Simulation start time")
	runCmd.Flags().Float64Var(&tmax, "tmax", 0, "Simulation horizon (0 = unbounded)")
	runCmd.Flags().StringVar(&logLevel, "log", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")

	runCmd.Flags().StringVar(&dynamics, "dynamics", "sir", "Epidemic model (sir, sis)")
	runCmd.Flags().StringVar(&engine, "engine", "fast", "Execution strategy (fast, gillespie)")
	runCmd.Flags().Float64Var(&tau, "tau", 1.0, "Per-edge transmission rate")
	runCmd.Flags().Float64Var(&gamma, "gamma", 1.0, "Per-node recovery rate")
	runCmd.Flags().Float64Var(&rho, "rho", 0, "Initial infected fraction (mutually exclusive with --initial-infected)")
	runCmd.Flags().Int64SliceVar(&infecteds, "initial-infected", nil, "Comma-separated initially infected node IDs")
	runCmd.Flags().Int64SliceVar(&recovereds, "initial-recovered", nil, "Comma-separated initially recovered node IDs (SIR only)")
	runCmd.Flags().BoolVar(&fullHistory, "full-history", false, "Record per-node status histories")

	runCmd.Flags().StringVar(&graphFile, "graph", "", "Edge-list file describing the contact network")
	runCmd.Flags().StringVar(&generator, "gen", "", "Synthetic graph generator (path, cycle, complete, grid, gnp)")
	runCmd.Flags().IntVar(&nodes, "nodes", 0, "Node count for synthetic generators")
	runCmd.Flags().Float64Var(&edgeProb, "p", 0, "Edge probability for the gnp generator")
	runCmd.Flags().IntVar(&gridRows, "rows", 0, "Row count for the grid generator")
	runCmd.Flags().IntVar(&gridCols, "cols", 0, "Column count for the grid generator")

	runCmd.Flags().StringVar(&scenarioFile, "scenario", "", "YAML scenario file (overrides the individual flags)")
	runCmd.Flags().StringVar(&outputCSV, "output-csv", "", "Write the time series to this CSV file")

	rootCmd.AddCommand(runCmd)
}
