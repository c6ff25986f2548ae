// Package sim provides stochastic SIR and SIS epidemic simulation over
// contact networks.
//
// # Reading Guide
//
// Start with these files to understand the engines:
//   - fast_sir.go: the event-driven SIR engine (speculative scheduling with
//     predicted-infection-time pruning)
//   - fast_sis.go: the event-driven SIS engines, Markovian and general
//   - gillespie.go: the exact stochastic simulation algorithm with
//     risk-bucketed infection sampling
//
// # Architecture
//
// Every engine takes a graph.Graph, a timing description, and a RunConfig,
// and returns a Result: event times with parallel S/I(/R) counts, plus
// optional per-node histories from sim/trace. Supporting pieces:
//   - eventqueue.go: the time-ordered event queue with a hard horizon
//   - timing.go: transmission/recovery delay rules, Markovian and custom
//   - randset.go, riskbuckets.go: constant-time random-member sets used by
//     the Gillespie sampler
//   - rng.go: the partitioned RNG that keeps subsystems' draws independent
//     under a single seed
//   - sim/graph/: the contact-network type, generators, and loaders
//
// All engines are deterministic for a fixed seed and input graph.
package sim
