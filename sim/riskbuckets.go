package sim

import (
	"fmt"

	"golang.org/x/exp/rand"
	"golang.org/x/exp/slices"

	"github.com/episim/episim/sim/graph"
)

// RiskBuckets partitions susceptible nodes by risk level: the count of their
// currently-infected neighbors. One RandomizedSet per level lets the
// Gillespie engines pick an infection target with probability proportional
// to its risk in O(distinct levels) instead of O(population).
//
// Nodes at risk 0 are not tracked at all; they contribute no infection
// pressure. The weighted total Σ level·|bucket| is maintained incrementally
// so the per-step rate computation is O(1).
type RiskBuckets struct {
	level   map[graph.Node]int
	buckets map[int]*RandomizedSet
	weight  int
}

// NewRiskBuckets returns an empty population.
func NewRiskBuckets() *RiskBuckets {
	return &RiskBuckets{
		level:   make(map[graph.Node]int),
		buckets: make(map[int]*RandomizedSet),
	}
}

// Level returns n's current risk level, 0 if untracked.
func (rb *RiskBuckets) Level(n graph.Node) int {
	return rb.level[n]
}

// Increment moves n one risk level up, tracking it at level 1 if it was
// untracked.
func (rb *RiskBuckets) Increment(n graph.Node) {
	rb.Insert(n, rb.level[n]+1)
}

// Decrement moves n one risk level down. A node reaching level 0 is dropped
// from all bucketing.
func (rb *RiskBuckets) Decrement(n graph.Node) {
	rb.Insert(n, rb.level[n]-1)
}

// Insert places n at exactly the given level, removing it from its previous
// bucket if tracked. Level 0 (or below) drops n entirely.
func (rb *RiskBuckets) Insert(n graph.Node, level int) {
	if cur, ok := rb.level[n]; ok {
		b := rb.buckets[cur]
		b.Remove(n)
		if b.Len() == 0 {
			delete(rb.buckets, cur)
		}
		rb.weight -= cur
		delete(rb.level, n)
	}
	if level <= 0 {
		return
	}
	b, ok := rb.buckets[level]
	if !ok {
		b = NewRandomizedSet()
		rb.buckets[level] = b
	}
	b.Add(n)
	rb.level[n] = level
	rb.weight += level
}

// Remove drops n from all bucketing. A no-op if n is untracked, which is the
// normal case for a node whose risk never rose above 0.
func (rb *RiskBuckets) Remove(n graph.Node) {
	rb.Insert(n, 0)
}

// TotalWeight returns Σ over buckets of level × bucket size. With a constant
// per-edge transmission rate this is the unnormalized total infection
// pressure.
func (rb *RiskBuckets) TotalWeight() int { return rb.weight }

// Len returns the number of tracked nodes.
func (rb *RiskBuckets) Len() int { return len(rb.level) }

// SampleWeighted returns a node drawn with probability proportional to its
// risk level: a linear scan over the distinct levels picks the bucket, then
// a uniform choice within it picks the node. The scan walks levels in sorted
// order; ranging over the bucket map directly would make the draw depend on
// Go's randomized map iteration and break fixed-seed reproducibility.
// Sampling an empty population panics.
func (rb *RiskBuckets) SampleWeighted(rng *rand.Rand) graph.Node {
	if rb.weight == 0 {
		panic("RiskBuckets.SampleWeighted: empty population")
	}
	levels := make([]int, 0, len(rb.buckets))
	for level := range rb.buckets {
		levels = append(levels, level)
	}
	slices.Sort(levels)

	r := rng.Float64() * float64(rb.weight)
	for _, level := range levels {
		b := rb.buckets[level]
		r -= float64(level * b.Len())
		if r < 0 {
			return b.ChooseRandom(rng)
		}
	}
	// float roundoff on the last bucket
	for i := len(levels) - 1; i >= 0; i-- {
		if b := rb.buckets[levels[i]]; b.Len() > 0 {
			return b.ChooseRandom(rng)
		}
	}
	panic(fmt.Sprintf("RiskBuckets.SampleWeighted: inconsistent weight %d", rb.weight))
}
