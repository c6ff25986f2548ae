package sim

import (
	"fmt"

	"golang.org/x/exp/rand"

	"github.com/episim/episim/sim/graph"
)

// RandomizedSet is a set of nodes supporting add, remove-by-value and
// uniform random choice in expected O(1). Members live in a slice for O(1)
// indexing; removal swaps the victim with the last element so nothing
// shifts.
type RandomizedSet struct {
	pos   map[graph.Node]int
	items []graph.Node
}

// NewRandomizedSet returns an empty set.
func NewRandomizedSet() *RandomizedSet {
	return &RandomizedSet{pos: make(map[graph.Node]int)}
}

// Add inserts n. Adding a present member is a no-op.
func (s *RandomizedSet) Add(n graph.Node) {
	if _, ok := s.pos[n]; ok {
		return
	}
	s.pos[n] = len(s.items)
	s.items = append(s.items, n)
}

// Remove deletes n by swapping it with the last member. Removing an absent
// member indicates corrupted bookkeeping in the caller and panics.
func (s *RandomizedSet) Remove(n graph.Node) {
	i, ok := s.pos[n]
	if !ok {
		panic(fmt.Sprintf("RandomizedSet.Remove: node %d not present", n))
	}
	delete(s.pos, n)
	last := len(s.items) - 1
	moved := s.items[last]
	s.items = s.items[:last]
	if i != last {
		s.items[i] = moved
		s.pos[moved] = i
	}
}

// Contains reports membership of n.
func (s *RandomizedSet) Contains(n graph.Node) bool {
	_, ok := s.pos[n]
	return ok
}

// ChooseRandom returns a uniformly random member. Choosing from an empty set
// panics.
func (s *RandomizedSet) ChooseRandom(rng *rand.Rand) graph.Node {
	if len(s.items) == 0 {
		panic("RandomizedSet.ChooseRandom: empty set")
	}
	return s.items[rng.Intn(len(s.items))]
}

// Len returns the number of members.
func (s *RandomizedSet) Len() int { return len(s.items) }
