package graph

import (
	"golang.org/x/exp/rand"
)

// Path returns the path graph 0-1-...-(n-1).
func Path(n int) *Adjacency {
	g := NewAdjacency()
	for i := 0; i < n; i++ {
		g.AddNode(Node(i))
	}
	for i := 0; i+1 < n; i++ {
		g.AddEdge(Node(i), Node(i+1))
	}
	return g
}

// Cycle returns the cycle graph on n nodes.
func Cycle(n int) *Adjacency {
	g := Path(n)
	if n > 2 {
		g.AddEdge(Node(n-1), 0)
	}
	return g
}

// Complete returns the complete graph on n nodes.
func Complete(n int) *Adjacency {
	g := NewAdjacency()
	for i := 0; i < n; i++ {
		g.AddNode(Node(i))
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			g.AddEdge(Node(i), Node(j))
		}
	}
	return g
}

// Grid returns the rows x cols lattice with 4-neighbor connectivity. Node
// IDs are assigned row-major.
func Grid(rows, cols int) *Adjacency {
	g := NewAdjacency()
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			id := Node(r*cols + c)
			g.AddNode(id)
			if c > 0 {
				g.AddEdge(id, id-1)
			}
			if r > 0 {
				g.AddEdge(id, Node((r-1)*cols+c))
			}
		}
	}
	return g
}

// GNP returns an Erdős–Rényi G(n, p) random graph drawn from rng. Each of
// the n*(n-1)/2 possible edges is present independently with probability p.
func GNP(n int, p float64, rng *rand.Rand) *Adjacency {
	g := NewAdjacency()
	for i := 0; i < n; i++ {
		g.AddNode(Node(i))
	}
	if p <= 0 {
		return g
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if p >= 1 || rng.Float64() < p {
				g.AddEdge(Node(i), Node(j))
			}
		}
	}
	return g
}
