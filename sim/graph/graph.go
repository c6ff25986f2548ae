// Package graph provides the contact-network abstraction consumed by the
// simulation engines.
//
// Engines only ever read a network: order, node membership, neighbor
// iteration and edge tests. Anything satisfying the Graph interface works;
// Adjacency is the concrete implementation used by the generators, the
// edge-list loader and the gonum bridge.
package graph

import (
	"golang.org/x/exp/slices"
)

// Node identifies a single node in a contact network.
type Node int

// Graph is the read-only view of a contact network required by the engines.
type Graph interface {
	// Order returns the number of nodes.
	Order() int
	// Nodes returns all nodes in ascending ID order.
	Nodes() []Node
	// HasNode reports whether n is part of the network.
	HasNode(n Node) bool
	// Neighbors returns the nodes adjacent to n. The returned slice must not
	// be mutated by the caller.
	Neighbors(n Node) []Node
	// HasEdge reports whether an edge {u, v} exists.
	HasEdge(u, v Node) bool
	// Degree returns the number of neighbors of n.
	Degree(n Node) int
}

// Adjacency is an undirected graph held as adjacency lists with an edge set
// for O(1) edge tests.
type Adjacency struct {
	adj   map[Node][]Node
	edges map[[2]Node]struct{}
	size  int
}

// NewAdjacency returns an empty undirected graph.
func NewAdjacency() *Adjacency {
	return &Adjacency{
		adj:   make(map[Node][]Node),
		edges: make(map[[2]Node]struct{}),
	}
}

// AddNode inserts an isolated node. Adding an existing node is a no-op.
func (g *Adjacency) AddNode(n Node) {
	if _, ok := g.adj[n]; !ok {
		g.adj[n] = nil
	}
}

// AddEdge inserts the undirected edge {u, v}, creating the endpoints if
// needed. Duplicate edges and self-loops are ignored; self-loops contribute
// nothing to transmission and break infected-neighbor counting.
func (g *Adjacency) AddEdge(u, v Node) {
	if u == v {
		return
	}
	if g.HasEdge(u, v) {
		return
	}
	g.AddNode(u)
	g.AddNode(v)
	g.adj[u] = append(g.adj[u], v)
	g.adj[v] = append(g.adj[v], u)
	g.edges[edgeKey(u, v)] = struct{}{}
	g.size++
}

// Order returns the number of nodes.
func (g *Adjacency) Order() int { return len(g.adj) }

// Size returns the number of edges.
func (g *Adjacency) Size() int { return g.size }

// Nodes returns all nodes in ascending ID order.
func (g *Adjacency) Nodes() []Node {
	nodes := make([]Node, 0, len(g.adj))
	for n := range g.adj {
		nodes = append(nodes, n)
	}
	slices.Sort(nodes)
	return nodes
}

// HasNode reports whether n is part of the network.
func (g *Adjacency) HasNode(n Node) bool {
	_, ok := g.adj[n]
	return ok
}

// Neighbors returns the adjacency list of n in insertion order.
func (g *Adjacency) Neighbors(n Node) []Node {
	return g.adj[n]
}

// HasEdge reports whether the undirected edge {u, v} exists.
func (g *Adjacency) HasEdge(u, v Node) bool {
	_, ok := g.edges[edgeKey(u, v)]
	return ok
}

// Degree returns the number of neighbors of n.
func (g *Adjacency) Degree(n Node) int {
	return len(g.adj[n])
}

func edgeKey(u, v Node) [2]Node {
	if v < u {
		u, v = v, u
	}
	return [2]Node{u, v}
}
