package graph

import (
	gonumgraph "gonum.org/v1/gonum/graph"
)

// FromGonum copies a gonum graph into an Adjacency. Directed inputs are
// flattened to undirected contact edges, matching how the engines treat
// transmission along any edge touching an infected node.
func FromGonum(src gonumgraph.Graph) *Adjacency {
	g := NewAdjacency()
	nodes := src.Nodes()
	for nodes.Next() {
		g.AddNode(Node(nodes.Node().ID()))
	}
	nodes = src.Nodes()
	for nodes.Next() {
		u := nodes.Node().ID()
		to := src.From(u)
		for to.Next() {
			g.AddEdge(Node(u), Node(to.Node().ID()))
		}
	}
	return g
}
