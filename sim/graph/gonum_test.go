package graph

import (
	"testing"

	"gonum.org/v1/gonum/graph/simple"
)

func TestFromGonum_UndirectedCopy(t *testing.T) {
	// GIVEN a gonum undirected graph
	src := simple.NewUndirectedGraph()
	for _, e := range [][2]int64{{0, 1}, {1, 2}} {
		src.SetEdge(src.NewEdge(simple.Node(e[0]), simple.Node(e[1])))
	}

	// WHEN it is bridged
	g := FromGonum(src)

	// THEN nodes and edges carry over
	if g.Order() != 3 || g.Size() != 2 {
		t.Errorf("order/size: got %d/%d, want 3/2", g.Order(), g.Size())
	}
	if !g.HasEdge(0, 1) || !g.HasEdge(1, 2) {
		t.Error("edges lost in bridge")
	}
}

func TestFromGonum_DirectedFlattened(t *testing.T) {
	// GIVEN a directed gonum graph with arcs both ways on one pair
	src := simple.NewDirectedGraph()
	src.SetEdge(src.NewEdge(simple.Node(0), simple.Node(1)))
	src.SetEdge(src.NewEdge(simple.Node(1), simple.Node(0)))
	src.SetEdge(src.NewEdge(simple.Node(1), simple.Node(2)))

	// WHEN it is bridged
	g := FromGonum(src)

	// THEN arcs collapse to undirected contact edges without duplicates
	if g.Size() != 2 {
		t.Errorf("size: got %d, want 2", g.Size())
	}
	if !g.HasEdge(0, 1) || !g.HasEdge(2, 1) {
		t.Error("missing flattened edges")
	}
}
