package graph

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// LoadEdgeList reads a whitespace-separated edge list: one "u v" pair per
// line, integer node IDs. Blank lines and lines starting with '#' are
// skipped. A line with a single ID declares an isolated node.
func LoadEdgeList(r io.Reader) (*Adjacency, error) {
	g := NewAdjacency()
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) > 2 {
			fields = fields[:2] // trailing columns (weights, labels) are ignored
		}
		ids := make([]Node, 0, 2)
		for _, f := range fields {
			id, err := strconv.Atoi(f)
			if err != nil {
				return nil, fmt.Errorf("edge list line %d: invalid node ID %q: %w", lineNo, f, err)
			}
			ids = append(ids, Node(id))
		}
		switch len(ids) {
		case 1:
			g.AddNode(ids[0])
		case 2:
			g.AddEdge(ids[0], ids[1])
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading edge list: %w", err)
	}
	return g, nil
}

// LoadEdgeListFile loads an edge-list file from disk.
func LoadEdgeListFile(path string) (*Adjacency, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open edge list: %w", err)
	}
	defer f.Close()
	return LoadEdgeList(f)
}
