package autopart

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/graph"
)

// Graph represents an unweighted graph with labelled nodes.
// Only adjacency is kept: repeated edges collapse into one cell.
type Graph struct {
	Directed bool `json:"directed"`

	labels  []string
	index   map[string]int
	out     [][]int // out[u] = sorted distinct targets of u
	numEdge int
}

// NewGraph creates an empty graph
func NewGraph(directed bool) *Graph {
	return &Graph{
		Directed: directed,
		index:    make(map[string]int),
	}
}

// AddNode registers a node and returns its index. Adding an existing label
// returns the index it already has.
func (g *Graph) AddNode(label string) int {
	if idx, ok := g.index[label]; ok {
		return idx
	}
	idx := len(g.labels)
	g.labels = append(g.labels, label)
	g.index[label] = idx
	g.out = append(g.out, nil)
	return idx
}

// AddEdge adds an edge between two labels, creating the nodes when needed.
// Undirected graphs store both directions.
func (g *Graph) AddEdge(from, to string) {
	u := g.AddNode(from)
	v := g.AddNode(to)
	g.addArc(u, v)
	if !g.Directed && u != v {
		g.addArc(v, u)
	}
}

// AddEdgeIndex adds an edge between two existing node indices
func (g *Graph) AddEdgeIndex(u, v int) error {
	if u < 0 || u >= len(g.labels) || v < 0 || v >= len(g.labels) {
		return fmt.Errorf("%w: u=%d, v=%d, numNodes=%d", ErrNodeOutOfRange, u, v, len(g.labels))
	}
	g.addArc(u, v)
	if !g.Directed && u != v {
		g.addArc(v, u)
	}
	return nil
}

func (g *Graph) addArc(u, v int) {
	targets := g.out[u]
	pos := sort.SearchInts(targets, v)
	if pos < len(targets) && targets[pos] == v {
		return
	}
	targets = append(targets, 0)
	copy(targets[pos+1:], targets[pos:])
	targets[pos] = v
	g.out[u] = targets
	g.numEdge++
}

// NumNodes returns the number of nodes
func (g *Graph) NumNodes() int { return len(g.labels) }

// NumEdges returns the number of non-zero adjacency cells. An undirected
// edge between two distinct nodes counts twice.
func (g *Graph) NumEdges() int { return g.numEdge }

// Label returns the label of node idx
func (g *Graph) Label(idx int) string { return g.labels[idx] }

// Labels returns a copy of all node labels in index order
func (g *Graph) Labels() []string {
	out := make([]string, len(g.labels))
	copy(out, g.labels)
	return out
}

// Index returns the index of a label
func (g *Graph) Index(label string) (int, bool) {
	idx, ok := g.index[label]
	return idx, ok
}

// Neighbors returns the sorted targets of node u. The slice must not be modified.
func (g *Graph) Neighbors(u int) []int {
	if u < 0 || u >= len(g.out) {
		return nil
	}
	return g.out[u]
}

// HasEdge reports whether the adjacency cell (u, v) is set
func (g *Graph) HasEdge(u, v int) bool {
	targets := g.Neighbors(u)
	pos := sort.SearchInts(targets, v)
	return pos < len(targets) && targets[pos] == v
}

// Validate checks graph consistency
func (g *Graph) Validate() error {
	if len(g.labels) == 0 {
		return ErrEmptyGraph
	}
	for u, targets := range g.out {
		for i, v := range targets {
			if v < 0 || v >= len(g.labels) {
				return fmt.Errorf("invalid neighbor %d for node %d", v, u)
			}
			if i > 0 && targets[i-1] >= v {
				return fmt.Errorf("neighbors of node %d are not strictly sorted", u)
			}
		}
	}
	return nil
}

// FromGonum converts a gonum graph. Node labels are the decimal gonum IDs,
// and nodes are added in ascending ID order so the result is deterministic.
func FromGonum(src graph.Graph) *Graph {
	_, directed := src.(graph.Directed)
	g := NewGraph(directed)

	nodes := graph.NodesOf(src.Nodes())
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].ID() < nodes[j].ID() })

	ids := make(map[int64]int, len(nodes))
	for _, n := range nodes {
		ids[n.ID()] = g.AddNode(fmt.Sprintf("%d", n.ID()))
	}
	for _, n := range nodes {
		u := ids[n.ID()]
		to := src.From(n.ID())
		// undirected gonum graphs report each edge from both ends
		for to.Next() {
			g.addArc(u, ids[to.Node().ID()])
		}
	}
	return g
}
