package autopart

import (
	"fmt"
	"math/rand"
	"sort"
)

// quietConfig returns a config that does not log
func quietConfig() *Config {
	config := NewConfig()
	config.Set("logging.level", "disabled")
	return config
}

// cliquesGraph builds disjoint undirected cliques named c<i>_n<j>,
// added clique by clique
func cliquesGraph(sizes ...int) *Graph {
	g := NewGraph(false)
	for c, size := range sizes {
		for i := 0; i < size; i++ {
			g.AddNode(fmt.Sprintf("c%d_n%d", c, i))
		}
		for i := 0; i < size; i++ {
			for j := i + 1; j < size; j++ {
				g.AddEdge(fmt.Sprintf("c%d_n%d", c, i), fmt.Sprintf("c%d_n%d", c, j))
			}
		}
	}
	return g
}

// isolatedGraph builds n nodes without edges
func isolatedGraph(n int) *Graph {
	g := NewGraph(false)
	for i := 0; i < n; i++ {
		g.AddNode(fmt.Sprintf("n%d", i))
	}
	return g
}

// plantedGraph builds a directed graph with dense diagonal blocks of the
// given sizes plus a few cross edges
func plantedGraph() *Graph {
	g := NewGraph(true)
	sizes := []int{5, 4, 3}
	var groups [][]string
	for c, size := range sizes {
		var members []string
		for i := 0; i < size; i++ {
			label := fmt.Sprintf("p%d_%d", c, i)
			g.AddNode(label)
			members = append(members, label)
		}
		groups = append(groups, members)
	}
	for _, members := range groups {
		for i, u := range members {
			for j, v := range members {
				if i != j && (i+j)%5 != 0 {
					g.AddEdge(u, v)
				}
			}
		}
	}
	g.AddEdge("p0_0", "p1_0")
	g.AddEdge("p1_1", "p2_2")
	g.AddEdge("p2_0", "p0_3")
	g.AddEdge("p0_4", "p0_4")
	return g
}

// sortedGroups returns the non-empty groups as sorted label lists, ordered
// by their first label
func sortedGroups(groups [][]string) [][]string {
	var out [][]string
	for _, members := range groups {
		if len(members) == 0 {
			continue
		}
		s := append([]string(nil), members...)
		sort.Strings(s)
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i][0] < out[j][0] })
	return out
}

// randomGraph builds an Erdos-Renyi graph with n nodes and edge
// probability p drawn from rng
func randomGraph(rng *rand.Rand, n int, p float64, directed bool) *Graph {
	g := NewGraph(directed)
	for i := 0; i < n; i++ {
		g.AddNode(fmt.Sprintf("r%d", i))
	}
	for u := 0; u < n; u++ {
		from := 0
		if !directed {
			from = u + 1
		}
		for v := from; v < n; v++ {
			if u != v && rng.Float64() < p {
				g.AddEdge(fmt.Sprintf("r%d", u), fmt.Sprintf("r%d", v))
			}
		}
	}
	return g
}
