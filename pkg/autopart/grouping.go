package autopart

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Model holds the grouping state of one Autopart run: the node to group
// and node to row mappings, the adjacency matrix permuted so that each
// group occupies one contiguous block of rows and columns, and the block
// statistics derived from them.
//
// All structural changes go through applyPartition, which keeps the
// statistics cache in step with the grouping.
type Model struct {
	graph  *Graph
	matrix *Matrix

	k          int
	groupNodes [][]int // groupNodes[g] = member nodes of g, in row order
	nodeGroup  []int
	nodeRow    []int
	rowNode    []int
	groupStart []int // groupStart[g] = first row of g; groupStart[k] = n
	rowGroup   []int

	stats blockStats
}

// NewModel creates the initial state with every node in group 0
func NewModel(g *Graph) (*Model, error) {
	if g == nil {
		return nil, ErrEmptyGraph
	}
	if err := g.Validate(); err != nil {
		return nil, fmt.Errorf("invalid graph: %w", err)
	}

	n := g.NumNodes()
	m := &Model{
		graph:   g,
		matrix:  NewMatrix(g),
		nodeRow: make([]int, n),
	}
	all := make([]int, n)
	for i := range all {
		all[i] = i
		m.nodeRow[i] = i
	}
	if err := m.applyPartition([][]int{all}); err != nil {
		return nil, err
	}
	return m, nil
}

// applyPartition replaces the grouping with groups, which must cover every
// node exactly once. Rows and columns are permuted so groups are laid out
// in index order, then the statistics cache is rebuilt. On error the model
// is left unchanged.
func (m *Model) applyPartition(groups [][]int) error {
	n := m.graph.NumNodes()
	if len(groups) == 0 {
		return fmt.Errorf("%w: no groups", ErrMalformedPartition)
	}

	seen := make([]bool, n)
	total := 0
	for g, members := range groups {
		for _, node := range members {
			if node < 0 || node >= n {
				return fmt.Errorf("%w: group %d holds unknown node %d", ErrMalformedPartition, g, node)
			}
			if seen[node] {
				return fmt.Errorf("%w: node %d assigned twice", ErrMalformedPartition, node)
			}
			seen[node] = true
		}
		total += len(members)
	}
	if total != n {
		return fmt.Errorf("%w: partition covers %d of %d nodes", ErrMalformedPartition, total, n)
	}

	k := len(groups)
	groupNodes := make([][]int, k)
	nodeGroup := make([]int, n)
	rowNode := make([]int, 0, n)
	order := make([]int, 0, n) // order[newRow] = current row of that node
	groupStart := make([]int, k+1)
	rowGroup := make([]int, 0, n)

	for g, members := range groups {
		groupStart[g] = len(rowNode)
		groupNodes[g] = append(make([]int, 0, len(members)), members...)
		for _, node := range members {
			nodeGroup[node] = g
			rowNode = append(rowNode, node)
			order = append(order, m.nodeRow[node])
			rowGroup = append(rowGroup, g)
		}
	}
	groupStart[k] = n

	if err := m.matrix.Permute(order); err != nil {
		return fmt.Errorf("permute matrix: %w", err)
	}

	m.k = k
	m.groupNodes = groupNodes
	m.nodeGroup = nodeGroup
	m.rowNode = rowNode
	m.groupStart = groupStart
	m.rowGroup = rowGroup
	for row, node := range rowNode {
		m.nodeRow[node] = row
	}

	m.recompute()
	return nil
}

// partition returns a copy of the current group to nodes mapping
func (m *Model) partition() [][]int {
	out := make([][]int, m.k)
	for g, members := range m.groupNodes {
		out[g] = append([]int(nil), members...)
	}
	return out
}

// addGroup appends an empty group at index k
func (m *Model) addGroup() error {
	return m.applyPartition(append(m.partition(), nil))
}

// moveNode reassigns node to target and rearranges the matrix
func (m *Model) moveNode(node, target int) error {
	if node < 0 || node >= len(m.nodeGroup) {
		return fmt.Errorf("%w: %d", ErrNodeOutOfRange, node)
	}
	if target < 0 || target >= m.k {
		return fmt.Errorf("%w: %d", ErrGroupOutOfRange, target)
	}
	src := m.nodeGroup[node]
	if src == target {
		return nil
	}

	groups := m.partition()
	members := groups[src]
	for i, v := range members {
		if v == node {
			groups[src] = append(members[:i], members[i+1:]...)
			break
		}
	}
	groups[target] = append(groups[target], node)
	return m.applyPartition(groups)
}

// K returns the current number of groups
func (m *Model) K() int { return m.k }

// NumNodes returns the number of nodes in the graph
func (m *Model) NumNodes() int { return len(m.nodeGroup) }

// Graph returns the input graph
func (m *Model) Graph() *Graph { return m.graph }

// GroupOf returns the group of a node
func (m *Model) GroupOf(node int) int { return m.nodeGroup[node] }

// RowOf returns the matrix row of a node
func (m *Model) RowOf(node int) int { return m.nodeRow[node] }

// GroupSize returns a_g, the number of members of group g
func (m *Model) GroupSize(g int) int { return m.groupStart[g+1] - m.groupStart[g] }

// GroupSizes returns the sizes of all groups in index order
func (m *Model) GroupSizes() []int {
	sizes := make([]int, m.k)
	for g := range sizes {
		sizes[g] = m.GroupSize(g)
	}
	return sizes
}

// GroupMembers returns a copy of the node indices in group g
func (m *Model) GroupMembers(g int) []int {
	return append([]int(nil), m.groupNodes[g]...)
}

// Boundaries returns the first row of every group after the first that
// does not start at row 0. These are the lines separating blocks.
func (m *Model) Boundaries() []int {
	var out []int
	for g := 1; g < m.k; g++ {
		if start := m.groupStart[g]; start > 0 {
			out = append(out, start)
		}
	}
	return out
}

// Groups returns node labels per group
func (m *Model) Groups() [][]string {
	out := make([][]string, m.k)
	for g, members := range m.groupNodes {
		out[g] = make([]string, len(members))
		for i, node := range members {
			out[g][i] = m.graph.Label(node)
		}
	}
	return out
}

// Assignment returns the group of every node label
func (m *Model) Assignment() map[string]int {
	out := make(map[string]int, len(m.nodeGroup))
	for node, g := range m.nodeGroup {
		out[m.graph.Label(node)] = g
	}
	return out
}

// AdjacencyMatrix returns a dense copy of the permuted adjacency matrix
func (m *Model) AdjacencyMatrix() *mat.Dense { return m.matrix.Dense() }

// Cell returns d(x, y) for matrix rows x and y
func (m *Model) Cell(x, y int) float64 { return m.matrix.At(x, y) }

// rowWeight returns w(x, j), the set cells of row x inside group j's columns
func (m *Model) rowWeight(x, j int) float64 {
	return m.matrix.RowRangeSum(x, m.groupStart[j], m.groupStart[j+1])
}

// colWeight returns the set cells of column x inside group j's rows
func (m *Model) colWeight(x, j int) float64 {
	return m.matrix.ColRangeSum(x, m.groupStart[j], m.groupStart[j+1])
}

// profile returns w(x, j) and w(j, x) for every group j in one pass over
// the node's row and column
func (m *Model) profile(node int) (rowW, colW []float64) {
	x := m.nodeRow[node]
	rowW = make([]float64, m.k)
	colW = make([]float64, m.k)
	for _, c := range m.matrix.Row(x) {
		rowW[m.rowGroup[c]]++
	}
	for _, r := range m.matrix.Col(x) {
		colW[m.rowGroup[r]]++
	}
	return rowW, colW
}
