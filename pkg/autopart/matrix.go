package autopart

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// Matrix is a square sparse 0/1 matrix stored as sorted row and column
// index lists. cols is the transpose of rows and is kept in step with it.
type Matrix struct {
	n    int
	rows [][]int
	cols [][]int
	nnz  int
}

// NewMatrix builds the adjacency matrix of g in node index order
func NewMatrix(g *Graph) *Matrix {
	n := g.NumNodes()
	m := &Matrix{
		n:    n,
		rows: make([][]int, n),
		cols: make([][]int, n),
	}
	for u := 0; u < n; u++ {
		targets := g.Neighbors(u)
		m.rows[u] = append([]int(nil), targets...)
		for _, v := range targets {
			m.cols[v] = append(m.cols[v], u)
		}
		m.nnz += len(targets)
	}
	// u ascends in the outer loop so every column list is already sorted
	return m
}

// Size returns the dimension of the matrix
func (m *Matrix) Size() int { return m.n }

// NNZ returns the number of set cells
func (m *Matrix) NNZ() int { return m.nnz }

// Row returns the sorted column indices set in row r
func (m *Matrix) Row(r int) []int { return m.rows[r] }

// Col returns the sorted row indices set in column c
func (m *Matrix) Col(c int) []int { return m.cols[c] }

// At returns the cell value as 0 or 1
func (m *Matrix) At(r, c int) float64 {
	row := m.rows[r]
	pos := sort.SearchInts(row, c)
	if pos < len(row) && row[pos] == c {
		return 1
	}
	return 0
}

// RangeSum counts set cells in rows [r0, r1) and columns [c0, c1)
func (m *Matrix) RangeSum(r0, r1, c0, c1 int) float64 {
	if r0 >= r1 || c0 >= c1 {
		return 0
	}
	total := 0
	for r := r0; r < r1; r++ {
		total += countInRange(m.rows[r], c0, c1)
	}
	return float64(total)
}

// RowRangeSum counts set cells of row r in columns [c0, c1)
func (m *Matrix) RowRangeSum(r, c0, c1 int) float64 {
	return float64(countInRange(m.rows[r], c0, c1))
}

// ColRangeSum counts set cells of column c in rows [r0, r1)
func (m *Matrix) ColRangeSum(c, r0, r1 int) float64 {
	return float64(countInRange(m.cols[c], r0, r1))
}

func countInRange(sorted []int, lo, hi int) int {
	if lo >= hi {
		return 0
	}
	return sort.SearchInts(sorted, hi) - sort.SearchInts(sorted, lo)
}

// Permute reorders rows and columns together: new index i holds what old
// index order[i] held. order must be a permutation of [0, n).
func (m *Matrix) Permute(order []int) error {
	if len(order) != m.n {
		return fmt.Errorf("permutation length %d does not match matrix size %d", len(order), m.n)
	}
	inv := make([]int, m.n)
	for i := range inv {
		inv[i] = -1
	}
	for newIdx, oldIdx := range order {
		if oldIdx < 0 || oldIdx >= m.n || inv[oldIdx] != -1 {
			return fmt.Errorf("invalid permutation entry %d at position %d", oldIdx, newIdx)
		}
		inv[oldIdx] = newIdx
	}

	m.rows = gather(m.rows, order, inv)
	m.cols = gather(m.cols, order, inv)
	return nil
}

// gather builds the permuted index lists in one pass over the set cells
func gather(lists [][]int, order, inv []int) [][]int {
	out := make([][]int, len(lists))
	for newIdx, oldIdx := range order {
		src := lists[oldIdx]
		if len(src) == 0 {
			continue
		}
		dst := make([]int, len(src))
		for i, v := range src {
			dst[i] = inv[v]
		}
		sort.Ints(dst)
		out[newIdx] = dst
	}
	return out
}

// Dense materialises the matrix as a gonum dense matrix
func (m *Matrix) Dense() *mat.Dense {
	if m.n == 0 {
		return &mat.Dense{}
	}
	d := mat.NewDense(m.n, m.n, nil)
	for r, row := range m.rows {
		for _, c := range row {
			d.Set(r, c, 1)
		}
	}
	return d
}
