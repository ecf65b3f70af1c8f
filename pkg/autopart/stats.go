package autopart

import "math"

// blockStats caches w(i,j) and P(i,j) for every ordered group pair together
// with log2(P) and log2(1-P), which every cost function needs.
type blockStats struct {
	w      [][]float64
	p      [][]float64
	logP   [][]float64
	logNeg [][]float64
}

// density is the Laplace-smoothed block density P = (w+0.5)/(n+1).
// It lies strictly inside (0, 1) for every 0 <= w <= n.
func density(w, n float64) float64 {
	return (w + 0.5) / (n + 1)
}

func newTable(k int) [][]float64 {
	t := make([][]float64, k)
	cells := make([]float64, k*k)
	for i := range t {
		t[i] = cells[i*k : (i+1)*k : (i+1)*k]
	}
	return t
}

// recompute rebuilds the block tables with one pass over the set cells
func (m *Model) recompute() {
	k := m.k
	s := blockStats{
		w:      newTable(k),
		p:      newTable(k),
		logP:   newTable(k),
		logNeg: newTable(k),
	}
	for r := 0; r < m.matrix.Size(); r++ {
		gi := m.rowGroup[r]
		for _, c := range m.matrix.Row(r) {
			s.w[gi][m.rowGroup[c]]++
		}
	}
	m.stats = s
	for i := 0; i < k; i++ {
		for j := 0; j < k; j++ {
			m.setDensity(i, j, density(s.w[i][j], m.BlockSize(i, j)))
		}
	}
}

func (m *Model) setDensity(i, j int, p float64) {
	m.stats.p[i][j] = p
	m.stats.logP[i][j] = math.Log2(p)
	m.stats.logNeg[i][j] = math.Log2(1 - p)
}

// BlockWeight returns the cached w(i,j), the number of edges from group i
// rows to group j columns
func (m *Model) BlockWeight(i, j int) float64 { return m.stats.w[i][j] }

// BlockDensity returns the cached P(i,j)
func (m *Model) BlockDensity(i, j int) float64 { return m.stats.p[i][j] }

// BlockSize returns n(i,j) = a_i * a_j
func (m *Model) BlockSize(i, j int) float64 {
	return float64(m.GroupSize(i)) * float64(m.GroupSize(j))
}

// scanBlockWeight counts w(i,j) directly from the matrix slice of the block
func (m *Model) scanBlockWeight(i, j int) float64 {
	return m.matrix.RangeSum(m.groupStart[i], m.groupStart[i+1], m.groupStart[j], m.groupStart[j+1])
}
