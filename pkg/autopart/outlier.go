package autopart

import "sort"

// EdgeOutlier is an edge ranked by how much it contradicts its block
type EdgeOutlier struct {
	From     string  `json:"from"`
	To       string  `json:"to"`
	RowGroup int     `json:"row_group"`
	ColGroup int     `json:"col_group"`
	Score    float64 `json:"score"`
}

// withBlockWeight runs fn while block (i,j) pretends to hold weight w.
// The cached weight and density are restored on every exit path.
func (m *Model) withBlockWeight(i, j int, w float64, fn func()) {
	s := &m.stats
	savedW, savedP := s.w[i][j], s.p[i][j]
	savedLogP, savedLogNeg := s.logP[i][j], s.logNeg[i][j]
	defer func() {
		s.w[i][j], s.p[i][j] = savedW, savedP
		s.logP[i][j], s.logNeg[i][j] = savedLogP, savedLogNeg
	}()

	s.w[i][j] = w
	m.setDensity(i, j, density(w, m.BlockSize(i, j)))
	fn()
}

// OutlierScore returns how much the total cost drops (positive) or grows
// (negative) if block (i,j) held one edge less than observed. It is 0 for
// an empty block. The model is unchanged afterwards.
func (m *Model) OutlierScore(i, j int) float64 {
	w := m.stats.w[i][j]
	if w == 0 {
		return 0
	}
	before := m.TotalCost()
	var after float64
	m.withBlockWeight(i, j, w-1, func() {
		after = m.TotalCost()
	})
	return before - after
}

// EdgeOutliers scores every edge by the outlier score of its block and
// returns the limit highest, most suspicious first. limit <= 0 returns all.
func (m *Model) EdgeOutliers(limit int) []EdgeOutlier {
	scores := newTable(m.k)
	for i := 0; i < m.k; i++ {
		for j := 0; j < m.k; j++ {
			scores[i][j] = m.OutlierScore(i, j)
		}
	}

	var out []EdgeOutlier
	for u := 0; u < m.graph.NumNodes(); u++ {
		gi := m.nodeGroup[u]
		for _, v := range m.graph.Neighbors(u) {
			gj := m.nodeGroup[v]
			out = append(out, EdgeOutlier{
				From:     m.graph.Label(u),
				To:       m.graph.Label(v),
				RowGroup: gi,
				ColGroup: gj,
				Score:    scores[gi][gj],
			})
		}
	}
	sort.SliceStable(out, func(a, b int) bool { return out[a].Score > out[b].Score })

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
