package autopart

import (
	"math"
	"sort"
)

// Epsilon is the default convergence threshold of both search loops and
// of the iterated logarithm
const Epsilon = 0.0001

// LogStar returns the universal code length log*(x) of a positive integer:
// log2(x) + log2(log2(x)) + ... summed while the terms stay above Epsilon
func LogStar(x float64) float64 {
	res := 0.0
	val := math.Log2(x)
	for val > Epsilon {
		res += val
		val = math.Log2(val)
	}
	return res
}

// bernoulliCost is the number of bits needed to send n cells of which w are
// set, given log2(P) and log2(1-P)
func bernoulliCost(w, n, logP, logNeg float64) float64 {
	return -w*logP - (n-w)*logNeg
}

// blockCodeCost returns C(D_ij), the bits needed to transmit block (i,j)
func (m *Model) blockCodeCost(i, j int) float64 {
	return bernoulliCost(m.stats.w[i][j], m.BlockSize(i, j), m.stats.logP[i][j], m.stats.logNeg[i][j])
}

// CodeCost returns the bits needed to transmit the matrix given the grouping
func (m *Model) CodeCost() float64 {
	cost := 0.0
	for i := 0; i < m.k; i++ {
		for j := 0; j < m.k; j++ {
			cost += m.blockCodeCost(i, j)
		}
	}
	return cost
}

func (m *Model) descriptionCostGroupCount() float64 {
	return LogStar(float64(m.k))
}

// descriptionCostGroupSizes charges the group sizes. With sizes sorted in
// descending order, step g sends a_g using ceil(log2(a'_g)) bits where
// a'_g = 1 - k + g + sum(a_g..a_{k-1}).
func (m *Model) descriptionCostGroupSizes() float64 {
	if m.k == 1 {
		return 0
	}
	sizes := m.GroupSizes()
	sort.Sort(sort.Reverse(sort.IntSlice(sizes)))

	suffix := 0
	for _, s := range sizes {
		suffix += s
	}
	cost := 0.0
	for g := 0; g < m.k-1; g++ {
		// several empty groups can push a' below 1; nothing is sent then
		if a := 1 - m.k + g + suffix; a > 1 {
			cost += math.Ceil(math.Log2(float64(a)))
		}
		suffix -= sizes[g]
	}
	return cost
}

func (m *Model) descriptionCostBlockWeights() float64 {
	cost := 0.0
	for i := 0; i < m.k; i++ {
		for j := 0; j < m.k; j++ {
			cost += math.Ceil(math.Log2(m.BlockSize(i, j) + 1))
		}
	}
	return cost
}

// DescriptionCost returns the bits needed to transmit the grouping: the
// number of groups, their sizes and the weight of every block
func (m *Model) DescriptionCost() float64 {
	return m.descriptionCostGroupCount() + m.descriptionCostGroupSizes() + m.descriptionCostBlockWeights()
}

// TotalCost is the objective minimised by the search
func (m *Model) TotalCost() float64 {
	return m.DescriptionCost() + m.CodeCost()
}

// RearrangeCost returns the cost of placing node's row and column into
// group i, evaluated against the cached block densities
func (m *Model) RearrangeCost(node, i int) float64 {
	rowW, colW := m.profile(node)
	return m.rearrangeCost(rowW, colW, i)
}

// rearrangeCost leaves out the correction for the node's diagonal cell,
// which is counted in both its row and its column.
func (m *Model) rearrangeCost(rowW, colW []float64, i int) float64 {
	cost := 0.0
	for j := 0; j < m.k; j++ {
		size := float64(m.GroupSize(j))
		cost += bernoulliCost(rowW[j], size, m.stats.logP[i][j], m.stats.logNeg[i][j])
		cost += bernoulliCost(colW[j], size, m.stats.logP[j][i], m.stats.logNeg[j][i])
	}
	return cost
}

// GroupEntropyPerNode returns the code cost of group g's rows and columns
// divided by its size, or 0 for an empty group
func (m *Model) GroupEntropyPerNode(g int) float64 {
	size := m.GroupSize(g)
	if size == 0 {
		return 0
	}
	entropy := 0.0
	for j := 0; j < m.k; j++ {
		entropy += m.blockCodeCost(g, j) + m.blockCodeCost(j, g)
	}
	return entropy / float64(size)
}

// GroupEntropyPerNodeExcluding predicts GroupEntropyPerNode(g) after node
// moves from g to the newest group k-1, without performing the move.
// It returns 0 when g has fewer than two members.
func (m *Model) GroupEntropyPerNodeExcluding(g, node int) float64 {
	size := m.GroupSize(g)
	if size <= 1 {
		return 0
	}

	x := m.nodeRow[node]
	diag := m.matrix.At(x, x)
	rest := float64(size - 1)
	newest := m.k - 1

	entropy := 0.0
	for j := 0; j < m.k; j++ {
		var n, wOut, wIn float64
		switch {
		case j == g:
			n = rest * rest
			wOut = m.stats.w[g][g] - m.rowWeight(x, g) - m.colWeight(x, g) + diag
			wIn = wOut
		case j == newest:
			n = rest * float64(m.GroupSize(j)+1)
			wOut = m.stats.w[g][j] - m.rowWeight(x, j) + m.colWeight(x, g) - diag
			wIn = m.stats.w[j][g] - m.colWeight(x, j) + m.rowWeight(x, g) - diag
		default:
			if m.GroupSize(j) == 0 {
				continue
			}
			n = rest * float64(m.GroupSize(j))
			wOut = m.stats.w[g][j] - m.rowWeight(x, j)
			wIn = m.stats.w[j][g] - m.colWeight(x, j)
		}
		pOut, pIn := density(wOut, n), density(wIn, n)
		entropy += bernoulliCost(wOut, n, math.Log2(pOut), math.Log2(1-pOut))
		entropy += bernoulliCost(wIn, n, math.Log2(pIn), math.Log2(1-pIn))
	}
	return entropy / rest
}
