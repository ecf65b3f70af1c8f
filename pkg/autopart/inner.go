package autopart

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/floats"
)

// InnerStats summarises one run of the inner loop
type InnerStats struct {
	Iterations  int     `json:"iterations"`
	Moves       int     `json:"moves"`
	InitialCost float64 `json:"initial_cost"`
	FinalCost   float64 `json:"final_cost"`
	RolledBack  bool    `json:"rolled_back"`
}

// reassign returns the group with the lowest rearrange cost for every node.
// Ties go to the lowest group index.
func (m *Model) reassign(parallel bool, workers int) []int {
	n := m.NumNodes()
	next := make([]int, n)

	best := func(node int, costs []float64) int {
		rowW, colW := m.profile(node)
		for g := 0; g < m.k; g++ {
			costs[g] = m.rearrangeCost(rowW, colW, g)
		}
		return floats.MinIdx(costs)
	}

	if !parallel || workers <= 1 || n < 2*workers {
		costs := make([]float64, m.k)
		for node := 0; node < n; node++ {
			next[node] = best(node, costs)
		}
		return next
	}

	// every worker reads the cached statistics and writes its own slots
	chunk := (n + workers - 1) / workers
	var wg sync.WaitGroup
	for start := 0; start < n; start += chunk {
		end := start + chunk
		if end > n {
			end = n
		}
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			costs := make([]float64, m.k)
			for node := start; node < end; node++ {
				next[node] = best(node, costs)
			}
		}(start, end)
	}
	wg.Wait()
	return next
}

// groupsFromAssignment turns a node to group slice into member lists,
// keeping node index order inside each group
func groupsFromAssignment(assign []int, k int) [][]int {
	groups := make([][]int, k)
	for node, g := range assign {
		groups[g] = append(groups[g], node)
	}
	return groups
}

// innerLoop reassigns nodes at fixed k until the total cost stops falling
// by at least eps. An iteration that raises the cost is undone.
func (r *runner) innerLoop(ctx context.Context) (InnerStats, error) {
	m := r.model
	stats := InnerStats{InitialCost: m.TotalCost()}
	prevCost := stats.InitialCost

	for it := 0; it < r.config.MaxInnerIterations(); it++ {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		prevGroups := m.partition()
		next := r.reassign()
		moves := 0
		for node, g := range next {
			if g != m.nodeGroup[node] {
				moves++
				r.logger.Trace().Int("node", node).Int("from", m.nodeGroup[node]).Int("to", g).Msg("Move node")
			}
		}

		if err := m.applyPartition(groupsFromAssignment(next, m.k)); err != nil {
			return stats, fmt.Errorf("inner iteration %d: %w", it, err)
		}
		stats.Iterations++

		cost := m.TotalCost()
		if cost > prevCost {
			if err := m.applyPartition(prevGroups); err != nil {
				return stats, fmt.Errorf("restore inner iteration %d: %w", it, err)
			}
			stats.RolledBack = true
			r.logger.Debug().
				Int("iteration", it).
				Float64("rejected_cost", cost).
				Float64("cost", prevCost).
				Msg("Inner iteration raised total cost, restored previous grouping")
			break
		}

		stats.Moves += moves
		r.notify(StepInner, it)
		r.logger.Debug().
			Int("iteration", it).
			Int("moves", moves).
			Ints("group_sizes", m.GroupSizes()).
			Float64("total_cost", cost).
			Msg("Inner iteration")

		if prevCost-cost < r.eps {
			break
		}
		prevCost = cost
	}

	stats.FinalCost = m.TotalCost()
	return stats, nil
}

// InnerLoop runs the fixed-k search on its own with the given config.
// It is what Run calls after every split.
func (m *Model) InnerLoop(ctx context.Context, config *Config, logger zerolog.Logger) (InnerStats, error) {
	r := newRunner(m, config, logger, nil)
	return r.innerLoop(ctx)
}
