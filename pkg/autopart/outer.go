package autopart

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/floats"
)

// Result represents the algorithm output
type Result struct {
	RunID           string         `json:"run_id"`
	K               int            `json:"k"`
	Groups          [][]string     `json:"groups"`
	Assignment      map[string]int `json:"assignment"`
	TotalCost       float64        `json:"total_cost"`
	CodeCost        float64        `json:"code_cost"`
	DescriptionCost float64        `json:"description_cost"`
	InitialCost     float64        `json:"initial_cost"`
	Blocks          []BlockInfo    `json:"blocks"`
	Statistics      Statistics     `json:"statistics"`

	// Model is the final grouping state, kept for outlier scoring
	Model *Model `json:"-"`
}

// BlockInfo describes one block of the final grouping
type BlockInfo struct {
	Row     int     `json:"row_group"`
	Col     int     `json:"col_group"`
	Weight  float64 `json:"weight"`
	Size    float64 `json:"size"`
	Density float64 `json:"density"`
}

// Statistics contains algorithm performance metrics
type Statistics struct {
	OuterSteps      int         `json:"outer_steps"`
	InnerIterations int         `json:"inner_iterations"`
	InnerRollbacks  int         `json:"inner_rollbacks"`
	TotalMoves      int         `json:"total_moves"`
	RejectedSplits  int         `json:"rejected_splits"`
	RuntimeMS       int64       `json:"runtime_ms"`
	MemoryPeakMB    int64       `json:"memory_peak_mb"`
	Splits          []SplitInfo `json:"splits"`
}

// SplitInfo records one outer step
type SplitInfo struct {
	K          int        `json:"k"`
	SplitGroup int        `json:"split_group"`
	Seeded     int        `json:"seeded"`
	CostBefore float64    `json:"cost_before"`
	CostAfter  float64    `json:"cost_after"`
	Accepted   bool       `json:"accepted"`
	Inner      InnerStats `json:"inner"`
}

// runner carries the per-run context shared by both loops
type runner struct {
	model     *Model
	config    *Config
	logger    zerolog.Logger
	observers []Observer
	eps       float64
	runID     string
	step      int

	// reassign proposes the next group of every node
	reassign func() []int
}

func newRunner(m *Model, config *Config, logger zerolog.Logger, observers []Observer) *runner {
	eps := config.Epsilon()
	if eps <= 0 {
		eps = Epsilon
	}
	return &runner{
		model:     m,
		config:    config,
		logger:    logger,
		observers: observers,
		eps:       eps,
		runID:     uuid.New().String(),
		reassign: func() []int {
			return m.reassign(config.Parallel(), config.NumWorkers())
		},
	}
}

// notify hands the current state to every observer. Observer failures are
// logged and never stop the run.
func (r *runner) notify(kind StepKind, iteration int) {
	step := Step{RunID: r.runID, Number: r.step, Kind: kind, Iteration: iteration}
	r.step++
	for _, obs := range r.observers {
		if err := obs.Observe(step, modelView{r.model}); err != nil {
			r.logger.Warn().Err(err).Int("step", step.Number).Msg("Observer failed")
		}
	}
}

// splitCandidate returns the group with the highest entropy per node,
// preferring the lowest index on ties
func (m *Model) splitCandidate() int {
	entropies := make([]float64, m.k)
	for g := range entropies {
		entropies[g] = m.GroupEntropyPerNode(g)
	}
	return floats.MaxIdx(entropies)
}

// seedSplit moves members of group g into the newest group while doing so
// lowers g's entropy per node. It returns the number of moved nodes.
func (m *Model) seedSplit(g int) (int, error) {
	moved := 0
	for _, node := range m.GroupMembers(g) {
		if m.GroupEntropyPerNodeExcluding(g, node) < m.GroupEntropyPerNode(g) {
			if err := m.moveNode(node, m.k-1); err != nil {
				return moved, err
			}
			moved++
		}
	}
	return moved, nil
}

// outerLoop grows k one split at a time until a split no longer lowers the
// total cost by eps. The failing split is undone, so the model ends in the
// cheapest grouping found.
func (r *runner) outerLoop(ctx context.Context, stats *Statistics) error {
	m := r.model
	maxGroups := r.config.MaxGroups()
	if maxGroups <= 0 || maxGroups > m.NumNodes() {
		maxGroups = m.NumNodes()
	}

	for outer := 0; m.k < maxGroups; outer++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		before := m.partition()
		prevCost := m.TotalCost()

		target := m.splitCandidate()
		if err := m.addGroup(); err != nil {
			return fmt.Errorf("add group %d: %w", m.k, err)
		}
		seeded, err := m.seedSplit(target)
		if err != nil {
			return fmt.Errorf("seed split of group %d: %w", target, err)
		}
		r.logger.Debug().
			Int("split_group", target).
			Int("seeded", seeded).
			Ints("group_sizes", m.GroupSizes()).
			Msg("After splitting")
		r.notify(StepOuter, outer)

		inner, err := r.innerLoop(ctx)
		if err != nil {
			return fmt.Errorf("inner loop at k=%d: %w", m.k, err)
		}
		stats.OuterSteps++
		stats.InnerIterations += inner.Iterations
		if inner.RolledBack {
			stats.InnerRollbacks++
		}
		stats.TotalMoves += inner.Moves + seeded

		cost := m.TotalCost()
		split := SplitInfo{
			K:          m.k,
			SplitGroup: target,
			Seeded:     seeded,
			CostBefore: prevCost,
			CostAfter:  cost,
			Accepted:   prevCost-cost >= r.eps,
			Inner:      inner,
		}
		stats.Splits = append(stats.Splits, split)

		r.logger.Info().
			Int("step", outer).
			Int("k", m.k).
			Ints("group_sizes", m.GroupSizes()).
			Float64("cost_before", prevCost).
			Float64("total_cost", cost).
			Bool("accepted", split.Accepted).
			Msg("Outer step")

		if !split.Accepted {
			if err := m.applyPartition(before); err != nil {
				return fmt.Errorf("restore grouping at k=%d: %w", len(before), err)
			}
			stats.RejectedSplits++
			break
		}
	}
	return nil
}

// Fit runs the outer loop on an existing model
func Fit(ctx context.Context, m *Model, config *Config, observers ...Observer) (*Result, error) {
	startTime := time.Now()
	logger := config.CreateLogger()
	r := newRunner(m, config, logger, observers)

	logger.Info().
		Str("run_id", r.runID).
		Int("nodes", m.NumNodes()).
		Int("edges", m.matrix.NNZ()).
		Msg("Starting Autopart")

	result := &Result{RunID: r.runID, InitialCost: m.TotalCost(), Model: m}
	r.notify(StepInit, 0)

	if err := r.outerLoop(ctx, &result.Statistics); err != nil {
		return nil, err
	}

	result.K = m.K()
	result.Groups = m.Groups()
	result.Assignment = m.Assignment()
	result.CodeCost = m.CodeCost()
	result.DescriptionCost = m.DescriptionCost()
	result.TotalCost = m.TotalCost()
	for i := 0; i < m.k; i++ {
		for j := 0; j < m.k; j++ {
			result.Blocks = append(result.Blocks, BlockInfo{
				Row:     i,
				Col:     j,
				Weight:  m.BlockWeight(i, j),
				Size:    m.BlockSize(i, j),
				Density: m.BlockDensity(i, j),
			})
		}
	}
	result.Statistics.RuntimeMS = time.Since(startTime).Milliseconds()
	result.Statistics.MemoryPeakMB = getMemoryUsage()

	logger.Info().
		Int("k", result.K).
		Float64("initial_cost", result.InitialCost).
		Float64("total_cost", result.TotalCost).
		Int64("runtime_ms", result.Statistics.RuntimeMS).
		Msg("Autopart completed")

	return result, nil
}

// Run executes the complete Autopart algorithm on g
func Run(ctx context.Context, g *Graph, config *Config, observers ...Observer) (*Result, error) {
	m, err := NewModel(g)
	if err != nil {
		return nil, err
	}
	return Fit(ctx, m, config, observers...)
}

// getMemoryUsage returns current memory usage in MB
func getMemoryUsage() int64 {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return int64(m.Alloc / 1024 / 1024)
}
