package autopart

import "gonum.org/v1/gonum/mat"

// StepKind tells which loop produced a step
type StepKind string

const (
	StepInit  StepKind = "init"
	StepOuter StepKind = "outer"
	StepInner StepKind = "inner"
)

// Step identifies one observable point of a run
type Step struct {
	RunID     string   `json:"run_id"`
	Number    int      `json:"step"`
	Kind      StepKind `json:"loop"`
	Iteration int      `json:"iteration"`
}

// View is the read-only surface of a Model handed to observers
type View interface {
	K() int
	NumNodes() int
	GroupSizes() []int
	Boundaries() []int
	BlockWeight(i, j int) float64
	BlockDensity(i, j int) float64
	CodeCost() float64
	DescriptionCost() float64
	TotalCost() float64
	AdjacencyMatrix() *mat.Dense
}

// Observer is called after every step of a run. Observers must not keep
// the view beyond the call and cannot influence the result.
type Observer interface {
	Observe(step Step, view View) error
}

// ObserverFunc adapts a function to Observer
type ObserverFunc func(step Step, view View) error

// Observe calls f
func (f ObserverFunc) Observe(step Step, view View) error { return f(step, view) }

// modelView exposes only the View methods of a Model, so observers cannot
// reach the mutating API through a type assertion
type modelView struct {
	m *Model
}

func (v modelView) K() int                        { return v.m.K() }
func (v modelView) NumNodes() int                 { return v.m.NumNodes() }
func (v modelView) GroupSizes() []int             { return v.m.GroupSizes() }
func (v modelView) Boundaries() []int             { return v.m.Boundaries() }
func (v modelView) BlockWeight(i, j int) float64  { return v.m.BlockWeight(i, j) }
func (v modelView) BlockDensity(i, j int) float64 { return v.m.BlockDensity(i, j) }
func (v modelView) CodeCost() float64             { return v.m.CodeCost() }
func (v modelView) DescriptionCost() float64      { return v.m.DescriptionCost() }
func (v modelView) TotalCost() float64            { return v.m.TotalCost() }
func (v modelView) AdjacencyMatrix() *mat.Dense   { return v.m.AdjacencyMatrix() }
