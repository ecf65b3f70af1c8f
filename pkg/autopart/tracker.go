package autopart

import (
	"encoding/json"
	"io"
	"os"
	"time"
)

// StepEvent is one line of the step log
type StepEvent struct {
	Step
	K               int     `json:"k"`
	GroupSizes      []int   `json:"group_sizes"`
	CodeCost        float64 `json:"code_cost"`
	DescriptionCost float64 `json:"description_cost"`
	TotalCost       float64 `json:"total_cost"`
	Timestamp       int64   `json:"timestamp"`
}

// StepTracker writes a JSON line per step
type StepTracker struct {
	closer  io.Closer
	encoder *json.Encoder
}

// NewStepTracker creates the file and returns a tracker writing to it
func NewStepTracker(filename string) (*StepTracker, error) {
	file, err := os.Create(filename)
	if err != nil {
		return nil, err
	}
	t := NewStepTrackerWriter(file)
	t.closer = file
	return t, nil
}

// NewStepTrackerWriter returns a tracker writing to w
func NewStepTrackerWriter(w io.Writer) *StepTracker {
	return &StepTracker{encoder: json.NewEncoder(w)}
}

// Observe implements Observer
func (st *StepTracker) Observe(step Step, view View) error {
	if st == nil {
		return nil
	}
	return st.encoder.Encode(StepEvent{
		Step:            step,
		K:               view.K(),
		GroupSizes:      view.GroupSizes(),
		CodeCost:        view.CodeCost(),
		DescriptionCost: view.DescriptionCost(),
		TotalCost:       view.TotalCost(),
		Timestamp:       time.Now().Unix(),
	})
}

// Close closes the underlying file, if the tracker owns one
func (st *StepTracker) Close() error {
	if st != nil && st.closer != nil {
		return st.closer.Close()
	}
	return nil
}
